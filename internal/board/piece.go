package board

import (
	"fmt"

	"chessnav/internal/core"
)

// Piece is a single chess man. Its identity is stable for the whole game:
// a capture deactivates it, it is never freed.
type Piece struct {
	id     int
	color  core.Color
	kind   core.Kind
	active bool
	loc    core.Location
}

func (p *Piece) ID() int                 { return p.id }
func (p *Piece) Color() core.Color       { return p.color }
func (p *Piece) Kind() core.Kind         { return p.kind }
func (p *Piece) Value() int              { return p.kind.Value() }
func (p *Piece) Active() bool            { return p.active }
func (p *Piece) Location() core.Location { return p.loc }

// Letter returns P/R/N/B/Q/K, lower case for black as in FEN
func (p *Piece) Letter() byte {
	l := p.kind.Letter()
	if p.color == core.ColorBlack {
		l += 'a' - 'A'
	}
	return l
}

func (p *Piece) String() string {
	return fmt.Sprintf("%s %s@%s", p.color.Name(), p.kind, p.loc)
}

// Fixed slot layout of a registry. Promoted pieces start at slotOverflow.
const (
	slotPawn     = 0  // a..h
	slotRook     = 8  // a, h
	slotKnight   = 10 // b, g
	slotBishop   = 12 // c, f
	slotQueen    = 14
	slotKing     = 15
	slotOverflow = 16
)

var homeLayout = [slotOverflow]struct {
	kind core.Kind
	file int
}{
	{core.Pawn, 0}, {core.Pawn, 1}, {core.Pawn, 2}, {core.Pawn, 3},
	{core.Pawn, 4}, {core.Pawn, 5}, {core.Pawn, 6}, {core.Pawn, 7},
	{core.Rook, 0}, {core.Rook, 7},
	{core.Knight, 1}, {core.Knight, 6},
	{core.Bishop, 2}, {core.Bishop, 5},
	{core.Queen, 3},
	{core.King, 4},
}

// Registry owns all pieces of one color: the 16 starting pieces plus an
// overflow list grown by promotion.
type Registry struct {
	color  core.Color
	pieces []*Piece
}

func NewRegistry(color core.Color) *Registry {
	r := &Registry{color: color, pieces: make([]*Piece, slotOverflow)}
	for i := range r.pieces {
		r.pieces[i] = &Piece{id: i, color: color, kind: homeLayout[i].kind}
	}
	r.Reset()
	return r
}

// Reset returns every fixed piece to its home square and drops promoted pieces.
// Piece identities of the fixed slots survive a reset.
func (r *Registry) Reset() {
	for i := 0; i < slotOverflow; i++ {
		p := r.pieces[i]
		rank := r.color.HomeRank()
		if p.kind == core.Pawn {
			rank = r.color.PawnRank()
		}
		p.kind = homeLayout[i].kind
		p.loc = core.Loc(homeLayout[i].file, rank)
		p.active = true
	}
	r.truncate(slotOverflow)
}

func (r *Registry) truncate(n int) {
	for i := n; i < len(r.pieces); i++ {
		r.pieces[i] = nil
	}
	r.pieces = r.pieces[:n]
}

func (r *Registry) Color() core.Color { return r.color }

func (r *Registry) King() *Piece { return r.pieces[slotKing] }

// Pieces returns every piece, active or not, in slot order
func (r *Registry) Pieces() []*Piece {
	return r.pieces
}

// Overflow returns the pieces created by promotion
func (r *Registry) Overflow() []*Piece {
	return r.pieces[slotOverflow:]
}

// Active returns the active pieces in slot order
func (r *Registry) Active() []*Piece {
	active := make([]*Piece, 0, len(r.pieces))
	for _, p := range r.pieces {
		if p.active {
			active = append(active, p)
		}
	}
	return active
}

// Promote allocates a new active queen at the given square
func (r *Registry) Promote(at core.Location) *Piece {
	q := &Piece{id: len(r.pieces), color: r.color, kind: core.Queen, active: true, loc: at}
	r.pieces = append(r.pieces, q)
	return q
}

// Release drops a promoted piece again. Only the most recently promoted piece
// can be released, which is always the case when promotions are undone in order.
func (r *Registry) Release(p *Piece) bool {
	n := len(r.pieces)
	if n <= slotOverflow || r.pieces[n-1] != p {
		return false
	}
	p.active = false
	r.truncate(n - 1)
	return true
}

// claim hands out an inactive fixed piece of the kind, or a new overflow piece
// when all fixed ones are in use. Used when setting up arbitrary positions.
func (r *Registry) claim(kind core.Kind, at core.Location) *Piece {
	for i := 0; i < slotOverflow; i++ {
		p := r.pieces[i]
		if p.kind == kind && !p.active {
			p.active = true
			p.loc = at
			return p
		}
	}
	p := &Piece{id: len(r.pieces), color: r.color, kind: kind, active: true, loc: at}
	r.pieces = append(r.pieces, p)
	return p
}

// deactivateAll takes every piece off the board, keeping fixed identities
func (r *Registry) deactivateAll() {
	for _, p := range r.pieces {
		p.active = false
	}
	r.truncate(slotOverflow)
}

func (r *Registry) clone() *Registry {
	c := &Registry{color: r.color, pieces: make([]*Piece, len(r.pieces))}
	for i, p := range r.pieces {
		cp := *p
		c.pieces[i] = &cp
	}
	return c
}
