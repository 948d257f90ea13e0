package board

import "chessnav/internal/core"

type offset struct{ df, dr int }

var (
	axisDirs = []offset{{1, 0}, {-1, 0}, {0, 1}, {0, -1}}
	diagDirs = []offset{{1, 1}, {1, -1}, {-1, 1}, {-1, -1}}
	kingDirs = []offset{
		{1, 0}, {-1, 0}, {0, 1}, {0, -1},
		{1, 1}, {1, -1}, {-1, 1}, {-1, -1},
	}
	knightJumps = []offset{
		{1, 2}, {2, 1}, {2, -1}, {1, -2},
		{-1, -2}, {-2, -1}, {-2, 1}, {-1, 2},
	}
)

// accept decides whether a destination square is taken into the result
type accept func(to core.Location) bool

type generator func(b *Board, p *Piece) []core.Location

// generators dispatches move generation on the piece kind
var generators = [...]generator{
	core.Pawn:   (*Board).pawnMoves,
	core.Rook:   func(b *Board, p *Piece) []core.Location { return b.slide(p.loc, axisDirs, b.free(p), nil) },
	core.Knight: func(b *Board, p *Piece) []core.Location { return b.leap(p.loc, knightJumps, b.free(p), nil) },
	core.Bishop: func(b *Board, p *Piece) []core.Location { return b.slide(p.loc, diagDirs, b.free(p), nil) },
	core.Queen: func(b *Board, p *Piece) []core.Location {
		out := b.slide(p.loc, axisDirs, b.free(p), nil)
		return b.slide(p.loc, diagDirs, b.free(p), out)
	},
	core.King: func(b *Board, p *Piece) []core.Location { return b.leap(p.loc, kingDirs, b.kingCanTake(p), nil) },
}

// PseudoLegal returns the destinations of an active piece ignoring self-check.
// Castling is not included, it is a move of its own.
func (b *Board) PseudoLegal(p *Piece) []core.Location {
	if p == nil || !p.active {
		return nil
	}
	return generators[p.kind](b, p)
}

// free accepts empty squares and squares held by the opponent of p
func (b *Board) free(p *Piece) accept {
	return func(to core.Location) bool {
		q := b.At(to)
		return q == nil || q.color != p.color
	}
}

// kingCanTake accepts a square only if the king would not be attacked there.
// Squares next to the enemy king are rejected without simulating.
func (b *Board) kingCanTake(k *Piece) accept {
	free := b.free(k)
	enemy := b.regs[k.color.Opposite()].King()
	return func(to core.Location) bool {
		if !free(to) || adjacent(to, enemy.loc) {
			return false
		}
		return b.Simulate(core.NewMove(k.loc, to), func() bool {
			return !b.attackedBy(to, k.color.Opposite())
		})
	}
}

func adjacent(a, b core.Location) bool {
	df, dr := a.File-b.File, a.Rank-b.Rank
	return df >= -1 && df <= 1 && dr >= -1 && dr <= 1 && (df != 0 || dr != 0)
}

// slide walks each direction until the edge or the first occupied square,
// which ends the walk whether it was accepted or not
func (b *Board) slide(from core.Location, dirs []offset, ok accept, out []core.Location) []core.Location {
	for _, d := range dirs {
		for to := from.Offset(d.df, d.dr); to.Valid(); to = to.Offset(d.df, d.dr) {
			if ok(to) {
				out = append(out, to)
			}
			if b.At(to) != nil {
				break
			}
		}
	}
	return out
}

// leap tries each fixed offset independently
func (b *Board) leap(from core.Location, jumps []offset, ok accept, out []core.Location) []core.Location {
	for _, j := range jumps {
		if to := from.Offset(j.df, j.dr); to.Valid() && ok(to) {
			out = append(out, to)
		}
	}
	return out
}

func (b *Board) pawnMoves(p *Piece) []core.Location {
	var out []core.Location
	fwd := p.color.Forward()

	one := p.loc.Offset(0, fwd)
	if one.Valid() && b.At(one) == nil {
		out = append(out, one)
		two := one.Offset(0, fwd)
		if p.loc.Rank == p.color.PawnRank() && b.At(two) == nil {
			out = append(out, two)
		}
	}
	for _, df := range []int{-1, 1} {
		to := p.loc.Offset(df, fwd)
		if !to.Valid() {
			continue
		}
		if q := b.At(to); q != nil {
			if q.color != p.color {
				out = append(out, to)
			}
			continue
		}
		if b.enPassantVictim(p, to) != nil {
			out = append(out, to)
		}
	}
	return out
}

// enPassantVictim returns the pawn a diagonal step of p onto the empty square
// to would capture en passant, or nil
func (b *Board) enPassantVictim(p *Piece, to core.Location) *Piece {
	if p.kind != core.Pawn || b.lane == NoLane || to.File != b.lane || p.loc.Rank != p.color.EnPassantRank() {
		return nil
	}
	victim := b.At(core.Loc(to.File, p.loc.Rank))
	if victim == nil || victim.kind != core.Pawn || victim.color == p.color {
		return nil
	}
	return victim
}

// attackedBy reports whether any active piece of color by attacks the square.
// It scans outward from the square and never mutates the board.
func (b *Board) attackedBy(sq core.Location, by core.Color) bool {
	is := func(to core.Location, kinds ...core.Kind) bool {
		q := b.At(to)
		if q == nil || q.color != by {
			return false
		}
		for _, k := range kinds {
			if q.kind == k {
				return true
			}
		}
		return false
	}

	hit := false
	probe := func(kinds ...core.Kind) accept {
		return func(to core.Location) bool {
			if is(to, kinds...) {
				hit = true
			}
			return false
		}
	}
	b.slide(sq, axisDirs, probe(core.Rook, core.Queen), nil)
	b.slide(sq, diagDirs, probe(core.Bishop, core.Queen), nil)
	b.leap(sq, knightJumps, probe(core.Knight), nil)
	b.leap(sq, kingDirs, probe(core.King), nil)
	if hit {
		return true
	}

	// a pawn of color by attacks diagonally forward, so look one rank back
	for _, df := range []int{-1, 1} {
		if is(sq.Offset(df, -by.Forward()), core.Pawn) {
			return true
		}
	}
	return false
}
