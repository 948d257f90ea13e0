package board

import (
	"fmt"
	"strings"

	"chessnav/internal/core"
)

// NoLane means no pawn double-stepped on the previous move
const NoLane = -1

// Board is the 8x8 grid plus the state castling and en passant depend on.
// The grid only indexes pieces, the two registries own them.
type Board struct {
	grid      [8][8]*Piece // [rank][file]
	regs      [2]*Registry
	lane      int
	kingMoved [2]bool
}

// New returns a board set up in the initial position
func New() *Board {
	b := &Board{
		regs: [2]*Registry{NewRegistry(core.ColorWhite), NewRegistry(core.ColorBlack)},
	}
	b.Reset()
	return b
}

// Reset restores the initial position. Piece identities are kept.
func (b *Board) Reset() {
	for _, r := range b.regs {
		r.Reset()
	}
	b.lane = NoLane
	b.kingMoved = [2]bool{}
	b.reindex()
}

// reindex rebuilds the grid from the registries
func (b *Board) reindex() {
	b.grid = [8][8]*Piece{}
	for _, r := range b.regs {
		for _, p := range r.pieces {
			if p.active {
				b.grid[p.loc.Rank][p.loc.File] = p
			}
		}
	}
}

// At returns the active piece on a square, nil for empty or off-board squares
func (b *Board) At(l core.Location) *Piece {
	if !l.Valid() {
		return nil
	}
	return b.grid[l.Rank][l.File]
}

func (b *Board) Registry(c core.Color) *Registry { return b.regs[c] }

// Lane returns the file of the last pawn double-step, NoLane if there was none
func (b *Board) Lane() int { return b.lane }

func (b *Board) KingMoved(c core.Color) bool { return b.kingMoved[c] }

// Clone returns a deep copy with fresh piece identities mirroring the original ones
func (b *Board) Clone() *Board {
	c := &Board{
		regs:      [2]*Registry{b.regs[0].clone(), b.regs[1].clone()},
		lane:      b.lane,
		kingMoved: b.kingMoved,
	}
	c.reindex()
	return c
}

// Cell is what a renderer needs to know about one square
type Cell struct {
	Occupied bool
	Color    core.Color
	Letter   byte
}

// Cells returns all 64 squares indexed [rank][file] with a1 at [0][0]
func (b *Board) Cells() [8][8]Cell {
	var cells [8][8]Cell
	for r := 0; r < 8; r++ {
		for f := 0; f < 8; f++ {
			if p := b.grid[r][f]; p != nil {
				cells[r][f] = Cell{Occupied: true, Color: p.color, Letter: p.kind.Letter()}
			}
		}
	}
	return cells
}

// ToASCII creates an ASCII representation of the board, white at the bottom
func (b *Board) ToASCII() string {
	var sb strings.Builder
	sb.WriteString("  a b c d e f g h\n")
	for r := 7; r >= 0; r-- {
		sb.WriteString(fmt.Sprintf("%d ", r+1))
		for f := 0; f < 8; f++ {
			if p := b.grid[r][f]; p != nil {
				sb.WriteString(fmt.Sprintf("%c ", p.Letter()))
			} else {
				sb.WriteString(". ")
			}
		}
		sb.WriteString(fmt.Sprintf(" %d\n", r+1))
	}
	sb.WriteString("  a b c d e f g h")
	return sb.String()
}

// PieceState is the observable state of one registry slot
type PieceState struct {
	ID     int
	Kind   core.Kind
	Active bool
	Loc    core.Location
}

// Snapshot captures everything a position depends on. Two boards with equal
// snapshots are indistinguishable.
type Snapshot struct {
	White     []PieceState
	Black     []PieceState
	Lane      int
	KingMoved [2]bool
}

func (b *Board) Snapshot() Snapshot {
	states := func(r *Registry) []PieceState {
		out := make([]PieceState, len(r.pieces))
		for i, p := range r.pieces {
			out[i] = PieceState{ID: p.id, Kind: p.kind, Active: p.active, Loc: p.loc}
		}
		return out
	}
	return Snapshot{
		White:     states(b.regs[core.ColorWhite]),
		Black:     states(b.regs[core.ColorBlack]),
		Lane:      b.lane,
		KingMoved: b.kingMoved,
	}
}
