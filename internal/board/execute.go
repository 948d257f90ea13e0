package board

import "chessnav/internal/core"

// Effects describes what a move did besides relocating the mover
type Effects struct {
	Mover     *Piece
	Captured  *Piece // also set for en passant
	EnPassant bool
	Promoted  *Piece // the pawn that left the board
	Queen     *Piece // the piece that replaced it
	Castle    bool
}

// CastleSquares returns king and rook origin and destination for a castle
func CastleSquares(c core.Color, kingSide bool) (king, rook core.Move) {
	home := c.HomeRank()
	if kingSide {
		return core.NewMove(core.Loc(4, home), core.Loc(6, home)),
			core.NewMove(core.Loc(7, home), core.Loc(5, home))
	}
	return core.NewMove(core.Loc(4, home), core.Loc(2, home)),
		core.NewMove(core.Loc(0, home), core.Loc(3, home))
}

// Execute performs a move of color c that is already known to be legal
func (b *Board) Execute(c core.Color, m core.Move) Effects {
	if m.IsCastle() {
		king, rook := CastleSquares(c, m == core.KingSideCastle)
		fx := Effects{Mover: b.At(king.From), Castle: true}
		b.Relocate(king.From, king.To)
		b.Relocate(rook.From, rook.To)
		b.kingMoved[c] = true
		b.lane = NoLane
		return fx
	}

	mover := b.At(m.From)
	fx := Effects{Mover: mover}

	// the en passant window of the previous move is consulted before it is replaced
	if victim := b.At(m.To); victim != nil {
		fx.Captured = victim
	} else if passed := b.enPassantVictim(mover, m.To); passed != nil {
		fx.Captured, fx.EnPassant = passed, true
	}
	b.lane = NoLane
	if mover.kind == core.Pawn && (m.To.Rank-m.From.Rank == 2 || m.From.Rank-m.To.Rank == 2) {
		b.lane = m.To.File
	}

	if fx.Captured != nil {
		b.Retire(fx.Captured)
	}
	b.Relocate(m.From, m.To)
	if mover.kind == core.King {
		b.kingMoved[c] = true
	}

	if mover.kind == core.Pawn && m.To.Rank == c.PromotionRank() {
		b.Retire(mover)
		fx.Promoted = mover
		fx.Queen = b.regs[c].Promote(m.To)
		b.grid[m.To.Rank][m.To.File] = fx.Queen
	}
	return fx
}

// Relocate moves whatever stands on from to the square to, which must be empty
func (b *Board) Relocate(from, to core.Location) {
	p := b.At(from)
	if p == nil {
		return
	}
	b.grid[from.Rank][from.File] = nil
	b.grid[to.Rank][to.File] = p
	p.loc = to
}

// Retire takes a piece off the board. It keeps its last location.
func (b *Board) Retire(p *Piece) {
	if b.At(p.loc) == p {
		b.grid[p.loc.Rank][p.loc.File] = nil
	}
	p.active = false
}

// Revive puts an inactive piece back on the board
func (b *Board) Revive(p *Piece, at core.Location) {
	p.active = true
	p.loc = at
	b.grid[at.Rank][at.File] = p
}

// Demote reverses a promotion: the queen is released from its registry and
// the pawn returns to the square it promoted from
func (b *Board) Demote(queen, pawn *Piece, from core.Location) {
	b.Retire(queen)
	b.regs[queen.color].Release(queen)
	b.Revive(pawn, from)
}

func (b *Board) SetLane(file int) { b.lane = file }

func (b *Board) SetKingMoved(c core.Color, moved bool) { b.kingMoved[c] = moved }
