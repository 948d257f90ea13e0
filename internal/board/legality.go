package board

import (
	"chessnav/internal/core"
)

// Simulate makes the move on the grid, evaluates pred and puts everything
// back before returning. A pawn taken en passant is lifted for the duration
// as well. Calls must not be nested.
func (b *Board) Simulate(m core.Move, pred func() bool) bool {
	mover := b.At(m.From)
	if mover == nil || !m.To.Valid() {
		return pred()
	}
	victim := b.At(m.To)
	var passed *Piece
	if victim == nil && mover.kind == core.Pawn && m.From.File != m.To.File {
		passed = b.enPassantVictim(mover, m.To)
	}

	defer func() {
		b.grid[m.From.Rank][m.From.File] = mover
		mover.loc = m.From
		b.grid[m.To.Rank][m.To.File] = victim
		if victim != nil {
			victim.active = true
		}
		if passed != nil {
			b.grid[passed.loc.Rank][passed.loc.File] = passed
			passed.active = true
		}
	}()

	if victim != nil {
		victim.active = false
	}
	if passed != nil {
		passed.active = false
		b.grid[passed.loc.Rank][passed.loc.File] = nil
	}
	b.grid[m.From.Rank][m.From.File] = nil
	b.grid[m.To.Rank][m.To.File] = mover
	mover.loc = m.To

	return pred()
}

// KingInCheck reports whether the king of color c is attacked
func (b *Board) KingInCheck(c core.Color) bool {
	return b.attackedBy(b.regs[c].King().loc, c.Opposite())
}

// CheckMove explains why a move by color c is not legal, nil if it is
func (b *Board) CheckMove(c core.Color, m core.Move) error {
	switch {
	case m.IsCastle():
		if !b.CanCastle(c, m == core.KingSideCastle) {
			return core.ErrCantCastle
		}
		return nil
	case m.IsSentinel():
		return core.ErrIllegalInput
	}

	p := b.At(m.From)
	if p == nil || p.color != c || !contains(b.PseudoLegal(p), m.To) {
		return core.ErrImpossibleMove
	}
	if b.Simulate(m, func() bool { return b.KingInCheck(c) }) {
		if b.KingInCheck(c) {
			return core.ErrKingInCheck
		}
		return core.ErrPutsKingInCheck
	}
	return nil
}

// IsLegal reports whether color c may make the move now
func (b *Board) IsLegal(c core.Color, m core.Move) bool {
	return b.CheckMove(c, m) == nil
}

// CanCastle checks every castling precondition for one side
func (b *Board) CanCastle(c core.Color, kingSide bool) bool {
	if b.kingMoved[c] || b.KingInCheck(c) {
		return false
	}
	home := c.HomeRank()
	king := b.regs[c].King()
	if b.At(core.Loc(4, home)) != king {
		return false
	}

	rookFile, between, path := 0, []int{1, 2, 3}, []int{3, 2}
	if kingSide {
		rookFile, between, path = 7, []int{5, 6}, []int{5, 6}
	}
	rook := b.At(core.Loc(rookFile, home))
	if rook == nil || rook.color != c || rook.kind != core.Rook {
		return false
	}
	for _, f := range between {
		if b.At(core.Loc(f, home)) != nil {
			return false
		}
	}
	for _, f := range path {
		if b.attackedBy(core.Loc(f, home), c.Opposite()) {
			return false
		}
	}
	return true
}

// LegalMoves returns every legal move of color c, castling included
func (b *Board) LegalMoves(c core.Color) []core.Move {
	var moves []core.Move
	for _, p := range b.regs[c].Active() {
		for _, to := range b.PseudoLegal(p) {
			m := core.NewMove(p.loc, to)
			if !b.Simulate(m, func() bool { return b.KingInCheck(c) }) {
				moves = append(moves, m)
			}
		}
	}
	if b.CanCastle(c, true) {
		moves = append(moves, core.KingSideCastle)
	}
	if b.CanCastle(c, false) {
		moves = append(moves, core.QueenSideCastle)
	}
	return moves
}

// HasLegalMove is LegalMoves without collecting, stopping at the first hit.
// Castling never matters here: a side that can castle has a king move too.
func (b *Board) HasLegalMove(c core.Color) bool {
	for _, p := range b.regs[c].Active() {
		for _, to := range b.PseudoLegal(p) {
			if !b.Simulate(core.NewMove(p.loc, to), func() bool { return b.KingInCheck(c) }) {
				return true
			}
		}
	}
	return false
}

// Status classifies the position for the side to move
func (b *Board) Status(c core.Color) core.State {
	check, moves := b.KingInCheck(c), b.HasLegalMove(c)
	switch {
	case !moves && check:
		return core.StateCheckmate
	case !moves:
		return core.StateStalemate
	case check:
		return core.StateCheck
	default:
		return core.StateOngoing
	}
}

// LegalOriginSquaresFor lists the squares of active pieces of the kind and
// color that can pseudo-legally reach dest. Self-check is not considered,
// so callers can tell an impossible move from an illegal one.
func (b *Board) LegalOriginSquaresFor(dest core.Location, kind core.Kind, c core.Color) []core.Location {
	var origins []core.Location
	for _, p := range b.regs[c].Active() {
		if p.kind == kind && contains(b.PseudoLegal(p), dest) {
			origins = append(origins, p.loc)
		}
	}
	return origins
}

func contains(locs []core.Location, l core.Location) bool {
	for _, x := range locs {
		if x == l {
			return true
		}
	}
	return false
}
