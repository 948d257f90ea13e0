package game

import (
	"fmt"

	"chessnav/internal/board"
	"chessnav/internal/core"
)

// undo holds what a forward step cannot be inverted without:
// the captured piece, the promotion pair and the flags the move overwrote
type undo struct {
	captured  *board.Piece
	promoted  *board.Piece
	queen     *board.Piece
	lane      int
	kingMoved bool
}

// Navigator walks a recorded move list forward and backward from the
// initial position. The board is always a function of Index alone.
type Navigator struct {
	b     *board.Board
	moves []core.Move
	log   []undo // log[i] belongs to moves[i]
	index int
	done  bool
}

// New returns a navigator at index 0 over a copy of moves
func New(moves []core.Move) *Navigator {
	n := &Navigator{
		b:     board.New(),
		moves: append([]core.Move(nil), moves...),
	}
	n.log = make([]undo, len(n.moves))
	return n
}

// Validate replays moves from the initial position and reports the first illegal ply
func Validate(moves []core.Move) error {
	return New(moves).JumpToEnd()
}

func (n *Navigator) Board() *board.Board { return n.b }
func (n *Navigator) Index() int          { return n.index }
func (n *Navigator) Len() int            { return len(n.moves) }

// ColorToMove is White on even indices
func (n *Navigator) ColorToMove() core.Color { return core.ColorToMove(n.index) }

// Moves returns a copy of the recorded list
func (n *Navigator) Moves() []core.Move {
	return append([]core.Move(nil), n.moves...)
}

// Move returns the recorded move at 1-based ply
func (n *Navigator) Move(ply int) (core.Move, bool) {
	if ply < 1 || ply > len(n.moves) {
		return core.Move{}, false
	}
	return n.moves[ply-1], true
}

// Status classifies the current position for the side to move
func (n *Navigator) Status() core.State {
	return n.b.Status(n.ColorToMove())
}

// FEN renders the current position
func (n *Navigator) FEN() string {
	return n.b.FEN(n.ColorToMove(), n.index/2+1)
}

// Exit puts the navigator into its terminal state
func (n *Navigator) Exit()      { n.done = true }
func (n *Navigator) Done() bool { return n.done }

func (n *Navigator) StepForward() error {
	_, err := n.stepForward()
	return err
}

func (n *Navigator) stepForward() (board.Effects, error) {
	if n.done {
		return board.Effects{}, core.ErrGameOver
	}
	if n.index == len(n.moves) {
		return board.Effects{}, core.ErrNoFurtherMoves
	}
	m, c := n.moves[n.index], n.ColorToMove()
	if err := n.b.CheckMove(c, m); err != nil {
		return board.Effects{}, &core.MoveError{Ply: n.index + 1, Move: m, Err: err}
	}

	u := undo{lane: n.b.Lane(), kingMoved: n.b.KingMoved(c)}
	fx := n.b.Execute(c, m)
	u.captured, u.promoted, u.queen = fx.Captured, fx.Promoted, fx.Queen
	n.log[n.index] = u
	n.index++
	return fx, nil
}

func (n *Navigator) StepBackward() error {
	if n.done {
		return core.ErrGameOver
	}
	if n.index == 0 {
		return core.ErrNoPriorMoves
	}
	n.index--
	m, c, u := n.moves[n.index], n.ColorToMove(), n.log[n.index]
	n.log[n.index] = undo{}

	switch {
	case m.IsCastle():
		king, rook := board.CastleSquares(c, m == core.KingSideCastle)
		n.b.Relocate(king.To, king.From)
		n.b.Relocate(rook.To, rook.From)
	case u.queen != nil:
		n.b.Demote(u.queen, u.promoted, m.From)
	default:
		back := m.Inverse()
		n.b.Relocate(back.From, back.To)
	}
	// an en passant victim was never on the destination, it returns to where it was taken
	if u.captured != nil {
		n.b.Revive(u.captured, u.captured.Location())
	}
	n.b.SetLane(u.lane)
	n.b.SetKingMoved(c, u.kingMoved)
	return nil
}

// JumpToStart resets the board and forgets every undo record
func (n *Navigator) JumpToStart() error {
	if n.done {
		return core.ErrGameOver
	}
	n.b.Reset()
	n.index = 0
	clear(n.log)
	return nil
}

// JumpToEnd steps forward until the last recorded move
func (n *Navigator) JumpToEnd() error {
	for n.index < len(n.moves) {
		if err := n.StepForward(); err != nil {
			return err
		}
	}
	return nil
}

// Seek moves to the position after ply moves. It resets first when replaying
// from the start takes fewer steps than walking back.
func (n *Navigator) Seek(ply int) error {
	if ply < 0 || ply > len(n.moves) {
		return fmt.Errorf("%w: ply %d outside [0, %d]", core.ErrIllegalInput, ply, len(n.moves))
	}
	if ply < n.index-ply {
		if err := n.JumpToStart(); err != nil {
			return err
		}
	}
	for n.index > ply {
		if err := n.StepBackward(); err != nil {
			return err
		}
	}
	for n.index < ply {
		if err := n.StepForward(); err != nil {
			return err
		}
	}
	return nil
}

// truncate drops the recorded moves after the current position
func (n *Navigator) truncate() {
	n.moves = n.moves[:n.index]
	n.log = n.log[:n.index]
}

// push records a move after the current position and plays it
func (n *Navigator) push(m core.Move) (board.Effects, error) {
	n.truncate()
	n.moves = append(n.moves, m)
	n.log = append(n.log, undo{})
	fx, err := n.stepForward()
	if err != nil {
		n.truncate()
	}
	return fx, err
}

// captures sums the material each side took up to the current position
func (n *Navigator) captures() [2]int {
	var score [2]int
	for i, u := range n.log[:n.index] {
		if u.captured != nil {
			score[core.ColorToMove(i)] += u.captured.Value()
		}
	}
	return score
}
