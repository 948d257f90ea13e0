package game

import (
	"fmt"

	"chessnav/internal/core"
)

// MoveResult tracks the outcome of a move
type MoveResult struct {
	Move      core.Move
	Player    core.Color
	Captured  core.Kind
	Capture   bool
	GameState core.State // state of the side to move next
	Score     int        // material taken so far by Player
}

// Session is a live two-player game. It is a navigator whose list grows as
// moves are played; playing after stepping back discards the later moves.
type Session struct {
	nav   *Navigator
	score [2]int
}

func NewSession() *Session {
	return &Session{nav: New(nil)}
}

// Resume continues a recorded game from its last position
func Resume(moves []core.Move) (*Session, error) {
	s := &Session{nav: New(moves)}
	if err := s.nav.JumpToEnd(); err != nil {
		return nil, err
	}
	s.score = s.nav.captures()
	return s, nil
}

func (s *Session) Navigator() *Navigator { return s.nav }

func (s *Session) ColorToMove() core.Color { return s.nav.ColorToMove() }

// Score returns the material color c has captured up to the current position
func (s *Session) Score(c core.Color) int { return s.score[c] }

// State is the status of the side to move
func (s *Session) State() core.State { return s.nav.Status() }

func (s *Session) Done() bool { return s.nav.Done() }

// Result is the PGN result token for the current position
func (s *Session) Result() core.Result {
	return core.ResultFor(s.State(), s.ColorToMove())
}

// Play validates and executes a move for the side to move.
// The Exit sentinel ends the session without touching the board.
func (s *Session) Play(m core.Move) (*MoveResult, error) {
	if s.nav.Done() {
		return nil, core.ErrGameOver
	}
	c := s.ColorToMove()
	if m == core.Exit {
		s.nav.Exit()
		return &MoveResult{Move: m, Player: c, GameState: s.State(), Score: s.score[c]}, nil
	}
	if s.State().Over() {
		return nil, core.ErrGameOver
	}
	if err := s.nav.Board().CheckMove(c, m); err != nil {
		return nil, err
	}

	fx, err := s.nav.push(m)
	if err != nil {
		return nil, err
	}
	s.score = s.nav.captures()

	result := &MoveResult{
		Move:      m,
		Player:    c,
		GameState: s.State(),
		Score:     s.score[c],
	}
	if fx.Captured != nil {
		result.Capture = true
		result.Captured = fx.Captured.Kind()
	}
	return result, nil
}

// Undo takes back the last count moves and forgets them
func (s *Session) Undo(count int) error {
	if count < 1 {
		return fmt.Errorf("%w: invalid undo count %d", core.ErrIllegalInput, count)
	}
	if s.nav.Index() < count {
		return fmt.Errorf("%w: cannot undo %d moves, only %d played", core.ErrNoPriorMoves, count, s.nav.Index())
	}
	for i := 0; i < count; i++ {
		if err := s.nav.StepBackward(); err != nil {
			return err
		}
	}
	s.nav.truncate()
	s.score = s.nav.captures()
	return nil
}

// Sync refreshes the score after the navigator was moved directly
func (s *Session) Sync() {
	s.score = s.nav.captures()
}
