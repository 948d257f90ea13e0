package core

import (
	"errors"
	"fmt"
	"strings"
)

// Sentinel errors for rejected input and moves. None of them is fatal and
// every operation returning one leaves the board untouched.
var (
	// ErrIllegalInput means the notation does not parse to a piece and square.
	ErrIllegalInput = errors.New("illegal input")

	// ErrImpossibleMove means no active piece of the mover can reach the square.
	ErrImpossibleMove = errors.New("no piece can make that move")

	// ErrAmbiguousOrigin means several pieces can reach the square and a choice is required.
	ErrAmbiguousOrigin = errors.New("ambiguous origin square")

	// ErrKingInCheck means the king is in check and the move does not resolve it.
	ErrKingInCheck = errors.New("king is in check")

	// ErrPutsKingInCheck means the move would expose the mover's king.
	ErrPutsKingInCheck = errors.New("move puts king in check")

	// ErrCantCastle means a castling precondition failed.
	ErrCantCastle = errors.New("cannot castle")

	ErrNoFurtherMoves = errors.New("no further moves")
	ErrNoPriorMoves   = errors.New("no prior moves")

	// ErrGameOver is returned for moves after checkmate, stalemate or exit.
	ErrGameOver = errors.New("game is over")

	ErrInvalidFEN = errors.New("invalid FEN")

	ErrGameNotFound = errors.New("game not found")
)

// Error codes for API responses
const (
	ErrCodeGameNotFound   = "GAME_NOT_FOUND"
	ErrCodeInvalidMove    = "INVALID_MOVE"
	ErrCodeInvalidRequest = "INVALID_REQUEST"
	ErrCodeInvalidContent = "INVALID_CONTENT_TYPE"
	ErrCodeOutOfRange     = "PLY_OUT_OF_RANGE"
	ErrCodeRateLimited    = "RATE_LIMIT_EXCEEDED"
	ErrCodeInternal       = "INTERNAL_ERROR"
)

// MoveError wraps a move failure with its position in a recorded game.
// It supports errors.Is/As through Unwrap.
type MoveError struct {
	Err  error
	Ply  int    // 1-based ply number, 0 if unknown
	Move Move   // decoded move, zero if decoding failed
	Text string // raw text, if the move came from text
}

func (e *MoveError) Error() string {
	var parts []string
	if e.Ply > 0 {
		parts = append(parts, fmt.Sprintf("ply %d", e.Ply))
	}
	switch {
	case e.Text != "":
		parts = append(parts, fmt.Sprintf("move %q", e.Text))
	case e.Move != (Move{}):
		parts = append(parts, fmt.Sprintf("move %s", e.Move))
	}
	prefix := strings.Join(parts, ", ")
	if e.Err == nil {
		return prefix
	}
	if prefix == "" {
		return e.Err.Error()
	}
	return fmt.Sprintf("%s: %v", prefix, e.Err)
}

func (e *MoveError) Unwrap() error {
	return e.Err
}
