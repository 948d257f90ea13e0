// Package notation turns console input into moves.
//
// Accepted forms, case-insensitive:
//
//	exit                 end the game
//	castle k, castle q   castling, also O-O and O-O-O
//	Pe4, Nf3             piece letter and destination square
//	e2e4, e7e8q          origin and destination square
package notation

import (
	"fmt"
	"strings"

	"chessnav/internal/board"
	"chessnav/internal/core"
)

// AmbiguousError is returned when several pieces can reach the destination.
// The caller picks one of Candidates and passes it to Resolve.
type AmbiguousError struct {
	Kind       core.Kind
	Dest       core.Location
	Candidates []core.Location
}

func (e *AmbiguousError) Error() string {
	origins := make([]string, len(e.Candidates))
	for i, l := range e.Candidates {
		origins[i] = l.String()
	}
	return fmt.Sprintf("%v: %s to %s from %s", core.ErrAmbiguousOrigin, e.Kind, e.Dest, strings.Join(origins, ", "))
}

func (e *AmbiguousError) Unwrap() error {
	return core.ErrAmbiguousOrigin
}

// Resolve completes the move with the 1-based choice among Candidates
func (e *AmbiguousError) Resolve(choice int) (core.Move, error) {
	if choice < 1 || choice > len(e.Candidates) {
		return core.Move{}, fmt.Errorf("%w: choose 1 to %d", core.ErrIllegalInput, len(e.Candidates))
	}
	return core.NewMove(e.Candidates[choice-1], e.Dest), nil
}

// Decode parses input for the side c against the current board. It checks
// that a piece can reach the square, not whether the move is legal under
// the check rules.
func Decode(b *board.Board, c core.Color, input string) (core.Move, error) {
	text := strings.ToLower(strings.Join(strings.Fields(input), " "))

	switch text {
	case "":
		return core.Move{}, core.ErrIllegalInput
	case "exit":
		return core.Exit, nil
	case "castle k", "castle king", "o-o", "0-0":
		return castle(b, c, true)
	case "castle q", "castle queen", "o-o-o", "0-0-0":
		return castle(b, c, false)
	}

	switch len(text) {
	case 3:
		return decodePiece(b, c, text)
	case 4, 5:
		return decodeSquares(b, c, text)
	}
	return core.Move{}, fmt.Errorf("%w: %q", core.ErrIllegalInput, input)
}

func castle(b *board.Board, c core.Color, kingSide bool) (core.Move, error) {
	if !b.CanCastle(c, kingSide) {
		return core.Move{}, core.ErrCantCastle
	}
	if kingSide {
		return core.KingSideCastle, nil
	}
	return core.QueenSideCastle, nil
}

func decodePiece(b *board.Board, c core.Color, text string) (core.Move, error) {
	kind, ok := core.KindFromLetter(text[0])
	if !ok {
		return core.Move{}, fmt.Errorf("%w: unknown piece %q", core.ErrIllegalInput, text[0])
	}
	dest, err := core.ParseSquare(text[1:])
	if err != nil {
		return core.Move{}, err
	}

	origins := b.LegalOriginSquaresFor(dest, kind, c)
	switch len(origins) {
	case 0:
		return core.Move{}, core.ErrImpossibleMove
	case 1:
		return core.NewMove(origins[0], dest), nil
	default:
		return core.Move{}, &AmbiguousError{Kind: kind, Dest: dest, Candidates: origins}
	}
}

func decodeSquares(b *board.Board, c core.Color, text string) (core.Move, error) {
	m, err := core.ParseMove(text)
	if err != nil {
		return core.Move{}, err
	}
	p := b.At(m.From)
	if p == nil || p.Color() != c {
		return core.Move{}, core.ErrImpossibleMove
	}
	for _, from := range b.LegalOriginSquaresFor(m.To, p.Kind(), c) {
		if from == m.From {
			return m, nil
		}
	}
	return core.Move{}, core.ErrImpossibleMove
}
