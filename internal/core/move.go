package core

import (
	"fmt"
	"strings"
)

// Location is a board coordinate, file and rank both in [0,7] with a1 = (0,0)
type Location struct {
	File int
	Rank int
}

// NoLocation marks a square that is not on the board
var NoLocation = Location{File: -1, Rank: -1}

func Loc(file, rank int) Location {
	return Location{File: file, Rank: rank}
}

func (l Location) Valid() bool {
	return l.File >= 0 && l.File <= 7 && l.Rank >= 0 && l.Rank <= 7
}

// Offset returns the location shifted by df files and dr ranks, possibly off board
func (l Location) Offset(df, dr int) Location {
	return Location{File: l.File + df, Rank: l.Rank + dr}
}

func (l Location) String() string {
	if !l.Valid() {
		return "-"
	}
	return fmt.Sprintf("%c%c", 'a'+l.File, '1'+l.Rank)
}

// ParseSquare parses algebraic square names such as "e4"
func ParseSquare(s string) (Location, error) {
	if len(s) != 2 {
		return NoLocation, fmt.Errorf("%w: square %q", ErrIllegalInput, s)
	}
	file := int(strings.ToLower(s[:1])[0]) - 'a'
	rank := int(s[1]) - '1'
	l := Location{File: file, Rank: rank}
	if !l.Valid() {
		return NoLocation, fmt.Errorf("%w: square %q", ErrIllegalInput, s)
	}
	return l, nil
}

// Move is an origin/destination pair. Non-geometric moves are encoded as
// sentinels with negative coordinates.
type Move struct {
	From Location
	To   Location
}

var (
	KingSideCastle  = Move{From: Location{-1, -1}, To: Location{-1, -1}}
	QueenSideCastle = Move{From: Location{-2, -2}, To: Location{-2, -2}}
	QueenPromotion  = Move{From: Location{-3, -3}, To: Location{-3, -3}}
	KnightPromotion = Move{From: Location{-4, -4}, To: Location{-4, -4}}
	Exit            = Move{From: Location{-5, -5}, To: Location{-5, -5}}
)

func NewMove(from, to Location) Move {
	return Move{From: from, To: to}
}

func (m Move) IsCastle() bool {
	return m == KingSideCastle || m == QueenSideCastle
}

func (m Move) IsSentinel() bool {
	return m.From.File < 0
}

// Inverse swaps origin and destination
func (m Move) Inverse() Move {
	return Move{From: m.To, To: m.From}
}

func (m Move) String() string {
	switch m {
	case KingSideCastle:
		return "O-O"
	case QueenSideCastle:
		return "O-O-O"
	case QueenPromotion:
		return "=Q"
	case KnightPromotion:
		return "=N"
	case Exit:
		return "exit"
	}
	return m.From.String() + m.To.String()
}

// ParseMove is the inverse of Move.String
func ParseMove(s string) (Move, error) {
	switch s {
	case "O-O", "0-0":
		return KingSideCastle, nil
	case "O-O-O", "0-0-0":
		return QueenSideCastle, nil
	case "=Q":
		return QueenPromotion, nil
	case "=N":
		return KnightPromotion, nil
	case "exit":
		return Exit, nil
	}
	// Trailing promotion letter is tolerated, promotion is always to a queen
	if len(s) == 5 && (s[4] == 'q' || s[4] == 'Q') {
		s = s[:4]
	}
	if len(s) != 4 {
		return Move{}, fmt.Errorf("%w: move %q", ErrIllegalInput, s)
	}
	from, err := ParseSquare(s[:2])
	if err != nil {
		return Move{}, err
	}
	to, err := ParseSquare(s[2:])
	if err != nil {
		return Move{}, err
	}
	return Move{From: from, To: to}, nil
}

// ParseMoves parses a list of encoded moves, reporting the first bad entry
func ParseMoves(list []string) ([]Move, error) {
	moves := make([]Move, 0, len(list))
	for i, s := range list {
		m, err := ParseMove(s)
		if err != nil {
			return nil, &MoveError{Ply: i + 1, Text: s, Err: err}
		}
		moves = append(moves, m)
	}
	return moves, nil
}

// FormatMoves is the inverse of ParseMoves
func FormatMoves(moves []Move) []string {
	out := make([]string, len(moves))
	for i, m := range moves {
		out[i] = m.String()
	}
	return out
}
