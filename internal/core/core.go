package core

type State int

const (
	StateOngoing State = iota
	StateCheck
	StateCheckmate
	StateStalemate
)

func (s State) String() string {
	switch s {
	case StateCheck:
		return "check"
	case StateCheckmate:
		return "checkmate"
	case StateStalemate:
		return "stalemate"
	case StateOngoing:
		return "ongoing"
	default:
		return "unknown"
	}
}

// Over reports whether the state ends the game
func (s State) Over() bool {
	return s == StateCheckmate || s == StateStalemate
}

type Color byte

const (
	ColorWhite Color = iota
	ColorBlack
)

func (c Color) String() string {
	if c == ColorWhite {
		return "w"
	}
	return "b"
}

// Name returns the capitalized color name used in prompts
func (c Color) Name() string {
	if c == ColorWhite {
		return "White"
	}
	return "Black"
}

func (c Color) Opposite() Color {
	if c == ColorWhite {
		return ColorBlack
	}
	return ColorWhite
}

// Forward returns the rank direction pawns of this color advance in
func (c Color) Forward() int {
	if c == ColorWhite {
		return 1
	}
	return -1
}

// HomeRank is the rank holding the king and rooks at the start
func (c Color) HomeRank() int {
	if c == ColorWhite {
		return 0
	}
	return 7
}

// PawnRank is the starting rank of the pawns
func (c Color) PawnRank() int {
	return c.HomeRank() + c.Forward()
}

// PromotionRank is the far rank a pawn promotes on
func (c Color) PromotionRank() int {
	if c == ColorWhite {
		return 7
	}
	return 0
}

// EnPassantRank is the rank a pawn must stand on to capture en passant
func (c Color) EnPassantRank() int {
	if c == ColorWhite {
		return 4
	}
	return 3
}

// ColorToMove derives the side to move from the number of plies played
func ColorToMove(ply int) Color {
	if ply%2 == 0 {
		return ColorWhite
	}
	return ColorBlack
}

type Kind byte

const (
	Pawn Kind = iota
	Rook
	Knight
	Bishop
	Queen
	King
)

// KingValue is the material sentinel for the king, which is never captured
const KingValue = -1

var kindLetters = [...]byte{'P', 'R', 'N', 'B', 'Q', 'K'}

func (k Kind) Letter() byte {
	if int(k) < len(kindLetters) {
		return kindLetters[k]
	}
	return '?'
}

func (k Kind) String() string {
	switch k {
	case Pawn:
		return "pawn"
	case Rook:
		return "rook"
	case Knight:
		return "knight"
	case Bishop:
		return "bishop"
	case Queen:
		return "queen"
	case King:
		return "king"
	default:
		return "unknown"
	}
}

// Value returns the material score of the piece kind
func (k Kind) Value() int {
	switch k {
	case Pawn:
		return 1
	case Knight, Bishop:
		return 3
	case Rook:
		return 5
	case Queen:
		return 9
	default:
		return KingValue
	}
}

// KindFromLetter maps P/R/N/B/Q/K (either case) to a Kind
func KindFromLetter(c byte) (Kind, bool) {
	if c >= 'a' && c <= 'z' {
		c -= 'a' - 'A'
	}
	for i, l := range kindLetters {
		if l == c {
			return Kind(i), true
		}
	}
	return 0, false
}
