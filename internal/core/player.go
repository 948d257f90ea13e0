package core

import "strings"

const defaultPlayerName = "?"

// Players names both sides of a recorded game
type Players struct {
	White string `json:"white" validate:"omitempty,max=64"`
	Black string `json:"black" validate:"omitempty,max=64"`
}

// Name returns the player name for a color, "?" when unknown as in PGN
func (p Players) Name(c Color) string {
	name := p.White
	if c == ColorBlack {
		name = p.Black
	}
	name = strings.TrimSpace(name)
	if name == "" {
		return defaultPlayerName
	}
	return name
}

// Result is the PGN result token of a finished or abandoned game
type Result string

const (
	ResultWhiteWins Result = "1-0"
	ResultBlackWins Result = "0-1"
	ResultDraw      Result = "1/2-1/2"
	ResultUnknown   Result = "*"
)

// ResultFor maps the final state and the side to move onto a result token
func ResultFor(state State, toMove Color) Result {
	switch state {
	case StateCheckmate:
		if toMove == ColorWhite {
			return ResultBlackWins
		}
		return ResultWhiteWins
	case StateStalemate:
		return ResultDraw
	default:
		return ResultUnknown
	}
}
