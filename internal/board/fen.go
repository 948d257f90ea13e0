package board

import (
	"fmt"
	"strconv"
	"strings"

	"chessnav/internal/core"
)

const StartingFEN = "rnbqkbnr/pppppppp/8/8/8/8/PPPPPPPP/RNBQKBNR w KQkq - 0 1"

// ParseFEN sets up a board from a FEN record and returns it with the side to move.
// The board has no moved flags for rooks, so castling rights only clear the
// king-moved flag of a side that has none left. The halfmove clock is ignored.
func ParseFEN(fen string) (*Board, core.Color, error) {
	parts := strings.Fields(fen)
	if len(parts) != 6 {
		return nil, 0, fmt.Errorf("%w: expected 6 parts, got %d", core.ErrInvalidFEN, len(parts))
	}

	b := New()
	for _, r := range b.regs {
		r.deactivateAll()
	}
	b.grid = [8][8]*Piece{}

	ranks := strings.Split(parts[0], "/")
	if len(ranks) != 8 {
		return nil, 0, fmt.Errorf("%w: expected 8 ranks", core.ErrInvalidFEN)
	}
	for i, row := range ranks {
		rank := 7 - i
		file := 0
		for _, ch := range row {
			if ch >= '1' && ch <= '8' {
				file += int(ch - '0')
				continue
			}
			if file >= 8 {
				return nil, 0, fmt.Errorf("%w: too many pieces in rank %d", core.ErrInvalidFEN, rank+1)
			}
			kind, ok := core.KindFromLetter(byte(ch))
			if !ok {
				return nil, 0, fmt.Errorf("%w: unknown piece %q", core.ErrInvalidFEN, ch)
			}
			color := core.ColorWhite
			if ch >= 'a' {
				color = core.ColorBlack
			}
			if kind == core.King && b.regs[color].King().active {
				return nil, 0, fmt.Errorf("%w: more than one %s king", core.ErrInvalidFEN, color.Name())
			}
			at := core.Loc(file, rank)
			b.grid[rank][file] = b.regs[color].claim(kind, at)
			file++
		}
		if file != 8 {
			return nil, 0, fmt.Errorf("%w: rank %d has %d files", core.ErrInvalidFEN, rank+1, file)
		}
	}
	for _, r := range b.regs {
		if !r.King().active {
			return nil, 0, fmt.Errorf("%w: missing %s king", core.ErrInvalidFEN, r.color.Name())
		}
	}

	var turn core.Color
	switch parts[1] {
	case "w":
		turn = core.ColorWhite
	case "b":
		turn = core.ColorBlack
	default:
		return nil, 0, fmt.Errorf("%w: turn must be 'w' or 'b'", core.ErrInvalidFEN)
	}

	castling := parts[2]
	b.kingMoved[core.ColorWhite] = !strings.ContainsAny(castling, "KQ")
	b.kingMoved[core.ColorBlack] = !strings.ContainsAny(castling, "kq")

	if ep := parts[3]; ep != "-" {
		sq, err := core.ParseSquare(ep)
		if err != nil {
			return nil, 0, fmt.Errorf("%w: en passant square %q", core.ErrInvalidFEN, ep)
		}
		b.lane = sq.File
	}

	if _, err := strconv.Atoi(parts[4]); err != nil {
		return nil, 0, fmt.Errorf("%w: halfmove counter", core.ErrInvalidFEN)
	}
	if _, err := strconv.Atoi(parts[5]); err != nil {
		return nil, 0, fmt.Errorf("%w: fullmove counter", core.ErrInvalidFEN)
	}

	return b, turn, nil
}

// FEN renders the position. The halfmove clock is always 0.
func (b *Board) FEN(turn core.Color, fullmove int) string {
	var sb strings.Builder
	for r := 7; r >= 0; r-- {
		empty := 0
		for f := 0; f < 8; f++ {
			p := b.grid[r][f]
			if p == nil {
				empty++
				continue
			}
			if empty > 0 {
				sb.WriteByte(byte('0' + empty))
				empty = 0
			}
			sb.WriteByte(p.Letter())
		}
		if empty > 0 {
			sb.WriteByte(byte('0' + empty))
		}
		if r > 0 {
			sb.WriteByte('/')
		}
	}

	castling := b.castlingField()
	ep := "-"
	if b.lane != NoLane {
		// the side that just moved is the one not to move
		mover := turn.Opposite()
		ep = core.Loc(b.lane, mover.PawnRank()+mover.Forward()).String()
	}
	if fullmove < 1 {
		fullmove = 1
	}
	return fmt.Sprintf("%s %s %s %s 0 %d", sb.String(), turn, castling, ep, fullmove)
}

func (b *Board) castlingField() string {
	var sb strings.Builder
	for _, c := range []core.Color{core.ColorWhite, core.ColorBlack} {
		if b.kingMoved[c] || b.At(core.Loc(4, c.HomeRank())) != b.regs[c].King() {
			continue
		}
		for _, side := range []struct {
			file   int
			letter byte
		}{{7, 'K'}, {0, 'Q'}} {
			rook := b.At(core.Loc(side.file, c.HomeRank()))
			if rook == nil || rook.color != c || rook.kind != core.Rook {
				continue
			}
			l := side.letter
			if c == core.ColorBlack {
				l += 'a' - 'A'
			}
			sb.WriteByte(l)
		}
	}
	if sb.Len() == 0 {
		return "-"
	}
	return sb.String()
}
