// Package export renders recorded games as text.
package export

import (
	"fmt"
	"strings"

	"github.com/notnil/chess"

	"chessnav/internal/board"
	"chessnav/internal/core"
)

// Tag is a PGN tag pair
type Tag struct {
	Key   string
	Value string
}

// Tags builds the roster tags for a game
func Tags(event string, players core.Players, date string) []Tag {
	return []Tag{
		{"Event", event},
		{"Date", date},
		{"White", players.Name(core.ColorWhite)},
		{"Black", players.Name(core.ColorBlack)},
	}
}

// PGN replays moves and renders them in standard algebraic notation
func PGN(moves []core.Move, tags ...Tag) (string, error) {
	g := chess.NewGame()
	for _, t := range tags {
		g.AddTagPair(t.Key, t.Value)
	}

	err := replay(moves, func(_ int, b *board.Board, c core.Color, m core.Move) error {
		uci := UCI(b, c, m)
		cm, err := chess.UCINotation{}.Decode(g.Position(), uci)
		if err != nil {
			return err
		}
		return g.Move(cm)
	})
	if err != nil {
		return "", err
	}
	return g.String(), nil
}

// UCI encodes a move in long algebraic form: castling as the king's move
// and promotion with a trailing q
func UCI(b *board.Board, c core.Color, m core.Move) string {
	if m.IsCastle() {
		king, _ := board.CastleSquares(c, m == core.KingSideCastle)
		return king.String()
	}
	if p := b.At(m.From); p != nil && p.Kind() == core.Pawn && m.To.Rank == c.PromotionRank() {
		return m.String() + "q"
	}
	return m.String()
}

// MoveText renders the console's own notation: numbered move pairs, piece
// letter and destination, x for captures, 0-0 for castling, closed by #
func MoveText(moves []core.Move) (string, error) {
	var sb strings.Builder
	err := replay(moves, func(i int, b *board.Board, c core.Color, m core.Move) error {
		if c == core.ColorWhite {
			if i > 0 {
				sb.WriteByte(' ')
			}
			fmt.Fprintf(&sb, "%d. ", i/2+1)
		} else {
			sb.WriteByte(' ')
		}
		sb.WriteString(entry(b, c, m))
		return nil
	})
	if err != nil {
		return "", err
	}
	sb.WriteByte('#')
	return sb.String(), nil
}

func entry(b *board.Board, c core.Color, m core.Move) string {
	switch m {
	case core.KingSideCastle:
		return "0-0"
	case core.QueenSideCastle:
		return "0-0-0"
	}
	p := b.At(m.From)

	var sb strings.Builder
	sb.WriteByte(p.Kind().Letter())
	sb.WriteString(disambiguate(b.LegalOriginSquaresFor(m.To, p.Kind(), c), m.From))
	if b.At(m.To) != nil || (p.Kind() == core.Pawn && m.From.File != m.To.File) {
		sb.WriteByte('x')
	}
	sb.WriteString(m.To.String())
	if p.Kind() == core.Pawn && m.To.Rank == c.PromotionRank() {
		sb.WriteString("=Q")
	}
	return sb.String()
}

// disambiguate returns the shortest origin prefix that tells from apart
// from the other candidates
func disambiguate(candidates []core.Location, from core.Location) string {
	if len(candidates) < 2 {
		return ""
	}
	sameFile, sameRank := false, false
	for _, l := range candidates {
		if l == from {
			continue
		}
		sameFile = sameFile || l.File == from.File
		sameRank = sameRank || l.Rank == from.Rank
	}
	switch {
	case !sameFile:
		return from.String()[:1]
	case !sameRank:
		return from.String()[1:]
	default:
		return from.String()
	}
}

// replay feeds each move with the position before it to visit and plays it
func replay(moves []core.Move, visit func(i int, b *board.Board, c core.Color, m core.Move) error) error {
	b := board.New()
	for i, m := range moves {
		c := core.ColorToMove(i)
		if err := b.CheckMove(c, m); err != nil {
			return &core.MoveError{Ply: i + 1, Move: m, Err: err}
		}
		if err := visit(i, b, c, m); err != nil {
			return &core.MoveError{Ply: i + 1, Move: m, Err: err}
		}
		b.Execute(c, m)
	}
	return nil
}
