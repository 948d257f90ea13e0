package export

import (
	"errors"
	"strings"
	"testing"

	"chessnav/internal/core"
	"chessnav/internal/testutil"
)

func parse(t *testing.T, text string) []core.Move {
	t.Helper()
	moves, err := core.ParseMoves(strings.Fields(text))
	testutil.MustNoError(t, err)
	return moves
}

func TestMoveText(t *testing.T) {
	tests := []struct {
		name  string
		moves string
		want  string
	}{
		{"empty", "", "#"},
		{"odd count", "e2e4 e7e5 g1f3", "1. Pe4 Pe5 2. Nf3#"},
		{"capture", "e2e4 d7d5 e4d5 d8d5", "1. Pe4 Pd5 2. Pxd5 Qxd5#"},
		{"en passant", "e2e4 a7a6 e4e5 d7d5 e5d6", "1. Pe4 Pa6 2. Pe5 Pd5 3. Pxd6#"},
		{"castle", "e2e4 e7e5 g1f3 g8f6 f1c4 f8c5 O-O O-O", "1. Pe4 Pe5 2. Nf3 Nf6 3. Bc4 Bc5 4. 0-0 0-0#"},
		{"promotion", "h2h4 g7g5 h4g5 h7h6 g5h6 f8g7 h6g7 e7e6 g7h8", "1. Ph4 Pg5 2. Pxg5 Ph6 3. Pxh6 Bg7 4. Pxg7 Pe6 5. Pxh8=Q#"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := MoveText(parse(t, tt.moves))
			testutil.MustNoError(t, err)
			testutil.AssertEqual(t, got, tt.want)
		})
	}
}

func TestDisambiguate(t *testing.T) {
	loc := func(s string) core.Location {
		l, err := core.ParseSquare(s)
		testutil.MustNoError(t, err)
		return l
	}
	tests := []struct {
		name       string
		candidates []string
		from       string
		want       string
	}{
		{"single", []string{"g1"}, "g1", ""},
		{"different files", []string{"b1", "f1"}, "b1", "b"},
		{"same file", []string{"a1", "a5"}, "a5", "5"},
		{"file and rank shared", []string{"a1", "a5", "e1"}, "a1", "a1"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var candidates []core.Location
			for _, s := range tt.candidates {
				candidates = append(candidates, loc(s))
			}
			testutil.AssertEqual(t, disambiguate(candidates, loc(tt.from)), tt.want)
		})
	}
}

func TestPGN(t *testing.T) {
	players := core.Players{White: "Alice", Black: "Bob"}
	pgn, err := PGN(parse(t, "f2f3 e7e5 g2g4 d8h4"), Tags("Casual", players, "2026.10.16")...)
	testutil.MustNoError(t, err)

	for _, want := range []string{`[White "Alice"]`, `[Black "Bob"]`, `[Event "Casual"]`, "1. f3 e5 2. g4 Qh4#", "0-1"} {
		testutil.AssertTrue(t, strings.Contains(pgn, want), "%q missing from\n%s", want, pgn)
	}
}

func TestPGNSpecialMoves(t *testing.T) {
	tests := []struct {
		name  string
		moves string
		want  string
	}{
		{"castling", "e2e4 e7e5 g1f3 g8f6 f1c4 f8c5 O-O O-O", "4. O-O O-O"},
		{"queen side", "d2d4 d7d5 b1c3 b8c6 c1f4 c8f5 d1d2 d8d7 O-O-O", "5. O-O-O"},
		{"promotion", "h2h4 g7g5 h4g5 h7h6 g5h6 f8g7 h6g7 e7e6 g7h8", "5. gxh8=Q"},
		{"en passant", "e2e4 a7a6 e4e5 d7d5 e5d6", "3. exd6"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			pgn, err := PGN(parse(t, tt.moves))
			testutil.MustNoError(t, err)
			testutil.AssertTrue(t, strings.Contains(pgn, tt.want), "%q missing from\n%s", tt.want, pgn)
		})
	}
}

func TestReplayRejectsIllegalMove(t *testing.T) {
	_, err := PGN(parse(t, "e2e4 e2e4"))
	var moveErr *core.MoveError
	testutil.AssertTrue(t, errors.As(err, &moveErr), "want MoveError, got %v", err)
	testutil.AssertEqual(t, moveErr.Ply, 2)

	_, err = MoveText(parse(t, "O-O"))
	testutil.AssertErrorIs(t, err, core.ErrCantCastle)
}
