package board

import (
	"errors"
	"sort"
	"testing"

	"chessnav/internal/core"
	"chessnav/internal/testutil"
)

func mustFEN(t *testing.T, fen string) (*Board, core.Color) {
	t.Helper()
	b, turn, err := ParseFEN(fen)
	testutil.MustNoError(t, err, "ParseFEN(%q)", fen)
	return b, turn
}

func sq(t *testing.T, s string) core.Location {
	t.Helper()
	l, err := core.ParseSquare(s)
	testutil.MustNoError(t, err)
	return l
}

func mv(t *testing.T, s string) core.Move {
	t.Helper()
	m, err := core.ParseMove(s)
	testutil.MustNoError(t, err)
	return m
}

func squares(locs []core.Location) []string {
	out := make([]string, len(locs))
	for i, l := range locs {
		out[i] = l.String()
	}
	sort.Strings(out)
	return out
}

func TestNewBoard(t *testing.T) {
	b := New()

	testutil.AssertEqual(t, b.FEN(core.ColorWhite, 1), StartingFEN)
	testutil.AssertEqual(t, len(b.LegalMoves(core.ColorWhite)), 20)
	testutil.AssertEqual(t, len(b.LegalMoves(core.ColorBlack)), 20)
	testutil.AssertEqual(t, b.Lane(), NoLane)

	for _, c := range []core.Color{core.ColorWhite, core.ColorBlack} {
		reg := b.Registry(c)
		testutil.AssertEqual(t, len(reg.Pieces()), 16)
		testutil.AssertEqual(t, reg.King().Location(), core.Loc(4, c.HomeRank()))
		for i, p := range reg.Pieces() {
			testutil.AssertEqual(t, p.ID(), i)
			testutil.AssertTrue(t, b.At(p.Location()) == p, "slot %d not indexed", i)
		}
	}
}

func TestFENRoundTrip(t *testing.T) {
	tests := []struct {
		name string
		fen  string
	}{
		{"start", StartingFEN},
		{"castling rooks", "r3k2r/8/8/8/8/8/8/R3K2R w KQkq - 0 1"},
		{"en passant", "rnbqkbnr/ppp1pppp/8/8/3pP3/8/PPPP1PPP/RNBQKBNR b KQkq e3 0 3"},
		{"no castling", "6rk/5Npp/8/8/8/8/8/4K3 b - - 0 1"},
		{"extra queens", "QQQQ3k/8/8/8/8/8/8/K7 w - - 0 40"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			b, turn := mustFEN(t, tt.fen)
			var fullmove int
			switch tt.name {
			case "en passant":
				fullmove = 3
			case "extra queens":
				fullmove = 40
			default:
				fullmove = 1
			}
			testutil.AssertEqual(t, b.FEN(turn, fullmove), tt.fen)
		})
	}
}

func TestParseFENErrors(t *testing.T) {
	tests := []struct {
		name string
		fen  string
	}{
		{"too few parts", "8/8/8/8/8/8/8/8 w - -"},
		{"seven ranks", "8/8/8/8/8/8/8 w - - 0 1"},
		{"missing king", "4k3/8/8/8/8/8/8/8 w - - 0 1"},
		{"two kings", "4k3/8/8/8/8/8/8/3KK3 w - - 0 1"},
		{"bad piece", "4k3/8/8/8/8/8/8/3XK3 w - - 0 1"},
		{"long rank", "4k3/8/8/8/8/8/8/4K4 w - - 0 1"},
		{"bad turn", "4k3/8/8/8/8/8/8/4K3 x - - 0 1"},
		{"bad en passant", "4k3/8/8/8/8/8/8/4K3 w - z9 0 1"},
		{"bad counter", "4k3/8/8/8/8/8/8/4K3 w - - x 1"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, _, err := ParseFEN(tt.fen)
			testutil.AssertErrorIs(t, err, core.ErrInvalidFEN)
		})
	}
}

func TestScansStopAtFirstOccupiedSquare(t *testing.T) {
	b, _ := mustFEN(t, "4k3/8/8/3P4/1P1R2p1/8/3P4/4K3 w - - 0 1")
	rook := b.At(sq(t, "d4"))
	testutil.AssertEqual(t, squares(b.PseudoLegal(rook)), []string{"c4", "d3", "e4", "f4", "g4"})

	b, _ = mustFEN(t, "4k3/8/5p2/8/3B4/8/1P6/4K3 w - - 0 1")
	bishop := b.At(sq(t, "d4"))
	testutil.AssertEqual(t, squares(b.PseudoLegal(bishop)),
		[]string{"a7", "b6", "c3", "c5", "e3", "e5", "f2", "f6", "g1"})
}

func TestPawnScanAtBoardEdge(t *testing.T) {
	b, _ := mustFEN(t, "4k3/8/8/8/8/6p1/7P/4K3 w - - 0 1")
	pawn := b.At(sq(t, "h2"))
	testutil.AssertEqual(t, squares(b.PseudoLegal(pawn)), []string{"g3", "h3", "h4"})

	b, _ = mustFEN(t, "4k3/8/8/8/8/1p6/P7/4K3 w - - 0 1")
	pawn = b.At(sq(t, "a2"))
	testutil.AssertEqual(t, squares(b.PseudoLegal(pawn)), []string{"a3", "a4", "b3"})
}

func TestKingInCheck(t *testing.T) {
	tests := []struct {
		name  string
		fen   string
		color core.Color
		want  bool
	}{
		{"start", StartingFEN, core.ColorWhite, false},
		{"rook on file", "4k3/8/8/8/8/8/8/4K2r w - - 0 1", core.ColorWhite, true},
		{"rook blocked", "4k3/8/8/8/8/8/8/r2NK3 w - - 0 1", core.ColorWhite, false},
		{"bishop diagonal", "4k3/8/8/8/1b6/8/8/4K3 w - - 0 1", core.ColorWhite, true},
		{"knight", "4k3/8/8/8/8/3n4/8/4K3 w - - 0 1", core.ColorWhite, true},
		{"pawn attacks diagonally", "4k3/8/8/8/8/8/3p4/4K3 w - - 0 1", core.ColorWhite, true},
		{"pawn in front does not attack", "4k3/8/8/8/8/8/4p3/4K3 w - - 0 1", core.ColorWhite, false},
		{"white pawn attacks black king", "4k3/3P4/8/8/8/8/8/4K3 b - - 0 1", core.ColorBlack, true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			b, _ := mustFEN(t, tt.fen)
			testutil.AssertEqual(t, b.KingInCheck(tt.color), tt.want)
		})
	}
}

func TestInspectionDoesNotMutate(t *testing.T) {
	b, turn := mustFEN(t, "r3k2r/p1ppqpb1/bn2pnp1/3PN3/1p2P3/2N2Q1p/PPPBBPPP/R3K2R w KQkq - 0 1")
	before := b.Snapshot()
	for i := 0; i < 3; i++ {
		b.KingInCheck(turn)
		b.LegalMoves(turn)
		b.LegalMoves(turn.Opposite())
		b.Status(turn)
		b.CanCastle(turn, true)
	}
	testutil.AssertEqual(t, b.Snapshot(), before)
	testutil.AssertEqual(t, b.FEN(turn, 1), "r3k2r/p1ppqpb1/bn2pnp1/3PN3/1p2P3/2N2Q1p/PPPBBPPP/R3K2R w KQkq - 0 1")
}

func TestLegalMovesNeverLeaveKingInCheck(t *testing.T) {
	fens := []string{
		StartingFEN,
		"r3k2r/p1ppqpb1/bn2pnp1/3PN3/1p2P3/2N2Q1p/PPPBBPPP/R3K2R w KQkq - 0 1",
		"8/2p5/3p4/KP5r/1R3p1k/8/4P1P1/8 w - - 0 1",
		"r3k2r/Pppp1ppp/1b3nbN/nP6/BBP1P3/q4N2/Pp1P2PP/R2Q1RK1 w kq - 0 1",
		"8/8/8/KPp4r/8/8/8/7k w - c6 0 1",
	}
	for _, fen := range fens {
		b, turn := mustFEN(t, fen)
		for _, m := range b.LegalMoves(turn) {
			c := b.Clone()
			c.Execute(turn, m)
			testutil.AssertFalse(t, c.KingInCheck(turn), "%s: %s leaves king in check", fen, m)
		}
	}
}

func TestEnPassant(t *testing.T) {
	const fen = "4k3/8/8/8/6p1/8/5P2/4K3 w - - 0 1"

	t.Run("capture on the next move", func(t *testing.T) {
		b, _ := mustFEN(t, fen)
		white := b.At(sq(t, "f2"))
		b.Execute(core.ColorWhite, mv(t, "f2f4"))
		testutil.AssertEqual(t, b.Lane(), 5)

		capture := mv(t, "g4f3")
		testutil.MustNoError(t, b.CheckMove(core.ColorBlack, capture))
		fx := b.Execute(core.ColorBlack, capture)

		testutil.AssertTrue(t, fx.EnPassant)
		testutil.AssertTrue(t, fx.Captured == white, "captured the wrong piece")
		testutil.AssertFalse(t, white.Active())
		testutil.AssertTrue(t, b.At(sq(t, "f4")) == nil, "victim still on f4")
		testutil.AssertEqual(t, b.At(sq(t, "f3")).Kind(), core.Pawn)
		testutil.AssertEqual(t, b.At(sq(t, "f3")).Color(), core.ColorBlack)
		testutil.AssertEqual(t, b.Lane(), NoLane)
	})

	t.Run("window closes after one move", func(t *testing.T) {
		b, _ := mustFEN(t, fen)
		b.Execute(core.ColorWhite, mv(t, "f2f4"))
		b.Execute(core.ColorBlack, mv(t, "e8d8"))
		b.Execute(core.ColorWhite, mv(t, "e1d1"))
		testutil.AssertErrorIs(t, b.CheckMove(core.ColorBlack, mv(t, "g4f3")), core.ErrImpossibleMove)
	})

	t.Run("capture exposing the king is rejected", func(t *testing.T) {
		b, turn := mustFEN(t, "8/8/8/KPp4r/8/8/8/7k w - c6 0 1")
		testutil.AssertErrorIs(t, b.CheckMove(turn, mv(t, "b5c6")), core.ErrPutsKingInCheck)
		testutil.AssertEqual(t, b.FEN(turn, 1), "8/8/8/KPp4r/8/8/8/7k w - c6 0 1")
	})
}

func TestPromotion(t *testing.T) {
	b, _ := mustFEN(t, "8/P6k/8/8/8/8/8/K7 w - - 0 1")
	pawn := b.At(sq(t, "a7"))
	fx := b.Execute(core.ColorWhite, mv(t, "a7a8"))

	testutil.AssertTrue(t, fx.Promoted == pawn, "promoted piece is not the pawn")
	testutil.AssertFalse(t, pawn.Active())
	testutil.AssertEqual(t, b.At(sq(t, "a8")).Kind(), core.Queen)
	testutil.AssertTrue(t, b.At(sq(t, "a8")) == fx.Queen, "queen not on a8")
	testutil.AssertEqual(t, len(b.Registry(core.ColorWhite).Overflow()), 1)

	b.Demote(fx.Queen, pawn, sq(t, "a7"))
	testutil.AssertTrue(t, b.At(sq(t, "a7")) == pawn, "pawn not restored")
	testutil.AssertFalse(t, fx.Queen.Active())
	testutil.AssertEqual(t, len(b.Registry(core.ColorWhite).Overflow()), 0)
}

func TestCastling(t *testing.T) {
	tests := []struct {
		name      string
		fen       string
		kingSide  bool
		queenSide bool
	}{
		{"both free", "r3k2r/8/8/8/8/8/8/R3K2R w KQkq - 0 1", true, true},
		{"f1 attacked", "r3kr2/8/8/8/8/8/8/R3K2R w KQq - 0 1", false, true},
		{"d1 attacked", "r2rk3/8/8/8/8/8/8/R3K2R w KQ - 0 1", true, false},
		{"only b1 attacked", "1r2k2r/8/8/8/8/8/8/R3K2R w KQk - 0 1", true, true},
		{"b1 occupied", "r3k2r/8/8/8/8/8/8/RN2K2R w KQkq - 0 1", true, false},
		{"in check", "4k3/4r3/8/8/8/8/8/R3K2R w KQ - 0 1", false, false},
		{"king moved", "r3k2r/8/8/8/8/8/8/R3K2R w kq - 0 1", false, false},
		{"rook missing", "r3k2r/8/8/8/8/8/8/4K2R w Kkq - 0 1", true, false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			b, _ := mustFEN(t, tt.fen)
			testutil.AssertEqual(t, b.CanCastle(core.ColorWhite, true), tt.kingSide, "king side")
			testutil.AssertEqual(t, b.CanCastle(core.ColorWhite, false), tt.queenSide, "queen side")
		})
	}

	t.Run("execute king side", func(t *testing.T) {
		b, _ := mustFEN(t, "r3k2r/8/8/8/8/8/8/R3K2R w KQkq - 0 1")
		king, rook := b.At(sq(t, "e1")), b.At(sq(t, "h1"))
		fx := b.Execute(core.ColorWhite, core.KingSideCastle)

		testutil.AssertTrue(t, fx.Castle)
		testutil.AssertTrue(t, b.At(sq(t, "g1")) == king, "king not on g1")
		testutil.AssertTrue(t, b.At(sq(t, "f1")) == rook, "rook not on f1")
		testutil.AssertTrue(t, b.KingMoved(core.ColorWhite))
		testutil.AssertFalse(t, b.CanCastle(core.ColorWhite, false))
	})

	t.Run("execute queen side", func(t *testing.T) {
		b, _ := mustFEN(t, "r3k2r/8/8/8/8/8/8/R3K2R b KQkq - 0 1")
		b.Execute(core.ColorBlack, core.QueenSideCastle)
		testutil.AssertEqual(t, b.FEN(core.ColorWhite, 1), "2kr3r/8/8/8/8/8/8/R3K2R w KQ - 0 1")
	})
}

func TestStatus(t *testing.T) {
	tests := []struct {
		name string
		fen  string
		want core.State
	}{
		{"start", StartingFEN, core.StateOngoing},
		{"fool's mate", "rnb1kbnr/pppp1ppp/8/4p3/6Pq/5P2/PPPPP2P/RNBQKBNR w KQkq - 1 3", core.StateCheckmate},
		{"smothered mate", "6rk/5Npp/8/8/8/8/8/4K3 b - - 0 1", core.StateCheckmate},
		{"back rank mate", "6k1/8/8/8/8/8/5PPP/4r1K1 w - - 0 1", core.StateCheckmate},
		{"check with escape", "4k3/8/8/8/8/8/r7/4K3 w - - 0 1", core.StateOngoing},
		{"check", "4k3/8/8/8/8/8/8/r3K3 w - - 0 1", core.StateCheck},
		{"stalemate", "7k/5Q2/6K1/8/8/8/8/8 b - - 0 1", core.StateStalemate},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			b, turn := mustFEN(t, tt.fen)
			testutil.AssertEqual(t, b.Status(turn), tt.want)
		})
	}
}

func TestCheckmateFixture(t *testing.T) {
	b, turn := mustFEN(t, "6rk/5Npp/8/8/8/8/8/4K3 b - - 0 1")
	testutil.AssertTrue(t, b.KingInCheck(turn))
	testutil.AssertEqual(t, len(b.LegalMoves(turn)), 0)

	// without the checking knight black has moves again
	b, turn = mustFEN(t, "6rk/6pp/8/8/8/8/8/4K3 b - - 0 1")
	testutil.AssertTrue(t, len(b.LegalMoves(turn)) > 0)
	testutil.AssertEqual(t, b.Status(turn), core.StateOngoing)
}

func TestCheckMoveErrors(t *testing.T) {
	tests := []struct {
		name string
		fen  string
		move string
		want error
	}{
		{"legal", StartingFEN, "e2e4", nil},
		{"empty origin", StartingFEN, "e3e4", core.ErrImpossibleMove},
		{"opponent piece", StartingFEN, "e7e5", core.ErrImpossibleMove},
		{"unreachable", StartingFEN, "e2e5", core.ErrImpossibleMove},
		{"stays in check", "4k3/8/8/8/8/8/7P/r3K3 w - - 0 1", "h2h3", core.ErrKingInCheck},
		{"pinned piece", "4k3/4r3/8/8/8/8/4B3/4K3 w - - 0 1", "e2d3", core.ErrPutsKingInCheck},
		{"castle blocked", StartingFEN, "O-O", core.ErrCantCastle},
		{"exit is not a board move", StartingFEN, "exit", core.ErrIllegalInput},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			b, turn := mustFEN(t, tt.fen)
			err := b.CheckMove(turn, mv(t, tt.move))
			testutil.AssertEqual(t, b.IsLegal(turn, mv(t, tt.move)), tt.want == nil)
			if tt.want == nil {
				testutil.MustNoError(t, err)
				return
			}
			testutil.AssertTrue(t, errors.Is(err, tt.want), "got %v, want %v", err, tt.want)
		})
	}
}

func TestLegalOriginSquaresFor(t *testing.T) {
	b := New()
	testutil.AssertEqual(t, squares(b.LegalOriginSquaresFor(sq(t, "f3"), core.Knight, core.ColorWhite)), []string{"g1"})
	testutil.AssertEqual(t, squares(b.LegalOriginSquaresFor(sq(t, "e4"), core.Pawn, core.ColorWhite)), []string{"e2"})
	testutil.AssertEqual(t, len(b.LegalOriginSquaresFor(sq(t, "e5"), core.Pawn, core.ColorWhite)), 0)

	b, _ = mustFEN(t, "4k3/8/8/8/8/8/8/1N2KN2 w - - 0 1")
	testutil.AssertEqual(t, squares(b.LegalOriginSquaresFor(sq(t, "d2"), core.Knight, core.ColorWhite)), []string{"b1", "f1"})
}

func TestCloneIsIndependent(t *testing.T) {
	b := New()
	c := b.Clone()
	c.Execute(core.ColorWhite, mv(t, "e2e4"))

	testutil.AssertEqual(t, b.FEN(core.ColorWhite, 1), StartingFEN)
	testutil.AssertTrue(t, c.At(sq(t, "e4")) != nil, "clone did not move")
	testutil.AssertEqual(t, c.Snapshot().White[4].Loc, sq(t, "e4"))
	testutil.AssertEqual(t, b.Snapshot().White[4].Loc, sq(t, "e2"))
}

func TestCells(t *testing.T) {
	cells := New().Cells()
	testutil.AssertEqual(t, cells[0][4], Cell{Occupied: true, Color: core.ColorWhite, Letter: 'K'})
	testutil.AssertEqual(t, cells[7][3], Cell{Occupied: true, Color: core.ColorBlack, Letter: 'Q'})
	testutil.AssertEqual(t, cells[4][4], Cell{})
}
