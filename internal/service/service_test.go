package service

import (
	"errors"
	"path/filepath"
	"strings"
	"testing"

	"chessnav/internal/core"
	"chessnav/internal/storage"
	"chessnav/internal/testutil"
)

const foolsMate = "f2f3 e7e5 g2g4 d8h4"

func parse(t *testing.T, text string) []core.Move {
	t.Helper()
	moves, err := core.ParseMoves(strings.Fields(text))
	testutil.MustNoError(t, err)
	return moves
}

func newService(t *testing.T) *Service {
	t.Helper()
	s, err := New(nil)
	testutil.MustNoError(t, err)
	return s
}

// newStore opens a fresh database. It is closed by the test cleanup, not by
// the services built on it, so several services can share it.
func newStore(t *testing.T) *storage.Store {
	t.Helper()
	store, err := storage.NewStore(filepath.Join(t.TempDir(), "archive.db"), false)
	testutil.MustNoError(t, err)
	testutil.MustNoError(t, store.InitDB())
	t.Cleanup(func() { store.Close() })
	return store
}

func TestSaveGameDerivesResult(t *testing.T) {
	s := newService(t)
	alice := core.Players{White: "Alice", Black: "Bob"}

	g, err := s.SaveGame(" Fool ", alice, parse(t, foolsMate), "")
	testutil.MustNoError(t, err)
	testutil.AssertEqual(t, g.Result, core.ResultBlackWins)
	testutil.AssertEqual(t, g.Name, "Fool")

	detail, err := s.Detail(g.ID)
	testutil.MustNoError(t, err)
	testutil.AssertEqual(t, detail.State, "checkmate")
	testutil.AssertEqual(t, detail.Moves, strings.Fields(foolsMate))
	testutil.AssertEqual(t, detail.MoveCount, 4)

	g, err = s.SaveGame("", alice, parse(t, "e2e4 e7e5"), core.ResultDraw)
	testutil.MustNoError(t, err)
	testutil.AssertEqual(t, g.Result, core.ResultDraw)
}

func TestSaveGameRejectsIllegalList(t *testing.T) {
	s := newService(t)
	_, err := s.SaveGame("", core.Players{}, parse(t, "e2e4 e7e5 e4e5"), "")
	testutil.AssertErrorIs(t, err, core.ErrImpossibleMove)

	var moveErr *core.MoveError
	testutil.AssertTrue(t, errors.As(err, &moveErr), "want MoveError, got %v", err)
	testutil.AssertEqual(t, moveErr.Ply, 3)

	games, err := s.ListGames("")
	testutil.MustNoError(t, err)
	testutil.AssertEqual(t, len(games), 0)
}

func TestImportGame(t *testing.T) {
	s := newService(t)

	g, err := s.ImportGame(core.ImportGameRequest{
		Name: "imported", White: "Alice", Moves: []string{"e2e4", "e7e5", "g1f3"},
	})
	testutil.MustNoError(t, err)
	testutil.AssertEqual(t, g.Result, core.ResultUnknown)
	testutil.AssertEqual(t, g.Players.Name(core.ColorBlack), "?")

	_, err = s.ImportGame(core.ImportGameRequest{Moves: []string{"e2e4", "e7"}})
	testutil.AssertErrorIs(t, err, core.ErrIllegalInput)
}

func TestGameNotFound(t *testing.T) {
	s := newService(t)
	_, err := s.GetGame("missing")
	testutil.AssertErrorIs(t, err, core.ErrGameNotFound)
	_, err = s.Position("missing", 0)
	testutil.AssertErrorIs(t, err, core.ErrGameNotFound)
	_, err = s.Export("missing")
	testutil.AssertErrorIs(t, err, core.ErrGameNotFound)
}

func TestPosition(t *testing.T) {
	s := newService(t)
	g, err := s.SaveGame("", core.Players{}, parse(t, "e2e4 e7e5 g1f3"), "")
	testutil.MustNoError(t, err)

	pos, err := s.Position(g.ID, 2)
	testutil.MustNoError(t, err)
	testutil.AssertEqual(t, pos.Turn, "w")
	testutil.AssertEqual(t, pos.LastMove, "e7e5")
	testutil.AssertEqual(t, pos.NextMove, "g1f3")
	testutil.AssertEqual(t, pos.State, "ongoing")
	testutil.AssertTrue(t, strings.HasPrefix(pos.FEN, "rnbqkbnr/pppp1ppp/8/4p3/4P3/8/PPPP1PPP/RNBQKBNR w "), "fen %s", pos.FEN)

	start, err := s.Position(g.ID, 0)
	testutil.MustNoError(t, err)
	testutil.AssertEqual(t, start.LastMove, "")
	testutil.AssertEqual(t, start.NextMove, "e2e4")

	end, err := s.Position(g.ID, 3)
	testutil.MustNoError(t, err)
	testutil.AssertEqual(t, end.Turn, "b")
	testutil.AssertEqual(t, end.NextMove, "")

	_, err = s.Position(g.ID, 4)
	testutil.AssertErrorIs(t, err, core.ErrIllegalInput)
	_, err = s.Position(g.ID, -1)
	testutil.AssertErrorIs(t, err, core.ErrIllegalInput)
}

func TestExport(t *testing.T) {
	s := newService(t)
	g, err := s.SaveGame("", core.Players{White: "Alice", Black: "Bob"}, parse(t, foolsMate), "")
	testutil.MustNoError(t, err)

	pgn, err := s.Export(g.ID)
	testutil.MustNoError(t, err)
	for _, want := range []string{`[Event "Casual game"]`, `[White "Alice"]`, "2. g4 Qh4#"} {
		testutil.AssertTrue(t, strings.Contains(pgn, want), "%q missing from\n%s", want, pgn)
	}
}

func TestArchiveSurvivesRestart(t *testing.T) {
	store := newStore(t)
	first, err := New(store)
	testutil.MustNoError(t, err)

	a, err := first.SaveGame("first", core.Players{White: "Alice", Black: "Bob"}, parse(t, foolsMate), "")
	testutil.MustNoError(t, err)
	b, err := first.SaveGame("second", core.Players{White: "Carol", Black: "Alice"}, parse(t, "d2d4"), "")
	testutil.MustNoError(t, err)
	_, err = first.SaveGame("third", core.Players{White: "Carol", Black: "Dave"}, parse(t, "c2c4"), "")
	testutil.MustNoError(t, err)
	testutil.AssertEqual(t, first.GetStorageHealth(), "ok")

	// a second process sees only the database
	second, err := New(store)
	testutil.MustNoError(t, err)

	games, err := second.ListGames("Alice")
	testutil.MustNoError(t, err)
	ids := map[string]bool{}
	for _, g := range games {
		ids[g.GameID] = true
	}
	testutil.AssertEqual(t, ids, map[string]bool{a.ID: true, b.ID: true})

	loaded, err := second.GetGame(a.ID)
	testutil.MustNoError(t, err)
	testutil.AssertEqual(t, loaded.Moves, parse(t, foolsMate))
	testutil.AssertEqual(t, loaded.Result, core.ResultBlackWins)
	testutil.AssertEqual(t, loaded.Players.White, "Alice")

	all, err := second.ListGames("")
	testutil.MustNoError(t, err)
	testutil.AssertEqual(t, len(all), 3)
}

func TestResolveID(t *testing.T) {
	s := newService(t)
	g, err := s.SaveGame("", core.Players{}, parse(t, "e2e4"), "")
	testutil.MustNoError(t, err)

	id, err := s.ResolveID(g.ID[:8])
	testutil.MustNoError(t, err)
	testutil.AssertEqual(t, id, g.ID)

	_, err = s.ResolveID("not-an-id")
	testutil.AssertErrorIs(t, err, core.ErrGameNotFound)
	_, err = s.ResolveID(" ")
	testutil.AssertErrorIs(t, err, core.ErrIllegalInput)
}

func TestTrackFollowsSession(t *testing.T) {
	store := newStore(t)
	s, err := New(store)
	testutil.MustNoError(t, err)

	g, err := s.SaveGame("", core.Players{}, parse(t, "e2e4 e7e5"), "")
	testutil.MustNoError(t, err)

	// take back e7e5 and branch
	branch := parse(t, "e2e4 d7d5 e4d5")
	testutil.MustNoError(t, s.Track(g.ID, branch, core.ResultUnknown))
	testutil.MustNoError(t, s.Track(g.ID, parse(t, foolsMate), core.ResultBlackWins))
	s.flush()

	reopened, err := New(store)
	testutil.MustNoError(t, err)
	loaded, err := reopened.GetGame(g.ID)
	testutil.MustNoError(t, err)
	testutil.AssertEqual(t, loaded.Moves, parse(t, foolsMate))
	testutil.AssertEqual(t, loaded.Result, core.ResultBlackWins)

	games, err := reopened.ListGames("")
	testutil.MustNoError(t, err)
	testutil.AssertEqual(t, games[0].MoveCount, 4)

	err = s.Track(g.ID, parse(t, "e2e4 e7e5 e5e4"), core.ResultUnknown)
	testutil.AssertErrorIs(t, err, core.ErrImpossibleMove)
	testutil.AssertErrorIs(t, s.Track("missing", nil, ""), core.ErrGameNotFound)
}
