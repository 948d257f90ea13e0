package service

import (
	"fmt"
	"sort"
	"strings"
	"time"

	"chessnav/internal/core"
	"chessnav/internal/export"
	"chessnav/internal/game"
	"chessnav/internal/storage"
)

const defaultEvent = "Casual game"

// SaveGame validates a move list by replaying it and archives it under a new
// ID. An empty result is derived from the final position.
func (s *Service) SaveGame(name string, players core.Players, moves []core.Move, result core.Result) (*Game, error) {
	now := time.Now().UTC()
	records, final, err := moveRecords("", moves, 0, now)
	if err != nil {
		return nil, err
	}
	if result == "" {
		result = final
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	g := &Game{
		ID:      s.generateID(),
		Name:    strings.TrimSpace(name),
		Players: players,
		Result:  result,
		Moves:   append([]core.Move(nil), moves...),
		Started: now,
	}
	s.games[g.ID] = g

	if s.store != nil {
		for i := range records {
			records[i].GameID = g.ID
		}
		s.store.RecordGame(storage.GameRecord{
			GameID:       g.ID,
			Name:         g.Name,
			White:        players.White,
			Black:        players.Black,
			Result:       string(result),
			MoveCount:    len(moves),
			StartTimeUTC: now,
		}, records)
		s.flush()
	}

	return g, nil
}

// ImportGame archives a move list received as text
func (s *Service) ImportGame(req core.ImportGameRequest) (*Game, error) {
	moves, err := core.ParseMoves(req.Moves)
	if err != nil {
		return nil, err
	}
	players := core.Players{White: req.White, Black: req.Black}
	return s.SaveGame(req.Name, players, moves, core.Result(req.Result))
}

// GetGame retrieves a game by ID
func (s *Service) GetGame(gameID string) (*Game, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.lookup(gameID)
}

// lookup finds a game in memory or loads it from the store, caller holds the lock
func (s *Service) lookup(gameID string) (*Game, error) {
	if g, ok := s.games[gameID]; ok {
		return g, nil
	}
	if s.store == nil {
		return nil, fmt.Errorf("%w: %s", core.ErrGameNotFound, gameID)
	}

	records, err := s.store.QueryGames(gameID, "")
	if err != nil {
		return nil, err
	}
	for _, r := range records {
		if r.GameID != gameID {
			continue
		}
		moveRows, err := s.store.LoadMoves(gameID)
		if err != nil {
			return nil, err
		}
		g := fromRecord(r)
		for _, row := range moveRows {
			m, err := core.ParseMove(row.MoveText)
			if err != nil {
				return nil, &core.MoveError{Ply: row.MoveNumber, Text: row.MoveText, Err: err}
			}
			g.Moves = append(g.Moves, m)
		}
		s.games[gameID] = g
		return g, nil
	}
	return nil, fmt.Errorf("%w: %s", core.ErrGameNotFound, gameID)
}

func fromRecord(r storage.GameRecord) *Game {
	return &Game{
		ID:      r.GameID,
		Name:    r.Name,
		Players: core.Players{White: r.White, Black: r.Black},
		Result:  core.Result(r.Result),
		Started: r.StartTimeUTC,
	}
}

// ResolveID expands a unique ID prefix to the full game ID
func (s *Service) ResolveID(prefix string) (string, error) {
	prefix = strings.TrimSpace(prefix)
	if prefix == "" {
		return "", fmt.Errorf("%w: empty game id", core.ErrIllegalInput)
	}

	matches := make(map[string]bool)
	s.mu.RLock()
	for id := range s.games {
		if strings.HasPrefix(id, prefix) {
			matches[id] = true
		}
	}
	s.mu.RUnlock()

	if s.store != nil {
		records, err := s.store.QueryGames(prefix, "")
		if err != nil {
			return "", err
		}
		for _, r := range records {
			matches[r.GameID] = true
		}
	}

	switch len(matches) {
	case 0:
		return "", fmt.Errorf("%w: %s", core.ErrGameNotFound, prefix)
	case 1:
		for id := range matches {
			return id, nil
		}
	}
	return "", fmt.Errorf("%w: prefix %q matches %d games", core.ErrIllegalInput, prefix, len(matches))
}

// ListGames returns archived games, newest first. A non-empty player keeps
// the games where that name plays either side.
func (s *Service) ListGames(player string) ([]core.GameSummary, error) {
	byID := make(map[string]core.GameSummary)

	if s.store != nil {
		records, err := s.store.QueryGames("", player)
		if err != nil {
			return nil, err
		}
		for _, r := range records {
			summary := fromRecord(r).Summary()
			summary.MoveCount = r.MoveCount
			byID[r.GameID] = summary
		}
	}

	s.mu.RLock()
	for id, g := range s.games {
		if player != "" && player != "*" && g.Players.White != player && g.Players.Black != player {
			continue
		}
		byID[id] = g.Summary()
	}
	s.mu.RUnlock()

	games := make([]core.GameSummary, 0, len(byID))
	for _, summary := range byID {
		games = append(games, summary)
	}
	sort.Slice(games, func(i, j int) bool {
		if games[i].StartTime != games[j].StartTime {
			return games[i].StartTime > games[j].StartTime
		}
		return games[i].GameID < games[j].GameID
	})
	return games, nil
}

// Navigator returns a navigator over an archived game at ply 0
func (s *Service) Navigator(gameID string) (*game.Navigator, error) {
	g, err := s.GetGame(gameID)
	if err != nil {
		return nil, err
	}
	return game.New(g.Moves), nil
}

// Detail returns an archived game with its final position
func (s *Service) Detail(gameID string) (core.GameResponse, error) {
	g, err := s.GetGame(gameID)
	if err != nil {
		return core.GameResponse{}, err
	}
	nav := game.New(g.Moves)
	if err := nav.JumpToEnd(); err != nil {
		return core.GameResponse{}, err
	}
	return core.GameResponse{
		GameSummary: g.Summary(),
		Moves:       core.FormatMoves(g.Moves),
		FEN:         nav.FEN(),
		State:       nav.Status().String(),
	}, nil
}

// Position seeks an archived game to ply and describes the board there
func (s *Service) Position(gameID string, ply int) (core.PositionResponse, error) {
	nav, err := s.Navigator(gameID)
	if err != nil {
		return core.PositionResponse{}, err
	}
	if err := nav.Seek(ply); err != nil {
		return core.PositionResponse{}, err
	}

	resp := core.PositionResponse{
		GameID: gameID,
		Ply:    ply,
		Turn:   nav.ColorToMove().String(),
		FEN:    nav.FEN(),
		Board:  nav.Board().ToASCII(),
		State:  nav.Status().String(),
	}
	if m, ok := nav.Move(ply); ok {
		resp.LastMove = m.String()
	}
	if m, ok := nav.Move(ply + 1); ok {
		resp.NextMove = m.String()
	}
	return resp, nil
}

// Export renders an archived game as PGN
func (s *Service) Export(gameID string) (string, error) {
	g, err := s.GetGame(gameID)
	if err != nil {
		return "", err
	}
	event := g.Name
	if event == "" {
		event = defaultEvent
	}
	tags := export.Tags(event, g.Players, g.Started.UTC().Format("2006.01.02"))
	return export.PGN(g.Moves, tags...)
}

// moveRecords replays moves and describes plies after skip for storage.
// It also returns the result token of the final position.
func moveRecords(gameID string, moves []core.Move, skip int, now time.Time) ([]storage.MoveRecord, core.Result, error) {
	nav := game.New(moves)
	if err := nav.Seek(skip); err != nil {
		return nil, "", err
	}

	var records []storage.MoveRecord
	for nav.Index() < nav.Len() {
		mover := nav.ColorToMove()
		if err := nav.StepForward(); err != nil {
			return nil, "", err
		}
		records = append(records, storage.MoveRecord{
			GameID:       gameID,
			MoveNumber:   nav.Index(),
			MoveText:     moves[nav.Index()-1].String(),
			FENAfterMove: nav.FEN(),
			PlayerColor:  mover.String(),
			MoveTimeUTC:  now,
		})
	}
	return records, core.ResultFor(nav.Status(), nav.ColorToMove()), nil
}
