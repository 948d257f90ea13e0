package service

import (
	"context"
	"log"
	"sync"
	"time"

	"github.com/google/uuid"

	"chessnav/internal/core"
	"chessnav/internal/storage"
)

// flushTimeout bounds how long a save waits for the writer
const flushTimeout = 2 * time.Second

// Game is an archived move list with its roster
type Game struct {
	ID      string
	Name    string
	Players core.Players
	Result  core.Result
	Moves   []core.Move
	Started time.Time
}

// Summary converts the game into its API form
func (g *Game) Summary() core.GameSummary {
	return core.GameSummary{
		GameID:    g.ID,
		Name:      g.Name,
		White:     g.Players.White,
		Black:     g.Players.Black,
		Result:    string(g.Result),
		MoveCount: len(g.Moves),
		StartTime: g.Started.UTC().Format(time.RFC3339),
	}
}

// Service is the game archive with optional persistence. Games saved in this
// process are held in memory; games saved by another process are read from
// the store on first access.
type Service struct {
	games map[string]*Game
	mu    sync.RWMutex
	store *storage.Store // nil if persistence disabled
}

// New creates a new service instance with optional storage
func New(store *storage.Store) (*Service, error) {
	return &Service{
		games: make(map[string]*Game),
		store: store,
	}, nil
}

// generateID creates a new unique game ID, caller holds the lock
func (s *Service) generateID() string {
	for {
		id := uuid.New().String()
		if _, exists := s.games[id]; !exists {
			return id
		}
	}
}

// flush waits for queued writes so a following query sees them
func (s *Service) flush() {
	if s.store == nil {
		return
	}
	ctx, cancel := context.WithTimeout(context.Background(), flushTimeout)
	defer cancel()
	if err := s.store.Flush(ctx); err != nil {
		log.Printf("Storage flush failed: %v", err)
	}
}

// GetStorageHealth returns the storage component status
func (s *Service) GetStorageHealth() string {
	if s.store == nil {
		return "disabled"
	}
	if s.store.IsHealthy() {
		return "ok"
	}
	return "degraded"
}

// Close drops the in-memory archive and closes storage
func (s *Service) Close() error {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.games = make(map[string]*Game)

	if s.store != nil {
		return s.store.Close()
	}
	return nil
}
