package service

import (
	"time"

	"chessnav/internal/core"
)

// Track brings an archived game in line with a live session that continues
// it. Moves past the common prefix are dropped, new plies are appended and
// the result token is updated, derived from the final position when empty.
// Writes are fire and forget.
func (s *Service) Track(gameID string, moves []core.Move, result core.Result) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	g, err := s.lookup(gameID)
	if err != nil {
		return err
	}

	keep := commonPrefix(g.Moves, moves)
	records, final, err := moveRecords(gameID, moves, keep, time.Now().UTC())
	if err != nil {
		return err
	}
	if result == "" {
		result = final
	}

	if s.store != nil {
		if keep < len(g.Moves) {
			s.store.DeleteMovesAfter(gameID, keep)
		}
		for _, r := range records {
			s.store.RecordMove(r)
		}
		if result != g.Result {
			s.store.UpdateResult(gameID, string(result))
		}
	}

	g.Moves = append([]core.Move(nil), moves...)
	g.Result = result
	return nil
}

func commonPrefix(a, b []core.Move) int {
	n := 0
	for n < len(a) && n < len(b) && a[n] == b[n] {
		n++
	}
	return n
}
