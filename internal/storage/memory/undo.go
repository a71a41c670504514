package memory

import (
	"context"
	"time"

	"travel_planner/internal/domain"
)

func (s *Store) PushUndo(ctx context.Context, e domain.UndoEntry) (int64, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	e.ID = s.nextID()
	if e.CreatedAt.IsZero() {
		e.CreatedAt = s.now().UTC()
	}
	s.undo = append(s.undo, e)
	return e.ID, nil
}

func (s *Store) PopUndo(ctx context.Context, actorID int64) (domain.UndoEntry, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for i := len(s.undo) - 1; i >= 0; i-- {
		if s.undo[i].ActorID != actorID {
			continue
		}
		e := s.undo[i]
		s.undo = append(s.undo[:i], s.undo[i+1:]...)
		return e, nil
	}
	return domain.UndoEntry{}, domain.ErrNotFound
}

func (s *Store) PurgeUndo(ctx context.Context, before time.Time) (int64, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	keep := s.undo[:0]
	var n int64
	for _, e := range s.undo {
		if e.CreatedAt.Before(before) {
			n++
			continue
		}
		keep = append(keep, e)
	}
	s.undo = keep
	return n, nil
}
