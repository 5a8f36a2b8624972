package repository

import (
	"context"
	"sync"
	"time"

	"github.com/rocketscienceinc/tictactoe-rounds/internal/apperror"
	"github.com/rocketscienceinc/tictactoe-rounds/internal/entity"
)

// MemorySessionRepository keeps sessions in process memory. Callers get copies, never the
// stored pointers.
type MemorySessionRepository struct {
	mu       sync.RWMutex
	sessions map[string]entity.Session
}

func NewMemorySessionRepository() *MemorySessionRepository {
	return &MemorySessionRepository{
		sessions: make(map[string]entity.Session),
	}
}

func (that *MemorySessionRepository) Create(_ context.Context, session *entity.Session) error {
	that.mu.Lock()
	defer that.mu.Unlock()

	that.sessions[session.ID] = *session

	return nil
}

func (that *MemorySessionRepository) GetByID(_ context.Context, id string) (*entity.Session, error) {
	that.mu.RLock()
	defer that.mu.RUnlock()

	session, ok := that.sessions[id]
	if !ok {
		return nil, apperror.ErrSessionNotFound
	}

	return &session, nil
}

func (that *MemorySessionRepository) Update(_ context.Context, id string, fn UpdateFunc) (*entity.Session, error) {
	that.mu.Lock()
	defer that.mu.Unlock()

	session, ok := that.sessions[id]
	if !ok {
		return nil, apperror.ErrSessionNotFound
	}

	if err := fn(&session); err != nil {
		return nil, err
	}

	that.sessions[id] = session

	return &session, nil
}

func (that *MemorySessionRepository) DeleteByID(_ context.Context, id string) error {
	that.mu.Lock()
	defer that.mu.Unlock()

	if _, ok := that.sessions[id]; !ok {
		return apperror.ErrSessionNotFound
	}

	delete(that.sessions, id)

	return nil
}

// DeleteIdle - removes sessions last updated before the given time and returns how many went.
func (that *MemorySessionRepository) DeleteIdle(_ context.Context, before time.Time) int {
	that.mu.Lock()
	defer that.mu.Unlock()

	removed := 0
	for id, session := range that.sessions {
		if session.UpdatedAt.Before(before) {
			delete(that.sessions, id)
			removed++
		}
	}

	return removed
}
