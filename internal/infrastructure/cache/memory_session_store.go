package cache

import (
	"context"
	"sync"

	"github.com/google/uuid"
)

// MemorySessionStore is an in-process session store for single-instance
// deployments and tests
type MemorySessionStore struct {
	mu       sync.RWMutex
	sessions map[uuid.UUID]uuid.UUID
}

// NewMemorySessionStore creates an in-memory session store
func NewMemorySessionStore() *MemorySessionStore {
	return &MemorySessionStore{
		sessions: make(map[uuid.UUID]uuid.UUID),
	}
}

// SetActiveSession records the audit log entry backing the admin's
// current session
func (s *MemorySessionStore) SetActiveSession(_ context.Context, adminID, logID uuid.UUID) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.sessions[adminID] = logID
	return nil
}

// GetActiveSession resolves the admin's current session, if any
func (s *MemorySessionStore) GetActiveSession(_ context.Context, adminID uuid.UUID) (uuid.UUID, bool, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	logID, ok := s.sessions[adminID]
	return logID, ok, nil
}

// ClearActiveSession removes the admin's session pointer
func (s *MemorySessionStore) ClearActiveSession(_ context.Context, adminID uuid.UUID) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.sessions, adminID)
	return nil
}
