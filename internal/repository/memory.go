package repository

import (
	"context"
	"fmt"
	"sort"
	"sync"

	"hierarchicalmenu/profilefield/internal/domain"
)

// MemoryStore keeps field definitions and user data in process. It satisfies
// both repository interfaces.
type MemoryStore struct {
	mu       sync.RWMutex
	fields   map[int64]domain.FieldDefinition
	userData map[int64]map[int64]string
}

func NewMemoryStore() *MemoryStore {
	return &MemoryStore{
		fields:   make(map[int64]domain.FieldDefinition),
		userData: make(map[int64]map[int64]string),
	}
}

func (s *MemoryStore) GetField(_ context.Context, id int64) (*domain.FieldDefinition, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	def, ok := s.fields[id]
	if !ok {
		return nil, fmt.Errorf("%w: %d", ErrFieldNotFound, id)
	}
	return &def, nil
}

func (s *MemoryStore) SaveField(_ context.Context, def *domain.FieldDefinition) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.fields[def.ID] = *def
	return nil
}

func (s *MemoryStore) GetUserData(_ context.Context, fieldID, userID int64) (string, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	return s.userData[fieldID][userID], nil
}

func (s *MemoryStore) SaveUserData(_ context.Context, fieldID, userID int64, data string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.userData[fieldID] == nil {
		s.userData[fieldID] = make(map[int64]string)
	}
	s.userData[fieldID][userID] = data
	return nil
}

func (s *MemoryStore) ListUserData(_ context.Context, fieldID int64) ([]domain.UserData, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	out := make([]domain.UserData, 0, len(s.userData[fieldID]))
	for userID, data := range s.userData[fieldID] {
		out = append(out, domain.UserData{FieldID: fieldID, UserID: userID, Data: data})
	}
	sort.Slice(out, func(i, j int) bool { return out[i].UserID < out[j].UserID })
	return out, nil
}
