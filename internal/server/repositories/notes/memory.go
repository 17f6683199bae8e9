package notes

import (
	"context"
	"sort"
	"sync"
	"time"

	"github.com/dmitrijs2005/gophnotes/internal/common"
	"github.com/dmitrijs2005/gophnotes/internal/server/models"
)

// MemoryStore keeps notes in process memory. It is safe for concurrent use.
type MemoryStore struct {
	mu     sync.RWMutex
	nextID int64
	byID   map[int64]models.Note
}

func NewMemoryStore() *MemoryStore {
	return &MemoryStore{byID: make(map[int64]models.Note)}
}

func (s *MemoryStore) ListByOwner(ctx context.Context, userID int64) ([]models.Note, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	result := make([]models.Note, 0)
	for _, n := range s.byID {
		if n.UserID == userID {
			result = append(result, n)
		}
	}
	sort.Slice(result, func(i, j int) bool { return result[i].ID > result[j].ID })

	return result, nil
}

func (s *MemoryStore) GetByOwner(ctx context.Context, userID, id int64) (*models.Note, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	n, ok := s.byID[id]
	if !ok || n.UserID != userID {
		return nil, common.ErrorNotFound
	}
	return &n, nil
}

func (s *MemoryStore) Create(ctx context.Context, note *models.Note) (*models.Note, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	now := time.Now().UTC()
	s.nextID++
	note.ID = s.nextID
	note.CreatedAt = now
	note.UpdatedAt = now
	s.byID[note.ID] = *note

	return note, nil
}

func (s *MemoryStore) Update(ctx context.Context, note *models.Note) (*models.Note, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	cur, ok := s.byID[note.ID]
	if !ok || cur.UserID != note.UserID {
		return nil, common.ErrorNotFound
	}

	cur.Title = note.Title
	cur.Body = note.Body
	cur.UpdatedAt = time.Now().UTC()
	s.byID[cur.ID] = cur

	note.UpdatedAt = cur.UpdatedAt
	return note, nil
}

func (s *MemoryStore) Delete(ctx context.Context, userID, id int64) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	n, ok := s.byID[id]
	if !ok || n.UserID != userID {
		return common.ErrorNotFound
	}
	delete(s.byID, id)
	return nil
}

func (s *MemoryStore) DeleteByOwner(ctx context.Context, userID int64) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	for id, n := range s.byID {
		if n.UserID == userID {
			delete(s.byID, id)
		}
	}
	return nil
}
