package users

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/dmitrijs2005/gophnotes/internal/common"
	"github.com/dmitrijs2005/gophnotes/internal/server/models"
)

// MemoryStore keeps users in process memory. It is safe for concurrent use
// and enforces the same email and token uniqueness as the database schema.
type MemoryStore struct {
	mu     sync.RWMutex
	nextID int64
	byID   map[int64]models.User
}

func NewMemoryStore() *MemoryStore {
	return &MemoryStore{byID: make(map[int64]models.User)}
}

func (s *MemoryStore) Create(ctx context.Context, user *models.User) (*models.User, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	for _, u := range s.byID {
		if u.Email == user.Email {
			return nil, fmt.Errorf("user %q: %w", user.Email, common.ErrorAlreadyExists)
		}
	}
	for _, u := range s.byID {
		if u.APIToken == user.APIToken {
			return nil, common.ErrorDuplicateToken
		}
	}

	s.nextID++
	user.ID = s.nextID
	user.CreatedAt = time.Now().UTC()
	s.byID[user.ID] = *user

	return user, nil
}

func (s *MemoryStore) GetUserByEmail(ctx context.Context, email string) (*models.User, error) {
	return s.find(func(u models.User) bool { return u.Email == email })
}

func (s *MemoryStore) GetUserByToken(ctx context.Context, token string) (*models.User, error) {
	return s.find(func(u models.User) bool { return u.APIToken == token })
}

func (s *MemoryStore) Delete(ctx context.Context, id int64) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.byID[id]; !ok {
		return common.ErrorNotFound
	}
	delete(s.byID, id)
	return nil
}

func (s *MemoryStore) find(match func(models.User) bool) (*models.User, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	for _, u := range s.byID {
		if match(u) {
			found := u
			return &found, nil
		}
	}
	return nil, common.ErrorNotFound
}
