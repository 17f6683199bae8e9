package repomanager

import (
	"context"
	"database/sql"

	"github.com/dmitrijs2005/gophnotes/internal/dbx"
	"github.com/dmitrijs2005/gophnotes/internal/server/repositories/notes"
	"github.com/dmitrijs2005/gophnotes/internal/server/repositories/users"
)

// InMemoryRepositoryManager keeps all data in process memory. Every
// repository it vends shares the same stores regardless of the DBTX passed
// in, which may be nil. Data is lost on restart.
type InMemoryRepositoryManager struct {
	users *users.MemoryStore
	notes *notes.MemoryStore
}

func NewInMemoryRepositoryManager() *InMemoryRepositoryManager {
	return &InMemoryRepositoryManager{
		users: users.NewMemoryStore(),
		notes: notes.NewMemoryStore(),
	}
}

// RunMigrations is a no-op; the in-memory stores need no schema.
func (m *InMemoryRepositoryManager) RunMigrations(ctx context.Context, db *sql.DB) error {
	return nil
}

func (m *InMemoryRepositoryManager) Users(db dbx.DBTX) users.Repository {
	return m.users
}

func (m *InMemoryRepositoryManager) Notes(db dbx.DBTX) notes.Repository {
	return m.notes
}

// WithinTx runs fn without isolation or rollback.
func (m *InMemoryRepositoryManager) WithinTx(ctx context.Context, db *sql.DB, fn dbx.TxFunc) error {
	return fn(ctx, nil)
}
