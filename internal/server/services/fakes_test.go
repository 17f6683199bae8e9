package services

import (
	"context"
	"database/sql"
	"errors"

	"github.com/dmitrijs2005/gophnotes/internal/dbx"
	"github.com/dmitrijs2005/gophnotes/internal/server/models"
	"github.com/dmitrijs2005/gophnotes/internal/server/repositories/notes"
	"github.com/dmitrijs2005/gophnotes/internal/server/repositories/users"
)

var errBoom = errors.New("boom")

type fakeUsersRepo struct {
	createErr error
	// createErrs, when set, is consumed one error per Create call before
	// createErr applies.
	createErrs []error
	calls      int
	getErr    error
	getOut    *models.User
	deleteErr error
	deleted   []int64
	created   *models.User
}

func (f *fakeUsersRepo) Create(ctx context.Context, u *models.User) (*models.User, error) {
	f.calls++
	if len(f.createErrs) > 0 {
		err := f.createErrs[0]
		f.createErrs = f.createErrs[1:]
		if err != nil {
			return nil, err
		}
	} else if f.createErr != nil {
		return nil, f.createErr
	}
	u.ID = 1
	f.created = u
	return u, nil
}

func (f *fakeUsersRepo) GetUserByEmail(ctx context.Context, email string) (*models.User, error) {
	if f.getErr != nil {
		return nil, f.getErr
	}
	return f.getOut, nil
}

func (f *fakeUsersRepo) GetUserByToken(ctx context.Context, token string) (*models.User, error) {
	if f.getErr != nil {
		return nil, f.getErr
	}
	return f.getOut, nil
}

func (f *fakeUsersRepo) Delete(ctx context.Context, id int64) error {
	if f.deleteErr != nil {
		return f.deleteErr
	}
	f.deleted = append(f.deleted, id)
	return nil
}

type fakeNotesRepo struct {
	listOut   []models.Note
	listErr   error
	getOut    *models.Note
	getErr    error
	updateErr error
	updated   *models.Note
	deleteErr error
	purgeErr  error
	purged    []int64
}

func (f *fakeNotesRepo) ListByOwner(ctx context.Context, userID int64) ([]models.Note, error) {
	return f.listOut, f.listErr
}

func (f *fakeNotesRepo) GetByOwner(ctx context.Context, userID, id int64) (*models.Note, error) {
	if f.getErr != nil {
		return nil, f.getErr
	}
	n := *f.getOut
	return &n, nil
}

func (f *fakeNotesRepo) Create(ctx context.Context, note *models.Note) (*models.Note, error) {
	note.ID = 1
	return note, nil
}

func (f *fakeNotesRepo) Update(ctx context.Context, note *models.Note) (*models.Note, error) {
	if f.updateErr != nil {
		return nil, f.updateErr
	}
	f.updated = note
	return note, nil
}

func (f *fakeNotesRepo) Delete(ctx context.Context, userID, id int64) error {
	return f.deleteErr
}

func (f *fakeNotesRepo) DeleteByOwner(ctx context.Context, userID int64) error {
	if f.purgeErr != nil {
		return f.purgeErr
	}
	f.purged = append(f.purged, userID)
	return nil
}

// fakeRepoManager runs WithinTx through dbx.WithTx when db is set so
// transactional behavior can be checked with sqlmock.
type fakeRepoManager struct {
	u *fakeUsersRepo
	n *fakeNotesRepo
}

func (m *fakeRepoManager) RunMigrations(context.Context, *sql.DB) error { return nil }
func (m *fakeRepoManager) Users(db dbx.DBTX) users.Repository           { return m.u }
func (m *fakeRepoManager) Notes(db dbx.DBTX) notes.Repository           { return m.n }

func (m *fakeRepoManager) WithinTx(ctx context.Context, db *sql.DB, fn dbx.TxFunc) error {
	if db == nil {
		return fn(ctx, nil)
	}
	return dbx.WithTx(ctx, db, nil, fn)
}
