package services

import (
	"context"
	"errors"
	"testing"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/dmitrijs2005/gophnotes/internal/common"
	"github.com/dmitrijs2005/gophnotes/internal/cryptox"
	"github.com/dmitrijs2005/gophnotes/internal/server/models"
	"github.com/dmitrijs2005/gophnotes/internal/server/repositories/repomanager"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func storedUser(password string) *models.User {
	h := cryptox.HashPassword([]byte(password))
	return &models.User{
		ID:           5,
		Email:        "robert@example.com",
		PasswordSalt: h.Salt,
		PasswordHash: h.Key,
		APIToken:     "stored-token",
	}
}

func TestRegister_Success(t *testing.T) {
	ur := &fakeUsersRepo{}
	s := NewUserService(nil, &fakeRepoManager{u: ur})

	u, err := s.Register(context.Background(), "robert@example.com", "pw")
	require.NoError(t, err)

	assert.Equal(t, "robert@example.com", u.Email)
	assert.Len(t, u.APIToken, 2*common.APITokenSize)
	assert.Len(t, u.PasswordSalt, cryptox.SaltSize)
	assert.True(t, cryptox.CheckPassword([]byte("pw"), &cryptox.PasswordHash{Salt: u.PasswordSalt, Key: u.PasswordHash}))
	assert.NotContains(t, string(ur.created.PasswordHash), "pw")
}

func TestRegister_Blank(t *testing.T) {
	s := NewUserService(nil, &fakeRepoManager{u: &fakeUsersRepo{}})

	_, err := s.Register(context.Background(), "  ", "")
	require.ErrorIs(t, err, common.ErrorValidation)

	var verr *common.ValidationError
	require.ErrorAs(t, err, &verr)
	assert.Equal(t, []string{common.MsgBlank}, verr.Fields["email"])
	assert.Equal(t, []string{common.MsgBlank}, verr.Fields["password"])
}

func TestRegister_Duplicate(t *testing.T) {
	ur := &fakeUsersRepo{createErr: common.ErrorAlreadyExists}
	s := NewUserService(nil, &fakeRepoManager{u: ur})

	_, err := s.Register(context.Background(), "robert@example.com", "pw")

	var verr *common.ValidationError
	require.ErrorAs(t, err, &verr)
	assert.Equal(t, []string{common.MsgTaken}, verr.Fields["email"])
}

func TestRegister_RepoError(t *testing.T) {
	s := NewUserService(nil, &fakeRepoManager{u: &fakeUsersRepo{createErr: errBoom}})

	_, err := s.Register(context.Background(), "robert@example.com", "pw")
	assert.ErrorIs(t, err, errBoom)
	assert.NotErrorIs(t, err, common.ErrorValidation)
}

func TestRegister_TokenCollisionRetries(t *testing.T) {
	ur := &fakeUsersRepo{createErrs: []error{common.ErrorDuplicateToken, nil}}
	s := NewUserService(nil, &fakeRepoManager{u: ur})

	u, err := s.Register(context.Background(), "robert@example.com", "pw")
	require.NoError(t, err)
	assert.Equal(t, 2, ur.calls)
	assert.Equal(t, int64(1), u.ID)
	assert.Len(t, u.APIToken, 2*common.APITokenSize)
}

func TestRegister_TokenCollisionIsNotEmailTaken(t *testing.T) {
	ur := &fakeUsersRepo{createErr: common.ErrorDuplicateToken}
	s := NewUserService(nil, &fakeRepoManager{u: ur})

	_, err := s.Register(context.Background(), "robert@example.com", "pw")
	require.Error(t, err)
	assert.ErrorIs(t, err, common.ErrorDuplicateToken)
	assert.NotErrorIs(t, err, common.ErrorValidation)
	assert.Equal(t, tokenAttempts, ur.calls)
}

func TestLogin(t *testing.T) {
	tests := []struct {
		name     string
		repo     *fakeUsersRepo
		password string
		want     string
		wantErr  error
	}{
		{"ok", &fakeUsersRepo{getOut: storedUser("secret")}, "secret", "stored-token", nil},
		{"wrong password", &fakeUsersRepo{getOut: storedUser("secret")}, "nope", "", common.ErrInvalidCredentials},
		{"unknown email", &fakeUsersRepo{getErr: common.ErrorNotFound}, "secret", "", common.ErrInvalidCredentials},
		{"db error", &fakeUsersRepo{getErr: errBoom}, "secret", "", errBoom},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			s := NewUserService(nil, &fakeRepoManager{u: tt.repo})
			got, err := s.Login(context.Background(), "robert@example.com", tt.password)
			if tt.wantErr != nil {
				assert.ErrorIs(t, err, tt.wantErr)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestLogin_SameTokenTwice(t *testing.T) {
	s := NewUserService(nil, &fakeRepoManager{u: &fakeUsersRepo{getOut: storedUser("secret")}})

	t1, err := s.Login(context.Background(), "robert@example.com", "secret")
	require.NoError(t, err)
	t2, err := s.Login(context.Background(), "robert@example.com", "secret")
	require.NoError(t, err)
	assert.Equal(t, t1, t2)
}

func TestAuthenticate(t *testing.T) {
	found := &fakeUsersRepo{getOut: storedUser("x")}

	tests := []struct {
		name    string
		repo    *fakeUsersRepo
		header  string
		wantErr error
	}{
		{"ok", found, "Bearer stored-token", nil},
		{"lowercase scheme", found, "bearer stored-token", nil},
		{"empty", found, "", common.ErrorUnauthorized},
		{"no token", found, "Bearer", common.ErrorUnauthorized},
		{"wrong scheme", found, "Basic stored-token", common.ErrorUnauthorized},
		{"extra part", found, "Bearer a b", common.ErrorUnauthorized},
		{"unknown token", &fakeUsersRepo{getErr: common.ErrorNotFound}, "Bearer zzz", common.ErrorUnauthorized},
		{"db error", &fakeUsersRepo{getErr: errBoom}, "Bearer zzz", errBoom},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			s := NewUserService(nil, &fakeRepoManager{u: tt.repo})
			id, err := s.Authenticate(context.Background(), tt.header)
			if tt.wantErr != nil {
				assert.ErrorIs(t, err, tt.wantErr)
				assert.Equal(t, models.Identity{}, id)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, models.Identity{UserID: 5, Email: "robert@example.com"}, id)
		})
	}
}

func TestDelete_CommitsTransaction(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()

	mock.ExpectBegin()
	mock.ExpectCommit()

	ur := &fakeUsersRepo{}
	nr := &fakeNotesRepo{}
	s := NewUserService(db, &fakeRepoManager{u: ur, n: nr})

	require.NoError(t, s.Delete(context.Background(), 5))
	assert.Equal(t, []int64{5}, nr.purged)
	assert.Equal(t, []int64{5}, ur.deleted)
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestDelete_RollsBackOnError(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()

	mock.ExpectBegin()
	mock.ExpectRollback()

	ur := &fakeUsersRepo{deleteErr: common.ErrorNotFound}
	s := NewUserService(db, &fakeRepoManager{u: ur, n: &fakeNotesRepo{}})

	err = s.Delete(context.Background(), 5)
	assert.ErrorIs(t, err, common.ErrorNotFound)
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestDelete_NotesError(t *testing.T) {
	ur := &fakeUsersRepo{}
	s := NewUserService(nil, &fakeRepoManager{u: ur, n: &fakeNotesRepo{purgeErr: errBoom}})

	err := s.Delete(context.Background(), 5)
	assert.ErrorIs(t, err, errBoom)
	assert.Empty(t, ur.deleted)
}

func TestUserService_InMemoryFlow(t *testing.T) {
	ctx := context.Background()
	m := repomanager.NewInMemoryRepositoryManager()
	us := NewUserService(nil, m)
	ns := NewNoteService(nil, m)

	u, err := us.Register(ctx, "zara@example.com", "pw")
	require.NoError(t, err)

	token, err := us.Login(ctx, "zara@example.com", "pw")
	require.NoError(t, err)
	assert.Equal(t, u.APIToken, token)

	id, err := us.Authenticate(ctx, "Bearer "+token)
	require.NoError(t, err)
	assert.Equal(t, u.ID, id.UserID)

	_, err = ns.Create(ctx, id.UserID, "hello", "")
	require.NoError(t, err)

	got, err := us.GetByEmail(ctx, "zara@example.com")
	require.NoError(t, err)
	assert.Equal(t, u.ID, got.ID)

	require.NoError(t, us.Delete(ctx, u.ID))

	list, err := ns.List(ctx, u.ID)
	require.NoError(t, err)
	assert.Empty(t, list)

	_, err = us.Authenticate(ctx, "Bearer "+token)
	assert.True(t, errors.Is(err, common.ErrorUnauthorized))
}
