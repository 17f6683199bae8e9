package services

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"

	"github.com/dmitrijs2005/gophnotes/internal/common"
	"github.com/dmitrijs2005/gophnotes/internal/cryptox"
	"github.com/dmitrijs2005/gophnotes/internal/dbx"
	"github.com/dmitrijs2005/gophnotes/internal/server/models"
	"github.com/dmitrijs2005/gophnotes/internal/server/repositories/repomanager"
)

// tokenAttempts bounds how many fresh tokens Register tries when a
// generated token collides with a stored one.
const tokenAttempts = 3

type UserService struct {
	db          *sql.DB
	repomanager repomanager.RepositoryManager
	// dummy is checked against when the email is unknown so both failure
	// paths cost one key derivation.
	dummy *cryptox.PasswordHash
}

func NewUserService(db *sql.DB, m repomanager.RepositoryManager) *UserService {
	return &UserService{
		db:          db,
		repomanager: m,
		dummy:       cryptox.HashPassword(common.GenerateRandByteArray(16)),
	}
}

// Register creates a user with a fresh API token. Blank fields and a taken
// email are reported as *common.ValidationError.
func (s *UserService) Register(ctx context.Context, email, password string) (*models.User, error) {

	verr := common.NewValidationError()
	if common.IsBlank(email) {
		verr.Add("email", common.MsgBlank)
	}
	if password == "" {
		verr.Add("password", common.MsgBlank)
	}
	if err := verr.OrNil(); err != nil {
		return nil, err
	}

	h := cryptox.HashPassword([]byte(password))

	var err error
	for i := 0; i < tokenAttempts; i++ {
		var token string
		token, err = common.MakeRandHexString(common.APITokenSize)
		if err != nil {
			return nil, fmt.Errorf("error generating token: %w", err)
		}

		user := &models.User{
			Email:        email,
			PasswordSalt: h.Salt,
			PasswordHash: h.Key,
			APIToken:     token,
		}

		user, err = s.repomanager.Users(s.db).Create(ctx, user)
		if err == nil {
			return user, nil
		}
		if errors.Is(err, common.ErrorAlreadyExists) {
			verr.Add("email", common.MsgTaken)
			return nil, verr
		}
		if !errors.Is(err, common.ErrorDuplicateToken) {
			break
		}
	}

	return nil, fmt.Errorf("error creating user: %w", err)
}

// Login checks the credentials and returns the user's stored API token.
func (s *UserService) Login(ctx context.Context, email, password string) (string, error) {

	user, err := s.repomanager.Users(s.db).GetUserByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, common.ErrorNotFound) {
			cryptox.CheckPassword([]byte(password), s.dummy)
			return "", common.ErrInvalidCredentials
		}
		return "", fmt.Errorf("error searching user: %w", err)
	}

	h := &cryptox.PasswordHash{Salt: user.PasswordSalt, Key: user.PasswordHash}
	if !cryptox.CheckPassword([]byte(password), h) {
		return "", common.ErrInvalidCredentials
	}

	return user.APIToken, nil
}

// Authenticate resolves an Authorization header value of the form
// "Bearer <token>" to the identity of the token's owner.
func (s *UserService) Authenticate(ctx context.Context, header string) (models.Identity, error) {

	token, ok := parseBearer(header)
	if !ok {
		return models.Identity{}, common.ErrorUnauthorized
	}

	user, err := s.repomanager.Users(s.db).GetUserByToken(ctx, token)
	if err != nil {
		if errors.Is(err, common.ErrorNotFound) {
			return models.Identity{}, common.ErrorUnauthorized
		}
		return models.Identity{}, fmt.Errorf("error searching token: %w", err)
	}

	return models.Identity{UserID: user.ID, Email: user.Email}, nil
}

func (s *UserService) GetByEmail(ctx context.Context, email string) (*models.User, error) {
	return s.repomanager.Users(s.db).GetUserByEmail(ctx, email)
}

// Delete removes the user together with all of their notes.
func (s *UserService) Delete(ctx context.Context, userID int64) error {
	return s.repomanager.WithinTx(ctx, s.db, func(ctx context.Context, tx dbx.DBTX) error {
		if err := s.repomanager.Notes(tx).DeleteByOwner(ctx, userID); err != nil {
			return fmt.Errorf("error deleting notes: %w", err)
		}
		if err := s.repomanager.Users(tx).Delete(ctx, userID); err != nil {
			return fmt.Errorf("error deleting user: %w", err)
		}
		return nil
	})
}

func parseBearer(header string) (string, bool) {
	parts := strings.Fields(header)
	if len(parts) != 2 || !strings.EqualFold(parts[0], common.BearerScheme) {
		return "", false
	}
	return parts[1], true
}
