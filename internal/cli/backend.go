package cli

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/dmitrijs2005/gophnotes/internal/server/config"
	"github.com/dmitrijs2005/gophnotes/internal/server/models"
	"github.com/dmitrijs2005/gophnotes/internal/server/repositories/repomanager"
	"github.com/dmitrijs2005/gophnotes/internal/server/services"
	_ "github.com/jackc/pgx/v5/stdlib"
)

// UserAdmin is the part of services.UserService the CLI needs.
type UserAdmin interface {
	Register(ctx context.Context, email, password string) (*models.User, error)
	GetByEmail(ctx context.Context, email string) (*models.User, error)
	Delete(ctx context.Context, userID int64) error
}

// Backend is an open connection to the store the commands operate on.
type Backend struct {
	Users   UserAdmin
	Migrate func(ctx context.Context) error
	Close   func() error
}

// Opener connects to the store named by dsn.
type Opener func(ctx context.Context, dsn string) (*Backend, error)

// OpenPostgres is the production Opener.
func OpenPostgres(ctx context.Context, dsn string) (*Backend, error) {
	c := config.Config{DatabaseDSN: dsn}
	if c.InMemory() {
		return nil, errors.New("the in-memory store lives inside the server process and cannot be administered")
	}

	db, err := sql.Open("pgx", dsn)
	if err != nil {
		return nil, fmt.Errorf("db init error: %w", err)
	}
	if err := db.PingContext(ctx); err != nil {
		db.Close()
		return nil, fmt.Errorf("db ping error: %w", err)
	}

	rm := repomanager.NewPostgresRepositoryManager()

	return &Backend{
		Users:   services.NewUserService(db, rm),
		Migrate: func(ctx context.Context) error { return rm.RunMigrations(ctx, db) },
		Close:   db.Close,
	}, nil
}

func defaultDSN() string {
	var c config.Config
	c.LoadDefaults()
	return c.DatabaseDSN
}
