// Package server wires configuration, storage, services and transports into
// a runnable application and handles graceful shutdown.
package server

import (
	"context"
	"database/sql"
	"fmt"
	"os"
	"os/signal"
	"sync"
	"syscall"

	"github.com/dmitrijs2005/gophnotes/internal/logging"
	"github.com/dmitrijs2005/gophnotes/internal/server/config"
	"github.com/dmitrijs2005/gophnotes/internal/server/httpapi"
	"github.com/dmitrijs2005/gophnotes/internal/server/repositories/repomanager"
	"github.com/dmitrijs2005/gophnotes/internal/server/services"
	_ "github.com/jackc/pgx/v5/stdlib"

	gs "github.com/dmitrijs2005/gophnotes/internal/server/grpc"
)

type App struct {
	config      *config.Config
	logger      logging.Logger
	db          *sql.DB
	repomanager repomanager.RepositoryManager
	userService *services.UserService
	noteService *services.NoteService
}

// NewApp opens the store selected by DatabaseDSN. A DSN of
// config.MemoryDSN keeps everything in process memory and registers
// Config.SeedUsers into it.
func NewApp(c *config.Config) (*App, error) {

	level, err := logging.ParseLevel(c.LogLevel)
	if err != nil {
		return nil, err
	}
	logger := logging.NewJSONLogger(os.Stdout, level)

	var (
		db *sql.DB
		rm repomanager.RepositoryManager
	)

	if c.InMemory() {
		rm = repomanager.NewInMemoryRepositoryManager()
	} else {
		db, err = sql.Open("pgx", c.DatabaseDSN)
		if err != nil {
			return nil, fmt.Errorf("db init error: %w", err)
		}
		rm = repomanager.NewPostgresRepositoryManager()
	}

	app := &App{
		config:      c,
		logger:      logger,
		db:          db,
		repomanager: rm,
		userService: services.NewUserService(db, rm),
		noteService: services.NewNoteService(db, rm),
	}

	if c.InMemory() {
		if err := app.seedUsers(context.Background()); err != nil {
			return nil, err
		}
	}

	return app, nil
}

// seedUsers registers the configured users. The in-memory store starts
// empty and has no other way to get accounts.
func (app *App) seedUsers(ctx context.Context) error {
	for _, su := range app.config.SeedUsers {
		u, err := app.userService.Register(ctx, su.Email, su.Password)
		if err != nil {
			return fmt.Errorf("seed user %q: %w", su.Email, err)
		}
		app.logger.Info(ctx, "Seeded user", "id", u.ID, "email", u.Email, "token", u.APIToken)
	}
	return nil
}

func (app *App) initSignalHandler(cancelFunc context.CancelFunc) {
	sigs := make(chan os.Signal, 1)
	signal.Notify(sigs, syscall.SIGINT, syscall.SIGTERM, syscall.SIGQUIT)

	go func() {
		<-sigs
		cancelFunc()
	}()
}

func (app *App) startHTTPServer(ctx context.Context, cancelFunc context.CancelFunc) {
	h := httpapi.NewHandlers(app.logger, app.userService, app.noteService)
	s := httpapi.NewServer(app.config.EndpointAddrHTTP, app.logger, h,
		app.config.ReadHeaderTimeout, app.config.ShutdownTimeout)

	if err := s.Run(ctx); err != nil {
		app.logger.Error(ctx, err.Error())
		cancelFunc()
	}
}

func (app *App) startGRPCServer(ctx context.Context, cancelFunc context.CancelFunc) {
	var pinger gs.Pinger
	if app.db != nil {
		pinger = app.db
	}

	s := gs.NewHealthServer(app.config.EndpointAddrGRPC, app.logger, pinger,
		app.config.HealthCheckInterval, app.config.ShutdownTimeout)

	if err := s.Run(ctx); err != nil {
		app.logger.Error(ctx, err.Error())
		cancelFunc()
	}
}

// Run migrates the schema, then serves HTTP and gRPC until ctx is cancelled
// or a termination signal arrives. The database is closed on every return.
func (app *App) Run(ctx context.Context) (err error) {

	ctx, cancelFunc := context.WithCancel(ctx)
	defer cancelFunc()

	defer func() {
		if app.db == nil {
			return
		}
		if cerr := app.db.Close(); cerr != nil && err == nil {
			err = fmt.Errorf("db close error: %w", cerr)
		}
	}()

	app.logger.Info(ctx, "Starting app...")

	if err := app.repomanager.RunMigrations(ctx, app.db); err != nil {
		return fmt.Errorf("migrations error: %w", err)
	}

	app.initSignalHandler(cancelFunc)

	var wg sync.WaitGroup

	wg.Add(2)
	go func() {
		defer wg.Done()
		app.startHTTPServer(ctx, cancelFunc)
	}()
	go func() {
		defer wg.Done()
		app.startGRPCServer(ctx, cancelFunc)
	}()

	wg.Wait()

	app.logger.Info(ctx, "App stopped")
	return nil
}
