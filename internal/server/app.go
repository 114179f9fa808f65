// Package server wires configuration, storage, services and transports into
// a runnable auth server and manages its lifecycle.
package server

import (
	"context"
	"fmt"
	"io"
	"os"
	"os/signal"
	"sync"
	"syscall"

	"github.com/dmitrijs2005/authkeeper/internal/logging"
	"github.com/dmitrijs2005/authkeeper/internal/server/auth"
	"github.com/dmitrijs2005/authkeeper/internal/server/config"
	"github.com/dmitrijs2005/authkeeper/internal/server/metrics"
	"github.com/dmitrijs2005/authkeeper/internal/server/repositories/memory"
	"github.com/dmitrijs2005/authkeeper/internal/server/repositories/repomanager"
	"github.com/dmitrijs2005/authkeeper/internal/server/rest"
	"github.com/dmitrijs2005/authkeeper/internal/server/services"
	"github.com/dmitrijs2005/authkeeper/internal/server/sweeper"
)

type App struct {
	config      *config.Config
	logger      logging.Logger
	store       repomanager.RepositoryManager
	closeStore  func() error
	userService *services.UserService
	tokens      *services.RefreshTokenManager
}

// NewApp builds the application. It fails when no JWT secret is configured
// or the database is unreachable.
func NewApp(ctx context.Context, c *config.Config) (*App, error) {
	return newApp(ctx, c, os.Stdout)
}

func newApp(ctx context.Context, c *config.Config, logOut io.Writer) (*App, error) {
	logger := logging.NewJSONLogger(logOut, c.LogLevel)

	codec, err := auth.NewCodec([]byte(c.SecretKey), c.AccessTokenTTL)
	if err != nil {
		return nil, fmt.Errorf("token codec init error: %w", err)
	}

	store, closeStore, err := openStore(ctx, c, logger)
	if err != nil {
		return nil, fmt.Errorf("db init error: %w", err)
	}

	tokens := services.NewRefreshTokenManager(store, codec, c.RefreshTokenTTL)
	us := services.NewUserService(store, codec, tokens, logger.With("module", "user_service"))

	return &App{
		config:      c,
		logger:      logger,
		store:       store,
		closeStore:  closeStore,
		userService: us,
		tokens:      tokens,
	}, nil
}

// openStore selects Postgres when a DSN is configured and the in-memory store
// otherwise.
func openStore(ctx context.Context, c *config.Config, logger logging.Logger) (repomanager.RepositoryManager, func() error, error) {
	if c.DatabaseDSN == "" {
		logger.Warn(ctx, "No database DSN configured, using in-memory store; data is lost on exit")
		return memory.NewManager(), func() error { return nil }, nil
	}

	db, err := repomanager.OpenPostgres(ctx, c.DatabaseDSN)
	if err != nil {
		return nil, nil, err
	}

	m := repomanager.NewPostgresRepositoryManager(db)
	if err := m.RunMigrations(ctx); err != nil {
		_ = db.Close()
		return nil, nil, fmt.Errorf("migrations: %w", err)
	}
	return m, db.Close, nil
}

func (app *App) initSignalHandler(ctx context.Context, cancelFunc context.CancelFunc) {
	sigs := make(chan os.Signal, 1)
	signal.Notify(sigs, syscall.SIGINT, syscall.SIGTERM, syscall.SIGQUIT)

	go func() {
		defer signal.Stop(sigs)
		select {
		case s := <-sigs:
			app.logger.Info(ctx, "Signal received", "signal", s.String())
			cancelFunc()
		case <-ctx.Done():
		}
	}()
}

func (app *App) startHTTPServer(ctx context.Context, cancelFunc context.CancelFunc) {
	s := rest.NewHTTPServer(app.config.Address, app.logger, app.userService, app.config.AllowedOrigins)

	if err := s.Run(ctx); err != nil {
		app.logger.Error(ctx, err.Error())
		cancelFunc()
	}
}

// Run serves until ctx is canceled or a termination signal arrives.
func (app *App) Run(ctx context.Context) {
	ctx, cancelFunc := context.WithCancel(ctx)
	defer cancelFunc()

	app.logger.Info(ctx, "Starting app...")

	metrics.Register()
	app.initSignalHandler(ctx, cancelFunc)

	var wg sync.WaitGroup

	wg.Add(2)
	go func() {
		defer wg.Done()
		app.startHTTPServer(ctx, cancelFunc)
	}()
	go func() {
		defer wg.Done()
		sweeper.New(app.tokens, app.config.SweepInterval, app.logger).Run(ctx)
	}()

	wg.Wait()

	if err := app.closeStore(); err != nil {
		app.logger.Error(ctx, "closing store", "error", err)
	}
	app.logger.Info(ctx, "App stopped")
}
