// Package server initializes and runs the handlekeeper API server.
// It configures the account store, runs migrations, handles graceful
// shutdown, and starts the HTTP server.
package server

import (
	"context"
	"fmt"
	"io"
	"os"
	"os/signal"
	"sync"
	"syscall"

	"github.com/dmitrijs2005/handlekeeper/internal/logging"
	"github.com/dmitrijs2005/handlekeeper/internal/server/auth"
	"github.com/dmitrijs2005/handlekeeper/internal/server/config"
	"github.com/dmitrijs2005/handlekeeper/internal/server/repositories/repomanager"
	"github.com/dmitrijs2005/handlekeeper/internal/server/services"

	hs "github.com/dmitrijs2005/handlekeeper/internal/server/http"
)

type App struct {
	config      *config.Config
	logger      logging.Logger
	repomanager repomanager.RepositoryManager
	accounts    *services.AccountService
	tokens      *auth.TokenIssuer
}

// openStore is a seam for tests; it returns the repository manager for the
// configured store.
var openStore = func(ctx context.Context, c *config.Config) (repomanager.RepositoryManager, error) {
	switch c.Store {
	case config.StoreMemory:
		return repomanager.NewMemoryRepositoryManager(), nil
	default:
		db, err := repomanager.OpenPostgres(ctx, c.DatabaseDSN)
		if err != nil {
			return nil, err
		}
		return repomanager.NewPostgresRepositoryManager(db)
	}
}

// NewApp builds the dependency graph from c. Logs go to w.
func NewApp(ctx context.Context, c *config.Config, w io.Writer) (*App, error) {

	logger, err := logging.New(w, c.LogFormat, c.LogLevel)
	if err != nil {
		return nil, fmt.Errorf("logger init error: %w", err)
	}

	rm, err := openStore(ctx, c)
	if err != nil {
		return nil, fmt.Errorf("db init error: %w", err)
	}

	if err := rm.RunMigrations(ctx); err != nil {
		_ = rm.Close()
		return nil, fmt.Errorf("migrations error: %w", err)
	}

	tokens := auth.NewTokenIssuer(auth.StaticSecret(c.SecretKey), c.TokenValidityDuration)
	hasher := auth.NewBcryptHasher(c.BcryptCost, c.HashConcurrency)
	as := services.NewAccountService(rm, hasher, tokens,
		services.WithLogger(logger),
		services.WithAtomicSignup(c.AtomicSignup),
	)

	return &App{config: c, logger: logger, repomanager: rm, accounts: as, tokens: tokens}, nil
}

// NewAppFromEnv is what cmd/server uses: config from os.Args and the
// environment, logs to stdout.
func NewAppFromEnv(ctx context.Context) (*App, error) {
	c, err := config.LoadConfig()
	if err != nil {
		return nil, err
	}
	return NewApp(ctx, c, os.Stdout)
}

func (app *App) initSignalHandler(cancelFunc context.CancelFunc) {
	// Channel to catch OS signals.
	sigs := make(chan os.Signal, 1)
	signal.Notify(sigs, syscall.SIGINT, syscall.SIGTERM, syscall.SIGQUIT)

	go func() {
		<-sigs
		cancelFunc()
	}()
}

func (app *App) startHTTPServer(ctx context.Context, cancelFunc context.CancelFunc) {

	s := hs.NewHTTPServer(app.config.HTTPAddr, app.logger, app.accounts, app.tokens, app.config.CORSOrigins)

	if err := s.Run(ctx); err != nil {
		app.logger.Error(ctx, err.Error())
		cancelFunc()
	}
}

// Run serves until ctx is cancelled or a termination signal arrives.
func (app *App) Run(ctx context.Context) {

	ctx, cancelFunc := context.WithCancel(ctx)
	defer cancelFunc()

	app.logger.Info(ctx, "Starting app...", "store", app.config.Store, "atomic_signup", app.config.AtomicSignup)

	app.initSignalHandler(cancelFunc)

	var wg sync.WaitGroup

	wg.Add(1)
	go func() {
		defer wg.Done()
		app.startHTTPServer(ctx, cancelFunc)
	}()

	wg.Wait()

	if err := app.repomanager.Close(); err != nil {
		app.logger.Error(context.Background(), "closing store", "error", err)
	}
	app.logger.Info(context.Background(), "Stopped")
}
