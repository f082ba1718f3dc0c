// Package server initializes and runs the application: it opens the
// database, runs migrations, wires the services, and starts the HTTP
// server with graceful shutdown on SIGINT/SIGTERM.
package server

import (
	"context"
	"database/sql"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"sync"
	"syscall"
	"time"

	"github.com/akozlov/activityhub/internal/logging"
	"github.com/akozlov/activityhub/internal/server/auth"
	"github.com/akozlov/activityhub/internal/server/config"
	"github.com/akozlov/activityhub/internal/server/httpapi"
	"github.com/akozlov/activityhub/internal/server/repositories/repomanager"
	"github.com/akozlov/activityhub/internal/server/repositories/revokedtokens"
	"github.com/akozlov/activityhub/internal/server/services"
)

// ledgerGCInterval is how often expired revocation entries are purged.
const ledgerGCInterval = time.Hour

type App struct {
	config *config.Config
	logger logging.Logger

	db          *sql.DB
	revokedRepo revokedtokens.Repository
	httpServer  *httpapi.Server
}

func NewApp(cfg *config.Config) (*App, error) {
	logger := logging.NewSlogLogger(slog.New(slog.NewJSONHandler(os.Stdout, nil)))

	db, err := sql.Open("pgx", cfg.DatabaseDSN)
	if err != nil {
		return nil, fmt.Errorf("db init error: %w", err)
	}

	manager := repomanager.NewPostgresRepositoryManager()
	if err := manager.RunMigrations(context.Background(), db); err != nil {
		return nil, fmt.Errorf("migration error: %w", err)
	}

	organizersRepo := manager.Organizers(db)
	activitiesRepo := manager.Activities(db)
	revokedRepo := manager.RevokedTokens(db)

	issuer := auth.NewIssuer([]byte(cfg.SecretKey),
		cfg.AccessTokenValidityDuration, cfg.RefreshTokenValidityDuration)

	organizerService := services.NewOrganizerService(organizersRepo, revokedRepo, issuer)
	activityService := services.NewActivityService(activitiesRepo)

	httpServer := httpapi.NewServer(cfg, logger, issuer, organizerService, activityService, revokedRepo)

	return &App{
		config:      cfg,
		logger:      logger,
		db:          db,
		revokedRepo: revokedRepo,
		httpServer:  httpServer,
	}, nil
}

func (app *App) initSignalHandler(cancel context.CancelFunc) {
	sigs := make(chan os.Signal, 1)
	signal.Notify(sigs, syscall.SIGINT, syscall.SIGTERM, syscall.SIGQUIT)

	go func() {
		<-sigs
		cancel()
	}()
}

// runLedgerGC periodically deletes revocation entries old enough that the
// tokens they blocked have expired on their own. The retention window is
// the refresh-token lifetime, the longest-lived token the server mints.
func (app *App) runLedgerGC(ctx context.Context) {
	ticker := time.NewTicker(ledgerGCInterval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			cutoff := time.Now().Add(-app.config.RefreshTokenValidityDuration)
			deleted, err := app.revokedRepo.DeleteRevokedBefore(ctx, cutoff)
			if err != nil {
				app.logger.Error(ctx, "revocation ledger gc failed", "error", err)
				continue
			}
			if deleted > 0 {
				app.logger.Info(ctx, "revocation ledger gc", "deleted", deleted)
			}
		}
	}
}

func (app *App) Run(ctx context.Context) {
	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	app.logger.Info(ctx, "starting app")
	app.initSignalHandler(cancel)

	var wg sync.WaitGroup

	wg.Add(1)
	go func() {
		defer wg.Done()
		app.runLedgerGC(ctx)
	}()

	wg.Add(1)
	go func() {
		defer wg.Done()
		if err := app.httpServer.Run(ctx); err != nil {
			app.logger.Error(ctx, "http server error", "error", err)
			cancel()
		}
	}()

	wg.Wait()

	if err := app.db.Close(); err != nil {
		app.logger.Error(ctx, "db close error", "error", err)
	}
	app.logger.Info(ctx, "app stopped")
}
