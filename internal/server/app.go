// Package server initializes and runs the application: configuration,
// database and Redis connections, migrations, services and the HTTP server,
// with graceful shutdown on OS signals.
package server

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	_ "github.com/jackc/pgx/v5/stdlib"

	"github.com/dmitrijs2005/calcledger/internal/logging"
	"github.com/dmitrijs2005/calcledger/internal/server/auth"
	"github.com/dmitrijs2005/calcledger/internal/server/config"
	"github.com/dmitrijs2005/calcledger/internal/server/httpapi"
	"github.com/dmitrijs2005/calcledger/internal/server/repositories/repomanager"
	"github.com/dmitrijs2005/calcledger/internal/server/revocation"
	"github.com/dmitrijs2005/calcledger/internal/server/services"
)

const shutdownTimeout = 10 * time.Second

type App struct {
	config             *config.Config
	logger             logging.Logger
	db                 *sql.DB
	userService        *services.UserService
	calculationService *services.CalculationService
}

func NewApp(ctx context.Context, cfg *config.Config) (*App, error) {

	logger := logging.NewSlogLogger(slog.New(slog.NewJSONHandler(os.Stdout, nil)))

	db, err := sql.Open("pgx", cfg.DatabaseDSN)
	if err != nil {
		return nil, fmt.Errorf("db init error: %w", err)
	}

	rm, err := repomanager.NewPostgresRepositoryManager(db)
	if err != nil {
		return nil, fmt.Errorf("db init error: %w", err)
	}

	if err := rm.RunMigrations(ctx, db); err != nil {
		return nil, fmt.Errorf("migration error: %w", err)
	}

	redisClient, err := revocation.NewRedisClient(ctx, cfg.RedisAddr, cfg.RedisPassword, cfg.RedisDB)
	if err != nil {
		return nil, fmt.Errorf("redis init error: %w", err)
	}

	codec, err := auth.NewTokenCodec(
		[]byte(cfg.AccessSecretKey), []byte(cfg.RefreshSecretKey),
		cfg.AccessTokenValidityDuration, cfg.RefreshTokenValidityDuration,
	)
	if err != nil {
		return nil, fmt.Errorf("token codec init error: %w", err)
	}

	hasher := auth.NewPasswordHasher(cfg.BcryptCost)
	revocations := revocation.NewRedisStore(redisClient)

	us := services.NewUserService(db, rm, codec, hasher, revocations, cfg)
	cs := services.NewCalculationService(db, rm)

	return &App{
		config:             cfg,
		logger:             logger,
		db:                 db,
		userService:        us,
		calculationService: cs,
	}, nil
}

func (app *App) initSignalHandler(cancelFunc context.CancelFunc) {
	sigs := make(chan os.Signal, 1)
	signal.Notify(sigs, syscall.SIGINT, syscall.SIGTERM, syscall.SIGQUIT)

	go func() {
		<-sigs
		cancelFunc()
	}()
}

func (app *App) Run(ctx context.Context) error {

	ctx, cancelFunc := context.WithCancel(ctx)
	defer cancelFunc()

	app.initSignalHandler(cancelFunc)

	router := httpapi.NewRouter(app.config, app.logger, app.db, app.userService, app.calculationService)

	srv := &http.Server{
		Addr:    app.config.EndpointAddr,
		Handler: router,
	}

	errCh := make(chan error, 1)
	go func() {
		app.logger.Info(ctx, "starting http server", "addr", app.config.EndpointAddr)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
	}()

	select {
	case err := <-errCh:
		return fmt.Errorf("http server error: %w", err)
	case <-ctx.Done():
	}

	app.logger.Info(ctx, "shutting down")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("shutdown error: %w", err)
	}

	if err := app.db.Close(); err != nil {
		app.logger.Warn(ctx, "error closing db", "error", err)
	}

	return nil
}
