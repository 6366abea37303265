// Package server initializes and runs the snapshare API server. It wires the
// database, migrations, geocoder, file store, and HTTP endpoint together and
// handles graceful shutdown.
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
	"sync"
	"syscall"
	"time"

	"github.com/snapshare/backend/internal/geocode"
	"github.com/snapshare/backend/internal/logging"
	"github.com/snapshare/backend/internal/server/config"
	"github.com/snapshare/backend/internal/server/filestore"
	"github.com/snapshare/backend/internal/server/httpapi"
	"github.com/snapshare/backend/internal/server/repositories/repomanager"
	"github.com/snapshare/backend/internal/server/services"
)

const shutdownTimeout = 5 * time.Second

type App struct {
	config  *config.Config
	logger  logging.Logger
	db      *sql.DB
	handler http.Handler
}

func NewApp(ctx context.Context, cfg *config.Config) (*App, error) {

	logger := logging.NewSlogLogger(slog.New(slog.NewJSONHandler(os.Stdout, nil)))

	db, err := sql.Open("pgx", cfg.DatabaseDSN)
	if err != nil {
		return nil, fmt.Errorf("db init error: %w", err)
	}

	rm := repomanager.NewPostgresRepositoryManager()
	if err := rm.RunMigrations(ctx, db); err != nil {
		return nil, fmt.Errorf("migration error: %w", err)
	}

	files, err := newFileStore(ctx, cfg)
	if err != nil {
		return nil, fmt.Errorf("file store init error: %w", err)
	}

	geocoder := geocode.NewHTTPGeocoder(cfg.GeocoderBaseURL, cfg.GeocoderAPIKey, nil)

	userService := services.NewUserService(db, rm, cfg)
	snapService := services.NewSnapService(db, rm, geocoder, files, logger)

	userHandler := httpapi.NewUserHandler(userService, files, logger, cfg.MaxUploadBytes)
	snapHandler := httpapi.NewSnapHandler(snapService, files, logger, cfg.MaxUploadBytes)

	handler := httpapi.NewRouter(userHandler, snapHandler, userService, logger)

	return &App{config: cfg, logger: logger, db: db, handler: handler}, nil
}

func newFileStore(ctx context.Context, cfg *config.Config) (filestore.Store, error) {
	switch cfg.FileStore {
	case config.FileStoreS3:
		return filestore.NewS3Store(ctx, filestore.S3Config{
			RootUser:     cfg.S3RootUser,
			RootPassword: cfg.S3RootPassword,
			Bucket:       cfg.S3Bucket,
			Region:       cfg.S3Region,
			BaseEndpoint: cfg.S3BaseEndpoint,
		})
	case config.FileStoreLocal:
		return filestore.NewLocalStore(cfg.UploadDir)
	default:
		return nil, fmt.Errorf("unknown file store kind: %s", cfg.FileStore)
	}
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
	srv := &http.Server{
		Addr:    app.config.EndpointAddr,
		Handler: app.handler,
	}

	go func() {
		<-ctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
		defer cancel()
		if err := srv.Shutdown(shutdownCtx); err != nil {
			app.logger.Error(ctx, "server shutdown error", "error", err)
		}
	}()

	app.logger.Info(ctx, "listening", "addr", app.config.EndpointAddr)
	if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		app.logger.Error(ctx, err.Error())
		cancelFunc()
	}
}

func (app *App) Run(ctx context.Context) {

	ctx, cancelFunc := context.WithCancel(ctx)

	app.logger.Info(ctx, "Starting app...")

	app.initSignalHandler(cancelFunc)

	var wg sync.WaitGroup

	wg.Add(1)
	go func() {
		defer wg.Done()
		app.startHTTPServer(ctx, cancelFunc)
	}()

	wg.Wait()

	if err := app.db.Close(); err != nil {
		app.logger.Error(ctx, "db close error", "error", err)
	}
}
