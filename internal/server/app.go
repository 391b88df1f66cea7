// Package server initializes and runs the application: it opens the database,
// applies migrations, wires the asset store, geocoder and services, and
// starts the HTTP server with graceful shutdown.
package server

import (
	"context"
	"database/sql"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"sync"
	"syscall"
	"time"

	"github.com/avoronin/placekeeper/internal/logging"
	"github.com/avoronin/placekeeper/internal/server/assets"
	"github.com/avoronin/placekeeper/internal/server/config"
	"github.com/avoronin/placekeeper/internal/server/geo"
	"github.com/avoronin/placekeeper/internal/server/httpapi"
	"github.com/avoronin/placekeeper/internal/server/repositories/repomanager"
	"github.com/avoronin/placekeeper/internal/server/services"
	"github.com/sethvargo/go-retry"
)

type App struct {
	config *config.Config
	logger logging.Logger
	server *httpapi.Server
	db     *sql.DB
}

func NewApp(ctx context.Context, cfg *config.Config) (*App, error) {
	slogger := slog.New(slog.NewJSONHandler(os.Stdout, nil))
	logger := logging.NewSlogLogger(slogger)

	db, err := sql.Open("pgx", cfg.DatabaseDSN)
	if err != nil {
		return nil, fmt.Errorf("db open error: %w", err)
	}

	// The database may still be coming up alongside us; bounded backoff on
	// the first ping only, requests are never retried internally.
	backoff := retry.WithMaxRetries(5, retry.NewExponential(500*time.Millisecond))
	if err := retry.Do(ctx, backoff, func(ctx context.Context) error {
		if err := db.PingContext(ctx); err != nil {
			return retry.RetryableError(err)
		}
		return nil
	}); err != nil {
		return nil, fmt.Errorf("db ping error: %w", err)
	}

	rm := repomanager.NewPostgresRepositoryManager()
	if err := rm.RunMigrations(ctx, db); err != nil {
		return nil, fmt.Errorf("migrations error: %w", err)
	}

	store, mounts, err := newAssetStore(ctx, cfg, logger)
	if err != nil {
		return nil, fmt.Errorf("asset store error: %w", err)
	}

	resolver := geo.NewClient(cfg.GeocoderEndpoint, cfg.GeocoderAPIKey, nil)

	us := services.NewUserService(db, rm, store, logger, cfg)
	ps := services.NewPlaceService(db, rm, store, resolver, logger)

	api := httpapi.NewHandler(us, ps, logger, cfg)
	srv := httpapi.NewServer(cfg.EndpointAddr, api, slogger, logger, mounts)

	return &App{config: cfg, logger: logger, server: srv, db: db}, nil
}

// newAssetStore picks the configured backend. The disk backend also gets its
// upload directory mounted for static serving.
func newAssetStore(ctx context.Context, cfg *config.Config, logger logging.Logger) (assets.Store, map[string]http.Handler, error) {
	switch cfg.AssetBackend {
	case "s3":
		store, err := assets.NewS3Store(ctx, assets.S3Options{
			Region:       cfg.S3Region,
			BaseEndpoint: cfg.S3BaseEndpoint,
			AccessKey:    cfg.S3AccessKey,
			SecretKey:    cfg.S3SecretKey,
			Bucket:       cfg.S3Bucket,
		}, cfg.MaxAssetSize, logger)
		return store, nil, err
	default:
		store, err := assets.NewDiskStore(cfg.UploadDir, cfg.UploadPrefix, cfg.MaxAssetSize, logger)
		if err != nil {
			return nil, nil, err
		}
		mounts := map[string]http.Handler{
			"GET /" + cfg.UploadPrefix + "/": http.StripPrefix("/"+cfg.UploadPrefix+"/", http.FileServer(http.Dir(cfg.UploadDir))),
		}
		return store, mounts, nil
	}
}

func (app *App) initSignalHandler(cancelFunc context.CancelFunc) {
	sigs := make(chan os.Signal, 1)
	signal.Notify(sigs, syscall.SIGINT, syscall.SIGTERM, syscall.SIGQUIT)

	go func() {
		<-sigs
		cancelFunc()
	}()
}

func (app *App) Run(ctx context.Context) {
	ctx, cancelFunc := context.WithCancel(ctx)

	app.logger.Info(ctx, "Starting app...")

	app.initSignalHandler(cancelFunc)

	var wg sync.WaitGroup

	wg.Add(1)
	go func() {
		defer wg.Done()
		if err := app.server.Run(ctx); err != nil {
			app.logger.Error(ctx, err.Error())
			cancelFunc()
		}
	}()

	wg.Wait()

	if err := app.db.Close(); err != nil {
		app.logger.Error(ctx, "db close error", "error", err)
	}
}
