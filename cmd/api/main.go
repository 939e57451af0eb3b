package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"go.uber.org/multierr"

	"github.com/sitecms/sitecms-backend/api/controllers"
	"github.com/sitecms/sitecms-backend/api/routes"
	"github.com/sitecms/sitecms-backend/internal/attachments"
	"github.com/sitecms/sitecms-backend/internal/otherinfo"
	"github.com/sitecms/sitecms-backend/pkg/config"
	"github.com/sitecms/sitecms-backend/pkg/db"
	"github.com/sitecms/sitecms-backend/pkg/env"
	"github.com/sitecms/sitecms-backend/pkg/instance"
	"github.com/sitecms/sitecms-backend/pkg/logger"
	"github.com/sitecms/sitecms-backend/pkg/metrics"
	"github.com/sitecms/sitecms-backend/pkg/migrate"
	"github.com/sitecms/sitecms-backend/pkg/redis"
	"github.com/sitecms/sitecms-backend/pkg/storage"
	"github.com/sitecms/sitecms-backend/pkg/storage/gcs"
	"github.com/sitecms/sitecms-backend/pkg/storage/memstore"
)

const shutdownTimeout = 15 * time.Second

type closer interface {
	Close() error
}

func main() {
	logg := logger.New(logger.Options{ServiceName: "api"})

	if err := godotenv.Load(); err != nil {
		logg.Warn(context.Background(), ".env file not found, relying on environment")
	}

	cfg, err := config.Load()
	if err != nil {
		logg.Error(context.Background(), "failed to load config", err)
		os.Exit(1)
	}

	logg = logger.New(logger.Options{
		ServiceName: "api",
		Level:       logger.ParseLevel(cfg.App.LogLevel),
		WarnStack:   cfg.App.LogWarnStack,
		Console:     cfg.App.ConsoleLogs(),
	})

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := run(ctx, cfg, logg); err != nil {
		logg.Error(context.Background(), "api server stopped unexpectedly", err)
		os.Exit(1)
	}
}

func run(ctx context.Context, cfg *config.Config, logg *logger.Logger) (err error) {
	var closers []closer
	defer func() {
		for i := len(closers) - 1; i >= 0; i-- {
			err = multierr.Append(err, closers[i].Close())
		}
	}()

	dbClient, err := db.New(ctx, cfg.DB, logg)
	if err != nil {
		return err
	}
	closers = append(closers, dbClient)

	if err := migrate.MaybeRunDev(ctx, cfg, logg, dbClient); err != nil {
		return err
	}

	objects, err := openStore(ctx, cfg, logg)
	if err != nil {
		return err
	}
	closers = append(closers, objects)

	images, err := attachments.NewService(objects, attachments.Config{
		PublicHost:     cfg.Storage.PublicHost,
		MaxUploadBytes: cfg.Media.MaxUploadBytes(),
	}, logg)
	if err != nil {
		return err
	}

	svc, err := routes.NewServices(dbClient, images, logg)
	if err != nil {
		return err
	}
	if err := svc.OtherInfo.Ensure(ctx, otherinfo.DefaultEntries...); err != nil {
		return err
	}

	reg := prometheus.NewRegistry()
	reg.MustRegister(collectors.NewGoCollector(), collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}))

	opts := routes.Options{
		MaxImageBytes: images.MaxUploadBytes(),
		Readiness: map[string]controllers.Pinger{
			"database": dbClient,
			"storage":  images,
		},
		Metrics:  metrics.NewHTTPMetrics(reg),
		Gatherer: reg,
	}

	if cfg.Redis.Enabled() {
		redisClient, err := redis.New(ctx, cfg.Redis, logg)
		if err != nil {
			return err
		}
		closers = append(closers, redisClient)
		opts.Idempotency = redisClient
		opts.Readiness["redis"] = redisClient
	}

	addr := ":" + env.First(cfg.App.Port, "PORT")
	logCtx := logg.WithFields(ctx, map[string]any{
		"env":      cfg.App.Env,
		"addr":     addr,
		"instance": instance.GetID(),
		"storage":  cfg.Storage.Backend,
	})
	logg.Info(logCtx, "starting api server")

	server := &http.Server{
		Addr:              addr,
		Handler:           routes.NewRouter(cfg, logg, svc, opts),
		ReadHeaderTimeout: 10 * time.Second,
	}

	serveErr := make(chan error, 1)
	go func() {
		serveErr <- server.ListenAndServe()
	}()

	select {
	case err := <-serveErr:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return err
	case <-ctx.Done():
	}

	logg.Info(logCtx, "shutting down api server")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	return server.Shutdown(shutdownCtx)
}

// openStore picks the object store backend: GCS in deployed environments, an
// in-process store for local development and tests.
func openStore(ctx context.Context, cfg *config.Config, logg *logger.Logger) (storage.Store, error) {
	if cfg.Storage.UsesMemory() {
		logg.Warn(logg.WithField(ctx, "bucket", cfg.Storage.BucketName), "using in-memory object store")
		return memstore.New(cfg.Storage.BucketName), nil
	}
	client, err := gcs.NewClient(ctx, cfg.Storage, cfg.GCP, logg)
	if err != nil {
		return nil, err
	}
	return client, nil
}
