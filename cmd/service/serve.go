package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"

	"video-playlist-service/internal/catalog"
	"video-playlist-service/internal/config"
	"video-playlist-service/internal/logging"
	"video-playlist-service/internal/playlist"
)

func runServe(ctx context.Context, envFiles []string) error {
	cfg, log, err := loadRuntime(envFiles)
	if err != nil {
		return err
	}
	defer func() { _ = log.Sync() }()

	ctx, stop := signal.NotifyContext(ctx, os.Interrupt, syscall.SIGTERM)
	defer stop()

	pool, err := pgxpool.New(ctx, cfg.DatabaseURL)
	if err != nil {
		return fmt.Errorf("postgres: %w", err)
	}
	defer pool.Close()

	if cfg.AutoMigrate {
		if err := migrate(ctx, pool); err != nil {
			return err
		}
	}

	rdb, err := newRedis(cfg.RedisURL)
	if err != nil {
		return err
	}
	if rdb != nil {
		defer rdb.Close()
	} else {
		log.Warn("REDIS_URL is empty, events and video cache disabled")
	}

	// Snapshots are taken from the table itself; the cache only fronts the
	// /videos reads.
	videoStore := catalog.NewPostgresStore(pool)
	videos := catalog.NewCachedCatalog(videoStore, rdb, cfg.VideoCacheTTL, log.Named("catalog"))
	svc := playlist.NewService(playlist.NewPostgresStore(pool), videoStore)

	httpSrv := &http.Server{
		Addr:              cfg.Addr(),
		Handler:           newRouter(cfg, log, svc, videos, rdb),
		ReadHeaderTimeout: 5 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		log.Info("listening", zap.String("addr", httpSrv.Addr))
		if err := httpSrv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()

	select {
	case err := <-errCh:
		if err != nil {
			return fmt.Errorf("http server: %w", err)
		}
		return nil
	case <-ctx.Done():
	}

	log.Info("shutting down")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.ShutdownTimeout)
	defer cancel()
	if err := httpSrv.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("shutdown: %w", err)
	}
	return nil
}

// newRedis returns nil when url is empty.
func newRedis(url string) (*redis.Client, error) {
	if url == "" {
		return nil, nil
	}
	opt, err := redis.ParseURL(url)
	if err != nil {
		return nil, fmt.Errorf("invalid REDIS_URL: %w", err)
	}
	return redis.NewClient(opt), nil
}

func newRouter(cfg config.Config, log *zap.Logger, svc *playlist.Service, videos catalog.Catalog, rdb *redis.Client) chi.Router {
	srv := playlist.NewServer(svc, rdb, log.Named("playlist"))

	r := srv.Router(
		middleware.RequestID,
		middleware.RealIP,
		logging.RequestLogger(log.Named("http")),
		middleware.Recoverer,
		middleware.Timeout(cfg.RequestTimeout),
	)
	catalog.NewHandler(videos, log.Named("catalog")).Routes(r)

	return r
}
