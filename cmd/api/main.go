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

	"github.com/gin-gonic/gin"
	"github.com/go-redis/redis/v8"
	"github.com/justsurfingit/job-board/internal/auth"
	"github.com/justsurfingit/job-board/internal/config"
	"github.com/justsurfingit/job-board/internal/database"
	"github.com/justsurfingit/job-board/internal/logging"
	"github.com/justsurfingit/job-board/internal/reporting"
	"github.com/justsurfingit/job-board/internal/server"
	"github.com/justsurfingit/job-board/internal/services"
	"github.com/justsurfingit/job-board/internal/storage"
	"golang.org/x/crypto/bcrypt"
)

func main() {
	if err := run(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func run() error {
	cfg, err := config.Load(os.Args[1:])
	if err != nil {
		return err
	}

	log, closer := logging.New(cfg.LogFile, cfg.LogLevel)
	defer closer.Close()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	reporter := reporting.New(cfg.SentryDSN, cfg.SentryEnvironment, log)
	defer reporter.Flush(2 * time.Second)

	db, err := database.Connect(cfg.DatabaseDSN)
	if err != nil {
		return err
	}

	var store auth.SessionStore
	if cfg.RedisAddr != "" {
		rdb := redis.NewClient(&redis.Options{
			Addr:     cfg.RedisAddr,
			Password: cfg.RedisPassword,
			DB:       cfg.RedisDB,
		})
		defer rdb.Close()
		if err := rdb.Ping(ctx).Err(); err != nil {
			return fmt.Errorf("connect to redis: %w", err)
		}
		store = auth.NewRedisStore(rdb)
	} else {
		log.Warn(ctx, "REDIS_ADDR not set, sessions are kept in memory")
		store = auth.NewMemoryStore()
	}
	sessions := auth.NewSessionManager(store, auth.SessionOptions{
		Secret:      cfg.SessionSecret,
		TTL:         cfg.SessionTTL,
		RememberTTL: cfg.RememberTTL,
		Secure:      cfg.CookieSecure,
	})

	var (
		assets storage.AssetStore
		local  *storage.LocalStore
	)
	switch cfg.AssetBackend {
	case "s3":
		s3Store, err := storage.NewS3Store(ctx, storage.S3Options{
			AccessKey:    cfg.S3AccessKey,
			SecretKey:    cfg.S3SecretKey,
			Bucket:       cfg.S3Bucket,
			Region:       cfg.S3Region,
			BaseEndpoint: cfg.S3BaseEndpoint,
		})
		if err != nil {
			return err
		}
		assets = s3Store
	default:
		local, err = storage.NewLocalStore(cfg.UploadDir)
		if err != nil {
			return err
		}
		assets = local
	}

	users := services.NewUserService(db, auth.NewBcryptHasher(bcrypt.DefaultCost), assets, log, cfg.KeepReplacedImages)
	jobs := services.NewJobService(db, log)
	search := services.NewAdzunaService(services.AdzunaOptions{
		AppID:           cfg.AdzunaAppID,
		APIKey:          cfg.AdzunaAPIKey,
		BaseURL:         cfg.AdzunaBaseURL,
		Timeout:         cfg.AdzunaTimeout,
		DefaultLocation: cfg.AdzunaDefaultLocation,
		DefaultLat:      cfg.AdzunaDefaultLat,
		DefaultLon:      cfg.AdzunaDefaultLon,
	}, log)

	llm, err := services.NewLLMService(ctx, cfg.GeminiAPIKey, cfg.GeminiModel, log)
	if err != nil {
		return err
	}
	var extractor services.JobExtractor
	if llm.Enabled() {
		extractor = llm
	}

	gin.SetMode(gin.ReleaseMode)
	router, err := server.NewRouter(server.Deps{
		Log:         log,
		Reporter:    reporter,
		Users:       users,
		Jobs:        jobs,
		Sessions:    sessions,
		Search:      search,
		Extractor:   extractor,
		Assets:      assets,
		Local:       local,
		CORSOrigins: cfg.CORSOrigins,
	})
	if err != nil {
		return err
	}

	srv := &http.Server{
		Addr:              cfg.HTTPAddr,
		Handler:           router,
		ReadHeaderTimeout: 10 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		log.Info(ctx, "server starting", "addr", cfg.HTTPAddr, "assets", cfg.AssetBackend, "extraction", llm.Enabled())
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
	}

	log.Info(context.Background(), "shutting down")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	return srv.Shutdown(shutdownCtx)
}
