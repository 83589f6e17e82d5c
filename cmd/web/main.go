package main

import (
	"context"
	"errors"
	"fmt"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"go.uber.org/zap"

	"github.com/bryanwahyu/triagedesk/internal/application"
	apppref "github.com/bryanwahyu/triagedesk/internal/application/preference"
	"github.com/bryanwahyu/triagedesk/internal/application/report"
	"github.com/bryanwahyu/triagedesk/internal/application/submission"
	"github.com/bryanwahyu/triagedesk/internal/config"
	"github.com/bryanwahyu/triagedesk/internal/domain/preference"
	"github.com/bryanwahyu/triagedesk/internal/i18n"
	"github.com/bryanwahyu/triagedesk/internal/infra/db"
	"github.com/bryanwahyu/triagedesk/internal/infra/diagnosisapi"
	"github.com/bryanwahyu/triagedesk/internal/infra/httpserver"
	"github.com/bryanwahyu/triagedesk/internal/infra/storage"
	"github.com/bryanwahyu/triagedesk/internal/logging"
	"github.com/bryanwahyu/triagedesk/internal/middleware"
	"github.com/bryanwahyu/triagedesk/internal/render"
)

func main() {
	// load config (CONFIG_PATH, default config.yaml)
	cfg, err := config.FromEnv()
	if err != nil {
		log.Fatalf("config load error: %v", err)
	}
	if err := cfg.Validate(); err != nil {
		log.Fatalf("config invalid: %v", err)
	}

	logger, err := logging.New(cfg.Log.Level, cfg.Log.Format)
	if err != nil {
		log.Fatalf("logger init error: %v", err)
	}
	defer func() { _ = logger.Sync() }()

	if err := run(cfg, logger); err != nil {
		logger.Fatal("server stopped", zap.Error(err))
	}
}

func run(cfg *config.Config, logger *zap.Logger) error {
	ctx := context.Background()

	tr, err := i18n.New(cfg.I18n.DefaultLanguage)
	if err != nil {
		return err
	}

	schema, err := cfg.Schema()
	if err != nil {
		return err
	}
	baseURL, err := cfg.BaseURL()
	if err != nil {
		return err
	}
	client, err := diagnosisapi.NewClient(baseURL, schema, cfg.API.Timeout,
		diagnosisapi.WithLogger(logger.Named("diagnosisapi")))
	if err != nil {
		return err
	}
	logger.Info("diagnosis api",
		zap.String("base_url", baseURL),
		zap.String("schema", schema.Name()),
		zap.Int("min_description_length", schema.Policy().MinDescriptionLength),
	)

	health := map[string]middleware.HealthChecker{
		"diagnosis_api": middleware.CheckerFunc(client.Ping),
	}

	// preference store: cookies by default, or a SQL table
	var store preference.Store = httpserver.CookieStore{}
	if cfg.Preferences.Driver != config.DriverCookie {
		s, conn, err := db.OpenPreferences(ctx, cfg.Preferences.Driver, cfg.PreferencesDSN())
		if err != nil {
			return fmt.Errorf("preferences %s: %w", cfg.Preferences.Driver, err)
		}
		defer conn.Close()
		store = s
		health["preferences"] = &middleware.DatabaseHealthChecker{DB: conn}
	}

	// optional report archive
	var archiver *report.Archiver
	if cfg.Archive.Enabled {
		bucket, err := storage.New(ctx, storage.Options{
			Endpoint:  cfg.Archive.Endpoint,
			Region:    cfg.Archive.Region,
			Bucket:    cfg.Archive.BucketName,
			AccessKey: cfg.Archive.AccessKey,
			SecretKey: cfg.Archive.SecretKey,
			UseSSL:    cfg.Archive.UseSSL,
			PublicURL: cfg.Archive.PublicURL,
		})
		if err != nil {
			return fmt.Errorf("archive init: %w", err)
		}
		archiver = &report.Archiver{
			Store:   bucket,
			Clock:   application.SystemClock{},
			Timeout: 10 * time.Second,
			Log:     logger.Named("archive"),
		}
		health["archive"] = middleware.CheckerFunc(bucket.Check)
	}

	limiter := middleware.NewRateLimiter(cfg.RateLimit.Capacity, cfg.RateLimit.Refill)
	defer limiter.Stop()

	ctlLog := logger.Named("submission")
	router, err := httpserver.NewRouter(httpserver.Options{
		Schema: schema,
		NewController: func() (*submission.Controller, error) {
			return submission.New(client, schema.Policy(), submission.WithLogger(ctlLog))
		},
		SessionTTL:    cfg.Server.SessionTTL,
		Preferences:   &apppref.Service{Store: store, Languages: tr},
		Translator:    tr,
		Renderer:      render.NewRenderer(),
		Archiver:      archiver,
		Metrics:       middleware.NewMetrics(),
		Limiter:       limiter,
		Health:        health,
		CORSOrigins:   cfg.Server.CORSOrigins,
		SecureCookies: cfg.Server.SecureCookies,
		Log:           logger.Named("http"),
	})
	if err != nil {
		return err
	}
	defer router.Close()

	addr := fmt.Sprintf(":%d", cfg.Server.Port)
	srv := &http.Server{
		Addr:         addr,
		Handler:      router,
		ReadTimeout:  cfg.Server.ReadTimeout,
		WriteTimeout: cfg.Server.WriteTimeout,
		IdleTimeout:  cfg.Server.IdleTimeout,
	}

	// run server
	errCh := make(chan error, 1)
	go func() {
		logger.Info("server listening", zap.String("addr", addr))
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()

	// graceful shutdown
	stop := make(chan os.Signal, 1)
	signal.Notify(stop, os.Interrupt, syscall.SIGTERM)
	select {
	case err := <-errCh:
		return err
	case <-stop:
	}
	logger.Info("shutting down server...")

	ctx2, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := srv.Shutdown(ctx2); err != nil {
		logger.Warn("shutdown error", zap.Error(err))
	}
	return nil
}
