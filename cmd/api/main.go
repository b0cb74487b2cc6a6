package main

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"cypher-backend/internal/config"
	"cypher-backend/internal/notify"
	"cypher-backend/internal/registry"
	"cypher-backend/internal/training"
	"cypher-backend/internal/vapi"
	"cypher-backend/pkg/logger"
	"cypher-backend/pkg/utils"

	"github.com/gin-gonic/gin"
)

func main() {
	// Root context that cancels on shutdown
	rootCtx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	cfg, err := config.Load()
	if err != nil {
		slog.Error("config load failed", "err", err)
		os.Exit(1)
	}

	log := logger.New(cfg.App.Env)
	slog.SetDefault(log)

	if cfg.IsProduction() {
		gin.SetMode(gin.ReleaseMode)
	}

	store, err := buildRegistry(rootCtx, cfg, log)
	if err != nil {
		log.Error("registry init failed", "err", err)
		os.Exit(1)
	}

	var mailer notify.Mailer
	if cfg.EmailEnabled() {
		mailer = notify.NewResendMailer(cfg.Email.ResendAPIKey, cfg.Email.From, cfg.Email.To)
		log.Info("completion email enabled", "to", cfg.Email.To)
	} else {
		log.Info("completion email disabled")
	}

	vapiClient := vapi.NewClient(cfg.Vapi.BaseURL, cfg.Vapi.APIKey, cfg.Vapi.Timeout)
	svc := training.NewService(vapiClient, store, mailer, cfg.Vapi.AssistantID, cfg.Vapi.PhoneNumberID)

	r := gin.New()
	r.Use(gin.Recovery())
	r.Use(logger.Middleware(log))

	registerRoutes(r, training.Handlers{
		Training:      svc,
		WebhookSecret: cfg.Vapi.WebhookSecret,
	})

	srv := &http.Server{
		Addr:              cfg.HTTPAddr(),
		Handler:           r,
		ReadHeaderTimeout: 5 * time.Second,
		ReadTimeout:       15 * time.Second,
		WriteTimeout:      60 * time.Second,
		IdleTimeout:       60 * time.Second,
	}

	go func() {
		log.Info("api listening", "addr", srv.Addr, "env", cfg.App.Env)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Error("http server failed", "err", err)
			stop()
		}
	}()

	<-rootCtx.Done()
	log.Info("shutdown initiated")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 20*time.Second)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Error("http shutdown failed", "err", err)
	}
}

// buildRegistry picks the registry backend: Redis when configured, otherwise
// the process-local store with its own eviction sweep.
func buildRegistry(ctx context.Context, cfg config.Config, log *slog.Logger) (registry.Store, error) {
	if cfg.UseRedisRegistry() {
		rdb, err := utils.OpenRedis(ctx, utils.RedisConfig{Addr: cfg.RedisAddr()})
		if err != nil {
			return nil, err
		}
		log.Info("using redis call registry", "addr", cfg.RedisAddr(), "ttl", cfg.Registry.TTL)
		return registry.NewRedisStore(rdb, cfg.Registry.TTL), nil
	}

	mem := registry.NewMemoryStore(cfg.Registry.TTL, cfg.Registry.MaxEntries)
	go mem.Run(ctx, time.Minute)
	log.Info("using in-memory call registry", "ttl", cfg.Registry.TTL, "max_entries", cfg.Registry.MaxEntries)
	return mem, nil
}
