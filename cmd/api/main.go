package main

import (
	"context"
	"flag"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/pkg/errors"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"golang.org/x/time/rate"

	"pet-adoption/internal/adapters/auth/token"
	"pet-adoption/internal/adapters/storage"
	"pet-adoption/internal/config"
	"pet-adoption/internal/middleware"
	"pet-adoption/internal/platform/logger"
	"pet-adoption/internal/router"
)

// @title Adopit API
// @version 1.0
// @description Datastore local de adopción de mascotas: publicaciones, descubrimiento por swipes, favoritos y sesión.
// @BasePath /
// @securityDefinitions.apikey BearerAuth
// @in header
// @name Authorization
func main() {
	configPath := flag.String("config", os.Getenv("ADOPIT_CONFIG"), "ruta a un YAML de configuración (opcional)")
	flag.Parse()

	cfg, err := config.Load(*configPath)
	if err != nil {
		logger.New(logger.Options{App: "adopit"}).Error("config error", map[string]any{"err": err})
		os.Exit(1)
	}

	log := logger.New(logger.Options{
		Level:  logger.ParseLevel(cfg.Env.LogLevel),
		Format: logger.ParseFormat(cfg.Env.LogFormat),
		App:    "adopit",
	}).With(map[string]any{"env": cfg.Env.Name})

	if err := run(cfg, log); err != nil {
		log.Error("server stopped with error", map[string]any{"err": err})
		os.Exit(1)
	}
}

func run(cfg *config.Config, log logger.Logger) error {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	store, err := storage.Open(ctx, cfg.Storage)
	if err != nil {
		return errors.Wrap(err, "open storage")
	}
	defer func() {
		if err := store.Close(); err != nil {
			log.Warn("close storage", map[string]any{"err": err})
		}
	}()

	opts := router.Options{
		Store:        store,
		Logger:       log,
		BcryptCost:   cfg.Auth.BcryptCost,
		SeedDemoData: cfg.Seed.DemoData,
		AllowReset:   cfg.Seed.AllowReset,
	}

	if cfg.DevMode() {
		log.Warn("auth secret not set, running in dev mode (X-Debug-User-ID)", nil)
	} else {
		tokens := token.New(cfg.Auth.Secret, cfg.Auth.Issuer, cfg.Auth.TTL)
		opts.AuthVerifier = tokens
		opts.Tokens = tokens
	}

	limiterCfg := middleware.DefaultLoginRateConfig()
	limiterCfg.Rate = rate.Limit(cfg.Auth.LoginRate / 60.0)
	limiterCfg.Burst = cfg.Auth.LoginBurst
	limiter := middleware.NewRateLimiter(limiterCfg, log)
	defer limiter.Stop()
	opts.LoginLimiter = limiter

	reg := prometheus.NewRegistry()
	reg.MustRegister(collectors.NewGoCollector(), collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}))
	opts.Registry = reg

	srv := &http.Server{
		Addr:              cfg.HTTP.Addr,
		Handler:           router.NewRouter(opts),
		ReadHeaderTimeout: cfg.HTTP.ReadHeaderTimeout,
		ReadTimeout:       cfg.HTTP.ReadTimeout,
		WriteTimeout:      cfg.HTTP.WriteTimeout,
		IdleTimeout:       cfg.HTTP.IdleTimeout,
	}

	errCh := make(chan error, 1)
	go func() {
		log.Info("starting server", map[string]any{"addr": cfg.HTTP.Addr, "storage": cfg.Storage.Driver})
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()

	select {
	case err, ok := <-errCh:
		if ok {
			return errors.Wrap(err, "listen")
		}
		return nil
	case <-ctx.Done():
	}

	log.Info("shutting down", nil)
	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout(cfg))
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		return errors.Wrap(err, "shutdown")
	}
	return nil
}

func shutdownTimeout(cfg *config.Config) time.Duration {
	if cfg.HTTP.ShutdownTimeout > 0 {
		return cfg.HTTP.ShutdownTimeout
	}
	return 10 * time.Second
}
