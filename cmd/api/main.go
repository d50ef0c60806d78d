package main

import (
	"context"
	"errors"
	"flag"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/Jorge-dev09/backend-tienda/internal/adapters/auth/jwtauth"
	"github.com/Jorge-dev09/backend-tienda/internal/adapters/auth/remote"
	pg "github.com/Jorge-dev09/backend-tienda/internal/adapters/storage/postgres"
	"github.com/Jorge-dev09/backend-tienda/internal/config"
	"github.com/Jorge-dev09/backend-tienda/internal/platform/logger"
	"github.com/Jorge-dev09/backend-tienda/internal/platform/metrics"
	"github.com/Jorge-dev09/backend-tienda/internal/ports/auth"
	"github.com/Jorge-dev09/backend-tienda/internal/router"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/rs/cors"
)

// @title NewLife Adoptions API
// @version 1.0
// @description Solicitudes de adopción: alta, revisión, mensajes y notificaciones.
// @BasePath /
func main() {
	configPath := flag.String("config", ".", "directorio con config.yaml (opcional)")
	flag.Parse()

	cfg, err := config.Load(*configPath)
	if err != nil {
		logger.NewFromEnv().Error("load config", map[string]any{"err": err.Error()})
		os.Exit(1)
	}

	log := logger.New(logger.Options{
		Level:  logger.ParseLevel(cfg.LogLevel),
		Format: logger.ParseFormat(cfg.LogFormat),
		App:    cfg.App,
	})

	if err := run(cfg, log); err != nil {
		log.Error("server stopped", map[string]any{"err": err.Error()})
		os.Exit(1)
	}
}

func run(cfg config.Config, log logger.Logger) error {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	verifier, err := newVerifier(cfg)
	if err != nil {
		return err
	}

	var pool *pgxpool.Pool
	if cfg.DBDSN != "" {
		if cfg.DBMigrate {
			if err := pg.Migrate(cfg.DBDSN); err != nil {
				return err
			}
			log.Info("migrations applied", nil)
		}
		pool, err = pg.Open(ctx, cfg.DBDSN, pg.PoolOptions{MaxConns: cfg.DBMaxConns})
		if err != nil {
			return err
		}
		defer pool.Close()
	} else {
		log.Warn("DB_DSN not set, using in-memory store", nil)
	}

	m := metrics.New()
	handler := router.NewRouter(router.Options{
		AuthVerifier:      verifier,
		Pool:              pool,
		Logger:            log,
		Metrics:           m,
		StrictTransitions: cfg.StrictTransitions,
		Dev:               cfg.IsDevelopment(),
	})

	c := cors.New(cors.Options{
		AllowedOrigins:   cfg.CORSAllowedOrigins,
		AllowedMethods:   []string{http.MethodGet, http.MethodPost, http.MethodPut, http.MethodOptions},
		AllowedHeaders:   []string{"Authorization", "Content-Type", "X-Debug-User-ID", "X-Debug-Admin", "X-Debug-Email"},
		AllowCredentials: false,
		MaxAge:           300,
	})

	srv := &http.Server{
		Addr:         ":" + cfg.Port,
		Handler:      c.Handler(handler),
		ReadTimeout:  5 * time.Second,
		WriteTimeout: 10 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		log.Info("starting server", map[string]any{
			"addr":      srv.Addr,
			"auth_mode": string(cfg.AuthMode),
			"strict":    cfg.StrictTransitions,
		})
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

	log.Info("shutting down", nil)
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	return srv.Shutdown(shutdownCtx)
}

// newVerifier devuelve nil en modo dev: AuthContext usa los headers X-Debug-*.
func newVerifier(cfg config.Config) (auth.AuthVerifier, error) {
	switch cfg.AuthMode {
	case config.AuthModeRemote:
		return remote.NewVerifier(remote.Config{
			BaseURL: cfg.AuthRemoteURL,
			APIKey:  cfg.AuthRemoteKey,
			Timeout: cfg.AuthRemoteTimeo,
		})
	case config.AuthModeDev:
		return nil, nil
	default:
		return jwtauth.New(cfg.JWTSecret, cfg.JWTTTL)
	}
}
