package router

import (
	"context"
	"net/http"
	"time"

	_ "github.com/Jorge-dev09/backend-tienda/docs"
	mem "github.com/Jorge-dev09/backend-tienda/internal/adapters/storage/memory"
	pg "github.com/Jorge-dev09/backend-tienda/internal/adapters/storage/postgres"
	"github.com/Jorge-dev09/backend-tienda/internal/domain/adoptions"
	"github.com/Jorge-dev09/backend-tienda/internal/domain/animals"
	"github.com/Jorge-dev09/backend-tienda/internal/domain/notifications"
	"github.com/Jorge-dev09/backend-tienda/internal/domain/users"
	"github.com/Jorge-dev09/backend-tienda/internal/middleware"
	"github.com/Jorge-dev09/backend-tienda/internal/platform/logger"
	"github.com/Jorge-dev09/backend-tienda/internal/platform/metrics"
	"github.com/Jorge-dev09/backend-tienda/internal/ports/auth"

	"github.com/go-chi/chi/v5"
	chimw "github.com/go-chi/chi/v5/middleware"
	"github.com/jackc/pgx/v5/pgxpool"
	httpSwagger "github.com/swaggo/http-swagger"
)

type Options struct {
	AuthVerifier auth.AuthVerifier // puede ser nil (modo dev)

	// Si viene Pool se usa Postgres. Si no, Memory (o uno nuevo).
	Pool   *pgxpool.Pool
	Memory *mem.Store

	Logger  logger.Logger
	Metrics *metrics.Metrics // nil = sin /metrics

	StrictTransitions bool
	// Dev agrega el detalle de errores 500 en las respuestas.
	Dev bool
}

type storage interface {
	adoptions.Store
	animals.Repository
	notifications.Repository
	users.Directory
}

func NewRouter(opts Options) http.Handler {
	log := opts.Logger
	if log == nil {
		log = logger.Nop()
	}

	r := chi.NewRouter()

	r.Use(chimw.RequestID)
	r.Use(chimw.RealIP)
	r.Use(chimw.Recoverer)

	r.Use(middleware.AuthContext(opts.AuthVerifier))
	r.Use(middleware.RequestLog(log, opts.Metrics))

	var (
		store storage
		ping  func(ctx context.Context) error
	)
	if opts.Pool != nil {
		pgStore := pg.NewStore(opts.Pool)
		store, ping = pgStore, pgStore.Ping
	} else {
		memStore := opts.Memory
		if memStore == nil {
			memStore = mem.New()
		}
		store = memStore
	}

	r.Get("/health", healthHandler(ping))
	if opts.Metrics != nil {
		r.Method(http.MethodGet, "/metrics", opts.Metrics.Handler())
	}
	r.Get("/swagger/*", httpSwagger.Handler(httpSwagger.URL("/swagger/doc.json")))

	// Services por módulo
	var observer adoptions.Observer
	if opts.Metrics != nil {
		observer = opts.Metrics
	}
	adoptionsSvc := adoptions.NewService(store, store, adoptions.Options{
		StrictTransitions: opts.StrictTransitions,
		Observer:          observer,
		Logger:            log.With(map[string]any{"module": "adoptions"}),
	})
	animalsSvc := animals.NewService(store)
	notificationsSvc := notifications.NewService(store)

	// Rutas por módulo
	adoptions.RegisterRoutes(r, adoptionsSvc, adoptions.HandlerOptions{Logger: log, Dev: opts.Dev})
	animals.RegisterRoutes(r, animalsSvc)
	notifications.RegisterRoutes(r, notificationsSvc)

	return r
}

// healthHandler godoc
// @Summary Health check
// @Tags system
// @Produce plain
// @Success 200 {string} string "ok"
// @Failure 503 {string} string "db unavailable"
// @Router /health [get]
func healthHandler(ping func(ctx context.Context) error) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if ping != nil {
			ctx, cancel := context.WithTimeout(r.Context(), 2*time.Second)
			defer cancel()
			if err := ping(ctx); err != nil {
				http.Error(w, "db unavailable", http.StatusServiceUnavailable)
				return
			}
		}
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte("ok"))
	}
}
