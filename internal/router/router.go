package router

import (
	"context"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	chimw "github.com/go-chi/chi/v5/middleware"
	"github.com/google/uuid"
	"github.com/prometheus/client_golang/prometheus"
	httpSwagger "github.com/swaggo/http-swagger"

	"pet-adoption/internal/adapters/auth/password"
	"pet-adoption/internal/adapters/auth/token"
	"pet-adoption/internal/adapters/storage/kvrepo"
	"pet-adoption/internal/adapters/storage/memory"
	_ "pet-adoption/internal/docs"
	"pet-adoption/internal/domain/accounts"
	"pet-adoption/internal/domain/discovery"
	"pet-adoption/internal/domain/favorites"
	"pet-adoption/internal/domain/pets"
	"pet-adoption/internal/domain/swipes"
	"pet-adoption/internal/metrics"
	"pet-adoption/internal/middleware"
	"pet-adoption/internal/platform/logger"
	"pet-adoption/internal/ports/auth"
	"pet-adoption/internal/ports/kv"
)

type Options struct {
	AuthVerifier auth.AuthVerifier // puede ser nil (modo dev)

	// Tokens emite los JWT de login. Si es nil se usa un emisor efímero (modo dev).
	Tokens accounts.TokenIssuer

	// Store es el almacenamiento del dispositivo. Si es nil, in-memory.
	Store kv.Store

	Logger   logger.Logger
	Registry *prometheus.Registry // nil = registry propio

	// LoginLimiter frena fuerza bruta en /auth. nil = sin límite.
	LoginLimiter *middleware.RateLimiter

	BcryptCost   int
	SeedDemoData bool
	AllowReset   bool
}

func NewRouter(opts Options) http.Handler {
	log := logger.OrNop(opts.Logger)

	reg := opts.Registry
	if reg == nil {
		reg = prometheus.NewRegistry()
	}
	collector := metrics.NewCollector(reg)

	r := chi.NewRouter()

	r.Use(chimw.RequestID)
	r.Use(chimw.RealIP)
	// AuthContext antes del log para que el log vea el user_id.
	r.Use(middleware.AuthContext(opts.AuthVerifier))
	r.Use(middleware.RequestLog(log, collector))
	r.Use(chimw.Recoverer)

	store := opts.Store
	if store == nil {
		store = memory.NewStore()
	}
	store = metrics.InstrumentStore(store, collector)

	r.Get("/health", func(w http.ResponseWriter, req *http.Request) {
		ctx, cancel := context.WithTimeout(req.Context(), 2*time.Second)
		defer cancel()
		if err := store.Ping(ctx); err != nil {
			log.Warn("health check failed", map[string]any{"err": err})
			http.Error(w, "storage unavailable", http.StatusServiceUnavailable)
			return
		}
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte("ok"))
	})
	r.Handle("/metrics", metrics.Handler(reg))
	r.Get("/swagger/*", httpSwagger.WrapHandler)

	tokens := opts.Tokens
	if tokens == nil {
		tokens = token.New(uuid.NewString(), "adopit-dev", 24*time.Hour)
	}

	// Repos sobre el kv.Store
	petRepo := kvrepo.NewPetRepo(store)
	favRepo := kvrepo.NewFavoritesRepo(store)
	swipeRepo := kvrepo.NewSwipesRepo(store)
	creds := kvrepo.NewCredentialStore(store, password.NewBcryptHasher(opts.BcryptCost))
	sessions := kvrepo.NewSessionStore(store)

	// Services por módulo
	petsSvc := pets.NewService(petRepo, log)
	favSvc := favorites.NewService(favRepo, petsSvc, log)
	swipesSvc := swipes.NewService(swipeRepo, log)
	discSvc := discovery.NewService(petsSvc, swipesSvc, favSvc, log, collector)
	accountsSvc := accounts.NewService(creds, tokens, sessions, log)

	if opts.SeedDemoData {
		seed(log, petsSvc, accountsSvc)
	}

	var throttle func(http.Handler) http.Handler
	if opts.LoginLimiter != nil {
		throttle = opts.LoginLimiter.Middleware()
	}

	// Rutas por módulo
	accounts.RegisterRoutes(r, accountsSvc, throttle)
	pets.RegisterRoutes(r, petsSvc)
	favorites.RegisterRoutes(r, favSvc)
	discovery.RegisterRoutes(r, discSvc)
	if opts.AllowReset {
		discovery.RegisterDevRoutes(r, discSvc)
	}

	return r
}

// seed no es fatal: sin datos demo la app sigue funcionando.
func seed(log logger.Logger, petsSvc *pets.Service, accountsSvc *accounts.Service) {
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if _, err := petsSvc.Seed(ctx); err != nil {
		log.Error("seed demo pets failed", map[string]any{"err": err})
	}
	if n, err := accountsSvc.SeedDemoUsers(ctx); err != nil {
		log.Error("seed demo users failed", map[string]any{"err": err})
	} else if n > 0 {
		log.Info("demo users seeded", map[string]any{"count": n})
	}
}
