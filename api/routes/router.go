package routes

import (
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/melodex/melodex-backend/api/controllers"
	"github.com/melodex/melodex-backend/api/middleware"
	"github.com/melodex/melodex-backend/internal/favorites"
	"github.com/melodex/melodex-backend/internal/recommend"
	"github.com/melodex/melodex-backend/pkg/config"
	"github.com/melodex/melodex-backend/pkg/db"
	"github.com/melodex/melodex-backend/pkg/logger"
	"github.com/melodex/melodex-backend/pkg/redis"
)

// RouterParams carries everything the API router wires together.
type RouterParams struct {
	Config           *config.Config
	Logger           *logger.Logger
	DB               db.Pinger
	Redis            *redis.Client
	FavoritesService favorites.Service
	RecommendService recommend.Service
	Users            controllers.UserFinder
	Registry         *prometheus.Registry
}

// NewRouter assembles the favorites API surface.
func NewRouter(params RouterParams) http.Handler {
	cfg := params.Config
	logg := params.Logger

	r := chi.NewRouter()
	r.Use(
		middleware.Recoverer(logg),
		middleware.RequestID(logg),
		middleware.Logging(logg),
		middleware.CORS(),
	)

	aiPolicy := middleware.NewRateLimitPolicy("ai", time.Minute, 10)

	// avoid handing middlewares or the readiness probe a typed-nil client
	var idemStore redis.IdempotencyStore
	var rateStore middleware.RateLimiterStore
	var cachePinger db.Pinger
	if params.Redis != nil {
		idemStore = params.Redis
		rateStore = params.Redis
		cachePinger = params.Redis
	}

	r.Route("/health", func(r chi.Router) {
		r.Get("/live", controllers.HealthLive(cfg))
		r.Get("/ready", controllers.HealthReady(cfg, params.DB, cachePinger, logg))
	})

	if params.Registry != nil {
		r.Method(http.MethodGet, "/metrics", promhttp.HandlerFor(params.Registry, promhttp.HandlerOpts{}))
	}

	r.Route("/api/public", func(r chi.Router) {
		r.Get("/ping", controllers.PublicPing())
	})

	r.Route("/api", func(r chi.Router) {
		r.Use(middleware.Auth(cfg.JWT, logg))
		r.Use(middleware.Idempotency(idemStore, logg))

		r.Get("/ping", controllers.PrivatePing())
		r.Get("/me", controllers.Me(params.Users, logg))

		r.Route("/v1/favorites", func(r chi.Router) {
			r.Post("/", controllers.FavoritesAdd(params.FavoritesService, logg))
			r.Get("/", controllers.FavoritesList(params.FavoritesService, logg))
			r.Get("/spotify", controllers.FavoritesMetadata(params.FavoritesService, logg))
			r.Get("/{spotifyId}", controllers.FavoritesCheck(params.FavoritesService, logg))
			r.Delete("/{spotifyId}", controllers.FavoritesRemove(params.FavoritesService, logg))
		})

		r.Route("/v1/ai", func(r chi.Router) {
			r.Use(middleware.RateLimit(aiPolicy, rateStore, logg))
			r.Post("/recommend", controllers.AIRecommend(params.RecommendService, logg))
			r.Get("/home", controllers.AIHome(params.RecommendService, logg))
		})
	})

	return r
}
