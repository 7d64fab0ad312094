package routes

import (
	"context"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"

	"github.com/sakurapacks/oripa-backend/api/controllers"
	"github.com/sakurapacks/oripa-backend/api/middleware"
	"github.com/sakurapacks/oripa-backend/internal/auth"
	"github.com/sakurapacks/oripa-backend/internal/catalog"
	"github.com/sakurapacks/oripa-backend/internal/collection"
	"github.com/sakurapacks/oripa-backend/internal/gacha"
	"github.com/sakurapacks/oripa-backend/internal/ledger"
	"github.com/sakurapacks/oripa-backend/internal/shipping"
	"github.com/sakurapacks/oripa-backend/internal/users"
	"github.com/sakurapacks/oripa-backend/pkg/auth/session"
	"github.com/sakurapacks/oripa-backend/pkg/config"
	"github.com/sakurapacks/oripa-backend/pkg/db"
	"github.com/sakurapacks/oripa-backend/pkg/logger"
	"github.com/sakurapacks/oripa-backend/pkg/redis"
	"github.com/sakurapacks/oripa-backend/pkg/storage/gcs"
)

type sessionManager interface {
	session.AccessSessionChecker
	Rotate(context.Context, string, string) (string, string, error)
	Revoke(context.Context, string) error
}

// Params collects everything the router wires together.
type Params struct {
	Config  *config.Config
	Logger  *logger.Logger
	DB      db.Pinger
	Redis   *redis.Client
	Storage *gcs.Client

	SessionManager sessionManager

	AuthService       auth.Service
	RegisterService   auth.RegisterService
	UsersService      users.Service
	LedgerService     ledger.Service
	GachaService      gacha.Service
	CatalogService    catalog.Service
	CollectionService collection.Service
	ShippingService   shipping.Service

	MetricsHandler http.Handler
}

func NewRouter(p Params) http.Handler {
	cfg := p.Config
	logg := p.Logger

	// Avoid typed-nil interfaces downstream when redis is not wired.
	var cache interface{ Ping(context.Context) error }
	var limiterStore interface {
		IncrWithTTL(context.Context, string, time.Duration) (int64, error)
	}
	if p.Redis != nil {
		cache = p.Redis
		limiterStore = p.Redis
	}

	r := chi.NewRouter()
	r.Use(
		middleware.Recoverer(logg),
		middleware.RequestID(logg),
		middleware.Logging(logg),
		middleware.CORS(),
	)

	loginPolicy := middleware.NewAuthRateLimitPolicy(
		"login",
		cfg.AuthRateLimit.LoginWindow,
		cfg.AuthRateLimit.LoginIPLimit,
		cfg.AuthRateLimit.LoginEmailLimit,
	)
	registerPolicy := middleware.NewAuthRateLimitPolicy(
		"register",
		cfg.AuthRateLimit.RegisterWindow,
		cfg.AuthRateLimit.RegisterIPLimit,
		cfg.AuthRateLimit.RegisterEmailLimit,
	)

	r.Route("/health", func(r chi.Router) {
		r.Get("/live", controllers.HealthLive(cfg))
		r.Get("/ready", controllers.HealthReady(cfg, p.DB, cache, logg))
	})

	if p.MetricsHandler != nil {
		r.Method(http.MethodGet, "/metrics", p.MetricsHandler)
	}

	r.Route("/api/v1/auth", func(r chi.Router) {
		r.With(middleware.AuthRateLimit(registerPolicy, limiterStore, logg)).Post("/register", controllers.AuthRegister(p.RegisterService, p.AuthService, logg))
		r.With(middleware.AuthRateLimit(loginPolicy, limiterStore, logg)).Post("/login", controllers.AuthLogin(p.AuthService, logg))
		r.Post("/refresh", controllers.AuthRefresh(p.AuthService, logg))
		r.Post("/logout", controllers.AuthLogout(p.AuthService, logg))
	})

	r.Route("/api/v1/packs", func(r chi.Router) {
		r.Get("/", controllers.PublicListPacks(p.CatalogService, logg))
		r.Get("/{packId}", controllers.PublicGetPack(p.CatalogService, logg))

		r.Group(func(r chi.Router) {
			r.Use(middleware.Auth(cfg.JWT, p.SessionManager, logg))
			r.Post("/{packId}/draw", controllers.DrawPack(p.GachaService, logg))
		})
	})

	r.Route("/api/v1", func(r chi.Router) {
		r.Use(middleware.Auth(cfg.JWT, p.SessionManager, logg))

		r.Post("/charge", controllers.ChargePoints(p.LedgerService, logg))
		r.Get("/me/collection", controllers.MyCollection(p.CollectionService, logg))
		r.Get("/me/profile", controllers.MyProfile(p.UsersService, logg))
		r.Put("/me/profile", controllers.UpdateMyProfile(p.UsersService, logg))

		r.Route("/shipping/requests", func(r chi.Router) {
			r.Post("/", controllers.SubmitShippingRequest(p.ShippingService, logg))
			r.Get("/", controllers.MyShippingRequests(p.ShippingService, logg))
		})
	})

	r.Route("/api/admin/v1", func(r chi.Router) {
		r.Use(middleware.Auth(cfg.JWT, p.SessionManager, logg))
		r.Use(middleware.RequireAdmin(logg))

		r.Route("/cards", func(r chi.Router) {
			r.Get("/", controllers.AdminListCards(p.CatalogService, logg))
			r.Post("/", controllers.AdminCreateCard(p.CatalogService, logg))
			r.Post("/image-upload", controllers.AdminCardImageUpload(p.Storage, logg))
			r.Put("/{cardId}", controllers.AdminUpdateCard(p.CatalogService, logg))
			r.Delete("/{cardId}", controllers.AdminDeleteCard(p.CatalogService, logg))
		})

		r.Route("/packs", func(r chi.Router) {
			r.Get("/", controllers.AdminListPacks(p.CatalogService, logg))
			r.Post("/", controllers.AdminCreatePack(p.CatalogService, logg))
			r.Get("/{packId}", controllers.AdminGetPack(p.CatalogService, logg))
			r.Put("/{packId}", controllers.AdminUpdatePack(p.CatalogService, logg))
			r.Delete("/{packId}", controllers.AdminDeletePack(p.CatalogService, logg))
		})

		r.Route("/shipping-requests", func(r chi.Router) {
			r.Get("/", controllers.AdminListShippingRequests(p.ShippingService, logg))
			r.Put("/{requestId}", controllers.AdminSetShippingStatus(p.ShippingService, logg))
			r.Delete("/{requestId}", controllers.AdminDeleteShippingRequest(p.ShippingService, logg))
		})
	})

	return r
}
