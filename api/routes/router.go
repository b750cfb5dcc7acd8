package routes

import (
	"context"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/pkock/brewhub-backend/api/controllers"
	"github.com/pkock/brewhub-backend/api/middleware"
	"github.com/pkock/brewhub-backend/internal/auth"
	"github.com/pkock/brewhub-backend/internal/community"
	"github.com/pkock/brewhub-backend/internal/inventory"
	"github.com/pkock/brewhub-backend/internal/orders"
	"github.com/pkock/brewhub-backend/internal/ratings"
	"github.com/pkock/brewhub-backend/pkg/config"
	"github.com/pkock/brewhub-backend/pkg/db"
	"github.com/pkock/brewhub-backend/pkg/enums"
	"github.com/pkock/brewhub-backend/pkg/logger"
	"github.com/pkock/brewhub-backend/pkg/metrics"
	"github.com/pkock/brewhub-backend/pkg/redis"
)

type sessionManager interface {
	middleware.SessionChecker
	Rotate(context.Context, string, string) (string, string, error)
	Revoke(context.Context, string) error
}

// Deps bundles everything the router wires into handlers.
type Deps struct {
	Config         *config.Config
	Logger         *logger.Logger
	DB             db.Pinger
	Redis          *redis.Client
	SessionManager sessionManager
	HTTPMetrics    *metrics.HTTPMetrics
	Gatherer       prometheus.Gatherer

	AuthService      auth.Service
	RegisterService  auth.RegisterService
	InventoryService inventory.Service
	OrdersService    orders.Service
	CommunityService community.Service
	RatingsService   ratings.Service
}

func NewRouter(d Deps) http.Handler {
	cfg := d.Config
	logg := d.Logger

	r := chi.NewRouter()
	r.Use(
		middleware.Recoverer(logg),
		middleware.RequestID(logg),
		middleware.Logging(logg),
		middleware.Metrics(d.HTTPMetrics),
		middleware.CORS(cfg.App.CORSOrigins),
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
		r.Get("/ready", controllers.HealthReady(cfg, logg, d.DB, d.Redis))
	})

	if d.Gatherer != nil {
		r.Method(http.MethodGet, "/metrics", promhttp.HandlerFor(d.Gatherer, promhttp.HandlerOpts{}))
	}

	r.Route("/api/v1/auth", func(r chi.Router) {
		r.With(middleware.AuthRateLimit(loginPolicy, d.Redis, logg)).Post("/login", controllers.AuthLogin(d.AuthService, logg))
		r.With(middleware.AuthRateLimit(registerPolicy, d.Redis, logg)).Post("/register", controllers.AuthRegister(d.RegisterService, d.AuthService, logg))
		r.Post("/logout", controllers.AuthLogout(d.SessionManager, cfg.JWT, logg))
		r.Post("/refresh", controllers.AuthRefresh(d.SessionManager, cfg.JWT, logg))
	})

	r.Route("/api/v1", func(r chi.Router) {
		r.Use(middleware.Auth(cfg.JWT, d.SessionManager, logg))

		// marketplace catalog, visible to every authenticated actor
		r.Get("/ingredients", controllers.IngredientCatalog(d.InventoryService, logg))
		r.Get("/ingredients/{ingredientID}", controllers.IngredientGet(d.InventoryService, logg))

		// shared order views
		r.Get("/orders/{orderID}", controllers.OrderGet(d.OrdersService, logg))
		r.Get("/orders/{orderID}/rating", controllers.RatingForOrder(d.RatingsService, logg))

		// retailer reputation is public to logged-in users
		r.Get("/retailers/{retailerID}/ratings", controllers.RatingListForRetailer(d.RatingsService, logg))
		r.Get("/retailers/{retailerID}/ratings/summary", controllers.RatingRetailerSummary(d.RatingsService, logg))

		// community Q&A
		r.Route("/community", func(r chi.Router) {
			r.Get("/questions", controllers.QuestionList(d.CommunityService, logg))
			r.Post("/questions", controllers.QuestionCreate(d.CommunityService, logg))
			r.Get("/questions/{questionID}", controllers.QuestionGet(d.CommunityService, logg))
			r.Post("/questions/{questionID}/answers", controllers.AnswerCreate(d.CommunityService, logg))
			r.Post("/answers/{answerID}/verify", controllers.AnswerVerify(d.CommunityService, logg))
			r.Post("/votes", controllers.VoteToggle(d.CommunityService, logg))
			r.Post("/reports", controllers.ReportCreate(d.CommunityService, logg))

			// moderation queue
			r.Group(func(r chi.Router) {
				r.Use(middleware.RequireRole(enums.UserRoleModerator, logg))
				r.Get("/reports/pending", controllers.ReportListPending(d.CommunityService, logg))
				r.Patch("/reports/{reportID}/status", controllers.ReportResolve(d.CommunityService, logg))
			})
		})

		// customer surface
		r.Group(func(r chi.Router) {
			r.Use(middleware.RequireRole(enums.UserRoleCustomer, logg))
			r.Post("/orders", controllers.OrderPlace(d.OrdersService, logg))
			r.Get("/orders", controllers.OrderListMine(d.OrdersService, logg))
			r.Post("/orders/{orderID}/cancel", controllers.OrderCancel(d.OrdersService, logg))
			r.Post("/orders/{orderID}/rating", controllers.RatingCreate(d.RatingsService, logg))
		})

		// retailer surface
		r.Route("/retailer", func(r chi.Router) {
			r.Use(middleware.RequireRole(enums.UserRoleRetailer, logg))
			r.Post("/ingredients", controllers.IngredientCreate(d.InventoryService, logg))
			r.Get("/ingredients", controllers.IngredientListMine(d.InventoryService, logg))
			r.Patch("/ingredients/{ingredientID}", controllers.IngredientUpdate(d.InventoryService, logg))
			r.Delete("/ingredients/{ingredientID}", controllers.IngredientDeactivate(d.InventoryService, logg))
			r.Get("/orders", controllers.OrderListIncoming(d.OrdersService, logg))
			r.Patch("/orders/{orderID}/status", controllers.OrderUpdateStatus(d.OrdersService, logg))
			r.Get("/stats", controllers.OrderRetailerStats(d.OrdersService, logg))
		})
	})

	return r
}
