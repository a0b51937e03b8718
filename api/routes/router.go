package routes

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/rafaelortiz/vendtrack-backend/api/controllers"
	"github.com/rafaelortiz/vendtrack-backend/api/middleware"
	"github.com/rafaelortiz/vendtrack-backend/internal/auth"
	"github.com/rafaelortiz/vendtrack-backend/internal/commerce"
	"github.com/rafaelortiz/vendtrack-backend/internal/products"
	"github.com/rafaelortiz/vendtrack-backend/internal/users"
	"github.com/rafaelortiz/vendtrack-backend/internal/vending"
	"github.com/rafaelortiz/vendtrack-backend/pkg/config"
	"github.com/rafaelortiz/vendtrack-backend/pkg/logger"
	"github.com/rafaelortiz/vendtrack-backend/pkg/metrics"
	"github.com/rafaelortiz/vendtrack-backend/pkg/redis"
)

const sellerRole = "Seller"

func passthrough(next http.Handler) http.Handler { return next }

func NewRouter(
	cfg *config.Config,
	logg *logger.Logger,
	dbP controllers.Pinger,
	redisClient *redis.Client,
	promRegistry *prometheus.Registry,
	httpMetrics *metrics.HTTPMetrics,
	authService auth.Service,
	vendingService *vending.Service,
	commerceService *commerce.Service,
	userRepo *users.Repository,
	productRepo *products.Repository,
	machineRepo *vending.Repository,
) http.Handler {
	r := chi.NewRouter()
	r.Use(
		middleware.Recoverer(logg),
		middleware.RequestID(logg),
		middleware.CORS(),
		middleware.Logging(logg, httpMetrics),
	)

	signInPolicy := middleware.NewAuthRateLimitPolicy(
		"sign_in",
		cfg.AuthRateLimit.LoginWindow,
		cfg.AuthRateLimit.LoginIPLimit,
		cfg.AuthRateLimit.LoginNameLimit,
	)
	signUpPolicy := middleware.NewAuthRateLimitPolicy(
		"sign_up",
		cfg.AuthRateLimit.SignupWindow,
		cfg.AuthRateLimit.SignupIPLimit,
		cfg.AuthRateLimit.SignupNameLimit,
	)

	var redisP controllers.Pinger
	if redisClient != nil {
		redisP = redisClient
	}
	r.Route("/health", func(r chi.Router) {
		r.Get("/live", controllers.HealthLive(cfg))
		r.Get("/ready", controllers.HealthReady(cfg, logg, dbP, redisP))
	})

	if promRegistry != nil {
		r.Method(http.MethodGet, "/metrics", promhttp.HandlerFor(promRegistry, promhttp.HandlerOpts{}))
	}

	// A typed-nil client must not reach the middleware's interface check.
	signInLimit := passthrough
	signUpLimit := passthrough
	if redisClient != nil {
		signInLimit = middleware.AuthRateLimit(signInPolicy, redisClient, logg)
		signUpLimit = middleware.AuthRateLimit(signUpPolicy, redisClient, logg)
	}

	r.Route("/api/v1/auth", func(r chi.Router) {
		r.With(signInLimit).Post("/sign-in", controllers.AuthSignIn(authService, logg))
		r.With(signUpLimit).Post("/sign-up", controllers.AuthSignUp(authService, logg))
	})

	r.Route("/api/v1", func(r chi.Router) {
		r.Use(middleware.Auth(cfg.JWT, logg))

		r.Route("/products", func(r chi.Router) {
			r.Get("/", controllers.ProductList(productRepo, logg))
			r.Get("/{productId}", controllers.ProductDetail(productRepo, logg))
			r.With(middleware.RequireRole(sellerRole, logg)).Post("/", controllers.ProductCreate(productRepo, logg))
		})

		r.Route("/vending-machines", func(r chi.Router) {
			r.Get("/", controllers.MachineList(machineRepo, logg))
			r.Get("/{machineId}", controllers.MachineDetail(machineRepo, logg))

			r.Group(func(r chi.Router) {
				r.Use(middleware.RequireRole(sellerRole, logg))
				r.Post("/", controllers.MachineCreate(vendingService, logg))
				r.Post("/{machineId}/inventory", controllers.MachineAddLine(vendingService, logg))
				r.Post("/{machineId}/inventory/{productId}/restock", controllers.MachineRestockLine(vendingService, logg))
				r.Put("/{machineId}/inventory/{productId}/quantity", controllers.MachineResetLineQty(vendingService, logg))
				r.Put("/{machineId}/inventory/{productId}/cost", controllers.MachineSetLineCost(vendingService, logg))
			})
		})

		r.Post("/deposit", controllers.Deposit(commerceService, userRepo, logg))
		r.Post("/buy", controllers.Buy(commerceService, userRepo, machineRepo, logg))
	})

	return r
}
