package routes

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/oakline/shopcart-backend/api/controllers"
	"github.com/oakline/shopcart-backend/api/middleware"
	"github.com/oakline/shopcart-backend/internal/cart"
	checkoutsvc "github.com/oakline/shopcart-backend/internal/checkout"
	"github.com/oakline/shopcart-backend/pkg/blob"
	"github.com/oakline/shopcart-backend/pkg/config"
	"github.com/oakline/shopcart-backend/pkg/logger"
)

func NewRouter(
	cfg *config.Config,
	logg *logger.Logger,
	blobs blob.Store,
	cartService cart.Service,
	checkoutService checkoutsvc.Service,
	registry *prometheus.Registry,
) http.Handler {
	r := chi.NewRouter()
	r.Use(
		middleware.Recoverer(logg),
		middleware.RequestID(logg),
		middleware.Logging(logg),
		middleware.CORS(),
	)

	r.Route("/health", func(r chi.Router) {
		r.Get("/live", controllers.HealthLive(cfg))
		r.Get("/ready", controllers.HealthReady(cfg, blobs, logg))
	})

	if registry != nil {
		r.Method(http.MethodGet, "/metrics", promhttp.HandlerFor(registry, promhttp.HandlerOpts{}))
	}

	r.Route("/api/v1", func(r chi.Router) {
		r.Use(middleware.Profile(cfg.JWT, logg))

		r.Route("/cart", func(r chi.Router) {
			r.Get("/", controllers.CartFetch(cartService, logg))
			r.Delete("/", controllers.CartClear(cartService, logg))
			r.Route("/items", func(r chi.Router) {
				r.Post("/", controllers.CartAddItem(cartService, logg))
				r.Patch("/{productID}", controllers.CartSetQuantity(cartService, logg))
				r.Delete("/{productID}", controllers.CartRemoveItem(cartService, logg))
			})
		})

		r.Post("/checkout", controllers.Checkout(checkoutService, logg))
	})

	return r
}
