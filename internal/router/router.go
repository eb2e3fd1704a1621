package router

import (
	"net/http"

	"homeplate/internal/auth"
	"homeplate/internal/config"
	"homeplate/internal/handler"
	"homeplate/internal/middleware"

	"github.com/go-chi/chi/v5"
	chimw "github.com/go-chi/chi/v5/middleware"
	"github.com/rs/zerolog"
)

// Handlers groups the HTTP handlers mounted by the router.
type Handlers struct {
	Seller *handler.SellerHandler
	Plate  *handler.PlateHandler
	Bundle *handler.BundleHandler
	Order  *handler.OrderHandler
}

// New creates a new HTTP router with all routes and middleware configured.
// A nil limiter disables rate limiting.
func New(
	h Handlers,
	verifier *auth.Verifier,
	limiter *middleware.RateLimiter,
	cfg config.ServerConfig,
	logger zerolog.Logger,
) http.Handler {
	r := chi.NewRouter()

	// Recovery -> RequestID -> RealIP -> Logging -> CORS -> Timeout -> Authenticate -> RateLimit
	r.Use(middleware.Recovery(logger))
	r.Use(chimw.RequestID, chimw.RealIP)
	r.Use(middleware.Logging(logger))
	r.Use(middleware.CORS(cfg.AllowedOrigins))
	r.Use(chimw.Timeout(cfg.RequestTimeout))
	r.Use(middleware.Authenticate(verifier, logger))
	if limiter != nil {
		r.Use(limiter.Handler)
	}

	// Health check endpoint (no authentication required)
	r.Get("/health", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusOK)
		w.Write([]byte(`{"status": "healthy"}`))
	})

	r.Route("/api", func(r chi.Router) {
		// Public catalog
		r.Get("/plates", h.Plate.ListAvailable)
		r.Get("/bundles", h.Bundle.ListAvailable)

		r.Group(func(r chi.Router) {
			r.Use(middleware.RequireAuth)

			r.Get("/seller/profile", h.Seller.GetProfile)
			r.Post("/seller/profile", h.Seller.CreateProfile)

			r.Get("/plates/mine", h.Plate.ListMine)
			r.Post("/plates", h.Plate.Create)
			r.Put("/plates/{id}", h.Plate.Update)
			r.Delete("/plates/{id}", h.Plate.Delete)

			r.Get("/bundles/mine", h.Bundle.ListMine)
			r.Post("/bundles", h.Bundle.Create)
			r.Put("/bundles/{id}", h.Bundle.Update)
			r.Delete("/bundles/{id}", h.Bundle.Delete)
			r.Post("/bundles/{id}/orders", h.Bundle.CreateOrder)

			r.Post("/orders", h.Order.Create)
			r.Get("/orders", h.Order.List)
			r.Get("/orders/{id}", h.Order.GetByID)
			r.Delete("/orders/{id}", h.Order.Delete)
			r.Patch("/orders/{id}/status", h.Order.UpdateStatus)
		})

		r.Get("/plates/{id}", h.Plate.GetByID)
		r.Get("/bundles/{id}", h.Bundle.GetByID)
	})

	return r
}
