package http

import (
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"
	chimw "github.com/go-chi/chi/v5/middleware"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/shop-project/catalog/internal/service"
	"github.com/shop-project/catalog/pkg/health"
	"github.com/shop-project/catalog/pkg/middleware"
)

// RouterConfig carries everything NewRouter mounts. Registry, Sessions and
// PprofCIDRs are optional.
type RouterConfig struct {
	ServiceName string
	Products    *service.ProductService
	Comments    *service.CommentService
	Health      *health.Handler
	Logger      *slog.Logger

	// Registry receives the HTTP collectors and is served on /metrics.
	Registry *prometheus.Registry

	// Sessions, when set, guards every mutating route.
	Sessions middleware.SessionResolver

	CORS       middleware.CORSConfig
	PprofCIDRs []string

	// WriteRPS, when positive, rate limits mutating routes per client IP.
	WriteRPS   float64
	WriteBurst int
}

// NewRouter creates a chi router with all catalog routes registered.
func NewRouter(cfg RouterConfig) http.Handler {
	r := chi.NewRouter()

	// Global middleware
	r.Use(middleware.Recovery(cfg.Logger))
	r.Use(middleware.Tracing())
	r.Use(middleware.RequestLogging(cfg.Logger))
	r.Use(middleware.RequestLogger(cfg.Logger))
	if cfg.Registry != nil {
		r.Use(middleware.NewHTTPMetrics(cfg.Registry, cfg.ServiceName).Handler)
	}
	r.Use(middleware.CORS(cfg.CORS))

	// Operational endpoints
	if cfg.Health != nil {
		r.Get("/health/live", cfg.Health.LivenessHandler())
		r.Get("/health/ready", cfg.Health.ReadinessHandler())
	}
	if cfg.Registry != nil {
		r.Handle("/metrics", promhttp.HandlerFor(cfg.Registry, promhttp.HandlerOpts{Registry: cfg.Registry}))
	}
	if len(cfg.PprofCIDRs) > 0 {
		middleware.RegisterPprof(r, cfg.PprofCIDRs, cfg.Logger)
	}

	var limit func(http.Handler) http.Handler
	if cfg.WriteRPS > 0 {
		limit = middleware.RateLimit(cfg.WriteRPS, max(cfg.WriteBurst, 1), cfg.Logger)
	}
	// gate applies to every mutating route, guard adds the JSON body check.
	gate := func(r chi.Router) {
		if limit != nil {
			r.Use(limit)
		}
		if cfg.Sessions != nil {
			r.Use(middleware.Auth(cfg.Sessions))
		}
	}
	guard := func(r chi.Router) {
		gate(r)
		r.Use(chimw.AllowContentType("application/json"))
	}

	productHandler := NewProductHandler(cfg.Products, cfg.Logger)

	r.Route("/products", func(r chi.Router) {
		r.Get("/", productHandler.ListProducts)
		r.Get("/search", productHandler.SearchProducts)
		r.Get("/{id}", productHandler.GetProduct)
		r.Get("/{id}/similar", productHandler.GetSimilar)

		r.Group(func(r chi.Router) {
			guard(r)

			r.Post("/", productHandler.CreateProduct)
			r.Patch("/{id}", productHandler.UpdateProduct)
			r.Post("/add-similar", productHandler.AddSimilar)
			r.Post("/remove-similar", productHandler.RemoveSimilar)
			r.Post("/add-images", productHandler.AddImages)
			r.Post("/remove-images", productHandler.RemoveImages)
			r.Post("/update-thumbnail/{id}", productHandler.ReplaceThumbnail)
		})

		// DELETE carries no body.
		r.Group(func(r chi.Router) {
			gate(r)
			r.Delete("/{id}", productHandler.DeleteProduct)
		})
	})

	if cfg.Comments != nil {
		commentHandler := NewCommentHandler(cfg.Comments, cfg.Logger)

		r.Route("/comments", func(r chi.Router) {
			r.Get("/", commentHandler.ListComments)
			r.Get("/{id}", commentHandler.GetComment)

			r.Group(func(r chi.Router) {
				guard(r)
				r.Post("/", commentHandler.CreateComment)
			})
			r.Group(func(r chi.Router) {
				gate(r)
				r.Delete("/{id}", commentHandler.DeleteComment)
			})
		})
	}

	return r
}
