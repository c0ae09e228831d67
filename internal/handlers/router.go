package handlers

import (
	"fmt"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"

	"github.com/loomhaven/api/internal/platform/httpx"
)

// RouteRegistrar registers a set of routes against the provided router.
type RouteRegistrar func(r chi.Router)

type routerConfig struct {
	basePath    string
	middlewares []func(http.Handler) http.Handler
	health      *HealthHandlers

	auth       RouteRegistrar
	categories RouteRegistrar
	subcats    RouteRegistrar
	products   RouteRegistrar
	filters    RouteRegistrar
	dimensions RouteRegistrar
	orders     RouteRegistrar
	reviews    RouteRegistrar
	uploads    RouteRegistrar
	payments   RouteRegistrar
}

// Option customises the router configuration before construction.
type Option func(*routerConfig)

const (
	defaultAPIPrefix = "/api/v1"
	defaultTimeout   = 60 * time.Second
)

// NewRouter constructs the chi router with shared middleware and the
// expected route groups.
func NewRouter(opts ...Option) chi.Router {
	cfg := routerConfig{
		basePath: defaultAPIPrefix,
		middlewares: []func(http.Handler) http.Handler{
			middleware.RequestID,
			middleware.RealIP,
			middleware.Timeout(defaultTimeout),
		},
	}

	for _, opt := range opts {
		opt(&cfg)
	}

	r := chi.NewRouter()

	if cfg.health == nil {
		cfg.health = NewHealthHandlers()
	}

	for _, mw := range cfg.middlewares {
		if mw != nil {
			r.Use(mw)
		}
	}

	r.NotFound(func(w http.ResponseWriter, req *http.Request) {
		httpx.WriteError(w, req, http.StatusNotFound, "route_not_found", fmt.Sprintf("no route for %s", req.URL.Path))
	})

	r.MethodNotAllowed(func(w http.ResponseWriter, req *http.Request) {
		httpx.WriteError(w, req, http.StatusMethodNotAllowed, "method_not_allowed", fmt.Sprintf("method %s not allowed on %s", req.Method, req.URL.Path))
	})

	r.Get("/healthz", cfg.health.Healthz)
	r.Get("/readyz", cfg.health.Readyz)

	r.Route(cfg.basePath, func(api chi.Router) {
		mount := func(path string, registrar RouteRegistrar) {
			api.Route(path, func(group chi.Router) {
				if registrar != nil {
					registrar(group)
					return
				}
				registerNotImplemented(group, path)
			})
		}

		mount("/auth", cfg.auth)
		mount("/categories", cfg.categories)
		mount("/subcategories", cfg.subcats)
		mount("/products", cfg.products)
		mount("/filters", cfg.filters)
		mount("/dimension-templates", cfg.dimensions)
		mount("/orders", cfg.orders)
		mount("/reviews", cfg.reviews)
		mount("/uploads", cfg.uploads)
		mount("/payments", cfg.payments)
	})

	return r
}

// WithMiddlewares appends additional global middleware to the router.
func WithMiddlewares(mw ...func(http.Handler) http.Handler) Option {
	return func(cfg *routerConfig) {
		cfg.middlewares = append(cfg.middlewares, mw...)
	}
}

// WithHealthHandlers overrides the handlers used for the health endpoints.
func WithHealthHandlers(h *HealthHandlers) Option {
	return func(cfg *routerConfig) {
		cfg.health = h
	}
}

// WithAuthRoutes configures the registrar for authentication endpoints.
func WithAuthRoutes(reg RouteRegistrar) Option {
	return func(cfg *routerConfig) {
		cfg.auth = reg
	}
}

// WithCategoryRoutes configures the registrar for category endpoints.
func WithCategoryRoutes(reg RouteRegistrar) Option {
	return func(cfg *routerConfig) {
		cfg.categories = reg
	}
}

// WithSubCategoryRoutes configures the registrar for subcategory endpoints.
func WithSubCategoryRoutes(reg RouteRegistrar) Option {
	return func(cfg *routerConfig) {
		cfg.subcats = reg
	}
}

// WithProductRoutes configures the registrar for product endpoints.
func WithProductRoutes(reg RouteRegistrar) Option {
	return func(cfg *routerConfig) {
		cfg.products = reg
	}
}

// WithFilterRoutes configures the registrar for filter admin endpoints.
func WithFilterRoutes(reg RouteRegistrar) Option {
	return func(cfg *routerConfig) {
		cfg.filters = reg
	}
}

// WithDimensionRoutes configures the registrar for dimension-template endpoints.
func WithDimensionRoutes(reg RouteRegistrar) Option {
	return func(cfg *routerConfig) {
		cfg.dimensions = reg
	}
}

// WithOrderRoutes configures the registrar for order endpoints.
func WithOrderRoutes(reg RouteRegistrar) Option {
	return func(cfg *routerConfig) {
		cfg.orders = reg
	}
}

// WithReviewRoutes configures the registrar for review endpoints.
func WithReviewRoutes(reg RouteRegistrar) Option {
	return func(cfg *routerConfig) {
		cfg.reviews = reg
	}
}

// WithUploadRoutes configures the registrar for upload endpoints.
func WithUploadRoutes(reg RouteRegistrar) Option {
	return func(cfg *routerConfig) {
		cfg.uploads = reg
	}
}

// WithPaymentRoutes configures the registrar for payment endpoints.
func WithPaymentRoutes(reg RouteRegistrar) Option {
	return func(cfg *routerConfig) {
		cfg.payments = reg
	}
}

func registerNotImplemented(r chi.Router, name string) {
	handler := func(w http.ResponseWriter, req *http.Request) {
		httpx.WriteError(w, req, http.StatusNotImplemented, "not_implemented", fmt.Sprintf("%s routes not implemented", name))
	}
	r.HandleFunc("/*", handler)
	r.HandleFunc("/", handler)
	r.NotFound(handler)
	r.MethodNotAllowed(handler)
}
