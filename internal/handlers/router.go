package handlers

import (
	"log/slog"
	"net/http"
	"time"

	"github.com/Lixing-Zhang/storefront/internal/middleware"
	"github.com/Lixing-Zhang/storefront/internal/service"
	"github.com/go-chi/chi/v5"
	chimiddleware "github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
)

// RouterOptions configures the HTTP surface
type RouterOptions struct {
	AllowedOrigins []string
	// OrderLimiter throttles POST /api/orders when set
	OrderLimiter   *middleware.RateLimiter
	RequestTimeout time.Duration
	Version        string
}

// NewRouter wires handlers and middleware into a chi router
func NewRouter(products *service.ProductService, orders *service.OrderService, log *slog.Logger, opts RouterOptions) http.Handler {
	healthHandler := NewHealthHandler(log, opts.Version)
	productHandler := NewProductHandler(products, log)
	orderHandler := NewOrderHandler(orders, log)

	if opts.RequestTimeout <= 0 {
		opts.RequestTimeout = 60 * time.Second
	}
	if len(opts.AllowedOrigins) == 0 {
		opts.AllowedOrigins = []string{"*"}
	}

	r := chi.NewRouter()

	r.Use(chimiddleware.RequestID)
	r.Use(chimiddleware.RealIP)
	r.Use(middleware.Logger(log))
	r.Use(chimiddleware.Recoverer)
	r.Use(chimiddleware.Timeout(opts.RequestTimeout))

	r.Use(cors.Handler(cors.Options{
		AllowedOrigins:   opts.AllowedOrigins,
		AllowedMethods:   []string{"GET", "POST", "OPTIONS"},
		AllowedHeaders:   []string{"Accept", "Content-Type", "X-Request-Id"},
		ExposedHeaders:   []string{"X-Request-Id"},
		AllowCredentials: false,
		MaxAge:           300,
	}))

	r.NotFound(func(w http.ResponseWriter, r *http.Request) {
		WriteError(w, http.StatusNotFound, "Not found", log)
	})
	r.MethodNotAllowed(func(w http.ResponseWriter, r *http.Request) {
		WriteError(w, http.StatusMethodNotAllowed, "Method not allowed", log)
	})

	r.Get("/health", healthHandler.ServeHTTP)

	r.Route("/api", func(r chi.Router) {
		r.Get("/products", productHandler.ListProducts)
		r.Get("/products/{productId}", productHandler.GetProduct)
		r.Get("/categories", productHandler.ListCategories)

		r.Route("/orders", func(r chi.Router) {
			r.With(orderGate(log, opts.OrderLimiter)...).Post("/", orderHandler.CreateOrder)
			r.Get("/{orderId}", orderHandler.GetOrder)
		})
	})

	return r
}

func orderGate(log *slog.Logger, limiter *middleware.RateLimiter) []func(http.Handler) http.Handler {
	var chain []func(http.Handler) http.Handler
	if limiter != nil {
		chain = append(chain, limiter.Middleware)
	}
	return append(chain, middleware.ValidateOrderBody(log))
}
