package main

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/Lixing-Zhang/storefront/internal/catalog"
	"github.com/Lixing-Zhang/storefront/internal/config"
	"github.com/Lixing-Zhang/storefront/internal/handlers"
	"github.com/Lixing-Zhang/storefront/internal/middleware"
	"github.com/Lixing-Zhang/storefront/internal/repository"
	"github.com/Lixing-Zhang/storefront/internal/service"
	"github.com/Lixing-Zhang/storefront/pkg/logger"
	"golang.org/x/time/rate"
)

const version = "1.0.0"

func main() {
	// Load configuration from environment
	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to load configuration: %v\n", err)
		os.Exit(1)
	}

	log := logger.New(cfg.LogLevel)
	slog.SetDefault(log)

	log.Info("starting storefront api server",
		"port", cfg.Server.Port,
		"host", cfg.Server.Host,
		"log_level", cfg.LogLevel,
	)

	cat := catalog.Default()
	if len(cfg.Catalog.Sources) > 0 {
		log.Info("loading catalog sources...", "sources", cfg.Catalog.Sources)

		loadCtx, cancel := context.WithTimeout(context.Background(), 2*time.Minute)
		cat, err = catalog.NewLoader().Load(loadCtx, cfg.Catalog.Sources)
		cancel()
		if err != nil {
			log.Error("failed to load catalog", "error", err)
			os.Exit(1)
		}
	}
	log.Info("catalog ready",
		"products", len(cat.Products),
		"categories", len(cat.Categories),
	)

	// Initialize repositories
	productRepo := repository.NewProductRepositoryFromCatalog(cat)
	orderRepo := repository.NewInMemoryOrderRepository()

	// Initialize services
	productService := service.NewProductService(productRepo)
	orderService := service.NewOrderService(productRepo, orderRepo)

	var orderLimiter *middleware.RateLimiter
	if cfg.Orders.RateLimit > 0 {
		orderLimiter = middleware.NewRateLimiter(rate.Limit(cfg.Orders.RateLimit), cfg.Orders.RateBurst, 10*time.Minute)
	}

	router := handlers.NewRouter(productService, orderService, log, handlers.RouterOptions{
		AllowedOrigins: cfg.CORS.AllowedOrigins,
		OrderLimiter:   orderLimiter,
		RequestTimeout: time.Duration(cfg.Server.RequestTimeout) * time.Second,
		Version:        version,
	})

	addr := fmt.Sprintf("%s:%s", cfg.Server.Host, cfg.Server.Port)
	srv := &http.Server{
		Addr:         addr,
		Handler:      router,
		ReadTimeout:  time.Duration(cfg.Server.ReadTimeout) * time.Second,
		WriteTimeout: time.Duration(cfg.Server.WriteTimeout) * time.Second,
	}

	go func() {
		log.Info("server listening", "address", addr)
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Error("server failed to start", "error", err)
			os.Exit(1)
		}
	}()

	// Wait for interrupt signal to gracefully shutdown the server
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Info("shutting down server...")

	ctx, cancel := context.WithTimeout(context.Background(), time.Duration(cfg.Server.ShutdownTimeout)*time.Second)
	defer cancel()

	if err := srv.Shutdown(ctx); err != nil {
		log.Error("server forced to shutdown", "error", err)
		os.Exit(1)
	}

	log.Info("server stopped gracefully")
}
