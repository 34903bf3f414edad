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

	"github.com/go-chi/chi/v5"
	chimiddleware "github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"

	"github.com/toastmobile/ordering/internal/backend"
	"github.com/toastmobile/ordering/internal/checkout"
	"github.com/toastmobile/ordering/internal/config"
	"github.com/toastmobile/ordering/internal/handlers"
	"github.com/toastmobile/ordering/internal/menu"
	"github.com/toastmobile/ordering/internal/middleware"
	"github.com/toastmobile/ordering/internal/promo"
	"github.com/toastmobile/ordering/internal/session"
	"github.com/toastmobile/ordering/internal/toast"
	"github.com/toastmobile/ordering/pkg/logger"
)

func main() {
	// Load configuration from environment
	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to load configuration: %v\n", err)
		os.Exit(1)
	}

	// Initialize structured logger
	log := logger.New(cfg.LogLevel)
	slog.SetDefault(log)

	log.Info("starting ordering gateway",
		"port", cfg.Server.Port,
		"host", cfg.Server.Host,
		"log_level", cfg.LogLevel,
	)

	// Remote clients
	posClient := toast.NewClient(
		cfg.Toast.BaseURL,
		cfg.Toast.RestaurantGUID,
		cfg.Toast.AccessToken,
		time.Duration(cfg.Toast.TimeoutSeconds)*time.Second,
	)
	backendClient := backend.NewClient(
		cfg.Backend.APIEndpoint,
		time.Duration(cfg.Backend.TimeoutSeconds)*time.Second,
	)
	identityClient := backend.NewIdentityClient(
		cfg.Backend.Region,
		cfg.Backend.WebClientID,
		time.Duration(cfg.Backend.TimeoutSeconds)*time.Second,
	)

	// Promo support is optional: without list URLs the validator stays
	// nil and checkout rejects promo codes.
	var promoValidator checkout.PromoValidator
	if len(cfg.Promo.FileURLs) > 0 {
		log.Info("loading promo code lists...", "lists", len(cfg.Promo.FileURLs))
		v := promo.NewValidator()
		if err := v.LoadFromURLs(context.Background(), cfg.Promo.FileURLs); err != nil {
			log.Error("failed to load promo code lists", "error", err)
			os.Exit(1)
		}
		stats := v.Stats()
		log.Info("promo code lists loaded",
			"total_lists", stats["total_lists"],
			"total_codes", stats["total_codes"],
		)
		promoValidator = v
	}

	// Services
	menuService := menu.NewService(
		posClient,
		time.Duration(cfg.Menu.CacheTTLSeconds)*time.Second,
		log,
	)
	checkoutService := checkout.NewService(posClient, backendClient, identityClient, promoValidator, log)
	sessionStore := session.NewStore()

	// Handlers
	healthHandler := handlers.NewHealthHandler(log)
	sessionHandler := handlers.NewSessionHandler(sessionStore, log)
	menuHandler := handlers.NewMenuHandler(menuService, log)
	cartHandler := handlers.NewCartHandler(menuService, log)
	checkoutHandler := handlers.NewCheckoutHandler(checkoutService, log)
	ordersHandler := handlers.NewOrdersHandler(backendClient, posClient, log)
	authHandler := handlers.NewAuthHandler(identityClient, log)

	// Create router
	r := chi.NewRouter()

	// Apply middleware
	r.Use(chimiddleware.RequestID)
	r.Use(chimiddleware.RealIP)
	r.Use(middleware.Logger(log))
	r.Use(chimiddleware.Recoverer)
	r.Use(chimiddleware.Timeout(60 * time.Second))

	// CORS configuration
	r.Use(cors.Handler(cors.Options{
		AllowedOrigins:   []string{"*"},
		AllowedMethods:   []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
		AllowedHeaders:   []string{"Accept", "Authorization", "Content-Type", middleware.SessionHeader},
		ExposedHeaders:   []string{"Link"},
		AllowCredentials: false,
		MaxAge:           300,
	}))

	// Register health check endpoint
	r.Get("/health", healthHandler.ServeHTTP)

	// API routes
	r.Route("/api", func(r chi.Router) {
		r.Post("/session", sessionHandler.Create)
		r.Get("/menu", menuHandler.GetMenu)

		// Everything below needs a gateway session
		r.Group(func(r chi.Router) {
			r.Use(middleware.RequireSession(sessionStore))

			r.Get("/cart", cartHandler.GetCart)
			r.Post("/cart/items", cartHandler.AddItem)

			r.Post("/checkout", checkoutHandler.Submit)

			r.Get("/orders", ordersHandler.History)
			r.Get("/orders/{orderId}/status", ordersHandler.Status)
			r.Put("/orders/{orderId}", ordersHandler.UpdateStatus)

			r.Post("/auth/signup", authHandler.SignUp)
			r.Post("/auth/signin", authHandler.SignIn)
			r.Post("/auth/signout", authHandler.SignOut)
			r.Get("/auth/me", authHandler.Me)
		})
	})

	// Create HTTP server
	addr := fmt.Sprintf("%s:%s", cfg.Server.Host, cfg.Server.Port)
	srv := &http.Server{
		Addr:         addr,
		Handler:      r,
		ReadTimeout:  time.Duration(cfg.Server.ReadTimeout) * time.Second,
		WriteTimeout: time.Duration(cfg.Server.WriteTimeout) * time.Second,
	}

	// Start server in a goroutine
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

	// Create shutdown context with timeout
	ctx, cancel := context.WithTimeout(context.Background(), time.Duration(cfg.Server.ShutdownTimeout)*time.Second)
	defer cancel()

	// Attempt graceful shutdown
	if err := srv.Shutdown(ctx); err != nil {
		log.Error("server forced to shutdown", "error", err)
		os.Exit(1)
	}

	log.Info("server stopped gracefully")
}
