package main

import (
	"context"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/joho/godotenv"

	"github.com/motorline/motorline-go/internal/config"
	"github.com/motorline/motorline-go/internal/crypto"
	"github.com/motorline/motorline-go/internal/handler"
	"github.com/motorline/motorline-go/internal/middleware"
	"github.com/motorline/motorline-go/internal/repository"
	"github.com/motorline/motorline-go/internal/service"
)

func main() {
	if err := godotenv.Load(); err != nil {
		slog.Warn("no .env file found, using environment variables")
	}

	cfg := config.Load()

	db, err := repository.NewDB(cfg.DatabaseDSN)
	if err != nil {
		slog.Error("database connection failed", "error", err)
		os.Exit(1)
	}

	tokens := crypto.NewTokenIssuer(cfg.JWTSecret, cfg.AccessTokenTTL, cfg.RefreshTokenTTL, cfg.ClockSkew)

	userRepo := repository.NewUserRepository(db, cfg.StoreTimeout)
	authService := service.NewAuthService(userRepo, tokens)
	authHandler := handler.NewAuthHandler(authService)

	listingRepo := repository.NewListingRepository(db, cfg.StoreTimeout)
	listingService := service.NewListingService(listingRepo)
	listingHandler := handler.NewListingHandler(listingService)

	r := chi.NewRouter()
	r.Use(middleware.Logger)

	r.Get("/health", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
		w.Write([]byte("ok"))
	})

	// Public browsing and search need no credentials.
	r.Get("/api/v1/listings", listingHandler.HandleList)
	r.Get("/api/v1/listings/search", listingHandler.HandleSearch)
	r.Get("/api/v1/listings/{listing_id}", listingHandler.HandleGet)

	r.Group(func(r chi.Router) {
		r.Use(middleware.RateLimit(5, 10))
		r.Post("/api/v1/auth/register", authHandler.HandleRegister)
		r.Post("/api/v1/auth/login", authHandler.HandleLogin)
		r.Post("/api/v1/auth/refresh", authHandler.HandleRefresh)
	})

	r.Group(func(r chi.Router) {
		r.Use(middleware.Authenticate(tokens, userRepo))
		r.Get("/api/v1/auth/me", authHandler.HandleMe)

		r.Post("/api/v1/listings", listingHandler.HandleCreate)
		r.Get("/api/v1/my/listings", listingHandler.HandleListMine)
		r.Put("/api/v1/listings/{listing_id}", listingHandler.HandleUpdate)
		r.Post("/api/v1/listings/{listing_id}/sold", listingHandler.HandleMarkSold)
		r.Delete("/api/v1/listings/{listing_id}", listingHandler.HandleDelete)
	})

	srv := &http.Server{
		Addr:    ":" + cfg.Port,
		Handler: r,
	}

	go func() {
		slog.Info("server starting", "port", cfg.Port, "env", cfg.Env)
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			slog.Error("server error", "error", err)
			os.Exit(1)
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	slog.Info("shutting down server")
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := srv.Shutdown(ctx); err != nil {
		slog.Error("server forced shutdown", "error", err)
		os.Exit(1)
	}

	slog.Info("server stopped")
}
