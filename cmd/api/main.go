package main

import (
	"log"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/joho/godotenv"
	httpSwagger "github.com/swaggo/http-swagger"

	_ "github.com/avink/microgram/docs"
	"github.com/avink/microgram/internal/auth"
	"github.com/avink/microgram/internal/config"
	"github.com/avink/microgram/internal/database"
	"github.com/avink/microgram/internal/follow"
	"github.com/avink/microgram/internal/user"
	mw "github.com/avink/microgram/pkg/middleware"
)

// @title        Microgram API
// @version      1.0
// @description  User accounts and follow graph
// @BasePath     /api/v1

// @securityDefinitions.apikey BearerAuth
// @in   header
// @name Authorization

func main() {
	// Load .env file
	if err := godotenv.Load(); err != nil {
		log.Println("No .env file found, using environment variables")
	}

	// Load configuration
	cfg := config.Load()

	// Initialize database connection
	db, err := database.NewPostgresConnection(cfg.DatabaseURL)
	if err != nil {
		log.Fatalf("Failed to connect to database: %v", err)
	}
	defer db.Close()

	if err := database.EnsureSchema(db); err != nil {
		log.Fatalf("Failed to ensure schema: %v", err)
	}

	log.Println("Connected to database successfully")

	// Auth primitives share the startup configuration and stay
	// immutable for the process lifetime
	hasher := auth.NewPasswordHasher(cfg.BcryptCost)
	tokens := auth.NewTokenService(cfg.JWTSecret, cfg.TokenTTL)

	// Follow feature
	followRepo := follow.NewRepository(db)
	followService := follow.NewService(followRepo)

	// User feature (composing follow counts into responses)
	userRepo := user.NewRepository(db)
	userService := user.NewService(userRepo, hasher, tokens)
	userHandler := user.NewHandler(userService, followService)

	followHandler := follow.NewHandler(followService, userService)

	r := chi.NewRouter()

	r.Use(middleware.Logger)
	r.Use(middleware.Recoverer)
	r.Use(middleware.RequestID)

	r.Get("/health", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
		w.Write([]byte(`{"status":"ok"}`))
	})

	r.Get("/swagger/*", httpSwagger.WrapHandler)

	// API routes
	r.Route("/api/v1", func(r chi.Router) {
		r.Post("/register", userHandler.Register)
		r.Post("/token", userHandler.Login)
		r.Get("/users", userHandler.List)
		r.Get("/users/{id}", userHandler.GetByID)

		// Authenticated routes
		r.Group(func(r chi.Router) {
			r.Use(mw.Authenticator(tokens))
			r.Get("/me", userHandler.Me)
			r.Post("/follow/{user_id}", followHandler.Follow)
			r.Post("/unfollow/{user_id}", followHandler.Unfollow)
		})
	})

	// Start server
	port := cfg.Port
	if port == "" {
		port = "8080"
	}

	log.Printf("Server starting on port %s", port)
	if err := http.ListenAndServe(":"+port, r); err != nil {
		log.Fatalf("Server failed to start: %v", err)
	}
}
