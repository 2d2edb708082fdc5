// Package server is the wiring layer: it connects handlers, middleware, and
// routes, and owns startup/shutdown.
//
// DEPENDENCY INJECTION FLOW:
// main.go reads config and passes it here; New assembles the whole chain in
// one place (the "composition root"):
//
//	sqlite.DB → repositories → services → handlers → routes
//
// Each layer only receives what it needs — services get repository
// interfaces, handlers get services, and nothing below the handler knows
// about HTTP.
package server

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
	"github.com/gorilla/handlers"

	"github.com/sakif/devconnector/internal/auth"
	"github.com/sakif/devconnector/internal/github"
	"github.com/sakif/devconnector/internal/handler"
	"github.com/sakif/devconnector/internal/middleware"
	sqliteRepo "github.com/sakif/devconnector/internal/repository/sqlite"
	"github.com/sakif/devconnector/internal/service"
)

// Config holds server configuration, loaded once at process start.
type Config struct {
	Port        int
	DBPath      string
	JWTSecret   string
	GitHubToken string   // optional: raises the GitHub API rate limit
	CORSOrigins []string // allowed origins; empty means allow any
}

// Server owns the router and the database handle. The DB is closed during
// graceful shutdown in Start.
type Server struct {
	router *chi.Mux
	config Config
	logger *slog.Logger
	db     *sqliteRepo.DB
}

// New opens the database and wires the full dependency chain.
func New(cfg Config, logger *slog.Logger) (*Server, error) {
	db, err := sqliteRepo.New(cfg.DBPath)
	if err != nil {
		return nil, fmt.Errorf("opening database: %w", err)
	}

	s := &Server{
		router: chi.NewRouter(),
		config: cfg,
		logger: logger,
		db:     db,
	}

	if err := s.setupRoutes(); err != nil {
		db.Close()
		return nil, fmt.Errorf("setting up routes: %w", err)
	}

	return s, nil
}

// setupRoutes configures middleware and the route table.
//
// MIDDLEWARE ORDER MATTERS — it runs in the order added:
// RequestID → RealIP → Recoverer → request logging → CORS → routes.
func (s *Server) setupRoutes() error {
	s.router.Use(chimiddleware.RequestID)
	s.router.Use(chimiddleware.RealIP)
	s.router.Use(chimiddleware.Recoverer)
	s.router.Use(middleware.Logger(s.logger))

	origins := s.config.CORSOrigins
	if len(origins) == 0 {
		origins = []string{"*"}
	}
	s.router.Use(handlers.CORS(
		handlers.AllowedOrigins(origins),
		handlers.AllowedMethods([]string{
			http.MethodGet, http.MethodPost, http.MethodPut, http.MethodDelete, http.MethodOptions,
		}),
		handlers.AllowedHeaders([]string{"Content-Type", auth.TokenHeader}),
	))

	tokens, err := auth.NewTokenService(s.config.JWTSecret)
	if err != nil {
		return fmt.Errorf("creating token service: %w", err)
	}
	passwords := auth.NewPasswordService()
	githubClient := github.NewClient(s.config.GitHubToken)

	users := s.db.Users()
	profiles := s.db.Profiles()
	posts := s.db.Posts()

	authService := service.NewAuthService(users, tokens, passwords, s.logger)
	profileService := service.NewProfileService(profiles, users, posts, githubClient, s.logger)
	postService := service.NewPostService(posts, users, s.logger)

	authHandler := handler.NewAuthHandler(authService, s.logger)
	profileHandler := handler.NewProfileHandler(profileService, s.logger)
	postHandler := handler.NewPostHandler(postService, s.logger)

	requireAuth := auth.RequireAuth(tokens)

	s.router.Route("/api", func(r chi.Router) {
		r.Post("/users", authHandler.HandleRegister)
		r.Post("/auth", authHandler.HandleLogin)
		r.With(requireAuth).Get("/auth", authHandler.HandleCurrentUser)

		r.Route("/profile", func(r chi.Router) {
			// public
			r.Get("/", profileHandler.HandleList)
			r.Get("/user/{userID}", profileHandler.HandleGetByUser)
			r.Get("/github/{username}", profileHandler.HandleGitHubRepos)

			// private
			r.Group(func(r chi.Router) {
				r.Use(requireAuth)
				r.Get("/me", profileHandler.HandleMe)
				r.Post("/", profileHandler.HandleUpsert)
				r.Delete("/", profileHandler.HandleDeleteAccount)
				r.Put("/experience", profileHandler.HandleAddExperience)
				r.Delete("/experience/{entryID}", profileHandler.HandleRemoveExperience)
				r.Put("/education", profileHandler.HandleAddEducation)
				r.Delete("/education/{entryID}", profileHandler.HandleRemoveEducation)
			})
		})

		r.Route("/posts", func(r chi.Router) {
			r.Use(requireAuth)
			r.Post("/", postHandler.HandleCreate)
			r.Get("/", postHandler.HandleList)
			r.Get("/{postID}", postHandler.HandleGetByID)
			r.Delete("/{postID}", postHandler.HandleDelete)
			r.Put("/like/{postID}", postHandler.HandleLike)
			r.Put("/unlike/{postID}", postHandler.HandleUnlike)
			r.Post("/comment/{postID}", postHandler.HandleAddComment)
			r.Delete("/comment/{postID}/{commentID}", postHandler.HandleRemoveComment)
		})
	})

	return nil
}

// Handler exposes the configured router, mainly for tests that want to drive
// the full stack through httptest.
func (s *Server) Handler() http.Handler {
	return s.router
}

// Start runs the HTTP server until SIGINT/SIGTERM, then shuts down
// gracefully: stop accepting connections, give in-flight requests 30s, close
// the database (flushes the WAL, releases the file lock).
func (s *Server) Start() error {
	defer s.db.Close()

	srv := &http.Server{
		Addr:         fmt.Sprintf(":%d", s.config.Port),
		Handler:      s.router,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 15 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)

	serverErrors := make(chan error, 1)

	go func() {
		s.logger.Info("server starting",
			slog.Int("port", s.config.Port),
			slog.String("database", s.config.DBPath),
		)
		serverErrors <- srv.ListenAndServe()
	}()

	select {
	case err := <-serverErrors:
		if err != http.ErrServerClosed {
			return fmt.Errorf("server error: %w", err)
		}

	case sig := <-quit:
		s.logger.Info("shutdown signal received", slog.String("signal", sig.String()))

		ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
		defer cancel()

		if err := srv.Shutdown(ctx); err != nil {
			return fmt.Errorf("graceful shutdown failed: %w", err)
		}
		s.logger.Info("server stopped gracefully")
	}

	return nil
}
