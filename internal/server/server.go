// Package server wires the application together: database, session
// manager, services, handlers and routes. It is the composition root;
// main.go only loads config and calls New/Start.
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

	"github.com/alexedwards/scs/v2"
	"github.com/go-chi/chi/v5"
	chimiddleware "github.com/go-chi/chi/v5/middleware"
	"github.com/go-playground/validator/v10"

	"quill/internal/auth"
	"quill/internal/handler"
	"quill/internal/middleware"
	sqliteRepo "quill/internal/repository/sqlite"
	"quill/internal/service"
)

// Config holds everything the server needs to start.
type Config struct {
	Port            int
	TemplateDir     string
	StaticDir       string
	DBPath          string
	SessionLifetime time.Duration
}

// Server owns the router and the resources that must be released on
// shutdown (the database connection).
type Server struct {
	router *chi.Mux
	config Config
	logger *slog.Logger
	db     *sqliteRepo.DB
}

// New assembles the full dependency chain:
//
//	sqlite.DB → services → handlers → routes
//
// Sessions are cookie-based server-side sessions (scs); the session
// middleware wraps every route so handlers can read and write session
// state through the request context.
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

func (s *Server) setupRoutes() error {
	sessions := scs.New()
	sessions.Lifetime = s.config.SessionLifetime
	sessions.Cookie.HttpOnly = true
	sessions.Cookie.SameSite = http.SameSiteLaxMode

	passwords := auth.NewPasswordService()
	validate := validator.New()

	authService := service.NewAuthService(s.db, passwords, s.logger)
	postService := service.NewPostService(s.db, s.db, s.logger)
	commentService := service.NewCommentService(s.db, s.db, s.logger)

	renderer, err := handler.NewRenderer(s.config.TemplateDir, sessions, s.logger)
	if err != nil {
		return err
	}

	authHandler := handler.NewAuthHandler(authService, sessions, renderer, validate, s.logger)
	postHandler := handler.NewPostHandler(postService, commentService, sessions, renderer, validate, s.logger)
	pageHandler := handler.NewPageHandler(renderer)

	// Global middleware, in order: request id and real ip first, the
	// panic recoverer, request logging, then session loading and identity
	// resolution for every route.
	s.router.Use(chimiddleware.RequestID)
	s.router.Use(chimiddleware.RealIP)
	s.router.Use(chimiddleware.Recoverer)
	s.router.Use(middleware.Logger(s.logger))
	s.router.Use(sessions.LoadAndSave)
	s.router.Use(auth.LoadUser(sessions, s.db, s.logger))

	fileServer := http.FileServer(http.Dir(s.config.StaticDir))
	s.router.Handle("/static/*", http.StripPrefix("/static/", fileServer))

	s.router.Get("/", postHandler.Home)
	s.router.Get("/about", pageHandler.About)
	s.router.Get("/contact", pageHandler.Contact)

	s.router.Get("/register", authHandler.RegisterForm)
	s.router.Post("/register", authHandler.Register)
	s.router.Get("/login", authHandler.LoginForm)
	s.router.Post("/login", authHandler.Login)
	s.router.Get("/logout", authHandler.Logout)

	s.router.Get("/post/{id}", postHandler.Show)
	s.router.Post("/post/{id}", postHandler.AddComment)

	// Post management is administrator-only; the guard runs before any
	// handler logic.
	s.router.Group(func(r chi.Router) {
		r.Use(auth.RequireAdmin)
		r.Get("/new-post", postHandler.NewPostForm)
		r.Post("/new-post", postHandler.CreatePost)
		r.Get("/edit-post/{id}", postHandler.EditPostForm)
		r.Post("/edit-post/{id}", postHandler.EditPost)
		r.Get("/delete/{id}", postHandler.DeletePost)
	})

	return nil
}

// Start runs the HTTP server until SIGINT/SIGTERM, then shuts down
// gracefully: stop accepting connections, give in-flight requests 30
// seconds, close the database.
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
