// Package server wires configuration, storage and handlers into the HTTP server.
package server

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"time"

	"dailydiet/internal/auth"
	"dailydiet/internal/config"
	"dailydiet/internal/database"
	"dailydiet/internal/meals"
	"dailydiet/internal/session"
	"dailydiet/internal/users"
)

// Server holds the dependencies for the HTTP server
type Server struct {
	cfg *config.Config

	db       database.Service
	sessions session.Store

	authorizer *auth.Authorizer
	users      *users.Handler
	meals      *meals.Handler
	metrics    *Metrics
}

// New connects to the database, applies migrations and builds the server
func New(ctx context.Context, cfg *config.Config) (*Server, error) {
	db, err := database.New(ctx, cfg.DatabaseURL)
	if err != nil {
		return nil, err
	}
	slog.Info("Database service initialized")

	if err := db.Migrate(ctx); err != nil {
		db.Close()
		return nil, err
	}

	var store session.Store
	switch cfg.SessionStore {
	case config.SessionStoreRedis:
		store = session.NewRedisStore(cfg.RedisAddr, cfg.RedisPassword, cfg.RedisDB)
		slog.Info("Using Redis session store", "redis_addr", cfg.RedisAddr)
	default:
		store = session.NewPostgresStore(db)
		slog.Info("Using Postgres session store")
	}

	return NewWithDependencies(cfg, db, store), nil
}

// NewWithDependencies builds the server around an existing database and session store
func NewWithDependencies(cfg *config.Config, db database.Service, store session.Store) *Server {
	sessionMgr := session.NewManager(store)

	userRepo := users.NewPostgresRepository(db)
	userService := users.NewService(userRepo, sessionMgr)

	mealService := meals.NewService(meals.NewPostgresRepository(db))

	return &Server{
		cfg:        cfg,
		db:         db,
		sessions:   store,
		authorizer: auth.NewAuthorizer(sessionMgr, userService),
		users:      users.NewHandler(userService, cfg.IsProduction()),
		meals:      meals.NewHandler(mealService, cfg.Location),
		metrics:    NewMetrics(),
	}
}

// HTTPServer returns the configured *http.Server
func (s *Server) HTTPServer() *http.Server {
	server := &http.Server{
		Addr:              fmt.Sprintf(":%d", s.cfg.Port),
		Handler:           s.RegisterRoutes(),
		ReadTimeout:       s.cfg.ReadTimeout,
		WriteTimeout:      s.cfg.WriteTimeout,
		IdleTimeout:       s.cfg.IdleTimeout,
		ReadHeaderTimeout: 5 * time.Second,
		MaxHeaderBytes:    1 << 20,
	}

	slog.Info("HTTP server configured", "port", s.cfg.Port)
	return server
}

// Close releases the session store and the database pool
func (s *Server) Close() error {
	return errors.Join(s.sessions.Close(), s.db.Close())
}
