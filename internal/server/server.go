package server

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/gardenlog/apiserver/config"
	"github.com/gardenlog/apiserver/internal/auth"
	"github.com/gardenlog/apiserver/internal/db"
	"github.com/gardenlog/apiserver/internal/handlers"
	"github.com/gardenlog/apiserver/internal/mq"
	"github.com/gardenlog/apiserver/internal/services"
	"github.com/gardenlog/apiserver/internal/storage"
	"github.com/gardenlog/apiserver/internal/store"
	"github.com/gardenlog/apiserver/internal/uploads"
	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/hlog"
)

const shutdownTimeout = 10 * time.Second

// Server wraps the HTTP server and the connections it owns.
type Server struct {
	httpServer *http.Server
	db         *sql.DB
	queue      *mq.MQ
	logger     zerolog.Logger
}

// New connects the database, upload storage and optional message queue and
// mounts every route.
func New(ctx context.Context, cfg config.Config, logger zerolog.Logger) (*Server, error) {
	if cfg.Auth.JWTSecret == "" {
		return nil, errors.New("JWT_SECRET is required")
	}
	hasher, err := auth.NewHasher(cfg.Auth.PasswordHasher)
	if err != nil {
		return nil, err
	}

	dbConn, err := db.Open(ctx, cfg)
	if err != nil {
		return nil, err
	}

	objects, err := storage.New(ctx, cfg.Upload)
	if err != nil {
		_ = dbConn.Close()
		return nil, fmt.Errorf("init upload storage: %w", err)
	}

	queue, err := mq.NewFromConfig(ctx, cfg.MQ)
	if err != nil {
		_ = dbConn.Close()
		return nil, fmt.Errorf("init message queue: %w", err)
	}

	// A nil *mq.MQ must not reach the interface or the service would see a
	// non-nil publisher.
	var publisher services.EventPublisher
	if queue != nil {
		publisher = queue
	}

	userService := services.NewUserService(store.NewUserRepository(dbConn))
	plantService := services.NewPlantService(store.NewPlantRepository(dbConn))
	imageService := services.NewImageService(
		store.NewImageRepository(dbConn),
		publisher,
		cfg.MQ.ImageEventsChannel,
		cfg.Upload.URLPrefix,
	)

	tokens := auth.NewTokenIssuer(cfg.Auth.JWTSecret, cfg.Auth.TokenTTL)
	authMiddleware := handlers.RequireAuth(tokens)
	uploadMiddleware := handlers.RequireUpload(
		uploads.NewImageUploader(objects, cfg.Upload.URLPrefix),
		cfg.Upload.MaxUploadBytes,
	)

	router := chi.NewRouter()
	router.Use(
		middleware.RealIP,
		hlog.NewHandler(logger),
		hlog.RequestIDHandler("req_id", "X-Request-Id"),
		hlog.AccessHandler(accessLog),
		middleware.Recoverer,
		middleware.Timeout(60*time.Second),
	)
	router.Get("/healthz", handlers.Healthz(dbConn))
	handlers.AuthRouter(router, userService, hasher, tokens)
	router.Route("/plants", func(r chi.Router) {
		handlers.PlantRouter(r, plantService, authMiddleware)
	})
	router.Route("/images", func(r chi.Router) {
		handlers.ImageRouter(r, imageService, authMiddleware, uploadMiddleware)
	})
	if cfg.PublicDir != "" {
		router.Get("/*", handlers.Static(cfg.PublicDir).ServeHTTP)
	}

	port := cfg.ServerPort
	if port == 0 {
		port = 3000
	}

	httpServer := &http.Server{
		Addr:         fmt.Sprintf(":%d", port),
		Handler:      router,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 15 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	logger.Info().
		Str("upload_backend", cfg.Upload.Backend).
		Str("mq_backend", cfg.MQ.Backend).
		Str("password_hasher", cfg.Auth.PasswordHasher).
		Msg("server configured")

	return &Server{
		httpServer: httpServer,
		db:         dbConn,
		queue:      queue,
		logger:     logger,
	}, nil
}

func accessLog(r *http.Request, status, size int, duration time.Duration) {
	hlog.FromRequest(r).Info().
		Str("method", r.Method).
		Stringer("url", r.URL).
		Int("status", status).
		Int("size", size).
		Dur("duration", duration).
		Msg("request")
}

// Start runs the HTTP server until it is shut down.
func (s *Server) Start() error {
	s.logger.Info().Str("addr", s.httpServer.Addr).Msg("listening")
	if err := s.httpServer.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		return err
	}
	return nil
}

// Shutdown drains in-flight requests and then releases the database and queue.
func (s *Server) Shutdown() error {
	ctx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()

	err := s.httpServer.Shutdown(ctx)
	if s.queue != nil {
		if qerr := s.queue.Close(); qerr != nil {
			s.logger.Warn().Err(qerr).Msg("close message queue")
		}
	}
	if s.db != nil {
		_ = s.db.Close()
	}
	return err
}
