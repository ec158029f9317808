package main

import (
	"context"
	"errors"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"github.com/go-redis/redis/v8"
	"github.com/joho/godotenv"
	"github.com/rescuegrid/dispatch-admin/internal/auth"
	"github.com/rescuegrid/dispatch-admin/internal/cache"
	"github.com/rescuegrid/dispatch-admin/internal/config"
	"github.com/rescuegrid/dispatch-admin/internal/database"
	"github.com/rescuegrid/dispatch-admin/internal/filter"
	"github.com/rescuegrid/dispatch-admin/internal/handler"
	"github.com/rescuegrid/dispatch-admin/internal/logger"
	appMiddleware "github.com/rescuegrid/dispatch-admin/internal/middleware"
	"github.com/rescuegrid/dispatch-admin/internal/repository"
	"github.com/rescuegrid/dispatch-admin/internal/storage"
	"go.uber.org/zap"
)

func main() {
	// Load .env file if exists
	envErr := godotenv.Load()

	cfg := config.Load()

	zl, err := logger.New(cfg.LogLevel)
	if err != nil {
		log.Fatalf("Failed to build logger: %v", err)
	}
	defer zl.Sync()

	if envErr != nil {
		zl.Info("no .env file found, using environment variables")
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	// Initialize database
	db, err := database.Connect(cfg.DatabaseURL)
	if err != nil {
		zl.Fatal("failed to connect to database", zap.Error(err))
	}
	defer db.Close()

	// Run migrations in dev environment
	if cfg.Environment == "dev" {
		zl.Info("running database migrations")
		if err := database.Migrate(cfg.DatabaseURL); err != nil {
			zl.Fatal("failed to run migrations", zap.Error(err))
		}
	}

	if cfg.JWTSecret == "" {
		zl.Fatal("JWT_SECRET environment variable is required")
	}
	jwtManager := auth.NewJWTManager(cfg)

	queries := repository.New(db)

	if cfg.Environment == "dev" {
		created, err := auth.EnsureAdmin(ctx, queries, cfg.AdminEmail, cfg.AdminPassword, handler.BcryptCost)
		if err != nil {
			zl.Fatal("failed to seed admin", zap.Error(err))
		}
		if created {
			zl.Info("bootstrap admin created", zap.String("email", cfg.AdminEmail))
		}
	}

	// List cache: Redis when reachable, in-process otherwise
	var listCache cache.ListCache
	if cfg.RedisAddr != "" {
		rdb := redis.NewClient(&redis.Options{Addr: cfg.RedisAddr})
		defer rdb.Close()
		if err := rdb.Ping(ctx).Err(); err != nil {
			zl.Warn("redis unavailable, using in-memory list cache", zap.Error(err))
		} else {
			listCache = cache.NewRedisListCache(rdb, "bookings", cfg.ListCacheTTL)
			zl.Info("redis list cache enabled", zap.String("addr", cfg.RedisAddr))
		}
	}
	if listCache == nil {
		listCache = cache.NewMemoryListCache(cfg.ListCacheTTL)
	}

	// Google Drive exports are optional
	var uploader handler.ExportUploader
	if cfg.DriveEnabled() {
		gdrive, err := storage.NewGDriveService(ctx, cfg.GDriveCredentialsPath, cfg.GDriveTokenPath, cfg.GDriveFolderID, zl)
		if err != nil {
			zl.Warn("google drive unavailable, export uploads disabled", zap.Error(err))
		} else {
			uploader = gdrive
			zl.Info("google drive export uploads enabled")
		}
	} else {
		zl.Info("google drive credentials not configured, export uploads disabled")
	}

	defaultDate, ok := filter.ParseDateFilter(cfg.DefaultDateFilter)
	if cfg.DefaultDateFilter != "" && (!ok || defaultDate == filter.DateCustom) {
		zl.Warn("ignoring invalid DEFAULT_DATE_FILTER", zap.String("value", cfg.DefaultDateFilter))
		defaultDate = filter.DateNone
	}

	listOpts := handler.ListOptions{
		Location:          cfg.Location(),
		DefaultPageSize:   cfg.DefaultPageSize,
		MaxPageSize:       cfg.MaxPageSize,
		DefaultDateFilter: defaultDate,
		PublicBaseURL:     cfg.PublicBaseURL,
	}

	authHandler := handler.NewAuthHandler(queries, jwtManager, zl.Named("auth"))
	bookingHandler := handler.NewBookingHandler(queries, listCache, uploader, listOpts, zl.Named("bookings"))

	r := chi.NewRouter()

	r.Use(middleware.Logger)
	r.Use(middleware.Recoverer)
	r.Use(middleware.RequestID)
	r.Use(cors.Handler(cors.Options{
		AllowedOrigins:   []string{"*"},
		AllowedMethods:   []string{"GET", "POST", "PATCH", "OPTIONS"},
		AllowedHeaders:   []string{"Accept", "Authorization", "Content-Type", "X-Request-ID"},
		ExposedHeaders:   []string{"Link", "Location", "Content-Disposition"},
		AllowCredentials: true,
		MaxAge:           300,
	}))

	r.Get("/health", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
		w.Write([]byte("OK"))
	})

	r.Route("/api/v1", func(r chi.Router) {
		r.Route("/auth", func(r chi.Router) {
			r.Post("/login", authHandler.Login)

			r.Group(func(r chi.Router) {
				r.Use(appMiddleware.JWTAuth(jwtManager))
				r.Get("/me", authHandler.GetMe)
			})
		})

		r.Group(func(r chi.Router) {
			r.Use(appMiddleware.JWTAuth(jwtManager))

			r.Route("/bookings", func(r chi.Router) {
				r.Get("/", bookingHandler.List)
				r.Post("/", bookingHandler.Create)
				r.Get("/{id}", bookingHandler.GetByID)
				r.Patch("/{id}/status", bookingHandler.UpdateStatus)
			})

			r.Route("/views/bookings", func(r chi.Router) {
				r.Get("/", bookingHandler.View)
				r.Get("/qr", bookingHandler.ViewQR)
				r.Get("/export", bookingHandler.Export)
				r.Post("/export", bookingHandler.ExportUpload)
			})
		})
	})

	srv := &http.Server{
		Addr:              ":" + cfg.Port,
		Handler:           r,
		ReadHeaderTimeout: 10 * time.Second,
	}

	go func() {
		zl.Info("server starting", zap.String("port", cfg.Port), zap.String("env", cfg.Environment))
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			zl.Error("server failed", zap.Error(err))
			os.Exit(1)
		}
	}()

	<-ctx.Done()
	zl.Info("shutting down")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		zl.Error("graceful shutdown failed", zap.Error(err))
	}
}
