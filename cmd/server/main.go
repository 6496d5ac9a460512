package main

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/go-chi/chi/v5"
	chimiddleware "github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/rs/zerolog/log"

	"github.com/physiohub/physiohub-server/internal/auth"
	"github.com/physiohub/physiohub-server/internal/cache"
	"github.com/physiohub/physiohub-server/internal/config"
	"github.com/physiohub/physiohub-server/internal/database"
	"github.com/physiohub/physiohub-server/internal/handlers"
	"github.com/physiohub/physiohub-server/internal/middleware"
	"github.com/physiohub/physiohub-server/internal/repository"
	"github.com/physiohub/physiohub-server/internal/services"
	"github.com/physiohub/physiohub-server/internal/tenant"
	"github.com/physiohub/physiohub-server/pkg/logger"
)

func main() {
	// Load configuration
	cfg, err := config.Load()
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to load configuration")
	}

	if err := cfg.Validate(); err != nil {
		log.Fatal().Err(err).Msg("Invalid configuration")
	}

	// Initialize logger
	logger.Init(cfg.Log.Level, cfg.Log.Format)
	log.Info().Msg("Starting PhysioHub server")

	// Connect to database
	db, err := database.Connect(database.Config{
		Host:     cfg.Database.Host,
		Port:     cfg.Database.Port,
		User:     cfg.Database.User,
		Password: cfg.Database.Password,
		DBName:   cfg.Database.DBName,
		SSLMode:  cfg.Database.SSLMode,
		LogLevel: cfg.Database.LogLevel,
	})
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to connect to database")
	}
	defer db.Close()

	// Initialize cache
	var cacheImpl cache.Cache
	if cfg.Cache.Enabled && cfg.Cache.Type == "redis" {
		addr := fmt.Sprintf("%s:%d", cfg.Redis.Host, cfg.Redis.Port)
		cacheImpl, err = cache.NewRedisCache(addr, cfg.Redis.Password, cfg.Redis.DB)
		if err != nil {
			log.Fatal().Err(err).Msg("Failed to connect to Redis")
		}
		log.Info().Msg("Redis cache initialized")
	} else {
		cacheImpl = cache.NewMemoryCache()
		log.Info().Msg("Memory cache initialized")
	}
	defer cacheImpl.Close()

	// Initialize repositories
	tenantRepo := repository.NewTenantRepository(db)
	userRepo := repository.NewUserRepository(db)
	auditRepo := repository.NewAuditRepository(db)
	hospitalRepo := repository.NewHospitalRepository(db)

	// Initialize tenancy components
	resolver := tenant.NewResolver(tenantRepo, cacheImpl)
	provisioner := tenant.NewProvisioner(db)
	tokens := auth.NewTokenManager(cfg.JWT.Secret, cfg.JWT.AccessTTL, cfg.JWT.RefreshTTL)

	// Initialize services
	authService := services.NewAuthService(tenantRepo, userRepo, auditRepo, tokens, cacheImpl)
	tenantService := services.NewTenantService(tenantRepo, userRepo, provisioner)

	// Initialize handlers
	healthHandler := handlers.NewHealthHandler(db)
	authHandler := handlers.NewAuthHandler(authService)
	tenantHandler := handlers.NewTenantHandler(tenantService)
	hospitalHandler := handlers.NewHospitalHandler(hospitalRepo)
	auditHandler := handlers.NewAuditHandler(auditRepo)

	// Setup router
	r := chi.NewRouter()

	// Global middleware
	r.Use(chimiddleware.RequestID)
	r.Use(chimiddleware.RealIP)
	r.Use(middleware.Recovery)
	r.Use(middleware.Logging)
	r.Use(chimiddleware.Compress(5))

	// CORS
	r.Use(cors.Handler(cors.Options{
		AllowedOrigins:   cfg.CORS.AllowedOrigins,
		AllowedMethods:   cfg.CORS.AllowedMethods,
		AllowedHeaders:   cfg.CORS.AllowedHeaders,
		ExposedHeaders:   []string{"Content-Length", "Content-Type"},
		AllowCredentials: false,
		MaxAge:           300,
	}))

	// Health endpoints (no tenant required)
	r.Get("/health", healthHandler.Health)
	r.Get("/ready", healthHandler.Ready)

	// Metrics endpoint
	if cfg.Metrics.Enabled {
		r.Handle("/metrics", promhttp.Handler())
	}

	tenantAPI := func(r chi.Router) {
		// Auth endpoints can also name the tenant in the body, so a
		// missing resolution source is not fatal here
		r.Route("/auth", func(r chi.Router) {
			r.Use(middleware.ResolveTenantLenient(resolver))
			r.Post("/login", authHandler.Login)
			r.Post("/refresh", authHandler.Refresh)
			r.Post("/validate", authHandler.Validate)
			r.Post("/logout", authHandler.Logout)
		})

		r.Group(func(r chi.Router) {
			r.Use(middleware.ResolveTenant(resolver))

			r.Get("/tenants/current", tenantHandler.Current)

			// Authenticated clinical routes
			r.Group(func(r chi.Router) {
				r.Use(middleware.Authenticate(tokens))

				r.With(middleware.RequirePermission("hospitals:read")).
					Get("/hospitals", hospitalHandler.List)
				r.With(middleware.RequirePermission("hospitals:create")).
					Post("/hospitals", hospitalHandler.Create)
				r.Route("/hospitals/{hospitalID}", func(r chi.Router) {
					r.Use(middleware.RequirePermission("hospitals:read"))
					r.Use(middleware.RequireHospitalAccess)
					r.Get("/", hospitalHandler.Get)
				})

				// Tenant admin operations
				r.With(middleware.RequirePermission(auth.PermissionTenantManage)).
					Get("/admin/audit-logs", auditHandler.List)
				r.With(middleware.RequirePermission(auth.PermissionTenantManage)).
					Delete("/admin/tenants/{tenantSlug}", tenantHandler.Drop)
			})
		})
	}

	r.Route("/api/v1", func(r chi.Router) {
		// Tenant signup happens before any tenant exists to resolve
		r.Post("/tenants", tenantHandler.Register)

		r.Group(tenantAPI)
	})

	// Same API surface with the tenant slug in the path, for clients
	// that cannot set subdomains or headers
	r.Route("/t/{tenantSlug}/api/v1", tenantAPI)

	// Create server
	addr := fmt.Sprintf("%s:%d", cfg.Server.Host, cfg.Server.Port)
	srv := &http.Server{
		Addr:         addr,
		Handler:      r,
		ReadTimeout:  cfg.Server.ReadTimeout,
		WriteTimeout: cfg.Server.WriteTimeout,
	}

	// Start server in a goroutine
	go func() {
		log.Info().Str("addr", addr).Msg("Server starting")
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatal().Err(err).Msg("Server failed to start")
		}
	}()

	// Wait for interrupt signal
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Info().Msg("Shutting down server...")

	// Graceful shutdown
	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if err := srv.Shutdown(ctx); err != nil {
		log.Fatal().Err(err).Msg("Server forced to shutdown")
	}

	log.Info().Msg("Server stopped")
}
