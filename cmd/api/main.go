package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/georgemunganga/limpiohogar-backend/internal/config"
	"github.com/georgemunganga/limpiohogar-backend/internal/modules/admin"
	"github.com/georgemunganga/limpiohogar-backend/internal/modules/auth"
	"github.com/georgemunganga/limpiohogar-backend/internal/modules/cart"
	"github.com/georgemunganga/limpiohogar-backend/internal/modules/catalog"
	"github.com/georgemunganga/limpiohogar-backend/internal/modules/order"
	"github.com/georgemunganga/limpiohogar-backend/internal/modules/user"
	"github.com/georgemunganga/limpiohogar-backend/internal/platform/database"
	"github.com/georgemunganga/limpiohogar-backend/internal/platform/live"
	"github.com/georgemunganga/limpiohogar-backend/internal/platform/mail"
	"github.com/georgemunganga/limpiohogar-backend/internal/remote"
	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
)

func main() {
	// LOG_LEVEL from .env is applied by config.Load.
	logger := config.NewLogger(os.Getenv("LOG_LEVEL"))

	cfg, err := config.Load(logger)
	if err != nil {
		logger.Fatalf("Failed to load configuration: %v", err)
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	db, err := database.Open(ctx, cfg.DatabaseURL)
	if err != nil {
		logger.Fatalf("Failed to connect to database: %v", err)
	}
	defer db.Close()
	logger.Info("Successfully connected to the database")

	if err := database.Migrate(ctx, db, logger); err != nil {
		logger.Fatalf("Failed to migrate database: %v", err)
	}
	if cfg.SeedSampleProducts {
		n, err := database.SeedSampleProducts(ctx, db)
		if err != nil {
			logger.Fatalf("Failed to seed sample products: %v", err)
		}
		logger.Infof("Seeded %d sample products", n)
	}

	hub := live.NewHub()
	store := database.NewStore(db, hub)
	remoteClient := remote.NewHTTPClient(cfg.RemoteBaseURL, cfg.RemoteTimeout, logger)

	// ── Router ──────────────────────────────────────────────
	router := chi.NewRouter()
	router.Use(middleware.RequestID)
	router.Use(middleware.Logger)
	router.Use(middleware.Recoverer)

	// ── Phase 1: Identity ───────────────────────────────────
	userRepo := user.NewPostgresRepository(store)
	validator := auth.NewValidator(time.Now)
	authService := auth.NewService(
		userRepo,
		auth.NewPostgresSessionRepository(store),
		remoteClient,
		validator,
		auth.Options{Secret: []byte(cfg.JWTSecret), SessionTTL: cfg.SessionTTL},
		logger,
	)
	mw := auth.NewMiddleware(authService, logger)
	auth.NewHandler(authService, mw, logger).RegisterRoutes(router)

	userService := user.NewService(userRepo, validator, logger)
	user.NewHandler(userService, logger).RegisterRoutes(router, mw.RequireAuth, mw.RequireAdmin)

	// ── Phase 2: Catalog ────────────────────────────────────
	catalogRepo := catalog.NewPostgresRepository(store)
	synchronizer := catalog.NewSynchronizer(remoteClient, catalogRepo, store, cfg.AssetBaseURL, logger)
	catalogService := catalog.NewService(catalogRepo, hub, cfg.LiveGracePeriod, logger)
	catalog.NewHandler(catalogService, synchronizer, logger).RegisterRoutes(router, mw.RequireAdmin)

	// ── Phase 3: Cart & Checkout ────────────────────────────
	cartService := cart.NewService(cart.NewPostgresRepository(store), catalogService, store, hub, cfg.LiveGracePeriod, logger)
	cart.NewHandler(cartService, logger).RegisterRoutes(router, mw.RequireAuth)

	mailer := mail.NewSender(mail.SMTPConfig{
		Host:     cfg.SMTPHost,
		Port:     cfg.SMTPPort,
		User:     cfg.SMTPUser,
		Password: cfg.SMTPPassword,
		From:     cfg.SMTPFrom,
	}, logger)
	orderService := order.NewService(order.NewPostgresRepository(store), cartService, userRepo, remoteClient, store, mailer, logger)
	order.NewHandler(orderService, logger).RegisterRoutes(router, mw.RequireAuth)

	// ── Phase 4: Back-office ────────────────────────────────
	adminService := admin.NewService(catalogRepo, remoteClient, synchronizer, cfg.AssetBaseURL, logger)
	admin.NewHandler(adminService, logger).RegisterRoutes(router, mw.RequireAdmin)

	// ── Catalog refresh ─────────────────────────────────────
	if cfg.SyncOnStartup {
		go synchronizer.Refresh(ctx)
	}
	if cfg.SyncInterval > 0 {
		go synchronizer.Run(ctx, cfg.SyncInterval)
	}

	// ── Start Server ────────────────────────────────────────
	srv := &http.Server{
		Addr:              ":" + cfg.AppPort,
		Handler:           router,
		ReadHeaderTimeout: 10 * time.Second,
	}
	go func() {
		logger.Infof("LimpioHogar API server starting on :%s", cfg.AppPort)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Fatalf("Server failed: %v", err)
		}
	}()

	<-ctx.Done()
	logger.Info("Shutting down server")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		logger.Errorf("Graceful shutdown failed: %v", err)
	}
}
