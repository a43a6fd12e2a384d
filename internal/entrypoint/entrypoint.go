package entrypoint

import (
	"context"
	"encoding/hex"
	"errors"
	"fmt"
	"log"
	"net/http"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm/logger"

	"github.com/Crabmann2025/Book-Alchemy/internal/auth"
	"github.com/Crabmann2025/Book-Alchemy/internal/config"
	"github.com/Crabmann2025/Book-Alchemy/internal/covers"
	"github.com/Crabmann2025/Book-Alchemy/internal/database"
	"github.com/Crabmann2025/Book-Alchemy/internal/database/users"
	http_controllers "github.com/Crabmann2025/Book-Alchemy/internal/http"
	"github.com/Crabmann2025/Book-Alchemy/internal/metadata"
	"github.com/Crabmann2025/Book-Alchemy/internal/scheduler"
	"github.com/Crabmann2025/Book-Alchemy/internal/tasks"
)

// ShutdownFunc is called during graceful shutdown to clean up resources.
type ShutdownFunc func(ctx context.Context)

// Serve runs the HTTP server until SIGINT or SIGTERM, then calls onShutdown
// and drains open connections within the configured timeout.
func Serve(router http.Handler, cfg *config.Config, onShutdown ShutdownFunc) {
	timeout := time.Duration(cfg.Global.ShutdownTimeoutInSeconds) * time.Second

	srv := &http.Server{
		Addr:              fmt.Sprintf("%s:%d", cfg.HTTP.Host, cfg.HTTP.Port),
		Handler:           router,
		ReadHeaderTimeout: 10 * time.Second,
	}

	go func() {
		log.Printf("Starting server at %s", srv.Addr)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Fatalf("listen: %s\n", err)
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	log.Printf("Shutdown Server, waiting %v before killing\n", timeout)

	ctx, cancel := context.WithTimeout(context.Background(), timeout)
	defer cancel()

	// Background work stops before the listener so no new tasks are queued mid-drain
	if onShutdown != nil {
		onShutdown(ctx)
	}

	if err := srv.Shutdown(ctx); err != nil {
		log.Printf("Server Shutdown: %v", err)
	}

	log.Println("Server exiting")
}

// Run wires the catalog, sessions, auth, enrichment and background jobs,
// then serves until interrupted.
func Run(cfg *config.Config, version string) {
	log.Printf("Starting Book Alchemy v%s", version)

	if !cfg.Global.Debug {
		gin.SetMode(gin.ReleaseMode)
	}

	db, err := database.NewDatabase(cfg.Database.Path)
	if err != nil {
		log.Fatalf("Failed to initialize database: %v", err)
	}
	defer func() {
		if err := db.Close(); err != nil {
			log.Printf("Error closing database: %v", err)
		}
	}()
	if cfg.Global.Debug {
		db.DB.Logger = database.NewLogger(os.Stdout, logger.Info)
	}

	sqlDB, err := db.DB.DB()
	if err != nil {
		log.Fatalf("Failed to get SQL DB for sessions: %v", err)
	}
	sessionManager, err := auth.NewSessionManager(sqlDB, cfg.Auth)
	if err != nil {
		log.Fatalf("Failed to initialize session manager: %v", err)
	}

	csrfSecret, err := resolveSecret(cfg.Auth.SessionSecret)
	if err != nil {
		log.Fatalf("Failed to generate CSRF secret: %v", err)
	}

	routerCfg := http_controllers.RouterConfig{
		Catalog:        db,
		Deletes:        db,
		Health:         db,
		SessionManager: sessionManager,
		CSRFSecret:     csrfSecret,
		SecureCookies:  cfg.Auth.SecureCookies,
		TemplatesPath:  cfg.UI.TemplatesPath,
		StaticPath:     cfg.UI.StaticPath,
		Version:        version,
	}

	coverDir := filepath.Join(filepath.Dir(cfg.Database.Path), "covers")
	if coverCache, err := covers.NewCache(coverDir); err != nil {
		log.Printf("WARNING: Failed to initialize cover cache: %v", err)
	} else {
		log.Printf("Cover cache initialized at %s", coverDir)
		routerCfg.Covers = coverCache
	}

	var loginLimiter *auth.RateLimiter
	if cfg.Auth.Mode == config.AuthModeLocal {
		log.Printf("Authentication mode: local")

		authService := auth.NewService(users.NewRepository(db.DB), cfg.Auth)
		routerCfg.AuthService = authService
		routerCfg.AuthMiddleware = auth.NewMiddleware(authService, sessionManager, cfg.Auth)
		loginLimiter = auth.NewRateLimiter(cfg.Auth)
		routerCfg.LoginLimiter = loginLimiter

		if hasUsers, _ := authService.HasUsers(); !hasUsers {
			log.Printf("No users found. Run '%s create-user -username <name> -password <password>' to add one.", os.Args[0])
		}
	} else {
		log.Printf("Authentication mode: none (no authentication required)")
	}

	// Background enrichment: task queue first, scheduler on top of it
	var taskClient *tasks.Client
	var enrichScheduler *scheduler.EnrichmentScheduler
	bgCtx, bgCancel := context.WithCancel(context.Background())
	defer bgCancel()

	if cfg.Tasks.Enabled && cfg.Metadata.Enabled {
		taskClient, err = tasks.NewClient(cfg.Database.Path, tasks.Config{
			Workers:         cfg.Tasks.Workers,
			ReleaseAfter:    cfg.Tasks.ReleaseAfter,
			CleanupInterval: cfg.Tasks.CleanupInterval,
		})
		if err != nil {
			log.Fatalf("Failed to initialize task queue: %v", err)
		}
		defer func() {
			if err := taskClient.Close(); err != nil {
				log.Printf("Error closing task client: %v", err)
			}
		}()

		enricher := metadata.NewEnricher(metadata.NewOpenLibraryClient(), database.NewMetadataUpdater(db))
		tasks.RegisterEnrichmentQueues(taskClient, enricher)
		taskClient.Start(bgCtx)
		routerCfg.EnrichmentQueue = taskClient

		if cfg.EnrichSync.Enabled {
			enrichScheduler = scheduler.NewEnrichmentScheduler(taskClient, cfg.EnrichSync.Schedule)
			if err := enrichScheduler.Start(bgCtx); err != nil {
				log.Fatalf("Failed to start enrichment scheduler: %v", err)
			}
		}
	} else {
		log.Printf("Metadata enrichment disabled (TASKS_ENABLED=%t, METADATA_ENABLED=%t)", cfg.Tasks.Enabled, cfg.Metadata.Enabled)
	}

	router := http_controllers.NewRouter(routerCfg)

	onShutdown := func(ctx context.Context) {
		if enrichScheduler != nil {
			enrichScheduler.Stop()
		}
		if taskClient != nil {
			taskClient.Stop(ctx)
		}
		if loginLimiter != nil {
			loginLimiter.Stop()
		}
		bgCancel()
	}

	Serve(router, cfg, onShutdown)
}

// resolveSecret decodes a hex secret, falls back to the raw bytes, and
// generates a fresh one when none is configured.
func resolveSecret(configured string) ([]byte, error) {
	if configured != "" {
		if secret, err := hex.DecodeString(configured); err == nil {
			return secret, nil
		}
		return []byte(configured), nil
	}

	secret, err := auth.GenerateSessionSecret()
	if err != nil {
		return nil, err
	}
	log.Printf("Generated session secret (set AUTH_SESSION_SECRET to persist)")
	return hex.DecodeString(secret)
}
