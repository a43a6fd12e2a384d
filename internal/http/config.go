package http

import (
	"github.com/Crabmann2025/Book-Alchemy/internal/auth"
)

// RouterConfig contains all dependencies and configuration needed
// to create the HTTP router.
type RouterConfig struct {
	// Core dependencies
	Catalog CatalogStore
	Deletes DeleteStore
	Health  HealthChecker

	// Optional: nil disables enrichment on add
	EnrichmentQueue EnrichmentQueue

	// Optional: nil sends cover requests straight to the remote URL
	Covers CoverCache

	// Sessions back flash notices; nil drops them silently
	SessionManager *auth.SessionManager

	// Authentication (nil when AUTH_MODE=none)
	AuthService    *auth.Service
	AuthMiddleware *auth.Middleware
	LoginLimiter   *auth.RateLimiter // Optional: nil leaves login unthrottled

	// CSRF is enabled when a secret is set
	CSRFSecret    []byte
	SecureCookies bool

	// UI paths
	TemplatesPath string
	StaticPath    string

	// Application info
	Version string
}
