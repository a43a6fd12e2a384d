package http

import (
	"html/template"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/Crabmann2025/Book-Alchemy/internal/auth"
)

// NewRouter creates and configures the HTTP router with all endpoints.
func NewRouter(cfg RouterConfig) *gin.Engine {
	router := gin.New()
	router.Use(gin.Logger())
	router.Use(gin.Recovery())

	router.Use(auth.SecurityHeadersMiddleware())
	if cfg.SecureCookies {
		router.Use(auth.StrictTransportSecurityMiddleware())
	}

	// Session first: CSRF replaces the request and must keep the session context
	if cfg.SessionManager != nil {
		router.Use(cfg.SessionManager.SessionLoadSave())
	}
	if len(cfg.CSRFSecret) > 0 {
		router.Use(auth.CSRFMiddleware(cfg.CSRFSecret, cfg.SecureCookies))
	}

	authEnabled := cfg.AuthService != nil && cfg.AuthService.IsAuthEnabled()
	var requireLogin gin.HandlerFunc = func(c *gin.Context) { c.Next() }
	if cfg.AuthMiddleware != nil {
		router.Use(cfg.AuthMiddleware.Handler())
		requireLogin = cfg.AuthMiddleware.RequireLogin()
	}

	router.SetHTMLTemplate(template.Must(LoadTemplates(cfg.TemplatesPath)))
	if cfg.StaticPath != "" {
		router.Static("/static", cfg.StaticPath)
	}

	renderer := &pageRenderer{
		flashes:       NewFlashStore(cfg.SessionManager),
		authEnabled:   authEnabled,
		enrichEnabled: cfg.EnrichmentQueue != nil,
	}
	health := NewHealthController(cfg.Health, cfg.Version)
	library := NewLibraryController(cfg.Catalog, cfg.EnrichmentQueue, renderer)
	deletes := NewDeleteController(cfg.Deletes, cfg.Covers, renderer)
	covers := NewCoversController(cfg.Catalog, cfg.Covers, renderer)
	booksAPI := NewBooksController(cfg.Catalog)

	// Health endpoint
	router.GET("/health", health.Status)

	// Catalog pages
	router.GET("/", library.Home)
	router.POST("/", library.Home)
	router.GET("/book/:id", library.BookPage)
	router.GET("/author/:id", library.AuthorPage)
	router.GET("/covers/:id", covers.Cover)

	// Write operations
	edit := router.Group("/", requireLogin)
	edit.GET("/add_author", library.AddAuthorPage)
	edit.POST("/add_author", library.AddAuthor)
	edit.GET("/add_book", library.AddBookPage)
	edit.POST("/add_book", library.AddBook)
	edit.POST("/book/:id/delete", deletes.DeleteBook)
	edit.POST("/author/:id/delete", deletes.DeleteAuthor)
	if cfg.EnrichmentQueue != nil {
		enrichment := NewEnrichmentController(cfg.Catalog, cfg.EnrichmentQueue, renderer)
		edit.POST("/book/:id/enrich", enrichment.RefreshBook)
		edit.POST("/enrich_missing", enrichment.RefreshMissing)
	}

	// JSON API
	router.GET("/api/books", booksAPI.GetAllBooks)
	router.GET("/api/authors", booksAPI.GetAllAuthors)

	if authEnabled && cfg.SessionManager != nil {
		auth.NewAuthController(cfg.AuthService, cfg.SessionManager, cfg.LoginLimiter).RegisterRoutes(router)
	}

	router.NoRoute(func(c *gin.Context) {
		renderer.renderError(c, http.StatusNotFound, "Page not found")
	})

	return router
}
