// Package interfaces holds compile-time checks that the concrete types
// wired in the entrypoint satisfy the interfaces their consumers declare.
package interfaces

import (
	"github.com/Crabmann2025/Book-Alchemy/internal/auth"
	"github.com/Crabmann2025/Book-Alchemy/internal/covers"
	"github.com/Crabmann2025/Book-Alchemy/internal/database"
	"github.com/Crabmann2025/Book-Alchemy/internal/database/users"
	"github.com/Crabmann2025/Book-Alchemy/internal/http"
	"github.com/Crabmann2025/Book-Alchemy/internal/metadata"
	"github.com/Crabmann2025/Book-Alchemy/internal/scheduler"
	"github.com/Crabmann2025/Book-Alchemy/internal/tasks"
)

// Catalog persistence
var (
	_ http.CatalogStore   = (*database.Database)(nil)
	_ http.DeleteStore    = (*database.Database)(nil)
	_ http.HealthChecker  = (*database.Database)(nil)
	_ auth.UserRepository = (*users.Repository)(nil)
)

// Enrichment
var (
	_ metadata.MetadataProvider = (*metadata.OpenLibraryClient)(nil)
	_ metadata.BookUpdater      = (*database.MetadataUpdater)(nil)
	_ tasks.BookEnricher        = (*metadata.Enricher)(nil)
	_ http.CoverCache           = (*covers.Cache)(nil)
)

// Background jobs
var (
	_ http.EnrichmentQueue    = (*tasks.Client)(nil)
	_ scheduler.SweepEnqueuer = (*tasks.Client)(nil)
)
