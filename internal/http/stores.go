package http

import (
	"context"

	"github.com/Crabmann2025/Book-Alchemy/internal/database"
	"github.com/Crabmann2025/Book-Alchemy/internal/entities"
)

// CatalogStore is the read/create side of the catalog.
type CatalogStore interface {
	GetAllBooks(sort database.BookSort) ([]entities.Book, error)
	SearchBooks(query string, sort database.BookSort) ([]entities.Book, error)
	GetBookByID(id uint) (*entities.Book, error)
	CreateBook(book *entities.Book) error

	GetAllAuthors() ([]entities.Author, error)
	GetAuthorByID(id uint) (*entities.Author, error)
	CreateAuthor(author *entities.Author) error
}

// DeleteStore defines the cascading delete operations.
type DeleteStore interface {
	DeleteBook(id uint) (*database.BookDeletion, error)
	DeleteAuthor(id uint) (*database.AuthorDeletion, error)
}

// EnrichmentQueue schedules background metadata lookups.
type EnrichmentQueue interface {
	EnqueueEnrichBook(bookID uint) error
	EnqueueEnrichMissing() error
}

// HealthChecker reports whether the store is reachable.
type HealthChecker interface {
	Ping() error
}

// CoverCache serves local copies of enriched cover images.
type CoverCache interface {
	GetCover(ctx context.Context, bookID uint, coverURL string) (string, error)
	InvalidateCover(bookID uint) error
}
