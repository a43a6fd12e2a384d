package metadata

import (
	"context"
	"fmt"
	"log"

	"github.com/Crabmann2025/Book-Alchemy/internal/entities"
)

// MetadataProvider defines the interface for fetching book metadata.
type MetadataProvider interface {
	SearchByISBN(ctx context.Context, isbn string) (*BookMetadata, error)
	SearchByTitle(ctx context.Context, title, author string) (*BookMetadata, error)
}

// BookUpdater defines the interface for updating books in the database.
type BookUpdater interface {
	GetBookByID(id uint) (*entities.Book, error)
	UpdateBookMetadata(id uint, fields BookUpdateFields) error
	GetBooksMissingMetadata() ([]entities.Book, error)
}

// BookUpdateFields contains the fields that can be updated via enrichment.
type BookUpdateFields struct {
	CoverURL        *string
	PublicationYear *int
}

// EnrichmentResult contains the result of an enrichment operation.
type EnrichmentResult struct {
	BookID        uint     `json:"book_id"`
	FieldsUpdated []string `json:"fields_updated"`
	SearchMethod  string   `json:"search_method"` // "isbn" or "title"
}

// BulkEnrichmentResult summarizes EnrichMissing.
type BulkEnrichmentResult struct {
	TotalBooks int      `json:"total_books"`
	Enriched   int      `json:"enriched"`
	Failed     int      `json:"failed"`
	Skipped    int      `json:"skipped"`
	Errors     []string `json:"errors,omitempty"`
}

// Enricher fills in missing cover and publication year for catalog books.
// Values entered by the user are never overwritten.
type Enricher struct {
	provider MetadataProvider
	db       BookUpdater
}

func NewEnricher(provider MetadataProvider, db BookUpdater) *Enricher {
	return &Enricher{
		provider: provider,
		db:       db,
	}
}

// EnrichBook looks a book up by ISBN, falling back to title and author.
func (e *Enricher) EnrichBook(ctx context.Context, bookID uint) (*EnrichmentResult, error) {
	book, err := e.db.GetBookByID(bookID)
	if err != nil {
		return nil, fmt.Errorf("get book: %w", err)
	}

	var metadata *BookMetadata
	searchMethod := "isbn"

	if book.ISBN != "" {
		metadata, err = e.provider.SearchByISBN(ctx, book.ISBN)
		if err != nil {
			log.Printf("ISBN lookup failed for book %d: %v", bookID, err)
		}
	}

	if metadata == nil {
		searchMethod = "title"
		metadata, err = e.provider.SearchByTitle(ctx, book.Title, book.AuthorName())
		if err != nil {
			return nil, fmt.Errorf("metadata search failed: %w", err)
		}
	}

	updates, fieldsUpdated := buildUpdates(book, metadata)
	if len(fieldsUpdated) > 0 {
		if err := e.db.UpdateBookMetadata(bookID, updates); err != nil {
			return nil, fmt.Errorf("update book metadata: %w", err)
		}
	}

	return &EnrichmentResult{
		BookID:        bookID,
		FieldsUpdated: fieldsUpdated,
		SearchMethod:  searchMethod,
	}, nil
}

// EnrichMissing enriches every book reported as missing metadata.
// Individual failures are collected; only cancellation aborts the run.
func (e *Enricher) EnrichMissing(ctx context.Context) (*BulkEnrichmentResult, error) {
	books, err := e.db.GetBooksMissingMetadata()
	if err != nil {
		return nil, fmt.Errorf("get books missing metadata: %w", err)
	}

	result := &BulkEnrichmentResult{TotalBooks: len(books)}

	for _, book := range books {
		if err := ctx.Err(); err != nil {
			result.Errors = append(result.Errors, "operation cancelled")
			return result, err
		}

		enriched, err := e.EnrichBook(ctx, book.ID)
		if err != nil {
			result.Failed++
			result.Errors = append(result.Errors, fmt.Sprintf("%s: %v", book.Title, err))
			continue
		}

		if len(enriched.FieldsUpdated) > 0 {
			result.Enriched++
		} else {
			result.Skipped++
		}
	}

	return result, nil
}

func buildUpdates(book *entities.Book, metadata *BookMetadata) (BookUpdateFields, []string) {
	var updates BookUpdateFields
	var fieldsUpdated []string

	if book.CoverURL == "" && metadata.CoverURL != "" {
		cover := metadata.CoverURL
		updates.CoverURL = &cover
		fieldsUpdated = append(fieldsUpdated, "cover_url")
	}

	if book.PublicationYear == nil && metadata.PublicationYear > 0 {
		year := metadata.PublicationYear
		updates.PublicationYear = &year
		fieldsUpdated = append(fieldsUpdated, "publication_year")
	}

	return updates, fieldsUpdated
}
