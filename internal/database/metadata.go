package database

import (
	"github.com/Crabmann2025/Book-Alchemy/internal/entities"
	"github.com/Crabmann2025/Book-Alchemy/internal/metadata"
)

// MetadataUpdater wraps the Database to implement metadata.BookUpdater interface.
type MetadataUpdater struct {
	db *Database
}

// NewMetadataUpdater creates a MetadataUpdater wrapping the given database.
func NewMetadataUpdater(db *Database) *MetadataUpdater {
	return &MetadataUpdater{db: db}
}

// GetBookByID delegates to the underlying database.
func (m *MetadataUpdater) GetBookByID(id uint) (*entities.Book, error) {
	return m.db.GetBookByID(id)
}

// UpdateBookMetadata converts BookUpdateFields to a map and updates the book.
func (m *MetadataUpdater) UpdateBookMetadata(id uint, fields metadata.BookUpdateFields) error {
	updates := make(map[string]any)

	if fields.CoverURL != nil {
		updates["cover_url"] = *fields.CoverURL
	}
	if fields.PublicationYear != nil {
		updates["publication_year"] = *fields.PublicationYear
	}

	if len(updates) == 0 {
		return nil
	}

	return m.db.UpdateBookMetadata(id, updates)
}

// GetBooksMissingMetadata returns books with an ISBN but no cover.
func (m *MetadataUpdater) GetBooksMissingMetadata() ([]entities.Book, error) {
	return m.db.GetBooksMissingCover()
}
