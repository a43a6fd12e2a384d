package database

import (
	"fmt"
	"strings"

	"gorm.io/gorm"

	"github.com/Crabmann2025/Book-Alchemy/internal/entities"
)

// BookSort selects the ordering of book listings.
type BookSort string

const (
	SortByTitle  BookSort = "title"
	SortByAuthor BookSort = "author"
	SortByYear   BookSort = "year"
)

// ParseBookSort maps a query value to a BookSort, defaulting to title.
func ParseBookSort(value string) BookSort {
	switch BookSort(value) {
	case SortByAuthor, SortByYear:
		return BookSort(value)
	default:
		return SortByTitle
	}
}

// BookDeletion describes the outcome of DeleteBook.
type BookDeletion struct {
	Book          entities.Book
	Author        *entities.Author // nil when the book had no author
	AuthorDeleted bool             // true when the book was the author's last one
}

// AuthorDeletion describes the outcome of DeleteAuthor.
type AuthorDeletion struct {
	Author       entities.Author
	BooksDeleted int64
	BookIDs      []uint
}

// --- Authors ---

func (d *Database) CreateAuthor(author *entities.Author) error {
	if err := d.DB.Create(author).Error; err != nil {
		return fmt.Errorf("create author: %w", err)
	}
	return nil
}

// GetAllAuthors returns all authors ordered by name.
func (d *Database) GetAllAuthors() ([]entities.Author, error) {
	var authors []entities.Author
	err := d.DB.Order("name ASC").Find(&authors).Error
	return authors, err
}

// GetAuthorByID retrieves an author with their books ordered by title.
func (d *Database) GetAuthorByID(id uint) (*entities.Author, error) {
	var author entities.Author
	err := d.DB.Preload("Books", func(db *gorm.DB) *gorm.DB {
		return db.Order("title ASC")
	}).First(&author, id).Error
	if err != nil {
		return nil, err
	}
	return &author, nil
}

// DeleteAuthor removes an author and every book that references it.
// Both deletes are committed together.
func (d *Database) DeleteAuthor(id uint) (*AuthorDeletion, error) {
	var result AuthorDeletion
	err := d.DB.Transaction(func(tx *gorm.DB) error {
		if err := tx.First(&result.Author, id).Error; err != nil {
			return err
		}

		if err := tx.Model(&entities.Book{}).Where("author_id = ?", id).Pluck("id", &result.BookIDs).Error; err != nil {
			return fmt.Errorf("list books of author %d: %w", id, err)
		}

		deleted := tx.Where("author_id = ?", id).Delete(&entities.Book{})
		if deleted.Error != nil {
			return fmt.Errorf("delete books of author %d: %w", id, deleted.Error)
		}
		result.BooksDeleted = deleted.RowsAffected

		if err := tx.Delete(&entities.Author{}, id).Error; err != nil {
			return fmt.Errorf("delete author %d: %w", id, err)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return &result, nil
}

// --- Books ---

func (d *Database) CreateBook(book *entities.Book) error {
	if err := d.DB.Create(book).Error; err != nil {
		return fmt.Errorf("create book: %w", err)
	}
	return nil
}

// GetBookByID retrieves a book with its author.
func (d *Database) GetBookByID(id uint) (*entities.Book, error) {
	var book entities.Book
	err := d.DB.Preload("Author").First(&book, id).Error
	if err != nil {
		return nil, err
	}
	return &book, nil
}

// GetAllBooks returns every book with its author.
func (d *Database) GetAllBooks(sort BookSort) ([]entities.Book, error) {
	var books []entities.Book
	err := orderBooks(d.DB.Preload("Author"), sort).Find(&books).Error
	return books, err
}

// SearchBooks returns books whose title contains query (case-insensitive).
func (d *Database) SearchBooks(query string, sort BookSort) ([]entities.Book, error) {
	var books []entities.Book
	pattern := "%" + escapeLike(query) + "%"
	err := orderBooks(d.DB.Preload("Author"), sort).
		Where(`LOWER(books.title) LIKE LOWER(?) ESCAPE '\'`, pattern).
		Find(&books).Error
	return books, err
}

// DeleteBook removes a book and, if it was the last book of its author,
// the author as well. Both deletes are committed together.
func (d *Database) DeleteBook(id uint) (*BookDeletion, error) {
	var result BookDeletion
	err := d.DB.Transaction(func(tx *gorm.DB) error {
		if err := tx.Preload("Author").First(&result.Book, id).Error; err != nil {
			return err
		}
		result.Author = result.Book.Author

		if err := tx.Delete(&entities.Book{}, id).Error; err != nil {
			return fmt.Errorf("delete book %d: %w", id, err)
		}

		if result.Book.AuthorID == nil {
			return nil
		}
		authorID := *result.Book.AuthorID

		var remaining int64
		if err := tx.Model(&entities.Book{}).Where("author_id = ?", authorID).Count(&remaining).Error; err != nil {
			return fmt.Errorf("count books of author %d: %w", authorID, err)
		}
		if remaining > 0 {
			return nil
		}

		if err := tx.Delete(&entities.Author{}, authorID).Error; err != nil {
			return fmt.Errorf("delete orphaned author %d: %w", authorID, err)
		}
		result.AuthorDeleted = true
		return nil
	})
	if err != nil {
		return nil, err
	}
	return &result, nil
}

// GetBooksMissingCover returns books that have an ISBN but no cover yet.
func (d *Database) GetBooksMissingCover() ([]entities.Book, error) {
	var books []entities.Book
	err := d.DB.Preload("Author").
		Where("isbn <> '' AND (cover_url IS NULL OR cover_url = '')").
		Order("id ASC").
		Find(&books).Error
	return books, err
}

// UpdateBookMetadata applies a partial update of enrichment columns.
func (d *Database) UpdateBookMetadata(id uint, updates map[string]any) error {
	return d.DB.Model(&entities.Book{}).Where("id = ?", id).Updates(updates).Error
}

// GetStats returns the number of authors and books in the catalog.
func (d *Database) GetStats() (totalAuthors int64, totalBooks int64, err error) {
	err = d.DB.Model(&entities.Author{}).Count(&totalAuthors).Error
	if err != nil {
		return
	}
	err = d.DB.Model(&entities.Book{}).Count(&totalBooks).Error
	return
}

func orderBooks(db *gorm.DB, sort BookSort) *gorm.DB {
	switch sort {
	case SortByAuthor:
		return db.Joins("LEFT JOIN authors ON authors.id = books.author_id").
			Order("authors.name ASC").Order("books.title ASC")
	case SortByYear:
		return db.Order("books.publication_year IS NULL").
			Order("books.publication_year ASC").Order("books.title ASC")
	default:
		return db.Order("books.title ASC")
	}
}

// escapeLike escapes LIKE wildcards so the query matches literally.
func escapeLike(s string) string {
	return strings.NewReplacer(`\`, `\\`, `%`, `\%`, `_`, `\_`).Replace(s)
}
