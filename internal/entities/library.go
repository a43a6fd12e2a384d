package entities

import (
	"time"
)

type Author struct {
	ID          uint       `gorm:"primaryKey" json:"id"`
	Name        string     `gorm:"index;size:256;not null" json:"name"`
	BirthDate   *time.Time `json:"birth_date,omitempty"`
	DateOfDeath *time.Time `json:"date_of_death,omitempty"`
	Books       []Book     `gorm:"foreignKey:AuthorID" json:"books,omitempty"`
	CreatedAt   time.Time  `json:"created_at"`
}

type Book struct {
	ID              uint      `gorm:"primaryKey" json:"id"`
	Title           string    `gorm:"index;size:512;not null" json:"title"`
	ISBN            string    `gorm:"index;size:20" json:"isbn,omitempty"`
	PublicationYear *int      `json:"publication_year,omitempty"`
	AuthorID        *uint     `gorm:"index" json:"author_id,omitempty"`
	Author          *Author   `gorm:"foreignKey:AuthorID" json:"author,omitempty"`
	CoverURL        string    `gorm:"size:2048" json:"cover_url,omitempty"`
	CreatedAt       time.Time `json:"created_at"`
}

func (Author) TableName() string {
	return "authors"
}

func (Book) TableName() string {
	return "books"
}

// AuthorName returns the author's name, or "" for a book without an author.
func (b Book) AuthorName() string {
	if b.Author == nil {
		return ""
	}
	return b.Author.Name
}
