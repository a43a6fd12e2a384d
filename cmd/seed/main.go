// Command seed fills a catalog database with public domain authors and books.
// Usage: go run ./cmd/seed [-db path/to/library.sqlite] [-fresh]
package main

import (
	"flag"
	"log"
	"os"
	"time"

	"github.com/Crabmann2025/Book-Alchemy/internal/config"
	"github.com/Crabmann2025/Book-Alchemy/internal/database"
	"github.com/Crabmann2025/Book-Alchemy/internal/entities"
)

type seedAuthor struct {
	Name        string
	BirthDate   string
	DateOfDeath string
	Books       []seedBook
}

type seedBook struct {
	Title string
	ISBN  string
	Year  int
}

func main() {
	config.LoadEnvFile(config.DefaultEnvFile)

	dbPath := flag.String("db", config.NewConfig().Database.Path, "path to the catalog database file")
	fresh := flag.Bool("fresh", false, "delete the existing database before seeding")
	flag.Parse()

	if *fresh {
		if err := os.Remove(*dbPath); err != nil && !os.IsNotExist(err) {
			log.Fatalf("Failed to remove existing database: %v", err)
		}
	}

	log.Printf("Seeding catalog at %s...", *dbPath)

	db, err := database.NewDatabase(*dbPath)
	if err != nil {
		log.Fatalf("Failed to create database: %v", err)
	}
	defer db.Close()

	var authors, books int
	for _, sa := range sampleCatalog() {
		author := &entities.Author{
			Name:        sa.Name,
			BirthDate:   parseDate(sa.BirthDate),
			DateOfDeath: parseDate(sa.DateOfDeath),
		}
		if err := db.CreateAuthor(author); err != nil {
			log.Printf("Failed to save author %s: %v", sa.Name, err)
			continue
		}
		authors++

		for _, sb := range sa.Books {
			year := sb.Year
			book := &entities.Book{
				Title:           sb.Title,
				ISBN:            sb.ISBN,
				PublicationYear: &year,
				AuthorID:        &author.ID,
			}
			if err := db.CreateBook(book); err != nil {
				log.Printf("Failed to save book %s: %v", sb.Title, err)
				continue
			}
			books++
			log.Printf("Saved: %s by %s", sb.Title, sa.Name)
		}
	}

	log.Printf("Seeded %d authors and %d books", authors, books)
}

func parseDate(value string) *time.Time {
	if value == "" {
		return nil
	}
	t, err := time.Parse("2006-01-02", value)
	if err != nil {
		log.Fatalf("Bad seed date %q: %v", value, err)
	}
	return &t
}

func sampleCatalog() []seedAuthor {
	return []seedAuthor{
		{
			Name:        "Jane Austen",
			BirthDate:   "1775-12-16",
			DateOfDeath: "1817-07-18",
			Books: []seedBook{
				{Title: "Pride and Prejudice", ISBN: "9780141439518", Year: 1813},
				{Title: "Emma", ISBN: "9780141439587", Year: 1815},
			},
		},
		{
			Name:        "Herman Melville",
			BirthDate:   "1819-08-01",
			DateOfDeath: "1891-09-28",
			Books: []seedBook{
				{Title: "Moby-Dick", ISBN: "9780142437247", Year: 1851},
			},
		},
		{
			Name:        "Mary Shelley",
			BirthDate:   "1797-08-30",
			DateOfDeath: "1851-02-01",
			Books: []seedBook{
				{Title: "Frankenstein", ISBN: "9780141439471", Year: 1818},
			},
		},
		{
			Name:        "Fyodor Dostoevsky",
			BirthDate:   "1821-11-11",
			DateOfDeath: "1881-02-09",
			Books: []seedBook{
				{Title: "Crime and Punishment", ISBN: "9780143058144", Year: 1866},
				{Title: "The Brothers Karamazov", ISBN: "9780374528379", Year: 1880},
			},
		},
		{
			Name: "Marcus Aurelius",
			Books: []seedBook{
				{Title: "Meditations", ISBN: "9780140449334", Year: 180},
			},
		},
	}
}
