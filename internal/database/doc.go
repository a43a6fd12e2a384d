// Package database provides the data access layer for the catalog.
//
// # Architecture
//
//	database/
//	├── database.go      # Connection setup, DSN parameters, migrations
//	├── catalog.go       # Author and book CRUD, search, cascading deletes
//	├── metadata.go      # Adapter implementing metadata.BookUpdater
//	└── users/           # Local user accounts (AUTH_MODE=local)
//
// # Cascading deletes
//
// DeleteBook removes a book and then its author if no other book
// references it. DeleteAuthor removes every book of the author and then
// the author. Each runs in a single transaction.
//
// # Usage
//
//	db, err := database.NewDatabase("./data/library.sqlite")
//	books, err := db.SearchBooks("atlas", database.SortByTitle)
//	deletion, err := db.DeleteBook(42)
package database
