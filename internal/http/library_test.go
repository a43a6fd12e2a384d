package http

import (
	"errors"
	"html"
	"net/http"
	"net/url"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Crabmann2025/Book-Alchemy/internal/database"
)

func TestHome_ListsBooks(t *testing.T) {
	app := newTestApp(t)
	jane := app.createAuthor(t, "Jane Doe")
	app.createBook(t, "Atlas", jane)
	app.createBook(t, "Zephyr", nil)

	w := app.get("/")

	require.Equal(t, http.StatusOK, w.Code)
	body := w.Body.String()
	assert.Contains(t, body, "Atlas")
	assert.Contains(t, body, "Jane Doe")
	assert.Contains(t, body, "Zephyr")
	assert.Less(t, strings.Index(body, "Atlas"), strings.Index(body, "Zephyr"), "books should be ordered by title")
}

func TestHome_Search(t *testing.T) {
	app := newTestApp(t)
	app.createBook(t, "The Atlas of Clouds", nil)
	app.createBook(t, "Moby Dick", nil)

	t.Run("query parameter", func(t *testing.T) {
		w := app.get("/?search=ATLAS")

		assert.Equal(t, http.StatusOK, w.Code)
		assert.Contains(t, w.Body.String(), "The Atlas of Clouds")
		assert.NotContains(t, w.Body.String(), "Moby Dick")
	})

	t.Run("form post", func(t *testing.T) {
		w := app.postForm("/", url.Values{"search": {"moby"}})

		assert.Equal(t, http.StatusOK, w.Code)
		assert.Contains(t, w.Body.String(), "Moby Dick")
		assert.NotContains(t, w.Body.String(), "The Atlas of Clouds")
	})

	t.Run("no results notice", func(t *testing.T) {
		w := app.get("/?search=nothing+here")

		assert.Equal(t, http.StatusOK, w.Code)
		assert.Contains(t, w.Body.String(), html.EscapeString(`No books found matching "nothing here".`))
		assert.NotContains(t, w.Body.String(), "Moby Dick")
	})

	t.Run("blank term lists everything", func(t *testing.T) {
		w := app.get("/?search=+++")

		assert.Contains(t, w.Body.String(), "Moby Dick")
		assert.Contains(t, w.Body.String(), "The Atlas of Clouds")
		assert.NotContains(t, w.Body.String(), "No books found")
	})
}

func TestHome_SortByYear(t *testing.T) {
	app := newTestApp(t)
	older, newer := 1851, 1990
	require.NoError(t, app.db.CreateBook(bookWithYear("Newer", newer)))
	require.NoError(t, app.db.CreateBook(bookWithYear("Older", older)))

	body := app.get("/?sort=year").Body.String()

	assert.Less(t, strings.Index(body, "Older"), strings.Index(body, "Newer"))
}

func TestAddAuthor(t *testing.T) {
	app := newTestApp(t)

	w := app.get("/add_author")
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), `name="birthdate"`)

	w = app.postForm("/add_author", url.Values{
		"name":          {"Jane Doe"},
		"birthdate":     {"1950-03-14"},
		"date_of_death": {"not a date"},
	})
	assert.Equal(t, http.StatusSeeOther, w.Code)
	assert.Equal(t, "/add_author", w.Header().Get("Location"))

	authors, err := app.db.GetAllAuthors()
	require.NoError(t, err)
	require.Len(t, authors, 1)
	assert.Equal(t, "Jane Doe", authors[0].Name)
	require.NotNil(t, authors[0].BirthDate)
	assert.Equal(t, "1950-03-14", authors[0].BirthDate.Format("2006-01-02"))
	assert.Nil(t, authors[0].DateOfDeath, "malformed dates are stored as unset")

	// The notice shows on the next page and only once
	w = app.get("/add_author")
	assert.Contains(t, w.Body.String(), html.EscapeString(`Author "Jane Doe" added successfully.`))
	w = app.get("/add_author")
	assert.NotContains(t, w.Body.String(), "added successfully")
}

func TestAddBook(t *testing.T) {
	app := newTestApp(t)
	jane := app.createAuthor(t, "Jane Doe")

	w := app.get("/add_book")
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), "Jane Doe", "authors populate the select list")

	w = app.postForm("/add_book", url.Values{
		"title":            {"Atlas"},
		"isbn":             {"9780000000001"},
		"publication_year": {"2004"},
		"author_id":        {formatID(jane.ID)},
	})
	assert.Equal(t, http.StatusSeeOther, w.Code)
	assert.Equal(t, "/add_book", w.Header().Get("Location"))

	books, err := app.db.GetAllBooks(database.SortByTitle)
	require.NoError(t, err)
	require.Len(t, books, 1)
	book := books[0]
	assert.Equal(t, "Atlas", book.Title)
	require.NotNil(t, book.PublicationYear)
	assert.Equal(t, 2004, *book.PublicationYear)
	require.NotNil(t, book.AuthorID)
	assert.Equal(t, jane.ID, *book.AuthorID)

	assert.Equal(t, []uint{book.ID}, app.queue.bookIDs, "new books with an ISBN are enriched")
	assert.Contains(t, app.get("/add_book").Body.String(), html.EscapeString(`Book "Atlas" added successfully.`))
}

func TestAddBook_OptionalFieldsLeftUnset(t *testing.T) {
	app := newTestApp(t)

	w := app.postForm("/add_book", url.Values{
		"title":            {"Anonymous Pamphlet"},
		"publication_year": {"sometime"},
		"author_id":        {""},
	})
	require.Equal(t, http.StatusSeeOther, w.Code)

	books, err := app.db.GetAllBooks(database.SortByTitle)
	require.NoError(t, err)
	require.Len(t, books, 1)
	assert.Nil(t, books[0].PublicationYear)
	assert.Nil(t, books[0].AuthorID)
	assert.Empty(t, app.queue.bookIDs, "books without an ISBN are not enqueued")
}

func TestAddBook_UnknownAuthorIsRejectedByStore(t *testing.T) {
	app := newTestApp(t)

	w := app.postForm("/add_book", url.Values{"title": {"Ghost"}, "author_id": {"999"}})

	assert.Equal(t, http.StatusInternalServerError, w.Code)
	books, err := app.db.GetAllBooks(database.SortByTitle)
	require.NoError(t, err)
	assert.Empty(t, books)
}

func TestAddBook_EnqueueFailureIsNotSurfaced(t *testing.T) {
	app := newTestApp(t)
	app.queue.err = errors.New("queue unavailable")

	w := app.postForm("/add_book", url.Values{"title": {"Atlas"}, "isbn": {"9780000000001"}})

	assert.Equal(t, http.StatusSeeOther, w.Code)
}

func TestDetailPages(t *testing.T) {
	app := newTestApp(t)
	jane := app.createAuthor(t, "Jane Doe")
	atlas := app.createBook(t, "Atlas", jane)
	app.createBook(t, "Borealis", jane)

	tests := []struct {
		name     string
		path     string
		status   int
		contains []string
	}{
		{"book", "/book/" + formatID(atlas.ID), http.StatusOK, []string{"Atlas", "Jane Doe"}},
		{"author", "/author/" + formatID(jane.ID), http.StatusOK, []string{"Jane Doe", "Atlas", "Borealis"}},
		{"missing book", "/book/999", http.StatusNotFound, []string{"Book not found"}},
		{"missing author", "/author/999", http.StatusNotFound, []string{"Author not found"}},
		{"invalid book id", "/book/abc", http.StatusBadRequest, []string{"Invalid book ID"}},
		{"invalid author id", "/author/-1", http.StatusBadRequest, []string{"Invalid author ID"}},
		{"unknown route", "/nowhere", http.StatusNotFound, []string{"Page not found"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			w := app.get(tt.path)

			assert.Equal(t, tt.status, w.Code)
			for _, s := range tt.contains {
				assert.Contains(t, w.Body.String(), s)
			}
		})
	}
}

func TestSecurityHeadersAndStatic(t *testing.T) {
	app := newTestApp(t)

	w := app.get("/static/style.css")

	assert.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "nosniff", w.Header().Get("X-Content-Type-Options"))
}
