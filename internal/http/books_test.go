package http

import (
	"encoding/json"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Crabmann2025/Book-Alchemy/internal/entities"
)

type booksPayload struct {
	Books []entities.Book `json:"books"`
	Count int             `json:"count"`
}

func TestAPI_GetAllBooks(t *testing.T) {
	app := newTestApp(t)

	t.Run("empty catalog returns an empty list", func(t *testing.T) {
		w := app.get("/api/books")

		require.Equal(t, http.StatusOK, w.Code)
		assert.Contains(t, w.Body.String(), `"books": []`)
	})

	jane := app.createAuthor(t, "Jane Doe")
	app.createBook(t, "Atlas", jane)
	app.createBook(t, "Moby Dick", nil)

	t.Run("lists books with authors", func(t *testing.T) {
		w := app.get("/api/books")
		require.Equal(t, http.StatusOK, w.Code)

		var payload booksPayload
		require.NoError(t, json.Unmarshal(w.Body.Bytes(), &payload))
		assert.Equal(t, 2, payload.Count)
		require.Len(t, payload.Books, 2)
		assert.Equal(t, "Atlas", payload.Books[0].Title)
		require.NotNil(t, payload.Books[0].Author)
		assert.Equal(t, "Jane Doe", payload.Books[0].Author.Name)
		assert.Nil(t, payload.Books[1].Author)
	})

	t.Run("search filters by title", func(t *testing.T) {
		w := app.get("/api/books?search=moby")

		var payload booksPayload
		require.NoError(t, json.Unmarshal(w.Body.Bytes(), &payload))
		require.Equal(t, 1, payload.Count)
		assert.Equal(t, "Moby Dick", payload.Books[0].Title)
	})

	t.Run("wildcards match literally", func(t *testing.T) {
		w := app.get("/api/books?search=%25")

		var payload booksPayload
		require.NoError(t, json.Unmarshal(w.Body.Bytes(), &payload))
		assert.Zero(t, payload.Count)
	})
}

func TestAPI_GetAllAuthors(t *testing.T) {
	app := newTestApp(t)
	app.createAuthor(t, "Zora Neale Hurston")
	app.createAuthor(t, "Albert Camus")

	w := app.get("/api/authors")
	require.Equal(t, http.StatusOK, w.Code)

	var payload struct {
		Authors []entities.Author `json:"authors"`
		Count   int               `json:"count"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &payload))
	assert.Equal(t, 2, payload.Count)
	assert.Equal(t, "Albert Camus", payload.Authors[0].Name)
}
