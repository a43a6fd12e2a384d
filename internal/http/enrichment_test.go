package http

import (
	"errors"
	"html"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRefreshBook(t *testing.T) {
	app := newTestApp(t)
	atlas := app.createBook(t, "Atlas", nil)

	assert.Contains(t, app.get("/book/"+formatID(atlas.ID)).Body.String(), "/enrich")

	w := app.postForm("/book/"+formatID(atlas.ID)+"/enrich", nil)

	require.Equal(t, http.StatusSeeOther, w.Code)
	assert.Equal(t, "/book/"+formatID(atlas.ID), w.Header().Get("Location"))
	assert.Equal(t, []uint{atlas.ID}, app.queue.bookIDs)
	assert.Contains(t, app.get("/book/"+formatID(atlas.ID)).Body.String(), html.EscapeString(`Metadata lookup queued for "Atlas".`))
}

func TestRefreshBook_MissingBook(t *testing.T) {
	app := newTestApp(t)

	assert.Equal(t, http.StatusNotFound, app.postForm("/book/42/enrich", nil).Code)
	assert.Empty(t, app.queue.bookIDs)
}

func TestRefreshMissing(t *testing.T) {
	app := newTestApp(t)

	w := app.postForm("/enrich_missing", nil)

	require.Equal(t, http.StatusSeeOther, w.Code)
	assert.Equal(t, 1, app.queue.sweeps)
	assert.Contains(t, app.get("/").Body.String(), "Looking up covers for books that have none.")
}

func TestRefreshMissing_QueueFailure(t *testing.T) {
	app := newTestApp(t)
	app.queue.err = errors.New("queue unavailable")

	require.Equal(t, http.StatusSeeOther, app.postForm("/enrich_missing", nil).Code)

	assert.Contains(t, app.get("/").Body.String(), "Could not queue the metadata lookup.")
}
