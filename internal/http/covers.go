package http

import (
	"log"
	"net/http"

	"github.com/gin-gonic/gin"
)

// CoversController serves book covers from the local cache.
type CoversController struct {
	*pageRenderer
	catalog CatalogStore
	cache   CoverCache
}

func NewCoversController(catalog CatalogStore, cache CoverCache, renderer *pageRenderer) *CoversController {
	return &CoversController{pageRenderer: renderer, catalog: catalog, cache: cache}
}

// GET /covers/:id
// Falls back to redirecting to the remote image when it cannot be cached.
func (cc *CoversController) Cover(c *gin.Context) {
	id, ok := cc.parseIDParam(c, "id", "book")
	if !ok {
		return
	}

	book, err := cc.catalog.GetBookByID(id)
	if err != nil {
		cc.respondLookupError(c, err, "Book")
		return
	}
	if book.CoverURL == "" {
		cc.renderError(c, http.StatusNotFound, "Cover not found")
		return
	}

	if cc.cache != nil {
		path, err := cc.cache.GetCover(c.Request.Context(), book.ID, book.CoverURL)
		if err == nil {
			c.Header("Cache-Control", "public, max-age=86400")
			c.File(path)
			return
		}
		log.Printf("Cover cache miss for book %d: %v", book.ID, err)
	}

	c.Redirect(http.StatusFound, book.CoverURL)
}
