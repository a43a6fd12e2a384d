package http

import (
	"fmt"
	"log"
	"net/http"

	"github.com/gin-gonic/gin"
)

// EnrichmentController lets an editor trigger OpenLibrary lookups by hand.
type EnrichmentController struct {
	*pageRenderer
	catalog CatalogStore
	queue   EnrichmentQueue
}

func NewEnrichmentController(catalog CatalogStore, queue EnrichmentQueue, renderer *pageRenderer) *EnrichmentController {
	return &EnrichmentController{pageRenderer: renderer, catalog: catalog, queue: queue}
}

// POST /book/:id/enrich
func (ec *EnrichmentController) RefreshBook(c *gin.Context) {
	id, ok := ec.parseIDParam(c, "id", "book")
	if !ok {
		return
	}

	book, err := ec.catalog.GetBookByID(id)
	if err != nil {
		ec.respondLookupError(c, err, "Book")
		return
	}

	if err := ec.queue.EnqueueEnrichBook(book.ID); err != nil {
		log.Printf("Failed to queue enrichment for book %d: %v", book.ID, err)
		ec.flashes.Add(c, FlashError, "Could not queue the metadata lookup. Try again later.")
	} else {
		ec.flashes.Add(c, FlashInfo, fmt.Sprintf("Metadata lookup queued for \"%s\".", book.Title))
	}
	c.Redirect(http.StatusSeeOther, fmt.Sprintf("/book/%d", book.ID))
}

// POST /enrich_missing
func (ec *EnrichmentController) RefreshMissing(c *gin.Context) {
	if err := ec.queue.EnqueueEnrichMissing(); err != nil {
		log.Printf("Failed to queue enrichment sweep: %v", err)
		ec.flashes.Add(c, FlashError, "Could not queue the metadata lookup. Try again later.")
	} else {
		ec.flashes.Add(c, FlashInfo, "Looking up covers for books that have none.")
	}
	c.Redirect(http.StatusSeeOther, "/")
}
