package http

import (
	"fmt"
	"log"
	"net/http"

	"github.com/gin-gonic/gin"
)

// DeleteController removes books and authors and reports what went with them.
type DeleteController struct {
	*pageRenderer
	store  DeleteStore
	covers CoverCache
}

func NewDeleteController(store DeleteStore, covers CoverCache, renderer *pageRenderer) *DeleteController {
	return &DeleteController{pageRenderer: renderer, store: store, covers: covers}
}

// DeleteBook removes a book, and its author if no other books remain.
// POST /book/:id/delete
func (dc *DeleteController) DeleteBook(c *gin.Context) {
	id, ok := dc.parseIDParam(c, "id", "book")
	if !ok {
		return
	}

	result, err := dc.store.DeleteBook(id)
	if err != nil {
		dc.respondLookupError(c, err, "Book")
		return
	}

	dc.dropCovers(result.Book.ID)

	message := fmt.Sprintf("Book \"%s\" deleted successfully.", result.Book.Title)
	if result.AuthorDeleted {
		message = fmt.Sprintf("Book \"%s\" and author \"%s\" deleted successfully.", result.Book.Title, result.Author.Name)
	}

	dc.flashes.Add(c, FlashSuccess, message)
	c.Redirect(http.StatusSeeOther, "/")
}

// DeleteAuthor removes an author together with all of their books.
// POST /author/:id/delete
func (dc *DeleteController) DeleteAuthor(c *gin.Context) {
	id, ok := dc.parseIDParam(c, "id", "author")
	if !ok {
		return
	}

	result, err := dc.store.DeleteAuthor(id)
	if err != nil {
		dc.respondLookupError(c, err, "Author")
		return
	}

	dc.dropCovers(result.BookIDs...)

	dc.flashes.Add(c, FlashSuccess, fmt.Sprintf("Author \"%s\" and %d book(s) deleted successfully.", result.Author.Name, result.BooksDeleted))
	c.Redirect(http.StatusSeeOther, "/")
}

func (dc *DeleteController) dropCovers(bookIDs ...uint) {
	if dc.covers == nil {
		return
	}
	for _, id := range bookIDs {
		if err := dc.covers.InvalidateCover(id); err != nil {
			log.Printf("Failed to remove cached cover of book %d: %v", id, err)
		}
	}
}
