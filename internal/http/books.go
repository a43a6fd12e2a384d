package http

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/Crabmann2025/Book-Alchemy/internal/database"
	"github.com/Crabmann2025/Book-Alchemy/internal/entities"
)

// BooksController is the read-only JSON view of the catalog.
type BooksController struct {
	catalog CatalogStore
}

func NewBooksController(catalog CatalogStore) *BooksController {
	return &BooksController{catalog: catalog}
}

// GET /api/books?search=&sort=
func (controller *BooksController) GetAllBooks(c *gin.Context) {
	search := strings.TrimSpace(c.Query("search"))
	sort := database.ParseBookSort(c.Query("sort"))

	var (
		books []entities.Book
		err   error
	)
	if search != "" {
		books, err = controller.catalog.SearchBooks(search, sort)
	} else {
		books, err = controller.catalog.GetAllBooks(sort)
	}
	if err != nil {
		respondJSONInternalError(c, err, "list books")
		return
	}
	if books == nil {
		books = []entities.Book{}
	}

	c.IndentedJSON(http.StatusOK, gin.H{"books": books, "count": len(books)})
}

// GET /api/authors
func (controller *BooksController) GetAllAuthors(c *gin.Context) {
	authors, err := controller.catalog.GetAllAuthors()
	if err != nil {
		respondJSONInternalError(c, err, "list authors")
		return
	}
	if authors == nil {
		authors = []entities.Author{}
	}

	c.IndentedJSON(http.StatusOK, gin.H{"authors": authors, "count": len(authors)})
}
