package http

import (
	"fmt"
	"log"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/Crabmann2025/Book-Alchemy/internal/database"
	"github.com/Crabmann2025/Book-Alchemy/internal/entities"
	"github.com/Crabmann2025/Book-Alchemy/internal/forms"
)

// LibraryController serves the catalog pages: listing, search, the add
// forms and the detail views.
type LibraryController struct {
	*pageRenderer
	catalog CatalogStore
	queue   EnrichmentQueue
}

func NewLibraryController(catalog CatalogStore, queue EnrichmentQueue, renderer *pageRenderer) *LibraryController {
	return &LibraryController{
		pageRenderer: renderer,
		catalog:      catalog,
		queue:        queue,
	}
}

// Home lists all books, or those whose title matches the search term.
// GET /?search=&sort=  and  POST / (form field "search")
func (lc *LibraryController) Home(c *gin.Context) {
	search := c.Query("search")
	if c.Request.Method == http.MethodPost {
		search = c.PostForm("search")
	}
	search = strings.TrimSpace(search)
	sort := database.ParseBookSort(c.Query("sort"))

	var (
		books []entities.Book
		err   error
	)
	if search != "" {
		books, err = lc.catalog.SearchBooks(search, sort)
	} else {
		books, err = lc.catalog.GetAllBooks(sort)
	}
	if err != nil {
		lc.respondInternalError(c, err, "list books")
		return
	}

	var notices []Flash
	if search != "" && len(books) == 0 {
		notices = append(notices, Flash{Category: FlashInfo, Message: fmt.Sprintf("No books found matching \"%s\".", search)})
	}

	lc.render(c, http.StatusOK, "index.html", "Library", gin.H{
		"Books":  books,
		"Search": search,
		"Sort":   string(sort),
	}, notices...)
}

// GET /add_author
func (lc *LibraryController) AddAuthorPage(c *gin.Context) {
	lc.render(c, http.StatusOK, "add_author.html", "Add author", nil)
}

// AddAuthor creates an author. Unparseable dates are stored as unset.
// POST /add_author
func (lc *LibraryController) AddAuthor(c *gin.Context) {
	author := entities.Author{
		Name:        strings.TrimSpace(c.PostForm("name")),
		BirthDate:   forms.ParseDate(c.PostForm("birthdate")),
		DateOfDeath: forms.ParseDate(c.PostForm("date_of_death")),
	}

	if err := lc.catalog.CreateAuthor(&author); err != nil {
		lc.respondInternalError(c, err, "create author")
		return
	}

	lc.flashes.Add(c, FlashSuccess, fmt.Sprintf("Author \"%s\" added successfully.", author.Name))
	c.Redirect(http.StatusSeeOther, "/add_author")
}

// GET /add_book
func (lc *LibraryController) AddBookPage(c *gin.Context) {
	authors, err := lc.catalog.GetAllAuthors()
	if err != nil {
		lc.respondInternalError(c, err, "list authors")
		return
	}

	lc.render(c, http.StatusOK, "add_book.html", "Add book", gin.H{
		"Authors": authors,
	})
}

// AddBook creates a book. The author id is not checked here; the foreign
// key rejects unknown authors.
// POST /add_book
func (lc *LibraryController) AddBook(c *gin.Context) {
	book := entities.Book{
		Title:           strings.TrimSpace(c.PostForm("title")),
		ISBN:            strings.TrimSpace(c.PostForm("isbn")),
		PublicationYear: forms.ParseOptionalInt(c.PostForm("publication_year")),
		AuthorID:        forms.ParseOptionalID(c.PostForm("author_id")),
	}

	if err := lc.catalog.CreateBook(&book); err != nil {
		lc.respondInternalError(c, err, "create book")
		return
	}

	if lc.queue != nil && book.ISBN != "" {
		if err := lc.queue.EnqueueEnrichBook(book.ID); err != nil {
			log.Printf("Failed to enqueue enrichment for book %d: %v", book.ID, err)
		}
	}

	lc.flashes.Add(c, FlashSuccess, fmt.Sprintf("Book \"%s\" added successfully.", book.Title))
	c.Redirect(http.StatusSeeOther, "/add_book")
}

// GET /book/:id
func (lc *LibraryController) BookPage(c *gin.Context) {
	id, ok := lc.parseIDParam(c, "id", "book")
	if !ok {
		return
	}

	book, err := lc.catalog.GetBookByID(id)
	if err != nil {
		lc.respondLookupError(c, err, "Book")
		return
	}

	lc.render(c, http.StatusOK, "book.html", book.Title, gin.H{
		"Book": book,
	})
}

// GET /author/:id
func (lc *LibraryController) AuthorPage(c *gin.Context) {
	id, ok := lc.parseIDParam(c, "id", "author")
	if !ok {
		return
	}

	author, err := lc.catalog.GetAuthorByID(id)
	if err != nil {
		lc.respondLookupError(c, err, "Author")
		return
	}

	lc.render(c, http.StatusOK, "author.html", author.Name, gin.H{
		"Author": author,
	})
}
