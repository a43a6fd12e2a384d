package metadata

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/url"
	"strings"
	"sync"
	"time"
)

const userAgent = "BookAlchemy/1.0 (https://github.com/Crabmann2025/Book-Alchemy)"

// ErrNotFound is returned when OpenLibrary has no record for a lookup.
var ErrNotFound = errors.New("not found on OpenLibrary")

// BookMetadata contains book information fetched from OpenLibrary.
type BookMetadata struct {
	Title           string `json:"title,omitempty"`
	Author          string `json:"author,omitempty"`
	ISBN            string `json:"isbn,omitempty"`
	CoverURL        string `json:"cover_url,omitempty"`
	PublicationYear int    `json:"publication_year,omitempty"`
	OpenLibraryKey  string `json:"open_library_key,omitempty"`
}

// OpenLibraryClient fetches book metadata from the OpenLibrary API.
type OpenLibraryClient struct {
	httpClient  *http.Client
	baseURL     string
	coversURL   string
	rateLimiter *rateLimiter
}

type rateLimiter struct {
	mu       sync.Mutex
	lastCall time.Time
	interval time.Duration
}

func newRateLimiter(interval time.Duration) *rateLimiter {
	return &rateLimiter{interval: interval}
}

func (r *rateLimiter) wait() {
	r.mu.Lock()
	defer r.mu.Unlock()

	since := time.Since(r.lastCall)
	if since < r.interval {
		time.Sleep(r.interval - since)
	}
	r.lastCall = time.Now()
}

// NewOpenLibraryClient creates a new OpenLibrary API client limited to one request per second.
func NewOpenLibraryClient() *OpenLibraryClient {
	return &OpenLibraryClient{
		httpClient:  &http.Client{Timeout: 10 * time.Second},
		baseURL:     "https://openlibrary.org",
		coversURL:   "https://covers.openlibrary.org",
		rateLimiter: newRateLimiter(time.Second),
	}
}

// SearchByISBN looks up an edition by ISBN.
func (c *OpenLibraryClient) SearchByISBN(ctx context.Context, isbn string) (*BookMetadata, error) {
	isbn = normalizeISBN(isbn)
	if isbn == "" {
		return nil, fmt.Errorf("invalid ISBN")
	}

	var edition openLibraryEdition
	if err := c.getJSON(ctx, fmt.Sprintf("%s/isbn/%s.json", c.baseURL, isbn), &edition); err != nil {
		return nil, fmt.Errorf("lookup ISBN %s: %w", isbn, err)
	}

	return &BookMetadata{
		Title:           edition.Title,
		ISBN:            isbn,
		CoverURL:        c.coverByISBN(isbn),
		PublicationYear: extractYear(edition.PublishDate),
		OpenLibraryKey:  edition.Key,
	}, nil
}

// SearchByTitle runs a full-text search and returns the closest match.
func (c *OpenLibraryClient) SearchByTitle(ctx context.Context, title, author string) (*BookMetadata, error) {
	if title == "" {
		return nil, fmt.Errorf("title is required")
	}

	q := title
	if author != "" {
		q = title + " " + author
	}

	var result openLibrarySearchResult
	searchURL := fmt.Sprintf("%s/search.json?q=%s&limit=5", c.baseURL, url.QueryEscape(q))
	if err := c.getJSON(ctx, searchURL, &result); err != nil {
		return nil, fmt.Errorf("search %q: %w", title, err)
	}
	if len(result.Docs) == 0 {
		return nil, fmt.Errorf("search %q: %w", title, ErrNotFound)
	}

	doc := findBestMatch(result.Docs, title, author)
	metadata := &BookMetadata{
		Title:           doc.Title,
		PublicationYear: doc.FirstPublishYear,
		OpenLibraryKey:  doc.Key,
	}
	if len(doc.AuthorName) > 0 {
		metadata.Author = doc.AuthorName[0]
	}
	switch {
	case len(doc.ISBN) > 0:
		metadata.ISBN = doc.ISBN[0]
		metadata.CoverURL = c.coverByISBN(doc.ISBN[0])
	case doc.CoverI != 0:
		metadata.CoverURL = fmt.Sprintf("%s/b/id/%d-L.jpg", c.coversURL, doc.CoverI)
	}

	return metadata, nil
}

func (c *OpenLibraryClient) getJSON(ctx context.Context, rawURL string, target any) error {
	c.rateLimiter.wait()

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, rawURL, nil)
	if err != nil {
		return fmt.Errorf("create request: %w", err)
	}
	req.Header.Set("User-Agent", userAgent)

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	switch {
	case resp.StatusCode == http.StatusNotFound:
		return ErrNotFound
	case resp.StatusCode != http.StatusOK:
		return fmt.Errorf("unexpected status: %d", resp.StatusCode)
	}

	if err := json.NewDecoder(resp.Body).Decode(target); err != nil {
		return fmt.Errorf("decode response: %w", err)
	}
	return nil
}

func (c *OpenLibraryClient) coverByISBN(isbn string) string {
	return fmt.Sprintf("%s/b/isbn/%s-L.jpg", c.coversURL, isbn)
}

// findBestMatch scores docs by title and author similarity.
func findBestMatch(docs []openLibrarySearchDoc, title, author string) *openLibrarySearchDoc {
	titleLower := strings.ToLower(title)
	authorLower := strings.ToLower(author)

	best := &docs[0]
	bestScore := -1
	for i := range docs {
		doc := &docs[i]
		score := 0

		docTitle := strings.ToLower(doc.Title)
		if docTitle == titleLower {
			score += 10
		} else if strings.Contains(docTitle, titleLower) {
			score += 5
		}

		if authorLower != "" {
			for _, name := range doc.AuthorName {
				if strings.Contains(strings.ToLower(name), authorLower) {
					score += 10
					break
				}
			}
		}

		if len(doc.ISBN) > 0 {
			score += 2
		}
		if doc.CoverI != 0 {
			score++
		}

		if score > bestScore {
			bestScore = score
			best = doc
		}
	}
	return best
}

// normalizeISBN strips hyphens and spaces and returns "" unless 10 or 13 characters remain.
func normalizeISBN(isbn string) string {
	isbn = strings.NewReplacer("-", "", " ", "").Replace(strings.TrimSpace(isbn))
	if len(isbn) != 10 && len(isbn) != 13 {
		return ""
	}
	return isbn
}

// extractYear finds a plausible 4-digit year in an OpenLibrary date string.
func extractYear(dateStr string) int {
	dateStr = strings.TrimSpace(dateStr)

	for _, layout := range []string{"2006", "January 2, 2006", "Jan 2, 2006", "2006-01-02", "January 2006"} {
		if t, err := time.Parse(layout, dateStr); err == nil {
			return t.Year()
		}
	}

	for i := 0; i+4 <= len(dateStr); i++ {
		year := 0
		ok := true
		for _, ch := range dateStr[i : i+4] {
			if ch < '0' || ch > '9' {
				ok = false
				break
			}
			year = year*10 + int(ch-'0')
		}
		if ok && year > 1000 && year < 3000 {
			return year
		}
	}

	return 0
}

// OpenLibrary API response types (internal)

type openLibraryEdition struct {
	Key         string `json:"key"`
	Title       string `json:"title"`
	PublishDate string `json:"publish_date"`
}

type openLibrarySearchResult struct {
	NumFound int                    `json:"numFound"`
	Docs     []openLibrarySearchDoc `json:"docs"`
}

type openLibrarySearchDoc struct {
	Key              string   `json:"key"`
	Title            string   `json:"title"`
	AuthorName       []string `json:"author_name"`
	FirstPublishYear int      `json:"first_publish_year"`
	ISBN             []string `json:"isbn"`
	CoverI           int      `json:"cover_i"`
}
