// Package covers keeps local copies of book cover images so detail pages
// do not hit the upstream cover service on every view.
package covers

import (
	"context"
	"crypto/sha256"
	"errors"
	"fmt"
	"io"
	"net/http"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"time"
)

// maxCoverBytes caps a single downloaded image.
const maxCoverBytes = 5 << 20

var (
	ErrNotAnImage    = errors.New("cover response is not an image")
	ErrCoverTooLarge = errors.New("cover image exceeds size limit")
)

// Cache stores cover images on disk, one file per book and source URL.
type Cache struct {
	dir        string
	httpClient *http.Client

	// fetchMu serializes downloads so two page views don't fetch the same cover twice
	fetchMu sync.Mutex
}

func NewCache(dir string) (*Cache, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("create cover cache dir: %w", err)
	}

	return &Cache{
		dir: dir,
		httpClient: &http.Client{
			Timeout: 30 * time.Second,
		},
	}, nil
}

// GetCover returns the path of the cached image for bookID, downloading
// coverURL on a miss. An empty coverURL yields an empty path.
func (c *Cache) GetCover(ctx context.Context, bookID uint, coverURL string) (string, error) {
	if coverURL == "" {
		return "", nil
	}

	path := filepath.Join(c.dir, coverFilename(bookID, coverURL))
	if _, err := os.Stat(path); err == nil {
		return path, nil
	}

	c.fetchMu.Lock()
	defer c.fetchMu.Unlock()

	if _, err := os.Stat(path); err == nil {
		return path, nil
	}
	if err := c.download(ctx, coverURL, path); err != nil {
		return "", fmt.Errorf("fetch cover for book %d: %w", bookID, err)
	}
	return path, nil
}

// InvalidateCover removes every cached image of a book. It waits for an
// in-flight download so that download cannot land after the removal.
func (c *Cache) InvalidateCover(bookID uint) error {
	c.fetchMu.Lock()
	defer c.fetchMu.Unlock()

	matches, err := filepath.Glob(filepath.Join(c.dir, fmt.Sprintf("book_%d_*.img", bookID)))
	if err != nil {
		return err
	}
	for _, match := range matches {
		if err := os.Remove(match); err != nil && !os.IsNotExist(err) {
			return err
		}
	}
	return nil
}

func (c *Cache) Dir() string {
	return c.dir
}

// coverFilename ties the file to the source URL, so a changed cover URL is a cache miss.
func coverFilename(bookID uint, coverURL string) string {
	sum := sha256.Sum256([]byte(coverURL))
	return fmt.Sprintf("book_%d_%x.img", bookID, sum[:8])
}

func (c *Cache) download(ctx context.Context, url, dest string) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return err
	}
	req.Header.Set("User-Agent", "BookAlchemy/1.0")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("unexpected status %d", resp.StatusCode)
	}
	if !strings.HasPrefix(resp.Header.Get("Content-Type"), "image/") {
		return ErrNotAnImage
	}
	if resp.ContentLength > maxCoverBytes {
		return ErrCoverTooLarge
	}

	// Write to a temp file in the same directory, then rename into place
	tmp, err := os.CreateTemp(c.dir, "download_*")
	if err != nil {
		return err
	}
	tmpPath := tmp.Name()
	defer os.Remove(tmpPath)

	// One byte past the cap tells an oversized body apart from one that fits exactly
	n, copyErr := io.Copy(tmp, io.LimitReader(resp.Body, maxCoverBytes+1))
	if closeErr := tmp.Close(); copyErr == nil {
		copyErr = closeErr
	}
	if copyErr != nil {
		return copyErr
	}
	if n > maxCoverBytes {
		return ErrCoverTooLarge
	}

	return os.Rename(tmpPath, dest)
}
