package http

import (
	"context"
	"net/http"
	"net/http/httptest"
	"net/url"
	"path/filepath"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/require"

	"github.com/Crabmann2025/Book-Alchemy/internal/auth"
	"github.com/Crabmann2025/Book-Alchemy/internal/config"
	"github.com/Crabmann2025/Book-Alchemy/internal/database"
	"github.com/Crabmann2025/Book-Alchemy/internal/database/users"
	"github.com/Crabmann2025/Book-Alchemy/internal/entities"
)

func init() {
	gin.SetMode(gin.TestMode)
}

const (
	testTemplatesPath = "../../templates"
	testStaticPath    = "../../static"
)

type fakeQueue struct {
	mu      sync.Mutex
	bookIDs []uint
	sweeps  int
	err     error
}

func (q *fakeQueue) EnqueueEnrichMissing() error {
	q.mu.Lock()
	defer q.mu.Unlock()
	q.sweeps++
	return q.err
}

func (q *fakeQueue) EnqueueEnrichBook(bookID uint) error {
	q.mu.Lock()
	defer q.mu.Unlock()
	q.bookIDs = append(q.bookIDs, bookID)
	return q.err
}

type fakeCovers struct {
	mu          sync.Mutex
	path        string
	err         error
	invalidated []uint
}

func (f *fakeCovers) GetCover(ctx context.Context, bookID uint, coverURL string) (string, error) {
	return f.path, f.err
}

func (f *fakeCovers) InvalidateCover(bookID uint) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.invalidated = append(f.invalidated, bookID)
	return nil
}

type testApp struct {
	t       *testing.T
	db      *database.Database
	queue   *fakeQueue
	covers  *fakeCovers
	router  *gin.Engine
	service *auth.Service
	cookies map[string]*http.Cookie
}

type appOption func(*RouterConfig, *testApp)

// withLocalAuth turns on AUTH_MODE=local.
func withLocalAuth() appOption {
	return func(cfg *RouterConfig, app *testApp) {
		authCfg := config.Auth{
			Mode:             config.AuthModeLocal,
			BcryptCost:       4,
			SessionLifetime:  time.Hour,
			MaxLoginAttempts: 3,
		}
		app.service = auth.NewService(users.NewRepository(app.db.DB), authCfg)
		cfg.AuthService = app.service
		cfg.AuthMiddleware = auth.NewMiddleware(app.service, cfg.SessionManager, authCfg)
		cfg.LoginLimiter = auth.NewRateLimiter(authCfg)
		app.t.Cleanup(cfg.LoginLimiter.Stop)
	}
}

func newTestApp(t *testing.T, opts ...appOption) *testApp {
	t.Helper()

	db, err := database.NewDatabase(filepath.Join(t.TempDir(), "library.sqlite"))
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })

	sqlDB, err := db.DB.DB()
	require.NoError(t, err)
	sessions, err := auth.NewSessionManager(sqlDB, config.Auth{SessionLifetime: time.Hour})
	require.NoError(t, err)

	app := &testApp{
		t:       t,
		db:      db,
		queue:   &fakeQueue{},
		covers:  &fakeCovers{},
		cookies: map[string]*http.Cookie{},
	}
	cfg := RouterConfig{
		Catalog:         db,
		Deletes:         db,
		Health:          db,
		EnrichmentQueue: app.queue,
		Covers:          app.covers,
		SessionManager:  sessions,
		TemplatesPath:   testTemplatesPath,
		StaticPath:      testStaticPath,
		Version:         "test",
	}
	for _, opt := range opts {
		opt(&cfg, app)
	}
	app.router = NewRouter(cfg)
	return app
}

// do sends a request carrying the cookies collected so far, like a browser.
func (a *testApp) do(req *http.Request) *httptest.ResponseRecorder {
	for _, cookie := range a.cookies {
		req.AddCookie(cookie)
	}
	rr := httptest.NewRecorder()
	a.router.ServeHTTP(rr, req)
	for _, cookie := range rr.Result().Cookies() {
		if cookie.MaxAge < 0 {
			delete(a.cookies, cookie.Name)
			continue
		}
		a.cookies[cookie.Name] = cookie
	}
	return rr
}

func (a *testApp) get(path string) *httptest.ResponseRecorder {
	return a.do(httptest.NewRequest(http.MethodGet, path, nil))
}

func (a *testApp) postForm(path string, form url.Values) *httptest.ResponseRecorder {
	req := httptest.NewRequest(http.MethodPost, path, strings.NewReader(form.Encode()))
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	return a.do(req)
}

func (a *testApp) createAuthor(t *testing.T, name string) *entities.Author {
	t.Helper()
	author := &entities.Author{Name: name}
	require.NoError(t, a.db.CreateAuthor(author))
	return author
}

func (a *testApp) createBook(t *testing.T, title string, author *entities.Author) *entities.Book {
	t.Helper()
	book := &entities.Book{Title: title}
	if author != nil {
		book.AuthorID = &author.ID
	}
	require.NoError(t, a.db.CreateBook(book))
	return book
}
