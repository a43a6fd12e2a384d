package auth

import (
	"html/template"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/require"

	"github.com/Crabmann2025/Book-Alchemy/internal/config"
	"github.com/Crabmann2025/Book-Alchemy/internal/database"
	"github.com/Crabmann2025/Book-Alchemy/internal/database/users"
)

func init() {
	gin.SetMode(gin.TestMode)
}

const testPassword = "correct-horse-battery"

type testEnv struct {
	db       *database.Database
	service  *Service
	sessions *SessionManager
	limiter  *RateLimiter
	cfg      config.Auth
}

func setupTestEnv(t *testing.T, mode config.AuthMode) *testEnv {
	t.Helper()

	db, err := database.NewDatabase(filepath.Join(t.TempDir(), "auth.sqlite"))
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })

	cfg := config.Auth{
		Mode:            mode,
		SessionLifetime: time.Hour,
		BcryptCost:      4,
	}

	sqlDB, err := db.DB.DB()
	require.NoError(t, err)
	sm, err := NewSessionManager(sqlDB, cfg)
	require.NoError(t, err)

	return &testEnv{
		db:       db,
		service:  NewService(users.NewRepository(db.DB), cfg),
		sessions: sm,
		cfg:      cfg,
	}
}

// newRouter wires sessions, the auth middleware and the login routes the
// same way the application router does.
func (e *testEnv) newRouter() *gin.Engine {
	router := gin.New()
	router.SetHTMLTemplate(template.Must(template.New("login.html").Parse(`{{with .Error}}{{.}}{{end}}|{{.Next}}|{{with .Username}}{{.}}{{end}}`)))
	router.Use(e.sessions.SessionLoadSave())
	router.Use(NewMiddleware(e.service, e.sessions, e.cfg).Handler())
	NewAuthController(e.service, e.sessions, e.limiter).RegisterRoutes(router)
	return router
}

func sessionCookie(rr *httptest.ResponseRecorder) *http.Cookie {
	for _, cookie := range rr.Result().Cookies() {
		if cookie.Name == "session" {
			return cookie
		}
	}
	return nil
}
