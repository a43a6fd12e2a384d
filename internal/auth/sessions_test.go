package auth

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Crabmann2025/Book-Alchemy/internal/config"
	"github.com/Crabmann2025/Book-Alchemy/internal/entities"
)

func TestNewSessionManager(t *testing.T) {
	sm := setupTestEnv(t, config.AuthModeLocal).sessions

	assert.Equal(t, "session", sm.Cookie.Name)
	assert.True(t, sm.Cookie.HttpOnly)
	assert.False(t, sm.Cookie.Secure)
	assert.Equal(t, http.SameSiteLaxMode, sm.Cookie.SameSite)
}

func TestSessionManager_CreateAndRead(t *testing.T) {
	sm := setupTestEnv(t, config.AuthModeLocal).sessions

	router := gin.New()
	router.Use(sm.SessionLoadSave())
	router.POST("/in", func(c *gin.Context) {
		require.NoError(t, sm.CreateSession(c.Request, &entities.User{ID: 7, Username: "librarian"}))
		c.Status(http.StatusOK)
	})
	router.GET("/who", func(c *gin.Context) {
		c.String(http.StatusOK, "%d:%s:%v", sm.GetUserID(c.Request), sm.GetUsername(c.Request), sm.IsAuthenticated(c.Request))
	})

	rr := httptest.NewRecorder()
	router.ServeHTTP(rr, httptest.NewRequest(http.MethodPost, "/in", nil))
	cookie := sessionCookie(rr)
	require.NotNil(t, cookie)

	req := httptest.NewRequest(http.MethodGet, "/who", nil)
	req.AddCookie(cookie)
	rr = httptest.NewRecorder()
	router.ServeHTTP(rr, req)
	assert.Equal(t, "7:librarian:true", rr.Body.String())

	rr = httptest.NewRecorder()
	router.ServeHTTP(rr, httptest.NewRequest(http.MethodGet, "/who", nil))
	assert.Equal(t, "0::false", rr.Body.String())
}

func TestSessionLoadSave_UnmodifiedSessionSetsNoCookie(t *testing.T) {
	sm := setupTestEnv(t, config.AuthModeNone).sessions

	router := gin.New()
	router.Use(sm.SessionLoadSave())
	router.GET("/", func(c *gin.Context) { c.Status(http.StatusOK) })

	rr := httptest.NewRecorder()
	router.ServeHTTP(rr, httptest.NewRequest(http.MethodGet, "/", nil))

	assert.Nil(t, sessionCookie(rr))
}
