package auth

import (
	"errors"
	"log"
	"math"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
)

// isLocalPath rejects anything that could redirect off-site.
func isLocalPath(path string) bool {
	switch {
	case path == "":
		return false
	case !strings.HasPrefix(path, "/"):
		return false
	case strings.HasPrefix(path, "//"):
		return false
	case strings.Contains(path, "://"):
		return false
	case strings.Contains(path, "\\"):
		return false
	}
	return true
}

func sanitizeRedirectPath(path string) string {
	if isLocalPath(path) {
		return path
	}
	return "/"
}

// AuthController serves the login and logout endpoints.
type AuthController struct {
	service        *Service
	sessionManager *SessionManager
	limiter        *RateLimiter
}

// NewAuthController builds the login controller. A nil limiter disables
// login throttling.
func NewAuthController(service *Service, sessionManager *SessionManager, limiter *RateLimiter) *AuthController {
	return &AuthController{
		service:        service,
		sessionManager: sessionManager,
		limiter:        limiter,
	}
}

func (ac *AuthController) RegisterRoutes(router gin.IRouter) {
	router.GET("/login", ac.LoginPage)
	router.POST("/login", ac.Login)
	router.POST("/logout", ac.Logout)
}

func (ac *AuthController) LoginPage(c *gin.Context) {
	if ac.sessionManager.IsAuthenticated(c.Request) {
		c.Redirect(http.StatusSeeOther, "/")
		return
	}

	ac.renderLogin(c, http.StatusOK, gin.H{
		"Next": sanitizeRedirectPath(c.Query("next")),
	})
}

func (ac *AuthController) Login(c *gin.Context) {
	username := strings.TrimSpace(c.PostForm("username"))
	password := c.PostForm("password")
	next := sanitizeRedirectPath(c.PostForm("next"))
	clientIP := c.ClientIP()

	if ac.limiter != nil {
		if allowed, retryAfter := ac.limiter.Allow(clientIP, username); !allowed {
			log.Printf("Login for %q from %s throttled for %v", username, clientIP, retryAfter.Round(time.Second))
			c.Header("Retry-After", strconv.Itoa(int(math.Ceil(retryAfter.Seconds()))))
			ac.renderLogin(c, http.StatusTooManyRequests, gin.H{
				"Next":     next,
				"Username": username,
				"Error":    "Too many failed login attempts. Please try again later.",
			})
			return
		}
	}

	user, err := ac.service.Authenticate(username, password)
	if err != nil {
		if !errors.Is(err, ErrUserNotFound) && !errors.Is(err, ErrInvalidPassword) {
			log.Printf("Login failed for %q: %v", username, err)
		}
		if ac.limiter != nil {
			ac.limiter.RecordFailure(clientIP, username)
		}
		ac.renderLogin(c, http.StatusUnauthorized, gin.H{
			"Next":     next,
			"Username": username,
			"Error":    "Invalid username or password",
		})
		return
	}

	if err := ac.sessionManager.CreateSession(c.Request, user); err != nil {
		log.Printf("Failed to create session for %s: %v", user.Username, err)
		ac.renderLogin(c, http.StatusInternalServerError, gin.H{
			"Next":     next,
			"Username": username,
			"Error":    "Failed to create session",
		})
		return
	}

	if ac.limiter != nil {
		ac.limiter.RecordSuccess(clientIP, username)
	}
	c.Redirect(http.StatusSeeOther, next)
}

func (ac *AuthController) Logout(c *gin.Context) {
	if err := ac.sessionManager.DestroySession(c.Request); err != nil {
		log.Printf("Failed to destroy session: %v", err)
	}
	c.Redirect(http.StatusSeeOther, "/")
}

func (ac *AuthController) renderLogin(c *gin.Context, status int, data gin.H) {
	data["Title"] = "Log in"
	data["CSRFToken"] = GetCSRFToken(c)
	c.HTML(status, "login.html", data)
}
