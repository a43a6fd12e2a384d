package http

import (
	"html/template"
	"path/filepath"
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/Crabmann2025/Book-Alchemy/internal/auth"
	"github.com/Crabmann2025/Book-Alchemy/internal/forms"
)

// LoadTemplates parses every page and partial under dir.
func LoadTemplates(dir string) (*template.Template, error) {
	funcMap := template.FuncMap{
		"formatDate":  forms.FormatDate,
		"optionalInt": optionalInt,
	}
	return template.New("").Funcs(funcMap).ParseGlob(filepath.Join(dir, "*.html"))
}

func optionalInt(n *int) string {
	if n == nil {
		return ""
	}
	return strconv.Itoa(*n)
}

// pageRenderer fills in the data every layout needs: flash notices, the
// CSRF token and the logged-in user.
type pageRenderer struct {
	flashes       *FlashStore
	authEnabled   bool
	enrichEnabled bool
}

func (p *pageRenderer) render(c *gin.Context, status int, name, title string, data gin.H, notices ...Flash) {
	if data == nil {
		data = gin.H{}
	}
	data["Title"] = title
	data["Flashes"] = append(p.flashes.Pop(c), notices...)
	data["CSRFToken"] = auth.GetCSRFToken(c)
	data["AuthEnabled"] = p.authEnabled
	data["CurrentUser"] = auth.GetUsername(c)
	canEdit := !p.authEnabled || auth.GetUserID(c) != 0
	data["CanEdit"] = canEdit
	data["CanEnrich"] = canEdit && p.enrichEnabled

	c.HTML(status, name, data)
}

func (p *pageRenderer) renderError(c *gin.Context, status int, message string) {
	p.render(c, status, "error.html", message, gin.H{
		"Status":  status,
		"Message": message,
	})
}
