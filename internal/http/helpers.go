package http

import (
	"errors"
	"log"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"
)

// ErrorResponse is the error body of the JSON API.
type ErrorResponse struct {
	Error string `json:"error"`
}

// parseIDParam extracts an unsigned ID from the URL or renders a 400 page.
func (p *pageRenderer) parseIDParam(c *gin.Context, param, resource string) (uint, bool) {
	id, err := strconv.ParseUint(c.Param(param), 10, 32)
	if err != nil {
		p.renderError(c, http.StatusBadRequest, "Invalid "+resource+" ID")
		return 0, false
	}
	return uint(id), true
}

// respondLookupError maps a store error to a 404 or 500 page.
func (p *pageRenderer) respondLookupError(c *gin.Context, err error, resource string) {
	if errors.Is(err, gorm.ErrRecordNotFound) {
		p.renderError(c, http.StatusNotFound, resource+" not found")
		return
	}
	p.respondInternalError(c, err, "load "+resource)
}

// respondInternalError logs the error and renders a generic 500 page.
func (p *pageRenderer) respondInternalError(c *gin.Context, err error, context string) {
	log.Printf("Internal error (%s): %v", context, err)
	p.renderError(c, http.StatusInternalServerError, "Something went wrong")
}

func respondJSONInternalError(c *gin.Context, err error, context string) {
	log.Printf("Internal error (%s): %v", context, err)
	c.JSON(http.StatusInternalServerError, ErrorResponse{Error: "internal server error"})
}
