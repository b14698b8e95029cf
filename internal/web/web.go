// Package web serves the embedded single-page meetup site.
package web

import (
	_ "embed"
	"net/http"

	"github.com/gin-gonic/gin"
)

//go:embed assets/index.html
var indexHTML []byte

//go:embed assets/style.css
var styleCSS []byte

// Handler serves the page and its stylesheet.
type Handler struct{}

// NewHandler creates the static page handler.
func NewHandler() *Handler {
	return &Handler{}
}

// Index handles GET /.
func (h *Handler) Index(c *gin.Context) {
	c.Data(http.StatusOK, "text/html; charset=utf-8", indexHTML)
}

// Stylesheet handles GET /style.css.
func (h *Handler) Stylesheet(c *gin.Context) {
	c.Data(http.StatusOK, "text/css; charset=utf-8", styleCSS)
}
