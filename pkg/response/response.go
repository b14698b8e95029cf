package response

import (
	"net/http"

	"github.com/gin-gonic/gin"
)

// Body is the JSON envelope for successful responses.
type Body struct {
	Success bool        `json:"success"`
	Data    interface{} `json:"data,omitempty"`
}

// OK sends a 200 JSON response. With nil data the body is {"success":true}.
func OK(c *gin.Context, data interface{}) {
	c.JSON(http.StatusOK, Body{Success: true, Data: data})
}

// Error responses are plain text; only success bodies carry the JSON envelope.

// BadRequest sends 400 with a plain-text message.
func BadRequest(c *gin.Context, msg string) {
	c.String(http.StatusBadRequest, msg)
}

// NotFound sends 404 with a plain-text message.
func NotFound(c *gin.Context, msg string) {
	c.String(http.StatusNotFound, msg)
}

// MethodNotAllowed sends 405 with a plain-text message.
func MethodNotAllowed(c *gin.Context, msg string) {
	c.String(http.StatusMethodNotAllowed, msg)
}

// Internal sends 500 with a plain-text message.
func Internal(c *gin.Context, msg string) {
	c.String(http.StatusInternalServerError, msg)
}
