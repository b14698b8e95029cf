package stream

import (
	"context"
	"time"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

// Handler opens one broadcast session per GET /registration-updates request.
type Handler struct {
	source   SnapshotSource
	presence *Presence
	interval time.Duration
	logger   *zap.Logger
}

// NewHandler creates the SSE handler.
func NewHandler(source SnapshotSource, presence *Presence, interval time.Duration, logger *zap.Logger) *Handler {
	if interval <= 0 {
		interval = DefaultInterval
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Handler{source: source, presence: presence, interval: interval, logger: logger}
}

// Updates handles GET /registration-updates. The response stays open and
// carries one SSE data frame per polling tick until the client disconnects;
// the request context is the session's cancellation signal.
func (h *Handler) Updates(c *gin.Context) {
	c.Header("Content-Type", "text/event-stream")
	c.Header("Cache-Control", "no-cache")
	c.Header("Connection", "keep-alive")
	c.Header("Access-Control-Allow-Origin", "*")

	h.presence.Connect(c.Request.Context())
	defer h.presence.Disconnect(context.Background())

	sess := NewSession(h.source, c.Writer, h.interval, h.logger)
	sess.Run(c.Request.Context())
}
