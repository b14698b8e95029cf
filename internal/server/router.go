// Package server assembles the gin router from the site's handlers.
package server

import (
	"time"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/lumen-meetup/backend/internal/middleware"
	"github.com/lumen-meetup/backend/internal/registrations"
	"github.com/lumen-meetup/backend/internal/stream"
	"github.com/lumen-meetup/backend/internal/web"
	"github.com/lumen-meetup/backend/pkg/response"
)

// Options configures the router.
type Options struct {
	Store          registrations.Store
	Presence       *stream.Presence
	StreamInterval time.Duration
	CORSOrigins    string
	Logger         *zap.Logger
}

// New builds the HTTP dispatch table. The legacy paths and their /api aliases
// point at the same handlers.
func New(opts Options) *gin.Engine {
	logger := opts.Logger
	if logger == nil {
		logger = zap.NewNop()
	}

	webHandler := web.NewHandler()
	regHandler := registrations.NewHandler(opts.Store, logger)
	reader := registrations.NewSnapshotReader(opts.Store, logger)
	streamHandler := stream.NewHandler(reader, opts.Presence, opts.StreamInterval, logger)

	router := gin.New()
	router.Use(gin.Recovery())
	router.Use(middleware.CORS(opts.CORSOrigins))
	router.Use(middleware.Logger(logger))

	router.HandleMethodNotAllowed = true
	router.NoMethod(func(c *gin.Context) { response.MethodNotAllowed(c, "method not allowed") })
	router.NoRoute(func(c *gin.Context) { response.NotFound(c, "not found") })

	router.GET("/", webHandler.Index)
	router.GET("/style.css", webHandler.Stylesheet)
	router.GET("/static/style.css", webHandler.Stylesheet)

	router.POST("/submit-registration", regHandler.Submit)
	router.POST("/api/submit", regHandler.Submit)

	router.GET("/registration-updates", streamHandler.Updates)
	router.GET("/api/updates", streamHandler.Updates)

	router.GET("/api/speakers", regHandler.Speakers)

	router.GET("/health", func(c *gin.Context) {
		data := gin.H{"status": "ok"}
		if n, ok := opts.Presence.Live(c.Request.Context()); ok {
			data["live_sessions"] = n
		}
		response.OK(c, data)
	})

	return router
}
