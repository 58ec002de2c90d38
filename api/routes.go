package api

import (
	"fmt"
	"net/http"
	"sync"

	"github.com/gin-gonic/gin"
	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"

	"github.com/killallgit/studio-api/api/download"
	"github.com/killallgit/studio-api/api/edits"
	"github.com/killallgit/studio-api/api/health"
	"github.com/killallgit/studio-api/api/jobs"
	"github.com/killallgit/studio-api/api/middleware"
	"github.com/killallgit/studio-api/api/sessions"
	"github.com/killallgit/studio-api/api/types"
	"github.com/killallgit/studio-api/api/upload"
	"github.com/killallgit/studio-api/api/version"
	"github.com/killallgit/studio-api/api/waveform"
	_ "github.com/killallgit/studio-api/docs/swagger"
)

// formBodyLimit caps request bodies of the form-encoded processing routes
const formBodyLimit = 1 << 20

// RegisterRoutes registers all API routes
func RegisterRoutes(engine *gin.Engine, deps *types.Dependencies, opts Options, rateLimiters *sync.Map, cleanupStop chan struct{}, cleanupInitialized *sync.Once) error {
	if deps == nil || deps.Store == nil || deps.Sessions == nil || deps.Jobs == nil || deps.Operations == nil {
		return fmt.Errorf("api dependencies are incomplete")
	}

	// Register public routes (no rate limiting)
	health.RegisterRoutes(engine, deps)
	version.RegisterRoutes(engine, deps)

	if opts.MetricsPath != "" && deps.Metrics != nil {
		engine.GET(opts.MetricsPath, gin.WrapH(deps.Metrics.Handler()))
	}

	// Register Swagger documentation route
	engine.GET("/docs", func(c *gin.Context) {
		c.Redirect(http.StatusMovedPermanently, "/docs/index.html")
	})
	docsGroup := engine.Group("/docs")
	docsGroup.GET("/*any", ginSwagger.WrapHandler(swaggerFiles.Handler))

	// Setup 404 handler
	engine.NoRoute(NotFoundHandler())

	// Reads are cheap and unlimited
	reads := engine.Group("")
	download.RegisterRoutes(reads, deps)
	sessions.RegisterRoutes(reads, deps)
	jobs.RegisterRoutes(reads, deps)

	limited := func(group *gin.RouterGroup) {
		if opts.RateLimit.Enabled && opts.RateLimit.RPS > 0 {
			group.Use(PerClientRateLimit(rateLimiters, cleanupStop, cleanupInitialized, opts.RateLimit.RPS, opts.RateLimit.Burst))
		}
	}

	// Uploads carry the audio itself and get the configured body limit
	uploadGroup := engine.Group("")
	limited(uploadGroup)
	uploadGroup.Use(RequestSizeLimitWithSize(deps.MaxUploadSize))
	upload.RegisterRoutes(uploadGroup, deps)

	// Processing routes run ffmpeg and are rate limited per client
	processingGroup := engine.Group("")
	limited(processingGroup)
	processingGroup.Use(RequestSizeLimitWithSize(formBodyLimit))
	edits.RegisterRoutes(processingGroup, deps)

	if deps.Waveforms != nil {
		waveformGroup := engine.Group("")
		limited(waveformGroup)
		waveformGroup.Use(middleware.ETag())
		waveform.RegisterRoutes(waveformGroup, deps)
	}

	return nil
}

// NotFoundHandler handles 404 errors
func NotFoundHandler() gin.HandlerFunc {
	return func(c *gin.Context) {
		c.JSON(http.StatusNotFound, gin.H{
			"status":  "error",
			"message": "The requested endpoint was not found",
			"path":    c.Request.URL.Path,
		})
	}
}
