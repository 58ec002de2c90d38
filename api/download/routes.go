package download

import (
	"github.com/gin-gonic/gin"
	"github.com/killallgit/studio-api/api/types"
)

// RegisterRoutes registers artifact download routes. POST is kept for
// clients that fetch results with a form submit.
func RegisterRoutes(router gin.IRoutes, deps *types.Dependencies) {
	handler := Get(deps)
	router.GET("/download/:session_id/:filename", handler)
	router.HEAD("/download/:session_id/:filename", handler)
	router.POST("/download/:session_id/:filename", handler)
}
