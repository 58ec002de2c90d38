package jobs

import (
	"github.com/gin-gonic/gin"
	"github.com/killallgit/studio-api/api/types"
)

// RegisterRoutes registers job status routes
func RegisterRoutes(router gin.IRoutes, deps *types.Dependencies) {
	router.GET("/jobs/:id", Get(deps))
}
