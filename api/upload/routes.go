package upload

import (
	"github.com/gin-gonic/gin"
	"github.com/killallgit/studio-api/api/types"
)

// RegisterRoutes registers upload routes
func RegisterRoutes(router gin.IRoutes, deps *types.Dependencies) {
	router.POST("/upload", Post(deps))
}
