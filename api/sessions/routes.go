package sessions

import (
	"github.com/gin-gonic/gin"
	"github.com/killallgit/studio-api/api/types"
)

// RegisterRoutes registers session inspection routes
func RegisterRoutes(router gin.IRoutes, deps *types.Dependencies) {
	router.GET("/sessions/:session_id", Get(deps))
}
