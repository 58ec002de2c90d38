package version

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/killallgit/studio-api/api/types"
)

// Root answers the bare service banner
// @Summary      Service banner
// @Tags         system
// @Produce      json
// @Success      200 {object} types.MessageResponse
// @Router       / [get]
func Root() gin.HandlerFunc {
	return func(c *gin.Context) {
		c.JSON(http.StatusOK, types.MessageResponse{Message: "WebAudio Studio API"})
	}
}

// Get handles version requests
// @Summary      Build information
// @Tags         system
// @Produce      json
// @Success      200 {object} types.BuildInfo
// @Router       /version [get]
func Get(deps *types.Dependencies) gin.HandlerFunc {
	return func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{
			"name":       "WebAudio Studio API",
			"version":    deps.Build.Version,
			"git_commit": deps.Build.GitCommit,
			"build_time": deps.Build.BuildTime,
		})
	}
}
