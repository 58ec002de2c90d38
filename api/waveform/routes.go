package waveform

import (
	"github.com/gin-gonic/gin"
	"github.com/killallgit/studio-api/api/types"
)

// RegisterRoutes registers all waveform-related routes
func RegisterRoutes(router gin.IRoutes, deps *types.Dependencies) {
	router.GET("/waveform/:session_id", GetWaveform(deps))
}
