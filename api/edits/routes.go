// Package edits exposes the editing operations. Each request runs as a job
// and the response is sent once its artifacts are in the session.
package edits

import (
	"github.com/gin-gonic/gin"
	"github.com/killallgit/studio-api/api/types"
)

// RegisterRoutes registers the editing routes
func RegisterRoutes(router gin.IRoutes, deps *types.Dependencies) {
	router.POST("/trim", PostTrim(deps))
	router.POST("/split", PostSplit(deps))
	router.POST("/equalize", PostEqualize(deps))
	router.POST("/extract-vocals", PostExtractVocals(deps))
}
