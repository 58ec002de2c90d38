package health

import (
	"net/http"
	"os"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/killallgit/studio-api/api/types"
)

// Get handles health check requests
// @Summary      Health check
// @Tags         system
// @Produce      json
// @Success      200 {object} types.HealthResponse
// @Failure      503 {object} types.HealthResponse
// @Router       /health [get]
func Get(deps *types.Dependencies) gin.HandlerFunc {
	return func(c *gin.Context) {
		database := getDatabaseStatus(deps)
		store := getStoreStatus(c, deps)

		status := types.StatusOK
		code := http.StatusOK
		if database["status"] == "unhealthy" || store["status"] == "unhealthy" {
			status = types.StatusError
			code = http.StatusServiceUnavailable
		}

		c.JSON(code, types.HealthResponse{
			Status:    status,
			Timestamp: time.Now().UTC().Format(time.RFC3339),
			Services: map[string]interface{}{
				"database": database,
				"store":    store,
			},
		})
	}
}

// getDatabaseStatus returns the database connection status
func getDatabaseStatus(deps *types.Dependencies) gin.H {
	if deps == nil || deps.DB == nil || deps.DB.DB == nil {
		return gin.H{"status": "not configured"}
	}

	if err := deps.DB.HealthCheck(); err != nil {
		return gin.H{"status": "unhealthy", "error": err.Error()}
	}

	return gin.H{"status": "healthy"}
}

// getStoreStatus checks that the session root still exists
func getStoreStatus(c *gin.Context, deps *types.Dependencies) gin.H {
	if deps == nil || deps.Store == nil {
		return gin.H{"status": "not configured"}
	}

	info, err := os.Stat(deps.Store.Root())
	if err != nil || !info.IsDir() {
		return gin.H{"status": "unhealthy", "root": deps.Store.Root()}
	}

	status := gin.H{"status": "healthy", "root": deps.Store.Root()}
	if deps.Sessions != nil {
		if count, err := deps.Sessions.CountSessions(c.Request.Context()); err == nil {
			status["sessions"] = count
		}
	}
	return status
}
