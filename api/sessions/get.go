package sessions

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/killallgit/studio-api/api/types"
)

// recentJobs bounds the job history in a session response
const recentJobs = 20

// Get describes a session: its record, the files on disk and recent jobs
// @Summary      Get session
// @Tags         sessions
// @Produce      json
// @Param        session_id path string true "Session id"
// @Success      200 {object} types.SessionResponse
// @Failure      400 {object} types.ErrorResponse "Invalid session id"
// @Failure      404 {object} types.ErrorResponse "Unknown session"
// @Router       /sessions/{session_id} [get]
func Get(deps *types.Dependencies) gin.HandlerFunc {
	return func(c *gin.Context) {
		ctx := c.Request.Context()
		id := c.Param("session_id")

		files, err := deps.Store.List(id)
		if err != nil {
			types.SendError(c, err)
			return
		}

		session, err := deps.Sessions.GetSession(ctx, id)
		if err != nil {
			types.SendError(c, err)
			return
		}

		jobs, err := deps.Jobs.ListSessionJobs(ctx, id, recentJobs)
		if err != nil {
			types.SendError(c, err)
			return
		}

		c.JSON(http.StatusOK, types.SessionResponse{
			Session: session,
			Files:   files,
			Jobs:    jobs,
		})
	}
}
