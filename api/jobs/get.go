package jobs

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/killallgit/studio-api/api/types"
	jobsService "github.com/killallgit/studio-api/internal/services/jobs"
)

// Get returns a processing job. Requests that stopped waiting for their job
// can follow it here.
// @Summary      Get job
// @Tags         jobs
// @Produce      json
// @Param        id path int true "Job id"
// @Success      200 {object} models.Job
// @Failure      400 {object} types.ErrorResponse "Invalid job id"
// @Failure      404 {object} types.ErrorResponse "Unknown job"
// @Router       /jobs/{id} [get]
func Get(deps *types.Dependencies) gin.HandlerFunc {
	return func(c *gin.Context) {
		id, ok := types.ParseUintParam(c, "id")
		if !ok {
			return
		}

		job, err := deps.Jobs.GetJob(c.Request.Context(), id)
		if err != nil {
			if errors.Is(err, jobsService.ErrJobNotFound) {
				types.SendNotFound(c, "Job not found")
				return
			}
			types.SendError(c, err)
			return
		}

		c.JSON(http.StatusOK, job)
	}
}
