package edits

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/killallgit/studio-api/api/types"
	"github.com/killallgit/studio-api/internal/models"
	"github.com/killallgit/studio-api/internal/processing"
)

// PostSplit cuts the session's upload into consecutive segments
// @Summary      Split audio
// @Description  Writes one segment per interval between the split points
// @Tags         edits
// @Accept       x-www-form-urlencoded
// @Produce      json
// @Param        session_id   formData string true "Session id"
// @Param        split_points formData string true "Comma separated seconds, e.g. 1.5,4.2,7.8"
// @Success      200 {object} types.SplitResponse
// @Failure      400 {object} types.ErrorResponse "Invalid parameters"
// @Failure      404 {object} types.ErrorResponse "Unknown session"
// @Failure      422 {object} types.ErrorResponse "Audio could not be processed"
// @Failure      503 {object} types.ErrorResponse "Processing queue is full"
// @Router       /split [post]
func PostSplit(deps *types.Dependencies) gin.HandlerFunc {
	return func(c *gin.Context) {
		id, err := sessionID(c)
		if err != nil {
			types.SendError(c, err)
			return
		}

		points, err := processing.ParseSplitPoints(c.PostForm("split_points"))
		if err != nil {
			types.SendError(c, err)
			return
		}

		job, err := deps.Operations.Run(c.Request.Context(), models.JobTypeSplit, id, models.JobPayload{
			"split_points": points,
		})
		if err != nil {
			types.SendError(c, err)
			return
		}

		c.JSON(http.StatusOK, types.SplitResponse{
			Message:     "Split operation requested",
			SplitPoints: points,
			OutputFiles: processing.SegmentNames(len(points)+1, id),
			JobID:       job.ID,
		})
	}
}
