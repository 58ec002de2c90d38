package edits

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/killallgit/studio-api/api/types"
	"github.com/killallgit/studio-api/internal/models"
	"github.com/killallgit/studio-api/internal/processing"
)

// PostTrim cuts a window out of the session's upload
// @Summary      Trim audio
// @Description  Keeps [start_time, end_time) of the original, fading crossfade seconds in and out
// @Tags         edits
// @Accept       x-www-form-urlencoded
// @Produce      json
// @Param        session_id formData string true  "Session id"
// @Param        start_time formData number true  "Start in seconds"
// @Param        end_time   formData number true  "End in seconds"
// @Param        crossfade  formData number false "Fade length in seconds" default(0)
// @Success      200 {object} types.TrimResponse
// @Failure      400 {object} types.ErrorResponse "Invalid parameters"
// @Failure      404 {object} types.ErrorResponse "Unknown session"
// @Failure      422 {object} types.ErrorResponse "Audio could not be processed"
// @Failure      503 {object} types.ErrorResponse "Processing queue is full"
// @Router       /trim [post]
func PostTrim(deps *types.Dependencies) gin.HandlerFunc {
	return func(c *gin.Context) {
		id, err := sessionID(c)
		if err != nil {
			types.SendError(c, err)
			return
		}

		params, err := trimParams(c)
		if err != nil {
			types.SendError(c, err)
			return
		}

		job, err := deps.Operations.Run(c.Request.Context(), models.JobTypeTrim, id, models.JobPayload{
			"start_time": params.Start,
			"end_time":   params.End,
			"crossfade":  params.Crossfade,
		})
		if err != nil {
			types.SendError(c, err)
			return
		}

		c.JSON(http.StatusOK, types.TrimResponse{
			Message:    "Trim operation requested",
			StartTime:  params.Start,
			EndTime:    params.End,
			Crossfade:  params.Crossfade,
			OutputFile: processing.TrimResultName(id),
			JobID:      job.ID,
		})
	}
}

func trimParams(c *gin.Context) (processing.TrimParams, error) {
	var params processing.TrimParams
	var err error

	if params.Start, err = processing.ParseSeconds("start_time", c.PostForm("start_time")); err != nil {
		return params, err
	}
	if params.End, err = processing.ParseSeconds("end_time", c.PostForm("end_time")); err != nil {
		return params, err
	}
	if raw, ok := c.GetPostForm("crossfade"); ok && raw != "" {
		if params.Crossfade, err = processing.ParseSeconds("crossfade", raw); err != nil {
			return params, err
		}
	}

	return params, params.Validate()
}
