package edits

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/killallgit/studio-api/api/types"
	"github.com/killallgit/studio-api/internal/models"
	"github.com/killallgit/studio-api/internal/processing"
)

// PostEqualize applies the eight band equalizer
// @Summary      Equalize audio
// @Description  One gain in dB per band (60, 150, 400, 1000, 2400, 6000, 10000, 14000 Hz), each within [-20, 20]
// @Tags         edits
// @Accept       x-www-form-urlencoded
// @Produce      json
// @Param        session_id formData string true "Session id"
// @Param        eq_values  formData string true "Comma separated gains, e.g. -3,0,2,5,-1,0,3,-2"
// @Success      200 {object} types.EqualizeResponse
// @Failure      400 {object} types.ErrorResponse "Invalid parameters"
// @Failure      404 {object} types.ErrorResponse "Unknown session"
// @Failure      422 {object} types.ErrorResponse "Audio could not be processed"
// @Failure      503 {object} types.ErrorResponse "Processing queue is full"
// @Router       /equalize [post]
func PostEqualize(deps *types.Dependencies) gin.HandlerFunc {
	return func(c *gin.Context) {
		id, err := sessionID(c)
		if err != nil {
			types.SendError(c, err)
			return
		}

		gains, err := processing.ParseEQValues(c.PostForm("eq_values"))
		if err != nil {
			types.SendError(c, err)
			return
		}

		job, err := deps.Operations.Run(c.Request.Context(), models.JobTypeEqualize, id, models.JobPayload{
			"eq_values": gains,
		})
		if err != nil {
			types.SendError(c, err)
			return
		}

		c.JSON(http.StatusOK, types.EqualizeResponse{
			Message:    "Equalizer applied",
			EQValues:   gains,
			OutputFile: processing.EqualizedName(id),
			JobID:      job.ID,
		})
	}
}
