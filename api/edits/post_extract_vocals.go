package edits

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/killallgit/studio-api/api/types"
	"github.com/killallgit/studio-api/internal/models"
	"github.com/killallgit/studio-api/internal/processing"
)

// PostExtractVocals separates the centre channel from the rest of the mix
// @Summary      Extract vocals
// @Description  Writes a vocal stem and an instrumental stem
// @Tags         edits
// @Accept       x-www-form-urlencoded
// @Produce      json
// @Param        session_id formData string true "Session id"
// @Success      200 {object} types.ExtractVocalsResponse
// @Failure      400 {object} types.ErrorResponse "Invalid parameters"
// @Failure      404 {object} types.ErrorResponse "Unknown session"
// @Failure      422 {object} types.ErrorResponse "Audio could not be processed"
// @Failure      503 {object} types.ErrorResponse "Processing queue is full"
// @Router       /extract-vocals [post]
func PostExtractVocals(deps *types.Dependencies) gin.HandlerFunc {
	return func(c *gin.Context) {
		id, err := sessionID(c)
		if err != nil {
			types.SendError(c, err)
			return
		}

		job, err := deps.Operations.Run(c.Request.Context(), models.JobTypeExtractVocals, id, nil)
		if err != nil {
			types.SendError(c, err)
			return
		}

		c.JSON(http.StatusOK, types.ExtractVocalsResponse{
			Message:          "Vocal extraction requested",
			VocalsFile:       processing.VocalsName(id),
			InstrumentalFile: processing.InstrumentalName(id),
			JobID:            job.ID,
		})
	}
}
