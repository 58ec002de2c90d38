package waveform

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/killallgit/studio-api/api/types"
	apperrors "github.com/killallgit/studio-api/pkg/errors"
)

// WaveformData represents the waveform peaks for a session file
type WaveformData struct {
	SessionID  string    `json:"session_id"`
	Filename   string    `json:"filename,omitempty"`
	Peaks      []float32 `json:"peaks"`
	Duration   float64   `json:"duration"`   // Duration in seconds
	Resolution int       `json:"resolution"` // Number of peaks
	SampleRate int       `json:"sample_rate,omitempty"`
}

// GetWaveform returns normalized peaks of a session file
// @Summary      Get waveform
// @Description  Peaks in [0, 1] for drawing the editor waveform. Defaults to the original upload.
// @Tags         sessions
// @Produce      json
// @Param        session_id path  string true  "Session id"
// @Param        filename   query string false "File in the session"
// @Param        resolution query int    false "Number of peaks"
// @Success      200 {object} WaveformData
// @Failure      400 {object} types.ErrorResponse "Invalid parameters"
// @Failure      404 {object} types.ErrorResponse "Unknown session or file"
// @Failure      422 {object} types.ErrorResponse "File is not decodable audio"
// @Router       /waveform/{session_id} [get]
func GetWaveform(deps *types.Dependencies) gin.HandlerFunc {
	return func(c *gin.Context) {
		sessionID := c.Param("session_id")
		filename := c.Query("filename")

		resolution := 0
		if raw := c.Query("resolution"); raw != "" {
			v, err := strconv.Atoi(raw)
			if err != nil {
				types.SendError(c, apperrors.InvalidRequest("resolution", "must be an integer"))
				return
			}
			resolution = v
		}

		data, err := deps.Waveforms.GetWaveform(c.Request.Context(), sessionID, filename, resolution)
		if err != nil {
			types.SendError(c, err)
			return
		}

		c.JSON(http.StatusOK, WaveformData{
			SessionID:  sessionID,
			Filename:   filename,
			Peaks:      data.Peaks,
			Duration:   data.Duration,
			Resolution: data.Resolution,
			SampleRate: data.SampleRate,
		})
	}
}
