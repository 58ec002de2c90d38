package download

import (
	"github.com/gin-gonic/gin"
	"github.com/killallgit/studio-api/api/types"
	apperrors "github.com/killallgit/studio-api/pkg/errors"
)

// Get serves a file from a session
// @Summary      Download a session file
// @Description  Returns the original upload or a derived artifact as an attachment
// @Tags         sessions
// @Produce      octet-stream
// @Param        session_id path string true "Session id"
// @Param        filename   path string true "File name, e.g. trim_result_<session_id>.mp3"
// @Success      200 {file} file
// @Failure      400 {object} types.ErrorResponse "Invalid session id or file name"
// @Failure      404 {object} types.ErrorResponse "File not found"
// @Router       /download/{session_id}/{filename} [get]
func Get(deps *types.Dependencies) gin.HandlerFunc {
	return func(c *gin.Context) {
		filename := c.Param("filename")

		path, err := deps.Store.Resolve(c.Param("session_id"), filename)
		if err != nil {
			if apperrors.Is(err, apperrors.ErrCodeNotFound) {
				types.SendNotFound(c, "File not found")
				return
			}
			types.SendError(c, err)
			return
		}

		c.FileAttachment(path, filename)
	}
}
