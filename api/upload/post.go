package upload

import (
	"errors"
	"io"
	"mime/multipart"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/killallgit/studio-api/api/types"
	apperrors "github.com/killallgit/studio-api/pkg/errors"
	"github.com/killallgit/studio-api/pkg/ffmpeg"
	"go.uber.org/zap"
)

// FieldName is the multipart field carrying the audio file
const FieldName = "file"

// Post stores an uploaded audio file in a new session
// @Summary      Upload audio
// @Description  Stores the file in a fresh session and returns the session id used by every other operation
// @Tags         sessions
// @Accept       multipart/form-data
// @Produce      json
// @Param        file formData file true "Audio file"
// @Success      200 {object} types.UploadResponse
// @Failure      400 {object} types.ErrorResponse "Missing file field"
// @Failure      413 {object} types.ErrorResponse "Upload exceeds the size limit"
// @Failure      500 {object} types.ErrorResponse "Storage failure"
// @Failure      507 {object} types.ErrorResponse "Disk full"
// @Router       /upload [post]
func Post(deps *types.Dependencies) gin.HandlerFunc {
	return func(c *gin.Context) {
		ctx := c.Request.Context()
		log := zap.L().Named("upload")

		part, err := filePart(c.Request)
		if err != nil {
			types.SendError(c, uploadError(err, deps.MaxUploadSize))
			return
		}
		defer part.Close()

		session, err := deps.Store.Create(ctx, part, part.FileName())
		if err != nil {
			types.SendError(c, uploadError(err, deps.MaxUploadSize))
			return
		}

		var metadata *ffmpeg.AudioMetadata
		if deps.Prober != nil {
			metadata, err = deps.Prober.GetMetadata(ctx, session.FilePath)
			if err != nil {
				log.Warn("could not probe upload",
					zap.String("session_id", session.ID),
					zap.String("filename", session.OriginalFilename),
					zap.Error(err))
				metadata = nil
			}
		}

		if _, err := deps.Sessions.RegisterUpload(ctx, session, part.Header.Get("Content-Type"), metadata); err != nil {
			if rmErr := deps.Store.Remove(session.ID); rmErr != nil {
				log.Warn("failed to remove unrecorded session", zap.String("session_id", session.ID), zap.Error(rmErr))
			}
			types.SendError(c, err)
			return
		}

		if deps.Metrics != nil {
			deps.Metrics.UploadAccepted(session.Size)
		}

		log.Info("upload stored",
			zap.String("session_id", session.ID),
			zap.String("filename", session.OriginalFilename),
			zap.Int64("size", session.Size))

		c.JSON(http.StatusOK, types.UploadResponse{
			SessionID: session.ID,
			Filename:  session.OriginalFilename,
			FilePath:  session.FilePath,
		})
	}
}

// filePart streams the multipart body up to the file field, so the upload is
// never buffered in memory or spooled to a second temp file
func filePart(r *http.Request) (*multipart.Part, error) {
	reader, err := r.MultipartReader()
	if err != nil {
		return nil, apperrors.InvalidRequest(FieldName, "request must be multipart/form-data")
	}

	for {
		part, err := reader.NextPart()
		if errors.Is(err, io.EOF) {
			return nil, apperrors.MissingFieldError(FieldName)
		}
		if err != nil {
			return nil, err
		}
		if part.FormName() == FieldName && part.FileName() != "" {
			return part, nil
		}
		part.Close()
	}
}

func uploadError(err error, limit int64) error {
	var tooLarge *http.MaxBytesError
	if errors.As(err, &tooLarge) {
		return apperrors.New(apperrors.ErrCodeTooLarge, "upload exceeds the size limit").
			WithDetail("max_bytes", limit)
	}
	if _, ok := apperrors.As(err); ok {
		return err
	}
	return apperrors.Wrap(err, apperrors.ErrCodeInvalidInput, "malformed multipart body")
}
