package edits

import (
	"strings"

	"github.com/gin-gonic/gin"
	apperrors "github.com/killallgit/studio-api/pkg/errors"
)

// sessionID reads the session_id form field
func sessionID(c *gin.Context) (string, error) {
	id := strings.TrimSpace(c.PostForm("session_id"))
	if id == "" {
		return "", apperrors.MissingFieldError("session_id")
	}
	return id, nil
}
