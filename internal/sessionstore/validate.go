package sessionstore

import (
	"path"
	"regexp"
	"strings"

	apperrors "github.com/killallgit/studio-api/pkg/errors"
)

const maxSegmentLength = 255

var (
	segmentPattern   = regexp.MustCompile(`^[A-Za-z0-9][A-Za-z0-9._-]*$`)
	extensionPattern = regexp.MustCompile(`^\.[a-z0-9]{1,10}$`)
)

// ValidateSegment rejects anything that is not a single, visible path element.
// It runs before any filesystem join so traversal never reaches the OS.
func ValidateSegment(field, value string) error {
	switch {
	case value == "":
		return apperrors.InvalidRequest(field, "must not be empty")
	case len(value) > maxSegmentLength:
		return apperrors.InvalidRequest(field, "is too long")
	case strings.Contains(value, ".."):
		return apperrors.InvalidRequest(field, "must not contain '..'")
	case strings.ContainsAny(value, `/\`):
		return apperrors.InvalidRequest(field, "must not contain a path separator")
	case strings.ContainsRune(value, 0):
		return apperrors.InvalidRequest(field, "must not contain NUL")
	case !segmentPattern.MatchString(value):
		return apperrors.InvalidRequest(field, "may only contain letters, digits, '.', '_' and '-' and must not start with a symbol")
	}
	return nil
}

// OriginalName returns the stored name for an upload: "original" plus the
// lower-cased extension of the client filename, or no extension when the
// client value has none or an unusable one.
func OriginalName(clientFilename string) string {
	base := path.Base(strings.ReplaceAll(clientFilename, `\`, "/"))
	ext := strings.ToLower(path.Ext(base))
	if !extensionPattern.MatchString(ext) {
		ext = ""
	}
	return "original" + ext
}
