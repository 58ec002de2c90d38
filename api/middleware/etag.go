// Package middleware holds route-scoped middleware. Global middleware lives in
// package api.
package middleware

import (
	"bytes"
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
)

// bufferedWriter holds the response until the handler is done so an ETag can
// be computed over the whole body
type bufferedWriter struct {
	gin.ResponseWriter
	body   bytes.Buffer
	status int
}

func (w *bufferedWriter) Write(data []byte) (int, error) {
	return w.body.Write(data)
}

func (w *bufferedWriter) WriteString(s string) (int, error) {
	return w.body.WriteString(s)
}

func (w *bufferedWriter) WriteHeader(status int) {
	w.status = status
}

func (w *bufferedWriter) WriteHeaderNow() {}

func (w *bufferedWriter) Status() int {
	return w.status
}

func (w *bufferedWriter) Size() int {
	return w.body.Len()
}

func (w *bufferedWriter) Written() bool {
	return w.body.Len() > 0
}

// ETag tags successful GET responses with a content hash and answers
// matching If-None-Match requests with 304. Handlers behind it must produce
// small bodies; the response is buffered.
func ETag() gin.HandlerFunc {
	return func(c *gin.Context) {
		if c.Request.Method != http.MethodGet || shouldBypassCache(c.Request) {
			c.Next()
			return
		}

		original := c.Writer
		w := &bufferedWriter{ResponseWriter: original, status: http.StatusOK}
		c.Writer = w
		c.Next()
		c.Writer = original

		if w.status != http.StatusOK || w.body.Len() == 0 {
			original.WriteHeader(w.status)
			_, _ = original.Write(w.body.Bytes())
			return
		}

		etag := generateETag(w.body.Bytes())
		original.Header().Set("ETag", etag)

		if matchesETag(c.GetHeader("If-None-Match"), etag) {
			original.Header().Del("Content-Type")
			original.Header().Del("Content-Length")
			original.WriteHeader(http.StatusNotModified)
			original.WriteHeaderNow()
			return
		}

		original.WriteHeader(http.StatusOK)
		_, _ = original.Write(w.body.Bytes())
	}
}

// shouldBypassCache checks if cache should be bypassed based on request headers
func shouldBypassCache(req *http.Request) bool {
	cacheControl := req.Header.Get("Cache-Control")
	for _, directive := range strings.Split(strings.ToLower(cacheControl), ",") {
		directive = strings.TrimSpace(directive)
		if directive == "no-cache" || directive == "no-store" || directive == "max-age=0" {
			return true
		}
	}

	// Also check Pragma header for backwards compatibility
	return req.Header.Get("Pragma") == "no-cache"
}

// matchesETag reports whether an If-None-Match header lists etag
func matchesETag(header, etag string) bool {
	if header == "" {
		return false
	}
	for _, candidate := range strings.Split(header, ",") {
		candidate = strings.TrimSpace(candidate)
		candidate = strings.TrimPrefix(candidate, "W/")
		if candidate == "*" || candidate == etag {
			return true
		}
	}
	return false
}

// generateETag creates an ETag for the response body
func generateETag(body []byte) string {
	hash := sha256.Sum256(body)
	return fmt.Sprintf(`"%s"`, hex.EncodeToString(hash[:16]))
}
