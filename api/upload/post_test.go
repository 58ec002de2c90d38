package upload

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"os"
	"strings"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/killallgit/studio-api/api/apitest"
	"github.com/killallgit/studio-api/api/types"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestPostStoresUpload(t *testing.T) {
	h := apitest.New(t)
	router := h.Router(RegisterRoutes)

	w := httptest.NewRecorder()
	router.ServeHTTP(w, apitest.MultipartRequest(t, "/upload", FieldName, "My Song.WAV", []byte("RIFF....WAVEdata")))

	require.Equal(t, http.StatusOK, w.Code, w.Body.String())

	var resp types.UploadResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.NotEmpty(t, resp.SessionID)
	assert.Equal(t, "My Song.WAV", resp.Filename)

	path, err := h.Store.Resolve(resp.SessionID, "original.wav")
	require.NoError(t, err)
	assert.Equal(t, path, resp.FilePath)
	content, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Equal(t, "RIFF....WAVEdata", string(content))

	session, err := h.Deps.Sessions.GetSession(context.Background(), resp.SessionID)
	require.NoError(t, err)
	assert.Equal(t, "My Song.WAV", session.OriginalFilename)

	assert.Equal(t, 1.0, testutil.ToFloat64(h.Metrics.UploadsTotal))
}

func TestPostRejectsBadRequests(t *testing.T) {
	h := apitest.New(t)
	router := h.Router(RegisterRoutes)

	tests := []struct {
		name         string
		request      func() *http.Request
		expectedCode string
	}{
		{
			name: "wrong field name",
			request: func() *http.Request {
				return apitest.MultipartRequest(t, "/upload", "audio", "clip.wav", []byte("data"))
			},
			expectedCode: "MISSING_FIELD",
		},
		{
			name: "not multipart",
			request: func() *http.Request {
				req := httptest.NewRequest(http.MethodPost, "/upload", strings.NewReader(`{"file":"x"}`))
				req.Header.Set("Content-Type", "application/json")
				return req
			},
			expectedCode: "INVALID_INPUT",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			w := httptest.NewRecorder()
			router.ServeHTTP(w, tt.request())

			assert.Equal(t, http.StatusBadRequest, w.Code)
			var resp types.ErrorResponse
			require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
			assert.Equal(t, tt.expectedCode, resp.Error)
		})
	}

	assert.Equal(t, 0.0, testutil.ToFloat64(h.Metrics.UploadsTotal))
}

func TestPostTooLarge(t *testing.T) {
	h := apitest.New(t)
	h.Deps.MaxUploadSize = 512

	router := gin.New()
	router.Use(func(c *gin.Context) {
		c.Request.Body = http.MaxBytesReader(c.Writer, c.Request.Body, h.Deps.MaxUploadSize)
		c.Next()
	})
	RegisterRoutes(router, h.Deps)

	w := httptest.NewRecorder()
	router.ServeHTTP(w, apitest.MultipartRequest(t, "/upload", FieldName, "big.wav", make([]byte, 4096)))

	assert.Equal(t, http.StatusRequestEntityTooLarge, w.Code)
	var resp types.ErrorResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.Equal(t, "PAYLOAD_TOO_LARGE", resp.Error)

	// The partial upload must not survive as a session
	entries, err := os.ReadDir(h.Store.Root())
	require.NoError(t, err)
	assert.Empty(t, entries)
}
