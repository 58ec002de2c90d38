package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newRouter(calls *int) *gin.Engine {
	gin.SetMode(gin.TestMode)
	router := gin.New()
	router.Use(ETag())
	router.GET("/peaks", func(c *gin.Context) {
		*calls++
		c.JSON(http.StatusOK, gin.H{"peaks": []float64{0.1, 0.5, 1}})
	})
	router.GET("/missing", func(c *gin.Context) {
		c.JSON(http.StatusNotFound, gin.H{"error": "File not found"})
	})
	router.POST("/peaks", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"ok": true})
	})
	return router
}

func TestETagRoundTrip(t *testing.T) {
	calls := 0
	router := newRouter(&calls)

	w := httptest.NewRecorder()
	router.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/peaks", nil))
	require.Equal(t, http.StatusOK, w.Code)
	assert.JSONEq(t, `{"peaks":[0.1,0.5,1]}`, w.Body.String())
	etag := w.Header().Get("ETag")
	require.NotEmpty(t, etag)

	tests := []struct {
		name           string
		headers        map[string]string
		expectedStatus int
	}{
		{"matching etag", map[string]string{"If-None-Match": etag}, http.StatusNotModified},
		{"weak matching etag", map[string]string{"If-None-Match": "W/" + etag}, http.StatusNotModified},
		{"one of several", map[string]string{"If-None-Match": `"other", ` + etag}, http.StatusNotModified},
		{"stale etag", map[string]string{"If-None-Match": `"stale"`}, http.StatusOK},
		{"no-cache bypasses", map[string]string{"If-None-Match": etag, "Cache-Control": "no-cache"}, http.StatusOK},
		{"pragma bypasses", map[string]string{"If-None-Match": etag, "Pragma": "no-cache"}, http.StatusOK},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := httptest.NewRequest(http.MethodGet, "/peaks", nil)
			for k, v := range tt.headers {
				req.Header.Set(k, v)
			}
			w := httptest.NewRecorder()
			router.ServeHTTP(w, req)

			assert.Equal(t, tt.expectedStatus, w.Code)
			if tt.expectedStatus == http.StatusNotModified {
				assert.Empty(t, w.Body.String())
			} else {
				assert.NotEmpty(t, w.Body.String())
			}
		})
	}

	// Every request still ran the handler
	assert.Equal(t, 7, calls)
}

func TestETagSkipsErrorsAndWrites(t *testing.T) {
	calls := 0
	router := newRouter(&calls)

	w := httptest.NewRecorder()
	router.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/missing", nil))
	assert.Equal(t, http.StatusNotFound, w.Code)
	assert.Empty(t, w.Header().Get("ETag"))
	assert.JSONEq(t, `{"error":"File not found"}`, w.Body.String())

	w = httptest.NewRecorder()
	router.ServeHTTP(w, httptest.NewRequest(http.MethodPost, "/peaks", nil))
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Empty(t, w.Header().Get("ETag"))
}
