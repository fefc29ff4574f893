package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
)

func TestSecurityHeaders(t *testing.T) {
	gin.SetMode(gin.TestMode)

	tests := []struct {
		name          string
		isDevelopment bool
		checkHeaders  func(t *testing.T, resp *httptest.ResponseRecorder)
	}{
		{
			name: "production mode sets HSTS",
			checkHeaders: func(t *testing.T, resp *httptest.ResponseRecorder) {
				assert.Contains(t, resp.Header().Get("Strict-Transport-Security"), "max-age=31536000")
			},
		},
		{
			name:          "development mode skips HSTS",
			isDevelopment: true,
			checkHeaders: func(t *testing.T, resp *httptest.ResponseRecorder) {
				assert.Empty(t, resp.Header().Get("Strict-Transport-Security"))
				assert.Contains(t, resp.Header().Get("Content-Security-Policy"), "unsafe-eval")
			},
		},
		{
			name: "documents may be framed by the frontend only",
			checkHeaders: func(t *testing.T, resp *httptest.ResponseRecorder) {
				assert.Equal(t, "SAMEORIGIN", resp.Header().Get("X-Frame-Options"))
				assert.Contains(t, resp.Header().Get("Content-Security-Policy"), "frame-ancestors 'self'")
			},
		},
		{
			name: "sets X-Content-Type-Options",
			checkHeaders: func(t *testing.T, resp *httptest.ResponseRecorder) {
				assert.Equal(t, "nosniff", resp.Header().Get("X-Content-Type-Options"))
			},
		},
		{
			name: "sets Permissions-Policy",
			checkHeaders: func(t *testing.T, resp *httptest.ResponseRecorder) {
				assert.Contains(t, resp.Header().Get("Permissions-Policy"), "camera=()")
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			router := gin.New()
			router.Use(SecurityHeaders(SecurityHeadersConfig{IsDevelopment: tt.isDevelopment}))
			router.GET("/test", func(c *gin.Context) {
				c.String(http.StatusOK, "OK")
			})

			resp := httptest.NewRecorder()
			router.ServeHTTP(resp, httptest.NewRequest(http.MethodGet, "/test", nil))

			assert.Equal(t, http.StatusOK, resp.Code)
			tt.checkHeaders(t, resp)
		})
	}
}

func TestBuildCSPIsDeterministicAndOverridable(t *testing.T) {
	cfg := SecurityHeadersConfig{CustomCSPDirectives: map[string]string{"frame-src": "'self' https://sso.kampus.ac.id"}}
	first := buildCSP(cfg)
	assert.Equal(t, first, buildCSP(cfg))
	assert.Contains(t, first, "frame-src 'self' https://sso.kampus.ac.id")
	assert.NotContains(t, buildCSP(SecurityHeadersConfig{}), "unsafe-eval")
}
