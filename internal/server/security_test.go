package server

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
)

func newSecurityEngine(config SecurityConfig) *gin.Engine {
	r := gin.New()
	r.Use(SecurityMiddleware(config))
	r.GET("/test", func(c *gin.Context) { c.String(http.StatusOK, "OK") })
	r.OPTIONS("/test", func(c *gin.Context) { c.String(http.StatusOK, "unreachable") })
	return r
}

func TestDefaultSecurityConfig(t *testing.T) {
	t.Parallel()
	config := DefaultSecurityConfig()

	if !config.EnableCORS {
		t.Error("EnableCORS should be true by default")
	}
	if len(config.AllowedOrigins) != 1 || config.AllowedOrigins[0] != "*" {
		t.Errorf("AllowedOrigins = %v, want [*]", config.AllowedOrigins)
	}
	if len(config.AllowedMethods) != 2 {
		t.Errorf("AllowedMethods = %v, want GET and OPTIONS", config.AllowedMethods)
	}
	if config.MaxTimeout <= 0 {
		t.Error("MaxTimeout should be positive")
	}
}

func TestSecurityMiddleware_Headers(t *testing.T) {
	t.Parallel()
	r := newSecurityEngine(DefaultSecurityConfig())

	req := httptest.NewRequest(http.MethodGet, "/test", nil)
	rec := httptest.NewRecorder()
	r.ServeHTTP(rec, req)

	expected := map[string]string{
		"X-Content-Type-Options":  "nosniff",
		"X-Frame-Options":         "DENY",
		"X-XSS-Protection":        "1; mode=block",
		"Referrer-Policy":         "strict-origin-when-cross-origin",
		"Content-Security-Policy": "default-src 'none'; frame-ancestors 'none'",
	}
	for header, want := range expected {
		if got := rec.Header().Get(header); got != want {
			t.Errorf("%s = %q, want %q", header, got, want)
		}
	}
	if rec.Code != http.StatusOK {
		t.Errorf("status = %d, want %d", rec.Code, http.StatusOK)
	}
}

func TestSecurityMiddleware_CORS(t *testing.T) {
	t.Parallel()
	tests := []struct {
		name       string
		config     SecurityConfig
		origin     string
		wantOrigin string
	}{
		{
			name:       "wildcard",
			config:     DefaultSecurityConfig(),
			origin:     "https://example.com",
			wantOrigin: "*",
		},
		{
			name: "listed origin",
			config: SecurityConfig{
				EnableCORS:     true,
				AllowedOrigins: []string{"https://allowed.com"},
				AllowedMethods: []string{http.MethodGet},
			},
			origin:     "https://allowed.com",
			wantOrigin: "https://allowed.com",
		},
		{
			name: "unlisted origin",
			config: SecurityConfig{
				EnableCORS:     true,
				AllowedOrigins: []string{"https://allowed.com"},
				AllowedMethods: []string{http.MethodGet},
			},
			origin:     "https://evil.com",
			wantOrigin: "",
		},
		{
			name: "cors disabled",
			config: SecurityConfig{
				EnableCORS:     false,
				AllowedOrigins: []string{"*"},
			},
			origin:     "https://example.com",
			wantOrigin: "",
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			r := newSecurityEngine(tt.config)
			req := httptest.NewRequest(http.MethodGet, "/test", nil)
			req.Header.Set("Origin", tt.origin)
			rec := httptest.NewRecorder()
			r.ServeHTTP(rec, req)

			if got := rec.Header().Get("Access-Control-Allow-Origin"); got != tt.wantOrigin {
				t.Errorf("Access-Control-Allow-Origin = %q, want %q", got, tt.wantOrigin)
			}
			if tt.wantOrigin != "" && rec.Header().Get("Access-Control-Max-Age") != "86400" {
				t.Error("Access-Control-Max-Age not set")
			}
		})
	}
}

func TestSecurityMiddleware_Preflight(t *testing.T) {
	t.Parallel()
	r := newSecurityEngine(DefaultSecurityConfig())

	req := httptest.NewRequest(http.MethodOptions, "/test", nil)
	req.Header.Set("Origin", "https://example.com")
	rec := httptest.NewRecorder()
	r.ServeHTTP(rec, req)

	if rec.Code != http.StatusNoContent {
		t.Errorf("status = %d, want %d", rec.Code, http.StatusNoContent)
	}
	if rec.Body.Len() != 0 {
		t.Errorf("preflight body = %q, want empty", rec.Body.String())
	}
	if rec.Header().Get("Access-Control-Allow-Methods") != "GET, OPTIONS" {
		t.Errorf("Access-Control-Allow-Methods = %q", rec.Header().Get("Access-Control-Allow-Methods"))
	}
}
