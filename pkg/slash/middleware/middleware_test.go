package middleware

import (
	"bytes"
	"errors"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/slashurl/slash/pkg/slash/auth"
)

func setupTestRouter(buf *bytes.Buffer) *gin.Engine {
	gin.SetMode(gin.TestMode)
	log := slog.New(slog.NewTextHandler(buf, nil))

	r := gin.New()
	r.Use(RequestID(), Logger(log), Recovery(log))
	r.GET("/ok", func(c *gin.Context) { c.String(http.StatusOK, "ok") })
	r.GET("/fail", func(c *gin.Context) {
		_ = c.Error(errors.New("disk on fire"))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Internal server error"})
	})
	r.GET("/panic", func(c *gin.Context) { panic("boom") })
	return r
}

func TestRequestID(t *testing.T) {
	var buf bytes.Buffer
	r := setupTestRouter(&buf)

	req := httptest.NewRequest("GET", "/ok", nil)
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	generated := w.Header().Get(RequestIDHeader)
	if len(generated) != 36 {
		t.Errorf("Expected a generated UUID, got %q", generated)
	}

	req = httptest.NewRequest("GET", "/ok", nil)
	req.Header.Set(RequestIDHeader, "upstream-id")
	w = httptest.NewRecorder()
	r.ServeHTTP(w, req)
	if got := w.Header().Get(RequestIDHeader); got != "upstream-id" {
		t.Errorf("Expected upstream-id to be kept, got %q", got)
	}
	if !strings.Contains(buf.String(), "request_id=upstream-id") {
		t.Errorf("Expected request id in log, got %s", buf.String())
	}
}

func TestLoggerRecordsErrors(t *testing.T) {
	var buf bytes.Buffer
	r := setupTestRouter(&buf)

	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest("GET", "/fail", nil))

	out := buf.String()
	if !strings.Contains(out, "level=ERROR") || !strings.Contains(out, "disk on fire") {
		t.Errorf("Expected error log with cause, got %s", out)
	}
	if !strings.Contains(out, "status=500") {
		t.Errorf("Expected status in log, got %s", out)
	}
}

func TestRecovery(t *testing.T) {
	var buf bytes.Buffer
	r := setupTestRouter(&buf)

	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest("GET", "/panic", nil))

	if w.Code != http.StatusInternalServerError {
		t.Errorf("Expected status 500, got %d", w.Code)
	}
	if !strings.Contains(buf.String(), "panic recovered") {
		t.Errorf("Expected panic to be logged, got %s", buf.String())
	}
}

func TestLoggerRecordsSession(t *testing.T) {
	var buf bytes.Buffer
	gin.SetMode(gin.TestMode)
	log := slog.New(slog.NewTextHandler(&buf, nil))
	tokens := auth.NewTokens([]byte("test-secret"), time.Hour)

	r := gin.New()
	r.Use(RequestID(), Logger(log))
	r.GET("/public", func(c *gin.Context) { c.String(http.StatusOK, "ok") })
	r.GET("/private", auth.RequireAdmin(tokens), func(c *gin.Context) { c.String(http.StatusOK, "ok") })

	token, err := tokens.Generate()
	if err != nil {
		t.Fatalf("Failed to generate token: %v", err)
	}
	req := httptest.NewRequest("GET", "/private", nil)
	req.Header.Set("Authorization", "Bearer "+token)
	r.ServeHTTP(httptest.NewRecorder(), req)
	if !strings.Contains(buf.String(), "session=admin") {
		t.Errorf("Expected session subject in log, got %s", buf.String())
	}

	buf.Reset()
	r.ServeHTTP(httptest.NewRecorder(), httptest.NewRequest("GET", "/public", nil))
	if strings.Contains(buf.String(), "session=") {
		t.Errorf("Expected no session for anonymous request, got %s", buf.String())
	}
}
