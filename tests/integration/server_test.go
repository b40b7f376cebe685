package integration

import (
	"bytes"
	"encoding/json"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/slashurl/slash/pkg/slash/config"
	"github.com/slashurl/slash/pkg/slash/database"
	"github.com/slashurl/slash/pkg/slash/links"
	"github.com/slashurl/slash/pkg/slash/logger"
	"github.com/slashurl/slash/pkg/slash/server"
	"github.com/slashurl/slash/pkg/slash/stats"
	"gorm.io/gorm"
)

const testAdminKey = "integration-admin-key-0001"

// setupTestDB creates a migrated SQLite database for testing
func setupTestDB(t *testing.T) *gorm.DB {
	db, err := database.Connect(database.Config{URL: "sqlite:///" + filepath.Join(t.TempDir(), "slash.db")})
	if err != nil {
		t.Fatalf("Failed to connect to test database: %v", err)
	}
	t.Cleanup(func() { database.Close(db) })
	if err := database.Migrate(db, nil); err != nil {
		t.Fatalf("Failed to run migrations: %v", err)
	}
	return db
}

func testConfig(staticDir string) *config.Config {
	return &config.Config{
		Server: config.ServerConfig{Port: "8000", StaticDir: staticDir},
		Auth: config.AuthConfig{
			AdminKey:   testAdminKey,
			JWTSecret:  "integration-secret",
			SessionTTL: time.Hour,
		},
		Cache: config.CacheConfig{StatsTTL: time.Minute},
		App:   config.AppConfig{BaseURL: "https://sl.sh", Environment: "testing"},
	}
}

// setupFullServer builds the same engine cmd/slash-server runs
func setupFullServer(t *testing.T, db *gorm.DB) *gin.Engine {
	gin.SetMode(gin.TestMode)
	router, err := server.New(server.Options{
		Config: testConfig(""),
		DB:     db,
		Logger: logger.New(logger.Config{Level: "error", Output: io.Discard}),
	})
	if err != nil {
		t.Fatalf("Failed to build server: %v", err)
	}
	return router
}

type client struct {
	t      *testing.T
	router *gin.Engine
	cookie *http.Cookie
}

func (c *client) do(method, path string, body interface{}) *httptest.ResponseRecorder {
	var reader io.Reader
	if body != nil {
		data, _ := json.Marshal(body)
		reader = bytes.NewReader(data)
	}
	req, _ := http.NewRequest(method, path, reader)
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("User-Agent", "Mozilla/5.0 (X11; Linux x86_64; rv:125.0) Gecko/20100101 Firefox/125.0")
	if c.cookie != nil {
		req.AddCookie(c.cookie)
	}
	resp := httptest.NewRecorder()
	c.router.ServeHTTP(resp, req)
	return resp
}

func (c *client) login() {
	resp := c.do("POST", "/auth/login", map[string]string{"admin_key": testAdminKey})
	if resp.Code != http.StatusOK {
		c.t.Fatalf("Login failed: %d %s", resp.Code, resp.Body.String())
	}
	for _, cookie := range resp.Result().Cookies() {
		if cookie.Name == "admin_session" {
			c.cookie = cookie
		}
	}
	if c.cookie == nil {
		c.t.Fatal("Expected session cookie")
	}
}

// TestServerStartup verifies that all routes can be registered without conflicts
func TestServerStartup(t *testing.T) {
	db := setupTestDB(t)

	// This will panic if there are route conflicts
	router := setupFullServer(t, db)

	if router == nil {
		t.Fatal("Expected router to be created")
	}
}

// TestServerStartupWithStaticUI registers the admin UI routes alongside /:slug
func TestServerStartupWithStaticUI(t *testing.T) {
	db := setupTestDB(t)
	dir := t.TempDir()
	os.WriteFile(filepath.Join(dir, "index.html"), []byte("<html>slash</html>"), 0o644)

	gin.SetMode(gin.TestMode)
	router, err := server.New(server.Options{
		Config: testConfig(dir),
		DB:     db,
		Logger: slog.New(slog.NewTextHandler(io.Discard, nil)),
	})
	if err != nil {
		t.Fatalf("Failed to build server: %v", err)
	}

	c := &client{t: t, router: router}
	if resp := c.do("GET", "/", nil); resp.Code != http.StatusOK || !bytes.Contains(resp.Body.Bytes(), []byte("slash")) {
		t.Errorf("Expected index.html at /, got %d", resp.Code)
	}
	if resp := c.do("GET", "/admin/links", nil); resp.Code != http.StatusOK {
		t.Errorf("Expected SPA fallback, got %d", resp.Code)
	}
	if resp := c.do("GET", "/missing-slug", nil); resp.Code != http.StatusNotFound {
		t.Errorf("Expected 404 for unknown slug, got %d", resp.Code)
	}
}

// TestHealthEndpoint verifies the health endpoint responds correctly
func TestHealthEndpoint(t *testing.T) {
	db := setupTestDB(t)
	c := &client{t: t, router: setupFullServer(t, db)}

	resp := c.do("GET", "/health", nil)
	if resp.Code != http.StatusOK {
		t.Errorf("Expected status 200, got %d", resp.Code)
	}
	var body server.HealthResponse
	json.Unmarshal(resp.Body.Bytes(), &body)
	if body.Status != "ok" || body.Database != "ok" {
		t.Errorf("Unexpected health body: %+v", body)
	}

	database.Close(db)
	if resp := c.do("GET", "/health", nil); resp.Code != http.StatusServiceUnavailable {
		t.Errorf("Expected status 503 with a closed database, got %d", resp.Code)
	}
}

// TestProtectedEndpointsRequireAuth verifies that protected endpoints return 401 without auth
func TestProtectedEndpointsRequireAuth(t *testing.T) {
	db := setupTestDB(t)
	c := &client{t: t, router: setupFullServer(t, db)}

	protectedEndpoints := []struct {
		method string
		path   string
	}{
		{"GET", "/api/links"},
		{"POST", "/api/links"},
		{"GET", "/api/links/abc/stats"},
		{"POST", "/api/links/bulk-delete"},
		{"GET", "/api/export"},
		{"POST", "/api/import"},
		{"GET", "/api/admin/overview"},
	}

	for _, endpoint := range protectedEndpoints {
		t.Run(endpoint.method+" "+endpoint.path, func(t *testing.T) {
			resp := c.do(endpoint.method, endpoint.path, nil)
			if resp.Code != http.StatusUnauthorized {
				t.Errorf("Expected status 401 for %s %s, got %d", endpoint.method, endpoint.path, resp.Code)
			}
		})
	}
}

// TestPublicEndpointsNoAuth verifies that public endpoints don't require auth
func TestPublicEndpointsNoAuth(t *testing.T) {
	db := setupTestDB(t)
	c := &client{t: t, router: setupFullServer(t, db)}

	publicEndpoints := []struct {
		method       string
		path         string
		expectedCode int
	}{
		{"GET", "/health", http.StatusOK},
		{"GET", "/auth/me", http.StatusOK},
		{"POST", "/auth/login", http.StatusBadRequest},    // Bad request (no body), but not 401
		{"GET", "/nonexistent-slug", http.StatusNotFound}, // 404 for missing link, but not 401
	}

	for _, endpoint := range publicEndpoints {
		t.Run(endpoint.method+" "+endpoint.path, func(t *testing.T) {
			resp := c.do(endpoint.method, endpoint.path, nil)
			if resp.Code != endpoint.expectedCode {
				t.Errorf("Expected status %d for %s %s, got %d", endpoint.expectedCode, endpoint.method, endpoint.path, resp.Code)
			}
		})
	}
}

// TestLinkLifecycle walks a link from creation through redirects to stats and deletion
func TestLinkLifecycle(t *testing.T) {
	db := setupTestDB(t)
	c := &client{t: t, router: setupFullServer(t, db)}
	c.login()

	resp := c.do("POST", "/api/links", map[string]interface{}{
		"url":        "example.com/docs",
		"max_clicks": 2,
	})
	if resp.Code != http.StatusCreated {
		t.Fatalf("Expected status 201, got %d: %s", resp.Code, resp.Body.String())
	}
	var link links.LinkResponse
	json.Unmarshal(resp.Body.Bytes(), &link)
	if len(link.Slug) != 8 || link.Title != "Title_1" || link.ShortURL != "https://sl.sh/"+link.Slug {
		t.Fatalf("Unexpected link: %+v", link)
	}

	// Redirects are public
	anon := &client{t: t, router: c.router}
	for i := 0; i < 2; i++ {
		resp := anon.do("GET", "/"+link.Slug, nil)
		if resp.Code != http.StatusTemporaryRedirect {
			t.Fatalf("Redirect %d: expected status 307, got %d", i, resp.Code)
		}
		if loc := resp.Header().Get("Location"); loc != "https://example.com/docs" {
			t.Errorf("Unexpected Location %s", loc)
		}
	}
	if resp := anon.do("GET", "/"+link.Slug, nil); resp.Code != http.StatusGone {
		t.Errorf("Expected status 410 once capped, got %d", resp.Code)
	}

	resp = c.do("GET", "/api/links/"+link.Slug+"/stats", nil)
	if resp.Code != http.StatusOK {
		t.Fatalf("Expected status 200, got %d: %s", resp.Code, resp.Body.String())
	}
	var report stats.LinkStatsResponse
	json.Unmarshal(resp.Body.Bytes(), &report)
	if report.TotalClicks != 2 || report.Clicks != 2 {
		t.Errorf("Expected 2 clicks, got %+v", report)
	}
	if len(report.TopReferrers) != 1 || report.TopReferrers[0].Name != stats.DirectReferrer {
		t.Errorf("Expected direct referrer, got %+v", report.TopReferrers)
	}
	if len(report.Browsers) != 1 || report.Browsers[0].Name != "Firefox" {
		t.Errorf("Expected Firefox, got %+v", report.Browsers)
	}

	resp = c.do("GET", "/api/admin/overview", nil)
	if resp.Code != http.StatusOK || !bytes.Contains(resp.Body.Bytes(), []byte(`"capped_links":1`)) {
		t.Errorf("Unexpected overview: %d %s", resp.Code, resp.Body.String())
	}

	if resp := c.do("DELETE", "/api/links/"+link.Slug, nil); resp.Code != http.StatusNoContent {
		t.Errorf("Expected status 204, got %d", resp.Code)
	}
	if resp := anon.do("GET", "/"+link.Slug, nil); resp.Code != http.StatusNotFound {
		t.Errorf("Expected status 404 after delete, got %d", resp.Code)
	}

	if resp := c.do("POST", "/auth/logout", nil); resp.Code != http.StatusOK {
		t.Errorf("Expected status 200 on logout, got %d", resp.Code)
	}
}
