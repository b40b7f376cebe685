package links

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"path/filepath"
	"testing"
	"time"

	"github.com/slashurl/slash/pkg/slash/apperr"
	"github.com/slashurl/slash/pkg/slash/database"
	"github.com/slashurl/slash/pkg/slash/models"
	"github.com/slashurl/slash/pkg/slash/slugs"
	"gorm.io/gorm"
)

var testNow = time.Date(2026, 6, 1, 9, 0, 0, 0, time.UTC)

func setupTestDB(t *testing.T) *gorm.DB {
	db, err := database.Connect(database.Config{URL: filepath.Join(t.TempDir(), "test.db")})
	if err != nil {
		t.Fatalf("Failed to connect to test database: %v", err)
	}
	t.Cleanup(func() { database.Close(db) })
	if err := database.Migrate(db, nil); err != nil {
		t.Fatalf("Failed to run migrations: %v", err)
	}
	return db
}

// setupTestService returns a service whose clock advances one second per call
// so creation order is deterministic.
func setupTestService(t *testing.T) (*Service, *gorm.DB) {
	db := setupTestDB(t)
	svc := NewService(db)
	tick := testNow
	svc.now = func() time.Time {
		tick = tick.Add(time.Second)
		return tick
	}
	return svc, db
}

func mustCreate(t *testing.T, svc *Service, req CreateLinkRequest) *models.Link {
	t.Helper()
	link, err := svc.CreateLink(context.Background(), req)
	if err != nil {
		t.Fatalf("Failed to create link: %v", err)
	}
	return link
}

func countLinks(t *testing.T, db *gorm.DB) int64 {
	var n int64
	db.Model(&models.Link{}).Count(&n)
	return n
}

func TestCreateLinkDefaults(t *testing.T) {
	svc, _ := setupTestService(t)

	link := mustCreate(t, svc, CreateLinkRequest{URL: "example.com/docs"})

	if link.OriginalURL != "https://example.com/docs" {
		t.Errorf("Expected normalized URL, got %q", link.OriginalURL)
	}
	if link.Slug != slugs.Generate("https://example.com/docs") {
		t.Errorf("Expected generated slug, got %q", link.Slug)
	}
	if link.Title != "Title_1" {
		t.Errorf("Expected title Title_1, got %q", link.Title)
	}
	if !link.IsActive {
		t.Error("Expected new link to be active")
	}
	if link.Clicks != 0 {
		t.Errorf("Expected 0 clicks, got %d", link.Clicks)
	}
	if link.ID == 0 {
		t.Error("Expected link ID to be set")
	}
}

func TestCreateLinkWithAllFields(t *testing.T) {
	svc, db := setupTestService(t)

	link := mustCreate(t, svc, CreateLinkRequest{
		URL:       "https://example.com",
		Slug:      Value("launch"),
		Title:     Value("  Launch page "),
		IsActive:  Value(false),
		ExpiresAt: Value("2027-01-01T00:00:00+01:00"),
		MaxClicks: Value(int64(10)),
	})

	var stored models.Link
	if err := db.First(&stored, link.ID).Error; err != nil {
		t.Fatalf("Failed to load link: %v", err)
	}
	if stored.Slug != "launch" || stored.Title != "Launch page" {
		t.Errorf("Unexpected slug/title %q/%q", stored.Slug, stored.Title)
	}
	if stored.IsActive {
		t.Error("Expected is_active=false to be stored")
	}
	if stored.ExpiresAt == nil || !stored.ExpiresAt.Equal(time.Date(2026, 12, 31, 23, 0, 0, 0, time.UTC)) {
		t.Errorf("Unexpected expires_at %v", stored.ExpiresAt)
	}
	if stored.MaxClicks == nil || *stored.MaxClicks != 10 {
		t.Errorf("Unexpected max_clicks %v", stored.MaxClicks)
	}
}

func TestCreateLinkNullOrBlankSlugAndTitleAreGenerated(t *testing.T) {
	svc, _ := setupTestService(t)

	a := mustCreate(t, svc, CreateLinkRequest{URL: "https://a.example", Slug: Null[string](), Title: Null[string]()})
	b := mustCreate(t, svc, CreateLinkRequest{URL: "https://b.example", Slug: Value("   "), Title: Value("")})

	if a.Slug != slugs.Generate("https://a.example") || b.Slug != slugs.Generate("https://b.example") {
		t.Errorf("Expected generated slugs, got %q and %q", a.Slug, b.Slug)
	}
	if a.Title != "Title_1" || b.Title != "Title_2" {
		t.Errorf("Expected Title_1 and Title_2, got %q and %q", a.Title, b.Title)
	}
}

func TestCreateLinkDefaultTitleSequence(t *testing.T) {
	svc, _ := setupTestService(t)

	mustCreate(t, svc, CreateLinkRequest{URL: "https://one.example", Title: Value("Title_7")})
	mustCreate(t, svc, CreateLinkRequest{URL: "https://two.example", Title: Value("Title_x")})
	mustCreate(t, svc, CreateLinkRequest{URL: "https://three.example", Title: Value("My Title_99")})

	link := mustCreate(t, svc, CreateLinkRequest{URL: "https://four.example"})
	if link.Title != "Title_8" {
		t.Errorf("Expected Title_8, got %q", link.Title)
	}
}

func TestCreateLinkSlugConflict(t *testing.T) {
	svc, db := setupTestService(t)

	mustCreate(t, svc, CreateLinkRequest{URL: "https://example.com", Slug: Value("abc123")})

	_, err := svc.CreateLink(context.Background(), CreateLinkRequest{URL: "https://example.org", Slug: Value("abc123")})
	if !apperr.Is(err, apperr.KindConflict) {
		t.Fatalf("Expected conflict, got %v", err)
	}
	if countLinks(t, db) != 1 {
		t.Errorf("Expected failed create to store nothing, got %d links", countLinks(t, db))
	}
}

func TestCreateLinkGeneratedSlugCollisionIsSalted(t *testing.T) {
	svc, _ := setupTestService(t)
	url := "https://example.com/collide"

	// Occupy the deterministic slug with a different destination.
	mustCreate(t, svc, CreateLinkRequest{URL: "https://other.example", Slug: Value(slugs.Generate(url))})

	link := mustCreate(t, svc, CreateLinkRequest{URL: url})
	if link.Slug == slugs.Generate(url) {
		t.Error("Expected a salted slug after collision")
	}
	if len(link.Slug) != slugs.Length {
		t.Errorf("Expected slug length %d, got %d", slugs.Length, len(link.Slug))
	}
}

func TestCreateLinkSameURLTwice(t *testing.T) {
	svc, _ := setupTestService(t)

	a := mustCreate(t, svc, CreateLinkRequest{URL: "https://example.com"})
	b := mustCreate(t, svc, CreateLinkRequest{URL: "https://example.com"})
	if a.Slug == b.Slug {
		t.Errorf("Expected distinct slugs, both were %q", a.Slug)
	}
}

func TestCreateLinkSlugExhaustion(t *testing.T) {
	svc, _ := setupTestService(t)
	url := "https://example.com/stuck"
	svc.slugs = &slugs.Generator{Salt: func() (string, error) { return "same", nil }}

	mustCreate(t, svc, CreateLinkRequest{URL: "https://a.example", Slug: Value(slugs.Generate(url))})
	mustCreate(t, svc, CreateLinkRequest{URL: "https://b.example", Slug: Value(slugs.Generate(url + "same"))})

	_, err := svc.CreateLink(context.Background(), CreateLinkRequest{URL: url})
	if !apperr.Is(err, apperr.KindInternal) {
		t.Errorf("Expected internal error after exhausting attempts, got %v", err)
	}
}

func TestCreateLinkTitleConflict(t *testing.T) {
	svc, _ := setupTestService(t)

	mustCreate(t, svc, CreateLinkRequest{URL: "https://example.com", Title: Value("Docs")})
	_, err := svc.CreateLink(context.Background(), CreateLinkRequest{URL: "https://example.org", Title: Value(" Docs ")})

	var appErr *apperr.Error
	if !errors.As(err, &appErr) || appErr.Kind != apperr.KindConflict {
		t.Fatalf("Expected conflict, got %v", err)
	}
	if appErr.Field != "title" {
		t.Errorf("Expected conflict on title, got %q", appErr.Field)
	}
}

func TestCreateLinkValidationStoresNothing(t *testing.T) {
	svc, db := setupTestService(t)

	tests := []struct {
		name string
		req  CreateLinkRequest
	}{
		{"private url", CreateLinkRequest{URL: "http://10.0.0.1"}},
		{"reserved slug", CreateLinkRequest{URL: "https://example.com", Slug: Value("admin")}},
		{"short slug", CreateLinkRequest{URL: "https://example.com", Slug: Value("ab")}},
		{"past expiry", CreateLinkRequest{URL: "https://example.com", ExpiresAt: Value("2020-01-01T00:00:00Z")}},
		{"naive expiry", CreateLinkRequest{URL: "https://example.com", ExpiresAt: Value("2030-01-01T00:00:00")}},
		{"zero cap", CreateLinkRequest{URL: "https://example.com", MaxClicks: Value(int64(0))}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := svc.CreateLink(context.Background(), tt.req)
			if !apperr.Is(err, apperr.KindValidation) {
				t.Errorf("Expected validation error, got %v", err)
			}
		})
	}
	if countLinks(t, db) != 0 {
		t.Errorf("Expected no links stored, got %d", countLinks(t, db))
	}
}

func TestUpdateLink(t *testing.T) {
	svc, _ := setupTestService(t)
	mustCreate(t, svc, CreateLinkRequest{URL: "https://example.com", Slug: Value("before"), Title: Value("Before")})

	link, err := svc.UpdateLink(context.Background(), "before", UpdateLinkRequest{
		Slug:      Value("after"),
		IsActive:  Value(false),
		MaxClicks: Value(int64(3)),
	})
	if err != nil {
		t.Fatalf("Failed to update link: %v", err)
	}
	if link.Slug != "after" || link.IsActive || link.MaxClicks == nil || *link.MaxClicks != 3 {
		t.Errorf("Unexpected updated link: %+v", link)
	}
	if link.Title != "Before" {
		t.Errorf("Expected title to be unchanged, got %q", link.Title)
	}

	if _, err := svc.GetLink(context.Background(), "before"); !apperr.Is(err, apperr.KindNotFound) {
		t.Errorf("Expected old slug to be gone, got %v", err)
	}
}

func TestUpdateLinkNullHandling(t *testing.T) {
	svc, _ := setupTestService(t)
	mustCreate(t, svc, CreateLinkRequest{URL: "https://example.com", Slug: Value("nulls"), Title: Value("Nulls")})

	for _, req := range []UpdateLinkRequest{
		{IsActive: Null[bool]()},
		{ExpiresAt: Null[string]()},
		{MaxClicks: Null[int64]()},
	} {
		if _, err := svc.UpdateLink(context.Background(), "nulls", req); !apperr.Is(err, apperr.KindValidation) {
			t.Errorf("Expected validation error for %+v, got %v", req, err)
		}
	}

	link, err := svc.UpdateLink(context.Background(), "nulls", UpdateLinkRequest{Slug: Null[string](), Title: Value("  ")})
	if err != nil {
		t.Fatalf("Expected null slug and blank title to be ignored, got %v", err)
	}
	if link.Slug != "nulls" || link.Title != "Nulls" {
		t.Errorf("Expected no change, got %q/%q", link.Slug, link.Title)
	}
}

func TestUpdateLinkFromJSON(t *testing.T) {
	svc, _ := setupTestService(t)
	mustCreate(t, svc, CreateLinkRequest{URL: "https://example.com", Slug: Value("json"), Title: Value("JSON")})

	var req UpdateLinkRequest
	if err := json.Unmarshal([]byte(`{"title":"Renamed","expires_at":"2030-01-01T00:00:00Z"}`), &req); err != nil {
		t.Fatalf("Failed to decode request: %v", err)
	}
	if req.Slug.Set || req.IsActive.Set || req.MaxClicks.Set {
		t.Errorf("Expected absent fields to be unset: %+v", req)
	}

	link, err := svc.UpdateLink(context.Background(), "json", req)
	if err != nil {
		t.Fatalf("Failed to update link: %v", err)
	}
	if link.Title != "Renamed" || link.ExpiresAt == nil {
		t.Errorf("Unexpected updated link: %+v", link)
	}
}

func TestUpdateLinkConflictAndNotFound(t *testing.T) {
	svc, _ := setupTestService(t)
	mustCreate(t, svc, CreateLinkRequest{URL: "https://a.example", Slug: Value("first"), Title: Value("First")})
	mustCreate(t, svc, CreateLinkRequest{URL: "https://b.example", Slug: Value("second"), Title: Value("Second")})

	if _, err := svc.UpdateLink(context.Background(), "second", UpdateLinkRequest{Slug: Value("first")}); !apperr.Is(err, apperr.KindConflict) {
		t.Errorf("Expected slug conflict, got %v", err)
	}
	if _, err := svc.UpdateLink(context.Background(), "second", UpdateLinkRequest{Title: Value("First")}); !apperr.Is(err, apperr.KindConflict) {
		t.Errorf("Expected title conflict, got %v", err)
	}
	if _, err := svc.UpdateLink(context.Background(), "second", UpdateLinkRequest{Slug: Value("second"), Title: Value("Second")}); err != nil {
		t.Errorf("Expected renaming to the current values to succeed, got %v", err)
	}
	if _, err := svc.UpdateLink(context.Background(), "missing", UpdateLinkRequest{IsActive: Value(true)}); !apperr.Is(err, apperr.KindNotFound) {
		t.Errorf("Expected not found, got %v", err)
	}
}

func TestListLinks(t *testing.T) {
	svc, _ := setupTestService(t)
	for i := 0; i < 5; i++ {
		mustCreate(t, svc, CreateLinkRequest{URL: fmt.Sprintf("https://example.com/%d", i), Slug: Value(fmt.Sprintf("link-%d", i))})
	}

	links, total, err := svc.ListLinks(context.Background(), 3)
	if err != nil {
		t.Fatalf("Failed to list links: %v", err)
	}
	if total != 5 {
		t.Errorf("Expected total 5, got %d", total)
	}
	if len(links) != 3 {
		t.Fatalf("Expected 3 links, got %d", len(links))
	}
	for i, want := range []string{"link-4", "link-3", "link-2"} {
		if links[i].Slug != want {
			t.Errorf("Expected links[%d] = %s, got %s", i, want, links[i].Slug)
		}
	}

	all, _, err := svc.ListLinks(context.Background(), 0)
	if err != nil || len(all) != 5 {
		t.Errorf("Expected default limit to return all 5 links, got %d (%v)", len(all), err)
	}

	if _, _, err := svc.ListLinks(context.Background(), MaxListLimit+1); !apperr.Is(err, apperr.KindValidation) {
		t.Errorf("Expected validation error for oversized limit, got %v", err)
	}
}

func TestDeleteLinks(t *testing.T) {
	svc, db := setupTestService(t)
	a := mustCreate(t, svc, CreateLinkRequest{URL: "https://a.example", Slug: Value("del-a")})
	mustCreate(t, svc, CreateLinkRequest{URL: "https://b.example", Slug: Value("del-b")})
	mustCreate(t, svc, CreateLinkRequest{URL: "https://c.example", Slug: Value("keep")})

	db.Create(&models.Click{LinkID: a.ID, ClickedAt: testNow})

	deleted, err := svc.DeleteLinks(context.Background(), []string{"del-a", "del-b", "never-existed"})
	if err != nil {
		t.Fatalf("Failed to delete links: %v", err)
	}
	if deleted != 2 {
		t.Errorf("Expected 2 deleted, got %d", deleted)
	}

	var clicks int64
	db.Model(&models.Click{}).Where("link_id = ?", a.ID).Count(&clicks)
	if clicks != 0 {
		t.Errorf("Expected clicks to be removed with their link, got %d", clicks)
	}

	again, err := svc.DeleteLinks(context.Background(), []string{"del-a", "del-b"})
	if err != nil || again != 0 {
		t.Errorf("Expected repeat delete to be a no-op, got %d (%v)", again, err)
	}
	if countLinks(t, db) != 1 {
		t.Errorf("Expected 1 link left, got %d", countLinks(t, db))
	}
}

func TestDeleteLink(t *testing.T) {
	svc, _ := setupTestService(t)
	mustCreate(t, svc, CreateLinkRequest{URL: "https://a.example", Slug: Value("single")})

	if err := svc.DeleteLink(context.Background(), "single"); err != nil {
		t.Fatalf("Failed to delete link: %v", err)
	}
	if err := svc.DeleteLink(context.Background(), "single"); !apperr.Is(err, apperr.KindNotFound) {
		t.Errorf("Expected not found on second delete, got %v", err)
	}
}
