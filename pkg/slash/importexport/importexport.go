package importexport

import (
	"context"
	"fmt"
	"time"

	"github.com/slashurl/slash/pkg/slash/apperr"
	"github.com/slashurl/slash/pkg/slash/links"
	"github.com/slashurl/slash/pkg/slash/models"
	"gorm.io/gorm"
)

// ExportLink is the portable form of a link
type ExportLink struct {
	Slug        string  `json:"slug"`
	OriginalURL string  `json:"original_url"`
	Title       string  `json:"title"`
	IsActive    bool    `json:"is_active"`
	ExpiresAt   *string `json:"expires_at"`
	MaxClicks   *int64  `json:"max_clicks"`
	CreatedAt   string  `json:"created_at"`
}

// ImportResult represents the result of an import operation
type ImportResult struct {
	Imported int      `json:"imported"`
	Skipped  int      `json:"skipped"`
	Errors   []string `json:"errors"`
}

// Export returns every link, oldest first.
func Export(ctx context.Context, db *gorm.DB) ([]ExportLink, error) {
	var rows []models.Link
	if err := db.WithContext(ctx).Order("created_at ASC").Order("id ASC").Find(&rows).Error; err != nil {
		return nil, apperr.Internal("list links", err)
	}

	out := make([]ExportLink, len(rows))
	for i, link := range rows {
		out[i] = ExportLink{
			Slug:        link.Slug,
			OriginalURL: link.OriginalURL,
			Title:       link.Title,
			IsActive:    link.IsActive,
			MaxClicks:   link.MaxClicks,
			CreatedAt:   link.CreatedAt.UTC().Format(time.RFC3339),
		}
		if link.ExpiresAt != nil {
			ts := link.ExpiresAt.UTC().Format(time.RFC3339)
			out[i].ExpiresAt = &ts
		}
	}
	return out, nil
}

// Import creates each entry through the link store, so entries get the same
// validation and defaults as links created over the API. Entries that fail
// are skipped and reported; the rest are kept.
func Import(ctx context.Context, svc *links.Service, entries []ExportLink, now time.Time) ImportResult {
	result := ImportResult{Errors: []string{}}

	for i, entry := range entries {
		req := links.CreateLinkRequest{
			URL:      entry.OriginalURL,
			Slug:     links.Value(entry.Slug),
			Title:    links.Value(entry.Title),
			IsActive: links.Value(entry.IsActive),
		}
		if entry.MaxClicks != nil {
			req.MaxClicks = links.Value(*entry.MaxClicks)
		}
		if entry.ExpiresAt != nil {
			if ts, err := time.Parse(time.RFC3339Nano, *entry.ExpiresAt); err == nil && !ts.After(now) {
				result.Errors = append(result.Errors, fmt.Sprintf("link %d (%s): already expired", i, entry.Slug))
				result.Skipped++
				continue
			}
			req.ExpiresAt = links.Value(*entry.ExpiresAt)
		}

		if _, err := svc.CreateLink(ctx, req); err != nil {
			if apperr.KindOf(err) == apperr.KindInternal {
				result.Errors = append(result.Errors, fmt.Sprintf("link %d (%s): internal error", i, entry.Slug))
			} else {
				result.Errors = append(result.Errors, fmt.Sprintf("link %d (%s): %s", i, entry.Slug, err.Error()))
			}
			result.Skipped++
			continue
		}
		result.Imported++
	}
	return result
}
