package stats

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strconv"
	"strings"
	"time"

	"github.com/slashurl/slash/pkg/slash/apperr"
	"github.com/slashurl/slash/pkg/slash/cache"
	"github.com/slashurl/slash/pkg/slash/database"
	"github.com/slashurl/slash/pkg/slash/models"
	"github.com/slashurl/slash/pkg/slash/validate"
	"gorm.io/gorm"
)

const (
	DefaultTop = 10
	MaxTop     = 100

	// DirectReferrer labels clicks that arrived without a Referer header.
	DirectReferrer = "direct"
	// Unknown labels clicks whose user agent could not be classified.
	Unknown = "unknown"
)

// Filters narrow the clicks a report covers. To is exclusive.
type Filters struct {
	From *time.Time
	To   *time.Time
	Top  int
}

// DayCount is the number of clicks on one UTC calendar day.
type DayCount struct {
	Day   string `json:"day" example:"2026-06-01"`
	Count int64  `json:"count"`
}

// NamedCount is the number of clicks sharing a referrer, device, browser or OS.
type NamedCount struct {
	Name  string `json:"name"`
	Count int64  `json:"count"`
}

// LinkStatsResponse is the click report for one link.
type LinkStatsResponse struct {
	Slug             string       `json:"slug"`
	Clicks           int64        `json:"clicks"`
	TotalClicks      int64        `json:"total_clicks"`
	From             *string      `json:"from"`
	To               *string      `json:"to"`
	ClicksByDay      []DayCount   `json:"clicks_by_day"`
	TopReferrers     []NamedCount `json:"top_referrers"`
	Devices          []NamedCount `json:"devices"`
	Browsers         []NamedCount `json:"browsers"`
	OperatingSystems []NamedCount `json:"operating_systems"`
}

// Service aggregates click history on demand.
type Service struct {
	db    *gorm.DB
	cache cache.Cache
	ttl   time.Duration
}

// NewService creates a stats service. A nil cache disables caching.
func NewService(db *gorm.DB, c cache.Cache, ttl time.Duration) *Service {
	return &Service{db: db, cache: c, ttl: ttl}
}

// ParseFilters reads the from, to and top query values. Dates are RFC 3339
// timestamps or YYYY-MM-DD days (UTC midnight).
func ParseFilters(from, to, top string) (Filters, error) {
	var f Filters
	if from != "" {
		ts, err := parseBound("from", from)
		if err != nil {
			return f, err
		}
		f.From = &ts
	}
	if to != "" {
		ts, err := parseBound("to", to)
		if err != nil {
			return f, err
		}
		f.To = &ts
	}
	if top != "" {
		n, err := strconv.Atoi(top)
		if err != nil {
			return f, apperr.Validation("top", "top must be an integer")
		}
		if n < 1 {
			return f, apperr.Validation("top", fmt.Sprintf("top must be between 1 and %d", MaxTop))
		}
		f.Top = n
	}
	return f, nil
}

func parseBound(field, raw string) (time.Time, error) {
	if ts, err := time.Parse(time.RFC3339Nano, raw); err == nil {
		return ts.UTC(), nil
	}
	if ts, err := time.Parse("2006-01-02", raw); err == nil {
		return ts, nil
	}
	return time.Time{}, apperr.Validation(field, field+" must be an RFC 3339 timestamp or a YYYY-MM-DD date")
}

func (f Filters) validate() (Filters, error) {
	top, err := validate.Limit("top", f.Top, DefaultTop, MaxTop)
	if err != nil {
		return f, err
	}
	f.Top = top
	if f.From != nil && f.To != nil && !f.From.Before(*f.To) {
		return f, apperr.Validation("to", "to must be after from")
	}
	return f, nil
}

func formatBound(ts *time.Time) string {
	if ts == nil {
		return ""
	}
	return ts.UTC().Format(time.RFC3339Nano)
}

// GetStats reports the clicks recorded for the link identified by slug.
func (s *Service) GetStats(ctx context.Context, slug string, filters Filters) (*LinkStatsResponse, error) {
	filters, err := filters.validate()
	if err != nil {
		return nil, err
	}

	db := s.db.WithContext(ctx)
	var link models.Link
	if err := db.Where("slug = ?", slug).First(&link).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperr.NotFound("Link")
		}
		return nil, apperr.Internal("load link", err)
	}

	// The counter is part of the key so a new click never serves a stale report.
	key := fmt.Sprintf("stats:%d:%d:%s:%s:%d", link.ID, link.Clicks,
		formatBound(filters.From), formatBound(filters.To), filters.Top)
	if s.cache != nil {
		var cached LinkStatsResponse
		err := s.cache.GetJSON(ctx, key, &cached)
		if err == nil {
			cached.Slug = link.Slug
			return &cached, nil
		}
		if !errors.Is(err, cache.ErrMiss) {
			slog.WarnContext(ctx, "stats cache read failed", "error", err)
		}
	}

	resp, err := s.aggregate(db, &link, filters)
	if err != nil {
		return nil, err
	}

	if s.cache != nil {
		if err := s.cache.SetJSON(ctx, key, resp, s.ttl); err != nil {
			slog.WarnContext(ctx, "stats cache write failed", "error", err)
		}
	}
	return resp, nil
}

func (s *Service) aggregate(db *gorm.DB, link *models.Link, f Filters) (*LinkStatsResponse, error) {
	clicks := func() *gorm.DB {
		q := db.Model(&models.Click{}).Where("link_id = ?", link.ID)
		if f.From != nil {
			q = q.Where("clicked_at >= ?", *f.From)
		}
		if f.To != nil {
			q = q.Where("clicked_at < ?", *f.To)
		}
		return q
	}

	resp := &LinkStatsResponse{
		Slug:             link.Slug,
		Clicks:           link.Clicks,
		ClicksByDay:      []DayCount{},
		TopReferrers:     []NamedCount{},
		Devices:          []NamedCount{},
		Browsers:         []NamedCount{},
		OperatingSystems: []NamedCount{},
	}
	if f.From != nil {
		v := formatBound(f.From)
		resp.From = &v
	}
	if f.To != nil {
		v := formatBound(f.To)
		resp.To = &v
	}

	if err := clicks().Count(&resp.TotalClicks).Error; err != nil {
		return nil, apperr.Internal("count clicks", err)
	}
	if resp.TotalClicks == 0 {
		return resp, nil
	}

	var days []struct {
		Day   string
		Total int64
	}
	err := clicks().
		Select(database.DayExpr(db, "clicked_at") + " AS day, COUNT(*) AS total").
		Group("day").
		Order("day ASC").
		Scan(&days).Error
	if err != nil {
		return nil, apperr.Internal("group clicks by day", err)
	}
	for _, d := range days {
		resp.ClicksByDay = append(resp.ClicksByDay, DayCount{Day: d.Day, Count: d.Total})
	}

	groups := []struct {
		column   string
		fallback string
		limit    int
		dest     *[]NamedCount
	}{
		{"referer", DirectReferrer, f.Top, &resp.TopReferrers},
		{"device", Unknown, 0, &resp.Devices},
		{"browser", Unknown, 0, &resp.Browsers},
		{"os", Unknown, 0, &resp.OperatingSystems},
	}
	for _, g := range groups {
		counts, err := countBy(clicks(), g.column, g.fallback, g.limit)
		if err != nil {
			return nil, apperr.Internal("group clicks by "+g.column, err)
		}
		*g.dest = counts
	}
	return resp, nil
}

// countBy groups q by column, labelling NULL and empty values with fallback,
// ordered by count descending then name ascending. A positive limit caps the
// number of groups.
func countBy(q *gorm.DB, column, fallback string, limit int) ([]NamedCount, error) {
	expr := fmt.Sprintf("COALESCE(NULLIF(%s, ''), '%s')", column, strings.ReplaceAll(fallback, "'", "''"))

	var rows []struct {
		Name  string
		Total int64
	}
	q = q.Select(expr + " AS name, COUNT(*) AS total").
		Group("name").
		Order("total DESC").
		Order("name ASC")
	if limit > 0 {
		q = q.Limit(limit)
	}
	if err := q.Scan(&rows).Error; err != nil {
		return nil, err
	}

	counts := make([]NamedCount, len(rows))
	for i, r := range rows {
		counts[i] = NamedCount{Name: r.Name, Count: r.Total}
	}
	return counts, nil
}
