package models

import "time"

// Link is a short slug that redirects to OriginalURL.
//
// Clicks is the authoritative redirect counter. It is only ever changed by
// an atomic increment, never by writing a value read earlier.
type Link struct {
	ID          uint       `gorm:"primarykey" json:"id"`
	Slug        string     `gorm:"size:64;uniqueIndex;not null" json:"slug"`
	OriginalURL string     `gorm:"not null" json:"original_url"`
	Title       string     `gorm:"size:64;uniqueIndex;not null" json:"title"`
	Clicks      int64      `gorm:"not null" json:"clicks"`
	CreatedAt   time.Time  `gorm:"not null;index:ix_links_created_at" json:"created_at"`
	IsActive    bool       `gorm:"not null;index:ix_links_is_active" json:"is_active"`
	ExpiresAt   *time.Time `json:"expires_at"`
	MaxClicks   *int64     `json:"max_clicks"`
}

// Expired reports whether the link's expiry has passed at now.
func (l *Link) Expired(now time.Time) bool {
	return l.ExpiresAt != nil && !l.ExpiresAt.After(now)
}

// CapReached reports whether the link has used up its click allowance.
func (l *Link) CapReached() bool {
	return l.MaxClicks != nil && l.Clicks >= *l.MaxClicks
}
