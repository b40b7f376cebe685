package models

import "time"

// Click is one recorded redirect. It refers to its link by id only; clicks
// for a link are a query on link_id, and deleting the link cascades.
type Click struct {
	ID        uint      `gorm:"primarykey" json:"id"`
	LinkID    uint      `gorm:"not null;index:ix_clicks_link_id" json:"link_id"`
	ClickedAt time.Time `gorm:"not null" json:"clicked_at"`
	UserAgent *string   `json:"user_agent"`
	Referer   *string   `json:"referer"`
	Language  *string   `json:"language"`
	Device    *string   `json:"device"`
	Browser   *string   `json:"browser"`
	OS        *string   `gorm:"column:os" json:"os"`
}
