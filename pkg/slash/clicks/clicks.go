// Package clicks turns redirect request metadata into stored click events.
package clicks

import (
	"net/http"
	"net/url"
	"strings"
	"time"
	"unicode/utf8"

	"github.com/mssola/useragent"
	"github.com/slashurl/slash/pkg/slash/models"
	"golang.org/x/text/language"
	"gorm.io/gorm"
)

const (
	DeviceBot     = "bot"
	DeviceTablet  = "tablet"
	DeviceMobile  = "mobile"
	DeviceDesktop = "desktop"

	maxUserAgentLength = 512
	maxNameLength      = 64
)

// RequestInfo is the raw request metadata a click is derived from.
type RequestInfo struct {
	UserAgent      string
	Referer        string
	AcceptLanguage string
}

// FromRequest extracts RequestInfo from an HTTP request.
func FromRequest(r *http.Request) RequestInfo {
	return RequestInfo{
		UserAgent:      r.UserAgent(),
		Referer:        r.Referer(),
		AcceptLanguage: r.Header.Get("Accept-Language"),
	}
}

// Metadata holds the derived click fields. Nil means unknown.
type Metadata struct {
	UserAgent *string
	Referer   *string
	Language  *string
	Device    *string
	Browser   *string
	OS        *string
}

// Parse derives click metadata from info. It never fails; anything that
// cannot be recognized is left nil.
func Parse(info RequestInfo) Metadata {
	m := Metadata{
		Referer:  NormalizeReferer(info.Referer),
		Language: PrimaryLanguage(info.AcceptLanguage),
	}

	ua := strings.TrimSpace(info.UserAgent)
	if ua == "" {
		return m
	}
	m.UserAgent = ptr(truncate(ua, maxUserAgentLength))

	parsed := useragent.New(ua)
	m.Device = ptr(deviceType(parsed, ua))

	if name, _ := parsed.Browser(); name != "" {
		m.Browser = ptr(truncate(name, maxNameLength))
	}
	if os := parsed.OSInfo().Name; os != "" {
		m.OS = ptr(truncate(os, maxNameLength))
	}
	return m
}

func deviceType(ua *useragent.UserAgent, raw string) string {
	switch {
	case ua.Bot():
		return DeviceBot
	case strings.Contains(raw, "iPad") || strings.Contains(raw, "Tablet") ||
		(strings.Contains(raw, "Android") && !strings.Contains(raw, "Mobile")):
		return DeviceTablet
	case ua.Mobile():
		return DeviceMobile
	default:
		return DeviceDesktop
	}
}

// NormalizeReferer reduces a Referer header to its lowercase host without a
// leading "www.". Unparseable or host-less values yield nil.
func NormalizeReferer(raw string) *string {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return nil
	}
	if !strings.Contains(raw, "://") {
		raw = "https://" + raw
	}

	u, err := url.Parse(raw)
	if err != nil {
		return nil
	}
	host := strings.ToLower(strings.TrimSuffix(u.Hostname(), "."))
	host = strings.TrimPrefix(host, "www.")
	if host == "" {
		return nil
	}
	return ptr(truncate(host, 255))
}

// PrimaryLanguage returns the highest-weighted tag of an Accept-Language
// header, or nil when the header is absent or unparseable.
func PrimaryLanguage(header string) *string {
	if strings.TrimSpace(header) == "" {
		return nil
	}
	tags, _, err := language.ParseAcceptLanguage(header)
	if err != nil || len(tags) == 0 {
		return nil
	}
	if tags[0] == language.Und {
		return nil
	}
	return ptr(tags[0].String())
}

// Record stores a click for linkID. It must run inside the transaction that
// incremented the link's counter so both persist or neither does.
func Record(tx *gorm.DB, linkID uint, info RequestInfo, at time.Time) (*models.Click, error) {
	m := Parse(info)
	click := models.Click{
		LinkID:    linkID,
		ClickedAt: at.UTC(),
		UserAgent: m.UserAgent,
		Referer:   m.Referer,
		Language:  m.Language,
		Device:    m.Device,
		Browser:   m.Browser,
		OS:        m.OS,
	}
	if err := tx.Create(&click).Error; err != nil {
		return nil, err
	}
	return &click, nil
}

func ptr(s string) *string {
	return &s
}

// truncate cuts s to at most n bytes without splitting a rune.
func truncate(s string, n int) string {
	if len(s) <= n {
		return s
	}
	s = s[:n]
	for !utf8.ValidString(s) {
		s = s[:len(s)-1]
	}
	return s
}
