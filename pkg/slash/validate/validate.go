// Package validate normalizes and rejects user-supplied link fields before
// anything touches storage.
package validate

import (
	"encoding/json"
	"fmt"
	"net/netip"
	"net/url"
	"regexp"
	"strings"
	"time"
	"unicode"
	"unicode/utf8"

	"github.com/slashurl/slash/pkg/slash/apperr"
)

const (
	MinSlugLength  = 3
	MaxSlugLength  = 64
	MaxTitleLength = 64
	MaxBulkSlugs   = 100
)

// ReservedSlugs cannot be used as a slug, alone or followed by '-' or '_'.
var ReservedSlugs = []string{"admin", "health", "static", "assets", "api"}

var slugRegex = regexp.MustCompile(`^[a-zA-Z0-9_-]+$`)

// schemeRegex matches an RFC 3986 scheme prefix.
var schemeRegex = regexp.MustCompile(`^[A-Za-z][A-Za-z0-9+.-]*:`)

// hostPortRegex matches "host:port" inputs, which carry no scheme.
var hostPortRegex = regexp.MustCompile(`^[^:/?#]+:[0-9]+([/?#]|$)`)

// URL trims raw, defaults the scheme to https and rejects anything that is not
// an absolute http(s) URL pointing at a public host.
func URL(raw string) (string, error) {
	candidate := strings.TrimSpace(raw)
	if candidate == "" {
		return "", apperr.Validation("url", "URL is required")
	}
	if strings.IndexFunc(candidate, unicode.IsSpace) >= 0 {
		return "", apperr.Validation("url", "URL must not contain whitespace")
	}
	if !hasScheme(candidate) {
		candidate = "https://" + candidate
	}

	u, err := url.Parse(candidate)
	if err != nil {
		return "", apperr.Validation("url", "URL is malformed")
	}
	if u.Scheme != "http" && u.Scheme != "https" {
		return "", apperr.Validation("url", "URL scheme must be http or https")
	}

	host := u.Hostname()
	if u.Host == "" || host == "" {
		return "", apperr.Validation("url", "URL must include a host")
	}
	if isBlockedHost(host) {
		return "", apperr.Validation("url", "URL must not point to a local or private address")
	}

	return candidate, nil
}

// hasScheme reports whether raw starts with a scheme. "host:port" does not
// count as one.
func hasScheme(raw string) bool {
	return schemeRegex.MatchString(raw) && !hostPortRegex.MatchString(raw)
}

// isBlockedHost reports whether host is localhost or a non-public IP literal.
// Hostnames are not resolved.
func isBlockedHost(host string) bool {
	lower := strings.ToLower(strings.TrimSuffix(host, "."))
	if lower == "localhost" || strings.HasSuffix(lower, ".localhost") {
		return true
	}

	addr, err := netip.ParseAddr(host)
	if err != nil {
		return false
	}
	addr = addr.WithZone("").Unmap()
	return addr.IsLoopback() ||
		addr.IsPrivate() ||
		addr.IsLinkLocalUnicast() ||
		addr.IsLinkLocalMulticast() ||
		addr.IsUnspecified()
}

// Slug checks length, the reserved prefixes and the character set.
func Slug(raw string) (string, error) {
	n := len(raw)
	if n < MinSlugLength {
		return "", apperr.Validation("slug", fmt.Sprintf("Slug must be at least %d characters", MinSlugLength))
	}
	if n > MaxSlugLength {
		return "", apperr.Validation("slug", fmt.Sprintf("Slug must be at most %d characters", MaxSlugLength))
	}
	if strings.HasPrefix(raw, "__") {
		return "", apperr.Validation("slug", "Slug must not start with '__'")
	}
	if IsReserved(raw) {
		return "", apperr.Validation("slug", "This slug is reserved")
	}
	if !slugRegex.MatchString(raw) {
		return "", apperr.Validation("slug", "Slug must contain only letters, numbers, hyphens, and underscores")
	}
	return raw, nil
}

// IsReserved reports whether slug collides with a reserved route name.
func IsReserved(slug string) bool {
	lower := strings.ToLower(slug)
	for _, r := range ReservedSlugs {
		if lower == r || strings.HasPrefix(lower, r+"-") || strings.HasPrefix(lower, r+"_") {
			return true
		}
	}
	return false
}

// Title trims raw and enforces 1..MaxTitleLength characters.
func Title(raw string) (string, error) {
	title := strings.TrimSpace(raw)
	if title == "" {
		return "", apperr.Validation("title", "Title must not be empty")
	}
	if utf8.RuneCountInString(title) > MaxTitleLength {
		return "", apperr.Validation("title", fmt.Sprintf("Title must be at most %d characters", MaxTitleLength))
	}
	return title, nil
}

// ParseExpiresAt parses an RFC 3339 timestamp. The format requires an explicit
// offset, so timestamps without a timezone are rejected here.
func ParseExpiresAt(raw string) (time.Time, error) {
	ts, err := time.Parse(time.RFC3339Nano, strings.TrimSpace(raw))
	if err != nil {
		return time.Time{}, apperr.Validation("expires_at", "expires_at must be an RFC 3339 timestamp with a timezone")
	}
	return ts, nil
}

// ExpiresAt requires ts to be strictly after now and returns it in UTC.
func ExpiresAt(ts, now time.Time) (time.Time, error) {
	if !ts.After(now) {
		return time.Time{}, apperr.Validation("expires_at", "expires_at must be in the future")
	}
	return ts.UTC(), nil
}

// MaxClicks requires a positive cap.
func MaxClicks(n int64) (int64, error) {
	if n <= 0 {
		return 0, apperr.Validation("max_clicks", "max_clicks must be greater than 0")
	}
	return n, nil
}

// Limit checks a page size, substituting def when n is zero.
func Limit(field string, n, def, upper int) (int, error) {
	if n == 0 {
		return def, nil
	}
	if n < 1 || n > upper {
		return 0, apperr.Validation(field, fmt.Sprintf("%s must be between 1 and %d", field, upper))
	}
	return n, nil
}

// BulkSlugs decodes a bulk-delete slug list. Entries are only checked
// against the slug character set.
func BulkSlugs(raw json.RawMessage) ([]string, error) {
	trimmed := strings.TrimSpace(string(raw))
	if trimmed == "" || trimmed == "null" {
		return nil, apperr.Validation("slugs", "slugs is required")
	}
	if strings.HasPrefix(trimmed, `"`) {
		return nil, apperr.Validation("slugs", "slugs must be a list of strings, not a string")
	}

	var slugs []string
	if err := json.Unmarshal(raw, &slugs); err != nil {
		return nil, apperr.Validation("slugs", "slugs must be a list of strings")
	}
	return SlugList(slugs)
}

// SlugList checks the size of a bulk slug list and each entry's character set.
func SlugList(slugs []string) ([]string, error) {
	if len(slugs) == 0 {
		return nil, apperr.Validation("slugs", "slugs must not be empty")
	}
	if len(slugs) > MaxBulkSlugs {
		return nil, apperr.Validation("slugs", fmt.Sprintf("at most %d slugs can be deleted at once", MaxBulkSlugs))
	}
	for _, s := range slugs {
		if !slugRegex.MatchString(s) {
			return nil, apperr.Validation("slugs", fmt.Sprintf("invalid slug %q", s))
		}
	}
	return slugs, nil
}
