package links

import (
	"bytes"
	"encoding/json"
	"strings"
	"time"

	"github.com/slashurl/slash/pkg/slash/apperr"
	"github.com/slashurl/slash/pkg/slash/validate"
)

// Field is a JSON field that distinguishes "absent" from "null" from a value.
type Field[T any] struct {
	Set   bool
	Null  bool
	Value T
}

// Value returns a Field holding v.
func Value[T any](v T) Field[T] {
	return Field[T]{Set: true, Value: v}
}

// Null returns a Field that was explicitly set to null.
func Null[T any]() Field[T] {
	return Field[T]{Set: true, Null: true}
}

// Present reports whether the field carries a non-null value.
func (f Field[T]) Present() bool {
	return f.Set && !f.Null
}

func (f *Field[T]) UnmarshalJSON(data []byte) error {
	f.Set = true
	if bytes.Equal(bytes.TrimSpace(data), []byte("null")) {
		f.Null = true
		return nil
	}
	return json.Unmarshal(data, &f.Value)
}

func (f Field[T]) MarshalJSON() ([]byte, error) {
	if !f.Present() {
		return []byte("null"), nil
	}
	return json.Marshal(f.Value)
}

// CreateLinkRequest represents the request to create a link.
// A null or blank slug or title means "generate one".
type CreateLinkRequest struct {
	URL       string        `json:"url"`
	Slug      Field[string] `json:"slug" swaggertype:"string"`
	Title     Field[string] `json:"title" swaggertype:"string"`
	IsActive  Field[bool]   `json:"is_active" swaggertype:"boolean"`
	ExpiresAt Field[string] `json:"expires_at" swaggertype:"string" format:"date-time"`
	MaxClicks Field[int64]  `json:"max_clicks" swaggertype:"integer"`
}

// UpdateLinkRequest represents a partial update. Absent fields are left
// unchanged. A null or blank slug or title is ignored, but null is rejected
// for is_active, expires_at and max_clicks.
type UpdateLinkRequest struct {
	Slug      Field[string] `json:"slug" swaggertype:"string"`
	Title     Field[string] `json:"title" swaggertype:"string"`
	IsActive  Field[bool]   `json:"is_active" swaggertype:"boolean"`
	ExpiresAt Field[string] `json:"expires_at" swaggertype:"string" format:"date-time"`
	MaxClicks Field[int64]  `json:"max_clicks" swaggertype:"integer"`
}

type createInput struct {
	url       string
	slug      *string
	title     *string
	isActive  bool
	expiresAt *time.Time
	maxClicks *int64
}

type updateInput struct {
	slug    *string
	title   *string
	updates map[string]interface{}
}

// optionalText returns nil for absent, null or blank values.
func optionalText(f Field[string]) *string {
	if !f.Present() || strings.TrimSpace(f.Value) == "" {
		return nil
	}
	v := f.Value
	return &v
}

func (r CreateLinkRequest) validate(now time.Time) (createInput, error) {
	in := createInput{isActive: true}

	url, err := validate.URL(r.URL)
	if err != nil {
		return in, err
	}
	in.url = url

	if raw := optionalText(r.Slug); raw != nil {
		slug, err := validate.Slug(*raw)
		if err != nil {
			return in, err
		}
		in.slug = &slug
	}
	if raw := optionalText(r.Title); raw != nil {
		title, err := validate.Title(*raw)
		if err != nil {
			return in, err
		}
		in.title = &title
	}
	if r.IsActive.Present() {
		in.isActive = r.IsActive.Value
	}
	if r.ExpiresAt.Present() {
		ts, err := parseFutureExpiry(r.ExpiresAt.Value, now)
		if err != nil {
			return in, err
		}
		in.expiresAt = &ts
	}
	if r.MaxClicks.Present() {
		n, err := validate.MaxClicks(r.MaxClicks.Value)
		if err != nil {
			return in, err
		}
		in.maxClicks = &n
	}
	return in, nil
}

func (r UpdateLinkRequest) validate(now time.Time) (updateInput, error) {
	in := updateInput{updates: map[string]interface{}{}}

	if raw := optionalText(r.Slug); raw != nil {
		slug, err := validate.Slug(*raw)
		if err != nil {
			return in, err
		}
		in.slug = &slug
		in.updates["slug"] = slug
	}
	if raw := optionalText(r.Title); raw != nil {
		title, err := validate.Title(*raw)
		if err != nil {
			return in, err
		}
		in.title = &title
		in.updates["title"] = title
	}

	if r.IsActive.Null {
		return in, apperr.Validation("is_active", "is_active cannot be null")
	}
	if r.IsActive.Set {
		in.updates["is_active"] = r.IsActive.Value
	}

	if r.ExpiresAt.Null {
		return in, apperr.Validation("expires_at", "expires_at cannot be null")
	}
	if r.ExpiresAt.Set {
		ts, err := parseFutureExpiry(r.ExpiresAt.Value, now)
		if err != nil {
			return in, err
		}
		in.updates["expires_at"] = ts
	}

	if r.MaxClicks.Null {
		return in, apperr.Validation("max_clicks", "max_clicks cannot be null")
	}
	if r.MaxClicks.Set {
		n, err := validate.MaxClicks(r.MaxClicks.Value)
		if err != nil {
			return in, err
		}
		in.updates["max_clicks"] = n
	}
	return in, nil
}

func parseFutureExpiry(raw string, now time.Time) (time.Time, error) {
	ts, err := validate.ParseExpiresAt(raw)
	if err != nil {
		return time.Time{}, err
	}
	return validate.ExpiresAt(ts, now)
}
