package links

import (
	"context"
	"errors"
	"regexp"
	"strconv"
	"strings"
	"time"

	"github.com/slashurl/slash/pkg/slash/apperr"
	"github.com/slashurl/slash/pkg/slash/database"
	"github.com/slashurl/slash/pkg/slash/models"
	"github.com/slashurl/slash/pkg/slash/slugs"
	"github.com/slashurl/slash/pkg/slash/validate"
	"gorm.io/gorm"
)

const (
	DefaultListLimit = 50
	MaxListLimit     = 1000
)

var defaultTitleRegex = regexp.MustCompile(`^Title_(\d+)$`)

// Service implements the link store. Every mutation runs in one transaction.
type Service struct {
	db    *gorm.DB
	slugs *slugs.Generator
	now   func() time.Time
}

// NewService creates a link store backed by db.
func NewService(db *gorm.DB) *Service {
	return &Service{
		db:    db,
		slugs: slugs.NewGenerator(),
		now:   time.Now,
	}
}

// CreateLink validates req and stores a new link. A missing slug is derived
// from the URL and a missing title becomes the next Title_N.
func (s *Service) CreateLink(ctx context.Context, req CreateLinkRequest) (*models.Link, error) {
	now := s.now().UTC()
	in, err := req.validate(now)
	if err != nil {
		return nil, err
	}

	link := models.Link{
		OriginalURL: in.url,
		IsActive:    in.isActive,
		ExpiresAt:   in.expiresAt,
		MaxClicks:   in.maxClicks,
		CreatedAt:   now,
	}

	err = s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if in.slug != nil {
			taken, err := slugTaken(tx, *in.slug)
			if err != nil {
				return apperr.Internal("check slug", err)
			}
			if taken {
				return apperr.Conflict("slug", "Slug already exists")
			}
			link.Slug = *in.slug
		} else {
			slug, err := s.slugs.Unique(ctx, in.url, func(ctx context.Context, candidate string) (bool, error) {
				return slugTaken(tx, candidate)
			})
			if err != nil {
				return err
			}
			link.Slug = slug
		}

		if in.title != nil {
			taken, err := titleTaken(tx, *in.title)
			if err != nil {
				return apperr.Internal("check title", err)
			}
			if taken {
				return apperr.Conflict("title", "Title already exists")
			}
			link.Title = *in.title
		} else {
			title, err := nextDefaultTitle(tx)
			if err != nil {
				return apperr.Internal("generate title", err)
			}
			link.Title = title
		}

		if err := tx.Create(&link).Error; err != nil {
			return storeError("create link", err)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return &link, nil
}

// UpdateLink applies the fields present in req to the link identified by slug.
func (s *Service) UpdateLink(ctx context.Context, slug string, req UpdateLinkRequest) (*models.Link, error) {
	in, err := req.validate(s.now().UTC())
	if err != nil {
		return nil, err
	}

	var link models.Link
	err = s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := findBySlug(tx, slug, &link); err != nil {
			return err
		}

		if in.slug != nil && *in.slug != link.Slug {
			taken, err := slugTaken(tx, *in.slug)
			if err != nil {
				return apperr.Internal("check slug", err)
			}
			if taken {
				return apperr.Conflict("slug", "Slug already exists")
			}
		}
		if in.title != nil && *in.title != link.Title {
			taken, err := titleTaken(tx, *in.title)
			if err != nil {
				return apperr.Internal("check title", err)
			}
			if taken {
				return apperr.Conflict("title", "Title already exists")
			}
		}

		if len(in.updates) == 0 {
			return nil
		}
		if err := tx.Model(&link).Updates(in.updates).Error; err != nil {
			return storeError("update link", err)
		}
		return tx.First(&link, link.ID).Error
	})
	if err != nil {
		return nil, err
	}
	return &link, nil
}

// GetLink returns the link identified by slug.
func (s *Service) GetLink(ctx context.Context, slug string) (*models.Link, error) {
	var link models.Link
	if err := findBySlug(s.db.WithContext(ctx), slug, &link); err != nil {
		return nil, err
	}
	return &link, nil
}

// ListLinks returns up to limit links, newest first, and the total number of
// links. A zero limit means DefaultListLimit.
func (s *Service) ListLinks(ctx context.Context, limit int) ([]models.Link, int64, error) {
	limit, err := validate.Limit("limit", limit, DefaultListLimit, MaxListLimit)
	if err != nil {
		return nil, 0, err
	}

	db := s.db.WithContext(ctx)
	var total int64
	if err := db.Model(&models.Link{}).Count(&total).Error; err != nil {
		return nil, 0, apperr.Internal("count links", err)
	}

	links := []models.Link{}
	if err := db.Order("created_at DESC").Order("id DESC").Limit(limit).Find(&links).Error; err != nil {
		return nil, 0, apperr.Internal("list links", err)
	}
	return links, total, nil
}

// DeleteLinks removes every link whose slug is listed, along with its clicks.
// Unknown slugs are ignored. It returns the number of links deleted.
func (s *Service) DeleteLinks(ctx context.Context, slugList []string) (int64, error) {
	slugList, err := validate.SlugList(slugList)
	if err != nil {
		return 0, err
	}

	var deleted int64
	err = s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		result := tx.Where("slug IN ?", slugList).Delete(&models.Link{})
		if result.Error != nil {
			return apperr.Internal("delete links", result.Error)
		}
		deleted = result.RowsAffected
		return nil
	})
	return deleted, err
}

// DeleteLink removes a single link and its clicks.
func (s *Service) DeleteLink(ctx context.Context, slug string) error {
	result := s.db.WithContext(ctx).Where("slug = ?", slug).Delete(&models.Link{})
	if result.Error != nil {
		return apperr.Internal("delete link", result.Error)
	}
	if result.RowsAffected == 0 {
		return apperr.NotFound("Link")
	}
	return nil
}

func findBySlug(db *gorm.DB, slug string, link *models.Link) error {
	if err := db.Where("slug = ?", slug).First(link).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return apperr.NotFound("Link")
		}
		return apperr.Internal("load link", err)
	}
	return nil
}

func slugTaken(tx *gorm.DB, slug string) (bool, error) {
	var count int64
	err := tx.Model(&models.Link{}).Where("slug = ?", slug).Count(&count).Error
	return count > 0, err
}

func titleTaken(tx *gorm.DB, title string) (bool, error) {
	var count int64
	err := tx.Model(&models.Link{}).Where("title = ?", title).Count(&count).Error
	return count > 0, err
}

// nextDefaultTitle returns Title_N where N is one past the highest numeric
// suffix among existing Title_<digits> titles.
func nextDefaultTitle(tx *gorm.DB) (string, error) {
	var titles []string
	if err := tx.Model(&models.Link{}).Where("title LIKE ?", "Title_%").Pluck("title", &titles).Error; err != nil {
		return "", err
	}

	var highest int64
	for _, t := range titles {
		m := defaultTitleRegex.FindStringSubmatch(t)
		if m == nil {
			continue
		}
		n, err := strconv.ParseInt(m[1], 10, 64)
		if err != nil {
			continue
		}
		if n > highest {
			highest = n
		}
	}
	return "Title_" + strconv.FormatInt(highest+1, 10), nil
}

// storeError maps a failed write onto a conflict when a unique constraint
// rejected it.
func storeError(op string, err error) error {
	if !database.IsUniqueViolation(err) {
		return apperr.Internal(op, err)
	}
	if strings.Contains(strings.ToLower(err.Error()), "title") {
		return apperr.Conflict("title", "Title already exists")
	}
	return apperr.Conflict("slug", "Slug already exists")
}
