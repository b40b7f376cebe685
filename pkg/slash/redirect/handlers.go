package redirect

import (
	"context"
	"errors"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/slashurl/slash/pkg/slash/apperr"
	"github.com/slashurl/slash/pkg/slash/clicks"
	"github.com/slashurl/slash/pkg/slash/models"
	"gorm.io/gorm"
)

// Service resolves slugs to destinations and counts each redirect.
type Service struct {
	db  *gorm.DB
	now func() time.Time
}

// NewService creates a redirect service backed by db.
func NewService(db *gorm.DB) *Service {
	return &Service{db: db, now: time.Now}
}

// Resolve returns the destination for slug, incrementing the link's counter
// and recording a click in the same transaction.
//
// Inactive, expired and capped links are Gone. The increment is conditional
// on the cap, so concurrent redirects can never push clicks past max_clicks.
func (s *Service) Resolve(ctx context.Context, slug string, info clicks.RequestInfo) (string, error) {
	var destination string
	now := s.now().UTC()

	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var link models.Link
		if err := tx.Where("slug = ?", slug).First(&link).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return apperr.NotFound("Link")
			}
			return apperr.Internal("load link", err)
		}

		switch {
		case !link.IsActive:
			return apperr.Gone("Link is inactive")
		case link.Expired(now):
			return apperr.Gone("Link has expired")
		case link.CapReached():
			return apperr.Gone("Link has reached its click limit")
		}

		result := tx.Model(&models.Link{}).
			Where("id = ? AND (max_clicks IS NULL OR clicks < max_clicks)", link.ID).
			Update("clicks", gorm.Expr("clicks + 1"))
		if result.Error != nil {
			return apperr.Internal("increment clicks", result.Error)
		}
		if result.RowsAffected == 0 {
			return apperr.Gone("Link has reached its click limit")
		}

		if _, err := clicks.Record(tx, link.ID, info, now); err != nil {
			return apperr.Internal("record click", err)
		}

		destination = link.OriginalURL
		return nil
	})
	if err != nil {
		return "", err
	}
	return destination, nil
}

// Handler serves public short-link redirects.
type Handler struct {
	svc *Service
}

// NewHandler creates a new redirect handler
func NewHandler(db *gorm.DB) *Handler {
	return &Handler{svc: NewService(db)}
}

// Redirect handles short URL redirects
// @Summary Follow a short link
// @Description Redirects to the destination URL and records a click
// @Tags redirect
// @Param slug path string true "Link slug"
// @Success 307 "Redirect to destination"
// @Failure 404 {object} map[string]string "Link not found"
// @Failure 410 {object} map[string]string "Link inactive, expired or capped"
// @Router /{slug} [get]
func (h *Handler) Redirect(c *gin.Context) {
	destination, err := h.svc.Resolve(c.Request.Context(), c.Param("slug"), clicks.FromRequest(c.Request))
	if err != nil {
		apperr.Respond(c, err)
		return
	}

	c.Header("Cache-Control", "no-store")
	c.Redirect(http.StatusTemporaryRedirect, destination)
}

// RegisterRoutes registers redirect routes on the root router.
// It must be called after every other route so /:slug doesn't shadow them.
func (h *Handler) RegisterRoutes(r *gin.Engine) {
	r.GET("/:slug", h.Redirect)
}
