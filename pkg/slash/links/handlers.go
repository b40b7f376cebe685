package links

import (
	"encoding/json"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/skip2/go-qrcode"
	"github.com/slashurl/slash/pkg/slash/apperr"
	"github.com/slashurl/slash/pkg/slash/models"
	"github.com/slashurl/slash/pkg/slash/validate"
)

const (
	defaultQRSize = 256
	minQRSize     = 128
	maxQRSize     = 1024
)

// Handler handles link-related requests
type Handler struct {
	svc     *Service
	baseURL string
}

// NewHandler creates a new links handler
func NewHandler(svc *Service, baseURL string) *Handler {
	return &Handler{svc: svc, baseURL: strings.TrimSuffix(baseURL, "/")}
}

// LinkResponse represents a link in API responses
type LinkResponse struct {
	ID          uint    `json:"id"`
	Slug        string  `json:"slug"`
	ShortURL    string  `json:"short_url"`
	OriginalURL string  `json:"original_url"`
	Title       string  `json:"title"`
	Clicks      int64   `json:"clicks"`
	CreatedAt   string  `json:"created_at"`
	IsActive    bool    `json:"is_active"`
	ExpiresAt   *string `json:"expires_at"`
	MaxClicks   *int64  `json:"max_clicks"`
	Status      string  `json:"status"`
}

// ListResponse is a page of links plus the total count
type ListResponse struct {
	Links []LinkResponse `json:"links"`
	Total int64          `json:"total"`
	Limit int            `json:"limit"`
}

// BulkDeleteRequest represents a request to delete several links at once
type BulkDeleteRequest struct {
	Slugs json.RawMessage `json:"slugs" swaggertype:"array,string"`
}

// BulkDeleteResponse reports how many links were removed
type BulkDeleteResponse struct {
	Deleted int64 `json:"deleted"`
}

// Status values reported for a link.
const (
	StatusActive   = "active"
	StatusInactive = "inactive"
	StatusExpired  = "expired"
	StatusCapped   = "capped"
)

// LinkStatus summarizes whether a link currently redirects.
func LinkStatus(link *models.Link, now time.Time) string {
	switch {
	case !link.IsActive:
		return StatusInactive
	case link.Expired(now):
		return StatusExpired
	case link.CapReached():
		return StatusCapped
	default:
		return StatusActive
	}
}

// ToResponse converts a link for API output.
func (h *Handler) ToResponse(link *models.Link) LinkResponse {
	resp := LinkResponse{
		ID:          link.ID,
		Slug:        link.Slug,
		ShortURL:    h.baseURL + "/" + link.Slug,
		OriginalURL: link.OriginalURL,
		Title:       link.Title,
		Clicks:      link.Clicks,
		CreatedAt:   link.CreatedAt.UTC().Format(time.RFC3339),
		IsActive:    link.IsActive,
		MaxClicks:   link.MaxClicks,
		Status:      LinkStatus(link, h.svc.now()),
	}
	if link.ExpiresAt != nil {
		ts := link.ExpiresAt.UTC().Format(time.RFC3339)
		resp.ExpiresAt = &ts
	}
	return resp
}

func bindError(err error) error {
	return apperr.Validation("body", "Invalid request body: "+err.Error())
}

// Create creates a new link
// @Summary Create a link
// @Description Create a short link. Slug and title are generated when omitted.
// @Tags links
// @Accept json
// @Produce json
// @Param request body CreateLinkRequest true "Link details"
// @Success 201 {object} LinkResponse
// @Failure 400 {object} map[string]string "Validation error"
// @Failure 409 {object} map[string]string "Slug or title already exists"
// @Security AdminSession
// @Router /api/links [post]
func (h *Handler) Create(c *gin.Context) {
	var req CreateLinkRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		apperr.Respond(c, bindError(err))
		return
	}

	link, err := h.svc.CreateLink(c.Request.Context(), req)
	if err != nil {
		apperr.Respond(c, err)
		return
	}
	c.JSON(http.StatusCreated, h.ToResponse(link))
}

// List returns the most recent links
// @Summary List links
// @Description Newest links first, with the total number of links
// @Tags links
// @Produce json
// @Param limit query int false "Maximum number of links" default(50)
// @Success 200 {object} ListResponse
// @Failure 400 {object} map[string]string "Invalid limit"
// @Security AdminSession
// @Router /api/links [get]
func (h *Handler) List(c *gin.Context) {
	limit := 0
	if raw := c.Query("limit"); raw != "" {
		n, err := strconv.Atoi(raw)
		if err != nil {
			apperr.Respond(c, apperr.Validation("limit", "limit must be an integer"))
			return
		}
		if n < 1 {
			apperr.Respond(c, apperr.Validation("limit", "limit must be positive"))
			return
		}
		limit = n
	}

	links, total, err := h.svc.ListLinks(c.Request.Context(), limit)
	if err != nil {
		apperr.Respond(c, err)
		return
	}
	if limit == 0 {
		limit = DefaultListLimit
	}

	resp := ListResponse{Links: make([]LinkResponse, len(links)), Total: total, Limit: limit}
	for i := range links {
		resp.Links[i] = h.ToResponse(&links[i])
	}
	c.JSON(http.StatusOK, resp)
}

// Get returns a single link
// @Summary Get a link
// @Tags links
// @Produce json
// @Param slug path string true "Link slug"
// @Success 200 {object} LinkResponse
// @Failure 404 {object} map[string]string "Link not found"
// @Security AdminSession
// @Router /api/links/{slug} [get]
func (h *Handler) Get(c *gin.Context) {
	link, err := h.svc.GetLink(c.Request.Context(), c.Param("slug"))
	if err != nil {
		apperr.Respond(c, err)
		return
	}
	c.JSON(http.StatusOK, h.ToResponse(link))
}

// Update applies a partial update to a link
// @Summary Update a link
// @Description Only fields present in the body change. Null is rejected for is_active, expires_at and max_clicks.
// @Tags links
// @Accept json
// @Produce json
// @Param slug path string true "Link slug"
// @Param request body UpdateLinkRequest true "Fields to change"
// @Success 200 {object} LinkResponse
// @Failure 400 {object} map[string]string "Validation error"
// @Failure 404 {object} map[string]string "Link not found"
// @Failure 409 {object} map[string]string "Slug or title already exists"
// @Security AdminSession
// @Router /api/links/{slug} [patch]
func (h *Handler) Update(c *gin.Context) {
	var req UpdateLinkRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		apperr.Respond(c, bindError(err))
		return
	}

	link, err := h.svc.UpdateLink(c.Request.Context(), c.Param("slug"), req)
	if err != nil {
		apperr.Respond(c, err)
		return
	}
	c.JSON(http.StatusOK, h.ToResponse(link))
}

// Delete removes a single link
// @Summary Delete a link
// @Tags links
// @Param slug path string true "Link slug"
// @Success 204
// @Failure 404 {object} map[string]string "Link not found"
// @Security AdminSession
// @Router /api/links/{slug} [delete]
func (h *Handler) Delete(c *gin.Context) {
	if err := h.svc.DeleteLink(c.Request.Context(), c.Param("slug")); err != nil {
		apperr.Respond(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}

// BulkDelete removes up to 100 links by slug
// @Summary Delete several links
// @Description Unknown slugs are ignored
// @Tags links
// @Accept json
// @Produce json
// @Param request body BulkDeleteRequest true "Slugs to delete"
// @Success 200 {object} BulkDeleteResponse
// @Failure 400 {object} map[string]string "Validation error"
// @Security AdminSession
// @Router /api/links/bulk-delete [post]
func (h *Handler) BulkDelete(c *gin.Context) {
	var req BulkDeleteRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		apperr.Respond(c, bindError(err))
		return
	}

	slugs, err := validate.BulkSlugs(req.Slugs)
	if err != nil {
		apperr.Respond(c, err)
		return
	}

	deleted, err := h.svc.DeleteLinks(c.Request.Context(), slugs)
	if err != nil {
		apperr.Respond(c, err)
		return
	}
	c.JSON(http.StatusOK, BulkDeleteResponse{Deleted: deleted})
}

// QRCode renders the short URL of a link as a PNG
// @Summary Link QR code
// @Tags links
// @Produce png
// @Param slug path string true "Link slug"
// @Param size query int false "Image size in pixels" default(256)
// @Success 200 {file} binary
// @Failure 404 {object} map[string]string "Link not found"
// @Security AdminSession
// @Router /api/links/{slug}/qrcode [get]
func (h *Handler) QRCode(c *gin.Context) {
	size := defaultQRSize
	if raw := c.Query("size"); raw != "" {
		n, err := strconv.Atoi(raw)
		if err != nil || n < minQRSize || n > maxQRSize {
			apperr.Respond(c, apperr.Validation("size", "size must be between 128 and 1024"))
			return
		}
		size = n
	}

	link, err := h.svc.GetLink(c.Request.Context(), c.Param("slug"))
	if err != nil {
		apperr.Respond(c, err)
		return
	}

	code, err := qrcode.New(h.baseURL+"/"+link.Slug, qrcode.Medium)
	if err != nil {
		apperr.Respond(c, apperr.Internal("generate QR code", err))
		return
	}
	png, err := code.PNG(size)
	if err != nil {
		apperr.Respond(c, apperr.Internal("render QR code", err))
		return
	}

	c.Header("Content-Disposition", "inline; filename="+link.Slug+".png")
	c.Data(http.StatusOK, "image/png", png)
}

// RegisterRoutes registers link routes on the given router group
func (h *Handler) RegisterRoutes(rg *gin.RouterGroup) {
	rg.POST("/links", h.Create)
	rg.GET("/links", h.List)
	rg.POST("/links/bulk-delete", h.BulkDelete)
	rg.GET("/links/:slug", h.Get)
	rg.PATCH("/links/:slug", h.Update)
	rg.DELETE("/links/:slug", h.Delete)
	rg.GET("/links/:slug/qrcode", h.QRCode)
}
