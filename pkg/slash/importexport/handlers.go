package importexport

import (
	"log/slog"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/slashurl/slash/pkg/slash/apperr"
	"github.com/slashurl/slash/pkg/slash/links"
	"gorm.io/gorm"
)

// MaxImportLinks caps the number of links accepted by one import request.
const MaxImportLinks = 1000

// Handler handles import/export requests
type Handler struct {
	db    *gorm.DB
	links *links.Service
}

// NewHandler creates a new import/export handler
func NewHandler(db *gorm.DB, svc *links.Service) *Handler {
	return &Handler{db: db, links: svc}
}

// ImportRequest represents an import request
type ImportRequest struct {
	Links []ExportLink `json:"links" binding:"required"`
}

// Export exports all links
// @Summary Export links
// @Tags import-export
// @Produce json
// @Param download query bool false "Send as an attachment"
// @Success 200 {array} ExportLink
// @Security AdminSession
// @Router /api/export [get]
func (h *Handler) Export(c *gin.Context) {
	out, err := Export(c.Request.Context(), h.db)
	if err != nil {
		apperr.Respond(c, err)
		return
	}

	// Set content disposition for download
	if c.Query("download") == "true" {
		c.Header("Content-Disposition", "attachment; filename=slash-export.json")
	}

	c.JSON(http.StatusOK, out)
}

// Import creates links from an export
// @Summary Import links
// @Description Each entry is validated like a new link. Invalid, conflicting or expired entries are skipped.
// @Tags import-export
// @Accept json
// @Produce json
// @Param request body ImportRequest true "Links to import"
// @Success 200 {object} ImportResult
// @Failure 400 {object} map[string]string "Validation error"
// @Security AdminSession
// @Router /api/import [post]
func (h *Handler) Import(c *gin.Context) {
	var req ImportRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		apperr.Respond(c, apperr.Validation("links", "Invalid request body: "+err.Error()))
		return
	}
	if len(req.Links) > MaxImportLinks {
		apperr.Respond(c, apperr.Validation("links", "Too many links in one import"))
		return
	}

	result := Import(c.Request.Context(), h.links, req.Links, time.Now())
	slog.InfoContext(c.Request.Context(), "links imported", "imported", result.Imported, "skipped", result.Skipped)
	c.JSON(http.StatusOK, result)
}

// RegisterRoutes registers import/export routes
func (h *Handler) RegisterRoutes(rg *gin.RouterGroup) {
	rg.POST("/import", h.Import)
	rg.GET("/export", h.Export)
}
