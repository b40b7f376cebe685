package stats

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/slashurl/slash/pkg/slash/apperr"
)

// Handler handles link statistics requests
type Handler struct {
	svc *Service
}

// NewHandler creates a new stats handler
func NewHandler(svc *Service) *Handler {
	return &Handler{svc: svc}
}

// GetStats returns the click report for a link
// @Summary Link statistics
// @Description Clicks per day, top referrers, devices, browsers and operating systems. Clicks without a referrer count as "direct".
// @Tags stats
// @Produce json
// @Param slug path string true "Link slug"
// @Param from query string false "Start of range, RFC 3339 or YYYY-MM-DD"
// @Param to query string false "End of range (exclusive), RFC 3339 or YYYY-MM-DD"
// @Param top query int false "Number of referrers" default(10)
// @Success 200 {object} LinkStatsResponse
// @Failure 400 {object} map[string]string "Invalid filters"
// @Failure 404 {object} map[string]string "Link not found"
// @Security AdminSession
// @Router /api/links/{slug}/stats [get]
func (h *Handler) GetStats(c *gin.Context) {
	filters, err := ParseFilters(c.Query("from"), c.Query("to"), c.Query("top"))
	if err != nil {
		apperr.Respond(c, err)
		return
	}

	resp, err := h.svc.GetStats(c.Request.Context(), c.Param("slug"), filters)
	if err != nil {
		apperr.Respond(c, err)
		return
	}
	c.JSON(http.StatusOK, resp)
}

// RegisterRoutes registers stats routes on the given router group
func (h *Handler) RegisterRoutes(rg *gin.RouterGroup) {
	rg.GET("/links/:slug/stats", h.GetStats)
}
