package admin

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/slashurl/slash/pkg/slash/apperr"
	"github.com/slashurl/slash/pkg/slash/models"
	"gorm.io/gorm"
)

// Handler handles admin requests
type Handler struct {
	db  *gorm.DB
	now func() time.Time
}

// NewHandler creates a new admin handler
func NewHandler(db *gorm.DB) *Handler {
	return &Handler{db: db, now: time.Now}
}

// OverviewResponse represents system-wide totals
type OverviewResponse struct {
	TotalLinks    int64 `json:"total_links"`
	ActiveLinks   int64 `json:"active_links"`
	InactiveLinks int64 `json:"inactive_links"`
	ExpiredLinks  int64 `json:"expired_links"`
	CappedLinks   int64 `json:"capped_links"`
	TotalClicks   int64 `json:"total_clicks"`
	ClicksLast24h int64 `json:"clicks_last_24h"`
}

// Overview returns system-wide statistics
// @Summary Admin overview
// @Description Link counts by state and click totals. Active and inactive follow the is_active flag; expired and capped are counted regardless of it.
// @Tags admin
// @Produce json
// @Success 200 {object} OverviewResponse
// @Security AdminSession
// @Router /api/admin/overview [get]
func (h *Handler) Overview(c *gin.Context) {
	now := h.now().UTC()
	db := h.db.WithContext(c.Request.Context())
	links := func() *gorm.DB { return db.Model(&models.Link{}) }

	var resp OverviewResponse
	queries := []struct {
		name string
		q    *gorm.DB
		dest *int64
	}{
		{"total links", links(), &resp.TotalLinks},
		{"active links", links().Where("is_active = ?", true), &resp.ActiveLinks},
		{"inactive links", links().Where("is_active = ?", false), &resp.InactiveLinks},
		{"expired links", links().Where("expires_at IS NOT NULL AND expires_at <= ?", now), &resp.ExpiredLinks},
		{"capped links", links().Where("max_clicks IS NOT NULL AND clicks >= max_clicks"), &resp.CappedLinks},
		{"recent clicks", db.Model(&models.Click{}).Where("clicked_at >= ?", now.Add(-24*time.Hour)), &resp.ClicksLast24h},
	}
	for _, q := range queries {
		if err := q.q.Count(q.dest).Error; err != nil {
			apperr.Respond(c, apperr.Internal("count "+q.name, err))
			return
		}
	}

	// Sum of all click counters
	if err := links().Select("COALESCE(SUM(clicks), 0)").Scan(&resp.TotalClicks).Error; err != nil {
		apperr.Respond(c, apperr.Internal("sum clicks", err))
		return
	}

	c.JSON(http.StatusOK, resp)
}

// RegisterRoutes registers admin routes on the given router group
func (h *Handler) RegisterRoutes(rg *gin.RouterGroup) {
	rg.GET("/overview", h.Overview)
}
