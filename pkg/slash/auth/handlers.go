package auth

import (
	"log/slog"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/slashurl/slash/pkg/slash/apperr"
)

// Handler handles admin session requests
type Handler struct {
	keyHash      string
	tokens       *Tokens
	secureCookie bool
}

// NewHandler creates a new auth handler. keyHash comes from HashKey.
func NewHandler(keyHash string, tokens *Tokens, secureCookie bool) *Handler {
	return &Handler{keyHash: keyHash, tokens: tokens, secureCookie: secureCookie}
}

// LoginRequest represents the login request body
type LoginRequest struct {
	AdminKey string `json:"admin_key" binding:"required,min=16,max=128"`
}

// OKResponse acknowledges a session change
type OKResponse struct {
	OK bool `json:"ok"`
}

// MeResponse reports whether the caller holds a valid session
type MeResponse struct {
	Authenticated bool `json:"authenticated"`
}

// Login handles admin login
// @Summary Login
// @Description Exchange the admin key for a session cookie
// @Tags auth
// @Accept json
// @Produce json
// @Param request body LoginRequest true "Admin key"
// @Success 200 {object} OKResponse
// @Failure 400 {object} map[string]string "Validation error"
// @Failure 401 {object} map[string]string "Invalid admin key"
// @Router /auth/login [post]
func (h *Handler) Login(c *gin.Context) {
	var req LoginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		apperr.Respond(c, apperr.Validation("admin_key", "admin_key must be between 16 and 128 characters"))
		return
	}

	if !CheckKey(req.AdminKey, h.keyHash) {
		slog.WarnContext(c.Request.Context(), "admin login rejected", "client_ip", c.ClientIP())
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Invalid admin key"})
		return
	}

	token, err := h.tokens.Generate()
	if err != nil {
		apperr.Respond(c, apperr.Internal("generate session token", err))
		return
	}

	c.SetSameSite(http.SameSiteLaxMode)
	c.SetCookie(CookieName, token, int(h.tokens.TTL().Seconds()), "/", "", h.secureCookie, true)
	c.JSON(http.StatusOK, OKResponse{OK: true})
}

// Me reports whether the caller is logged in
// @Summary Session status
// @Tags auth
// @Produce json
// @Success 200 {object} MeResponse
// @Router /auth/me [get]
func (h *Handler) Me(c *gin.Context) {
	token := sessionToken(c)
	if token == "" {
		c.JSON(http.StatusOK, MeResponse{Authenticated: false})
		return
	}
	_, err := h.tokens.Validate(token)
	c.JSON(http.StatusOK, MeResponse{Authenticated: err == nil})
}

// Logout clears the session cookie
// @Summary Logout
// @Tags auth
// @Produce json
// @Success 200 {object} OKResponse
// @Router /auth/logout [post]
func (h *Handler) Logout(c *gin.Context) {
	c.SetSameSite(http.SameSiteLaxMode)
	c.SetCookie(CookieName, "", -1, "/", "", h.secureCookie, true)
	c.JSON(http.StatusOK, OKResponse{OK: true})
}

// RegisterRoutes registers auth routes on the given router group
func (h *Handler) RegisterRoutes(rg *gin.RouterGroup) {
	rg.POST("/login", h.Login)
	rg.GET("/me", h.Me)
	rg.POST("/logout", h.Logout)
}
