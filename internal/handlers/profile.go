package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/offerpath/offerpath-backend/internal/services"
)

type ProfileHandler struct {
	profile services.ProfileService
}

func NewProfileHandler(profile services.ProfileService) *ProfileHandler {
	return &ProfileHandler{profile: profile}
}

// GET /api/profile
func (h *ProfileHandler) GetProfile(c *gin.Context) {
	profile, err := h.profile.Get(c.Request.Context())
	if err != nil {
		RespondServiceError(c, err)
		return
	}
	RespondOK(c, gin.H{"profile": profile})
}

// PUT /api/profile
func (h *ProfileHandler) UpdateProfile(c *gin.Context) {
	var in services.ProfileInput
	if err := c.ShouldBindJSON(&in); err != nil {
		RespondError(c, http.StatusBadRequest, "invalid_body", err)
		return
	}
	profile, err := h.profile.Update(c.Request.Context(), in)
	if err != nil {
		RespondServiceError(c, err)
		return
	}
	RespondOK(c, gin.H{"profile": profile})
}

// GET /api/settings
func (h *ProfileHandler) ListSettings(c *gin.Context) {
	settings, err := h.profile.Settings(c.Request.Context())
	if err != nil {
		RespondServiceError(c, err)
		return
	}
	RespondOK(c, gin.H{"settings": settings})
}

// PUT /api/settings/:key
func (h *ProfileHandler) SetSetting(c *gin.Context) {
	var body struct {
		Value string `json:"value"`
	}
	if err := c.ShouldBindJSON(&body); err != nil {
		RespondError(c, http.StatusBadRequest, "invalid_body", err)
		return
	}
	if err := h.profile.SetSetting(c.Request.Context(), c.Param("key"), body.Value); err != nil {
		RespondServiceError(c, err)
		return
	}
	RespondOK(c, gin.H{"key": c.Param("key"), "value": body.Value})
}
