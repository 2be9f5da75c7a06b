package handlers

import (
	"encoding/json"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/offerpath/offerpath-backend/internal/artifact"
	"github.com/offerpath/offerpath-backend/internal/services"
)

type OptimizeHandler struct {
	optimize services.OptimizeService
}

func NewOptimizeHandler(optimize services.OptimizeService) *OptimizeHandler {
	return &OptimizeHandler{optimize: optimize}
}

// POST /api/jobs/:id/optimize
func (h *OptimizeHandler) GenerateVariant(c *gin.Context) {
	jobID, ok := parseJobID(c)
	if !ok {
		return
	}
	variant, err := h.optimize.GenerateVariant(c.Request.Context(), jobID)
	if err != nil {
		RespondServiceError(c, err)
		return
	}
	c.JSON(http.StatusCreated, gin.H{"variant": variant})
}

// POST /api/jobs/:id/optimize/rule-based
func (h *OptimizeHandler) RuleBasedVariant(c *gin.Context) {
	jobID, ok := parseJobID(c)
	if !ok {
		return
	}
	variant, err := h.optimize.RuleBasedVariant(c.Request.Context(), jobID)
	if err != nil {
		RespondServiceError(c, err)
		return
	}
	c.JSON(http.StatusCreated, gin.H{"variant": variant})
}

// POST /api/jobs/:id/resume-versions
// Stores a user-edited resume snapshot as a manual ledger entry.
func (h *OptimizeHandler) SaveManualVariant(c *gin.Context) {
	jobID, ok := parseJobID(c)
	if !ok {
		return
	}
	var body struct {
		Label  string          `json:"label"`
		Parsed json.RawMessage `json:"parsed"`
	}
	if err := c.ShouldBindJSON(&body); err != nil {
		RespondError(c, http.StatusBadRequest, "invalid_body", err)
		return
	}
	variant, err := h.optimize.SaveManualVariant(c.Request.Context(), jobID, body.Label, body.Parsed)
	if err != nil {
		RespondServiceError(c, err)
		return
	}
	c.JSON(http.StatusCreated, gin.H{"variant": variant})
}

// GET /api/jobs/:id/resume-versions
func (h *OptimizeHandler) ListVariants(c *gin.Context) {
	jobID, ok := parseJobID(c)
	if !ok {
		return
	}
	variants, err := h.optimize.ListVariants(c.Request.Context(), jobID)
	if err != nil {
		RespondServiceError(c, err)
		return
	}
	RespondOK(c, gin.H{"versions": variants})
}

// POST /api/jobs/:id/rewrite-bullet
func (h *OptimizeHandler) RewriteBullet(c *gin.Context) {
	jobID, ok := parseJobID(c)
	if !ok {
		return
	}
	var body struct {
		Bullet      string   `json:"bullet"`
		MaxLength   int      `json:"max_length"`
		Keywords    []string `json:"keywords"`
		ActionVerb  bool     `json:"must_start_with_action_verb"`
	}
	if err := c.ShouldBindJSON(&body); err != nil {
		RespondError(c, http.StatusBadRequest, "invalid_body", err)
		return
	}
	if strings.TrimSpace(body.Bullet) == "" {
		RespondError(c, http.StatusBadRequest, "missing_bullet", nil)
		return
	}
	rewritten, err := h.optimize.RewriteBullet(c.Request.Context(), jobID, body.Bullet, artifact.BulletConstraints{
		MaxLength:               body.MaxLength,
		RequiredKeywords:        body.Keywords,
		MustStartWithActionVerb: body.ActionVerb,
	})
	if err != nil {
		RespondServiceError(c, err)
		return
	}
	RespondOK(c, gin.H{"bullet": rewritten})
}

// GET /api/jobs/:id/project-suggestions
func (h *OptimizeHandler) SuggestProjects(c *gin.Context) {
	jobID, ok := parseJobID(c)
	if !ok {
		return
	}
	suggestions, err := h.optimize.SuggestProjects(c.Request.Context(), jobID)
	if err != nil {
		RespondServiceError(c, err)
		return
	}
	RespondOK(c, gin.H{"suggestions": suggestions})
}
