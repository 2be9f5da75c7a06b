package handlers

import (
	"encoding/json"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/offerpath/offerpath-backend/internal/domain"
	"github.com/offerpath/offerpath-backend/internal/services"
)

// AssetsHandler covers the longer-lived job assets: cover letters, the
// preparation roadmap and the interview pack.
type AssetsHandler struct {
	letters  services.CoverLetterService
	pipeline services.PipelineService
}

func NewAssetsHandler(letters services.CoverLetterService, pipeline services.PipelineService) *AssetsHandler {
	return &AssetsHandler{letters: letters, pipeline: pipeline}
}

// POST /api/jobs/:id/cover-letter
func (h *AssetsHandler) GenerateCoverLetter(c *gin.Context) {
	jobID, ok := parseJobID(c)
	if !ok {
		return
	}
	var body struct {
		Tone string `json:"tone"`
	}
	if c.Request.ContentLength > 0 {
		if err := c.ShouldBindJSON(&body); err != nil {
			RespondError(c, http.StatusBadRequest, "invalid_body", err)
			return
		}
	}
	letter, err := h.letters.Generate(c.Request.Context(), jobID, body.Tone)
	if err != nil {
		RespondServiceError(c, err)
		return
	}
	c.JSON(http.StatusCreated, gin.H{"cover_letter": letter})
}

// GET /api/jobs/:id/cover-letters
func (h *AssetsHandler) ListCoverLetters(c *gin.Context) {
	jobID, ok := parseJobID(c)
	if !ok {
		return
	}
	letters, err := h.letters.List(c.Request.Context(), jobID)
	if err != nil {
		RespondServiceError(c, err)
		return
	}
	RespondOK(c, gin.H{"cover_letters": letters})
}

// GET /api/jobs/:id/roadmap
func (h *AssetsHandler) GetRoadmap(c *gin.Context) {
	jobID, ok := parseJobID(c)
	if !ok {
		return
	}
	out, err := h.pipeline.Ensure(c.Request.Context(), jobID, domain.KindRoadmap)
	if err != nil {
		RespondServiceError(c, err)
		return
	}
	RespondOK(c, gin.H{"roadmap": json.RawMessage(out)})
}

// POST /api/jobs/:id/roadmap
func (h *AssetsHandler) RegenerateRoadmap(c *gin.Context) {
	jobID, ok := parseJobID(c)
	if !ok {
		return
	}
	var body struct {
		TimelineWeeks int `json:"timeline_weeks"`
	}
	if c.Request.ContentLength > 0 {
		if err := c.ShouldBindJSON(&body); err != nil {
			RespondError(c, http.StatusBadRequest, "invalid_body", err)
			return
		}
	}
	out, err := h.pipeline.RegenerateRoadmap(c.Request.Context(), jobID, body.TimelineWeeks)
	if err != nil {
		RespondServiceError(c, err)
		return
	}
	RespondOK(c, gin.H{"roadmap": json.RawMessage(out)})
}

// GET /api/jobs/:id/interview-pack
func (h *AssetsHandler) GetInterviewPack(c *gin.Context) {
	jobID, ok := parseJobID(c)
	if !ok {
		return
	}
	out, err := h.pipeline.Ensure(c.Request.Context(), jobID, domain.KindInterviewPack)
	if err != nil {
		RespondServiceError(c, err)
		return
	}
	RespondOK(c, gin.H{"interview_pack": json.RawMessage(out)})
}

// POST /api/jobs/:id/interview-pack
func (h *AssetsHandler) RegenerateInterviewPack(c *gin.Context) {
	jobID, ok := parseJobID(c)
	if !ok {
		return
	}
	out, err := h.pipeline.RegenerateInterviewPack(c.Request.Context(), jobID)
	if err != nil {
		RespondServiceError(c, err)
		return
	}
	RespondOK(c, gin.H{"interview_pack": json.RawMessage(out)})
}
