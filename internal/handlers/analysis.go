package handlers

import (
	"encoding/json"

	"github.com/gin-gonic/gin"

	"github.com/offerpath/offerpath-backend/internal/domain"
	"github.com/offerpath/offerpath-backend/internal/services"
)

// AnalysisHandler exposes the derived artifact pipeline: JD analysis, the
// evidence map, the score breakdown and the rewrite plan. Every endpoint is
// ensure-style, so a GET after a cold start repairs missing pieces instead
// of failing.
type AnalysisHandler struct {
	pipeline services.PipelineService
}

func NewAnalysisHandler(pipeline services.PipelineService) *AnalysisHandler {
	return &AnalysisHandler{pipeline: pipeline}
}

func (h *AnalysisHandler) ensure(c *gin.Context, kind, field string) {
	jobID, ok := parseJobID(c)
	if !ok {
		return
	}
	out, err := h.pipeline.Ensure(c.Request.Context(), jobID, kind)
	if err != nil {
		RespondServiceError(c, err)
		return
	}
	RespondOK(c, gin.H{field: json.RawMessage(out)})
}

// POST /api/jobs/:id/analyze
func (h *AnalysisHandler) AnalyzeJD(c *gin.Context) {
	h.ensure(c, domain.KindJDExtract, "jd_extract")
}

// GET /api/jobs/:id/evidence
func (h *AnalysisHandler) EvidenceMap(c *gin.Context) {
	h.ensure(c, domain.KindEvidenceMap, "evidence_map")
}

// GET /api/jobs/:id/score
// Returns the score and the evidence map it was computed from.
func (h *AnalysisHandler) Score(c *gin.Context) {
	jobID, ok := parseJobID(c)
	if !ok {
		return
	}
	score, err := h.pipeline.Ensure(c.Request.Context(), jobID, domain.KindScore)
	if err != nil {
		RespondServiceError(c, err)
		return
	}
	evidence, err := h.pipeline.Ensure(c.Request.Context(), jobID, domain.KindEvidenceMap)
	if err != nil {
		RespondServiceError(c, err)
		return
	}
	RespondOK(c, gin.H{
		"score_breakdown": json.RawMessage(score),
		"evidence_map":    json.RawMessage(evidence),
	})
}

// GET /api/jobs/:id/rewrite-plan
func (h *AnalysisHandler) RewritePlan(c *gin.Context) {
	h.ensure(c, domain.KindRewritePlan, "rewrite_plan")
}
