package handlers

import (
	"encoding/json"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/offerpath/offerpath-backend/internal/services"
)

type PracticeHandler struct {
	practice services.PracticeService
}

func NewPracticeHandler(practice services.PracticeService) *PracticeHandler {
	return &PracticeHandler{practice: practice}
}

// POST /api/jobs/:id/practice/question
func (h *PracticeHandler) GenerateQuestion(c *gin.Context) {
	jobID, ok := parseJobID(c)
	if !ok {
		return
	}
	var body struct {
		Mode              string   `json:"mode"`
		PreviousQuestions []string `json:"previous_questions"`
	}
	if c.Request.ContentLength > 0 {
		if err := c.ShouldBindJSON(&body); err != nil {
			RespondError(c, http.StatusBadRequest, "invalid_body", err)
			return
		}
	}
	question, err := h.practice.GenerateQuestion(c.Request.Context(), jobID, body.Mode, body.PreviousQuestions)
	if err != nil {
		RespondServiceError(c, err)
		return
	}
	RespondOK(c, gin.H{"question": question})
}

// POST /api/jobs/:id/practice/star-score
func (h *PracticeHandler) ScoreStar(c *gin.Context) {
	jobID, ok := parseJobID(c)
	if !ok {
		return
	}
	var body struct {
		Question string `json:"question"`
		Response string `json:"response"`
	}
	if err := c.ShouldBindJSON(&body); err != nil {
		RespondError(c, http.StatusBadRequest, "invalid_body", err)
		return
	}
	score, err := h.practice.ScoreStar(c.Request.Context(), jobID, body.Question, body.Response)
	if err != nil {
		RespondServiceError(c, err)
		return
	}
	RespondOK(c, gin.H{"star_score": score})
}

// POST /api/jobs/:id/practice/coding-problem
func (h *PracticeHandler) GenerateCodingProblem(c *gin.Context) {
	jobID, ok := parseJobID(c)
	if !ok {
		return
	}
	var body struct {
		Difficulty string `json:"difficulty"`
	}
	if c.Request.ContentLength > 0 {
		if err := c.ShouldBindJSON(&body); err != nil {
			RespondError(c, http.StatusBadRequest, "invalid_body", err)
			return
		}
	}
	problem, err := h.practice.GenerateCodingProblem(c.Request.Context(), jobID, body.Difficulty)
	if err != nil {
		RespondServiceError(c, err)
		return
	}
	RespondOK(c, gin.H{"problem": problem})
}

// POST /api/jobs/:id/practice/code-review
func (h *PracticeHandler) ReviewCode(c *gin.Context) {
	jobID, ok := parseJobID(c)
	if !ok {
		return
	}
	var body struct {
		Problem     json.RawMessage `json:"problem"`
		Code        string          `json:"code"`
		TestResults json.RawMessage `json:"test_results"`
	}
	if err := c.ShouldBindJSON(&body); err != nil {
		RespondError(c, http.StatusBadRequest, "invalid_body", err)
		return
	}
	review, err := h.practice.ReviewCode(c.Request.Context(), jobID, body.Problem, body.Code, body.TestResults)
	if err != nil {
		RespondServiceError(c, err)
		return
	}
	RespondOK(c, gin.H{"review": review})
}

// GET /api/jobs/:id/practice/sessions
func (h *PracticeHandler) ListSessions(c *gin.Context) {
	jobID, ok := parseJobID(c)
	if !ok {
		return
	}
	practice, err := h.practice.ListPracticeSessions(c.Request.Context(), jobID)
	if err != nil {
		RespondServiceError(c, err)
		return
	}
	coding, err := h.practice.ListCodingSessions(c.Request.Context(), jobID)
	if err != nil {
		RespondServiceError(c, err)
		return
	}
	RespondOK(c, gin.H{
		"practice_sessions": practice,
		"coding_sessions":   coding,
	})
}
