package handlers

import (
	"io"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/offerpath/offerpath-backend/internal/services"
)

type ResumeHandler struct {
	resume services.ResumeService
}

func NewResumeHandler(resume services.ResumeService) *ResumeHandler {
	return &ResumeHandler{resume: resume}
}

// POST /api/resume/upload
// Accepts a multipart text file and stores it alongside its structured parse.
func (h *ResumeHandler) Upload(c *gin.Context) {
	fileHeader, err := c.FormFile("file")
	if err != nil {
		RespondError(c, http.StatusBadRequest, "missing_file", err)
		return
	}
	f, err := fileHeader.Open()
	if err != nil {
		RespondError(c, http.StatusBadRequest, "unreadable_file", err)
		return
	}
	defer f.Close()
	raw, err := io.ReadAll(f)
	if err != nil {
		RespondError(c, http.StatusBadRequest, "unreadable_file", err)
		return
	}

	source, err := h.resume.Upload(c.Request.Context(), fileHeader.Filename, string(raw))
	if err != nil {
		RespondServiceError(c, err)
		return
	}
	c.JSON(http.StatusCreated, gin.H{"resume": source})
}

// POST /api/resume/paste
func (h *ResumeHandler) Paste(c *gin.Context) {
	var body struct {
		RawText string `json:"raw_text"`
	}
	if err := c.ShouldBindJSON(&body); err != nil {
		RespondError(c, http.StatusBadRequest, "invalid_body", err)
		return
	}
	source, err := h.resume.Paste(c.Request.Context(), strings.TrimSpace(body.RawText))
	if err != nil {
		RespondServiceError(c, err)
		return
	}
	c.JSON(http.StatusCreated, gin.H{"resume": source})
}

// GET /api/resume/latest
func (h *ResumeHandler) Latest(c *gin.Context) {
	source, err := h.resume.Latest(c.Request.Context())
	if err != nil {
		RespondServiceError(c, err)
		return
	}
	RespondOK(c, gin.H{"resume": source})
}
