package handlers

import (
	"github.com/gin-gonic/gin"

	"github.com/offerpath/offerpath-backend/internal/services"
)

type DemoHandler struct {
	demo services.DemoService
}

func NewDemoHandler(demo services.DemoService) *DemoHandler {
	return &DemoHandler{demo: demo}
}

// POST /api/demo/load
func (h *DemoHandler) Load(c *gin.Context) {
	job, err := h.demo.Seed(c.Request.Context())
	if err != nil {
		RespondServiceError(c, err)
		return
	}
	RespondOK(c, gin.H{"job": job})
}

// POST /api/demo/reset
func (h *DemoHandler) Reset(c *gin.Context) {
	if err := h.demo.Reset(c.Request.Context()); err != nil {
		RespondServiceError(c, err)
		return
	}
	RespondOK(c, gin.H{"reset": true})
}
