package handlers

import (
	"fmt"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/offerpath/offerpath-backend/internal/services"
)

const xlsxContentType = "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet"

type ExportHandler struct {
	export services.ExportService
}

func NewExportHandler(export services.ExportService) *ExportHandler {
	return &ExportHandler{export: export}
}

// GET /api/export/jobs.xlsx
func (h *ExportHandler) JobTracker(c *gin.Context) {
	data, err := h.export.JobTrackerXLSX(c.Request.Context())
	if err != nil {
		RespondServiceError(c, err)
		return
	}
	filename := fmt.Sprintf("job-tracker-%s.xlsx", time.Now().UTC().Format("2006-01-02"))
	c.Header("Content-Disposition", `attachment; filename="`+filename+`"`)
	c.Data(http.StatusOK, xlsxContentType, data)
}

// GET /api/export/jobs/:id
// Returns the job row plus every derived artifact and ledger in one payload.
func (h *ExportHandler) JobArtifacts(c *gin.Context) {
	jobID, ok := parseJobID(c)
	if !ok {
		return
	}
	bundle, err := h.export.JobArtifacts(c.Request.Context(), jobID)
	if err != nil {
		RespondServiceError(c, err)
		return
	}
	RespondOK(c, bundle)
}
