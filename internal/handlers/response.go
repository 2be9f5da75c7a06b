package handlers

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	apperrors "github.com/offerpath/offerpath-backend/internal/pkg/errors"
)

type APIError struct {
	Message string `json:"message"`
	Code    string `json:"code,omitempty"`
}

type ErrorEnvelope struct {
	Error APIError `json:"error"`
}

func RespondError(c *gin.Context, status int, code string, err error) {
	msg := "unknown error"
	if err != nil {
		msg = err.Error()
	}
	c.JSON(status, ErrorEnvelope{
		Error: APIError{
			Message: msg,
			Code:    code,
		},
	})
}

func RespondOK(c *gin.Context, payload any) {
	c.JSON(http.StatusOK, payload)
}

// RespondServiceError maps the service error taxonomy onto HTTP statuses.
func RespondServiceError(c *gin.Context, err error) {
	switch {
	case apperrors.IsMissingPrecondition(err):
		RespondError(c, http.StatusBadRequest, "missing_precondition", err)
	case errors.Is(err, apperrors.ErrInvalidArgument):
		RespondError(c, http.StatusBadRequest, "invalid_argument", err)
	case errors.Is(err, apperrors.ErrNoResumeContent):
		RespondError(c, http.StatusBadRequest, "no_resume_content", err)
	case errors.Is(err, apperrors.ErrNotFound):
		RespondError(c, http.StatusNotFound, "not_found", err)
	case apperrors.IsContentViolation(err):
		RespondError(c, http.StatusConflict, "content_violation", err)
	case apperrors.IsMalformedOutput(err):
		RespondError(c, http.StatusUnprocessableEntity, "malformed_output", err)
	case apperrors.IsGenerationFailure(err):
		RespondError(c, http.StatusBadGateway, "generation_failed", err)
	default:
		RespondError(c, http.StatusInternalServerError, "internal", err)
	}
}
