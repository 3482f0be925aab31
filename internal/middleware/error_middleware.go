package middleware

import (
	"errors"

	"github.com/gin-gonic/gin"

	"github.com/acadmx/curricula/internal/app/models/dto"
	"github.com/acadmx/curricula/internal/pkg/apperrors"
	"github.com/acadmx/curricula/internal/pkg/dberrors"
)

// HandleAPIError maps service and pipeline errors onto HTTP responses.
// Keeping the mapping in one place keeps controllers free of status-code
// bookkeeping.
func HandleAPIError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, apperrors.ErrValidationFailed), errors.Is(err, apperrors.ErrBadRequest):
		c.JSON(400, dto.NewErrorResponse(
			dto.NewErrorDetail(dto.ErrorCodeValidationFailed, err.Error())))

	case errors.Is(err, apperrors.ErrPlanNotFound),
		errors.Is(err, apperrors.ErrCourseNotFound),
		errors.Is(err, apperrors.ErrFileNotFound),
		errors.Is(err, apperrors.ErrResourceNotFound):
		c.JSON(404, dto.NewErrorResponse(
			dto.NewErrorDetail(dto.ErrorCodeResourceNotFound, err.Error())))

	case errors.Is(err, apperrors.ErrDuplicateCode),
		errors.Is(err, apperrors.ErrResourceAlreadyExists):
		c.JSON(409, dto.NewErrorResponse(
			dto.NewErrorDetail(dto.ErrorCodeResourceAlreadyExists, err.Error())))

	case errors.Is(err, apperrors.ErrConflict):
		c.JSON(409, dto.NewErrorResponse(
			dto.NewErrorDetail(dto.ErrorCodeResourceConflict, err.Error())))

	case errors.Is(err, apperrors.ErrExtractorFailed),
		errors.Is(err, apperrors.ErrExtractorOutputInvalid):
		c.JSON(502, dto.NewErrorResponse(
			dto.NewErrorDetail(dto.ErrorCodeExtractorError, "Document extraction failed")))

	case dberrors.IsUniqueViolation(err):
		// Concurrent ingestions racing on the same unique key surface as a
		// hard conflict; the caller may simply re-run the ingestion.
		c.JSON(409, dto.NewErrorResponse(
			dto.NewErrorDetail(dto.ErrorCodeDatabaseError, "Conflicting concurrent ingestion")))

	default:
		c.JSON(500, dto.NewErrorResponse(
			dto.NewErrorDetail(dto.ErrorCodeInternalServer, "Internal server error")))
	}
}
