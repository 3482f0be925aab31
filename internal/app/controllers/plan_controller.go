package controllers

import (
	"context"
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"

	"github.com/acadmx/curricula/internal/app/models"
	"github.com/acadmx/curricula/internal/app/models/dto"
	"github.com/acadmx/curricula/internal/app/services"
	"github.com/acadmx/curricula/internal/middleware"
	"github.com/acadmx/curricula/internal/pkg/extractor"
	"github.com/acadmx/curricula/internal/pkg/filestorage"
)

// PlanController exposes the ingestion entry points: document upload with
// extraction, and direct payload ingestion.
type PlanController struct {
	ingestor  services.Ingestor
	extractor extractor.Extractor
	storage   filestorage.Storage
	files     FileStore
	logger    zerolog.Logger
}

// FileStore records uploaded document metadata before extraction runs.
type FileStore interface {
	Create(ctx context.Context, file *models.File) (int64, error)
}

// NewPlanController creates a new PlanController
func NewPlanController(
	ingestor services.Ingestor,
	ext extractor.Extractor,
	storage filestorage.Storage,
	files FileStore,
	logger zerolog.Logger,
) *PlanController {
	return &PlanController{
		ingestor:  ingestor,
		extractor: ext,
		storage:   storage,
		files:     files,
		logger:    logger,
	}
}

// ImportPlan handles a study-plan document upload: the document is stored,
// handed to the extractor, and the resulting payload ingested. Extractor
// failures are reported without ever invoking the pipeline.
func (c *PlanController) ImportPlan(ctx *gin.Context) {
	fileHeader, err := ctx.FormFile("file")
	if err != nil {
		errorDetail := dto.NewErrorDetail(dto.ErrorCodeValidationFailed, "A plan document upload is required")
		errorDetail = errorDetail.WithField("file").WithDetails(err.Error())
		ctx.JSON(http.StatusBadRequest, dto.NewErrorResponse(errorDetail))
		return
	}

	opts := extractor.Options{
		Debug: ctx.PostForm("debug") == "true",
		OCR:   ctx.PostForm("ocr") == "true",
	}

	stored, err := c.storage.SaveDocument(fileHeader)
	if err != nil {
		c.logger.Error().Err(err).Str("filename", fileHeader.Filename).Msg("Failed to store uploaded document")
		middleware.HandleAPIError(ctx, err)
		return
	}

	file := &models.File{
		FileName: stored.Filename,
		FileURL:  stored.URL,
		FileSize: stored.Size,
		FileType: stored.MimeType,
	}
	fileID, err := c.files.Create(ctx, file)
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}

	payload, err := c.extractor.Extract(ctx, stored.Path, opts)
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}

	if !payload.OK {
		errorDetail := dto.NewErrorDetail(dto.ErrorCodeExtractorError, "Extractor reported an unusable document")
		errorDetail = errorDetail.WithDetails(payload.Warnings)
		ctx.JSON(http.StatusUnprocessableEntity, dto.NewErrorResponse(errorDetail))
		return
	}

	result, err := c.ingestor.Ingest(ctx, payload, &fileID)
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}

	ctx.JSON(http.StatusOK, dto.APIResponse{
		Data:      dto.ImportResponse{FileID: fileID, Result: result},
		Timestamp: time.Now(),
	})
}

// IngestPayload ingests a pre-extracted plan payload directly. An optional
// fileId query parameter ties the audit entry to a previously uploaded
// document.
func (c *PlanController) IngestPayload(ctx *gin.Context) {
	var payload dto.PlanPayload
	if err := ctx.ShouldBindJSON(&payload); err != nil {
		errorDetail := dto.NewErrorDetail(dto.ErrorCodeValidationFailed, "Invalid plan payload")
		errorDetail = errorDetail.WithDetails(err.Error())
		ctx.JSON(http.StatusBadRequest, dto.NewErrorResponse(errorDetail))
		return
	}

	var fileID *int64
	if raw := ctx.Query("fileId"); raw != "" {
		id, err := strconv.ParseInt(raw, 10, 64)
		if err != nil {
			errorDetail := dto.NewErrorDetail(dto.ErrorCodeValidationFailed, "Invalid fileId")
			errorDetail = errorDetail.WithField("fileId").WithDetails("fileId must be a valid number")
			ctx.JSON(http.StatusBadRequest, dto.NewErrorResponse(errorDetail))
			return
		}
		fileID = &id
	}

	result, err := c.ingestor.Ingest(ctx, &payload, fileID)
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}

	ctx.JSON(http.StatusOK, dto.APIResponse{
		Data:      result,
		Timestamp: time.Now(),
	})
}
