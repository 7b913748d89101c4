package handler

import (
	"fmt"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/coursematch/tutor-api/internal/service"
	appErrors "github.com/coursematch/tutor-api/pkg/errors"
	"github.com/coursematch/tutor-api/pkg/response"
)

// ExportHandler wires HTTP endpoints to the export service.
type ExportHandler struct {
	service *service.ExportService
}

// NewExportHandler creates a new handler.
func NewExportHandler(svc *service.ExportService) *ExportHandler {
	return &ExportHandler{service: svc}
}

// CourseHistory godoc
// @Summary Download own course history
// @Description Download the authenticated user's full course history as CSV or PDF
// @Tags Exports
// @Produce text/csv
// @Produce application/pdf
// @Security BearerAuth
// @Param format query string false "csv or pdf" default(csv)
// @Success 200 {file} file
// @Failure 400 {object} response.Envelope
// @Failure 401 {object} response.Envelope
// @Router /me/exports/course-history [get]
func (h *ExportHandler) CourseHistory(c *gin.Context) {
	claims := claimsFromContext(c)
	if claims == nil {
		response.Error(c, appErrors.ErrUnauthorized)
		return
	}

	var (
		file *service.ExportFile
		err  error
	)
	switch format := c.DefaultQuery("format", "csv"); format {
	case "csv":
		file, err = h.service.CourseHistoryCSV(c.Request.Context(), claims.UserID)
	case "pdf":
		file, err = h.service.CourseHistoryPDF(c.Request.Context(), claims.UserID)
	default:
		response.Error(c, appErrors.Clone(appErrors.ErrValidation, "format must be csv or pdf"))
		return
	}
	if err != nil {
		response.Error(c, err)
		return
	}

	c.Header("Content-Disposition", fmt.Sprintf("attachment; filename=%q", file.FileName))
	c.Header("Cache-Control", "no-store")
	c.Data(http.StatusOK, file.ContentType, file.Content)
}
