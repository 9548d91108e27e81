package handler

import (
	"errors"
	"net/http"
	"net/url"

	"github.com/gin-gonic/gin"

	"github.com/markkent-max/schedease/internal/dto"
	"github.com/markkent-max/schedease/internal/service"
	"github.com/markkent-max/schedease/pkg/response"
)

const xlsxContentType = "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet"

// ExportHandler timetable download
type ExportHandler struct {
	exportSvc service.ExportService
}

// NewExportHandler creates an ExportHandler
func NewExportHandler(exportSvc service.ExportService) *ExportHandler {
	return &ExportHandler{exportSvc: exportSvc}
}

// ExportTimetable streams the term timetable as xlsx
// GET /api/v1/export/timetable?semester=first&year=2025
func (h *ExportHandler) ExportTimetable(c *gin.Context) {
	var req dto.TimetableExportRequest
	if err := c.ShouldBindQuery(&req); err != nil {
		bindError(c, err)
		return
	}

	buf, filename, err := h.exportSvc.ExportTimetable(c.Request.Context(), &req)
	if err != nil {
		h.handleExportError(c, err)
		return
	}

	c.Header("Content-Description", "File Transfer")
	c.Header("Content-Disposition", "attachment; filename*=UTF-8''"+url.QueryEscape(filename))
	c.Data(http.StatusOK, xlsxContentType, buf.Bytes())
}

func (h *ExportHandler) handleExportError(c *gin.Context, err error) {
	if handleCommonError(c, err) {
		return
	}
	switch {
	case errors.Is(err, service.ErrNothingToExport):
		response.NotFound(c, 16101, "no schedules for this term")
	case errors.Is(err, service.ErrExportGenerateFail):
		response.Error(c, http.StatusInternalServerError, 16102, "failed to generate spreadsheet")
	default:
		response.InternalError(c)
	}
}
