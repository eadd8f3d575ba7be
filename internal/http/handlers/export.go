package handlers

import (
	"context"
	"errors"
	"fmt"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/stagekit/stageplot-backend/internal/http/response"
	"github.com/stagekit/stageplot-backend/internal/services"
)

type ExportHandler struct {
	exportService services.ExportService
}

func NewExportHandler(exportService services.ExportService) *ExportHandler {
	return &ExportHandler{exportService: exportService}
}

// GET /api/plots/:id/export/csv
func (eh *ExportHandler) ExportCSV(c *gin.Context) {
	eh.export(c, "text/csv; charset=utf-8", eh.exportService.ExportCSV)
}

// GET /api/plots/:id/export/xlsx
func (eh *ExportHandler) ExportXLSX(c *gin.Context) {
	eh.export(c, "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet", eh.exportService.ExportXLSX)
}

// GET /api/plots/:id/export/pdf
func (eh *ExportHandler) ExportPDF(c *gin.Context) {
	eh.export(c, "application/pdf", eh.exportService.ExportPDF)
}

func (eh *ExportHandler) export(
	c *gin.Context,
	contentType string,
	fn func(ctx context.Context, plotID uuid.UUID) ([]byte, string, error),
) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		response.RespondError(c, http.StatusBadRequest, "invalid_plot_id", err)
		return
	}
	data, filename, err := fn(c.Request.Context(), id)
	if err != nil {
		if errors.Is(err, services.ErrPlotNotFound) {
			response.RespondError(c, http.StatusNotFound, "plot_not_found", err)
			return
		}
		response.RespondError(c, http.StatusInternalServerError, "export_failed", err)
		return
	}
	c.Header("Content-Disposition", fmt.Sprintf("attachment; filename=%q", filename))
	c.Data(http.StatusOK, contentType, data)
}
