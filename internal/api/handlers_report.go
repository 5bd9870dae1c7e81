package api

import (
	"bytes"
	"fmt"
	"net/http"

	"aircare/internal/metrics"
	"aircare/internal/report"

	"github.com/labstack/echo/v4"
)

// HandleMaintenanceReport exports the fleet maintenance report as an attachment
func (h *Handler) HandleMaintenanceReport(c echo.Context) error {
	format, err := report.ParseFormat(c.QueryParam("format"))
	if err != nil {
		return NewValidationError("format", err)
	}

	list, err := h.aircraft.List(c.Request().Context())
	if err != nil {
		return NewInternalError("failed to list aircraft", err)
	}

	now := h.now()
	var buf bytes.Buffer
	err = report.Render(&buf, format, report.BuildRows(list, now), now)
	metrics.IncReportExport(string(format), err)
	if err != nil {
		return NewInternalError("failed to render report", err)
	}

	c.Response().Header().Set(echo.HeaderContentDisposition,
		fmt.Sprintf("attachment; filename=%q", report.FileName(format, now)))
	return c.Blob(http.StatusOK, format.ContentType(), buf.Bytes())
}
