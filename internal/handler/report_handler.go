package handler

import (
	"bytes"
	"net/http"
	"time"

	"github.com/labstack/echo/v4"

	"cleanops/internal/service"
)

// ReportHandler exposes aggregated reporting endpoints.
type ReportHandler struct {
	reports service.ReportService
}

// NewReportHandler creates a new report handler.
func NewReportHandler(reports service.ReportService) *ReportHandler {
	return &ReportHandler{reports: reports}
}

// Summary godoc
// @Summary Aggregated service report for a period
// @Tags reports
// @Produce json
// @Security BearerAuth
// @Param from query string false "Period start (RFC3339), defaults to 30 days ago"
// @Param to query string false "Period end (RFC3339), defaults to now"
// @Success 200 {object} service.ReportSummary
// @Failure 403 {object} errors.ErrorResponse
// @Router /reports/summary [get]
func (h *ReportHandler) Summary(c echo.Context) error {
	p, err := actor(c)
	if err != nil {
		return err
	}

	from, to, err := reportPeriod(c)
	if err != nil {
		return err
	}

	summary, err := h.reports.Summary(c.Request().Context(), p, from, to)
	if err != nil {
		return httpError(err)
	}
	return c.JSON(http.StatusOK, summary)
}

// Export godoc
// @Summary CSV export of service requests for a period
// @Tags reports
// @Produce text/csv
// @Security BearerAuth
// @Success 200 {string} string
// @Failure 403 {object} errors.ErrorResponse
// @Router /reports/export [get]
func (h *ReportHandler) Export(c echo.Context) error {
	p, err := actor(c)
	if err != nil {
		return err
	}

	from, to, err := reportPeriod(c)
	if err != nil {
		return err
	}

	var buf bytes.Buffer
	if err := h.reports.ExportCSV(c.Request().Context(), p, from, to, &buf); err != nil {
		return httpError(err)
	}

	c.Response().Header().Set(echo.HeaderContentDisposition, `attachment; filename="services.csv"`)
	return c.Blob(http.StatusOK, "text/csv", buf.Bytes())
}

func reportPeriod(c echo.Context) (from, to time.Time, err error) {
	to = time.Now()
	from = to.AddDate(0, 0, -30)
	if raw := c.QueryParam("from"); raw != "" {
		from, err = time.Parse(time.RFC3339, raw)
		if err != nil {
			return from, to, echo.NewHTTPError(http.StatusBadRequest, "invalid from timestamp")
		}
	}
	if raw := c.QueryParam("to"); raw != "" {
		to, err = time.Parse(time.RFC3339, raw)
		if err != nil {
			return from, to, echo.NewHTTPError(http.StatusBadRequest, "invalid to timestamp")
		}
	}
	return from, to, nil
}
