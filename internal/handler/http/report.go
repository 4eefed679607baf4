package http

import (
	"bytes"
	"net/http"

	"github.com/cmlabs-hris/hr-analytics-go/internal/domain/report"
	"github.com/cmlabs-hris/hr-analytics-go/internal/handler/http/response"
)

type ReportHandler interface {
	// ExportEmployees downloads the filtered employee table as xlsx
	ExportEmployees(w http.ResponseWriter, r *http.Request)
}

type reportHandlerImpl struct {
	reportService report.ReportService
}

func NewReportHandler(reportService report.ReportService) ReportHandler {
	return &reportHandlerImpl{
		reportService: reportService,
	}
}

// ExportEmployees handles GET /employees/export
func (h *reportHandlerImpl) ExportEmployees(w http.ResponseWriter, r *http.Request) {
	req, malformed := employeeTableRequest(r)
	if len(malformed) > 0 {
		response.BadRequest(w, "Malformed query parameters", malformed.ToMap())
		return
	}

	// Buffered so a failure can still be reported as JSON.
	var buf bytes.Buffer
	result, err := h.reportService.ExportEmployeeTable(r.Context(), req, &buf)
	if err != nil {
		response.HandleError(w, err)
		return
	}

	response.Attachment(w, result.Filename, result.ContentType, buf.Len(), &buf)
}
