package report

import (
	"context"
	"io"

	"github.com/cmlabs-hris/hr-analytics-go/internal/domain/analytics"
)

// ReportService defines the interface for downloadable reports
type ReportService interface {
	// ExportEmployeeTable writes every row of the filtered, sorted employee table as an xlsx workbook.
	// Paging fields on the request are ignored.
	ExportEmployeeTable(ctx context.Context, req analytics.EmployeeTableRequest, w io.Writer) (*EmployeeExport, error)
}
