package report

import "github.com/cmlabs-hris/hr-analytics-go/internal/domain/analytics"

const ContentTypeXLSX = "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet"

// EmployeeExport describes a written workbook.
type EmployeeExport struct {
	Filename    string                  `json:"filename"`
	ContentType string                  `json:"content_type"`
	Rows        int                     `json:"rows"`
	Selection   analytics.SelectionEcho `json:"selection"`
}
