package report

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"regexp"
	"strings"

	"github.com/cmlabs-hris/hr-analytics-go/internal/domain/analytics"
	"github.com/cmlabs-hris/hr-analytics-go/internal/domain/employee"
	"github.com/cmlabs-hris/hr-analytics-go/internal/domain/report"
	analyticsService "github.com/cmlabs-hris/hr-analytics-go/internal/service/analytics"
	"github.com/xuri/excelize/v2"
)

const employeeSheet = "Employees"

type column struct {
	header string
	width  float64
	value  func(employee.Employee) interface{}
}

var employeeColumns = []column{
	{"Employee", 28, func(e employee.Employee) interface{} { return e.Name }},
	{"Gender", 10, func(e employee.Employee) interface{} { return e.Gender }},
	{"Education", 14, func(e employee.Employee) interface{} { return e.Education }},
	{"City", 18, func(e employee.Employee) interface{} { return e.City }},
	{"Performance", 13, func(e employee.Employee) interface{} { return e.PerformanceReview }},
	{"Salary", 14, func(e employee.Employee) interface{} { return e.Salary }},
}

type ReportServiceImpl struct {
	dataset *employee.Dataset
	logger  *slog.Logger
}

func NewReportService(dataset *employee.Dataset, logger *slog.Logger) report.ReportService {
	return &ReportServiceImpl{
		dataset: dataset,
		logger:  logger,
	}
}

// ExportEmployeeTable writes the filtered employee table to w
func (s *ReportServiceImpl) ExportEmployeeTable(ctx context.Context, req analytics.EmployeeTableRequest, w io.Writer) (*report.EmployeeExport, error) {
	if err := req.Validate(); err != nil {
		return nil, err
	}

	sel, _ := req.Selection()
	records, err := analyticsService.QueryEmployees(s.dataset.Records(), &req)
	if err != nil {
		return nil, err
	}
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	f, err := buildWorkbook(records)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", report.ErrWorkbookBuild, err)
	}
	defer f.Close()

	if _, err := f.WriteTo(w); err != nil {
		return nil, fmt.Errorf("failed to write workbook: %w", err)
	}

	s.logger.Info("employee table exported", "rows", len(records), "department", sel.Department.String(), "year", sel.Year.String())

	return &report.EmployeeExport{
		Filename:    exportFilename(sel),
		ContentType: report.ContentTypeXLSX,
		Rows:        len(records),
		Selection:   sel.Echo(),
	}, nil
}

func buildWorkbook(records []employee.Employee) (*excelize.File, error) {
	f := excelize.NewFile()
	if err := f.SetSheetName("Sheet1", employeeSheet); err != nil {
		f.Close()
		return nil, err
	}

	if err := writeSheet(f, records); err != nil {
		f.Close()
		return nil, err
	}
	return f, nil
}

func writeSheet(f *excelize.File, records []employee.Employee) error {
	headerStyle, err := f.NewStyle(&excelize.Style{
		Font: &excelize.Font{Bold: true},
		Fill: excelize.Fill{Type: "pattern", Pattern: 1, Color: []string{"#DDEBF7"}},
	})
	if err != nil {
		return err
	}
	// #,##0
	amountStyle, err := f.NewStyle(&excelize.Style{NumFmt: 3})
	if err != nil {
		return err
	}

	headers := make([]interface{}, len(employeeColumns))
	for i, col := range employeeColumns {
		headers[i] = col.header
		name, _ := excelize.ColumnNumberToName(i + 1)
		if err := f.SetColWidth(employeeSheet, name, name, col.width); err != nil {
			return err
		}
	}
	if err := f.SetSheetRow(employeeSheet, "A1", &headers); err != nil {
		return err
	}

	lastCol, _ := excelize.ColumnNumberToName(len(employeeColumns))
	if err := f.SetCellStyle(employeeSheet, "A1", lastCol+"1", headerStyle); err != nil {
		return err
	}

	for i, r := range records {
		row := make([]interface{}, len(employeeColumns))
		for j, col := range employeeColumns {
			row[j] = col.value(r)
		}
		cell, _ := excelize.CoordinatesToCellName(1, i+2)
		if err := f.SetSheetRow(employeeSheet, cell, &row); err != nil {
			return fmt.Errorf("error writing row %d: %w", i+1, err)
		}
	}

	lastRow := len(records) + 1
	if len(records) > 0 {
		if err := f.SetCellStyle(employeeSheet, fmt.Sprintf("%s2", lastCol), fmt.Sprintf("%s%d", lastCol, lastRow), amountStyle); err != nil {
			return err
		}
	}

	if err := f.AutoFilter(employeeSheet, fmt.Sprintf("A1:%s%d", lastCol, lastRow), nil); err != nil {
		return err
	}

	return f.SetPanes(employeeSheet, &excelize.Panes{
		Freeze:      true,
		YSplit:      1,
		TopLeftCell: "A2",
		ActivePane:  "bottomLeft",
	})
}

var unsafeFilename = regexp.MustCompile(`[^a-z0-9]+`)

// exportFilename builds e.g. employees-sales-until-2020.xlsx
func exportFilename(sel analytics.Selection) string {
	parts := []string{"employees"}
	if !sel.Department.IsAll() {
		parts = append(parts, sel.Department.Name())
	}
	if !sel.Year.IsAll() {
		parts = append(parts, sel.Mode.String(), sel.Year.String())
	}
	for i, p := range parts {
		parts[i] = strings.Trim(unsafeFilename.ReplaceAllString(strings.ToLower(p), "-"), "-")
	}
	return strings.Join(parts, "-") + ".xlsx"
}
