package analytics

import (
	"strings"
	"time"

	"github.com/cmlabs-hris/hr-analytics-go/internal/pkg/validator"
)

// ========== STATUS ==========

// Status tells the presentation layer whether a view has data to render.
type Status string

const (
	StatusOK                    Status = "ok"
	StatusNoData                Status = "no_data"
	StatusSelectionNotAvailable Status = "selection_not_available"
)

// Notice is a dismissible warning shown in place of a view's charts.
type Notice struct {
	Title   string `json:"title"`
	Message string `json:"message"`
	Hint    string `json:"hint,omitempty"`
}

// SelectionEcho reports the selectors a result was computed for.
type SelectionEcho struct {
	Year       string `json:"year"`
	FilterType string `json:"filter_type"`
	Department string `json:"department,omitempty"`
}

// ========== REQUESTS ==========

// DashboardRequest carries the shared year / filter-type selectors.
type DashboardRequest struct {
	Year       string `json:"year"`
	FilterType string `json:"filter_type"`
}

func (r DashboardRequest) Validate() error {
	_, err := r.Selection()
	return err
}

// Selection parses the request. Unknown filter types fall back to DefaultFilterMode.
func (r DashboardRequest) Selection() (Selection, error) {
	year, err := ParseYearSelector(r.Year)
	if err != nil {
		return Selection{}, validator.ValidationErrors{{
			Field:   "year",
			Message: "year must be a calendar year or 'All Years'",
		}}
	}
	return Selection{Year: year, Mode: ParseFilterMode(r.FilterType)}, nil
}

// PerformanceRequest adds a department selector to the dashboard selectors.
type PerformanceRequest struct {
	Year       string `json:"year"`
	FilterType string `json:"filter_type"`
	Department string `json:"department"`
}

func (r PerformanceRequest) Validate() error {
	_, err := r.Selection()
	return err
}

func (r PerformanceRequest) Selection() (Selection, error) {
	sel, err := DashboardRequest{Year: r.Year, FilterType: r.FilterType}.Selection()
	if err != nil {
		return Selection{}, err
	}
	sel.Department = ParseDepartmentSelector(r.Department)
	return sel, nil
}

// LocationsRequest filters the map by department only.
type LocationsRequest struct {
	Department string `json:"department"`
}

func (r LocationsRequest) Selection() Selection {
	return Selection{Department: ParseDepartmentSelector(r.Department)}
}

// Employee table columns accepted by the sort parameter.
const (
	ColumnEmployee    = "employee"
	ColumnGender      = "gender"
	ColumnEducation   = "education"
	ColumnCity        = "city"
	ColumnPerformance = "performance"
	ColumnSalary      = "salary"
)

var tableColumns = []string{
	ColumnEmployee, ColumnGender, ColumnEducation, ColumnCity, ColumnPerformance, ColumnSalary,
}

// TableColumns returns the employee table columns in display order.
func TableColumns() []string {
	return append([]string(nil), tableColumns...)
}

const (
	DefaultTablePage  = 1
	DefaultTableLimit = 10
	MaxTableLimit     = 100
)

// SortKey orders the employee table by one column.
type SortKey struct {
	Column     string `json:"column"`
	Descending bool   `json:"descending"`
}

// EmployeeTableRequest selects, sorts, searches and pages the employee table.
// Sort is a comma separated column list; a leading '-' sorts that column descending.
type EmployeeTableRequest struct {
	Year       string `json:"year"`
	FilterType string `json:"filter_type"`
	Department string `json:"department"`
	Sort       string `json:"sort"`
	Search     string `json:"search"`
	Page       int    `json:"page"`
	Limit      int    `json:"limit"`
}

func (r *EmployeeTableRequest) Validate() error {
	var errs validator.ValidationErrors

	if _, err := ParseYearSelector(r.Year); err != nil {
		errs = append(errs, validator.ValidationError{
			Field:   "year",
			Message: "year must be a calendar year or 'All Years'",
		})
	}

	if _, err := r.SortKeys(); err != nil {
		errs = append(errs, validator.ValidationError{
			Field:   "sort",
			Message: "sort must list columns from: " + strings.Join(tableColumns, ", "),
		})
	}

	if r.Page < 0 {
		errs = append(errs, validator.ValidationError{
			Field:   "page",
			Message: "page must be positive",
		})
	}

	if r.Limit < 0 || r.Limit > MaxTableLimit {
		errs = append(errs, validator.ValidationError{
			Field:   "limit",
			Message: "limit must be between 1 and 100",
		})
	}

	if len(errs) > 0 {
		return errs
	}
	return nil
}

// Normalize fills page and limit defaults.
func (r *EmployeeTableRequest) Normalize() {
	if r.Page == 0 {
		r.Page = DefaultTablePage
	}
	if r.Limit == 0 {
		r.Limit = DefaultTableLimit
	}
}

func (r *EmployeeTableRequest) Selection() (Selection, error) {
	return PerformanceRequest{Year: r.Year, FilterType: r.FilterType, Department: r.Department}.Selection()
}

// SortKeys parses Sort. Duplicate columns keep their first position.
func (r *EmployeeTableRequest) SortKeys() ([]SortKey, error) {
	var keys []SortKey
	seen := make(map[string]bool)
	for _, part := range strings.Split(r.Sort, ",") {
		part = strings.TrimSpace(part)
		if part == "" {
			continue
		}
		desc := strings.HasPrefix(part, "-")
		col := strings.ToLower(strings.TrimPrefix(part, "-"))
		if !validator.IsInSlice(col, tableColumns) {
			return nil, validator.ValidationErrors{{Field: "sort", Message: "unknown column " + col}}
		}
		if seen[col] {
			continue
		}
		seen[col] = true
		keys = append(keys, SortKey{Column: col, Descending: desc})
	}
	return keys, nil
}

// ========== FILTER OPTIONS ==========

// FilterOptionsResponse populates the selector dropdowns. Departments are those
// valid for the selected year range, sentinel first.
type FilterOptionsResponse struct {
	Selection   SelectionEcho `json:"selection"`
	Years       []string      `json:"years"`
	FilterTypes []string      `json:"filter_types"`
	Departments []string      `json:"departments"`
}

// DatasetInfoResponse describes the loaded dataset snapshot.
type DatasetInfoResponse struct {
	ID          string    `json:"id"`
	Source      string    `json:"source"`
	LoadedAt    time.Time `json:"loaded_at"`
	Records     int       `json:"records"`
	Years       []int     `json:"years"`
	Departments []string  `json:"departments"`
}

// ========== AGGREGATES ==========

// Amount is a currency value with its display form, e.g. "50,000".
type Amount struct {
	Value     float64 `json:"value"`
	Formatted string  `json:"formatted"`
}

// Percentage is a 0-100 rate with its display form, e.g. "12.50%".
type Percentage struct {
	Value     float64 `json:"value"`
	Formatted string  `json:"formatted"`
}

// HeadcountSummary feeds the Home KPI cards.
type HeadcountSummary struct {
	Employees     int    `json:"employees"`
	Positions     int    `json:"positions"`
	AverageSalary Amount `json:"average_salary"`
}

// CategoryCount is one bar or slice of a count chart.
type CategoryCount struct {
	Label string `json:"label"`
	Count int    `json:"count"`
}

// DepartmentMetric is one bar of a per-department mean chart.
type DepartmentMetric struct {
	Department string  `json:"department"`
	Value      float64 `json:"value"`
	Formatted  string  `json:"formatted"`
}

// PivotRow holds the counts for one row key; every column of the pivot is present.
type PivotRow struct {
	Key    string         `json:"key"`
	Counts map[string]int `json:"counts"`
}

// Pivot is a zero-filled cross tabulation of two categorical columns.
type Pivot struct {
	RowDimension    string     `json:"row_dimension"`
	ColumnDimension string     `json:"column_dimension"`
	Columns         []string   `json:"columns"`
	Rows            []PivotRow `json:"rows"`
}

// PerformanceCards feeds the Performance KPI cards.
type PerformanceCards struct {
	PerformanceRate Percentage `json:"performance_rate"`
	TurnoverRate    Percentage `json:"turnover_rate"`
	Terminations    int        `json:"terminations"`
	Promotions      int        `json:"promotions"`
}

// CityHeadcount is one map marker.
type CityHeadcount struct {
	City      string  `json:"city"`
	Latitude  float64 `json:"latitude"`
	Longitude float64 `json:"longitude"`
	Employees int     `json:"employees"`
}

// LocationHeadcount is the joined city headcount. Employees whose city has no
// coordinate are counted in UnmatchedEmployees and left off the map.
type LocationHeadcount struct {
	Cities             []CityHeadcount `json:"cities"`
	TotalEmployees     int             `json:"total_employees"`
	MatchedEmployees   int             `json:"matched_employees"`
	UnmatchedEmployees int             `json:"unmatched_employees"`
	UnmatchedCities    []string        `json:"unmatched_cities"`
}

// EmployeeRow is one row of the employee table.
type EmployeeRow struct {
	ID          string `json:"id"`
	Employee    string `json:"employee"`
	Gender      string `json:"gender"`
	Education   string `json:"education"`
	City        string `json:"city"`
	Performance string `json:"performance"`
	Salary      string `json:"salary"`
}

// ========== VIEWS ==========

type HomeResponse struct {
	Selection             SelectionEcho     `json:"selection"`
	Status                Status            `json:"status"`
	Notice                *Notice           `json:"notice,omitempty"`
	Cards                 *HeadcountSummary `json:"cards,omitempty"`
	GenderDistribution    []CategoryCount   `json:"gender_distribution"`
	DepartmentHeadcount   []CategoryCount   `json:"department_headcount"`
	EducationDistribution []CategoryCount   `json:"education_distribution"`
}

type DepartmentsResponse struct {
	Selection             SelectionEcho      `json:"selection"`
	Status                Status             `json:"status"`
	Notice                *Notice            `json:"notice,omitempty"`
	AverageSalary         []DepartmentMetric `json:"average_salary"`
	GenderByDepartment    *Pivot             `json:"gender_by_department,omitempty"`
	EducationByDepartment *Pivot             `json:"education_by_department,omitempty"`
}

type LocationsResponse struct {
	Selection SelectionEcho      `json:"selection"`
	Status    Status             `json:"status"`
	Notice    *Notice            `json:"notice,omitempty"`
	Locations *LocationHeadcount `json:"locations,omitempty"`
}

type PerformanceResponse struct {
	Selection               SelectionEcho      `json:"selection"`
	Status                  Status             `json:"status"`
	Notice                  *Notice            `json:"notice,omitempty"`
	Cards                   *PerformanceCards  `json:"cards,omitempty"`
	PerformanceByDepartment []DepartmentMetric `json:"performance_by_department"`
}

type EmployeeTableResponse struct {
	Selection  SelectionEcho `json:"selection"`
	Status     Status        `json:"status"`
	Notice     *Notice       `json:"notice,omitempty"`
	Columns    []string      `json:"columns"`
	Sort       []SortKey     `json:"sort,omitempty"`
	Rows       []EmployeeRow `json:"rows"`
	Page       int           `json:"-"`
	Limit      int           `json:"-"`
	TotalItems int64         `json:"-"`
	TotalPages int           `json:"-"`
}
