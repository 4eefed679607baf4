package analytics

import (
	"cmp"
	"slices"
	"strconv"
	"strings"

	"github.com/cmlabs-hris/hr-analytics-go/internal/domain/analytics"
	"github.com/cmlabs-hris/hr-analytics-go/internal/domain/employee"
	"github.com/cmlabs-hris/hr-analytics-go/internal/pkg/utils"
)

// QueryEmployees filters, searches and sorts records for the employee table.
// The request must already be validated. An unknown department for the year
// range returns a *analytics.SelectionError.
func QueryEmployees(records []employee.Employee, req *analytics.EmployeeTableRequest) ([]employee.Employee, error) {
	sel, err := req.Selection()
	if err != nil {
		return nil, err
	}
	if err := ValidateDepartment(records, sel); err != nil {
		return nil, err
	}
	keys, err := req.SortKeys()
	if err != nil {
		return nil, err
	}

	out := SearchEmployees(FilterSelection(records, sel), req.Search)
	SortEmployees(out, keys)
	return out, nil
}

// SearchEmployees keeps records where any text column contains term, ignoring case.
func SearchEmployees(records []employee.Employee, term string) []employee.Employee {
	term = strings.ToLower(strings.TrimSpace(term))
	if term == "" {
		return records
	}

	out := make([]employee.Employee, 0, len(records))
	for _, r := range records {
		fields := []string{r.Name, r.Gender, r.Education, r.City, r.Department, r.Position}
		for _, f := range fields {
			if strings.Contains(strings.ToLower(f), term) {
				out = append(out, r)
				break
			}
		}
	}
	return out
}

// SortEmployees sorts in place by keys, then by ID. With no keys the input order is kept.
func SortEmployees(records []employee.Employee, keys []analytics.SortKey) {
	if len(keys) == 0 {
		return
	}
	slices.SortStableFunc(records, func(a, b employee.Employee) int {
		for _, k := range keys {
			c := compareColumn(a, b, k.Column)
			if k.Descending {
				c = -c
			}
			if c != 0 {
				return c
			}
		}
		return cmp.Compare(a.ID, b.ID)
	})
}

func compareColumn(a, b employee.Employee, column string) int {
	switch column {
	case analytics.ColumnEmployee:
		return cmp.Compare(a.Name, b.Name)
	case analytics.ColumnGender:
		return cmp.Compare(a.Gender, b.Gender)
	case analytics.ColumnEducation:
		return cmp.Compare(a.Education, b.Education)
	case analytics.ColumnCity:
		return cmp.Compare(a.City, b.City)
	case analytics.ColumnPerformance:
		return cmp.Compare(a.PerformanceReview, b.PerformanceReview)
	case analytics.ColumnSalary:
		return cmp.Compare(a.Salary, b.Salary)
	}
	return 0
}

// ToEmployeeRow formats a record for display.
func ToEmployeeRow(r employee.Employee) analytics.EmployeeRow {
	return analytics.EmployeeRow{
		ID:          r.ID,
		Employee:    r.Name,
		Gender:      r.Gender,
		Education:   r.Education,
		City:        r.City,
		Performance: strconv.Itoa(r.PerformanceReview),
		Salary:      utils.FormatAmount(r.Salary),
	}
}

// Paginate returns the 1-based page of records and the total page count.
func Paginate(records []employee.Employee, page, limit int) ([]employee.Employee, int) {
	if limit <= 0 {
		return records, 1
	}
	totalPages := (len(records) + limit - 1) / limit
	if page < 1 || page > totalPages {
		return nil, totalPages
	}
	start := (page - 1) * limit
	end := min(start+limit, len(records))
	return records[start:end], totalPages
}
