package analytics

import (
	"slices"

	"github.com/cmlabs-hris/hr-analytics-go/internal/domain/analytics"
	"github.com/cmlabs-hris/hr-analytics-go/internal/domain/employee"
)

// FilterByYear keeps records hired in (FilterModeIn) or up to (FilterModeUntil)
// the selected year. The all-years selector keeps every record. The input is
// never modified.
func FilterByYear(records []employee.Employee, year analytics.YearSelector, mode analytics.FilterMode) []employee.Employee {
	if year.IsAll() {
		return slices.Clone(records)
	}

	out := make([]employee.Employee, 0, len(records))
	for _, r := range records {
		hired := r.HireYear()
		switch mode {
		case analytics.FilterModeIn:
			if hired == year.Value() {
				out = append(out, r)
			}
		default:
			if hired <= year.Value() {
				out = append(out, r)
			}
		}
	}
	return out
}

// FilterByDepartment keeps records whose department matches exactly. Year is ignored.
func FilterByDepartment(records []employee.Employee, dept analytics.DepartmentSelector) []employee.Employee {
	if dept.IsAll() {
		return slices.Clone(records)
	}

	out := make([]employee.Employee, 0, len(records))
	for _, r := range records {
		if dept.Matches(r.Department) {
			out = append(out, r)
		}
	}
	return out
}

// FilterByYearAndDepartment applies FilterByYear then FilterByDepartment.
func FilterByYearAndDepartment(records []employee.Employee, year analytics.YearSelector, mode analytics.FilterMode, dept analytics.DepartmentSelector) []employee.Employee {
	return FilterByDepartment(FilterByYear(records, year, mode), dept)
}

// FilterSelection applies every selector in sel.
func FilterSelection(records []employee.Employee, sel analytics.Selection) []employee.Employee {
	return FilterByYearAndDepartment(records, sel.Year, sel.Mode, sel.Department)
}

// DepartmentsFor returns the distinct departments with at least one record in
// the year-filtered view, ascending.
func DepartmentsFor(records []employee.Employee, year analytics.YearSelector, mode analytics.FilterMode) []string {
	set := make(map[string]struct{})
	for _, r := range FilterByYear(records, year, mode) {
		set[r.Department] = struct{}{}
	}
	out := make([]string, 0, len(set))
	for d := range set {
		out = append(out, d)
	}
	slices.Sort(out)
	return out
}

// ValidateDepartment returns a *analytics.SelectionError when dept names a
// department with no records in the year-filtered view.
func ValidateDepartment(records []employee.Employee, sel analytics.Selection) error {
	if sel.Department.IsAll() {
		return nil
	}
	if _, found := slices.BinarySearch(DepartmentsFor(records, sel.Year, sel.Mode), sel.Department.Name()); found {
		return nil
	}
	return &analytics.SelectionError{
		Department: sel.Department.Name(),
		Year:       sel.Year,
		Mode:       sel.Mode,
	}
}
