package analytics

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/cmlabs-hris/hr-analytics-go/internal/domain/employee"
	"github.com/cmlabs-hris/hr-analytics-go/internal/pkg/validator"
)

// YearSelector picks a hire year. The zero value selects all years.
type YearSelector struct {
	year int
	set  bool
}

func AllYears() YearSelector {
	return YearSelector{}
}

func Year(y int) YearSelector {
	return YearSelector{year: y, set: true}
}

func (s YearSelector) IsAll() bool {
	return !s.set
}

// Value returns the selected year; it is 0 for the all-years sentinel.
func (s YearSelector) Value() int {
	return s.year
}

func (s YearSelector) String() string {
	if s.IsAll() {
		return employee.AllYearsOption
	}
	return strconv.Itoa(s.year)
}

// ParseYearSelector accepts a four-digit year, or "", "all" and "All Years" for the sentinel.
func ParseYearSelector(raw string) (YearSelector, error) {
	raw = strings.TrimSpace(raw)
	if validator.IsEmpty(raw) || strings.EqualFold(raw, "all") || strings.EqualFold(raw, employee.AllYearsOption) {
		return AllYears(), nil
	}
	if !validator.IsNumeric(raw) {
		return YearSelector{}, fmt.Errorf("%w: %q", ErrInvalidYear, raw)
	}
	y, err := strconv.Atoi(raw)
	if err != nil || y < 1 {
		return YearSelector{}, fmt.Errorf("%w: %q", ErrInvalidYear, raw)
	}
	return Year(y), nil
}

// FilterMode controls how a YearSelector matches hire years.
type FilterMode int

const (
	// FilterModeUntil keeps hire years up to and including the selected year.
	FilterModeUntil FilterMode = iota
	// FilterModeIn keeps only the selected hire year.
	FilterModeIn
)

// DefaultFilterMode applies to any unrecognised mode value.
const DefaultFilterMode = FilterModeUntil

// ParseFilterMode maps exactly "In" to FilterModeIn and everything else,
// including other casings, to DefaultFilterMode.
func ParseFilterMode(raw string) FilterMode {
	if raw == "In" {
		return FilterModeIn
	}
	return DefaultFilterMode
}

func (m FilterMode) String() string {
	if m == FilterModeIn {
		return "In"
	}
	return "Until"
}

func (m FilterMode) MarshalText() ([]byte, error) {
	return []byte(m.String()), nil
}

// FilterModes lists the selectable modes in dropdown order.
func FilterModes() []string {
	return []string{FilterModeUntil.String(), FilterModeIn.String()}
}

// DepartmentSelector picks one department by exact name. The zero value selects all departments.
type DepartmentSelector struct {
	name string
}

func AllDepartments() DepartmentSelector {
	return DepartmentSelector{}
}

func Department(name string) DepartmentSelector {
	return DepartmentSelector{name: name}
}

func (s DepartmentSelector) IsAll() bool {
	return s.name == ""
}

func (s DepartmentSelector) Name() string {
	return s.name
}

// Matches reports whether dept passes this selector. Matching is case-sensitive.
func (s DepartmentSelector) Matches(dept string) bool {
	return s.IsAll() || s.name == dept
}

func (s DepartmentSelector) String() string {
	if s.IsAll() {
		return employee.AllDepartmentsOption
	}
	return s.name
}

// ParseDepartmentSelector treats "" and "All Departments" as the sentinel. Any
// other value is kept verbatim and matched exactly.
func ParseDepartmentSelector(raw string) DepartmentSelector {
	if raw == "" || raw == employee.AllDepartmentsOption {
		return AllDepartments()
	}
	return Department(raw)
}

// Selection bundles every selector a view can take. The zero value selects everything.
type Selection struct {
	Year       YearSelector
	Mode       FilterMode
	Department DepartmentSelector
}

func (s Selection) Echo() SelectionEcho {
	return SelectionEcho{
		Year:       s.Year.String(),
		FilterType: s.Mode.String(),
		Department: s.Department.String(),
	}
}

// YearEcho reports only the year selectors, for views without a department filter.
func (s Selection) YearEcho() SelectionEcho {
	return SelectionEcho{
		Year:       s.Year.String(),
		FilterType: s.Mode.String(),
	}
}
