package employee

import (
	"slices"
	"strconv"
	"time"

	"github.com/google/uuid"
)

const (
	AllYearsOption       = "All Years"
	AllDepartmentsOption = "All Departments"
)

// Dataset is the immutable, in-memory set of employee records loaded at startup.
// Derived option lists are computed once from the full set.
type Dataset struct {
	id          string
	loadedAt    time.Time
	source      string
	records     []Employee
	years       []int
	departments []string
}

// NewDataset snapshots records and derives the distinct hire years and departments.
func NewDataset(source string, records []Employee, loadedAt time.Time) *Dataset {
	owned := slices.Clone(records)

	yearSet := make(map[int]struct{})
	deptSet := make(map[string]struct{})
	for _, r := range owned {
		yearSet[r.HireYear()] = struct{}{}
		deptSet[r.Department] = struct{}{}
	}

	years := make([]int, 0, len(yearSet))
	for y := range yearSet {
		years = append(years, y)
	}
	slices.Sort(years)

	departments := make([]string, 0, len(deptSet))
	for d := range deptSet {
		departments = append(departments, d)
	}
	slices.Sort(departments)

	return &Dataset{
		id:          uuid.NewString(),
		loadedAt:    loadedAt,
		source:      source,
		records:     owned,
		years:       years,
		departments: departments,
	}
}

// ID identifies this load of the dataset.
func (d *Dataset) ID() string { return d.id }

func (d *Dataset) LoadedAt() time.Time { return d.loadedAt }

func (d *Dataset) Source() string { return d.source }

func (d *Dataset) Len() int { return len(d.records) }

// Records returns a copy of every record; callers may not mutate the backing set.
func (d *Dataset) Records() []Employee {
	return slices.Clone(d.records)
}

// Years returns the distinct hire years, ascending.
func (d *Dataset) Years() []int {
	return slices.Clone(d.years)
}

// Departments returns the distinct departments, ascending.
func (d *Dataset) Departments() []string {
	return slices.Clone(d.departments)
}

// YearOptions returns the year dropdown values with the all-years sentinel first.
func (d *Dataset) YearOptions() []string {
	opts := make([]string, 0, len(d.years)+1)
	opts = append(opts, AllYearsOption)
	for _, y := range d.years {
		opts = append(opts, strconv.Itoa(y))
	}
	return opts
}

// DepartmentOptions returns the department dropdown values with the all-departments sentinel first.
func (d *Dataset) DepartmentOptions() []string {
	return append([]string{AllDepartmentsOption}, d.departments...)
}
