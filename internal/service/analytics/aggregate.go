package analytics

import (
	"cmp"
	"slices"

	"github.com/cmlabs-hris/hr-analytics-go/internal/domain/analytics"
	"github.com/cmlabs-hris/hr-analytics-go/internal/domain/employee"
	"github.com/cmlabs-hris/hr-analytics-go/internal/domain/location"
	"github.com/cmlabs-hris/hr-analytics-go/internal/pkg/utils"
)

// Every aggregation below depends only on the set of records, never on their
// order. Ties are broken by key, ascending.

// HeadcountSummary counts distinct employees and positions and averages salary.
func HeadcountSummary(records []employee.Employee) (analytics.HeadcountSummary, error) {
	if len(records) == 0 {
		return analytics.HeadcountSummary{}, analytics.ErrNoData
	}

	ids := make(map[string]struct{}, len(records))
	positions := make(map[string]struct{})
	salaries := make([]float64, 0, len(records))
	for _, r := range records {
		ids[r.ID] = struct{}{}
		positions[r.Position] = struct{}{}
		salaries = append(salaries, r.Salary)
	}

	slices.Sort(salaries)
	mean, _ := utils.Mean(salaries)
	return analytics.HeadcountSummary{
		Employees: len(ids),
		Positions: len(positions),
		AverageSalary: analytics.Amount{
			Value:     mean,
			Formatted: utils.FormatAmount(mean),
		},
	}, nil
}

// GenderDistribution counts records per gender, largest first.
func GenderDistribution(records []employee.Employee) []analytics.CategoryCount {
	return sortedCounts(countBy(records, func(e employee.Employee) string { return e.Gender }), true)
}

// DepartmentHeadcount counts records per department, smallest first.
func DepartmentHeadcount(records []employee.Employee) []analytics.CategoryCount {
	return sortedCounts(countBy(records, func(e employee.Employee) string { return e.Department }), false)
}

// EducationDistribution counts records per education level, largest first.
func EducationDistribution(records []employee.Employee) []analytics.CategoryCount {
	return sortedCounts(countBy(records, func(e employee.Employee) string { return e.Education }), true)
}

// GenderByDepartment cross-tabulates department by gender. Rows are ordered by
// descending male count.
func GenderByDepartment(records []employee.Employee) analytics.Pivot {
	p := pivot(records, "department", "gender",
		func(e employee.Employee) string { return e.Department },
		func(e employee.Employee) string { return e.Gender },
	)
	slices.SortFunc(p.Rows, func(a, b analytics.PivotRow) int {
		if c := cmp.Compare(b.Counts[employee.GenderMale], a.Counts[employee.GenderMale]); c != 0 {
			return c
		}
		return cmp.Compare(a.Key, b.Key)
	})
	return p
}

// EducationByDepartment cross-tabulates department by education level.
func EducationByDepartment(records []employee.Employee) analytics.Pivot {
	return pivot(records, "department", "education",
		func(e employee.Employee) string { return e.Department },
		func(e employee.Employee) string { return e.Education },
	)
}

// AverageSalaryByDepartment returns mean salary per department, highest first.
func AverageSalaryByDepartment(records []employee.Employee) []analytics.DepartmentMetric {
	return departmentMeans(records,
		func(e employee.Employee) float64 { return e.Salary },
		utils.FormatAmount,
	)
}

// PerformanceByDepartment returns mean review score per department, highest first.
func PerformanceByDepartment(records []employee.Employee) []analytics.DepartmentMetric {
	return departmentMeans(records,
		func(e employee.Employee) float64 { return float64(e.PerformanceReview) },
		utils.FormatScore,
	)
}

// PerformanceCards computes the top-score rate, turnover rate, and termination
// and promotion counts. An empty subset yields analytics.ErrNoData.
func PerformanceCards(records []employee.Employee) (analytics.PerformanceCards, error) {
	total := len(records)
	var topScore, terminated, promoted int
	for _, r := range records {
		if r.PerformanceReview == employee.MaxPerformanceReview {
			topScore++
		}
		if r.IsTerminated() {
			terminated++
		}
		if r.IsPromoted() {
			promoted++
		}
	}

	perfRate, ok := utils.Percent(topScore, total)
	if !ok {
		return analytics.PerformanceCards{}, analytics.ErrNoData
	}
	turnover, _ := utils.Percent(terminated, total)

	return analytics.PerformanceCards{
		PerformanceRate: analytics.Percentage{Value: perfRate, Formatted: utils.FormatPercent(perfRate)},
		TurnoverRate:    analytics.Percentage{Value: turnover, Formatted: utils.FormatPercent(turnover)},
		Terminations:    terminated,
		Promotions:      promoted,
	}, nil
}

// LocationHeadcount inner-joins records to coords by exact city name and counts
// employees per city, largest first. Unmatched records are reported, not dropped silently.
func LocationHeadcount(records []employee.Employee, coords map[string]location.CityCoordinate) analytics.LocationHeadcount {
	matched := make(map[string]int)
	unmatched := make(map[string]struct{})
	result := analytics.LocationHeadcount{
		TotalEmployees:  len(records),
		Cities:          []analytics.CityHeadcount{},
		UnmatchedCities: []string{},
	}

	for _, r := range records {
		if _, ok := coords[r.City]; ok {
			matched[r.City]++
			result.MatchedEmployees++
			continue
		}
		unmatched[r.City] = struct{}{}
		result.UnmatchedEmployees++
	}

	for city, n := range matched {
		c := coords[city]
		result.Cities = append(result.Cities, analytics.CityHeadcount{
			City:      city,
			Latitude:  c.Latitude,
			Longitude: c.Longitude,
			Employees: n,
		})
	}
	slices.SortFunc(result.Cities, func(a, b analytics.CityHeadcount) int {
		if c := cmp.Compare(b.Employees, a.Employees); c != 0 {
			return c
		}
		return cmp.Compare(a.City, b.City)
	})

	for city := range unmatched {
		result.UnmatchedCities = append(result.UnmatchedCities, city)
	}
	slices.Sort(result.UnmatchedCities)

	return result
}

func countBy(records []employee.Employee, key func(employee.Employee) string) map[string]int {
	counts := make(map[string]int)
	for _, r := range records {
		counts[key(r)]++
	}
	return counts
}

func sortedCounts(counts map[string]int, descending bool) []analytics.CategoryCount {
	out := make([]analytics.CategoryCount, 0, len(counts))
	for label, n := range counts {
		out = append(out, analytics.CategoryCount{Label: label, Count: n})
	}
	slices.SortFunc(out, func(a, b analytics.CategoryCount) int {
		c := cmp.Compare(a.Count, b.Count)
		if descending {
			c = -c
		}
		if c != 0 {
			return c
		}
		return cmp.Compare(a.Label, b.Label)
	})
	return out
}

// pivot builds a zero-filled row x column count table. Rows and columns are ascending.
func pivot(records []employee.Employee, rowDim, colDim string, rowKey, colKey func(employee.Employee) string) analytics.Pivot {
	cells := make(map[string]map[string]int)
	colSet := make(map[string]struct{})
	for _, r := range records {
		rk, ck := rowKey(r), colKey(r)
		if cells[rk] == nil {
			cells[rk] = make(map[string]int)
		}
		cells[rk][ck]++
		colSet[ck] = struct{}{}
	}

	cols := make([]string, 0, len(colSet))
	for c := range colSet {
		cols = append(cols, c)
	}
	slices.Sort(cols)

	rows := make([]analytics.PivotRow, 0, len(cells))
	for rk, counts := range cells {
		filled := make(map[string]int, len(cols))
		for _, c := range cols {
			filled[c] = counts[c]
		}
		rows = append(rows, analytics.PivotRow{Key: rk, Counts: filled})
	}
	slices.SortFunc(rows, func(a, b analytics.PivotRow) int {
		return cmp.Compare(a.Key, b.Key)
	})

	return analytics.Pivot{
		RowDimension:    rowDim,
		ColumnDimension: colDim,
		Columns:         cols,
		Rows:            rows,
	}
}

func departmentMeans(records []employee.Employee, value func(employee.Employee) float64, format func(float64) string) []analytics.DepartmentMetric {
	groups := make(map[string][]float64)
	for _, r := range records {
		groups[r.Department] = append(groups[r.Department], value(r))
	}

	out := make([]analytics.DepartmentMetric, 0, len(groups))
	for dept, values := range groups {
		// sorted so the float sum does not depend on record order
		slices.Sort(values)
		mean, _ := utils.Mean(values)
		out = append(out, analytics.DepartmentMetric{
			Department: dept,
			Value:      mean,
			Formatted:  format(mean),
		})
	}
	slices.SortFunc(out, func(a, b analytics.DepartmentMetric) int {
		if c := cmp.Compare(b.Value, a.Value); c != 0 {
			return c
		}
		return cmp.Compare(a.Department, b.Department)
	})
	return out
}
