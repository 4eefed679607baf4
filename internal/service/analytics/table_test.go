package analytics

import (
	"math"
	"testing"

	"github.com/cmlabs-hris/hr-analytics-go/internal/domain/analytics"
	"github.com/cmlabs-hris/hr-analytics-go/internal/domain/employee"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSearchEmployees(t *testing.T) {
	records := workforce()

	assert.Equal(t, []string{"E2", "E5"}, ids(SearchEmployees(records, "ohio")))
	assert.Equal(t, []string{"E3", "E4"}, ids(SearchEmployees(records, " ENGINEER ")))
	assert.Equal(t, []string{"E1", "E2", "E3", "E4", "E5"}, ids(SearchEmployees(records, "")))
	assert.Empty(t, SearchEmployees(records, "nobody"))
}

func TestSortEmployees(t *testing.T) {
	tests := []struct {
		name string
		keys []analytics.SortKey
		want []string
	}{
		{"no keys keeps order", nil, []string{"E1", "E2", "E3", "E4", "E5"}},
		{"salary ascending", []analytics.SortKey{{Column: analytics.ColumnSalary}}, []string{"E2", "E5", "E4", "E1", "E3"}},
		{"performance descending then id", []analytics.SortKey{{Column: analytics.ColumnPerformance, Descending: true}}, []string{"E1", "E4", "E3", "E5", "E2"}},
		{
			"gender then name descending",
			[]analytics.SortKey{{Column: analytics.ColumnGender}, {Column: analytics.ColumnEmployee, Descending: true}},
			[]string{"E5", "E3", "E1", "E4", "E2"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			records := workforce()
			SortEmployees(records, tt.keys)
			assert.Equal(t, tt.want, ids(records))
		})
	}
}

func TestQueryEmployees(t *testing.T) {
	req := &analytics.EmployeeTableRequest{
		Year:       "2020",
		FilterType: "Until",
		Department: "IT",
		Sort:       "-salary",
	}
	got, err := QueryEmployees(workforce(), req)
	require.NoError(t, err)
	assert.Equal(t, []string{"E3", "E4"}, ids(got))
}

func TestQueryEmployees_UnavailableDepartment(t *testing.T) {
	req := &analytics.EmployeeTableRequest{Year: "2018", FilterType: "In", Department: "IT"}
	_, err := QueryEmployees(workforce(), req)
	assert.ErrorIs(t, err, analytics.ErrSelectionNotAvailable)
}

func TestToEmployeeRow(t *testing.T) {
	row := ToEmployeeRow(workforce()[0])
	assert.Equal(t, analytics.EmployeeRow{
		ID:          "E1",
		Employee:    "Alice",
		Gender:      employee.GenderFemale,
		Education:   "Master",
		City:        "Texas",
		Performance: "10",
		Salary:      "80,000",
	}, row)
}

func TestPaginate(t *testing.T) {
	records := workforce()

	page, total := Paginate(records, 1, 2)
	assert.Equal(t, []string{"E1", "E2"}, ids(page))
	assert.Equal(t, 3, total)

	page, total = Paginate(records, 3, 2)
	assert.Equal(t, []string{"E5"}, ids(page))
	assert.Equal(t, 3, total)

	page, _ = Paginate(records, 4, 2)
	assert.Empty(t, page)

	for _, huge := range []int{math.MaxInt, math.MaxInt/2 + 1, math.MaxInt/10 + 1} {
		page, total = Paginate(records, huge, 10)
		assert.Empty(t, page, "page %d", huge)
		assert.Equal(t, 1, total)
	}

	_, total = Paginate(nil, 1, 10)
	assert.Equal(t, 0, total)
}
