package analytics

import (
	"fmt"
	"testing"

	"github.com/cmlabs-hris/hr-analytics-go/internal/pkg/validator"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseYearSelector(t *testing.T) {
	tests := []struct {
		input   string
		wantAll bool
		want    int
		wantErr bool
	}{
		{"", true, 0, false},
		{"All Years", true, 0, false},
		{"all", true, 0, false},
		{" 2020 ", false, 2020, false},
		{"0", false, 0, true},
		{"-2020", false, 0, true},
		{"20x0", false, 0, true},
		{"next", false, 0, true},
	}

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			got, err := ParseYearSelector(tt.input)
			if tt.wantErr {
				assert.ErrorIs(t, err, ErrInvalidYear)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.wantAll, got.IsAll())
			assert.Equal(t, tt.want, got.Value())
		})
	}
}

func TestYearSelector_String(t *testing.T) {
	assert.Equal(t, "All Years", AllYears().String())
	assert.Equal(t, "2019", Year(2019).String())
	assert.True(t, YearSelector{}.IsAll())
}

func TestParseFilterMode(t *testing.T) {
	assert.Equal(t, FilterModeIn, ParseFilterMode("In"))
	assert.Equal(t, FilterModeUntil, ParseFilterMode("in"))
	assert.Equal(t, FilterModeUntil, ParseFilterMode("IN"))
	assert.Equal(t, FilterModeUntil, ParseFilterMode(" In "))
	assert.Equal(t, FilterModeUntil, ParseFilterMode("Until"))
	assert.Equal(t, FilterModeUntil, ParseFilterMode(""))
	assert.Equal(t, FilterModeUntil, ParseFilterMode("Before"))
	assert.Equal(t, DefaultFilterMode, ParseFilterMode("anything"))

	text, err := FilterModeIn.MarshalText()
	require.NoError(t, err)
	assert.Equal(t, "In", string(text))
	assert.Equal(t, []string{"Until", "In"}, FilterModes())
}

func TestParseDepartmentSelector(t *testing.T) {
	assert.True(t, ParseDepartmentSelector("").IsAll())
	assert.True(t, ParseDepartmentSelector("All Departments").IsAll())

	named := ParseDepartmentSelector("All")
	assert.False(t, named.IsAll())
	assert.Equal(t, "All", named.Name())
	assert.False(t, named.Matches("all"))

	padded := ParseDepartmentSelector(" Sales ")
	assert.False(t, padded.IsAll())
	assert.Equal(t, " Sales ", padded.Name())
	assert.False(t, padded.Matches("Sales"))

	sel := ParseDepartmentSelector("Sales")
	assert.False(t, sel.IsAll())
	assert.Equal(t, "Sales", sel.Name())
	assert.True(t, sel.Matches("Sales"))
	assert.False(t, sel.Matches("sales"))
	assert.True(t, AllDepartments().Matches("anything"))
}

func TestSelection_Echo(t *testing.T) {
	sel := Selection{Year: Year(2020), Mode: FilterModeIn, Department: Department("IT")}
	assert.Equal(t, SelectionEcho{Year: "2020", FilterType: "In", Department: "IT"}, sel.Echo())
	assert.Equal(t, SelectionEcho{Year: "2020", FilterType: "In"}, sel.YearEcho())
	assert.Equal(t, SelectionEcho{Year: "All Years", FilterType: "Until", Department: "All Departments"}, Selection{}.Echo())
}

func TestDashboardRequest_Validate(t *testing.T) {
	assert.NoError(t, DashboardRequest{Year: "2020", FilterType: "whatever"}.Validate())

	err := DashboardRequest{Year: "twenty"}.Validate()
	var verr validator.ValidationErrors
	require.ErrorAs(t, err, &verr)
	assert.Contains(t, verr.ToMap(), "year")
}

func TestEmployeeTableRequest_SortKeys(t *testing.T) {
	req := &EmployeeTableRequest{Sort: "-Salary, employee,,salary"}
	keys, err := req.SortKeys()
	require.NoError(t, err)
	assert.Equal(t, []SortKey{
		{Column: ColumnSalary, Descending: true},
		{Column: ColumnEmployee},
	}, keys)

	req.Sort = "age"
	_, err = req.SortKeys()
	assert.Error(t, err)

	req.Sort = ""
	keys, err = req.SortKeys()
	require.NoError(t, err)
	assert.Empty(t, keys)
}

func TestEmployeeTableRequest_ValidateAndNormalize(t *testing.T) {
	req := &EmployeeTableRequest{Page: -1, Limit: MaxTableLimit + 1, Sort: "height"}
	var verr validator.ValidationErrors
	require.ErrorAs(t, req.Validate(), &verr)
	fields := verr.ToMap()
	assert.Contains(t, fields, "page")
	assert.Contains(t, fields, "limit")
	assert.Contains(t, fields, "sort")

	req = &EmployeeTableRequest{}
	require.NoError(t, req.Validate())
	req.Normalize()
	assert.Equal(t, DefaultTablePage, req.Page)
	assert.Equal(t, DefaultTableLimit, req.Limit)
}

func TestNoticeFor(t *testing.T) {
	status, notice, err := NoticeFor(&SelectionError{Department: "IT", Year: Year(2019), Mode: FilterModeUntil})
	require.NoError(t, err)
	assert.Equal(t, StatusSelectionNotAvailable, status)
	assert.Equal(t, "The Department IT Did Not Exist Until 2019", notice.Message)
	assert.Equal(t, "Warning", notice.Title)

	status, notice, err = NoticeFor(fmt.Errorf("home: %w", ErrNoData))
	require.NoError(t, err)
	assert.Equal(t, StatusNoData, status)
	assert.NotNil(t, notice)

	other := fmt.Errorf("disk on fire")
	_, _, err = NoticeFor(other)
	assert.Equal(t, other, err)
}
