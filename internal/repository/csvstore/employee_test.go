package csvstore

import (
	"context"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/cmlabs-hris/hr-analytics-go/internal/domain/employee"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const testHeader = "ID,Employee,Gender,Department,Position,Education,City,Salary,Performance_Review,Hire_Date,Birth_Date,Termination_Date,Last_Promotion_Date\n"

func discardLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func writeCSV(t *testing.T, body string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "employees.csv")
	require.NoError(t, os.WriteFile(path, []byte(body), 0o644))
	return path
}

func TestEmployeeStore_Load_Success(t *testing.T) {
	path := writeCSV(t, testHeader+
		"E1,Alice,Female,Sales,Manager,Master,Texas,50000,10,2019-02-01,1990-05-05,,2021-01-01\n"+
		"E2,Bob,Male,Sales,Clerk,Bachelor,Ohio,70000,7,2021-06-15,1992-01-01,2022-03-01,\n"+
		"E3,Cara,Female,IT,Engineer,PhD,Texas,\"60,000\",8.0,2020-09-09 00:00:00,1988-12-12,,\n")

	ds, err := NewEmployeeStore(path, discardLogger()).Load(context.Background())
	require.NoError(t, err)

	assert.Equal(t, 3, ds.Len())
	assert.Equal(t, []int{2019, 2020, 2021}, ds.Years())
	assert.Equal(t, []string{"IT", "Sales"}, ds.Departments())
	assert.Equal(t, []string{"All Years", "2019", "2020", "2021"}, ds.YearOptions())
	assert.Equal(t, []string{"All Departments", "IT", "Sales"}, ds.DepartmentOptions())
	assert.NotEmpty(t, ds.ID())
	assert.Equal(t, path, ds.Source())

	records := ds.Records()
	alice := records[0]
	assert.Equal(t, "E1", alice.ID)
	assert.Equal(t, "Alice", alice.Name)
	assert.Equal(t, 10, alice.PerformanceReview)
	assert.Equal(t, time.Date(2019, 2, 1, 0, 0, 0, 0, time.UTC), alice.HireDate)
	assert.Nil(t, alice.TerminationDate)
	require.NotNil(t, alice.LastPromotionDate)
	assert.True(t, alice.IsPromoted())

	bob := records[1]
	require.NotNil(t, bob.TerminationDate)
	assert.True(t, bob.IsTerminated())
	assert.False(t, bob.IsPromoted())

	cara := records[2]
	assert.Equal(t, 60000.0, cara.Salary)
	assert.Equal(t, 8, cara.PerformanceReview)
	assert.Equal(t, 2020, cara.HireYear())
}

func TestEmployeeStore_Load_RecordsAreCopies(t *testing.T) {
	path := writeCSV(t, testHeader+
		"E1,Alice,Female,Sales,Manager,Master,Texas,50000,10,2019-02-01,1990-05-05,,\n")

	ds, err := NewEmployeeStore(path, discardLogger()).Load(context.Background())
	require.NoError(t, err)

	records := ds.Records()
	records[0].Department = "Mutated"
	assert.Equal(t, "Sales", ds.Records()[0].Department)
}

func TestEmployeeStore_Load_FileNotFound(t *testing.T) {
	_, err := NewEmployeeStore(filepath.Join(t.TempDir(), "missing.csv"), discardLogger()).Load(context.Background())
	assert.ErrorIs(t, err, employee.ErrDatasetNotFound)
}

func TestReadEmployees_Errors(t *testing.T) {
	cases := []struct {
		name string
		body string
		want error
	}{
		{
			name: "empty file",
			body: "",
			want: employee.ErrEmptyDataset,
		},
		{
			name: "header only",
			body: testHeader,
			want: employee.ErrEmptyDataset,
		},
		{
			name: "missing column",
			body: "ID,Employee,Gender\nE1,Alice,Female\n",
			want: employee.ErrMissingColumn,
		},
		{
			name: "bad hire date",
			body: testHeader + "E1,Alice,Female,Sales,Manager,Master,Texas,50000,10,not-a-date,1990-05-05,,\n",
			want: employee.ErrInvalidDate,
		},
		{
			name: "missing hire date",
			body: testHeader + "E1,Alice,Female,Sales,Manager,Master,Texas,50000,10,,1990-05-05,,\n",
			want: employee.ErrMissingHireDate,
		},
		{
			name: "bad termination date",
			body: testHeader + "E1,Alice,Female,Sales,Manager,Master,Texas,50000,10,2019-01-01,1990-05-05,soon,\n",
			want: employee.ErrInvalidDate,
		},
		{
			name: "missing salary",
			body: testHeader + "E1,Alice,Female,Sales,Manager,Master,Texas,,10,2019-01-01,1990-05-05,,\n",
			want: employee.ErrInvalidSalary,
		},
		{
			name: "fractional performance",
			body: testHeader + "E1,Alice,Female,Sales,Manager,Master,Texas,50000,7.5,2019-01-01,1990-05-05,,\n",
			want: employee.ErrInvalidPerformance,
		},
		{
			name: "missing id",
			body: testHeader + ",Alice,Female,Sales,Manager,Master,Texas,50000,10,2019-01-01,1990-05-05,,\n",
			want: employee.ErrMissingID,
		},
		{
			name: "duplicate id",
			body: testHeader +
				"E1,Alice,Female,Sales,Manager,Master,Texas,50000,10,2019-01-01,1990-05-05,,\n" +
				"E1,Bob,Male,Sales,Clerk,Bachelor,Ohio,70000,7,2021-06-15,1992-01-01,,\n",
			want: employee.ErrDuplicateID,
		},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			_, err := ReadEmployees(context.Background(), strings.NewReader(tc.body))
			assert.ErrorIs(t, err, tc.want)
		})
	}
}

func TestReadEmployees_IgnoresExtraColumnsAndOrder(t *testing.T) {
	body := "Extra,Hire_Date,ID,Employee,Gender,Department,Position,Education,City,Salary,Performance_Review,Birth_Date,Termination_Date,Last_Promotion_Date\n" +
		"x,2018-04-04,E9,Zed,Male,Ops,Lead,Bachelor,Utah,42000,5,1980-01-01,NaN,\n"

	records, err := ReadEmployees(context.Background(), strings.NewReader(body))
	require.NoError(t, err)
	require.Len(t, records, 1)
	assert.Equal(t, "E9", records[0].ID)
	assert.Equal(t, 2018, records[0].HireYear())
	assert.Nil(t, records[0].TerminationDate)
}

func TestReadEmployees_ContextCanceled(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := ReadEmployees(ctx, strings.NewReader(testHeader+
		"E1,Alice,Female,Sales,Manager,Master,Texas,50000,10,2019-01-01,1990-05-05,,\n"))
	assert.ErrorIs(t, err, context.Canceled)
}
