package analytics

import (
	"context"
	"io"
	"log/slog"
	"time"

	"github.com/cmlabs-hris/hr-analytics-go/internal/domain/employee"
	"github.com/cmlabs-hris/hr-analytics-go/internal/domain/location"
)

func discardLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func date(y int, m time.Month, d int) time.Time {
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

func datePtr(y int, m time.Month, d int) *time.Time {
	t := date(y, m, d)
	return &t
}

func emp(id, dept string, hireYear int, salary float64) employee.Employee {
	return employee.Employee{
		ID:                id,
		Name:              "Employee " + id,
		Gender:            employee.GenderMale,
		Department:        dept,
		Position:          "Staff",
		Education:         "Bachelor",
		City:              "Texas",
		Salary:            salary,
		PerformanceReview: 7,
		HireDate:          date(hireYear, time.March, 1),
		BirthDate:         date(1990, time.January, 1),
	}
}

// threeRecords is the small fixture used across scenarios.
func threeRecords() []employee.Employee {
	return []employee.Employee{
		emp("1", "A", 2019, 50000),
		emp("2", "A", 2021, 70000),
		emp("3", "B", 2020, 60000),
	}
}

// workforce is a richer fixture covering every column.
func workforce() []employee.Employee {
	return []employee.Employee{
		{ID: "E1", Name: "Alice", Gender: employee.GenderFemale, Department: "Sales", Position: "Manager",
			Education: "Master", City: "Texas", Salary: 80000, PerformanceReview: 10,
			HireDate: date(2018, time.January, 10), LastPromotionDate: datePtr(2020, time.May, 1)},
		{ID: "E2", Name: "Bob", Gender: employee.GenderMale, Department: "Sales", Position: "Clerk",
			Education: "Bachelor", City: "Ohio", Salary: 40000, PerformanceReview: 6,
			HireDate: date(2019, time.June, 1), TerminationDate: datePtr(2021, time.July, 1)},
		{ID: "E3", Name: "Cara", Gender: employee.GenderFemale, Department: "IT", Position: "Engineer",
			Education: "PhD", City: "Texas", Salary: 90000, PerformanceReview: 9,
			HireDate: date(2019, time.August, 20)},
		{ID: "E4", Name: "Dan", Gender: employee.GenderMale, Department: "IT", Position: "Engineer",
			Education: "Bachelor", City: "Atlantis", Salary: 70000, PerformanceReview: 10,
			HireDate: date(2020, time.February, 2), LastPromotionDate: datePtr(2022, time.March, 3)},
		{ID: "E5", Name: "Eve", Gender: employee.GenderFemale, Department: "HR", Position: "Recruiter",
			Education: "Bachelor", City: "Ohio", Salary: 50000, PerformanceReview: 8,
			HireDate: date(2021, time.November, 11), TerminationDate: datePtr(2023, time.January, 5)},
	}
}

type fakeCoordinates struct {
	table map[string]location.CityCoordinate
	err   error
	calls int
}

func (f *fakeCoordinates) Coordinates(ctx context.Context) (map[string]location.CityCoordinate, error) {
	f.calls++
	if f.err != nil {
		return nil, f.err
	}
	return f.table, nil
}

func capitals() *fakeCoordinates {
	return &fakeCoordinates{table: map[string]location.CityCoordinate{
		"Texas": {City: "Texas", Latitude: 30.27, Longitude: -97.74},
		"Ohio":  {City: "Ohio", Latitude: 39.96, Longitude: -83.00},
	}}
}
