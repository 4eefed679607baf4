package csvstore

import (
	"context"
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"log/slog"
	"math"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/cmlabs-hris/hr-analytics-go/internal/domain/employee"
	"github.com/cmlabs-hris/hr-analytics-go/internal/pkg/validator"
)

// Column names of the employee CSV.
const (
	colID                = "ID"
	colEmployee          = "Employee"
	colGender            = "Gender"
	colDepartment        = "Department"
	colPosition          = "Position"
	colEducation         = "Education"
	colCity              = "City"
	colSalary            = "Salary"
	colPerformanceReview = "Performance_Review"
	colHireDate          = "Hire_Date"
	colBirthDate         = "Birth_Date"
	colTerminationDate   = "Termination_Date"
	colLastPromotionDate = "Last_Promotion_Date"
)

var employeeColumns = []string{
	colID, colEmployee, colGender, colDepartment, colPosition, colEducation, colCity,
	colSalary, colPerformanceReview, colHireDate, colBirthDate, colTerminationDate, colLastPromotionDate,
}

type employeeStoreImpl struct {
	path   string
	logger *slog.Logger
}

// NewEmployeeStore returns a loader for the employee CSV at path.
func NewEmployeeStore(path string, logger *slog.Logger) employee.Loader {
	return &employeeStoreImpl{path: path, logger: logger}
}

// Load reads and validates the whole file. Any bad row fails the load.
func (s *employeeStoreImpl) Load(ctx context.Context) (*employee.Dataset, error) {
	f, err := os.Open(s.path)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil, fmt.Errorf("%w: %s", employee.ErrDatasetNotFound, s.path)
		}
		return nil, fmt.Errorf("failed to open dataset: %w", err)
	}
	defer f.Close()

	records, err := ReadEmployees(ctx, f)
	if err != nil {
		return nil, fmt.Errorf("failed to load %s: %w", s.path, err)
	}

	if n := countDateAnomalies(records); n > 0 {
		s.logger.Warn("records with termination or promotion before hire date", "count", n)
	}

	ds := employee.NewDataset(s.path, records, time.Now().UTC())
	s.logger.Info("employee dataset loaded",
		"path", s.path,
		"records", ds.Len(),
		"years", len(ds.Years()),
		"departments", len(ds.Departments()),
		"dataset_id", ds.ID(),
	)
	return ds, nil
}

// ReadEmployees parses employee rows from r. Columns are resolved by header name.
func ReadEmployees(ctx context.Context, r io.Reader) ([]employee.Employee, error) {
	reader := csv.NewReader(r)
	reader.TrimLeadingSpace = true

	header, err := reader.Read()
	if err != nil {
		if errors.Is(err, io.EOF) {
			return nil, employee.ErrEmptyDataset
		}
		return nil, fmt.Errorf("failed to read header: %w", err)
	}

	idx, missing := columnIndex(header, employeeColumns)
	if len(missing) > 0 {
		return nil, fmt.Errorf("%w: %s", employee.ErrMissingColumn, strings.Join(missing, ", "))
	}

	var records []employee.Employee
	seen := make(map[string]int)
	line := 1
	for {
		if err := ctx.Err(); err != nil {
			return nil, err
		}

		row, err := reader.Read()
		if errors.Is(err, io.EOF) {
			break
		}
		line++
		if err != nil {
			return nil, fmt.Errorf("line %d: %w", line, err)
		}

		rec, err := parseEmployee(row, idx)
		if err != nil {
			return nil, fmt.Errorf("line %d: %w", line, err)
		}
		if first, dup := seen[rec.ID]; dup {
			return nil, fmt.Errorf("line %d: %w %q (first seen on line %d)", line, employee.ErrDuplicateID, rec.ID, first)
		}
		seen[rec.ID] = line
		records = append(records, rec)
	}

	if len(records) == 0 {
		return nil, employee.ErrEmptyDataset
	}
	return records, nil
}

// columnIndex maps header names to positions and lists required names that are absent.
func columnIndex(header []string, required []string) (map[string]int, []string) {
	idx := make(map[string]int, len(header))
	for i, name := range header {
		name = strings.TrimSpace(strings.TrimPrefix(name, "\ufeff"))
		if _, ok := idx[name]; !ok {
			idx[name] = i
		}
	}

	var missing []string
	for _, col := range required {
		if _, ok := idx[col]; !ok {
			missing = append(missing, col)
		}
	}
	return idx, missing
}

func parseEmployee(row []string, idx map[string]int) (employee.Employee, error) {
	get := func(col string) string {
		i := idx[col]
		if i >= len(row) {
			return ""
		}
		return strings.TrimSpace(row[i])
	}

	rec := employee.Employee{
		ID:         get(colID),
		Name:       get(colEmployee),
		Gender:     get(colGender),
		Department: get(colDepartment),
		Position:   get(colPosition),
		Education:  get(colEducation),
		City:       get(colCity),
	}
	if rec.ID == "" {
		return employee.Employee{}, employee.ErrMissingID
	}

	salary, err := strconv.ParseFloat(strings.ReplaceAll(get(colSalary), ",", ""), 64)
	if err != nil || math.IsNaN(salary) || math.IsInf(salary, 0) {
		return employee.Employee{}, fmt.Errorf("%w: %q", employee.ErrInvalidSalary, get(colSalary))
	}
	rec.Salary = salary

	score, err := parseScore(get(colPerformanceReview))
	if err != nil {
		return employee.Employee{}, err
	}
	rec.PerformanceReview = score

	hire := get(colHireDate)
	if hire == "" {
		return employee.Employee{}, employee.ErrMissingHireDate
	}
	if rec.HireDate, err = parseDate(colHireDate, hire); err != nil {
		return employee.Employee{}, err
	}
	if rec.BirthDate, err = parseDate(colBirthDate, get(colBirthDate)); err != nil {
		return employee.Employee{}, err
	}
	if rec.TerminationDate, err = parseOptionalDate(colTerminationDate, get(colTerminationDate)); err != nil {
		return employee.Employee{}, err
	}
	if rec.LastPromotionDate, err = parseOptionalDate(colLastPromotionDate, get(colLastPromotionDate)); err != nil {
		return employee.Employee{}, err
	}

	return rec, nil
}

// parseScore accepts integers and whole-number floats such as "8.0".
func parseScore(s string) (int, error) {
	if n, err := strconv.Atoi(s); err == nil {
		return n, nil
	}
	f, err := strconv.ParseFloat(s, 64)
	if err != nil || f != math.Trunc(f) {
		return 0, fmt.Errorf("%w: %q", employee.ErrInvalidPerformance, s)
	}
	return int(f), nil
}

func parseDate(col, s string) (time.Time, error) {
	t, err := validator.ParseDate(s)
	if err != nil {
		return time.Time{}, fmt.Errorf("%w in %s: %q", employee.ErrInvalidDate, col, s)
	}
	return t, nil
}

func parseOptionalDate(col, s string) (*time.Time, error) {
	if isNull(s) {
		return nil, nil
	}
	t, err := parseDate(col, s)
	if err != nil {
		return nil, err
	}
	return &t, nil
}

func isNull(s string) bool {
	switch strings.ToLower(s) {
	case "", "nan", "nat", "null", "none":
		return true
	}
	return false
}

func countDateAnomalies(records []employee.Employee) int {
	var n int
	for _, r := range records {
		if r.TerminationDate != nil && r.TerminationDate.Before(r.HireDate) {
			n++
			continue
		}
		if r.LastPromotionDate != nil && r.LastPromotionDate.Before(r.HireDate) {
			n++
		}
	}
	return n
}
