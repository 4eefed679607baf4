package employee

import "errors"

var (
	ErrDatasetNotFound    = errors.New("employee dataset not found")
	ErrMissingColumn      = errors.New("required column missing from dataset")
	ErrInvalidDate        = errors.New("invalid date value")
	ErrMissingHireDate    = errors.New("hire date is required")
	ErrInvalidSalary      = errors.New("invalid salary value")
	ErrInvalidPerformance = errors.New("invalid performance review value")
	ErrMissingID          = errors.New("employee ID is required")
	ErrDuplicateID        = errors.New("duplicate employee ID")
	ErrEmptyDataset       = errors.New("employee dataset has no records")
)
