package employee

import "time"

// Employee is one row of the HR dataset.
type Employee struct {
	ID                string
	Name              string
	Gender            string
	Department        string
	Position          string
	Education         string
	City              string
	Salary            float64
	PerformanceReview int
	HireDate          time.Time
	BirthDate         time.Time
	TerminationDate   *time.Time // nil while still employed
	LastPromotionDate *time.Time // nil if never promoted
}

const (
	GenderMale   = "Male"
	GenderFemale = "Female"
)

// MaxPerformanceReview is the top of the review scale.
const MaxPerformanceReview = 10

func (e Employee) HireYear() int {
	return e.HireDate.Year()
}

func (e Employee) IsTerminated() bool {
	return e.TerminationDate != nil
}

func (e Employee) IsPromoted() bool {
	return e.LastPromotionDate != nil
}
