package analytics

import (
	"errors"
	"fmt"
)

var (
	ErrNoData                = errors.New("no records match the selection")
	ErrSelectionNotAvailable = errors.New("selection not available")
	ErrInvalidYear           = errors.New("invalid year selector")
)

// SelectionError reports a department that has no records for the chosen year range.
type SelectionError struct {
	Department string
	Year       YearSelector
	Mode       FilterMode
}

func (e *SelectionError) Error() string {
	return fmt.Sprintf("department %q not available for %s %s", e.Department, e.Mode, e.Year)
}

func (e *SelectionError) Unwrap() error {
	return ErrSelectionNotAvailable
}

// Notice renders the user-facing warning for this selection.
func (e *SelectionError) Notice() *Notice {
	var msg string
	switch {
	case e.Year.IsAll():
		msg = fmt.Sprintf("The Department %s Does Not Exist", e.Department)
	case e.Mode == FilterModeIn:
		msg = fmt.Sprintf("The Department %s Did Not Exist In %s", e.Department, e.Year)
	default:
		msg = fmt.Sprintf("The Department %s Did Not Exist Until %s", e.Department, e.Year)
	}
	return &Notice{
		Title:   "Warning",
		Message: msg,
		Hint:    "Choose Another Department",
	}
}

func noDataNotice() *Notice {
	return &Notice{
		Title:   "No Data",
		Message: "No employees match the selected filters",
		Hint:    "Choose Another Year",
	}
}

// NoticeFor converts a per-interaction error into a status and notice.
// Any other error is returned unchanged.
func NoticeFor(err error) (Status, *Notice, error) {
	var selErr *SelectionError
	switch {
	case errors.As(err, &selErr):
		return StatusSelectionNotAvailable, selErr.Notice(), nil
	case errors.Is(err, ErrSelectionNotAvailable):
		return StatusSelectionNotAvailable, nil, nil
	case errors.Is(err, ErrNoData):
		return StatusNoData, noDataNotice(), nil
	default:
		return "", nil, err
	}
}
