package location

import "errors"

var (
	ErrCoordinatesUnavailable = errors.New("city coordinates unavailable")
	ErrMissingColumn          = errors.New("required column missing from coordinate table")
	ErrInvalidCoordinate      = errors.New("invalid coordinate value")
)
