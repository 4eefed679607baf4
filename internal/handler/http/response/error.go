package response

import (
	"context"
	"errors"
	"log/slog"
	"net/http"

	"github.com/cmlabs-hris/hr-analytics-go/internal/domain/analytics"
	"github.com/cmlabs-hris/hr-analytics-go/internal/domain/location"
	"github.com/cmlabs-hris/hr-analytics-go/internal/pkg/validator"
)

// HandleError maps domain errors to HTTP responses
func HandleError(w http.ResponseWriter, err error) {
	// Check if it's a validation error
	var validationErrs validator.ValidationErrors
	if errors.As(err, &validationErrs) {
		ValidationError(w, validationErrs.ToMap())
		return
	}

	var selErr *analytics.SelectionError
	if errors.As(err, &selErr) {
		notice := selErr.Notice()
		SelectionNotAvailable(w, notice.Message, map[string]string{
			"department": selErr.Department,
			"hint":       notice.Hint,
		})
		return
	}

	switch {
	// Analytics domain errors
	case errors.Is(err, analytics.ErrInvalidYear):
		ValidationError(w, map[string]string{"year": err.Error()})
	case errors.Is(err, analytics.ErrSelectionNotAvailable):
		SelectionNotAvailable(w, "Selection not available", nil)

	// Location domain errors
	case errors.Is(err, location.ErrCoordinatesUnavailable):
		ServiceUnavailable(w, "City coordinates are temporarily unavailable")

	case errors.Is(err, context.Canceled):
		// client went away; nothing useful to send
		slog.Debug("request canceled", "error", err)

	// Default
	default:
		slog.Error("unhandled error", "error", err)
		InternalServerError(w, "An unexpected error occurred")
	}
}
