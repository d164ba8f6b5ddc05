package console

import (
	"errors"

	"github.com/BearBump/OrderConsole/internal/integrations/orderapi"
	"github.com/BearBump/OrderConsole/internal/metrics"
)

// ValidationError is a fixed operator-facing message produced before any
// network call.
type ValidationError string

func (e ValidationError) Error() string { return string(e) }

const (
	ErrRegisterRequired ValidationError = "Order ID and Customer ID are required."
	ErrTrackRequired    ValidationError = "Order ID is required."
	ErrUpdateRequired   ValidationError = "Order ID and status are required."

	ErrUpdatedFromInvalid ValidationError = "Updated from must be a valid date."
	ErrUpdatedToInvalid   ValidationError = "Updated to must be a valid date."
	ErrPageInvalid        ValidationError = "Page must be zero or greater."
	ErrSizeInvalid        ValidationError = "Size must be between 1 and 500."
	ErrSortByInvalid      ValidationError = "Sort by must be one of updatedAt, createdAt."
	ErrSortDirInvalid     ValidationError = "Sort direction must be asc or desc."
)

var ErrNoArchive = errors.New("action archive is not configured")

func outcomeOf(err error) string {
	if err == nil {
		return metrics.OutcomeOK
	}
	var (
		httpErr   *orderapi.HTTPError
		decodeErr *orderapi.DecodeError
		ve        ValidationError
	)
	switch {
	case errors.As(err, &httpErr):
		return metrics.OutcomeHTTP
	case errors.As(err, &decodeErr):
		return metrics.OutcomeDecode
	case errors.As(err, &ve):
		return metrics.OutcomeValidation
	default:
		return metrics.OutcomeTransport
	}
}
