package engagements

import (
	"errors"
	"net/http"

	"github.com/tendline/tendline/internal/cadence"
)

// Domain errors for engagement operations.
var (
	ErrNotFound        = errors.New("contact not found")
	ErrOptedOut        = errors.New("contact has opted out of scheduling")
	ErrInvalidInput    = errors.New("invalid engagement input")
	ErrBatchInProgress = errors.New("recalculation already running for this scope")
	// ErrStoreUnavailable wraps failures of the data path itself. It aborts
	// a batch instead of being counted against a single contact.
	ErrStoreUnavailable = errors.New("contact store unavailable")
)

// MapHTTPStatus maps engagement domain errors to appropriate HTTP status codes.
// Cadence configuration failures surface as internal errors: an unmapped
// classification is a policy bug, not a caller mistake.
func MapHTTPStatus(err error) int {
	if errors.Is(err, ErrNotFound) {
		return http.StatusNotFound
	}
	if errors.Is(err, ErrOptedOut) || errors.Is(err, ErrBatchInProgress) {
		return http.StatusConflict
	}
	if errors.Is(err, ErrInvalidInput) {
		return http.StatusBadRequest
	}
	if errors.Is(err, ErrStoreUnavailable) {
		return http.StatusServiceUnavailable
	}
	if errors.Is(err, cadence.ErrUnmappedClassification) || errors.Is(err, cadence.ErrInvalidAxis) {
		return http.StatusInternalServerError
	}
	return http.StatusInternalServerError
}

// contactFault reports whether err concerns one contact's data rather than
// the data path. Contact faults are counted and skipped during a batch;
// anything else aborts it.
func contactFault(err error) bool {
	return errors.Is(err, ErrNotFound) ||
		errors.Is(err, cadence.ErrUnmappedClassification) ||
		errors.Is(err, cadence.ErrInvalidAxis)
}
