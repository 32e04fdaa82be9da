package contacts

import (
	"errors"
	"net/http"

	"github.com/tendline/tendline/internal/cadence"
)

// Domain errors for contact operations.
var (
	ErrNotFound     = errors.New("contact not found")
	ErrDuplicate    = errors.New("contact already exists")
	ErrInvalidInput = errors.New("invalid contact input")
	ErrOptedOut     = errors.New("contact has opted out of further outreach")
)

// MapHTTPStatus maps contact domain errors to appropriate HTTP status codes.
func MapHTTPStatus(err error) int {
	if errors.Is(err, ErrNotFound) {
		return http.StatusNotFound
	}
	if errors.Is(err, ErrDuplicate) {
		return http.StatusConflict
	}
	if errors.Is(err, ErrOptedOut) {
		return http.StatusConflict
	}
	if errors.Is(err, ErrInvalidInput) || errors.Is(err, cadence.ErrInvalidAxis) {
		return http.StatusBadRequest
	}
	return http.StatusInternalServerError
}
