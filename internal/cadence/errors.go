package cadence

import "errors"

// Domain errors for cadence resolution.
var (
	// ErrUnmappedClassification means a classification combination has no
	// cadence rule. It indicates a policy configuration bug and is never
	// papered over with a default.
	ErrUnmappedClassification = errors.New("classification has no cadence rule")
	// ErrInvalidAxis means a stored axis value is outside the declared domain.
	ErrInvalidAxis = errors.New("invalid classification axis value")
	// ErrInvalidPolicy means the policy table failed validation.
	ErrInvalidPolicy = errors.New("invalid cadence policy")
)
