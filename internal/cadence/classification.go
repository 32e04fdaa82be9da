// Package cadence maps a contact's relationship classification to the
// number of calendar days that should elapse before the next engagement.
// The cadence values themselves are business policy loaded from a TOML
// table; this package owns the shape of the lookup and its totality
// contract, not the numbers.
package cadence

import "fmt"

// Nature describes the kind of relationship with the counterparty.
type Nature string

// Relationship natures.
const (
	NatureUnknown        Nature = "unknown"
	NaturePriorColleague Nature = "prior_colleague"
	NatureReferral       Nature = "referral"
	NatureProspect       Nature = "prospect"
	NatureCurrentClient  Nature = "current_client"
)

// Recency buckets how recently the relationship has been active.
type Recency string

// Recency buckets.
const (
	RecencyNew     Recency = "new"
	RecencyRecent  Recency = "recent"
	RecencyStale   Recency = "stale"
	RecencyDormant Recency = "dormant"
)

// Awareness describes how familiar the counterparty is with the
// sender's organization.
type Awareness string

// Awareness levels.
const (
	AwarenessUnaware  Awareness = "unaware"
	AwarenessAware    Awareness = "aware"
	AwarenessFamiliar Awareness = "familiar"
)

// Natures returns all valid relationship natures.
func Natures() []Nature {
	return []Nature{
		NatureUnknown,
		NaturePriorColleague,
		NatureReferral,
		NatureProspect,
		NatureCurrentClient,
	}
}

// Recencies returns all valid recency buckets.
func Recencies() []Recency {
	return []Recency{RecencyNew, RecencyRecent, RecencyStale, RecencyDormant}
}

// Awarenesses returns all valid awareness levels.
func Awarenesses() []Awareness {
	return []Awareness{AwarenessUnaware, AwarenessAware, AwarenessFamiliar}
}

// ParseNature validates and converts a stored nature value.
func ParseNature(s string) (Nature, error) {
	for _, n := range Natures() {
		if Nature(s) == n {
			return n, nil
		}
	}
	return "", fmt.Errorf("%w: nature %q", ErrInvalidAxis, s)
}

// ParseRecency validates and converts a stored recency value.
func ParseRecency(s string) (Recency, error) {
	for _, r := range Recencies() {
		if Recency(s) == r {
			return r, nil
		}
	}
	return "", fmt.Errorf("%w: recency %q", ErrInvalidAxis, s)
}

// ParseAwareness validates and converts a stored awareness value.
func ParseAwareness(s string) (Awareness, error) {
	for _, a := range Awarenesses() {
		if Awareness(s) == a {
			return a, nil
		}
	}
	return "", fmt.Errorf("%w: awareness %q", ErrInvalidAxis, s)
}

// Classification is the composite of the three independent relationship
// axes. Every valid combination must resolve to a cadence rule.
type Classification struct {
	Nature    Nature    `json:"nature"`
	Recency   Recency   `json:"recency"`
	Awareness Awareness `json:"awareness"`
}

// NewClassification validates the axis values and builds the composite key.
func NewClassification(nature, recency, awareness string) (Classification, error) {
	n, err := ParseNature(nature)
	if err != nil {
		return Classification{}, err
	}
	r, err := ParseRecency(recency)
	if err != nil {
		return Classification{}, err
	}
	a, err := ParseAwareness(awareness)
	if err != nil {
		return Classification{}, err
	}
	return Classification{Nature: n, Recency: r, Awareness: a}, nil
}

// String renders the composite key for logs and error messages.
func (c Classification) String() string {
	return fmt.Sprintf("%s/%s/%s", c.Nature, c.Recency, c.Awareness)
}
