package cadence

import (
	"fmt"
	"os"
	"sort"
	"strings"

	"github.com/pelletier/go-toml/v2"
)

// Rule holds the cadence for one classification combination.
// Days applies when the contact has never responded; RespondedDays applies
// once an inbound response exists. A response shortens the cadence, never
// lengthens it, so RespondedDays must not exceed Days.
type Rule struct {
	Days          int `toml:"days" json:"days"`
	RespondedDays int `toml:"responded_days" json:"responded_days"`
}

// Table is the total mapping from classification to cadence rule.
// Construct via LoadTable or NewTable; both enforce totality over the
// declared axis domains. Immutable after construction and safe for
// concurrent use.
type Table struct {
	rules map[Classification]Rule
}

type policyFile struct {
	Rules []policyRule `toml:"rule"`
}

type policyRule struct {
	Nature        string `toml:"nature"`
	Recency       string `toml:"recency"`
	Awareness     string `toml:"awareness"`
	Days          int    `toml:"days"`
	RespondedDays int    `toml:"responded_days"`
}

// LoadTable reads a cadence policy from a TOML file and validates it.
func LoadTable(path string) (*Table, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read cadence policy: %w", err)
	}

	var policy policyFile
	if err := toml.Unmarshal(data, &policy); err != nil {
		return nil, fmt.Errorf("parse cadence policy: %w", err)
	}

	rules := make(map[Classification]Rule, len(policy.Rules))
	for i, row := range policy.Rules {
		c, err := NewClassification(row.Nature, row.Recency, row.Awareness)
		if err != nil {
			return nil, fmt.Errorf("%w: rule %d: %w", ErrInvalidPolicy, i+1, err)
		}
		if _, exists := rules[c]; exists {
			return nil, fmt.Errorf("%w: duplicate rule for %s", ErrInvalidPolicy, c)
		}
		rules[c] = Rule{Days: row.Days, RespondedDays: row.RespondedDays}
	}

	return NewTable(rules)
}

// NewTable validates the rule set and builds a Table. Every combination of
// the declared axis domains must be present, every Days positive, and
// RespondedDays within (0, Days]. A zero RespondedDays inherits Days.
func NewTable(rules map[Classification]Rule) (*Table, error) {
	validated := make(map[Classification]Rule, len(rules))
	var missing []string

	for _, n := range Natures() {
		for _, r := range Recencies() {
			for _, a := range Awarenesses() {
				c := Classification{Nature: n, Recency: r, Awareness: a}
				rule, ok := rules[c]
				if !ok {
					missing = append(missing, c.String())
					continue
				}

				if rule.Days < 1 {
					return nil, fmt.Errorf(
						"%w: %s: days must be positive, got %d",
						ErrInvalidPolicy, c, rule.Days,
					)
				}
				if rule.RespondedDays == 0 {
					rule.RespondedDays = rule.Days
				}
				if rule.RespondedDays < 1 || rule.RespondedDays > rule.Days {
					return nil, fmt.Errorf(
						"%w: %s: responded_days %d must be within (0, %d]",
						ErrInvalidPolicy, c, rule.RespondedDays, rule.Days,
					)
				}

				validated[c] = rule
			}
		}
	}

	if len(missing) > 0 {
		sort.Strings(missing)
		return nil, fmt.Errorf(
			"%w: %d combinations unmapped: %s",
			ErrInvalidPolicy, len(missing), strings.Join(missing, ", "),
		)
	}

	if extra := len(rules) - len(validated); extra > 0 {
		return nil, fmt.Errorf("%w: %d rules outside the axis domains", ErrInvalidPolicy, extra)
	}

	return &Table{rules: validated}, nil
}

// Resolve returns the cadence in days for the classification. When
// responded is true the shortened cadence applies. An unmapped
// classification is a configuration failure, never a default.
func (t *Table) Resolve(c Classification, responded bool) (int, error) {
	rule, ok := t.rules[c]
	if !ok {
		return 0, fmt.Errorf("%w: %s", ErrUnmappedClassification, c)
	}

	if responded {
		return rule.RespondedDays, nil
	}
	return rule.Days, nil
}

// Rule returns the rule for a classification, for introspection endpoints.
func (t *Table) Rule(c Classification) (Rule, error) {
	rule, ok := t.rules[c]
	if !ok {
		return Rule{}, fmt.Errorf("%w: %s", ErrUnmappedClassification, c)
	}
	return rule, nil
}

// Len returns the number of mapped combinations.
func (t *Table) Len() int {
	return len(t.rules)
}
