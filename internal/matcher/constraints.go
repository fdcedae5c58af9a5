package matcher

import (
	"strings"

	"github.com/example/vivalingo/internal/content"
)

// ConstraintResult is the verdict for one constraint, kept in input order.
type ConstraintResult struct {
	Constraint string `json:"constraint"`
	Passed     bool   `json:"passed"`
}

// CheckConstraints evaluates each free-text constraint against response.
// A constraint is classified by the first rule whose keyword occurs in it;
// unclassified constraints fail.
func CheckConstraints(response string, constraints []string, rules []content.Rule) []ConstraintResult {
	results := make([]ConstraintResult, 0, len(constraints))
	for _, c := range constraints {
		results = append(results, ConstraintResult{
			Constraint: c,
			Passed:     checkOne(response, c, rules),
		})
	}
	return results
}

func checkOne(response, constraint string, rules []content.Rule) bool {
	rule, ok := classify(constraint, rules)
	if !ok {
		return false
	}
	n := CountDistinct(response, rule.Markers)
	if rule.Avoid {
		return n == 0
	}
	return n >= rule.Min
}

func classify(constraint string, rules []content.Rule) (content.Rule, bool) {
	lowered := strings.ToLower(constraint)
	for _, r := range rules {
		for _, kw := range r.Keywords {
			if kw != "" && strings.Contains(lowered, strings.ToLower(kw)) {
				return r, true
			}
		}
	}
	return content.Rule{}, false
}

// Completion returns passed and total counts.
func Completion(results []ConstraintResult) (passed, total int) {
	for _, r := range results {
		if r.Passed {
			passed++
		}
	}
	return passed, len(results)
}
