package matcher

import (
	"strings"

	"github.com/example/vivalingo/internal/content"
)

// Edit is one suggested line edit with the full text after applying it.
type Edit struct {
	Before   string `json:"before"`
	After    string `json:"after"`
	Category string `json:"category"`
	Reason   string `json:"reason"`
	Preview  string `json:"preview"`
}

// EditTrail applies each writing rule whose pattern appears in text,
// case-sensitively, and returns one edit per rule. Non-empty text with no
// hits gets a generic cohesion suggestion.
func EditTrail(text string, guide []content.WritingRule) []Edit {
	var edits []Edit
	for _, g := range guide {
		if g.Pattern == "" || !strings.Contains(text, g.Pattern) {
			continue
		}
		edits = append(edits, Edit{
			Before:   g.Pattern,
			After:    g.Replacement,
			Category: g.Category,
			Reason:   g.Reason,
			Preview:  strings.ReplaceAll(text, g.Pattern, g.Replacement),
		})
	}
	if len(edits) == 0 && strings.TrimSpace(text) != "" {
		edits = append(edits, Edit{
			Before:   "(sentence cohesion)",
			After:    "Add connector: sin embargo",
			Category: "cohesion",
			Reason:   "Improve logical flow between sentences.",
			Preview:  text,
		})
	}
	return edits
}
