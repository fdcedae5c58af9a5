package matcher

import (
	"strings"

	"github.com/example/vivalingo/internal/content"
)

// Catch is a detected mistake with its explanation and the corrected text.
type Catch struct {
	Pattern       string   `json:"pattern"`
	Correction    string   `json:"correction"`
	Explanation   string   `json:"explanation"`
	Examples      []string `json:"examples"`
	CorrectedText string   `json:"corrected_text"`
}

// CatchMistakes runs the curated mistakes through Match, then the
// co-occurrence rules. Curated catches come first, in catalog order.
func CatchMistakes(text string, mistakes []content.CommonMistake, rules []content.CoOccurrenceRule) []Catch {
	var catches []Catch
	for _, m := range mistakes {
		if len(Match(text, []Pattern{{Pattern: m.Pattern, Correction: m.Correction}})) == 0 {
			continue
		}
		catches = append(catches, Catch{
			Pattern:       m.Pattern,
			Correction:    m.Correction,
			Explanation:   m.Explanation,
			Examples:      m.Examples,
			CorrectedText: ReplaceFold(text, m.Pattern, m.Correction),
		})
	}

	for _, r := range rules {
		if !cooccurs(text, r) {
			continue
		}
		catches = append(catches, Catch{
			Pattern:       r.Pattern,
			Correction:    r.Correction,
			Explanation:   r.Explanation,
			Examples:      r.Examples,
			CorrectedText: ReplaceFold(text, r.Pattern, r.Correction),
		})
	}
	return catches
}

func cooccurs(text string, r content.CoOccurrenceRule) bool {
	if len(r.Requires) == 0 {
		return false
	}
	if CountDistinct(text, r.Requires) != len(distinct(r.Requires)) {
		return false
	}
	return !ContainsAny(text, r.Forbids)
}

func distinct(words []string) []string {
	seen := make(map[string]bool, len(words))
	var out []string
	for _, w := range words {
		w = strings.ToLower(w)
		if w != "" && !seen[w] {
			seen[w] = true
			out = append(out, w)
		}
	}
	return out
}
