package matcher

import "github.com/example/vivalingo/internal/content"

// GeneralDomain is reported when no hint matches.
const GeneralDomain = "General"

// DetectDomains lists the hinted domains whose keywords occur in text, in
// hint order, or GeneralDomain when none do.
func DetectDomains(text string, hints []content.DomainHint) []string {
	var hits []string
	for _, h := range hints {
		if ContainsAny(text, h.Keywords) {
			hits = append(hits, h.Domain)
		}
	}
	if len(hits) == 0 {
		return []string{GeneralDomain}
	}
	return hits
}
