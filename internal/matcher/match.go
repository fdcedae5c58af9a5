// Package matcher implements the heuristic text checks used across the
// coach: case-insensitive substring matching against curated patterns,
// register scoring, constraint checks, edit trails and domain detection.
// Nothing here parses Spanish; every check is a lowercase substring test.
package matcher

import "strings"

// Pattern is a known mistake and its replacement.
type Pattern struct {
	Pattern    string `json:"pattern"`
	Correction string `json:"correction"`
	Tag        string `json:"tag,omitempty"`
}

// Match returns every pattern that occurs in text, in input order. Each entry
// is reported once per call however often it repeats; entries that share a
// pattern string are all reported. Empty pattern strings never match.
func Match(text string, patterns []Pattern) []Pattern {
	if strings.TrimSpace(text) == "" || len(patterns) == 0 {
		return nil
	}
	lowered := strings.ToLower(text)

	var hits []Pattern
	for _, p := range patterns {
		needle := strings.ToLower(p.Pattern)
		if needle != "" && strings.Contains(lowered, needle) {
			hits = append(hits, p)
		}
	}
	return hits
}

// ContainsAny reports whether lowered text contains any marker.
func ContainsAny(text string, markers []string) bool {
	return CountDistinct(text, markers) > 0
}

// CountDistinct counts how many distinct markers occur in text.
func CountDistinct(text string, markers []string) int {
	lowered := strings.ToLower(text)
	seen := make(map[string]bool, len(markers))
	n := 0
	for _, m := range markers {
		m = strings.ToLower(m)
		if m == "" || seen[m] {
			continue
		}
		seen[m] = true
		if strings.Contains(lowered, m) {
			n++
		}
	}
	return n
}

// ReplaceFold replaces every case-insensitive occurrence of old in s with
// repl. Text whose lowercase form changes byte length is replaced
// case-sensitively.
func ReplaceFold(s, old, repl string) string {
	if old == "" {
		return s
	}
	lowered := strings.ToLower(s)
	if len(lowered) != len(s) {
		return strings.ReplaceAll(s, old, repl)
	}
	needle := strings.ToLower(old)

	var b strings.Builder
	start := 0
	for {
		i := strings.Index(lowered[start:], needle)
		if i < 0 {
			break
		}
		b.WriteString(s[start : start+i])
		b.WriteString(repl)
		start += i + len(needle)
	}
	b.WriteString(s[start:])
	return b.String()
}
