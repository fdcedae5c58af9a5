// Package exposure counts how often each practice domain was visited and
// picks a familiar/stretch pair from the resulting shares.
package exposure

import "sort"

// Tracker is not safe for concurrent use; the owning session serializes access.
type Tracker struct {
	counts map[string]int
}

// New creates a tracker with every seed domain at zero.
func New(seed ...string) *Tracker {
	t := &Tracker{counts: make(map[string]int, len(seed))}
	for _, d := range seed {
		t.counts[d] = 0
	}
	return t
}

// Record counts one visit to domain. Counters never decrease.
func (t *Tracker) Record(domain string) {
	if domain == "" {
		return
	}
	t.counts[domain]++
}

// Count returns the visits recorded for domain.
func (t *Tracker) Count(domain string) int {
	return t.counts[domain]
}

// Counts returns a copy of all counters.
func (t *Tracker) Counts() map[string]int {
	out := make(map[string]int, len(t.counts))
	for d, n := range t.counts {
		out[d] = n
	}
	return out
}

// Domains returns known domains sorted by name.
func (t *Tracker) Domains() []string {
	names := make([]string, 0, len(t.counts))
	for d := range t.counts {
		names = append(names, d)
	}
	sort.Strings(names)
	return names
}

// CoverageShare returns count/total for every domain. With no visits the
// total is treated as 1, so every share is 0.
func (t *Tracker) CoverageShare() map[string]float64 {
	total := 0
	for _, n := range t.counts {
		total += n
	}
	if total == 0 {
		total = 1
	}
	shares := make(map[string]float64, len(t.counts))
	for d, n := range t.counts {
		shares[d] = float64(n) / float64(total)
	}
	return shares
}

// PickPair returns the domain with the highest share as familiar and the one
// with the lowest as stretch. Ties go to the lexicographically smallest name
// at both ends. ok is false when no domain is known.
func (t *Tracker) PickPair() (familiar, stretch string, ok bool) {
	names := t.Domains()
	if len(names) == 0 {
		return "", "", false
	}
	familiar, stretch = names[0], names[0]
	for _, d := range names[1:] {
		if t.counts[d] > t.counts[familiar] {
			familiar = d
		}
		if t.counts[d] < t.counts[stretch] {
			stretch = d
		}
	}
	return familiar, stretch, true
}
