// Package ledger keeps the mistake notebook: an append-only list of detected
// errors and a running tally per pattern.
package ledger

import (
	"math"
	"math/rand"
	"sort"
	"time"

	"github.com/google/uuid"

	"github.com/example/vivalingo/pkg/models"
)

// DefaultTag is used for patterns missing from the tag table.
const DefaultTag = "general"

const (
	minConfidence = 0.6
	maxConfidence = 0.95
)

// Ledger is not safe for concurrent use; the owning session serializes access.
type Ledger struct {
	tags     map[string]string
	tallies  map[string]*models.MistakeTally
	order    []string
	notebook []models.MistakeEntry

	rng *rand.Rand
	now func() time.Time
}

// Option configures a Ledger.
type Option func(*Ledger)

// WithRand sets the source of the cosmetic confidence score.
func WithRand(r *rand.Rand) Option {
	return func(l *Ledger) { l.rng = r }
}

// WithClock sets the clock used for entry dates.
func WithClock(now func() time.Time) Option {
	return func(l *Ledger) { l.now = now }
}

// New creates an empty ledger. tags maps a pattern to its error tag.
func New(tags map[string]string, opts ...Option) *Ledger {
	l := &Ledger{
		tags:    tags,
		tallies: make(map[string]*models.MistakeTally),
		rng:     rand.New(rand.NewSource(time.Now().UnixNano())),
		now:     time.Now,
	}
	for _, opt := range opts {
		opt(l)
	}
	return l
}

// TagFor returns the error tag for pattern.
func (l *Ledger) TagFor(pattern string) string {
	if tag, ok := l.tags[pattern]; ok && tag != "" {
		return tag
	}
	return DefaultTag
}

// Log records one occurrence of pattern and returns the notebook entry.
// It never fails. The tally keeps the correction it was created with.
func (l *Ledger) Log(pattern, correction, userText, correctedText string) models.MistakeEntry {
	tally, ok := l.tallies[pattern]
	if !ok {
		tally = &models.MistakeTally{Pattern: pattern, Correction: correction}
		l.tallies[pattern] = tally
		l.order = append(l.order, pattern)
	}
	tally.Count++

	entry := models.MistakeEntry{
		ID:            uuid.NewString(),
		Date:          l.now().Format("2006-01-02"),
		Pattern:       pattern,
		Correction:    correction,
		Tag:           l.TagFor(pattern),
		Confidence:    l.confidence(),
		UserText:      userText,
		CorrectedText: correctedText,
	}
	l.notebook = append(l.notebook, entry)
	return entry
}

func (l *Ledger) confidence() float64 {
	v := minConfidence + l.rng.Float64()*(maxConfidence-minConfidence)
	return math.Round(v*100) / 100
}

// Count returns how many times pattern was logged.
func (l *Ledger) Count(pattern string) int {
	if t, ok := l.tallies[pattern]; ok {
		return t.Count
	}
	return 0
}

// Tally returns the aggregate for pattern.
func (l *Ledger) Tally(pattern string) (models.MistakeTally, bool) {
	t, ok := l.tallies[pattern]
	if !ok {
		return models.MistakeTally{}, false
	}
	return *t, true
}

// Tallies returns every tally by descending count; ties keep first-logged order.
func (l *Ledger) Tallies() []models.MistakeTally {
	out := make([]models.MistakeTally, 0, len(l.order))
	for _, p := range l.order {
		out = append(out, *l.tallies[p])
	}
	sort.SliceStable(out, func(i, j int) bool {
		return out[i].Count > out[j].Count
	})
	return out
}

// Notebook returns a copy of all entries in logging order.
func (l *Ledger) Notebook() []models.MistakeEntry {
	out := make([]models.MistakeEntry, len(l.notebook))
	copy(out, l.notebook)
	return out
}

// NotebookByTag returns entries with the given tag; an empty tag returns all.
func (l *Ledger) NotebookByTag(tag string) []models.MistakeEntry {
	if tag == "" {
		return l.Notebook()
	}
	var out []models.MistakeEntry
	for _, e := range l.notebook {
		if e.Tag == tag {
			out = append(out, e)
		}
	}
	return out
}

// TagCounts counts notebook entries per tag.
func (l *Ledger) TagCounts() map[string]int {
	counts := make(map[string]int)
	for _, e := range l.notebook {
		counts[e.Tag]++
	}
	return counts
}

// Len returns the number of notebook entries.
func (l *Ledger) Len() int {
	return len(l.notebook)
}
