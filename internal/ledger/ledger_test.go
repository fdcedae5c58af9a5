package ledger

import (
	"math/rand"
	"testing"
	"time"
)

var tags = map[string]string{
	"dependen en": "preposition",
	"la problema": "gender agreement",
}

func fixedClock() time.Time {
	return time.Date(2024, 3, 5, 10, 0, 0, 0, time.UTC)
}

func newTestLedger() *Ledger {
	return New(tags, WithRand(rand.New(rand.NewSource(1))), WithClock(fixedClock))
}

func TestLogCreatesTallyAndEntry(t *testing.T) {
	l := newTestLedger()

	entry := l.Log("dependen en", "dependen de", "Los precios dependen en el mercado.", "Los precios dependen de el mercado.")

	if got := l.Count("dependen en"); got != 1 {
		t.Errorf("Count() = %d, want 1", got)
	}
	tally, ok := l.Tally("dependen en")
	if !ok || tally.Correction != "dependen de" {
		t.Errorf("Tally() = %+v, %v", tally, ok)
	}
	if entry.Tag != "preposition" {
		t.Errorf("Tag = %q, want preposition", entry.Tag)
	}
	if entry.Date != "2024-03-05" {
		t.Errorf("Date = %q, want 2024-03-05", entry.Date)
	}
	if entry.ID == "" {
		t.Error("ID is empty")
	}
	if entry.Confidence < 0.6 || entry.Confidence > 0.95 {
		t.Errorf("Confidence = %v, want within [0.6, 0.95]", entry.Confidence)
	}
	if l.Len() != 1 {
		t.Errorf("Len() = %d, want 1", l.Len())
	}
}

func TestLogUnknownPatternIsGeneral(t *testing.T) {
	l := newTestLedger()
	entry := l.Log("Completa: Si ___ más tiempo", "tuviera", "", "")
	if entry.Tag != DefaultTag {
		t.Errorf("Tag = %q, want %q", entry.Tag, DefaultTag)
	}
}

func TestRepeatedLogsIncrementAndKeepCorrection(t *testing.T) {
	l := newTestLedger()
	l.Log("la problema", "el problema", "", "")
	l.Log("la problema", "otra cosa", "", "")
	second := l.Log("la problema", "el problema", "", "")

	tally, _ := l.Tally("la problema")
	if tally.Count != 3 {
		t.Errorf("Count = %d, want 3", tally.Count)
	}
	if tally.Correction != "el problema" {
		t.Errorf("Correction = %q, want first correction", tally.Correction)
	}
	entries := l.Notebook()
	if len(entries) != 3 {
		t.Fatalf("len(Notebook()) = %d, want 3", len(entries))
	}
	if entries[0].ID == second.ID {
		t.Error("entries share an id")
	}
}

func TestTalliesSortedByCount(t *testing.T) {
	l := newTestLedger()
	l.Log("a", "A", "", "")
	l.Log("b", "B", "", "")
	l.Log("c", "C", "", "")
	l.Log("c", "C", "", "")

	got := l.Tallies()
	want := []string{"c", "a", "b"}
	if len(got) != len(want) {
		t.Fatalf("len(Tallies()) = %d, want %d", len(got), len(want))
	}
	for i, w := range want {
		if got[i].Pattern != w {
			t.Errorf("Tallies()[%d] = %q, want %q", i, got[i].Pattern, w)
		}
	}
}

func TestTagCountsAndFilter(t *testing.T) {
	l := newTestLedger()
	l.Log("dependen en", "dependen de", "", "")
	l.Log("dependen en", "dependen de", "", "")
	l.Log("la problema", "el problema", "", "")
	l.Log("otra", "otra", "", "")

	counts := l.TagCounts()
	if counts["preposition"] != 2 || counts["gender agreement"] != 1 || counts[DefaultTag] != 1 {
		t.Errorf("TagCounts() = %v", counts)
	}
	if got := len(l.NotebookByTag("preposition")); got != 2 {
		t.Errorf("NotebookByTag(preposition) = %d entries, want 2", got)
	}
	if got := len(l.NotebookByTag("")); got != 4 {
		t.Errorf("NotebookByTag(\"\") = %d entries, want 4", got)
	}
}

func TestNotebookIsACopy(t *testing.T) {
	l := newTestLedger()
	l.Log("a", "A", "", "")
	entries := l.Notebook()
	entries[0].Pattern = "changed"
	if l.Notebook()[0].Pattern != "a" {
		t.Error("Notebook() exposes internal storage")
	}
}
