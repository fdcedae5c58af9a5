package exposure

import (
	"math"
	"testing"
)

func TestPickPair(t *testing.T) {
	tests := []struct {
		name         string
		counts       map[string]int
		wantFamiliar string
		wantStretch  string
	}{
		{name: "ties at the low end", counts: map[string]int{"A": 5, "B": 1, "C": 1}, wantFamiliar: "A", wantStretch: "B"},
		{name: "ties at the high end", counts: map[string]int{"Z": 3, "M": 3, "K": 0}, wantFamiliar: "M", wantStretch: "K"},
		{name: "all zero", counts: map[string]int{"Housing": 0, "Finance": 0}, wantFamiliar: "Finance", wantStretch: "Finance"},
		{name: "single domain", counts: map[string]int{"Cooking": 2}, wantFamiliar: "Cooking", wantStretch: "Cooking"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			tr := New()
			for d, n := range tt.counts {
				tr.counts[d] = 0
				for i := 0; i < n; i++ {
					tr.Record(d)
				}
			}
			familiar, stretch, ok := tr.PickPair()
			if !ok {
				t.Fatal("PickPair() ok = false")
			}
			if familiar != tt.wantFamiliar || stretch != tt.wantStretch {
				t.Errorf("PickPair() = (%s, %s), want (%s, %s)", familiar, stretch, tt.wantFamiliar, tt.wantStretch)
			}
		})
	}
}

func TestPickPairEmpty(t *testing.T) {
	if _, _, ok := New().PickPair(); ok {
		t.Error("PickPair() on empty tracker ok = true")
	}
}

func TestCoverageShareSumsToOne(t *testing.T) {
	tr := New("Healthcare", "Housing", "Finance")
	tr.Record("Healthcare")
	tr.Record("Healthcare")
	tr.Record("Finance")
	tr.Record("Cooking")

	sum := 0.0
	for _, s := range tr.CoverageShare() {
		sum += s
	}
	if math.Abs(sum-1) > 1e-9 {
		t.Errorf("sum of shares = %v, want 1", sum)
	}
	if got := tr.CoverageShare()["Healthcare"]; got != 0.5 {
		t.Errorf("Healthcare share = %v, want 0.5", got)
	}
}

func TestCoverageShareWithoutVisits(t *testing.T) {
	tr := New("Healthcare", "Housing")
	for d, s := range tr.CoverageShare() {
		if s != 0 {
			t.Errorf("share[%s] = %v, want 0", d, s)
		}
	}
}

func TestRecordIsMonotonic(t *testing.T) {
	tr := New("Travel problems")
	prev := 0
	for i := 0; i < 5; i++ {
		tr.Record("Travel problems")
		if got := tr.Count("Travel problems"); got <= prev {
			t.Fatalf("Count() = %d after %d records", got, i+1)
		}
		prev = tr.Count("Travel problems")
	}
	tr.Record("")
	if _, ok := tr.Counts()[""]; ok {
		t.Error("empty domain recorded")
	}
}
