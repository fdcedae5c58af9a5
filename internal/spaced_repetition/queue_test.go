package spaced_repetition

import (
	"errors"
	"math"
	"testing"
)

type note struct {
	Text string
}

func TestAddStartsDueAtCurrentStep(t *testing.T) {
	q := NewQueue[note]()
	q.AdvanceStep()
	q.AdvanceStep()

	if !q.Add("mitigar", note{Text: "reducir"}) {
		t.Fatal("Add() = false for a new key")
	}
	item, ok := q.Get("mitigar")
	if !ok {
		t.Fatal("Get() did not find added item")
	}
	if item.Streak != 0 || item.NextDueStep != 2 {
		t.Errorf("new item = %+v, want streak 0 due at step 2", item)
	}

	if q.Add("mitigar", note{Text: "otra"}) {
		t.Error("Add() = true for a duplicate key")
	}
	item, _ = q.Get("mitigar")
	if item.Payload.Text != "reducir" {
		t.Errorf("duplicate Add overwrote payload: %q", item.Payload.Text)
	}
}

func TestAdvance(t *testing.T) {
	tests := []struct {
		name       string
		streak     int
		success    bool
		wantStreak int
		wantOffset int
	}{
		{name: "first success", streak: 0, success: true, wantStreak: 1, wantOffset: 2},
		{name: "second success", streak: 1, success: true, wantStreak: 2, wantOffset: 4},
		{name: "third success", streak: 2, success: true, wantStreak: 3, wantOffset: 8},
		{name: "failure from new", streak: 0, success: false, wantStreak: 0, wantOffset: 1},
		{name: "failure resets high streak", streak: 6, success: false, wantStreak: 0, wantOffset: 1},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			q := NewQueue[note]()
			q.Add("k", note{})
			for i := 0; i < tt.streak; i++ {
				if _, err := q.Advance("k", true); err != nil {
					t.Fatalf("Advance() error = %v", err)
				}
			}
			for i := 0; i < 3; i++ {
				q.AdvanceStep()
			}

			got, err := q.Advance("k", tt.success)
			if err != nil {
				t.Fatalf("Advance() error = %v", err)
			}
			if got.Streak != tt.wantStreak {
				t.Errorf("Streak = %d, want %d", got.Streak, tt.wantStreak)
			}
			if got.NextDueStep != q.Step()+tt.wantOffset {
				t.Errorf("NextDueStep = %d, want %d", got.NextDueStep, q.Step()+tt.wantOffset)
			}
		})
	}
}

func TestAdvanceUnknownKey(t *testing.T) {
	q := NewQueue[note]()
	_, err := q.Advance("missing", true)
	if !errors.Is(err, ErrUnknownKey) {
		t.Errorf("Advance() error = %v, want ErrUnknownKey", err)
	}
}

func TestBackoffIsStrictlyIncreasing(t *testing.T) {
	q := NewQueue[note]()
	q.Add("k", note{})

	prev := -1
	for n := 1; n <= 20; n++ {
		item, err := q.Advance("k", true)
		if err != nil {
			t.Fatalf("Advance() error = %v", err)
		}
		if item.NextDueStep <= prev {
			t.Fatalf("after %d successes NextDueStep = %d, previous %d", n, item.NextDueStep, prev)
		}
		prev = item.NextDueStep
	}
}

func TestDueItemsPeeksThenAdvances(t *testing.T) {
	q := NewQueue[note]()
	q.Add("a", note{})
	q.Add("b", note{})
	q.Add("c", note{})

	// a: due at 0+2, b: due at 0+1, c stays due at 0
	q.Advance("a", true)
	q.Advance("b", false)

	tests := []struct {
		wantStep int
		wantKeys []string
	}{
		{wantStep: 1, wantKeys: []string{"c"}},
		{wantStep: 2, wantKeys: []string{"b", "c"}},
		{wantStep: 3, wantKeys: []string{"a", "b", "c"}},
	}

	for _, tt := range tests {
		before := q.Step()
		due := q.DueItems()
		if q.Step() != before+1 || q.Step() != tt.wantStep {
			t.Fatalf("step after DueItems = %d, want %d", q.Step(), tt.wantStep)
		}
		if len(due) != len(tt.wantKeys) {
			t.Fatalf("DueItems() at step %d returned %d items, want %d", before, len(due), len(tt.wantKeys))
		}
		for i, item := range due {
			if item.Key != tt.wantKeys[i] {
				t.Errorf("DueItems()[%d] = %q, want %q", i, item.Key, tt.wantKeys[i])
			}
			if item.NextDueStep > before {
				t.Errorf("item %q due at %d returned at step %d", item.Key, item.NextDueStep, before)
			}
		}
	}
}

func TestPeekDueDoesNotMutate(t *testing.T) {
	q := NewQueue[note]()
	q.Add("a", note{})
	first := q.PeekDue(0)
	second := q.PeekDue(0)
	if len(first) != 1 || len(second) != 1 {
		t.Fatalf("PeekDue() = %d then %d items, want 1 and 1", len(first), len(second))
	}
	if q.Step() != 0 {
		t.Errorf("PeekDue() moved step to %d", q.Step())
	}
	if got := q.PeekDue(-1); len(got) != 0 {
		t.Errorf("PeekDue(-1) = %d items, want 0", len(got))
	}
}

func TestPhaseOf(t *testing.T) {
	tests := []struct {
		streak int
		want   Phase
	}{
		{0, PhaseNew},
		{1, PhaseLearning},
		{2, PhaseLearning},
		{3, PhaseConsolidating},
		{10, PhaseConsolidating},
	}
	for _, tt := range tests {
		if got := PhaseOf(tt.streak); got != tt.want {
			t.Errorf("PhaseOf(%d) = %q, want %q", tt.streak, got, tt.want)
		}
	}
}

func TestItemsKeepsInsertionOrder(t *testing.T) {
	q := NewQueue[note]()
	for _, k := range []string{"zeta", "alfa", "mu"} {
		q.Add(k, note{})
	}
	items := q.Items()
	want := []string{"zeta", "alfa", "mu"}
	for i, item := range items {
		if item.Key != want[i] {
			t.Errorf("Items()[%d] = %q, want %q", i, item.Key, want[i])
		}
	}
	if q.Len() != 3 {
		t.Errorf("Len() = %d, want 3", q.Len())
	}
}

func TestIntervalSaturates(t *testing.T) {
	prev := 0
	for streak := 0; streak <= maxStreakShift; streak++ {
		got := Interval(streak)
		if got <= prev {
			t.Fatalf("Interval(%d) = %d, not above Interval(%d) = %d", streak, got, streak-1, prev)
		}
		prev = got
	}

	tests := []int{maxStreakShift + 1, 64, 1000}
	for _, streak := range tests {
		if got := Interval(streak); got != math.MaxInt {
			t.Errorf("Interval(%d) = %d, want math.MaxInt", streak, got)
		}
	}
	if Interval(maxStreakShift+1) <= Interval(maxStreakShift) {
		t.Error("saturated interval should stay above the last doubled one")
	}
}

func TestAdvanceLongStreakDoesNotWrap(t *testing.T) {
	q := NewQueue[note]()
	q.Add("k", note{})

	for n := 1; n <= 100; n++ {
		item, err := q.Advance("k", true)
		if err != nil {
			t.Fatalf("Advance() error = %v", err)
		}
		if item.NextDueStep < 0 {
			t.Fatalf("after %d successes NextDueStep = %d", n, item.NextDueStep)
		}
	}
	if due := q.PeekDue(1 << 20); len(due) != 0 {
		t.Errorf("PeekDue() = %d item(s), want none", len(due))
	}
}
