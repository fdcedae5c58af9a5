package spaced_repetition

import (
	"errors"
	"fmt"
)

// ErrUnknownKey is returned when review feedback names an item the queue does not hold
var ErrUnknownKey = errors.New("unknown review key")

// ReviewItem is a single entry of a review queue
type ReviewItem[P any] struct {
	Key         string `json:"key"`
	Payload     P      `json:"payload"`
	Streak      int    `json:"streak"`
	NextDueStep int    `json:"next_due_step"`
}

// Phase returns the presentation label derived from the streak
func (i ReviewItem[P]) Phase() Phase {
	return PhaseOf(i.Streak)
}

// Queue holds review items keyed by term, pattern or focus id.
// Steps count due-list renders, not wall-clock time.
// A Queue is not safe for concurrent use; callers serialize access.
type Queue[P any] struct {
	step  int
	items map[string]*ReviewItem[P]
	order []string
}

// NewQueue creates an empty queue at step 0
func NewQueue[P any]() *Queue[P] {
	return &Queue[P]{
		items: make(map[string]*ReviewItem[P]),
	}
}

// Step returns the current logical step of the queue
func (q *Queue[P]) Step() int {
	return q.step
}

// Len returns the number of items in the queue
func (q *Queue[P]) Len() int {
	return len(q.order)
}

// Add inserts a new item due at the current step.
// It returns false and leaves the queue untouched if the key already exists.
func (q *Queue[P]) Add(key string, payload P) bool {
	if _, exists := q.items[key]; exists {
		return false
	}
	q.items[key] = &ReviewItem[P]{
		Key:         key,
		Payload:     payload,
		Streak:      0,
		NextDueStep: q.step,
	}
	q.order = append(q.order, key)
	return true
}

// Get returns a copy of the item stored under key
func (q *Queue[P]) Get(key string) (ReviewItem[P], bool) {
	item, ok := q.items[key]
	if !ok {
		return ReviewItem[P]{}, false
	}
	return *item, true
}

// Advance applies pass/fail feedback to an item:
// success increments the streak, failure resets it, and the item becomes
// due 2^streak steps after the current step.
func (q *Queue[P]) Advance(key string, success bool) (ReviewItem[P], error) {
	item, ok := q.items[key]
	if !ok {
		return ReviewItem[P]{}, fmt.Errorf("failed to advance %q: %w", key, ErrUnknownKey)
	}

	if success {
		item.Streak++
	} else {
		item.Streak = 0
	}
	item.NextDueStep = dueAfter(q.step, Interval(item.Streak))

	return *item, nil
}

// PeekDue returns the items due at the given step in insertion order.
// It does not mutate the queue.
func (q *Queue[P]) PeekDue(step int) []ReviewItem[P] {
	var due []ReviewItem[P]
	for _, key := range q.order {
		item := q.items[key]
		if item.NextDueStep <= step {
			due = append(due, *item)
		}
	}
	return due
}

// AdvanceStep moves the queue one step forward and returns the new step
func (q *Queue[P]) AdvanceStep() int {
	q.step++
	return q.step
}

// DueItems returns the items due at the current step and then advances the step by one.
// This is what a review screen calls each time it is shown.
func (q *Queue[P]) DueItems() []ReviewItem[P] {
	due := q.PeekDue(q.step)
	q.AdvanceStep()
	return due
}

// Items returns every item in insertion order
func (q *Queue[P]) Items() []ReviewItem[P] {
	items := make([]ReviewItem[P], 0, len(q.order))
	for _, key := range q.order {
		items = append(items, *q.items[key])
	}
	return items
}
