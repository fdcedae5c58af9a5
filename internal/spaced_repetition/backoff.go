package spaced_repetition

import (
	"math"
	"math/bits"
)

// Phase is a presentation label derived from an item's streak
type Phase string

const (
	// PhaseNew is an item that has never been passed since its last failure
	PhaseNew Phase = "new"
	// PhaseLearning covers streaks of 1 and 2
	PhaseLearning Phase = "learning"
	// PhaseConsolidating covers streaks of 3 and above
	PhaseConsolidating Phase = "consolidating"
)

// maxStreakShift is the largest shift for which 1<<streak stays a positive int
const maxStreakShift = bits.UintSize - 2

// Interval returns the number of steps until an item with the given streak is due again: 2^streak.
// Past maxStreakShift it saturates at math.MaxInt.
func Interval(streak int) int {
	if streak <= 0 {
		return 1
	}
	if streak > maxStreakShift {
		return math.MaxInt
	}
	return 1 << streak
}

// dueAfter adds an interval to a step without wrapping past math.MaxInt
func dueAfter(step, interval int) int {
	if interval > math.MaxInt-step {
		return math.MaxInt
	}
	return step + interval
}

// PhaseOf maps a streak to its phase
func PhaseOf(streak int) Phase {
	switch {
	case streak <= 0:
		return PhaseNew
	case streak < 3:
		return PhaseLearning
	default:
		return PhaseConsolidating
	}
}
