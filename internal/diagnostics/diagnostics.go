// Package diagnostics turns self-assessed area scores into a ranked list of
// likely gaps and the areas to focus on next.
package diagnostics

import (
	"math/rand"
	"sort"

	"github.com/example/vivalingo/pkg/models"
)

const (
	// MaxResults caps GapResults.
	MaxResults = 20
	// DefaultScore is assumed for areas the learner did not rate.
	DefaultScore = 3
	// FocusThreshold marks an area as a focus when its score is at or below it.
	FocusThreshold = 3
	minScore       = 1
	maxScore       = 5
)

// DefaultFocus is returned when no area scores low.
var DefaultFocus = []string{"Nuance & pragmatics", "Register & tone"}

// GapResults weights each issue by (6 - area score) with ±20% jitter and
// returns the heaviest first.
func GapResults(scores map[string]int, issues []models.DiagnosticIssue, rnd *rand.Rand) []models.DiagnosticIssue {
	type weighted struct {
		issue  models.DiagnosticIssue
		weight float64
	}
	ranked := make([]weighted, 0, len(issues))
	for _, issue := range issues {
		score, ok := scores[issue.Area]
		if !ok {
			score = DefaultScore
		}
		jitter := 0.8 + rnd.Float64()*0.4
		ranked = append(ranked, weighted{issue: issue, weight: float64(6-score) * jitter})
	}
	sort.SliceStable(ranked, func(i, j int) bool {
		return ranked[i].weight > ranked[j].weight
	})

	if len(ranked) > MaxResults {
		ranked = ranked[:MaxResults]
	}
	out := make([]models.DiagnosticIssue, len(ranked))
	for i, w := range ranked {
		out[i] = w.issue
	}
	return out
}

// AdaptiveFocus lists, in areas order, every area scored at or below
// FocusThreshold, or DefaultFocus when there is none.
func AdaptiveFocus(scores map[string]int, areas []string) []string {
	var focus []string
	for _, area := range areas {
		if score, ok := scores[area]; ok && score <= FocusThreshold {
			focus = append(focus, area)
		}
	}
	if len(focus) == 0 {
		return append([]string(nil), DefaultFocus...)
	}
	return focus
}

// ClampScore keeps a self-assessment within 1..5.
func ClampScore(score int) int {
	if score < minScore {
		return minScore
	}
	if score > maxScore {
		return maxScore
	}
	return score
}
