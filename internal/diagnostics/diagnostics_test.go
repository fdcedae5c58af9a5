package diagnostics

import (
	"math/rand"
	"reflect"
	"testing"

	"github.com/example/vivalingo/internal/content"
	"github.com/example/vivalingo/pkg/models"
)

func TestGapResultsRanksWeakAreasFirst(t *testing.T) {
	c := content.MustLoad()
	scores := map[string]int{
		"Collocations":        5,
		"Prepositions":        1,
		"Discourse markers":   5,
		"Register & tone":     5,
		"Nuance & pragmatics": 5,
	}

	got := GapResults(scores, c.DiagnosticIssues, rand.New(rand.NewSource(3)))
	if len(got) != len(c.DiagnosticIssues) {
		t.Fatalf("len(GapResults()) = %d, want %d", len(got), len(c.DiagnosticIssues))
	}
	// weight 5*[0.8,1.2] always beats 1*[0.8,1.2]
	for i := 0; i < 2; i++ {
		if got[i].Area != "Prepositions" {
			t.Errorf("GapResults()[%d].Area = %q, want Prepositions", i, got[i].Area)
		}
	}
}

func TestGapResultsIsCapped(t *testing.T) {
	issues := content.MustLoad().DiagnosticIssues
	input := append([]models.DiagnosticIssue(nil), issues...)
	for len(input) <= MaxResults {
		input = append(input, issues...)
	}
	got := GapResults(nil, input, rand.New(rand.NewSource(1)))
	if len(got) != MaxResults {
		t.Errorf("len(GapResults()) = %d, want %d", len(got), MaxResults)
	}
}

func TestAdaptiveFocus(t *testing.T) {
	areas := content.MustLoad().DiagnosticAreas

	tests := []struct {
		name   string
		scores map[string]int
		want   []string
	}{
		{
			name:   "low areas in catalog order",
			scores: map[string]int{"Register & tone": 2, "Collocations": 3, "Prepositions": 4},
			want:   []string{"Collocations", "Register & tone"},
		},
		{
			name:   "nothing low",
			scores: map[string]int{"Collocations": 4, "Prepositions": 5},
			want:   DefaultFocus,
		},
		{
			name:   "no scores",
			scores: nil,
			want:   DefaultFocus,
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := AdaptiveFocus(tt.scores, areas); !reflect.DeepEqual(got, tt.want) {
				t.Errorf("AdaptiveFocus() = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestClampScore(t *testing.T) {
	for in, want := range map[int]int{-2: 1, 0: 1, 3: 3, 5: 5, 9: 5} {
		if got := ClampScore(in); got != want {
			t.Errorf("ClampScore(%d) = %d, want %d", in, got, want)
		}
	}
}
