package matcher

import "strings"

// Rubric dimension names.
const (
	DimPoliteness   = "Politeness strategies"
	DimHedging      = "Hedging"
	DimDirectness   = "Directness"
	DimIdiomaticity = "Idiomaticity"
	DimAudienceFit  = "Audience fit"
)

const (
	baseScore    = 2
	maxScore     = 5
	longResponse = 55
)

// Dimensions lists the rubric in display order.
var Dimensions = []string{DimPoliteness, DimHedging, DimDirectness, DimIdiomaticity, DimAudienceFit}

// ScoreRegister rates text on the five rubric dimensions. markers maps a
// group name (politeness, hedging, direct, idiomatic, or an audience group)
// to its phrases; audience names the group that counts as Audience fit for
// the chosen style, or is empty when the style has none.
func ScoreRegister(text, audience string, markers map[string][]string) map[string]int {
	scores := make(map[string]int, len(Dimensions))
	for _, d := range Dimensions {
		scores[d] = baseScore
	}

	if ContainsAny(text, markers["politeness"]) {
		scores[DimPoliteness] += 2
	}
	if ContainsAny(text, markers["hedging"]) {
		scores[DimHedging] += 2
	}
	if ContainsAny(text, markers["direct"]) {
		scores[DimDirectness]++
	}
	if ContainsAny(text, markers["idiomatic"]) {
		scores[DimIdiomaticity] += 2
	}
	if audience != "" && ContainsAny(text, markers[audience]) {
		scores[DimAudienceFit] += 3
	}
	if len(strings.Fields(text)) > longResponse {
		scores[DimDirectness]++
	}

	for d, v := range scores {
		if v > maxScore {
			scores[d] = maxScore
		}
	}
	return scores
}
