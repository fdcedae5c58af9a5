package bot

import (
	"errors"
	"fmt"
	"sort"
	"strconv"
	"strings"

	"github.com/example/vivalingo/internal/diagnostics"
	"github.com/example/vivalingo/internal/drills"
	"github.com/example/vivalingo/internal/matcher"
	"github.com/example/vivalingo/internal/missions"
	"github.com/example/vivalingo/internal/session"
	"github.com/example/vivalingo/pkg/models"
)

var errScoreCount = errors.New("expected one score per diagnostic area")

// splitPipe splits "head | body" at the first pipe. Without a pipe the whole
// argument is the head.
func splitPipe(args string) (head, body string) {
	head, body, _ = strings.Cut(args, "|")
	return strings.TrimSpace(head), strings.TrimSpace(body)
}

// parseIndex reads a 1-based list position
func parseIndex(arg string, n int) (int, error) {
	if arg == "" {
		return 0, nil
	}
	i, err := strconv.Atoi(arg)
	if err != nil || i < 1 || i > n {
		return 0, fmt.Errorf("pick a number from 1 to %d", n)
	}
	return i - 1, nil
}

// parseScores maps whitespace separated scores onto areas, clamping each to 1..5
func parseScores(args string, areas []string) (map[string]int, error) {
	fields := strings.Fields(strings.ReplaceAll(args, ",", " "))
	if len(fields) != len(areas) {
		return nil, fmt.Errorf("%w: got %d, want %d", errScoreCount, len(fields), len(areas))
	}
	scores := make(map[string]int, len(areas))
	for i, f := range fields {
		n, err := strconv.Atoi(f)
		if err != nil {
			return nil, fmt.Errorf("score %q is not a number", f)
		}
		scores[areas[i]] = diagnostics.ClampScore(n)
	}
	return scores, nil
}

func formatCatches(catches []matcher.Catch) string {
	if len(catches) == 0 {
		return "✅ No common mistakes found."
	}
	var sb strings.Builder
	fmt.Fprintf(&sb, "Found %d mistake(s):\n", len(catches))
	for _, c := range catches {
		fmt.Fprintf(&sb, "\n❌ %s → ✅ %s\n", c.Pattern, c.Correction)
		if c.Explanation != "" {
			sb.WriteString(c.Explanation + "\n")
		}
		for _, ex := range c.Examples {
			sb.WriteString("• " + ex + "\n")
		}
		sb.WriteString("Fixed: " + c.CorrectedText + "\n")
	}
	return strings.TrimRight(sb.String(), "\n")
}

// formatVocabCard renders a due vocabulary item for its stage
func formatVocabCard(item session.VocabItem) string {
	stage := session.VocabStage(item.Streak)
	var sb strings.Builder
	fmt.Fprintf(&sb, "📘 %s  [%s]\n", item.Key, stage)
	switch stage {
	case session.StageMeaning:
		sb.WriteString("Meaning: " + item.Payload.Meaning + "\n")
		if item.Payload.Example != "" {
			sb.WriteString("Example: " + item.Payload.Example + "\n")
		}
	case session.StageUsage:
		sb.WriteString("Fill the gap: " + drills.Cloze(item.Payload.Example, item.Key) + "\n")
	default:
		sb.WriteString("Write your own sentence with it, then grade yourself.\n")
	}
	if item.Payload.Domain != "" {
		sb.WriteString("Domain: " + item.Payload.Domain)
	}
	return strings.TrimRight(sb.String(), "\n")
}

func formatGrammarCard(item session.GrammarItem) string {
	stage := session.GrammarStage(item.Streak)
	var sb strings.Builder
	fmt.Fprintf(&sb, "📐 %s  [%s]\n", item.Payload.Focus, stage)
	switch stage {
	case session.StageRecognition:
		sb.WriteString(item.Payload.Prompt + "\n")
		sb.WriteString("Rule: " + item.Payload.Explanation)
	case session.StageConstrained:
		sb.WriteString("Rewrite this correctly: " + item.Payload.Prompt)
	default:
		sb.WriteString("Use it freely in two sentences of your own.")
	}
	if item.Payload.Example != "" {
		sb.WriteString("\nExample: " + item.Payload.Example)
	}
	return sb.String()
}

func formatErrorCard(tag string, item session.ErrorItem) string {
	var sb strings.Builder
	fmt.Fprintf(&sb, "📓 [%s] %s → %s", tag, item.Payload.Pattern, item.Payload.Correction)
	if item.Payload.UserText != "" {
		sb.WriteString("\nYou wrote: " + item.Payload.UserText)
	}
	if item.Payload.CorrectedText != "" {
		sb.WriteString("\nBetter: " + item.Payload.CorrectedText)
	}
	return sb.String()
}

func formatReviewed(label string, streak, next int, success bool) string {
	mark := "❌"
	if success {
		mark = "✅"
	}
	return fmt.Sprintf("%s %s\nStreak %d, next review in %d step(s).", mark, label, streak, next)
}

func formatReminder(p session.Pending) string {
	var parts []string
	if p.Vocab > 0 {
		parts = append(parts, fmt.Sprintf("%d vocabulary", p.Vocab))
	}
	if p.Grammar > 0 {
		parts = append(parts, fmt.Sprintf("%d grammar", p.Grammar))
	}
	if p.Errors > 0 {
		parts = append(parts, fmt.Sprintf("%d error", p.Errors))
	}
	return fmt.Sprintf("⏰ You have %d review(s) waiting: %s.", p.Total(), strings.Join(parts, ", "))
}

func formatScores(scores map[string]int) string {
	var sb strings.Builder
	total := 0
	for _, d := range matcher.Dimensions {
		fmt.Fprintf(&sb, "%s: %s %d/5\n", d, strings.Repeat("●", scores[d])+strings.Repeat("○", 5-scores[d]), scores[d])
		total += scores[d]
	}
	fmt.Fprintf(&sb, "Total: %d/%d", total, 5*len(matcher.Dimensions))
	return sb.String()
}

func formatConstraints(results []matcher.ConstraintResult) string {
	var sb strings.Builder
	for _, r := range results {
		mark := "❌"
		if r.Passed {
			mark = "✅"
		}
		fmt.Fprintf(&sb, "%s %s\n", mark, r.Constraint)
	}
	passed, total := matcher.Completion(results)
	fmt.Fprintf(&sb, "Completed %d/%d", passed, total)
	return sb.String()
}

func formatEdits(edits []matcher.Edit) string {
	if len(edits) == 0 {
		return "Nothing to edit."
	}
	var sb strings.Builder
	for i, e := range edits {
		if i > 0 {
			sb.WriteString("\n\n")
		}
		fmt.Fprintf(&sb, "[%s] «%s» → «%s»\n%s\n%s", e.Category, e.Before, e.After, e.Reason, e.Preview)
	}
	return sb.String()
}

func formatIngest(res session.IngestResult) string {
	var sb strings.Builder
	fmt.Fprintf(&sb, "%d sentence(s). Domains: %s\n", len(res.Sentences), strings.Join(res.Domains, ", "))
	if len(res.Candidates) == 0 {
		sb.WriteString("No new phrases found.")
		return sb.String()
	}
	sb.WriteString("New phrases:\n")
	for _, c := range res.Candidates {
		fmt.Fprintf(&sb, "• %s (×%d)\n", c.Phrase, c.Count)
	}
	return strings.TrimRight(sb.String(), "\n")
}

func formatCoverage(shares map[string]float64, familiar, stretch string, ok bool) string {
	domains := make([]string, 0, len(shares))
	for d := range shares {
		domains = append(domains, d)
	}
	sort.Slice(domains, func(i, j int) bool {
		if shares[domains[i]] != shares[domains[j]] {
			return shares[domains[i]] > shares[domains[j]]
		}
		return domains[i] < domains[j]
	})

	var sb strings.Builder
	sb.WriteString("🌍 Domain coverage\n")
	for _, d := range domains {
		fmt.Fprintf(&sb, "%s: %.0f%%\n", d, shares[d]*100)
	}
	if ok {
		fmt.Fprintf(&sb, "\nToday: warm up with %s, then stretch into %s.", familiar, stretch)
	}
	return strings.TrimRight(sb.String(), "\n")
}

func formatNotebook(tallies []models.MistakeTally, tagCounts map[string]int, tags []string) string {
	if len(tallies) == 0 {
		return "Your mistake notebook is empty."
	}
	var sb strings.Builder
	sb.WriteString("📓 Most frequent mistakes\n")
	for i, t := range tallies {
		if i == 5 {
			break
		}
		fmt.Fprintf(&sb, "%d. %s → %s (×%d)\n", i+1, t.Pattern, t.Correction, t.Count)
	}
	sb.WriteString("\nBy tag:\n")
	for _, tag := range tags {
		fmt.Fprintf(&sb, "• %s: %d  (/errors %s)\n", tag, tagCounts[tag], tag)
	}
	return strings.TrimRight(sb.String(), "\n")
}

func formatMission(m missions.Mission) string {
	return fmt.Sprintf("🎯 Mission for %s\nUse the verbs: %s\nGrammar target: %s\nPrecision verb: %s\n\nReply with /submit <your text> | <optional transcript>",
		m.Date, strings.Join(m.Verbs, ", "), m.Grammar, m.VerbTarget)
}

func formatMissionOutcome(out session.MissionOutcome) string {
	var sb strings.Builder
	fmt.Fprintf(&sb, "Mission recorded for %s.\n", out.Record.Date)
	if len(out.Catches) == 0 {
		sb.WriteString("No common mistakes. Verbs marked as active.")
		return sb.String()
	}
	sb.WriteString(formatCatches(out.Catches))
	return sb.String()
}

func formatGrammarResult(res drills.GrammarResult) string {
	if res.Correct {
		return fmt.Sprintf("✅ %s\n%s", res.Choice, res.Drill.Explanation)
	}
	return fmt.Sprintf("❌ %s. Correct: %s\n%s\nAdded to your grammar reviews.", res.Choice, res.Drill.Answer, res.Drill.Explanation)
}

func formatVerbResult(res drills.VerbResult) string {
	var sb strings.Builder
	if res.Correct {
		fmt.Fprintf(&sb, "✅ %s is the most precise choice.\n", res.Choice)
	} else {
		fmt.Fprintf(&sb, "❌ %s works, but %s is more precise.\n", res.Choice, res.Drill.Best)
	}
	for _, o := range res.Drill.Options {
		fmt.Fprintf(&sb, "• %s: %s (%s)\n", o.Verb, o.Nuance, o.Example)
	}
	if res.Drill.Contrast != "" {
		sb.WriteString(res.Drill.Contrast)
	}
	return strings.TrimRight(sb.String(), "\n")
}

func formatProduction(res drills.ProductionResult) string {
	if res.Passed {
		return fmt.Sprintf("✅ You used %d terms: %s", len(res.Used), strings.Join(res.Used, ", "))
	}
	return fmt.Sprintf("Used %d of %d required terms: %s", len(res.Used), drills.MinProductionTerms, strings.Join(res.Used, ", "))
}

func formatDiagnosis(gaps []models.DiagnosticIssue, focus []string, plan map[string][]string) string {
	var sb strings.Builder
	sb.WriteString("🔎 Likely gaps\n")
	for i, g := range gaps {
		if i == 5 {
			break
		}
		fmt.Fprintf(&sb, "%d. [%s] %s\n   %s\n   Fix: %s\n", i+1, g.Area, g.Pattern, g.Example, g.Fix)
	}
	sb.WriteString("\n🧭 Focus next\n")
	for _, area := range focus {
		sb.WriteString("• " + area + "\n")
		for _, step := range plan[area] {
			sb.WriteString("   - " + step + "\n")
		}
	}
	return strings.TrimRight(sb.String(), "\n")
}
