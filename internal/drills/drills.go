package drills

import (
	"errors"
	"fmt"
	"math/rand"
	"strings"
	"time"

	"github.com/example/vivalingo/internal/content"
	"github.com/example/vivalingo/internal/matcher"
	"github.com/example/vivalingo/pkg/models"
)

// VerbPrecisionPattern is the ledger pattern for a missed verb choice.
const VerbPrecisionPattern = "verb precision"

// MinProductionTerms is how many lexicon terms an active production answer must use.
const MinProductionTerms = 3

var (
	// ErrUnknownDrill is returned when a drill id or index is not in the catalog.
	ErrUnknownDrill = errors.New("unknown drill")
	// ErrUnknownOption is returned when the choice is not one of the drill's options.
	ErrUnknownOption = errors.New("unknown option")
)

// Module builds and grades drills from the curated catalog
type Module struct {
	catalog *content.Catalog
	rnd     *rand.Rand
}

// NewModule creates a drill module. A nil rnd gets a time-seeded source.
func NewModule(catalog *content.Catalog, rnd *rand.Rand) *Module {
	if rnd == nil {
		rnd = rand.New(rand.NewSource(time.Now().UnixNano()))
	}
	return &Module{catalog: catalog, rnd: rnd}
}

// QuestionType represents different kinds of drill questions
type QuestionType string

const (
	// GrammarChoice is a multiple choice grammar micro-drill
	GrammarChoice QuestionType = "grammar"
	// VerbChoice asks for the most precise verb for a scenario
	VerbChoice QuestionType = "verb"
)

// Question is a single drill question ready to render
type Question struct {
	Key     string // drill id or verb drill index
	Type    QuestionType
	Focus   string
	Prompt  string
	Options []string
}

// GrammarQuestions returns every grammar micro-drill with shuffled options.
func (m *Module) GrammarQuestions() []Question {
	questions := make([]Question, 0, len(m.catalog.GrammarDrills))
	for _, d := range m.catalog.GrammarDrills {
		questions = append(questions, Question{
			Key:     d.ID,
			Type:    GrammarChoice,
			Focus:   d.Focus,
			Prompt:  d.Prompt,
			Options: m.shuffled(d.Options),
		})
	}
	return questions
}

// VerbQuestion returns the verb drill at index with shuffled options.
func (m *Module) VerbQuestion(index int) (Question, error) {
	if index < 0 || index >= len(m.catalog.VerbDrills) {
		return Question{}, fmt.Errorf("failed to find verb drill %d: %w", index, ErrUnknownDrill)
	}
	d := m.catalog.VerbDrills[index]
	verbs := make([]string, 0, len(d.Options))
	for _, o := range d.Options {
		verbs = append(verbs, o.Verb)
	}
	return Question{
		Key:     fmt.Sprint(index),
		Type:    VerbChoice,
		Focus:   "Verb precision",
		Prompt:  d.Scenario,
		Options: m.shuffled(verbs),
	}, nil
}

func (m *Module) shuffled(options []string) []string {
	out := append([]string(nil), options...)
	m.rnd.Shuffle(len(out), func(i, j int) {
		out[i], out[j] = out[j], out[i]
	})
	return out
}

// GrammarResult is the outcome of one grammar micro-drill answer
type GrammarResult struct {
	Drill   content.GrammarDrill
	Choice  string
	Correct bool
}

// GradeGrammar checks choice against the drill's answer.
func (m *Module) GradeGrammar(id, choice string) (GrammarResult, error) {
	d, ok := m.catalog.GrammarDrill(id)
	if !ok {
		return GrammarResult{}, fmt.Errorf("failed to find grammar drill %q: %w", id, ErrUnknownDrill)
	}
	if !contains(d.Options, choice) {
		return GrammarResult{}, fmt.Errorf("failed to grade %q for drill %q: %w", choice, id, ErrUnknownOption)
	}
	return GrammarResult{Drill: d, Choice: choice, Correct: choice == d.Answer}, nil
}

// ReviewPayload is the grammar review item scheduled after a wrong answer.
func (r GrammarResult) ReviewPayload() models.GrammarPayload {
	example := ""
	if len(r.Drill.Examples) > 0 {
		example = r.Drill.Examples[0]
	}
	return models.GrammarPayload{
		Focus:       r.Drill.Focus,
		Prompt:      r.Drill.Prompt,
		Explanation: r.Drill.Explanation,
		Example:     example,
	}
}

// VerbResult is the outcome of one verb precision answer
type VerbResult struct {
	Drill   content.VerbDrill
	Choice  string
	Correct bool
}

// GradeVerb checks choice against the best verb of drill index.
func (m *Module) GradeVerb(index int, choice string) (VerbResult, error) {
	if index < 0 || index >= len(m.catalog.VerbDrills) {
		return VerbResult{}, fmt.Errorf("failed to find verb drill %d: %w", index, ErrUnknownDrill)
	}
	d := m.catalog.VerbDrills[index]
	found := false
	for _, o := range d.Options {
		if o.Verb == choice {
			found = true
			break
		}
	}
	if !found {
		return VerbResult{}, fmt.Errorf("failed to grade %q for verb drill %d: %w", choice, index, ErrUnknownOption)
	}
	return VerbResult{Drill: d, Choice: choice, Correct: choice == d.Best}, nil
}

// ProductionResult lists the lexicon terms found in a free answer
type ProductionResult struct {
	Used   []string
	Passed bool
}

// CheckProduction passes when at least MinProductionTerms lexicon terms occur
// in response, ignoring case.
func CheckProduction(response string, lexicon []models.VocabItem) ProductionResult {
	var used []string
	for _, item := range lexicon {
		if matcher.ContainsAny(response, []string{item.Term}) {
			used = append(used, item.Term)
		}
	}
	return ProductionResult{Used: used, Passed: len(used) >= MinProductionTerms}
}

// Cloze blanks out the first case-insensitive occurrence of term in example.
// When the term is missing the blank is appended.
func Cloze(example, term string) string {
	const blank = "_______"
	if term == "" {
		return example
	}
	lowered := strings.ToLower(example)
	needle := strings.ToLower(term)
	i := strings.Index(lowered, needle)
	if i < 0 || len(lowered) != len(example) {
		return strings.TrimSpace(example + " " + blank)
	}
	return example[:i] + blank + example[i+len(needle):]
}

func contains(options []string, choice string) bool {
	for _, o := range options {
		if o == choice {
			return true
		}
	}
	return false
}
