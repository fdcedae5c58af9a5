// Package content exposes the curated practice material embedded in the binary:
// diagnostic issues, register markers, drills, scenarios, domain lexicons and
// the tables the matcher and ledger consult.
package content

import (
	_ "embed"
	"fmt"
	"sort"
	"strings"
	"sync"

	"gopkg.in/yaml.v3"

	"github.com/example/vivalingo/pkg/models"
)

//go:embed catalog.yaml
var catalogYAML []byte

// Catalog is the parsed curated content.
type Catalog struct {
	DiagnosticAreas   []string                 `yaml:"diagnostic_areas"`
	DiagnosticIssues  []models.DiagnosticIssue `yaml:"diagnostic_issues"`
	TrainingPlan      map[string][]string      `yaml:"training_plan"`
	RubricDimensions  []string                 `yaml:"rubric_dimensions"`
	RegisterStyles    []RegisterStyle          `yaml:"register_styles"`
	RegisterMarkers   map[string][]string      `yaml:"register_markers"`
	TopicDomains      []TopicDomain            `yaml:"topic_domains"`
	MissionGrammar    []string                 `yaml:"mission_grammar"`
	MissionVerbs      []string                 `yaml:"mission_verbs"`
	IngestHints       []DomainHint             `yaml:"ingest_hints"`
	ErrorTags         map[string]string        `yaml:"error_tags"`
	CommonMistakes    []CommonMistake          `yaml:"common_mistakes"`
	CoOccurrenceRules []CoOccurrenceRule       `yaml:"co_occurrence_rules"`
	GrammarDrills     []GrammarDrill           `yaml:"grammar_drills"`
	VerbDrills        []VerbDrill              `yaml:"verb_drills"`
	Scenarios         []Scenario               `yaml:"conversation_scenarios"`
	GoalScenarios     []GoalScenario           `yaml:"goal_scenarios"`
	ConstraintRules   []Rule                   `yaml:"constraint_rules"`
	GoalRules         []Rule                   `yaml:"goal_rules"`
	WritingGuide      []WritingRule            `yaml:"writing_guide"`
}

// RegisterStyle is a target register; AudienceMarkers names a register_markers
// group that earns the Audience fit bonus.
type RegisterStyle struct {
	Name            string `yaml:"name"`
	AudienceMarkers string `yaml:"audience_markers"`
}

// TopicDomain is a practice domain with its starter lexicon.
type TopicDomain struct {
	Domain   string             `yaml:"domain"`
	Register []string           `yaml:"register"`
	Sample   string             `yaml:"sample"`
	Keywords []string           `yaml:"keywords"`
	Lexicon  []models.VocabItem `yaml:"lexicon"`
}

// DomainHint maps keywords in ingested text to a domain.
type DomainHint struct {
	Domain   string   `yaml:"domain"`
	Keywords []string `yaml:"keywords"`
}

type CommonMistake struct {
	Pattern     string   `yaml:"pattern"`
	Correction  string   `yaml:"correction"`
	Explanation string   `yaml:"explanation"`
	Examples    []string `yaml:"examples"`
}

// CoOccurrenceRule fires when every Requires word is present and no Forbids word is.
type CoOccurrenceRule struct {
	Pattern     string   `yaml:"pattern"`
	Correction  string   `yaml:"correction"`
	Requires    []string `yaml:"requires"`
	Forbids     []string `yaml:"forbids"`
	Explanation string   `yaml:"explanation"`
	Examples    []string `yaml:"examples"`
}

type GrammarDrill struct {
	ID          string   `yaml:"id"`
	Focus       string   `yaml:"focus"`
	Prompt      string   `yaml:"prompt"`
	Options     []string `yaml:"options"`
	Answer      string   `yaml:"answer"`
	Explanation string   `yaml:"explanation"`
	Examples    []string `yaml:"examples"`
}

type VerbOption struct {
	Verb    string `yaml:"verb"`
	Nuance  string `yaml:"nuance"`
	Example string `yaml:"example"`
}

type VerbDrill struct {
	Scenario string       `yaml:"scenario"`
	Options  []VerbOption `yaml:"options"`
	Best     string       `yaml:"best"`
	Contrast string       `yaml:"contrast"`
}

type Scenario struct {
	Title       string   `yaml:"title"`
	Roles       string   `yaml:"roles"`
	Constraints []string `yaml:"constraints"`
}

type GoalScenario struct {
	Title         string   `yaml:"title"`
	Brief         string   `yaml:"brief"`
	HiddenTargets []string `yaml:"hidden_targets"`
}

// Rule classifies a free-text constraint by keyword and checks it by markers.
type Rule struct {
	Keywords []string `yaml:"keywords"`
	Markers  []string `yaml:"markers"`
	Min      int      `yaml:"min"`
	Avoid    bool     `yaml:"avoid"`
}

type WritingRule struct {
	Pattern     string `yaml:"pattern"`
	Replacement string `yaml:"replacement"`
	Category    string `yaml:"category"`
	Reason      string `yaml:"reason"`
}

var (
	loadOnce sync.Once
	loaded   *Catalog
	loadErr  error
)

// Parse decodes a catalog document.
func Parse(data []byte) (*Catalog, error) {
	var c Catalog
	if err := yaml.Unmarshal(data, &c); err != nil {
		return nil, fmt.Errorf("failed to parse catalog: %w", err)
	}
	for i := range c.TopicDomains {
		d := &c.TopicDomains[i]
		for j := range d.Lexicon {
			d.Lexicon[j].Domain = d.Domain
		}
	}
	return &c, nil
}

// Load returns the embedded catalog, parsed once.
func Load() (*Catalog, error) {
	loadOnce.Do(func() {
		loaded, loadErr = Parse(catalogYAML)
	})
	return loaded, loadErr
}

// MustLoad is Load for callers that cannot proceed without content.
func MustLoad() *Catalog {
	c, err := Load()
	if err != nil {
		panic(err)
	}
	return c
}

// Domain finds a topic domain by name, ignoring case.
func (c *Catalog) Domain(name string) (TopicDomain, bool) {
	for _, d := range c.TopicDomains {
		if strings.EqualFold(d.Domain, name) {
			return d, true
		}
	}
	return TopicDomain{}, false
}

// DomainNames lists topic domains in catalog order.
func (c *Catalog) DomainNames() []string {
	names := make([]string, 0, len(c.TopicDomains))
	for _, d := range c.TopicDomains {
		names = append(names, d.Domain)
	}
	return names
}

// GrammarDrill finds a drill by id.
func (c *Catalog) GrammarDrill(id string) (GrammarDrill, bool) {
	for _, d := range c.GrammarDrills {
		if d.ID == id {
			return d, true
		}
	}
	return GrammarDrill{}, false
}

// Style finds a register style by name, ignoring case.
func (c *Catalog) Style(name string) (RegisterStyle, bool) {
	for _, s := range c.RegisterStyles {
		if strings.EqualFold(s.Name, name) {
			return s, true
		}
	}
	return RegisterStyle{}, false
}

// IssuesByArea groups diagnostic issues under their area, in catalog order.
func (c *Catalog) IssuesByArea() map[string][]models.DiagnosticIssue {
	out := make(map[string][]models.DiagnosticIssue, len(c.DiagnosticAreas))
	for _, issue := range c.DiagnosticIssues {
		out[issue.Area] = append(out[issue.Area], issue)
	}
	return out
}

// ErrorTagNames returns the distinct tags from error_tags plus "general", sorted.
func (c *Catalog) ErrorTagNames() []string {
	seen := map[string]bool{"general": true}
	for _, tag := range c.ErrorTags {
		seen[tag] = true
	}
	tags := make([]string, 0, len(seen))
	for tag := range seen {
		tags = append(tags, tag)
	}
	sort.Strings(tags)
	return tags
}
