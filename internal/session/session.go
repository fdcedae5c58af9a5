// Package session holds the practice state of one chat: the review queues,
// the mistake ledger, domain exposure and mission history. Every exported
// method locks the session, so handlers running on separate goroutines see
// a consistent state.
package session

import (
	"errors"
	"fmt"
	"math/rand"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/charmbracelet/log"

	"github.com/example/vivalingo/internal/content"
	"github.com/example/vivalingo/internal/drills"
	"github.com/example/vivalingo/internal/exposure"
	"github.com/example/vivalingo/internal/extract"
	"github.com/example/vivalingo/internal/ledger"
	"github.com/example/vivalingo/internal/lexicon"
	"github.com/example/vivalingo/internal/logger"
	"github.com/example/vivalingo/internal/matcher"
	"github.com/example/vivalingo/internal/missions"
	sr "github.com/example/vivalingo/internal/spaced_repetition"
	"github.com/example/vivalingo/pkg/models"
)

// ErrEmptyResponse is returned when a mission is submitted without text.
var ErrEmptyResponse = errors.New("empty response")

// DefaultMaxCandidates caps ingest candidates when no limit is given.
const DefaultMaxCandidates = 20

// Stage labels shown next to due items.
const (
	StageMeaning     = "meaning"
	StageUsage       = "usage"
	StageProduction  = "production"
	StageRecognition = "recognition"
	StageConstrained = "constrained"
	StageFree        = "free"
)

type (
	VocabItem   = sr.ReviewItem[models.VocabPayload]
	GrammarItem = sr.ReviewItem[models.GrammarPayload]
	ErrorItem   = sr.ReviewItem[models.ErrorPayload]
)

// Session is the per-chat practice state.
type Session struct {
	mu sync.Mutex

	ChatID int64

	catalog  *content.Catalog
	vocab    *sr.Queue[models.VocabPayload]
	grammar  *sr.Queue[models.GrammarPayload]
	errors   map[string]*sr.Queue[models.ErrorPayload]
	ledger   *ledger.Ledger
	exposure *exposure.Tracker
	known    *lexicon.Index

	missions    []models.MissionRecord
	activeVocab map[string]bool
	activeVerbs map[string]bool

	stores Stores
	now    func() time.Time
	log    *log.Logger
}

// Option configures a Session.
type Option func(*config)

type config struct {
	rnd *rand.Rand
	now func() time.Time
}

// WithRand sets the source of the cosmetic mistake confidence.
func WithRand(r *rand.Rand) Option {
	return func(c *config) { c.rnd = r }
}

// WithClock sets the clock used for dates.
func WithClock(now func() time.Time) Option {
	return func(c *config) { c.now = now }
}

// New creates an empty session. Use Hydrate to seed vocabulary from storage.
func New(chatID int64, catalog *content.Catalog, stores Stores, opts ...Option) *Session {
	cfg := config{now: time.Now}
	for _, opt := range opts {
		opt(&cfg)
	}

	ledgerOpts := []ledger.Option{ledger.WithClock(cfg.now)}
	if cfg.rnd != nil {
		ledgerOpts = append(ledgerOpts, ledger.WithRand(cfg.rnd))
	}

	return &Session{
		ChatID:      chatID,
		catalog:     catalog,
		vocab:       sr.NewQueue[models.VocabPayload](),
		grammar:     sr.NewQueue[models.GrammarPayload](),
		errors:      make(map[string]*sr.Queue[models.ErrorPayload]),
		ledger:      ledger.New(catalog.ErrorTags, ledgerOpts...),
		exposure:    exposure.New(catalog.DomainNames()...),
		known:       lexicon.New(),
		activeVocab: make(map[string]bool),
		activeVerbs: make(map[string]bool),
		stores:      stores,
		now:         cfg.now,
		log:         logger.New("session"),
	}
}

// Hydrate loads stored vocabulary into the vocabulary queue. It records no
// exposure and writes nothing back.
func (s *Session) Hydrate() error {
	if s.stores.Vocab == nil {
		return nil
	}
	items, err := s.stores.Vocab.LoadAll()
	if err != nil {
		return err
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	for _, item := range items {
		if s.vocab.Add(item.Term, item.Payload()) {
			s.known.Add(item.Term)
		}
	}
	return nil
}

// AddVocabulary enqueues items whose term is not already queued, records
// exposure for their domain and saves them. It returns the added terms.
func (s *Session) AddVocabulary(items ...models.VocabItem) []string {
	s.mu.Lock()
	defer s.mu.Unlock()

	var added []string
	for _, item := range items {
		item.Term = strings.TrimSpace(item.Term)
		if item.Term == "" || !s.vocab.Add(item.Term, item.Payload()) {
			continue
		}
		s.known.Add(item.Term)
		if item.Domain != "" {
			s.exposure.Record(item.Domain)
		}
		if s.stores.Vocab != nil {
			if err := s.stores.Vocab.Save(item); err != nil {
				s.log.Warn("failed to save vocabulary item", "term", item.Term, "err", err)
			}
		}
		added = append(added, item.Term)
	}
	return added
}

// LogMistake records a mistake in the ledger and schedules it in the queue
// of its tag.
func (s *Session) LogMistake(pattern, correction, userText, correctedText string) models.MistakeEntry {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.logMistake(pattern, correction, userText, correctedText)
}

func (s *Session) logMistake(pattern, correction, userText, correctedText string) models.MistakeEntry {
	entry := s.ledger.Log(pattern, correction, userText, correctedText)

	q, ok := s.errors[entry.Tag]
	if !ok {
		q = sr.NewQueue[models.ErrorPayload]()
		s.errors[entry.Tag] = q
	}
	q.Add(entry.ID, models.ErrorPayload{
		Pattern:       entry.Pattern,
		Correction:    entry.Correction,
		UserText:      entry.UserText,
		CorrectedText: entry.CorrectedText,
	})

	if s.stores.Mistakes != nil {
		if err := s.stores.Mistakes.Append(entry); err != nil {
			s.log.Warn("failed to append mistake", "pattern", pattern, "err", err)
		}
	}
	return entry
}

// CheckText runs the mistake catcher over text and logs every catch.
func (s *Session) CheckText(text string) []matcher.Catch {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.checkText(text)
}

func (s *Session) checkText(text string) []matcher.Catch {
	catches := matcher.CatchMistakes(text, s.catalog.CommonMistakes, s.catalog.CoOccurrenceRules)
	for _, c := range catches {
		s.logMistake(c.Pattern, c.Correction, text, c.CorrectedText)
	}
	return catches
}

// AnswerGrammar applies a graded grammar drill: a wrong choice is logged as
// a mistake and the drill's pattern joins the grammar queue.
func (s *Session) AnswerGrammar(res drills.GrammarResult) {
	if res.Correct {
		return
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	s.logMistake(res.Drill.Prompt, res.Drill.Answer, res.Choice, res.Drill.Answer)
	s.grammar.Add(res.Drill.ID, res.ReviewPayload())
}

// AnswerVerb applies a graded verb precision drill. The chosen verb becomes
// active; a wrong choice is logged as a verb precision mistake.
func (s *Session) AnswerVerb(res drills.VerbResult) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.activeVerbs[res.Choice] = true
	if !res.Correct {
		s.logMistake(drills.VerbPrecisionPattern, res.Drill.Best, res.Choice, res.Drill.Best)
	}
}

// MarkActive records terms the learner produced in their own writing.
func (s *Session) MarkActive(terms ...string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, t := range terms {
		s.activeVocab[t] = true
	}
}

// ReviewVocab applies pass/fail feedback to a vocabulary item.
func (s *Session) ReviewVocab(term string, success bool) (VocabItem, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.vocab.Advance(term, success)
}

// ReviewGrammar applies pass/fail feedback to a grammar item.
func (s *Session) ReviewGrammar(key string, success bool) (GrammarItem, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.grammar.Advance(key, success)
}

// ReviewError applies pass/fail feedback to an item of the tag's error queue.
func (s *Session) ReviewError(tag, key string, success bool) (ErrorItem, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	q, ok := s.errors[tag]
	if !ok {
		return ErrorItem{}, fmt.Errorf("failed to advance %q in %q: %w", key, tag, sr.ErrUnknownKey)
	}
	return q.Advance(key, success)
}

// DueVocab returns the due vocabulary and advances the vocabulary step.
func (s *Session) DueVocab() []VocabItem {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.vocab.DueItems()
}

// DueGrammar returns the due grammar items and advances the grammar step.
func (s *Session) DueGrammar() []GrammarItem {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.grammar.DueItems()
}

// DueErrors returns the due items of the tag's queue and advances its step.
// A tag with no logged mistakes has nothing due.
func (s *Session) DueErrors(tag string) []ErrorItem {
	s.mu.Lock()
	defer s.mu.Unlock()
	q, ok := s.errors[tag]
	if !ok {
		return nil
	}
	return q.DueItems()
}

// Pending counts items due at each queue's current step without advancing it.
type Pending struct {
	Vocab   int
	Grammar int
	Errors  int
}

// Total sums all queues.
func (p Pending) Total() int {
	return p.Vocab + p.Grammar + p.Errors
}

// PendingReviews peeks at every queue. It never advances a step.
func (s *Session) PendingReviews() Pending {
	s.mu.Lock()
	defer s.mu.Unlock()
	p := Pending{
		Vocab:   len(s.vocab.PeekDue(s.vocab.Step())),
		Grammar: len(s.grammar.PeekDue(s.grammar.Step())),
	}
	for _, q := range s.errors {
		p.Errors += len(q.PeekDue(q.Step()))
	}
	return p
}

// ErrorTags lists tags that have an error queue, sorted.
func (s *Session) ErrorTags() []string {
	s.mu.Lock()
	defer s.mu.Unlock()
	tags := make([]string, 0, len(s.errors))
	for tag := range s.errors {
		tags = append(tags, tag)
	}
	sort.Strings(tags)
	return tags
}

// RecordExposure counts a visit to domain.
func (s *Session) RecordExposure(domain string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.exposure.Record(domain)
}

// PickDomainPair returns the familiar and stretch domains.
func (s *Session) PickDomainPair() (familiar, stretch string, ok bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.exposure.PickPair()
}

// CoverageShare returns each domain's share of all recorded visits.
func (s *Session) CoverageShare() map[string]float64 {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.exposure.CoverageShare()
}

// Tallies returns mistake tallies by descending count.
func (s *Session) Tallies() []models.MistakeTally {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.ledger.Tallies()
}

// Notebook returns the notebook entries for tag, or all when tag is empty.
func (s *Session) Notebook(tag string) []models.MistakeEntry {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.ledger.NotebookByTag(tag)
}

// TagCounts counts notebook entries per tag.
func (s *Session) TagCounts() map[string]int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.ledger.TagCounts()
}

// IngestResult is what pasted content yields for practice.
type IngestResult struct {
	Sentences  []string            `json:"sentences"`
	Candidates []extract.Candidate `json:"candidates"`
	Domains    []string            `json:"domains"`
}

// Ingest extracts up to limit candidate phrases the learner does not know
// yet, plus the sentences and detected domains of text.
func (s *Session) Ingest(text string, limit int) IngestResult {
	if limit <= 0 {
		limit = DefaultMaxCandidates
	}
	candidates := extract.CandidatePhrases(text)

	s.mu.Lock()
	filtered := make([]extract.Candidate, 0, limit)
	for _, c := range candidates {
		if len(filtered) == limit {
			break
		}
		if c.Count >= 1 && !s.known.Contains(c.Phrase) {
			filtered = append(filtered, c)
		}
	}
	s.mu.Unlock()

	return IngestResult{
		Sentences:  extract.SentenceSplit(text),
		Candidates: filtered,
		Domains:    matcher.DetectDomains(text, s.catalog.IngestHints),
	}
}

// Knows reports whether term is in the learner's vocabulary.
func (s *Session) Knows(term string) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.known.Contains(term)
}

// Complete suggests known terms starting with prefix.
func (s *Session) Complete(prefix string, limit int) []string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.known.WithPrefix(prefix, limit)
}

// PhraseItem builds the vocabulary item saved for an ingested phrase. An
// empty example gets a placeholder context.
func PhraseItem(phrase, domain, example string) models.VocabItem {
	if example == "" {
		example = PlaceholderExample(phrase)
	}
	if domain == "" {
		domain = matcher.GeneralDomain
	}
	return models.VocabItem{
		Term:         phrase,
		Meaning:      "to define",
		Example:      example,
		Domain:       domain,
		Register:     "neutral",
		PartOfSpeech: "phrase",
	}
}

// PlaceholderExample is the context shown until a real example exists.
func PlaceholderExample(phrase string) string {
	return "Contexto: " + phrase + " ..."
}

// MissionOutcome is the result of submitting a daily mission.
type MissionOutcome struct {
	Record  models.MissionRecord
	Catches []matcher.Catch
}

// SubmitMission checks the response, records the mission, marks its verbs
// active and appends the transcript.
func (s *Session) SubmitMission(m missions.Mission, response, transcript string) (MissionOutcome, error) {
	if strings.TrimSpace(response) == "" {
		return MissionOutcome{}, ErrEmptyResponse
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	catches := s.checkText(response)
	transcript = strings.TrimSpace(transcript)
	record := models.MissionRecord{
		Date:       s.now().Format("2006-01-02"),
		Response:   response,
		Verbs:      append([]string(nil), m.Verbs...),
		Grammar:    m.Grammar,
		VerbTarget: m.VerbTarget,
		Transcript: transcript,
	}
	for _, c := range catches {
		record.Corrections = append(record.Corrections, c.Correction)
	}
	s.missions = append(s.missions, record)

	for _, v := range m.Verbs {
		s.activeVocab[v] = true
	}
	if m.VerbTarget != "" {
		s.activeVerbs[m.VerbTarget] = true
	}

	if s.stores.Transcripts != nil && transcript != "" {
		if err := s.stores.Transcripts.Append(transcript); err != nil {
			s.log.Warn("failed to append transcript", "err", err)
		}
	}
	return MissionOutcome{Record: record, Catches: catches}, nil
}

// VocabStage labels a vocabulary item by streak.
func VocabStage(streak int) string {
	switch {
	case streak <= 0:
		return StageMeaning
	case streak == 1:
		return StageUsage
	default:
		return StageProduction
	}
}

// GrammarStage labels a grammar item by streak.
func GrammarStage(streak int) string {
	switch {
	case streak <= 0:
		return StageRecognition
	case streak == 1:
		return StageConstrained
	default:
		return StageFree
	}
}
