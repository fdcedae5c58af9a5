package session

import (
	"sort"
	"strings"

	"github.com/example/vivalingo/pkg/models"
)

// Snapshot is a point-in-time copy of a session for export.
type Snapshot struct {
	ChatID      int64                  `json:"chat_id"`
	Vocab       []VocabItem            `json:"vocab"`
	Grammar     []GrammarItem          `json:"grammar"`
	Errors      map[string][]ErrorItem `json:"errors"`
	Tallies     []models.MistakeTally  `json:"tallies"`
	Notebook    []models.MistakeEntry  `json:"notebook"`
	Exposure    map[string]int         `json:"exposure"`
	Missions    []models.MissionRecord `json:"missions"`
	ActiveVocab []string               `json:"active_vocab"`
	ActiveVerbs []string               `json:"active_verbs"`
}

// Snapshot copies the current state.
func (s *Session) Snapshot() Snapshot {
	s.mu.Lock()
	defer s.mu.Unlock()

	errs := make(map[string][]ErrorItem, len(s.errors))
	for tag, q := range s.errors {
		errs[tag] = q.Items()
	}
	return Snapshot{
		ChatID:      s.ChatID,
		Vocab:       s.vocab.Items(),
		Grammar:     s.grammar.Items(),
		Errors:      errs,
		Tallies:     s.ledger.Tallies(),
		Notebook:    s.ledger.Notebook(),
		Exposure:    s.exposure.Counts(),
		Missions:    append([]models.MissionRecord(nil), s.missions...),
		ActiveVocab: sortedKeys(s.activeVocab),
		ActiveVerbs: sortedKeys(s.activeVerbs),
	}
}

// Transcripts returns the non-empty mission transcripts in submission order.
func (s Snapshot) Transcripts() []string {
	var out []string
	for _, m := range s.Missions {
		if t := strings.TrimSpace(m.Transcript); t != "" {
			out = append(out, t)
		}
	}
	return out
}

// VocabRecords flattens the vocabulary queue into store records.
func (s Snapshot) VocabRecords() []models.VocabItem {
	out := make([]models.VocabItem, 0, len(s.Vocab))
	for _, item := range s.Vocab {
		out = append(out, models.VocabItem{
			Term:         item.Key,
			Meaning:      item.Payload.Meaning,
			Example:      item.Payload.Example,
			Domain:       item.Payload.Domain,
			Register:     item.Payload.Register,
			PartOfSpeech: item.Payload.PartOfSpeech,
		})
	}
	return out
}

func sortedKeys(m map[string]bool) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}
