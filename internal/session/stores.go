package session

import "github.com/example/vivalingo/pkg/models"

// VocabStore persists vocabulary by term.
type VocabStore interface {
	Save(item models.VocabItem) error
	LoadAll() ([]models.VocabItem, error)
}

// MistakeLog is an append-only sink for notebook entries.
type MistakeLog interface {
	Append(entry models.MistakeEntry) error
}

// TranscriptLog is an append-only sink for speaking transcripts.
type TranscriptLog interface {
	Append(text string) error
}

// Stores bundles the storage collaborators. Nil members are skipped.
type Stores struct {
	Vocab       VocabStore
	Mistakes    MistakeLog
	Transcripts TranscriptLog
}
