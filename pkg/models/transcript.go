package models

// Transcript is a speaking transcript appended to the transcript log
type Transcript struct {
	ID         int64  `json:"id" db:"id"`
	Transcript string `json:"transcript" db:"transcript"`
	CreatedAt  string `json:"date" db:"created_at"`
}

// MissionRecord is a submitted daily mission
type MissionRecord struct {
	Date        string   `json:"date"`
	Response    string   `json:"response"`
	Verbs       []string `json:"verbs"`
	Grammar     string   `json:"grammar"`
	VerbTarget  string   `json:"verb_target"`
	Transcript  string   `json:"transcript"`
	Corrections []string `json:"corrections,omitempty"`
}
