package models

// MistakeEntry is one detected error occurrence in the mistake notebook
type MistakeEntry struct {
	ID            string  `json:"id" db:"entry_id"`
	Date          string  `json:"date" db:"created_at"`
	Pattern       string  `json:"pattern" db:"pattern"`
	Correction    string  `json:"correction" db:"correction"`
	Tag           string  `json:"tag" db:"tag"`
	Confidence    float64 `json:"confidence" db:"confidence"` // cosmetic, no statistical meaning
	UserText      string  `json:"user_text,omitempty" db:"user_text"`
	CorrectedText string  `json:"corrected_text,omitempty" db:"corrected_text"`
}

// MistakeTally aggregates occurrences of a single pattern
type MistakeTally struct {
	Pattern    string `json:"pattern"`
	Correction string `json:"correction"`
	Count      int    `json:"count"`
}
