package models

// VocabPayload is attached to items of the vocabulary queue
type VocabPayload struct {
	Meaning      string `json:"meaning"`
	Example      string `json:"example"`
	Domain       string `json:"domain,omitempty"`
	Register     string `json:"register,omitempty"`
	PartOfSpeech string `json:"part_of_speech,omitempty"`
}

// GrammarPayload is attached to items of the grammar queue
type GrammarPayload struct {
	Focus       string `json:"focus"`
	Prompt      string `json:"prompt"`
	Explanation string `json:"explanation"`
	Example     string `json:"example"`
}

// ErrorPayload is attached to items of a per-tag error queue
type ErrorPayload struct {
	Pattern       string `json:"pattern"`
	Correction    string `json:"correction"`
	UserText      string `json:"user_text,omitempty"`
	CorrectedText string `json:"corrected_text,omitempty"`
}
