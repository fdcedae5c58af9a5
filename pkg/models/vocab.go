package models

// VocabItem is a vocabulary record as persisted in the vocabulary store
type VocabItem struct {
	Term         string `json:"term" db:"term" yaml:"term"`
	Meaning      string `json:"meaning" db:"meaning" yaml:"meaning"`
	Example      string `json:"example" db:"example" yaml:"example"`
	Domain       string `json:"domain" db:"domain" yaml:"domain"`
	Register     string `json:"register" db:"register" yaml:"register"`
	PartOfSpeech string `json:"part_of_speech" db:"part_of_speech" yaml:"pos"`
	CreatedAt    string `json:"created_at" db:"created_at" yaml:"-"` // ISO date, set by the store on save
}

// Payload returns the queue payload carried by a vocabulary review item
func (v VocabItem) Payload() VocabPayload {
	return VocabPayload{
		Meaning:      v.Meaning,
		Example:      v.Example,
		Domain:       v.Domain,
		Register:     v.Register,
		PartOfSpeech: v.PartOfSpeech,
	}
}
