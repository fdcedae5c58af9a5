package extract

import (
	"reflect"
	"testing"
)

func TestSentenceSplit(t *testing.T) {
	tests := []struct {
		name string
		text string
		want []string
	}{
		{name: "three terminators", text: "Hola. ¿Qué tal? ¡Genial!", want: []string{"Hola.", "¿Qué tal?", "¡Genial!"}},
		{name: "trailing fragment", text: "Primera frase. y luego esto", want: []string{"Primera frase.", "y luego esto"}},
		{name: "ellipsis collapses", text: "Bueno... vale.", want: []string{"Bueno.", "vale."}},
		{name: "empty", text: "   ", want: nil},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := SentenceSplit(tt.text); !reflect.DeepEqual(got, tt.want) {
				t.Errorf("SentenceSplit(%q) = %q, want %q", tt.text, got, tt.want)
			}
		})
	}
}

func TestTokens(t *testing.T) {
	got := Tokens(`«Hola», dijo (ella) ¿VALE? ...`)
	want := []string{"hola", "dijo", "ella", "vale"}
	if !reflect.DeepEqual(got, want) {
		t.Errorf("Tokens() = %q, want %q", got, want)
	}
}

func TestCandidatePhrases(t *testing.T) {
	tests := []struct {
		name string
		text string
		want []Candidate
	}{
		{
			name: "stopwords break phrases",
			text: "el gato come pescado el gato duerme",
			want: []Candidate{
				{Phrase: "gato come", Count: 1},
				{Phrase: "come pescado", Count: 1},
				{Phrase: "gato duerme", Count: 1},
				{Phrase: "gato come pescado", Count: 1},
			},
		},
		{
			name: "repeats rank first",
			text: "Tomamos medidas urgentes. Otra vez, medidas urgentes!",
			want: []Candidate{
				{Phrase: "medidas urgentes", Count: 2},
				{Phrase: "tomamos medidas", Count: 1},
				{Phrase: "urgentes otra", Count: 1},
				{Phrase: "otra vez", Count: 1},
				{Phrase: "vez medidas", Count: 1},
				{Phrase: "tomamos medidas urgentes", Count: 1},
				{Phrase: "medidas urgentes otra", Count: 1},
				{Phrase: "urgentes otra vez", Count: 1},
				{Phrase: "otra vez medidas", Count: 1},
				{Phrase: "vez medidas urgentes", Count: 1},
			},
		},
		{
			name: "single token",
			text: "hola",
			want: []Candidate{},
		},
		{
			name: "only stopwords",
			text: "de la que por",
			want: []Candidate{},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := CandidatePhrases(tt.text); !reflect.DeepEqual(got, tt.want) {
				t.Errorf("CandidatePhrases() = %+v, want %+v", got, tt.want)
			}
		})
	}
}
