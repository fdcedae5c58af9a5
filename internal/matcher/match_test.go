package matcher

import (
	"reflect"
	"testing"
)

var notebookPatterns = []Pattern{
	{Pattern: "dependen en", Correction: "dependen de"},
	{Pattern: "tomar una decisión en", Correction: "tomar una decisión sobre"},
	{Pattern: "la problema", Correction: "el problema"},
}

func patternNames(ps []Pattern) []string {
	var out []string
	for _, p := range ps {
		out = append(out, p.Pattern)
	}
	return out
}

func TestMatch(t *testing.T) {
	tests := []struct {
		name     string
		text     string
		patterns []Pattern
		want     []string
	}{
		{
			name:     "single hit",
			text:     "Los precios dependen en el mercado.",
			patterns: notebookPatterns,
			want:     []string{"dependen en"},
		},
		{
			name:     "case insensitive",
			text:     "LA PROBLEMA es grave",
			patterns: notebookPatterns,
			want:     []string{"la problema"},
		},
		{
			name:     "repeated occurrence reported once",
			text:     "dependen en esto y dependen en aquello",
			patterns: notebookPatterns,
			want:     []string{"dependen en"},
		},
		{
			name:     "input order",
			text:     "la problema: dependen en el jefe",
			patterns: notebookPatterns,
			want:     []string{"dependen en", "la problema"},
		},
		{
			name:     "empty text",
			text:     "   ",
			patterns: notebookPatterns,
			want:     nil,
		},
		{
			name:     "no patterns",
			text:     "dependen en",
			patterns: nil,
			want:     nil,
		},
		{
			name:     "empty pattern never matches",
			text:     "cualquier cosa",
			patterns: []Pattern{{Pattern: ""}},
			want:     nil,
		},
		{
			name: "shared pattern with different tags",
			text: "Siempre dependen en factores externos",
			patterns: []Pattern{
				{Pattern: "dependen en", Correction: "dependen de", Tag: "preposition"},
				{Pattern: "Dependen en", Correction: "dependen de", Tag: "register"},
			},
			want: []string{"dependen en", "Dependen en"},
		},
		{
			name:     "accented pattern",
			text:     "Vamos a tomar una decisión en equipo",
			patterns: notebookPatterns,
			want:     []string{"tomar una decisión en"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := patternNames(Match(tt.text, tt.patterns))
			if !reflect.DeepEqual(got, tt.want) {
				t.Errorf("Match() = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestMatchIsIdempotent(t *testing.T) {
	text := "La problema es que dependen en otros."
	first := Match(text, notebookPatterns)
	second := Match(text, notebookPatterns)
	if !reflect.DeepEqual(first, second) {
		t.Errorf("Match() not idempotent: %v vs %v", first, second)
	}
}

func TestCountDistinct(t *testing.T) {
	markers := []string{"aunque", "si bien", "a pesar de", "aunque"}
	if got := CountDistinct("Aunque llueva, aunque nieve", markers); got != 1 {
		t.Errorf("CountDistinct() = %d, want 1", got)
	}
	if got := CountDistinct("Si bien es caro, a pesar de todo, aunque sí", markers); got != 3 {
		t.Errorf("CountDistinct() = %d, want 3", got)
	}
}

func TestReplaceFold(t *testing.T) {
	tests := []struct {
		s, old, repl, want string
	}{
		{"Dependen en ti", "dependen en", "dependen de", "dependen de ti"},
		{"x dependen en y dependen en", "dependen en", "dependen de", "x dependen de y dependen de"},
		{"sin cambios", "dependen en", "dependen de", "sin cambios"},
		{"texto", "", "algo", "texto"},
	}
	for _, tt := range tests {
		if got := ReplaceFold(tt.s, tt.old, tt.repl); got != tt.want {
			t.Errorf("ReplaceFold(%q) = %q, want %q", tt.s, got, tt.want)
		}
	}
}
