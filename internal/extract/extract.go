// Package extract splits pasted text into sentences and ranks the recurring
// two- and three-word phrases worth turning into vocabulary.
package extract

import (
	"sort"
	"strings"
)

// trimCutset is stripped from both ends of every token.
const trimCutset = `.,;:!?¡¿()"«»`

// Stopwords never appear inside a candidate phrase.
var Stopwords = map[string]bool{
	"de": true, "la": true, "el": true, "y": true, "en": true,
	"a": true, "que": true, "por": true, "para": true,
}

// Candidate is a phrase and how often it occurred.
type Candidate struct {
	Phrase string `json:"phrase"`
	Count  int    `json:"count"`
}

const terminators = ".!?"

// SentenceSplit cuts text after every '.', '!' or '?'. Pieces are trimmed;
// blank pieces and bare terminators are dropped. Trailing text without a
// terminator is the last sentence.
func SentenceSplit(text string) []string {
	var parts []string
	start := 0
	for i, r := range text {
		if strings.ContainsRune(terminators, r) {
			parts = appendSentence(parts, text[start:i+1])
			start = i + 1
		}
	}
	return appendSentence(parts, text[start:])
}

func appendSentence(parts []string, piece string) []string {
	s := strings.TrimSpace(piece)
	if strings.Trim(s, terminators) == "" {
		return parts
	}
	return append(parts, s)
}

// Tokens splits on whitespace, trims punctuation, lowercases and drops
// empty tokens.
func Tokens(text string) []string {
	fields := strings.Fields(text)
	tokens := make([]string, 0, len(fields))
	for _, f := range fields {
		tok := strings.ToLower(strings.Trim(f, trimCutset))
		if tok != "" {
			tokens = append(tokens, tok)
		}
	}
	return tokens
}

// CandidatePhrases counts every bigram, then every trigram, that contains no
// stopword. Results are sorted by descending count; equal counts keep the
// order in which each phrase was first seen, bigrams before trigrams.
func CandidatePhrases(text string) []Candidate {
	tokens := Tokens(text)

	counts := make(map[string]int)
	var order []string
	for _, n := range []int{2, 3} {
		for i := 0; i+n <= len(tokens); i++ {
			window := tokens[i : i+n]
			if hasStopword(window) {
				continue
			}
			phrase := strings.Join(window, " ")
			if _, ok := counts[phrase]; !ok {
				order = append(order, phrase)
			}
			counts[phrase]++
		}
	}

	out := make([]Candidate, 0, len(order))
	for _, p := range order {
		out = append(out, Candidate{Phrase: p, Count: counts[p]})
	}
	sort.SliceStable(out, func(i, j int) bool {
		return out[i].Count > out[j].Count
	})
	return out
}

func hasStopword(words []string) bool {
	for _, w := range words {
		if Stopwords[w] {
			return true
		}
	}
	return false
}
