// Package lexicon indexes the terms a learner already knows in a patricia
// trie, so ingest can skip them and the bot can complete partial terms.
package lexicon

import (
	"sort"
	"strings"

	"github.com/tchap/go-patricia/v2/patricia"
)

// Index is not safe for concurrent use; the owning session serializes access.
type Index struct {
	trie *patricia.Trie
	size int
}

// New creates an empty index.
func New() *Index {
	return &Index{trie: patricia.NewTrie()}
}

func normalize(term string) string {
	return strings.ToLower(strings.TrimSpace(term))
}

// Add indexes term under its lowercase form and reports whether it was new.
func (x *Index) Add(term string) bool {
	key := normalize(term)
	if key == "" {
		return false
	}
	if x.trie.Insert(patricia.Prefix(key), term) {
		x.size++
		return true
	}
	return false
}

// Contains reports whether term, ignoring case, is indexed.
func (x *Index) Contains(term string) bool {
	key := normalize(term)
	if key == "" {
		return false
	}
	return x.trie.Match(patricia.Prefix(key))
}

// WithPrefix returns up to limit indexed terms starting with prefix, sorted.
// A limit of zero or less returns every match.
func (x *Index) WithPrefix(prefix string, limit int) []string {
	var out []string
	err := x.trie.VisitSubtree(patricia.Prefix(normalize(prefix)), func(p patricia.Prefix, item patricia.Item) error {
		if term, ok := item.(string); ok {
			out = append(out, term)
		}
		return nil
	})
	if err != nil {
		return nil
	}
	sort.Strings(out)
	if limit > 0 && len(out) > limit {
		out = out[:limit]
	}
	return out
}

// Len returns the number of indexed terms.
func (x *Index) Len() int {
	return x.size
}
