// Package knowledge holds the static pregnancy knowledge base: keyword
// triggered topics with canned answers, per-trimester advice and the symptom
// and warning sign catalogues.
package knowledge

import (
	"strings"

	"github.com/edgard/grossessebot/internal/nlp"
)

// Base answers topic lookups. It is immutable and safe for concurrent use.
type Base struct {
	topics []Topic
	byID   map[TopicID]Topic
	names  []string
	cutoff float64
}

// New returns a Base over the built-in topic table using nlp.DefaultCutoff
// for fuzzy matching.
func New() *Base {
	return NewWithCutoff(nlp.DefaultCutoff)
}

// NewWithCutoff returns a Base whose fuzzy topic matching uses cutoff.
func NewWithCutoff(cutoff float64) *Base {
	b := &Base{
		topics: topics,
		byID:   make(map[TopicID]Topic, len(topics)),
		names:  make([]string, 0, len(topics)),
		cutoff: cutoff,
	}
	for _, t := range topics {
		b.byID[t.ID] = t
		b.names = append(b.names, t.Name)
	}
	return b
}

// Topics returns the topic identifiers in declaration order.
func (b *Base) Topics() []TopicID {
	out := make([]TopicID, len(b.topics))
	for i, t := range b.topics {
		out[i] = t.ID
	}
	return out
}

// FindBestMatch returns the first topic whose keyword occurs in text. Without
// a keyword hit the whole text is fuzzy matched against the topic names.
func (b *Base) FindBestMatch(text string) (TopicID, bool) {
	lower := strings.ToLower(strings.TrimSpace(text))
	if lower == "" {
		return "", false
	}

	for _, t := range b.topics {
		for _, k := range t.Keywords {
			if strings.Contains(lower, k) {
				return t.ID, true
			}
		}
	}

	name, ok := nlp.BestMatch(lower, b.names, b.cutoff)
	if !ok {
		return "", false
	}
	for _, t := range b.topics {
		if t.Name == name {
			return t.ID, true
		}
	}
	return "", false
}

// Response returns the canned answer of a topic. Some topics branch on
// secondary words in text. Unknown topics have no answer.
func (b *Base) Response(id TopicID, text string) (string, bool) {
	t, ok := b.byID[id]
	if !ok {
		return "", false
	}
	return t.respond(strings.ToLower(text)), true
}

// Lookup combines FindBestMatch and Response.
func (b *Base) Lookup(text string) (TopicID, string, bool) {
	id, ok := b.FindBestMatch(text)
	if !ok {
		return "", "", false
	}
	answer, ok := b.Response(id, text)
	return id, answer, ok
}
