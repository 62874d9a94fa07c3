package chatbot

import (
	"fmt"
	"strings"
	"sync"
	"time"

	"github.com/edgard/grossessebot/internal/nlp"
)

// Turn is one processed message of a conversation.
type Turn struct {
	Message  string
	Analysis nlp.Analysis
	At       time.Time
}

// Session is the dialogue state of one conversation: the accumulated profile
// and the append-only history. All methods are safe for concurrent use; a
// turn holds the session lock from analysis to reply.
type Session struct {
	id string

	mu      sync.Mutex
	profile nlp.Entities
	history []Turn
}

// NewSession returns an empty session.
func NewSession(id string) *Session {
	return &Session{id: id, profile: nlp.Entities{}}
}

// ID returns the session identifier.
func (s *Session) ID() string { return s.id }

// Profile returns a snapshot of the accumulated profile.
func (s *Session) Profile() nlp.Entities {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.profile.Clone()
}

// History returns a copy of the conversation history.
func (s *Session) History() []Turn {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]Turn, len(s.history))
	copy(out, s.history)
	return out
}

// Len returns the number of processed messages.
func (s *Session) Len() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.history)
}

// Reset clears the profile and the history.
func (s *Session) Reset() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.profile = nlp.Entities{}
	s.history = nil
}

// Summary describes the conversation: its most frequent intent, the profile
// and the number of messages. Ties between intents go to the one seen first.
func (s *Session) Summary() string {
	s.mu.Lock()
	defer s.mu.Unlock()

	if len(s.history) == 0 {
		return EmptySummary
	}

	counts := make(map[nlp.Intent]int)
	var order []nlp.Intent
	for _, t := range s.history {
		if counts[t.Analysis.Intent] == 0 {
			order = append(order, t.Analysis.Intent)
		}
		counts[t.Analysis.Intent]++
	}

	top := order[0]
	for _, intent := range order[1:] {
		if counts[intent] > counts[top] {
			top = intent
		}
	}

	var b strings.Builder
	fmt.Fprintf(&b, "Conversation focalisée sur : %s\n", top)
	fmt.Fprintf(&b, "Profil utilisateur : %s\n", FormatProfile(s.profile))
	fmt.Fprintf(&b, "Nombre de messages : %d", len(s.history))
	return b.String()
}

// FormatProfile renders a profile as "field=value" pairs in field order.
func FormatProfile(p nlp.Entities) string {
	if len(p) == 0 {
		return "{}"
	}
	parts := make([]string, 0, len(p))
	for _, f := range p.Fields() {
		parts = append(parts, fmt.Sprintf("%s=%s", f, p[f]))
	}
	return "{" + strings.Join(parts, ", ") + "}"
}
