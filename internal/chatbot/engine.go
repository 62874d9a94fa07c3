// Package chatbot implements the dialogue manager: per-session profile and
// history, intent routing, response decoration and the risk readiness check.
package chatbot

import (
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/edgard/grossessebot/internal/knowledge"
	"github.com/edgard/grossessebot/internal/nlp"
)

// maxFollowUps bounds the follow-up questions appended to a response.
const maxFollowUps = 2

// Reply is the outcome of one processed message.
type Reply struct {
	Response           string        `json:"response"`
	Intent             nlp.Intent    `json:"intent"`
	Sentiment          nlp.Sentiment `json:"sentiment"`
	IsEmergency        bool          `json:"is_emergency"`
	Profile            nlp.Entities  `json:"user_profile"`
	NeedsMoreInfo      bool          `json:"needs_more_info"`
	ReadyForPrediction bool          `json:"ready_for_prediction"`
	MissingFields      []nlp.Field   `json:"missing_fields,omitempty"`
	PredictionInput    nlp.Entities  `json:"prediction_input,omitempty"`
	FollowUpQuestions  []string      `json:"follow_up_questions,omitempty"`
	Analysis           nlp.Analysis  `json:"-"`
}

// phraseOverride answers a group of phrases ahead of the generic topic lookup.
type phraseOverride struct {
	phrases []string
	answer  func(kb *knowledge.Base, text string) string
}

func fixedAnswer(s string) func(*knowledge.Base, string) string {
	return func(*knowledge.Base, string) string { return s }
}

func topicAnswer(id knowledge.TopicID) func(*knowledge.Base, string) string {
	return func(kb *knowledge.Base, text string) string {
		answer, _ := kb.Response(id, text)
		return answer
	}
}

var overrides = []phraseOverride{
	{[]string{"prise de poids", "poids", "kilos", "grossir"}, fixedAnswer(weightGainAnswer)},
	{[]string{"accouchement", "accoucher", "naissance", "date du terme", "à terme"}, fixedAnswer(deliveryTimingAnswer)},
	{[]string{"manger", "alimentation", "nourriture"}, topicAnswer(knowledge.TopicDiet)},
	{[]string{"sport", "exercice", "activité"}, topicAnswer(knowledge.TopicExercise)},
}

// symptomTopics maps extracted symptom categories to knowledge topics.
var symptomTopics = map[string]knowledge.TopicID{
	nlp.SymptomNausea:       knowledge.TopicNausea,
	nlp.SymptomFatigue:      knowledge.TopicFatigue,
	nlp.SymptomPain:         knowledge.TopicPain,
	nlp.SymptomContractions: knowledge.TopicDelivery,
	nlp.SymptomBleeding:     knowledge.TopicSymptoms,
	nlp.SymptomFever:        knowledge.TopicSymptoms,
}

// Engine turns messages into replies. It holds no conversation state and can
// serve any number of sessions concurrently.
type Engine struct {
	kb     *knowledge.Base
	rand   Rand
	logger *slog.Logger
	now    func() time.Time
}

// NewEngine creates an Engine. A nil rnd uses DefaultRand.
func NewEngine(kb *knowledge.Base, rnd Rand, logger *slog.Logger) *Engine {
	if logger == nil {
		logger = slog.Default()
	}
	if rnd == nil {
		rnd = DefaultRand()
	}
	return &Engine{
		kb:     kb,
		rand:   rnd,
		logger: logger.With("component", "chatbot"),
		now:    time.Now,
	}
}

// HealthTip returns a random pregnancy health tip.
func (e *Engine) HealthTip() string {
	return pick(e.rand, healthTips)
}

// Process handles one message of session s: it analyses the text against the
// session profile, merges the extracted entities into the profile, records
// the turn and composes the reply. Emergencies short-circuit to the fixed
// advisory without decoration or follow-ups.
func (e *Engine) Process(s *Session, raw string) Reply {
	s.mu.Lock()
	defer s.mu.Unlock()

	a := nlp.Analyze(raw, s.profile)

	s.profile.Merge(a.Entities)
	s.profile.Merge(a.Medical)
	s.history = append(s.history, Turn{Message: raw, Analysis: a, At: e.now()})

	reply := Reply{
		Intent:      a.Intent,
		Sentiment:   a.Sentiment,
		IsEmergency: a.IsEmergency,
		Analysis:    a,
	}

	if a.IsEmergency {
		e.logger.Warn("Emergency message detected", "session", s.id, "intent", a.Intent)
		reply.Response = EmergencyAdvisory
		reply.Profile = s.profile.Clone()
		return reply
	}

	var response string
	switch a.Intent {
	case nlp.IntentGreeting:
		response = e.greeting(s.profile)
	case nlp.IntentThanks:
		response = pick(e.rand, thanksReplies)
	case nlp.IntentFarewell:
		response = pick(e.rand, farewellReplies)
	case nlp.IntentSymptomInquiry:
		response = e.symptomResponse(a)
	case nlp.IntentRiskEvaluation:
		missing := nlp.MissingRiskFields(s.profile)
		if len(missing) > 0 {
			response = riskNeedsInfo + bulletFields(missing)
			reply.NeedsMoreInfo = true
			reply.MissingFields = missing
		} else {
			response = riskReady
			reply.ReadyForPrediction = true
			reply.PredictionInput = s.profile.Clone()
		}
	default:
		response = e.generalResponse(a)
	}

	response = e.decorate(response, a.Sentiment)

	if len(a.FollowUpQuestions) > 0 {
		questions := a.FollowUpQuestions[:min(len(a.FollowUpQuestions), maxFollowUps)]
		lines := make([]string, len(questions))
		for i, q := range questions {
			lines[i] = followUpGlyph + q
		}
		response += "\n\n" + strings.Join(lines, "\n")
	}

	reply.Response = response
	reply.Profile = s.profile.Clone()
	reply.FollowUpQuestions = a.FollowUpQuestions

	e.logger.Debug("Processed message",
		"session", s.id,
		"intent", a.Intent,
		"sentiment", a.Sentiment,
		"needs_more_info", reply.NeedsMoreInfo,
		"ready_for_prediction", reply.ReadyForPrediction)

	return reply
}

func (e *Engine) greeting(profile nlp.Entities) string {
	weeks, ok := profile.Number(nlp.FieldWeeks)
	if !ok {
		return pick(e.rand, greetings)
	}
	stage := nlp.StageFromWeeks(weeks)
	return fmt.Sprintf(personalGreeting, profile[nlp.FieldWeeks], stage.Label())
}

func (e *Engine) symptomResponse(a nlp.Analysis) string {
	topic, ok := symptomTopics[a.Medical.Text(nlp.FieldSymptom)]
	if !ok {
		return symptomClarify
	}
	response, ok := e.kb.Response(topic, a.NormalizedText)
	if !ok {
		return symptomClarify
	}

	if advice, ok := knowledge.TrimesterAdvice(a.Stage); ok {
		response += fmt.Sprintf(stageNote, a.Stage.Label(), advice.General)
	}
	return response + symptomCaveat
}

// generalResponse answers from the FAQ, then the phrase overrides, then the
// knowledge base, and finally the topic menu.
func (e *Engine) generalResponse(a nlp.Analysis) string {
	if a.HasFAQ() {
		return a.FAQAnswer
	}

	lower := strings.ToLower(a.NormalizedText)
	for _, o := range overrides {
		if containsAny(lower, o.phrases) {
			if answer := o.answer(e.kb, lower); answer != "" {
				return answer
			}
		}
	}

	if _, answer, ok := e.kb.Lookup(lower); ok {
		return answer
	}
	return FallbackMenu
}

func (e *Engine) decorate(response string, sentiment nlp.Sentiment) string {
	switch sentiment {
	case nlp.SentimentNegative:
		return pick(e.rand, empathyOpeners) + response + empathyCloser
	case nlp.SentimentPositive:
		return response + pick(e.rand, encouragements)
	default:
		return response
	}
}

func bulletFields(fields []nlp.Field) string {
	lines := make([]string, len(fields))
	for i, f := range fields {
		lines[i] = "• " + fieldLabels[f]
	}
	return strings.Join(lines, "\n")
}

func containsAny(text string, phrases []string) bool {
	for _, p := range phrases {
		if strings.Contains(text, p) {
			return true
		}
	}
	return false
}
