package nlp

import "github.com/edgard/grossessebot/internal/text"

// Analyze runs the whole pipeline on one raw message. profile holds the
// entities accumulated by earlier turns; it is read, never modified. Stage
// inference and risk follow-ups see profile merged with this message's
// entities.
func Analyze(raw string, profile Entities) Analysis {
	normalized := text.Normalize(raw)

	entities := ExtractEntities(normalized)
	medical := ExtractMedical(normalized)
	intent := DetectIntent(normalized)
	sentiment := AnalyzeSentiment(normalized)
	faq, _ := MatchFAQ(normalized)

	merged := profile.Clone()
	merged.Merge(entities)
	merged.Merge(medical)

	stage := DetectStage(normalized, merged)

	return Analysis{
		OriginalText:      raw,
		NormalizedText:    normalized,
		Intent:            intent,
		Sentiment:         sentiment,
		Entities:          entities,
		Medical:           medical,
		Stage:             stage,
		IsEmergency:       IsEmergency(normalized) || intent == IntentEmergency,
		FAQAnswer:         faq,
		FollowUpQuestions: FollowUpQuestions(intent, medical, stage, merged),
	}
}
