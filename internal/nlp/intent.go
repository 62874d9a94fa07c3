package nlp

import "strings"

// DetectIntent assigns exactly one intent to normalized text. Emergency
// keywords are checked first; the intent tables follow in declaration order
// and the first table with a hit wins. Text matching nothing is a general
// question.
func DetectIntent(text string) Intent {
	lower := strings.ToLower(text)

	if containsAny(lower, emergencyKeywords) {
		return IntentEmergency
	}

	for _, entry := range intentTable {
		if containsAny(lower, entry.keywords) {
			return entry.intent
		}
	}

	return IntentGeneralQuestion
}

// IsEmergency reports whether text contains one of the alarm phrases. It runs
// independently of intent detection.
func IsEmergency(text string) bool {
	return containsAny(strings.ToLower(text), alarmPhrases)
}

// AnalyzeSentiment counts positive and negative list words present in text,
// each word at most once. The larger count wins and a tie is neutral.
func AnalyzeSentiment(text string) Sentiment {
	lower := strings.ToLower(text)

	positive := countPresent(lower, positiveWords)
	negative := countPresent(lower, negativeWords)

	switch {
	case negative > positive:
		return SentimentNegative
	case positive > negative:
		return SentimentPositive
	default:
		return SentimentNeutral
	}
}

func countPresent(s string, words []string) int {
	n := 0
	for _, w := range words {
		if strings.Contains(s, w) {
			n++
		}
	}
	return n
}
