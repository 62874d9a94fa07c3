// Package nlp implements the rule-based message understanding pipeline:
// entity extraction, intent and sentiment classification, FAQ matching,
// pregnancy stage inference and follow-up question generation.
//
// Every function in this package is total. Unmatched or malformed text
// yields empty results, never an error.
package nlp

import (
	"encoding/json"
	"maps"
	"slices"
	"strconv"
)

// Intent is the coarse purpose attributed to one message.
type Intent string

const (
	IntentGreeting        Intent = "greeting"
	IntentThanks          Intent = "thanks"
	IntentFarewell        Intent = "farewell"
	IntentGeneralQuestion Intent = "general_question"
	IntentSymptomInquiry  Intent = "symptom_inquiry"
	IntentAdviceRequest   Intent = "advice_request"
	IntentRiskEvaluation  Intent = "risk_evaluation"
	IntentEmergency       Intent = "emergency"
)

// Sentiment is the polarity of one message.
type Sentiment string

const (
	SentimentPositive Sentiment = "positive"
	SentimentNegative Sentiment = "negative"
	SentimentNeutral  Sentiment = "neutral"
)

// Stage is a pregnancy trimester. The zero value means unknown.
type Stage string

const (
	StageUnknown         Stage = ""
	StageFirstTrimester  Stage = "first_trimester"
	StageSecondTrimester Stage = "second_trimester"
	StageThirdTrimester  Stage = "third_trimester"
)

// Label returns the French wording used in responses.
func (s Stage) Label() string {
	switch s {
	case StageFirstTrimester:
		return "1er trimestre"
	case StageSecondTrimester:
		return "2ème trimestre"
	case StageThirdTrimester:
		return "3ème trimestre"
	default:
		return ""
	}
}

// Field names an extracted entity.
type Field string

const (
	FieldAge          Field = "age"
	FieldWeeks        Field = "weeks"
	FieldMonths       Field = "months"
	FieldWeightKg     Field = "weight_kg"
	FieldHeightCm     Field = "height_cm"
	FieldTemperature  Field = "temperature"
	FieldSymptom      Field = "symptom"
	FieldPainLocation Field = "pain_location"
)

// Value is a numeric or categorical entity value. Numbers written with a
// decimal separator are floats, all other numbers are integers.
type Value struct {
	number  float64
	decimal bool
	text    string
	numeric bool
}

// IntValue returns an integer Value.
func IntValue(n int) Value {
	return Value{number: float64(n), numeric: true}
}

// FloatValue returns a floating point Value.
func FloatValue(f float64) Value {
	return Value{number: f, decimal: true, numeric: true}
}

// TextValue returns a categorical Value.
func TextValue(s string) Value {
	return Value{text: s}
}

// IsNumeric reports whether v holds a number.
func (v Value) IsNumeric() bool { return v.numeric }

// IsDecimal reports whether v was parsed from a literal with a decimal separator.
func (v Value) IsDecimal() bool { return v.decimal }

// Number returns the numeric value, or false for categorical values.
func (v Value) Number() (float64, bool) {
	return v.number, v.numeric
}

// Text returns the categorical value, or "" for numbers.
func (v Value) Text() string { return v.text }

// String formats the value the way it is shown to users.
func (v Value) String() string {
	if !v.numeric {
		return v.text
	}
	if v.decimal {
		return strconv.FormatFloat(v.number, 'f', -1, 64)
	}
	return strconv.FormatInt(int64(v.number), 10)
}

// MarshalJSON encodes integers as JSON integers, decimals as JSON numbers
// and categorical values as strings.
func (v Value) MarshalJSON() ([]byte, error) {
	if !v.numeric {
		return json.Marshal(v.text)
	}
	return []byte(v.String()), nil
}

// Entities maps field names to extracted values. A key is present only when a
// pattern matched.
type Entities map[Field]Value

// Has reports whether f is present.
func (e Entities) Has(f Field) bool {
	_, ok := e[f]
	return ok
}

// Number returns the numeric value of f.
func (e Entities) Number(f Field) (float64, bool) {
	v, ok := e[f]
	if !ok {
		return 0, false
	}
	return v.Number()
}

// Text returns the categorical value of f.
func (e Entities) Text(f Field) string {
	return e[f].Text()
}

// Merge writes every entry of other over e. Keys are only added or overwritten.
func (e Entities) Merge(other Entities) {
	maps.Copy(e, other)
}

// Clone returns an independent copy of e. A nil receiver yields an empty map.
func (e Entities) Clone() Entities {
	out := make(Entities, len(e))
	maps.Copy(out, e)
	return out
}

// Fields returns the present field names in sorted order.
func (e Entities) Fields() []Field {
	return slices.Sorted(maps.Keys(e))
}

// Analysis is the immutable result of understanding one message.
type Analysis struct {
	OriginalText      string    `json:"original_text"`
	NormalizedText    string    `json:"normalized_text"`
	Intent            Intent    `json:"intent"`
	Sentiment         Sentiment `json:"sentiment"`
	Entities          Entities  `json:"extracted_entities"`
	Medical           Entities  `json:"medical_entities"`
	Stage             Stage     `json:"pregnancy_stage,omitempty"`
	IsEmergency       bool      `json:"is_emergency"`
	FAQAnswer         string    `json:"faq_answer,omitempty"`
	FollowUpQuestions []string  `json:"follow_up_questions"`
}

// HasFAQ reports whether an FAQ entry matched the message.
func (a Analysis) HasFAQ() bool { return a.FAQAnswer != "" }
