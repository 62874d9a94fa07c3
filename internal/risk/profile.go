package risk

import (
	"math"

	"github.com/edgard/grossessebot/internal/nlp"
)

// Defaults used when the conversation profile lacks a value.
const (
	DefaultAge      = 30
	DefaultWeeks    = 20
	DefaultWeightKg = 65
	DefaultHeightCm = 170
)

var profileSymptoms = map[string]Symptom{
	nlp.SymptomNausea:  SymptomNausea,
	nlp.SymptomFatigue: SymptomFatigue,
	nlp.SymptomPain:    SymptomPain,
}

// FromProfile builds a Request from the entities gathered in a conversation.
// Pregnancy months come from the week count (weeks/4, rounded down), else
// from an explicit month count. Activity, diet and history are not asked in
// conversation and take their most common values.
func FromProfile(p nlp.Entities) Request {
	req := Request{
		Age:            numberOr(p, nlp.FieldAge, DefaultAge),
		WeightKg:       numberOr(p, nlp.FieldWeightKg, DefaultWeightKg),
		HeightCm:       numberOr(p, nlp.FieldHeightCm, DefaultHeightCm),
		Activity:       ActivityModerate.String(),
		Diet:           DietOmnivore.String(),
		MedicalHistory: HistoryNone.String(),
		CurrentSymptom: SymptomNone.String(),
	}

	if weeks, ok := p.Number(nlp.FieldWeeks); ok {
		req.DurationMonths = math.Floor(weeks / 4)
	} else if months, ok := p.Number(nlp.FieldMonths); ok {
		req.DurationMonths = months
	} else {
		req.DurationMonths = DefaultWeeks / 4
	}

	if s, ok := profileSymptoms[p.Text(nlp.FieldSymptom)]; ok {
		req.CurrentSymptom = s.String()
	}

	return req
}

func numberOr(p nlp.Entities, f nlp.Field, def float64) float64 {
	if v, ok := p.Number(f); ok {
		return v
	}
	return def
}
