package nlp

// RequiredRiskFields are the profile fields needed before a risk prediction,
// in the order their questions are asked.
var RequiredRiskFields = []Field{FieldAge, FieldWeeks, FieldWeightKg, FieldHeightCm}

var riskQuestions = map[Field]string{
	FieldAge:      "Quel âge avez-vous ?",
	FieldWeeks:    "À combien de semaines de grossesse êtes-vous ?",
	FieldWeightKg: "Quel est votre poids actuel ?",
	FieldHeightCm: "Quelle est votre taille ?",
}

const (
	questionDescribeSymptom = "Pouvez-vous me décrire plus précisément ce que vous ressentez ?"
	questionLocation        = "Où ressentez-vous cette gêne exactement ?"
	questionStage           = "À quel stade de votre grossesse êtes-vous ?"
)

// MissingRiskFields lists the required risk fields absent from profile.
func MissingRiskFields(profile Entities) []Field {
	var missing []Field
	for _, f := range RequiredRiskFields {
		if !profile.Has(f) {
			missing = append(missing, f)
		}
	}
	return missing
}

// FollowUpQuestions generates the clarifying questions for an intent.
// Symptom inquiries ask for the symptom and its location when the message did
// not name them, and for the stage when it is unknown. Risk evaluations ask one
// question per required field missing from the merged profile. Other intents
// have none.
func FollowUpQuestions(intent Intent, medical Entities, stage Stage, profile Entities) []string {
	var questions []string

	switch intent {
	case IntentSymptomInquiry:
		if !medical.Has(FieldSymptom) {
			questions = append(questions, questionDescribeSymptom)
		}
		if !medical.Has(FieldPainLocation) {
			questions = append(questions, questionLocation)
		}
		if stage == StageUnknown {
			questions = append(questions, questionStage)
		}
	case IntentRiskEvaluation:
		for _, f := range MissingRiskFields(profile) {
			questions = append(questions, riskQuestions[f])
		}
	}

	return questions
}
