package nlp_test

import (
	"testing"

	"github.com/edgard/grossessebot/internal/nlp"
)

func TestDetectIntent(t *testing.T) {
	t.Parallel()

	testCases := []struct {
		name     string
		input    string
		expected nlp.Intent
	}{
		{"greeting", "Bonjour", nlp.IntentGreeting},
		{"salut resolves to greeting", "Salut", nlp.IntentGreeting},
		{"thanks", "Merci beaucoup", nlp.IntentThanks},
		{"farewell", "Au revoir", nlp.IntentFarewell},
		{"greeting declared before thanks", "Salut et merci", nlp.IntentGreeting},
		{"thanks declared before farewell", "Merci, au revoir", nlp.IntentThanks},
		{"general question", "Comment soulager les nausées ?", nlp.IntentGeneralQuestion},
		{"advice request", "J'ai besoin d'un conseil", nlp.IntentAdviceRequest},
		{"symptom inquiry", "J'ai mal au dos", nlp.IntentSymptomInquiry},
		{"risk evaluation", "Je voudrais évaluer mon risque", nlp.IntentRiskEvaluation},
		{"risk evaluation uppercase", "ÉVALUATION du risque", nlp.IntentRiskEvaluation},
		{"emergency", "Je saigne beaucoup", nlp.IntentEmergency},
		{"emergency pre-empts greeting", "Bonjour, je saigne", nlp.IntentEmergency},
		{"fever is an emergency", "J'ai de la fièvre", nlp.IntentEmergency},
		{"contractions are an emergency", "J'ai des contractions", nlp.IntentEmergency},
		{"belly pain is an emergency", "J'ai mal au ventre", nlp.IntentEmergency},
		{"migraine is an emergency", "j'ai une migraine terrible", nlp.IntentEmergency},
		{"headache is an emergency", "J'ai mal de tête", nlp.IntentEmergency},
		{"fluid loss is an emergency", "je perds du liquide", nlp.IntentEmergency},
		{"imminent delivery is an emergency", "Je vais accoucher", nlp.IntentEmergency},
		{"vomiting is an emergency", "Je n'arrête pas de vomir", nlp.IntentEmergency},
		{"chills are an emergency", "j'ai des frissons", nlp.IntentEmergency},
		{"temperature is an emergency", "ma température monte", nlp.IntentEmergency},
		{"blood is an emergency", "j'ai perdu du sang", nlp.IntentEmergency},
		{"working is not an emergency", "Je travaille encore, est-ce normal ?", nlp.IntentSymptomInquiry},
		{"blood test is not an emergency", "Quand faire la prise de sang ?", nlp.IntentGeneralQuestion},
		{"delivery preparation is not an emergency", "Comment préparer l'accouchement ?", nlp.IntentGeneralQuestion},
		{"hot weather is not an emergency", "Il fait chaud aujourd'hui", nlp.IntentGeneralQuestion},
		{"default", "blabla", nlp.IntentGeneralQuestion},
		{"empty", "", nlp.IntentGeneralQuestion},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			t.Parallel()

			if got := nlp.DetectIntent(tc.input); got != tc.expected {
				t.Errorf("DetectIntent(%q) = %q, expected %q", tc.input, got, tc.expected)
			}
		})
	}
}

func TestIsEmergency(t *testing.T) {
	t.Parallel()

	testCases := []struct {
		input    string
		expected bool
	}{
		{"j'ai perdu beaucoup de sang", true},
		{"j'ai une vision floue depuis ce matin", true},
		{"j'ai plus de 38 de fièvre", true},
		{"je crois que je suis en travail", true},
		{"bonjour", false},
		{"je travaille encore", false},
		{"", false},
	}

	for _, tc := range testCases {
		if got := nlp.IsEmergency(tc.input); got != tc.expected {
			t.Errorf("IsEmergency(%q) = %t, expected %t", tc.input, got, tc.expected)
		}
	}
}

func TestAnalyzeSentiment(t *testing.T) {
	t.Parallel()

	testCases := []struct {
		name     string
		input    string
		expected nlp.Sentiment
	}{
		{"two negatives beat one positive", "J'ai peur et je suis stressée mais content", nlp.SentimentNegative},
		{"equal counts are neutral", "Je suis heureuse mais j'ai peur", nlp.SentimentNeutral},
		{"positive", "Tout va bien, c'est super", nlp.SentimentPositive},
		{"no words", "ok", nlp.SentimentNeutral},
		{"empty", "", nlp.SentimentNeutral},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			t.Parallel()

			if got := nlp.AnalyzeSentiment(tc.input); got != tc.expected {
				t.Errorf("AnalyzeSentiment(%q) = %q, expected %q", tc.input, got, tc.expected)
			}
		})
	}
}

func TestMatchFAQ(t *testing.T) {
	t.Parallel()

	const maternityLeave = "Le congé maternité commence 6 semaines avant la date prévue d'accouchement."
	const alcohol = "L'alcool est strictement interdit pendant toute la grossesse."
	const coffee = "Limitez le café à 1-2 tasses par jour maximum."
	const pregnancyTest = "Si vous pensez être enceinte, faites un test de grossesse et consultez un médecin pour confirmer."

	testCases := []struct {
		name     string
		input    string
		expected string
		found    bool
	}{
		{"exact substring", "Quand commence le congé maternité ?", maternityLeave, true},
		{"fuzzy without accents", "conge maternite", maternityLeave, true},
		{"fuzzy misspelling", "alcol", alcohol, true},
		{"pregnancy question", "suis je enceinte ?", pregnancyTest, true},
		{"being pregnant does not shadow other topics", "je suis enceinte de 5 mois, puis je boire du café ?", coffee, true},
		{"below cutoff", "bananes", "", false},
		{"empty", "", "", false},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			t.Parallel()

			got, ok := nlp.MatchFAQ(tc.input)
			if ok != tc.found || got != tc.expected {
				t.Errorf("MatchFAQ(%q) = (%q, %t), expected (%q, %t)", tc.input, got, ok, tc.expected, tc.found)
			}
		})
	}
}

func TestSimilarity(t *testing.T) {
	t.Parallel()

	testCases := []struct {
		a, b     string
		expected float64
	}{
		{"abc", "abc", 1},
		{"", "", 1},
		{"abc", "", 0},
		{"Fatigue", "fatigue", 1},
		{"kitten", "sitting", 1 - 3.0/7.0},
	}

	for _, tc := range testCases {
		got := nlp.Similarity(tc.a, tc.b)
		if diff := got - tc.expected; diff > 1e-9 || diff < -1e-9 {
			t.Errorf("Similarity(%q, %q) = %f, expected %f", tc.a, tc.b, got, tc.expected)
		}
	}
}

func TestBestMatch(t *testing.T) {
	t.Parallel()

	candidates := []string{"nausées", "fatigue", "exercice"}

	if got, ok := nlp.BestMatch("fatigu", candidates, nlp.DefaultCutoff); !ok || got != "fatigue" {
		t.Errorf("BestMatch(fatigu) = (%q, %t), expected fatigue", got, ok)
	}
	if got, ok := nlp.BestMatch("zzz", candidates, nlp.DefaultCutoff); ok {
		t.Errorf("BestMatch(zzz) = %q, expected no match", got)
	}
	if _, ok := nlp.BestMatch("fatigue", nil, nlp.DefaultCutoff); ok {
		t.Error("BestMatch with no candidates should not match")
	}
}
