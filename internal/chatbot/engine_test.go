package chatbot_test

import (
	"fmt"
	"strings"
	"sync"
	"testing"

	"github.com/edgard/grossessebot/internal/chatbot"
	"github.com/edgard/grossessebot/internal/knowledge"
	"github.com/edgard/grossessebot/internal/nlp"
)

// firstRand always picks the first entry of a pool.
type firstRand struct{}

func (firstRand) IntN(int) int { return 0 }

func newEngine() *chatbot.Engine {
	return chatbot.NewEngine(knowledge.New(), firstRand{}, nil)
}

func TestProcessEmergency(t *testing.T) {
	t.Parallel()

	testCases := []struct {
		name  string
		input string
	}{
		{"bleeding", "J'ai des saignements abondants"},
		{"emergency wins over greeting", "Bonjour, j'ai une vision floue"},
		{"emergency wins over positive sentiment", "Je suis contente mais c'est urgent"},
		{"waters broke", "Je crois que j'ai eu une perte des eaux"},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			t.Parallel()

			reply := newEngine().Process(chatbot.NewSession("s"), tc.input)
			if !reply.IsEmergency {
				t.Fatalf("expected emergency for %q", tc.input)
			}
			if reply.Response != chatbot.EmergencyAdvisory {
				t.Errorf("expected the fixed advisory, got %q", reply.Response)
			}
		})
	}
}

func TestProcessGreeting(t *testing.T) {
	t.Parallel()

	engine := newEngine()

	t.Run("canned greeting", func(t *testing.T) {
		t.Parallel()

		reply := engine.Process(chatbot.NewSession("a"), "Bonjour")
		if reply.Intent != nlp.IntentGreeting {
			t.Fatalf("Intent = %q, expected greeting", reply.Intent)
		}
		if !strings.HasPrefix(reply.Response, "Bonjour ! Je suis votre assistant spécialisé en grossesse.") {
			t.Errorf("unexpected greeting %q", reply.Response)
		}
	})

	t.Run("personalized greeting", func(t *testing.T) {
		t.Parallel()

		s := chatbot.NewSession("b")
		engine.Process(s, "je suis à 20 semaines")
		reply := engine.Process(s, "Bonjour")
		want := "Bonjour ! Je vois que vous êtes à 20 semaines de grossesse (2ème trimestre)."
		if !strings.HasPrefix(reply.Response, want) {
			t.Errorf("Response = %q, expected prefix %q", reply.Response, want)
		}
	})
}

func TestProcessRiskEvaluation(t *testing.T) {
	t.Parallel()

	engine := newEngine()

	t.Run("empty profile needs every field", func(t *testing.T) {
		t.Parallel()

		reply := engine.Process(chatbot.NewSession("r1"), "Je voudrais évaluer mon risque")
		if reply.Intent != nlp.IntentRiskEvaluation {
			t.Fatalf("Intent = %q, expected risk_evaluation", reply.Intent)
		}
		if !reply.NeedsMoreInfo || reply.ReadyForPrediction {
			t.Errorf("flags = needs %t ready %t", reply.NeedsMoreInfo, reply.ReadyForPrediction)
		}
		if len(reply.FollowUpQuestions) != 4 || len(reply.MissingFields) != 4 {
			t.Errorf("expected 4 follow ups and 4 missing fields, got %v / %v", reply.FollowUpQuestions, reply.MissingFields)
		}
		if !strings.Contains(reply.Response, "❓ Quel âge avez-vous ?\n❓ À combien de semaines de grossesse êtes-vous ?") {
			t.Errorf("first two questions not appended: %q", reply.Response)
		}
		if strings.Contains(reply.Response, "❓ Quel est votre poids actuel ?") {
			t.Errorf("more than two follow ups appended: %q", reply.Response)
		}
	})

	t.Run("all fields in one message", func(t *testing.T) {
		t.Parallel()

		reply := engine.Process(chatbot.NewSession("r2"), "Évaluer mon risque : j'ai 28 ans, 20 semaines, 65 kg et 165 cm")
		if !reply.ReadyForPrediction || reply.NeedsMoreInfo {
			t.Fatalf("flags = needs %t ready %t", reply.NeedsMoreInfo, reply.ReadyForPrediction)
		}
		if len(reply.FollowUpQuestions) != 0 {
			t.Errorf("expected no follow ups, got %v", reply.FollowUpQuestions)
		}
		if reply.Response != "J'ai toutes les informations nécessaires. Voulez-vous que j'évalue votre profil de risque ?" {
			t.Errorf("unexpected response %q", reply.Response)
		}
		for _, f := range nlp.RequiredRiskFields {
			if !reply.PredictionInput.Has(f) {
				t.Errorf("prediction input misses %q", f)
			}
		}
	})

	t.Run("fields gathered across turns", func(t *testing.T) {
		t.Parallel()

		s := chatbot.NewSession("r3")
		engine.Process(s, "J'ai 30 ans et je pèse 60 kg")
		reply := engine.Process(s, "évaluation du risque, 20 semaines, 165 cm")
		if !reply.ReadyForPrediction {
			t.Fatalf("expected ready for prediction, profile %v", reply.Profile)
		}
		if age, _ := reply.PredictionInput.Number(nlp.FieldAge); age != 30 {
			t.Errorf("age = %v, expected 30", age)
		}
	})
}

func TestProcessGeneralQuestions(t *testing.T) {
	t.Parallel()

	engine := newEngine()

	testCases := []struct {
		name     string
		input    string
		expected string
	}{
		{"faq exact", "Et pour le congé maternité ?", "Le congé maternité commence 6 semaines avant la date prévue d'accouchement."},
		{"fallback menu", "Quelle heure est il ?", chatbot.FallbackMenu},
		{"negative sentiment framing", "J'ai peur et je stresse pour le café",
			"Je comprends votre inquiétude. Limitez le café à 1-2 tasses par jour maximum." +
				"\n\n💝 N'hésitez pas à me poser d'autres questions. Vous n'êtes pas seule dans cette aventure !"},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			t.Parallel()

			reply := engine.Process(chatbot.NewSession(tc.name), tc.input)
			if reply.Response != tc.expected {
				t.Errorf("Process(%q) = %q, expected %q", tc.input, reply.Response, tc.expected)
			}
		})
	}

	t.Run("weight override", func(t *testing.T) {
		t.Parallel()

		reply := engine.Process(chatbot.NewSession("w"), "Combien de kilos vais je prendre ?")
		if !strings.HasPrefix(reply.Response, "Une prise de poids normale pendant la grossesse est de 9-12 kg") {
			t.Errorf("unexpected response %q", reply.Response)
		}
	})

	t.Run("positive sentiment framing", func(t *testing.T) {
		t.Parallel()

		reply := engine.Process(chatbot.NewSession("p"), "Merci, c'est super")
		if reply.Intent != nlp.IntentThanks {
			t.Fatalf("Intent = %q, expected thanks", reply.Intent)
		}
		want := "Je vous en prie ! N'hésitez pas si vous avez d'autres questions.\n\n😊 C'est merveilleux de voir votre enthousiasme !"
		if reply.Response != want {
			t.Errorf("Response = %q, expected %q", reply.Response, want)
		}
	})
}

func TestProcessSymptomInquiry(t *testing.T) {
	t.Parallel()

	engine := newEngine()

	t.Run("known symptom and stage", func(t *testing.T) {
		t.Parallel()

		s := chatbot.NewSession("n")
		engine.Process(s, "je suis à 8 semaines")
		reply := engine.Process(s, "Je ressens des nausées")
		if reply.Intent != nlp.IntentSymptomInquiry {
			t.Fatalf("Intent = %q, expected symptom_inquiry", reply.Intent)
		}
		if !strings.HasPrefix(reply.Response, "Les nausées sont très courantes") {
			t.Errorf("missing topic answer: %q", reply.Response)
		}
		if !strings.Contains(reply.Response, "ℹ️ Au 1er trimestre: ") {
			t.Errorf("missing trimester advice: %q", reply.Response)
		}
		if !strings.Contains(reply.Response, "⚠️ Consultez votre médecin si les symptômes s'aggravent ou persistent.") {
			t.Errorf("missing caveat: %q", reply.Response)
		}
		if !strings.HasSuffix(reply.Response, "❓ Où ressentez-vous cette gêne exactement ?") {
			t.Errorf("missing location follow up: %q", reply.Response)
		}
	})

	t.Run("unknown symptom asks for details", func(t *testing.T) {
		t.Parallel()

		reply := engine.Process(chatbot.NewSession("u"), "Je ressens une gêne")
		if !strings.HasPrefix(reply.Response, "Je comprends votre inquiétude concernant vos symptômes.") {
			t.Errorf("unexpected response %q", reply.Response)
		}
		if len(reply.FollowUpQuestions) != 3 {
			t.Errorf("expected 3 follow ups, got %v", reply.FollowUpQuestions)
		}
	})
}

func TestProcessProfileAndHistory(t *testing.T) {
	t.Parallel()

	engine := newEngine()
	s := chatbot.NewSession("h")

	engine.Process(s, "j'ai 28 ans")
	reply := engine.Process(s, "j'ai 29 ans et 20 semaines")

	if age, _ := reply.Profile.Number(nlp.FieldAge); age != 29 {
		t.Errorf("age = %v, expected the latest value 29", age)
	}
	if !reply.Profile.Has(nlp.FieldWeeks) {
		t.Error("weeks not merged into profile")
	}
	if s.Len() != 2 || len(s.History()) != 2 {
		t.Errorf("history length = %d, expected 2", s.Len())
	}

	// Replies carry snapshots.
	reply.Profile[nlp.FieldAge] = nlp.IntValue(99)
	if age, _ := s.Profile().Number(nlp.FieldAge); age != 29 {
		t.Errorf("reply profile aliases session profile")
	}

	engine.Process(s, "Bonjour tout le monde")
	if s.Profile().Has(nlp.FieldAge) == false {
		t.Error("a message without entities removed profile keys")
	}
}

func TestSessionSummaryAndReset(t *testing.T) {
	t.Parallel()

	engine := newEngine()
	s := chatbot.NewSession("sum")

	if got := s.Summary(); got != chatbot.EmptySummary {
		t.Errorf("empty Summary() = %q", got)
	}

	engine.Process(s, "Bonjour")
	engine.Process(s, "j'ai 28 ans")
	engine.Process(s, "Quelle heure est il ?")
	engine.Process(s, "Quel temps fait il ?")

	want := "Conversation focalisée sur : general_question\nProfil utilisateur : {age=28}\nNombre de messages : 4"
	if got := s.Summary(); got != want {
		t.Errorf("Summary() = %q, expected %q", got, want)
	}

	s.Reset()
	if s.Len() != 0 || len(s.Profile()) != 0 {
		t.Error("Reset did not clear the session")
	}
	if got := s.Summary(); got != chatbot.EmptySummary {
		t.Errorf("Summary() after reset = %q", got)
	}
}

func TestHealthTip(t *testing.T) {
	t.Parallel()

	if tip := newEngine().HealthTip(); !strings.HasPrefix(tip, "💧") {
		t.Errorf("HealthTip() = %q", tip)
	}
	if tip := chatbot.NewEngine(knowledge.New(), nil, nil).HealthTip(); tip == "" {
		t.Error("HealthTip() with default randomness is empty")
	}
}

func TestProcessConcurrentSessions(t *testing.T) {
	t.Parallel()

	engine := newEngine()
	registry := chatbot.NewRegistry()

	var wg sync.WaitGroup
	for i := range 8 {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			s := registry.Get(fmt.Sprintf("user-%d", i%4))
			engine.Process(s, fmt.Sprintf("j'ai %d ans", 20+i))
		}(i)
	}
	wg.Wait()

	if registry.Len() != 4 {
		t.Fatalf("registry has %d sessions, expected 4", registry.Len())
	}
	total := 0
	for i := range 4 {
		s, _ := registry.Lookup(fmt.Sprintf("user-%d", i))
		total += s.Len()
	}
	if total != 8 {
		t.Errorf("processed %d turns, expected 8", total)
	}
}
