package api_test

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"strings"
	"testing"

	"github.com/gorilla/websocket"

	"github.com/edgard/grossessebot/internal/api"
	"github.com/edgard/grossessebot/internal/assistant"
	"github.com/edgard/grossessebot/internal/chatbot"
	"github.com/edgard/grossessebot/internal/config"
	"github.com/edgard/grossessebot/internal/database"
	"github.com/edgard/grossessebot/internal/knowledge"
	"github.com/edgard/grossessebot/internal/risk"
)

type firstRand struct{}

func (firstRand) IntN(int) int { return 0 }

type fixedClassifier string

func (c fixedClassifier) Predict(context.Context, risk.Vector) (string, error) {
	return string(c), nil
}

func newRouter(t *testing.T) http.Handler {
	t.Helper()

	db, err := database.NewDB(database.DriverSQLite, filepath.Join(t.TempDir(), "api.db"))
	if err != nil {
		t.Fatalf("NewDB() error = %v", err)
	}
	t.Cleanup(func() { database.CloseDB(db) })

	svc := assistant.New(assistant.Deps{
		Engine:    chatbot.NewEngine(knowledge.New(), firstRand{}, nil),
		Registry:  chatbot.NewRegistry(),
		Predictor: risk.NewPredictor(fixedClassifier("modéré"), nil),
		Store:     database.NewStore(db, nil),
	})
	return api.NewRouter(svc, config.HTTPConfig{AllowedOrigins: []string{"https://app.example.com"}}, nil)
}

func do(t *testing.T, h http.Handler, method, path, body string) *httptest.ResponseRecorder {
	t.Helper()
	req := httptest.NewRequest(method, path, strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)
	return rec
}

func decode(t *testing.T, rec *httptest.ResponseRecorder) map[string]any {
	t.Helper()
	var out map[string]any
	if err := json.Unmarshal(rec.Body.Bytes(), &out); err != nil {
		t.Fatalf("invalid JSON body %q: %v", rec.Body.String(), err)
	}
	return out
}

func TestHealth(t *testing.T) {
	t.Parallel()

	rec := do(t, newRouter(t), http.MethodGet, "/health", "")
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d", rec.Code)
	}
	body := decode(t, rec)
	if body["status"] != "healthy" || body["service"] != api.ServiceName || body["version"] != api.ServiceVersion {
		t.Errorf("body = %v", body)
	}
}

func TestChat(t *testing.T) {
	t.Parallel()

	router := newRouter(t)

	testCases := []struct {
		name         string
		body         string
		expectedCode int
		expectedText string
	}{
		{
			name:         "greeting",
			body:         `{"message": "Bonjour", "session_id": "web-1"}`,
			expectedCode: http.StatusOK,
			expectedText: "Bonjour",
		},
		{
			name:         "empty message",
			body:         `{"message": "   "}`,
			expectedCode: http.StatusBadRequest,
			expectedText: assistant.EmptyMessageResponse,
		},
		{
			name:         "missing key",
			body:         `{"text": "Bonjour"}`,
			expectedCode: http.StatusBadRequest,
			expectedText: "Format de message invalide",
		},
		{
			name:         "invalid json",
			body:         `{"message": `,
			expectedCode: http.StatusBadRequest,
			expectedText: "Format de message invalide",
		},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			t.Parallel()

			rec := do(t, router, http.MethodPost, "/chatbot/api/", tc.body)
			if rec.Code != tc.expectedCode {
				t.Fatalf("status = %d, expected %d (body %s)", rec.Code, tc.expectedCode, rec.Body)
			}
			body := decode(t, rec)
			if resp, _ := body["response"].(string); !strings.Contains(resp, tc.expectedText) {
				t.Errorf("response = %q, expected to contain %q", resp, tc.expectedText)
			}
		})
	}
}

func TestChatRiskEvaluation(t *testing.T) {
	t.Parallel()

	rec := do(t, newRouter(t), http.MethodPost, "/chatbot/api",
		`{"message": "Évaluer mon risque : j'ai 28 ans, 20 semaines, 65 kg et 165 cm"}`)
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d", rec.Code)
	}

	body := decode(t, rec)
	if body["ready_for_prediction"] != true {
		t.Errorf("ready_for_prediction = %v", body["ready_for_prediction"])
	}
	if id, _ := body["session_id"].(string); id == "" {
		t.Error("no session id returned")
	}
	if resp, _ := body["response"].(string); !strings.Contains(resp, "Niveau de risque : **modéré**") {
		t.Errorf("response = %q", resp)
	}
	assessment, ok := body["risk_assessment"].(map[string]any)
	if !ok || assessment["risk_label"] != "moderate" {
		t.Errorf("risk_assessment = %v", body["risk_assessment"])
	}
}

func TestPredict(t *testing.T) {
	t.Parallel()

	router := newRouter(t)

	testCases := []struct {
		name          string
		body          string
		expectedCode  int
		expectedField string
		expectedValue string
	}{
		{
			name:          "valid",
			body:          `{"age": 30, "pregnancy_duration_months": 6, "weight_kg": 70, "height_cm": 165, "activity_level": "modérée", "diet_type": "omnivore", "medical_history": "aucun", "current_symptom": "aucun"}`,
			expectedCode:  http.StatusOK,
			expectedField: "profil_risque",
			expectedValue: "modéré",
		},
		{
			name:          "missing age",
			body:          `{"pregnancy_duration_months": 6, "weight_kg": 70, "height_cm": 165, "activity_level": "modérée", "diet_type": "omnivore", "medical_history": "aucun", "current_symptom": "aucun"}`,
			expectedCode:  http.StatusBadRequest,
			expectedField: "error",
			expectedValue: "Champ manquant : age",
		},
		{
			name:          "out of range",
			body:          `{"age": 30, "pregnancy_duration_months": 6, "weight_kg": 70, "height_cm": 900, "activity_level": "modérée", "diet_type": "omnivore", "medical_history": "aucun", "current_symptom": "aucun"}`,
			expectedCode:  http.StatusBadRequest,
			expectedField: "error",
			expectedValue: "Valeur invalide pour height_cm",
		},
		{
			name:          "invalid category",
			body:          `{"age": 30, "pregnancy_duration_months": 6, "weight_kg": 70, "height_cm": 165, "activity_level": "intense", "diet_type": "omnivore", "medical_history": "aucun", "current_symptom": "aucun"}`,
			expectedCode:  http.StatusBadRequest,
			expectedField: "error",
			expectedValue: "activity_level",
		},
		{
			name:          "not json",
			body:          `age=30`,
			expectedCode:  http.StatusBadRequest,
			expectedField: "error",
			expectedValue: "JSON",
		},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			t.Parallel()

			rec := do(t, router, http.MethodPost, "/api/predict", tc.body)
			if rec.Code != tc.expectedCode {
				t.Fatalf("status = %d, expected %d (body %s)", rec.Code, tc.expectedCode, rec.Body)
			}
			got, _ := decode(t, rec)[tc.expectedField].(string)
			if !strings.Contains(got, tc.expectedValue) {
				t.Errorf("%s = %q, expected to contain %q", tc.expectedField, got, tc.expectedValue)
			}
		})
	}
}

func TestSessionEndpoints(t *testing.T) {
	t.Parallel()

	router := newRouter(t)
	for _, msg := range []string{"Bonjour", "J'ai 31 ans"} {
		if rec := do(t, router, http.MethodPost, "/chatbot/api", `{"message": "`+msg+`", "session_id": "s-42"}`); rec.Code != http.StatusOK {
			t.Fatalf("chat status = %d", rec.Code)
		}
	}

	rec := do(t, router, http.MethodGet, "/api/sessions/s-42/summary", "")
	if summary, _ := decode(t, rec)["summary"].(string); !strings.Contains(summary, "Nombre de messages : 2") {
		t.Errorf("summary = %q", summary)
	}

	rec = do(t, router, http.MethodGet, "/api/sessions/s-42/history?limit=1", "")
	var turns []database.ConversationTurn
	if err := json.Unmarshal(rec.Body.Bytes(), &turns); err != nil {
		t.Fatalf("history body %q: %v", rec.Body, err)
	}
	if len(turns) != 1 || turns[0].UserMessage != "J'ai 31 ans" {
		t.Errorf("history = %+v", turns)
	}

	if rec := do(t, router, http.MethodGet, "/api/sessions/s-42/history?limit=abc", ""); rec.Code != http.StatusBadRequest {
		t.Errorf("invalid limit status = %d", rec.Code)
	}

	if rec := do(t, router, http.MethodDelete, "/api/sessions/s-42", ""); rec.Code != http.StatusNoContent {
		t.Fatalf("delete status = %d", rec.Code)
	}

	rec = do(t, router, http.MethodGet, "/api/sessions/s-42/summary", "")
	if summary, _ := decode(t, rec)["summary"].(string); summary != chatbot.EmptySummary {
		t.Errorf("summary after reset = %q", summary)
	}
}

func TestInfo(t *testing.T) {
	t.Parallel()

	router := newRouter(t)

	rec := do(t, router, http.MethodGet, "/api/info/nutrition", "")
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d", rec.Code)
	}
	if info, _ := decode(t, rec)["info"].(string); !strings.Contains(info, "Acide folique") {
		t.Errorf("info = %q", info)
	}

	if rec := do(t, router, http.MethodGet, "/api/info/astrologie", ""); rec.Code != http.StatusNotFound {
		t.Errorf("unknown category status = %d", rec.Code)
	}
}

func TestCORS(t *testing.T) {
	t.Parallel()

	router := newRouter(t)

	req := httptest.NewRequest(http.MethodOptions, "/chatbot/api", nil)
	req.Header.Set("Origin", "https://app.example.com")
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	if rec.Code != http.StatusNoContent {
		t.Errorf("preflight status = %d", rec.Code)
	}
	if got := rec.Header().Get("Access-Control-Allow-Origin"); got != "https://app.example.com" {
		t.Errorf("Allow-Origin = %q", got)
	}

	req = httptest.NewRequest(http.MethodGet, "/health", nil)
	req.Header.Set("Origin", "https://evil.example.com")
	rec = httptest.NewRecorder()
	router.ServeHTTP(rec, req)
	if got := rec.Header().Get("Access-Control-Allow-Origin"); got != "" {
		t.Errorf("Allow-Origin for unknown origin = %q", got)
	}
}

func TestWebSocket(t *testing.T) {
	t.Parallel()

	srv := httptest.NewServer(newRouter(t))
	t.Cleanup(srv.Close)

	url := "ws" + strings.TrimPrefix(srv.URL, "http") + "/chatbot/ws?session_id=ws-1"
	conn, resp, err := websocket.DefaultDialer.Dial(url, nil)
	if err != nil {
		t.Fatalf("Dial() error = %v", err)
	}
	defer resp.Body.Close()
	defer conn.Close()

	exchange := func(message string) map[string]any {
		t.Helper()
		if err := conn.WriteJSON(map[string]string{"message": message}); err != nil {
			t.Fatalf("WriteJSON() error = %v", err)
		}
		var out map[string]any
		if err := conn.ReadJSON(&out); err != nil {
			t.Fatalf("ReadJSON() error = %v", err)
		}
		return out
	}

	first := exchange("Bonjour")
	if first["session_id"] != "ws-1" || first["intent"] != "greeting" {
		t.Errorf("first reply = %v", first)
	}

	empty := exchange("")
	if empty["response"] != assistant.EmptyMessageResponse {
		t.Errorf("empty reply = %v", empty)
	}

	second := exchange("J'ai 29 ans")
	profile, _ := second["user_profile"].(map[string]any)
	if profile["age"] != float64(29) {
		t.Errorf("profile = %v", second["user_profile"])
	}
}
