package api

import (
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"reflect"
	"strconv"
	"strings"

	"github.com/go-chi/chi/v5"
	"github.com/go-playground/validator/v10"
	"github.com/gorilla/websocket"

	"github.com/edgard/grossessebot/internal/assistant"
	"github.com/edgard/grossessebot/internal/knowledge"
	"github.com/edgard/grossessebot/internal/risk"
)

// Fixed French replies of the HTTP surface.
const (
	malformedMessageResponse = "Format de message invalide. Envoyez un JSON avec une clé 'message'."
	technicalErrorResponse   = "Je rencontre une difficulté technique. Pouvez-vous reformuler votre question ?"
	missingFieldFmt          = "Champ manquant : %s"
	invalidFieldFmt          = "Valeur invalide pour %s"
)

const maxBodyBytes = 64 << 10

type handler struct {
	svc      *assistant.Service
	logger   *slog.Logger
	upgrader websocket.Upgrader
}

func newHandler(svc *assistant.Service, origins []string, log *slog.Logger) *handler {
	return &handler{
		svc:    svc,
		logger: log,
		upgrader: websocket.Upgrader{
			CheckOrigin: func(r *http.Request) bool {
				origin := r.Header.Get("Origin")
				return origin == "" || originAllowed(origins, origin)
			},
		},
	}
}

// chatRequest is the body of a chat message. Message is a pointer so that
// a missing key can be told apart from an empty string.
type chatRequest struct {
	Message   *string `json:"message"`
	SessionID string  `json:"session_id"`
}

type errorResponse struct {
	Response string `json:"response,omitempty"`
	Error    string `json:"error"`
}

type predictResponse struct {
	RiskProfile string     `json:"profil_risque"`
	Advice      string     `json:"conseil"`
	Label       risk.Label `json:"risk_label"`
}

type healthResponse struct {
	Status  string `json:"status"`
	Service string `json:"service"`
	Version string `json:"version"`
}

type infoResponse struct {
	Category knowledge.Category `json:"category"`
	Info     string             `json:"info"`
}

type summaryResponse struct {
	SessionID string `json:"session_id"`
	Summary   string `json:"summary"`
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		slog.Error("Failed to encode JSON response", "error", err)
	}
}

func (h *handler) health(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, healthResponse{Status: "healthy", Service: ServiceName, Version: ServiceVersion})
}

func (h *handler) chat(w http.ResponseWriter, r *http.Request) {
	var req chatRequest
	if err := json.NewDecoder(http.MaxBytesReader(w, r.Body, maxBodyBytes)).Decode(&req); err != nil || req.Message == nil {
		writeJSON(w, http.StatusBadRequest, errorResponse{Response: malformedMessageResponse, Error: "malformed_request"})
		return
	}

	result, err := h.svc.HandleMessage(r.Context(), req.SessionID, *req.Message)
	switch {
	case errors.Is(err, assistant.ErrEmptyMessage):
		writeJSON(w, http.StatusBadRequest, errorResponse{Response: assistant.EmptyMessageResponse, Error: "empty_message"})
		return
	case err != nil:
		h.logger.ErrorContext(r.Context(), "Failed to handle chat message", "error", err)
		writeJSON(w, http.StatusInternalServerError, errorResponse{Response: technicalErrorResponse, Error: err.Error()})
		return
	}

	writeJSON(w, http.StatusOK, result)
}

func (h *handler) predict(w http.ResponseWriter, r *http.Request) {
	var req risk.Request
	if err := json.NewDecoder(http.MaxBytesReader(w, r.Body, maxBodyBytes)).Decode(&req); err != nil {
		writeJSON(w, http.StatusBadRequest, errorResponse{Error: "corps JSON invalide"})
		return
	}

	assessment, err := h.svc.Predict(r.Context(), req)
	if err != nil {
		var verrs validator.ValidationErrors
		switch {
		case errors.As(err, &verrs):
			writeJSON(w, http.StatusBadRequest, errorResponse{Error: describeValidation(verrs[0])})
		case errors.Is(err, risk.ErrInvalidCategory):
			writeJSON(w, http.StatusBadRequest, errorResponse{Error: err.Error()})
		default:
			h.logger.ErrorContext(r.Context(), "Risk prediction failed", "error", err)
			writeJSON(w, http.StatusInternalServerError, errorResponse{Error: err.Error()})
		}
		return
	}

	writeJSON(w, http.StatusOK, predictResponse{
		RiskProfile: assessment.Label.French(),
		Advice:      assessment.Advice,
		Label:       assessment.Label,
	})
}

// describeValidation reports a field error with the field's JSON name.
// Zero values count as missing.
func describeValidation(fe validator.FieldError) string {
	name := fe.Field()
	if f, ok := reflect.TypeOf(risk.Request{}).FieldByName(fe.StructField()); ok {
		if tag, _, _ := strings.Cut(f.Tag.Get("json"), ","); tag != "" {
			name = tag
		}
	}
	if fe.Value() == nil || reflect.ValueOf(fe.Value()).IsZero() {
		return fmt.Sprintf(missingFieldFmt, name)
	}
	return fmt.Sprintf(invalidFieldFmt, name)
}

func (h *handler) summary(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	writeJSON(w, http.StatusOK, summaryResponse{SessionID: id, Summary: h.svc.Summary(id)})
}

func (h *handler) history(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")

	limit := 0
	if raw := r.URL.Query().Get("limit"); raw != "" {
		n, err := strconv.Atoi(raw)
		if err != nil || n < 0 {
			writeJSON(w, http.StatusBadRequest, errorResponse{Error: "paramètre limit invalide"})
			return
		}
		limit = n
	}

	turns, err := h.svc.History(r.Context(), id, limit)
	if err != nil {
		h.logger.ErrorContext(r.Context(), "Failed to load session history", "session_id", id, "error", err)
		writeJSON(w, http.StatusInternalServerError, errorResponse{Error: err.Error()})
		return
	}
	writeJSON(w, http.StatusOK, turns)
}

func (h *handler) reset(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	if err := h.svc.Reset(r.Context(), id); err != nil {
		h.logger.ErrorContext(r.Context(), "Failed to reset session", "session_id", id, "error", err)
		writeJSON(w, http.StatusInternalServerError, errorResponse{Error: err.Error()})
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (h *handler) info(w http.ResponseWriter, r *http.Request) {
	category := knowledge.Category(chi.URLParam(r, "category"))
	text, ok := knowledge.GeneralInfo(category)
	if !ok {
		writeJSON(w, http.StatusNotFound, errorResponse{Error: fmt.Sprintf("catégorie inconnue : %s", category)})
		return
	}
	writeJSON(w, http.StatusOK, infoResponse{Category: category, Info: text})
}
