// Package assistant is the entry point shared by the Telegram, HTTP and
// websocket transports. It routes messages through the dialogue engine,
// runs the risk prediction once a profile is complete and records turns and
// evaluations in the store.
package assistant

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/edgard/grossessebot/internal/chatbot"
	"github.com/edgard/grossessebot/internal/database"
	"github.com/edgard/grossessebot/internal/risk"
)

// ErrEmptyMessage is returned for blank messages.
var ErrEmptyMessage = errors.New("empty message")

// EmptyMessageResponse is the clarifying reply sent for blank messages.
const EmptyMessageResponse = "Je n'ai pas reçu votre message. Pouvez-vous réessayer ?"

const (
	evaluationFmt = "\n\n🤖 **Évaluation de votre profil de risque :**\n" +
		"Niveau de risque : **%s**\n" +
		"Conseil : %s\n\n" +
		"ℹ️ Cette évaluation est indicative. Consultez toujours votre médecin pour un suivi personnalisé."
	evaluationErrorFmt = "\n\n⚠️ Erreur lors de l'évaluation : %v"

	defaultOperationTimeout = 15 * time.Second
	defaultHistoryLimit     = 20
)

// Result is the reply to one message along with the session it belongs to.
type Result struct {
	chatbot.Reply
	SessionID  string           `json:"session_id"`
	Assessment *risk.Assessment `json:"risk_assessment,omitempty"`
}

// Deps holds the collaborators of a Service.
type Deps struct {
	Engine    *chatbot.Engine
	Registry  *chatbot.Registry
	Predictor *risk.Predictor
	Store     database.Store
	Logger    *slog.Logger

	// OperationTimeout bounds each store call. Zero means 15s.
	OperationTimeout time.Duration
	// HistoryLimit is the number of turns History returns when the caller
	// asks for none in particular. Zero means 20.
	HistoryLimit int
}

// Service answers messages for any number of concurrent sessions.
type Service struct {
	engine    *chatbot.Engine
	registry  *chatbot.Registry
	predictor *risk.Predictor
	store     database.Store
	logger    *slog.Logger
	opTimeout time.Duration
	histLimit int
	newID     func() string
}

// New creates a Service.
func New(deps Deps) *Service {
	logger := deps.Logger
	if logger == nil {
		logger = slog.Default()
	}
	timeout := deps.OperationTimeout
	if timeout <= 0 {
		timeout = defaultOperationTimeout
	}
	histLimit := deps.HistoryLimit
	if histLimit <= 0 {
		histLimit = defaultHistoryLimit
	}
	return &Service{
		engine:    deps.Engine,
		registry:  deps.Registry,
		predictor: deps.Predictor,
		store:     deps.Store,
		logger:    logger.With("component", "assistant"),
		opTimeout: timeout,
		histLimit: histLimit,
		newID:     uuid.NewString,
	}
}

// HandleMessage processes text in the given session. An empty sessionID
// starts a new session with a generated id. When the profile becomes
// complete the risk prediction runs and its outcome is appended to the
// response; a failed prediction is reported in the response, not as an error.
func (s *Service) HandleMessage(ctx context.Context, sessionID, text string) (Result, error) {
	if strings.TrimSpace(text) == "" {
		return Result{}, ErrEmptyMessage
	}
	if sessionID == "" {
		sessionID = s.newID()
	}

	reply := s.engine.Process(s.registry.Get(sessionID), text)
	result := Result{Reply: reply, SessionID: sessionID}

	if reply.ReadyForPrediction {
		req := risk.FromProfile(reply.PredictionInput)
		assessment, err := s.assess(ctx, sessionID, req)
		if err != nil {
			s.logger.WarnContext(ctx, "Risk evaluation failed", "session_id", sessionID, "error", err)
			result.Response += fmt.Sprintf(evaluationErrorFmt, err)
		} else {
			result.Assessment = &assessment
			result.Response += fmt.Sprintf(evaluationFmt, assessment.Label.French(), assessment.Advice)
		}
	}

	s.saveTurn(ctx, sessionID, text, result)
	return result, nil
}

// Predict validates req, runs the classifier and records the evaluation.
func (s *Service) Predict(ctx context.Context, req risk.Request) (risk.Assessment, error) {
	if err := req.Validate(); err != nil {
		return risk.Assessment{}, err
	}
	return s.assess(ctx, "", req)
}

func (s *Service) assess(ctx context.Context, sessionID string, req risk.Request) (risk.Assessment, error) {
	assessment, err := s.predictor.Assess(ctx, req)
	if err != nil {
		return risk.Assessment{}, err
	}

	eval := &database.RiskEvaluation{
		EvaluationID:   s.newID(),
		SessionID:      sessionID,
		Age:            req.Age,
		DurationMonths: req.DurationMonths,
		WeightKg:       req.WeightKg,
		HeightCm:       req.HeightCm,
		Activity:       req.Activity,
		Diet:           req.Diet,
		History:        req.MedicalHistory,
		Symptom:        req.CurrentSymptom,
		RiskLabel:      string(assessment.Label),
	}

	opCtx, cancel := context.WithTimeout(ctx, s.opTimeout)
	defer cancel()
	if err := s.store.SaveEvaluation(opCtx, eval); err != nil {
		s.logger.ErrorContext(ctx, "Failed to record risk evaluation", "session_id", sessionID, "error", err)
	}

	return assessment, nil
}

func (s *Service) saveTurn(ctx context.Context, sessionID, text string, result Result) {
	opCtx, cancel := context.WithTimeout(ctx, s.opTimeout)
	defer cancel()

	turn := &database.ConversationTurn{
		SessionID:   sessionID,
		UserMessage: text,
		Intent:      string(result.Intent),
		Sentiment:   string(result.Sentiment),
		IsEmergency: result.IsEmergency,
		Response:    result.Response,
	}
	if err := s.store.SaveTurn(opCtx, turn); err != nil {
		s.logger.ErrorContext(ctx, "Failed to record conversation turn", "session_id", sessionID, "error", err)
	}
}

// Reset clears the session and deletes its stored turns.
func (s *Service) Reset(ctx context.Context, sessionID string) error {
	s.registry.Reset(sessionID)

	opCtx, cancel := context.WithTimeout(ctx, s.opTimeout)
	defer cancel()
	if _, err := s.store.DeleteSessionTurns(opCtx, sessionID); err != nil {
		return fmt.Errorf("failed to reset session %s: %w", sessionID, err)
	}

	s.logger.InfoContext(ctx, "Session reset", "session_id", sessionID)
	return nil
}

// Summary describes the live session, or returns the empty summary when the
// session is unknown.
func (s *Service) Summary(sessionID string) string {
	session, ok := s.registry.Lookup(sessionID)
	if !ok {
		return chatbot.EmptySummary
	}
	return session.Summary()
}

// History returns the latest stored turns of a session, oldest first. A
// non-positive limit uses the configured default.
func (s *Service) History(ctx context.Context, sessionID string, limit int) ([]database.ConversationTurn, error) {
	if limit <= 0 {
		limit = s.histLimit
	}
	opCtx, cancel := context.WithTimeout(ctx, s.opTimeout)
	defer cancel()
	return s.store.ListSessionTurns(opCtx, sessionID, limit)
}

// HealthTip returns a random health tip.
func (s *Service) HealthTip() string {
	return s.engine.HealthTip()
}

// Stats counts the recorded evaluations per risk label.
func (s *Service) Stats(ctx context.Context) (map[string]int, error) {
	opCtx, cancel := context.WithTimeout(ctx, s.opTimeout)
	defer cancel()
	return s.store.CountEvaluationsByLabel(opCtx)
}

// EvictIdle drops sessions idle for longer than ttl and returns how many.
func (s *Service) EvictIdle(ttl time.Duration) int {
	return s.registry.Evict(ttl)
}
