// Package risk adapts a user profile to the pre-trained pregnancy risk
// classifier: categorical encoding, invocation, label normalisation and
// advice lookup. It also holds the classifier implementations: a decision
// tree artifact, its remote loader and the random fallback.
package risk

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"

	"github.com/go-playground/validator/v10"
)

// ErrModelUnavailable is returned when the classifier artifact cannot be
// fetched or decoded.
var ErrModelUnavailable = errors.New("risk model unavailable")

// NumFeatures is the length of the classifier input vector.
const NumFeatures = 8

// Vector is the classifier input: age, pregnancy months, weight, height,
// then the activity, diet, history and symptom codes.
type Vector [NumFeatures]float64

// Classifier scores a feature vector. The returned label is the raw
// classifier output.
type Classifier interface {
	Predict(ctx context.Context, features Vector) (string, error)
}

// Label is the normalised three-level risk label.
type Label string

const (
	LabelNormal   Label = "normal"
	LabelModerate Label = "moderate"
	LabelHigh     Label = "high"
)

// Labels lists the known labels from lowest to highest risk.
var Labels = []Label{LabelNormal, LabelModerate, LabelHigh}

var labelAliases = map[string]Label{
	"normal":   LabelNormal,
	"modéré":   LabelModerate,
	"modere":   LabelModerate,
	"moderate": LabelModerate,
	"élevé":    LabelHigh,
	"eleve":    LabelHigh,
	"high":     LabelHigh,
}

var labelNames = map[Label]string{
	LabelNormal:   "normal",
	LabelModerate: "modéré",
	LabelHigh:     "élevé",
}

var labelAdvice = map[Label]string{
	LabelNormal:   "Votre grossesse est normale. Continuez une bonne alimentation et restez hydratée.",
	LabelModerate: "Votre grossesse est à risque modéré. Consultez un médecin deux fois par mois.",
	LabelHigh:     "Votre grossesse est à risque élevé. Suivi médical renforcé requis.",
}

// DefaultAdvice answers labels outside the known set.
const DefaultAdvice = "Aucun conseil disponible."

// ParseLabel normalises a raw classifier label. Unknown labels are returned
// unchanged with ok false.
func ParseLabel(raw string) (Label, bool) {
	l, ok := labelAliases[strings.ToLower(strings.TrimSpace(raw))]
	if !ok {
		return Label(raw), false
	}
	return l, true
}

// French returns the label as shown to users.
func (l Label) French() string {
	if name, ok := labelNames[l]; ok {
		return name
	}
	return string(l)
}

// Advice returns the advice attached to l, or DefaultAdvice.
func (l Label) Advice() string {
	if a, ok := labelAdvice[l]; ok {
		return a
	}
	return DefaultAdvice
}

var validate = validator.New(validator.WithRequiredStructEnabled())

// Request is the classifier input in user terms. Categorical fields accept
// the French table keys or the English names, case-insensitively.
type Request struct {
	Age            float64 `json:"age" validate:"gt=0,lte=70"`
	DurationMonths float64 `json:"pregnancy_duration_months" validate:"gte=0,lte=10"`
	WeightKg       float64 `json:"weight_kg" validate:"gt=0,lte=300"`
	HeightCm       float64 `json:"height_cm" validate:"gt=0,lte=250"`
	Activity       string  `json:"activity_level" validate:"required"`
	Diet           string  `json:"diet_type" validate:"required"`
	MedicalHistory string  `json:"medical_history" validate:"required"`
	CurrentSymptom string  `json:"current_symptom" validate:"required"`
}

// Validate checks the numeric ranges and that every categorical field is set.
// It does not check categorical values; Encode does.
func (r Request) Validate() error {
	return validate.Struct(r)
}

// Encode builds the classifier vector. The first categorical value without
// an encoding yields an InvalidCategoryError.
func (r Request) Encode() (Vector, error) {
	activity, err := ParseActivity(r.Activity)
	if err != nil {
		return Vector{}, err
	}
	diet, err := ParseDiet(r.Diet)
	if err != nil {
		return Vector{}, err
	}
	history, err := ParseMedicalHistory(r.MedicalHistory)
	if err != nil {
		return Vector{}, err
	}
	symptom, err := ParseSymptom(r.CurrentSymptom)
	if err != nil {
		return Vector{}, err
	}

	return Vector{
		r.Age,
		r.DurationMonths,
		r.WeightKg,
		r.HeightCm,
		float64(activity),
		float64(diet),
		float64(history),
		float64(symptom),
	}, nil
}

// Assessment is the outcome of one prediction.
type Assessment struct {
	Label    Label  `json:"risk_label"`
	RawLabel string `json:"raw_label"`
	Advice   string `json:"advice"`
	Features Vector `json:"-"`
}

// Predictor encodes requests and consults a Classifier.
type Predictor struct {
	classifier Classifier
	logger     *slog.Logger
}

// NewPredictor returns a Predictor over c.
func NewPredictor(c Classifier, logger *slog.Logger) *Predictor {
	if logger == nil {
		logger = slog.Default()
	}
	return &Predictor{classifier: c, logger: logger.With("component", "risk_predictor")}
}

// Assess encodes req, runs the classifier and attaches the advice.
func (p *Predictor) Assess(ctx context.Context, req Request) (Assessment, error) {
	features, err := req.Encode()
	if err != nil {
		return Assessment{}, err
	}

	raw, err := p.classifier.Predict(ctx, features)
	if err != nil {
		return Assessment{}, fmt.Errorf("failed to predict risk: %w", err)
	}

	label, ok := ParseLabel(raw)
	if !ok {
		p.logger.WarnContext(ctx, "Classifier returned an unknown label", "label", raw)
	}

	return Assessment{
		Label:    label,
		RawLabel: raw,
		Advice:   label.Advice(),
		Features: features,
	}, nil
}
