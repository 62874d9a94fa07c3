package risk

import (
	"context"
	"errors"
	"log/slog"
	"math/rand/v2"
)

// randomLabels are the raw labels the random classifier draws from.
var randomLabels = []string{"normal", "modéré", "élevé"}

// RandomClassifier answers a uniformly random label. It stands in for the
// real model when the artifact cannot be loaded.
type RandomClassifier struct {
	intN func(n int) int
}

// NewRandomClassifier returns a RandomClassifier drawing indices from intN.
// A nil intN uses math/rand/v2.
func NewRandomClassifier(intN func(n int) int) *RandomClassifier {
	if intN == nil {
		intN = rand.IntN
	}
	return &RandomClassifier{intN: intN}
}

// Predict ignores the features.
func (r *RandomClassifier) Predict(context.Context, Vector) (string, error) {
	return randomLabels[r.intN(len(randomLabels))], nil
}

// FallbackClassifier decorates a primary classifier: when the primary
// reports ErrModelUnavailable the fallback answers instead. Other errors are
// returned unchanged.
type FallbackClassifier struct {
	primary  Classifier
	fallback Classifier
	logger   *slog.Logger
}

// NewFallbackClassifier wraps primary. A nil fallback uses a RandomClassifier.
func NewFallbackClassifier(primary, fallback Classifier, logger *slog.Logger) *FallbackClassifier {
	if logger == nil {
		logger = slog.Default()
	}
	if fallback == nil {
		fallback = NewRandomClassifier(nil)
	}
	return &FallbackClassifier{
		primary:  primary,
		fallback: fallback,
		logger:   logger.With("component", "risk_fallback"),
	}
}

// Predict consults the primary classifier, then the fallback when the model
// is unavailable.
func (f *FallbackClassifier) Predict(ctx context.Context, features Vector) (string, error) {
	label, err := f.primary.Predict(ctx, features)
	if err == nil {
		return label, nil
	}
	if !errors.Is(err, ErrModelUnavailable) {
		return "", err
	}

	f.logger.WarnContext(ctx, "Risk model unavailable, answering with the fallback classifier", "error", err)
	return f.fallback.Predict(ctx, features)
}
