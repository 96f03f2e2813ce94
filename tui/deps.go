package tui

import (
	"context"
	"time"

	"go.uber.org/zap"

	"sepsisguard/schema"
)

// Predictor sends one feature vector to the named model.
type Predictor interface {
	Predict(ctx context.Context, model string, fv schema.FeatureVector) (schema.PredictionResponse, error)
}

// ModelLister reports the models the service can serve, falling back to
// the given list.
type ModelLister interface {
	AvailableModels(ctx context.Context, fallback []string) []string
}

type Deps struct {
	Predictor Predictor
	Lister    ModelLister

	Models       []string
	DefaultModel string
	Timeout      time.Duration

	Logger *zap.Logger
}
