package ml

import (
	"encoding/json"
	"errors"
	"fmt"
	"math"
	"os"

	"sepsisguard/schema"
)

const (
	KindLogisticRegression = "logistic_regression"
	KindDecisionTree       = "decision_tree"
	KindGradientBoosting   = "gradient_boosting"
	KindLinearSVM          = "linear_svm"
)

// StandardScaler centres and scales each feature column.
type StandardScaler struct {
	Mean  []float64 `json:"mean"`
	Scale []float64 `json:"scale"`
}

func (s *StandardScaler) Transform(features []float64) []float64 {
	out := make([]float64, len(features))
	for i, v := range features {
		scale := s.Scale[i]
		if scale == 0 {
			scale = 1
		}
		out[i] = (v - s.Mean[i]) / scale
	}
	return out
}

// Pipeline is a loaded model artifact: column selection, optional scaling and
// a fitted estimator.
type Pipeline struct {
	name         string
	kind         string
	featureNames []string
	classes      []int
	scaler       *StandardScaler
	estimator    Estimator
}

type pipelineArtifact struct {
	Name         string          `json:"name"`
	Kind         string          `json:"kind"`
	FeatureNames []string        `json:"feature_names"`
	Classes      []int           `json:"classes"`
	Scaler       *StandardScaler `json:"scaler,omitempty"`
	Estimator    json.RawMessage `json:"estimator"`
}

// LoadPipeline reads and validates a pipeline artifact.
func LoadPipeline(path string) (*Pipeline, error) {
	payload, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	return ParsePipeline(payload)
}

func ParsePipeline(payload []byte) (*Pipeline, error) {
	var art pipelineArtifact
	if err := json.Unmarshal(payload, &art); err != nil {
		return nil, fmt.Errorf("decode artifact: %w", err)
	}

	if len(art.FeatureNames) == 0 {
		return nil, errors.New("artifact declares no feature names")
	}
	seen := make(map[string]bool, len(art.FeatureNames))
	for _, name := range art.FeatureNames {
		if _, ok := schema.LookupField(name); !ok {
			return nil, fmt.Errorf("artifact expects unknown feature %q", name)
		}
		if seen[name] {
			return nil, fmt.Errorf("artifact lists feature %q twice", name)
		}
		seen[name] = true
	}
	if len(art.Classes) != 2 {
		return nil, fmt.Errorf("artifact has %d classes, want a binary classifier", len(art.Classes))
	}
	if art.Classes[0] < 0 {
		return nil, fmt.Errorf("artifact has negative class %d", art.Classes[0])
	}
	for i := 1; i < len(art.Classes); i++ {
		if art.Classes[i] <= art.Classes[i-1] {
			return nil, fmt.Errorf("artifact classes %v are not distinct and ascending", art.Classes)
		}
	}
	if art.Scaler != nil {
		if len(art.Scaler.Mean) != len(art.FeatureNames) || len(art.Scaler.Scale) != len(art.FeatureNames) {
			return nil, errors.New("scaler size does not match feature names")
		}
	}
	if len(art.Estimator) == 0 {
		return nil, errors.New("artifact has no estimator")
	}

	estimator, err := decodeEstimator(art.Kind, art.Estimator, len(art.FeatureNames), len(art.Classes))
	if err != nil {
		return nil, fmt.Errorf("%s estimator: %w", art.Kind, err)
	}

	return &Pipeline{
		name:         art.Name,
		kind:         art.Kind,
		featureNames: append([]string(nil), art.FeatureNames...),
		classes:      append([]int(nil), art.Classes...),
		scaler:       art.Scaler,
		estimator:    estimator,
	}, nil
}

func decodeEstimator(kind string, raw json.RawMessage, featureCount, classCount int) (Estimator, error) {
	switch kind {
	case KindLogisticRegression:
		model := &LogisticRegression{}
		if err := json.Unmarshal(raw, model); err != nil {
			return nil, err
		}
		return model, validateLinear(model.Coef, featureCount)
	case KindLinearSVM:
		model := &LinearSVM{}
		if err := json.Unmarshal(raw, model); err != nil {
			return nil, err
		}
		return model, validateLinear(model.Coef, featureCount)
	case KindDecisionTree:
		model := &DecisionTree{}
		if err := json.Unmarshal(raw, model); err != nil {
			return nil, err
		}
		return model, model.validate(featureCount, classCount)
	case KindGradientBoosting:
		model := &GradientBoosting{}
		if err := json.Unmarshal(raw, model); err != nil {
			return nil, err
		}
		return model, model.validate(featureCount)
	default:
		return nil, fmt.Errorf("%w: %q", ErrUnsupportedKind, kind)
	}
}

func (p *Pipeline) Name() string { return p.name }
func (p *Pipeline) Kind() string { return p.kind }

// Classes returns the encoded class values in probability order.
func (p *Pipeline) Classes() []int { return append([]int(nil), p.classes...) }

// Classify builds the row in the artifact's column order and runs the
// estimator.
func (p *Pipeline) Classify(fv schema.FeatureVector) (Output, error) {
	row := make([]float64, len(p.featureNames))
	for i, name := range p.featureNames {
		v, ok := fv.Value(name)
		if !ok {
			return Output{}, fmt.Errorf("feature %q not present", name)
		}
		row[i] = v
	}
	if p.scaler != nil {
		row = p.scaler.Transform(row)
	}

	idx, err := p.estimator.Predict(row)
	if err != nil {
		return Output{}, err
	}
	if idx < 0 || idx >= len(p.classes) {
		return Output{}, fmt.Errorf("estimator returned class index %d", idx)
	}
	out := Output{Class: p.classes[idx]}

	proba, err := p.estimator.PredictProba(row)
	switch {
	case errors.Is(err, ErrNoProbability):
		return out, nil
	case err != nil:
		return Output{}, err
	}
	if len(proba) != len(p.classes) {
		return Output{}, fmt.Errorf("estimator returned %d probabilities for %d classes", len(proba), len(p.classes))
	}
	for i, v := range proba {
		if math.IsNaN(v) || v < 0 {
			return Output{}, fmt.Errorf("invalid probability %v for class %d", v, p.classes[i])
		}
	}
	out.Probability = proba
	return out, nil
}
