package ml

import (
	"errors"
	"fmt"
	"math"
)

// LogisticRegression is a fitted binary logistic model.
type LogisticRegression struct {
	Coef      []float64 `json:"coef"`
	Intercept float64   `json:"intercept"`
}

func (lr *LogisticRegression) Predict(features []float64) (int, error) {
	score, err := decision(lr.Coef, lr.Intercept, features)
	if err != nil {
		return 0, err
	}
	if score > 0 {
		return 1, nil
	}
	return 0, nil
}

func (lr *LogisticRegression) PredictProba(features []float64) ([]float64, error) {
	score, err := decision(lr.Coef, lr.Intercept, features)
	if err != nil {
		return nil, err
	}
	p := sigmoid(score)
	return []float64{1 - p, p}, nil
}

// LinearSVM is a fitted linear support vector classifier. ProbA and ProbB
// are the Platt scaling parameters; without them the model has no
// probabilities.
type LinearSVM struct {
	Coef      []float64 `json:"coef"`
	Intercept float64   `json:"intercept"`
	ProbA     *float64  `json:"prob_a,omitempty"`
	ProbB     *float64  `json:"prob_b,omitempty"`
}

func (svm *LinearSVM) Predict(features []float64) (int, error) {
	score, err := decision(svm.Coef, svm.Intercept, features)
	if err != nil {
		return 0, err
	}
	if score > 0 {
		return 1, nil
	}
	return 0, nil
}

func (svm *LinearSVM) PredictProba(features []float64) ([]float64, error) {
	if svm.ProbA == nil || svm.ProbB == nil {
		return nil, ErrNoProbability
	}
	score, err := decision(svm.Coef, svm.Intercept, features)
	if err != nil {
		return nil, err
	}
	// libsvm's Platt form: P(y=1|f) = 1 / (1 + exp(A*f + B))
	p := 1 / (1 + math.Exp(*svm.ProbA*score+*svm.ProbB))
	return []float64{1 - p, p}, nil
}

func validateLinear(coef []float64, featureCount int) error {
	if len(coef) != featureCount {
		return fmt.Errorf("coef has %d values, want %d", len(coef), featureCount)
	}
	for i, c := range coef {
		if math.IsNaN(c) || math.IsInf(c, 0) {
			return fmt.Errorf("coef[%d] is not finite", i)
		}
	}
	return nil
}

func decision(coef []float64, intercept float64, features []float64) (float64, error) {
	if len(coef) != len(features) {
		return 0, errors.New("features and coefficients size mismatch")
	}
	score := intercept
	for i, c := range coef {
		score += c * features[i]
	}
	return score, nil
}

func sigmoid(x float64) float64 {
	if x >= 0 {
		return 1 / (1 + math.Exp(-x))
	}
	e := math.Exp(x)
	return e / (1 + e)
}
