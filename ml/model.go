package ml

import "sepsisguard/schema"

// Estimator is the fitted final step of a pipeline. Predict returns an index
// into the pipeline's classes; PredictProba returns one probability per
// class or ErrNoProbability.
type Estimator interface {
	Predict(features []float64) (int, error)
	PredictProba(features []float64) ([]float64, error)
}

// Classifier is what the service dispatches requests to.
type Classifier interface {
	Classify(fv schema.FeatureVector) (Output, error)
}

// Output is the raw, not yet decoded, result of a Classifier. Class is the
// encoded class value that the label encoder maps back to a label.
type Output struct {
	Class       int
	Probability []float64
}
