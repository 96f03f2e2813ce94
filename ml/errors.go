package ml

import (
	"errors"
	"fmt"
)

var (
	ErrUnknownModel       = errors.New("model is not configured")
	ErrModelUnavailable   = errors.New("model is not available")
	ErrEncoderUnavailable = errors.New("label encoder is not available")
	ErrNoProbability      = errors.New("estimator does not expose class probabilities")
	ErrUnsupportedKind    = errors.New("unsupported model type")
	ErrClassMismatch      = errors.New("model classes are not known to the label encoder")
)

// LoadError records why an artifact could not be loaded at startup.
type LoadError struct {
	Name string
	Path string
	Err  error
}

func (e *LoadError) Error() string {
	return fmt.Sprintf("load %s from %s: %v", e.Name, e.Path, e.Err)
}

func (e *LoadError) Unwrap() error { return e.Err }

// UnavailableError is returned for a request routed to a model whose model
// or encoder slot failed to load.
type UnavailableError struct {
	Model     string
	Component string
	Cause     error
}

func (e *UnavailableError) Error() string {
	if e.Component == componentEncoder {
		return fmt.Sprintf("%s model or encoder is not available: label encoder failed to load: %v", e.Model, e.Cause)
	}
	return fmt.Sprintf("%s model or encoder is not available: model failed to load: %v", e.Model, e.Cause)
}

func (e *UnavailableError) Is(target error) bool {
	switch target {
	case ErrModelUnavailable:
		return e.Component == componentModel
	case ErrEncoderUnavailable:
		return e.Component == componentEncoder
	}
	return false
}

func (e *UnavailableError) Unwrap() error { return e.Cause }

// InferenceError wraps any failure while predicting or decoding.
type InferenceError struct {
	Model string
	Err   error
}

func (e *InferenceError) Error() string {
	return fmt.Sprintf("Prediction error: %v", e.Err)
}

func (e *InferenceError) Unwrap() error { return e.Err }

const (
	componentModel   = "model"
	componentEncoder = "encoder"
)
