package ml

import (
	"errors"
	"fmt"
	"path/filepath"
	"sort"

	"go.uber.org/zap"

	"sepsisguard/schema"
)

// ModelSpec names one artifact to load at startup.
type ModelSpec struct {
	Name string
	File string
}

// ModelSlot holds either a loaded model or the reason it failed to load.
type ModelSlot struct {
	Name  string
	Path  string
	Kind  string
	Model Classifier
	Err   error
}

func (s *ModelSlot) Available() bool { return s.Model != nil && s.Err == nil }

// EncoderSlot holds either the shared label encoder or its load error.
type EncoderSlot struct {
	Path    string
	Encoder *LabelEncoder
	Err     error
}

func (s EncoderSlot) Available() bool { return s.Encoder != nil && s.Err == nil }

// Prediction is a decoded model answer.
type Prediction struct {
	Model       string
	Label       string
	Probability []float64
}

// Registry is the immutable set of artifacts loaded at startup.
type Registry struct {
	slots   map[string]*ModelSlot
	order   []string
	encoder EncoderSlot
}

func NewRegistry(slots []*ModelSlot, encoder EncoderSlot) *Registry {
	r := &Registry{
		slots:   make(map[string]*ModelSlot, len(slots)),
		order:   make([]string, 0, len(slots)),
		encoder: encoder,
	}
	if !encoder.Available() && encoder.Err == nil {
		r.encoder.Err = errors.New("no label encoder configured")
	}
	for _, slot := range slots {
		if slot.Model == nil && slot.Err == nil {
			slot.Err = errors.New("no model loaded")
		}
		if err := r.checkClasses(slot); err != nil {
			slot.Err = &LoadError{Name: slot.Name, Path: slot.Path, Err: err}
		}
		r.slots[slot.Name] = slot
		r.order = append(r.order, slot.Name)
	}
	return r
}

// classLister is implemented by models that know their encoded classes.
type classLister interface {
	Classes() []int
}

// checkClasses rejects a model whose classes the encoder cannot decode.
func (r *Registry) checkClasses(slot *ModelSlot) error {
	if slot.Err != nil || !r.encoder.Available() {
		return nil
	}
	lister, ok := slot.Model.(classLister)
	if !ok {
		return nil
	}
	classes := lister.Classes()
	if !r.encoder.Encoder.Covers(classes) {
		return fmt.Errorf("%w: classes %v, encoder has %d labels",
			ErrClassMismatch, classes, len(r.encoder.Encoder.Classes()))
	}
	return nil
}

// LoadRegistry loads every artifact independently. A failed load is logged
// and kept in its slot; it never aborts the others.
func LoadRegistry(dir string, specs []ModelSpec, encoderFile string, logger *zap.Logger) *Registry {
	if logger == nil {
		logger = zap.NewNop()
	}

	slots := make([]*ModelSlot, 0, len(specs))
	for _, spec := range specs {
		path := filepath.Join(dir, spec.File)
		slot := &ModelSlot{Name: spec.Name, Path: path}

		pipeline, err := LoadPipeline(path)
		if err != nil {
			slot.Err = &LoadError{Name: spec.Name, Path: path, Err: err}
			logger.Error("Error loading model",
				zap.String("model", spec.Name),
				zap.String("path", path),
				zap.Error(err),
			)
		} else {
			slot.Model = pipeline
			slot.Kind = pipeline.Kind()
			logger.Info("Model loaded successfully",
				zap.String("model", spec.Name),
				zap.String("artifact", pipeline.Name()),
				zap.String("kind", pipeline.Kind()),
				zap.String("path", path),
			)
		}
		slots = append(slots, slot)
	}

	encoderPath := filepath.Join(dir, encoderFile)
	encoder := EncoderSlot{Path: encoderPath}
	if enc, err := LoadLabelEncoder(encoderPath); err != nil {
		encoder.Err = &LoadError{Name: "label encoder", Path: encoderPath, Err: err}
		logger.Error("Error loading encoder", zap.String("path", encoderPath), zap.Error(err))
	} else {
		encoder.Encoder = enc
		logger.Info("Encoder loaded successfully",
			zap.String("path", encoderPath),
			zap.Strings("classes", enc.Classes()),
		)
	}

	registry := NewRegistry(slots, encoder)
	for _, slot := range slots {
		if errors.Is(slot.Err, ErrClassMismatch) {
			logger.Error("Error loading model",
				zap.String("model", slot.Name),
				zap.String("path", slot.Path),
				zap.Error(slot.Err),
			)
		}
	}
	return registry
}

// Names returns the configured model names in configuration order.
func (r *Registry) Names() []string {
	return append([]string(nil), r.order...)
}

func (r *Registry) Slot(name string) (*ModelSlot, bool) {
	slot, ok := r.slots[name]
	return slot, ok
}

func (r *Registry) Encoder() EncoderSlot { return r.encoder }

// Paths returns every artifact path the registry was built from.
func (r *Registry) Paths() []string {
	paths := make([]string, 0, len(r.slots)+1)
	for _, name := range r.order {
		if p := r.slots[name].Path; p != "" {
			paths = append(paths, p)
		}
	}
	if r.encoder.Path != "" {
		paths = append(paths, r.encoder.Path)
	}
	sort.Strings(paths)
	return paths
}

// Resolve returns the model and encoder for name, or the reason the request
// cannot be served.
func (r *Registry) Resolve(name string) (Classifier, *LabelEncoder, error) {
	slot, ok := r.slots[name]
	if !ok {
		return nil, nil, fmt.Errorf("%w: %q", ErrUnknownModel, name)
	}
	if !slot.Available() {
		return nil, nil, &UnavailableError{Model: name, Component: componentModel, Cause: slot.Err}
	}
	if !r.encoder.Available() {
		return nil, nil, &UnavailableError{Model: name, Component: componentEncoder, Cause: r.encoder.Err}
	}
	return slot.Model, r.encoder.Encoder, nil
}

// Predict runs one request against the named model. Panics raised by the
// model are reported as an InferenceError.
func (r *Registry) Predict(name string, fv schema.FeatureVector) (Prediction, error) {
	model, encoder, err := r.Resolve(name)
	if err != nil {
		return Prediction{}, err
	}

	out, err := classify(model, fv)
	if err != nil {
		return Prediction{}, &InferenceError{Model: name, Err: err}
	}
	label, err := encoder.InverseTransform(out.Class)
	if err != nil {
		return Prediction{}, &InferenceError{Model: name, Err: err}
	}
	return Prediction{Model: name, Label: label, Probability: out.Probability}, nil
}

func classify(model Classifier, fv schema.FeatureVector) (out Output, err error) {
	defer func() {
		if rec := recover(); rec != nil {
			err = fmt.Errorf("panic during inference: %v", rec)
		}
	}()
	return model.Classify(fv)
}
