package ml

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
)

// LabelEncoder maps class indices to outcome labels.
type LabelEncoder struct {
	classes []string
}

func NewLabelEncoder(classes []string) (*LabelEncoder, error) {
	if len(classes) < 2 {
		return nil, fmt.Errorf("label encoder needs at least 2 classes, got %d", len(classes))
	}
	seen := make(map[string]bool, len(classes))
	for _, label := range classes {
		if label == "" {
			return nil, errors.New("label encoder has an empty class")
		}
		if seen[label] {
			return nil, fmt.Errorf("label encoder lists %q twice", label)
		}
		seen[label] = true
	}
	return &LabelEncoder{classes: append([]string(nil), classes...)}, nil
}

func LoadLabelEncoder(path string) (*LabelEncoder, error) {
	payload, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	var art struct {
		Classes []string `json:"classes"`
	}
	if err := json.Unmarshal(payload, &art); err != nil {
		return nil, fmt.Errorf("decode encoder: %w", err)
	}
	return NewLabelEncoder(art.Classes)
}

// InverseTransform returns the label for an encoded class.
func (e *LabelEncoder) InverseTransform(class int) (string, error) {
	if class < 0 || class >= len(e.classes) {
		return "", fmt.Errorf("y contains previously unseen labels: [%d]", class)
	}
	return e.classes[class], nil
}

// Covers reports whether every encoded class has a label.
func (e *LabelEncoder) Covers(classes []int) bool {
	for _, c := range classes {
		if c < 0 || c >= len(e.classes) {
			return false
		}
	}
	return true
}

func (e *LabelEncoder) Classes() []string {
	return append([]string(nil), e.classes...)
}
