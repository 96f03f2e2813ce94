// Package schema holds the request/response contract shared by the
// prediction service and its client.
package schema

import (
	"fmt"
	"math"
)

type FieldKind int

const (
	KindInt FieldKind = iota
	KindFloat
)

func (k FieldKind) String() string {
	if k == KindFloat {
		return "float"
	}
	return "integer"
}

// Field describes one input of a FeatureVector. Min and Max are UI hints and
// are not enforced by the service.
type Field struct {
	Name        string
	Kind        FieldKind
	Min         float64
	Max         float64
	Description string
}

// Fields lists the nine inputs in wire order.
var Fields = []Field{
	{Name: "PRG", Kind: KindInt, Min: 0, Max: 100, Description: "Plasma glucose level"},
	{Name: "PL", Kind: KindInt, Min: 0, Max: 500, Description: "Blood Work Result-1 (mu U/ml)"},
	{Name: "PR", Kind: KindInt, Min: 0, Max: 500, Description: "Blood Pressure (mm Hg)"},
	{Name: "SK", Kind: KindInt, Min: 0, Max: 500, Description: "Blood Work Result-2 (mm)"},
	{Name: "TS", Kind: KindInt, Min: 0, Max: 500, Description: "Blood Work Result-3 (mu U/ml)"},
	{Name: "M11", Kind: KindFloat, Min: 0, Max: 200, Description: "Body mass index (BMI)"},
	{Name: "BD2", Kind: KindFloat, Min: 0, Max: 100, Description: "Blood Work Result-4 (mu U/ml)"},
	{Name: "Age", Kind: KindInt, Min: 0, Max: 150, Description: "Patient's age (years)"},
	{Name: "Insurance", Kind: KindInt, Min: 0, Max: 1, Description: "Valid insurance card (0 or 1)"},
}

// LookupField returns the field definition for name.
func LookupField(name string) (Field, bool) {
	for _, f := range Fields {
		if f.Name == name {
			return f, true
		}
	}
	return Field{}, false
}

// Clamp bounds v to the field's range hint.
func (f Field) Clamp(v float64) float64 {
	return math.Max(f.Min, math.Min(f.Max, v))
}

// FeatureVector is one patient observation.
type FeatureVector struct {
	PRG       int     `json:"PRG"`
	PL        int     `json:"PL"`
	PR        int     `json:"PR"`
	SK        int     `json:"SK"`
	TS        int     `json:"TS"`
	M11       float64 `json:"M11"`
	BD2       float64 `json:"BD2"`
	Age       int     `json:"Age"`
	Insurance int     `json:"Insurance"`
}

// Value returns the named field as a float64.
func (v FeatureVector) Value(name string) (float64, bool) {
	switch name {
	case "PRG":
		return float64(v.PRG), true
	case "PL":
		return float64(v.PL), true
	case "PR":
		return float64(v.PR), true
	case "SK":
		return float64(v.SK), true
	case "TS":
		return float64(v.TS), true
	case "M11":
		return v.M11, true
	case "BD2":
		return v.BD2, true
	case "Age":
		return float64(v.Age), true
	case "Insurance":
		return float64(v.Insurance), true
	default:
		return 0, false
	}
}

// Set assigns the named field. Integer fields reject fractional values.
func (v *FeatureVector) Set(name string, value float64) error {
	f, ok := LookupField(name)
	if !ok {
		return fmt.Errorf("unknown field %q", name)
	}
	if math.IsNaN(value) || math.IsInf(value, 0) {
		return fmt.Errorf("%s must be a finite number", name)
	}
	if f.Kind == KindInt && value != math.Trunc(value) {
		return fmt.Errorf("%s must be a whole number", name)
	}

	switch name {
	case "PRG":
		v.PRG = int(value)
	case "PL":
		v.PL = int(value)
	case "PR":
		v.PR = int(value)
	case "SK":
		v.SK = int(value)
	case "TS":
		v.TS = int(value)
	case "M11":
		v.M11 = value
	case "BD2":
		v.BD2 = value
	case "Age":
		v.Age = int(value)
	case "Insurance":
		v.Insurance = int(value)
	}
	return nil
}
