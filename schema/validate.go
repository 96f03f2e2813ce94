package schema

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"math"
	"strconv"
	"strings"
)

// ErrMalformedBody is returned when the request body is not valid JSON.
var ErrMalformedBody = errors.New("malformed request body")

// largest integer a float64 carries exactly
const maxExactInt = 1 << 53

// FieldError locates one validation failure, in the shape FastAPI clients
// already understand.
type FieldError struct {
	Loc  []string `json:"loc"`
	Msg  string   `json:"msg"`
	Type string   `json:"type"`
}

// ValidationErrors collects every failing field of a request body.
type ValidationErrors []FieldError

func (e ValidationErrors) Error() string {
	parts := make([]string, 0, len(e))
	for _, fe := range e {
		parts = append(parts, fmt.Sprintf("%s: %s", strings.Join(fe.Loc, "."), fe.Msg))
	}
	return "invalid feature vector: " + strings.Join(parts, "; ")
}

// DecodeFeatureVector reads a JSON object and checks every field against
// Fields. Unknown keys are ignored.
func DecodeFeatureVector(r io.Reader) (FeatureVector, error) {
	var fv FeatureVector

	body, err := io.ReadAll(r)
	if err != nil {
		return fv, fmt.Errorf("%w: %w", ErrMalformedBody, err)
	}
	if !json.Valid(body) {
		return fv, fmt.Errorf("%w: invalid JSON", ErrMalformedBody)
	}

	var raw map[string]json.RawMessage
	if err := json.Unmarshal(body, &raw); err != nil || raw == nil {
		return fv, ValidationErrors{{
			Loc:  []string{"body"},
			Msg:  "Input should be a valid dictionary or object to extract fields from",
			Type: "model_attributes_type",
		}}
	}

	var errs ValidationErrors
	for _, f := range Fields {
		value, ok := raw[f.Name]
		if !ok {
			errs = append(errs, FieldError{Loc: []string{"body", f.Name}, Msg: "Field required", Type: "missing"})
			continue
		}
		n, fe := parseField(f, value)
		if fe != nil {
			errs = append(errs, *fe)
			continue
		}
		if err := fv.Set(f.Name, n); err != nil {
			errs = append(errs, FieldError{Loc: []string{"body", f.Name}, Msg: err.Error(), Type: "value_error"})
		}
	}
	if len(errs) > 0 {
		return FeatureVector{}, errs
	}
	return fv, nil
}

func parseField(f Field, value json.RawMessage) (float64, *FieldError) {
	loc := []string{"body", f.Name}
	typeErr := func() *FieldError {
		if f.Kind == KindInt {
			return &FieldError{Loc: loc, Msg: "Input should be a valid integer", Type: "int_type"}
		}
		return &FieldError{Loc: loc, Msg: "Input should be a valid number", Type: "float_type"}
	}
	parseErr := func() *FieldError {
		if f.Kind == KindInt {
			return &FieldError{Loc: loc, Msg: "Input should be a valid integer, unable to parse string as an integer", Type: "int_parsing"}
		}
		return &FieldError{Loc: loc, Msg: "Input should be a valid number, unable to parse string as a number", Type: "float_parsing"}
	}

	value = bytes.TrimSpace(value)
	if len(value) == 0 {
		return 0, typeErr()
	}

	var text string
	switch value[0] {
	case '"':
		if err := json.Unmarshal(value, &text); err != nil {
			return 0, parseErr()
		}
		text = strings.TrimSpace(text)
		if text == "" {
			return 0, parseErr()
		}
		if f.Kind == KindInt {
			return parseIntString(loc, text, parseErr)
		}
	case 't', 'f':
		// true and false coerce to 1 and 0
		var b bool
		if err := json.Unmarshal(value, &b); err != nil {
			return 0, typeErr()
		}
		if b {
			return 1, nil
		}
		return 0, nil
	case '-', '0', '1', '2', '3', '4', '5', '6', '7', '8', '9':
		text = string(value)
	default:
		// null, objects and arrays
		return 0, typeErr()
	}

	n, err := strconv.ParseFloat(text, 64)
	if err != nil {
		if value[0] == '"' {
			return 0, parseErr()
		}
		return 0, typeErr()
	}
	if math.IsNaN(n) || math.IsInf(n, 0) {
		return 0, &FieldError{Loc: loc, Msg: "Input should be a finite number", Type: "finite_number"}
	}
	if f.Kind == KindInt {
		if n != math.Trunc(n) {
			return 0, &FieldError{Loc: loc, Msg: "Input should be a valid integer, got a number with a fractional part", Type: "int_from_float"}
		}
		if math.Abs(n) > maxExactInt {
			return 0, &FieldError{Loc: loc, Msg: "Input should be a valid integer, value is too large", Type: "int_overflow"}
		}
	}
	return n, nil
}

// parseIntString accepts decimal digits with an optional sign and a
// zero-only fractional part ("12", "-3", "4.00").
func parseIntString(loc []string, text string, parseErr func() *FieldError) (float64, *FieldError) {
	if dot := strings.IndexByte(text, '.'); dot >= 0 {
		if strings.Trim(text[dot+1:], "0") != "" {
			return 0, parseErr()
		}
		text = text[:dot]
	}
	n, err := strconv.ParseInt(text, 10, 64)
	if err != nil {
		if errors.Is(err, strconv.ErrRange) {
			return 0, &FieldError{Loc: loc, Msg: "Input should be a valid integer, value is too large", Type: "int_overflow"}
		}
		return 0, parseErr()
	}
	if math.Abs(float64(n)) > maxExactInt {
		return 0, &FieldError{Loc: loc, Msg: "Input should be a valid integer, value is too large", Type: "int_overflow"}
	}
	return float64(n), nil
}
