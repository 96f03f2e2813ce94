package schema

// PredictionResponse is the success body of POST /predict/{model_name}.
// Probability is ordered like the model's classes and is null when the
// model exposes no probabilities.
type PredictionResponse struct {
	Prediction  string    `json:"prediction"`
	Probability []float64 `json:"probability"`
}

// PositiveProbability returns the probability of the second class.
func (r PredictionResponse) PositiveProbability() (float64, bool) {
	if len(r.Probability) != 2 {
		return 0, false
	}
	return r.Probability[1], true
}

// ErrorResponse is the body of every 4xx/5xx answer. Detail is a string, or
// a list of FieldError for validation failures.
type ErrorResponse struct {
	Detail interface{} `json:"detail"`
}

type ModelStatus struct {
	Name      string `json:"name"`
	Kind      string `json:"kind,omitempty"`
	Available bool   `json:"available"`
	Error     string `json:"error,omitempty"`
}

type EncoderStatus struct {
	Available bool     `json:"available"`
	Classes   []string `json:"classes,omitempty"`
	Error     string   `json:"error,omitempty"`
}

// ModelsResponse is the body of GET /models.
type ModelsResponse struct {
	Models  []ModelStatus `json:"models"`
	Encoder EncoderStatus `json:"encoder"`
}
