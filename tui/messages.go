package tui

import "sepsisguard/schema"

type predictionDoneMsg struct {
	model string
	resp  schema.PredictionResponse
	err   error
}

type modelsLoadedMsg struct {
	names []string
}
