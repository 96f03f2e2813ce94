package client

import (
	"golang.org/x/text/language"
	"golang.org/x/text/message"
	"golang.org/x/text/number"

	"sepsisguard/schema"
)

const positiveLabel = "Positive"

var printer = message.NewPrinter(language.English)

// Verdict is the headline shown for a prediction.
func Verdict(resp schema.PredictionResponse) string {
	return printer.Sprintf("Sepsis test will be %s", resp.Prediction)
}

// Outlook is the sentence shown under the verdict.
func Outlook(resp schema.PredictionResponse) string {
	if resp.Prediction == positiveLabel {
		return "Patient is likely to develop Sepsis"
	}
	return "Patient is not likely to develop Sepsis"
}

// IsPositive reports whether the service predicted sepsis.
func IsPositive(resp schema.PredictionResponse) bool {
	return resp.Prediction == positiveLabel
}

// Chance describes the positive-class probability as a percentage rounded
// to two decimals.
func Chance(resp schema.PredictionResponse) string {
	p, ok := resp.PositiveProbability()
	if !ok {
		return "Probability: N/A"
	}
	return printer.Sprintf("%v%% chance of Patient developing Sepsis.",
		number.Decimal(p*100, number.MaxFractionDigits(2)))
}
