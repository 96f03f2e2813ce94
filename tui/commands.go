package tui

import (
	"context"
	"errors"

	tea "github.com/charmbracelet/bubbletea"
	"go.uber.org/zap"

	"sepsisguard/schema"
)

func (d Deps) requestContext() (context.Context, context.CancelFunc) {
	if d.Timeout > 0 {
		return context.WithTimeout(context.Background(), d.Timeout)
	}
	return context.WithCancel(context.Background())
}

func cmdPredict(deps Deps, model string, fv schema.FeatureVector) tea.Cmd {
	return func() tea.Msg {
		if deps.Predictor == nil {
			return predictionDoneMsg{model: model, err: errors.New("Predictor is nil")}
		}

		ctx, cancel := deps.requestContext()
		defer cancel()

		resp, err := deps.Predictor.Predict(ctx, model, fv)
		if err != nil && deps.Logger != nil {
			deps.Logger.Warn("prediction failed", zap.String("model", model), zap.Error(err))
		}
		return predictionDoneMsg{model: model, resp: resp, err: err}
	}
}

func cmdLoadModels(deps Deps) tea.Cmd {
	return func() tea.Msg {
		ctx, cancel := deps.requestContext()
		defer cancel()
		return modelsLoadedMsg{names: deps.Lister.AvailableModels(ctx, deps.Models)}
	}
}
