package http

import (
	"errors"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"

	"sepsisguard/ml"
	"sepsisguard/monitoring"
	"sepsisguard/schema"
)

// handlePredict 预测处理器：校验 → 查找模型 → 推理 → 解码
func (h *handlers) handlePredict(w http.ResponseWriter, r *http.Request) {
	start := GetStartTime(r.Context())
	if start.IsZero() {
		start = time.Now()
	}
	modelName := chi.URLParam(r, "model_name")
	requestID := GetRequestID(r.Context())

	// 先校验请求体，任何模型都不会被调用
	fv, err := schema.DecodeFeatureVector(r.Body)
	if err != nil {
		var verrs schema.ValidationErrors
		var tooLarge *http.MaxBytesError
		switch {
		case errors.As(err, &verrs):
			respondError(w, http.StatusUnprocessableEntity, []schema.FieldError(verrs))
		case errors.As(err, &tooLarge):
			respondError(w, http.StatusRequestEntityTooLarge, "request body too large")
		default:
			respondError(w, http.StatusBadRequest, err.Error())
		}
		h.record(requestID, modelName, monitoring.OutcomeInvalid, nil, err, start)
		return
	}

	if h.registry == nil {
		err := &ml.UnavailableError{Model: modelName, Component: "model", Cause: errors.New("no artifacts loaded")}
		respondError(w, http.StatusInternalServerError, err.Error())
		h.record(requestID, modelName, monitoring.OutcomeUnavailable, nil, err, start)
		return
	}

	pred, err := h.registry.Predict(modelName, fv)
	if err != nil {
		var inferErr *ml.InferenceError
		switch {
		case errors.Is(err, ml.ErrUnknownModel):
			respondError(w, http.StatusNotFound, err.Error())
			h.record(requestID, modelName, monitoring.OutcomeUnknown, nil, err, start)
		case errors.Is(err, ml.ErrModelUnavailable), errors.Is(err, ml.ErrEncoderUnavailable):
			h.logger.Error("prediction refused: artifacts unavailable",
				zap.String("request_id", requestID),
				zap.String("model", modelName),
				zap.Error(err),
			)
			respondError(w, http.StatusInternalServerError, err.Error())
			h.record(requestID, modelName, monitoring.OutcomeUnavailable, nil, err, start)
		case errors.As(err, &inferErr):
			h.logger.Error("prediction failed",
				zap.String("request_id", requestID),
				zap.String("model", modelName),
				zap.Error(err),
			)
			respondError(w, http.StatusInternalServerError, err.Error())
			h.record(requestID, modelName, monitoring.OutcomeFailed, nil, err, start)
		default:
			respondError(w, http.StatusInternalServerError, "Prediction error: "+err.Error())
			h.record(requestID, modelName, monitoring.OutcomeFailed, nil, err, start)
		}
		return
	}

	respondJSON(w, http.StatusOK, schema.PredictionResponse{
		Prediction:  pred.Label,
		Probability: pred.Probability,
	})
	h.record(requestID, modelName, monitoring.OutcomeOK, &pred, nil, start)
}

func (h *handlers) record(requestID, model string, outcome monitoring.Outcome, pred *ml.Prediction, err error, start time.Time) {
	latency := time.Since(start)
	label := ""
	if pred != nil {
		label = pred.Label
	}
	h.metrics.RecordPrediction(h.metricsKey(model), outcome, label, latency)

	if h.hub == nil {
		return
	}
	event := monitoring.PredictionEvent{
		RequestID: requestID,
		Model:     model,
		Outcome:   outcome,
		LatencyMS: float64(latency) / float64(time.Millisecond),
	}
	if pred != nil {
		event.Prediction = pred.Label
		event.Probability = pred.Probability
	}
	if err != nil {
		event.Error = err.Error()
	}
	h.hub.PublishPrediction(event)
}

// metricsKey 未注册的模型名归入同一个统计桶
func (h *handlers) metricsKey(model string) string {
	if h.registry != nil {
		if _, ok := h.registry.Slot(model); ok {
			return model
		}
	}
	return monitoring.UnknownModel
}
