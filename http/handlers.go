package http

import (
	"encoding/json"
	"net/http"

	"go.uber.org/zap"

	"sepsisguard/ml"
	"sepsisguard/monitoring"
	"sepsisguard/schema"
)

type handlers struct {
	registry *ml.Registry
	metrics  *monitoring.MetricsCollector
	hub      *monitoring.Hub
	logger   *zap.Logger
}

func (h *handlers) handleRoot(w http.ResponseWriter, r *http.Request) {
	respondJSON(w, http.StatusOK, map[string]string{"Hello": "World"})
}

func (h *handlers) handleHealth(w http.ResponseWriter, r *http.Request) {
	respondJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

func (h *handlers) handleModels(w http.ResponseWriter, r *http.Request) {
	resp := schema.ModelsResponse{Models: []schema.ModelStatus{}}
	if h.registry == nil {
		resp.Encoder.Error = "no artifacts loaded"
		respondJSON(w, http.StatusOK, resp)
		return
	}

	for _, name := range h.registry.Names() {
		slot, _ := h.registry.Slot(name)
		status := schema.ModelStatus{Name: name, Kind: slot.Kind, Available: slot.Available()}
		if slot.Err != nil {
			status.Error = slot.Err.Error()
		}
		resp.Models = append(resp.Models, status)
	}

	enc := h.registry.Encoder()
	resp.Encoder.Available = enc.Available()
	if enc.Available() {
		resp.Encoder.Classes = enc.Encoder.Classes()
	} else if enc.Err != nil {
		resp.Encoder.Error = enc.Err.Error()
	}
	respondJSON(w, http.StatusOK, resp)
}

func (h *handlers) handleMetrics(w http.ResponseWriter, r *http.Request) {
	if r.URL.Query().Get("format") == "prometheus" {
		w.Header().Set("Content-Type", "text/plain; version=0.0.4")
		w.WriteHeader(http.StatusOK)
		w.Write([]byte(h.metrics.ExportPrometheus()))
		return
	}

	// 单个模型的延迟摘要，outcome 默认为 ok
	if model := r.URL.Query().Get("model"); model != "" {
		outcome := r.URL.Query().Get("outcome")
		if outcome == "" {
			outcome = string(monitoring.OutcomeOK)
		}
		summary, err := h.metrics.GetMetricSummary(monitoring.LatencyMetric, map[string]string{
			"model":   model,
			"outcome": outcome,
		})
		if err != nil {
			respondError(w, http.StatusNotFound, err.Error())
			return
		}
		respondJSON(w, http.StatusOK, summary)
		return
	}

	respondJSON(w, http.StatusOK, map[string]interface{}{
		"system":      h.metrics.GetSystemStats(),
		"predictions": h.metrics.ModelStats(),
		"latency":     h.metrics.Summaries(),
	})
}

// respondJSON 统一JSON响应
func respondJSON(w http.ResponseWriter, status int, data interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(data)
}

// respondError 统一错误响应
func respondError(w http.ResponseWriter, status int, detail interface{}) {
	respondJSON(w, status, schema.ErrorResponse{Detail: detail})
}
