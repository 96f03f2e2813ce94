package monitoring

import (
	"fmt"
	"runtime"
	"sort"
	"strings"
	"sync"
	"time"
)

// MetricType 指标类型
type MetricType string

const MetricTypeHistogram MetricType = "histogram"

const (
	maxSeriesLength = 1000

	// LatencyMetric 预测延迟序列名
	LatencyMetric = "prediction_latency_ms"
	// UnknownModel 未注册模型名的统一统计桶
	UnknownModel = "_unknown"
)

// Outcome 预测结果分类
type Outcome string

const (
	OutcomeOK          Outcome = "ok"
	OutcomeInvalid     Outcome = "invalid"
	OutcomeUnknown     Outcome = "unknown_model"
	OutcomeUnavailable Outcome = "unavailable"
	OutcomeFailed      Outcome = "failed"
)

// Metric 指标
type Metric struct {
	Name      string            `json:"name"`
	Type      MetricType        `json:"type"`
	Value     float64           `json:"value"`
	Labels    map[string]string `json:"labels,omitempty"`
	Timestamp time.Time         `json:"timestamp"`
	Help      string            `json:"help,omitempty"`
}

// MetricsCollector 指标收集器
type MetricsCollector struct {
	metrics     map[string][]*Metric
	metricsLock sync.RWMutex

	models    map[string]*ModelStat
	startTime time.Time
}

// ModelStat 单个模型的预测统计
type ModelStat struct {
	Model       string            `json:"model"`
	Requests    int64             `json:"requests"`
	Outcomes    map[Outcome]int64 `json:"outcomes"`
	Labels      map[string]int64  `json:"labels"`
	LastLatency float64           `json:"last_latency_ms"`
}

// NewMetricsCollector 创建指标收集器
func NewMetricsCollector() *MetricsCollector {
	return &MetricsCollector{
		metrics:   make(map[string][]*Metric),
		models:    make(map[string]*ModelStat),
		startTime: time.Now(),
	}
}

func (mc *MetricsCollector) recordLocked(metric *Metric) {
	metric.Timestamp = time.Now()
	key := seriesKey(metric.Name, metric.Labels)
	mc.metrics[key] = append(mc.metrics[key], metric)

	// 限制历史大小
	if len(mc.metrics[key]) > maxSeriesLength {
		mc.metrics[key] = mc.metrics[key][100:]
	}
}

// RecordPrediction 记录一次预测请求
func (mc *MetricsCollector) RecordPrediction(model string, outcome Outcome, label string, latency time.Duration) {
	mc.metricsLock.Lock()
	defer mc.metricsLock.Unlock()

	stat, ok := mc.models[model]
	if !ok {
		stat = &ModelStat{
			Model:    model,
			Outcomes: make(map[Outcome]int64),
			Labels:   make(map[string]int64),
		}
		mc.models[model] = stat
	}
	stat.Requests++
	stat.Outcomes[outcome]++
	if label != "" {
		stat.Labels[label]++
	}
	ms := float64(latency) / float64(time.Millisecond)
	stat.LastLatency = ms

	mc.recordLocked(&Metric{
		Name:   LatencyMetric,
		Type:   MetricTypeHistogram,
		Value:  ms,
		Labels: map[string]string{"model": model, "outcome": string(outcome)},
		Help:   "Prediction request latency in milliseconds",
	})
}

// ModelStats 获取模型统计快照
func (mc *MetricsCollector) ModelStats() []ModelStat {
	mc.metricsLock.RLock()
	defer mc.metricsLock.RUnlock()

	stats := make([]ModelStat, 0, len(mc.models))
	for _, stat := range mc.models {
		copied := *stat
		copied.Outcomes = make(map[Outcome]int64, len(stat.Outcomes))
		for k, v := range stat.Outcomes {
			copied.Outcomes[k] = v
		}
		copied.Labels = make(map[string]int64, len(stat.Labels))
		for k, v := range stat.Labels {
			copied.Labels[k] = v
		}
		stats = append(stats, copied)
	}
	sort.Slice(stats, func(i, j int) bool { return stats[i].Model < stats[j].Model })
	return stats
}

// GetMetric 获取指标
func (mc *MetricsCollector) GetMetric(name string, labels map[string]string) ([]*Metric, error) {
	mc.metricsLock.RLock()
	defer mc.metricsLock.RUnlock()

	metrics, ok := mc.metrics[seriesKey(name, labels)]
	if !ok {
		return nil, fmt.Errorf("metric %s not found", name)
	}

	// 返回副本
	result := make([]*Metric, len(metrics))
	for i, m := range metrics {
		metricCopy := *m
		result[i] = &metricCopy
	}
	return result, nil
}

// Summary 指标摘要
type Summary struct {
	Name    string            `json:"name"`
	Labels  map[string]string `json:"labels,omitempty"`
	Count   int               `json:"count"`
	Latest  float64           `json:"latest"`
	Min     float64           `json:"min"`
	Max     float64           `json:"max"`
	Average float64           `json:"average"`
}

// GetMetricSummary 获取指标摘要
func (mc *MetricsCollector) GetMetricSummary(name string, labels map[string]string) (Summary, error) {
	metrics, err := mc.GetMetric(name, labels)
	if err != nil {
		return Summary{}, err
	}
	return summarize(name, labels, metrics), nil
}

// Summaries 所有序列的摘要
func (mc *MetricsCollector) Summaries() []Summary {
	mc.metricsLock.RLock()
	defer mc.metricsLock.RUnlock()

	keys := make([]string, 0, len(mc.metrics))
	for key := range mc.metrics {
		keys = append(keys, key)
	}
	sort.Strings(keys)

	out := make([]Summary, 0, len(keys))
	for _, key := range keys {
		series := mc.metrics[key]
		if len(series) == 0 {
			continue
		}
		out = append(out, summarize(series[0].Name, series[0].Labels, series))
	}
	return out
}

func summarize(name string, labels map[string]string, metrics []*Metric) Summary {
	s := Summary{Name: name, Labels: labels, Count: len(metrics)}
	if len(metrics) == 0 {
		return s
	}
	s.Latest = metrics[len(metrics)-1].Value
	s.Min = metrics[0].Value
	s.Max = metrics[0].Value
	sum := 0.0
	for _, m := range metrics {
		sum += m.Value
		if m.Value < s.Min {
			s.Min = m.Value
		}
		if m.Value > s.Max {
			s.Max = m.Value
		}
	}
	s.Average = sum / float64(len(metrics))
	return s
}

// ExportPrometheus 导出Prometheus格式
func (mc *MetricsCollector) ExportPrometheus() string {
	var b strings.Builder

	for _, stat := range mc.ModelStats() {
		outcomes := make([]string, 0, len(stat.Outcomes))
		for o := range stat.Outcomes {
			outcomes = append(outcomes, string(o))
		}
		sort.Strings(outcomes)
		for _, o := range outcomes {
			fmt.Fprintf(&b, "predictions_total{model=%q,outcome=%q} %d\n", stat.Model, o, stat.Outcomes[Outcome(o)])
		}
	}
	for _, s := range mc.Summaries() {
		fmt.Fprintf(&b, "%s_count%s %d\n", s.Name, formatLabels(s.Labels), s.Count)
		fmt.Fprintf(&b, "%s_avg%s %f\n", s.Name, formatLabels(s.Labels), s.Average)
	}
	fmt.Fprintf(&b, "process_uptime_seconds %f\n", mc.GetUptime().Seconds())
	return b.String()
}

// GetUptime 获取运行时间
func (mc *MetricsCollector) GetUptime() time.Duration {
	return time.Since(mc.startTime)
}

// GetSystemStats 获取系统统计
func (mc *MetricsCollector) GetSystemStats() map[string]interface{} {
	var m runtime.MemStats
	runtime.ReadMemStats(&m)

	return map[string]interface{}{
		"uptime":     mc.GetUptime().String(),
		"goroutines": runtime.NumGoroutine(),
		"memory": map[string]interface{}{
			"alloc":      m.Alloc,
			"sys":        m.Sys,
			"heap_alloc": m.HeapAlloc,
			"heap_inuse": m.HeapInuse,
			"gc_count":   m.NumGC,
		},
		"num_cpu": runtime.NumCPU(),
	}
}

func seriesKey(name string, labels map[string]string) string {
	if len(labels) == 0 {
		return name
	}
	return name + formatLabels(labels)
}

func formatLabels(labels map[string]string) string {
	if len(labels) == 0 {
		return ""
	}
	keys := make([]string, 0, len(labels))
	for k := range labels {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	parts := make([]string, len(keys))
	for i, k := range keys {
		parts[i] = fmt.Sprintf("%s=%q", k, labels[k])
	}
	return "{" + strings.Join(parts, ",") + "}"
}
