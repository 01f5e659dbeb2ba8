package observability

import (
	"fmt"
	"sync"
	"time"

	"github.com/kvothesson/chat-saas-gateway/internal/domain"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	dto "github.com/prometheus/client_model/go"
)

// Usage periods accepted by UsageSnapshot.
const (
	PeriodToday = "today"
	PeriodTotal = "total"
)

const (
	metricTokens           = "gateway_llm_tokens_total"
	metricCompletions      = "gateway_completions_total"
	metricTokensToday      = "gateway_llm_tokens_today"
	metricCompletionsToday = "gateway_completions_today"
	dayLayout              = "2006-01-02"
)

// Metrics holds all Prometheus metrics for the gateway.
type Metrics struct {
	// Registry is the Prometheus registry that owns these metrics.
	// Exposed so the /metrics endpoint can use it.
	Registry *prometheus.Registry

	stageDuration  *prometheus.HistogramVec
	externalErrors *prometheus.CounterVec
	chatRequests   *prometheus.CounterVec
	profileSources *prometheus.CounterVec
	tokensUsed     *prometheus.CounterVec
	completions    *prometheus.CounterVec

	// Today's usage. Reset when the first completion of a new UTC day is recorded.
	mu               sync.Mutex
	day              string
	tokensToday      *prometheus.GaugeVec
	completionsToday *prometheus.GaugeVec
}

// NewMetrics creates a dedicated Prometheus registry and registers all
// application metrics in it. Using a private registry avoids "duplicate
// collector" panics when NewMetrics is called more than once (e.g. in tests).
func NewMetrics() *Metrics {
	reg := prometheus.NewRegistry()
	factory := promauto.With(reg)

	return &Metrics{
		Registry: reg,

		stageDuration: factory.NewHistogramVec(
			prometheus.HistogramOpts{
				Name:    "gateway_stage_duration_seconds",
				Help:    "Duration of chat pipeline stages.",
				Buckets: prometheus.DefBuckets,
			},
			[]string{"stage"},
		),
		externalErrors: factory.NewCounterVec(
			prometheus.CounterOpts{
				Name: "gateway_external_errors_total",
				Help: "Total errors from external services.",
			},
			[]string{"service"},
		),
		chatRequests: factory.NewCounterVec(
			prometheus.CounterOpts{
				Name: "gateway_chat_requests_total",
				Help: "Total chat requests by outcome.",
			},
			[]string{"status"},
		),
		profileSources: factory.NewCounterVec(
			prometheus.CounterOpts{
				Name: "gateway_profile_source_total",
				Help: "Business profiles resolved, by source.",
			},
			[]string{"source"},
		),
		tokensUsed: factory.NewCounterVec(
			prometheus.CounterOpts{
				Name: metricTokens,
				Help: "Total LLM tokens consumed.",
			},
			[]string{"type", "model"},
		),
		completions: factory.NewCounterVec(
			prometheus.CounterOpts{
				Name: metricCompletions,
				Help: "Total successful completion calls.",
			},
			[]string{"model"},
		),
		tokensToday: factory.NewGaugeVec(
			prometheus.GaugeOpts{
				Name: metricTokensToday,
				Help: "LLM tokens consumed during the current UTC day.",
			},
			[]string{"type", "model"},
		),
		completionsToday: factory.NewGaugeVec(
			prometheus.GaugeOpts{
				Name: metricCompletionsToday,
				Help: "Successful completion calls during the current UTC day.",
			},
			[]string{"model"},
		),
	}
}

// RecordStageDuration records the duration of one pipeline stage.
func (m *Metrics) RecordStageDuration(stage string, d time.Duration) {
	m.stageDuration.WithLabelValues(stage).Observe(d.Seconds())
}

// IncrExternalError increments the external error counter.
func (m *Metrics) IncrExternalError(service string) {
	m.externalErrors.WithLabelValues(service).Inc()
}

// IncrChatRequest increments the chat request counter with a status label.
func (m *Metrics) IncrChatRequest(status string) {
	m.chatRequests.WithLabelValues(status).Inc()
}

// IncrProfileSource counts a profile resolved from source.
func (m *Metrics) IncrProfileSource(source string) {
	m.profileSources.WithLabelValues(source).Inc()
}

// RecordCompletion records one completion call and its token usage, both
// lifetime and for the current UTC day.
func (m *Metrics) RecordCompletion(model string, usage domain.TokenUsage) {
	m.recordCompletionAt(time.Now(), model, usage)
}

func (m *Metrics) recordCompletionAt(at time.Time, model string, usage domain.TokenUsage) {
	prompt, completion := float64(usage.PromptTokens), float64(usage.CompletionTokens)

	m.completions.WithLabelValues(model).Inc()
	m.tokensUsed.WithLabelValues("prompt", model).Add(prompt)
	m.tokensUsed.WithLabelValues("completion", model).Add(completion)

	m.mu.Lock()
	defer m.mu.Unlock()
	if day := at.UTC().Format(dayLayout); day != m.day {
		m.day = day
		m.completionsToday.Reset()
		m.tokensToday.Reset()
	}
	m.completionsToday.WithLabelValues(model).Inc()
	m.tokensToday.WithLabelValues("prompt", model).Add(prompt)
	m.tokensToday.WithLabelValues("completion", model).Add(completion)
}

// UsageSnapshot aggregates completion usage for GET /debug/stats.
// PeriodToday covers the UTC day of now; PeriodTotal covers the process lifetime.
func (m *Metrics) UsageSnapshot(period string, now time.Time) (*domain.UsageStats, error) {
	requestsName, tokensName := metricCompletions, metricTokens
	switch period {
	case PeriodTotal:
	case PeriodToday:
		requestsName, tokensName = metricCompletionsToday, metricTokensToday
	default:
		return nil, fmt.Errorf("unknown period %q", period)
	}

	stats := &domain.UsageStats{Period: period, ModelsUsed: make(map[string]int64)}

	// Hold the lock so a day rollover cannot interleave with the read.
	m.mu.Lock()
	defer m.mu.Unlock()
	if period == PeriodToday && m.day != now.UTC().Format(dayLayout) {
		return stats, nil
	}

	families, err := m.Registry.Gather()
	if err != nil {
		return nil, fmt.Errorf("gather metrics: %w", err)
	}

	type modelUsage struct{ input, output float64 }
	perModel := make(map[string]*modelUsage)

	for _, mf := range families {
		name := mf.GetName()
		if name != requestsName && name != tokensName {
			continue
		}
		for _, metric := range mf.GetMetric() {
			labels := labelMap(metric)
			model := labels["model"]
			value := metricValue(metric)

			if name == requestsName {
				stats.ModelsUsed[model] += int64(value)
				stats.TotalRequests += int64(value)
				continue
			}

			u, ok := perModel[model]
			if !ok {
				u = &modelUsage{}
				perModel[model] = u
			}
			switch labels["type"] {
			case "prompt":
				u.input += value
			case "completion":
				u.output += value
			}
		}
	}

	for model, u := range perModel {
		stats.TotalInputTokens += int64(u.input)
		stats.TotalOutputTokens += int64(u.output)
		stats.TotalCostUSD += domain.PriceFor(model).Cost(u.input, u.output)
	}
	return stats, nil
}

func metricValue(metric *dto.Metric) float64 {
	if g := metric.GetGauge(); g != nil {
		return g.GetValue()
	}
	return metric.GetCounter().GetValue()
}

func labelMap(metric *dto.Metric) map[string]string {
	out := make(map[string]string, len(metric.GetLabel()))
	for _, lp := range metric.GetLabel() {
		out[lp.GetName()] = lp.GetValue()
	}
	return out
}
