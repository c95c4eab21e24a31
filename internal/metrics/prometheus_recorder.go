package metrics

import (
	"sync"
	"time"

	prom "github.com/prometheus/client_golang/prometheus"
)

const namespace = "sitebuilder"

// PrometheusRecorder implements Recorder using Prometheus metrics.
type PrometheusRecorder struct {
	once            sync.Once
	composeDuration prom.Histogram
	sectionRenders  *prom.CounterVec
	resolveDuration *prom.HistogramVec
	resolveBatch    prom.Histogram
	resolveResults  *prom.CounterVec
	uploads         *prom.CounterVec
	saves           *prom.CounterVec
	publishes       prom.Counter
	previewClients  prom.Gauge
}

// NewPrometheusRecorder constructs and registers Prometheus metrics (idempotent).
func NewPrometheusRecorder(reg *prom.Registry) *PrometheusRecorder {
	if reg == nil {
		reg = prom.NewRegistry()
	}
	pr := &PrometheusRecorder{}
	pr.once.Do(func() {
		pr.composeDuration = prom.NewHistogram(prom.HistogramOpts{
			Namespace: namespace,
			Name:      "compose_duration_seconds",
			Help:      "Duration of full document composition",
			Buckets:   prom.DefBuckets,
		})
		pr.sectionRenders = prom.NewCounterVec(prom.CounterOpts{
			Namespace: namespace,
			Name:      "section_renders_total",
			Help:      "Section fragments rendered by kind and style",
		}, []string{"kind", "style"})
		pr.resolveDuration = prom.NewHistogramVec(prom.HistogramOpts{
			Namespace: namespace,
			Name:      "resolve_batch_duration_seconds",
			Help:      "Duration of batched asset lookups",
			Buckets:   prom.DefBuckets,
		}, []string{"result"})
		pr.resolveBatch = prom.NewHistogram(prom.HistogramOpts{
			Namespace: namespace,
			Name:      "resolve_batch_size",
			Help:      "Opaque references per lookup batch",
			Buckets:   []float64{1, 2, 4, 8, 16, 32},
		})
		pr.resolveResults = prom.NewCounterVec(prom.CounterOpts{
			Namespace: namespace,
			Name:      "resolve_results_total",
			Help:      "Asset reference resolution outcomes",
		}, []string{"result"})
		pr.uploads = prom.NewCounterVec(prom.CounterOpts{
			Namespace: namespace,
			Name:      "uploads_total",
			Help:      "Editor uploads by success/failure",
		}, []string{"result"})
		pr.saves = prom.NewCounterVec(prom.CounterOpts{
			Namespace: namespace,
			Name:      "saves_total",
			Help:      "Editor save attempts by outcome",
		}, []string{"outcome"})
		pr.publishes = prom.NewCounter(prom.CounterOpts{
			Namespace: namespace,
			Name:      "preview_publishes_total",
			Help:      "Preview surface replacements",
		})
		pr.previewClients = prom.NewGauge(prom.GaugeOpts{
			Namespace: namespace,
			Name:      "preview_clients",
			Help:      "Connected preview event streams",
		})
		reg.MustRegister(pr.composeDuration, pr.sectionRenders, pr.resolveDuration, pr.resolveBatch,
			pr.resolveResults, pr.uploads, pr.saves, pr.publishes, pr.previewClients)
	})
	return pr
}

func (p *PrometheusRecorder) ObserveComposeDuration(d time.Duration) {
	if p == nil || p.composeDuration == nil {
		return
	}
	p.composeDuration.Observe(d.Seconds())
}

func (p *PrometheusRecorder) IncSectionRender(kind, style string) {
	if p == nil || p.sectionRenders == nil {
		return
	}
	p.sectionRenders.WithLabelValues(kind, style).Inc()
}

func (p *PrometheusRecorder) ObserveResolveBatch(size int, d time.Duration, success bool) {
	if p == nil || p.resolveDuration == nil {
		return
	}
	p.resolveBatch.Observe(float64(size))
	p.resolveDuration.WithLabelValues(resultOf(success)).Observe(d.Seconds())
}

func (p *PrometheusRecorder) IncResolveResult(result ResultLabel) {
	if p == nil || p.resolveResults == nil {
		return
	}
	p.resolveResults.WithLabelValues(string(result)).Inc()
}

func (p *PrometheusRecorder) IncUpload(success bool) {
	if p == nil || p.uploads == nil {
		return
	}
	p.uploads.WithLabelValues(resultOf(success)).Inc()
}

func (p *PrometheusRecorder) IncSave(outcome SaveOutcome) {
	if p == nil || p.saves == nil {
		return
	}
	p.saves.WithLabelValues(string(outcome)).Inc()
}

func (p *PrometheusRecorder) IncPreviewPublish() {
	if p == nil || p.publishes == nil {
		return
	}
	p.publishes.Inc()
}

func (p *PrometheusRecorder) SetPreviewClients(n int) {
	if p == nil || p.previewClients == nil {
		return
	}
	p.previewClients.Set(float64(n))
}

func resultOf(success bool) string {
	if success {
		return "success"
	}
	return "failed"
}
