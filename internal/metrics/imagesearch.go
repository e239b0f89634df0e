package metrics

import "github.com/prometheus/client_golang/prometheus"

// Image search Prometheus metrics.
var (
	ImageSearchRequestsTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "filerec",
			Name:      "imagesearch_requests_total",
			Help:      "Total number of live image search attempts",
		},
		[]string{"status"}, // "success" / "timeout" / "error"
	)

	ImageSearchCacheTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "filerec",
			Name:      "imagesearch_cache_total",
			Help:      "Image cache hits and misses",
		},
		[]string{"result"}, // "hit" / "miss"
	)

	ImageSearchDuration = prometheus.NewHistogram(
		prometheus.HistogramOpts{
			Namespace: "filerec",
			Name:      "imagesearch_request_duration_seconds",
			Help:      "Live image search attempt duration in seconds",
			Buckets:   []float64{0.1, 0.25, 0.5, 1, 2.5, 5, 10, 20},
		},
	)
)

var imgMetricsRegistered bool

// RegisterImageSearchMetrics registers Prometheus image search metrics. Must be called once from main.
func RegisterImageSearchMetrics() {
	if imgMetricsRegistered {
		return
	}
	prometheus.MustRegister(ImageSearchRequestsTotal)
	prometheus.MustRegister(ImageSearchCacheTotal)
	prometheus.MustRegister(ImageSearchDuration)
	imgMetricsRegistered = true
}
