package segment

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	idsIssuedTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "leaf",
			Name:      "ids_issued_total",
			Help:      "Total number of IDs issued per tag",
		},
		[]string{"tag"},
	)

	segmentRefreshesTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "leaf",
			Name:      "segment_refreshes_total",
			Help:      "Total number of segment loads from the allocation store",
		},
		[]string{"tag", "result"},
	)

	allocationExhaustedTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "leaf",
			Name:      "allocation_exhausted_total",
			Help:      "Total number of requests rejected because both segments were exhausted",
		},
		[]string{"tag"},
	)

	segmentStep = promauto.NewGaugeVec(
		prometheus.GaugeOpts{
			Namespace: "leaf",
			Name:      "segment_step",
			Help:      "Current adaptive step length per tag",
		},
		[]string{"tag"},
	)

	storeRequestDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Namespace: "leaf",
			Name:      "store_request_duration_seconds",
			Help:      "Duration of allocation store requests in seconds",
			Buckets:   prometheus.DefBuckets,
		},
		[]string{"operation"},
	)

	cachedTags = promauto.NewGauge(
		prometheus.GaugeOpts{
			Namespace: "leaf",
			Name:      "cached_tags",
			Help:      "Number of tags held in the segment cache",
		},
	)
)

// forgetTagMetrics 캐시에서 제거된 태그의 레이블 시계열을 삭제합니다.
func forgetTagMetrics(tag string) {
	labels := prometheus.Labels{"tag": tag}

	idsIssuedTotal.DeletePartialMatch(labels)
	segmentRefreshesTotal.DeletePartialMatch(labels)
	allocationExhaustedTotal.DeletePartialMatch(labels)
	segmentStep.DeletePartialMatch(labels)
}
