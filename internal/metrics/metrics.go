package metrics

import (
	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/adaptor"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Registry holds every collector of the portal; it is served on /metrics.
var Registry = prometheus.NewRegistry()

var factory = promauto.With(Registry)

var (
	StoreRequests = factory.NewCounterVec(prometheus.CounterOpts{
		Namespace: "lsx",
		Name:      "store_requests_total",
		Help:      "Document store calls by operation and outcome.",
	}, []string{"op", "outcome"})

	ImageUploads = factory.NewCounterVec(prometheus.CounterOpts{
		Namespace: "lsx",
		Name:      "image_uploads_total",
		Help:      "Image host uploads by outcome.",
	}, []string{"outcome"})

	CacheLookups = factory.NewCounterVec(prometheus.CounterOpts{
		Namespace: "lsx",
		Name:      "ranking_cache_lookups_total",
		Help:      "Ranking cache lookups by result.",
	}, []string{"result"})

	WalkTruncations = factory.NewCounter(prometheus.CounterOpts{
		Namespace: "lsx",
		Name:      "walk_truncations_total",
		Help:      "Paginated walks cut short by a failed page.",
	})

	ProjectionSeconds = factory.NewHistogram(prometheus.HistogramOpts{
		Namespace: "lsx",
		Name:      "ranking_projection_seconds",
		Help:      "Time to fetch and project the member collection.",
		Buckets:   prometheus.ExponentialBuckets(0.05, 2, 10),
	})

	ProjectedMembers = factory.NewGaugeVec(prometheus.GaugeOpts{
		Namespace: "lsx",
		Name:      "ranking_members",
		Help:      "Rows in the last projected view.",
	}, []string{"view"})
)

func init() {
	Registry.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)
}

// Handler serves the registry through Fiber.
func Handler() fiber.Handler {
	return adaptor.HTTPHandler(promhttp.HandlerFor(Registry, promhttp.HandlerOpts{}))
}
