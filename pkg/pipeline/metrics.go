package pipeline

import "github.com/prometheus/client_golang/prometheus"

// metricsSet is the pipeline owner's observability surface (§2B): frames
// run, components rebuilt, layout-cache hit/miss, and a per-frame duration
// histogram. Each Owner gets its own registry rather than registering
// against prometheus.DefaultRegisterer, so more than one Owner (e.g. one per
// test) can coexist without a duplicate-registration panic.
type metricsSet struct {
	framesRun         prometheus.Counter
	componentsRebuilt prometheus.Counter
	cacheHits         prometheus.Counter
	cacheMisses       prometheus.Counter
	frameDuration     prometheus.Histogram
}

func newMetrics(reg *prometheus.Registry) *metricsSet {
	m := &metricsSet{
		framesRun: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: "loom",
			Subsystem: "pipeline",
			Name:      "frames_run_total",
			Help:      "Total number of RunFrame calls.",
		}),
		componentsRebuilt: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: "loom",
			Subsystem: "pipeline",
			Name:      "components_rebuilt_total",
			Help:      "Total number of component elements rebuilt across all frames.",
		}),
		cacheHits: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: "loom",
			Subsystem: "pipeline",
			Name:      "layout_cache_hits_total",
			Help:      "Total number of layout-cache hits across all render nodes.",
		}),
		cacheMisses: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: "loom",
			Subsystem: "pipeline",
			Name:      "layout_cache_misses_total",
			Help:      "Total number of layout-cache misses across all render nodes.",
		}),
		frameDuration: prometheus.NewHistogram(prometheus.HistogramOpts{
			Namespace: "loom",
			Subsystem: "pipeline",
			Name:      "frame_duration_seconds",
			Help:      "Wall-clock duration of a single RunFrame call.",
			Buckets:   prometheus.DefBuckets,
		}),
	}
	reg.MustRegister(m.framesRun, m.componentsRebuilt, m.cacheHits, m.cacheMisses, m.frameDuration)
	return m
}
