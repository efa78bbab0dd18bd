package metrics

import (
	"sync"

	"github.com/prometheus/client_golang/prometheus"
)

var (
	once sync.Once

	goalsComputed = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "nutrition",
			Name:      "goals_computed_total",
			Help:      "Count of calorie/macro goal computations by goal and source.",
		},
		[]string{"goal", "source"},
	)

	goalFallbacks = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "nutrition",
			Name:      "goal_input_fallbacks_total",
			Help:      "Count of unrecognised profile values replaced by a default.",
		},
		[]string{"field"},
	)

	catalogRefreshes = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "nutrition",
			Name:      "catalog_refresh_total",
			Help:      "Count of search cache refreshes by origin and result.",
		},
		[]string{"origin", "result"},
	)

	catalogItems = prometheus.NewGauge(
		prometheus.GaugeOpts{
			Namespace: "nutrition",
			Name:      "catalog_items",
			Help:      "Number of menu items in the current search snapshot.",
		},
	)
)

// Register registers metrics (idempotent).
func Register() {
	once.Do(func() {
		prometheus.MustRegister(goalsComputed, goalFallbacks, catalogRefreshes, catalogItems)
	})
}

func IncGoalsComputed(goal, source string) {
	goalsComputed.WithLabelValues(goal, source).Inc()
}

func IncGoalFallback(field string) {
	goalFallbacks.WithLabelValues(field).Inc()
}

// ObserveCatalogRefresh records one refresh attempt. origin is "database" or
// "shared"; size is ignored when ok is false.
func ObserveCatalogRefresh(origin string, ok bool, size int) {
	result := "ok"
	if !ok {
		result = "error"
	}
	catalogRefreshes.WithLabelValues(origin, result).Inc()
	if ok {
		catalogItems.Set(float64(size))
	}
}
