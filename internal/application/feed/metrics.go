package feed

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	runsTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: "orderfeed",
		Name:      "runs_total",
		Help:      "Feed runs by feed kind and outcome.",
	}, []string{"feed", "status"})

	ordersExported = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: "orderfeed",
		Name:      "orders_exported_total",
		Help:      "Orders included in generated feed files.",
	}, []string{"feed"})

	rowsWritten = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: "orderfeed",
		Name:      "rows_written_total",
		Help:      "CSV records written to generated feed files.",
	}, []string{"feed"})
)
