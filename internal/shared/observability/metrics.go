package observability

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Metrics definitions
var (
	FilesScanned = promauto.NewGauge(prometheus.GaugeOpts{
		Name: "archcheck_files_scanned_total",
		Help: "Number of source files read in the last run.",
	})

	GraphNodes = promauto.NewGauge(prometheus.GaugeOpts{
		Name: "archcheck_graph_nodes_total",
		Help: "Total number of tracked modules in the dependency graph.",
	})

	GraphEdges = promauto.NewGauge(prometheus.GaugeOpts{
		Name: "archcheck_graph_edges_total",
		Help: "Total number of deduplicated internal edges in the dependency graph.",
	})

	ViolationsFound = promauto.NewGaugeVec(prometheus.GaugeOpts{
		Name: "archcheck_violations_total",
		Help: "Architecture violations found in the last run, by rule.",
	}, []string{"rule"})

	AnalysisDuration = promauto.NewHistogramVec(prometheus.HistogramOpts{
		Name:    "archcheck_analysis_seconds",
		Help:    "Time spent on each analysis stage.",
		Buckets: prometheus.DefBuckets,
	}, []string{"stage"})
)
