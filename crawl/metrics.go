package crawl

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	pagesStored = promauto.NewCounter(prometheus.CounterOpts{
		Name: "quarry_crawl_pages_stored_total",
		Help: "Pages whose extracted text was written to the page store.",
	})

	pagesSkipped = promauto.NewCounter(prometheus.CounterOpts{
		Name: "quarry_crawl_pages_skipped_total",
		Help: "URLs skipped for content type, empty text, or filtering.",
	})

	pagesFailed = promauto.NewCounter(prometheus.CounterOpts{
		Name: "quarry_crawl_pages_failed_total",
		Help: "URLs that failed to fetch, parse, or store.",
	})

	runDuration = promauto.NewHistogram(prometheus.HistogramOpts{
		Name:    "quarry_crawl_run_duration_seconds",
		Help:    "Wall-clock duration of complete crawl runs.",
		Buckets: prometheus.ExponentialBuckets(1, 4, 8),
	})
)
