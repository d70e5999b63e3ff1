package metrics

import (
    "github.com/prometheus/client_golang/prometheus"
    "github.com/prometheus/client_golang/prometheus/promauto"
)

// Counts pages fetched successfully during a crawl.
var PagesFetched = promauto.NewCounter(prometheus.CounterOpts{
    Name: "webcorpus_pages_fetched_total",
    Help: "Total number of pages fetched with a 2xx response",
})

// Counts fetch attempts that ended in a network or HTTP-status error.
// These are still persisted with success=false.
var FetchFailures = promauto.NewCounter(prometheus.CounterOpts{
    Name: "webcorpus_fetch_failures_total",
    Help: "Total number of fetch attempts recorded as failures",
})

// Measures time from request issue to full body read.
var FetchLatency = promauto.NewHistogram(prometheus.HistogramOpts{
    Name:    "webcorpus_fetch_latency_seconds",
    Help:    "Time taken to fetch one page",
    Buckets: prometheus.ExponentialBuckets(0.05, 2, 12),
})

// Store metrics
var (
    PagesInserted = promauto.NewCounter(prometheus.CounterOpts{
        Name: "webcorpus_pages_inserted_total",
        Help: "Total number of page records inserted into the store",
    })

    LatestFlagFlips = promauto.NewCounter(prometheus.CounterOpts{
        Name: "webcorpus_latest_flag_flips_total",
        Help: "Total number of canonical-link collisions that demoted older records",
    })

    DegradedInserts = promauto.NewCounter(prometheus.CounterOpts{
        Name: "webcorpus_degraded_inserts_total",
        Help: "Total number of provenance-only records written after a failed insert",
    })

    InsertFailures = promauto.NewCounter(prometheus.CounterOpts{
        Name: "webcorpus_insert_failures_total",
        Help: "Total number of page records that could not be written at all",
    })
)

// Extraction stage metrics
var (
    DocumentsKept = promauto.NewCounter(prometheus.CounterOpts{
        Name: "webcorpus_documents_kept_total",
        Help: "Total number of documents written to the corpus",
    })

    DocumentsLanguageFiltered = promauto.NewCounter(prometheus.CounterOpts{
        Name: "webcorpus_documents_language_filtered_total",
        Help: "Total number of documents routed to the lang_id_filtered bucket",
    })

    DocumentsEmpty = promauto.NewCounter(prometheus.CounterOpts{
        Name: "webcorpus_documents_empty_total",
        Help: "Total number of documents with no extractable content",
    })

    ParagraphsRemoved = promauto.NewCounter(prometheus.CounterOpts{
        Name: "webcorpus_paragraphs_removed_total",
        Help: "Total number of off-language paragraphs relocated to provenance logs",
    })

    LanguageIDLatency = promauto.NewHistogram(prometheus.HistogramOpts{
        Name:    "webcorpus_language_id_latency_seconds",
        Help:    "Time taken to identify languages of one document",
        Buckets: prometheus.ExponentialBuckets(0.001, 2, 12),
    })

    StrategyRebuilds = promauto.NewCounter(prometheus.CounterOpts{
        Name: "webcorpus_strategy_rebuilds_total",
        Help: "Total number of segmentation strategy cache rebuilds",
    })
)
