package metrics

import (
    "net/http"
    "time"

    "github.com/prometheus/client_golang/prometheus/promhttp"
    "go.uber.org/zap"

    "webcorpus/internal/pkg/logger"
)

// Serves the Prometheus scrape endpoint and a liveness probe in the
// background for the lifetime of the process.
func StartMonitoring(addr string) {
    mux := http.NewServeMux()
    mux.Handle("/metrics", promhttp.Handler())
    mux.HandleFunc("/health", func(w http.ResponseWriter, _ *http.Request) {
        w.WriteHeader(http.StatusOK)
        _, _ = w.Write([]byte("ok"))
    })

    server := &http.Server{
        Addr:              addr,
        Handler:           mux,
        ReadHeaderTimeout: 5 * time.Second,
    }
    go func() {
        logger.Log.Info("Monitoring server listening", zap.String("addr", addr))
        if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
            logger.Log.Warn("Monitoring server stopped", zap.Error(err))
        }
    }()
}
