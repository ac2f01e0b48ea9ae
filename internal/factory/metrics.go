package factory

import (
	"fmt"
	"net/http"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/fleetsync/fleetsync/internal/config"
)

// CreateMetricsServer serves the metrics of gatherer and a readiness probe backed by ready.
func CreateMetricsServer(conf config.Metrics, gatherer prometheus.Gatherer, ready func() error) *http.Server {
	ret := &http.Server{Addr: fmt.Sprintf(":%v", conf.Port)}
	ret.SetKeepAlivesEnabled(true)
	ret.IdleTimeout = 5 * time.Second
	ret.ReadHeaderTimeout = 5 * time.Second

	router := http.NewServeMux()
	router.Handle("/metrics", promhttp.HandlerFor(gatherer, promhttp.HandlerOpts{}))
	router.HandleFunc("/readyz", readinessHandler(ready))
	ret.Handler = router

	return ret
}

func readinessHandler(ready func() error) http.HandlerFunc {
	return func(w http.ResponseWriter, _ *http.Request) {
		err := ready()
		if err != nil {
			http.Error(w, err.Error(), http.StatusServiceUnavailable)

			return
		}

		_, _ = w.Write([]byte("ok"))
	}
}
