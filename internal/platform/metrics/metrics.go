// Package metrics exposes the process-wide Prometheus registry over HTTP.
// Module metrics live next to their module and register through promauto.
package metrics

import (
	"net/http"

	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Handler serves the default Prometheus registry.
func Handler() http.Handler {
	return promhttp.Handler()
}
