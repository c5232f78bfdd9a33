// lootfilter/pkg/runtime/metrics.go

package runtime

import (
	"bufio"
	"errors"
	"net"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// metrics exposes the engine counters in Prometheus format. Values are read from
// the stats source at scrape time.
type metrics struct {
	registry *prometheus.Registry
	httpReqs *prometheus.CounterVec
}

func newMetrics(source StatsSource, clients func() int) *metrics {
	m := &metrics{
		registry: prometheus.NewRegistry(),
		httpReqs: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "lootfilter_http_requests_total",
				Help: "Total dashboard HTTP requests",
			},
			[]string{"route", "method", "status"},
		),
	}

	counter := func(name, help string, value func(Stats) int64) prometheus.Collector {
		return prometheus.NewCounterFunc(prometheus.CounterOpts{Name: name, Help: help}, func() float64 {
			return float64(value(source.GetStats()))
		})
	}

	m.registry.MustRegister(
		m.httpReqs,
		counter("lootfilter_items_evaluated_total", "Items run through the rule set",
			func(s Stats) int64 { return s.ItemsEvaluated }),
		counter("lootfilter_items_shown_total", "Evaluated items left visible by a rule",
			func(s Stats) int64 { return s.ItemsShown }),
		counter("lootfilter_items_hidden_total", "Evaluated items hidden by a rule",
			func(s Stats) int64 { return s.ItemsHidden }),
		counter("lootfilter_items_unmatched_total", "Evaluated items no rule matched",
			func(s Stats) int64 { return s.ItemsUnmatched }),
		counter("lootfilter_reloads_total", "Filter recompilations",
			func(s Stats) int64 { return s.Reloads }),
		prometheus.NewGaugeFunc(prometheus.GaugeOpts{
			Name: "lootfilter_rules",
			Help: "Rules in the active rule set",
		}, func() float64 { return float64(source.GetStats().Rules) }),
		prometheus.NewGaugeFunc(prometheus.GaugeOpts{
			Name: "lootfilter_dashboard_clients",
			Help: "Connected websocket clients",
		}, func() float64 { return float64(clients()) }),
	)
	return m
}

func (m *metrics) handler() http.Handler {
	return promhttp.HandlerFor(m.registry, promhttp.HandlerOpts{})
}

func (m *metrics) middleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		ww := &statusWriter{ResponseWriter: w, status: http.StatusOK}
		next.ServeHTTP(ww, r)

		route := r.URL.Path
		if rc := chi.RouteContext(r.Context()); rc != nil && rc.RoutePattern() != "" {
			route = rc.RoutePattern()
		}
		m.httpReqs.WithLabelValues(route, r.Method, http.StatusText(ww.status)).Inc()
	})
}

type statusWriter struct {
	http.ResponseWriter
	status int
}

func (w *statusWriter) WriteHeader(code int) {
	w.status = code
	w.ResponseWriter.WriteHeader(code)
}

// Hijack lets the websocket upgrade take over the connection.
func (w *statusWriter) Hijack() (net.Conn, *bufio.ReadWriter, error) {
	h, ok := w.ResponseWriter.(http.Hijacker)
	if !ok {
		return nil, nil, errors.New("response writer does not support hijacking")
	}
	w.status = http.StatusSwitchingProtocols
	return h.Hijack()
}
