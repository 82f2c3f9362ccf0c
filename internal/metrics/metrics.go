package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
)

// Metrics holds the portal collectors. Each Server gets its own registry so
// tests can build several side by side.
type Metrics struct {
	Registry *prometheus.Registry

	pageRenders *prometheus.CounterVec
	saves       *prometheus.CounterVec
	scans       *prometheus.CounterVec
	networks    prometheus.Gauge
}

func New() *Metrics {
	m := &Metrics{
		Registry: prometheus.NewRegistry(),
		pageRenders: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "shoecare_portal_page_renders_total",
				Help: "Pages served by the setup portal",
			},
			[]string{"page"},
		),
		saves: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "shoecare_portal_saves_total",
				Help: "Credential submissions by result",
			},
			[]string{"result"},
		),
		scans: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "shoecare_portal_scans_total",
				Help: "WiFi scans by result",
			},
			[]string{"result"},
		),
		networks: prometheus.NewGauge(
			prometheus.GaugeOpts{
				Name: "shoecare_portal_networks",
				Help: "Networks listed by the last scan",
			},
		),
	}
	m.Registry.MustRegister(m.pageRenders, m.saves, m.scans, m.networks)
	return m
}

func (m *Metrics) PageRendered(page string) { m.pageRenders.WithLabelValues(page).Inc() }

// SaveResult counts a submission; result is "ok", "invalid" or "error".
func (m *Metrics) SaveResult(result string) { m.saves.WithLabelValues(result).Inc() }

func (m *Metrics) ScanResult(networks int, err error) {
	if err != nil {
		m.scans.WithLabelValues("error").Inc()
		return
	}
	m.scans.WithLabelValues("ok").Inc()
	m.networks.Set(float64(networks))
}
