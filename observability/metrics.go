package observability

import (
	"net/http"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Metrics counts scrape progress. All counters are safe to use before Serve.
type Metrics struct {
	PagesScraped     prometheus.Counter
	CardsFound       prometheus.Counter
	RowsAppended     prometheus.Counter
	CaptchaChecks    prometheus.Counter
	CookieFailures   prometheus.Counter
	ExtractionErrors *prometheus.CounterVec
}

// NewMetrics builds the counters and registers them with reg. A nil reg
// leaves them unregistered, which tests rely on.
func NewMetrics(reg prometheus.Registerer) *Metrics {
	m := &Metrics{
		PagesScraped: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "imovelweb_pages_scraped_total",
			Help: "Search result pages fully scraped",
		}),
		CardsFound: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "imovelweb_cards_found_total",
			Help: "Listing cards located on scraped pages",
		}),
		RowsAppended: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "imovelweb_rows_appended_total",
			Help: "Rows appended to the CSV output",
		}),
		CaptchaChecks: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "imovelweb_captcha_checks_total",
			Help: "CAPTCHA probes that found the challenge still present",
		}),
		CookieFailures: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "imovelweb_cookie_consent_failures_total",
			Help: "Pages where the cookie banner could not be dismissed",
		}),
		ExtractionErrors: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "imovelweb_extraction_errors_total",
			Help: "Field probes that failed on a card",
		}, []string{"field"}),
	}
	if reg != nil {
		reg.MustRegister(m.PagesScraped, m.CardsFound, m.RowsAppended,
			m.CaptchaChecks, m.CookieFailures, m.ExtractionErrors)
	}
	return m
}

// Serve exposes /metrics for gatherer on addr in the background.
func Serve(addr string, gatherer prometheus.Gatherer) *http.Server {
	mux := http.NewServeMux()
	mux.Handle("/metrics", promhttp.HandlerFor(gatherer, promhttp.HandlerOpts{}))
	srv := &http.Server{Addr: addr, Handler: mux}
	go srv.ListenAndServe()
	return srv
}
