package observability

import (
	"net/http"
	"sync"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

var (
	QuoteFetches = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "quote_fetch_total",
			Help: "Gold quote fetch attempts by result",
		},
		[]string{"result"},
	)

	GoldPricePerGram = prometheus.NewGauge(
		prometheus.GaugeOpts{
			Name: "gold_price_per_gram_usd",
			Help: "Last successfully fetched 24k gold price in USD per gram",
		},
	)

	ProductRequests = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "product_requests_total",
			Help: "Product listing requests by HTTP status code",
		},
		[]string{"code"},
	)

	FilterValidationErrors = prometheus.NewCounter(
		prometheus.CounterOpts{
			Name: "filter_validation_errors_total",
			Help: "Product requests rejected for invalid filter or sort input",
		},
	)
)

var registerOnce sync.Once

func Register() {
	registerOnce.Do(func() {
		prometheus.MustRegister(QuoteFetches, GoldPricePerGram, ProductRequests, FilterValidationErrors)
	})
}

// NewServer returns the /metrics server; the caller owns its lifecycle.
func NewServer(port string) *http.Server {
	Register()
	mux := http.NewServeMux()
	mux.Handle("/metrics", promhttp.Handler())
	return &http.Server{Addr: ":" + port, Handler: mux}
}
