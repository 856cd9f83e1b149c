package metrics

import (
	"fmt"
	"time"

	"github.com/prometheus/client_golang/prometheus"
)

// CheckoutMetrics содержит метрики витрины: исходящие вызовы провайдера,
// retry/fallback и длительности checkout-операций.
type CheckoutMetrics struct {
	// Счётчики исходящих запросов к провайдеру
	providerRequests *prometheus.CounterVec
	providerRetries  prometheus.Counter
	rateLimited      prometheus.Counter

	// Fallback-расчёты
	shippingFallbacks  prometheus.Counter
	calculateFallbacks prometheus.Counter

	// Заказы
	ordersPlaced        prometheus.Counter
	productionSubmitted prometheus.Counter
	productionFailed    prometheus.Counter

	// Гистограммы времени выполнения
	checkoutDuration  prometheus.Histogram
	calculateDuration prometheus.Histogram
}

// NewCheckoutMetrics создаёт метрики с регистрацией в DefaultRegisterer.
func NewCheckoutMetrics() *CheckoutMetrics {
	return newCheckoutMetricsWithRegisterer(prometheus.DefaultRegisterer)
}

func newCheckoutMetricsWithRegisterer(registerer prometheus.Registerer) *CheckoutMetrics {
	if registerer == nil {
		registerer = prometheus.DefaultRegisterer
	}

	return &CheckoutMetrics{
		providerRequests: registerCounterVec(registerer, prometheus.CounterOpts{
			Name: "merchstore_provider_requests_total",
			Help: "Total number of provider API requests by endpoint and outcome",
		}, []string{"endpoint", "outcome"}),
		providerRetries: registerCounter(registerer, prometheus.CounterOpts{
			Name: "merchstore_provider_retries_total",
			Help: "Total number of provider API request retries",
		}),
		rateLimited: registerCounter(registerer, prometheus.CounterOpts{
			Name: "merchstore_rate_limited_total",
			Help: "Total number of requests rejected by the local rate limiter",
		}),
		shippingFallbacks: registerCounter(registerer, prometheus.CounterOpts{
			Name: "merchstore_shipping_fallbacks_total",
			Help: "Total number of shipping quotes served from the local tier table",
		}),
		calculateFallbacks: registerCounter(registerer, prometheus.CounterOpts{
			Name: "merchstore_calculate_fallbacks_total",
			Help: "Total number of order calculations degraded to client-side fallback",
		}),
		ordersPlaced: registerCounter(registerer, prometheus.CounterOpts{
			Name: "merchstore_orders_placed_total",
			Help: "Total number of orders created at the provider",
		}),
		productionSubmitted: registerCounter(registerer, prometheus.CounterOpts{
			Name: "merchstore_production_submitted_total",
			Help: "Total number of orders successfully sent to production",
		}),
		productionFailed: registerCounter(registerer, prometheus.CounterOpts{
			Name: "merchstore_production_failed_total",
			Help: "Total number of production submissions that failed after order creation",
		}),
		checkoutDuration: registerHistogram(registerer, prometheus.HistogramOpts{
			Name:    "merchstore_checkout_duration_seconds",
			Help:    "Duration of place-order operations in seconds",
			Buckets: prometheus.DefBuckets,
		}),
		calculateDuration: registerHistogram(registerer, prometheus.HistogramOpts{
			Name:    "merchstore_calculate_duration_seconds",
			Help:    "Duration of calculate operations in seconds",
			Buckets: []float64{0.01, 0.05, 0.1, 0.25, 0.5, 1.0, 2.5, 5.0, 10.0, 30.0},
		}),
	}
}

func registerCounter(registerer prometheus.Registerer, opts prometheus.CounterOpts) prometheus.Counter {
	collector := prometheus.NewCounter(opts)
	if err := registerer.Register(collector); err != nil {
		if alreadyRegistered, ok := err.(prometheus.AlreadyRegisteredError); ok {
			existing, ok := alreadyRegistered.ExistingCollector.(prometheus.Counter)
			if !ok {
				panic(fmt.Sprintf("collector %q already registered with unexpected type", opts.Name))
			}
			return existing
		}
		panic(fmt.Sprintf("register counter %q: %v", opts.Name, err))
	}
	return collector
}

func registerCounterVec(registerer prometheus.Registerer, opts prometheus.CounterOpts, labels []string) *prometheus.CounterVec {
	collector := prometheus.NewCounterVec(opts, labels)
	if err := registerer.Register(collector); err != nil {
		if alreadyRegistered, ok := err.(prometheus.AlreadyRegisteredError); ok {
			existing, ok := alreadyRegistered.ExistingCollector.(*prometheus.CounterVec)
			if !ok {
				panic(fmt.Sprintf("collector %q already registered with unexpected type", opts.Name))
			}
			return existing
		}
		panic(fmt.Sprintf("register counter vec %q: %v", opts.Name, err))
	}
	return collector
}

func registerHistogram(registerer prometheus.Registerer, opts prometheus.HistogramOpts) prometheus.Histogram {
	collector := prometheus.NewHistogram(opts)
	if err := registerer.Register(collector); err != nil {
		if alreadyRegistered, ok := err.(prometheus.AlreadyRegisteredError); ok {
			existing, ok := alreadyRegistered.ExistingCollector.(prometheus.Histogram)
			if !ok {
				panic(fmt.Sprintf("collector %q already registered with unexpected type", opts.Name))
			}
			return existing
		}
		panic(fmt.Sprintf("register histogram %q: %v", opts.Name, err))
	}
	return collector
}

// RecordProviderRequest фиксирует исходящий запрос с итогом (ok|error|retryable).
func (m *CheckoutMetrics) RecordProviderRequest(endpoint, outcome string) {
	m.providerRequests.WithLabelValues(endpoint, outcome).Inc()
}

// RecordProviderRetry увеличивает счётчик повторных попыток.
func (m *CheckoutMetrics) RecordProviderRetry() {
	m.providerRetries.Inc()
}

// RecordRateLimited фиксирует отказ локального лимитера.
func (m *CheckoutMetrics) RecordRateLimited() {
	m.rateLimited.Inc()
}

// RecordShippingFallback фиксирует расчёт доставки по локальной таблице тарифов.
func (m *CheckoutMetrics) RecordShippingFallback() {
	m.shippingFallbacks.Inc()
}

// RecordCalculateFallback фиксирует полный client-side fallback расчёта заказа.
func (m *CheckoutMetrics) RecordCalculateFallback() {
	m.calculateFallbacks.Inc()
}

// RecordOrderPlaced увеличивает счётчик созданных заказов.
func (m *CheckoutMetrics) RecordOrderPlaced() {
	m.ordersPlaced.Inc()
}

// RecordProductionSubmitted увеличивает счётчик заказов, ушедших в производство.
func (m *CheckoutMetrics) RecordProductionSubmitted() {
	m.productionSubmitted.Inc()
}

// RecordProductionFailed фиксирует неудачную отправку созданного заказа в производство.
func (m *CheckoutMetrics) RecordProductionFailed() {
	m.productionFailed.Inc()
}

// ObserveCheckoutDuration записывает время выполнения place-order операции.
func (m *CheckoutMetrics) ObserveCheckoutDuration(duration time.Duration) {
	m.checkoutDuration.Observe(duration.Seconds())
}

// ObserveCalculateDuration записывает время выполнения calculate операции.
func (m *CheckoutMetrics) ObserveCalculateDuration(duration time.Duration) {
	m.calculateDuration.Observe(duration.Seconds())
}
