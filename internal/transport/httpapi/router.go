package httpapi

import (
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	log "github.com/sirupsen/logrus"

	"github.com/vladislavdragonenkov/merchstore/internal/domain"
	"github.com/vladislavdragonenkov/merchstore/internal/service/checkout"
)

// RouterConfig — зависимости публичного API.
type RouterConfig struct {
	Checkout *checkout.Service
	Provider domain.FulfillmentProvider
	Logger   *log.Entry
	// Development включает debug-детали в ответах об ошибках.
	Development bool
}

// NewRouter собирает chi-роутер публичного API витрины.
func NewRouter(cfg RouterConfig) http.Handler {
	logger := cfg.Logger
	if logger == nil {
		logger = log.New().WithField("component", "http")
	}
	env := &handlerEnv{development: cfg.Development}

	checkoutHandler := newCheckoutHandler(cfg.Checkout, logger.WithField("handler", "checkout"), env)
	ordersHandler := newOrdersHandler(cfg.Provider, logger.WithField("handler", "orders"), env)
	productsHandler := newProductsHandler(cfg.Provider, logger.WithField("handler", "products"), env)

	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(requestLogger(logger))
	r.Use(middleware.Recoverer)
	// Таймаут заведомо больше клиентского таймаута провайдера (45s):
	// запрос должен успеть отработать полный retry-цикл.
	r.Use(middleware.Timeout(3 * time.Minute))

	r.Route("/api", func(r chi.Router) {
		r.Post("/checkout", checkoutHandler.PlaceOrder)
		r.Post("/checkout/calculate", checkoutHandler.Calculate)

		r.Get("/orders", ordersHandler.List)
		r.Get("/orders/{id}", ordersHandler.Get)

		r.Get("/products", productsHandler.List)
		r.Get("/products/{id}", productsHandler.Get)
	})

	return r
}

// requestLogger логирует каждый запрос со статусом и длительностью.
func requestLogger(logger *log.Entry) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			ww := middleware.NewWrapResponseWriter(w, r.ProtoMajor)
			start := time.Now()

			next.ServeHTTP(ww, r)

			logger.WithFields(log.Fields{
				"method":   r.Method,
				"path":     r.URL.Path,
				"status":   ww.Status(),
				"duration": time.Since(start).String(),
			}).Info("http request")
		})
	}
}
