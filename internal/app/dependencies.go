package app

import (
	log "github.com/sirupsen/logrus"

	"github.com/vladislavdragonenkov/merchstore/internal/domain"
	"github.com/vladislavdragonenkov/merchstore/internal/metrics"
	"github.com/vladislavdragonenkov/merchstore/internal/provider"
	"github.com/vladislavdragonenkov/merchstore/internal/service/catalog"
	"github.com/vladislavdragonenkov/merchstore/internal/service/checkout"
	"github.com/vladislavdragonenkov/merchstore/internal/service/order"
	"github.com/vladislavdragonenkov/merchstore/internal/service/shipping"
)

// Dependencies содержит собранный сервисный граф приложения.
type Dependencies struct {
	Provider *provider.Client
	Checkout *checkout.Service
	Metrics  *metrics.CheckoutMetrics
	Logger   *log.Entry
}

// NewDependencies строит сервисный граф: лимитер -> клиент провайдера ->
// валидатор каталога, оценщик доставки, жизненный цикл -> оркестратор checkout.
func NewDependencies(cfg Config, records domain.OrderRecordRepository, events domain.OrderEventPublisher, logger *log.Entry) (*Dependencies, error) {
	if logger == nil {
		logger = log.WithField("component", "app")
	}

	checkoutMetrics := metrics.NewCheckoutMetrics()

	limiter := provider.NewRateLimiter(provider.DefaultRateLimit, provider.DefaultRateWindow)
	client, err := provider.NewClient(provider.Config{
		Token:   cfg.ProviderToken,
		ShopID:  cfg.ProviderShopID,
		BaseURL: cfg.ProviderBaseURL,
	}, limiter, checkoutMetrics, logger.WithField("component", "provider"))
	if err != nil {
		return nil, err
	}

	validator := catalog.NewValidator(client, logger.WithField("component", "catalog"))
	estimator := shipping.NewEstimator(client, checkoutMetrics, logger.WithField("component", "shipping"))
	lifecycle := order.NewLifecycle(client, logger.WithField("component", "order"))

	opts := []checkout.Option{checkout.WithMetrics(checkoutMetrics)}
	if events != nil {
		opts = append(opts, checkout.WithEventPublisher(events))
	}
	checkoutSvc := checkout.NewService(
		validator,
		estimator,
		lifecycle,
		records,
		logger.WithField("component", "checkout"),
		opts...,
	)

	return &Dependencies{
		Provider: client,
		Checkout: checkoutSvc,
		Metrics:  checkoutMetrics,
		Logger:   logger,
	}, nil
}
