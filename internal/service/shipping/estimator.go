package shipping

import (
	"context"
	"errors"
	"math"

	log "github.com/sirupsen/logrus"

	"github.com/vladislavdragonenkov/merchstore/internal/domain"
	"github.com/vladislavdragonenkov/merchstore/internal/metrics"
	"github.com/vladislavdragonenkov/merchstore/internal/provider"
)

// Базовые тарифы fallback-таблицы в центах, плоская ставка за отправление.
// Единственная каноническая таблица: при недоступности провайдера все пути
// расчёта пользуются только ею.
const (
	baseUS            = 500
	baseCA            = 800
	baseEurope        = 1200
	baseOceania       = 1500
	baseInternational = 1800

	// perExtraItemMinor — доплата за каждую единицу сверх первой.
	perExtraItemMinor = 200
	// expressMultiplier — экспресс-доставка как множитель стандартной.
	expressMultiplier = 2.5
)

// europeanCountries — страны с европейским тарифом.
var europeanCountries = map[string]bool{
	"GB": true, "DE": true, "FR": true, "IT": true, "ES": true, "NL": true,
	"BE": true, "AT": true, "CH": true, "IE": true, "PT": true,
}

// Estimator считает доставку и полную стоимость заказа. Основной путь —
// котировка провайдера; любой его сбой детерминированно понижается до
// локальной таблицы тарифов с типизированным признаком fallback.
type Estimator struct {
	provider domain.FulfillmentProvider
	logger   *log.Entry
	metrics  *metrics.CheckoutMetrics
}

// NewEstimator создаёт эстиматор. metrics может быть nil (для тестов).
func NewEstimator(p domain.FulfillmentProvider, m *metrics.CheckoutMetrics, logger *log.Entry) *Estimator {
	if logger == nil {
		logger = log.New().WithField("component", "shipping-estimator")
	}
	return &Estimator{provider: p, metrics: m, logger: logger}
}

// BaseRateMinor возвращает базовый тариф за отправление для страны (ISO-2).
func BaseRateMinor(country string) int64 {
	switch {
	case country == "US":
		return baseUS
	case country == "CA":
		return baseCA
	case europeanCountries[country]:
		return baseEurope
	case country == "AU" || country == "NZ":
		return baseOceania
	default:
		return baseInternational
	}
}

// FallbackQuote считает доставку по локальной таблице:
// base + max(0, itemCount-1) * 200; express = standard * 2.5.
func FallbackQuote(items []domain.LineItem, country string, reason domain.FallbackReason) domain.ShippingQuote {
	itemCount := domain.TotalItemCount(items)
	standard := BaseRateMinor(country)
	if itemCount > 1 {
		standard += int64(itemCount-1) * perExtraItemMinor
	}
	if reason == domain.FallbackNone {
		reason = domain.FallbackProviderError
	}
	return domain.ShippingQuote{
		StandardMinor: standard,
		ExpressMinor:  int64(math.Round(float64(standard) * expressMultiplier)),
		Fallback:      reason,
	}
}

// EstimateShipping возвращает котировку доставки. Не возвращает ошибку:
// сбой провайдера переводит расчёт на таблицу тарифов, причина фиксируется
// в Quote.Fallback — вызывающая сторона видит типизированный сигнал, а не
// побочный эффект перехваченного исключения.
func (e *Estimator) EstimateShipping(ctx context.Context, items []domain.LineItem, address domain.ShippingAddress) domain.ShippingQuote {
	quote, err := e.provider.CalculateShipping(ctx, items, address)
	if err == nil {
		return quote
	}

	reason := domain.FallbackProviderError
	var apiErr *provider.APIError
	if errors.As(err, &apiErr) && apiErr.Kind == provider.KindTimeout {
		reason = domain.FallbackProviderTimeout
	}

	e.logger.WithError(err).WithFields(log.Fields{
		"country":    address.Country,
		"item_count": domain.TotalItemCount(items),
	}).Warn("provider shipping quote failed, using tier table")
	if e.metrics != nil {
		e.metrics.RecordShippingFallback()
	}

	return FallbackQuote(items, address.Country, reason)
}

// EstimateOrderCost собирает полный расчёт: подытог по позициям, доставка
// (с возможным fallback) и упрощённый налог. Вся арифметика в центах.
func (e *Estimator) EstimateOrderCost(ctx context.Context, items []domain.PricedLineItem, address domain.ShippingAddress) (domain.OrderCalculation, domain.ShippingQuote) {
	lineItems := make([]domain.LineItem, 0, len(items))
	for _, item := range items {
		lineItems = append(lineItems, item.LineItem)
	}

	quote := e.EstimateShipping(ctx, lineItems, address)
	return BuildCalculation(items, quote, address.Country), quote
}

// BuildCalculation — чистая сборка расчёта из готовых входов; вынесена
// отдельно, чтобы checkout мог собрать полный client-side fallback без сети.
func BuildCalculation(items []domain.PricedLineItem, quote domain.ShippingQuote, country string) domain.OrderCalculation {
	subtotal := domain.Subtotal(items)
	tax := domain.TaxMinor(subtotal, country)

	return domain.OrderCalculation{
		LineItems:     items,
		SubtotalMinor: subtotal,
		ShippingMinor: quote.StandardMinor,
		TaxMinor:      tax,
		TotalMinor:    subtotal + quote.StandardMinor + tax,
		Currency:      domain.DefaultCurrency,
	}
}
