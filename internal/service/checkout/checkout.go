package checkout

import (
	"context"
	"fmt"
	"time"

	log "github.com/sirupsen/logrus"

	"github.com/vladislavdragonenkov/merchstore/internal/domain"
	"github.com/vladislavdragonenkov/merchstore/internal/metrics"
	"github.com/vladislavdragonenkov/merchstore/internal/service/catalog"
	"github.com/vladislavdragonenkov/merchstore/internal/service/order"
	"github.com/vladislavdragonenkov/merchstore/internal/service/shipping"
)

const (
	// defaultSettleWait — пауза после создания заказа перед перечитыванием
	// статуса: провайдеру нужно время на асинхронную обработку. Это эвристика,
	// не гарантия — после ожидания статус всё равно перечитывается.
	defaultSettleWait = 2 * time.Second

	externalIDPrefix = "MERCH"
)

// CalculateResult — итог best-effort расчёта стоимости корзины.
type CalculateResult struct {
	Calculation     domain.OrderCalculation
	ShippingOptions []domain.ShippingOption
	// FallbackUsed выставляется, если хоть какая-то часть расчёта выполнена
	// локально, а не по данным провайдера.
	FallbackUsed bool
}

// PlacementResult — итог оформления заказа.
type PlacementResult struct {
	Order domain.Order
	// PaymentProcessed — заказ отправлен в производство. false не означает
	// откат: заказ создан и остаётся в draft/pending, его можно досабмитить позже.
	PaymentProcessed bool
	Message          string
}

// Service — оркестратор checkout-потока: валидация каталога, расчёт стоимости
// и проведение заказа через жизненный цикл провайдера.
type Service struct {
	catalog  *catalog.Validator
	shipping *shipping.Estimator
	orders   *order.Lifecycle
	records  domain.OrderRecordRepository
	events   domain.OrderEventPublisher
	logger   *log.Entry
	metrics  *metrics.CheckoutMetrics

	settleWait time.Duration
	sleep      func(time.Duration)
	now        func() time.Time
}

// Option настраивает Service.
type Option func(*Service)

// WithEventPublisher задаёт публикатора событий заказов (опционально).
func WithEventPublisher(publisher domain.OrderEventPublisher) Option {
	return func(s *Service) { s.events = publisher }
}

// WithMetrics задаёт метрики (опционально, в тестах обычно отсутствуют).
func WithMetrics(m *metrics.CheckoutMetrics) Option {
	return func(s *Service) { s.metrics = m }
}

// WithSettleWait задаёт паузу перед перечитыванием статуса заказа.
func WithSettleWait(wait time.Duration) Option {
	return func(s *Service) { s.settleWait = wait }
}

// NewService собирает оркестратор из компонентов.
func NewService(
	validator *catalog.Validator,
	estimator *shipping.Estimator,
	lifecycle *order.Lifecycle,
	records domain.OrderRecordRepository,
	logger *log.Entry,
	opts ...Option,
) *Service {
	if logger == nil {
		logger = log.New().WithField("component", "checkout")
	}

	s := &Service{
		catalog:    validator,
		shipping:   estimator,
		orders:     lifecycle,
		records:    records,
		logger:     logger,
		settleWait: defaultSettleWait,
		sleep:      time.Sleep,
		now:        time.Now,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Calculate — best-effort расчёт стоимости корзины. Сбои каталога и
// провайдера невидимы для пользователя: расчёт деградирует до локального
// fallback, а FallbackUsed позволяет отличить оценку от авторитетных цифр.
// Ошибка возвращается только на пустую корзину или отсутствующий адрес.
func (s *Service) Calculate(ctx context.Context, items []domain.CartItem, address domain.ShippingAddress) (CalculateResult, error) {
	start := s.now()
	defer func() {
		if s.metrics != nil {
			s.metrics.ObserveCalculateDuration(time.Since(start))
		}
	}()

	if len(items) == 0 {
		return CalculateResult{}, domain.ErrCartEmpty
	}
	if address == (domain.ShippingAddress{}) {
		return CalculateResult{}, domain.ErrAddressRequired
	}
	address = address.Normalize()

	priced := make([]domain.PricedLineItem, 0, len(items))
	fallbackUsed := false
	for _, item := range items {
		resolved, fellBack := s.catalog.ResolveLenient(ctx, item)
		priced = append(priced, resolved)
		fallbackUsed = fallbackUsed || fellBack
	}

	calculation, quote := s.shipping.EstimateOrderCost(ctx, priced, address)
	if quote.IsFallback() {
		fallbackUsed = true
	}
	if fallbackUsed && s.metrics != nil {
		s.metrics.RecordCalculateFallback()
	}

	return CalculateResult{
		Calculation:     calculation,
		ShippingOptions: quote.Options(),
		FallbackUsed:    fallbackUsed,
	}, nil
}

// PlaceOrder — строгое оформление заказа: каждое поле адреса и каждая позиция
// валидируются, любая проблема прерывает оформление с точной ошибкой.
// После создания заказа неудача отправки в производство заказ не откатывает.
func (s *Service) PlaceOrder(ctx context.Context, items []domain.CartItem, address domain.ShippingAddress, processPayment bool) (PlacementResult, error) {
	start := s.now()
	defer func() {
		if s.metrics != nil {
			s.metrics.ObserveCheckoutDuration(time.Since(start))
		}
	}()

	if len(items) == 0 {
		return PlacementResult{}, domain.ErrCartEmpty
	}
	if address == (domain.ShippingAddress{}) {
		return PlacementResult{}, domain.ErrAddressRequired
	}
	address = address.Normalize()
	if errs := address.ValidateRequired(); len(errs) > 0 {
		return PlacementResult{}, errs[0]
	}

	lineItems := make([]domain.LineItem, 0, len(items))
	for _, item := range items {
		resolved, err := s.catalog.ResolveStrict(ctx, item)
		if err != nil {
			return PlacementResult{}, err
		}
		lineItems = append(lineItems, resolved.LineItem)
	}

	draft := domain.OrderDraft{
		ExternalID:               fmt.Sprintf("%s-%d", externalIDPrefix, s.now().UnixMilli()),
		Label:                    fmt.Sprintf("%s Store Order - %s", externalIDPrefix, s.now().Format("2006-01-02")),
		LineItems:                lineItems,
		AddressTo:                address,
		SendShippingNotification: true,
	}

	created, err := s.orders.Create(ctx, draft)
	if err != nil {
		return PlacementResult{}, err
	}
	if s.metrics != nil {
		s.metrics.RecordOrderPlaced()
	}
	s.recordOrder(created)
	s.publishEvent(EventOrderCreated, created, nil)

	if !processPayment {
		return PlacementResult{
			Order:   created,
			Message: "Order created successfully. Payment processing was not requested.",
		}, nil
	}

	return s.submitToProduction(ctx, created)
}

// submitToProduction: пауза на асинхронную обработку провайдером, перечитывание
// статуса и попытка отправить в производство. Неудача не откатывает заказ.
func (s *Service) submitToProduction(ctx context.Context, created domain.Order) (PlacementResult, error) {
	s.sleep(s.settleWait)

	if err := s.orders.SubmitForProduction(ctx, created.ID); err != nil {
		s.logger.WithError(err).WithField("order_id", created.ID).
			Warn("production submission failed, order remains created")
		if s.metrics != nil {
			s.metrics.RecordProductionFailed()
		}

		final := s.refreshOrder(ctx, created)
		s.publishEvent(EventOrderSubmitFailed, final, map[string]interface{}{"error": err.Error()})
		return PlacementResult{
			Order:            final,
			PaymentProcessed: false,
			Message: fmt.Sprintf("Order created but payment processing failed: %v. "+
				"Please contact support or try again later.", err),
		}, nil
	}

	if s.metrics != nil {
		s.metrics.RecordProductionSubmitted()
	}

	// Переход асинхронный: авторитетный пост-переходный статус — только из
	// повторного чтения, успеху submit-вызова самому по себе не доверяем.
	final := s.refreshOrder(ctx, created)
	s.publishEvent(EventOrderSubmitted, final, nil)
	return PlacementResult{
		Order:            final,
		PaymentProcessed: true,
		Message:          "Order placed and payment processed successfully!",
	}, nil
}

// refreshOrder перечитывает заказ; при сбое возвращает последнее известное
// состояние, обновляя локальную запись при успехе.
func (s *Service) refreshOrder(ctx context.Context, known domain.Order) domain.Order {
	fresh, err := s.orders.Get(ctx, known.ID)
	if err != nil {
		s.logger.WithError(err).WithField("order_id", known.ID).
			Warn("failed to refresh order status")
		return known
	}
	if s.records != nil {
		if err := s.records.UpdateStatus(fresh.ID, fresh.Status); err != nil {
			s.logger.WithError(err).WithField("order_id", fresh.ID).
				Warn("failed to update local order record")
		}
	}
	return fresh
}

func (s *Service) recordOrder(o domain.Order) {
	if s.records == nil {
		return
	}
	now := s.now().UTC()
	record := domain.OrderRecord{
		ID:            o.ID,
		ExternalID:    o.ExternalID,
		Status:        o.Status,
		Currency:      domain.DefaultCurrency,
		TotalMinor:    o.TotalPriceMinor,
		ShippingMinor: o.TotalShippingMinor,
		TaxMinor:      o.TotalTaxMinor,
		CreatedAt:     now,
		UpdatedAt:     now,
	}
	if err := s.records.Create(record); err != nil {
		s.logger.WithError(err).WithField("order_id", o.ID).
			Warn("failed to persist local order record")
	}
}

func (s *Service) publishEvent(eventType string, o domain.Order, metadata map[string]interface{}) {
	if s.events == nil {
		return
	}
	event := domain.OrderEvent{
		Type:       eventType,
		OrderID:    o.ID,
		ExternalID: o.ExternalID,
		Status:     string(o.Status),
		Timestamp:  s.now().UTC(),
		Metadata:   metadata,
	}
	if err := s.events.PublishOrderEvent(event); err != nil {
		// Публикация best-effort: событие теряется, заказ — нет.
		s.logger.WithError(err).WithField("order_id", o.ID).Warn("failed to publish order event")
	}
}

// Типы событий заказа.
const (
	EventOrderCreated      = "order.created"
	EventOrderSubmitted    = "order.submitted"
	EventOrderSubmitFailed = "order.submit_failed"
)
