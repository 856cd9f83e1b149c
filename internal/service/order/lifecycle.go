package order

import (
	"context"
	"errors"
	"fmt"

	log "github.com/sirupsen/logrus"

	"github.com/vladislavdragonenkov/merchstore/internal/domain"
)

// Lifecycle управляет жизненным циклом заказа у провайдера. Статусом владеет
// провайдер: после любого запрошенного перехода авторитетное состояние
// получается только повторным чтением.
type Lifecycle struct {
	provider domain.FulfillmentProvider
	logger   *log.Entry
}

// NewLifecycle создаёт менеджер жизненного цикла.
func NewLifecycle(provider domain.FulfillmentProvider, logger *log.Entry) *Lifecycle {
	if logger == nil {
		logger = log.New().WithField("component", "order-lifecycle")
	}
	return &Lifecycle{provider: provider, logger: logger}
}

// Create валидирует черновик локально и создаёт заказ у провайдера.
// При любой ошибке валидации сетевой вызов не выполняется.
func (l *Lifecycle) Create(ctx context.Context, draft domain.OrderDraft) (domain.Order, error) {
	if errs := draft.ValidateInvariants(); len(errs) > 0 {
		return domain.Order{}, fmt.Errorf("%w: %w", domain.ErrInvalidOrderData, errors.Join(errs...))
	}

	order, err := l.provider.CreateOrder(ctx, draft)
	if err != nil {
		return domain.Order{}, fmt.Errorf("create order: %w", err)
	}

	l.logger.WithFields(log.Fields{
		"order_id":    order.ID,
		"external_id": order.ExternalID,
		"status":      order.Status,
	}).Info("order created at provider")
	return order, nil
}

// SubmitForProduction перечитывает текущий статус заказа (in-memory статусу
// доверять нельзя) и отправляет в производство только из draft. Для любого
// другого статуса возвращает ErrInvalidTransition, не делая submit-вызова.
func (l *Lifecycle) SubmitForProduction(ctx context.Context, orderID string) error {
	current, err := l.provider.GetOrder(ctx, orderID)
	if err != nil {
		return fmt.Errorf("refresh order status: %w", err)
	}

	switch {
	case current.Status.CanSendToProduction():
		// продолжаем ниже
	case current.Status == domain.OrderStatusPending:
		return fmt.Errorf("%w: order %s is pending payment, cannot send to production until payment completes",
			domain.ErrInvalidTransition, orderID)
	case current.Status == domain.OrderStatusInProduction,
		current.Status == domain.OrderStatusShipped,
		current.Status == domain.OrderStatusDelivered:
		return fmt.Errorf("%w: order %s already progressed, status %s",
			domain.ErrInvalidTransition, orderID, current.Status)
	default:
		return fmt.Errorf("%w: order %s cannot be sent to production from status %s",
			domain.ErrInvalidTransition, orderID, current.Status)
	}

	if err := l.provider.SendToProduction(ctx, orderID); err != nil {
		return fmt.Errorf("send to production: %w", err)
	}

	// Провайдер обрабатывает переход асинхронно: успех вызова ещё не значит,
	// что статус сменился. Авторитетное состояние — за повторным чтением.
	l.logger.WithField("order_id", orderID).Info("order submitted for production")
	return nil
}

// Cancel запрашивает отмену заказа; допустимость определяет провайдер,
// его отказ пробрасывается как есть.
func (l *Lifecycle) Cancel(ctx context.Context, orderID string) error {
	if err := l.provider.CancelOrder(ctx, orderID); err != nil {
		return fmt.Errorf("cancel order %s: %w", orderID, err)
	}
	l.logger.WithField("order_id", orderID).Info("order cancel requested")
	return nil
}

// Get возвращает текущее состояние заказа у провайдера.
func (l *Lifecycle) Get(ctx context.Context, orderID string) (domain.Order, error) {
	return l.provider.GetOrder(ctx, orderID)
}
