package domain

import (
	"fmt"
	"strings"
	"time"
)

// OrderStatus описывает статус заказа на стороне print-on-demand провайдера.
// Статус принадлежит провайдеру: мы его только читаем и запрашиваем переходы.
type OrderStatus string

const (
	// OrderStatusDraft — заказ создан, но не отправлен в производство.
	OrderStatusDraft OrderStatus = "draft"
	// OrderStatusPending — заказ ожидает оплаты на стороне провайдера.
	OrderStatusPending OrderStatus = "pending"
	// OrderStatusOnHold — заказ приостановлен провайдером.
	OrderStatusOnHold OrderStatus = "on-hold"
	// OrderStatusInProduction — заказ принят в производство.
	OrderStatusInProduction OrderStatus = "in_production"
	// OrderStatusShipped — заказ отгружен.
	OrderStatusShipped OrderStatus = "shipped"
	// OrderStatusDelivered — заказ доставлен покупателю.
	OrderStatusDelivered OrderStatus = "delivered"
	// OrderStatusCanceled — заказ отменён.
	OrderStatusCanceled OrderStatus = "canceled"
)

// CanSendToProduction сообщает, допустим ли переход в производство из данного статуса.
// Провайдер принимает send_to_production только для draft.
func (s OrderStatus) CanSendToProduction() bool {
	return s == OrderStatusDraft
}

// CanCancel сообщает, допустима ли отмена из данного статуса.
func (s OrderStatus) CanCancel() bool {
	return s == OrderStatusDraft || s == OrderStatusPending
}

// LineItem — позиция заказа: продукт, вариант и количество.
type LineItem struct {
	ProductID string
	VariantID int
	Quantity  int
}

// Validate проверяет позицию перед любым сетевым вызовом.
func (li LineItem) Validate() error {
	if strings.TrimSpace(li.ProductID) == "" {
		return ErrProductIDRequired
	}
	if li.VariantID <= 0 {
		return fmt.Errorf("%w: product %s", ErrVariantIDRequired, li.ProductID)
	}
	if li.Quantity <= 0 {
		return fmt.Errorf("%w: product %s", ErrQuantityInvalid, li.ProductID)
	}
	return nil
}

// OrderLineItem — позиция заказа в ответе провайдера, с уже рассчитанной стоимостью.
type OrderLineItem struct {
	ProductID         string
	VariantID         int
	Quantity          int
	CostMinor         int64
	ShippingCostMinor int64
}

// Order агрегирует состояние заказа, которым владеет провайдер.
type Order struct {
	ID                 string
	ExternalID         string
	Label              string
	Status             OrderStatus
	LineItems          []OrderLineItem
	AddressTo          ShippingAddress
	TotalPriceMinor    int64
	TotalShippingMinor int64
	TotalTaxMinor      int64
	CreatedAt          time.Time
	SentToProductionAt *time.Time
}

// OrderDraft — данные для создания заказа у провайдера.
type OrderDraft struct {
	ExternalID               string
	Label                    string
	LineItems                []LineItem
	AddressTo                ShippingAddress
	SendShippingNotification bool
}

// ValidateInvariants проверяет черновик заказа целиком и возвращает список замечаний.
// Все проверки выполняются локально, до обращения к провайдеру.
func (d *OrderDraft) ValidateInvariants() []error {
	var errs []error

	if len(d.LineItems) == 0 {
		errs = append(errs, ErrLineItemsRequired)
	}
	for _, item := range d.LineItems {
		if err := item.Validate(); err != nil {
			errs = append(errs, err)
		}
	}
	errs = append(errs, d.AddressTo.ValidateRequired()...)

	return errs
}
