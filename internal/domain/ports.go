package domain

import (
	"context"
	"time"
)

// FulfillmentProvider описывает взаимодействие с print-on-demand провайдером.
// Реализация обязана конвертировать wire-формат провайдера в доменные типы
// сразу после получения ответа (parse-don't-trust).
type FulfillmentProvider interface {
	// GetProduct возвращает продукт каталога или ErrProductNotFound.
	GetProduct(ctx context.Context, productID string) (Product, error)
	// ListProducts возвращает страницу каталога.
	ListProducts(ctx context.Context, page, limit int) (ProductPage, error)
	// CalculateShipping запрашивает у провайдера стоимость доставки.
	CalculateShipping(ctx context.Context, items []LineItem, address ShippingAddress) (ShippingQuote, error)
	// CreateOrder создаёт заказ у провайдера.
	CreateOrder(ctx context.Context, draft OrderDraft) (Order, error)
	// GetOrder возвращает заказ или ErrOrderNotFound.
	GetOrder(ctx context.Context, orderID string) (Order, error)
	// ListOrders возвращает страницу заказов магазина.
	ListOrders(ctx context.Context, page, limit int) (OrderPage, error)
	// SendToProduction отправляет заказ в производство.
	SendToProduction(ctx context.Context, orderID string) error
	// CancelOrder отменяет заказ; допустимость отмены определяет провайдер.
	CancelOrder(ctx context.Context, orderID string) error
}

// OrderEvent — событие жизненного цикла заказа для downstream-потребителей.
type OrderEvent struct {
	Type       string
	OrderID    string
	ExternalID string
	Status     string
	Timestamp  time.Time
	Metadata   map[string]interface{}
}

// OrderEventPublisher публикует события заказов; публикация best-effort,
// ошибка не должна откатывать оформление заказа.
type OrderEventPublisher interface {
	PublishOrderEvent(event OrderEvent) error
}
