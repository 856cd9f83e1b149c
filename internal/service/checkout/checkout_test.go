package checkout_test

import (
	"context"
	"errors"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/vladislavdragonenkov/merchstore/internal/domain"
	"github.com/vladislavdragonenkov/merchstore/internal/service/catalog"
	"github.com/vladislavdragonenkov/merchstore/internal/service/checkout"
	"github.com/vladislavdragonenkov/merchstore/internal/service/order"
	"github.com/vladislavdragonenkov/merchstore/internal/service/shipping"
	"github.com/vladislavdragonenkov/merchstore/internal/storage/memory"
)

// fakeProvider — управляемый провайдер для сквозных тестов оркестратора.
type fakeProvider struct {
	domain.FulfillmentProvider

	products  map[string]domain.Product
	orders    map[string]domain.Order
	failAll   bool
	submitErr error

	createCalls int
	submitCalls int
}

func (f *fakeProvider) GetProduct(_ context.Context, productID string) (domain.Product, error) {
	if f.failAll {
		return domain.Product{}, errors.New("provider unavailable")
	}
	product, ok := f.products[productID]
	if !ok {
		return domain.Product{}, domain.ErrProductNotFound
	}
	return product, nil
}

func (f *fakeProvider) CalculateShipping(context.Context, []domain.LineItem, domain.ShippingAddress) (domain.ShippingQuote, error) {
	if f.failAll {
		return domain.ShippingQuote{}, errors.New("provider unavailable")
	}
	return domain.ShippingQuote{StandardMinor: 900}, nil
}

func (f *fakeProvider) CreateOrder(_ context.Context, draft domain.OrderDraft) (domain.Order, error) {
	f.createCalls++
	if f.failAll {
		return domain.Order{}, errors.New("provider unavailable")
	}
	created := domain.Order{
		ID:         "order-1",
		ExternalID: draft.ExternalID,
		Status:     domain.OrderStatusDraft,
	}
	f.orders[created.ID] = created
	return created, nil
}

func (f *fakeProvider) GetOrder(_ context.Context, orderID string) (domain.Order, error) {
	o, ok := f.orders[orderID]
	if !ok {
		return domain.Order{}, domain.ErrOrderNotFound
	}
	return o, nil
}

func (f *fakeProvider) SendToProduction(_ context.Context, orderID string) error {
	f.submitCalls++
	if f.submitErr != nil {
		return f.submitErr
	}
	o := f.orders[orderID]
	o.Status = domain.OrderStatusInProduction
	f.orders[orderID] = o
	return nil
}

type capturingPublisher struct {
	events []domain.OrderEvent
}

func (p *capturingPublisher) PublishOrderEvent(event domain.OrderEvent) error {
	p.events = append(p.events, event)
	return nil
}

func newFakeProvider() *fakeProvider {
	return &fakeProvider{
		products: map[string]domain.Product{
			"p1": {
				ID:      "p1",
				Title:   "Hoodie",
				Visible: true,
				Variants: []domain.Variant{
					{ID: 2, Title: "M", PriceMinor: 2000, Enabled: true, Available: true},
				},
			},
		},
		orders: make(map[string]domain.Order),
	}
}

func newService(p *fakeProvider, records domain.OrderRecordRepository, events domain.OrderEventPublisher) *checkout.Service {
	opts := []checkout.Option{checkout.WithSettleWait(0)}
	if events != nil {
		opts = append(opts, checkout.WithEventPublisher(events))
	}
	return checkout.NewService(
		catalog.NewValidator(p, nil),
		shipping.NewEstimator(p, nil, nil),
		order.NewLifecycle(p, nil),
		records,
		nil,
		opts...,
	)
}

func usAddress() domain.ShippingAddress {
	return domain.ShippingAddress{
		FirstName: "Ivan", LastName: "Petrov", Email: "ivan@example.com",
		Country: "US", Region: "CA", Address1: "1 Main St", City: "SF", Zip: "94105",
	}
}

func cart() []domain.CartItem {
	return []domain.CartItem{{ProductID: "p1", Name: "Hoodie", VariantID: 2, Quantity: 3, UnitPriceMinor: 2000}}
}

func TestCalculate_EmptyCart(t *testing.T) {
	svc := newService(newFakeProvider(), nil, nil)
	_, err := svc.Calculate(context.Background(), nil, usAddress())
	require.ErrorIs(t, err, domain.ErrCartEmpty)
}

func TestCalculate_MissingAddress(t *testing.T) {
	svc := newService(newFakeProvider(), nil, nil)
	_, err := svc.Calculate(context.Background(), cart(), domain.ShippingAddress{})
	require.ErrorIs(t, err, domain.ErrAddressRequired)
}

func TestCalculate_HappyPath(t *testing.T) {
	svc := newService(newFakeProvider(), nil, nil)

	result, err := svc.Calculate(context.Background(), cart(), usAddress())
	require.NoError(t, err)

	assert.False(t, result.FallbackUsed)
	assert.Equal(t, int64(6000), result.Calculation.SubtotalMinor)
	assert.Equal(t, int64(900), result.Calculation.ShippingMinor)
	assert.Equal(t, int64(480), result.Calculation.TaxMinor)
	assert.Equal(t, int64(7380), result.Calculation.TotalMinor)
	require.NotEmpty(t, result.ShippingOptions)
	assert.Equal(t, int64(900), result.ShippingOptions[0].RateMinor)
}

func TestCalculate_ProviderDownDegradesToFallback(t *testing.T) {
	p := newFakeProvider()
	p.failAll = true
	svc := newService(p, nil, nil)

	result, err := svc.Calculate(context.Background(), cart(), usAddress())
	require.NoError(t, err, "calculate must not fail when provider is down")

	assert.True(t, result.FallbackUsed)
	// Цена клиента, fallback-тариф 500 + 2*200 и налог от подытога.
	assert.Equal(t, int64(6000), result.Calculation.SubtotalMinor)
	assert.Equal(t, int64(900), result.Calculation.ShippingMinor)
	assert.Equal(t, int64(480), result.Calculation.TaxMinor)
}

func TestPlaceOrder_MissingEmailNamesField(t *testing.T) {
	p := newFakeProvider()
	svc := newService(p, nil, nil)

	addr := usAddress()
	addr.Email = ""
	_, err := svc.PlaceOrder(context.Background(), cart(), addr, true)

	require.ErrorIs(t, err, domain.ErrAddressFieldRequired)
	assert.Contains(t, err.Error(), "email")
	assert.Zero(t, p.createCalls, "validation failure must not create an order")
}

func TestPlaceOrder_StrictCatalogFailure(t *testing.T) {
	p := newFakeProvider()
	p.failAll = true
	svc := newService(p, nil, nil)

	_, err := svc.PlaceOrder(context.Background(), cart(), usAddress(), true)
	require.Error(t, err, "place order must not degrade to fallback pricing")
	assert.Zero(t, p.createCalls)
}

func TestPlaceOrder_HappyPath(t *testing.T) {
	p := newFakeProvider()
	records := memory.NewOrderRecordRepository()
	publisher := &capturingPublisher{}
	svc := newService(p, records, publisher)

	result, err := svc.PlaceOrder(context.Background(), cart(), usAddress(), true)
	require.NoError(t, err)

	assert.True(t, result.PaymentProcessed)
	assert.Equal(t, "order-1", result.Order.ID)
	assert.True(t, strings.HasPrefix(result.Order.ExternalID, "MERCH-"), "external id %q", result.Order.ExternalID)
	assert.Equal(t, domain.OrderStatusInProduction, result.Order.Status)
	assert.Equal(t, 1, p.submitCalls)

	// Локальная запись создана и получила пост-переходный статус.
	record, err := records.Get("order-1")
	require.NoError(t, err)
	assert.Equal(t, domain.OrderStatusInProduction, record.Status)

	require.Len(t, publisher.events, 2)
	assert.Equal(t, checkout.EventOrderCreated, publisher.events[0].Type)
	assert.Equal(t, checkout.EventOrderSubmitted, publisher.events[1].Type)
}

func TestPlaceOrder_ProductionFailureKeepsOrder(t *testing.T) {
	p := newFakeProvider()
	p.submitErr = errors.New("provider rejected submission")
	records := memory.NewOrderRecordRepository()
	publisher := &capturingPublisher{}
	svc := newService(p, records, publisher)

	result, err := svc.PlaceOrder(context.Background(), cart(), usAddress(), true)
	require.NoError(t, err, "production failure is not a placement error")

	assert.False(t, result.PaymentProcessed)
	assert.Equal(t, "order-1", result.Order.ID)
	assert.Contains(t, result.Message, "payment processing failed")
	// Заказ не откатывается.
	assert.Equal(t, domain.OrderStatusDraft, result.Order.Status)

	require.Len(t, publisher.events, 2)
	assert.Equal(t, checkout.EventOrderCreated, publisher.events[0].Type)
	assert.Equal(t, checkout.EventOrderSubmitFailed, publisher.events[1].Type)
}

func TestPlaceOrder_WithoutPayment(t *testing.T) {
	p := newFakeProvider()
	svc := newService(p, nil, nil)

	result, err := svc.PlaceOrder(context.Background(), cart(), usAddress(), false)
	require.NoError(t, err)

	assert.False(t, result.PaymentProcessed)
	assert.Zero(t, p.submitCalls, "processPayment=false must not submit to production")
	assert.Equal(t, domain.OrderStatusDraft, result.Order.Status)
}

func TestPlaceOrder_EmptyCart(t *testing.T) {
	svc := newService(newFakeProvider(), nil, nil)
	_, err := svc.PlaceOrder(context.Background(), nil, usAddress(), true)
	require.ErrorIs(t, err, domain.ErrCartEmpty)
}
