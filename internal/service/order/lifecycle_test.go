package order_test

import (
	"context"
	"errors"
	"testing"

	"github.com/vladislavdragonenkov/merchstore/internal/domain"
	"github.com/vladislavdragonenkov/merchstore/internal/service/order"
)

type fakeProvider struct {
	domain.FulfillmentProvider

	createOrder      func(ctx context.Context, draft domain.OrderDraft) (domain.Order, error)
	getOrder         func(ctx context.Context, orderID string) (domain.Order, error)
	sendToProduction func(ctx context.Context, orderID string) error
	cancelOrder      func(ctx context.Context, orderID string) error

	createCalls int
	submitCalls int
}

func (f *fakeProvider) CreateOrder(ctx context.Context, draft domain.OrderDraft) (domain.Order, error) {
	f.createCalls++
	return f.createOrder(ctx, draft)
}

func (f *fakeProvider) GetOrder(ctx context.Context, orderID string) (domain.Order, error) {
	return f.getOrder(ctx, orderID)
}

func (f *fakeProvider) SendToProduction(ctx context.Context, orderID string) error {
	f.submitCalls++
	return f.sendToProduction(ctx, orderID)
}

func (f *fakeProvider) CancelOrder(ctx context.Context, orderID string) error {
	return f.cancelOrder(ctx, orderID)
}

func validDraft() domain.OrderDraft {
	return domain.OrderDraft{
		ExternalID: "MERCH-1",
		LineItems:  []domain.LineItem{{ProductID: "p1", VariantID: 2, Quantity: 1}},
		AddressTo: domain.ShippingAddress{
			FirstName: "Ivan", LastName: "Petrov", Email: "ivan@example.com",
			Country: "US", Region: "CA", Address1: "1 Main St", City: "SF", Zip: "94105",
		},
	}
}

func TestCreate_InvalidDraftSkipsNetwork(t *testing.T) {
	p := &fakeProvider{createOrder: func(context.Context, domain.OrderDraft) (domain.Order, error) {
		return domain.Order{ID: "o1"}, nil
	}}
	lifecycle := order.NewLifecycle(p, nil)

	_, err := lifecycle.Create(context.Background(), domain.OrderDraft{})
	if !errors.Is(err, domain.ErrInvalidOrderData) {
		t.Fatalf("expected ErrInvalidOrderData, got %v", err)
	}
	if p.createCalls != 0 {
		t.Fatalf("invalid draft must not reach the provider, got %d calls", p.createCalls)
	}
}

func TestCreate_ValidDraft(t *testing.T) {
	p := &fakeProvider{createOrder: func(_ context.Context, draft domain.OrderDraft) (domain.Order, error) {
		return domain.Order{ID: "o1", ExternalID: draft.ExternalID, Status: domain.OrderStatusDraft}, nil
	}}
	lifecycle := order.NewLifecycle(p, nil)

	created, err := lifecycle.Create(context.Background(), validDraft())
	if err != nil {
		t.Fatalf("create: %v", err)
	}
	if created.ID != "o1" || created.ExternalID != "MERCH-1" {
		t.Fatalf("unexpected order: %+v", created)
	}
}

func TestSubmitForProduction_DraftSubmits(t *testing.T) {
	p := &fakeProvider{
		getOrder: func(context.Context, string) (domain.Order, error) {
			return domain.Order{ID: "o1", Status: domain.OrderStatusDraft}, nil
		},
		sendToProduction: func(context.Context, string) error { return nil },
	}
	lifecycle := order.NewLifecycle(p, nil)

	if err := lifecycle.SubmitForProduction(context.Background(), "o1"); err != nil {
		t.Fatalf("submit: %v", err)
	}
	if p.submitCalls != 1 {
		t.Fatalf("expected 1 submit call, got %d", p.submitCalls)
	}
}

func TestSubmitForProduction_InvalidTransitions(t *testing.T) {
	cases := []struct {
		name   string
		status domain.OrderStatus
	}{
		{"pending payment", domain.OrderStatusPending},
		{"in production", domain.OrderStatusInProduction},
		{"shipped", domain.OrderStatusShipped},
		{"delivered", domain.OrderStatusDelivered},
		{"canceled", domain.OrderStatusCanceled},
		{"on hold", domain.OrderStatusOnHold},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			p := &fakeProvider{
				getOrder: func(context.Context, string) (domain.Order, error) {
					return domain.Order{ID: "o1", Status: tc.status}, nil
				},
				sendToProduction: func(context.Context, string) error { return nil },
			}
			lifecycle := order.NewLifecycle(p, nil)

			err := lifecycle.SubmitForProduction(context.Background(), "o1")
			if !errors.Is(err, domain.ErrInvalidTransition) {
				t.Fatalf("expected ErrInvalidTransition, got %v", err)
			}
			// Недопустимый переход не доходит до submit-вызова.
			if p.submitCalls != 0 {
				t.Fatalf("expected no submit calls, got %d", p.submitCalls)
			}
		})
	}
}

func TestSubmitForProduction_RefreshFailure(t *testing.T) {
	refreshErr := errors.New("provider down")
	p := &fakeProvider{
		getOrder: func(context.Context, string) (domain.Order, error) {
			return domain.Order{}, refreshErr
		},
		sendToProduction: func(context.Context, string) error { return nil },
	}
	lifecycle := order.NewLifecycle(p, nil)

	err := lifecycle.SubmitForProduction(context.Background(), "o1")
	if !errors.Is(err, refreshErr) {
		t.Fatalf("expected refresh error, got %v", err)
	}
	if p.submitCalls != 0 {
		t.Fatal("must not submit when status refresh failed")
	}
}

func TestCancel_PropagatesProviderRefusal(t *testing.T) {
	refusal := errors.New("order cannot be canceled")
	p := &fakeProvider{cancelOrder: func(context.Context, string) error { return refusal }}
	lifecycle := order.NewLifecycle(p, nil)

	if err := lifecycle.Cancel(context.Background(), "o1"); !errors.Is(err, refusal) {
		t.Fatalf("expected provider refusal, got %v", err)
	}
}
