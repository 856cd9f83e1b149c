package domain_test

import (
	"errors"
	"testing"

	"github.com/vladislavdragonenkov/merchstore/internal/domain"
)

func TestOrderStatus_CanSendToProduction(t *testing.T) {
	cases := []struct {
		status domain.OrderStatus
		want   bool
	}{
		{domain.OrderStatusDraft, true},
		{domain.OrderStatusPending, false},
		{domain.OrderStatusOnHold, false},
		{domain.OrderStatusInProduction, false},
		{domain.OrderStatusShipped, false},
		{domain.OrderStatusDelivered, false},
		{domain.OrderStatusCanceled, false},
	}

	for _, tc := range cases {
		if got := tc.status.CanSendToProduction(); got != tc.want {
			t.Errorf("%s: expected CanSendToProduction=%v, got %v", tc.status, tc.want, got)
		}
	}
}

func TestLineItem_Validate(t *testing.T) {
	cases := []struct {
		name    string
		item    domain.LineItem
		wantErr error
	}{
		{"valid", domain.LineItem{ProductID: "p1", VariantID: 1, Quantity: 1}, nil},
		{"empty product id", domain.LineItem{VariantID: 1, Quantity: 1}, domain.ErrProductIDRequired},
		{"zero variant", domain.LineItem{ProductID: "p1", Quantity: 1}, domain.ErrVariantIDRequired},
		{"zero quantity", domain.LineItem{ProductID: "p1", VariantID: 1}, domain.ErrQuantityInvalid},
		{"negative quantity", domain.LineItem{ProductID: "p1", VariantID: 1, Quantity: -2}, domain.ErrQuantityInvalid},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			err := tc.item.Validate()
			if tc.wantErr == nil {
				if err != nil {
					t.Fatalf("expected no error, got %v", err)
				}
				return
			}
			if !errors.Is(err, tc.wantErr) {
				t.Fatalf("expected %v, got %v", tc.wantErr, err)
			}
		})
	}
}

func TestOrderDraft_ValidateInvariants(t *testing.T) {
	draft := domain.OrderDraft{
		LineItems: []domain.LineItem{{ProductID: "p1", VariantID: 1, Quantity: 1}},
		AddressTo: validAddress(),
	}
	if errs := draft.ValidateInvariants(); len(errs) != 0 {
		t.Fatalf("expected no validation errors, got %v", errs)
	}

	empty := domain.OrderDraft{}
	errs := empty.ValidateInvariants()
	if len(errs) == 0 {
		t.Fatal("expected validation errors for empty draft")
	}
	found := false
	for _, err := range errs {
		if errors.Is(err, domain.ErrLineItemsRequired) {
			found = true
		}
	}
	if !found {
		t.Fatalf("expected ErrLineItemsRequired among %v", errs)
	}
}

func validAddress() domain.ShippingAddress {
	return domain.ShippingAddress{
		FirstName: "Ivan",
		LastName:  "Petrov",
		Email:     "ivan@example.com",
		Country:   "US",
		Region:    "CA",
		Address1:  "1 Main St",
		City:      "San Francisco",
		Zip:       "94105",
	}
}
