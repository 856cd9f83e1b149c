package domain_test

import (
	"errors"
	"strings"
	"testing"

	"github.com/vladislavdragonenkov/merchstore/internal/domain"
)

func TestShippingAddress_ValidateRequired(t *testing.T) {
	addr := validAddress()
	if errs := addr.ValidateRequired(); len(errs) != 0 {
		t.Fatalf("expected no errors for complete address, got %v", errs)
	}
}

func TestShippingAddress_ValidateRequired_NamesMissingField(t *testing.T) {
	cases := []struct {
		field string
		mut   func(a *domain.ShippingAddress)
	}{
		{"first_name", func(a *domain.ShippingAddress) { a.FirstName = "" }},
		{"last_name", func(a *domain.ShippingAddress) { a.LastName = "" }},
		{"email", func(a *domain.ShippingAddress) { a.Email = "" }},
		{"country", func(a *domain.ShippingAddress) { a.Country = "" }},
		{"region", func(a *domain.ShippingAddress) { a.Region = "" }},
		{"address1", func(a *domain.ShippingAddress) { a.Address1 = "" }},
		{"city", func(a *domain.ShippingAddress) { a.City = "" }},
		{"zip", func(a *domain.ShippingAddress) { a.Zip = "   " }},
	}

	for _, tc := range cases {
		t.Run(tc.field, func(t *testing.T) {
			addr := validAddress()
			tc.mut(&addr)

			errs := addr.ValidateRequired()
			if len(errs) != 1 {
				t.Fatalf("expected exactly 1 error, got %v", errs)
			}
			if !errors.Is(errs[0], domain.ErrAddressFieldRequired) {
				t.Fatalf("expected ErrAddressFieldRequired, got %v", errs[0])
			}
			if !strings.Contains(errs[0].Error(), tc.field) {
				t.Fatalf("expected error to name field %q, got %q", tc.field, errs[0].Error())
			}
		})
	}
}

func TestShippingAddress_ValidateRequired_PhoneAndAddress2Optional(t *testing.T) {
	addr := validAddress()
	addr.Phone = ""
	addr.Address2 = ""
	if errs := addr.ValidateRequired(); len(errs) != 0 {
		t.Fatalf("phone and address2 must be optional, got %v", errs)
	}
}

func TestShippingAddress_Normalize(t *testing.T) {
	addr := domain.ShippingAddress{FirstName: "  Ivan ", City: "\tMoscow\n"}
	got := addr.Normalize()
	if got.FirstName != "Ivan" || got.City != "Moscow" {
		t.Fatalf("expected trimmed fields, got %+v", got)
	}
}
