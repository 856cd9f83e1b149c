package catalog_test

import (
	"context"
	"errors"
	"strings"
	"testing"

	"github.com/vladislavdragonenkov/merchstore/internal/domain"
	"github.com/vladislavdragonenkov/merchstore/internal/service/catalog"
)

type fakeProvider struct {
	domain.FulfillmentProvider
	getProduct func(ctx context.Context, productID string) (domain.Product, error)
}

func (f *fakeProvider) GetProduct(ctx context.Context, productID string) (domain.Product, error) {
	return f.getProduct(ctx, productID)
}

func productWithVariants() domain.Product {
	return domain.Product{
		ID:      "p1",
		Title:   "Hoodie",
		Visible: true,
		Variants: []domain.Variant{
			{ID: 1, Title: "S", PriceMinor: 1800, Enabled: false},
			{ID: 2, Title: "M", PriceMinor: 2000, Enabled: true},
			{ID: 3, Title: "L", PriceMinor: 2200, Enabled: true},
		},
	}
}

func TestResolveStrict_RequestedVariant(t *testing.T) {
	p := &fakeProvider{getProduct: func(context.Context, string) (domain.Product, error) {
		return productWithVariants(), nil
	}}
	validator := catalog.NewValidator(p, nil)

	resolved, err := validator.ResolveStrict(context.Background(), domain.CartItem{
		ProductID: "p1", VariantID: 3, Quantity: 2,
	})
	if err != nil {
		t.Fatalf("resolve strict: %v", err)
	}
	if resolved.VariantID != 3 || resolved.UnitCostMinor != 2200 || resolved.Quantity != 2 {
		t.Fatalf("unexpected resolution: %+v", resolved)
	}
}

func TestResolveStrict_DisabledVariantSubstituted(t *testing.T) {
	p := &fakeProvider{getProduct: func(context.Context, string) (domain.Product, error) {
		return productWithVariants(), nil
	}}
	validator := catalog.NewValidator(p, nil)

	// Запрошен выключенный вариант: подменяется первым включённым в порядке провайдера.
	resolved, err := validator.ResolveStrict(context.Background(), domain.CartItem{
		ProductID: "p1", VariantID: 1, Quantity: 1,
	})
	if err != nil {
		t.Fatalf("resolve strict: %v", err)
	}
	if resolved.VariantID != 2 {
		t.Fatalf("expected substitution to variant 2, got %d", resolved.VariantID)
	}
	if resolved.UnitCostMinor != 2000 {
		t.Fatalf("expected substituted variant price 2000, got %d", resolved.UnitCostMinor)
	}
}

func TestResolveStrict_NoEnabledVariants(t *testing.T) {
	p := &fakeProvider{getProduct: func(context.Context, string) (domain.Product, error) {
		return domain.Product{
			ID:       "p1",
			Variants: []domain.Variant{{ID: 1, Enabled: false}},
		}, nil
	}}
	validator := catalog.NewValidator(p, nil)

	_, err := validator.ResolveStrict(context.Background(), domain.CartItem{
		ProductID: "p1", Name: "Hoodie", VariantID: 1, Quantity: 1,
	})
	if !errors.Is(err, domain.ErrNoValidVariant) {
		t.Fatalf("expected ErrNoValidVariant, got %v", err)
	}
	if !strings.Contains(err.Error(), "Hoodie") {
		t.Fatalf("error must name the product: %v", err)
	}
}

func TestResolveStrict_InvalidQuantity(t *testing.T) {
	called := false
	p := &fakeProvider{getProduct: func(context.Context, string) (domain.Product, error) {
		called = true
		return domain.Product{}, nil
	}}
	validator := catalog.NewValidator(p, nil)

	_, err := validator.ResolveStrict(context.Background(), domain.CartItem{ProductID: "p1", VariantID: 1})
	if !errors.Is(err, domain.ErrQuantityInvalid) {
		t.Fatalf("expected ErrQuantityInvalid, got %v", err)
	}
	if called {
		t.Fatal("invalid quantity must fail before any catalog call")
	}
}

func TestResolveStrict_CatalogErrorPropagates(t *testing.T) {
	p := &fakeProvider{getProduct: func(context.Context, string) (domain.Product, error) {
		return domain.Product{}, domain.ErrProductNotFound
	}}
	validator := catalog.NewValidator(p, nil)

	_, err := validator.ResolveStrict(context.Background(), domain.CartItem{
		ProductID: "missing", VariantID: 1, Quantity: 1,
	})
	if !errors.Is(err, domain.ErrProductNotFound) {
		t.Fatalf("expected ErrProductNotFound, got %v", err)
	}
}

func TestResolveLenient_CatalogMissFallsBack(t *testing.T) {
	p := &fakeProvider{getProduct: func(context.Context, string) (domain.Product, error) {
		return domain.Product{}, errors.New("provider down")
	}}
	validator := catalog.NewValidator(p, nil)

	resolved, fellBack := validator.ResolveLenient(context.Background(), domain.CartItem{
		ProductID: "p1", VariantID: 7, Quantity: 2, UnitPriceMinor: 1500,
	})
	if !fellBack {
		t.Fatal("expected fallback on catalog miss")
	}
	if resolved.UnitCostMinor != 1500 {
		t.Fatalf("expected client price 1500, got %d", resolved.UnitCostMinor)
	}
	if resolved.VariantID != 7 || resolved.Quantity != 2 {
		t.Fatalf("unexpected fallback item: %+v", resolved)
	}
}

func TestResolveLenient_DefaultPriceWhenClientSentNone(t *testing.T) {
	p := &fakeProvider{getProduct: func(context.Context, string) (domain.Product, error) {
		return domain.Product{}, errors.New("provider down")
	}}
	validator := catalog.NewValidator(p, nil)

	resolved, fellBack := validator.ResolveLenient(context.Background(), domain.CartItem{ProductID: "p1"})
	if !fellBack {
		t.Fatal("expected fallback")
	}
	if resolved.UnitCostMinor != 2000 {
		t.Fatalf("expected default unit cost 2000, got %d", resolved.UnitCostMinor)
	}
	// Количество и вариант нормализуются до минимально осмысленных.
	if resolved.Quantity != 1 || resolved.VariantID != 1 {
		t.Fatalf("unexpected normalized item: %+v", resolved)
	}
}

func TestResolveLenient_LiveCatalogWins(t *testing.T) {
	p := &fakeProvider{getProduct: func(context.Context, string) (domain.Product, error) {
		return productWithVariants(), nil
	}}
	validator := catalog.NewValidator(p, nil)

	resolved, fellBack := validator.ResolveLenient(context.Background(), domain.CartItem{
		ProductID: "p1", VariantID: 2, Quantity: 1, UnitPriceMinor: 99,
	})
	if fellBack {
		t.Fatal("live catalog resolution must not be fallback")
	}
	if resolved.UnitCostMinor != 2000 {
		t.Fatalf("catalog price must win over client price, got %d", resolved.UnitCostMinor)
	}
}
