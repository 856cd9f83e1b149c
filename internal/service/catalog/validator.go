package catalog

import (
	"context"
	"fmt"

	log "github.com/sirupsen/logrus"

	"github.com/vladislavdragonenkov/merchstore/internal/domain"
)

// fallbackUnitCostMinor — цена за единицу, когда каталог недоступен и клиент
// не прислал свою: 2000 центов, исторический дефолт витрины.
const fallbackUnitCostMinor = 2000

// Validator резолвит позиции корзины против живого каталога провайдера.
// Каталог не кэшируется: каждая валидация перечитывает продукт — осознанный
// размен свежести на задержку.
type Validator struct {
	provider domain.FulfillmentProvider
	logger   *log.Entry
}

// NewValidator создаёт валидатор каталога.
func NewValidator(provider domain.FulfillmentProvider, logger *log.Entry) *Validator {
	if logger == nil {
		logger = log.New().WithField("component", "catalog-validator")
	}
	return &Validator{provider: provider, logger: logger}
}

// ResolveStrict резолвит позицию для оформления заказа: любая проблема —
// жёсткая ошибка с именем продукта. Используется на place-order пути.
func (v *Validator) ResolveStrict(ctx context.Context, item domain.CartItem) (domain.PricedLineItem, error) {
	if item.Quantity <= 0 {
		return domain.PricedLineItem{}, fmt.Errorf("%w: product %q", domain.ErrQuantityInvalid, v.displayName(item))
	}

	product, err := v.provider.GetProduct(ctx, item.ProductID)
	if err != nil {
		return domain.PricedLineItem{}, fmt.Errorf("product %q: %w", v.displayName(item), err)
	}

	variant, ok := v.pickVariant(&product, item.VariantID)
	if !ok {
		return domain.PricedLineItem{}, fmt.Errorf("%w: %q", domain.ErrNoValidVariant, v.displayName(item))
	}

	return domain.PricedLineItem{
		LineItem: domain.LineItem{
			ProductID: item.ProductID,
			VariantID: variant.ID,
			Quantity:  item.Quantity,
		},
		UnitCostMinor: variant.PriceMinor,
	}, nil
}

// ResolveLenient резолвит позицию для расчёта стоимости: сбой каталога
// понижается до синтетической позиции с последней известной ценой, чтобы
// оценка всегда была возможна. Второй результат — признак fallback.
func (v *Validator) ResolveLenient(ctx context.Context, item domain.CartItem) (domain.PricedLineItem, bool) {
	quantity := item.Quantity
	if quantity <= 0 {
		quantity = 1
	}

	product, err := v.provider.GetProduct(ctx, item.ProductID)
	if err != nil {
		v.logger.WithError(err).WithField("product_id", item.ProductID).
			Warn("catalog fetch failed, using fallback line item")
		return v.fallbackItem(item, quantity), true
	}

	variant, ok := v.pickVariant(&product, item.VariantID)
	if !ok {
		v.logger.WithField("product_id", item.ProductID).
			Warn("no enabled variant, using fallback line item")
		return v.fallbackItem(item, quantity), true
	}

	return domain.PricedLineItem{
		LineItem: domain.LineItem{
			ProductID: item.ProductID,
			VariantID: variant.ID,
			Quantity:  quantity,
		},
		UnitCostMinor: variant.PriceMinor,
	}, false
}

// pickVariant выбирает запрошенный вариант, если он включён, иначе первый
// включённый в порядке провайдера (детерминированная подмена).
func (v *Validator) pickVariant(product *domain.Product, variantID int) (domain.Variant, bool) {
	if variant, ok := product.FindVariant(variantID); ok {
		return variant, true
	}
	enabled := product.EnabledVariants()
	if len(enabled) == 0 {
		return domain.Variant{}, false
	}
	return enabled[0], true
}

func (v *Validator) fallbackItem(item domain.CartItem, quantity int) domain.PricedLineItem {
	variantID := item.VariantID
	if variantID <= 0 {
		variantID = 1
	}
	unitCost := item.UnitPriceMinor
	if unitCost <= 0 {
		unitCost = fallbackUnitCostMinor
	}
	return domain.PricedLineItem{
		LineItem: domain.LineItem{
			ProductID: item.ProductID,
			VariantID: variantID,
			Quantity:  quantity,
		},
		UnitCostMinor: unitCost,
	}
}

func (v *Validator) displayName(item domain.CartItem) string {
	if item.Name != "" {
		return item.Name
	}
	return item.ProductID
}
