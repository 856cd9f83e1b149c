package domain

// Все денежные суммы внутри ядра хранятся в минимальных единицах (центах).
// Конвертация в доллары выполняется единожды, на границе HTTP-ответа,
// чтобы исключить накопление ошибок плавающей точки.

const (
	// DefaultCurrency — валюта всех расчётов витрины.
	DefaultCurrency = "USD"
	// USTaxRate — упрощённая ставка налога для США. Это осознанное приближение,
	// а не точный расчёт по юрисдикциям.
	USTaxRate = 0.08
)

// MinorToMajor конвертирует центы в доллары для презентационного слоя.
func MinorToMajor(minor int64) float64 {
	return float64(minor) / 100
}

// PricedLineItem — позиция с зафиксированной ценой за единицу.
type PricedLineItem struct {
	LineItem
	UnitCostMinor int64
}

// FallbackReason называет причину, по которой расчёт выполнен локально,
// а не по данным провайдера.
type FallbackReason string

const (
	FallbackNone            FallbackReason = ""
	FallbackProviderError   FallbackReason = "provider_error"
	FallbackProviderTimeout FallbackReason = "provider_timeout"
	FallbackCatalogMiss     FallbackReason = "catalog_miss"
)

// ShippingQuote — результат расчёта доставки. Express и Priority равны нулю,
// если провайдер (или fallback-таблица) не предложил такой способ.
type ShippingQuote struct {
	StandardMinor int64
	ExpressMinor  int64
	PriorityMinor int64
	Fallback      FallbackReason
}

// IsFallback сообщает, получена ли котировка из локальной таблицы тарифов.
func (q ShippingQuote) IsFallback() bool {
	return q.Fallback != FallbackNone
}

// ShippingOption — способ доставки в ответе UI-слою.
type ShippingOption struct {
	ID        int
	Name      string
	RateMinor int64
	Currency  string
}

// Options разворачивает котировку в список способов доставки.
func (q ShippingQuote) Options() []ShippingOption {
	options := []ShippingOption{
		{ID: 1, Name: "Standard Shipping", RateMinor: q.StandardMinor, Currency: DefaultCurrency},
	}
	if q.ExpressMinor > 0 {
		options = append(options, ShippingOption{ID: 2, Name: "Express Shipping", RateMinor: q.ExpressMinor, Currency: DefaultCurrency})
	}
	if q.PriorityMinor > 0 {
		options = append(options, ShippingOption{ID: 3, Name: "Priority Shipping", RateMinor: q.PriorityMinor, Currency: DefaultCurrency})
	}
	return options
}

// OrderCalculation — расчёт стоимости заказа. Производная величина:
// никогда не сохраняется и пересчитывается на каждый запрос.
type OrderCalculation struct {
	LineItems     []PricedLineItem
	SubtotalMinor int64
	ShippingMinor int64
	TaxMinor      int64
	TotalMinor    int64
	Currency      string
}

// Subtotal суммирует стоимость позиций: цена за единицу * количество.
func Subtotal(items []PricedLineItem) int64 {
	var sum int64
	for _, item := range items {
		sum += item.UnitCostMinor * int64(item.Quantity)
	}
	return sum
}

// TaxMinor возвращает налог в центах: 8% от подытога для US, иначе 0.
func TaxMinor(subtotalMinor int64, country string) int64 {
	if country != "US" {
		return 0
	}
	// Округление вниз невозможно: subtotal*8 всегда неотрицателен,
	// делим с округлением к ближайшему.
	return (subtotalMinor*8 + 50) / 100
}

// TotalItemCount возвращает суммарное количество единиц во всех позициях.
func TotalItemCount(items []LineItem) int {
	var count int
	for _, item := range items {
		count += item.Quantity
	}
	return count
}
