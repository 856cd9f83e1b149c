package httpapi

import (
	"math"
	"time"

	"github.com/vladislavdragonenkov/merchstore/internal/domain"
)

// DTO-слой: на этой границе деньги конвертируются из центов в доллары
// (и обратно), внутри ядра всё остаётся в минимальных единицах.

type cartItemDTO struct {
	ID        string  `json:"id"`
	Name      string  `json:"name"`
	VariantID int     `json:"variantId"`
	Quantity  int     `json:"quantity"`
	Price     float64 `json:"price"`
}

type shippingAddressDTO struct {
	FirstName string `json:"firstName"`
	LastName  string `json:"lastName"`
	Email     string `json:"email"`
	Phone     string `json:"phone"`
	Country   string `json:"country"`
	State     string `json:"state"`
	Address1  string `json:"address1"`
	Address2  string `json:"address2"`
	City      string `json:"city"`
	ZipCode   string `json:"zipCode"`
}

type calculateRequest struct {
	CartItems       []cartItemDTO      `json:"cartItems"`
	ShippingAddress shippingAddressDTO `json:"shippingAddress"`
}

type checkoutRequest struct {
	CartItems       []cartItemDTO      `json:"cartItems"`
	ShippingAddress shippingAddressDTO `json:"shippingAddress"`
	ProcessPayment  *bool              `json:"processPayment"`
}

func (d cartItemDTO) toDomain() domain.CartItem {
	return domain.CartItem{
		ProductID:      d.ID,
		Name:           d.Name,
		VariantID:      d.VariantID,
		Quantity:       d.Quantity,
		UnitPriceMinor: majorToMinor(d.Price),
	}
}

func (d shippingAddressDTO) toDomain() domain.ShippingAddress {
	return domain.ShippingAddress{
		FirstName: d.FirstName,
		LastName:  d.LastName,
		Email:     d.Email,
		Phone:     d.Phone,
		Country:   d.Country,
		Region:    d.State,
		Address1:  d.Address1,
		Address2:  d.Address2,
		City:      d.City,
		Zip:       d.ZipCode,
	}
}

// majorToMinor конвертирует доллары из запроса в центы. Округление к ближайшему:
// клиент мог прислать 19.999999 после своих float-вычислений.
func majorToMinor(major float64) int64 {
	return int64(math.Round(major * 100))
}

func toCartItems(dtos []cartItemDTO) []domain.CartItem {
	items := make([]domain.CartItem, 0, len(dtos))
	for _, dto := range dtos {
		items = append(items, dto.toDomain())
	}
	return items
}

type calculationDTO struct {
	Subtotal float64 `json:"subtotal"`
	Shipping float64 `json:"shipping"`
	Tax      float64 `json:"tax"`
	Total    float64 `json:"total"`
	Currency string  `json:"currency"`
}

type shippingOptionDTO struct {
	ID       int     `json:"id"`
	Name     string  `json:"name"`
	Cost     float64 `json:"cost"`
	Currency string  `json:"currency"`
}

type calculateResponse struct {
	Success         bool                `json:"success"`
	Calculation     calculationDTO      `json:"calculation"`
	ShippingOptions []shippingOptionDTO `json:"shippingOptions"`
	FallbackUsed    bool                `json:"fallbackUsed"`
}

func toCalculationDTO(c domain.OrderCalculation) calculationDTO {
	return calculationDTO{
		Subtotal: domain.MinorToMajor(c.SubtotalMinor),
		Shipping: domain.MinorToMajor(c.ShippingMinor),
		Tax:      domain.MinorToMajor(c.TaxMinor),
		Total:    domain.MinorToMajor(c.TotalMinor),
		Currency: c.Currency,
	}
}

func toShippingOptionDTOs(options []domain.ShippingOption) []shippingOptionDTO {
	dtos := make([]shippingOptionDTO, 0, len(options))
	for _, opt := range options {
		dtos = append(dtos, shippingOptionDTO{
			ID:       opt.ID,
			Name:     opt.Name,
			Cost:     domain.MinorToMajor(opt.RateMinor),
			Currency: opt.Currency,
		})
	}
	return dtos
}

type orderLineItemDTO struct {
	ProductID    string  `json:"productId"`
	VariantID    int     `json:"variantId"`
	Quantity     int     `json:"quantity"`
	Cost         float64 `json:"cost"`
	ShippingCost float64 `json:"shippingCost"`
}

type orderDTO struct {
	ID                 string             `json:"id"`
	ExternalID         string             `json:"externalId"`
	Label              string             `json:"label,omitempty"`
	Status             string             `json:"status"`
	LineItems          []orderLineItemDTO `json:"lineItems"`
	TotalPrice         float64            `json:"totalPrice"`
	TotalShipping      float64            `json:"totalShipping"`
	TotalTax           float64            `json:"totalTax"`
	CreatedAt          time.Time          `json:"createdAt"`
	SentToProductionAt *time.Time         `json:"sentToProductionAt,omitempty"`
}

func toOrderDTO(o domain.Order) orderDTO {
	items := make([]orderLineItemDTO, 0, len(o.LineItems))
	for _, li := range o.LineItems {
		items = append(items, orderLineItemDTO{
			ProductID:    li.ProductID,
			VariantID:    li.VariantID,
			Quantity:     li.Quantity,
			Cost:         domain.MinorToMajor(li.CostMinor),
			ShippingCost: domain.MinorToMajor(li.ShippingCostMinor),
		})
	}
	return orderDTO{
		ID:                 o.ID,
		ExternalID:         o.ExternalID,
		Label:              o.Label,
		Status:             string(o.Status),
		LineItems:          items,
		TotalPrice:         domain.MinorToMajor(o.TotalPriceMinor),
		TotalShipping:      domain.MinorToMajor(o.TotalShippingMinor),
		TotalTax:           domain.MinorToMajor(o.TotalTaxMinor),
		CreatedAt:          o.CreatedAt,
		SentToProductionAt: o.SentToProductionAt,
	}
}

type checkoutResponse struct {
	Success          bool     `json:"success"`
	PaymentProcessed bool     `json:"paymentProcessed"`
	Order            orderDTO `json:"order"`
	Message          string   `json:"message,omitempty"`
}

type paginationDTO struct {
	CurrentPage int  `json:"currentPage"`
	TotalPages  int  `json:"totalPages"`
	Total       int  `json:"total"`
	HasNext     bool `json:"hasNext"`
	HasPrev     bool `json:"hasPrev"`
}

func toPaginationDTO(p domain.Pagination) paginationDTO {
	return paginationDTO{
		CurrentPage: p.CurrentPage,
		TotalPages:  p.TotalPages,
		Total:       p.Total,
		HasNext:     p.HasNext,
		HasPrev:     p.HasPrev,
	}
}

type ordersListResponse struct {
	Success    bool          `json:"success"`
	Orders     []orderDTO    `json:"orders"`
	Pagination paginationDTO `json:"pagination"`
}

type orderResponse struct {
	Success bool     `json:"success"`
	Order   orderDTO `json:"order"`
}

// storefrontVariantDTO — включённый вариант продукта в витринном виде.
type storefrontVariantDTO struct {
	ID        int     `json:"id"`
	Title     string  `json:"title"`
	Price     float64 `json:"price"`
	Available bool    `json:"available"`
}

type productOptionValueDTO struct {
	ID    int    `json:"id"`
	Title string `json:"title"`
}

type productOptionDTO struct {
	Name   string                  `json:"name"`
	Type   string                  `json:"type"`
	Values []productOptionValueDTO `json:"values"`
}

// storefrontProductDTO — продукт после витринной трансформации: только
// включённые варианты, цена "от", картинка по умолчанию.
type storefrontProductDTO struct {
	ID               string                 `json:"id"`
	Title            string                 `json:"title"`
	Description      string                 `json:"description"`
	Tags             []string               `json:"tags,omitempty"`
	Image            string                 `json:"image,omitempty"`
	Price            float64                `json:"price"`
	Variants         []storefrontVariantDTO `json:"variants"`
	Options          []productOptionDTO     `json:"options,omitempty"`
	DefaultVariantID int                    `json:"defaultVariantId,omitempty"`
}

func toStorefrontProductDTO(p domain.Product) storefrontProductDTO {
	enabled := p.EnabledVariants()
	variants := make([]storefrontVariantDTO, 0, len(enabled))
	for _, v := range enabled {
		variants = append(variants, storefrontVariantDTO{
			ID:        v.ID,
			Title:     v.Title,
			Price:     domain.MinorToMajor(v.PriceMinor),
			Available: v.Available,
		})
	}

	options := make([]productOptionDTO, 0, len(p.Options))
	for _, opt := range p.Options {
		values := make([]productOptionValueDTO, 0, len(opt.Values))
		for _, val := range opt.Values {
			values = append(values, productOptionValueDTO{ID: val.ID, Title: val.Title})
		}
		options = append(options, productOptionDTO{Name: opt.Name, Type: opt.Type, Values: values})
	}

	dto := storefrontProductDTO{
		ID:          p.ID,
		Title:       p.Title,
		Description: p.Description,
		Tags:        p.Tags,
		Price:       domain.MinorToMajor(p.MinEnabledPriceMinor()),
		Variants:    variants,
		Options:     options,
	}
	if img, ok := p.DefaultImage(); ok {
		dto.Image = img.Src
	}
	if len(enabled) > 0 {
		dto.DefaultVariantID = enabled[0].ID
	}
	return dto
}

type productsListResponse struct {
	Success    bool                   `json:"success"`
	Products   []storefrontProductDTO `json:"products"`
	Pagination paginationDTO          `json:"pagination"`
}

type productResponse struct {
	Success bool                 `json:"success"`
	Product storefrontProductDTO `json:"product"`
}
