package provider

import (
	"time"

	"github.com/vladislavdragonenkov/merchstore/internal/domain"
)

// Wire-типы провайдерского API. Схемы валидируются на границе:
// сразу после декодирования ответ конвертируется в доменные типы.

type wireVariant struct {
	ID          int    `json:"id"`
	Title       string `json:"title"`
	Price       int64  `json:"price"`
	IsEnabled   bool   `json:"is_enabled"`
	IsAvailable bool   `json:"is_available"`
}

type wireImage struct {
	Src        string `json:"src"`
	VariantIDs []int  `json:"variant_ids"`
	Position   string `json:"position"`
	IsDefault  bool   `json:"is_default"`
}

type wireOptionValue struct {
	ID    int    `json:"id"`
	Title string `json:"title"`
}

type wireOption struct {
	Name   string            `json:"name"`
	Type   string            `json:"type"`
	Values []wireOptionValue `json:"values"`
}

type wireProduct struct {
	ID          string        `json:"id"`
	Title       string        `json:"title"`
	Description string        `json:"description"`
	Tags        []string      `json:"tags"`
	Variants    []wireVariant `json:"variants"`
	Images      []wireImage   `json:"images"`
	Options     []wireOption  `json:"options"`
	Visible     bool          `json:"visible"`
	BlueprintID int           `json:"blueprint_id"`
}

type wireProductList struct {
	CurrentPage int           `json:"current_page"`
	Data        []wireProduct `json:"data"`
	LastPage    int           `json:"last_page"`
	NextPageURL *string       `json:"next_page_url"`
	PrevPageURL *string       `json:"prev_page_url"`
	Total       int           `json:"total"`
}

type wireLineItem struct {
	ProductID    string `json:"product_id"`
	VariantID    int    `json:"variant_id"`
	Quantity     int    `json:"quantity"`
	Cost         int64  `json:"cost,omitempty"`
	ShippingCost int64  `json:"shipping_cost,omitempty"`
}

type wireAddress struct {
	FirstName string `json:"first_name"`
	LastName  string `json:"last_name"`
	Email     string `json:"email"`
	Phone     string `json:"phone"`
	Country   string `json:"country"`
	Region    string `json:"region"`
	Address1  string `json:"address1"`
	Address2  string `json:"address2,omitempty"`
	City      string `json:"city"`
	Zip       string `json:"zip"`
}

type wireOrderRequest struct {
	ExternalID               string         `json:"external_id,omitempty"`
	Label                    string         `json:"label,omitempty"`
	LineItems                []wireLineItem `json:"line_items"`
	SendShippingNotification bool           `json:"send_shipping_notification"`
	AddressTo                wireAddress    `json:"address_to"`
}

type wireOrder struct {
	ID                 string         `json:"id"`
	ExternalID         string         `json:"external_id"`
	Label              string         `json:"label"`
	Status             string         `json:"status"`
	LineItems          []wireLineItem `json:"line_items"`
	AddressTo          wireAddress    `json:"address_to"`
	TotalPrice         int64          `json:"total_price"`
	TotalShipping      int64          `json:"total_shipping"`
	TotalTax           int64          `json:"total_tax"`
	CreatedAt          string         `json:"created_at"`
	SentToProductionAt string         `json:"sent_to_production_at,omitempty"`
}

type wireOrderList struct {
	CurrentPage int         `json:"current_page"`
	Data        []wireOrder `json:"data"`
	LastPage    int         `json:"last_page"`
	NextPageURL *string     `json:"next_page_url"`
	PrevPageURL *string     `json:"prev_page_url"`
	Total       int         `json:"total"`
}

type wireShippingRequest struct {
	LineItems []wireLineItem `json:"line_items"`
	AddressTo wireAddress    `json:"address_to"`
}

type wireShippingResponse struct {
	Standard     int64 `json:"standard"`
	Express      int64 `json:"express,omitempty"`
	Priority     int64 `json:"priority,omitempty"`
	ShippingCost int64 `json:"shipping_cost,omitempty"`
}

// providerTimeLayout — формат времени в ответах провайдера.
const providerTimeLayout = "2006-01-02 15:04:05-07:00"

func parseProviderTime(value string) time.Time {
	if value == "" {
		return time.Time{}
	}
	for _, layout := range []string{providerTimeLayout, time.RFC3339} {
		if ts, err := time.Parse(layout, value); err == nil {
			return ts
		}
	}
	return time.Time{}
}

func toWireLineItems(items []domain.LineItem) []wireLineItem {
	result := make([]wireLineItem, 0, len(items))
	for _, item := range items {
		result = append(result, wireLineItem{
			ProductID: item.ProductID,
			VariantID: item.VariantID,
			Quantity:  item.Quantity,
		})
	}
	return result
}

func toWireAddress(a domain.ShippingAddress) wireAddress {
	return wireAddress{
		FirstName: a.FirstName,
		LastName:  a.LastName,
		Email:     a.Email,
		Phone:     a.Phone,
		Country:   a.Country,
		Region:    a.Region,
		Address1:  a.Address1,
		Address2:  a.Address2,
		City:      a.City,
		Zip:       a.Zip,
	}
}

func toDomainAddress(a wireAddress) domain.ShippingAddress {
	return domain.ShippingAddress{
		FirstName: a.FirstName,
		LastName:  a.LastName,
		Email:     a.Email,
		Phone:     a.Phone,
		Country:   a.Country,
		Region:    a.Region,
		Address1:  a.Address1,
		Address2:  a.Address2,
		City:      a.City,
		Zip:       a.Zip,
	}
}

func toDomainProduct(p wireProduct) domain.Product {
	variants := make([]domain.Variant, 0, len(p.Variants))
	for _, v := range p.Variants {
		variants = append(variants, domain.Variant{
			ID:         v.ID,
			Title:      v.Title,
			PriceMinor: v.Price,
			Enabled:    v.IsEnabled,
			Available:  v.IsAvailable,
		})
	}

	images := make([]domain.ProductImage, 0, len(p.Images))
	for _, img := range p.Images {
		images = append(images, domain.ProductImage{
			Src:        img.Src,
			VariantIDs: img.VariantIDs,
			Position:   img.Position,
			IsDefault:  img.IsDefault,
		})
	}

	options := make([]domain.ProductOption, 0, len(p.Options))
	for _, opt := range p.Options {
		values := make([]domain.ProductOptionValue, 0, len(opt.Values))
		for _, v := range opt.Values {
			values = append(values, domain.ProductOptionValue{ID: v.ID, Title: v.Title})
		}
		options = append(options, domain.ProductOption{Name: opt.Name, Type: opt.Type, Values: values})
	}

	return domain.Product{
		ID:          p.ID,
		Title:       p.Title,
		Description: p.Description,
		Tags:        p.Tags,
		Variants:    variants,
		Images:      images,
		Options:     options,
		Visible:     p.Visible,
		BlueprintID: p.BlueprintID,
	}
}

func toDomainOrder(o wireOrder) domain.Order {
	items := make([]domain.OrderLineItem, 0, len(o.LineItems))
	for _, item := range o.LineItems {
		items = append(items, domain.OrderLineItem{
			ProductID:         item.ProductID,
			VariantID:         item.VariantID,
			Quantity:          item.Quantity,
			CostMinor:         item.Cost,
			ShippingCostMinor: item.ShippingCost,
		})
	}

	order := domain.Order{
		ID:                 o.ID,
		ExternalID:         o.ExternalID,
		Label:              o.Label,
		Status:             domain.OrderStatus(o.Status),
		LineItems:          items,
		AddressTo:          toDomainAddress(o.AddressTo),
		TotalPriceMinor:    o.TotalPrice,
		TotalShippingMinor: o.TotalShipping,
		TotalTaxMinor:      o.TotalTax,
		CreatedAt:          parseProviderTime(o.CreatedAt),
	}
	if o.SentToProductionAt != "" {
		ts := parseProviderTime(o.SentToProductionAt)
		order.SentToProductionAt = &ts
	}
	return order
}

func toPagination(currentPage, lastPage, total int, nextURL, prevURL *string) domain.Pagination {
	if currentPage == 0 {
		currentPage = 1
	}
	if lastPage == 0 {
		lastPage = 1
	}
	return domain.Pagination{
		CurrentPage: currentPage,
		TotalPages:  lastPage,
		Total:       total,
		HasNext:     nextURL != nil && *nextURL != "",
		HasPrev:     prevURL != nil && *prevURL != "",
	}
}
