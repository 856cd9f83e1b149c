package domain

// Variant — конкретная покупаемая конфигурация продукта (размер/цвет).
type Variant struct {
	ID         int
	Title      string
	PriceMinor int64
	Enabled    bool
	Available  bool
}

// ProductImage — изображение продукта у провайдера.
type ProductImage struct {
	Src        string
	VariantIDs []int
	Position   string
	IsDefault  bool
}

// ProductOptionValue — значение опции (например, "XL" или "Black").
type ProductOptionValue struct {
	ID    int
	Title string
}

// ProductOption — опция продукта с набором значений.
type ProductOption struct {
	Name   string
	Type   string
	Values []ProductOptionValue
}

// Product — продукт каталога провайдера. Для нашего ядра он read-only:
// мы его запрашиваем по требованию и не кэшируем между запросами.
type Product struct {
	ID          string
	Title       string
	Description string
	Tags        []string
	Variants    []Variant
	Images      []ProductImage
	Options     []ProductOption
	Visible     bool
	BlueprintID int
}

// EnabledVariants возвращает включённые варианты в порядке, выданном провайдером.
func (p *Product) EnabledVariants() []Variant {
	result := make([]Variant, 0, len(p.Variants))
	for _, v := range p.Variants {
		if v.Enabled {
			result = append(result, v)
		}
	}
	return result
}

// FindVariant ищет вариант по ID среди включённых. Второй результат — признак наличия.
func (p *Product) FindVariant(variantID int) (Variant, bool) {
	for _, v := range p.Variants {
		if v.ID == variantID && v.Enabled {
			return v, true
		}
	}
	return Variant{}, false
}

// MinEnabledPriceMinor возвращает минимальную цену среди включённых вариантов
// или 0, если включённых вариантов нет. Используется витриной как цена "от".
func (p *Product) MinEnabledPriceMinor() int64 {
	var minPrice int64
	for _, v := range p.Variants {
		if !v.Enabled {
			continue
		}
		if minPrice == 0 || v.PriceMinor < minPrice {
			minPrice = v.PriceMinor
		}
	}
	return minPrice
}

// DefaultImage возвращает изображение по умолчанию, либо первое доступное.
func (p *Product) DefaultImage() (ProductImage, bool) {
	for _, img := range p.Images {
		if img.IsDefault {
			return img, true
		}
	}
	if len(p.Images) > 0 {
		return p.Images[0], true
	}
	return ProductImage{}, false
}

// Pagination — метаданные постраничного списка, приведённые к нашему формату.
type Pagination struct {
	CurrentPage int
	TotalPages  int
	Total       int
	HasNext     bool
	HasPrev     bool
}

// ProductPage — страница каталога.
type ProductPage struct {
	Products   []Product
	Pagination Pagination
}

// OrderPage — страница списка заказов провайдера.
type OrderPage struct {
	Orders     []Order
	Pagination Pagination
}

// CartItem — позиция корзины, как её прислал UI-слой. UnitPriceMinor хранит
// последнюю известную клиенту цену и используется только в fallback-расчёте.
type CartItem struct {
	ProductID      string
	Name           string
	VariantID      int
	Quantity       int
	UnitPriceMinor int64
}
