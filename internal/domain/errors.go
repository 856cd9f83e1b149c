package domain

import "errors"

var (
	// Ошибка пустой корзины при расчёте или оформлении заказа.
	ErrCartEmpty = errors.New("cart is empty")
	// Ошибка отсутствующего адреса доставки.
	ErrAddressRequired = errors.New("shipping address is required")
	// Ошибка отсутствующего обязательного поля адреса; оборачивается с именем поля.
	ErrAddressFieldRequired = errors.New("missing required address field")
	// Ошибка отсутствующего идентификатора продукта в позиции.
	ErrProductIDRequired = errors.New("product_id is required")
	// Ошибка отсутствующего идентификатора варианта в позиции.
	ErrVariantIDRequired = errors.New("variant_id is required")
	// Ошибка некорректного количества (<= 0) в позиции.
	ErrQuantityInvalid = errors.New("quantity must be greater than zero")
	// Ошибка отсутствия хотя бы одной позиции в черновике заказа.
	ErrLineItemsRequired = errors.New("order must contain at least one line item")
	// ErrProductNotFound возвращается, если продукт отсутствует в каталоге провайдера.
	ErrProductNotFound = errors.New("product not found")
	// ErrNoValidVariant возвращается, если у продукта нет ни одного включённого варианта.
	ErrNoValidVariant = errors.New("no enabled variant for product")
	// ErrInvalidOrderData — черновик заказа не прошёл локальную валидацию;
	// сетевой вызов при этом не выполняется.
	ErrInvalidOrderData = errors.New("invalid order data")
	// ErrInvalidTransition — запрошенный переход статуса недопустим для текущего
	// состояния заказа у провайдера.
	ErrInvalidTransition = errors.New("invalid order status transition")
	// ErrOrderNotFound возвращается, если заказ не найден у провайдера.
	ErrOrderNotFound = errors.New("order not found")
	// ErrOrderRecordNotFound возвращается, если локальная запись о заказе отсутствует.
	ErrOrderRecordNotFound = errors.New("order record not found")
	// ErrOrderRecordConflict сигнализирует о попытке повторной записи с тем же ID.
	ErrOrderRecordConflict = errors.New("order record already exists")
	// ErrEventPublish — ошибка при публикации события заказа.
	ErrEventPublish = errors.New("order event publish failed")
)

// IsInvalidTransition проверяет, является ли ошибка недопустимым переходом статуса.
func IsInvalidTransition(err error) bool {
	return errors.Is(err, ErrInvalidTransition)
}
