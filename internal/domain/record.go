package domain

import "time"

// OrderRecord — локальная запись о заказе, оформленном через витрину.
// Источником истины о статусе остаётся провайдер; запись нужна для аудита
// и операционного обзора без лишних обращений к внешнему API.
type OrderRecord struct {
	ID            string
	ExternalID    string
	Status        OrderStatus
	Currency      string
	TotalMinor    int64
	ShippingMinor int64
	TaxMinor      int64
	CreatedAt     time.Time
	UpdatedAt     time.Time
}

// OrderRecordRepository описывает требования к хранилищу записей о заказах.
type OrderRecordRepository interface {
	// Create сохраняет новую запись. Возвращает ErrOrderRecordConflict,
	// если запись с таким ID уже существует.
	Create(record OrderRecord) error
	// Get возвращает запись по ID провайдера или ErrOrderRecordNotFound.
	Get(id string) (OrderRecord, error)
	// List возвращает записи от новых к старым, ограничивая выборку limit (если >0).
	List(limit int) ([]OrderRecord, error)
	// UpdateStatus обновляет снапшот статуса после повторного чтения у провайдера.
	UpdateStatus(id string, status OrderStatus) error
}
