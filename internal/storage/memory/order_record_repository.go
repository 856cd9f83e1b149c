package memory

import (
	"sort"
	"sync"
	"time"

	"github.com/vladislavdragonenkov/merchstore/internal/domain"
)

// orderRecordRepositoryInMemory — in-memory реализация OrderRecordRepository
// для локальной разработки и тестов.
type orderRecordRepositoryInMemory struct {
	mu    sync.RWMutex
	items map[string]domain.OrderRecord
}

// NewOrderRecordRepository возвращает in-memory репозиторий записей о заказах.
func NewOrderRecordRepository() domain.OrderRecordRepository {
	return &orderRecordRepositoryInMemory{
		items: make(map[string]domain.OrderRecord),
	}
}

// Create сохраняет новую запись, если ID ещё не занят.
func (r *orderRecordRepositoryInMemory) Create(record domain.OrderRecord) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, exists := r.items[record.ID]; exists {
		return domain.ErrOrderRecordConflict
	}
	// Сохраняем копию: извне запись мутировать нельзя.
	r.items[record.ID] = record
	return nil
}

// Get возвращает запись или ErrOrderRecordNotFound.
func (r *orderRecordRepositoryInMemory) Get(id string) (domain.OrderRecord, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	record, ok := r.items[id]
	if !ok {
		return domain.OrderRecord{}, domain.ErrOrderRecordNotFound
	}
	return record, nil
}

// List возвращает записи от новых к старым, ограничивая выборку limit (если >0).
func (r *orderRecordRepositoryInMemory) List(limit int) ([]domain.OrderRecord, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	result := make([]domain.OrderRecord, 0, len(r.items))
	for _, record := range r.items {
		result = append(result, record)
	}

	sort.Slice(result, func(i, j int) bool {
		if !result[i].CreatedAt.Equal(result[j].CreatedAt) {
			return result[i].CreatedAt.After(result[j].CreatedAt)
		}
		return result[i].ID > result[j].ID
	})

	if limit > 0 && len(result) > limit {
		result = result[:limit]
	}

	return result, nil
}

// UpdateStatus обновляет снапшот статуса существующей записи.
func (r *orderRecordRepositoryInMemory) UpdateStatus(id string, status domain.OrderStatus) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	record, ok := r.items[id]
	if !ok {
		return domain.ErrOrderRecordNotFound
	}
	record.Status = status
	record.UpdatedAt = time.Now().UTC()
	r.items[id] = record
	return nil
}

var _ domain.OrderRecordRepository = (*orderRecordRepositoryInMemory)(nil)
