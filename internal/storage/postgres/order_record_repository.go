package postgres

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5/pgconn"

	"github.com/vladislavdragonenkov/merchstore/internal/domain"
)

const opTimeout = 5 * time.Second

type orderRecordRepository struct {
	db *sql.DB
}

// NewOrderRecordRepository создаёт PostgreSQL-реализацию OrderRecordRepository.
func NewOrderRecordRepository(store *Store) domain.OrderRecordRepository {
	return &orderRecordRepository{db: store.DB()}
}

func (r *orderRecordRepository) Create(record domain.OrderRecord) error {
	ctx, cancel := context.WithTimeout(context.Background(), opTimeout)
	defer cancel()

	_, err := r.db.ExecContext(ctx, `
		INSERT INTO order_records (
			id, external_id, status, currency, total_minor, shipping_minor, tax_minor, created_at, updated_at
		) VALUES ($1,$2,$3,$4,$5,$6,$7,$8,$9)
	`,
		record.ID, record.ExternalID, string(record.Status), record.Currency,
		record.TotalMinor, record.ShippingMinor, record.TaxMinor, record.CreatedAt, record.UpdatedAt,
	)
	if err != nil {
		if isUniqueViolation(err) {
			return domain.ErrOrderRecordConflict
		}
		return fmt.Errorf("insert order record: %w", err)
	}
	return nil
}

func (r *orderRecordRepository) Get(id string) (domain.OrderRecord, error) {
	ctx, cancel := context.WithTimeout(context.Background(), opTimeout)
	defer cancel()

	var (
		record domain.OrderRecord
		status string
	)
	err := r.db.QueryRowContext(ctx, `
		SELECT id, external_id, status, currency, total_minor, shipping_minor, tax_minor, created_at, updated_at
		FROM order_records
		WHERE id = $1
	`, id).Scan(
		&record.ID, &record.ExternalID, &status, &record.Currency,
		&record.TotalMinor, &record.ShippingMinor, &record.TaxMinor, &record.CreatedAt, &record.UpdatedAt,
	)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return domain.OrderRecord{}, domain.ErrOrderRecordNotFound
		}
		return domain.OrderRecord{}, fmt.Errorf("select order record: %w", err)
	}
	record.Status = domain.OrderStatus(status)
	return record, nil
}

func (r *orderRecordRepository) List(limit int) ([]domain.OrderRecord, error) {
	ctx, cancel := context.WithTimeout(context.Background(), opTimeout)
	defer cancel()

	query := `
		SELECT id, external_id, status, currency, total_minor, shipping_minor, tax_minor, created_at, updated_at
		FROM order_records
		ORDER BY created_at DESC, id DESC
	`

	var (
		rows *sql.Rows
		err  error
	)
	if limit > 0 {
		rows, err = r.db.QueryContext(ctx, query+" LIMIT $1", limit)
	} else {
		rows, err = r.db.QueryContext(ctx, query)
	}
	if err != nil {
		return nil, fmt.Errorf("select order records: %w", err)
	}
	defer func() { _ = rows.Close() }()

	var result []domain.OrderRecord
	for rows.Next() {
		var (
			record domain.OrderRecord
			status string
		)
		if err := rows.Scan(
			&record.ID, &record.ExternalID, &status, &record.Currency,
			&record.TotalMinor, &record.ShippingMinor, &record.TaxMinor, &record.CreatedAt, &record.UpdatedAt,
		); err != nil {
			return nil, fmt.Errorf("scan order record: %w", err)
		}
		record.Status = domain.OrderStatus(status)
		result = append(result, record)
	}
	return result, rows.Err()
}

func (r *orderRecordRepository) UpdateStatus(id string, status domain.OrderStatus) error {
	ctx, cancel := context.WithTimeout(context.Background(), opTimeout)
	defer cancel()

	res, err := r.db.ExecContext(ctx, `
		UPDATE order_records SET status = $2, updated_at = NOW() WHERE id = $1
	`, id, string(status))
	if err != nil {
		return fmt.Errorf("update order record status: %w", err)
	}
	affected, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("rows affected: %w", err)
	}
	if affected == 0 {
		return domain.ErrOrderRecordNotFound
	}
	return nil
}

// isUniqueViolation распознаёт нарушение уникальности (SQLSTATE 23505).
func isUniqueViolation(err error) bool {
	var pgErr *pgconn.PgError
	return errors.As(err, &pgErr) && pgErr.Code == "23505"
}

var _ domain.OrderRecordRepository = (*orderRecordRepository)(nil)
