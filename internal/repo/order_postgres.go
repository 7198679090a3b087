package repo

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"tokomini/internal/models"
)

// PostgresOrderRepository stores orders in postgres. Item snapshots and
// customer details go into jsonb columns; everything queried on has its
// own column.
type PostgresOrderRepository struct {
	db *sql.DB
}

// NewPostgresOrderRepository creates a new instance of PostgresOrderRepository.
func NewPostgresOrderRepository(db *sql.DB) *PostgresOrderRepository {
	return &PostgresOrderRepository{db: db}
}

const orderColumns = `number, session_id, items, customer, payment_method,
	total_usd, total_idr, payment_fee_idr, total_with_fee_usd, total_with_fee_idr,
	status, transaction_id, created_at, expires_at, paid_at`

// Create stores a new order.
func (r *PostgresOrderRepository) Create(order models.Order) (models.Order, error) {
	items, err := json.Marshal(order.Items)
	if err != nil {
		return models.Order{}, fmt.Errorf("marshalling order items: %w", err)
	}
	customer, err := json.Marshal(order.Customer)
	if err != nil {
		return models.Order{}, fmt.Errorf("marshalling customer: %w", err)
	}

	query := `INSERT INTO orders (` + orderColumns + `)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15)`
	ctx, cancel := context.WithTimeout(context.Background(), 3*time.Second)
	defer cancel()

	_, err = r.db.ExecContext(ctx, query,
		order.Number, order.SessionID, items, customer, order.PaymentMethod,
		order.TotalUSD, order.TotalIDR, order.PaymentFeeIDR, order.TotalWithFeeUSD, order.TotalWithFeeIDR,
		order.Status, nullString(order.TransactionID), order.CreatedAt, order.ExpiresAt, order.PaidAt)
	if err != nil {
		return models.Order{}, err
	}
	return order, nil
}

// GetByNumber retrieves an order by its number.
func (r *PostgresOrderRepository) GetByNumber(number string) (models.Order, error) {
	query := `SELECT ` + orderColumns + ` FROM orders WHERE number = $1`
	ctx, cancel := context.WithTimeout(context.Background(), 3*time.Second)
	defer cancel()

	order, err := scanOrder(r.db.QueryRowContext(ctx, query, number))
	if errors.Is(err, sql.ErrNoRows) {
		return models.Order{}, ErrOrderNotFound
	}
	return order, err
}

// SetPaid marks a pending order as paid.
func (r *PostgresOrderRepository) SetPaid(number, transactionID string, paidAt time.Time) (models.Order, error) {
	query := `UPDATE orders SET status = $1, transaction_id = $2, paid_at = $3
		WHERE number = $4 AND status = $5`
	ctx, cancel := context.WithTimeout(context.Background(), 3*time.Second)
	defer cancel()

	res, err := r.db.ExecContext(ctx, query,
		models.OrderStatusPaid, transactionID, paidAt, number, models.OrderStatusPending)
	if err != nil {
		return models.Order{}, err
	}
	affected, err := res.RowsAffected()
	if err != nil {
		return models.Order{}, err
	}
	if affected == 0 {
		if _, err := r.GetByNumber(number); err != nil {
			return models.Order{}, err
		}
		return models.Order{}, ErrOrderNotPending
	}
	return r.GetByNumber(number)
}

// ListBySession returns the session's orders, newest first.
func (r *PostgresOrderRepository) ListBySession(sessionID string) ([]models.Order, error) {
	query := `SELECT ` + orderColumns + ` FROM orders WHERE session_id = $1 ORDER BY created_at DESC`
	ctx, cancel := context.WithTimeout(context.Background(), 3*time.Second)
	defer cancel()

	rows, err := r.db.QueryContext(ctx, query, sessionID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var orders []models.Order
	for rows.Next() {
		order, err := scanOrder(rows)
		if err != nil {
			return nil, err
		}
		orders = append(orders, order)
	}
	return orders, rows.Err()
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanOrder(row rowScanner) (models.Order, error) {
	var (
		order         models.Order
		items         []byte
		customer      []byte
		transactionID sql.NullString
		paidAt        sql.NullTime
	)
	err := row.Scan(
		&order.Number, &order.SessionID, &items, &customer, &order.PaymentMethod,
		&order.TotalUSD, &order.TotalIDR, &order.PaymentFeeIDR, &order.TotalWithFeeUSD, &order.TotalWithFeeIDR,
		&order.Status, &transactionID, &order.CreatedAt, &order.ExpiresAt, &paidAt)
	if err != nil {
		return models.Order{}, err
	}

	if err := json.Unmarshal(items, &order.Items); err != nil {
		return models.Order{}, fmt.Errorf("unmarshalling order items: %w", err)
	}
	if err := json.Unmarshal(customer, &order.Customer); err != nil {
		return models.Order{}, fmt.Errorf("unmarshalling customer: %w", err)
	}
	if transactionID.Valid {
		order.TransactionID = transactionID.String
	}
	if paidAt.Valid {
		t := paidAt.Time
		order.PaidAt = &t
	}
	return order, nil
}

func nullString(s string) sql.NullString {
	return sql.NullString{String: s, Valid: s != ""}
}
