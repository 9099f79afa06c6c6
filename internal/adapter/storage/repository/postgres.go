package repository

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	sq "github.com/Masterminds/squirrel"
	"github.com/MikeRez0/storefront/internal/adapter/storage"
	"github.com/MikeRez0/storefront/internal/core/domain"
	"github.com/MikeRez0/storefront/internal/core/port"
	"github.com/google/uuid"
	"github.com/jackc/pgerrcode"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
)

// querier is satisfied by both the pool and a transaction.
type querier interface {
	Exec(ctx context.Context, sql string, args ...any) (pgconn.CommandTag, error)
	Query(ctx context.Context, sql string, args ...any) (pgx.Rows, error)
	QueryRow(ctx context.Context, sql string, args ...any) pgx.Row
}

type Repository struct {
	db *storage.DB
	q  querier
}

func NewRepository(db *storage.DB) (*Repository, error) {
	return &Repository{db: db, q: db.Pool}, nil
}

var orderColumns = []string{
	"id", "usuario_id", "items", "subtotal", "igv", "total", "estado",
	"nombre_cliente", "email_cliente", "telefono_cliente", "direccion_envio",
	"metodo_pago", "provider_session_id", "fecha_pago", "idempotency_key", "created_at",
}

// WithinTx runs fn on a repository bound to one transaction. Calling it on
// a transaction-bound repository opens a separate transaction.
func (or *Repository) WithinTx(ctx context.Context, fn func(store port.OrderStore) error) error {
	return pgx.BeginFunc(ctx, or.db.Pool, func(tx pgx.Tx) error {
		return fn(&Repository{db: or.db, q: tx})
	})
}

func (or *Repository) Ping(ctx context.Context) error {
	return or.db.Ping(ctx)
}

func (or *Repository) CreateOrder(ctx context.Context, order *domain.Order) (*domain.Order, error) {
	items, err := json.Marshal(order.Items)
	if err != nil {
		return nil, fmt.Errorf("encode items: %w", err)
	}

	var idempotencyKey *string
	if order.IdempotencyKey != "" {
		idempotencyKey = &order.IdempotencyKey
	}

	statement := or.db.QueryBuilder.Insert("orders").
		Columns(orderColumns...).
		Values(
			order.ID,
			order.UserID,
			items,
			order.Subtotal,
			order.IGV,
			order.Total,
			order.Status,
			order.CustomerName,
			order.CustomerEmail,
			order.CustomerPhone,
			order.ShippingAddress,
			order.PaymentMethod,
			order.ProviderSessionID,
			order.PaidAt,
			idempotencyKey,
			order.CreatedAt,
		)

	sql, args, err := statement.ToSql()
	if err != nil {
		return nil, err
	}

	_, err = or.q.Exec(ctx, sql, args...)
	if err != nil {
		if isUniqueViolation(err) {
			return nil, domain.ErrConflictingData
		}
		return nil, err
	}
	return order, nil
}

func (or *Repository) ReadOrder(ctx context.Context, userID string, orderID uuid.UUID) (*domain.Order, error) {
	statement := or.db.QueryBuilder.
		Select(orderColumns...).
		From("orders").
		Where(sq.Eq{"id": orderID, "usuario_id": userID})

	return or.readOrder(ctx, statement)
}

func (or *Repository) ReadOrderByIdempotencyKey(ctx context.Context,
	userID string,
	key string,
) (*domain.Order, error) {
	statement := or.db.QueryBuilder.
		Select(orderColumns...).
		From("orders").
		Where(sq.Eq{"usuario_id": userID, "idempotency_key": key})

	return or.readOrder(ctx, statement)
}

// ReadOrderByCorrelation locks the matched row until the surrounding
// transaction ends. The order id is tried first, then the session id.
func (or *Repository) ReadOrderByCorrelation(ctx context.Context,
	corr domain.PaymentCorrelation,
) (*domain.Order, error) {
	if corr.OrderID != nil {
		statement := or.db.QueryBuilder.
			Select(orderColumns...).
			From("orders").
			Where(sq.Eq{"id": *corr.OrderID}).
			Suffix("FOR UPDATE")

		order, err := or.readOrder(ctx, statement)
		if err == nil || !errors.Is(err, domain.ErrDataNotFound) || corr.SessionID == "" {
			return order, err
		}
	}
	if corr.SessionID == "" {
		return nil, domain.ErrDataNotFound
	}

	statement := or.db.QueryBuilder.
		Select(orderColumns...).
		From("orders").
		Where(sq.Eq{"provider_session_id": corr.SessionID}).
		OrderBy("created_at DESC").
		Limit(1).
		Suffix("FOR UPDATE")

	return or.readOrder(ctx, statement)
}

func (or *Repository) ListOrdersByUser(ctx context.Context, userID string) ([]*domain.Order, error) {
	statement := or.db.QueryBuilder.
		Select(orderColumns...).
		From("orders").
		Where(sq.Eq{"usuario_id": userID}).
		OrderBy("created_at DESC")

	sql, args, err := statement.ToSql()
	if err != nil {
		return nil, err
	}

	rows, err := or.q.Query(ctx, sql, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	list := make([]*domain.Order, 0)
	for rows.Next() {
		order, err := scanOrder(rows)
		if err != nil {
			return nil, err
		}
		list = append(list, order)
	}

	err = rows.Err()
	if err != nil {
		return nil, err
	}

	return list, nil
}

func (or *Repository) UpdateOrderStatus(ctx context.Context,
	orderID uuid.UUID,
	change domain.StatusChange,
) error {
	statement := or.db.QueryBuilder.
		Update("orders").
		Set("estado", change.Status).
		Where(sq.Eq{"id": orderID})
	if change.ProviderSessionID != "" {
		statement = statement.Set("provider_session_id", change.ProviderSessionID)
	}
	if change.PaidAt != nil {
		statement = statement.Set("fecha_pago", *change.PaidAt)
	}

	sql, args, err := statement.ToSql()
	if err != nil {
		return err
	}

	tag, err := or.q.Exec(ctx, sql, args...)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return domain.ErrDataNotFound
	}
	return nil
}

// DecrementStock subtracts quantity only while stock covers it, as one
// conditional statement. It reports whether the decrement was applied.
func (or *Repository) DecrementStock(ctx context.Context, productID string, quantity int) (bool, error) {
	if quantity < 1 {
		return false, fmt.Errorf("%w: quantity %d", domain.ErrValidation, quantity)
	}

	statement := or.db.QueryBuilder.
		Update("products").
		Set("stock", sq.Expr("stock - ?", quantity)).
		Where(sq.Eq{"id": productID}).
		Where(sq.GtOrEq{"stock": quantity})

	sql, args, err := statement.ToSql()
	if err != nil {
		return false, err
	}

	tag, err := or.q.Exec(ctx, sql, args...)
	if err != nil {
		return false, err
	}
	return tag.RowsAffected() == 1, nil
}

func (or *Repository) RecordPaymentEvent(ctx context.Context, event *domain.PaymentEvent) error {
	statement := or.db.QueryBuilder.
		Insert("payment_events").
		Columns("event_id", "kind", "provider_type", "received_at").
		Values(event.ID, event.Kind, event.ProviderType, time.Now()).
		Suffix("ON CONFLICT (event_id) DO NOTHING")

	sql, args, err := statement.ToSql()
	if err != nil {
		return err
	}

	tag, err := or.q.Exec(ctx, sql, args...)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return domain.ErrEventAlreadyApplied
	}
	return nil
}

func (or *Repository) readOrder(ctx context.Context, statement sq.SelectBuilder) (*domain.Order, error) {
	sql, args, err := statement.ToSql()
	if err != nil {
		return nil, err
	}

	order, err := scanOrder(or.q.QueryRow(ctx, sql, args...))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, domain.ErrDataNotFound
		}
		return nil, err
	}
	return order, nil
}

func scanOrder(row pgx.Row) (*domain.Order, error) {
	order := domain.Order{}

	var (
		items          []byte
		status         string
		idempotencyKey *string
	)

	err := row.Scan(
		&order.ID,
		&order.UserID,
		&items,
		&order.Subtotal,
		&order.IGV,
		&order.Total,
		&status,
		&order.CustomerName,
		&order.CustomerEmail,
		&order.CustomerPhone,
		&order.ShippingAddress,
		&order.PaymentMethod,
		&order.ProviderSessionID,
		&order.PaidAt,
		&idempotencyKey,
		&order.CreatedAt,
	)
	if err != nil {
		return nil, err
	}

	err = json.Unmarshal(items, &order.Items)
	if err != nil {
		return nil, fmt.Errorf("decode items of order %s: %w", order.ID, err)
	}
	order.Status = domain.OrderStatus(status)
	if idempotencyKey != nil {
		order.IdempotencyKey = *idempotencyKey
	}

	return &order, nil
}

func isUniqueViolation(err error) bool {
	var pgErr *pgconn.PgError
	return errors.As(err, &pgErr) && pgErr.Code == pgerrcode.UniqueViolation
}
