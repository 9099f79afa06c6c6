package port

import (
	"context"

	"github.com/MikeRez0/storefront/internal/core/domain"
	"github.com/google/uuid"
)

//go:generate mockgen -source=repository.go -destination=mock/repository.go -package=mock

// OrderStore is the mutation surface over orders, products and the
// processed payment events log.
type OrderStore interface {
	// Order
	CreateOrder(ctx context.Context, order *domain.Order) (*domain.Order, error)
	ReadOrder(ctx context.Context, userID string, orderID uuid.UUID) (*domain.Order, error)
	ReadOrderByIdempotencyKey(ctx context.Context, userID string, key string) (*domain.Order, error)
	ReadOrderByCorrelation(ctx context.Context, corr domain.PaymentCorrelation) (*domain.Order, error)
	ListOrdersByUser(ctx context.Context, userID string) ([]*domain.Order, error)
	UpdateOrderStatus(ctx context.Context, orderID uuid.UUID, change domain.StatusChange) error

	// Stock
	DecrementStock(ctx context.Context, productID string, quantity int) (bool, error)

	// Payment events
	RecordPaymentEvent(ctx context.Context, event *domain.PaymentEvent) error
}

type Repository interface {
	OrderStore

	// WithinTx runs fn against a store bound to a single transaction.
	// The transaction commits when fn returns nil and rolls back otherwise.
	WithinTx(ctx context.Context, fn func(store OrderStore) error) error
	Ping(ctx context.Context) error
}
