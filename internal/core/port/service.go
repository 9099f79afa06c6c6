package port

import (
	"context"

	"github.com/MikeRez0/storefront/internal/core/domain"
	"github.com/google/uuid"
)

//go:generate mockgen -source=service.go -destination=mock/service.go -package=mock
type Service interface {
	Checkout(ctx context.Context, order *domain.Order) (*domain.Order, error)
	GetOrder(ctx context.Context, userID string, orderID uuid.UUID) (*domain.Order, error)
	GetOrdersByUser(ctx context.Context, userID string) ([]*domain.Order, error)

	ProcessPaymentWebhook(ctx context.Context, payload []byte, signature string) (*domain.PaymentEventResult, error)
	GetPaymentStatus(ctx context.Context, paymentID string) (*domain.PaymentStatus, error)

	Ping(ctx context.Context) error
}
