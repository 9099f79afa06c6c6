package port

import (
	"context"

	"github.com/MikeRez0/storefront/internal/core/domain"
)

//go:generate mockgen -source=payment.go -destination=mock/payment.go -package=mock

type PaymentEventVerifier interface {
	VerifyEvent(payload []byte, signature string) (*domain.PaymentEvent, error)
}

type PaymentStatusProber interface {
	GetPayment(ctx context.Context, paymentID string) (*domain.PaymentStatus, error)
}

type PaymentMetrics interface {
	PaymentEventHandled(kind domain.PaymentEventKind, outcome string)
	StockShortfall(productID string, quantity int)
}
