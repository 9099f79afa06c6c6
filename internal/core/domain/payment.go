package domain

import (
	"time"

	"github.com/google/uuid"
	"github.com/govalues/decimal"
)

type PaymentEventKind string

const (
	PaymentEventCheckoutCompleted PaymentEventKind = "checkout_completed"
	PaymentEventSucceeded         PaymentEventKind = "payment_succeeded"
	PaymentEventFailed            PaymentEventKind = "payment_failed"
	PaymentEventUnknown           PaymentEventKind = "unknown"
)

// PaymentCorrelation links a provider event back to an order. OrderID is
// preferred when present; SessionID is the provider session reference.
type PaymentCorrelation struct {
	OrderID   *uuid.UUID
	SessionID string
}

func (c PaymentCorrelation) IsZero() bool {
	return c.OrderID == nil && c.SessionID == ""
}

type PaymentEvent struct {
	ID           string
	Kind         PaymentEventKind
	ProviderType string
	Correlation  PaymentCorrelation
	OccurredAt   time.Time
}

// StockShortfall is a line item whose decrement was skipped because the
// product did not have enough stock left.
type StockShortfall struct {
	ProductID string
	Quantity  int
}

type PaymentEventResult struct {
	OrderID    uuid.UUID
	Status     OrderStatus
	Changed    bool
	Shortfalls []StockShortfall
}

type PaymentPayer struct {
	Email                string
	IdentificationType   string
	IdentificationNumber string
}

type PaymentStatus struct {
	ID                string
	Status            string
	StatusDetail      string
	PaymentMethodID   string
	TransactionAmount decimal.Decimal
	CurrencyID        string
	DateCreated       *time.Time
	DateApproved      *time.Time
	ExternalReference string
	Payer             *PaymentPayer
}
