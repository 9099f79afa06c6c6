package domain

import (
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/govalues/decimal"
)

type OrderStatus string

const (
	OrderStatusPending    OrderStatus = "pendiente"
	OrderStatusProcessing OrderStatus = "procesando"
	OrderStatusCompleted  OrderStatus = "completado"
	OrderStatusCancelled  OrderStatus = "cancelado"
)

const PaymentMethodMercadoPago = "mercadopago"

var orderTransitions = map[OrderStatus][]OrderStatus{
	OrderStatusPending:    {OrderStatusProcessing, OrderStatusCancelled},
	OrderStatusProcessing: {OrderStatusCompleted, OrderStatusCancelled},
}

// CanTransitionTo reports whether an order in status s may move to next.
// Staying in the same status is always allowed and means no change.
func (s OrderStatus) CanTransitionTo(next OrderStatus) bool {
	if s == next {
		return true
	}
	for _, allowed := range orderTransitions[s] {
		if allowed == next {
			return true
		}
	}
	return false
}

type OrderItem struct {
	ProductID string          `json:"product_id"`
	Quantity  int             `json:"quantity"`
	Price     decimal.Decimal `json:"price"`
	VariantID *string         `json:"variant_id,omitempty"`
}

type Order struct {
	ID                uuid.UUID
	UserID            string
	Items             []OrderItem
	Subtotal          decimal.Decimal
	IGV               decimal.Decimal
	Total             decimal.Decimal
	Status            OrderStatus
	CustomerName      string
	CustomerEmail     string
	CustomerPhone     string
	ShippingAddress   string
	PaymentMethod     string
	ProviderSessionID string
	PaidAt            *time.Time
	IdempotencyKey    string
	CreatedAt         time.Time
}

// StatusChange is what a status update writes. Empty session id and nil
// PaidAt leave the stored values untouched.
type StatusChange struct {
	Status            OrderStatus
	ProviderSessionID string
	PaidAt            *time.Time
}

// Transition moves the order to next. It returns false when the order
// already was in next, and ErrInvalidTransition when the move is refused.
func (o *Order) Transition(next OrderStatus) (bool, error) {
	if !o.Status.CanTransitionTo(next) {
		return false, fmt.Errorf("%w: %s -> %s", ErrInvalidTransition, o.Status, next)
	}
	if o.Status == next {
		return false, nil
	}
	o.Status = next
	return true, nil
}

// IGVRate is the sales tax fraction included in every order total.
var IGVRate = decimal.MustParse("0.18")

var igvDivisor = decimal.MustParse("1.18")

// SplitTotal derives subtotal and IGV from a tax-inclusive total.
// The total itself is kept as given, so subtotal+igv always equals it.
func SplitTotal(total decimal.Decimal) (subtotal, igv decimal.Decimal, err error) {
	subtotal, err = total.Quo(igvDivisor)
	if err != nil {
		return decimal.Zero, decimal.Zero, fmt.Errorf("subtotal: %w", err)
	}
	subtotal = subtotal.Round(2)

	igv, err = total.Sub(subtotal)
	if err != nil {
		return decimal.Zero, decimal.Zero, fmt.Errorf("igv: %w", err)
	}
	return subtotal, igv.Round(2), nil
}
