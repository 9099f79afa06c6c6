package stripe

import (
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/MikeRez0/storefront/internal/adapter/config"
	"github.com/MikeRez0/storefront/internal/core/domain"
	"github.com/google/uuid"
	stripego "github.com/stripe/stripe-go/v83"
	"github.com/stripe/stripe-go/v83/webhook"
	"go.uber.org/zap"
)

const (
	eventCheckoutSessionCompleted = "checkout.session.completed"
	eventPaymentIntentSucceeded   = "payment_intent.succeeded"
	eventPaymentIntentFailed      = "payment_intent.payment_failed"

	metadataOrderID   = "pedido_id"
	metadataSessionID = "session_id"
)

// EventVerifier checks the Stripe-Signature header of webhook calls and
// translates verified events into payment events.
type EventVerifier struct {
	secret string
	logger *zap.Logger
}

func NewEventVerifier(cfg *config.Stripe, log *zap.Logger) (*EventVerifier, error) {
	if cfg.WebhookSecret == "" {
		return nil, errors.New("stripe webhook secret is empty")
	}
	return &EventVerifier{secret: cfg.WebhookSecret, logger: log}, nil
}

func (v *EventVerifier) VerifyEvent(payload []byte, signature string) (*domain.PaymentEvent, error) {
	event, err := webhook.ConstructEventWithOptions(payload, signature, v.secret,
		webhook.ConstructEventOptions{IgnoreAPIVersionMismatch: true})
	if err != nil {
		return nil, fmt.Errorf("%w: %v", domain.ErrInvalidSignature, err)
	}

	result := &domain.PaymentEvent{
		ID:           event.ID,
		Kind:         domain.PaymentEventUnknown,
		ProviderType: string(event.Type),
		OccurredAt:   time.Unix(event.Created, 0),
	}
	if event.Data == nil {
		return result, nil
	}

	switch string(event.Type) {
	case eventCheckoutSessionCompleted:
		var session stripego.CheckoutSession
		err = json.Unmarshal(event.Data.Raw, &session)
		if err != nil {
			return nil, fmt.Errorf("%w: decode checkout session: %v", domain.ErrValidation, err)
		}
		result.Kind = domain.PaymentEventCheckoutCompleted
		result.Correlation = v.correlation(event.ID, session.Metadata)
		result.Correlation.SessionID = session.ID

	case eventPaymentIntentSucceeded, eventPaymentIntentFailed:
		var intent stripego.PaymentIntent
		err = json.Unmarshal(event.Data.Raw, &intent)
		if err != nil {
			return nil, fmt.Errorf("%w: decode payment intent: %v", domain.ErrValidation, err)
		}
		result.Kind = domain.PaymentEventSucceeded
		if string(event.Type) == eventPaymentIntentFailed {
			result.Kind = domain.PaymentEventFailed
		}
		result.Correlation = v.correlation(event.ID, intent.Metadata)
		result.Correlation.SessionID = intent.Metadata[metadataSessionID]
	}

	return result, nil
}

func (v *EventVerifier) correlation(eventID string, metadata map[string]string) domain.PaymentCorrelation {
	corr := domain.PaymentCorrelation{}

	raw, ok := metadata[metadataOrderID]
	if !ok || raw == "" {
		return corr
	}
	orderID, err := uuid.Parse(raw)
	if err != nil {
		v.logger.Warn("Malformed order id in event metadata",
			zap.String("event", eventID), zap.String("pedido_id", raw))
		return corr
	}
	corr.OrderID = &orderID
	return corr
}
