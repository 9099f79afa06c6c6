package stripe_test

import (
	"errors"
	"fmt"
	"testing"
	"time"

	"github.com/MikeRez0/storefront/internal/adapter/config"
	"github.com/MikeRez0/storefront/internal/adapter/payment/stripe"
	"github.com/MikeRez0/storefront/internal/core/domain"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stripe/stripe-go/v83/webhook"
	"go.uber.org/zap"
)

const testSecret = "whsec_test_secret"

func signedHeader(payload []byte, secret string) string {
	signed := webhook.GenerateTestSignedPayload(&webhook.UnsignedPayload{
		Payload:   payload,
		Secret:    secret,
		Timestamp: time.Now(),
	})
	return signed.Header
}

func eventPayload(id, eventType, object string) []byte {
	return []byte(fmt.Sprintf(
		`{"id":%q,"object":"event","type":%q,"created":1700000000,"data":{"object":%s}}`,
		id, eventType, object))
}

func TestEventVerifier_VerifyEvent(t *testing.T) {
	logger := zap.NewNop()

	verifier, err := stripe.NewEventVerifier(&config.Stripe{WebhookSecret: testSecret}, logger)
	assert.NoError(t, err)

	orderID := uuid.MustParse("6f1d7f7e-93c2-4a55-9d6a-0f8b8a7f2d11")

	type verifyTest struct {
		name      string
		payload   []byte
		secret    string
		expError  error
		expResult *domain.PaymentEvent
	}

	tests := []verifyTest{
		{
			name: "checkout completed",
			payload: eventPayload("evt_1", "checkout.session.completed",
				`{"id":"cs_1","object":"checkout.session","metadata":{"pedido_id":"`+orderID.String()+`"}}`),
			secret: testSecret,
			expResult: &domain.PaymentEvent{
				ID:           "evt_1",
				Kind:         domain.PaymentEventCheckoutCompleted,
				ProviderType: "checkout.session.completed",
				Correlation:  domain.PaymentCorrelation{OrderID: &orderID, SessionID: "cs_1"},
				OccurredAt:   time.Unix(1700000000, 0),
			},
		},
		{
			name: "payment succeeded",
			payload: eventPayload("evt_2", "payment_intent.succeeded",
				`{"id":"pi_1","object":"payment_intent","metadata":{"session_id":"cs_1"}}`),
			secret: testSecret,
			expResult: &domain.PaymentEvent{
				ID:           "evt_2",
				Kind:         domain.PaymentEventSucceeded,
				ProviderType: "payment_intent.succeeded",
				Correlation:  domain.PaymentCorrelation{SessionID: "cs_1"},
				OccurredAt:   time.Unix(1700000000, 0),
			},
		},
		{
			name: "payment failed",
			payload: eventPayload("evt_3", "payment_intent.payment_failed",
				`{"id":"pi_2","object":"payment_intent","metadata":{"session_id":"cs_2"}}`),
			secret: testSecret,
			expResult: &domain.PaymentEvent{
				ID:           "evt_3",
				Kind:         domain.PaymentEventFailed,
				ProviderType: "payment_intent.payment_failed",
				Correlation:  domain.PaymentCorrelation{SessionID: "cs_2"},
				OccurredAt:   time.Unix(1700000000, 0),
			},
		},
		{
			name: "malformed order id falls back to session",
			payload: eventPayload("evt_4", "checkout.session.completed",
				`{"id":"cs_4","object":"checkout.session","metadata":{"pedido_id":"42"}}`),
			secret: testSecret,
			expResult: &domain.PaymentEvent{
				ID:           "evt_4",
				Kind:         domain.PaymentEventCheckoutCompleted,
				ProviderType: "checkout.session.completed",
				Correlation:  domain.PaymentCorrelation{SessionID: "cs_4"},
				OccurredAt:   time.Unix(1700000000, 0),
			},
		},
		{
			name: "unknown event kind",
			payload: eventPayload("evt_5", "customer.created",
				`{"id":"cus_1","object":"customer"}`),
			secret: testSecret,
			expResult: &domain.PaymentEvent{
				ID:           "evt_5",
				Kind:         domain.PaymentEventUnknown,
				ProviderType: "customer.created",
				OccurredAt:   time.Unix(1700000000, 0),
			},
		},
		{
			name: "wrong secret",
			payload: eventPayload("evt_6", "checkout.session.completed",
				`{"id":"cs_6","object":"checkout.session"}`),
			secret:   "whsec_other",
			expError: domain.ErrInvalidSignature,
		},
	}

	for _, test := range tests {
		t.Run(test.name, func(t *testing.T) {
			result, err := verifier.VerifyEvent(test.payload, signedHeader(test.payload, test.secret))

			if test.expError != nil {
				assert.True(t, errors.Is(err, test.expError), "unexpected error: %v", err)
				assert.Nil(t, result)
				return
			}
			assert.NoError(t, err)
			assert.Equal(t, test.expResult, result)
		})
	}
}

func TestEventVerifier_TamperedPayload(t *testing.T) {
	verifier, err := stripe.NewEventVerifier(&config.Stripe{WebhookSecret: testSecret}, zap.NewNop())
	assert.NoError(t, err)

	payload := eventPayload("evt_1", "payment_intent.payment_failed",
		`{"id":"pi_1","object":"payment_intent","metadata":{"session_id":"cs_1"}}`)
	header := signedHeader(payload, testSecret)

	tampered := eventPayload("evt_1", "payment_intent.succeeded",
		`{"id":"pi_1","object":"payment_intent","metadata":{"session_id":"cs_1"}}`)

	_, err = verifier.VerifyEvent(tampered, header)
	assert.ErrorIs(t, err, domain.ErrInvalidSignature)

	_, err = verifier.VerifyEvent(payload, "")
	assert.ErrorIs(t, err, domain.ErrInvalidSignature)
}

func TestNewEventVerifier_EmptySecret(t *testing.T) {
	_, err := stripe.NewEventVerifier(&config.Stripe{}, zap.NewNop())
	assert.Error(t, err)
}
