package http

import (
	"errors"
	"net/http"
	"time"

	"github.com/MikeRez0/storefront/internal/core/domain"
	"github.com/MikeRez0/storefront/internal/core/port"
	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

const stripeSignatureHeader = "Stripe-Signature"

// Stripe caps event payloads well below this.
const maxWebhookBody = 64 << 10

type PaymentHandler struct {
	Handler
	service port.Service
}

func NewPaymentHandler(service port.Service, logger *zap.Logger, exposeDetails bool) (*PaymentHandler, error) {
	return &PaymentHandler{
		Handler: *NewHandler(logger, exposeDetails),
		service: service,
	}, nil
}

// StripeWebhook needs the body byte for byte, the signature covers it.
func (ph *PaymentHandler) StripeWebhook(ctx *gin.Context) {
	ctx.Request.Body = http.MaxBytesReader(ctx.Writer, ctx.Request.Body, maxWebhookBody)
	payload, err := ctx.GetRawData()
	if err != nil {
		ph.handleValidationError(ctx, errors.New("unreadable request body"))
		return
	}

	_, err = ph.service.ProcessPaymentWebhook(ctx.Request.Context(), payload,
		ctx.GetHeader(stripeSignatureHeader))
	if err != nil {
		ph.handleError(ctx, err)
		return
	}

	ph.handleSuccess(ctx, gin.H{"received": true})
}

type identificationResp struct {
	Type   string `json:"type,omitempty"`
	Number string `json:"number,omitempty"`
}

type payerResp struct {
	Email          string              `json:"email,omitempty"`
	Identification *identificationResp `json:"identification,omitempty"`
}

type paymentStatusResp struct {
	ID                string      `json:"id"`
	Status            string      `json:"status"`
	StatusDetail      string      `json:"status_detail"`
	PaymentMethodID   string      `json:"payment_method_id"`
	TransactionAmount jsonDecimal `json:"transaction_amount"`
	CurrencyID        string      `json:"currency_id"`
	DateCreated       *time.Time  `json:"date_created"`
	DateApproved      *time.Time  `json:"date_approved"`
	ExternalReference string      `json:"external_reference"`
	Payer             *payerResp  `json:"payer,omitempty"`
}

func newPaymentStatusResp(s *domain.PaymentStatus) paymentStatusResp {
	resp := paymentStatusResp{
		ID:                s.ID,
		Status:            s.Status,
		StatusDetail:      s.StatusDetail,
		PaymentMethodID:   s.PaymentMethodID,
		TransactionAmount: jsonDecimal(s.TransactionAmount),
		CurrencyID:        s.CurrencyID,
		DateCreated:       s.DateCreated,
		DateApproved:      s.DateApproved,
		ExternalReference: s.ExternalReference,
	}
	if s.Payer != nil {
		resp.Payer = &payerResp{Email: s.Payer.Email}
		if s.Payer.IdentificationType != "" || s.Payer.IdentificationNumber != "" {
			resp.Payer.Identification = &identificationResp{
				Type:   s.Payer.IdentificationType,
				Number: s.Payer.IdentificationNumber,
			}
		}
	}
	return resp
}

// PaymentStatus asks the provider directly and never touches the order.
func (ph *PaymentHandler) PaymentStatus(ctx *gin.Context) {
	status, err := ph.service.GetPaymentStatus(ctx.Request.Context(), ctx.Param("id"))
	if err != nil {
		ph.handleError(ctx, err)
		return
	}

	ph.handleSuccess(ctx, newPaymentStatusResp(status))
}
