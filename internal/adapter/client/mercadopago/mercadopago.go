package mercadopago

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/MikeRez0/storefront/internal/adapter/config"
	"github.com/MikeRez0/storefront/internal/core/domain"
	"github.com/govalues/decimal"
	"go.uber.org/zap"
)

const maxErrorBody = 4 << 10

type Client struct {
	logger      *zap.Logger
	host        string
	accessToken string
	http        *http.Client
}

func NewClient(cfg *config.MercadoPago, log *zap.Logger) (*Client, error) {
	if cfg.BaseURL == "" {
		return nil, fmt.Errorf("mercadopago base url is empty")
	}
	timeout := cfg.Timeout
	if timeout <= 0 {
		timeout = 5 * time.Second
	}
	return &Client{
		logger:      log,
		host:        strings.TrimRight(cfg.BaseURL, "/"),
		accessToken: cfg.AccessToken,
		http:        &http.Client{Timeout: timeout},
	}, nil
}

type paymentResponse struct {
	ID                json.Number  `json:"id"`
	Status            string       `json:"status"`
	StatusDetail      string       `json:"status_detail"`
	PaymentMethodID   string       `json:"payment_method_id"`
	TransactionAmount json.Number  `json:"transaction_amount"`
	CurrencyID        string       `json:"currency_id"`
	DateCreated       *time.Time   `json:"date_created"`
	DateApproved      *time.Time   `json:"date_approved"`
	ExternalReference string       `json:"external_reference"`
	Payer             *payerResult `json:"payer"`
}

type payerResult struct {
	Email          string `json:"email"`
	Identification *struct {
		Type   string `json:"type"`
		Number string `json:"number"`
	} `json:"identification"`
}

type errorResponse struct {
	Message string `json:"message"`
	Error   string `json:"error"`
	Status  int    `json:"status"`
}

func (c *Client) GetPayment(ctx context.Context, paymentID string) (*domain.PaymentStatus, error) {
	requestStr := c.host + "/v1/payments/" + url.PathEscape(paymentID)
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, requestStr, http.NoBody)
	if err != nil {
		return nil, fmt.Errorf("%w: error on %s: %v", domain.ErrUpstream, requestStr, err)
	}
	req.Header.Set("Authorization", "Bearer "+c.accessToken)
	req.Header.Set("Accept", "application/json")

	c.logger.Debug("Fire request for payment status", zap.String("payment", paymentID))

	resp, err := c.http.Do(req)
	if err != nil {
		return nil, fmt.Errorf("%w: request error: %v", domain.ErrUpstream, err)
	}
	defer func() { _ = resp.Body.Close() }()

	if resp.StatusCode != http.StatusOK {
		if resp.StatusCode == http.StatusNotFound {
			return nil, domain.ErrDataNotFound
		}
		detail := readErrorDetail(resp.Body)
		c.logger.Error("unexpected status for payment request",
			zap.String("payment", paymentID),
			zap.Int("status", resp.StatusCode),
			zap.String("detail", detail))
		return nil, fmt.Errorf("%w: status %d: %s", domain.ErrUpstream, resp.StatusCode, detail)
	}

	var result paymentResponse
	decoder := json.NewDecoder(resp.Body)
	decoder.UseNumber()
	err = decoder.Decode(&result)
	if err != nil {
		return nil, fmt.Errorf("%w: error on response decode: %v", domain.ErrUpstream, err)
	}

	return result.toDomain()
}

func (r *paymentResponse) toDomain() (*domain.PaymentStatus, error) {
	amount := decimal.Zero
	if r.TransactionAmount != "" {
		var err error
		amount, err = decimal.Parse(r.TransactionAmount.String())
		if err != nil {
			return nil, fmt.Errorf("%w: transaction amount %q: %v", domain.ErrUpstream, r.TransactionAmount, err)
		}
	}

	status := &domain.PaymentStatus{
		ID:                r.ID.String(),
		Status:            r.Status,
		StatusDetail:      r.StatusDetail,
		PaymentMethodID:   r.PaymentMethodID,
		TransactionAmount: amount,
		CurrencyID:        r.CurrencyID,
		DateCreated:       r.DateCreated,
		DateApproved:      r.DateApproved,
		ExternalReference: r.ExternalReference,
	}

	if r.Payer != nil && (r.Payer.Email != "" || r.Payer.Identification != nil) {
		payer := &domain.PaymentPayer{Email: r.Payer.Email}
		if r.Payer.Identification != nil {
			payer.IdentificationType = r.Payer.Identification.Type
			payer.IdentificationNumber = r.Payer.Identification.Number
		}
		status.Payer = payer
	}

	return status, nil
}

func readErrorDetail(body io.Reader) string {
	raw, err := io.ReadAll(io.LimitReader(body, maxErrorBody))
	if err != nil {
		return err.Error()
	}

	var e errorResponse
	if json.Unmarshal(raw, &e) == nil && e.Message != "" {
		if e.Error != "" {
			return e.Error + ": " + e.Message
		}
		return e.Message
	}
	return strings.TrimSpace(string(raw))
}
