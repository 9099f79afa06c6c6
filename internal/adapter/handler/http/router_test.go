package http_test

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/MikeRez0/storefront/internal/adapter/config"
	handler "github.com/MikeRez0/storefront/internal/adapter/handler/http"
	"github.com/MikeRez0/storefront/internal/adapter/metrics"
	"github.com/MikeRez0/storefront/internal/core/domain"
	"github.com/MikeRez0/storefront/internal/core/port/mock"
	"github.com/gin-gonic/gin"
	"github.com/golang/mock/gomock"
	"github.com/google/uuid"
	"github.com/govalues/decimal"
	"github.com/stretchr/testify/assert"
	"go.uber.org/zap"
)

func newTestRouter(t *testing.T, svc *mock.MockService, exposeDetails bool) *handler.Router {
	t.Helper()
	gin.SetMode(gin.TestMode)

	logger := zap.NewNop()

	oh, err := handler.NewOrderHandler(svc, logger, exposeDetails)
	assert.NoError(t, err)
	ph, err := handler.NewPaymentHandler(svc, logger, exposeDetails)
	assert.NoError(t, err)

	r, err := handler.NewRouter(&config.HTTP{}, svc, metrics.NewMetrics(), oh, ph, logger)
	assert.NoError(t, err)
	return r
}

type testRequest struct {
	method  string
	path    string
	body    string
	headers map[string]string
}

func doRequest(r http.Handler, req testRequest) (int, map[string]any) {
	httpReq := httptest.NewRequest(req.method, req.path, strings.NewReader(req.body))
	for k, v := range req.headers {
		httpReq.Header.Set(k, v)
	}
	w := httptest.NewRecorder()
	r.ServeHTTP(w, httpReq)

	var body map[string]any
	raw, _ := io.ReadAll(w.Result().Body)
	_ = json.Unmarshal(raw, &body)
	return w.Code, body
}

const cartBody = `{
	"items": [{"product_id": 7, "quantity": 2, "price": 100}, {"id": "sku-9", "quantity": 1, "price": 36, "variant_id": "red"}],
	"total": 236,
	"nombre": "Ana",
	"email": "ana@example.com",
	"direccion": "Av. Larco 123",
	"telefono": "999888777",
	"usuario_id": "body-user"
}`

func TestOrderHandler_Checkout(t *testing.T) {
	mockCtrl := gomock.NewController(t)
	defer mockCtrl.Finish()

	orderID := uuid.New()

	type checkoutTest struct {
		name      string
		req       testRequest
		mock      func(svc *mock.MockService)
		expStatus int
		expBody   map[string]any
	}

	tests := []checkoutTest{
		{
			name: "header identity wins",
			req: testRequest{
				method: http.MethodPost,
				path:   "/api/checkout",
				body:   cartBody,
				headers: map[string]string{
					"x-user-id":       "header-user",
					"Idempotency-Key": "cart-1",
				},
			},
			mock: func(svc *mock.MockService) {
				svc.EXPECT().Checkout(gomock.Any(), gomock.Any()).
					DoAndReturn(func(ctx context.Context, order *domain.Order) (*domain.Order, error) {
						assert.Equal(t, "header-user", order.UserID)
						assert.Equal(t, "cart-1", order.IdempotencyKey)
						assert.Equal(t, "Av. Larco 123", order.ShippingAddress)
						assert.True(t, decimal.MustParse("236").Equal(order.Total))
						if assert.Len(t, order.Items, 2) {
							assert.Equal(t, "7", order.Items[0].ProductID)
							assert.Equal(t, 2, order.Items[0].Quantity)
							assert.Equal(t, "sku-9", order.Items[1].ProductID)
							if assert.NotNil(t, order.Items[1].VariantID) {
								assert.Equal(t, "red", *order.Items[1].VariantID)
							}
						}
						order.ID = orderID
						return order, nil
					})
			},
			expStatus: http.StatusOK,
			expBody: map[string]any{
				"success":   true,
				"pedido_id": orderID.String(),
				"message":   "Pedido creado exitosamente",
			},
		},
		{
			name: "body identity used without header",
			req:  testRequest{method: http.MethodPost, path: "/api/checkout", body: cartBody},
			mock: func(svc *mock.MockService) {
				svc.EXPECT().Checkout(gomock.Any(), gomock.Any()).
					DoAndReturn(func(ctx context.Context, order *domain.Order) (*domain.Order, error) {
						assert.Equal(t, "body-user", order.UserID)
						assert.Empty(t, order.IdempotencyKey)
						order.ID = orderID
						return order, nil
					})
			},
			expStatus: http.StatusOK,
		},
		{
			name: "items not a list",
			req: testRequest{
				method: http.MethodPost,
				path:   "/api/checkout",
				body:   `{"items": {"a": 1}, "total": 10, "usuario_id": 1}`,
			},
			mock:      func(svc *mock.MockService) {},
			expStatus: http.StatusBadRequest,
		},
		{
			name: "not json",
			req: testRequest{
				method: http.MethodPost,
				path:   "/api/checkout",
				body:   `items=1`,
			},
			mock:      func(svc *mock.MockService) {},
			expStatus: http.StatusBadRequest,
		},
		{
			name: "rejected by service",
			req: testRequest{
				method: http.MethodPost,
				path:   "/api/checkout",
				body:   `{"items": [], "total": 10}`,
			},
			mock: func(svc *mock.MockService) {
				svc.EXPECT().Checkout(gomock.Any(), gomock.Any()).
					Return(nil, fmt.Errorf("%w: items are required", domain.ErrValidation))
			},
			expStatus: http.StatusBadRequest,
			expBody: map[string]any{
				"error": "request validation failed: items are required",
			},
		},
		{
			name: "persistence failure",
			req:  testRequest{method: http.MethodPost, path: "/api/checkout", body: cartBody},
			mock: func(svc *mock.MockService) {
				svc.EXPECT().Checkout(gomock.Any(), gomock.Any()).
					Return(nil, fmt.Errorf("%w: connection refused", domain.ErrOrderPersistence))
			},
			expStatus: http.StatusInternalServerError,
			expBody: map[string]any{
				"error":   "order could not be persisted",
				"details": "order could not be persisted: connection refused",
			},
		},
	}

	for _, test := range tests {
		t.Run(test.name, func(t *testing.T) {
			svc := mock.NewMockService(mockCtrl)
			test.mock(svc)
			r := newTestRouter(t, svc, true)

			status, body := doRequest(r, test.req)
			assert.Equal(t, test.expStatus, status)
			if test.expBody != nil {
				assert.Equal(t, test.expBody, body)
			}
		})
	}
}

func TestOrderHandler_CheckoutTooLarge(t *testing.T) {
	mockCtrl := gomock.NewController(t)
	defer mockCtrl.Finish()

	r := newTestRouter(t, mock.NewMockService(mockCtrl), true)

	body := `{"nombre": "` + strings.Repeat("a", 300<<10) + `", "items": [], "total": 10}`
	status, _ := doRequest(r, testRequest{method: http.MethodPost, path: "/api/checkout", body: body})
	assert.Equal(t, http.StatusBadRequest, status)
}

func TestHandler_HidesDetailsInProduction(t *testing.T) {
	mockCtrl := gomock.NewController(t)
	defer mockCtrl.Finish()

	svc := mock.NewMockService(mockCtrl)
	svc.EXPECT().GetPaymentStatus(gomock.Any(), "42").
		Return(nil, fmt.Errorf("%w: unauthorized: invalid access token", domain.ErrUpstream))
	r := newTestRouter(t, svc, false)

	status, body := doRequest(r, testRequest{method: http.MethodGet, path: "/api/payments/42/status"})
	assert.Equal(t, http.StatusInternalServerError, status)
	assert.Equal(t, map[string]any{"error": "payment provider error"}, body)
}

func TestPaymentHandler_StripeWebhook(t *testing.T) {
	mockCtrl := gomock.NewController(t)
	defer mockCtrl.Finish()

	const payload = `{"id":"evt_1","type":"checkout.session.completed"}`

	type webhookTest struct {
		name      string
		svcError  error
		expStatus int
		expBody   map[string]any
	}

	tests := []webhookTest{
		{
			name:      "acknowledged",
			expStatus: http.StatusOK,
			expBody:   map[string]any{"received": true},
		},
		{
			name:      "bad signature",
			svcError:  domain.ErrInvalidSignature,
			expStatus: http.StatusBadRequest,
		},
		{
			name:      "internal failure asks for redelivery",
			svcError:  domain.ErrInternal,
			expStatus: http.StatusInternalServerError,
		},
	}

	for _, test := range tests {
		t.Run(test.name, func(t *testing.T) {
			svc := mock.NewMockService(mockCtrl)
			svc.EXPECT().ProcessPaymentWebhook(gomock.Any(), []byte(payload), "t=1,v1=abc").
				Return(nil, test.svcError)
			r := newTestRouter(t, svc, true)

			status, body := doRequest(r, testRequest{
				method:  http.MethodPost,
				path:    "/api/webhooks/stripe",
				body:    payload,
				headers: map[string]string{"Stripe-Signature": "t=1,v1=abc"},
			})
			assert.Equal(t, test.expStatus, status)
			if test.expBody != nil {
				assert.Equal(t, test.expBody, body)
			}
		})
	}
}

func TestPaymentHandler_StripeWebhookTooLarge(t *testing.T) {
	mockCtrl := gomock.NewController(t)
	defer mockCtrl.Finish()

	r := newTestRouter(t, mock.NewMockService(mockCtrl), true)

	status, _ := doRequest(r, testRequest{
		method: http.MethodPost,
		path:   "/api/webhooks/stripe",
		body:   strings.Repeat("x", 70<<10),
	})
	assert.Equal(t, http.StatusBadRequest, status)
}

func TestPaymentHandler_PaymentStatus(t *testing.T) {
	mockCtrl := gomock.NewController(t)
	defer mockCtrl.Finish()

	svc := mock.NewMockService(mockCtrl)
	svc.EXPECT().GetPaymentStatus(gomock.Any(), "1319436212").Return(&domain.PaymentStatus{
		ID:                "1319436212",
		Status:            "approved",
		StatusDetail:      "accredited",
		PaymentMethodID:   "visa",
		TransactionAmount: decimal.MustParse("236.5"),
		CurrencyID:        "PEN",
		ExternalReference: "order-1",
		Payer: &domain.PaymentPayer{
			Email:                "ana@example.com",
			IdentificationType:   "DNI",
			IdentificationNumber: "12345678",
		},
	}, nil)
	svc.EXPECT().GetPaymentStatus(gomock.Any(), "404").Return(nil, domain.ErrDataNotFound)
	svc.EXPECT().GetPaymentStatus(gomock.Any(), "").
		Return(nil, fmt.Errorf("%w: payment id is required", domain.ErrValidation))

	r := newTestRouter(t, svc, true)

	status, body := doRequest(r, testRequest{method: http.MethodGet, path: "/api/payments/1319436212/status"})
	assert.Equal(t, http.StatusOK, status)
	assert.Equal(t, "approved", body["status"])
	assert.Equal(t, "accredited", body["status_detail"])
	assert.Equal(t, 236.5, body["transaction_amount"])
	assert.Equal(t, map[string]any{
		"email":          "ana@example.com",
		"identification": map[string]any{"type": "DNI", "number": "12345678"},
	}, body["payer"])

	status, _ = doRequest(r, testRequest{method: http.MethodGet, path: "/api/payments/404/status"})
	assert.Equal(t, http.StatusNotFound, status)

	status, _ = doRequest(r, testRequest{method: http.MethodGet, path: "/api/payments/status"})
	assert.Equal(t, http.StatusBadRequest, status)
}

func TestOrderHandler_Orders(t *testing.T) {
	mockCtrl := gomock.NewController(t)
	defer mockCtrl.Finish()

	orderID := uuid.New()
	order := &domain.Order{
		ID:     orderID,
		UserID: "user-1",
		Items: []domain.OrderItem{
			{ProductID: "p1", Quantity: 2, Price: decimal.MustParse("100")},
		},
		Subtotal: decimal.MustParse("200"),
		IGV:      decimal.MustParse("36"),
		Total:    decimal.MustParse("236"),
		Status:   domain.OrderStatusPending,
	}

	svc := mock.NewMockService(mockCtrl)
	svc.EXPECT().GetOrdersByUser(gomock.Any(), "user-1").Return([]*domain.Order{order}, nil)
	svc.EXPECT().GetOrder(gomock.Any(), "user-1", orderID).Return(order, nil)
	svc.EXPECT().GetOrder(gomock.Any(), "user-2", orderID).Return(nil, domain.ErrDataNotFound)

	r := newTestRouter(t, svc, true)
	user1 := map[string]string{"x-user-id": "user-1"}

	status, _ := doRequest(r, testRequest{method: http.MethodGet, path: "/api/orders"})
	assert.Equal(t, http.StatusBadRequest, status)

	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/api/orders", nil)
	req.Header.Set("x-user-id", "user-1")
	r.ServeHTTP(w, req)
	assert.Equal(t, http.StatusOK, w.Code)
	var list []map[string]any
	assert.NoError(t, json.Unmarshal(w.Body.Bytes(), &list))
	if assert.Len(t, list, 1) {
		assert.Equal(t, orderID.String(), list[0]["id"])
		assert.Equal(t, "pendiente", list[0]["estado"])
		assert.Equal(t, 236.0, list[0]["total"])
	}

	status, body := doRequest(r, testRequest{method: http.MethodGet, path: "/api/orders/" + orderID.String(), headers: user1})
	assert.Equal(t, http.StatusOK, status)
	assert.Equal(t, 36.0, body["igv"])

	status, _ = doRequest(r, testRequest{
		method:  http.MethodGet,
		path:    "/api/orders/" + orderID.String(),
		headers: map[string]string{"x-user-id": "user-2"},
	})
	assert.Equal(t, http.StatusNotFound, status)

	status, _ = doRequest(r, testRequest{method: http.MethodGet, path: "/api/orders/42", headers: user1})
	assert.Equal(t, http.StatusBadRequest, status)
}

func TestRouter_ServeUsesConfiguredAddress(t *testing.T) {
	mockCtrl := gomock.NewController(t)
	defer mockCtrl.Finish()

	svc := mock.NewMockService(mockCtrl)
	oh, err := handler.NewOrderHandler(svc, zap.NewNop(), false)
	assert.NoError(t, err)
	ph, err := handler.NewPaymentHandler(svc, zap.NewNop(), false)
	assert.NoError(t, err)

	r, err := handler.NewRouter(&config.HTTP{HostString: "localhost:-1"}, svc, metrics.NewMetrics(), oh, ph, zap.NewNop())
	assert.NoError(t, err)

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	err = r.Serve(ctx)
	assert.Error(t, err)
	assert.Contains(t, err.Error(), "invalid port")
}

func TestRouter_Health(t *testing.T) {
	mockCtrl := gomock.NewController(t)
	defer mockCtrl.Finish()

	svc := mock.NewMockService(mockCtrl)
	svc.EXPECT().Ping(gomock.Any()).Return(nil)
	svc.EXPECT().Ping(gomock.Any()).Return(errors.New("connection refused"))
	r := newTestRouter(t, svc, true)

	status, _ := doRequest(r, testRequest{method: http.MethodGet, path: "/healthz"})
	assert.Equal(t, http.StatusOK, status)

	status, _ = doRequest(r, testRequest{method: http.MethodGet, path: "/healthz"})
	assert.Equal(t, http.StatusServiceUnavailable, status)

	status, _ = doRequest(r, testRequest{method: http.MethodGet, path: "/metrics"})
	assert.Equal(t, http.StatusOK, status)
}
