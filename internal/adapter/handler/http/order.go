package http

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/MikeRez0/storefront/internal/core/domain"
	"github.com/MikeRez0/storefront/internal/core/port"
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/govalues/decimal"
	"go.uber.org/zap"
)

const orderCreatedMessage = "Pedido creado exitosamente"

const maxCheckoutBody = 256 << 10

type OrderHandler struct {
	Handler
	service port.Service
}

func NewOrderHandler(service port.Service, logger *zap.Logger, exposeDetails bool) (*OrderHandler, error) {
	return &OrderHandler{
		Handler: *NewHandler(logger, exposeDetails),
		service: service,
	}, nil
}

// flexID accepts both JSON strings and numbers, storefront clients send either.
type flexID string

func (f *flexID) UnmarshalJSON(data []byte) error {
	data = bytes.TrimSpace(data)
	if bytes.Equal(data, []byte("null")) {
		*f = ""
		return nil
	}
	if len(data) > 0 && data[0] == '"' {
		var s string
		if err := json.Unmarshal(data, &s); err != nil {
			return err
		}
		*f = flexID(strings.TrimSpace(s))
		return nil
	}
	var n json.Number
	if err := json.Unmarshal(data, &n); err != nil {
		return fmt.Errorf("id must be a string or a number")
	}
	*f = flexID(n.String())
	return nil
}

type checkoutItemReq struct {
	ProductID flexID      `json:"product_id"`
	ID        flexID      `json:"id"`
	Quantity  int         `json:"quantity"`
	Price     json.Number `json:"price"`
	VariantID *flexID     `json:"variant_id"`
}

type checkoutReq struct {
	Items     json.RawMessage `json:"items"`
	Total     json.Number     `json:"total"`
	Nombre    string          `json:"nombre"`
	Email     string          `json:"email"`
	Direccion string          `json:"direccion"`
	Telefono  string          `json:"telefono"`
	UsuarioID flexID          `json:"usuario_id"`
}

type checkoutResp struct {
	Success  bool      `json:"success"`
	PedidoID uuid.UUID `json:"pedido_id"`
	Message  string    `json:"message"`
}

func (r *checkoutReq) toDomain() (*domain.Order, error) {
	order := &domain.Order{
		UserID:          string(r.UsuarioID),
		CustomerName:    strings.TrimSpace(r.Nombre),
		CustomerEmail:   strings.TrimSpace(r.Email),
		CustomerPhone:   strings.TrimSpace(r.Telefono),
		ShippingAddress: strings.TrimSpace(r.Direccion),
	}

	items := bytes.TrimSpace(r.Items)
	if len(items) > 0 && !bytes.Equal(items, []byte("null")) {
		var list []checkoutItemReq
		if err := json.Unmarshal(items, &list); err != nil {
			return nil, errors.New("items must be a list of products")
		}
		for i, item := range list {
			productID := item.ProductID
			if productID == "" {
				productID = item.ID
			}
			price := decimal.Zero
			if item.Price != "" {
				p, err := decimal.Parse(item.Price.String())
				if err != nil {
					return nil, fmt.Errorf("item %d has invalid price", i)
				}
				price = p
			}
			orderItem := domain.OrderItem{
				ProductID: string(productID),
				Quantity:  item.Quantity,
				Price:     price,
			}
			if item.VariantID != nil && *item.VariantID != "" {
				v := string(*item.VariantID)
				orderItem.VariantID = &v
			}
			order.Items = append(order.Items, orderItem)
		}
	}

	if r.Total == "" {
		return nil, errors.New("total is required")
	}
	total, err := decimal.Parse(r.Total.String())
	if err != nil {
		return nil, errors.New("total must be a number")
	}
	order.Total = total

	return order, nil
}

// Checkout creates a pending order. x-user-id wins over usuario_id from the body.
func (oh *OrderHandler) Checkout(ctx *gin.Context) {
	ctx.Request.Body = http.MaxBytesReader(ctx.Writer, ctx.Request.Body, maxCheckoutBody)

	var req checkoutReq
	decoder := json.NewDecoder(ctx.Request.Body)
	decoder.UseNumber()
	if err := decoder.Decode(&req); err != nil {
		oh.handleValidationError(ctx, errors.New("body must be a JSON object"))
		return
	}

	order, err := req.toDomain()
	if err != nil {
		oh.handleValidationError(ctx, err)
		return
	}
	if userID := strings.TrimSpace(ctx.GetHeader(userHeaderKey)); userID != "" {
		order.UserID = userID
	}
	order.IdempotencyKey = strings.TrimSpace(ctx.GetHeader(idempotencyHeaderKey))

	newOrder, err := oh.service.Checkout(ctx.Request.Context(), order)
	if err != nil {
		oh.handleError(ctx, err)
		return
	}

	oh.handleSuccess(ctx, checkoutResp{
		Success:  true,
		PedidoID: newOrder.ID,
		Message:  orderCreatedMessage,
	})
}

type orderItemResp struct {
	ProductID string      `json:"product_id"`
	Quantity  int         `json:"quantity"`
	Price     jsonDecimal `json:"price"`
	VariantID *string     `json:"variant_id,omitempty"`
}

type orderResp struct {
	ID                uuid.UUID       `json:"id"`
	UsuarioID         string          `json:"usuario_id"`
	Items             []orderItemResp `json:"items"`
	Subtotal          jsonDecimal     `json:"subtotal"`
	IGV               jsonDecimal     `json:"igv"`
	Total             jsonDecimal     `json:"total"`
	Estado            string          `json:"estado"`
	NombreCliente     string          `json:"nombre_cliente"`
	EmailCliente      string          `json:"email_cliente"`
	TelefonoCliente   string          `json:"telefono_cliente"`
	DireccionEnvio    string          `json:"direccion_envio"`
	MetodoPago        string          `json:"metodo_pago"`
	ProviderSessionID string          `json:"provider_session_id,omitempty"`
	FechaPago         *time.Time      `json:"fecha_pago,omitempty"`
	CreatedAt         time.Time       `json:"created_at"`
}

func newOrderResp(o *domain.Order) orderResp {
	items := make([]orderItemResp, 0, len(o.Items))
	for _, item := range o.Items {
		items = append(items, orderItemResp{
			ProductID: item.ProductID,
			Quantity:  item.Quantity,
			Price:     jsonDecimal(item.Price),
			VariantID: item.VariantID,
		})
	}

	return orderResp{
		ID:                o.ID,
		UsuarioID:         o.UserID,
		Items:             items,
		Subtotal:          jsonDecimal(o.Subtotal),
		IGV:               jsonDecimal(o.IGV),
		Total:             jsonDecimal(o.Total),
		Estado:            string(o.Status),
		NombreCliente:     o.CustomerName,
		EmailCliente:      o.CustomerEmail,
		TelefonoCliente:   o.CustomerPhone,
		DireccionEnvio:    o.ShippingAddress,
		MetodoPago:        o.PaymentMethod,
		ProviderSessionID: o.ProviderSessionID,
		FechaPago:         o.PaidAt,
		CreatedAt:         o.CreatedAt,
	}
}

func (oh *OrderHandler) ListOrdersByUser(ctx *gin.Context) {
	userID := getUserID(ctx)

	list, err := oh.service.GetOrdersByUser(ctx.Request.Context(), userID)
	if err != nil {
		oh.handleError(ctx, err)
		return
	}

	result := make([]orderResp, 0, len(list))
	for _, o := range list {
		result = append(result, newOrderResp(o))
	}

	oh.handleSuccess(ctx, result)
}

func (oh *OrderHandler) GetOrder(ctx *gin.Context) {
	userID := getUserID(ctx)

	orderID, err := uuid.Parse(ctx.Param("id"))
	if err != nil {
		oh.handleValidationError(ctx, errors.New("order id must be a UUID"))
		return
	}

	order, err := oh.service.GetOrder(ctx.Request.Context(), userID, orderID)
	if err != nil {
		oh.handleError(ctx, err)
		return
	}

	oh.handleSuccess(ctx, newOrderResp(order))
}
