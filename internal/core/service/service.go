package service

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/MikeRez0/storefront/internal/core/domain"
	"github.com/MikeRez0/storefront/internal/core/port"
	"github.com/google/uuid"
	"go.uber.org/zap"
)

const (
	outcomeApplied   = "applied"
	outcomeDuplicate = "duplicate"
	outcomeIgnored   = "ignored"
	outcomeUnchanged = "unchanged"
	outcomeNotFound  = "order_not_found"
	outcomeFailed    = "failed"
)

type Service struct {
	repo     port.Repository
	verifier port.PaymentEventVerifier
	prober   port.PaymentStatusProber
	metrics  port.PaymentMetrics
	logger   *zap.Logger
	now      func() time.Time
}

func NewService(repo port.Repository,
	verifier port.PaymentEventVerifier,
	prober port.PaymentStatusProber,
	metrics port.PaymentMetrics,
	logger *zap.Logger) (*Service, error) {
	return &Service{
		repo:     repo,
		verifier: verifier,
		prober:   prober,
		metrics:  metrics,
		logger:   logger,
		now:      time.Now,
	}, nil
}

func (s *Service) Checkout(ctx context.Context, order *domain.Order) (*domain.Order, error) {
	order.UserID = strings.TrimSpace(order.UserID)
	if order.UserID == "" {
		return nil, fmt.Errorf("%w: user id is required", domain.ErrValidation)
	}
	if len(order.Items) == 0 {
		return nil, fmt.Errorf("%w: items are required", domain.ErrValidation)
	}
	for i, item := range order.Items {
		if strings.TrimSpace(item.ProductID) == "" {
			return nil, fmt.Errorf("%w: item %d has no product id", domain.ErrValidation, i)
		}
		if item.Quantity < 1 {
			return nil, fmt.Errorf("%w: item %d has quantity %d", domain.ErrValidation, i, item.Quantity)
		}
	}
	if !order.Total.IsPos() {
		return nil, fmt.Errorf("%w: total must be positive", domain.ErrValidation)
	}
	// stored as NUMERIC(12,2), finer totals would not match their split
	if !order.Total.Round(2).Equal(order.Total) {
		return nil, fmt.Errorf("%w: total %s has fractions of a cent", domain.ErrValidation, order.Total)
	}

	// replayed checkout
	if order.IdempotencyKey != "" {
		exOrder, err := s.repo.ReadOrderByIdempotencyKey(ctx, order.UserID, order.IdempotencyKey)
		if err != nil && !errors.Is(err, domain.ErrDataNotFound) {
			s.logger.Error("Read order by idempotency key",
				zap.String("user", order.UserID), zap.Error(err))
			return nil, fmt.Errorf("%w: %v", domain.ErrOrderPersistence, err)
		}
		if exOrder != nil {
			return exOrder, nil
		}
	}

	subtotal, igv, err := domain.SplitTotal(order.Total)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", domain.ErrValidation, err)
	}

	order.ID = uuid.New()
	order.Subtotal = subtotal
	order.IGV = igv
	order.Status = domain.OrderStatusPending
	order.PaymentMethod = domain.PaymentMethodMercadoPago
	order.ProviderSessionID = ""
	order.PaidAt = nil
	order.CreatedAt = s.now()

	newOrder, err := s.repo.CreateOrder(ctx, order)
	if err != nil {
		if errors.Is(err, domain.ErrConflictingData) && order.IdempotencyKey != "" {
			// lost a race against the same key
			exOrder, readErr := s.repo.ReadOrderByIdempotencyKey(ctx, order.UserID, order.IdempotencyKey)
			if readErr == nil {
				return exOrder, nil
			}
			err = readErr
		}
		s.logger.Error("Create order", zap.String("user", order.UserID), zap.Error(err))
		return nil, fmt.Errorf("%w: %v", domain.ErrOrderPersistence, err)
	}

	s.logger.Info("Order created",
		zap.Stringer("order", newOrder.ID),
		zap.String("user", newOrder.UserID),
		zap.Stringer("total", newOrder.Total))

	return newOrder, nil
}

func (s *Service) GetOrder(ctx context.Context, userID string, orderID uuid.UUID) (*domain.Order, error) {
	if userID == "" {
		return nil, fmt.Errorf("%w: user id is required", domain.ErrValidation)
	}
	order, err := s.repo.ReadOrder(ctx, userID, orderID)
	if err != nil {
		if errors.Is(err, domain.ErrDataNotFound) {
			return nil, domain.ErrDataNotFound
		}
		s.logger.Error("Get order", zap.Stringer("order", orderID), zap.Error(err))
		return nil, domain.ErrInternal
	}
	return order, nil
}

func (s *Service) GetOrdersByUser(ctx context.Context, userID string) ([]*domain.Order, error) {
	if userID == "" {
		return nil, fmt.Errorf("%w: user id is required", domain.ErrValidation)
	}
	list, err := s.repo.ListOrdersByUser(ctx, userID)
	if err != nil {
		s.logger.Error("Get orders for user", zap.String("user", userID), zap.Error(err))
		return nil, domain.ErrInternal
	}
	return list, nil
}

// ProcessPaymentWebhook verifies a provider event and applies it to the
// matching order. A nil error means the provider must not redeliver.
func (s *Service) ProcessPaymentWebhook(ctx context.Context,
	payload []byte,
	signature string,
) (*domain.PaymentEventResult, error) {
	event, err := s.verifier.VerifyEvent(payload, signature)
	if err != nil {
		s.logger.Warn("Payment event rejected", zap.Error(err))
		if errors.Is(err, domain.ErrInvalidSignature) || errors.Is(err, domain.ErrValidation) {
			return nil, err
		}
		return nil, fmt.Errorf("%w: %v", domain.ErrInvalidSignature, err)
	}

	log := s.logger.With(
		zap.String("event", event.ID),
		zap.String("kind", string(event.Kind)),
		zap.String("provider_type", event.ProviderType))

	target, ok := targetStatus(event.Kind)
	if !ok {
		log.Info("Payment event ignored")
		s.metrics.PaymentEventHandled(event.Kind, outcomeIgnored)
		return nil, nil
	}
	if event.Correlation.IsZero() {
		log.Warn("Payment event carries no correlation")
		s.metrics.PaymentEventHandled(event.Kind, outcomeNotFound)
		return nil, nil
	}

	var result *domain.PaymentEventResult
	err = s.repo.WithinTx(ctx, func(store port.OrderStore) error {
		var err error
		result, err = s.applyPaymentEvent(ctx, store, event, target, log)
		return err
	})

	switch {
	case err == nil:
	case errors.Is(err, domain.ErrEventAlreadyApplied):
		log.Info("Payment event already applied")
		s.metrics.PaymentEventHandled(event.Kind, outcomeDuplicate)
		return nil, nil
	case errors.Is(err, domain.ErrDataNotFound):
		log.Warn("Payment event order not found",
			zap.String("session", event.Correlation.SessionID))
		s.metrics.PaymentEventHandled(event.Kind, outcomeNotFound)
		return nil, nil
	default:
		log.Error("Apply payment event", zap.Error(err))
		s.metrics.PaymentEventHandled(event.Kind, outcomeFailed)
		return nil, domain.ErrInternal
	}

	if result.Changed {
		s.metrics.PaymentEventHandled(event.Kind, outcomeApplied)
	} else {
		s.metrics.PaymentEventHandled(event.Kind, outcomeUnchanged)
	}
	return result, nil
}

func (s *Service) applyPaymentEvent(ctx context.Context,
	store port.OrderStore,
	event *domain.PaymentEvent,
	target domain.OrderStatus,
	log *zap.Logger,
) (*domain.PaymentEventResult, error) {
	err := store.RecordPaymentEvent(ctx, event)
	if err != nil {
		return nil, err
	}

	order, err := store.ReadOrderByCorrelation(ctx, event.Correlation)
	if err != nil {
		return nil, err
	}
	log = log.With(zap.Stringer("order", order.ID))

	result := &domain.PaymentEventResult{OrderID: order.ID, Status: order.Status}

	changed, err := order.Transition(target)
	if err != nil {
		if errors.Is(err, domain.ErrInvalidTransition) {
			// keep the event record so redelivery stays a no-op
			log.Warn("Payment event refused by order status", zap.Error(err))
			return result, nil
		}
		return nil, err
	}

	change := domain.StatusChange{Status: order.Status}
	fulfil := event.Kind == domain.PaymentEventCheckoutCompleted && order.PaidAt == nil
	if fulfil {
		paidAt := s.now()
		change.PaidAt = &paidAt
		change.ProviderSessionID = event.Correlation.SessionID
	}
	if !changed && !fulfil {
		return result, nil
	}

	err = store.UpdateOrderStatus(ctx, order.ID, change)
	if err != nil {
		return nil, err
	}
	result.Status = order.Status
	result.Changed = true

	if !fulfil {
		log.Info("Order status updated", zap.String("status", string(order.Status)))
		return result, nil
	}

	for _, item := range order.Items {
		applied, err := store.DecrementStock(ctx, item.ProductID, item.Quantity)
		if err != nil {
			return nil, fmt.Errorf("decrement stock for %s: %w", item.ProductID, err)
		}
		if !applied {
			log.Warn("Insufficient stock, decrement skipped",
				zap.String("product", item.ProductID),
				zap.Int("quantity", item.Quantity))
			s.metrics.StockShortfall(item.ProductID, item.Quantity)
			result.Shortfalls = append(result.Shortfalls,
				domain.StockShortfall{ProductID: item.ProductID, Quantity: item.Quantity})
		}
	}

	log.Info("Order paid",
		zap.String("status", string(order.Status)),
		zap.Int("items", len(order.Items)),
		zap.Int("shortfalls", len(result.Shortfalls)))

	return result, nil
}

func targetStatus(kind domain.PaymentEventKind) (domain.OrderStatus, bool) {
	switch kind {
	case domain.PaymentEventCheckoutCompleted, domain.PaymentEventSucceeded:
		return domain.OrderStatusProcessing, true
	case domain.PaymentEventFailed:
		return domain.OrderStatusCancelled, true
	default:
		return "", false
	}
}

func (s *Service) GetPaymentStatus(ctx context.Context, paymentID string) (*domain.PaymentStatus, error) {
	paymentID = strings.TrimSpace(paymentID)
	if paymentID == "" {
		return nil, fmt.Errorf("%w: payment id is required", domain.ErrValidation)
	}

	status, err := s.prober.GetPayment(ctx, paymentID)
	if err != nil {
		if errors.Is(err, domain.ErrDataNotFound) {
			return nil, domain.ErrDataNotFound
		}
		s.logger.Error("Get payment status", zap.String("payment", paymentID), zap.Error(err))
		if errors.Is(err, domain.ErrUpstream) {
			return nil, err
		}
		return nil, fmt.Errorf("%w: %v", domain.ErrUpstream, err)
	}

	return status, nil
}

func (s *Service) Ping(ctx context.Context) error {
	return s.repo.Ping(ctx)
}
