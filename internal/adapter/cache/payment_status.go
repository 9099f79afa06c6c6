package cache

import (
	"context"
	"encoding/json"
	"errors"
	"time"

	"github.com/MikeRez0/storefront/internal/core/domain"
	"github.com/MikeRez0/storefront/internal/core/port"
	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"
)

const paymentStatusKeyPrefix = "payment_status:"

// PaymentStatusCache keeps provider projections for a short TTL so that
// storefront polling does not hit the provider on every request.
// Cache errors are logged and the provider is asked directly.
type PaymentStatusCache struct {
	next   port.PaymentStatusProber
	rdb    redis.Cmdable
	ttl    time.Duration
	logger *zap.Logger
}

func NewPaymentStatusCache(next port.PaymentStatusProber,
	rdb redis.Cmdable,
	ttl time.Duration,
	log *zap.Logger,
) *PaymentStatusCache {
	return &PaymentStatusCache{next: next, rdb: rdb, ttl: ttl, logger: log}
}

func (c *PaymentStatusCache) GetPayment(ctx context.Context, paymentID string) (*domain.PaymentStatus, error) {
	key := paymentStatusKeyPrefix + paymentID

	raw, err := c.rdb.Get(ctx, key).Bytes()
	switch {
	case err == nil:
		var status domain.PaymentStatus
		if err := json.Unmarshal(raw, &status); err == nil {
			return &status, nil
		}
		c.logger.Warn("Drop unreadable cached payment status", zap.String("payment", paymentID))
	case !errors.Is(err, redis.Nil):
		c.logger.Warn("Payment status cache read", zap.String("payment", paymentID), zap.Error(err))
	}

	status, err := c.next.GetPayment(ctx, paymentID)
	if err != nil {
		return nil, err
	}

	raw, err = json.Marshal(status)
	if err == nil {
		err = c.rdb.Set(ctx, key, raw, c.ttl).Err()
	}
	if err != nil {
		c.logger.Warn("Payment status cache write", zap.String("payment", paymentID), zap.Error(err))
	}

	return status, nil
}
