package domain_test

import (
	"testing"

	"github.com/MikeRez0/storefront/internal/core/domain"
	"github.com/govalues/decimal"
	"github.com/stretchr/testify/assert"
)

func TestSplitTotal(t *testing.T) {
	type splitTest struct {
		total       string
		expSubtotal string
		expIGV      string
	}

	tests := []splitTest{
		{total: "236", expSubtotal: "200", expIGV: "36"},
		{total: "118.00", expSubtotal: "100", expIGV: "18"},
		{total: "100", expSubtotal: "84.75", expIGV: "15.25"},
		{total: "0.01", expSubtotal: "0.01", expIGV: "0"},
		{total: "59.90", expSubtotal: "50.76", expIGV: "9.14"},
	}

	for _, test := range tests {
		t.Run(test.total, func(t *testing.T) {
			total := decimal.MustParse(test.total)

			subtotal, igv, err := domain.SplitTotal(total)
			assert.NoError(t, err)

			assert.True(t, decimal.MustParse(test.expSubtotal).Equal(subtotal), "subtotal %s", subtotal)
			assert.True(t, decimal.MustParse(test.expIGV).Equal(igv), "igv %s", igv)

			sum, err := subtotal.Add(igv)
			assert.NoError(t, err)
			assert.True(t, total.Equal(sum), "subtotal+igv %s", sum)
		})
	}
}

func TestOrderStatus_CanTransitionTo(t *testing.T) {
	type transitionTest struct {
		from    domain.OrderStatus
		to      domain.OrderStatus
		allowed bool
	}

	tests := []transitionTest{
		{domain.OrderStatusPending, domain.OrderStatusProcessing, true},
		{domain.OrderStatusPending, domain.OrderStatusCancelled, true},
		{domain.OrderStatusPending, domain.OrderStatusCompleted, false},
		{domain.OrderStatusProcessing, domain.OrderStatusCompleted, true},
		{domain.OrderStatusProcessing, domain.OrderStatusCancelled, true},
		{domain.OrderStatusProcessing, domain.OrderStatusPending, false},
		{domain.OrderStatusProcessing, domain.OrderStatusProcessing, true},
		{domain.OrderStatusCancelled, domain.OrderStatusProcessing, false},
		{domain.OrderStatusCancelled, domain.OrderStatusCancelled, true},
		{domain.OrderStatusCompleted, domain.OrderStatusCancelled, false},
	}

	for _, test := range tests {
		t.Run(string(test.from)+"->"+string(test.to), func(t *testing.T) {
			assert.Equal(t, test.allowed, test.from.CanTransitionTo(test.to))
		})
	}
}

func TestOrder_Transition(t *testing.T) {
	order := &domain.Order{Status: domain.OrderStatusPending}

	changed, err := order.Transition(domain.OrderStatusProcessing)
	assert.NoError(t, err)
	assert.True(t, changed)
	assert.Equal(t, domain.OrderStatusProcessing, order.Status)

	changed, err = order.Transition(domain.OrderStatusProcessing)
	assert.NoError(t, err)
	assert.False(t, changed)

	_, err = order.Transition(domain.OrderStatusPending)
	assert.ErrorIs(t, err, domain.ErrInvalidTransition)
	assert.Equal(t, domain.OrderStatusProcessing, order.Status)
}
