package services

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/vladimiradmaev/spendeats/internal/domain"
	apperrors "github.com/vladimiradmaev/spendeats/internal/errors"
)

func withLimit(f *fixture, userID string, limit float64) {
	state := domain.NewUserEconomyState(userID)
	state.EditCountLifetime = 1
	state.EditCountThisMonth = 1
	state.SpendingLimit = domain.SpendingLimit{MonthlyAmount: limit, SetMonth: "2025-04"}
	f.seed(state)
}

func TestAddToCart(t *testing.T) {
	ctx := context.Background()
	f := newFixture(clockAt(2025, time.April, 15, 10, 0))
	sess := domain.NewSession("u1")

	update, err := f.orders.AddToCart(ctx, sess, "Pizza")
	require.NoError(t, err)
	assert.Equal(t, 1, update.Line.Quantity)
	assert.Equal(t, 1, update.Award.Points)

	update, err = f.orders.AddToCart(ctx, sess, "Pizza")
	require.NoError(t, err)
	assert.Equal(t, 2, update.Line.Quantity)

	_, err = f.orders.AddToCart(ctx, sess, "Burger")
	require.NoError(t, err)

	require.Len(t, sess.Cart, 2)
	assert.Equal(t, "Pizza", sess.Cart[0].Item)
	assert.Equal(t, 150.0, sess.Cart[0].Price)
	assert.Equal(t, 3, f.user("u1").LoyaltyPoints)

	cost, carbon := sess.CartTotals()
	assert.Equal(t, 360.0, cost)
	assert.InDelta(t, 10.0, carbon, 1e-9)
}

func TestAddToCartUnknownItem(t *testing.T) {
	f := newFixture(clockAt(2025, time.April, 15, 10, 0))
	sess := domain.NewSession("u1")

	_, err := f.orders.AddToCart(context.Background(), sess, "Sushi")
	assert.True(t, errors.Is(err, apperrors.ErrUnknownItem))
	assert.Empty(t, sess.Cart)
	assert.Zero(t, f.user("u1").LoyaltyPoints)
}

func TestRemoveFromCart(t *testing.T) {
	ctx := context.Background()
	f := newFixture(clockAt(2025, time.April, 15, 10, 0))
	sess := domain.NewSession("u1")

	for _, item := range []string{"Pizza", "Pizza", "Burger"} {
		_, err := f.orders.AddToCart(ctx, sess, item)
		require.NoError(t, err)
	}

	update, err := f.orders.RemoveFromCart(ctx, sess, "Pizza")
	require.NoError(t, err)
	assert.Equal(t, 1, update.Line.Quantity)

	update, err = f.orders.RemoveFromCart(ctx, sess, "Burger")
	require.NoError(t, err)
	assert.Nil(t, update.Line)
	require.Len(t, sess.Cart, 1)

	_, err = f.orders.RemoveFromCart(ctx, sess, "Aloo Gobi")
	require.NoError(t, err)
	assert.Len(t, sess.Cart, 1)

	// Removal never takes points back.
	assert.Equal(t, 3, f.user("u1").LoyaltyPoints)
}

func TestPlaceOrderEmptyCart(t *testing.T) {
	f := newFixture(clockAt(2025, time.April, 15, 10, 0))
	_, err := f.orders.PlaceOrder(context.Background(), domain.NewSession("u1"), false)
	assert.True(t, errors.Is(err, apperrors.ErrEmptyCart))
}

func TestPlaceOrderWritesOneRecordPerLine(t *testing.T) {
	ctx := context.Background()
	f := newFixture(clockAt(2025, time.April, 15, 10, 0))
	sess := domain.NewSession("u1")
	for _, item := range []string{"Pizza", "Pizza", "Burger"} {
		_, err := f.orders.AddToCart(ctx, sess, item)
		require.NoError(t, err)
	}

	outcome, err := f.orders.PlaceOrder(ctx, sess, false)
	require.NoError(t, err)
	assert.True(t, outcome.Committed())
	assert.Equal(t, 360.0, outcome.TotalCost)
	require.Len(t, outcome.Records, 2)

	pizza := outcome.Records[0]
	assert.NotEmpty(t, pizza.ID)
	assert.Equal(t, 2, pizza.Quantity)
	assert.Equal(t, 300.0, pizza.Price)
	assert.Equal(t, 8.0, pizza.CarbonFootprint)
	assert.Equal(t, "2025-04-15", pizza.Date)

	assert.Empty(t, sess.Cart)
	stored, err := f.stores.Orders.QueryByUser(ctx, "u1")
	require.NoError(t, err)
	assert.Len(t, stored, 2)
}

func TestPlaceOrderOverLimitNeedsConfirmation(t *testing.T) {
	ctx := context.Background()
	f := newFixture(clockAt(2025, time.April, 15, 10, 0))
	withLimit(f, "u1", 200)
	f.order("u1", "Pizza", 150, "2025-04-01")

	sess := domain.NewSession("u1")
	_, err := f.orders.AddToCart(ctx, sess, "Chicken Biryani")
	require.NoError(t, err)

	outcome, err := f.orders.PlaceOrder(ctx, sess, false)
	require.NoError(t, err)
	assert.False(t, outcome.Committed())
	assert.Equal(t, domain.OrderConfirmation{TotalCost: 100, MonthlyLimit: 200, CurrentSpend: 150}, *outcome.Confirmation)
	assert.Equal(t, outcome.Confirmation, sess.PendingConfirmation)
	assert.Len(t, sess.Cart, 1)

	stored, err := f.stores.Orders.QueryByUser(ctx, "u1")
	require.NoError(t, err)
	assert.Len(t, stored, 1)

	// Confirmed: written despite the limit, and the flag goes up.
	outcome, err = f.orders.PlaceOrder(ctx, sess, true)
	require.NoError(t, err)
	assert.True(t, outcome.Committed())
	assert.Equal(t, 250.0, outcome.Limit.Spend)
	assert.True(t, outcome.Limit.Exceeded)
	assert.True(t, sess.LimitExceeded)
	assert.Nil(t, sess.PendingConfirmation)
	assert.True(t, f.user("u1").LimitExceeded)
}

func TestPlaceOrderReachingLimitExactlyIsAllowed(t *testing.T) {
	ctx := context.Background()
	f := newFixture(clockAt(2025, time.April, 15, 10, 0))
	withLimit(f, "u1", 250)
	f.order("u1", "Pizza", 150, "2025-04-01")

	sess := domain.NewSession("u1")
	_, err := f.orders.AddToCart(ctx, sess, "Chicken Biryani")
	require.NoError(t, err)

	outcome, err := f.orders.PlaceOrder(ctx, sess, false)
	require.NoError(t, err)
	assert.True(t, outcome.Committed())
	assert.False(t, outcome.Limit.Exceeded)
}

func TestAbortOrder(t *testing.T) {
	ctx := context.Background()
	f := newFixture(clockAt(2025, time.April, 15, 10, 0))
	withLimit(f, "u1", 50)

	sess := domain.NewSession("u1")
	_, err := f.orders.AddToCart(ctx, sess, "Pizza")
	require.NoError(t, err)
	outcome, err := f.orders.PlaceOrder(ctx, sess, false)
	require.NoError(t, err)
	require.False(t, outcome.Committed())

	f.orders.AbortOrder(sess)
	assert.Empty(t, sess.Cart)
	assert.Nil(t, sess.PendingConfirmation)

	stored, err := f.stores.Orders.QueryByUser(ctx, "u1")
	require.NoError(t, err)
	assert.Empty(t, stored)
}

func TestRecommend(t *testing.T) {
	ctx := context.Background()
	f := newFixture(clockAt(2025, time.April, 15, 10, 0))

	item, err := f.orders.Recommend(ctx, "u1")
	require.NoError(t, err)
	assert.Equal(t, DefaultRecommendation, item)

	f.order("u1", "Burger", 60, "2025-04-01")
	f.order("u1", "Pizza", 150, "2025-04-02")
	f.order("u1", "Pizza", 150, "2025-04-03")

	item, err = f.orders.Recommend(ctx, "u1")
	require.NoError(t, err)
	assert.Equal(t, "Pizza", item)
}
