package services

import (
	"context"

	"github.com/google/uuid"

	"github.com/vladimiradmaev/spendeats/internal/domain"
	apperrors "github.com/vladimiradmaev/spendeats/internal/errors"
	"github.com/vladimiradmaev/spendeats/internal/logger"
	"github.com/vladimiradmaev/spendeats/internal/utils"
)

// DefaultRecommendation is suggested to users without order history.
const DefaultRecommendation = "Chicken Biryani"

// OrderOutcome is the result of PlaceOrder. Exactly one of Confirmation and
// Records is set.
type OrderOutcome struct {
	Confirmation *domain.OrderConfirmation
	Records      []domain.OrderRecord
	TotalCost    float64
	TotalCarbon  float64
	Limit        *LimitStatus
}

// Committed reports whether the order was written.
func (o *OrderOutcome) Committed() bool {
	return o.Confirmation == nil
}

// CartUpdate is the result of a cart change.
type CartUpdate struct {
	Line  *domain.CartLine // nil when the line was dropped
	Award *AwardResult
	Limit *LimitStatus
}

type OrderService struct {
	catalog  domain.Catalog
	orders   domain.OrderStore
	loyalty  *LoyaltyService
	spending *SpendingService
	clock    domain.Clock
}

func NewOrderService(catalog domain.Catalog, orders domain.OrderStore, loyalty *LoyaltyService, spending *SpendingService, clock domain.Clock) *OrderService {
	return &OrderService{
		catalog:  catalog,
		orders:   orders,
		loyalty:  loyalty,
		spending: spending,
		clock:    clock,
	}
}

// AddToCart adds one unit of item, awards a loyalty point and rechecks the limit.
func (s *OrderService) AddToCart(ctx context.Context, sess *domain.Session, item string) (*CartUpdate, error) {
	menuItem, ok := s.catalog.Item(item)
	if !ok {
		return nil, apperrors.NewUnknownItemError(item)
	}

	var line *domain.CartLine
	for i := range sess.Cart {
		if sess.Cart[i].Item == item {
			sess.Cart[i].Quantity++
			line = &sess.Cart[i]
			break
		}
	}
	if line == nil {
		sess.Cart = append(sess.Cart, domain.CartLine{
			Item:            menuItem.Name,
			Price:           menuItem.Price,
			CarbonFootprint: menuItem.CarbonFootprint,
			Quantity:        1,
		})
		line = &sess.Cart[len(sess.Cart)-1]
	}
	update := &CartUpdate{Line: line}

	award, err := s.loyalty.Award(ctx, sess.UserID, EventItemAdded)
	if err != nil {
		return nil, err
	}
	update.Award = award

	if update.Limit, err = s.recheck(ctx, sess); err != nil {
		return nil, err
	}
	return update, nil
}

// RemoveFromCart removes one unit of item. Removing an item not in the cart is a no-op.
func (s *OrderService) RemoveFromCart(ctx context.Context, sess *domain.Session, item string) (*CartUpdate, error) {
	idx := -1
	for i := range sess.Cart {
		if sess.Cart[i].Item == item {
			idx = i
			break
		}
	}
	if idx < 0 {
		return &CartUpdate{}, nil
	}

	update := &CartUpdate{}
	if sess.Cart[idx].Quantity > 1 {
		sess.Cart[idx].Quantity--
		update.Line = &sess.Cart[idx]
	} else {
		sess.Cart = append(sess.Cart[:idx], sess.Cart[idx+1:]...)
	}

	var err error
	if update.Limit, err = s.recheck(ctx, sess); err != nil {
		return nil, err
	}
	return update, nil
}

// PlaceOrder commits the cart as one order record per line. When the order would
// push this month's spend over a positive limit and force is false, nothing is
// written and a confirmation request is returned and kept on the session.
func (s *OrderService) PlaceOrder(ctx context.Context, sess *domain.Session, force bool) (*OrderOutcome, error) {
	if len(sess.Cart) == 0 {
		return nil, apperrors.ErrEmptyCart
	}

	status, err := s.spending.CheckLimit(ctx, sess.UserID)
	if err != nil {
		return nil, err
	}

	totalCost, totalCarbon := sess.CartTotals()
	outcome := &OrderOutcome{TotalCost: totalCost, TotalCarbon: totalCarbon}

	if !force && status.Limit > 0 && status.Spend+totalCost > status.Limit {
		outcome.Confirmation = &domain.OrderConfirmation{
			TotalCost:    totalCost,
			MonthlyLimit: status.Limit,
			CurrentSpend: status.Spend,
		}
		sess.PendingConfirmation = outcome.Confirmation
		outcome.Limit = status
		logger.WithContext(ctx).Info("Order held for confirmation",
			"user_id", sess.UserID,
			"total_cost", totalCost,
			"current_spend", status.Spend,
			"limit", status.Limit)
		return outcome, nil
	}

	now := s.clock.Now()
	date := utils.DateKey(now)
	records := make([]domain.OrderRecord, 0, len(sess.Cart))
	for _, line := range sess.Cart {
		qty := float64(line.Quantity)
		records = append(records, domain.OrderRecord{
			ID:              uuid.NewString(),
			UserID:          sess.UserID,
			Item:            line.Item,
			Quantity:        line.Quantity,
			Price:           line.Price * qty,
			Date:            date,
			CarbonFootprint: line.CarbonFootprint * qty,
			CreatedAt:       now,
		})
	}
	if err := s.orders.Append(ctx, records); err != nil {
		return nil, apperrors.NewStoreError(err, "save order")
	}

	sess.ClearCart()
	outcome.Records = records
	if outcome.Limit, err = s.recheck(ctx, sess); err != nil {
		return nil, err
	}

	logger.WithContext(ctx).Info("Order placed",
		"user_id", sess.UserID,
		"lines", len(records),
		"total_cost", totalCost,
		"carbon_kg", totalCarbon,
		"forced", force)

	return outcome, nil
}

// AbortOrder drops the cart and any pending confirmation.
func (s *OrderService) AbortOrder(sess *domain.Session) {
	sess.ClearCart()
}

// Recommend suggests the user's most ordered item, or the house default.
func (s *OrderService) Recommend(ctx context.Context, userID string) (string, error) {
	records, err := s.orders.QueryByUser(ctx, userID)
	if err != nil {
		return "", apperrors.NewStoreError(err, "query orders")
	}
	if item := mostOrderedItem(records); item != "" {
		return item, nil
	}
	return DefaultRecommendation, nil
}

func (s *OrderService) recheck(ctx context.Context, sess *domain.Session) (*LimitStatus, error) {
	status, err := s.spending.CheckLimit(ctx, sess.UserID)
	if err != nil {
		return nil, err
	}
	sess.LimitExceeded = status.Exceeded
	return status, nil
}
