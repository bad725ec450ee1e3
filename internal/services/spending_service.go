package services

import (
	"context"
	"fmt"
	"math"
	"sort"

	"github.com/vladimiradmaev/spendeats/internal/domain"
	apperrors "github.com/vladimiradmaev/spendeats/internal/errors"
	"github.com/vladimiradmaev/spendeats/internal/logger"
	"github.com/vladimiradmaev/spendeats/internal/utils"
)

const (
	MaxLimitEditsPerMonth = 2
	LimitEditPointsCost   = 10
)

// LimitState is the position of a user in the monthly limit-edit state machine.
type LimitState int

const (
	NoLimitSet LimitState = iota
	LimitSetFreeEditAvailable
	LimitSetCostGated
	QuotaExhausted
)

func (s LimitState) String() string {
	switch s {
	case NoLimitSet:
		return "no_limit_set"
	case LimitSetFreeEditAvailable:
		return "free_edit_available"
	case LimitSetCostGated:
		return "cost_gated"
	case QuotaExhausted:
		return "quota_exhausted"
	default:
		return "unknown"
	}
}

// PaymentMethod is how a cost-gated limit edit is paid for.
type PaymentMethod string

const (
	PaymentNone   PaymentMethod = ""
	PaymentPoints PaymentMethod = "points"
	PaymentBadge  PaymentMethod = "badge"
)

// Badges are sacrificed lowest tier first.
var badgeSacrificeOrder = []domain.Badge{domain.BadgeBronze, domain.BadgeSilver, domain.BadgeGold}

// EditResult describes a successful limit edit.
type EditResult struct {
	State        *domain.UserEconomyState
	FreeEdit     bool
	Paid         PaymentMethod
	BadgeRemoved domain.Badge
	EditsLeft    int
	MonthlySpend float64
}

// LimitStatus is the outcome of CheckLimit.
type LimitStatus struct {
	Month    string
	Spend    float64
	Limit    float64
	Exceeded bool
}

// AccountStatus is a read-only snapshot of a user's economy for this month.
type AccountStatus struct {
	State      *domain.UserEconomyState
	Limit      *LimitStatus
	LimitState LimitState
	EditsLeft  int
}

// HistorySummary aggregates a user's past orders.
type HistorySummary struct {
	SpentByMonth      map[string]float64
	Months            []string // sorted keys of SpentByMonth
	MostOrderedItem   string
	AverageOrderValue float64
	Orders            int
}

type SpendingService struct {
	users  domain.UserStore
	orders domain.OrderStore
	clock  domain.Clock
}

func NewSpendingService(users domain.UserStore, orders domain.OrderStore, clock domain.Clock) *SpendingService {
	return &SpendingService{
		users:  users,
		orders: orders,
		clock:  clock,
	}
}

// EditsLeft returns the remaining limit edits for the month the state belongs to.
func EditsLeft(state *domain.UserEconomyState) int {
	left := MaxLimitEditsPerMonth - state.EditCountThisMonth
	if left < 0 {
		return 0
	}
	return left
}

// IsLifetimeFirstEdit reports whether the one-shot free edit is still available.
func IsLifetimeFirstEdit(state *domain.UserEconomyState) bool {
	return state.LoyaltyPoints == 0 && len(state.Badges) == 0 && state.EditCountLifetime == 0
}

// ApplyRollover resets the monthly counters when state belongs to an earlier month.
// It reports whether anything changed.
func ApplyRollover(state *domain.UserEconomyState, month string) bool {
	if state.SpendingLimit.SetMonth == month {
		return false
	}
	state.SpendingLimit.SetMonth = month
	state.SpendingLimit.MonthlyAmount = 0
	state.EditCountThisMonth = 0
	return true
}

// ClassifyLimitState derives the state machine position as of month without mutating state.
func ClassifyLimitState(state *domain.UserEconomyState, month string) LimitState {
	view := state.Clone()
	ApplyRollover(view, month)

	switch {
	case view.EditCountThisMonth >= MaxLimitEditsPerMonth:
		return QuotaExhausted
	case IsLifetimeFirstEdit(view):
		return LimitSetFreeEditAvailable
	case view.SpendingLimit.MonthlyAmount > 0:
		return LimitSetCostGated
	default:
		return NoLimitSet
	}
}

// evaluateEdit runs steps 2-5 of the edit policy on state, mutating it only on success.
func evaluateEdit(state *domain.UserEconomyState, newLimit float64, method PaymentMethod, month string) (*EditResult, error) {
	if state.EditCountThisMonth >= MaxLimitEditsPerMonth {
		return nil, apperrors.ErrQuotaExceeded
	}

	result := &EditResult{}
	switch {
	case IsLifetimeFirstEdit(state):
		state.EditCountLifetime++
		result.FreeEdit = true

	case state.SpendingLimit.SetMonth == month && state.SpendingLimit.MonthlyAmount > 0:
		switch method {
		case PaymentPoints:
			if state.LoyaltyPoints < LimitEditPointsCost {
				return nil, apperrors.NewInsufficientPointsError(state.LoyaltyPoints, LimitEditPointsCost)
			}
			state.LoyaltyPoints -= LimitEditPointsCost
		case PaymentBadge:
			removed := domain.Badge("")
			for _, b := range badgeSacrificeOrder {
				if state.RemoveBadge(b) {
					removed = b
					break
				}
			}
			if removed == "" {
				return nil, apperrors.ErrNoBadgeAvailable
			}
			result.BadgeRemoved = removed
		case PaymentNone:
			return nil, apperrors.ErrPaymentRequired
		default:
			return nil, apperrors.NewValidationError(fmt.Sprintf("unknown payment method %q", method))
		}
		result.Paid = method
	}

	state.SpendingLimit.MonthlyAmount = newLimit
	state.EditCountThisMonth++
	result.State = state
	result.EditsLeft = EditsLeft(state)
	return result, nil
}

// RequestEdit changes the user's monthly spending limit, charging points or a badge when required.
// A refused edit leaves the stored state untouched apart from the monthly rollover.
func (s *SpendingService) RequestEdit(ctx context.Context, userID string, newLimit float64, method PaymentMethod) (*EditResult, error) {
	if newLimit < 0 || math.IsNaN(newLimit) || math.IsInf(newLimit, 0) {
		return nil, apperrors.NewValidationError("spending limit must be a non-negative number")
	}

	month := utils.MonthKey(s.clock.Now())
	state, err := s.loadRolledOver(ctx, userID, month)
	if err != nil {
		return nil, err
	}

	result, err := evaluateEdit(state.Clone(), newLimit, method, month)
	if err != nil {
		logger.WithContext(ctx).Info("Spending limit edit refused",
			"user_id", userID,
			"code", apperrors.Code(err),
			"edits_this_month", state.EditCountThisMonth)
		return nil, err
	}
	next := result.State

	fields := []domain.Field{domain.FieldSpendingLimit, domain.FieldEditsThisMonth}
	switch {
	case result.FreeEdit:
		fields = append(fields, domain.FieldEditsLifetime)
	case result.Paid == PaymentPoints:
		fields = append(fields, domain.FieldLoyaltyPoints)
	case result.Paid == PaymentBadge:
		fields = append(fields, domain.FieldBadges)
	}
	if err := s.users.Put(ctx, next, fields...); err != nil {
		return nil, apperrors.NewStoreError(err, "save spending limit")
	}

	status, err := s.refreshExceeded(ctx, next, month)
	if err != nil {
		return nil, err
	}
	result.MonthlySpend = status.Spend

	logger.WithContext(ctx).Info("Spending limit updated",
		"user_id", userID,
		"limit", newLimit,
		"free_edit", result.FreeEdit,
		"paid_with", string(result.Paid),
		"badge_removed", string(result.BadgeRemoved),
		"edits_left", result.EditsLeft)

	return result, nil
}

// CheckLimit recomputes this month's spend and persists the exceeded flag.
func (s *SpendingService) CheckLimit(ctx context.Context, userID string) (*LimitStatus, error) {
	month := utils.MonthKey(s.clock.Now())
	state, err := s.loadRolledOver(ctx, userID, month)
	if err != nil {
		return nil, err
	}
	return s.refreshExceeded(ctx, state, month)
}

// Status rolls the user over if needed and reports points, badges and limit position.
func (s *SpendingService) Status(ctx context.Context, userID string) (*AccountStatus, error) {
	month := utils.MonthKey(s.clock.Now())
	state, err := s.loadRolledOver(ctx, userID, month)
	if err != nil {
		return nil, err
	}
	limit, err := s.refreshExceeded(ctx, state, month)
	if err != nil {
		return nil, err
	}
	return &AccountStatus{
		State:      state,
		Limit:      limit,
		LimitState: ClassifyLimitState(state, month),
		EditsLeft:  EditsLeft(state),
	}, nil
}

// ComputeMonthlySpend sums the prices of the user's orders dated in month ("YYYY-MM").
// Dates that do not parse count as today.
func (s *SpendingService) ComputeMonthlySpend(ctx context.Context, userID, month string) (float64, error) {
	records, err := s.orders.QueryByUser(ctx, userID)
	if err != nil {
		return 0, apperrors.NewStoreError(err, "query orders")
	}
	now := s.clock.Now()
	var total float64
	for _, r := range records {
		if utils.NormalizeDate(r.Date, now)[:len(utils.MonthLayout)] == month {
			total += r.Price
		}
	}
	return total, nil
}

// RolloverUser applies the monthly reset to a stored user and reports whether it changed anything.
func (s *SpendingService) RolloverUser(ctx context.Context, userID string) (bool, error) {
	month := utils.MonthKey(s.clock.Now())
	state, err := s.users.Get(ctx, userID)
	if err != nil {
		return false, apperrors.NewStoreError(err, "load user")
	}
	if !ApplyRollover(state, month) {
		return false, nil
	}
	if err := s.users.Put(ctx, state, domain.FieldSpendingLimit, domain.FieldEditsThisMonth); err != nil {
		return false, apperrors.NewStoreError(err, "save rollover")
	}
	return true, nil
}

// RolloverAll resets every stored user whose limit belongs to an earlier month.
func (s *SpendingService) RolloverAll(ctx context.Context) (int, error) {
	ids, err := s.users.ListUserIDs(ctx)
	if err != nil {
		return 0, apperrors.NewStoreError(err, "list users")
	}
	reset := 0
	for _, id := range ids {
		if err := ctx.Err(); err != nil {
			return reset, err
		}
		changed, err := s.RolloverUser(ctx, id)
		if err != nil {
			return reset, err
		}
		if changed {
			reset++
		}
	}
	return reset, nil
}

// SuggestLimit proposes a limit of the median past monthly spend plus 10%, truncated.
// It returns 0 without order history.
func (s *SpendingService) SuggestLimit(ctx context.Context, userID string) (int, error) {
	summary, err := s.OrderHistorySummary(ctx, userID)
	if err != nil {
		return 0, err
	}
	if len(summary.Months) == 0 {
		return 0, nil
	}

	totals := make([]float64, 0, len(summary.Months))
	for _, m := range summary.Months {
		totals = append(totals, summary.SpentByMonth[m])
	}
	sort.Float64s(totals)

	n := len(totals)
	median := totals[n/2]
	if n%2 == 0 {
		median = (totals[n/2-1] + totals[n/2]) / 2
	}
	return int(median * 1.1), nil
}

// OrderHistorySummary reports spend per month, the most ordered item and the average record value.
func (s *SpendingService) OrderHistorySummary(ctx context.Context, userID string) (*HistorySummary, error) {
	records, err := s.orders.QueryByUser(ctx, userID)
	if err != nil {
		return nil, apperrors.NewStoreError(err, "query orders")
	}

	summary := &HistorySummary{SpentByMonth: make(map[string]float64)}
	if len(records) == 0 {
		return summary, nil
	}

	now := s.clock.Now()
	var total float64
	for _, r := range records {
		month := utils.NormalizeDate(r.Date, now)[:len(utils.MonthLayout)]
		summary.SpentByMonth[month] += r.Price
		total += r.Price
	}
	for m := range summary.SpentByMonth {
		summary.Months = append(summary.Months, m)
	}
	sort.Strings(summary.Months)

	summary.MostOrderedItem = mostOrderedItem(records)
	summary.Orders = len(records)
	summary.AverageOrderValue = total / float64(len(records))
	return summary, nil
}

// mostOrderedItem counts records, not quantities; ties go to the item seen first.
func mostOrderedItem(records []domain.OrderRecord) string {
	counts := make(map[string]int)
	best, bestCount := "", 0
	for _, r := range records {
		counts[r.Item]++
	}
	for _, r := range records {
		if c := counts[r.Item]; c > bestCount {
			best, bestCount = r.Item, c
		}
	}
	return best
}

func (s *SpendingService) loadRolledOver(ctx context.Context, userID, month string) (*domain.UserEconomyState, error) {
	state, err := s.users.Get(ctx, userID)
	if err != nil {
		return nil, apperrors.NewStoreError(err, "load user")
	}
	if ApplyRollover(state, month) {
		if err := s.users.Put(ctx, state, domain.FieldSpendingLimit, domain.FieldEditsThisMonth); err != nil {
			return nil, apperrors.NewStoreError(err, "save rollover")
		}
		logger.WithContext(ctx).Info("Monthly spending limit rolled over", "user_id", userID, "month", month)
	}
	return state, nil
}

func (s *SpendingService) refreshExceeded(ctx context.Context, state *domain.UserEconomyState, month string) (*LimitStatus, error) {
	spend, err := s.ComputeMonthlySpend(ctx, state.UserID, month)
	if err != nil {
		return nil, err
	}
	limit := state.SpendingLimit.MonthlyAmount
	exceeded := limit > 0 && spend > limit

	if exceeded != state.LimitExceeded {
		state.LimitExceeded = exceeded
		if err := s.users.Put(ctx, state, domain.FieldLimitExceeded); err != nil {
			return nil, apperrors.NewStoreError(err, "save limit flag")
		}
		if exceeded {
			logger.WithContext(ctx).Warn("Monthly spending limit exceeded",
				"user_id", state.UserID, "spend", spend, "limit", limit)
		}
	}

	return &LimitStatus{Month: month, Spend: spend, Limit: limit, Exceeded: exceeded}, nil
}
