// Package assistant implements the chat assistant: a static question table,
// the spending-limit negotiation flow and an optional LLM fallback.
package assistant

import (
	"context"
	"errors"
	"fmt"
	"math"
	"sort"
	"strconv"
	"strings"

	"github.com/vladimiradmaev/spendeats/internal/domain"
	apperrors "github.com/vladimiradmaev/spendeats/internal/errors"
	"github.com/vladimiradmaev/spendeats/internal/logger"
	"github.com/vladimiradmaev/spendeats/internal/services"
)

const (
	inputChangeLimit      = "i want to change my spending limit"
	inputChangeLimitAgain = "i want to change my spending limit again"
	inputUsePoints        = "use 10 points"
	inputSacrificeBadge   = "sacrifice a badge"
	inputCancel           = "cancel"
	inputDietPlan         = "what is my diet plan"
	inputNutritionStats   = "what are my nutritional stats"
)

const (
	replyQuotaExhausted = "⚠️ You've reached your limit of 2 spending limit changes this month. Try again next month!"
	replyPaymentOptions = "Please choose an option: 🔹 Use 10 Points | 🏆 Sacrifice a Badge | ❌ Cancel"
	replyInvalidAmount  = "Please provide a valid number for the new spending limit."
	replyCancelled      = "Edit cancelled."
	replyNoPoints       = "You don't have enough points! You can try sacrificing a badge instead."
	replyNoBadge        = "Oops! You need at least 10 points or 1 badge to edit your limit. Earn more points by ordering food or writing reviews!"
)

type limitEditor interface {
	Status(ctx context.Context, userID string) (*services.AccountStatus, error)
	RequestEdit(ctx context.Context, userID string, newLimit float64, method services.PaymentMethod) (*services.EditResult, error)
}

type dietReader interface {
	GetDietPlan(ctx context.Context, userID string) (*domain.StoredDietPlan, error)
	NutritionSummary(ctx context.Context, userID string) (*domain.Nutrition, int, error)
}

// Assistant answers free text. The limit-change dialogue is driven by the
// caller-owned domain.Conversation, never by earlier chat lines.
type Assistant struct {
	limits   limitEditor
	diet     dietReader
	static   Responder
	fallback Responder
}

// New builds an assistant. fallback may be nil.
func New(limits limitEditor, diet dietReader, static, fallback Responder) *Assistant {
	return &Assistant{
		limits:   limits,
		diet:     diet,
		static:   static,
		fallback: fallback,
	}
}

// Reply answers input and advances conv. Errors are only returned for store failures.
func (a *Assistant) Reply(ctx context.Context, userID string, conv *domain.Conversation, input string) (string, error) {
	text := Normalize(input)

	switch conv.Flow {
	case domain.FlowAwaitingLimitAmount:
		return a.onLimitAmount(ctx, userID, conv, text)
	case domain.FlowAwaitingPayment:
		return a.onPayment(ctx, userID, conv, text)
	}

	switch text {
	case inputChangeLimit, inputChangeLimitAgain:
		return a.startLimitChange(ctx, userID, conv)
	case inputDietPlan:
		return a.describeDietPlan(ctx, userID)
	case inputNutritionStats:
		return a.describeNutrition(ctx, userID)
	case inputCancel:
		return replyCancelled, nil
	}

	if reply, ok := a.static.Respond(ctx, text); ok {
		return reply, nil
	}
	if a.fallback != nil {
		if reply, ok := a.fallback.Respond(ctx, text); ok {
			return reply, nil
		}
	}
	return defaultReply, nil
}

func (a *Assistant) startLimitChange(ctx context.Context, userID string, conv *domain.Conversation) (string, error) {
	status, err := a.limits.Status(ctx, userID)
	if err != nil {
		return "", err
	}

	switch status.LimitState {
	case services.QuotaExhausted:
		conv.Reset()
		return replyQuotaExhausted, nil
	case services.LimitSetFreeEditAvailable:
		conv.Flow = domain.FlowAwaitingLimitAmount
		return "Sure! Since you're a new user, you get one free edit. What limit would you like to set?", nil
	case services.LimitSetCostGated:
		conv.Flow = domain.FlowAwaitingLimitAmount
		return fmt.Sprintf("Sure! You can edit your spending limit 2 times per month. You have %s left this month. "+
			"Each change costs 10 points or one badge. What limit would you like to set?",
			plural(status.EditsLeft, "edit")), nil
	default:
		conv.Flow = domain.FlowAwaitingLimitAmount
		return "Sure! No limit is set for this month yet. What limit would you like to set?", nil
	}
}

func (a *Assistant) onLimitAmount(ctx context.Context, userID string, conv *domain.Conversation, text string) (string, error) {
	if text == inputCancel {
		conv.Reset()
		return replyCancelled, nil
	}
	amount, err := strconv.ParseFloat(strings.TrimPrefix(text, "rs"), 64)
	if err != nil || amount < 0 || math.IsNaN(amount) || math.IsInf(amount, 0) {
		return replyInvalidAmount, nil
	}

	status, err := a.limits.Status(ctx, userID)
	if err != nil {
		return "", err
	}
	if status.LimitState == services.LimitSetCostGated {
		conv.Flow = domain.FlowAwaitingPayment
		conv.PendingLimit = amount
		return replyPaymentOptions, nil
	}
	return a.applyEdit(ctx, userID, conv, amount, services.PaymentNone)
}

func (a *Assistant) onPayment(ctx context.Context, userID string, conv *domain.Conversation, text string) (string, error) {
	switch text {
	case inputUsePoints:
		return a.applyEdit(ctx, userID, conv, conv.PendingLimit, services.PaymentPoints)
	case inputSacrificeBadge:
		return a.applyEdit(ctx, userID, conv, conv.PendingLimit, services.PaymentBadge)
	case inputCancel:
		conv.Reset()
		return replyCancelled, nil
	default:
		return replyPaymentOptions, nil
	}
}

func (a *Assistant) applyEdit(ctx context.Context, userID string, conv *domain.Conversation, amount float64, method services.PaymentMethod) (string, error) {
	res, err := a.limits.RequestEdit(ctx, userID, amount, method)
	if err != nil {
		conv.PendingLimit = amount
		return a.refusal(ctx, conv, err)
	}
	conv.Reset()

	left := plural(res.EditsLeft, "edit")
	switch {
	case res.FreeEdit:
		return fmt.Sprintf("Great! Your new limit of Rs%s is saved. You'll need points or badges for future changes.", formatAmount(amount)), nil
	case res.Paid == services.PaymentPoints:
		return fmt.Sprintf("✅ Done! Your spending limit is updated to Rs%s, and 10 points have been deducted. You have %s left this month.", formatAmount(amount), left), nil
	case res.Paid == services.PaymentBadge:
		return fmt.Sprintf("✅ Your spending limit is updated to Rs%s! The %s badge has been removed from your profile. You have %s left this month.", formatAmount(amount), res.BadgeRemoved, left), nil
	default:
		return fmt.Sprintf("Spending limit set to Rs%s for this month! You have %s left.", formatAmount(amount), left), nil
	}
}

// refusal maps a policy error to a reply. Insufficient points keeps the
// payment prompt open so the user can fall back to a badge.
func (a *Assistant) refusal(ctx context.Context, conv *domain.Conversation, err error) (string, error) {
	switch {
	case errors.Is(err, apperrors.ErrInsufficientPoints):
		return replyNoPoints, nil
	case errors.Is(err, apperrors.ErrPaymentRequired):
		conv.Flow = domain.FlowAwaitingPayment
		return replyPaymentOptions, nil
	case errors.Is(err, apperrors.ErrNoBadgeAvailable):
		conv.Reset()
		return replyNoBadge, nil
	case errors.Is(err, apperrors.ErrQuotaExceeded):
		conv.Reset()
		return replyQuotaExhausted, nil
	case errors.Is(err, apperrors.ErrInvalidInput):
		return replyInvalidAmount, nil
	default:
		logger.WithContext(ctx).Error("Spending limit edit failed", "error", err)
		return "", err
	}
}

func (a *Assistant) describeDietPlan(ctx context.Context, userID string) (string, error) {
	stored, err := a.diet.GetDietPlan(ctx, userID)
	if err != nil {
		return "", err
	}
	if stored == nil {
		return "You don't have a diet plan yet. Send /diet <goal> | <preference> | <allergies> to create one!", nil
	}
	return fmt.Sprintf("Your current diet plan is:\nBreakfast: %s\nLunch: %s\nDinner: %s",
		stored.Plan[domain.Breakfast], stored.Plan[domain.Lunch], stored.Plan[domain.Dinner]), nil
}

func (a *Assistant) describeNutrition(ctx context.Context, userID string) (string, error) {
	total, count, err := a.diet.NutritionSummary(ctx, userID)
	if err != nil {
		return "", err
	}
	if count == 0 {
		return "You haven't logged any meals yet. Send /log <item> <quantity> to start!", nil
	}
	return fmt.Sprintf("Here's your nutritional summary:\nTotal Calories: %s kcal\nTotal Protein: %sg\nTotal Carbs: %sg\nTotal Fats: %sg\nVitamins: %s",
		formatAmount(total.Calories), formatAmount(total.Protein), formatAmount(total.Carbs), formatAmount(total.Fats),
		formatVitamins(total.Vitamins)), nil
}

func formatVitamins(v map[string]float64) string {
	if len(v) == 0 {
		return "none"
	}
	names := make([]string, 0, len(v))
	for k := range v {
		names = append(names, k)
	}
	sort.Strings(names)
	parts := make([]string, 0, len(names))
	for _, k := range names {
		parts = append(parts, fmt.Sprintf("%s: %s", k, formatAmount(v[k])))
	}
	return strings.Join(parts, ", ")
}

func formatAmount(v float64) string {
	return strconv.FormatFloat(v, 'f', -1, 64)
}

func plural(n int, word string) string {
	if n == 1 {
		return fmt.Sprintf("%d %s", n, word)
	}
	return fmt.Sprintf("%d %ss", n, word)
}
