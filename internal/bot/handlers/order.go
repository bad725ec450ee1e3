package handlers

import (
	"context"
	"fmt"
	"strings"

	"github.com/vladimiradmaev/spendeats/internal/bot/keyboards"
	"github.com/vladimiradmaev/spendeats/internal/logger"
)

// addToCart is shared by /add and the schedule buttons.
func addToCart(ctx context.Context, api Sender, deps Dependencies, chat *Chat, item string) error {
	update, err := deps.Orders.AddToCart(ctx, chat.Session(), item)
	if err != nil {
		return fail(ctx, api, deps.Errors, chat.ChatID, err)
	}

	text := fmt.Sprintf("🛒 Added %s (%d in cart). +1 point, you now have %d.",
		update.Line.Item, update.Line.Quantity, update.Award.Points)
	if update.Award.Badge != "" {
		text += fmt.Sprintf("\n🏅 You earned the %s badge!", update.Award.Badge)
	}
	if update.Limit != nil && update.Limit.Exceeded {
		text += "\n⚠️ You are already over your monthly spending limit."
	}
	return reply(api, chat.ChatID, text)
}

// placeOrder is shared by /order and the confirmation button.
func placeOrder(ctx context.Context, api Sender, deps Dependencies, chat *Chat, force bool) error {
	outcome, err := deps.Orders.PlaceOrder(ctx, chat.Session(), force)
	if err != nil {
		return fail(ctx, api, deps.Errors, chat.ChatID, err)
	}

	if !outcome.Committed() {
		c := outcome.Confirmation
		text := fmt.Sprintf("⚠️ This order costs Rs%s. You've spent Rs%s of your Rs%s limit this month, so it would take you over. Place it anyway?",
			formatNumber(c.TotalCost), formatNumber(c.CurrentSpend), formatNumber(c.MonthlyLimit))
		return replyWithKeyboard(api, chat.ChatID, text, keyboards.OrderConfirm())
	}

	var b strings.Builder
	b.WriteString("✅ Order placed!\n\n")
	for _, r := range outcome.Records {
		fmt.Fprintf(&b, "• %s x%d — Rs%s\n", r.Item, r.Quantity, formatNumber(r.Price))
	}
	fmt.Fprintf(&b, "\nTotal: Rs%s\nCarbon footprint: %s kg CO2", formatNumber(outcome.TotalCost), formatNumber(outcome.TotalCarbon))
	if outcome.Limit != nil && outcome.Limit.Exceeded {
		fmt.Fprintf(&b, "\n\n⚠️ You have spent Rs%s this month, over your Rs%s limit.",
			formatNumber(outcome.Limit.Spend), formatNumber(outcome.Limit.Limit))
	}

	if rec, err := deps.Orders.Recommend(ctx, chat.Key()); err != nil {
		logger.WithContext(ctx).Warn("Failed to load recommendation", "user_id", chat.UserID, "error", err)
	} else {
		fmt.Fprintf(&b, "\n\n💡 Next time, try %s again!", rec)
	}
	return replyWithKeyboard(api, chat.ChatID, b.String(), keyboards.BackToMain())
}
