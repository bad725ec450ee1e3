package keyboards

import (
	"fmt"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"

	"github.com/vladimiradmaev/spendeats/internal/domain"
)

// Callback data understood by the callback handler.
const (
	CallbackMainMenu     = "main_menu"
	CallbackMenu         = "menu"
	CallbackCart         = "cart"
	CallbackOrderConfirm = "order_confirm"
	CallbackOrderAbort   = "order_abort"
	CallbackAddPrefix    = "add:"
)

// MainMenu creates the main menu keyboard
func MainMenu() tgbotapi.InlineKeyboardMarkup {
	return tgbotapi.NewInlineKeyboardMarkup(
		tgbotapi.NewInlineKeyboardRow(
			tgbotapi.NewInlineKeyboardButtonData("📋 Menu", CallbackMenu),
			tgbotapi.NewInlineKeyboardButtonData("🛒 Cart", CallbackCart),
		),
	)
}

// BackToMain is a single "main menu" button.
func BackToMain() tgbotapi.InlineKeyboardMarkup {
	return tgbotapi.NewInlineKeyboardMarkup(
		tgbotapi.NewInlineKeyboardRow(
			tgbotapi.NewInlineKeyboardButtonData("◀️ Main menu", CallbackMainMenu),
		),
	)
}

// OrderConfirm asks whether to place an order that goes over the spending limit.
func OrderConfirm() tgbotapi.InlineKeyboardMarkup {
	return tgbotapi.NewInlineKeyboardMarkup(
		tgbotapi.NewInlineKeyboardRow(
			tgbotapi.NewInlineKeyboardButtonData("✅ Place anyway", CallbackOrderConfirm),
			tgbotapi.NewInlineKeyboardButtonData("❌ Abort", CallbackOrderAbort),
		),
	)
}

// Cart shows the cart actions.
func Cart() tgbotapi.InlineKeyboardMarkup {
	return tgbotapi.NewInlineKeyboardMarkup(
		tgbotapi.NewInlineKeyboardRow(
			tgbotapi.NewInlineKeyboardButtonData("📋 Menu", CallbackMenu),
			tgbotapi.NewInlineKeyboardButtonData("◀️ Main menu", CallbackMainMenu),
		),
	)
}

// Schedule offers one "add to cart" button per scheduled meal.
func Schedule(schedule *domain.MealSchedule) tgbotapi.InlineKeyboardMarkup {
	var rows [][]tgbotapi.InlineKeyboardButton
	for _, meal := range domain.Meals {
		item := schedule.Meals[meal]
		if item == "" {
			continue
		}
		rows = append(rows, tgbotapi.NewInlineKeyboardRow(
			tgbotapi.NewInlineKeyboardButtonData(fmt.Sprintf("➕ %s: %s", meal, item), CallbackAddPrefix+item),
		))
	}
	rows = append(rows, tgbotapi.NewInlineKeyboardRow(
		tgbotapi.NewInlineKeyboardButtonData("🛒 Cart", CallbackCart),
	))
	return tgbotapi.NewInlineKeyboardMarkup(rows...)
}
