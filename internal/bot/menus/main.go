package menus

import (
	"fmt"
	"strings"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"

	"github.com/vladimiradmaev/spendeats/internal/bot/keyboards"
	"github.com/vladimiradmaev/spendeats/internal/domain"
)

// Sender is the part of *tgbotapi.BotAPI the menus need.
type Sender interface {
	Send(c tgbotapi.Chattable) (tgbotapi.Message, error)
}

const mainMenuText = `🍽️ *SpendEATS* — order food without blowing your budget

• Browse the menu and fill your cart
• Set a monthly spending limit and track it
• Earn points and badges with every item and review
• Get a diet plan, a meal schedule and custom recipes

Send /help for the full list of commands, or just ask me a question.`

// SendMainMenu sends the main menu to a chat
func SendMainMenu(api Sender, chatID int64) error {
	msg := tgbotapi.NewMessage(chatID, mainMenuText)
	msg.ParseMode = tgbotapi.ModeMarkdown
	msg.ReplyMarkup = keyboards.MainMenu()
	_, err := api.Send(msg)
	return err
}

// SendMenu lists every catalog item with its price.
func SendMenu(api Sender, chatID int64, catalog domain.Catalog) error {
	msg := tgbotapi.NewMessage(chatID, MenuText(catalog))
	msg.ReplyMarkup = keyboards.Cart()
	_, err := api.Send(msg)
	return err
}

// SendCart shows the cart and its totals.
func SendCart(api Sender, chatID int64, sess *domain.Session) error {
	msg := tgbotapi.NewMessage(chatID, CartText(sess))
	msg.ReplyMarkup = keyboards.Cart()
	_, err := api.Send(msg)
	return err
}

func MenuText(catalog domain.Catalog) string {
	var b strings.Builder
	b.WriteString("📋 Menu\n\n")
	for _, item := range catalog.Items() {
		fmt.Fprintf(&b, "• %s — Rs%s, %s kcal", item.Name, formatNumber(item.Price), formatNumber(item.Calories))
		if len(item.Tags) > 0 {
			fmt.Fprintf(&b, " (%s)", strings.Join(item.Tags, ", "))
		}
		b.WriteString("\n")
	}
	b.WriteString("\nAdd a dish with /add <item>.")
	return b.String()
}

func CartText(sess *domain.Session) string {
	if len(sess.Cart) == 0 {
		return "🛒 Your cart is empty. Add a dish with /add <item>."
	}

	var b strings.Builder
	b.WriteString("🛒 Your cart\n\n")
	for _, line := range sess.Cart {
		fmt.Fprintf(&b, "• %s x%d — Rs%s\n", line.Item, line.Quantity, formatNumber(line.Price*float64(line.Quantity)))
	}
	cost, carbon := sess.CartTotals()
	fmt.Fprintf(&b, "\nTotal: Rs%s\nCarbon footprint: %s kg CO2\n", formatNumber(cost), formatNumber(carbon))
	if sess.LimitExceeded {
		b.WriteString("\n⚠️ You are over your monthly spending limit.\n")
	}
	b.WriteString("\nSend /order to place it.")
	return b.String()
}

func formatNumber(v float64) string {
	return strings.TrimSuffix(strings.TrimRight(fmt.Sprintf("%.2f", v), "0"), ".")
}
