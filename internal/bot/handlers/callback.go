package handlers

import (
	"context"
	"strings"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"

	"github.com/vladimiradmaev/spendeats/internal/bot/keyboards"
	"github.com/vladimiradmaev/spendeats/internal/bot/menus"
	"github.com/vladimiradmaev/spendeats/internal/logger"
)

// CallbackHandler handles callback query messages
type CallbackHandler struct {
	api  Sender
	deps Dependencies
}

// NewCallbackHandler creates a new callback handler
func NewCallbackHandler(api Sender, deps Dependencies) *CallbackHandler {
	return &CallbackHandler{
		api:  api,
		deps: deps,
	}
}

// Handle processes a callback query
func (h *CallbackHandler) Handle(ctx context.Context, query *tgbotapi.CallbackQuery, chat *Chat) error {
	// Answer the callback query first
	if _, err := h.api.Request(tgbotapi.NewCallback(query.ID, "")); err != nil {
		return err
	}

	switch data := query.Data; {
	case data == keyboards.CallbackMainMenu:
		return menus.SendMainMenu(h.api, chat.ChatID)
	case data == keyboards.CallbackMenu:
		return menus.SendMenu(h.api, chat.ChatID, h.deps.Catalog)
	case data == keyboards.CallbackCart:
		return menus.SendCart(h.api, chat.ChatID, chat.Session())
	case data == keyboards.CallbackOrderConfirm:
		return h.handleOrderConfirm(ctx, chat)
	case data == keyboards.CallbackOrderAbort:
		return h.handleOrderAbort(ctx, chat)
	case strings.HasPrefix(data, keyboards.CallbackAddPrefix):
		return addToCart(ctx, h.api, h.deps, chat, strings.TrimPrefix(data, keyboards.CallbackAddPrefix))
	default:
		logger.WithContext(ctx).Warn("Unknown callback", "data", data, "user_id", chat.UserID)
		return reply(h.api, chat.ChatID, "That button has expired. Send /start to open the main menu.")
	}
}

// handleOrderConfirm places the pending order despite the limit.
func (h *CallbackHandler) handleOrderConfirm(ctx context.Context, chat *Chat) error {
	if chat.Session().PendingConfirmation == nil {
		return reply(h.api, chat.ChatID, "There is no order waiting for confirmation. Send /order to place your cart.")
	}
	return placeOrder(ctx, h.api, h.deps, chat, true)
}

func (h *CallbackHandler) handleOrderAbort(ctx context.Context, chat *Chat) error {
	if chat.Session().PendingConfirmation == nil {
		return reply(h.api, chat.ChatID, "There is no order waiting for confirmation.")
	}
	h.deps.Orders.AbortOrder(chat.Session())
	logger.WithContext(ctx).Info("Order aborted", "user_id", chat.UserID)
	return replyWithKeyboard(h.api, chat.ChatID, "Order cancelled and your cart has been emptied.", keyboards.BackToMain())
}
