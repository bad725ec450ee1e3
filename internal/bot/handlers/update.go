package handlers

import (
	"context"
	"fmt"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"

	"github.com/vladimiradmaev/spendeats/internal/bot/state"
	"github.com/vladimiradmaev/spendeats/internal/logger"
)

// UpdateHandler handles telegram updates and coordinates other handlers
type UpdateHandler struct {
	api             Sender
	stateManager    state.StateManager
	callbackHandler *CallbackHandler
	commandHandler  *CommandHandler
	textHandler     *TextHandler
}

// NewUpdateHandler creates a new update handler
func NewUpdateHandler(api Sender, deps Dependencies, stateManager state.StateManager) *UpdateHandler {
	return &UpdateHandler{
		api:             api,
		stateManager:    stateManager,
		callbackHandler: NewCallbackHandler(api, deps),
		commandHandler:  NewCommandHandler(api, deps),
		textHandler:     NewTextHandler(api, deps),
	}
}

// Handle processes a telegram update. The user's state is loaded before and
// saved after the handler runs, even when the handler fails.
func (h *UpdateHandler) Handle(ctx context.Context, update tgbotapi.Update) error {
	chat := chatOf(update)
	if chat == nil {
		return nil
	}

	log := logger.WithContext(ctx).With("user_id", chat.UserID)
	ctx = logger.IntoContext(ctx, log)

	st, err := h.stateManager.GetUserState(ctx, chat.UserID)
	if err != nil {
		return fmt.Errorf("failed to load user state: %w", err)
	}
	chat.State = st

	handleErr := h.dispatch(ctx, update, chat)

	if err := h.stateManager.SetUserState(ctx, chat.UserID, chat.State); err != nil {
		log.Error("Failed to save user state", "error", err)
		if handleErr == nil {
			handleErr = fmt.Errorf("failed to save user state: %w", err)
		}
	}
	return handleErr
}

func (h *UpdateHandler) dispatch(ctx context.Context, update tgbotapi.Update, chat *Chat) error {
	if update.CallbackQuery != nil {
		return h.callbackHandler.Handle(ctx, update.CallbackQuery, chat)
	}
	if update.Message.IsCommand() {
		return h.commandHandler.Handle(ctx, update.Message, chat)
	}
	if update.Message.Text != "" {
		return h.textHandler.Handle(ctx, update.Message, chat)
	}
	return reply(h.api, chat.ChatID, "I can only read text messages. Send /help to see what I can do.")
}

// chatOf returns nil for updates the bot ignores.
func chatOf(update tgbotapi.Update) *Chat {
	switch {
	case update.CallbackQuery != nil && update.CallbackQuery.From != nil && update.CallbackQuery.Message != nil && update.CallbackQuery.Message.Chat != nil:
		return &Chat{UserID: update.CallbackQuery.From.ID, ChatID: update.CallbackQuery.Message.Chat.ID}
	case update.Message != nil && update.Message.From != nil && update.Message.Chat != nil:
		return &Chat{UserID: update.Message.From.ID, ChatID: update.Message.Chat.ID}
	default:
		return nil
	}
}
