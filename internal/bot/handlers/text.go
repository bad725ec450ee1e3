package handlers

import (
	"context"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
)

// TextHandler passes free text to the assistant
type TextHandler struct {
	api  Sender
	deps Dependencies
}

// NewTextHandler creates a new text handler
func NewTextHandler(api Sender, deps Dependencies) *TextHandler {
	return &TextHandler{
		api:  api,
		deps: deps,
	}
}

// Handle processes a text message
func (h *TextHandler) Handle(ctx context.Context, message *tgbotapi.Message, chat *Chat) error {
	answer, err := h.deps.Assistant.Reply(ctx, chat.Key(), &chat.State.Conversation, message.Text)
	if err != nil {
		return fail(ctx, h.api, h.deps.Errors, chat.ChatID, err)
	}
	return reply(h.api, chat.ChatID, answer)
}
