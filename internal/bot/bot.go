// Package bot is the Telegram surface of SpendEATS.
package bot

import (
	"context"
	"fmt"
	"sync"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"

	"github.com/vladimiradmaev/spendeats/internal/bot/handlers"
	"github.com/vladimiradmaev/spendeats/internal/bot/state"
	apperrors "github.com/vladimiradmaev/spendeats/internal/errors"
	"github.com/vladimiradmaev/spendeats/internal/logger"
)

// Bot long-polls Telegram and hands every update to the update handler.
type Bot struct {
	api     *tgbotapi.BotAPI
	handler *handlers.UpdateHandler
	errors  *apperrors.Handler

	stopOnce sync.Once
}

func NewBot(token string, deps handlers.Dependencies, stateManager state.StateManager) (*Bot, error) {
	api, err := tgbotapi.NewBotAPI(token)
	if err != nil {
		return nil, fmt.Errorf("failed to create bot: %w", err)
	}
	if deps.Errors == nil {
		deps.Errors = apperrors.NewHandler(logger.GetLogger())
	}

	logger.Info("Bot authorized", "account", api.Self.UserName)
	return &Bot{
		api:     api,
		handler: handlers.NewUpdateHandler(api, deps, stateManager),
		errors:  deps.Errors,
	}, nil
}

// Start blocks until ctx is cancelled or Stop is called.
func (b *Bot) Start(ctx context.Context) error {
	u := tgbotapi.NewUpdate(0)
	u.Timeout = 60

	updates := b.api.GetUpdatesChan(u)
	logger.Info("Bot is now listening for updates")

	for {
		select {
		case <-ctx.Done():
			logger.Info("Bot is shutting down")
			b.Stop()
			return ctx.Err()
		case update, ok := <-updates:
			if !ok {
				return nil
			}
			logger.Debug("Update received", "update_id", update.UpdateID)
			if err := b.handler.Handle(ctx, update); err != nil {
				b.errors.Handle(ctx, err)
			}
		}
	}
}

// Stop stops long polling; safe to call more than once.
func (b *Bot) Stop() {
	b.stopOnce.Do(b.api.StopReceivingUpdates)
}
