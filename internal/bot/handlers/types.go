package handlers

import (
	"strconv"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"

	"github.com/vladimiradmaev/spendeats/internal/bot/state"
	"github.com/vladimiradmaev/spendeats/internal/domain"
	apperrors "github.com/vladimiradmaev/spendeats/internal/errors"
	"github.com/vladimiradmaev/spendeats/internal/interfaces"
)

// Sender is the part of *tgbotapi.BotAPI the handlers use.
type Sender interface {
	Send(c tgbotapi.Chattable) (tgbotapi.Message, error)
	Request(c tgbotapi.Chattable) (*tgbotapi.APIResponse, error)
}

// Dependencies holds all service dependencies for handlers
type Dependencies struct {
	Catalog   domain.Catalog
	Orders    interfaces.OrderServiceInterface
	Spending  interfaces.SpendingServiceInterface
	Loyalty   interfaces.LoyaltyServiceInterface
	Diet      interfaces.DietServiceInterface
	Scheduler interfaces.SchedulerServiceInterface
	Assistant interfaces.AssistantInterface
	Errors    *apperrors.Handler
}

// Chat is the user and chat an update belongs to, plus the state loaded for it.
// Handlers mutate State; the update handler persists it afterwards.
type Chat struct {
	UserID int64
	ChatID int64
	State  *state.UserState
}

// Key is the user id the services know the user by.
func (c *Chat) Key() string {
	return strconv.FormatInt(c.UserID, 10)
}

// Session is a shorthand for the user's cart session.
func (c *Chat) Session() *domain.Session {
	return c.State.Session
}
