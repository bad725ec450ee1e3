package handlers

import (
	"context"
	"errors"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"

	apperrors "github.com/vladimiradmaev/spendeats/internal/errors"
)

const genericFailure = "Something went wrong on our side. Please try again in a moment."

func reply(api Sender, chatID int64, text string) error {
	_, err := api.Send(tgbotapi.NewMessage(chatID, text))
	return err
}

func replyWithKeyboard(api Sender, chatID int64, text string, markup tgbotapi.InlineKeyboardMarkup) error {
	msg := tgbotapi.NewMessage(chatID, text)
	msg.ReplyMarkup = markup
	_, err := api.Send(msg)
	return err
}

// userMessage turns a service error into chat text. ok is false for failures
// the user cannot act on.
func userMessage(err error) (text string, ok bool) {
	switch {
	case errors.Is(err, apperrors.ErrQuotaExceeded):
		return "⚠️ You've reached your limit of 2 spending limit changes this month. Try again next month!", true
	case errors.Is(err, apperrors.ErrInsufficientPoints):
		return "You don't have enough points! Try /limit <amount> badge to sacrifice a badge instead.", true
	case errors.Is(err, apperrors.ErrNoBadgeAvailable):
		return "Oops! You need at least 10 points or 1 badge to edit your limit. Earn more points by ordering food or writing reviews!", true
	case errors.Is(err, apperrors.ErrPaymentRequired):
		return "Changing your limit again costs 10 points or one badge. Send /limit <amount> points or /limit <amount> badge.", true
	case errors.Is(err, apperrors.ErrEmptyCart):
		return "🛒 Your cart is empty. Add a dish with /add <item>.", true
	case errors.Is(err, apperrors.ErrNoDietPlan):
		return "You don't have a diet plan yet. Send /diet <goal> | <preference> | <allergies> first.", true
	case errors.Is(err, apperrors.ErrEmptyCandidateSet):
		return "Nothing on the menu matches your preferences. Try a different preference or fewer allergies.", true
	}

	var appErr *apperrors.AppError
	if errors.As(err, &appErr) {
		switch appErr.Type {
		case apperrors.ErrorTypeNotFound:
			return "❌ " + appErr.Message + ". Send /menu to see what we have.", true
		case apperrors.ErrorTypeValidation:
			return "❌ " + appErr.Message, true
		}
	}
	return genericFailure, false
}

// fail reports err to the user. Errors the user can act on are logged and
// swallowed; the rest are returned to the update handler.
func fail(ctx context.Context, api Sender, errs *apperrors.Handler, chatID int64, err error) error {
	text, ok := userMessage(err)
	if sendErr := reply(api, chatID, text); sendErr != nil {
		return sendErr
	}
	if !ok {
		return err
	}
	if errs != nil {
		errs.Handle(ctx, err)
	}
	return nil
}
