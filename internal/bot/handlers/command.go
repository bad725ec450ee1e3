package handlers

import (
	"context"
	"fmt"
	"strconv"
	"strings"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"

	"github.com/vladimiradmaev/spendeats/internal/bot/keyboards"
	"github.com/vladimiradmaev/spendeats/internal/bot/menus"
	"github.com/vladimiradmaev/spendeats/internal/domain"
	apperrors "github.com/vladimiradmaev/spendeats/internal/errors"
	"github.com/vladimiradmaev/spendeats/internal/logger"
	"github.com/vladimiradmaev/spendeats/internal/services"
	"github.com/vladimiradmaev/spendeats/internal/utils"
)

const helpText = `Available commands:
/start - Show the main menu
/menu - Show the menu
/add <item> - Add one unit of a dish to your cart
/remove <item> - Remove one unit from your cart
/cart - Show your cart
/order - Place your order
/limit <amount> [points|badge] - Set your monthly spending limit
/status - Points, badges and this month's spending
/history - Your order history
/review <item> | <rating 1-5> | <comment> - Review a dish
/reviews [item] - Latest reviews
/diet <goal> | <preference> | <allergies> - Create a diet plan
   goals: Weight Loss, Muscle Gain, General Health
   preferences: None, Vegetarian, Vegan
/schedule <start-end, ...> - Plan today's meals around your free hours, e.g. /schedule 8-10, 13-14, 19-21
/recipe [max kcal] - Generate a custom recipe
/recipes - Your saved recipes
/log <item> <quantity> - Log a meal you ate
/nutrition - Your nutrition totals

You can also just ask me things, like "Do you have any vegan options?" or "I want to change my spending limit".`

// CommandHandler handles bot commands
type CommandHandler struct {
	api  Sender
	deps Dependencies
}

// NewCommandHandler creates a new command handler
func NewCommandHandler(api Sender, deps Dependencies) *CommandHandler {
	return &CommandHandler{
		api:  api,
		deps: deps,
	}
}

// Handle processes a command message
func (h *CommandHandler) Handle(ctx context.Context, message *tgbotapi.Message, chat *Chat) error {
	command := message.Command()
	args := strings.TrimSpace(message.CommandArguments())
	logger.WithContext(ctx).Info("Handling command", "command", command, "user_id", chat.UserID)

	switch command {
	case "start":
		chat.State.Conversation.Reset()
		return menus.SendMainMenu(h.api, chat.ChatID)
	case "help":
		return reply(h.api, chat.ChatID, helpText)
	case "menu":
		return menus.SendMenu(h.api, chat.ChatID, h.deps.Catalog)
	case "add":
		return h.handleAdd(ctx, chat, args)
	case "remove":
		return h.handleRemove(ctx, chat, args)
	case "cart":
		return menus.SendCart(h.api, chat.ChatID, chat.Session())
	case "order":
		return placeOrder(ctx, h.api, h.deps, chat, false)
	case "limit":
		return h.handleLimit(ctx, chat, args)
	case "status":
		return h.handleStatus(ctx, chat)
	case "history":
		return h.handleHistory(ctx, chat)
	case "review":
		return h.handleReview(ctx, chat, args)
	case "reviews":
		return h.handleReviews(ctx, chat, args)
	case "recipes":
		return h.handleRecipes(ctx, chat)
	case "diet":
		return h.handleDiet(ctx, chat, args)
	case "schedule":
		return h.handleSchedule(ctx, chat, args)
	case "recipe":
		return h.handleRecipe(ctx, chat, args)
	case "log":
		return h.handleLog(ctx, chat, args)
	case "nutrition":
		return h.handleNutrition(ctx, chat)
	default:
		return reply(h.api, chat.ChatID, "Unknown command. Send /help to see what I can do.")
	}
}

func (h *CommandHandler) handleAdd(ctx context.Context, chat *Chat, args string) error {
	if args == "" {
		return reply(h.api, chat.ChatID, "Usage: /add <item>, e.g. /add Chicken Biryani")
	}
	return addToCart(ctx, h.api, h.deps, chat, resolveItem(h.deps.Catalog, args))
}

func (h *CommandHandler) handleRemove(ctx context.Context, chat *Chat, args string) error {
	if args == "" {
		return reply(h.api, chat.ChatID, "Usage: /remove <item>")
	}
	item := resolveItem(h.deps.Catalog, args)
	update, err := h.deps.Orders.RemoveFromCart(ctx, chat.Session(), item)
	if err != nil {
		return fail(ctx, h.api, h.deps.Errors, chat.ChatID, err)
	}

	// A no-op removal skips the limit recheck.
	switch {
	case update.Limit == nil:
		return reply(h.api, chat.ChatID, fmt.Sprintf("%s is not in your cart.", item))
	case update.Line != nil:
		return reply(h.api, chat.ChatID, fmt.Sprintf("Removed one %s. %d left in your cart.", item, update.Line.Quantity))
	default:
		return reply(h.api, chat.ChatID, fmt.Sprintf("Removed %s from your cart.", item))
	}
}

func (h *CommandHandler) handleLimit(ctx context.Context, chat *Chat, args string) error {
	fields := strings.Fields(args)
	if len(fields) == 0 || len(fields) > 2 {
		return reply(h.api, chat.ChatID, "Usage: /limit <amount> [points|badge], e.g. /limit 500 or /limit 600 points")
	}
	amount, err := strconv.ParseFloat(strings.TrimPrefix(strings.ToLower(fields[0]), "rs"), 64)
	if err != nil {
		return reply(h.api, chat.ChatID, "Please provide a valid number for the new spending limit.")
	}
	method := services.PaymentNone
	if len(fields) == 2 {
		switch strings.ToLower(fields[1]) {
		case "points":
			method = services.PaymentPoints
		case "badge":
			method = services.PaymentBadge
		default:
			return reply(h.api, chat.ChatID, "Pay with either points or badge, e.g. /limit 600 points")
		}
	}

	res, err := h.deps.Spending.RequestEdit(ctx, chat.Key(), amount, method)
	if err != nil {
		return fail(ctx, h.api, h.deps.Errors, chat.ChatID, err)
	}
	chat.State.Conversation.Reset()

	amountText := formatNumber(amount)
	var text string
	switch {
	case res.FreeEdit:
		text = fmt.Sprintf("Great! Your new limit of Rs%s is saved. You'll need points or badges for future changes.", amountText)
	case res.Paid == services.PaymentPoints:
		text = fmt.Sprintf("✅ Done! Your spending limit is updated to Rs%s and 10 points have been deducted.", amountText)
	case res.Paid == services.PaymentBadge:
		text = fmt.Sprintf("✅ Your spending limit is updated to Rs%s! The %s badge has been removed from your profile.", amountText, res.BadgeRemoved)
	default:
		text = fmt.Sprintf("Spending limit set to Rs%s for this month!", amountText)
	}
	text += fmt.Sprintf(" You have %s left this month.", plural(res.EditsLeft, "edit"))
	if amount > 0 && res.MonthlySpend > amount {
		text += fmt.Sprintf("\n⚠️ You have already spent Rs%s this month, which is over the new limit.", formatNumber(res.MonthlySpend))
	}
	return reply(h.api, chat.ChatID, text)
}

func (h *CommandHandler) handleStatus(ctx context.Context, chat *Chat) error {
	status, err := h.deps.Spending.Status(ctx, chat.Key())
	if err != nil {
		return fail(ctx, h.api, h.deps.Errors, chat.ChatID, err)
	}
	suggestion, err := h.deps.Spending.SuggestLimit(ctx, chat.Key())
	if err != nil {
		return fail(ctx, h.api, h.deps.Errors, chat.ChatID, err)
	}

	var b strings.Builder
	b.WriteString("👤 Your account\n\n")
	fmt.Fprintf(&b, "Points: %d\n", status.State.LoyaltyPoints)
	fmt.Fprintf(&b, "Badges: %s\n", formatBadges(status.State.Badges))
	if status.Limit != nil && status.Limit.Limit > 0 {
		fmt.Fprintf(&b, "Monthly limit: Rs%s (spent Rs%s in %s)\n",
			formatNumber(status.Limit.Limit), formatNumber(status.Limit.Spend), status.Limit.Month)
		if status.Limit.Exceeded {
			b.WriteString("⚠️ You are over your limit this month.\n")
		}
	} else {
		b.WriteString("Monthly limit: not set\n")
	}
	fmt.Fprintf(&b, "Limit edits left this month: %d\n", status.EditsLeft)
	if suggestion > 0 {
		fmt.Fprintf(&b, "\n💡 Based on your order history, a limit of Rs%d would suit you.", suggestion)
	}
	return reply(h.api, chat.ChatID, b.String())
}

func (h *CommandHandler) handleHistory(ctx context.Context, chat *Chat) error {
	summary, err := h.deps.Spending.OrderHistorySummary(ctx, chat.Key())
	if err != nil {
		return fail(ctx, h.api, h.deps.Errors, chat.ChatID, err)
	}
	if summary.Orders == 0 {
		return reply(h.api, chat.ChatID, "You haven't ordered anything yet. Send /menu to get started!")
	}

	var b strings.Builder
	b.WriteString("📜 Your order history\n\n")
	for _, month := range summary.Months {
		fmt.Fprintf(&b, "%s: Rs%s\n", month, formatNumber(summary.SpentByMonth[month]))
	}
	fmt.Fprintf(&b, "\nMost ordered: %s\nAverage order value: Rs%s over %s",
		summary.MostOrderedItem, formatNumber(summary.AverageOrderValue), plural(summary.Orders, "order"))
	return reply(h.api, chat.ChatID, b.String())
}

func (h *CommandHandler) handleReview(ctx context.Context, chat *Chat, args string) error {
	parts := splitArgs(args)
	if len(parts) < 2 || len(parts) > 3 {
		return reply(h.api, chat.ChatID, "Usage: /review <item> | <rating 1-5> | <comment>")
	}
	rating, err := strconv.Atoi(parts[1])
	if err != nil {
		return reply(h.api, chat.ChatID, "The rating must be a whole number from 1 to 5.")
	}
	comment := ""
	if len(parts) == 3 {
		comment = parts[2]
	}

	review, award, err := h.deps.Loyalty.SubmitReview(ctx, chat.Key(), resolveItem(h.deps.Catalog, parts[0]), rating, comment)
	if err != nil {
		return fail(ctx, h.api, h.deps.Errors, chat.ChatID, err)
	}
	text := fmt.Sprintf("⭐ Thanks for reviewing %s! You now have %d points.", review.Item, award.Points)
	if award.Badge != "" {
		text += fmt.Sprintf("\n🏅 You earned the %s badge!", award.Badge)
	}
	return reply(h.api, chat.ChatID, text)
}

const maxListed = 5

func (h *CommandHandler) handleReviews(ctx context.Context, chat *Chat, args string) error {
	item := ""
	if args != "" {
		item = resolveItem(h.deps.Catalog, args)
	}
	reviews, err := h.deps.Loyalty.ListReviews(ctx, item)
	if err != nil {
		return fail(ctx, h.api, h.deps.Errors, chat.ChatID, err)
	}
	if len(reviews) == 0 {
		return reply(h.api, chat.ChatID, "No reviews yet. Be the first with /review!")
	}

	var b strings.Builder
	fmt.Fprintf(&b, "📝 Latest reviews (%d total):\n", len(reviews))
	for i, r := range reviews {
		if i == maxListed {
			break
		}
		fmt.Fprintf(&b, "\n%s %s", strings.Repeat("⭐", r.Rating), r.Item)
		if r.Comment != "" {
			fmt.Fprintf(&b, ": %s", r.Comment)
		}
	}
	return reply(h.api, chat.ChatID, b.String())
}

func (h *CommandHandler) handleRecipes(ctx context.Context, chat *Chat) error {
	recipes, err := h.deps.Diet.ListCustomRecipes(ctx, chat.Key())
	if err != nil {
		return fail(ctx, h.api, h.deps.Errors, chat.ChatID, err)
	}
	if len(recipes) == 0 {
		return reply(h.api, chat.ChatID, "You haven't generated any recipes yet. Try /recipe!")
	}

	var b strings.Builder
	b.WriteString("👩‍🍳 Your recipes:\n")
	for _, r := range recipes {
		fmt.Fprintf(&b, "\n• %s: %d kcal, Rs%d", r.Name, r.Calories, r.Price)
	}
	return reply(h.api, chat.ChatID, b.String())
}

func (h *CommandHandler) handleDiet(ctx context.Context, chat *Chat, args string) error {
	parts := splitArgs(args)
	if len(parts) == 0 || parts[0] == "" || len(parts) > 3 {
		return reply(h.api, chat.ChatID, "Usage: /diet <goal> | <preference> | <allergies>, e.g. /diet Weight Loss | Vegetarian | nuts, dairy")
	}
	prefs := domain.Preferences{
		Goal:       domain.FitnessGoal(titleCase(parts[0])),
		Preference: domain.PreferenceNone,
	}
	if len(parts) > 1 && parts[1] != "" {
		prefs.Preference = domain.DietaryPreference(titleCase(parts[1]))
	}
	if len(parts) > 2 {
		prefs.Allergies = parts[2]
	}

	stored, err := h.deps.Diet.SaveDietPlan(ctx, chat.Key(), prefs)
	if err != nil {
		return fail(ctx, h.api, h.deps.Errors, chat.ChatID, err)
	}

	var b strings.Builder
	fmt.Fprintf(&b, "🥗 Your %s diet plan:\n", stored.Preferences.Goal)
	for _, meal := range domain.Meals {
		fmt.Fprintf(&b, "%s: %s\n", meal, stored.Plan[meal])
	}
	b.WriteString("\nSend /schedule to fit it around your day or /recipe for a custom dish.")
	return reply(h.api, chat.ChatID, b.String())
}

func (h *CommandHandler) handleSchedule(ctx context.Context, chat *Chat, args string) error {
	if args == "" {
		current, err := h.deps.Scheduler.Current(ctx, chat.Key())
		if err != nil {
			return fail(ctx, h.api, h.deps.Errors, chat.ChatID, err)
		}
		if current == nil {
			return reply(h.api, chat.ChatID, "No meal schedule set for today. Send /schedule <start-end, ...> with whole hours, e.g. /schedule 8-10, 13-14, 19-21")
		}
		return replyWithKeyboard(h.api, chat.ChatID, formatSchedule(current), keyboards.Schedule(current))
	}

	availability, err := utils.ParseAvailability(args)
	if err != nil {
		return reply(h.api, chat.ChatID, "❌ "+err.Error())
	}
	schedule, err := h.deps.Scheduler.Save(ctx, chat.Key(), availability)
	if err != nil {
		return fail(ctx, h.api, h.deps.Errors, chat.ChatID, err)
	}
	if !schedule.Scheduled() {
		return reply(h.api, chat.ChatID, formatSchedule(schedule))
	}
	return replyWithKeyboard(h.api, chat.ChatID, formatSchedule(schedule), keyboards.Schedule(schedule))
}

func (h *CommandHandler) handleRecipe(ctx context.Context, chat *Chat, args string) error {
	var maxCalories float64
	if args != "" {
		v, err := strconv.ParseFloat(strings.TrimSuffix(strings.ToLower(args), "kcal"), 64)
		if err != nil || v < 0 {
			return reply(h.api, chat.ChatID, "Usage: /recipe [max kcal], e.g. /recipe 500")
		}
		maxCalories = v
	}

	stored, err := h.deps.Diet.GetDietPlan(ctx, chat.Key())
	if err != nil {
		return fail(ctx, h.api, h.deps.Errors, chat.ChatID, err)
	}
	if stored == nil {
		return fail(ctx, h.api, h.deps.Errors, chat.ChatID, apperrors.ErrNoDietPlan)
	}

	recipe, err := h.deps.Diet.SaveCustomRecipe(ctx, chat.Key(), stored.Preferences, maxCalories)
	if err != nil {
		return fail(ctx, h.api, h.deps.Errors, chat.ChatID, err)
	}
	return reply(h.api, chat.ChatID, formatRecipe(recipe))
}

func (h *CommandHandler) handleLog(ctx context.Context, chat *Chat, args string) error {
	fields := strings.Fields(args)
	if len(fields) < 2 {
		return reply(h.api, chat.ChatID, "Usage: /log <item> <quantity>, e.g. /log Pizza 2")
	}
	quantity, err := strconv.Atoi(fields[len(fields)-1])
	if err != nil {
		return reply(h.api, chat.ChatID, "The quantity must be a whole number, e.g. /log Pizza 2")
	}
	item := resolveItem(h.deps.Catalog, strings.Join(fields[:len(fields)-1], " "))

	entry, err := h.deps.Diet.LogMeal(ctx, chat.Key(), item, quantity)
	if err != nil {
		return fail(ctx, h.api, h.deps.Errors, chat.ChatID, err)
	}
	return reply(h.api, chat.ChatID, fmt.Sprintf("📝 Logged %d x %s (%s kcal). Send /nutrition for your totals.",
		entry.Quantity, entry.Item, formatNumber(entry.Nutrition.Calories)))
}

func (h *CommandHandler) handleNutrition(ctx context.Context, chat *Chat) error {
	total, count, err := h.deps.Diet.NutritionSummary(ctx, chat.Key())
	if err != nil {
		return fail(ctx, h.api, h.deps.Errors, chat.ChatID, err)
	}
	if count == 0 {
		return reply(h.api, chat.ChatID, "You haven't logged any meals yet. Send /log <item> <quantity> to start!")
	}
	return reply(h.api, chat.ChatID, fmt.Sprintf(
		"📊 Nutrition over %s\nCalories: %s kcal\nProtein: %sg\nCarbs: %sg\nFats: %sg\nVitamins: %s",
		plural(count, "meal"), formatNumber(total.Calories), formatNumber(total.Protein),
		formatNumber(total.Carbs), formatNumber(total.Fats), formatVitamins(total.Vitamins)))
}
