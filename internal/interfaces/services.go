package interfaces

import (
	"context"

	"github.com/vladimiradmaev/spendeats/internal/domain"
	"github.com/vladimiradmaev/spendeats/internal/services"
)

// OrderServiceInterface defines the contract for cart and order operations
type OrderServiceInterface interface {
	AddToCart(ctx context.Context, sess *domain.Session, item string) (*services.CartUpdate, error)
	RemoveFromCart(ctx context.Context, sess *domain.Session, item string) (*services.CartUpdate, error)
	PlaceOrder(ctx context.Context, sess *domain.Session, force bool) (*services.OrderOutcome, error)
	AbortOrder(sess *domain.Session)
	Recommend(ctx context.Context, userID string) (string, error)
}

// SpendingServiceInterface defines the contract for spending-limit operations
type SpendingServiceInterface interface {
	RequestEdit(ctx context.Context, userID string, newLimit float64, method services.PaymentMethod) (*services.EditResult, error)
	Status(ctx context.Context, userID string) (*services.AccountStatus, error)
	SuggestLimit(ctx context.Context, userID string) (int, error)
	OrderHistorySummary(ctx context.Context, userID string) (*services.HistorySummary, error)
}

// LoyaltyServiceInterface defines the contract for reviews
type LoyaltyServiceInterface interface {
	SubmitReview(ctx context.Context, userID, item string, rating int, comment string) (*domain.Review, *services.AwardResult, error)
	ListReviews(ctx context.Context, item string) ([]domain.Review, error)
}

// DietServiceInterface defines the contract for diet plans, recipes and meal tracking
type DietServiceInterface interface {
	SaveDietPlan(ctx context.Context, userID string, prefs domain.Preferences) (*domain.StoredDietPlan, error)
	GetDietPlan(ctx context.Context, userID string) (*domain.StoredDietPlan, error)
	SaveCustomRecipe(ctx context.Context, userID string, prefs domain.Preferences, maxCalories float64) (*domain.CustomRecipe, error)
	ListCustomRecipes(ctx context.Context, userID string) ([]domain.CustomRecipe, error)
	LogMeal(ctx context.Context, userID, item string, quantity int) (*domain.MealLog, error)
	NutritionSummary(ctx context.Context, userID string) (*domain.Nutrition, int, error)
}

// SchedulerServiceInterface defines the contract for meal scheduling
type SchedulerServiceInterface interface {
	Save(ctx context.Context, userID string, availability domain.Availability) (*domain.MealSchedule, error)
	Current(ctx context.Context, userID string) (*domain.MealSchedule, error)
}

// AssistantInterface answers free text and drives the limit-change dialogue
type AssistantInterface interface {
	Reply(ctx context.Context, userID string, conv *domain.Conversation, input string) (string, error)
}
