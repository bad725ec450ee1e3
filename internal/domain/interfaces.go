package domain

import (
	"context"
	"math/rand"
	"sync"
	"time"
)

// Field names a persisted part of UserEconomyState for UserStore.Put.
type Field string

const (
	FieldLoyaltyPoints  Field = "loyalty_points"
	FieldBadges         Field = "badges"
	FieldSpendingLimit  Field = "spending_limit"
	FieldEditsThisMonth Field = "edits_this_month"
	FieldEditsLifetime  Field = "edits_lifetime"
	FieldLimitExceeded  Field = "limit_exceeded"
)

// UserStore persists economy state. Get returns a fresh state for unknown users;
// Put creates the user if needed and otherwise overwrites only the named fields.
type UserStore interface {
	Get(ctx context.Context, userID string) (*UserEconomyState, error)
	Put(ctx context.Context, state *UserEconomyState, fields ...Field) error
	ListUserIDs(ctx context.Context) ([]string, error)
}

// OrderStore is append-only.
type OrderStore interface {
	Append(ctx context.Context, records []OrderRecord) error
	QueryByUser(ctx context.Context, userID string) ([]OrderRecord, error)
}

// ReviewStore is append-only. An empty item lists every review.
type ReviewStore interface {
	Append(ctx context.Context, review *Review) error
	List(ctx context.Context, item string) ([]Review, error)
}

// PlanStore keeps diet plans, schedules, custom recipes and meal logs.
// Getters return (nil, nil) when nothing is stored.
type PlanStore interface {
	SaveDietPlan(ctx context.Context, userID string, plan *StoredDietPlan) error
	GetDietPlan(ctx context.Context, userID string) (*StoredDietPlan, error)
	SaveSchedule(ctx context.Context, userID string, schedule *MealSchedule) error
	GetSchedule(ctx context.Context, userID string) (*MealSchedule, error)
	AddCustomRecipe(ctx context.Context, userID string, recipe *CustomRecipe) error
	ListCustomRecipes(ctx context.Context, userID string) ([]CustomRecipe, error)
	AddMealLog(ctx context.Context, userID string, entry *MealLog) error
	ListMealLogs(ctx context.Context, userID string) ([]MealLog, error)
}

// MenuItem is a catalog dish.
type MenuItem struct {
	Name            string
	Price           float64
	CarbonFootprint float64
	Calories        float64
	Protein         float64
	Carbs           float64
	Fats            float64
	Vitamins        map[string]float64
	Tags            []string
	PrepTime        int // minutes
	Ingredients     []string
}

// HasTag reports whether the item carries tag.
func (m MenuItem) HasTag(tag string) bool {
	for _, t := range m.Tags {
		if t == tag {
			return true
		}
	}
	return false
}

// Nutrition returns the per-unit macros of the item.
func (m MenuItem) Nutrition() Nutrition {
	n := Nutrition{Calories: m.Calories, Protein: m.Protein, Carbs: m.Carbs, Fats: m.Fats}
	if len(m.Vitamins) > 0 {
		n.Vitamins = make(map[string]float64, len(m.Vitamins))
		for k, v := range m.Vitamins {
			n.Vitamins[k] = v
		}
	}
	return n
}

// IngredientCategory groups base ingredients for recipe composition.
type IngredientCategory string

const (
	CategoryBase      IngredientCategory = "base"
	CategoryProtein   IngredientCategory = "protein"
	CategoryVegetable IngredientCategory = "vegetable"
	CategorySeasoning IngredientCategory = "seasoning"
	CategoryTopping   IngredientCategory = "topping"
)

// Ingredient is a base ingredient with per-portion values.
type Ingredient struct {
	Name     string
	Category IngredientCategory
	Calories float64
	Protein  float64
	Carbs    float64
	Fats     float64
	Tags     []string
	Cost     float64
}

// HasTag reports whether the ingredient carries tag.
func (i Ingredient) HasTag(tag string) bool {
	for _, t := range i.Tags {
		if t == tag {
			return true
		}
	}
	return false
}

// Catalog is the read-only reference data. Iteration order is stable.
type Catalog interface {
	Items() []MenuItem
	Item(name string) (MenuItem, bool)
	Ingredients() []Ingredient
	Ingredient(name string) (Ingredient, bool)
}

// Clock supplies the current time.
type Clock interface {
	Now() time.Time
}

// SystemClock reads the wall clock in Location (local time when nil).
type SystemClock struct {
	Location *time.Location
}

func (c SystemClock) Now() time.Time {
	if c.Location == nil {
		return time.Now()
	}
	return time.Now().In(c.Location)
}

// RandomSource picks uniformly in [0, n).
type RandomSource interface {
	Intn(n int) int
}

type lockedRand struct {
	mu sync.Mutex
	r  *rand.Rand
}

// NewRandomSource returns a goroutine-safe RandomSource seeded with seed.
func NewRandomSource(seed int64) RandomSource {
	return &lockedRand{r: rand.New(rand.NewSource(seed))}
}

func (l *lockedRand) Intn(n int) int {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.r.Intn(n)
}

// BotService handles telegram bot operations
type BotService interface {
	Start(ctx context.Context) error
	Stop()
}
