package domain

import (
	"time"
)

// Badge is a loyalty tier.
type Badge string

const (
	BadgeBronze Badge = "Bronze"
	BadgeSilver Badge = "Silver"
	BadgeGold   Badge = "Gold"
)

// SpendingLimit is the user's monthly cap. SetMonth is "YYYY-MM", empty if never set.
type SpendingLimit struct {
	MonthlyAmount float64 `json:"monthly_amount"`
	SetMonth      string  `json:"set_month"`
}

// UserEconomyState is the per-user loyalty and spending-limit record.
type UserEconomyState struct {
	UserID             string        `json:"user_id"`
	LoyaltyPoints      int           `json:"loyalty_points"`
	Badges             []Badge       `json:"badges"`
	SpendingLimit      SpendingLimit `json:"spending_limit"`
	EditCountLifetime  int           `json:"edit_count_lifetime"`
	EditCountThisMonth int           `json:"edit_count_this_month"`
	LimitExceeded      bool          `json:"limit_exceeded"`
	UpdatedAt          time.Time     `json:"updated_at"`
}

// NewUserEconomyState returns the state of a user that has never done anything.
func NewUserEconomyState(userID string) *UserEconomyState {
	return &UserEconomyState{UserID: userID, Badges: []Badge{}}
}

// HasBadge reports whether b is held.
func (s *UserEconomyState) HasBadge(b Badge) bool {
	for _, held := range s.Badges {
		if held == b {
			return true
		}
	}
	return false
}

// RemoveBadge drops b, keeping the order of the rest.
func (s *UserEconomyState) RemoveBadge(b Badge) bool {
	for i, held := range s.Badges {
		if held == b {
			s.Badges = append(s.Badges[:i:i], s.Badges[i+1:]...)
			return true
		}
	}
	return false
}

// Clone returns a deep copy, so a failed evaluation never touches the original.
func (s *UserEconomyState) Clone() *UserEconomyState {
	c := *s
	c.Badges = append([]Badge{}, s.Badges...)
	return &c
}

// Meal is one of the three fixed daily meals.
type Meal string

const (
	Breakfast Meal = "Breakfast"
	Lunch     Meal = "Lunch"
	Dinner    Meal = "Dinner"
)

// Meals lists the meals in the order they are planned and scheduled.
var Meals = []Meal{Breakfast, Lunch, Dinner}

// FitnessGoal selects the calorie/protein bands of a diet plan.
type FitnessGoal string

const (
	GoalWeightLoss    FitnessGoal = "Weight Loss"
	GoalMuscleGain    FitnessGoal = "Muscle Gain"
	GoalGeneralHealth FitnessGoal = "General Health"
)

// DietaryPreference restricts items by tag.
type DietaryPreference string

const (
	PreferenceNone       DietaryPreference = "None"
	PreferenceVegetarian DietaryPreference = "Vegetarian"
	PreferenceVegan      DietaryPreference = "Vegan"
)

// Preferences are the inputs of the diet plan, recipe generator and scheduler.
type Preferences struct {
	Goal       FitnessGoal       `json:"fitness_goal"`
	Preference DietaryPreference `json:"dietary_preference"`
	Allergies  string            `json:"allergies"` // comma separated
}

// DietPlan maps each meal to an item name; "" means none.
type DietPlan map[Meal]string

// Complete reports whether every meal has an item.
func (p DietPlan) Complete() bool {
	for _, m := range Meals {
		if p[m] == "" {
			return false
		}
	}
	return true
}

// StoredDietPlan is a plan together with the preferences that produced it.
type StoredDietPlan struct {
	Plan        DietPlan    `json:"plan"`
	Preferences Preferences `json:"preferences"`
	CreatedAt   time.Time   `json:"created_at"`
}

// Slot is a whole-hour availability interval [Start, End).
type Slot struct {
	Start int `json:"start"`
	End   int `json:"end"`
}

// Availability is today's ordered list of free slots.
type Availability []Slot

// WarningKind classifies a per-meal scheduling problem.
type WarningKind string

const (
	WarningNoFeasibleSlot          WarningKind = "no_feasible_slot"
	WarningSoftViolation           WarningKind = "soft_violation"
	WarningPreferredItemDoesNotFit WarningKind = "preferred_item_does_not_fit"
	WarningNoCandidateLeft         WarningKind = "no_candidate_left"
)

// ScheduleWarning is a non-fatal note about one meal.
type ScheduleWarning struct {
	Meal    Meal        `json:"meal"`
	Kind    WarningKind `json:"kind"`
	Item    string      `json:"item,omitempty"`
	Message string      `json:"message"`
}

// MealSchedule is today's allocation; a meal mapped to "" could not be scheduled.
type MealSchedule struct {
	Date         string            `json:"date"`
	Day          string            `json:"day"`
	Meals        map[Meal]string   `json:"meals"`
	Warnings     []ScheduleWarning `json:"warnings,omitempty"`
	Availability Availability      `json:"availability"`
}

// Scheduled reports whether at least one meal got an item.
func (s *MealSchedule) Scheduled() bool {
	for _, m := range Meals {
		if s.Meals[m] != "" {
			return true
		}
	}
	return false
}

// OrderRecord is one committed cart line. Price and CarbonFootprint are line totals.
type OrderRecord struct {
	ID              string    `json:"id"`
	UserID          string    `json:"user_id"`
	Item            string    `json:"item"`
	Quantity        int       `json:"quantity"`
	Price           float64   `json:"price"`
	Date            string    `json:"date"`
	CarbonFootprint float64   `json:"carbon_footprint"`
	CreatedAt       time.Time `json:"created_at"`
}

// CartLine is one item in a session cart; Price and CarbonFootprint are per unit.
type CartLine struct {
	Item            string  `json:"item"`
	Price           float64 `json:"price"`
	CarbonFootprint float64 `json:"carbon_footprint"`
	Quantity        int     `json:"quantity"`
}

// OrderConfirmation is returned instead of committing an order that would breach the limit.
type OrderConfirmation struct {
	TotalCost    float64 `json:"total_cost"`
	MonthlyLimit float64 `json:"monthly_limit"`
	CurrentSpend float64 `json:"current_spend"`
}

// Session is the per-user request context carried between chat turns.
type Session struct {
	UserID              string             `json:"user_id"`
	Cart                []CartLine         `json:"cart"`
	LimitExceeded       bool               `json:"limit_exceeded"`
	PendingConfirmation *OrderConfirmation `json:"pending_confirmation,omitempty"`
}

// NewSession returns an empty session for userID.
func NewSession(userID string) *Session {
	return &Session{UserID: userID, Cart: []CartLine{}}
}

// CartTotals returns the cost and carbon footprint of the whole cart.
func (s *Session) CartTotals() (cost, carbon float64) {
	for _, line := range s.Cart {
		cost += line.Price * float64(line.Quantity)
		carbon += line.CarbonFootprint * float64(line.Quantity)
	}
	return cost, carbon
}

// ClearCart empties the cart and drops any pending confirmation.
func (s *Session) ClearCart() {
	s.Cart = []CartLine{}
	s.PendingConfirmation = nil
}

// Review is a user's rating of a menu item.
type Review struct {
	ID        string    `json:"id"`
	UserID    string    `json:"user_id"`
	Item      string    `json:"item"`
	Rating    int       `json:"rating"`
	Comment   string    `json:"comment"`
	CreatedAt time.Time `json:"created_at"`
}

// Nutrition holds macro totals.
type Nutrition struct {
	Calories float64            `json:"calories"`
	Protein  float64            `json:"protein"`
	Carbs    float64            `json:"carbs"`
	Fats     float64            `json:"fats"`
	Vitamins map[string]float64 `json:"vitamins,omitempty"`
}

// Add accumulates other into n.
func (n *Nutrition) Add(other Nutrition) {
	n.Calories += other.Calories
	n.Protein += other.Protein
	n.Carbs += other.Carbs
	n.Fats += other.Fats
	for k, v := range other.Vitamins {
		if n.Vitamins == nil {
			n.Vitamins = make(map[string]float64)
		}
		n.Vitamins[k] += v
	}
}

// CustomRecipe is a dish composed from base ingredients.
type CustomRecipe struct {
	Name            string             `json:"name"`
	Ingredients     []string           `json:"ingredients"`
	Calories        int                `json:"calories"`
	Protein         int                `json:"protein"`
	Carbs           int                `json:"carbs"`
	Fats            int                `json:"fats"`
	Tags            []string           `json:"tags"`
	PrepTime        int                `json:"prep_time"`
	Vitamins        map[string]float64 `json:"vitamins"`
	Price           int                `json:"price"`
	CarbonFootprint float64            `json:"carbon_footprint"`
	Instructions    []string           `json:"instructions"`
	CreatedAt       time.Time          `json:"created_at"`
}

// MealLog is one entry of the nutrition tracker.
type MealLog struct {
	Item      string    `json:"item"`
	Quantity  int       `json:"quantity"`
	Nutrition Nutrition `json:"nutrition"`
	LoggedAt  time.Time `json:"logged_at"`
}

// ConversationFlow tags the multi-turn exchange a user is in.
type ConversationFlow string

const (
	FlowIdle                ConversationFlow = ""
	FlowAwaitingLimitAmount ConversationFlow = "awaiting_limit_amount"
	FlowAwaitingPayment     ConversationFlow = "awaiting_payment"
)

// Conversation is the assistant's per-user dialogue state.
type Conversation struct {
	Flow         ConversationFlow `json:"flow"`
	PendingLimit float64          `json:"pending_limit,omitempty"`
}

// Reset returns the conversation to idle.
func (c *Conversation) Reset() {
	*c = Conversation{}
}
