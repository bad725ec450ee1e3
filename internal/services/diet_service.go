package services

import (
	"context"
	"fmt"
	"math"
	"sort"
	"strings"

	"github.com/vladimiradmaev/spendeats/internal/domain"
	apperrors "github.com/vladimiradmaev/spendeats/internal/errors"
	"github.com/vladimiradmaev/spendeats/internal/logger"
)

// recipeCarbonPerIngredient is the flat footprint added per ingredient, kg CO2e.
const recipeCarbonPerIngredient = 0.5

var recipePrefixes = map[domain.FitnessGoal]string{
	domain.GoalWeightLoss:    "Light",
	domain.GoalMuscleGain:    "Power",
	domain.GoalGeneralHealth: "Balanced",
}

// ValidatePreferences checks the goal and dietary preference values.
func ValidatePreferences(prefs domain.Preferences) error {
	switch prefs.Goal {
	case domain.GoalWeightLoss, domain.GoalMuscleGain, domain.GoalGeneralHealth:
	default:
		return apperrors.NewValidationError(fmt.Sprintf("unknown fitness goal %q", prefs.Goal))
	}
	switch prefs.Preference {
	case domain.PreferenceNone, domain.PreferenceVegetarian, domain.PreferenceVegan, "":
	default:
		return apperrors.NewValidationError(fmt.Sprintf("unknown dietary preference %q", prefs.Preference))
	}
	return nil
}

// allergyTokens splits a comma separated allergy list; blank entries are dropped.
func allergyTokens(allergies string) []string {
	var tokens []string
	for _, a := range strings.Split(allergies, ",") {
		if a = strings.ToLower(strings.TrimSpace(a)); a != "" {
			tokens = append(tokens, a)
		}
	}
	return tokens
}

func containsAllergen(name string, tokens []string) bool {
	name = strings.ToLower(name)
	for _, t := range tokens {
		if strings.Contains(name, t) {
			return true
		}
	}
	return false
}

// CreateDietPlan picks one item per meal from the catalog for the given preferences.
// When the goal bands leave a meal empty it takes the head of the suitable list,
// which may repeat an item already assigned to another meal.
func CreateDietPlan(catalog domain.Catalog, prefs domain.Preferences) (domain.DietPlan, error) {
	tokens := allergyTokens(prefs.Allergies)

	var suitable []domain.MenuItem
	for _, item := range catalog.Items() {
		if !matchesPreference(item, prefs.Preference) {
			continue
		}
		allergic := false
		for _, ing := range item.Ingredients {
			if containsAllergen(ing, tokens) {
				allergic = true
				break
			}
		}
		if !allergic {
			suitable = append(suitable, item)
		}
	}
	if len(suitable) == 0 {
		return nil, apperrors.NewEmptyCandidateSetError("menu item")
	}

	var breakfast, lunch, dinner func(domain.MenuItem) bool
	switch prefs.Goal {
	case domain.GoalWeightLoss:
		breakfast = func(m domain.MenuItem) bool { return m.Calories <= 400 && m.HasTag("low-carb") }
		lunch = func(m domain.MenuItem) bool { return m.Calories >= 400 && m.Calories <= 600 && m.HasTag("low-carb") }
		dinner = func(m domain.MenuItem) bool { return m.Calories <= 500 && m.HasTag("low-carb") }
	case domain.GoalMuscleGain:
		breakfast = func(m domain.MenuItem) bool { return m.Protein >= 20 && m.Calories >= 500 }
		lunch = func(m domain.MenuItem) bool { return m.Protein >= 25 && m.Calories >= 600 }
		dinner = func(m domain.MenuItem) bool { return m.Protein >= 20 && m.Calories >= 500 }
	default:
		breakfast = func(m domain.MenuItem) bool { return m.Calories >= 300 && m.Calories <= 500 }
		lunch = func(m domain.MenuItem) bool { return m.Calories >= 500 && m.Calories <= 700 }
		dinner = func(m domain.MenuItem) bool { return m.Calories >= 400 && m.Calories <= 600 }
	}

	plan := domain.DietPlan{domain.Breakfast: "", domain.Lunch: "", domain.Dinner: ""}
	for _, item := range suitable {
		switch {
		case plan[domain.Breakfast] == "" && breakfast(item):
			plan[domain.Breakfast] = item.Name
		case plan[domain.Lunch] == "" && lunch(item):
			plan[domain.Lunch] = item.Name
		case plan[domain.Dinner] == "" && dinner(item):
			plan[domain.Dinner] = item.Name
		}
		if plan.Complete() {
			break
		}
	}

	for _, meal := range domain.Meals {
		if plan[meal] == "" && len(suitable) > 0 {
			plan[meal] = suitable[0].Name
			suitable = suitable[1:]
		}
	}
	return plan, nil
}

type DietService struct {
	catalog domain.Catalog
	plans   domain.PlanStore
	orders  domain.OrderStore
	random  domain.RandomSource
	clock   domain.Clock
}

func NewDietService(catalog domain.Catalog, plans domain.PlanStore, orders domain.OrderStore, random domain.RandomSource, clock domain.Clock) *DietService {
	return &DietService{
		catalog: catalog,
		plans:   plans,
		orders:  orders,
		random:  random,
		clock:   clock,
	}
}

// SaveDietPlan creates a plan for prefs and stores it with the preferences.
func (s *DietService) SaveDietPlan(ctx context.Context, userID string, prefs domain.Preferences) (*domain.StoredDietPlan, error) {
	if err := ValidatePreferences(prefs); err != nil {
		return nil, err
	}
	plan, err := CreateDietPlan(s.catalog, prefs)
	if err != nil {
		return nil, err
	}

	stored := &domain.StoredDietPlan{Plan: plan, Preferences: prefs, CreatedAt: s.clock.Now()}
	if err := s.plans.SaveDietPlan(ctx, userID, stored); err != nil {
		return nil, apperrors.NewStoreError(err, "save diet plan")
	}

	logger.WithContext(ctx).Info("Diet plan saved",
		"user_id", userID,
		"goal", prefs.Goal,
		"preference", prefs.Preference)
	return stored, nil
}

// GetDietPlan returns the stored plan, or nil.
func (s *DietService) GetDietPlan(ctx context.Context, userID string) (*domain.StoredDietPlan, error) {
	stored, err := s.plans.GetDietPlan(ctx, userID)
	if err != nil {
		return nil, apperrors.NewStoreError(err, "load diet plan")
	}
	return stored, nil
}

type recipeBuilder struct {
	ingredients []string
	steps       []string
	cost        float64
	carbon      float64
	nutrition   domain.Nutrition
}

func (b *recipeBuilder) add(ing domain.Ingredient, step string) {
	b.ingredients = append(b.ingredients, ing.Name)
	b.steps = append(b.steps, step)
	b.cost += ing.Cost
	b.carbon += recipeCarbonPerIngredient
	b.nutrition.Calories += ing.Calories
	b.nutrition.Protein += ing.Protein
	b.nutrition.Carbs += ing.Carbs
	b.nutrition.Fats += ing.Fats
}

// addExtra inserts the step before the closing one.
func (b *recipeBuilder) addExtra(ing domain.Ingredient, step string) {
	last := b.steps[len(b.steps)-1]
	b.add(ing, step)
	b.steps[len(b.steps)-2], b.steps[len(b.steps)-1] = step, last
}

func (b *recipeBuilder) has(name string) bool {
	for _, n := range b.ingredients {
		if n == name {
			return true
		}
	}
	return false
}

// GenerateCustomRecipe composes a dish from base ingredients. The pool is the
// ingredients of items the user has ordered before, or every ingredient when
// there is no history. maxCalories only applies to Weight Loss; 0 means no cap.
func (s *DietService) GenerateCustomRecipe(ctx context.Context, userID string, prefs domain.Preferences, maxCalories float64) (*domain.CustomRecipe, error) {
	if err := ValidatePreferences(prefs); err != nil {
		return nil, err
	}
	stored, err := s.GetDietPlan(ctx, userID)
	if err != nil {
		return nil, err
	}
	if stored == nil {
		return nil, apperrors.ErrNoDietPlan
	}

	records, err := s.orders.QueryByUser(ctx, userID)
	if err != nil {
		return nil, apperrors.NewStoreError(err, "query orders")
	}
	available := make(map[string]bool)
	for _, r := range records {
		if item, ok := s.catalog.Item(r.Item); ok {
			for _, ing := range item.Ingredients {
				available[ing] = true
			}
		}
	}
	useAll := len(available) == 0

	tokens := allergyTokens(prefs.Allergies)
	byCategory := make(map[domain.IngredientCategory][]domain.Ingredient)
	suitable := make(map[string]bool)
	for _, ing := range s.catalog.Ingredients() {
		switch prefs.Preference {
		case domain.PreferenceVegetarian:
			if !ing.HasTag("vegetarian") && !ing.HasTag("vegan") {
				continue
			}
		case domain.PreferenceVegan:
			if !ing.HasTag("vegan") {
				continue
			}
		}
		if containsAllergen(ing.Name, tokens) || (!useAll && !available[ing.Name]) {
			continue
		}
		suitable[ing.Name] = true
		byCategory[ing.Category] = append(byCategory[ing.Category], ing)
	}
	if len(suitable) == 0 {
		return nil, apperrors.NewEmptyCandidateSetError("ingredient")
	}
	if len(byCategory[domain.CategoryBase]) == 0 {
		return nil, apperrors.NewEmptyCandidateSetError("base ingredient")
	}

	pick := func(c domain.IngredientCategory) domain.Ingredient {
		opts := byCategory[c]
		return opts[s.random.Intn(len(opts))]
	}

	b := &recipeBuilder{}
	base := pick(domain.CategoryBase)
	b.add(base, fmt.Sprintf("Prepare the %s according to package instructions (e.g., boil the %s until tender).", base.Name, base.Name))
	if len(byCategory[domain.CategoryProtein]) > 0 {
		p := pick(domain.CategoryProtein)
		b.add(p, fmt.Sprintf("Cook the %s (e.g., grill or pan-fry the %s until fully cooked).", p.Name, p.Name))
	}
	if len(byCategory[domain.CategoryVegetable]) > 0 {
		v := pick(domain.CategoryVegetable)
		b.add(v, fmt.Sprintf("Chop the %s and sauté it in a pan until tender.", v.Name))
	}
	if len(byCategory[domain.CategorySeasoning]) > 0 {
		sn := pick(domain.CategorySeasoning)
		b.add(sn, fmt.Sprintf("Add the %s to the pan for flavor.", sn.Name))
	}
	if len(byCategory[domain.CategoryTopping]) > 0 && prefs.Preference != domain.PreferenceVegan {
		t := pick(domain.CategoryTopping)
		b.add(t, fmt.Sprintf("Sprinkle the %s on top before serving.", t.Name))
	}
	b.steps = append(b.steps, "Combine all ingredients in a bowl or plate, mix well, and serve hot.")

	vitamins := make(map[string]float64)
	for _, name := range b.ingredients {
		switch name {
		case "tomato", "spinach":
			vitamins["Vitamin C"] += 10
		case "salmon":
			vitamins["Vitamin D"] += 50
		}
	}

	switch prefs.Goal {
	case domain.GoalWeightLoss:
		if maxCalories > 0 && b.nutrition.Calories > maxCalories {
			f := maxCalories / b.nutrition.Calories
			b.nutrition.Calories *= f
			b.nutrition.Protein *= f
			b.nutrition.Carbs *= f
			b.nutrition.Fats *= f
			b.cost *= f
			b.carbon *= f
		}
	case domain.GoalMuscleGain:
		if b.nutrition.Protein < 25 && len(byCategory[domain.CategoryProtein]) > 0 {
			p := pick(domain.CategoryProtein)
			if !b.has(p.Name) {
				b.addExtra(p, fmt.Sprintf("Add extra %s to increase protein content.", p.Name))
			}
		}
	case domain.GoalGeneralHealth:
		total := b.nutrition.Protein + b.nutrition.Carbs + b.nutrition.Fats
		if total > 0 && b.nutrition.Carbs/total < 0.4 && suitable["rice"] && !b.has("rice") {
			if rice, ok := s.catalog.Ingredient("rice"); ok {
				b.addExtra(rice, "Add extra rice to balance the macros.")
			}
		}
	}

	tagSet := make(map[string]bool)
	hasProtein := false
	main := base.Name
	mainFound := false
	for _, name := range b.ingredients {
		ing, _ := s.catalog.Ingredient(name)
		for _, t := range ing.Tags {
			tagSet[t] = true
		}
		if ing.Category == domain.CategoryProtein {
			hasProtein = true
		}
		if !mainFound && (ing.Category == domain.CategoryProtein || ing.Category == domain.CategoryVegetable) {
			main, mainFound = name, true
		}
	}
	tags := make([]string, 0, len(tagSet))
	for t := range tagSet {
		tags = append(tags, t)
	}
	sort.Strings(tags)

	dishType := "Bowl"
	switch {
	case base.Name == "pasta":
		dishType = "Pasta"
	case hasProtein:
		dishType = "Stir-Fry"
	}

	recipe := &domain.CustomRecipe{
		Name:            fmt.Sprintf("%s %s %s", recipePrefixes[prefs.Goal], capitalize(main), dishType),
		Ingredients:     b.ingredients,
		Calories:        int(math.RoundToEven(b.nutrition.Calories)),
		Protein:         int(math.RoundToEven(b.nutrition.Protein)),
		Carbs:           int(math.RoundToEven(b.nutrition.Carbs)),
		Fats:            int(math.RoundToEven(b.nutrition.Fats)),
		Tags:            tags,
		PrepTime:        len(b.ingredients) * 5,
		Vitamins:        vitamins,
		Price:           int(math.RoundToEven(b.cost * 1.2)),
		CarbonFootprint: math.Round(b.carbon*10) / 10,
		Instructions:    b.steps,
		CreatedAt:       s.clock.Now(),
	}
	return recipe, nil
}

// SaveCustomRecipe generates a recipe and appends it to the user's collection.
func (s *DietService) SaveCustomRecipe(ctx context.Context, userID string, prefs domain.Preferences, maxCalories float64) (*domain.CustomRecipe, error) {
	recipe, err := s.GenerateCustomRecipe(ctx, userID, prefs, maxCalories)
	if err != nil {
		return nil, err
	}
	if err := s.plans.AddCustomRecipe(ctx, userID, recipe); err != nil {
		return nil, apperrors.NewStoreError(err, "save custom recipe")
	}
	logger.WithContext(ctx).Info("Custom recipe created", "user_id", userID, "recipe", recipe.Name)
	return recipe, nil
}

func (s *DietService) ListCustomRecipes(ctx context.Context, userID string) ([]domain.CustomRecipe, error) {
	recipes, err := s.plans.ListCustomRecipes(ctx, userID)
	if err != nil {
		return nil, apperrors.NewStoreError(err, "list custom recipes")
	}
	return recipes, nil
}

// LogMeal records quantity servings of a menu item in the nutrition tracker.
func (s *DietService) LogMeal(ctx context.Context, userID, item string, quantity int) (*domain.MealLog, error) {
	if quantity < 1 {
		return nil, apperrors.NewValidationError("quantity must be at least 1")
	}
	menuItem, ok := s.catalog.Item(item)
	if !ok {
		return nil, apperrors.NewUnknownItemError(item)
	}

	var n domain.Nutrition
	for i := 0; i < quantity; i++ {
		n.Add(menuItem.Nutrition())
	}
	entry := &domain.MealLog{
		Item:      menuItem.Name,
		Quantity:  quantity,
		Nutrition: n,
		LoggedAt:  s.clock.Now(),
	}
	if err := s.plans.AddMealLog(ctx, userID, entry); err != nil {
		return nil, apperrors.NewStoreError(err, "save meal log")
	}
	return entry, nil
}

// NutritionSummary totals every logged meal.
func (s *DietService) NutritionSummary(ctx context.Context, userID string) (*domain.Nutrition, int, error) {
	logs, err := s.plans.ListMealLogs(ctx, userID)
	if err != nil {
		return nil, 0, apperrors.NewStoreError(err, "list meal logs")
	}
	total := &domain.Nutrition{Vitamins: make(map[string]float64)}
	for _, l := range logs {
		total.Add(l.Nutrition)
	}
	return total, len(logs), nil
}

func capitalize(s string) string {
	if s == "" {
		return s
	}
	s = strings.ToLower(s)
	return strings.ToUpper(s[:1]) + s[1:]
}
