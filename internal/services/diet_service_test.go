package services

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/vladimiradmaev/spendeats/internal/catalog"
	"github.com/vladimiradmaev/spendeats/internal/domain"
	apperrors "github.com/vladimiradmaev/spendeats/internal/errors"
)

func newDietService(f *fixture, picks ...int) *DietService {
	return NewDietService(f.catalog, f.stores.Plans, f.stores.Orders, &scriptedRandom{picks: picks}, f.clock)
}

func TestCreateDietPlan(t *testing.T) {
	tests := []struct {
		name  string
		prefs domain.Preferences
		want  domain.DietPlan
	}{
		{
			name:  "general health",
			prefs: domain.Preferences{Goal: domain.GoalGeneralHealth, Preference: domain.PreferenceNone},
			want:  domain.DietPlan{domain.Breakfast: "Pepperoni", domain.Lunch: "Pizza", domain.Dinner: "Burger"},
		},
		{
			name:  "weight loss",
			prefs: domain.Preferences{Goal: domain.GoalWeightLoss, Preference: domain.PreferenceNone},
			want:  domain.DietPlan{domain.Breakfast: "Pepperoni", domain.Lunch: "Salmon Grilled", domain.Dinner: "Chicken Biryani"},
		},
		{
			name:  "muscle gain",
			prefs: domain.Preferences{Goal: domain.GoalMuscleGain, Preference: domain.PreferenceNone},
			want:  domain.DietPlan{domain.Breakfast: "Chicken Biryani", domain.Lunch: "Mutton Biryani", domain.Dinner: "Pizza"},
		},
		{
			// The fallback takes the head of the suitable list and may repeat an item.
			name:  "vegan general health",
			prefs: domain.Preferences{Goal: domain.GoalGeneralHealth, Preference: domain.PreferenceVegan},
			want:  domain.DietPlan{domain.Breakfast: "Margherita", domain.Lunch: "Margherita", domain.Dinner: "Lentil Curry"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			plan, err := CreateDietPlan(catalog.Default(), tt.prefs)
			require.NoError(t, err)
			assert.Equal(t, tt.want, plan)
		})
	}
}

func TestCreateDietPlanExcludesAllergens(t *testing.T) {
	c := catalog.Default()
	plan, err := CreateDietPlan(c, domain.Preferences{Goal: domain.GoalGeneralHealth, Allergies: "Tomato, "})
	require.NoError(t, err)

	for _, meal := range domain.Meals {
		item, ok := c.Item(plan[meal])
		require.True(t, ok, meal)
		assert.NotContains(t, item.Ingredients, "tomato")
	}
}

func TestCreateDietPlanBlankAllergiesIgnored(t *testing.T) {
	withBlank, err := CreateDietPlan(catalog.Default(), domain.Preferences{Goal: domain.GoalGeneralHealth, Allergies: " , ,"})
	require.NoError(t, err)
	none, err := CreateDietPlan(catalog.Default(), domain.Preferences{Goal: domain.GoalGeneralHealth})
	require.NoError(t, err)
	assert.Equal(t, none, withBlank)
}

func TestCreateDietPlanNothingSuitable(t *testing.T) {
	_, err := CreateDietPlan(catalog.Default(), domain.Preferences{
		Goal:       domain.GoalGeneralHealth,
		Preference: domain.PreferenceVegan,
		Allergies:  "tomato,spinach,potato",
	})
	assert.True(t, errors.Is(err, apperrors.ErrEmptyCandidateSet))
}

func TestSaveDietPlan(t *testing.T) {
	ctx := context.Background()
	f := newFixture(clockAt(2025, time.April, 15, 10, 0))
	svc := newDietService(f)

	_, err := svc.SaveDietPlan(ctx, "u1", domain.Preferences{Goal: "Bulking"})
	assert.True(t, errors.Is(err, apperrors.ErrInvalidInput))

	prefs := domain.Preferences{Goal: domain.GoalWeightLoss, Preference: domain.PreferenceNone}
	_, err = svc.SaveDietPlan(ctx, "u1", prefs)
	require.NoError(t, err)

	stored, err := svc.GetDietPlan(ctx, "u1")
	require.NoError(t, err)
	require.NotNil(t, stored)
	assert.Equal(t, prefs, stored.Preferences)
	assert.Equal(t, "Salmon Grilled", stored.Plan[domain.Lunch])
}

func TestGenerateCustomRecipeRequiresDietPlan(t *testing.T) {
	f := newFixture(clockAt(2025, time.April, 15, 10, 0))
	_, err := newDietService(f).GenerateCustomRecipe(context.Background(), "u1",
		domain.Preferences{Goal: domain.GoalGeneralHealth}, 0)
	assert.True(t, errors.Is(err, apperrors.ErrNoDietPlan))
}

func TestGenerateCustomRecipe(t *testing.T) {
	ctx := context.Background()
	f := newFixture(clockAt(2025, time.April, 15, 10, 0))
	svc := newDietService(f)
	prefs := domain.Preferences{Goal: domain.GoalGeneralHealth, Preference: domain.PreferenceNone}
	_, err := svc.SaveDietPlan(ctx, "u1", prefs)
	require.NoError(t, err)

	recipe, err := svc.GenerateCustomRecipe(ctx, "u1", prefs, 0)
	require.NoError(t, err)

	assert.Equal(t, "Balanced Chicken Stir-Fry", recipe.Name)
	assert.Equal(t, []string{"rice", "chicken", "tomato", "basil", "cheese"}, recipe.Ingredients)
	assert.Equal(t, 739, recipe.Calories)
	assert.Equal(t, 61, recipe.Protein)
	assert.Equal(t, 38, recipe.Carbs)
	assert.Equal(t, 38, recipe.Fats)
	assert.Equal(t, 90, recipe.Price)
	assert.Equal(t, 2.5, recipe.CarbonFootprint)
	assert.Equal(t, 25, recipe.PrepTime)
	assert.Equal(t, map[string]float64{"Vitamin C": 10}, recipe.Vitamins)
	assert.Equal(t, []string{"dairy", "gluten-free", "high-protein", "vegan", "vegetarian"}, recipe.Tags)
	require.Len(t, recipe.Instructions, 6)
	assert.Contains(t, recipe.Instructions[5], "serve hot")
}

func TestGenerateCustomRecipeUsesOrderedIngredients(t *testing.T) {
	ctx := context.Background()
	f := newFixture(clockAt(2025, time.April, 15, 10, 0))
	svc := newDietService(f)
	prefs := domain.Preferences{Goal: domain.GoalGeneralHealth}
	_, err := svc.SaveDietPlan(ctx, "u1", prefs)
	require.NoError(t, err)
	f.order("u1", "Margherita", 90, "2025-04-01")

	recipe, err := svc.GenerateCustomRecipe(ctx, "u1", prefs, 0)
	require.NoError(t, err)
	assert.Equal(t, []string{"wheat", "tomato", "basil"}, recipe.Ingredients)
	assert.Equal(t, "Balanced Tomato Bowl", recipe.Name)
}

func TestGenerateCustomRecipeWeightLossCap(t *testing.T) {
	ctx := context.Background()
	f := newFixture(clockAt(2025, time.April, 15, 10, 0))
	svc := newDietService(f)
	prefs := domain.Preferences{Goal: domain.GoalWeightLoss}
	_, err := svc.SaveDietPlan(ctx, "u1", prefs)
	require.NoError(t, err)

	recipe, err := svc.GenerateCustomRecipe(ctx, "u1", prefs, 300)
	require.NoError(t, err)
	assert.Equal(t, 300, recipe.Calories)
	assert.Less(t, recipe.Price, 90)
	assert.True(t, len(recipe.Name) > 0 && recipe.Name[:5] == "Light")
}

func TestGenerateCustomRecipeMuscleGainAddsProtein(t *testing.T) {
	ctx := context.Background()
	f := newFixture(clockAt(2025, time.April, 15, 10, 0))
	// rice, lentils, tomato, olive_oil, then chicken as the extra protein.
	svc := newDietService(f, 0, 4, 0, 1, 0)
	prefs := domain.Preferences{Goal: domain.GoalMuscleGain, Allergies: "cheese"}
	_, err := svc.SaveDietPlan(ctx, "u1", prefs)
	require.NoError(t, err)

	recipe, err := svc.GenerateCustomRecipe(ctx, "u1", prefs, 0)
	require.NoError(t, err)
	assert.Equal(t, []string{"rice", "lentils", "tomato", "olive_oil", "chicken"}, recipe.Ingredients)
	assert.Equal(t, "Power Lentils Stir-Fry", recipe.Name)
	n := len(recipe.Instructions)
	assert.Contains(t, recipe.Instructions[n-2], "extra chicken")
	assert.Contains(t, recipe.Instructions[n-1], "serve hot")
}

func TestGenerateCustomRecipeNoBase(t *testing.T) {
	ctx := context.Background()
	f := newFixture(clockAt(2025, time.April, 15, 10, 0))
	svc := newDietService(f)
	prefs := domain.Preferences{Goal: domain.GoalGeneralHealth, Preference: domain.PreferenceVegan}
	_, err := svc.SaveDietPlan(ctx, "u1", prefs)
	require.NoError(t, err)

	_, err = svc.GenerateCustomRecipe(ctx, "u1", prefs, 0)
	assert.True(t, errors.Is(err, apperrors.ErrEmptyCandidateSet))
}

func TestSaveCustomRecipe(t *testing.T) {
	ctx := context.Background()
	f := newFixture(clockAt(2025, time.April, 15, 10, 0))
	svc := newDietService(f)
	prefs := domain.Preferences{Goal: domain.GoalGeneralHealth}
	_, err := svc.SaveDietPlan(ctx, "u1", prefs)
	require.NoError(t, err)

	_, err = svc.SaveCustomRecipe(ctx, "u1", prefs, 0)
	require.NoError(t, err)
	recipes, err := svc.ListCustomRecipes(ctx, "u1")
	require.NoError(t, err)
	require.Len(t, recipes, 1)
	assert.Equal(t, "Balanced Chicken Stir-Fry", recipes[0].Name)
}

func TestLogMealAndSummary(t *testing.T) {
	ctx := context.Background()
	f := newFixture(clockAt(2025, time.April, 15, 10, 0))
	svc := newDietService(f)

	_, err := svc.LogMeal(ctx, "u1", "Pizza", 0)
	assert.True(t, errors.Is(err, apperrors.ErrInvalidInput))
	_, err = svc.LogMeal(ctx, "u1", "Sushi", 1)
	assert.True(t, errors.Is(err, apperrors.ErrUnknownItem))

	entry, err := svc.LogMeal(ctx, "u1", "Pizza", 2)
	require.NoError(t, err)
	_, err = svc.LogMeal(ctx, "u1", "Burger", 1)
	require.NoError(t, err)

	pizza, _ := f.catalog.Item("Pizza")
	burger, _ := f.catalog.Item("Burger")
	assert.InDelta(t, 2*pizza.Calories, entry.Nutrition.Calories, 1e-9)

	total, count, err := svc.NutritionSummary(ctx, "u1")
	require.NoError(t, err)
	assert.Equal(t, 2, count)
	assert.InDelta(t, 2*pizza.Calories+burger.Calories, total.Calories, 1e-9)
	assert.InDelta(t, 2*pizza.Protein+burger.Protein, total.Protein, 1e-9)
}
