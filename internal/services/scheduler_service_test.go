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
	"github.com/vladimiradmaev/spendeats/internal/repository"
)

func soupCatalog() *catalog.Static {
	return catalog.New([]domain.MenuItem{
		{Name: "Soup", Price: 50, Calories: 300, PrepTime: 45, Ingredients: []string{"tomato"}},
	}, nil)
}

func kinds(warnings []domain.ScheduleWarning) []domain.WarningKind {
	out := make([]domain.WarningKind, 0, len(warnings))
	for _, w := range warnings {
		out = append(out, w.Kind)
	}
	return out
}

func TestBuildMealScheduleFitsPreparationTime(t *testing.T) {
	in := ScheduleInput{
		Availability: domain.Availability{{Start: 8, End: 11}},
		Plan:         domain.DietPlan{domain.Breakfast: "Soup"},
		Now:          time.Date(2025, time.April, 15, 8, 0, 0, 0, time.UTC),
	}

	schedule, err := BuildMealSchedule(soupCatalog(), in)
	require.NoError(t, err)
	assert.Equal(t, "Soup", schedule.Meals[domain.Breakfast])
	assert.Equal(t, "", schedule.Meals[domain.Lunch])
	assert.Equal(t, "2025-04-15", schedule.Date)
	assert.Equal(t, "Tuesday", schedule.Day)
	assert.Equal(t, []domain.WarningKind{domain.WarningNoFeasibleSlot, domain.WarningNoFeasibleSlot}, kinds(schedule.Warnings))
}

func TestBuildMealScheduleSoftViolationLateInSlot(t *testing.T) {
	in := ScheduleInput{
		Availability: domain.Availability{{Start: 8, End: 11}},
		Plan:         domain.DietPlan{domain.Breakfast: "Soup"},
		Now:          time.Date(2025, time.April, 15, 9, 30, 0, 0, time.UTC),
	}

	schedule, err := BuildMealSchedule(soupCatalog(), in)
	require.NoError(t, err)
	assert.Equal(t, "Soup", schedule.Meals[domain.Breakfast])
	require.GreaterOrEqual(t, len(schedule.Warnings), 2)
	assert.Equal(t, domain.WarningPreferredItemDoesNotFit, schedule.Warnings[0].Kind)
	assert.Equal(t, domain.WarningSoftViolation, schedule.Warnings[1].Kind)
	assert.Equal(t, domain.Breakfast, schedule.Warnings[1].Meal)
}

func TestBuildMealScheduleSkipsEndedSlots(t *testing.T) {
	in := ScheduleInput{
		Availability: domain.Availability{{Start: 7, End: 9}},
		Now:          time.Date(2025, time.April, 15, 9, 0, 0, 0, time.UTC),
	}

	schedule, err := BuildMealSchedule(soupCatalog(), in)
	require.NoError(t, err)
	assert.False(t, schedule.Scheduled())
	assert.Equal(t, domain.WarningNoFeasibleSlot, schedule.Warnings[0].Kind)
}

func TestBuildMealScheduleNeverRepeatsItems(t *testing.T) {
	in := ScheduleInput{
		Availability: domain.Availability{{Start: 6, End: 22}},
		Now:          time.Date(2025, time.April, 15, 6, 0, 0, 0, time.UTC),
	}

	schedule, err := BuildMealSchedule(soupCatalog(), in)
	require.NoError(t, err)
	assert.Equal(t, "Soup", schedule.Meals[domain.Breakfast])
	assert.Equal(t, []domain.WarningKind{domain.WarningNoCandidateLeft, domain.WarningNoCandidateLeft}, kinds(schedule.Warnings))
}

func TestBuildMealScheduleFollowsPlan(t *testing.T) {
	in := ScheduleInput{
		Availability: domain.Availability{{Start: 7, End: 22}},
		Plan:         domain.DietPlan{domain.Breakfast: "Pepperoni", domain.Lunch: "Pizza", domain.Dinner: "Burger"},
		Preferences:  domain.Preferences{Goal: domain.GoalGeneralHealth, Preference: domain.PreferenceNone},
		Now:          time.Date(2025, time.April, 15, 6, 0, 0, 0, time.UTC),
	}

	schedule, err := BuildMealSchedule(catalog.Default(), in)
	require.NoError(t, err)
	assert.Equal(t, "Pepperoni", schedule.Meals[domain.Breakfast])
	assert.Equal(t, "Pizza", schedule.Meals[domain.Lunch])
	assert.Equal(t, "Burger", schedule.Meals[domain.Dinner])
	assert.Empty(t, schedule.Warnings)
}

func TestBuildMealScheduleExcludesNutAllergens(t *testing.T) {
	in := ScheduleInput{
		Availability: domain.Availability{{Start: 7, End: 22}},
		Plan:         domain.DietPlan{domain.Breakfast: "Pepperoni", domain.Lunch: "Pizza", domain.Dinner: "Burger"},
		Preferences:  domain.Preferences{Goal: domain.GoalGeneralHealth, Allergies: "Nuts"},
		Now:          time.Date(2025, time.April, 15, 6, 0, 0, 0, time.UTC),
	}

	schedule, err := BuildMealSchedule(catalog.Default(), in)
	require.NoError(t, err)
	assert.Equal(t, "Pepperoni", schedule.Meals[domain.Breakfast])
	assert.Equal(t, "Chicken Biryani", schedule.Meals[domain.Lunch])
	assert.Equal(t, "Mutton Biryani", schedule.Meals[domain.Dinner])
}

func TestBuildMealScheduleEmptyCandidates(t *testing.T) {
	in := ScheduleInput{
		Availability: domain.Availability{{Start: 7, End: 22}},
		Preferences:  domain.Preferences{Preference: domain.PreferenceVegan},
		Now:          time.Date(2025, time.April, 15, 6, 0, 0, 0, time.UTC),
	}

	_, err := BuildMealSchedule(soupCatalog(), in)
	assert.True(t, errors.Is(err, apperrors.ErrEmptyCandidateSet))
}

func TestSchedulerServiceRequiresDietPlan(t *testing.T) {
	stores := repository.NewMemoryStores()
	svc := NewSchedulerService(catalog.Default(), stores.Plans, clockAt(2025, time.April, 15, 6, 0))

	_, err := svc.Generate(context.Background(), "u1", domain.Availability{{Start: 7, End: 22}})
	assert.True(t, errors.Is(err, apperrors.ErrNoDietPlan))
}

func TestSchedulerServiceSave(t *testing.T) {
	ctx := context.Background()
	stores := repository.NewMemoryStores()
	svc := NewSchedulerService(catalog.Default(), stores.Plans, clockAt(2025, time.April, 15, 6, 0))
	require.NoError(t, stores.Plans.SaveDietPlan(ctx, "u1", &domain.StoredDietPlan{
		Plan:        domain.DietPlan{domain.Breakfast: "Pepperoni", domain.Lunch: "Pizza", domain.Dinner: "Burger"},
		Preferences: domain.Preferences{Goal: domain.GoalGeneralHealth},
	}))

	// Nothing overlaps a meal window: returned, not stored.
	schedule, err := svc.Save(ctx, "u1", domain.Availability{{Start: 15, End: 16}})
	require.NoError(t, err)
	assert.False(t, schedule.Scheduled())
	current, err := svc.Current(ctx, "u1")
	require.NoError(t, err)
	assert.Nil(t, current)

	schedule, err = svc.Save(ctx, "u1", domain.Availability{{Start: 7, End: 22}})
	require.NoError(t, err)
	current, err = svc.Current(ctx, "u1")
	require.NoError(t, err)
	require.NotNil(t, current)
	assert.Equal(t, schedule.Meals, current.Meals)
	assert.Equal(t, domain.Availability{{Start: 7, End: 22}}, current.Availability)
}

func TestSchedulerServiceCurrentIsTodayOnly(t *testing.T) {
	ctx := context.Background()
	stores := repository.NewMemoryStores()
	clock := clockAt(2025, time.April, 15, 6, 0)
	svc := NewSchedulerService(catalog.Default(), stores.Plans, clock)
	require.NoError(t, stores.Plans.SaveDietPlan(ctx, "u1", &domain.StoredDietPlan{
		Plan:        domain.DietPlan{domain.Breakfast: "Pepperoni", domain.Lunch: "Pizza", domain.Dinner: "Burger"},
		Preferences: domain.Preferences{Goal: domain.GoalGeneralHealth},
	}))

	_, err := svc.Save(ctx, "u1", domain.Availability{{Start: 7, End: 22}})
	require.NoError(t, err)
	current, err := svc.Current(ctx, "u1")
	require.NoError(t, err)
	require.NotNil(t, current)

	// Next evening nothing fits, so yesterday's schedule stays in the store.
	clock.now = time.Date(2025, time.April, 16, 23, 0, 0, 0, time.UTC)
	schedule, err := svc.Save(ctx, "u1", domain.Availability{{Start: 7, End: 22}})
	require.NoError(t, err)
	assert.False(t, schedule.Scheduled())

	current, err = svc.Current(ctx, "u1")
	require.NoError(t, err)
	assert.Nil(t, current)
}
