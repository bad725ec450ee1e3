package services

import (
	"context"
	"fmt"
	"math"
	"strings"
	"time"

	"github.com/vladimiradmaev/spendeats/internal/domain"
	apperrors "github.com/vladimiradmaev/spendeats/internal/errors"
	"github.com/vladimiradmaev/spendeats/internal/logger"
	"github.com/vladimiradmaev/spendeats/internal/utils"
)

// MealWindow is the hour range [Start, End) a meal is eaten in.
type MealWindow struct {
	Start int
	End   int
}

var mealWindows = map[domain.Meal]MealWindow{
	domain.Breakfast: {7, 10},
	domain.Lunch:     {12, 14},
	domain.Dinner:    {18, 21},
}

// WindowFor returns the fixed window of meal.
func WindowFor(meal domain.Meal) MealWindow {
	return mealWindows[meal]
}

// allergenItems is the scheduler's keyword table. It is not exhaustive.
var allergenItems = map[string][]string{
	"nuts": {"Pizza", "Burger"},
}

// ScheduleInput is everything BuildMealSchedule depends on.
type ScheduleInput struct {
	Availability domain.Availability
	Plan         domain.DietPlan
	Preferences  domain.Preferences
	Now          time.Time
}

// BuildMealSchedule allocates catalog items to today's meals within the given availability.
func BuildMealSchedule(catalog domain.Catalog, in ScheduleInput) (*domain.MealSchedule, error) {
	candidates := scheduleCandidates(catalog, in.Preferences)
	if len(candidates) == 0 {
		return nil, apperrors.NewEmptyCandidateSetError("menu item")
	}

	now := utils.FractionalHours(in.Now)
	schedule := &domain.MealSchedule{
		Date:         utils.DateKey(in.Now),
		Day:          in.Now.Weekday().String(),
		Meals:        make(map[domain.Meal]string, len(domain.Meals)),
		Availability: append(domain.Availability{}, in.Availability...),
	}
	warn := func(meal domain.Meal, kind domain.WarningKind, item, msg string) {
		schedule.Warnings = append(schedule.Warnings, domain.ScheduleWarning{Meal: meal, Kind: kind, Item: item, Message: msg})
	}

	for _, meal := range domain.Meals {
		schedule.Meals[meal] = ""
		window := mealWindows[meal]

		slot, ok := findSlot(in.Availability, window, now)
		if !ok {
			warn(meal, domain.WarningNoFeasibleSlot, "",
				fmt.Sprintf("no upcoming availability overlaps %d:00-%d:00", window.Start, window.End))
			continue
		}
		if len(candidates) == 0 {
			warn(meal, domain.WarningNoCandidateLeft, "", "every suitable item is already scheduled")
			continue
		}

		earliest := math.Max(float64(slot.Start), now)
		// Cooking must also finish inside the meal window, not just the slot.
		deadline := float64(slot.End)
		if w := float64(window.End); w < deadline {
			deadline = w
		}
		fits := func(item domain.MenuItem) bool {
			return earliest+float64(item.PrepTime)/60.0 <= deadline
		}

		chosen := -1
		if preferred := in.Plan[meal]; preferred != "" {
			if i := indexOfItem(candidates, preferred); i >= 0 {
				if fits(candidates[i]) {
					chosen = i
				} else {
					warn(meal, domain.WarningPreferredItemDoesNotFit, preferred,
						fmt.Sprintf("%s needs %d mins, more than the %d:00-%d:00 slot leaves", preferred, candidates[i].PrepTime, slot.Start, slot.End))
				}
			}
		}
		if chosen < 0 {
			for i, item := range candidates {
				if fits(item) {
					chosen = i
					break
				}
			}
		}
		if chosen < 0 {
			chosen = 0
			warn(meal, domain.WarningSoftViolation, candidates[0].Name,
				fmt.Sprintf("%s may not be ready within the %d:00-%d:00 slot", candidates[0].Name, slot.Start, slot.End))
		}

		schedule.Meals[meal] = candidates[chosen].Name
		candidates = append(candidates[:chosen], candidates[chosen+1:]...)
	}

	return schedule, nil
}

// findSlot returns the first slot overlapping window that has not already ended.
func findSlot(availability domain.Availability, window MealWindow, now float64) (domain.Slot, bool) {
	for _, sl := range availability {
		overlaps := (sl.Start <= window.Start && window.Start < sl.End) ||
			(sl.Start < window.End && window.End <= sl.End)
		if overlaps && float64(sl.End) > now {
			return sl, true
		}
	}
	return domain.Slot{}, false
}

func scheduleCandidates(catalog domain.Catalog, prefs domain.Preferences) []domain.MenuItem {
	excluded := make(map[string]bool)
	allergies := strings.ToLower(prefs.Allergies)
	for keyword, items := range allergenItems {
		if strings.Contains(allergies, keyword) {
			for _, name := range items {
				excluded[name] = true
			}
		}
	}

	var out []domain.MenuItem
	for _, item := range catalog.Items() {
		if !matchesPreference(item, prefs.Preference) || excluded[item.Name] {
			continue
		}
		out = append(out, item)
	}
	return out
}

func matchesPreference(item domain.MenuItem, pref domain.DietaryPreference) bool {
	switch pref {
	case domain.PreferenceVegetarian:
		return item.HasTag("vegetarian")
	case domain.PreferenceVegan:
		return item.HasTag("vegan")
	default:
		return true
	}
}

func indexOfItem(items []domain.MenuItem, name string) int {
	for i, it := range items {
		if it.Name == name {
			return i
		}
	}
	return -1
}

type SchedulerService struct {
	catalog domain.Catalog
	plans   domain.PlanStore
	clock   domain.Clock
}

func NewSchedulerService(catalog domain.Catalog, plans domain.PlanStore, clock domain.Clock) *SchedulerService {
	return &SchedulerService{
		catalog: catalog,
		plans:   plans,
		clock:   clock,
	}
}

// Generate builds today's schedule from the user's stored diet plan and its preferences.
func (s *SchedulerService) Generate(ctx context.Context, userID string, availability domain.Availability) (*domain.MealSchedule, error) {
	stored, err := s.plans.GetDietPlan(ctx, userID)
	if err != nil {
		return nil, apperrors.NewStoreError(err, "load diet plan")
	}
	if stored == nil {
		return nil, apperrors.ErrNoDietPlan
	}

	return BuildMealSchedule(s.catalog, ScheduleInput{
		Availability: availability,
		Plan:         stored.Plan,
		Preferences:  stored.Preferences,
		Now:          s.clock.Now(),
	})
}

// Save generates today's schedule and overwrites the stored one. A schedule with
// no meals at all is returned but not stored.
func (s *SchedulerService) Save(ctx context.Context, userID string, availability domain.Availability) (*domain.MealSchedule, error) {
	schedule, err := s.Generate(ctx, userID, availability)
	if err != nil {
		return nil, err
	}

	log := logger.WithContext(ctx)
	for _, w := range schedule.Warnings {
		log.Warn("Meal schedule warning", "user_id", userID, "meal", w.Meal, "kind", w.Kind, "item", w.Item)
	}
	if !schedule.Scheduled() {
		log.Warn("No meals could be scheduled", "user_id", userID, "availability", utils.FormatAvailability(availability))
		return schedule, nil
	}

	if err := s.plans.SaveSchedule(ctx, userID, schedule); err != nil {
		return nil, apperrors.NewStoreError(err, "save meal schedule")
	}
	log.Info("Meal schedule saved",
		"user_id", userID,
		"breakfast", schedule.Meals[domain.Breakfast],
		"lunch", schedule.Meals[domain.Lunch],
		"dinner", schedule.Meals[domain.Dinner])
	return schedule, nil
}

// Current returns today's stored schedule, or nil. Schedules never carry
// over to the next day.
func (s *SchedulerService) Current(ctx context.Context, userID string) (*domain.MealSchedule, error) {
	schedule, err := s.plans.GetSchedule(ctx, userID)
	if err != nil {
		return nil, apperrors.NewStoreError(err, "load meal schedule")
	}
	if schedule == nil || schedule.Date != utils.DateKey(s.clock.Now()) {
		return nil, nil
	}
	return schedule, nil
}
