package repository

import (
	"context"
	"errors"
	"fmt"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/vladimiradmaev/spendeats/internal/database"
	"github.com/vladimiradmaev/spendeats/internal/domain"
)

// PlanRepository stores diet plans, meal schedules, custom recipes and meal logs
type PlanRepository struct {
	db *gorm.DB
}

func NewPlanRepository(db *gorm.DB) *PlanRepository {
	return &PlanRepository{db: db}
}

func (r *PlanRepository) SaveDietPlan(ctx context.Context, userID string, plan *domain.StoredDietPlan) error {
	row := &database.DietPlan{
		UserID:     userID,
		Plan:       plan.Plan,
		Goal:       string(plan.Preferences.Goal),
		Preference: string(plan.Preferences.Preference),
		Allergies:  plan.Preferences.Allergies,
		CreatedAt:  plan.CreatedAt,
	}
	err := r.db.WithContext(ctx).
		Clauses(clause.OnConflict{
			Columns:   []clause.Column{{Name: "user_id"}},
			DoUpdates: clause.AssignmentColumns([]string{"plan", "goal", "preference", "allergies", "created_at", "updated_at"}),
		}).
		Create(row).Error
	if err != nil {
		return fmt.Errorf("failed to save diet plan: %w", err)
	}
	return nil
}

func (r *PlanRepository) GetDietPlan(ctx context.Context, userID string) (*domain.StoredDietPlan, error) {
	var row database.DietPlan
	err := r.db.WithContext(ctx).Where("user_id = ?", userID).First(&row).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get diet plan: %w", err)
	}
	return &domain.StoredDietPlan{
		Plan: row.Plan,
		Preferences: domain.Preferences{
			Goal:       domain.FitnessGoal(row.Goal),
			Preference: domain.DietaryPreference(row.Preference),
			Allergies:  row.Allergies,
		},
		CreatedAt: row.CreatedAt,
	}, nil
}

// SaveSchedule replaces the user's stored schedule.
func (r *PlanRepository) SaveSchedule(ctx context.Context, userID string, schedule *domain.MealSchedule) error {
	row := &database.MealSchedule{
		UserID:       userID,
		Date:         schedule.Date,
		Day:          schedule.Day,
		Meals:        schedule.Meals,
		Warnings:     schedule.Warnings,
		Availability: schedule.Availability,
	}
	err := r.db.WithContext(ctx).
		Clauses(clause.OnConflict{
			Columns:   []clause.Column{{Name: "user_id"}},
			UpdateAll: true,
		}).
		Create(row).Error
	if err != nil {
		return fmt.Errorf("failed to save meal schedule: %w", err)
	}
	return nil
}

func (r *PlanRepository) GetSchedule(ctx context.Context, userID string) (*domain.MealSchedule, error) {
	var row database.MealSchedule
	err := r.db.WithContext(ctx).Where("user_id = ?", userID).First(&row).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get meal schedule: %w", err)
	}
	return &domain.MealSchedule{
		Date:         row.Date,
		Day:          row.Day,
		Meals:        row.Meals,
		Warnings:     row.Warnings,
		Availability: row.Availability,
	}, nil
}

func (r *PlanRepository) AddCustomRecipe(ctx context.Context, userID string, recipe *domain.CustomRecipe) error {
	row := &database.CustomRecipe{
		UserID:    userID,
		Name:      recipe.Name,
		Recipe:    *recipe,
		CreatedAt: recipe.CreatedAt,
	}
	if err := r.db.WithContext(ctx).Create(row).Error; err != nil {
		return fmt.Errorf("failed to save custom recipe: %w", err)
	}
	return nil
}

func (r *PlanRepository) ListCustomRecipes(ctx context.Context, userID string) ([]domain.CustomRecipe, error) {
	var rows []database.CustomRecipe
	if err := r.db.WithContext(ctx).Where("user_id = ?", userID).Order("id").Find(&rows).Error; err != nil {
		return nil, fmt.Errorf("failed to list custom recipes: %w", err)
	}
	recipes := make([]domain.CustomRecipe, 0, len(rows))
	for _, row := range rows {
		recipes = append(recipes, row.Recipe)
	}
	return recipes, nil
}

func (r *PlanRepository) AddMealLog(ctx context.Context, userID string, entry *domain.MealLog) error {
	row := &database.MealLog{
		UserID:   userID,
		Item:     entry.Item,
		Quantity: entry.Quantity,
		Calories: entry.Nutrition.Calories,
		Protein:  entry.Nutrition.Protein,
		Carbs:    entry.Nutrition.Carbs,
		Fats:     entry.Nutrition.Fats,
		Vitamins: entry.Nutrition.Vitamins,
		LoggedAt: entry.LoggedAt,
	}
	if err := r.db.WithContext(ctx).Create(row).Error; err != nil {
		return fmt.Errorf("failed to save meal log: %w", err)
	}
	return nil
}

func (r *PlanRepository) ListMealLogs(ctx context.Context, userID string) ([]domain.MealLog, error) {
	var rows []database.MealLog
	if err := r.db.WithContext(ctx).Where("user_id = ?", userID).Order("logged_at").Find(&rows).Error; err != nil {
		return nil, fmt.Errorf("failed to list meal logs: %w", err)
	}
	logs := make([]domain.MealLog, 0, len(rows))
	for _, row := range rows {
		logs = append(logs, domain.MealLog{
			Item:     row.Item,
			Quantity: row.Quantity,
			Nutrition: domain.Nutrition{
				Calories: row.Calories,
				Protein:  row.Protein,
				Carbs:    row.Carbs,
				Fats:     row.Fats,
				Vitamins: row.Vitamins,
			},
			LoggedAt: row.LoggedAt,
		})
	}
	return logs, nil
}
