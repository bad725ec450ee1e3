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

// fieldColumns maps the state fields to the columns they occupy.
var fieldColumns = map[domain.Field][]string{
	domain.FieldLoyaltyPoints:  {"loyalty_points"},
	domain.FieldBadges:         {"badges"},
	domain.FieldSpendingLimit:  {"monthly_limit", "limit_set_month"},
	domain.FieldEditsThisMonth: {"edits_this_month"},
	domain.FieldEditsLifetime:  {"edits_lifetime"},
	domain.FieldLimitExceeded:  {"limit_exceeded"},
}

// UserRepository handles user economy state
type UserRepository struct {
	db *gorm.DB
}

// NewUserRepository creates a new user repository
func NewUserRepository(db *gorm.DB) *UserRepository {
	return &UserRepository{db: db}
}

func (r *UserRepository) Get(ctx context.Context, userID string) (*domain.UserEconomyState, error) {
	var row database.UserEconomy
	err := r.db.WithContext(ctx).Where("user_id = ?", userID).First(&row).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return domain.NewUserEconomyState(userID), nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get user %s: %w", userID, err)
	}
	return userFromRow(&row), nil
}

// Put upserts the user; on conflict only the columns of fields are overwritten.
func (r *UserRepository) Put(ctx context.Context, state *domain.UserEconomyState, fields ...domain.Field) error {
	columns := []string{"updated_at"}
	for _, f := range fields {
		cols, ok := fieldColumns[f]
		if !ok {
			return fmt.Errorf("unknown user field %q", f)
		}
		columns = append(columns, cols...)
	}

	row := userToRow(state)
	err := r.db.WithContext(ctx).
		Clauses(clause.OnConflict{
			Columns:   []clause.Column{{Name: "user_id"}},
			DoUpdates: clause.AssignmentColumns(columns),
		}).
		Create(row).Error
	if err != nil {
		return fmt.Errorf("failed to save user %s: %w", state.UserID, err)
	}
	return nil
}

func (r *UserRepository) ListUserIDs(ctx context.Context) ([]string, error) {
	var ids []string
	if err := r.db.WithContext(ctx).Model(&database.UserEconomy{}).Order("user_id").Pluck("user_id", &ids).Error; err != nil {
		return nil, fmt.Errorf("failed to list users: %w", err)
	}
	return ids, nil
}

func userToRow(s *domain.UserEconomyState) *database.UserEconomy {
	badges := s.Badges
	if badges == nil {
		badges = []domain.Badge{}
	}
	return &database.UserEconomy{
		UserID:         s.UserID,
		LoyaltyPoints:  s.LoyaltyPoints,
		Badges:         badges,
		MonthlyLimit:   s.SpendingLimit.MonthlyAmount,
		LimitSetMonth:  s.SpendingLimit.SetMonth,
		EditsLifetime:  s.EditCountLifetime,
		EditsThisMonth: s.EditCountThisMonth,
		LimitExceeded:  s.LimitExceeded,
	}
}

func userFromRow(row *database.UserEconomy) *domain.UserEconomyState {
	badges := row.Badges
	if badges == nil {
		badges = []domain.Badge{}
	}
	return &domain.UserEconomyState{
		UserID:        row.UserID,
		LoyaltyPoints: row.LoyaltyPoints,
		Badges:        badges,
		SpendingLimit: domain.SpendingLimit{
			MonthlyAmount: row.MonthlyLimit,
			SetMonth:      row.LimitSetMonth,
		},
		EditCountLifetime:  row.EditsLifetime,
		EditCountThisMonth: row.EditsThisMonth,
		LimitExceeded:      row.LimitExceeded,
		UpdatedAt:          row.UpdatedAt,
	}
}
