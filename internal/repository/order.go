package repository

import (
	"context"
	"fmt"

	"gorm.io/gorm"

	"github.com/vladimiradmaev/spendeats/internal/database"
	"github.com/vladimiradmaev/spendeats/internal/domain"
)

// OrderRepository is the append-only order log
type OrderRepository struct {
	db *gorm.DB
}

func NewOrderRepository(db *gorm.DB) *OrderRepository {
	return &OrderRepository{db: db}
}

// Append writes all records in one statement.
func (r *OrderRepository) Append(ctx context.Context, records []domain.OrderRecord) error {
	if len(records) == 0 {
		return nil
	}
	rows := make([]database.Order, 0, len(records))
	for _, rec := range records {
		rows = append(rows, database.Order{
			ID:              rec.ID,
			UserID:          rec.UserID,
			Item:            rec.Item,
			Quantity:        rec.Quantity,
			Price:           rec.Price,
			Date:            rec.Date,
			CarbonFootprint: rec.CarbonFootprint,
			CreatedAt:       rec.CreatedAt,
		})
	}
	if err := r.db.WithContext(ctx).Create(&rows).Error; err != nil {
		return fmt.Errorf("failed to append orders: %w", err)
	}
	return nil
}

func (r *OrderRepository) QueryByUser(ctx context.Context, userID string) ([]domain.OrderRecord, error) {
	var rows []database.Order
	if err := r.db.WithContext(ctx).
		Where("user_id = ?", userID).
		Order("created_at").
		Find(&rows).Error; err != nil {
		return nil, fmt.Errorf("failed to query orders: %w", err)
	}

	records := make([]domain.OrderRecord, 0, len(rows))
	for _, row := range rows {
		records = append(records, domain.OrderRecord{
			ID:              row.ID,
			UserID:          row.UserID,
			Item:            row.Item,
			Quantity:        row.Quantity,
			Price:           row.Price,
			Date:            row.Date,
			CarbonFootprint: row.CarbonFootprint,
			CreatedAt:       row.CreatedAt,
		})
	}
	return records, nil
}
