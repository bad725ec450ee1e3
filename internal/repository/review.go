package repository

import (
	"context"
	"fmt"

	"gorm.io/gorm"

	"github.com/vladimiradmaev/spendeats/internal/database"
	"github.com/vladimiradmaev/spendeats/internal/domain"
)

type ReviewRepository struct {
	db *gorm.DB
}

func NewReviewRepository(db *gorm.DB) *ReviewRepository {
	return &ReviewRepository{db: db}
}

func (r *ReviewRepository) Append(ctx context.Context, review *domain.Review) error {
	row := &database.Review{
		ID:        review.ID,
		UserID:    review.UserID,
		Item:      review.Item,
		Rating:    review.Rating,
		Comment:   review.Comment,
		CreatedAt: review.CreatedAt,
	}
	if err := r.db.WithContext(ctx).Create(row).Error; err != nil {
		return fmt.Errorf("failed to save review: %w", err)
	}
	return nil
}

// List returns reviews newest first, optionally for one item.
func (r *ReviewRepository) List(ctx context.Context, item string) ([]domain.Review, error) {
	q := r.db.WithContext(ctx).Order("created_at DESC")
	if item != "" {
		q = q.Where("item = ?", item)
	}

	var rows []database.Review
	if err := q.Find(&rows).Error; err != nil {
		return nil, fmt.Errorf("failed to list reviews: %w", err)
	}

	reviews := make([]domain.Review, 0, len(rows))
	for _, row := range rows {
		reviews = append(reviews, domain.Review{
			ID:        row.ID,
			UserID:    row.UserID,
			Item:      row.Item,
			Rating:    row.Rating,
			Comment:   row.Comment,
			CreatedAt: row.CreatedAt,
		})
	}
	return reviews, nil
}
