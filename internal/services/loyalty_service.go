package services

import (
	"context"
	"sort"
	"strings"

	"github.com/google/uuid"

	"github.com/vladimiradmaev/spendeats/internal/domain"
	apperrors "github.com/vladimiradmaev/spendeats/internal/errors"
	"github.com/vladimiradmaev/spendeats/internal/logger"
)

// LoyaltyEvent is something that earns points.
type LoyaltyEvent int

const (
	EventItemAdded LoyaltyEvent = iota
	EventReviewSubmitted
)

// Points returns how many points the event is worth.
func (e LoyaltyEvent) Points() int {
	switch e {
	case EventItemAdded:
		return 1
	case EventReviewSubmitted:
		return 2
	default:
		return 0
	}
}

func (e LoyaltyEvent) String() string {
	switch e {
	case EventItemAdded:
		return "item_added"
	case EventReviewSubmitted:
		return "review_submitted"
	default:
		return "unknown"
	}
}

type badgeThreshold struct {
	badge  domain.Badge
	points int
}

// Checked in this order; the first unmet tier wins.
var badgeThresholds = []badgeThreshold{
	{domain.BadgeBronze, 10},
	{domain.BadgeSilver, 25},
	{domain.BadgeGold, 50},
}

// AwardResult is the outcome of a single Award call.
type AwardResult struct {
	Points int
	Badge  domain.Badge // "" when no badge was awarded
}

type LoyaltyService struct {
	users   domain.UserStore
	reviews domain.ReviewStore
	catalog domain.Catalog
	clock   domain.Clock
}

func NewLoyaltyService(users domain.UserStore, reviews domain.ReviewStore, catalog domain.Catalog, clock domain.Clock) *LoyaltyService {
	return &LoyaltyService{
		users:   users,
		reviews: reviews,
		catalog: catalog,
		clock:   clock,
	}
}

// EvaluateBadges appends at most one badge to state and returns it.
func EvaluateBadges(state *domain.UserEconomyState) domain.Badge {
	for _, t := range badgeThresholds {
		if state.LoyaltyPoints >= t.points && !state.HasBadge(t.badge) {
			state.Badges = append(state.Badges, t.badge)
			return t.badge
		}
	}
	return ""
}

// Award adds the event's points, evaluates badges and persists both.
func (s *LoyaltyService) Award(ctx context.Context, userID string, event LoyaltyEvent) (*AwardResult, error) {
	state, err := s.users.Get(ctx, userID)
	if err != nil {
		return nil, apperrors.NewStoreError(err, "load user")
	}

	state.LoyaltyPoints += event.Points()
	badge := EvaluateBadges(state)

	if err := s.users.Put(ctx, state, domain.FieldLoyaltyPoints, domain.FieldBadges); err != nil {
		return nil, apperrors.NewStoreError(err, "save loyalty points")
	}

	log := logger.WithContext(ctx)
	log.Info("Loyalty points awarded",
		"user_id", userID,
		"event", event.String(),
		"points", state.LoyaltyPoints)
	if badge != "" {
		log.Info("Badge earned", "user_id", userID, "badge", badge)
	}

	return &AwardResult{Points: state.LoyaltyPoints, Badge: badge}, nil
}

// SubmitReview stores a review of a menu item and awards review points.
func (s *LoyaltyService) SubmitReview(ctx context.Context, userID, item string, rating int, comment string) (*domain.Review, *AwardResult, error) {
	if rating < 1 || rating > 5 {
		return nil, nil, apperrors.NewValidationError("rating must be between 1 and 5")
	}
	if _, ok := s.catalog.Item(item); !ok {
		return nil, nil, apperrors.NewUnknownItemError(item)
	}

	review := &domain.Review{
		ID:        uuid.NewString(),
		UserID:    userID,
		Item:      item,
		Rating:    rating,
		Comment:   strings.TrimSpace(comment),
		CreatedAt: s.clock.Now(),
	}
	if err := s.reviews.Append(ctx, review); err != nil {
		return nil, nil, apperrors.NewStoreError(err, "save review")
	}

	award, err := s.Award(ctx, userID, EventReviewSubmitted)
	if err != nil {
		return review, nil, err
	}
	return review, award, nil
}

// ListReviews returns reviews newest first. An empty item lists all of them.
func (s *LoyaltyService) ListReviews(ctx context.Context, item string) ([]domain.Review, error) {
	reviews, err := s.reviews.List(ctx, item)
	if err != nil {
		return nil, apperrors.NewStoreError(err, "list reviews")
	}
	sort.SliceStable(reviews, func(i, j int) bool {
		return reviews[i].CreatedAt.After(reviews[j].CreatedAt)
	})
	return reviews, nil
}
