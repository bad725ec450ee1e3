package repository

import (
	"context"
	"fmt"
	"sort"
	"sync"
	"time"

	"github.com/vladimiradmaev/spendeats/internal/domain"
)

// MemoryUserStore keeps economy state in process.
type MemoryUserStore struct {
	mu    sync.RWMutex
	users map[string]*domain.UserEconomyState
}

func NewMemoryUserStore() *MemoryUserStore {
	return &MemoryUserStore{users: make(map[string]*domain.UserEconomyState)}
}

func (s *MemoryUserStore) Get(ctx context.Context, userID string) (*domain.UserEconomyState, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	if u, ok := s.users[userID]; ok {
		return u.Clone(), nil
	}
	return domain.NewUserEconomyState(userID), nil
}

func (s *MemoryUserStore) Put(ctx context.Context, state *domain.UserEconomyState, fields ...domain.Field) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	cur, ok := s.users[state.UserID]
	if !ok {
		c := state.Clone()
		c.UpdatedAt = time.Now()
		s.users[state.UserID] = c
		return nil
	}

	for _, f := range fields {
		switch f {
		case domain.FieldLoyaltyPoints:
			cur.LoyaltyPoints = state.LoyaltyPoints
		case domain.FieldBadges:
			cur.Badges = append([]domain.Badge{}, state.Badges...)
		case domain.FieldSpendingLimit:
			cur.SpendingLimit = state.SpendingLimit
		case domain.FieldEditsThisMonth:
			cur.EditCountThisMonth = state.EditCountThisMonth
		case domain.FieldEditsLifetime:
			cur.EditCountLifetime = state.EditCountLifetime
		case domain.FieldLimitExceeded:
			cur.LimitExceeded = state.LimitExceeded
		default:
			return fmt.Errorf("unknown user field %q", f)
		}
	}
	cur.UpdatedAt = time.Now()
	return nil
}

func (s *MemoryUserStore) ListUserIDs(ctx context.Context) ([]string, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	ids := make([]string, 0, len(s.users))
	for id := range s.users {
		ids = append(ids, id)
	}
	sort.Strings(ids)
	return ids, nil
}

type MemoryOrderStore struct {
	mu      sync.RWMutex
	records []domain.OrderRecord
}

func NewMemoryOrderStore() *MemoryOrderStore {
	return &MemoryOrderStore{}
}

func (s *MemoryOrderStore) Append(ctx context.Context, records []domain.OrderRecord) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.records = append(s.records, records...)
	return nil
}

func (s *MemoryOrderStore) QueryByUser(ctx context.Context, userID string) ([]domain.OrderRecord, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	var out []domain.OrderRecord
	for _, r := range s.records {
		if r.UserID == userID {
			out = append(out, r)
		}
	}
	return out, nil
}

type MemoryReviewStore struct {
	mu      sync.RWMutex
	reviews []domain.Review
}

func NewMemoryReviewStore() *MemoryReviewStore {
	return &MemoryReviewStore{}
}

func (s *MemoryReviewStore) Append(ctx context.Context, review *domain.Review) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.reviews = append(s.reviews, *review)
	return nil
}

func (s *MemoryReviewStore) List(ctx context.Context, item string) ([]domain.Review, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	var out []domain.Review
	for i := len(s.reviews) - 1; i >= 0; i-- {
		if item == "" || s.reviews[i].Item == item {
			out = append(out, s.reviews[i])
		}
	}
	return out, nil
}

type MemoryPlanStore struct {
	mu        sync.RWMutex
	plans     map[string]domain.StoredDietPlan
	schedules map[string]domain.MealSchedule
	recipes   map[string][]domain.CustomRecipe
	mealLogs  map[string][]domain.MealLog
}

func NewMemoryPlanStore() *MemoryPlanStore {
	return &MemoryPlanStore{
		plans:     make(map[string]domain.StoredDietPlan),
		schedules: make(map[string]domain.MealSchedule),
		recipes:   make(map[string][]domain.CustomRecipe),
		mealLogs:  make(map[string][]domain.MealLog),
	}
}

func (s *MemoryPlanStore) SaveDietPlan(ctx context.Context, userID string, plan *domain.StoredDietPlan) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	c := *plan
	c.Plan = make(domain.DietPlan, len(plan.Plan))
	for k, v := range plan.Plan {
		c.Plan[k] = v
	}
	s.plans[userID] = c
	return nil
}

func (s *MemoryPlanStore) GetDietPlan(ctx context.Context, userID string) (*domain.StoredDietPlan, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	p, ok := s.plans[userID]
	if !ok {
		return nil, nil
	}
	return &p, nil
}

func (s *MemoryPlanStore) SaveSchedule(ctx context.Context, userID string, schedule *domain.MealSchedule) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.schedules[userID] = *schedule
	return nil
}

func (s *MemoryPlanStore) GetSchedule(ctx context.Context, userID string) (*domain.MealSchedule, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	sc, ok := s.schedules[userID]
	if !ok {
		return nil, nil
	}
	return &sc, nil
}

func (s *MemoryPlanStore) AddCustomRecipe(ctx context.Context, userID string, recipe *domain.CustomRecipe) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.recipes[userID] = append(s.recipes[userID], *recipe)
	return nil
}

func (s *MemoryPlanStore) ListCustomRecipes(ctx context.Context, userID string) ([]domain.CustomRecipe, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return append([]domain.CustomRecipe{}, s.recipes[userID]...), nil
}

func (s *MemoryPlanStore) AddMealLog(ctx context.Context, userID string, entry *domain.MealLog) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.mealLogs[userID] = append(s.mealLogs[userID], *entry)
	return nil
}

func (s *MemoryPlanStore) ListMealLogs(ctx context.Context, userID string) ([]domain.MealLog, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return append([]domain.MealLog{}, s.mealLogs[userID]...), nil
}
