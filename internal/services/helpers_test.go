package services

import (
	"context"
	"errors"
	"time"

	"github.com/vladimiradmaev/spendeats/internal/catalog"
	"github.com/vladimiradmaev/spendeats/internal/domain"
	"github.com/vladimiradmaev/spendeats/internal/repository"
)

type fakeClock struct {
	now time.Time
}

func (c *fakeClock) Now() time.Time { return c.now }

func clockAt(year int, month time.Month, day, hour, min int) *fakeClock {
	return &fakeClock{now: time.Date(year, month, day, hour, min, 0, 0, time.UTC)}
}

// scriptedRandom replays picks modulo n, then keeps returning 0.
type scriptedRandom struct {
	picks []int
	next  int
}

func (r *scriptedRandom) Intn(n int) int {
	if r.next >= len(r.picks) {
		return 0
	}
	p := r.picks[r.next] % n
	r.next++
	return p
}

var errStoreDown = errors.New("store down")

type failingUserStore struct {
	domain.UserStore
	failPut bool
	failGet bool
}

func (s *failingUserStore) Get(ctx context.Context, userID string) (*domain.UserEconomyState, error) {
	if s.failGet {
		return nil, errStoreDown
	}
	return s.UserStore.Get(ctx, userID)
}

func (s *failingUserStore) Put(ctx context.Context, state *domain.UserEconomyState, fields ...domain.Field) error {
	if s.failPut {
		return errStoreDown
	}
	return s.UserStore.Put(ctx, state, fields...)
}

type fixture struct {
	clock    *fakeClock
	catalog  *catalog.Static
	stores   *repository.Stores
	loyalty  *LoyaltyService
	spending *SpendingService
	orders   *OrderService
}

func newFixture(clock *fakeClock) *fixture {
	f := &fixture{
		clock:   clock,
		catalog: catalog.Default(),
		stores:  repository.NewMemoryStores(),
	}
	f.loyalty = NewLoyaltyService(f.stores.Users, f.stores.Reviews, f.catalog, clock)
	f.spending = NewSpendingService(f.stores.Users, f.stores.Orders, clock)
	f.orders = NewOrderService(f.catalog, f.stores.Orders, f.loyalty, f.spending, clock)
	return f
}

func (f *fixture) user(userID string) *domain.UserEconomyState {
	s, err := f.stores.Users.Get(context.Background(), userID)
	if err != nil {
		panic(err)
	}
	return s
}

func (f *fixture) seed(state *domain.UserEconomyState) {
	err := f.stores.Users.Put(context.Background(), state,
		domain.FieldLoyaltyPoints, domain.FieldBadges, domain.FieldSpendingLimit,
		domain.FieldEditsThisMonth, domain.FieldEditsLifetime, domain.FieldLimitExceeded)
	if err != nil {
		panic(err)
	}
}

func (f *fixture) order(userID, item string, price float64, date string) {
	err := f.stores.Orders.Append(context.Background(), []domain.OrderRecord{
		{ID: item + date, UserID: userID, Item: item, Quantity: 1, Price: price, Date: date},
	})
	if err != nil {
		panic(err)
	}
}
