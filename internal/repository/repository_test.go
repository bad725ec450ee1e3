package repository

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
	gormlogger "gorm.io/gorm/logger"

	"github.com/vladimiradmaev/spendeats/internal/domain"
)

func newMockDB(t *testing.T) (*gorm.DB, sqlmock.Sqlmock) {
	t.Helper()
	sqlDB, mock, err := sqlmock.New()
	require.NoError(t, err)
	t.Cleanup(func() { sqlDB.Close() })

	db, err := gorm.Open(postgres.New(postgres.Config{Conn: sqlDB}), &gorm.Config{
		SkipDefaultTransaction: true,
		Logger:                 gormlogger.Discard,
	})
	require.NoError(t, err)
	return db, mock
}

func TestUserRepositoryGetUnknownUserReturnsFreshState(t *testing.T) {
	db, mock := newMockDB(t)
	mock.ExpectQuery(`SELECT \* FROM "user_economies" WHERE user_id = \$1`).
		WillReturnRows(sqlmock.NewRows([]string{"user_id"}))

	state, err := NewUserRepository(db).Get(context.Background(), "u1")
	require.NoError(t, err)
	assert.Equal(t, "u1", state.UserID)
	assert.Zero(t, state.LoyaltyPoints)
	assert.Empty(t, state.Badges)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestUserRepositoryGet(t *testing.T) {
	db, mock := newMockDB(t)
	rows := sqlmock.NewRows([]string{
		"user_id", "loyalty_points", "badges", "monthly_limit", "limit_set_month",
		"edits_lifetime", "edits_this_month", "limit_exceeded",
	}).AddRow("u1", 27, []byte(`["Bronze","Silver"]`), 500.0, "2025-04", 1, 2, true)
	mock.ExpectQuery(`SELECT \* FROM "user_economies" WHERE user_id = \$1`).WillReturnRows(rows)

	state, err := NewUserRepository(db).Get(context.Background(), "u1")
	require.NoError(t, err)
	assert.Equal(t, 27, state.LoyaltyPoints)
	assert.Equal(t, []domain.Badge{domain.BadgeBronze, domain.BadgeSilver}, state.Badges)
	assert.Equal(t, domain.SpendingLimit{MonthlyAmount: 500, SetMonth: "2025-04"}, state.SpendingLimit)
	assert.Equal(t, 1, state.EditCountLifetime)
	assert.Equal(t, 2, state.EditCountThisMonth)
	assert.True(t, state.LimitExceeded)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestUserRepositoryGetError(t *testing.T) {
	db, mock := newMockDB(t)
	mock.ExpectQuery(`SELECT \* FROM "user_economies"`).WillReturnError(errors.New("connection refused"))

	_, err := NewUserRepository(db).Get(context.Background(), "u1")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "connection refused")
}

func TestUserRepositoryPutOverwritesOnlyNamedColumns(t *testing.T) {
	db, mock := newMockDB(t)
	mock.ExpectExec(`INSERT INTO "user_economies" .* ON CONFLICT \("user_id"\) DO UPDATE SET "updated_at"="excluded"."updated_at","loyalty_points"="excluded"."loyalty_points","badges"="excluded"."badges"`).
		WillReturnResult(sqlmock.NewResult(0, 1))

	state := domain.NewUserEconomyState("u1")
	state.LoyaltyPoints = 10
	state.Badges = []domain.Badge{domain.BadgeBronze}

	err := NewUserRepository(db).Put(context.Background(), state, domain.FieldLoyaltyPoints, domain.FieldBadges)
	require.NoError(t, err)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestUserRepositoryPutSpendingLimitColumns(t *testing.T) {
	db, mock := newMockDB(t)
	mock.ExpectExec(`DO UPDATE SET "updated_at"="excluded"."updated_at","monthly_limit"="excluded"."monthly_limit","limit_set_month"="excluded"."limit_set_month","edits_this_month"="excluded"."edits_this_month"`).
		WillReturnResult(sqlmock.NewResult(0, 1))

	state := domain.NewUserEconomyState("u1")
	state.SpendingLimit = domain.SpendingLimit{MonthlyAmount: 300, SetMonth: "2025-04"}
	state.EditCountThisMonth = 1

	err := NewUserRepository(db).Put(context.Background(), state, domain.FieldSpendingLimit, domain.FieldEditsThisMonth)
	require.NoError(t, err)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestUserRepositoryPutUnknownField(t *testing.T) {
	db, mock := newMockDB(t)

	err := NewUserRepository(db).Put(context.Background(), domain.NewUserEconomyState("u1"), domain.Field("nickname"))
	assert.Error(t, err)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestUserRepositoryListUserIDs(t *testing.T) {
	db, mock := newMockDB(t)
	mock.ExpectQuery(`SELECT "user_id" FROM "user_economies" ORDER BY user_id`).
		WillReturnRows(sqlmock.NewRows([]string{"user_id"}).AddRow("a").AddRow("b"))

	ids, err := NewUserRepository(db).ListUserIDs(context.Background())
	require.NoError(t, err)
	assert.Equal(t, []string{"a", "b"}, ids)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestOrderRepositoryAppendAndQuery(t *testing.T) {
	db, mock := newMockDB(t)
	repo := NewOrderRepository(db)
	now := time.Date(2025, time.April, 3, 12, 0, 0, 0, time.UTC)

	mock.ExpectExec(`INSERT INTO "orders"`).WillReturnResult(sqlmock.NewResult(0, 2))
	err := repo.Append(context.Background(), []domain.OrderRecord{
		{ID: "o1", UserID: "u1", Item: "Pizza", Quantity: 2, Price: 300, Date: "2025-04-03", CarbonFootprint: 8, CreatedAt: now},
		{ID: "o2", UserID: "u1", Item: "Burger", Quantity: 1, Price: 60, Date: "2025-04-03", CarbonFootprint: 2, CreatedAt: now},
	})
	require.NoError(t, err)

	mock.ExpectQuery(`SELECT \* FROM "orders" WHERE user_id = \$1 ORDER BY created_at`).
		WithArgs("u1").
		WillReturnRows(sqlmock.NewRows([]string{"id", "user_id", "item", "quantity", "price", "date", "carbon_footprint", "created_at"}).
			AddRow("o1", "u1", "Pizza", 2, 300.0, "2025-04-03", 8.0, now))

	records, err := repo.QueryByUser(context.Background(), "u1")
	require.NoError(t, err)
	require.Len(t, records, 1)
	assert.Equal(t, "Pizza", records[0].Item)
	assert.Equal(t, 300.0, records[0].Price)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestOrderRepositoryAppendNothing(t *testing.T) {
	db, mock := newMockDB(t)
	require.NoError(t, NewOrderRepository(db).Append(context.Background(), nil))
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestReviewRepositoryListByItem(t *testing.T) {
	db, mock := newMockDB(t)
	now := time.Date(2025, time.April, 3, 12, 0, 0, 0, time.UTC)
	mock.ExpectQuery(`SELECT \* FROM "reviews" WHERE item = \$1 ORDER BY created_at DESC`).
		WithArgs("Pizza").
		WillReturnRows(sqlmock.NewRows([]string{"id", "user_id", "item", "rating", "comment", "created_at"}).
			AddRow("r2", "u2", "Pizza", 4, "good", now).
			AddRow("r1", "u1", "Pizza", 5, "great", now.Add(-time.Hour)))

	reviews, err := NewReviewRepository(db).List(context.Background(), "Pizza")
	require.NoError(t, err)
	require.Len(t, reviews, 2)
	assert.Equal(t, "r2", reviews[0].ID)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestPlanRepositoryDietPlan(t *testing.T) {
	db, mock := newMockDB(t)
	repo := NewPlanRepository(db)

	mock.ExpectQuery(`SELECT \* FROM "diet_plans" WHERE user_id = \$1`).
		WillReturnRows(sqlmock.NewRows([]string{"user_id"}))
	plan, err := repo.GetDietPlan(context.Background(), "u1")
	require.NoError(t, err)
	assert.Nil(t, plan)

	mock.ExpectQuery(`SELECT \* FROM "diet_plans" WHERE user_id = \$1`).
		WillReturnRows(sqlmock.NewRows([]string{"user_id", "plan", "goal", "preference", "allergies"}).
			AddRow("u1", []byte(`{"Breakfast":"Pepperoni","Lunch":"Pizza","Dinner":"Burger"}`), "General Health", "None", ""))
	plan, err = repo.GetDietPlan(context.Background(), "u1")
	require.NoError(t, err)
	require.NotNil(t, plan)
	assert.Equal(t, "Pizza", plan.Plan[domain.Lunch])
	assert.Equal(t, domain.GoalGeneralHealth, plan.Preferences.Goal)

	mock.ExpectExec(`INSERT INTO "diet_plans" .* ON CONFLICT \("user_id"\) DO UPDATE SET`).
		WillReturnResult(sqlmock.NewResult(0, 1))
	err = repo.SaveDietPlan(context.Background(), "u1", &domain.StoredDietPlan{
		Plan:        domain.DietPlan{domain.Breakfast: "Pepperoni"},
		Preferences: domain.Preferences{Goal: domain.GoalWeightLoss},
	})
	require.NoError(t, err)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestMemoryUserStorePutMergesFields(t *testing.T) {
	ctx := context.Background()
	store := NewMemoryUserStore()

	first := domain.NewUserEconomyState("u1")
	first.LoyaltyPoints = 5
	require.NoError(t, store.Put(ctx, first, domain.FieldLoyaltyPoints))

	update := domain.NewUserEconomyState("u1")
	update.LoyaltyPoints = 99
	update.EditCountThisMonth = 2
	require.NoError(t, store.Put(ctx, update, domain.FieldEditsThisMonth))

	got, err := store.Get(ctx, "u1")
	require.NoError(t, err)
	assert.Equal(t, 5, got.LoyaltyPoints)
	assert.Equal(t, 2, got.EditCountThisMonth)

	got.Badges = append(got.Badges, domain.BadgeGold)
	again, _ := store.Get(ctx, "u1")
	assert.Empty(t, again.Badges)
}

func TestMemoryReviewStoreNewestFirst(t *testing.T) {
	ctx := context.Background()
	store := NewMemoryReviewStore()
	require.NoError(t, store.Append(ctx, &domain.Review{ID: "1", Item: "Pizza"}))
	require.NoError(t, store.Append(ctx, &domain.Review{ID: "2", Item: "Burger"}))
	require.NoError(t, store.Append(ctx, &domain.Review{ID: "3", Item: "Pizza"}))

	all, _ := store.List(ctx, "")
	assert.Len(t, all, 3)
	pizza, _ := store.List(ctx, "Pizza")
	require.Len(t, pizza, 2)
	assert.Equal(t, "3", pizza[0].ID)
}
