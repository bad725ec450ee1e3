package database

import (
	"time"

	"github.com/vladimiradmaev/spendeats/internal/domain"
)

type UserEconomy struct {
	UserID         string         `gorm:"primaryKey;size:64"`
	LoyaltyPoints  int            `gorm:"not null"`
	Badges         []domain.Badge `gorm:"serializer:json"`
	MonthlyLimit   float64        `gorm:"not null"`
	LimitSetMonth  string         `gorm:"size:7"` // YYYY-MM
	EditsLifetime  int            `gorm:"not null"`
	EditsThisMonth int            `gorm:"not null"`
	LimitExceeded  bool           `gorm:"not null"`
	CreatedAt      time.Time
	UpdatedAt      time.Time
}

type Order struct {
	ID              string  `gorm:"primaryKey;size:36"`
	UserID          string  `gorm:"index;size:64;not null"`
	Item            string  `gorm:"size:128;not null"`
	Quantity        int     `gorm:"not null"`
	Price           float64 `gorm:"not null"` // line total
	Date            string  `gorm:"size:10"`  // YYYY-MM-DD
	CarbonFootprint float64
	CreatedAt       time.Time
}

type Review struct {
	ID        string `gorm:"primaryKey;size:36"`
	UserID    string `gorm:"index;size:64;not null"`
	Item      string `gorm:"index;size:128;not null"`
	Rating    int    `gorm:"not null"`
	Comment   string
	CreatedAt time.Time
}

type DietPlan struct {
	UserID     string          `gorm:"primaryKey;size:64"`
	Plan       domain.DietPlan `gorm:"serializer:json"`
	Goal       string          `gorm:"size:32"`
	Preference string          `gorm:"size:32"`
	Allergies  string
	CreatedAt  time.Time
	UpdatedAt  time.Time
}

type MealSchedule struct {
	UserID       string                   `gorm:"primaryKey;size:64"`
	Date         string                   `gorm:"size:10"`
	Day          string                   `gorm:"size:16"`
	Meals        map[domain.Meal]string   `gorm:"serializer:json"`
	Warnings     []domain.ScheduleWarning `gorm:"serializer:json"`
	Availability domain.Availability      `gorm:"serializer:json"`
	UpdatedAt    time.Time
}

type CustomRecipe struct {
	ID        uint                `gorm:"primaryKey"`
	UserID    string              `gorm:"index;size:64;not null"`
	Name      string              `gorm:"size:128"`
	Recipe    domain.CustomRecipe `gorm:"serializer:json"`
	CreatedAt time.Time
}

type MealLog struct {
	ID       uint               `gorm:"primaryKey"`
	UserID   string             `gorm:"index;size:64;not null"`
	Item     string             `gorm:"size:128"`
	Quantity int                `gorm:"not null"`
	Calories float64
	Protein  float64
	Carbs    float64
	Fats     float64
	Vitamins map[string]float64 `gorm:"serializer:json"`
	LoggedAt time.Time
}

// Models lists every table managed by AutoMigrate.
func Models() []interface{} {
	return []interface{}{
		&UserEconomy{},
		&Order{},
		&Review{},
		&DietPlan{},
		&MealSchedule{},
		&CustomRecipe{},
		&MealLog{},
	}
}
