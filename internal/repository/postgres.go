package repository

import (
	"gorm.io/gorm"

	"github.com/vladimiradmaev/spendeats/internal/domain"
)

// Stores bundles the persistence collaborators the services need.
type Stores struct {
	Users   domain.UserStore
	Orders  domain.OrderStore
	Reviews domain.ReviewStore
	Plans   domain.PlanStore
}

// NewPostgresStores returns gorm-backed stores sharing db.
func NewPostgresStores(db *gorm.DB) *Stores {
	return &Stores{
		Users:   NewUserRepository(db),
		Orders:  NewOrderRepository(db),
		Reviews: NewReviewRepository(db),
		Plans:   NewPlanRepository(db),
	}
}

// NewMemoryStores returns process-local stores; data is lost on restart.
func NewMemoryStores() *Stores {
	return &Stores{
		Users:   NewMemoryUserStore(),
		Orders:  NewMemoryOrderStore(),
		Reviews: NewMemoryReviewStore(),
		Plans:   NewMemoryPlanStore(),
	}
}
