package port

import (
	"context"

	"github.com/rl1809/coffee-service/internal/core/domain"
)

type CoffeeRepository interface {
	// GetByID returns nil without error when no coffee has the id
	GetByID(ctx context.Context, id string) (*domain.Coffee, error)

	// GetAll returns every coffee in store order
	GetAll(ctx context.Context) ([]*domain.Coffee, error)

	// Add inserts a new coffee and returns it
	Add(ctx context.Context, coffee *domain.Coffee) (*domain.Coffee, error)

	// Update re-stamps UpdatedAt and overwrites the stored row
	Update(ctx context.Context, coffee *domain.Coffee) error

	Delete(ctx context.Context, id string) error

	Exists(ctx context.Context, id string) (bool, error)
}
