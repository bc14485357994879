package service

import "github.com/rl1809/coffee-service/internal/core/domain"

// NewCoffeeFromRequest builds a new active coffee. Identity and timestamps
// are always assigned by the domain, never taken from the client.
func NewCoffeeFromRequest(req CreateCoffeeRequest) (*domain.Coffee, error) {
	return domain.NewCoffee(req.Name, req.Description, req.Price, req.Stock)
}

func ToCoffeeDTO(c *domain.Coffee) CoffeeDTO {
	return CoffeeDTO{
		ID:          c.ID(),
		Name:        c.Name(),
		Description: c.Description(),
		Price:       c.Price(),
		Stock:       c.Stock(),
		IsActive:    c.IsActive(),
		CreatedAt:   c.CreatedAt(),
		UpdatedAt:   c.UpdatedAt(),
	}
}

func ToCoffeeDTOs(coffees []*domain.Coffee) []CoffeeDTO {
	dtos := make([]CoffeeDTO, 0, len(coffees))
	for _, c := range coffees {
		dtos = append(dtos, ToCoffeeDTO(c))
	}
	return dtos
}
