package service

import (
	"context"
	"fmt"

	"go.uber.org/zap"

	"github.com/rl1809/coffee-service/internal/core/domain"
	"github.com/rl1809/coffee-service/internal/port"
)

// CoffeeService implements the coffee use cases. Writes and notifications
// are two independent calls: a failed publish after a successful write is
// reported to the caller but the write is not rolled back.
type CoffeeService struct {
	repo      port.CoffeeRepository
	publisher port.MessagePublisher
	logger    *zap.Logger
}

func NewCoffeeService(repo port.CoffeeRepository, publisher port.MessagePublisher, logger *zap.Logger) *CoffeeService {
	return &CoffeeService{
		repo:      repo,
		publisher: publisher,
		logger:    logger,
	}
}

func (s *CoffeeService) Create(ctx context.Context, req CreateCoffeeRequest) (*CoffeeDTO, error) {
	if err := req.Validate(); err != nil {
		return nil, err
	}

	coffee, err := NewCoffeeFromRequest(req)
	if err != nil {
		return nil, err
	}

	created, err := s.repo.Add(ctx, coffee)
	if err != nil {
		return nil, fmt.Errorf("add coffee: %w", err)
	}

	if err := s.publish(ctx, created, domain.CoffeeCreated); err != nil {
		return nil, err
	}

	dto := ToCoffeeDTO(created)
	return &dto, nil
}

// GetByID returns nil without error when the coffee does not exist.
func (s *CoffeeService) GetByID(ctx context.Context, id string) (*CoffeeDTO, error) {
	coffee, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("get coffee: %w", err)
	}
	if coffee == nil {
		return nil, nil
	}

	dto := ToCoffeeDTO(coffee)
	return &dto, nil
}

func (s *CoffeeService) GetAll(ctx context.Context) ([]CoffeeDTO, error) {
	coffees, err := s.repo.GetAll(ctx)
	if err != nil {
		return nil, fmt.Errorf("list coffees: %w", err)
	}
	return ToCoffeeDTOs(coffees), nil
}

func (s *CoffeeService) Update(ctx context.Context, id string, req UpdateCoffeeRequest) (*CoffeeDTO, error) {
	if err := req.Validate(); err != nil {
		return nil, err
	}

	coffee, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("get coffee: %w", err)
	}
	if coffee == nil {
		return nil, fmt.Errorf("coffee with ID %s: %w", id, domain.ErrNotFound)
	}

	if err := coffee.UpdateName(req.Name); err != nil {
		return nil, err
	}
	if err := coffee.UpdatePrice(req.Price); err != nil {
		return nil, err
	}
	if err := coffee.UpdateStock(req.Stock); err != nil {
		return nil, err
	}

	if err := s.repo.Update(ctx, coffee); err != nil {
		return nil, fmt.Errorf("update coffee: %w", err)
	}

	if err := s.publish(ctx, coffee, domain.CoffeeUpdated); err != nil {
		return nil, err
	}

	dto := ToCoffeeDTO(coffee)
	return &dto, nil
}

// Delete reports false without error when the coffee does not exist.
func (s *CoffeeService) Delete(ctx context.Context, id string) (bool, error) {
	coffee, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return false, fmt.Errorf("get coffee: %w", err)
	}
	if coffee == nil {
		return false, nil
	}

	if err := s.repo.Delete(ctx, id); err != nil {
		return false, fmt.Errorf("delete coffee: %w", err)
	}

	if err := s.publish(ctx, coffee, domain.CoffeeDeleted); err != nil {
		return false, err
	}

	return true, nil
}

func (s *CoffeeService) publish(ctx context.Context, coffee *domain.Coffee, action domain.CoffeeAction) error {
	routingKey := action.RoutingKey()

	if err := s.publisher.Publish(ctx, domain.NewCoffeeMessage(coffee, action), routingKey); err != nil {
		s.logger.Error("coffee stored but notification not published",
			zap.String("coffee_id", coffee.ID()),
			zap.String("routing_key", routingKey),
			zap.Error(err))
		return fmt.Errorf("publish %s: %w", routingKey, err)
	}

	return nil
}
