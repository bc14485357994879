package handler

import (
	"context"
	"sync"

	"github.com/rl1809/coffee-service/internal/core/domain"
)

type fakeRepo struct {
	mu      sync.Mutex
	coffees map[string]*domain.Coffee
	order   []string
	err     error
}

func newFakeRepo() *fakeRepo {
	return &fakeRepo{coffees: make(map[string]*domain.Coffee)}
}

func (f *fakeRepo) GetByID(ctx context.Context, id string) (*domain.Coffee, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.err != nil {
		return nil, f.err
	}
	return f.coffees[id], nil
}

func (f *fakeRepo) GetAll(ctx context.Context) ([]*domain.Coffee, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.err != nil {
		return nil, f.err
	}
	result := make([]*domain.Coffee, 0, len(f.order))
	for _, id := range f.order {
		if c, ok := f.coffees[id]; ok {
			result = append(result, c)
		}
	}
	return result, nil
}

func (f *fakeRepo) Add(ctx context.Context, coffee *domain.Coffee) (*domain.Coffee, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.err != nil {
		return nil, f.err
	}
	f.coffees[coffee.ID()] = coffee
	f.order = append(f.order, coffee.ID())
	return coffee, nil
}

func (f *fakeRepo) Update(ctx context.Context, coffee *domain.Coffee) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	coffee.Touch()
	f.coffees[coffee.ID()] = coffee
	return nil
}

func (f *fakeRepo) Delete(ctx context.Context, id string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	delete(f.coffees, id)
	return nil
}

func (f *fakeRepo) Exists(ctx context.Context, id string) (bool, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	_, ok := f.coffees[id]
	return ok, nil
}

func (f *fakeRepo) Ping(ctx context.Context) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.err
}

type fakePublisher struct {
	mu   sync.Mutex
	keys []string
	err  error
}

func (f *fakePublisher) Publish(ctx context.Context, message any, routingKey string) error {
	return f.PublishTo(ctx, message, "coffee.exchange", routingKey)
}

func (f *fakePublisher) PublishTo(ctx context.Context, message any, exchange, routingKey string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.err != nil {
		return f.err
	}
	f.keys = append(f.keys, routingKey)
	return nil
}

func (f *fakePublisher) Ping(ctx context.Context) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.err
}

type checkerFunc func(ctx context.Context) error

func (f checkerFunc) Ping(ctx context.Context) error { return f(ctx) }
