package domain

import (
	"fmt"
	"strings"
	"time"
	"unicode/utf8"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

const (
	MaxNameLength        = 200
	MaxDescriptionLength = 1000
)

// Coffee is the aggregate root of the catalog. Fields are only reachable
// through accessors so that name, description, price and stock invariants
// hold for the lifetime of the value.
type Coffee struct {
	id          string
	name        string
	description string
	price       decimal.Decimal
	stock       int
	isActive    bool
	createdAt   time.Time
	updatedAt   *time.Time
}

// NewCoffee creates an active coffee with a fresh id.
func NewCoffee(name, description string, price decimal.Decimal, stock int) (*Coffee, error) {
	if err := validateName(name); err != nil {
		return nil, err
	}
	if err := validateDescription(description); err != nil {
		return nil, err
	}
	if err := validatePrice(price); err != nil {
		return nil, err
	}
	if err := validateStock(stock); err != nil {
		return nil, err
	}

	return &Coffee{
		id:          uuid.NewString(),
		name:        name,
		description: description,
		price:       price,
		stock:       stock,
		isActive:    true,
		createdAt:   time.Now().UTC(),
	}, nil
}

// RestoreCoffee rebuilds a coffee from persisted state without re-running
// the constructor checks.
func RestoreCoffee(id, name, description string, price decimal.Decimal, stock int, isActive bool, createdAt time.Time, updatedAt *time.Time) *Coffee {
	return &Coffee{
		id:          id,
		name:        name,
		description: description,
		price:       price,
		stock:       stock,
		isActive:    isActive,
		createdAt:   createdAt,
		updatedAt:   updatedAt,
	}
}

func (c *Coffee) ID() string { return c.id }
func (c *Coffee) Name() string { return c.name }
func (c *Coffee) Description() string { return c.description }
func (c *Coffee) Price() decimal.Decimal { return c.price }
func (c *Coffee) Stock() int { return c.stock }
func (c *Coffee) IsActive() bool { return c.isActive }
func (c *Coffee) CreatedAt() time.Time { return c.createdAt }
func (c *Coffee) UpdatedAt() *time.Time { return c.updatedAt }

func (c *Coffee) UpdateName(name string) error {
	if err := validateName(name); err != nil {
		return err
	}
	c.name = name
	c.Touch()
	return nil
}

func (c *Coffee) UpdatePrice(price decimal.Decimal) error {
	if err := validatePrice(price); err != nil {
		return err
	}
	c.price = price
	c.Touch()
	return nil
}

func (c *Coffee) UpdateStock(stock int) error {
	if err := validateStock(stock); err != nil {
		return err
	}
	c.stock = stock
	c.Touch()
	return nil
}

func (c *Coffee) Activate() {
	c.isActive = true
	c.Touch()
}

func (c *Coffee) Deactivate() {
	c.isActive = false
	c.Touch()
}

// Touch re-stamps UpdatedAt with the current time.
func (c *Coffee) Touch() {
	now := time.Now().UTC()
	c.updatedAt = &now
}

func validateName(name string) error {
	if strings.TrimSpace(name) == "" {
		return fmt.Errorf("%w: name cannot be empty", ErrInvalidArgument)
	}
	if utf8.RuneCountInString(name) > MaxNameLength {
		return fmt.Errorf("%w: name must not exceed %d characters", ErrInvalidArgument, MaxNameLength)
	}
	return nil
}

func validateDescription(description string) error {
	if strings.TrimSpace(description) == "" {
		return fmt.Errorf("%w: description cannot be empty", ErrInvalidArgument)
	}
	if utf8.RuneCountInString(description) > MaxDescriptionLength {
		return fmt.Errorf("%w: description must not exceed %d characters", ErrInvalidArgument, MaxDescriptionLength)
	}
	return nil
}

func validatePrice(price decimal.Decimal) error {
	if price.IsNegative() {
		return fmt.Errorf("%w: price cannot be negative", ErrInvalidArgument)
	}
	return nil
}

func validateStock(stock int) error {
	if stock < 0 {
		return fmt.Errorf("%w: stock cannot be negative", ErrInvalidArgument)
	}
	return nil
}
