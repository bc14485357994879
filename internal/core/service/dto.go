package service

import (
	"errors"
	"fmt"
	"sort"
	"strings"
	"time"

	validation "github.com/go-ozzo/ozzo-validation/v4"
	"github.com/shopspring/decimal"

	"github.com/rl1809/coffee-service/internal/core/domain"
)

type CreateCoffeeRequest struct {
	Name        string          `json:"name"`
	Description string          `json:"description"`
	Price       decimal.Decimal `json:"price"`
	Stock       int             `json:"stock"`
}

type UpdateCoffeeRequest struct {
	Name        string          `json:"name"`
	Description string          `json:"description"`
	Price       decimal.Decimal `json:"price"`
	Stock       int             `json:"stock"`
}

type CoffeeDTO struct {
	ID          string          `json:"id"`
	Name        string          `json:"name"`
	Description string          `json:"description"`
	Price       decimal.Decimal `json:"price"`
	Stock       int             `json:"stock"`
	IsActive    bool            `json:"isActive"`
	CreatedAt   time.Time       `json:"createdAt"`
	UpdatedAt   *time.Time      `json:"updatedAt"`
}

// ValidationError lists request field violations. It matches
// domain.ErrInvalidArgument with errors.Is.
type ValidationError struct {
	Fields map[string]string
}

func (e *ValidationError) Error() string {
	keys := make([]string, 0, len(e.Fields))
	for k := range e.Fields {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	parts := make([]string, 0, len(keys))
	for _, k := range keys {
		parts = append(parts, fmt.Sprintf("%s: %s", k, e.Fields[k]))
	}
	return "validation failed: " + strings.Join(parts, "; ")
}

func (e *ValidationError) Unwrap() error {
	return domain.ErrInvalidArgument
}

func (r CreateCoffeeRequest) Validate() error {
	return toValidationError(validation.ValidateStruct(&r,
		validation.Field(&r.Name, nameRules()...),
		validation.Field(&r.Description, descriptionRules()...),
		validation.Field(&r.Price, priceRules()...),
		validation.Field(&r.Stock, stockRules()...),
	))
}

func (r UpdateCoffeeRequest) Validate() error {
	return toValidationError(validation.ValidateStruct(&r,
		validation.Field(&r.Name, nameRules()...),
		validation.Field(&r.Description, descriptionRules()...),
		validation.Field(&r.Price, priceRules()...),
		validation.Field(&r.Stock, stockRules()...),
	))
}

func nameRules() []validation.Rule {
	return []validation.Rule{
		validation.Required.Error("Name is required"),
		validation.RuneLength(1, domain.MaxNameLength).
			Error(fmt.Sprintf("Name must not exceed %d characters", domain.MaxNameLength)),
	}
}

func descriptionRules() []validation.Rule {
	return []validation.Rule{
		validation.Required.Error("Description is required"),
		validation.RuneLength(1, domain.MaxDescriptionLength).
			Error(fmt.Sprintf("Description must not exceed %d characters", domain.MaxDescriptionLength)),
	}
}

func priceRules() []validation.Rule {
	return []validation.Rule{validation.By(func(value interface{}) error {
		price, ok := value.(decimal.Decimal)
		if !ok {
			return errors.New("Price must be a decimal")
		}
		if !price.IsPositive() {
			return errors.New("Price must be greater than zero")
		}
		return nil
	})}
}

func stockRules() []validation.Rule {
	return []validation.Rule{validation.Min(0).Error("Stock cannot be negative")}
}

func toValidationError(err error) error {
	if err == nil {
		return nil
	}

	var errs validation.Errors
	if !errors.As(err, &errs) {
		return err
	}

	fields := make(map[string]string, len(errs))
	for field, fieldErr := range errs {
		fields[field] = fieldErr.Error()
	}
	return &ValidationError{Fields: fields}
}
