package storage

import (
	"time"

	"github.com/doug-martin/goqu/v9"
	"github.com/doug-martin/goqu/v9/exp"
	"github.com/jmoiron/sqlx"
	"github.com/shopspring/decimal"

	"github.com/rl1809/coffee-service/internal/core/domain"
)

type coffeeRow struct {
	ID          string          `db:"id"`
	Name        string          `db:"name"`
	Description string          `db:"description"`
	Price       decimal.Decimal `db:"price"`
	Stock       int             `db:"stock"`
	IsActive    bool            `db:"is_active"`
	CreatedAt   time.Time       `db:"created_at"`
	UpdatedAt   *time.Time      `db:"updated_at"`
}

type CoffeeRepository = SQLRepository[*domain.Coffee, coffeeRow]

func NewCoffeeRepository(db *sqlx.DB) *CoffeeRepository {
	return NewSQLRepository[*domain.Coffee, coffeeRow](db, coffeeMapping{})
}

type coffeeMapping struct{}

func (coffeeMapping) Columns() []any {
	return []any{"id", "name", "description", "price", "stock", "is_active", "created_at", "updated_at"}
}

func (coffeeMapping) Record(c *domain.Coffee) goqu.Record {
	var updatedAt any
	if c.UpdatedAt() != nil {
		updatedAt = *c.UpdatedAt()
	}

	return goqu.Record{
		"id":          c.ID(),
		"name":        c.Name(),
		"description": c.Description(),
		"price":       c.Price().String(),
		"stock":       c.Stock(),
		"is_active":   c.IsActive(),
		"created_at":  c.CreatedAt(),
		"updated_at":  updatedAt,
	}
}

func (coffeeMapping) Entity(row coffeeRow) *domain.Coffee {
	return domain.RestoreCoffee(
		row.ID, row.Name, row.Description, row.Price, row.Stock,
		row.IsActive, row.CreatedAt, row.UpdatedAt,
	)
}

func (coffeeMapping) OrderBy() []exp.OrderedExpression {
	return []exp.OrderedExpression{goqu.C("created_at").Asc(), goqu.C("id").Asc()}
}
