package storage

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"reflect"
	"strings"

	"github.com/doug-martin/goqu/v9"
	_ "github.com/doug-martin/goqu/v9/dialect/mysql"
	_ "github.com/doug-martin/goqu/v9/dialect/postgres"
	_ "github.com/doug-martin/goqu/v9/dialect/sqlite3"
	"github.com/doug-martin/goqu/v9/exp"
	"github.com/jmoiron/sqlx"
)

const colID = "id"

// Entity is the minimal behaviour the repository needs from a stored type.
type Entity interface {
	ID() string
	Touch()
}

// Mapping translates between an entity and its table row R.
type Mapping[E Entity, R any] interface {
	Columns() []any
	Record(entity E) goqu.Record
	Entity(row R) E
	OrderBy() []exp.OrderedExpression
}

// SQLRepository stores one entity type in a table named after the pluralized
// type name. Every call acquires its own connection from the pool and
// releases it before returning.
type SQLRepository[E Entity, R any] struct {
	db      *sqlx.DB
	dialect goqu.DialectWrapper
	table   string
	mapping Mapping[E, R]
}

// NewSQLRepository uses the sqlx driver name to pick the SQL dialect.
func NewSQLRepository[E Entity, R any](db *sqlx.DB, mapping Mapping[E, R]) *SQLRepository[E, R] {
	return &SQLRepository[E, R]{
		db:      db,
		dialect: goqu.Dialect(dialectFor(db.DriverName())),
		table:   TableName[E](),
		mapping: mapping,
	}
}

// TableName pluralizes the entity type name: *domain.Coffee -> "coffees".
func TableName[E any]() string {
	t := reflect.TypeOf((*E)(nil)).Elem()
	for t.Kind() == reflect.Ptr {
		t = t.Elem()
	}
	return strings.ToLower(t.Name()) + "s"
}

func dialectFor(driverName string) string {
	switch driverName {
	case "pgx", "postgres":
		return "postgres"
	case "sqlite3":
		return "sqlite3"
	default:
		return "mysql"
	}
}

func (r *SQLRepository[E, R]) Table() string {
	return r.table
}

// GetByID returns the zero value of E without error when no row matches.
func (r *SQLRepository[E, R]) GetByID(ctx context.Context, id string) (E, error) {
	var zero E

	query, args, err := r.dialect.From(r.table).
		Select(r.mapping.Columns()...).
		Where(goqu.C(colID).Eq(id)).
		Prepared(true).
		ToSQL()
	if err != nil {
		return zero, fmt.Errorf("build select: %w", err)
	}

	var row R
	err = r.withConn(ctx, func(conn *sqlx.Conn) error {
		return conn.GetContext(ctx, &row, query, args...)
	})
	if errors.Is(err, sql.ErrNoRows) {
		return zero, nil
	}
	if err != nil {
		return zero, fmt.Errorf("query %s: %w", r.table, err)
	}

	return r.mapping.Entity(row), nil
}

func (r *SQLRepository[E, R]) GetAll(ctx context.Context) ([]E, error) {
	query, args, err := r.dialect.From(r.table).
		Select(r.mapping.Columns()...).
		Order(r.mapping.OrderBy()...).
		Prepared(true).
		ToSQL()
	if err != nil {
		return nil, fmt.Errorf("build select: %w", err)
	}

	var rows []R
	err = r.withConn(ctx, func(conn *sqlx.Conn) error {
		return conn.SelectContext(ctx, &rows, query, args...)
	})
	if err != nil {
		return nil, fmt.Errorf("query %s: %w", r.table, err)
	}

	entities := make([]E, 0, len(rows))
	for _, row := range rows {
		entities = append(entities, r.mapping.Entity(row))
	}
	return entities, nil
}

func (r *SQLRepository[E, R]) Add(ctx context.Context, entity E) (E, error) {
	query, args, err := r.dialect.Insert(r.table).
		Rows(r.mapping.Record(entity)).
		Prepared(true).
		ToSQL()
	if err != nil {
		return entity, fmt.Errorf("build insert: %w", err)
	}

	if err := r.exec(ctx, query, args); err != nil {
		return entity, fmt.Errorf("insert %s: %w", r.table, err)
	}

	return entity, nil
}

// Update re-stamps the entity before writing every mapped column except id.
func (r *SQLRepository[E, R]) Update(ctx context.Context, entity E) error {
	entity.Touch()

	record := r.mapping.Record(entity)
	delete(record, colID)

	query, args, err := r.dialect.Update(r.table).
		Set(record).
		Where(goqu.C(colID).Eq(entity.ID())).
		Prepared(true).
		ToSQL()
	if err != nil {
		return fmt.Errorf("build update: %w", err)
	}

	if err := r.exec(ctx, query, args); err != nil {
		return fmt.Errorf("update %s: %w", r.table, err)
	}

	return nil
}

func (r *SQLRepository[E, R]) Delete(ctx context.Context, id string) error {
	query, args, err := r.dialect.Delete(r.table).
		Where(goqu.C(colID).Eq(id)).
		Prepared(true).
		ToSQL()
	if err != nil {
		return fmt.Errorf("build delete: %w", err)
	}

	if err := r.exec(ctx, query, args); err != nil {
		return fmt.Errorf("delete %s: %w", r.table, err)
	}

	return nil
}

func (r *SQLRepository[E, R]) Exists(ctx context.Context, id string) (bool, error) {
	query, args, err := r.dialect.From(r.table).
		Select(goqu.COUNT(goqu.Star())).
		Where(goqu.C(colID).Eq(id)).
		Prepared(true).
		ToSQL()
	if err != nil {
		return false, fmt.Errorf("build count: %w", err)
	}

	var count int
	err = r.withConn(ctx, func(conn *sqlx.Conn) error {
		return conn.GetContext(ctx, &count, query, args...)
	})
	if err != nil {
		return false, fmt.Errorf("count %s: %w", r.table, err)
	}

	return count > 0, nil
}

// Ping checks that the pool can hand out a live connection.
func (r *SQLRepository[E, R]) Ping(ctx context.Context) error {
	return r.db.PingContext(ctx)
}

func (r *SQLRepository[E, R]) exec(ctx context.Context, query string, args []any) error {
	return r.withConn(ctx, func(conn *sqlx.Conn) error {
		_, err := conn.ExecContext(ctx, query, args...)
		return err
	})
}

func (r *SQLRepository[E, R]) withConn(ctx context.Context, fn func(conn *sqlx.Conn) error) error {
	conn, err := r.db.Connx(ctx)
	if err != nil {
		return fmt.Errorf("acquire connection: %w", err)
	}
	defer conn.Close()

	return fn(conn)
}
