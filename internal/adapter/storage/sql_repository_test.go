package storage

import (
	"context"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/jmoiron/sqlx"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/rl1809/coffee-service/internal/core/domain"
)

const sqliteSchema = `
CREATE TABLE coffees (
	id          CHAR(36) PRIMARY KEY,
	name        VARCHAR(200) NOT NULL,
	description VARCHAR(1000) NOT NULL,
	price       DECIMAL(10,2) NOT NULL,
	stock       INTEGER NOT NULL,
	is_active   BOOLEAN NOT NULL,
	created_at  DATETIME NOT NULL,
	updated_at  DATETIME NULL
)`

const mysqlSchema = `
CREATE TABLE IF NOT EXISTS coffees (
	id          CHAR(36) PRIMARY KEY,
	name        VARCHAR(200) NOT NULL,
	description VARCHAR(1000) NOT NULL,
	price       DECIMAL(10,2) NOT NULL,
	stock       INT NOT NULL,
	is_active   TINYINT(1) NOT NULL,
	created_at  DATETIME(6) NOT NULL,
	updated_at  DATETIME(6) NULL
)`

func getSQLiteDB(t *testing.T) *sqlx.DB {
	t.Helper()

	db, err := sqlx.Open("sqlite3", filepath.Join(t.TempDir(), "coffee.db"))
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })

	_, err = db.Exec(sqliteSchema)
	require.NoError(t, err)
	return db
}

func getMySQLDB(t *testing.T) *sqlx.DB {
	t.Helper()

	dsn := os.Getenv("MYSQL_DSN")
	if dsn == "" {
		dsn = "root:root@tcp(localhost:3306)/coffee?parseTime=true"
	}

	db, err := sqlx.Open("mysql", dsn)
	if err != nil {
		t.Skipf("MySQL not available: %v", err)
	}
	if err := db.Ping(); err != nil {
		db.Close()
		t.Skipf("MySQL not available: %v", err)
	}
	t.Cleanup(func() { db.Close() })

	_, err = db.Exec(mysqlSchema)
	require.NoError(t, err)
	_, err = db.Exec(`DELETE FROM coffees`)
	require.NoError(t, err)
	return db
}

func newCoffee(t *testing.T, name string) *domain.Coffee {
	t.Helper()
	c, err := domain.NewCoffee(name, "Strong coffee", decimal.RequireFromString("10.50"), 100)
	require.NoError(t, err)
	return c
}

func TestTableName(t *testing.T) {
	assert.Equal(t, "coffees", TableName[*domain.Coffee]())
	assert.Equal(t, "coffees", TableName[domain.Coffee]())
	assert.Equal(t, "coffees", NewCoffeeRepository(sqlx.NewDb(nil, "sqlite3")).Table())
}

func TestDialectFor(t *testing.T) {
	assert.Equal(t, "mysql", dialectFor("mysql"))
	assert.Equal(t, "postgres", dialectFor("postgres"))
	assert.Equal(t, "sqlite3", dialectFor("sqlite3"))
}

func TestCoffeeRepository_SQLite(t *testing.T) {
	runRepositoryContract(t, getSQLiteDB(t))
}

func TestCoffeeRepository_MySQL(t *testing.T) {
	runRepositoryContract(t, getMySQLDB(t))
}

func runRepositoryContract(t *testing.T, db *sqlx.DB) {
	repo := NewCoffeeRepository(db)
	ctx := context.Background()

	t.Run("add and get by id", func(t *testing.T) {
		coffee := newCoffee(t, "Espresso")

		added, err := repo.Add(ctx, coffee)
		require.NoError(t, err)
		assert.Same(t, coffee, added)

		found, err := repo.GetByID(ctx, coffee.ID())
		require.NoError(t, err)
		require.NotNil(t, found)

		assert.Equal(t, coffee.ID(), found.ID())
		assert.Equal(t, "Espresso", found.Name())
		assert.Equal(t, "Strong coffee", found.Description())
		assert.True(t, found.Price().Equal(decimal.RequireFromString("10.50")), "price %s", found.Price())
		assert.Equal(t, 100, found.Stock())
		assert.True(t, found.IsActive())
		assert.WithinDuration(t, coffee.CreatedAt(), found.CreatedAt(), time.Second)
		assert.Nil(t, found.UpdatedAt())
	})

	t.Run("get by unknown id is absent", func(t *testing.T) {
		found, err := repo.GetByID(ctx, "00000000-0000-0000-0000-000000000000")
		require.NoError(t, err)
		assert.Nil(t, found)
	})

	t.Run("update re-stamps and persists", func(t *testing.T) {
		coffee := newCoffee(t, "Latte")
		_, err := repo.Add(ctx, coffee)
		require.NoError(t, err)

		require.NoError(t, coffee.UpdateStock(42))
		require.NoError(t, repo.Update(ctx, coffee))

		found, err := repo.GetByID(ctx, coffee.ID())
		require.NoError(t, err)
		require.NotNil(t, found)
		assert.Equal(t, 42, found.Stock())
		require.NotNil(t, found.UpdatedAt())
		assert.WithinDuration(t, *coffee.UpdatedAt(), *found.UpdatedAt(), time.Second)
	})

	t.Run("exists and delete", func(t *testing.T) {
		coffee := newCoffee(t, "Mocha")
		_, err := repo.Add(ctx, coffee)
		require.NoError(t, err)

		ok, err := repo.Exists(ctx, coffee.ID())
		require.NoError(t, err)
		assert.True(t, ok)

		require.NoError(t, repo.Delete(ctx, coffee.ID()))

		ok, err = repo.Exists(ctx, coffee.ID())
		require.NoError(t, err)
		assert.False(t, ok)

		found, err := repo.GetByID(ctx, coffee.ID())
		require.NoError(t, err)
		assert.Nil(t, found)
	})

	t.Run("get all is stable", func(t *testing.T) {
		first, err := repo.GetAll(ctx)
		require.NoError(t, err)
		second, err := repo.GetAll(ctx)
		require.NoError(t, err)

		require.Len(t, first, 2)
		require.Len(t, second, 2)
		for i := range first {
			assert.Equal(t, first[i].ID(), second[i].ID())
		}
		assert.Equal(t, "Espresso", first[0].Name())
		assert.Equal(t, "Latte", first[1].Name())
	})

	t.Run("ping", func(t *testing.T) {
		assert.NoError(t, repo.Ping(ctx))
	})
}

func TestCoffeeRepository_CancelledContext(t *testing.T) {
	repo := NewCoffeeRepository(getSQLiteDB(t))

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := repo.GetAll(ctx)
	assert.ErrorIs(t, err, context.Canceled)
}
