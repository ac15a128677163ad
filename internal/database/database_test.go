package database

import (
	"errors"
	"fmt"
	"testing"

	"quad/internal/config"
	"quad/internal/models"

	"github.com/jackc/pgx/v5/pgconn"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
)

func TestConfigurePool(t *testing.T) {
	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{})
	require.NoError(t, err)

	cfg := &config.Config{
		DBMaxOpenConns:           10,
		DBMaxIdleConns:           5,
		DBConnMaxLifetimeMinutes: 15,
	}
	require.NoError(t, configurePool(db, cfg))

	sqlDB, err := db.DB()
	require.NoError(t, err)
	assert.Equal(t, 10, sqlDB.Stats().MaxOpenConnections)
}

func TestOpen_MigratesOutsideProduction(t *testing.T) {
	db, err := Open(sqlite.Open(":memory:"), &config.Config{Env: "test", DBMaxOpenConns: 1})
	require.NoError(t, err)

	for _, m := range PersistentModels() {
		assert.True(t, db.Migrator().HasTable(m), fmt.Sprintf("%T", m))
	}

	p := models.Profile{FirstName: "A", LastName: "B", Email: "a@b.c"}
	require.NoError(t, db.Create(&p).Error)

	dup := models.Profile{FirstName: "A", LastName: "B", Email: "a@b.c"}
	err = db.Create(&dup).Error
	assert.True(t, IsUniqueViolation(err), "got %v", err)
}

func TestIsUniqueViolation(t *testing.T) {
	assert.False(t, IsUniqueViolation(nil))
	assert.True(t, IsUniqueViolation(gorm.ErrDuplicatedKey))
	assert.True(t, IsUniqueViolation(fmt.Errorf("insert: %w", &pgconn.PgError{Code: "23505"})))
	assert.False(t, IsUniqueViolation(&pgconn.PgError{Code: "23503"}))
	assert.False(t, IsUniqueViolation(errors.New("other")))
}

func TestDSN(t *testing.T) {
	cfg := &config.Config{DBHost: "db", DBPort: "5432", DBUser: "u", DBPassword: "p", DBName: "quad"}
	assert.Equal(t, "host=db port=5432 user=u password=p dbname=quad sslmode=disable", DSN(cfg))
}
