package persistence

import (
	"context"
	"database/sql"
	"errors"
	"testing"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/pokedex/backend/internal/infrastructure/config"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
)

// newMockGormDB opens a GORM postgres dialector on top of sqlmock
func newMockGormDB(t *testing.T) (*gorm.DB, sqlmock.Sqlmock, *sql.DB) {
	mockDB, mock, err := sqlmock.New(sqlmock.MonitorPingsOption(true))
	require.NoError(t, err)

	dialector := postgres.New(postgres.Config{
		Conn:       mockDB,
		DriverName: "postgres",
	})

	gormDB, err := gorm.Open(dialector, &gorm.Config{
		SkipDefaultTransaction: true,
		DisableAutomaticPing:   true,
	})
	require.NoError(t, err)

	return gormDB, mock, mockDB
}

func TestDatabase_PingContext(t *testing.T) {
	gormDB, mock, mockDB := newMockGormDB(t)
	defer mockDB.Close()
	db := &Database{DB: gormDB}

	mock.ExpectPing()

	assert.NoError(t, db.PingContext(context.Background()))
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestDatabase_PingContext_Error(t *testing.T) {
	gormDB, mock, mockDB := newMockGormDB(t)
	defer mockDB.Close()
	db := &Database{DB: gormDB}

	mock.ExpectPing().WillReturnError(errors.New("connection refused"))

	err := db.PingContext(context.Background())
	assert.EqualError(t, err, "connection refused")
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestDatabase_SQLDB(t *testing.T) {
	gormDB, _, mockDB := newMockGormDB(t)
	defer mockDB.Close()
	db := &Database{DB: gormDB}

	sqlDB, err := db.SQLDB()
	require.NoError(t, err)
	assert.Same(t, mockDB, sqlDB)
}

func TestDatabase_Close(t *testing.T) {
	gormDB, mock, _ := newMockGormDB(t)
	db := &Database{DB: gormDB}

	mock.ExpectClose()

	assert.NoError(t, db.Close())
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestConfigurePool(t *testing.T) {
	_, _, mockDB := newMockGormDB(t)
	defer mockDB.Close()

	configurePool(mockDB, &config.DatabaseConfig{MaxOpenConns: 7, MaxIdleConns: 3})

	assert.Equal(t, 7, mockDB.Stats().MaxOpenConnections)
}
