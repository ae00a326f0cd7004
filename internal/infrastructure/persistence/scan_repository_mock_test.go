package persistence

import (
	"context"
	"database/sql"
	"testing"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
)

// newMockScanRepository creates a GormScanRepository with a mocked SQL connection
func newMockScanRepository(t *testing.T) (*GormScanRepository, sqlmock.Sqlmock, *sql.DB) {
	mockDB, mock, err := sqlmock.New()
	require.NoError(t, err)

	dialector := postgres.New(postgres.Config{
		Conn:       mockDB,
		DriverName: "postgres",
	})

	gormDB, err := gorm.Open(dialector, &gorm.Config{
		SkipDefaultTransaction: true,
	})
	require.NoError(t, err)

	return NewGormScanRepository(gormDB), mock, mockDB
}

func TestGormScanRepository_FindByIDQueryError(t *testing.T) {
	repo, mock, mockDB := newMockScanRepository(t)
	defer mockDB.Close()

	mock.ExpectQuery(`SELECT \* FROM "scans"`).
		WillReturnError(sql.ErrConnDone)

	_, err := repo.FindByID(context.Background(), uuid.New())
	assert.ErrorIs(t, err, sql.ErrConnDone)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestGormScanRepository_FindRecentByOrderNameQueryError(t *testing.T) {
	repo, mock, mockDB := newMockScanRepository(t)
	defer mockDB.Close()

	mock.ExpectQuery(`SELECT \* FROM "scans"`).
		WillReturnError(sql.ErrConnDone)

	_, err := repo.FindRecentByOrderName(context.Background(), "#100", 0)
	assert.ErrorIs(t, err, sql.ErrConnDone)
}
