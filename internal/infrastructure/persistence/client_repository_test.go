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

	"github.com/dangreenberg93/cin7-uploader/internal/domain/shared"
)

// newMockDB creates a gorm DB backed by a mocked SQL connection
func newMockDB(t *testing.T) (*gorm.DB, sqlmock.Sqlmock, *sql.DB) {
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

	return gormDB, mock, mockDB
}

func TestGormClientRepository_FindByID(t *testing.T) {
	t.Run("finds existing client", func(t *testing.T) {
		gormDB, mock, mockDB := newMockDB(t)
		defer mockDB.Close()
		repo := NewGormClientRepository(gormDB)

		clientID := uuid.New()
		rows := sqlmock.NewRows([]string{"id", "name", "active"}).
			AddRow(clientID, "Acme Retail", true)

		mock.ExpectQuery(`SELECT \* FROM "clients" WHERE id = \$1 ORDER BY .* LIMIT .*`).
			WithArgs(clientID, 1).
			WillReturnRows(rows)

		c, err := repo.FindByID(context.Background(), clientID)
		require.NoError(t, err)
		assert.Equal(t, clientID, c.ID)
		assert.Equal(t, "Acme Retail", c.Name)
		assert.True(t, c.Active)
		assert.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("returns ErrNotFound for missing client", func(t *testing.T) {
		gormDB, mock, mockDB := newMockDB(t)
		defer mockDB.Close()
		repo := NewGormClientRepository(gormDB)

		clientID := uuid.New()
		mock.ExpectQuery(`SELECT \* FROM "clients"`).
			WithArgs(clientID, 1).
			WillReturnRows(sqlmock.NewRows([]string{"id", "name", "active"}))

		_, err := repo.FindByID(context.Background(), clientID)
		assert.ErrorIs(t, err, shared.ErrNotFound)
	})
}

func TestGormClientRepository_FindActive(t *testing.T) {
	gormDB, mock, mockDB := newMockDB(t)
	defer mockDB.Close()
	repo := NewGormClientRepository(gormDB)

	rows := sqlmock.NewRows([]string{"id", "name", "active"}).
		AddRow(uuid.New(), "Acme Retail", true).
		AddRow(uuid.New(), "Birch Goods", true)

	mock.ExpectQuery(`SELECT \* FROM "clients" WHERE active = \$1 ORDER BY name ASC`).
		WithArgs(true).
		WillReturnRows(rows)

	clients, err := repo.FindActive(context.Background())
	require.NoError(t, err)
	require.Len(t, clients, 2)
	assert.Equal(t, "Acme Retail", clients[0].Name)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestGormSettingsRepository_FindByCredential(t *testing.T) {
	t.Run("returns ErrNotFound when settings missing", func(t *testing.T) {
		gormDB, mock, mockDB := newMockDB(t)
		defer mockDB.Close()
		repo := NewGormSettingsRepository(gormDB)

		credentialID := uuid.New()
		mock.ExpectQuery(`SELECT \* FROM "client_settings"`).
			WithArgs(credentialID, 1).
			WillReturnRows(sqlmock.NewRows([]string{"id"}))

		_, err := repo.FindByCredential(context.Background(), credentialID)
		assert.ErrorIs(t, err, shared.ErrNotFound)
	})
}

func TestGormTemplateRepository_DeleteMock(t *testing.T) {
	t.Run("returns ErrNotFound when nothing deleted", func(t *testing.T) {
		gormDB, mock, mockDB := newMockDB(t)
		defer mockDB.Close()
		repo := NewGormTemplateRepository(gormDB)

		templateID := uuid.New()
		mock.ExpectExec(`DELETE FROM "csv_mapping_templates"`).
			WithArgs(templateID).
			WillReturnResult(sqlmock.NewResult(0, 0))

		err := repo.Delete(context.Background(), templateID)
		assert.ErrorIs(t, err, shared.ErrNotFound)
	})

	t.Run("deletes existing template", func(t *testing.T) {
		gormDB, mock, mockDB := newMockDB(t)
		defer mockDB.Close()
		repo := NewGormTemplateRepository(gormDB)

		templateID := uuid.New()
		mock.ExpectExec(`DELETE FROM "csv_mapping_templates"`).
			WithArgs(templateID).
			WillReturnResult(sqlmock.NewResult(0, 1))

		err := repo.Delete(context.Background(), templateID)
		assert.NoError(t, err)
	})
}
