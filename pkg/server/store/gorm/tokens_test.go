package gorm

import (
	"database/sql"
	"testing"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"github.com/alqor-ug/qlued-go/pkg/server/store"
)

// newMockDB wraps an sqlmock connection with GORM for store testing.
func newMockDB(t *testing.T) (*gorm.DB, sqlmock.Sqlmock) {
	t.Helper()

	mockDB, mock, err := sqlmock.New()
	require.NoError(t, err)
	t.Cleanup(func() { _ = mockDB.Close() })

	db, err := gorm.Open(
		postgres.New(postgres.Config{
			Conn:                 mockDB,
			PreferSimpleProtocol: true,
		}),
		&gorm.Config{
			Logger: logger.Default.LogMode(logger.Silent),
		},
	)
	require.NoError(t, err)
	return db, mock
}

func TestFetchByKey(t *testing.T) {
	db, mock := newMockDB(t)

	uuidHex := "0123456789abcdef01234567"
	tokenRows := sqlmock.NewRows([]string{"id", "key", "user_id", "is_active", "uuid_hex"}).
		AddRow(1, "good-key", 7, true, uuidHex)
	mock.ExpectQuery(`SELECT .* FROM "tokens"`).
		WithArgs("good-key").
		WillReturnRows(tokenRows)

	userRows := sqlmock.NewRows([]string{"id", "username"}).AddRow(7, "alice")
	mock.ExpectQuery(`SELECT .* FROM "users"`).
		WithArgs(7).
		WillReturnRows(userRows)

	token, err := NewTokensStore(db).FetchByKey("good-key")
	require.NoError(t, err)
	assert.Equal(t, "good-key", token.Key)
	assert.Equal(t, "alice", token.Username)
	assert.Equal(t, uuidHex, token.UUIDHex)
	assert.True(t, token.IsActive)

	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestFetchByKeyNotFound(t *testing.T) {
	db, mock := newMockDB(t)

	mock.ExpectQuery(`SELECT .* FROM "tokens"`).
		WithArgs("nope").
		WillReturnError(gorm.ErrRecordNotFound)

	_, err := NewTokensStore(db).FetchByKey("nope")
	assert.ErrorIs(t, err, store.ErrTokenNotFound)
}

func TestFetchByKeyDatabaseError(t *testing.T) {
	db, mock := newMockDB(t)

	mock.ExpectQuery(`SELECT .* FROM "tokens"`).
		WithArgs("good-key").
		WillReturnError(sql.ErrConnDone)

	_, err := NewTokensStore(db).FetchByKey("good-key")
	require.Error(t, err)
	assert.NotErrorIs(t, err, store.ErrTokenNotFound)
}
