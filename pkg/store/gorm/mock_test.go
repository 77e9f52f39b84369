package gorm

import (
	"errors"
	"testing"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"github.com/indrajit912/vaultsafe/pkg/model"
	"github.com/indrajit912/vaultsafe/pkg/store"
)

// newMockStore wires the store to sqlmock through the postgres dialect,
// which the SQLite-backed tests never exercise.
func newMockStore(t *testing.T) (*Store, sqlmock.Sqlmock) {
	t.Helper()

	mockDB, mock, err := sqlmock.New()
	require.NoError(t, err)

	gdb, err := gorm.Open(
		postgres.New(postgres.Config{
			Conn:                 mockDB,
			PreferSimpleProtocol: true,
		}),
		&gorm.Config{
			Logger: logger.Default.LogMode(logger.Silent),
		},
	)
	require.NoError(t, err)

	t.Cleanup(func() {
		assert.NoError(t, mock.ExpectationsWereMet())
		_ = mockDB.Close()
	})

	return NewStore(gdb), mock
}

func TestMockCheckConnectivity(t *testing.T) {
	s, mock := newMockStore(t)

	mock.ExpectExec(`SELECT 1`).WillReturnResult(sqlmock.NewResult(0, 0))
	assert.NoError(t, s.CheckConnectivity())
}

func TestMockFetchVaultNotFound(t *testing.T) {
	s, mock := newMockStore(t)

	mock.ExpectQuery(`SELECT .* FROM "vault"`).
		WillReturnRows(sqlmock.NewRows([]string{"id"}))

	_, err := s.FetchVault()
	assert.ErrorIs(t, err, store.ErrVaultNotFound)
}

func TestMockCountCredentials(t *testing.T) {
	s, mock := newMockStore(t)

	mock.ExpectQuery(`SELECT count\(\*\) FROM "credential"`).
		WillReturnRows(sqlmock.NewRows([]string{"count"}).AddRow(3))

	count, err := s.CountCredentials()
	require.NoError(t, err)
	assert.Equal(t, int64(3), count)
}

func TestMockReserveMnemonicsTranslatesDuplicate(t *testing.T) {
	s, mock := newMockStore(t)

	// The postgres server reports alias collisions with this message; the
	// registry must surface them as ErrDuplicateMnemonic.
	mock.ExpectBegin()
	mock.ExpectQuery(`INSERT INTO "mnemonic"`).
		WillReturnError(errors.New(`ERROR: duplicate key value violates unique constraint "idx_mnemonic_name" (SQLSTATE 23505)`))
	mock.ExpectRollback()

	err := s.ReserveMnemonics(7, []string{"g1"})
	assert.ErrorIs(t, err, store.ErrDuplicateMnemonic)
}

func TestMockDeleteCredentialCascades(t *testing.T) {
	s, mock := newMockStore(t)

	mock.ExpectBegin()
	mock.ExpectExec(`DELETE FROM "mnemonic" WHERE credential_id = \$1`).
		WithArgs(7).
		WillReturnResult(sqlmock.NewResult(0, 2))
	mock.ExpectExec(`DELETE FROM "credential"`).
		WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectCommit()

	err := s.DeleteCredential(&model.Credential{ID: 7})
	assert.NoError(t, err)
}
