package repository

import (
	"context"
	"testing"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLegacyIDMapScansOnlyLinkedActiveRows(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()

	mock.ExpectQuery("SELECT id, legacy_id FROM users WHERE legacy_id IS NOT NULL AND active = 1").
		WillReturnRows(sqlmock.NewRows([]string{"id", "legacy_id"}).
			AddRow(1, "77").
			AddRow(2, "78"))

	m, err := NewUserRepo(db).LegacyIDMap(context.Background())
	require.NoError(t, err)
	assert.Equal(t, map[string]uint64{"77": 1, "78": 2}, m)
	assert.NoError(t, mock.ExpectationsWereMet())
}

// The backfill statement must not overwrite a legacy id that is already
// set; the condition lives in the SQL itself.
func TestSetLegacyIDIsSetOnce(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()

	mock.ExpectBegin()
	mock.ExpectExec("UPDATE users SET legacy_id = (.+) WHERE id = (.+) AND legacy_id IS NULL").
		WithArgs("77", 1).
		WillReturnResult(sqlmock.NewResult(0, 0))
	mock.ExpectCommit()

	tx, err := db.Begin()
	require.NoError(t, err)
	require.NoError(t, NewUserRepo(db).SetLegacyIDTx(context.Background(), tx, 1, "77"))
	require.NoError(t, tx.Commit())
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestFindByEmailNormalizesAndMisses(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()

	mock.ExpectBegin()
	mock.ExpectQuery("SELECT (.+) FROM users WHERE email").
		WithArgs("ana@example.com").
		WillReturnRows(sqlmock.NewRows([]string{"id"}))
	mock.ExpectCommit()

	tx, err := db.Begin()
	require.NoError(t, err)
	u, err := NewUserRepo(db).FindByEmailTx(context.Background(), tx, "  Ana@Example.COM ")
	require.NoError(t, err)
	assert.Nil(t, u)
	require.NoError(t, tx.Commit())
	assert.NoError(t, mock.ExpectationsWereMet())
}
