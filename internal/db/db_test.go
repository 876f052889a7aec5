package db

import (
	"context"
	"errors"
	"fmt"
	"testing"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/jmoiron/sqlx"
	"github.com/lib/pq"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func setupMock(t *testing.T) (*sqlx.DB, sqlmock.Sqlmock) {
	t.Helper()
	conn, mock, err := sqlmock.New()
	require.NoError(t, err)
	sqlxDB := sqlx.NewDb(conn, "sqlmock")
	t.Cleanup(func() { sqlxDB.Close() })
	return sqlxDB, mock
}

func TestWithTransaction_Commit(t *testing.T) {
	database, mock := setupMock(t)

	mock.ExpectBegin()
	mock.ExpectExec("UPDATE bookings").WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectCommit()

	err := WithTransaction(context.Background(), database, nil, func(tx *sqlx.Tx) error {
		_, err := tx.Exec("UPDATE bookings SET status = 'confirmed'")
		return err
	})

	require.NoError(t, err)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestWithTransaction_RollbackOnError(t *testing.T) {
	database, mock := setupMock(t)
	boom := errors.New("boom")

	mock.ExpectBegin()
	mock.ExpectRollback()

	err := WithTransaction(context.Background(), database, nil, func(tx *sqlx.Tx) error {
		return boom
	})

	assert.ErrorIs(t, err, boom)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestWithTransaction_RollbackOnPanic(t *testing.T) {
	database, mock := setupMock(t)

	mock.ExpectBegin()
	mock.ExpectRollback()

	assert.Panics(t, func() {
		_ = WithTransaction(context.Background(), database, nil, func(tx *sqlx.Tx) error {
			panic("unexpected")
		})
	})
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestWithTransaction_BeginFails(t *testing.T) {
	database, mock := setupMock(t)

	mock.ExpectBegin().WillReturnError(errors.New("too many connections"))

	called := false
	err := WithTransaction(context.Background(), database, nil, func(tx *sqlx.Tx) error {
		called = true
		return nil
	})

	assert.ErrorContains(t, err, "begin transaction")
	assert.False(t, called)
}

func TestWithTransaction_CommitFails(t *testing.T) {
	database, mock := setupMock(t)

	mock.ExpectBegin()
	mock.ExpectCommit().WillReturnError(errors.New("connection reset"))

	err := WithTransaction(context.Background(), database, nil, func(tx *sqlx.Tx) error {
		return nil
	})

	assert.ErrorContains(t, err, "commit transaction")
}

func TestExists(t *testing.T) {
	database, mock := setupMock(t)

	mock.ExpectQuery("SELECT EXISTS").WithArgs("p-1").
		WillReturnRows(sqlmock.NewRows([]string{"exists"}).AddRow(true))

	ok, err := Exists(context.Background(), database, "SELECT EXISTS(SELECT 1 FROM profiles WHERE id = $1)", "p-1")
	require.NoError(t, err)
	assert.True(t, ok)
}

func TestErrorClassification(t *testing.T) {
	exclusion := fmt.Errorf("insert booking: %w", &pq.Error{Code: "23P01"})
	unique := &pq.Error{Code: "23505"}
	serialization := &pq.Error{Code: "40001"}
	deadlock := &pq.Error{Code: "40P01"}

	assert.True(t, IsExclusionViolation(exclusion))
	assert.False(t, IsExclusionViolation(unique))
	assert.True(t, IsUniqueViolation(unique))
	assert.True(t, IsForeignKeyViolation(&pq.Error{Code: "23503"}))
	assert.False(t, IsForeignKeyViolation(unique))
	assert.True(t, IsRetryable(serialization))
	assert.True(t, IsRetryable(deadlock))
	assert.False(t, IsRetryable(errors.New("plain")))
}
