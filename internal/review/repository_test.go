package review

import (
	"context"
	"testing"
	"time"

	"gymconnect/internal/apperr"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/jmoiron/sqlx"
	"github.com/lib/pq"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newMockRepo(t *testing.T) (Repository, sqlmock.Sqlmock) {
	t.Helper()
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })

	return NewRepository(sqlx.NewDb(db, "sqlmock")), mock
}

func TestInsert(t *testing.T) {
	repo, mock := newMockRepo(t)
	now := time.Now()
	bookingID := "b1"

	mock.ExpectExec(`INSERT INTO reviews`).
		WithArgs("r1", "user-1", "trainer-1", bookingID, 5, nil, now).
		WillReturnResult(sqlmock.NewResult(0, 1))

	err := repo.Insert(context.Background(), &Review{
		ID: "r1", ReviewerID: "user-1", ReviewedID: "trainer-1",
		BookingID: &bookingID, Rating: 5, CreatedAt: now,
	})
	require.NoError(t, err)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestInsertDuplicateIsNotEligible(t *testing.T) {
	repo, mock := newMockRepo(t)

	mock.ExpectExec(`INSERT INTO reviews`).
		WillReturnError(&pq.Error{Code: "23505", Message: "duplicate key value violates unique constraint"})

	err := repo.Insert(context.Background(), &Review{ID: "r1"})
	assert.ErrorIs(t, err, apperr.ErrBookingNotEligible)
}

func TestRatingsFor(t *testing.T) {
	repo, mock := newMockRepo(t)

	mock.ExpectQuery(`SELECT rating FROM reviews WHERE reviewed_id = \$1`).
		WithArgs("trainer-1").
		WillReturnRows(sqlmock.NewRows([]string{"rating"}).AddRow(5).AddRow(3).AddRow(4))

	ratings, err := repo.RatingsFor(context.Background(), "trainer-1")
	require.NoError(t, err)
	assert.Equal(t, []int{5, 3, 4}, ratings)
}

func TestListFor(t *testing.T) {
	repo, mock := newMockRepo(t)
	now := time.Now()

	mock.ExpectQuery(`SELECT (.+) FROM reviews WHERE reviewed_id = \$1 ORDER BY created_at DESC`).
		WithArgs("trainer-1").
		WillReturnRows(sqlmock.NewRows([]string{"id", "reviewer_id", "reviewed_id", "booking_id", "rating", "comment", "created_at"}).
			AddRow("r2", "user-2", "trainer-1", nil, 4, "solid", now).
			AddRow("r1", "user-1", "trainer-1", "b1", 5, nil, now.Add(-time.Hour)))

	reviews, err := repo.ListFor(context.Background(), "trainer-1")
	require.NoError(t, err)
	require.Len(t, reviews, 2)
	assert.Nil(t, reviews[0].BookingID)
	assert.Equal(t, "solid", *reviews[0].Comment)
	assert.Equal(t, "b1", *reviews[1].BookingID)
}
