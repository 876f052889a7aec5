package booking

import (
	"context"
	"errors"
	"fmt"
	"testing"
	"time"

	"gymconnect/internal/apperr"
	"gymconnect/internal/auth"
	"gymconnect/internal/slot"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

type MockTx struct {
	mock.Mock
}

func (m *MockTx) ActiveForTrainerOn(ctx context.Context, trainerID string, date slot.Date) ([]Booking, error) {
	args := m.Called(ctx, trainerID, date)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]Booking), args.Error(1)
}

func (m *MockTx) LockTrainerDay(ctx context.Context, trainerID string, date slot.Date) error {
	return m.Called(ctx, trainerID, date).Error(0)
}

func (m *MockTx) Insert(ctx context.Context, b *Booking) error {
	return m.Called(ctx, b).Error(0)
}

type MockRepository struct {
	mock.Mock
	Tx *MockTx
}

func (m *MockRepository) WithTransaction(ctx context.Context, fn func(tx TxRepository) error) error {
	m.Called(ctx)
	return fn(m.Tx)
}

func (m *MockRepository) ActiveForTrainerOn(ctx context.Context, trainerID string, date slot.Date) ([]Booking, error) {
	args := m.Called(ctx, trainerID, date)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]Booking), args.Error(1)
}

func (m *MockRepository) GetByID(ctx context.Context, id string) (*Booking, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*Booking), args.Error(1)
}

func (m *MockRepository) ListFor(ctx context.Context, filter ListFilter) ([]Booking, error) {
	args := m.Called(ctx, filter)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]Booking), args.Error(1)
}

func (m *MockRepository) CompareAndSetStatus(ctx context.Context, id string, from, to Status, now time.Time) error {
	return m.Called(ctx, id, from, to, now).Error(0)
}

func (m *MockRepository) ListElapsedConfirmed(ctx context.Context, now time.Time) ([]Booking, error) {
	args := m.Called(ctx, now)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]Booking), args.Error(1)
}

func (m *MockRepository) StatsByDay(ctx context.Context, trainerID string, from, to slot.Date) ([]DayStats, error) {
	args := m.Called(ctx, trainerID, from, to)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]DayStats), args.Error(1)
}

var (
	fixedNow = time.Date(2026, time.October, 15, 12, 0, 0, 0, time.UTC)

	member      = auth.Identity{ProfileID: "user-1", Role: auth.RoleUser}
	otherMember = auth.Identity{ProfileID: "user-2", Role: auth.RoleUser}
	coach       = auth.Identity{ProfileID: "trainer-1", Role: auth.RoleTrainer}
	otherCoach  = auth.Identity{ProfileID: "trainer-2", Role: auth.RoleTrainer}
	gymOwner    = auth.Identity{ProfileID: "gym-1", Role: auth.RoleGymOwner}
)

func newTestService(repo *MockRepository) *service {
	return &service{
		repo:    repo,
		checker: NewConflictChecker(mondayWindows(window(clock(8, 0), clock(12, 0), true))),
		now:     func() time.Time { return fixedNow },
	}
}

func newMockRepository() *MockRepository {
	return &MockRepository{Tx: new(MockTx)}
}

func mondayRequest(r slot.Range) CreateRequest {
	return CreateRequest{TrainerID: "trainer-1", Date: monday, StartTime: r.Start, EndTime: r.End}
}

func TestCreate(t *testing.T) {
	repo := newMockRepository()
	svc := newTestService(repo)

	repo.On("WithTransaction", mock.Anything).Return()
	repo.Tx.On("LockTrainerDay", mock.Anything, "trainer-1", monday).Return(nil)
	repo.Tx.On("ActiveForTrainerOn", mock.Anything, "trainer-1", monday).Return([]Booking{}, nil)
	repo.Tx.On("Insert", mock.Anything, mock.MatchedBy(func(b *Booking) bool {
		return b.Status == StatusPending && b.UserID == "user-1" && b.SessionType == SessionPersonal
	})).Return(nil)

	price := int64(4500)
	req := mondayRequest(rng(9, 0, 10, 0))
	req.PriceCents = &price

	b, err := svc.Create(context.Background(), member, req)
	require.NoError(t, err)
	assert.NotEmpty(t, b.ID)
	assert.Equal(t, StatusPending, b.Status)
	assert.Equal(t, "trainer-1", b.TrainerID)
	assert.Equal(t, &price, b.PriceCents)
	assert.Equal(t, fixedNow, b.CreatedAt)
	assert.Equal(t, fixedNow, b.UpdatedAt)

	repo.AssertExpectations(t)
	repo.Tx.AssertExpectations(t)
}

func TestCreateInvalidRangeBeforeStorage(t *testing.T) {
	for _, r := range []slot.Range{rng(10, 0, 9, 0), rng(9, 0, 9, 0)} {
		repo := newMockRepository()
		svc := newTestService(repo)

		_, err := svc.Create(context.Background(), member, mondayRequest(r))
		assert.ErrorIs(t, err, apperr.ErrInvalidRange, r)
		repo.AssertNotCalled(t, "WithTransaction", mock.Anything)
	}
}

func TestCreateRejections(t *testing.T) {
	tests := []struct {
		name  string
		actor auth.Identity
		req   CreateRequest
		want  error
	}{
		{name: "trainer cannot request", actor: coach, req: mondayRequest(rng(9, 0, 10, 0)), want: apperr.ErrUnauthorized},
		{name: "gym owner cannot request", actor: gymOwner, req: mondayRequest(rng(9, 0, 10, 0)), want: apperr.ErrUnauthorized},
		{
			name:  "self booking",
			actor: auth.Identity{ProfileID: "trainer-1", Role: auth.RoleUser},
			req:   mondayRequest(rng(9, 0, 10, 0)),
			want:  apperr.ErrUnauthorized,
		},
		{
			name:  "missing date",
			actor: member,
			req:   CreateRequest{TrainerID: "trainer-1", StartTime: clock(9, 0), EndTime: clock(10, 0)},
			want:  apperr.ErrInvalidRequest,
		},
		{
			name:  "unknown session type",
			actor: member,
			req: func() CreateRequest {
				r := mondayRequest(rng(9, 0, 10, 0))
				r.SessionType = "yoga"
				return r
			}(),
			want: apperr.ErrInvalidRequest,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			repo := newMockRepository()
			svc := newTestService(repo)

			_, err := svc.Create(context.Background(), tt.actor, tt.req)
			assert.ErrorIs(t, err, tt.want)
			repo.AssertNotCalled(t, "WithTransaction", mock.Anything)
		})
	}
}

func TestCreateConflictNeverInserts(t *testing.T) {
	tests := []struct {
		name     string
		r        slot.Range
		existing []Booking
		want     error
	}{
		{name: "outside availability", r: rng(12, 0, 13, 0), want: apperr.ErrOutsideAvailability},
		{
			name:     "slot taken",
			r:        rng(9, 30, 10, 30),
			existing: []Booking{existing("b0", rng(9, 0, 10, 0), StatusPending)},
			want:     apperr.ErrSlotConflict,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			repo := newMockRepository()
			svc := newTestService(repo)

			repo.On("WithTransaction", mock.Anything).Return()
			repo.Tx.On("LockTrainerDay", mock.Anything, "trainer-1", monday).Return(nil)
			repo.Tx.On("ActiveForTrainerOn", mock.Anything, "trainer-1", monday).Return(tt.existing, nil).Maybe()

			_, err := svc.Create(context.Background(), member, mondayRequest(tt.r))
			assert.ErrorIs(t, err, tt.want)
			repo.Tx.AssertNotCalled(t, "Insert", mock.Anything, mock.Anything)
		})
	}
}

func TestCreateStorageFailure(t *testing.T) {
	repo := newMockRepository()
	svc := newTestService(repo)

	repo.On("WithTransaction", mock.Anything).Return()
	repo.Tx.On("LockTrainerDay", mock.Anything, "trainer-1", monday).Return(errors.New("connection refused"))

	_, err := svc.Create(context.Background(), member, mondayRequest(rng(9, 0, 10, 0)))
	assert.ErrorIs(t, err, apperr.ErrStorageFailure)
	repo.Tx.AssertNotCalled(t, "Insert", mock.Anything, mock.Anything)
}

func TestCreateExclusionViolationIsConflict(t *testing.T) {
	repo := newMockRepository()
	svc := newTestService(repo)

	repo.On("WithTransaction", mock.Anything).Return()
	repo.Tx.On("LockTrainerDay", mock.Anything, "trainer-1", monday).Return(nil)
	repo.Tx.On("ActiveForTrainerOn", mock.Anything, "trainer-1", monday).Return([]Booking{}, nil)
	repo.Tx.On("Insert", mock.Anything, mock.Anything).Return(apperr.Wrap(apperr.CodeSlotConflict, "overlap", errors.New("pq: 23P01")))

	_, err := svc.Create(context.Background(), member, mondayRequest(rng(9, 0, 10, 0)))
	assert.ErrorIs(t, err, apperr.ErrSlotConflict)
}

func pendingBooking() *Booking {
	return &Booking{
		ID: "b1", UserID: "user-1", TrainerID: "trainer-1", Date: monday,
		StartTime: clock(9, 0), EndTime: clock(10, 0), Status: StatusPending,
	}
}

func TestTransitionAuthorisationGrid(t *testing.T) {
	actors := map[string]auth.Identity{
		"user":    member,
		"trainer": coach,
	}

	for _, from := range allStatuses {
		for _, to := range allStatuses {
			for name, actor := range actors {
				t.Run(fmt.Sprintf("%s_%s_to_%s", name, from, to), func(t *testing.T) {
					repo := newMockRepository()
					svc := newTestService(repo)

					b := pendingBooking()
					b.Status = from
					repo.On("GetByID", mock.Anything, "b1").Return(b, nil)
					repo.On("CompareAndSetStatus", mock.Anything, "b1", from, to, fixedNow).Return(nil).Maybe()

					got, err := svc.Transition(context.Background(), actor, "b1", to)

					party, ok := Edge(from, to)
					switch {
					case !ok:
						assert.ErrorIs(t, err, apperr.ErrInvalidTransition)
					case !party.Allows(b.PartyOf(actor.ProfileID)):
						assert.ErrorIs(t, err, apperr.ErrUnauthorized)
					default:
						require.NoError(t, err)
						assert.Equal(t, to, got.Status)
						assert.Equal(t, fixedNow, got.UpdatedAt)
						repo.AssertCalled(t, "CompareAndSetStatus", mock.Anything, "b1", from, to, fixedNow)
						return
					}
					repo.AssertNotCalled(t, "CompareAndSetStatus", mock.Anything, mock.Anything, mock.Anything, mock.Anything, mock.Anything)
				})
			}
		}
	}
}

func TestTransitionRejections(t *testing.T) {
	t.Run("not found", func(t *testing.T) {
		repo := newMockRepository()
		svc := newTestService(repo)
		repo.On("GetByID", mock.Anything, "missing").Return(nil, apperr.New(apperr.CodeNotFound, "booking not found"))

		_, err := svc.Transition(context.Background(), coach, "missing", StatusConfirmed)
		assert.ErrorIs(t, err, apperr.ErrNotFound)
	})

	t.Run("outsider", func(t *testing.T) {
		for _, actor := range []auth.Identity{otherMember, otherCoach} {
			repo := newMockRepository()
			svc := newTestService(repo)
			repo.On("GetByID", mock.Anything, "b1").Return(pendingBooking(), nil)

			_, err := svc.Transition(context.Background(), actor, "b1", StatusCancelled)
			assert.ErrorIs(t, err, apperr.ErrUnauthorized)
		}
	})

	t.Run("gym owner", func(t *testing.T) {
		repo := newMockRepository()
		svc := newTestService(repo)

		_, err := svc.Transition(context.Background(), gymOwner, "b1", StatusCancelled)
		assert.ErrorIs(t, err, apperr.ErrUnauthorized)
		repo.AssertNotCalled(t, "GetByID", mock.Anything, mock.Anything)
	})

	t.Run("unknown target status", func(t *testing.T) {
		repo := newMockRepository()
		svc := newTestService(repo)

		_, err := svc.Transition(context.Background(), coach, "b1", Status("archived"))
		assert.ErrorIs(t, err, apperr.ErrInvalidTransition)
	})

	t.Run("lost race", func(t *testing.T) {
		repo := newMockRepository()
		svc := newTestService(repo)
		repo.On("GetByID", mock.Anything, "b1").Return(pendingBooking(), nil)
		repo.On("CompareAndSetStatus", mock.Anything, "b1", StatusPending, StatusConfirmed, fixedNow).Return(ErrStatusChanged)

		_, err := svc.Transition(context.Background(), coach, "b1", StatusConfirmed)
		assert.ErrorIs(t, err, apperr.ErrInvalidTransition)
	})

	t.Run("storage failure", func(t *testing.T) {
		repo := newMockRepository()
		svc := newTestService(repo)
		repo.On("GetByID", mock.Anything, "b1").Return(pendingBooking(), nil)
		repo.On("CompareAndSetStatus", mock.Anything, "b1", StatusPending, StatusCancelled, fixedNow).Return(errors.New("broken pipe"))

		_, err := svc.Transition(context.Background(), member, "b1", StatusCancelled)
		assert.ErrorIs(t, err, apperr.ErrStorageFailure)
	})
}

func TestGet(t *testing.T) {
	repo := newMockRepository()
	svc := newTestService(repo)
	repo.On("GetByID", mock.Anything, "b1").Return(pendingBooking(), nil)

	b, err := svc.Get(context.Background(), coach, "b1")
	require.NoError(t, err)
	assert.Equal(t, "b1", b.ID)

	_, err = svc.Get(context.Background(), otherMember, "b1")
	assert.ErrorIs(t, err, apperr.ErrUnauthorized)
}

func TestListForEmpty(t *testing.T) {
	repo := newMockRepository()
	svc := newTestService(repo)
	filter := ListFilter{ProfileID: "user-9"}
	repo.On("ListFor", mock.Anything, filter).Return(nil, nil)

	bookings, err := svc.ListFor(context.Background(), filter)
	require.NoError(t, err)
	assert.NotNil(t, bookings)
	assert.Empty(t, bookings)
}

func TestCompleteElapsed(t *testing.T) {
	repo := newMockRepository()
	svc := newTestService(repo)

	elapsed := []Booking{
		{ID: "b1", Status: StatusConfirmed},
		{ID: "b2", Status: StatusConfirmed},
		{ID: "b3", Status: StatusConfirmed},
	}
	repo.On("ListElapsedConfirmed", mock.Anything, fixedNow).Return(elapsed, nil)
	repo.On("CompareAndSetStatus", mock.Anything, "b1", StatusConfirmed, StatusCompleted, fixedNow).Return(nil)
	repo.On("CompareAndSetStatus", mock.Anything, "b2", StatusConfirmed, StatusCompleted, fixedNow).Return(ErrStatusChanged)
	repo.On("CompareAndSetStatus", mock.Anything, "b3", StatusConfirmed, StatusCompleted, fixedNow).Return(nil)

	n, err := svc.CompleteElapsed(context.Background(), fixedNow)
	require.NoError(t, err)
	assert.Equal(t, 2, n)
	repo.AssertExpectations(t)
}

func TestCompleteElapsedStopsOnStorageError(t *testing.T) {
	repo := newMockRepository()
	svc := newTestService(repo)

	repo.On("ListElapsedConfirmed", mock.Anything, fixedNow).Return([]Booking{{ID: "b1"}, {ID: "b2"}}, nil)
	repo.On("CompareAndSetStatus", mock.Anything, "b1", StatusConfirmed, StatusCompleted, fixedNow).Return(errors.New("timeout"))

	n, err := svc.CompleteElapsed(context.Background(), fixedNow)
	assert.ErrorIs(t, err, apperr.ErrStorageFailure)
	assert.Zero(t, n)
	repo.AssertNotCalled(t, "CompareAndSetStatus", mock.Anything, "b2", mock.Anything, mock.Anything, mock.Anything)
}

func TestStatsByDay(t *testing.T) {
	repo := newMockRepository()
	svc := newTestService(repo)
	from := slot.NewDate(2026, time.October, 1)
	to := slot.NewDate(2026, time.October, 31)

	repo.On("StatsByDay", mock.Anything, "trainer-1", from, to).
		Return([]DayStats{{Day: "2026-10-19", Pending: 1, Confirmed: 2}}, nil)

	stats, err := svc.StatsByDay(context.Background(), coach, from, to)
	require.NoError(t, err)
	assert.Len(t, stats, 1)

	_, err = svc.StatsByDay(context.Background(), member, from, to)
	assert.ErrorIs(t, err, apperr.ErrUnauthorized)

	_, err = svc.StatsByDay(context.Background(), coach, to, from)
	assert.ErrorIs(t, err, apperr.ErrInvalidRange)

	_, err = svc.StatsByDay(context.Background(), coach, slot.NewDate(2024, time.January, 1), to)
	assert.ErrorIs(t, err, apperr.ErrInvalidRequest)
}
