package availability

import (
	"context"
	"fmt"
	"sort"
	"time"

	"gymconnect/internal/apperr"
	"gymconnect/internal/auth"
	"gymconnect/internal/logger"

	"github.com/google/uuid"
)

type Service interface {
	WindowsFor(ctx context.Context, trainerID string, day time.Weekday) ([]Window, error)
	ListForTrainer(ctx context.Context, trainerID string) ([]Window, error)
	ReplaceDay(ctx context.Context, actor auth.Identity, day int, inputs []WindowInput) ([]Window, error)
}

type service struct {
	repo Repository
	now  func() time.Time
}

func NewService(repo Repository) Service {
	return &service{
		repo: repo,
		now:  time.Now,
	}
}

func (s *service) WindowsFor(ctx context.Context, trainerID string, day time.Weekday) ([]Window, error) {
	windows, err := s.repo.WindowsFor(ctx, trainerID, day)
	if err != nil {
		return nil, apperr.Storage(err)
	}
	return windows, nil
}

func (s *service) ListForTrainer(ctx context.Context, trainerID string) ([]Window, error) {
	windows, err := s.repo.ListForTrainer(ctx, trainerID)
	if err != nil {
		return nil, apperr.Storage(err)
	}
	return windows, nil
}

// ReplaceDay swaps every window the acting trainer has on day for inputs.
// Existing bookings are left untouched.
func (s *service) ReplaceDay(ctx context.Context, actor auth.Identity, day int, inputs []WindowInput) ([]Window, error) {
	if !actor.Can(auth.CapManageAvailability) {
		return nil, apperr.ErrUnauthorized
	}
	if day < int(time.Sunday) || day > int(time.Saturday) {
		return nil, apperr.New(apperr.CodeInvalidRequest, "day must be between 0 (Sunday) and 6 (Saturday)")
	}

	now := s.now().UTC()
	windows := make([]Window, 0, len(inputs))
	for _, in := range inputs {
		w := Window{
			ID:        uuid.NewString(),
			TrainerID: actor.ProfileID,
			DayOfWeek: day,
			StartTime: in.StartTime,
			EndTime:   in.EndTime,
			Available: true,
			CreatedAt: now,
			UpdatedAt: now,
		}
		if in.Available != nil {
			w.Available = *in.Available
		}
		if !w.Range().Valid() {
			return nil, apperr.New(apperr.CodeInvalidRange, fmt.Sprintf("window %s: start must be before end", w.Range()))
		}
		windows = append(windows, w)
	}

	sort.Slice(windows, func(i, j int) bool {
		return windows[i].StartTime < windows[j].StartTime
	})
	for i := 1; i < len(windows); i++ {
		if windows[i-1].Range().Overlaps(windows[i].Range()) {
			return nil, apperr.New(apperr.CodeInvalidRange,
				fmt.Sprintf("windows %s and %s overlap", windows[i-1].Range(), windows[i].Range()))
		}
	}

	if err := s.repo.ReplaceDay(ctx, actor.ProfileID, time.Weekday(day), windows); err != nil {
		return nil, apperr.Storage(err)
	}

	logger.Info("availability replaced",
		"trainer_id", actor.ProfileID,
		"day_of_week", day,
		"windows", len(windows),
	)

	return windows, nil
}
