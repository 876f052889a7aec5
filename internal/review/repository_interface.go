package review

import "context"

type Repository interface {
	Insert(ctx context.Context, r *Review) error
	RatingsFor(ctx context.Context, profileID string) ([]int, error)
	ListFor(ctx context.Context, profileID string) ([]Review, error)
}
