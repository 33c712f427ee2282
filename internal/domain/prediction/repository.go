package prediction

import "context"

type Repository interface {
	// ReplaceForDay deletes every prediction created on day and stores items
	// keyed by (match id, day).
	ReplaceForDay(ctx context.Context, day string, items []Prediction) error
	ListByDay(ctx context.Context, day string) ([]Prediction, error)
	DeleteCreatedBefore(ctx context.Context, day string) (int, error)
	Summary(ctx context.Context) (Summary, error)
}
