package competition

import "context"

type Repository interface {
	Count(ctx context.Context) (int, error)
	List(ctx context.Context) ([]Competition, error)
	GetByCode(ctx context.Context, code string) (Competition, bool, error)
	// Upsert writes items keyed by code and returns how many rows were written.
	Upsert(ctx context.Context, items []Competition) (int, error)
	// TouchIngested stamps every stored competition with day as its freshness marker.
	TouchIngested(ctx context.Context, day string) (int, error)
	Summary(ctx context.Context) (Summary, error)
}
