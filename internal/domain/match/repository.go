package match

import (
	"context"
	"errors"
	"time"
)

// ErrNotFound is returned by writes that target a match that is not stored.
var ErrNotFound = errors.New("match not found")

// Filter selects matches. Zero values leave the corresponding field unconstrained.
type Filter struct {
	IDs              []int64
	CompetitionCodes []string
	Statuses         []string
	KickoffFrom      time.Time
	KickoffBefore    time.Time
	TeamID           int64
	IngestedOn       string
	WithH2HOnly      bool
	H2HUpdatedOn     string
	H2HNotUpdatedOn  string
	NewestFirst      bool
	Limit            int
}

type Repository interface {
	// Upsert writes items keyed by id, preserving any stored H2H cache, and
	// returns how many rows were written.
	Upsert(ctx context.Context, items []Match) (int, error)
	Get(ctx context.Context, id int64) (Match, bool, error)
	Find(ctx context.Context, filter Filter) ([]Match, error)
	Count(ctx context.Context, filter Filter) (int, error)
	SetH2H(ctx context.Context, id int64, h2h H2H) error
	DeleteFinishedBefore(ctx context.Context, cutoff time.Time) (int, error)
	Summary(ctx context.Context) (Summary, error)
}
