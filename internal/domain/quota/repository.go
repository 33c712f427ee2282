package quota

import "context"

// Ledger counts consumption of a scarce daily resource. Reserve must be an
// atomic compare-and-increment so the ceiling holds across concurrent callers.
type Ledger interface {
	Used(ctx context.Context, day string) (int, error)
	// Reconcile raises the stored counter to at least floor and returns it.
	Reconcile(ctx context.Context, day string, floor int) (int, error)
	// Reserve takes one unit when fewer than ceiling are used.
	Reserve(ctx context.Context, day string, ceiling int) (bool, error)
	// Release gives back a unit taken by Reserve. It never goes below zero.
	Release(ctx context.Context, day string) error
}
