package resilience

import "golang.org/x/sync/singleflight"

// Group collapses concurrent loads of the same key into one call and hands
// every waiter the same typed result.
type Group[T any] struct {
	g singleflight.Group
}

// Do runs fn once per in-flight key. shared reports whether the result was
// produced for another caller as well.
func (g *Group[T]) Do(key string, fn func() (T, error)) (value T, shared bool, err error) {
	out, err, shared := g.g.Do(key, func() (any, error) {
		return fn()
	})
	if out != nil {
		value, _ = out.(T)
	}
	return value, shared, err
}

// Forget drops key so the next Do starts a fresh call.
func (g *Group[T]) Forget(key string) {
	g.g.Forget(key)
}
