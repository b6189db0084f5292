// Package ctxval lets inner layers record request-scoped values that outer
// layers read back after the call returns, which plain context.WithValue
// cannot do.
package ctxval

import (
	"context"
	"sync"
)

type bagKey struct{}

type bag struct {
	mu     sync.RWMutex
	values map[any]any
}

// Wrap returns ctx carrying a writable value bag. Wrapping twice is a no-op.
func Wrap(ctx context.Context) context.Context {
	if _, ok := bagFrom(ctx); ok {
		return ctx
	}
	return context.WithValue(ctx, bagKey{}, &bag{values: map[any]any{}})
}

// Set stores v under k. It does nothing when ctx was not wrapped.
func Set[K comparable, V any](ctx context.Context, k K, v V) {
	b, ok := bagFrom(ctx)
	if !ok {
		return
	}
	b.mu.Lock()
	b.values[k] = v
	b.mu.Unlock()
}

func Get[K comparable, V any](ctx context.Context, k K) (V, bool) {
	var zero V
	b, ok := bagFrom(ctx)
	if !ok {
		return zero, false
	}
	b.mu.RLock()
	raw, found := b.values[k]
	b.mu.RUnlock()
	if !found {
		return zero, false
	}
	v, ok := raw.(V)
	return v, ok
}

func bagFrom(ctx context.Context) (*bag, bool) {
	b, ok := ctx.Value(bagKey{}).(*bag)
	return b, ok
}
