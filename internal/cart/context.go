package cart

import (
	"context"

	"github.com/desertthunder/hookx/internal/shared"
)

type contextKey struct{}

// WithStore returns a copy of ctx that provides s to [FromContext].
func WithStore(ctx context.Context, s *Store) context.Context {
	return context.WithValue(ctx, contextKey{}, s)
}

// FromContext returns the cart provided by [WithStore].
// It fails with [shared.ErrContextMissing] when ctx carries no cart.
func FromContext(ctx context.Context) (*Store, error) {
	if ctx == nil {
		return nil, shared.ErrContextMissing
	}
	s, ok := ctx.Value(contextKey{}).(*Store)
	if !ok || s == nil {
		return nil, shared.ErrContextMissing
	}
	return s, nil
}

// MustFromContext is like [FromContext] but panics when no cart was provided.
func MustFromContext(ctx context.Context) *Store {
	s, err := FromContext(ctx)
	if err != nil {
		panic(err)
	}
	return s
}
