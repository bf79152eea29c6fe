package services

import (
	"context"

	"jobboard_backend/internal/logger"
)

// LookupStrategy is one way of finding a value. Find reports found=false
// when it has no definite answer.
type LookupStrategy[T any] struct {
	Name string
	Find func(ctx context.Context) (T, bool, error)
}

// FirstDefinite tries strategies in order and returns the first definite
// result. Errors are logged and treated like not found.
func FirstDefinite[T any](ctx context.Context, strategies ...LookupStrategy[T]) (T, bool) {
	var zero T
	for _, s := range strategies {
		if err := ctx.Err(); err != nil {
			return zero, false
		}
		value, found, err := s.Find(ctx)
		if err != nil {
			logger.CtxWarn(ctx, "lookup strategy failed", "strategy", s.Name, "error", err.Error())
			continue
		}
		if found {
			return value, true
		}
	}
	return zero, false
}
