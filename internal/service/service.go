// Package service implements the application's domain operations on top of
// the repository layer: registration, post authorization and the vote engine.
package service

import (
	"context"
	"time"

	"voxpop/internal/models"
)

// boundCtx derives a request-scoped deadline for store calls so a stalled
// store fails the operation instead of hanging the caller. Callers must not
// hold in-process locks across the returned context's lifetime.
func boundCtx(ctx context.Context, timeout time.Duration) (context.Context, context.CancelFunc) {
	if timeout <= 0 {
		return ctx, func() {}
	}
	return context.WithTimeout(ctx, timeout)
}

// storeFailure wraps an unexpected store error (including deadline expiry)
// as an internal error. Domain errors never pass through here; they are
// produced deliberately by the services themselves.
func storeFailure(err error) *models.AppError {
	return models.NewInternalError(err)
}
