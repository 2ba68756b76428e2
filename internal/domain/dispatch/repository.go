// internal/domain/dispatch/repository.go
package dispatch

import (
	"context"
	"time"
)

// Repository persists the operator-facing dispatch log.
type Repository interface {
	Create(ctx context.Context, d *Dispatch) error
	// GetLatestByTargetDateAndStatus returns the newest dispatch for the date with the given status.
	GetLatestByTargetDateAndStatus(ctx context.Context, targetDate time.Time, status Status) (*Dispatch, error)
	ListRecent(ctx context.Context, limit int) ([]*Dispatch, error)
}
