package push

import (
	"context"
	"errors"
	"fmt"
)

// Fanout delivers to a primary provider and any number of mirrors.
// Only the primary decides success: its receipt and error are returned, and
// mirror failures are reported in Receipt.MirrorErr.
type Fanout struct {
	Primary Pusher
	Mirrors []Pusher
}

func (f Fanout) Push(ctx context.Context, n Notification) (Receipt, error) {
	if f.Primary == nil {
		return Receipt{}, ErrNotConfigured
	}

	receipt, err := f.Primary.Push(ctx, n)

	var mirrorErrs []error
	for i, m := range f.Mirrors {
		if m == nil {
			continue
		}
		if _, mErr := m.Push(ctx, n); mErr != nil {
			mirrorErrs = append(mirrorErrs, fmt.Errorf("mirror %d: %w", i, mErr))
		}
	}
	receipt.MirrorErr = errors.Join(mirrorErrs...)
	return receipt, err
}
