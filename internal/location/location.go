// Package location abstracts device-location acquisition behind a small
// provider interface. Acquisition gets a fixed 15-second deadline; on
// timeout or failure callers degrade to "no location".
package location

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/asklens-labs/asklens/internal/backend"
)

// AcquireTimeout bounds a single location acquisition.
const AcquireTimeout = 15 * time.Second

// ErrUnavailable is returned when no location source is configured.
var ErrUnavailable = errors.New("location unavailable")

// Provider yields the device's current position. Implementations must
// honor ctx cancellation; no position is ever cached.
type Provider interface {
	Current(ctx context.Context) (backend.Point, error)
}

// Acquire runs the provider under the fixed timeout. A nil provider, a
// timeout, or a provider error all yield (nil, err); callers treat any
// error as "proceed without location".
func Acquire(ctx context.Context, p Provider) (*backend.Point, error) {
	if p == nil {
		return nil, ErrUnavailable
	}

	ctx, cancel := context.WithTimeout(ctx, AcquireTimeout)
	defer cancel()

	pt, err := p.Current(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to acquire location: %w", err)
	}
	return &pt, nil
}

// Static is a provider pinned to one position, set from configuration.
type Static struct {
	Point backend.Point
}

// Current returns the configured position.
func (s Static) Current(_ context.Context) (backend.Point, error) {
	return s.Point, nil
}

// Disabled is a provider that always fails, used when the location
// preference is off.
type Disabled struct{}

// Current always reports that no location is available.
func (Disabled) Current(_ context.Context) (backend.Point, error) {
	return backend.Point{}, ErrUnavailable
}
