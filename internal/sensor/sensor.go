// Package sensor provides the external accelerometer source queried by the
// node when it is asked to produce a new trajectory frame.
package sensor

import (
	"context"
	"errors"
)

// ErrUnavailable reports that the sensor endpoint could not be reached or
// returned an unusable response. The caller logs and skips its reply; the
// receive loop is never interrupted by a sensor failure.
var ErrUnavailable = errors.New("sensor unavailable")

// Reading is one instantaneous 3-channel accelerometer sample.
type Reading struct {
	AccX float64
	AccY float64
	AccZ float64
}

// Source produces accelerometer readings. Implementations must be safe to
// call from the dispatch goroutine and should honor ctx cancellation.
type Source interface {
	Fetch(ctx context.Context) (Reading, error)
}
