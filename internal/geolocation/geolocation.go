// Package geolocation turns a host position source into a single blocking
// call with normalized errors.
package geolocation

import (
	"context"
	"errors"
	"time"

	"github.com/MrCroatia/weatherapp/internal/logger"
	"github.com/MrCroatia/weatherapp/internal/weather"
)

// DefaultTimeout bounds every position request.
const DefaultTimeout = 10 * time.Second

const (
	msgUnsupported = "Geolocation is not supported on this host"
	msgDenied      = "Location access was denied by the user"
	msgUnavailable = "Location information is unavailable"
	msgTimeout     = "The request to get user location timed out"
	msgUnknown     = "An unknown error occurred while retrieving location"
)

var (
	// ErrPermissionDenied is returned by sources that were refused access.
	ErrPermissionDenied = errors.New("permission denied")
	// ErrPositionUnavailable is returned by sources that cannot produce a fix.
	ErrPositionUnavailable = errors.New("position unavailable")
)

// Options are passed to the source on every request.
type Options struct {
	HighAccuracy bool
	Timeout      time.Duration
	// MaximumAge of a cached fix the source may return; zero forces a fresh one.
	MaximumAge time.Duration
}

// PositionSource is the platform capability.
type PositionSource interface {
	Position(ctx context.Context, opts Options) (weather.Coordinates, error)
}

// Adapter implements weather.Locator.
type Adapter struct {
	source  PositionSource
	timeout time.Duration
}

// New returns an adapter over source. A nil source means the host has no
// geolocation capability.
func New(source PositionSource) *Adapter {
	return &Adapter{source: source, timeout: DefaultTimeout}
}

// GetCurrentPosition makes one attempt to obtain a fresh fix.
func (a *Adapter) GetCurrentPosition(ctx context.Context) (weather.Coordinates, error) {
	if a == nil || a.source == nil {
		return weather.Coordinates{}, weather.GeolocationError(weather.CodeUnsupported, msgUnsupported)
	}

	opts := Options{HighAccuracy: true, Timeout: a.timeout, MaximumAge: 0}

	ctx, cancel := context.WithTimeout(ctx, a.timeout)
	defer cancel()

	type result struct {
		coords weather.Coordinates
		err    error
	}
	done := make(chan result, 1)
	go func() {
		c, err := a.source.Position(ctx, opts)
		done <- result{coords: c, err: err}
	}()

	select {
	case r := <-done:
		if r.err != nil {
			return weather.Coordinates{}, classify(ctx, r.err)
		}
		return r.coords, nil
	case <-ctx.Done():
		return weather.Coordinates{}, classify(ctx, ctx.Err())
	}
}

func classify(ctx context.Context, err error) *weather.Error {
	var we *weather.Error
	if errors.As(err, &we) && we.Kind == weather.KindGeolocation {
		return we
	}

	switch {
	case errors.Is(err, ErrPermissionDenied):
		return weather.GeolocationError(weather.CodePermissionDenied, msgDenied)
	case errors.Is(err, ErrPositionUnavailable):
		return weather.GeolocationError(weather.CodeUnavailable, msgUnavailable)
	case errors.Is(err, context.DeadlineExceeded) || errors.Is(ctx.Err(), context.DeadlineExceeded):
		return weather.GeolocationError(weather.CodeTimeout, msgTimeout)
	default:
		logger.Debugf("geolocation: unclassified source error: %v", err)
		e := weather.GeolocationError(weather.CodeUnavailable, msgUnknown)
		e.Err = err
		return e
	}
}
