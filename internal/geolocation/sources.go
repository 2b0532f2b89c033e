package geolocation

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"

	"github.com/MrCroatia/weatherapp/internal/weather"
)

// DefaultIPLookupURL is an ip-api.com compatible endpoint.
const DefaultIPLookupURL = "http://ip-api.com/json/?fields=status,message,lat,lon"

// IPSource locates the host by its public IP address.
type IPSource struct {
	client *http.Client
	url    string
}

// NewIPSource returns an IPSource. A nil client uses http.DefaultClient and an
// empty URL uses DefaultIPLookupURL.
func NewIPSource(client *http.Client, lookupURL string) *IPSource {
	if client == nil {
		client = http.DefaultClient
	}
	if lookupURL == "" {
		lookupURL = DefaultIPLookupURL
	}
	return &IPSource{client: client, url: lookupURL}
}

// Position ignores HighAccuracy and MaximumAge: every call is a fresh lookup.
func (s *IPSource) Position(ctx context.Context, _ Options) (weather.Coordinates, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, s.url, nil)
	if err != nil {
		return weather.Coordinates{}, err
	}

	resp, err := s.client.Do(req)
	if err != nil {
		return weather.Coordinates{}, err
	}
	defer resp.Body.Close()

	switch {
	case resp.StatusCode == http.StatusForbidden || resp.StatusCode == http.StatusUnauthorized:
		return weather.Coordinates{}, fmt.Errorf("%w: lookup status %d", ErrPermissionDenied, resp.StatusCode)
	case resp.StatusCode != http.StatusOK:
		return weather.Coordinates{}, fmt.Errorf("%w: lookup status %d", ErrPositionUnavailable, resp.StatusCode)
	}

	var payload struct {
		Status  string  `json:"status"`
		Message string  `json:"message"`
		Lat     float64 `json:"lat"`
		Lon     float64 `json:"lon"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&payload); err != nil {
		return weather.Coordinates{}, fmt.Errorf("%w: %v", ErrPositionUnavailable, err)
	}
	if payload.Status != "success" {
		return weather.Coordinates{}, fmt.Errorf("%w: %s", ErrPositionUnavailable, payload.Message)
	}

	return weather.Coordinates{Latitude: payload.Lat, Longitude: payload.Lon}, nil
}

// StaticSource always reports the same position.
type StaticSource struct {
	Coordinates weather.Coordinates
}

// Position returns the configured coordinates unless ctx is already done.
func (s StaticSource) Position(ctx context.Context, _ Options) (weather.Coordinates, error) {
	if err := ctx.Err(); err != nil {
		return weather.Coordinates{}, err
	}
	return s.Coordinates, nil
}
