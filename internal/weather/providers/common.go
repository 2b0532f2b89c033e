package providers

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"time"

	"github.com/MrCroatia/weatherapp/internal/weather"
	"github.com/sony/gobreaker"
)

// maxErrorBody bounds how much of an error payload is read.
const maxErrorBody = 64 << 10

var (
	errNoHTTPClient = errors.New("http client not configured")
	errCircuitOpen  = errors.New("circuit breaker open")
)

// upstreamStatusError carries a non-2xx answer through the circuit breaker.
type upstreamStatusError struct {
	status  int
	message string
}

func (e *upstreamStatusError) Error() string {
	return fmt.Sprintf("upstream status %d: %s", e.status, e.message)
}

func newCircuitBreaker(name string) *gobreaker.CircuitBreaker {
	return gobreaker.NewCircuitBreaker(gobreaker.Settings{
		Name:        name,
		MaxRequests: 5,
		Interval:    1 * time.Minute,
		Timeout:     2 * time.Minute,
		// Client errors (bad key, unknown place) say nothing about the
		// upstream's health.
		IsSuccessful: func(err error) bool {
			if err == nil {
				return true
			}
			var se *upstreamStatusError
			return errors.As(err, &se) && se.status < 500
		},
	})
}

// doRequest issues a single attempt through the circuit breaker and decodes a
// 2xx JSON body into out. Every failure comes back as *weather.Error.
func doRequest(
	ctx context.Context,
	client *http.Client,
	cb *gobreaker.CircuitBreaker,
	buildRequest func() (*http.Request, error),
	out interface{},
) error {
	if client == nil {
		return weather.ProviderError("Network Error: "+errNoHTTPClient.Error(), 0, errNoHTTPClient)
	}

	req, err := buildRequest()
	if err != nil {
		return weather.ProviderError("Network Error: "+err.Error(), 0, err)
	}
	req = req.WithContext(ctx)

	result, err := cb.Execute(func() (interface{}, error) {
		resp, execErr := client.Do(req)
		if execErr != nil {
			return nil, execErr
		}
		if resp.StatusCode < 200 || resp.StatusCode >= 300 {
			defer resp.Body.Close()
			return nil, &upstreamStatusError{
				status:  resp.StatusCode,
				message: upstreamMessage(resp.Body),
			}
		}
		return resp, nil
	})
	if err != nil {
		return normalizeError(err)
	}

	resp, ok := result.(*http.Response)
	if !ok {
		err := fmt.Errorf("unexpected result type from circuit breaker")
		return weather.ProviderError("Network Error: "+err.Error(), 0, err)
	}
	defer resp.Body.Close()

	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return weather.ProviderError("Network Error: invalid response body: "+err.Error(), 0, err)
	}
	return nil
}

// upstreamMessage pulls the "message" field out of an error payload.
func upstreamMessage(body io.Reader) string {
	raw, err := io.ReadAll(io.LimitReader(body, maxErrorBody))
	if err != nil {
		return ""
	}
	var payload struct {
		Message string `json:"message"`
	}
	if err := json.Unmarshal(raw, &payload); err != nil {
		return ""
	}
	return payload.Message
}

func normalizeError(err error) *weather.Error {
	var se *upstreamStatusError
	if errors.As(err, &se) {
		msg := se.message
		if msg == "" {
			msg = "Unknown error"
		}
		return weather.ProviderError("API Error: "+msg, se.status, err)
	}

	if errors.Is(err, gobreaker.ErrOpenState) || errors.Is(err, gobreaker.ErrTooManyRequests) {
		wrapped := fmt.Errorf("%w: %v", errCircuitOpen, err)
		return weather.ProviderError("Network Error: "+wrapped.Error(), 0, wrapped)
	}

	// url.Error embeds the full request URL, which carries the API key.
	cause := err
	var ue *url.Error
	if errors.As(err, &ue) {
		cause = ue.Err
	}
	return weather.ProviderError("Network Error: "+cause.Error(), 0, err)
}
