// Package external provides the anti-corruption layer between the ShelfWatch
// domain logic and third-party vendor APIs. Outbound HTTP calls are routed
// through the BaseClient, which enforces circuit breaking, trace propagation,
// and error mapping.
//
// Delivery is single-attempt: there are no retries, and the breaker stops
// repeated calls to a gateway that is already down.
package external

import (
	"errors"
	"fmt"
	"net/http"

	"github.com/sony/gobreaker/v2"

	"shelfwatch/internal/types"
)

// BaseClient wraps an *http.Client and a circuit breaker to enforce consistent
// resilience patterns on outbound HTTP calls. Provider clients embed
// BaseClient to inherit this behavior.
type BaseClient struct {
	client    *http.Client
	breaker   *gobreaker.CircuitBreaker[*http.Response]
	userAgent string
}

// NewBaseClient creates a BaseClient with the given http client, breaker name,
// and user agent string. The breaker opens after five consecutive failures and
// probes again after thirty seconds.
func NewBaseClient(httpClient *http.Client, breakerName string, userAgent string) *BaseClient {
	cb := gobreaker.NewCircuitBreaker[*http.Response](gobreaker.Settings{
		Name:        breakerName,
		MaxRequests: 1,
		ReadyToTrip: func(counts gobreaker.Counts) bool {
			return counts.ConsecutiveFailures > 5
		},
		IsSuccessful: func(err error) bool {
			return err == nil
		},
	})

	return &BaseClient{
		client:    httpClient,
		breaker:   cb,
		userAgent: userAgent,
	}
}

// Do executes the HTTP request with:
//  1. Trace ID injection (X-Request-Id from context)
//  2. User-Agent header injection
//  3. Circuit breaker wrapping (5xx counts as a breaker failure)
//  4. Error mapping to types.AppError
//
// The request is attempted exactly once. On success (any response the
// transport produced, including non-2xx) Do returns the response as-is and
// the caller is responsible for closing the body and classifying the status.
func (c *BaseClient) Do(req *http.Request) (*http.Response, error) {
	if traceID := types.GetRequestID(req.Context()); traceID != "" {
		req.Header.Set("X-Request-Id", traceID)
	}
	if c.userAgent != "" {
		req.Header.Set("User-Agent", c.userAgent)
	}

	resp, err := c.breaker.Execute(func() (*http.Response, error) {
		r, doErr := c.client.Do(req)
		if doErr != nil {
			return nil, doErr
		}
		// 5xx trips the breaker but the response is still handed back.
		if r.StatusCode >= 500 {
			return r, fmt.Errorf("upstream returned %d", r.StatusCode)
		}
		return r, nil
	})

	if err == nil {
		return resp, nil
	}

	if errors.Is(err, gobreaker.ErrOpenState) || errors.Is(err, gobreaker.ErrTooManyRequests) {
		return nil, types.NewAppError(
			types.ErrCodeUpstreamWhatsApp,
			"circuit breaker is open; upstream service unavailable",
			err,
		)
	}

	// 5xx with a usable response: let the caller classify the status.
	if resp != nil {
		return resp, nil
	}

	return nil, types.NewAppError(
		types.ErrCodeUpstreamWhatsApp,
		"upstream request failed",
		err,
	)
}
