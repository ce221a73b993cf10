package lims

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

// restResult carries everything the entity layer needs from one completed
// HTTP exchange.
type restResult struct {
	Status   int
	Body     []byte
	Duration time.Duration
}

func (r restResult) ok() bool {
	return r.Status >= 200 && r.Status < 300
}

// restClient performs synchronous, blocking HTTP requests against the LIMS
// REST API with basic authentication. It knows nothing about entities;
// callers interpret status codes and bodies.
type restClient struct {
	username string
	password string
	http     *http.Client
	log      *zap.Logger
}

func (c *restClient) get(ctx context.Context, uri string) (restResult, error) {
	return c.do(ctx, http.MethodGet, uri, nil)
}

func (c *restClient) put(ctx context.Context, uri string, body []byte) (restResult, error) {
	return c.do(ctx, http.MethodPut, uri, body)
}

func (c *restClient) post(ctx context.Context, uri string, body []byte) (restResult, error) {
	return c.do(ctx, http.MethodPost, uri, body)
}

func (c *restClient) do(ctx context.Context, method, uri string, body []byte) (restResult, error) {
	var reader io.Reader
	if body != nil {
		reader = bytes.NewReader(body)
	}

	req, err := http.NewRequestWithContext(ctx, method, uri, reader)
	if err != nil {
		return restResult{}, fmt.Errorf("building %s request for %s: %w", method, uri, err)
	}
	req.SetBasicAuth(c.username, c.password)
	req.Header.Set("Accept", "application/xml")
	if body != nil {
		req.Header.Set("Content-Type", "application/xml")
	}

	requestID := uuid.NewString()
	start := time.Now()
	resp, err := c.http.Do(req)
	duration := time.Since(start)
	if err != nil {
		c.log.Error("request failed",
			zap.String("method", method),
			zap.String("uri", uri),
			zap.String("request_id", requestID),
			zap.Duration("duration", duration),
			zap.Error(err))
		return restResult{}, fmt.Errorf("%s %s: %w", method, uri, err)
	}
	defer resp.Body.Close()

	payload, err := io.ReadAll(resp.Body)
	if err != nil {
		return restResult{}, fmt.Errorf("reading response from %s %s: %w", method, uri, err)
	}

	result := restResult{Status: resp.StatusCode, Body: payload, Duration: duration}
	c.logResult(method, uri, requestID, result)
	return result, nil
}

// logResult maps HTTP status classes to log levels: successes are debug
// noise, redirects are suspicious, errors are errors.
func (c *restClient) logResult(method, uri, requestID string, r restResult) {
	fields := []zap.Field{
		zap.String("method", method),
		zap.String("uri", uri),
		zap.String("request_id", requestID),
		zap.Int("status", r.Status),
		zap.Duration("duration", r.Duration),
		zap.Int("size", len(r.Body)),
	}
	switch {
	case r.Status < 300:
		c.log.Debug("request completed", fields...)
	case r.Status < 400:
		c.log.Warn("request redirected", fields...)
	default:
		c.log.Error("request rejected", fields...)
	}
}
