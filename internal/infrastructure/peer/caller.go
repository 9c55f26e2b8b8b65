// Package peer implements calls to sibling services under a bounded
// timeout and retry policy.
//
// Every call resolves to one of three outcomes: success, ErrNotFound (the
// peer answered 404, never retried) or ErrIndeterminate (anything else that
// survived the retries). Calls have no local side effects.
package peer

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/cenkalti/backoff/v4"
	"github.com/finsuite/backend/internal/infrastructure/logger"
	"github.com/finsuite/backend/internal/infrastructure/telemetry"
	"go.opentelemetry.io/otel/metric"
	"go.opentelemetry.io/otel/trace"
	"go.uber.org/zap"
)

// Outcome errors
var (
	ErrNotFound      = errors.New("peer resource not found")
	ErrIndeterminate = errors.New("peer call failed")
)

const defaultMaxBodyBytes = 1 << 20

// envelope is the response body shape of every service
type envelope struct {
	Success bool            `json:"success"`
	Data    json.RawMessage `json:"data,omitempty"`
	Error   *struct {
		Code    string `json:"code"`
		Message string `json:"message"`
	} `json:"error,omitempty"`
}

type authKey struct{}

// WithAuthorization stores an Authorization header value to forward on peer calls
func WithAuthorization(ctx context.Context, value string) context.Context {
	if value == "" {
		return ctx
	}
	return context.WithValue(ctx, authKey{}, value)
}

func authorizationFrom(ctx context.Context) string {
	v, _ := ctx.Value(authKey{}).(string)
	return v
}

// Caller issues GET requests against one peer service
type Caller struct {
	name       string
	baseURL    string
	httpClient *http.Client
	logger     *zap.Logger
	maxBody    int64
	metrics    *callMetrics
}

type callMetrics struct {
	calls    *telemetry.Counter
	duration *telemetry.Histogram
}

// NewCaller creates a caller for the peer named name, rooted at baseURL.
// maxBody caps the response body; non-positive means 1 MiB.
func NewCaller(name, baseURL string, maxBody int64, log *zap.Logger) *Caller {
	if maxBody <= 0 {
		maxBody = defaultMaxBodyBytes
	}
	return &Caller{
		name:    name,
		baseURL: strings.TrimRight(baseURL, "/"),
		// Per-attempt deadlines come from the policy, not the client
		httpClient: &http.Client{},
		logger:     log.With(zap.String("peer", name)),
		maxBody:    maxBody,
	}
}

// Instrument records per-call counters and latency on meter
func (c *Caller) Instrument(meter metric.Meter) error {
	calls, err := telemetry.NewCounter(meter, "peer_calls_total", "Total number of peer service calls by outcome", "{call}")
	if err != nil {
		return err
	}
	duration, err := telemetry.NewHistogram(meter, telemetry.HistogramOpts{
		Name:        "peer_call_duration_seconds",
		Description: "Peer call latency including retries",
		Unit:        "s",
		Boundaries:  telemetry.PeerDurationBuckets,
	})
	if err != nil {
		return err
	}
	c.metrics = &callMetrics{calls: calls, duration: duration}
	return nil
}

func (c *Caller) record(ctx context.Context, outcome string, elapsed time.Duration) {
	if c.metrics == nil {
		return
	}
	c.metrics.calls.Inc(ctx, telemetry.AttrPeer.String(c.name), telemetry.AttrOutcome.String(outcome))
	c.metrics.duration.RecordDuration(ctx, elapsed, telemetry.AttrPeer.String(c.name), telemetry.AttrOutcome.String(outcome))
}

// Get calls GET baseURL+path under policy and decodes the envelope data into out.
// out may be nil when only the outcome matters.
func (c *Caller) Get(ctx context.Context, policy Policy, path string, out any) error {
	ctx, span := telemetry.StartSpan(ctx, "peer."+c.name+".get",
		telemetry.WithSpanKind(trace.SpanKindClient),
		telemetry.WithAttribute(telemetry.SpanAttrPeer, c.name),
		telemetry.WithAttribute("url.path", path),
	)
	defer span.End()

	start := time.Now()
	attempt := 0
	operation := func() error {
		attempt++
		err := c.attempt(ctx, policy.Timeout, path, out)
		if errors.Is(err, ErrNotFound) {
			return backoff.Permanent(err)
		}
		return err
	}
	notify := func(err error, wait time.Duration) {
		logger.L(ctx).Warn("Peer call failed, retrying",
			zap.String("peer", c.name),
			zap.String("path", path),
			zap.Int("attempt", attempt),
			zap.Duration("backoff", wait),
			zap.Error(err),
		)
	}

	err := backoff.RetryNotify(operation, backoff.WithContext(policy.newBackOff(), ctx), notify)
	telemetry.SetAttributes(span, telemetry.SpanAttrAttempt, attempt)

	switch {
	case err == nil:
		telemetry.SetAttributes(span, telemetry.SpanAttrOutcome, "ok")
		telemetry.SetOK(span)
		c.record(ctx, "ok", time.Since(start))
		return nil
	case errors.Is(err, ErrNotFound):
		telemetry.SetAttributes(span, telemetry.SpanAttrOutcome, "not_found")
		c.record(ctx, "not_found", time.Since(start))
		return ErrNotFound
	default:
		telemetry.SetAttributes(span, telemetry.SpanAttrOutcome, "indeterminate")
		telemetry.RecordError(span, err)
		c.record(ctx, "indeterminate", time.Since(start))
		logger.L(ctx).Error("Peer call failed after retries",
			zap.String("peer", c.name),
			zap.String("path", path),
			zap.Int("attempts", attempt),
			zap.Error(err),
		)
		return fmt.Errorf("%w: %s %s after %d attempt(s): %v", ErrIndeterminate, c.name, path, attempt, err)
	}
}

// attempt performs one bounded request, body read included
func (c *Caller) attempt(ctx context.Context, timeout time.Duration, path string, out any) error {
	attemptCtx, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()

	req, err := http.NewRequestWithContext(attemptCtx, http.MethodGet, c.baseURL+path, nil)
	if err != nil {
		return backoff.Permanent(fmt.Errorf("failed to create request: %w", err))
	}
	req.Header.Set("Accept", "application/json")
	if id := logger.GetRequestID(ctx); id != "" {
		req.Header.Set("X-Request-ID", id)
	}
	if auth := authorizationFrom(ctx); auth != "" {
		req.Header.Set("Authorization", auth)
	}
	telemetry.InjectHTTPHeaders(attemptCtx, req.Header)

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("request failed: %w", err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(io.LimitReader(resp.Body, c.maxBody))
	if err != nil {
		return fmt.Errorf("failed to read response: %w", err)
	}

	switch {
	case resp.StatusCode == http.StatusNotFound:
		return ErrNotFound
	case resp.StatusCode < 200 || resp.StatusCode > 299:
		return fmt.Errorf("unexpected status %d", resp.StatusCode)
	}

	if out == nil {
		return nil
	}

	var env envelope
	if err := json.Unmarshal(body, &env); err != nil {
		return fmt.Errorf("failed to decode response: %w", err)
	}
	if !env.Success {
		return errors.New("peer reported failure")
	}
	if len(env.Data) == 0 || string(env.Data) == "null" {
		return nil
	}
	if err := json.Unmarshal(env.Data, out); err != nil {
		return fmt.Errorf("failed to decode response data: %w", err)
	}
	return nil
}
