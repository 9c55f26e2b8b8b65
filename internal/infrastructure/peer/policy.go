package peer

import (
	"time"

	"github.com/cenkalti/backoff/v4"
	"github.com/finsuite/backend/internal/infrastructure/config"
)

// Policy bounds one logical call to a peer service
type Policy struct {
	// Timeout bounds each attempt, including reading the response body
	Timeout time.Duration
	// MaxRetries is the number of attempts after the first one
	MaxRetries int
	// InitialBackoff is the wait before the first retry; it doubles on each retry
	InitialBackoff time.Duration
}

// Default policies
var (
	DefaultExistencePolicy = Policy{Timeout: 5 * time.Second, MaxRetries: 2, InitialBackoff: 500 * time.Millisecond}
	DefaultFetchPolicy     = Policy{Timeout: 10 * time.Second, MaxRetries: 2, InitialBackoff: 500 * time.Millisecond}
)

// ExistencePolicy returns the policy for existence checks
func ExistencePolicy(cfg config.OutboundConfig) Policy {
	return Policy{Timeout: cfg.ExistsTimeout, MaxRetries: cfg.MaxRetries, InitialBackoff: cfg.InitialBackoff}
}

// FetchPolicy returns the policy for data fetches
func FetchPolicy(cfg config.OutboundConfig) Policy {
	return Policy{Timeout: cfg.FetchTimeout, MaxRetries: cfg.MaxRetries, InitialBackoff: cfg.InitialBackoff}
}

// newBackOff builds a deterministic exponential schedule: InitialBackoff, 2x, 4x, ...
func (p Policy) newBackOff() backoff.BackOff {
	b := backoff.NewExponentialBackOff()
	b.InitialInterval = p.InitialBackoff
	b.Multiplier = 2
	b.RandomizationFactor = 0
	b.MaxInterval = p.InitialBackoff << 10
	b.MaxElapsedTime = 0
	b.Reset()

	if p.MaxRetries <= 0 {
		return &backoff.StopBackOff{}
	}
	return backoff.WithMaxRetries(b, uint64(p.MaxRetries))
}
