package cache

import (
	"context"
	"time"
)

// ConsumeResult is the outcome of an atomic code consumption attempt.
type ConsumeResult int

const (
	// CodeConsumed means the submitted code matched and the record was deleted.
	CodeConsumed ConsumeResult = iota
	// CodeMismatch means the code was wrong; the attempt counter was
	// incremented and the record kept with its remaining TTL.
	CodeMismatch
	// CodeBurned means the wrong submission hit the attempt cap and the
	// record was deleted. The correct code no longer verifies.
	CodeBurned
	// CodeAbsent means no live record exists for the key.
	CodeAbsent
)

// ICodeStore is a key-value store with per-key TTL holding ephemeral
// verification state. Every call is a round trip to the backend; there is
// no in-process caching. Backend unavailability surfaces as an error
// wrapping ErrStoreUnavailable.
type ICodeStore interface {
	// Put unconditionally overwrites key with value and resets the TTL.
	Put(ctx context.Context, key, value string, ttl time.Duration) error
	// Get returns ok=false when the key is missing or expired.
	Get(ctx context.Context, key string) (value string, ok bool, err error)
	// RemainingTTL returns ok=false when the key is missing or has no expiry left.
	RemainingTTL(ctx context.Context, key string) (ttl time.Duration, ok bool, err error)
	// Delete is idempotent.
	Delete(ctx context.Context, key string) error

	// ConsumeCode runs the attempt-limited verification of a JSON
	// {code, attempts} record as a single atomic backend-side operation:
	// match deletes the record, mismatch increments attempts preserving the
	// remaining TTL, and the maxAttempts-th mismatch deletes the record.
	ConsumeCode(ctx context.Context, key, submitted string, maxAttempts int) (ConsumeResult, error)

	Close() error
}
