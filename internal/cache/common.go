package cache

import (
	"context"
	"crypto/tls"
	"errors"
	"fmt"
	"time"

	"github.com/nosregor/learning-platform/internal/models"

	"github.com/redis/rueidis"
)

// ErrStoreUnavailable marks backend connectivity failures. Callers treat
// these as retryable; they are never swallowed because a silent no-op here
// would break code issuance or verification.
var ErrStoreUnavailable = errors.New("code store unavailable")

// consumeCodeScript implements the attempt-limited verify of a JSON
// {code, attempts} record in one round trip, closing the read-modify-write
// race between concurrent verifies for the same user.
//
// Returns: 1 match (record deleted), 0 mismatch (attempts incremented, TTL
// preserved), -2 mismatch hitting the attempt cap (record deleted),
// -1 absent or expired.
var consumeCodeScript = rueidis.NewLuaScript(`
local data = redis.call('GET', KEYS[1])
if not data then
  return -1
end
local record = cjson.decode(data)
if record.code == ARGV[1] then
  redis.call('DEL', KEYS[1])
  return 1
end
record.attempts = record.attempts + 1
if record.attempts >= tonumber(ARGV[2]) then
  redis.call('DEL', KEYS[1])
  return -2
end
local ttl = redis.call('TTL', KEYS[1])
if ttl <= 0 then
  redis.call('DEL', KEYS[1])
  return -1
end
redis.call('SET', KEYS[1], cjson.encode(record), 'EX', ttl)
return 0
`)

type RueidisStore struct {
	client rueidis.Client
}

func NewRueidisStore(config models.CacheConfiguration) (*RueidisStore, error) {
	clientOption := rueidis.ClientOption{
		InitAddress: config.Hosts,
		Password:    config.Password,
	}

	if config.TLSEnabled {
		clientOption.TLSConfig = &tls.Config{
			ServerName: config.TLSServerName,
			MinVersion: tls.VersionTLS12,
		}
	}

	client, err := rueidis.NewClient(clientOption)
	if err != nil {
		return nil, fmt.Errorf("failed to connect to code store: %w", err)
	}
	return &RueidisStore{client: client}, nil
}

func (r *RueidisStore) Put(ctx context.Context, key, value string, ttl time.Duration) error {
	err := r.client.Do(
		ctx,
		r.client.B().Set().Key(key).Value(value).ExSeconds(int64(ttl.Seconds())).Build(),
	).Error()
	if err != nil {
		return fmt.Errorf("%w: %v", ErrStoreUnavailable, err)
	}
	return nil
}

func (r *RueidisStore) Get(ctx context.Context, key string) (string, bool, error) {
	value, err := r.client.Do(ctx, r.client.B().Get().Key(key).Build()).ToString()
	if err != nil {
		if rueidis.IsRedisNil(err) {
			return "", false, nil
		}
		return "", false, fmt.Errorf("%w: %v", ErrStoreUnavailable, err)
	}
	return value, true, nil
}

func (r *RueidisStore) RemainingTTL(ctx context.Context, key string) (time.Duration, bool, error) {
	seconds, err := r.client.Do(ctx, r.client.B().Ttl().Key(key).Build()).AsInt64()
	if err != nil {
		return 0, false, fmt.Errorf("%w: %v", ErrStoreUnavailable, err)
	}
	// -2 key does not exist, -1 key has no expiry.
	if seconds <= 0 {
		return 0, false, nil
	}
	return time.Duration(seconds) * time.Second, true, nil
}

func (r *RueidisStore) Delete(ctx context.Context, key string) error {
	err := r.client.Do(ctx, r.client.B().Del().Key(key).Build()).Error()
	if err != nil {
		return fmt.Errorf("%w: %v", ErrStoreUnavailable, err)
	}
	return nil
}

func (r *RueidisStore) ConsumeCode(
	ctx context.Context,
	key, submitted string,
	maxAttempts int,
) (ConsumeResult, error) {
	outcome, err := consumeCodeScript.Exec(
		ctx,
		r.client,
		[]string{key},
		[]string{submitted, fmt.Sprintf("%d", maxAttempts)},
	).AsInt64()
	if err != nil {
		return CodeAbsent, fmt.Errorf("%w: %v", ErrStoreUnavailable, err)
	}

	switch outcome {
	case 1:
		return CodeConsumed, nil
	case 0:
		return CodeMismatch, nil
	case -2:
		return CodeBurned, nil
	default:
		return CodeAbsent, nil
	}
}

func (r *RueidisStore) Close() error {
	r.client.Close()
	return nil
}
