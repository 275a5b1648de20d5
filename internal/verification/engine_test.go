package verification

import (
	"context"
	"encoding/json"
	"errors"
	"testing"
	"time"

	"github.com/nosregor/learning-platform/internal/cache"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// --- In-memory code store ---

// fakeStore mirrors the backend contract of cache.RueidisStore, including
// the atomic consume semantics, with a manually advanced clock so TTL
// behavior is observable in tests.
type fakeStore struct {
	entries map[string]fakeEntry
	now     time.Time
	err     error
}

type fakeEntry struct {
	value     string
	expiresAt time.Time
}

func newFakeStore() *fakeStore {
	return &fakeStore{entries: map[string]fakeEntry{}, now: time.Unix(1700000000, 0)}
}

func (f *fakeStore) advance(d time.Duration) { f.now = f.now.Add(d) }

func (f *fakeStore) live(key string) (fakeEntry, bool) {
	e, ok := f.entries[key]
	if !ok {
		return fakeEntry{}, false
	}
	if !f.now.Before(e.expiresAt) {
		delete(f.entries, key)
		return fakeEntry{}, false
	}
	return e, true
}

func (f *fakeStore) Put(_ context.Context, key, value string, ttl time.Duration) error {
	if f.err != nil {
		return f.err
	}
	f.entries[key] = fakeEntry{value: value, expiresAt: f.now.Add(ttl)}
	return nil
}

func (f *fakeStore) Get(_ context.Context, key string) (string, bool, error) {
	if f.err != nil {
		return "", false, f.err
	}
	e, ok := f.live(key)
	if !ok {
		return "", false, nil
	}
	return e.value, true, nil
}

func (f *fakeStore) RemainingTTL(_ context.Context, key string) (time.Duration, bool, error) {
	if f.err != nil {
		return 0, false, f.err
	}
	e, ok := f.live(key)
	if !ok {
		return 0, false, nil
	}
	return e.expiresAt.Sub(f.now), true, nil
}

func (f *fakeStore) Delete(_ context.Context, key string) error {
	if f.err != nil {
		return f.err
	}
	delete(f.entries, key)
	return nil
}

func (f *fakeStore) ConsumeCode(
	_ context.Context,
	key, submitted string,
	maxAttempts int,
) (cache.ConsumeResult, error) {
	if f.err != nil {
		return cache.CodeAbsent, f.err
	}
	e, ok := f.live(key)
	if !ok {
		return cache.CodeAbsent, nil
	}

	var record struct {
		Code     string `json:"code"`
		Attempts int    `json:"attempts"`
	}
	if err := json.Unmarshal([]byte(e.value), &record); err != nil {
		return cache.CodeAbsent, err
	}

	if record.Code == submitted {
		delete(f.entries, key)
		return cache.CodeConsumed, nil
	}

	record.Attempts++
	if record.Attempts >= maxAttempts {
		delete(f.entries, key)
		return cache.CodeBurned, nil
	}

	updated, _ := json.Marshal(record)
	// Rewrite keeps the original expiry, matching the SET ... EX <remaining>
	// done by the backend script.
	f.entries[key] = fakeEntry{value: string(updated), expiresAt: e.expiresAt}
	return cache.CodeMismatch, nil
}

func (f *fakeStore) Close() error { return nil }

var _ cache.ICodeStore = (*fakeStore)(nil)

// --- Tests ---

func TestVerifyTwoFactorCode_ConsumedExactlyOnce(t *testing.T) {
	ctx := context.Background()
	store := newFakeStore()
	codes := NewCodes(store)

	require.NoError(t, codes.IssueTwoFactorCode(ctx, "user-123", "123456"))

	ok, err := codes.VerifyTwoFactorCode(ctx, "user-123", "123456")
	require.NoError(t, err)
	assert.True(t, ok, "first verify with the issued code must succeed")

	ok, err = codes.VerifyTwoFactorCode(ctx, "user-123", "123456")
	require.NoError(t, err)
	assert.False(t, ok, "second verify must fail: the record was consumed")

	left, err := codes.TwoFactorAttemptsLeft(ctx, "user-123")
	require.NoError(t, err)
	assert.Zero(t, left)
}

func TestVerifyTwoFactorCode_WrongCodeThenCorrect(t *testing.T) {
	ctx := context.Background()
	store := newFakeStore()
	codes := NewCodes(store)

	require.NoError(t, codes.IssueTwoFactorCode(ctx, "user-123", "123456"))

	ok, err := codes.VerifyTwoFactorCode(ctx, "user-123", "654321")
	require.NoError(t, err)
	assert.False(t, ok)

	left, err := codes.TwoFactorAttemptsLeft(ctx, "user-123")
	require.NoError(t, err)
	assert.Equal(t, 2, left)

	ok, err = codes.VerifyTwoFactorCode(ctx, "user-123", "123456")
	require.NoError(t, err)
	assert.True(t, ok)

	ok, err = codes.VerifyTwoFactorCode(ctx, "user-123", "123456")
	require.NoError(t, err)
	assert.False(t, ok, "record must be gone after successful verification")
}

func TestVerifyTwoFactorCode_AttemptLimitBurnsCode(t *testing.T) {
	ctx := context.Background()
	store := newFakeStore()
	codes := NewCodes(store)

	require.NoError(t, codes.IssueTwoFactorCode(ctx, "user-1", "111111"))

	for i := 0; i < 3; i++ {
		ok, err := codes.VerifyTwoFactorCode(ctx, "user-1", "000000")
		require.NoError(t, err)
		assert.False(t, ok)
	}

	// The record is deleted on the third wrong attempt: even the correct
	// code no longer verifies.
	ok, err := codes.VerifyTwoFactorCode(ctx, "user-1", "111111")
	require.NoError(t, err)
	assert.False(t, ok)

	left, err := codes.TwoFactorAttemptsLeft(ctx, "user-1")
	require.NoError(t, err)
	assert.Equal(t, 0, left, "attempts left must be 0, never negative")
}

func TestTwoFactorAttemptsLeft_AbsentReturnsZero(t *testing.T) {
	ctx := context.Background()
	codes := NewCodes(newFakeStore())

	left, err := codes.TwoFactorAttemptsLeft(ctx, "never-issued")
	require.NoError(t, err)
	assert.Zero(t, left, "absent record must not be reported as full attempts available")
}

func TestIssueTwoFactorCode_ReissueResetsRecord(t *testing.T) {
	ctx := context.Background()
	store := newFakeStore()
	codes := NewCodes(store)

	require.NoError(t, codes.IssueTwoFactorCode(ctx, "user-1", "111111"))
	_, err := codes.VerifyTwoFactorCode(ctx, "user-1", "999999")
	require.NoError(t, err)

	store.advance(100 * time.Second)
	require.NoError(t, codes.IssueTwoFactorCode(ctx, "user-1", "222222"))

	left, err := codes.TwoFactorAttemptsLeft(ctx, "user-1")
	require.NoError(t, err)
	assert.Equal(t, 3, left, "re-issuance must reset the attempt counter")

	ttl, ok, err := store.RemainingTTL(ctx, "2fa:user-1")
	require.NoError(t, err)
	require.True(t, ok)
	assert.Equal(t, 300*time.Second, ttl, "re-issuance must reset the TTL")

	ok, err = codes.VerifyTwoFactorCode(ctx, "user-1", "111111")
	require.NoError(t, err)
	assert.False(t, ok, "the replaced code must no longer verify")

	ok, err = codes.VerifyTwoFactorCode(ctx, "user-1", "222222")
	require.NoError(t, err)
	assert.True(t, ok)
}

func TestVerifyTwoFactorCode_MismatchPreservesTTL(t *testing.T) {
	ctx := context.Background()
	store := newFakeStore()
	codes := NewCodes(store)

	require.NoError(t, codes.IssueTwoFactorCode(ctx, "user-1", "111111"))
	store.advance(100 * time.Second)

	ok, err := codes.VerifyTwoFactorCode(ctx, "user-1", "000000")
	require.NoError(t, err)
	assert.False(t, ok)

	ttl, present, err := store.RemainingTTL(ctx, "2fa:user-1")
	require.NoError(t, err)
	require.True(t, present)
	assert.LessOrEqual(t, ttl, 200*time.Second,
		"attempt-increment rewrite must not extend the record lifetime")
}

func TestVerifyTwoFactorCode_ExpiredRecord(t *testing.T) {
	ctx := context.Background()
	store := newFakeStore()
	codes := NewCodes(store)

	require.NoError(t, codes.IssueTwoFactorCode(ctx, "user-1", "111111"))
	store.advance(301 * time.Second)

	ok, err := codes.VerifyTwoFactorCode(ctx, "user-1", "111111")
	require.NoError(t, err)
	assert.False(t, ok)

	left, err := codes.TwoFactorAttemptsLeft(ctx, "user-1")
	require.NoError(t, err)
	assert.Zero(t, left)
}

func TestVerifyTwoFactorCode_StoreErrorPropagates(t *testing.T) {
	ctx := context.Background()
	store := newFakeStore()
	store.err = errors.New("connection refused")
	codes := NewCodes(store)

	_, err := codes.VerifyTwoFactorCode(ctx, "user-1", "111111")
	assert.Error(t, err, "backend unavailability must surface to the caller")

	err = codes.IssueTwoFactorCode(ctx, "user-1", "111111")
	assert.Error(t, err)
}

func TestPasswordChangeCode_MismatchDoesNotMutate(t *testing.T) {
	ctx := context.Background()
	store := newFakeStore()
	codes := NewCodes(store)

	require.NoError(t, codes.IssuePasswordChangeCode(ctx, "user-9", "654321"))

	ok, err := codes.VerifyPasswordChangeCode(ctx, "user-9", "111111")
	require.NoError(t, err)
	assert.False(t, ok)

	value, present, err := store.Get(ctx, "pwd-change:user-9")
	require.NoError(t, err)
	require.True(t, present, "mismatch must leave the record in place")
	assert.Equal(t, "654321", value, "mismatch must not rewrite the stored code")

	ok, err = codes.VerifyPasswordChangeCode(ctx, "user-9", "654321")
	require.NoError(t, err)
	assert.True(t, ok)

	_, present, err = store.Get(ctx, "pwd-change:user-9")
	require.NoError(t, err)
	assert.False(t, present, "success must delete the record")
}

func TestRevoke(t *testing.T) {
	ctx := context.Background()
	store := newFakeStore()
	codes := NewCodes(store)

	require.NoError(t, codes.IssueTwoFactorCode(ctx, "user-1", "111111"))
	require.NoError(t, codes.RevokeTwoFactorCode(ctx, "user-1"))
	ok, err := codes.VerifyTwoFactorCode(ctx, "user-1", "111111")
	require.NoError(t, err)
	assert.False(t, ok)

	// Revoking again, or revoking a key that never existed, is a no-op.
	require.NoError(t, codes.RevokeTwoFactorCode(ctx, "user-1"))
	require.NoError(t, codes.RevokePasswordChangeCode(ctx, "user-1"))
}
