package tokens

import (
	"context"
	"testing"
	"time"

	"github.com/nosregor/learning-platform/internal/cache"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type memStore struct {
	entries map[string]string
}

func (m *memStore) Put(_ context.Context, key, value string, _ time.Duration) error {
	m.entries[key] = value
	return nil
}

func (m *memStore) Get(_ context.Context, key string) (string, bool, error) {
	v, ok := m.entries[key]
	return v, ok, nil
}

func (m *memStore) RemainingTTL(_ context.Context, _ string) (time.Duration, bool, error) {
	return 0, false, nil
}

func (m *memStore) Delete(_ context.Context, key string) error {
	delete(m.entries, key)
	return nil
}

func (m *memStore) ConsumeCode(_ context.Context, _, _ string, _ int) (cache.ConsumeResult, error) {
	return cache.CodeAbsent, nil
}

func (m *memStore) Close() error { return nil }

func TestPendingAuthToken_Lifecycle(t *testing.T) {
	ctx := context.Background()
	pending := NewPendingTokens(&memStore{entries: map[string]string{}})

	token, err := pending.IssueAuth(ctx, "user-123")
	require.NoError(t, err)
	assert.Len(t, token, 64, "32 random bytes hex encoded")

	userID, ok, err := pending.ResolveAuth(ctx, token)
	require.NoError(t, err)
	require.True(t, ok)
	assert.Equal(t, "user-123", userID)

	require.NoError(t, pending.InvalidateAuth(ctx, token))

	_, ok, err = pending.ResolveAuth(ctx, token)
	require.NoError(t, err)
	assert.False(t, ok, "token is single use")
}

func TestPendingTokens_NamespacesAreIndependent(t *testing.T) {
	ctx := context.Background()
	pending := NewPendingTokens(&memStore{entries: map[string]string{}})

	authToken, err := pending.IssueAuth(ctx, "user-1")
	require.NoError(t, err)

	pwdToken, err := pending.IssuePasswordChange(ctx, "user-1")
	require.NoError(t, err)
	assert.NotEqual(t, authToken, pwdToken)

	// A password change token must not resolve as a pending auth token.
	_, ok, err := pending.ResolveAuth(ctx, pwdToken)
	require.NoError(t, err)
	assert.False(t, ok)

	userID, ok, err := pending.ResolvePasswordChange(ctx, pwdToken)
	require.NoError(t, err)
	require.True(t, ok)
	assert.Equal(t, "user-1", userID)
}

func TestResolveAuth_UnknownToken(t *testing.T) {
	ctx := context.Background()
	pending := NewPendingTokens(&memStore{entries: map[string]string{}})

	_, ok, err := pending.ResolveAuth(ctx, "deadbeef")
	require.NoError(t, err)
	assert.False(t, ok)
}
