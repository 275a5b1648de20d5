// Package tokens issues and resolves the opaque correlation tokens used
// between the two steps of login and password change. A token proves "I am
// mid-flow for user X"; the SMS code is a second, independent secret. The
// two are stored under separate keys and neither reveals the other.
package tokens

import (
	"context"
	"fmt"
	"time"

	"github.com/nosregor/learning-platform/internal/cache"
	"github.com/nosregor/learning-platform/internal/configuration"
	"github.com/nosregor/learning-platform/internal/helpers"
)

type PendingTokens struct {
	Store cache.ICodeStore
}

func NewPendingTokens(store cache.ICodeStore) *PendingTokens {
	return &PendingTokens{Store: store}
}

func (p *PendingTokens) issue(ctx context.Context, keyFormat, userID string) (string, error) {
	token, err := helpers.GenerateOpaqueToken(configuration.OpaqueTokenBytes)
	if err != nil {
		return "", err
	}

	err = p.Store.Put(
		ctx,
		fmt.Sprintf(keyFormat, token),
		userID,
		configuration.PendingTokenTTL*time.Second,
	)
	if err != nil {
		return "", err
	}
	return token, nil
}

func (p *PendingTokens) resolve(ctx context.Context, keyFormat, token string) (string, bool, error) {
	return p.Store.Get(ctx, fmt.Sprintf(keyFormat, token))
}

// IssueAuth mints a pending-2FA token bound to userID, valid for the same
// window as the verification code it pairs with.
func (p *PendingTokens) IssueAuth(ctx context.Context, userID string) (string, error) {
	return p.issue(ctx, configuration.CachePendingAuthTokenKey, userID)
}

// ResolveAuth returns the user the token was issued for, or ok=false when
// the token is unknown or expired.
func (p *PendingTokens) ResolveAuth(ctx context.Context, token string) (string, bool, error) {
	return p.resolve(ctx, configuration.CachePendingAuthTokenKey, token)
}

// InvalidateAuth consumes a pending-2FA token. Called by the orchestrator
// after successful verification to enforce single use.
func (p *PendingTokens) InvalidateAuth(ctx context.Context, token string) error {
	return p.Store.Delete(ctx, fmt.Sprintf(configuration.CachePendingAuthTokenKey, token))
}

func (p *PendingTokens) IssuePasswordChange(ctx context.Context, userID string) (string, error) {
	return p.issue(ctx, configuration.CachePasswordChangeTokenKey, userID)
}

func (p *PendingTokens) ResolvePasswordChange(ctx context.Context, token string) (string, bool, error) {
	return p.resolve(ctx, configuration.CachePasswordChangeTokenKey, token)
}

func (p *PendingTokens) InvalidatePasswordChange(ctx context.Context, token string) error {
	return p.Store.Delete(ctx, fmt.Sprintf(configuration.CachePasswordChangeTokenKey, token))
}
