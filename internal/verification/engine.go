// Package verification implements the two-step verification code state
// machine: issuance of short-lived codes, attempt-limited verification for
// the login flow, and the single-value password change variant.
package verification

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/nosregor/learning-platform/internal/cache"
	"github.com/nosregor/learning-platform/internal/configuration"

	"go.uber.org/zap"
)

// codeRecord is the stored value for login verification codes. The wire
// format is shared with the backend-side consume script, so field names
// are part of the storage contract.
type codeRecord struct {
	Code     string `json:"code"`
	Attempts int    `json:"attempts"`
}

// Codes manages verification codes for both flows. The two flows differ
// deliberately in anti-brute-force posture: login codes tolerate at most
// MaxCodeAttempts wrong submissions inside their TTL, password change
// codes are a single stored value with no attempt counter.
type Codes struct {
	Store cache.ICodeStore
}

func NewCodes(store cache.ICodeStore) *Codes {
	return &Codes{Store: store}
}

func twoFactorKey(userID string) string {
	return fmt.Sprintf(configuration.CacheTwoFactorCodeKey, userID)
}

func passwordChangeKey(userID string) string {
	return fmt.Sprintf(configuration.CachePasswordChangeCodeKey, userID)
}

// IssueTwoFactorCode stores a login verification code for the user.
// Any previous record is overwritten: attempts reset to zero and the TTL
// restarts, so at most one live code exists per user.
func (c *Codes) IssueTwoFactorCode(ctx context.Context, userID, code string) error {
	record, err := json.Marshal(codeRecord{Code: code, Attempts: 0})
	if err != nil {
		return err
	}
	return c.Store.Put(
		ctx,
		twoFactorKey(userID),
		string(record),
		configuration.TwoFactorCodeTTL*time.Second,
	)
}

// VerifyTwoFactorCode checks a submitted login code. A match consumes the
// record. A mismatch increments the attempt counter while preserving the
// remaining TTL; the record is deleted once the counter reaches
// MaxCodeAttempts, after which even the correct code no longer verifies.
func (c *Codes) VerifyTwoFactorCode(ctx context.Context, userID, code string) (bool, error) {
	result, err := c.Store.ConsumeCode(
		ctx,
		twoFactorKey(userID),
		code,
		configuration.MaxCodeAttempts,
	)
	if err != nil {
		return false, err
	}

	switch result {
	case cache.CodeConsumed:
		zap.L().Debug("Verification code consumed", zap.String("user_id", userID))
		return true, nil
	case cache.CodeBurned:
		zap.L().Warn("Verification code exceeded max attempts", zap.String("user_id", userID))
		return false, nil
	default:
		return false, nil
	}
}

// TwoFactorAttemptsLeft returns how many wrong submissions remain before
// the code is invalidated. A missing or consumed record reports zero, not
// the full budget, so probing clients cannot distinguish "no code" from
// "exhausted".
func (c *Codes) TwoFactorAttemptsLeft(ctx context.Context, userID string) (int, error) {
	value, ok, err := c.Store.Get(ctx, twoFactorKey(userID))
	if err != nil {
		return 0, err
	}
	if !ok {
		return 0, nil
	}

	var record codeRecord
	if err := json.Unmarshal([]byte(value), &record); err != nil {
		return 0, err
	}

	remaining := configuration.MaxCodeAttempts - record.Attempts
	if remaining < 0 {
		remaining = 0
	}
	return remaining, nil
}

// RevokeTwoFactorCode unconditionally deletes the user's login code.
func (c *Codes) RevokeTwoFactorCode(ctx context.Context, userID string) error {
	return c.Store.Delete(ctx, twoFactorKey(userID))
}

// IssuePasswordChangeCode stores a password change code as a bare value.
func (c *Codes) IssuePasswordChangeCode(ctx context.Context, userID, code string) error {
	return c.Store.Put(
		ctx,
		passwordChangeKey(userID),
		code,
		configuration.PasswordChangeCodeTTL*time.Second,
	)
}

// VerifyPasswordChangeCode checks a submitted password change code.
// A mismatch leaves the record untouched; a match deletes it.
func (c *Codes) VerifyPasswordChangeCode(ctx context.Context, userID, code string) (bool, error) {
	stored, ok, err := c.Store.Get(ctx, passwordChangeKey(userID))
	if err != nil {
		return false, err
	}
	if !ok || stored != code {
		return false, nil
	}

	if err := c.Store.Delete(ctx, passwordChangeKey(userID)); err != nil {
		return false, err
	}
	zap.L().Debug("Password change code consumed", zap.String("user_id", userID))
	return true, nil
}

// RevokePasswordChangeCode unconditionally deletes the user's password
// change code.
func (c *Codes) RevokePasswordChangeCode(ctx context.Context, userID string) error {
	return c.Store.Delete(ctx, passwordChangeKey(userID))
}
