package sms

import (
	"context"

	"github.com/nosregor/learning-platform/internal/models"

	"go.uber.org/zap"
)

// LogSender is the explicit degraded mode for non-production environments:
// it logs the delivery intent and succeeds without sending anything. It is
// only ever selected through configuration (sms.type: log), never as a
// silent fallback.
type LogSender struct{}

func (LogSender) SendVerificationCode(_ context.Context, user models.User, code string) error {
	zap.L().Warn("SMS delivery disabled, logging verification code instead",
		zap.String("mobile_number", user.MobileNumber),
		zap.String("code", code))
	return nil
}

func (LogSender) SendPasswordChangeCode(_ context.Context, user models.User, code string) error {
	zap.L().Warn("SMS delivery disabled, logging password change code instead",
		zap.String("mobile_number", user.MobileNumber),
		zap.String("code", code))
	return nil
}
