package core

import (
	"github.com/nosregor/learning-platform/internal/models"
	"github.com/nosregor/learning-platform/internal/sms"

	"go.uber.org/zap"
)

// NewSender selects the verification code delivery channel. The "log"
// type is for environments without a provider: codes end up in the log
// instead of on a phone.
func NewSender(config models.SMSConfiguration, productName string) sms.ISender {
	switch config.Type {
	case "twilio":
		return sms.NewTwilioSender(*config.Twilio, productName)
	case "smtp":
		sender, err := sms.NewMailSender(*config.SMTP, productName)
		if err != nil {
			zap.L().Fatal("Failed to initialize SMTP sender", zap.Error(err))
		}
		return sender
	case "log":
		zap.L().Warn("SMS delivery disabled, verification codes are logged")
		return sms.LogSender{}
	default:
		zap.L().Fatal("Unknown SMS sender type", zap.String("type", config.Type))
		return nil
	}
}
