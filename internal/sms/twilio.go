package sms

import (
	"context"
	"fmt"
	"net/http"
	"time"

	apierrors "github.com/nosregor/learning-platform/internal/errors"
	"github.com/nosregor/learning-platform/internal/models"

	"github.com/go-resty/resty/v2"
	"go.uber.org/zap"
)

const twilioBaseURL = "https://api.twilio.com"

// TwilioSender sends SMS through the Twilio Messages REST API. Transport
// failures are retried with capped backoff at this layer only: three
// attempts in total, then the error propagates to the caller.
type TwilioSender struct {
	client      *resty.Client
	accountSID  string
	fromNumber  string
	productName string
}

type twilioMessageResponse struct {
	SID    string `json:"sid"`
	Status string `json:"status"`
}

func NewTwilioSender(config models.TwilioSMSConfiguration, productName string) *TwilioSender {
	client := resty.New().
		SetBaseURL(twilioBaseURL).
		SetBasicAuth(config.AccountSID, config.AuthToken).
		SetTimeout(10 * time.Second).
		SetRetryCount(2).
		SetRetryWaitTime(250 * time.Millisecond).
		SetRetryMaxWaitTime(2 * time.Second).
		AddRetryCondition(func(r *resty.Response, err error) bool {
			return err != nil || r.StatusCode() >= http.StatusInternalServerError
		})

	return &TwilioSender{
		client:      client,
		accountSID:  config.AccountSID,
		fromNumber:  config.FromNumber,
		productName: productName,
	}
}

func (t *TwilioSender) send(ctx context.Context, to, body string) error {
	if t.fromNumber == "" {
		return apierrors.NewAPIError(500, apierrors.ErrMisconfiguredSMS)
	}

	resp, err := t.client.R().
		SetContext(ctx).
		SetFormData(map[string]string{
			"To":   to,
			"From": t.fromNumber,
			"Body": body,
		}).
		SetResult(&twilioMessageResponse{}).
		Post(fmt.Sprintf("/2010-04-01/Accounts/%s/Messages.json", t.accountSID))
	if err != nil {
		return fmt.Errorf("failed to send SMS to %s: %w", to, err)
	}
	if resp.IsError() {
		return fmt.Errorf("failed to send SMS to %s: twilio returned %d", to, resp.StatusCode())
	}

	if message, ok := resp.Result().(*twilioMessageResponse); ok {
		zap.L().Info("SMS sent",
			zap.String("to", to),
			zap.String("message_sid", message.SID))
	}
	return nil
}

func (t *TwilioSender) SendVerificationCode(
	ctx context.Context,
	user models.User,
	code string,
) error {
	return t.send(ctx, user.MobileNumber, verificationMessage(t.productName, code))
}

func (t *TwilioSender) SendPasswordChangeCode(
	ctx context.Context,
	user models.User,
	code string,
) error {
	return t.send(ctx, user.MobileNumber, passwordChangeMessage(t.productName, code))
}
