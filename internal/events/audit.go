// Package events carries the audit trail of the authentication flows over
// an in-process pub/sub channel. Publishing is best effort: a failed audit
// write is logged and never fails the request that produced it.
package events

import (
	"encoding/json"
	"time"

	"github.com/nosregor/learning-platform/internal/configuration"

	"github.com/ThreeDotsLabs/watermill"
	"github.com/ThreeDotsLabs/watermill/message"
	"go.uber.org/zap"
)

// IPublisher matches watermill's message.Publisher so transports can be
// swapped without touching the services.
type IPublisher interface {
	Publish(topic string, messages ...*message.Message) error
	Close() error
}

// Audit actions.
const (
	UserRegistered  = "user_registered"
	LoginCodeIssued = "login_code_issued"
	UserLoggedIn    = "user_logged_in"
	PasswordChanged = "password_changed"
)

type AuditEvent struct {
	Action string    `json:"action"`
	UserID string    `json:"user_id"`
	Email  string    `json:"email,omitempty"`
	At     time.Time `json:"at"`
}

func NewAuditEvent(action, userID, email string) AuditEvent {
	return AuditEvent{Action: action, UserID: userID, Email: email, At: time.Now()}
}

func PublishAudit(publisher IPublisher, event AuditEvent) error {
	payload, err := json.Marshal(event)
	if err != nil {
		return err
	}
	return publisher.Publish(
		configuration.EventsAudit,
		message.NewMessage(watermill.NewUUID(), payload),
	)
}

// HandleAuditEvents consumes the audit stream and writes it to the
// structured log. Runs as a background worker for the process lifetime.
func HandleAuditEvents(messages <-chan *message.Message) {
	for msg := range messages {
		var event AuditEvent
		if err := json.Unmarshal(msg.Payload, &event); err != nil {
			zap.L().Error("Failed to decode audit event", zap.Error(err))
			msg.Ack()
			continue
		}

		zap.L().Info("audit",
			zap.String("action", event.Action),
			zap.String("user_id", event.UserID),
			zap.String("email", event.Email),
			zap.Time("at", event.At))
		msg.Ack()
	}
}
