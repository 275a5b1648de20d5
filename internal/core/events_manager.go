package core

import (
	"context"

	"github.com/nosregor/learning-platform/internal/configuration"
	"github.com/nosregor/learning-platform/internal/events"

	"github.com/ThreeDotsLabs/watermill"
	"github.com/ThreeDotsLabs/watermill/pubsub/gochannel"
	"go.uber.org/zap"
)

// NewAuditChannel creates the in-process pub/sub channel carrying audit
// events. The same GoChannel instance must back both the publisher and
// the subscriber side.
func NewAuditChannel() *gochannel.GoChannel {
	return gochannel.NewGoChannel(gochannel.Config{
		Persistent: true,
	}, watermill.NopLogger{})
}

// StartAuditWorker subscribes to the audit topic and runs the consumer
// for the process lifetime.
func StartAuditWorker(channel *gochannel.GoChannel) {
	messages, err := channel.Subscribe(context.Background(), configuration.EventsAudit)
	if err != nil {
		zap.L().Fatal("Failed to subscribe to audit topic", zap.Error(err))
	}

	go events.HandleAuditEvents(messages)
	zap.L().Info("Started audit worker")
}
