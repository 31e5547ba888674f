package worker

import (
	"context"

	"go.uber.org/zap"

	"github.com/spec-kit/record-service/internal/events"
)

// StartAuditWorker subscribes an audit logger to auth and transaction
// events so every session and money movement leaves a trace.
func StartAuditWorker(dispatcher events.Dispatcher, logger *zap.Logger) {
	if dispatcher == nil {
		return
	}

	audit := func(ctx context.Context, event events.Event) error {
		logger.Info("audit",
			zap.String("event_id", event.ID),
			zap.String("type", string(event.Type)),
			zap.String("user_id", event.UserID),
			zap.Time("at", event.Timestamp),
			zap.Any("payload", event.Payload),
		)
		return nil
	}

	for _, eventType := range []events.EventType{
		events.EventUserRegistered,
		events.EventUserLogin,
		events.EventUserLogout,
		events.EventTokenRefreshed,
		events.EventTransactionCreated,
	} {
		dispatcher.Subscribe(eventType, audit)
	}
}
