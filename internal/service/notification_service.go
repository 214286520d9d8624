package service

import (
	"context"

	"go.uber.org/zap"

	"github.com/spec-kit/task-service/internal/events"
)

// NotificationService reacts to domain events by emitting notifications.
// Delivery is a logging stub; the subscription wiring is the contract.
type NotificationService struct {
	dispatcher events.Dispatcher
	logger     *zap.Logger
}

// NewNotificationService creates the service.
func NewNotificationService(dispatcher events.Dispatcher, logger *zap.Logger) *NotificationService {
	return &NotificationService{dispatcher: dispatcher, logger: logger}
}

// RegisterHandlers subscribes to task events.
func (n *NotificationService) RegisterHandlers() {
	if n.dispatcher == nil {
		return
	}
	n.dispatcher.Subscribe(events.EventTaskCreated, n.handleTaskEvent)
	n.dispatcher.Subscribe(events.EventTaskStatusChanged, n.handleTaskEvent)
	n.dispatcher.Subscribe(events.EventTaskAssigned, n.handleTaskEvent)
	n.dispatcher.Subscribe(events.EventTaskDeleted, n.handleTaskEvent)
	n.dispatcher.Subscribe(events.EventCommentAdded, n.handleTaskEvent)
}

func (n *NotificationService) handleTaskEvent(_ context.Context, event events.Event) error {
	n.logger.Info("notification",
		zap.String("event_type", string(event.Type)),
		zap.String("task_id", event.TaskID),
		zap.String("actor", event.ActorEmail),
		zap.Any("payload", event.Payload),
	)
	return nil
}
