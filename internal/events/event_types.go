package events

import (
	"time"

	"github.com/spec-kit/task-service/internal/domain"
)

// EventType enumerates supported event identifiers.
type EventType string

const (
	EventTaskCreated       EventType = "task_created"
	EventTaskStatusChanged EventType = "task_status_changed"
	EventTaskAssigned      EventType = "task_assigned"
	EventTaskDeleted       EventType = "task_deleted"
	EventCommentAdded      EventType = "comment_added"
)

// Event represents a domain event emitted by services.
type Event struct {
	ID         string      `json:"id"`
	Type       EventType   `json:"type"`
	TaskID     string      `json:"task_id"`
	ActorEmail string      `json:"actor_email"`
	Timestamp  time.Time   `json:"timestamp"`
	Payload    interface{} `json:"payload"`
}

// TaskCreatedPayload describes a freshly created task.
type TaskCreatedPayload struct {
	Name     string              `json:"name"`
	Priority domain.TaskPriority `json:"priority"`
}

// TaskStatusChangedPayload carries a status transition.
type TaskStatusChangedPayload struct {
	From domain.TaskStatus `json:"from"`
	To   domain.TaskStatus `json:"to"`
}

// TaskAssignedPayload carries the new executor.
type TaskAssignedPayload struct {
	ExecutorEmail string `json:"executor_email"`
}

// CommentAddedPayload carries comment metadata.
type CommentAddedPayload struct {
	CommentID string `json:"comment_id"`
}
