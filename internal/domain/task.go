package domain

import "time"

// TaskStatus represents lifecycle states for a task.
type TaskStatus string

const (
	TaskStatusExpectation TaskStatus = "EXPECTATION"
	TaskStatusInProcess   TaskStatus = "IN_PROCESS"
	TaskStatusComplete    TaskStatus = "COMPLETE"
)

// ParseTaskStatus maps an input string onto the status enumeration.
func ParseTaskStatus(value string) (TaskStatus, bool) {
	switch TaskStatus(value) {
	case TaskStatusExpectation, TaskStatusInProcess, TaskStatusComplete:
		return TaskStatus(value), true
	default:
		return "", false
	}
}

// TaskPriority represents urgency levels for a task.
type TaskPriority string

const (
	TaskPriorityLow    TaskPriority = "LOW"
	TaskPriorityMedium TaskPriority = "MEDIUM"
	TaskPriorityHigh   TaskPriority = "HIGH"
)

// ParseTaskPriority maps an input string onto the priority enumeration.
func ParseTaskPriority(value string) (TaskPriority, bool) {
	switch TaskPriority(value) {
	case TaskPriorityLow, TaskPriorityMedium, TaskPriorityHigh:
		return TaskPriority(value), true
	default:
		return "", false
	}
}

// Task is the domain model for tracked work items.
type Task struct {
	ID            string
	Name          string
	Description   string
	Status        TaskStatus
	Priority      TaskPriority
	AuthorEmail   string
	ExecutorEmail *string
	CreatedAt     time.Time
	UpdatedAt     time.Time
}
