package dto

import (
	"time"

	"github.com/spec-kit/task-service/internal/domain"
)

// TaskCreateRequest payload for new tasks.
type TaskCreateRequest struct {
	Name        string `json:"name" validate:"required"`
	Description string `json:"description"`
	Priority    string `json:"priority" validate:"omitempty,oneof=LOW MEDIUM HIGH"`
}

// TaskUpdateRequest payload for task updates. Absent fields are untouched.
type TaskUpdateRequest struct {
	Name        *string `json:"name"`
	Description *string `json:"description"`
	Status      *string `json:"status" validate:"omitempty,oneof=EXPECTATION IN_PROCESS COMPLETE"`
	Priority    *string `json:"priority" validate:"omitempty,oneof=LOW MEDIUM HIGH"`
}

// TaskAssignRequest appoints an executor.
type TaskAssignRequest struct {
	Email string `json:"email" validate:"required,email"`
}

// CommentCreateRequest payload for new comments.
type CommentCreateRequest struct {
	Text string `json:"text" validate:"required"`
}

// TaskResponse is the wire shape of a task.
type TaskResponse struct {
	ID            string    `json:"id"`
	Name          string    `json:"name"`
	Description   string    `json:"description"`
	Status        string    `json:"status"`
	Priority      string    `json:"priority"`
	AuthorEmail   string    `json:"author_email"`
	ExecutorEmail *string   `json:"executor_email,omitempty"`
	CreatedAt     time.Time `json:"created_at"`
	UpdatedAt     time.Time `json:"updated_at"`
}

// NewTaskResponse maps a domain task onto the wire shape.
func NewTaskResponse(task *domain.Task) TaskResponse {
	return TaskResponse{
		ID:            task.ID,
		Name:          task.Name,
		Description:   task.Description,
		Status:        string(task.Status),
		Priority:      string(task.Priority),
		AuthorEmail:   task.AuthorEmail,
		ExecutorEmail: task.ExecutorEmail,
		CreatedAt:     task.CreatedAt,
		UpdatedAt:     task.UpdatedAt,
	}
}

// CommentResponse is the wire shape of a comment.
type CommentResponse struct {
	ID          string    `json:"id"`
	TaskID      string    `json:"task_id"`
	AuthorEmail string    `json:"author_email"`
	Text        string    `json:"text"`
	CreatedAt   time.Time `json:"created_at"`
}

// NewCommentResponse maps a domain comment onto the wire shape.
func NewCommentResponse(comment *domain.Comment) CommentResponse {
	return CommentResponse{
		ID:          comment.ID,
		TaskID:      comment.TaskID,
		AuthorEmail: comment.AuthorEmail,
		Text:        comment.Text,
		CreatedAt:   comment.CreatedAt,
	}
}
