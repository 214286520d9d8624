package service

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"

	"github.com/spec-kit/task-service/internal/domain"
	"github.com/spec-kit/task-service/internal/events"
	"github.com/spec-kit/task-service/internal/repository"
	"github.com/spec-kit/task-service/pkg/util"
)

// TaskService coordinates task workflows.
type TaskService struct {
	tasks      repository.TaskRepository
	comments   repository.CommentRepository
	users      repository.UserRepository
	dispatcher events.Dispatcher
}

// TaskDependencies bundles collaborators for the task service.
type TaskDependencies struct {
	TaskRepo    repository.TaskRepository
	CommentRepo repository.CommentRepository
	UserRepo    repository.UserRepository
	Dispatcher  events.Dispatcher
}

// NewTaskService constructs the service.
func NewTaskService(deps TaskDependencies) *TaskService {
	return &TaskService{
		tasks:      deps.TaskRepo,
		comments:   deps.CommentRepo,
		users:      deps.UserRepo,
		dispatcher: deps.Dispatcher,
	}
}

// TaskCreateInput describes task creation payload.
type TaskCreateInput struct {
	Name        string
	Description string
	Priority    domain.TaskPriority
}

// TaskUpdateInput describes mutable task fields. Nil fields are left as-is.
type TaskUpdateInput struct {
	Name        *string
	Description *string
	Status      *domain.TaskStatus
	Priority    *domain.TaskPriority
}

// CreateTask creates a task authored by the caller. Task names are unique.
func (s *TaskService) CreateTask(ctx context.Context, authorEmail string, input TaskCreateInput) (*domain.Task, error) {
	if _, err := s.tasks.GetByName(ctx, input.Name); err == nil {
		return nil, util.NewConflict("task name is already in use", nil)
	} else if !errors.Is(err, pgx.ErrNoRows) {
		return nil, err
	}

	priority := input.Priority
	if priority == "" {
		priority = domain.TaskPriorityMedium
	}

	task := &domain.Task{
		Name:        input.Name,
		Description: input.Description,
		Status:      domain.TaskStatusExpectation,
		Priority:    priority,
		AuthorEmail: authorEmail,
	}
	if err := s.tasks.Create(ctx, task); err != nil {
		return nil, err
	}

	s.publish(ctx, events.EventTaskCreated, task.ID, authorEmail, events.TaskCreatedPayload{
		Name:     task.Name,
		Priority: task.Priority,
	})
	return task, nil
}

// UpdateTaskByExecutor lets the assigned executor move a task through its
// lifecycle. Callers that are not the executor are rejected.
func (s *TaskService) UpdateTaskByExecutor(ctx context.Context, actorEmail, id string, input TaskUpdateInput) (*domain.Task, error) {
	task, err := s.getTask(ctx, id)
	if err != nil {
		return nil, err
	}
	if task.ExecutorEmail == nil || *task.ExecutorEmail != actorEmail {
		return nil, util.NewForbidden("you are not the executor of this task")
	}
	// Executors may only change status.
	return s.applyUpdate(ctx, task, actorEmail, TaskUpdateInput{Status: input.Status})
}

// UpdateTaskByAdmin applies any field change without executor checks.
func (s *TaskService) UpdateTaskByAdmin(ctx context.Context, actorEmail, id string, input TaskUpdateInput) (*domain.Task, error) {
	task, err := s.getTask(ctx, id)
	if err != nil {
		return nil, err
	}
	return s.applyUpdate(ctx, task, actorEmail, input)
}

// DeleteTask removes a task and its comments.
func (s *TaskService) DeleteTask(ctx context.Context, actorEmail, id string) error {
	task, err := s.getTask(ctx, id)
	if err != nil {
		return err
	}
	if err := s.tasks.Delete(ctx, task.ID); err != nil {
		return err
	}
	s.publish(ctx, events.EventTaskDeleted, task.ID, actorEmail, nil)
	return nil
}

// AssignExecutor appoints a registered user as the task's executor.
func (s *TaskService) AssignExecutor(ctx context.Context, actorEmail, id, executorEmail string) (*domain.Task, error) {
	if _, err := s.users.GetByEmail(ctx, executorEmail); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, util.NewNotFound("user", map[string]any{"email": executorEmail})
		}
		return nil, err
	}

	task, err := s.getTask(ctx, id)
	if err != nil {
		return nil, err
	}
	if err := s.tasks.AssignExecutor(ctx, task.ID, executorEmail); err != nil {
		return nil, err
	}
	task.ExecutorEmail = &executorEmail

	s.publish(ctx, events.EventTaskAssigned, task.ID, actorEmail, events.TaskAssignedPayload{
		ExecutorEmail: executorEmail,
	})
	return task, nil
}

// ListTasks returns a page of tasks together with the total count.
func (s *TaskService) ListTasks(ctx context.Context, limit, offset int) ([]*domain.Task, int, error) {
	if limit <= 0 || limit > 100 {
		limit = 20
	}
	if offset < 0 {
		offset = 0
	}
	return s.tasks.List(ctx, limit, offset)
}

// SearchTasks filters by status and priority. Unknown enum values are
// rejected with a validation error listing the allowed ones.
func (s *TaskService) SearchTasks(ctx context.Context, status, priority string) ([]*domain.Task, error) {
	var filter repository.TaskFilter

	if status != "" {
		parsed, ok := domain.ParseTaskStatus(status)
		if !ok {
			return nil, util.NewValidationError("invalid status", map[string]any{
				"allowed": []domain.TaskStatus{domain.TaskStatusExpectation, domain.TaskStatusInProcess, domain.TaskStatusComplete},
			})
		}
		filter.Status = &parsed
	}
	if priority != "" {
		parsed, ok := domain.ParseTaskPriority(priority)
		if !ok {
			return nil, util.NewValidationError("invalid priority", map[string]any{
				"allowed": []domain.TaskPriority{domain.TaskPriorityLow, domain.TaskPriorityMedium, domain.TaskPriorityHigh},
			})
		}
		filter.Priority = &parsed
	}

	return s.tasks.Search(ctx, filter)
}

// AddComment attaches a comment to an existing task.
func (s *TaskService) AddComment(ctx context.Context, authorEmail, taskID, text string) (*domain.Comment, error) {
	task, err := s.getTask(ctx, taskID)
	if err != nil {
		return nil, err
	}

	comment := &domain.Comment{
		TaskID:      task.ID,
		AuthorEmail: authorEmail,
		Text:        text,
	}
	if err := s.comments.Create(ctx, comment); err != nil {
		return nil, err
	}

	s.publish(ctx, events.EventCommentAdded, task.ID, authorEmail, events.CommentAddedPayload{
		CommentID: comment.ID,
	})
	return comment, nil
}

// ListComments returns a task's comments oldest-first.
func (s *TaskService) ListComments(ctx context.Context, taskID string) ([]*domain.Comment, error) {
	if _, err := s.getTask(ctx, taskID); err != nil {
		return nil, err
	}
	return s.comments.ListByTask(ctx, taskID)
}

func (s *TaskService) getTask(ctx context.Context, id string) (*domain.Task, error) {
	task, err := s.tasks.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, util.NewNotFound("task", map[string]any{"id": id})
		}
		return nil, err
	}
	return task, nil
}

func (s *TaskService) applyUpdate(ctx context.Context, task *domain.Task, actorEmail string, input TaskUpdateInput) (*domain.Task, error) {
	previousStatus := task.Status

	if input.Name != nil {
		task.Name = *input.Name
	}
	if input.Description != nil {
		task.Description = *input.Description
	}
	if input.Status != nil {
		task.Status = *input.Status
	}
	if input.Priority != nil {
		task.Priority = *input.Priority
	}

	if err := s.tasks.Update(ctx, task); err != nil {
		return nil, err
	}

	if task.Status != previousStatus {
		s.publish(ctx, events.EventTaskStatusChanged, task.ID, actorEmail, events.TaskStatusChangedPayload{
			From: previousStatus,
			To:   task.Status,
		})
	}
	return task, nil
}

func (s *TaskService) publish(ctx context.Context, eventType events.EventType, taskID, actorEmail string, payload interface{}) {
	if s.dispatcher == nil {
		return
	}
	_ = s.dispatcher.Publish(ctx, events.Event{
		ID:         uuid.NewString(),
		Type:       eventType,
		TaskID:     taskID,
		ActorEmail: actorEmail,
		Timestamp:  time.Now(),
		Payload:    payload,
	})
}
