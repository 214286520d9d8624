package service

import (
	"context"
	"errors"
	"strconv"
	"sync"
	"testing"
	"time"

	"github.com/jackc/pgx/v5"

	"github.com/spec-kit/task-service/internal/domain"
	"github.com/spec-kit/task-service/internal/events"
	"github.com/spec-kit/task-service/internal/repository"
	"github.com/spec-kit/task-service/pkg/util"
)

type fakeTaskRepo struct {
	byID   map[string]*domain.Task
	nextID int
}

func newFakeTaskRepo() *fakeTaskRepo {
	return &fakeTaskRepo{byID: make(map[string]*domain.Task)}
}

func (f *fakeTaskRepo) Create(_ context.Context, task *domain.Task) error {
	f.nextID++
	task.ID = strconv.Itoa(f.nextID)
	task.CreatedAt = time.Now()
	task.UpdatedAt = task.CreatedAt
	clone := *task
	f.byID[task.ID] = &clone
	return nil
}

func (f *fakeTaskRepo) Update(_ context.Context, task *domain.Task) error {
	if _, ok := f.byID[task.ID]; !ok {
		return pgx.ErrNoRows
	}
	clone := *task
	f.byID[task.ID] = &clone
	return nil
}

func (f *fakeTaskRepo) Delete(_ context.Context, id string) error {
	if _, ok := f.byID[id]; !ok {
		return pgx.ErrNoRows
	}
	delete(f.byID, id)
	return nil
}

func (f *fakeTaskRepo) GetByID(_ context.Context, id string) (*domain.Task, error) {
	task, ok := f.byID[id]
	if !ok {
		return nil, pgx.ErrNoRows
	}
	clone := *task
	return &clone, nil
}

func (f *fakeTaskRepo) GetByName(_ context.Context, name string) (*domain.Task, error) {
	for _, task := range f.byID {
		if task.Name == name {
			clone := *task
			return &clone, nil
		}
	}
	return nil, pgx.ErrNoRows
}

func (f *fakeTaskRepo) List(_ context.Context, limit, offset int) ([]*domain.Task, int, error) {
	tasks := make([]*domain.Task, 0, len(f.byID))
	for _, task := range f.byID {
		clone := *task
		tasks = append(tasks, &clone)
	}
	total := len(tasks)
	if offset > len(tasks) {
		return nil, total, nil
	}
	tasks = tasks[offset:]
	if limit < len(tasks) {
		tasks = tasks[:limit]
	}
	return tasks, total, nil
}

func (f *fakeTaskRepo) Search(_ context.Context, filter repository.TaskFilter) ([]*domain.Task, error) {
	var tasks []*domain.Task
	for _, task := range f.byID {
		if filter.Status != nil && task.Status != *filter.Status {
			continue
		}
		if filter.Priority != nil && task.Priority != *filter.Priority {
			continue
		}
		clone := *task
		tasks = append(tasks, &clone)
	}
	return tasks, nil
}

func (f *fakeTaskRepo) AssignExecutor(_ context.Context, id, executorEmail string) error {
	task, ok := f.byID[id]
	if !ok {
		return pgx.ErrNoRows
	}
	task.ExecutorEmail = &executorEmail
	return nil
}

type fakeCommentRepo struct {
	byTask map[string][]*domain.Comment
	nextID int
}

func newFakeCommentRepo() *fakeCommentRepo {
	return &fakeCommentRepo{byTask: make(map[string][]*domain.Comment)}
}

func (f *fakeCommentRepo) Create(_ context.Context, comment *domain.Comment) error {
	f.nextID++
	comment.ID = strconv.Itoa(f.nextID)
	comment.CreatedAt = time.Now()
	clone := *comment
	f.byTask[comment.TaskID] = append(f.byTask[comment.TaskID], &clone)
	return nil
}

func (f *fakeCommentRepo) ListByTask(_ context.Context, taskID string) ([]*domain.Comment, error) {
	return f.byTask[taskID], nil
}

type captureDispatcher struct {
	mu     sync.Mutex
	events []events.Event
}

func (d *captureDispatcher) Publish(_ context.Context, event events.Event) error {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.events = append(d.events, event)
	return nil
}

func (d *captureDispatcher) Subscribe(events.EventType, events.EventHandler) {}

func (d *captureDispatcher) types() []events.EventType {
	d.mu.Lock()
	defer d.mu.Unlock()
	types := make([]events.EventType, 0, len(d.events))
	for _, event := range d.events {
		types = append(types, event.Type)
	}
	return types
}

func newTestTaskService() (*TaskService, *fakeTaskRepo, *fakeUserRepo, *captureDispatcher) {
	tasks := newFakeTaskRepo()
	users := newFakeUserRepo()
	dispatcher := &captureDispatcher{}
	svc := NewTaskService(TaskDependencies{
		TaskRepo:    tasks,
		CommentRepo: newFakeCommentRepo(),
		UserRepo:    users,
		Dispatcher:  dispatcher,
	})
	return svc, tasks, users, dispatcher
}

func TestCreateTaskDefaultsAndEvent(t *testing.T) {
	svc, _, _, dispatcher := newTestTaskService()
	ctx := context.Background()

	task, err := svc.CreateTask(ctx, "author@x.com", TaskCreateInput{Name: "ship release"})
	if err != nil {
		t.Fatalf("CreateTask: %v", err)
	}
	if task.Status != domain.TaskStatusExpectation {
		t.Errorf("status = %v, want EXPECTATION", task.Status)
	}
	if task.Priority != domain.TaskPriorityMedium {
		t.Errorf("priority = %v, want MEDIUM", task.Priority)
	}

	types := dispatcher.types()
	if len(types) != 1 || types[0] != events.EventTaskCreated {
		t.Errorf("events = %v, want [task_created]", types)
	}
}

func TestCreateTaskDuplicateName(t *testing.T) {
	svc, _, _, _ := newTestTaskService()
	ctx := context.Background()

	if _, err := svc.CreateTask(ctx, "a@x.com", TaskCreateInput{Name: "ship release"}); err != nil {
		t.Fatalf("CreateTask: %v", err)
	}
	_, err := svc.CreateTask(ctx, "b@x.com", TaskCreateInput{Name: "ship release"})

	var domainErr *util.DomainError
	if !errors.As(err, &domainErr) || domainErr.Code != "CONFLICT" {
		t.Errorf("duplicate create error = %v, want CONFLICT", err)
	}
}

func TestUpdateTaskByExecutorOnlyExecutor(t *testing.T) {
	svc, tasks, users, dispatcher := newTestTaskService()
	ctx := context.Background()

	if err := users.Create(ctx, &domain.User{Email: "exec@x.com", Role: domain.RoleUser}); err != nil {
		t.Fatalf("create user: %v", err)
	}
	task, err := svc.CreateTask(ctx, "author@x.com", TaskCreateInput{Name: "ship release"})
	if err != nil {
		t.Fatalf("CreateTask: %v", err)
	}
	if _, err := svc.AssignExecutor(ctx, "admin@x.com", task.ID, "exec@x.com"); err != nil {
		t.Fatalf("AssignExecutor: %v", err)
	}

	status := domain.TaskStatusInProcess

	_, err = svc.UpdateTaskByExecutor(ctx, "intruder@x.com", task.ID, TaskUpdateInput{Status: &status})
	var domainErr *util.DomainError
	if !errors.As(err, &domainErr) || domainErr.Code != "FORBIDDEN" {
		t.Errorf("non-executor update error = %v, want FORBIDDEN", err)
	}

	updated, err := svc.UpdateTaskByExecutor(ctx, "exec@x.com", task.ID, TaskUpdateInput{Status: &status})
	if err != nil {
		t.Fatalf("executor update: %v", err)
	}
	if updated.Status != domain.TaskStatusInProcess {
		t.Errorf("status = %v, want IN_PROCESS", updated.Status)
	}
	if stored := tasks.byID[task.ID]; stored.Status != domain.TaskStatusInProcess {
		t.Errorf("stored status = %v, want IN_PROCESS", stored.Status)
	}

	types := dispatcher.types()
	last := types[len(types)-1]
	if last != events.EventTaskStatusChanged {
		t.Errorf("last event = %v, want task_status_changed", last)
	}
}

func TestAssignExecutorUnknownUser(t *testing.T) {
	svc, _, _, _ := newTestTaskService()
	ctx := context.Background()

	task, err := svc.CreateTask(ctx, "author@x.com", TaskCreateInput{Name: "ship release"})
	if err != nil {
		t.Fatalf("CreateTask: %v", err)
	}

	_, err = svc.AssignExecutor(ctx, "admin@x.com", task.ID, "ghost@x.com")
	var domainErr *util.DomainError
	if !errors.As(err, &domainErr) || domainErr.Code != "NOT_FOUND" {
		t.Errorf("assign unknown user error = %v, want NOT_FOUND", err)
	}
}

func TestSearchTasksRejectsUnknownEnums(t *testing.T) {
	svc, _, _, _ := newTestTaskService()
	ctx := context.Background()

	for _, tc := range []struct{ status, priority string }{
		{"NOT_A_STATUS", ""},
		{"", "URGENT"},
	} {
		_, err := svc.SearchTasks(ctx, tc.status, tc.priority)
		var domainErr *util.DomainError
		if !errors.As(err, &domainErr) || domainErr.Code != "VALIDATION_FAILED" {
			t.Errorf("SearchTasks(%q,%q) error = %v, want VALIDATION_FAILED", tc.status, tc.priority, err)
		}
	}
}

func TestSearchTasksFilters(t *testing.T) {
	svc, _, _, _ := newTestTaskService()
	ctx := context.Background()

	if _, err := svc.CreateTask(ctx, "a@x.com", TaskCreateInput{Name: "low one", Priority: domain.TaskPriorityLow}); err != nil {
		t.Fatalf("CreateTask: %v", err)
	}
	if _, err := svc.CreateTask(ctx, "a@x.com", TaskCreateInput{Name: "high one", Priority: domain.TaskPriorityHigh}); err != nil {
		t.Fatalf("CreateTask: %v", err)
	}

	tasks, err := svc.SearchTasks(ctx, "", "HIGH")
	if err != nil {
		t.Fatalf("SearchTasks: %v", err)
	}
	if len(tasks) != 1 || tasks[0].Name != "high one" {
		t.Errorf("search result = %v, want the high-priority task", tasks)
	}
}

func TestAddCommentRequiresTask(t *testing.T) {
	svc, _, _, dispatcher := newTestTaskService()
	ctx := context.Background()

	_, err := svc.AddComment(ctx, "a@x.com", "999", "hello")
	var domainErr *util.DomainError
	if !errors.As(err, &domainErr) || domainErr.Code != "NOT_FOUND" {
		t.Errorf("comment on missing task error = %v, want NOT_FOUND", err)
	}

	task, err := svc.CreateTask(ctx, "a@x.com", TaskCreateInput{Name: "ship release"})
	if err != nil {
		t.Fatalf("CreateTask: %v", err)
	}
	comment, err := svc.AddComment(ctx, "a@x.com", task.ID, "hello")
	if err != nil {
		t.Fatalf("AddComment: %v", err)
	}

	comments, err := svc.ListComments(ctx, task.ID)
	if err != nil {
		t.Fatalf("ListComments: %v", err)
	}
	if len(comments) != 1 || comments[0].ID != comment.ID {
		t.Errorf("comments = %v, want the created one", comments)
	}

	types := dispatcher.types()
	last := types[len(types)-1]
	if last != events.EventCommentAdded {
		t.Errorf("last event = %v, want comment_added", last)
	}
}

func TestDeleteTask(t *testing.T) {
	svc, tasks, _, dispatcher := newTestTaskService()
	ctx := context.Background()

	task, err := svc.CreateTask(ctx, "a@x.com", TaskCreateInput{Name: "ship release"})
	if err != nil {
		t.Fatalf("CreateTask: %v", err)
	}
	if err := svc.DeleteTask(ctx, "admin@x.com", task.ID); err != nil {
		t.Fatalf("DeleteTask: %v", err)
	}
	if _, ok := tasks.byID[task.ID]; ok {
		t.Error("task still present after delete")
	}
	if err := svc.DeleteTask(ctx, "admin@x.com", task.ID); err == nil {
		t.Error("second delete succeeded")
	}

	types := dispatcher.types()
	last := types[len(types)-1]
	if last != events.EventTaskDeleted {
		t.Errorf("last event = %v, want task_deleted", last)
	}
}
