package handlers

import (
	"net/http"

	"github.com/gofiber/fiber/v2"

	"github.com/spec-kit/task-service/internal/api/dto"
	"github.com/spec-kit/task-service/internal/auth"
	"github.com/spec-kit/task-service/internal/domain"
	"github.com/spec-kit/task-service/internal/service"
	"github.com/spec-kit/task-service/pkg/util"
)

// TasksHandler exposes task CRUD endpoints.
type TasksHandler struct {
	tasks *service.TaskService
	users *service.UserService
}

// NewTasksHandler constructs handler.
func NewTasksHandler(taskService *service.TaskService, userService *service.UserService) *TasksHandler {
	return &TasksHandler{tasks: taskService, users: userService}
}

// Create handles POST /task/create.
func (h *TasksHandler) Create(c *fiber.Ctx) error {
	principal, ok := auth.PrincipalFromContext(c)
	if !ok {
		return util.NewUnauthorized("authentication required")
	}

	var req dto.TaskCreateRequest
	if err := c.BodyParser(&req); err != nil {
		return util.NewValidationError("invalid payload", nil)
	}
	if err := dto.Validate(req); err != nil {
		return err
	}

	task, err := h.tasks.CreateTask(c.Context(), principal.User.Email, service.TaskCreateInput{
		Name:        req.Name,
		Description: req.Description,
		Priority:    domain.TaskPriority(req.Priority),
	})
	if err != nil {
		return err
	}

	return c.Status(http.StatusCreated).JSON(fiber.Map{"data": dto.NewTaskResponse(task)})
}

// Update handles PATCH /task/update/:id (executor path).
func (h *TasksHandler) Update(c *fiber.Ctx) error {
	principal, ok := auth.PrincipalFromContext(c)
	if !ok {
		return util.NewUnauthorized("authentication required")
	}

	input, err := parseTaskUpdate(c)
	if err != nil {
		return err
	}

	task, err := h.tasks.UpdateTaskByExecutor(c.Context(), principal.User.Email, c.Params("id"), input)
	if err != nil {
		return err
	}
	return c.JSON(fiber.Map{"data": dto.NewTaskResponse(task)})
}

// UpdateAdmin handles PATCH /task/update_admin/:id.
func (h *TasksHandler) UpdateAdmin(c *fiber.Ctx) error {
	principal, ok := auth.PrincipalFromContext(c)
	if !ok {
		return util.NewUnauthorized("authentication required")
	}

	input, err := parseTaskUpdate(c)
	if err != nil {
		return err
	}

	task, err := h.tasks.UpdateTaskByAdmin(c.Context(), principal.User.Email, c.Params("id"), input)
	if err != nil {
		return err
	}
	return c.JSON(fiber.Map{"data": dto.NewTaskResponse(task)})
}

// Delete handles DELETE /task/delete/:id.
func (h *TasksHandler) Delete(c *fiber.Ctx) error {
	principal, ok := auth.PrincipalFromContext(c)
	if !ok {
		return util.NewUnauthorized("authentication required")
	}

	if err := h.tasks.DeleteTask(c.Context(), principal.User.Email, c.Params("id")); err != nil {
		return err
	}
	return c.SendStatus(http.StatusNoContent)
}

// Assign handles PUT /task/assign/:id.
func (h *TasksHandler) Assign(c *fiber.Ctx) error {
	principal, ok := auth.PrincipalFromContext(c)
	if !ok {
		return util.NewUnauthorized("authentication required")
	}

	var req dto.TaskAssignRequest
	if err := c.BodyParser(&req); err != nil {
		return util.NewValidationError("invalid payload", nil)
	}
	if err := dto.Validate(req); err != nil {
		return err
	}

	task, err := h.tasks.AssignExecutor(c.Context(), principal.User.Email, c.Params("id"), req.Email)
	if err != nil {
		return err
	}
	return c.JSON(fiber.Map{"data": dto.NewTaskResponse(task)})
}

// AddComment handles POST /task/comment/:id.
func (h *TasksHandler) AddComment(c *fiber.Ctx) error {
	principal, ok := auth.PrincipalFromContext(c)
	if !ok {
		return util.NewUnauthorized("authentication required")
	}

	var req dto.CommentCreateRequest
	if err := c.BodyParser(&req); err != nil {
		return util.NewValidationError("invalid payload", nil)
	}
	if err := dto.Validate(req); err != nil {
		return err
	}

	comment, err := h.tasks.AddComment(c.Context(), principal.User.Email, c.Params("id"), req.Text)
	if err != nil {
		return err
	}
	return c.Status(http.StatusCreated).JSON(fiber.Map{"data": dto.NewCommentResponse(comment)})
}

// ListComments handles GET /task/comment/:id.
func (h *TasksHandler) ListComments(c *fiber.Ctx) error {
	comments, err := h.tasks.ListComments(c.Context(), c.Params("id"))
	if err != nil {
		return err
	}

	responses := make([]dto.CommentResponse, 0, len(comments))
	for _, comment := range comments {
		responses = append(responses, dto.NewCommentResponse(comment))
	}
	return c.JSON(fiber.Map{"data": responses})
}

// List handles GET /task/all with limit/offset paging.
func (h *TasksHandler) List(c *fiber.Ctx) error {
	limit := c.QueryInt("limit", 20)
	offset := c.QueryInt("offset", 0)

	tasks, total, err := h.tasks.ListTasks(c.Context(), limit, offset)
	if err != nil {
		return err
	}

	responses := make([]dto.TaskResponse, 0, len(tasks))
	for _, task := range tasks {
		responses = append(responses, dto.NewTaskResponse(task))
	}
	return c.JSON(fiber.Map{
		"data": responses,
		"meta": fiber.Map{"total": total, "limit": limit, "offset": offset},
	})
}

// Search handles GET /task/search?status=&priority=.
func (h *TasksHandler) Search(c *fiber.Ctx) error {
	tasks, err := h.tasks.SearchTasks(c.Context(), c.Query("status"), c.Query("priority"))
	if err != nil {
		return err
	}

	responses := make([]dto.TaskResponse, 0, len(tasks))
	for _, task := range tasks {
		responses = append(responses, dto.NewTaskResponse(task))
	}
	return c.JSON(fiber.Map{"data": responses})
}

// AllUsers handles GET /task/all_users, listing assignable emails.
func (h *TasksHandler) AllUsers(c *fiber.Ctx) error {
	emails, err := h.users.ListEmails(c.Context())
	if err != nil {
		return err
	}
	return c.JSON(fiber.Map{"data": emails})
}

func parseTaskUpdate(c *fiber.Ctx) (service.TaskUpdateInput, error) {
	var req dto.TaskUpdateRequest
	if err := c.BodyParser(&req); err != nil {
		return service.TaskUpdateInput{}, util.NewValidationError("invalid payload", nil)
	}
	if err := dto.Validate(req); err != nil {
		return service.TaskUpdateInput{}, err
	}

	input := service.TaskUpdateInput{
		Name:        req.Name,
		Description: req.Description,
	}
	if req.Status != nil {
		status := domain.TaskStatus(*req.Status)
		input.Status = &status
	}
	if req.Priority != nil {
		priority := domain.TaskPriority(*req.Priority)
		input.Priority = &priority
	}
	return input, nil
}
