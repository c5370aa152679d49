package service

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"

	"github.com/wltlabs/staffhub/internal/domain"
	"github.com/wltlabs/staffhub/internal/events"
	"github.com/wltlabs/staffhub/internal/repository"
	apperrors "github.com/wltlabs/staffhub/pkg/util"
)

// TaskService manages work assignments.
type TaskService struct {
	tasks      repository.TaskRepository
	users      repository.UserRepository
	dispatcher events.Dispatcher
}

// NewTaskService constructs the service.
func NewTaskService(tasks repository.TaskRepository, users repository.UserRepository, dispatcher events.Dispatcher) *TaskService {
	return &TaskService{tasks: tasks, users: users, dispatcher: dispatcher}
}

// TaskCreateInput describes a new task.
type TaskCreateInput struct {
	Title       string
	Description string
	AssigneeID  string
	TeamID      *string
	Priority    domain.TaskPriority
	DueDate     *time.Time
}

// Create assigns a task to an employee.
func (s *TaskService) Create(ctx context.Context, assignerID string, input TaskCreateInput) (*domain.Task, error) {
	input.Title = strings.TrimSpace(input.Title)
	if input.Title == "" || input.AssigneeID == "" {
		return nil, apperrors.NewValidationError("title and assignee required", nil)
	}
	if _, err := s.users.GetByID(ctx, input.AssigneeID); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.NewNotFound("assignee", nil)
		}
		return nil, apperrors.MapError(err)
	}

	task := &domain.Task{
		Title:       input.Title,
		Description: input.Description,
		AssigneeID:  input.AssigneeID,
		AssignedBy:  assignerID,
		TeamID:      input.TeamID,
		Status:      domain.TaskStatusTodo,
		Priority:    input.Priority,
		DueDate:     input.DueDate,
	}
	if task.Priority == "" {
		task.Priority = domain.TaskPriorityMedium
	}
	if err := s.tasks.Create(ctx, task); err != nil {
		return nil, apperrors.MapError(err)
	}

	if s.dispatcher != nil {
		_ = s.dispatcher.Publish(ctx, events.Event{
			ID:        uuid.NewString(),
			Type:      events.EventTaskAssigned,
			ActorID:   assignerID,
			Timestamp: time.Now(),
			Payload: events.TaskAssignedPayload{
				TaskID:     task.ID,
				AssigneeID: task.AssigneeID,
				Title:      task.Title,
			},
		})
	}
	return task, nil
}

// ListMine returns tasks assigned to the user.
func (s *TaskService) ListMine(ctx context.Context, userID string) ([]domain.Task, error) {
	tasks, err := s.tasks.ListForAssignee(ctx, userID)
	if err != nil {
		return nil, apperrors.MapError(err)
	}
	return tasks, nil
}

// ListForTeam returns tasks scoped to a team.
func (s *TaskService) ListForTeam(ctx context.Context, teamID string) ([]domain.Task, error) {
	tasks, err := s.tasks.ListForTeam(ctx, teamID)
	if err != nil {
		return nil, apperrors.MapError(err)
	}
	return tasks, nil
}

// UpdateStatus moves a task between states. Only the assignee or the
// assigner may move it.
func (s *TaskService) UpdateStatus(ctx context.Context, actorID, taskID string, status domain.TaskStatus) (*domain.Task, error) {
	task, err := s.tasks.GetByID(ctx, taskID)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.NewNotFound("task", nil)
		}
		return nil, apperrors.MapError(err)
	}
	if task.AssigneeID != actorID && task.AssignedBy != actorID {
		return nil, apperrors.NewForbidden("not your task")
	}
	switch status {
	case domain.TaskStatusTodo, domain.TaskStatusInProgress, domain.TaskStatusDone:
	default:
		return nil, apperrors.NewValidationError("invalid task status", nil)
	}
	if err := s.tasks.UpdateStatus(ctx, taskID, status); err != nil {
		return nil, apperrors.MapError(err)
	}
	task.Status = status
	return task, nil
}
