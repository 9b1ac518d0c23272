package services

import (
	"context"
	"errors"
	"fmt"

	"task-tracker/internal/apperrors"
	"task-tracker/internal/dto"
	"task-tracker/internal/models"
	"task-tracker/internal/repositories"

	"github.com/gofrs/uuid"
)

type TaskStore interface {
	FindAll(ctx context.Context) ([]models.Task, error)
	FindByID(ctx context.Context, id uuid.UUID) (*models.Task, error)
	Create(ctx context.Context, task *models.Task) error
	Save(ctx context.Context, task *models.Task) error
	DeleteByID(ctx context.Context, id uuid.UUID) error
}

type TaskService interface {
	FindAll(ctx context.Context) ([]dto.TaskPayload, error)
	FindByID(ctx context.Context, id uuid.UUID) (dto.TaskPayload, error)
	Create(ctx context.Context, payload dto.TaskPayload) (dto.TaskPayload, error)
	Update(ctx context.Context, id uuid.UUID, payload dto.TaskPayload) error
	Delete(ctx context.Context, id uuid.UUID) error
}

type TaskServiceImpl struct {
	store TaskStore
}

func NewTaskService(store TaskStore) *TaskServiceImpl {
	return &TaskServiceImpl{store: store}
}

func (s *TaskServiceImpl) FindAll(ctx context.Context) ([]dto.TaskPayload, error) {
	tasks, err := s.store.FindAll(ctx)
	if err != nil {
		return nil, err
	}
	return dto.FromTaskEntities(tasks), nil
}

func (s *TaskServiceImpl) FindByID(ctx context.Context, id uuid.UUID) (dto.TaskPayload, error) {
	task, err := s.load(ctx, id)
	if err != nil {
		return dto.TaskPayload{}, err
	}
	return dto.FromTaskEntity(*task), nil
}

func (s *TaskServiceImpl) Create(ctx context.Context, payload dto.TaskPayload) (dto.TaskPayload, error) {
	task := dto.ToTaskEntity(payload)
	if err := s.store.Create(ctx, &task); err != nil {
		return dto.TaskPayload{}, err
	}
	return dto.FromTaskEntity(task), nil
}

func (s *TaskServiceImpl) Update(ctx context.Context, id uuid.UUID, payload dto.TaskPayload) error {
	task, err := s.load(ctx, id)
	if err != nil {
		return err
	}

	task.Title = payload.Title
	task.Description = payload.Description
	task.ExpiryDate = payload.ExpiryDate

	return s.store.Save(ctx, task)
}

func (s *TaskServiceImpl) Delete(ctx context.Context, id uuid.UUID) error {
	return s.store.DeleteByID(ctx, id)
}

func (s *TaskServiceImpl) load(ctx context.Context, id uuid.UUID) (*models.Task, error) {
	task, err := s.store.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, repositories.ErrRecordNotFound) {
			return nil, apperrors.NotFound("task with id %s not found", id)
		}
		return nil, fmt.Errorf("load task %s: %w", id, err)
	}
	return task, nil
}
