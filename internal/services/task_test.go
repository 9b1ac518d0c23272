package services_test

import (
	"context"
	"errors"
	"sort"
	"testing"
	"time"

	"task-tracker/internal/apperrors"
	"task-tracker/internal/dto"
	"task-tracker/internal/models"
	"task-tracker/internal/repositories"
	"task-tracker/internal/services"

	"github.com/gofrs/uuid"
	"github.com/stretchr/testify/suite"
)

type TaskServiceTestSuite struct {
	suite.Suite
	ctx     context.Context
	service *services.TaskServiceImpl
}

func (s *TaskServiceTestSuite) SetupTest() {
	s.ctx = context.Background()
	s.service = services.NewTaskService(repositories.NewTaskRepository(setupTestDB(s.T())))
}

func TestTaskServiceSuite(t *testing.T) {
	suite.Run(t, new(TaskServiceTestSuite))
}

func expiry(days int) *time.Time {
	ts := time.Date(2030, 1, 1, 12, 0, 0, 0, time.UTC).AddDate(0, 0, days)
	return &ts
}

func (s *TaskServiceTestSuite) TestCreateThenFindByID() {
	created, err := s.service.Create(s.ctx, dto.TaskPayload{
		ID:          "ignored",
		Title:       "Write report",
		Description: "quarterly numbers",
		ExpiryDate:  expiry(3),
	})
	s.Require().NoError(err)
	s.NotEqual("ignored", created.ID)
	s.NotEqual(uuid.Nil.String(), created.ID)

	found, err := s.service.FindByID(s.ctx, uuid.FromStringOrNil(created.ID))
	s.Require().NoError(err)
	s.Equal(created.ID, found.ID)
	s.Equal("Write report", found.Title)
	s.Equal("quarterly numbers", found.Description)
	s.Require().NotNil(found.ExpiryDate)
	s.True(expiry(3).Equal(*found.ExpiryDate))
}

func (s *TaskServiceTestSuite) TestFindByIDMissing() {
	id := uuid.Must(uuid.NewV4())

	_, err := s.service.FindByID(s.ctx, id)
	s.ErrorIs(err, apperrors.ErrNotFound)
	s.Contains(err.Error(), id.String())
}

func (s *TaskServiceTestSuite) TestUpdateOverwritesAllFields() {
	created, err := s.service.Create(s.ctx, dto.TaskPayload{
		Title:       "Old",
		Description: "old description",
		ExpiryDate:  expiry(1),
	})
	s.Require().NoError(err)
	id := uuid.FromStringOrNil(created.ID)

	err = s.service.Update(s.ctx, id, dto.TaskPayload{ID: uuid.Must(uuid.NewV4()).String(), Title: "New"})
	s.Require().NoError(err)

	found, err := s.service.FindByID(s.ctx, id)
	s.Require().NoError(err)
	s.Equal(created.ID, found.ID)
	s.Equal("New", found.Title)
	s.Empty(found.Description)
	s.Nil(found.ExpiryDate)
}

func (s *TaskServiceTestSuite) TestUpdateMissing() {
	id := uuid.Must(uuid.NewV4())

	err := s.service.Update(s.ctx, id, dto.TaskPayload{Title: "x"})
	s.ErrorIs(err, apperrors.ErrNotFound)
	s.Contains(err.Error(), id.String())
}

func (s *TaskServiceTestSuite) TestDelete() {
	created, err := s.service.Create(s.ctx, dto.TaskPayload{Title: "Temporary"})
	s.Require().NoError(err)
	id := uuid.FromStringOrNil(created.ID)

	s.Require().NoError(s.service.Delete(s.ctx, id))

	_, err = s.service.FindByID(s.ctx, id)
	s.ErrorIs(err, apperrors.ErrNotFound)
}

func (s *TaskServiceTestSuite) TestDeleteMissingIsNoop() {
	s.NoError(s.service.Delete(s.ctx, uuid.Must(uuid.NewV4())))
}

func (s *TaskServiceTestSuite) TestFindAllEmpty() {
	tasks, err := s.service.FindAll(s.ctx)
	s.Require().NoError(err)
	s.NotNil(tasks)
	s.Empty(tasks)
}

func (s *TaskServiceTestSuite) TestFindAllReturnsEveryTask() {
	titles := []string{"alpha", "bravo", "charlie"}
	ids := map[string]string{}
	for _, title := range titles {
		created, err := s.service.Create(s.ctx, dto.TaskPayload{Title: title})
		s.Require().NoError(err)
		ids[title] = created.ID
	}

	tasks, err := s.service.FindAll(s.ctx)
	s.Require().NoError(err)
	s.Require().Len(tasks, 3)

	sort.Slice(tasks, func(i, j int) bool { return tasks[i].Title < tasks[j].Title })
	for i, title := range titles {
		s.Equal(title, tasks[i].Title)
		s.Equal(ids[title], tasks[i].ID)
	}
}

type failingTaskStore struct{}

var errStoreDown = errors.New("store down")

func (failingTaskStore) FindAll(context.Context) ([]models.Task, error) { return nil, errStoreDown }
func (failingTaskStore) FindByID(context.Context, uuid.UUID) (*models.Task, error) {
	return nil, errStoreDown
}
func (failingTaskStore) Create(context.Context, *models.Task) error  { return errStoreDown }
func (failingTaskStore) Save(context.Context, *models.Task) error    { return errStoreDown }
func (failingTaskStore) DeleteByID(context.Context, uuid.UUID) error { return errStoreDown }

func TestTaskService_StoreFailuresAreUnclassified(t *testing.T) {
	service := services.NewTaskService(failingTaskStore{})
	ctx := context.Background()
	id := uuid.Must(uuid.NewV4())

	_, err := service.FindByID(ctx, id)
	if !errors.Is(err, errStoreDown) || errors.Is(err, apperrors.ErrNotFound) {
		t.Errorf("Expected unclassified store error, got %v", err)
	}
	if err := service.Update(ctx, id, dto.TaskPayload{Title: "x"}); !errors.Is(err, errStoreDown) {
		t.Errorf("Expected store error from Update, got %v", err)
	}
	if _, err := service.FindAll(ctx); !errors.Is(err, errStoreDown) {
		t.Errorf("Expected store error from FindAll, got %v", err)
	}
}
