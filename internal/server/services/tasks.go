package services

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"strings"
	"time"

	"github.com/dmitrijs2005/taskkeeper/internal/common"
	"github.com/dmitrijs2005/taskkeeper/internal/logging"
	"github.com/dmitrijs2005/taskkeeper/internal/server/models"
	"github.com/dmitrijs2005/taskkeeper/internal/server/repositories/repomanager"
	validation "github.com/go-ozzo/ozzo-validation"
)

// ErrExportDisabled is returned by Export when no object storage is configured.
var ErrExportDisabled = errors.New("export disabled")

// Exporter stores an export payload and returns a download URL for it.
type Exporter interface {
	Put(ctx context.Context, key string, body []byte) (string, error)
}

// ExportResult identifies an uploaded export.
type ExportResult struct {
	Key string `json:"key"`
	URL string `json:"url"`
}

// TaskService implements task operations on behalf of an authenticated
// owner. Every method takes the owner id from verified session claims.
type TaskService struct {
	db          *sql.DB
	repomanager repomanager.RepositoryManager
	exporter    Exporter
	logger      logging.Logger
}

// NewTaskService constructs a TaskService. exporter may be nil.
func NewTaskService(db *sql.DB, m repomanager.RepositoryManager, exporter Exporter, l logging.Logger) *TaskService {
	return &TaskService{
		db:          db,
		repomanager: m,
		exporter:    exporter,
		logger:      l.With("module", "task_service"),
	}
}

// ExportEnabled reports whether Export can succeed.
func (s *TaskService) ExportEnabled() bool {
	return s.exporter != nil
}

// List returns all tasks of ownerID.
func (s *TaskService) List(ctx context.Context, ownerID int64) ([]*models.Task, error) {
	return s.repomanager.Tasks(s.db).ListByOwner(ctx, ownerID)
}

// Get returns one task of ownerID; tasks of other users are reported as
// common.ErrorNotFound.
func (s *TaskService) Get(ctx context.Context, ownerID, id int64) (*models.Task, error) {
	return s.repomanager.Tasks(s.db).GetByID(ctx, ownerID, id)
}

// Create validates and stores a new task for ownerID with the default status.
func (s *TaskService) Create(ctx context.Context, ownerID int64, title string, description *string) (*models.Task, error) {
	title = strings.TrimSpace(title)

	err := validation.Errors{
		"title": validation.Validate(title, validation.Required.Error("Title is required")),
	}.Filter()
	if err := firstFieldError(err, "title"); err != nil {
		return nil, err
	}

	task := &models.Task{
		Title:       title,
		Description: description,
		Status:      common.DefaultTaskStatus,
		UserID:      ownerID,
	}
	return s.repomanager.Tasks(s.db).Create(ctx, task)
}

// Search returns the tasks of ownerID whose title contains term.
func (s *TaskService) Search(ctx context.Context, ownerID int64, term string) ([]*models.Task, error) {
	return s.repomanager.Tasks(s.db).SearchByTitle(ctx, ownerID, term)
}

// ListWithDetails returns the tasks of ownerID joined with their owners'
// public profiles. It issues two store calls regardless of the number of
// tasks: one list and one batched user lookup.
func (s *TaskService) ListWithDetails(ctx context.Context, ownerID int64) ([]*models.TaskWithUser, error) {
	tasks, err := s.repomanager.Tasks(s.db).ListByOwner(ctx, ownerID)
	if err != nil {
		return nil, err
	}

	result := make([]*models.TaskWithUser, 0, len(tasks))
	if len(tasks) == 0 {
		return result, nil
	}

	seen := make(map[int64]struct{})
	var ids []int64
	for _, t := range tasks {
		if _, ok := seen[t.UserID]; !ok {
			seen[t.UserID] = struct{}{}
			ids = append(ids, t.UserID)
		}
	}

	users, err := s.repomanager.Users(s.db).GetUsersByIDs(ctx, ids)
	if err != nil {
		return nil, err
	}
	byID := make(map[int64]models.PublicUser, len(users))
	for _, u := range users {
		byID[u.ID] = u.Public()
	}

	for _, t := range tasks {
		result = append(result, &models.TaskWithUser{Task: *t, User: byID[t.UserID]})
	}
	return result, nil
}

type exportDocument struct {
	UserID     int64          `json:"user_id"`
	ExportedAt time.Time      `json:"exported_at"`
	Tasks      []*models.Task `json:"tasks"`
}

// Export uploads a JSON snapshot of the owner's tasks and returns its key
// and a time-limited download URL.
func (s *TaskService) Export(ctx context.Context, ownerID int64) (*ExportResult, error) {
	if s.exporter == nil {
		return nil, ErrExportDisabled
	}

	tasks, err := s.repomanager.Tasks(s.db).ListByOwner(ctx, ownerID)
	if err != nil {
		return nil, err
	}

	body, err := json.Marshal(exportDocument{UserID: ownerID, ExportedAt: time.Now().UTC(), Tasks: tasks})
	if err != nil {
		return nil, err
	}

	key := ExportKey(ownerID)
	url, err := s.exporter.Put(ctx, key, body)
	if err != nil {
		s.logger.Error(ctx, "export upload failed", "key", key, "error", err)
		return nil, common.ErrorInternal
	}

	s.logger.Info(ctx, "tasks exported", "user_id", ownerID, "key", key, "count", len(tasks))
	return &ExportResult{Key: key, URL: url}, nil
}
