package client

import (
	"context"

	"github.com/dmitrijs2005/taskkeeper/internal/client/models"
)

type Client interface {
	Register(ctx context.Context, username, password, email string) (int64, error)
	Login(ctx context.Context, username, password string) (*models.User, error)
	Logout()
	Ping(ctx context.Context) error
	ListTasks(ctx context.Context) ([]*models.Task, error)
	GetTask(ctx context.Context, id int64) (*models.Task, error)
	CreateTask(ctx context.Context, title string, description *string) (int64, error)
	SearchTasks(ctx context.Context, term string) ([]*models.Task, error)
	ListTasksWithDetails(ctx context.Context) ([]*models.TaskWithUser, error)
	ExportTasks(ctx context.Context) (*models.Export, error)
}
