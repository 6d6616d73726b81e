// Package tasks persists tasks. Every operation is scoped to the owning user.
package tasks

import (
	"context"

	"github.com/dmitrijs2005/taskkeeper/internal/server/models"
)

// Repository is the task store.
type Repository interface {
	// Create inserts task for task.UserID and sets its ID.
	Create(ctx context.Context, task *models.Task) (*models.Task, error)
	// GetByID returns common.ErrorNotFound when the task does not exist or
	// belongs to someone else.
	GetByID(ctx context.Context, ownerID, id int64) (*models.Task, error)
	ListByOwner(ctx context.Context, ownerID int64) ([]*models.Task, error)
	// SearchByTitle returns the owner's tasks whose title contains term.
	SearchByTitle(ctx context.Context, ownerID int64, term string) ([]*models.Task, error)
}
