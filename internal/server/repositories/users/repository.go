// Package users persists registered accounts.
package users

import (
	"context"

	"github.com/dmitrijs2005/taskkeeper/internal/server/models"
)

// Repository is the credential store.
type Repository interface {
	// Create inserts user and sets its ID. A taken username yields
	// common.ErrorAlreadyExists.
	Create(ctx context.Context, user *models.User) (*models.User, error)
	// GetUserByLogin returns common.ErrorNotFound for unknown usernames.
	GetUserByLogin(ctx context.Context, login string) (*models.User, error)
	// GetUsersByIDs fetches all listed users in one round trip. Unknown ids
	// are skipped.
	GetUsersByIDs(ctx context.Context, ids []int64) ([]*models.User, error)
}
