package users

import (
	"context"

	"github.com/dmitrijs2005/calcledger/internal/server/models"
)

// Repository is the persistent user directory consumed by the user service.
// Create returns common.ErrorAlreadyExists on a uniqueness violation; the
// lookups return common.ErrorNotFound for absent rows.
type Repository interface {
	Create(ctx context.Context, user *models.User) (*models.User, error)
	GetByID(ctx context.Context, id string) (*models.User, error)
	GetByUsername(ctx context.Context, username string) (*models.User, error)
}
