package calculations

import (
	"context"

	"github.com/dmitrijs2005/calcledger/internal/server/models"
)

// Repository is the persistence contract for calculation records. All reads
// and writes are scoped to the owning user: an id that exists but belongs to
// another user behaves exactly like an absent id (common.ErrorNotFound).
type Repository interface {
	Create(ctx context.Context, calculation *models.Calculation) (*models.Calculation, error)
	GetByID(ctx context.Context, id string, userID string) (*models.Calculation, error)
	List(ctx context.Context, userID string, limit int, offset int) ([]*models.Calculation, error)
	Update(ctx context.Context, calculation *models.Calculation) (*models.Calculation, error)
	Delete(ctx context.Context, id string, userID string) error
}
