package services

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/dmitrijs2005/calcledger/internal/common"
	"github.com/dmitrijs2005/calcledger/internal/dbx"
	"github.com/dmitrijs2005/calcledger/internal/server/calc"
	"github.com/dmitrijs2005/calcledger/internal/server/models"
	"github.com/dmitrijs2005/calcledger/internal/server/repositories/repomanager"
)

// defaultListLimit caps how many records a browse returns when the caller
// does not ask for a specific page size.
const defaultListLimit = 50

const maxListLimit = 200

// CalculationService owns the calculation records. Every operation takes
// the acting user's id; a record owned by someone else is indistinguishable
// from a missing one.
type CalculationService struct {
	db          *sql.DB
	repomanager repomanager.RepositoryManager
}

func NewCalculationService(db *sql.DB, m repomanager.RepositoryManager) *CalculationService {
	return &CalculationService{db: db, repomanager: m}
}

// Create evaluates the requested operation and stores the record. Invalid
// operations, fewer than two inputs and zero divisors surface as
// common.ErrorValidation before anything is written.
func (s *CalculationService) Create(ctx context.Context, userID string, calcType models.CalculationType, inputs []float64) (*models.Calculation, error) {
	result, err := calc.Compute(calcType, inputs)
	if err != nil {
		return nil, err
	}

	calculation := &models.Calculation{
		UserID: userID,
		Type:   calcType,
		Inputs: inputs,
		Result: result,
	}

	repo := s.repomanager.Calculations(s.db)

	calculation, err = repo.Create(ctx, calculation)
	if err != nil {
		return nil, fmt.Errorf("error creating calculation: %w", err)
	}

	return calculation, nil
}

// List returns the user's calculations newest first.
func (s *CalculationService) List(ctx context.Context, userID string, limit, offset int) ([]*models.Calculation, error) {
	if limit <= 0 {
		limit = defaultListLimit
	}
	if limit > maxListLimit {
		limit = maxListLimit
	}
	if offset < 0 {
		offset = 0
	}

	repo := s.repomanager.Calculations(s.db)

	list, err := repo.List(ctx, userID, limit, offset)
	if err != nil {
		return nil, fmt.Errorf("error listing calculations: %w", err)
	}

	return list, nil
}

func (s *CalculationService) Get(ctx context.Context, userID, id string) (*models.Calculation, error) {
	repo := s.repomanager.Calculations(s.db)

	calculation, err := repo.GetByID(ctx, id, userID)
	if err != nil {
		if errors.Is(err, common.ErrorNotFound) {
			return nil, common.ErrorNotFound
		}
		return nil, fmt.Errorf("error loading calculation: %w", err)
	}

	return calculation, nil
}

// Update replaces the inputs of an existing record and recomputes its
// result under the record's operation. The operation itself is immutable.
// The read and write run in one transaction so the type used for the
// recompute is the type that gets stored against.
func (s *CalculationService) Update(ctx context.Context, userID, id string, inputs []float64) (*models.Calculation, error) {
	var calculation *models.Calculation

	err := dbx.WithTx(ctx, s.db, nil, func(ctx context.Context, tx dbx.DBTX) error {
		repo := s.repomanager.Calculations(tx)

		existing, err := repo.GetByID(ctx, id, userID)
		if err != nil {
			if errors.Is(err, common.ErrorNotFound) {
				return common.ErrorNotFound
			}
			return fmt.Errorf("error loading calculation: %w", err)
		}

		result, err := calc.Compute(existing.Type, inputs)
		if err != nil {
			return err
		}

		calculation = &models.Calculation{
			ID:     id,
			UserID: userID,
			Type:   existing.Type,
			Inputs: inputs,
			Result: result,
		}

		calculation, err = repo.Update(ctx, calculation)
		if err != nil {
			if errors.Is(err, common.ErrorNotFound) {
				return common.ErrorNotFound
			}
			return fmt.Errorf("error updating calculation: %w", err)
		}

		return nil
	})
	if err != nil {
		return nil, err
	}

	return calculation, nil
}

func (s *CalculationService) Delete(ctx context.Context, userID, id string) error {
	repo := s.repomanager.Calculations(s.db)

	if err := repo.Delete(ctx, id, userID); err != nil {
		if errors.Is(err, common.ErrorNotFound) {
			return common.ErrorNotFound
		}
		return fmt.Errorf("error deleting calculation: %w", err)
	}

	return nil
}
