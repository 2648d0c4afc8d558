// Package calculations provides a PostgreSQL-backed repository for
// calculation records. Inputs are stored as a JSONB array.
package calculations

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/dmitrijs2005/calcledger/internal/common"
	"github.com/dmitrijs2005/calcledger/internal/dbx"
	"github.com/dmitrijs2005/calcledger/internal/server/models"
)

type PostgresRepository struct {
	db dbx.DBTX
}

func NewPostgresRepository(db dbx.DBTX) *PostgresRepository {
	return &PostgresRepository{db: db}
}

func (r *PostgresRepository) Create(ctx context.Context, calculation *models.Calculation) (*models.Calculation, error) {
	inputs, err := json.Marshal(calculation.Inputs)
	if err != nil {
		return nil, fmt.Errorf("marshal inputs: %w", err)
	}

	query := `
		INSERT INTO calculations (user_id, type, inputs, result)
		VALUES ($1, $2, $3, $4)
		RETURNING id, created_at, updated_at
	`
	err = r.db.QueryRowContext(ctx, query,
		calculation.UserID, calculation.Type, inputs, calculation.Result).
		Scan(&calculation.ID, &calculation.CreatedAt, &calculation.UpdatedAt)
	if err != nil {
		return nil, fmt.Errorf("db error: %w", err)
	}

	return calculation, nil
}

func (r *PostgresRepository) GetByID(ctx context.Context, id string, userID string) (*models.Calculation, error) {
	query := `
		SELECT id, user_id, type, inputs, result, created_at, updated_at
		FROM calculations
		WHERE id = $1 AND user_id = $2
	`
	return r.scanOne(r.db.QueryRowContext(ctx, query, id, userID))
}

func (r *PostgresRepository) List(ctx context.Context, userID string, limit int, offset int) ([]*models.Calculation, error) {
	query := `
		SELECT id, user_id, type, inputs, result, created_at, updated_at
		FROM calculations
		WHERE user_id = $1
		ORDER BY created_at DESC
		LIMIT $2 OFFSET $3
	`
	rows, err := r.db.QueryContext(ctx, query, userID, limit, offset)
	if err != nil {
		return nil, fmt.Errorf("db error: %w", err)
	}
	defer rows.Close()

	result := []*models.Calculation{}
	for rows.Next() {
		calculation := &models.Calculation{}
		var inputs []byte
		err := rows.Scan(&calculation.ID, &calculation.UserID, &calculation.Type, &inputs,
			&calculation.Result, &calculation.CreatedAt, &calculation.UpdatedAt)
		if err != nil {
			return nil, fmt.Errorf("db error: %w", err)
		}
		if err := json.Unmarshal(inputs, &calculation.Inputs); err != nil {
			return nil, fmt.Errorf("unmarshal inputs: %w", err)
		}
		result = append(result, calculation)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("db error: %w", err)
	}

	return result, nil
}

// Update rewrites the type, inputs and result of an existing calculation.
// The row must belong to the given user or common.ErrorNotFound is returned.
func (r *PostgresRepository) Update(ctx context.Context, calculation *models.Calculation) (*models.Calculation, error) {
	inputs, err := json.Marshal(calculation.Inputs)
	if err != nil {
		return nil, fmt.Errorf("marshal inputs: %w", err)
	}

	query := `
		UPDATE calculations
		SET type = $1, inputs = $2, result = $3, updated_at = now()
		WHERE id = $4 AND user_id = $5
		RETURNING created_at, updated_at
	`
	err = r.db.QueryRowContext(ctx, query,
		calculation.Type, inputs, calculation.Result, calculation.ID, calculation.UserID).
		Scan(&calculation.CreatedAt, &calculation.UpdatedAt)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, common.ErrorNotFound
		}
		return nil, fmt.Errorf("db error: %w", err)
	}

	return calculation, nil
}

func (r *PostgresRepository) Delete(ctx context.Context, id string, userID string) error {
	query := `DELETE FROM calculations WHERE id = $1 AND user_id = $2`
	res, err := r.db.ExecContext(ctx, query, id, userID)
	if err != nil {
		return fmt.Errorf("db error: %w", err)
	}
	affected, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("db error: %w", err)
	}
	if affected == 0 {
		return common.ErrorNotFound
	}
	return nil
}

func (r *PostgresRepository) scanOne(row *sql.Row) (*models.Calculation, error) {
	calculation := &models.Calculation{}
	var inputs []byte
	err := row.Scan(&calculation.ID, &calculation.UserID, &calculation.Type, &inputs,
		&calculation.Result, &calculation.CreatedAt, &calculation.UpdatedAt)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, common.ErrorNotFound
		}
		return nil, fmt.Errorf("db error: %w", err)
	}
	if err := json.Unmarshal(inputs, &calculation.Inputs); err != nil {
		return nil, fmt.Errorf("unmarshal inputs: %w", err)
	}
	return calculation, nil
}
