// Package costingstore persists costing summaries and reads project ownership.
package costingstore

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"

	"estimate-workers/internal/common/errors"
	"estimate-workers/internal/models"
)

type Store struct {
	db *sql.DB
}

func New(db *sql.DB) *Store {
	return &Store{db: db}
}

// Ownership returns the server-held owner of a project.
func (s *Store) Ownership(ctx context.Context, projectID string) (models.ProjectOwnership, error) {
	var o models.ProjectOwnership
	err := s.db.QueryRowContext(ctx,
		`SELECT id, owner_id FROM projects WHERE id = $1`, projectID).
		Scan(&o.ProjectID, &o.OwnerID)
	if err == sql.ErrNoRows {
		return models.ProjectOwnership{}, errors.NewProjectNotFoundError(projectID)
	}
	if err != nil {
		return models.ProjectOwnership{}, errors.NewProjectLookupFailedError(err)
	}
	return o, nil
}

// lockProjectQuery serializes writers of one project until the transaction ends.
const lockProjectQuery = `SELECT pg_advisory_xact_lock(hashtext($1))`

const nextVersionQuery = `SELECT COALESCE(MAX(version), 0) + 1 FROM costing_summaries WHERE project_id = $1`

const upsertQuery = `
	INSERT INTO costing_summaries (id, project_id, version, currency, summary, calculated_by, calculated_at)
	VALUES ($1, $2, $3, $4, $5, $6, $7)
	ON CONFLICT (project_id, version) DO UPDATE SET
		id = EXCLUDED.id,
		currency = EXCLUDED.currency,
		summary = EXCLUDED.summary,
		calculated_by = EXCLUDED.calculated_by,
		calculated_at = EXCLUDED.calculated_at`

// Save upserts the summary keyed by (project_id, version). A zero version is
// replaced by the next version for the project inside the same transaction,
// so a retried job that already knows its version overwrites instead of
// duplicating. The transaction holds a per-project advisory lock, so two jobs
// never allocate the same version.
func (s *Store) Save(ctx context.Context, summary models.CostingSummary, calculatedBy string) (models.CostingSummary, error) {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return summary, errors.NewCostingPersistFailedError(fmt.Errorf("begin: %w", err))
	}
	defer tx.Rollback()

	if _, err := tx.ExecContext(ctx, lockProjectQuery, summary.ProjectID); err != nil {
		return summary, errors.NewCostingPersistFailedError(fmt.Errorf("lock project: %w", err))
	}

	if summary.Version <= 0 {
		if err := tx.QueryRowContext(ctx, nextVersionQuery, summary.ProjectID).Scan(&summary.Version); err != nil {
			return summary, errors.NewCostingPersistFailedError(fmt.Errorf("next version: %w", err))
		}
	}

	payload, err := json.Marshal(summary)
	if err != nil {
		return summary, errors.NewInternalError(err)
	}

	if _, err := tx.ExecContext(ctx, upsertQuery,
		summary.ID, summary.ProjectID, summary.Version, summary.Currency,
		payload, calculatedBy, summary.CalculatedAt,
	); err != nil {
		return summary, errors.NewCostingPersistFailedError(fmt.Errorf("upsert: %w", err))
	}

	if err := tx.Commit(); err != nil {
		return summary, errors.NewCostingPersistFailedError(fmt.Errorf("commit: %w", err))
	}
	return summary, nil
}
