package postgres

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/jmoiron/sqlx"

	"github.com/stepwise/stepwise-api/internal/core/domain"
)

type StepRepository struct {
	db *sqlx.DB
}

func NewStepRepository(db *sqlx.DB) *StepRepository {
	return &StepRepository{db: db}
}

func (r *StepRepository) Create(ctx context.Context, s *domain.Step) error {
	const query = `
		INSERT INTO steps (id, demo_id, title, description, image_url, "position", created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8)`

	_, err := r.db.ExecContext(ctx, query,
		s.ID, s.DemoID, s.Title, s.Description, s.ImageURL, s.Position, s.CreatedAt, s.UpdatedAt)
	if err != nil {
		return fmt.Errorf("insert step: %w", err)
	}
	return nil
}

func (r *StepRepository) FindByID(ctx context.Context, id string) (*domain.Step, error) {
	const query = `
		SELECT id, demo_id, title, description, image_url, "position", created_at, updated_at
		FROM steps WHERE id::text = $1`

	var s domain.Step
	if err := r.db.GetContext(ctx, &s, query, id); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, domain.ErrStepNotFound
		}
		return nil, fmt.Errorf("find step: %w", err)
	}
	return &s, nil
}

func (r *StepRepository) ListByDemo(ctx context.Context, demoID string) ([]*domain.Step, error) {
	const query = `
		SELECT id, demo_id, title, description, image_url, "position", created_at, updated_at
		FROM steps WHERE demo_id = $1
		ORDER BY "position" ASC, created_at ASC`

	steps := []*domain.Step{}
	if err := r.db.SelectContext(ctx, &steps, query, demoID); err != nil {
		return nil, fmt.Errorf("list steps: %w", err)
	}
	return steps, nil
}

func (r *StepRepository) CountByDemo(ctx context.Context, demoID string) (int64, error) {
	var count int64
	if err := r.db.GetContext(ctx, &count, `SELECT COUNT(*) FROM steps WHERE demo_id = $1`, demoID); err != nil {
		return 0, fmt.Errorf("count steps: %w", err)
	}
	return count, nil
}

func (r *StepRepository) Update(ctx context.Context, s *domain.Step) error {
	const query = `
		UPDATE steps
		SET title = $2, description = $3, image_url = $4, "position" = $5, updated_at = $6
		WHERE id = $1`

	res, err := r.db.ExecContext(ctx, query,
		s.ID, s.Title, s.Description, s.ImageURL, s.Position, s.UpdatedAt)
	if err != nil {
		return fmt.Errorf("update step: %w", err)
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return domain.ErrStepNotFound
	}
	return nil
}

func (r *StepRepository) Delete(ctx context.Context, id string) error {
	res, err := r.db.ExecContext(ctx, `DELETE FROM steps WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("delete step: %w", err)
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return domain.ErrStepNotFound
	}
	return nil
}

// Reorder rewrites the demo's positions to 1..n following orderedIDs, inside
// one transaction. The current rows are locked and compared against the
// requested set first, so a reorder computed from a stale step list fails
// whole rather than half-applying.
func (r *StepRepository) Reorder(ctx context.Context, demoID string, orderedIDs []string) error {
	return withTx(ctx, r.db, func(tx *sqlx.Tx) error {
		current := []string{}
		err := tx.SelectContext(ctx, &current,
			`SELECT id FROM steps WHERE demo_id = $1 FOR UPDATE`, demoID)
		if err != nil {
			return fmt.Errorf("lock steps: %w", err)
		}

		if len(current) != len(orderedIDs) {
			return fmt.Errorf("%w: step order must list all %d steps", domain.ErrValidation, len(current))
		}
		existing := make(map[string]struct{}, len(current))
		for _, id := range current {
			existing[id] = struct{}{}
		}
		for _, id := range orderedIDs {
			if _, ok := existing[id]; !ok {
				return fmt.Errorf("%w: step %s does not belong to the demo", domain.ErrValidation, id)
			}
			delete(existing, id)
		}

		for i, id := range orderedIDs {
			_, err := tx.ExecContext(ctx,
				`UPDATE steps SET "position" = $2, updated_at = now() WHERE id = $1`, id, i+1)
			if err != nil {
				return fmt.Errorf("reposition step %s: %w", id, err)
			}
		}
		return nil
	})
}
