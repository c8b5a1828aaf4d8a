package postgres

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/jmoiron/sqlx"

	"github.com/stepwise/stepwise-api/internal/core/domain"
)

type HotspotRepository struct {
	db *sqlx.DB
}

func NewHotspotRepository(db *sqlx.DB) *HotspotRepository {
	return &HotspotRepository{db: db}
}

func (r *HotspotRepository) Create(ctx context.Context, h *domain.Hotspot) error {
	const query = `
		INSERT INTO hotspots
			(id, step_id, x, y, width, height, color, border_radius,
			 tooltip_text, tooltip_placement, target_step_id, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13)`

	_, err := r.db.ExecContext(ctx, query,
		h.ID, h.StepID, h.X, h.Y, h.Width, h.Height, h.Color, h.BorderRadius,
		h.TooltipText, h.TooltipPlacement, h.TargetStepID, h.CreatedAt, h.UpdatedAt)
	if err != nil {
		return fmt.Errorf("insert hotspot: %w", err)
	}
	return nil
}

func (r *HotspotRepository) FindByID(ctx context.Context, id string) (*domain.Hotspot, error) {
	const query = `
		SELECT id, step_id, x, y, width, height, color, border_radius,
		       tooltip_text, tooltip_placement, target_step_id, created_at, updated_at
		FROM hotspots WHERE id::text = $1`

	var h domain.Hotspot
	if err := r.db.GetContext(ctx, &h, query, id); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, domain.ErrHotspotNotFound
		}
		return nil, fmt.Errorf("find hotspot: %w", err)
	}
	return &h, nil
}

func (r *HotspotRepository) ListByStep(ctx context.Context, stepID string) ([]*domain.Hotspot, error) {
	const query = `
		SELECT id, step_id, x, y, width, height, color, border_radius,
		       tooltip_text, tooltip_placement, target_step_id, created_at, updated_at
		FROM hotspots WHERE step_id = $1
		ORDER BY created_at ASC`

	hotspots := []*domain.Hotspot{}
	if err := r.db.SelectContext(ctx, &hotspots, query, stepID); err != nil {
		return nil, fmt.Errorf("list hotspots: %w", err)
	}
	return hotspots, nil
}

func (r *HotspotRepository) Update(ctx context.Context, h *domain.Hotspot) error {
	const query = `
		UPDATE hotspots
		SET x = $2, y = $3, width = $4, height = $5, color = $6, border_radius = $7,
		    tooltip_text = $8, tooltip_placement = $9, target_step_id = $10, updated_at = $11
		WHERE id = $1`

	res, err := r.db.ExecContext(ctx, query,
		h.ID, h.X, h.Y, h.Width, h.Height, h.Color, h.BorderRadius,
		h.TooltipText, h.TooltipPlacement, h.TargetStepID, h.UpdatedAt)
	if err != nil {
		return fmt.Errorf("update hotspot: %w", err)
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return domain.ErrHotspotNotFound
	}
	return nil
}

func (r *HotspotRepository) Delete(ctx context.Context, id string) error {
	res, err := r.db.ExecContext(ctx, `DELETE FROM hotspots WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("delete hotspot: %w", err)
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return domain.ErrHotspotNotFound
	}
	return nil
}

// DeleteByStep removes every hotspot of the step. The count comes from the
// delete itself, so it stays exact under concurrent writers.
func (r *HotspotRepository) DeleteByStep(ctx context.Context, stepID string) (int64, error) {
	res, err := r.db.ExecContext(ctx, `DELETE FROM hotspots WHERE step_id = $1`, stepID)
	if err != nil {
		return 0, fmt.Errorf("delete hotspots by step: %w", err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return 0, fmt.Errorf("delete hotspots by step: %w", err)
	}
	return n, nil
}
