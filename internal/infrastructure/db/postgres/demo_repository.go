package postgres

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	sq "github.com/Masterminds/squirrel"
	"github.com/jmoiron/sqlx"

	"github.com/stepwise/stepwise-api/internal/core/domain"
	"github.com/stepwise/stepwise-api/internal/core/ports"
)

var demoColumns = []string{"id", "title", "slug", "description", "user_id", "is_public", "created_at", "updated_at"}

// demoSortColumns whitelists the sortable columns; anything outside the map
// never reaches the SQL string.
var demoSortColumns = map[string]string{
	ports.SortByTitle:     "title",
	ports.SortByCreatedAt: "created_at",
	ports.SortByUpdatedAt: "updated_at",
}

type DemoRepository struct {
	db *sqlx.DB
}

func NewDemoRepository(db *sqlx.DB) *DemoRepository {
	return &DemoRepository{db: db}
}

func (r *DemoRepository) Create(ctx context.Context, d *domain.Demo) error {
	const query = `
		INSERT INTO demos (id, title, slug, description, user_id, is_public, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8)`

	_, err := r.db.ExecContext(ctx, query,
		d.ID, d.Title, d.Slug, d.Description, d.UserID, d.IsPublic, d.CreatedAt, d.UpdatedAt)
	if err != nil {
		if isUniqueViolation(err, "demos_user_id_slug_key") {
			return domain.ErrSlugConflict
		}
		return fmt.Errorf("insert demo: %w", err)
	}
	return nil
}

func (r *DemoRepository) FindByID(ctx context.Context, id string) (*domain.Demo, error) {
	const query = `
		SELECT id, title, slug, description, user_id, is_public, created_at, updated_at
		FROM demos WHERE id::text = $1`

	var d domain.Demo
	if err := r.db.GetContext(ctx, &d, query, id); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, domain.ErrDemoNotFound
		}
		return nil, fmt.Errorf("find demo: %w", err)
	}
	return &d, nil
}

// FindByIDOrSlug resolves by exact id first, then by slug. Slugs are only
// unique per owner, so a slug may match demos of several users; the oldest
// match wins.
func (r *DemoRepository) FindByIDOrSlug(ctx context.Context, idOrSlug string) (*domain.Demo, error) {
	const query = `
		SELECT id, title, slug, description, user_id, is_public, created_at, updated_at
		FROM demos WHERE id::text = $1 OR slug = $1
		ORDER BY (id::text = $1) DESC, created_at ASC
		LIMIT 1`

	var d domain.Demo
	if err := r.db.GetContext(ctx, &d, query, idOrSlug); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, domain.ErrDemoNotFound
		}
		return nil, fmt.Errorf("find demo by id or slug: %w", err)
	}
	return &d, nil
}

func (r *DemoRepository) ListSlugs(ctx context.Context, userID, prefix string) ([]string, error) {
	const query = `SELECT slug FROM demos WHERE user_id = $1 AND slug LIKE $2 || '%'`

	slugs := []string{}
	if err := r.db.SelectContext(ctx, &slugs, query, userID, prefix); err != nil {
		return nil, fmt.Errorf("list slugs: %w", err)
	}
	return slugs, nil
}

// List returns a page of demos matching filter and the filter-wide total.
func (r *DemoRepository) List(ctx context.Context, filter ports.ListDemosFilter) ([]*domain.Demo, int64, error) {
	where := sq.And{}
	if filter.OwnerID != "" {
		where = append(where, sq.Eq{"user_id": filter.OwnerID})
	}
	if filter.IsPublic != nil {
		where = append(where, sq.Eq{"is_public": *filter.IsPublic})
	}
	if filter.Search != "" {
		like := "%" + filter.Search + "%"
		where = append(where, sq.Or{
			sq.ILike{"title": like},
			sq.ILike{"description": like},
		})
	}

	countSQL, countArgs, err := sq.Select("COUNT(*)").
		From("demos").
		Where(where).
		PlaceholderFormat(sq.Dollar).
		ToSql()
	if err != nil {
		return nil, 0, fmt.Errorf("build count query: %w", err)
	}

	var total int64
	if err := r.db.GetContext(ctx, &total, countSQL, countArgs...); err != nil {
		return nil, 0, fmt.Errorf("count demos: %w", err)
	}

	sortCol, ok := demoSortColumns[filter.SortBy]
	if !ok {
		sortCol = "created_at"
	}
	direction := "DESC"
	if filter.SortOrder == "asc" {
		direction = "ASC"
	}

	pageSQL, pageArgs, err := sq.Select(demoColumns...).
		From("demos").
		Where(where).
		OrderBy(sortCol+" "+direction, "id ASC").
		Limit(uint64(filter.Limit)).
		Offset(uint64((filter.Page - 1) * filter.Limit)).
		PlaceholderFormat(sq.Dollar).
		ToSql()
	if err != nil {
		return nil, 0, fmt.Errorf("build list query: %w", err)
	}

	demos := []*domain.Demo{}
	if err := r.db.SelectContext(ctx, &demos, pageSQL, pageArgs...); err != nil {
		return nil, 0, fmt.Errorf("list demos: %w", err)
	}
	return demos, total, nil
}

func (r *DemoRepository) Update(ctx context.Context, d *domain.Demo) error {
	const query = `
		UPDATE demos
		SET title = $2, slug = $3, description = $4, is_public = $5, updated_at = $6
		WHERE id = $1`

	res, err := r.db.ExecContext(ctx, query,
		d.ID, d.Title, d.Slug, d.Description, d.IsPublic, d.UpdatedAt)
	if err != nil {
		if isUniqueViolation(err, "demos_user_id_slug_key") {
			return domain.ErrSlugConflict
		}
		return fmt.Errorf("update demo: %w", err)
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return domain.ErrDemoNotFound
	}
	return nil
}

// Delete removes the demo row; steps and hotspots follow via FK cascade in
// the same statement, so there is no window with orphaned children.
func (r *DemoRepository) Delete(ctx context.Context, id string) error {
	res, err := r.db.ExecContext(ctx, `DELETE FROM demos WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("delete demo: %w", err)
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return domain.ErrDemoNotFound
	}
	return nil
}
