package repository

import (
	"context"
	"errors"

	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/stemsi/seatpredictor-backend/internal/model"
)

var ErrDuplicateGroupCategory = errors.New("group category already exists")

// GroupCategoryRepository stores the group/category-type dropdown taxonomy.
type GroupCategoryRepository interface {
	Exists(ctx context.Context, groupName, categoryType string) (bool, error)
	Create(ctx context.Context, gc *model.GroupCategory) error
	ListAll(ctx context.Context) ([]model.GroupCategory, error)
}

type groupCategoryRepository struct {
	pool *pgxpool.Pool
}

// NewGroupCategoryRepository creates a new GroupCategoryRepository.
func NewGroupCategoryRepository(pool *pgxpool.Pool) GroupCategoryRepository {
	return &groupCategoryRepository{pool: pool}
}

// Exists reports whether the pair is already stored, ignoring case.
func (r *groupCategoryRepository) Exists(ctx context.Context, groupName, categoryType string) (bool, error) {
	var exists bool
	err := r.pool.QueryRow(ctx,
		`SELECT EXISTS (
			SELECT 1 FROM group_categories
			WHERE LOWER(group_name) = LOWER($1) AND LOWER(category_type) = LOWER($2)
		)`, groupName, categoryType,
	).Scan(&exists)
	return exists, err
}

// Create inserts a pair. A concurrent insert of the same pair surfaces as
// ErrDuplicateGroupCategory via the case-folded unique index.
func (r *groupCategoryRepository) Create(ctx context.Context, gc *model.GroupCategory) error {
	err := r.pool.QueryRow(ctx,
		`INSERT INTO group_categories (group_name, category_type)
		 VALUES ($1, $2)
		 RETURNING id, created_at`,
		gc.GroupName, gc.CategoryType,
	).Scan(&gc.ID, &gc.CreatedAt)
	if err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == "23505" {
			return ErrDuplicateGroupCategory
		}
		return err
	}
	return nil
}

// ListAll returns every pair ordered by group, then category type.
func (r *groupCategoryRepository) ListAll(ctx context.Context) ([]model.GroupCategory, error) {
	rows, err := r.pool.Query(ctx,
		`SELECT id, group_name, category_type, created_at
		 FROM group_categories
		 ORDER BY group_name ASC, category_type ASC`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []model.GroupCategory
	for rows.Next() {
		var gc model.GroupCategory
		if err := rows.Scan(&gc.ID, &gc.GroupName, &gc.CategoryType, &gc.CreatedAt); err != nil {
			return nil, err
		}
		out = append(out, gc)
	}
	return out, rows.Err()
}
