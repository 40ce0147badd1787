package repository

import (
	"context"
	"fmt"
	"strconv"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/stemsi/seatpredictor-backend/internal/model"
)

const allotmentTable = "neet_counselling_seat_allotment"

// AllotmentFilter narrows a search over active allotments. Nil fields are
// left out of the predicate; string fields match case-insensitively.
type AllotmentFilter struct {
	MinRank                 *int
	State                   *string
	AllotmentCategory       *string
	QualifyingGroupOrCourse *string
	Speciality              *string
	AllottedCategory        *string
}

// where compiles the filter into a WHERE clause and its positional args.
// Active rows only, always.
func (f AllotmentFilter) where() (string, []interface{}) {
	clause := " WHERE is_active = TRUE"
	var args []interface{}

	add := func(expr string, v interface{}) {
		args = append(args, v)
		clause += " AND " + expr + "$" + strconv.Itoa(len(args))
	}
	addFold := func(column string, v *string) {
		if v == nil {
			return
		}
		args = append(args, *v)
		clause += " AND LOWER(" + column + ") = LOWER($" + strconv.Itoa(len(args)) + ")"
	}

	if f.MinRank != nil {
		add("rank_no >= ", *f.MinRank)
	}
	addFold("state", f.State)
	addFold("allotment_category", f.AllotmentCategory)
	addFold("qualifying_group_or_course", f.QualifyingGroupOrCourse)
	addFold("speciality", f.Speciality)
	addFold("allotted_category", f.AllottedCategory)

	return clause, args
}

// AllotmentRepository is the reference store of past seat allotments.
type AllotmentRepository interface {
	Search(ctx context.Context, f AllotmentFilter) ([]model.AllotmentResult, error)
	ActivateYear(ctx context.Context, category string, year int) (deactivated, activated int64, err error)
	ReplaceAll(ctx context.Context, rows []model.Allotment) (int64, error)
}

type allotmentRepository struct {
	pool *pgxpool.Pool
}

// NewAllotmentRepository creates a new AllotmentRepository.
func NewAllotmentRepository(pool *pgxpool.Pool) AllotmentRepository {
	return &allotmentRepository{pool: pool}
}

// Search returns every active allotment matching f, best ranks first.
func (r *allotmentRepository) Search(ctx context.Context, f AllotmentFilter) ([]model.AllotmentResult, error) {
	where, args := f.where()
	query := `SELECT allotment_category, allotment_year, rank_no, allotted_quota, allotted_institute,
		state, qualifying_group_or_course, speciality, allotted_category, candidate_category, remarks
		FROM ` + allotmentTable + where + ` ORDER BY rank_no ASC, id ASC`

	rows, err := r.pool.Query(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	results := []model.AllotmentResult{}
	for rows.Next() {
		var a model.AllotmentResult
		if err := rows.Scan(
			&a.AllotmentCategory, &a.AllotmentYear, &a.RankNo, &a.AllottedQuota, &a.AllottedInstitute,
			&a.State, &a.QualifyingGroupOrCourse, &a.Speciality, &a.AllottedCategory, &a.CandidateCategory, &a.Remarks,
		); err != nil {
			return nil, err
		}
		results = append(results, a)
	}
	return results, rows.Err()
}

// ActivateYear makes year the only active year of category. Both updates
// share one transaction so readers never see two active years.
func (r *allotmentRepository) ActivateYear(ctx context.Context, category string, year int) (int64, int64, error) {
	tx, err := r.pool.Begin(ctx)
	if err != nil {
		return 0, 0, fmt.Errorf("begin tx: %w", err)
	}
	defer tx.Rollback(ctx)

	off, err := tx.Exec(ctx,
		`UPDATE `+allotmentTable+` SET is_active = FALSE, updated_at = CURRENT_TIMESTAMP
		 WHERE allotment_category = $1`, category)
	if err != nil {
		return 0, 0, fmt.Errorf("deactivate category: %w", err)
	}

	on, err := tx.Exec(ctx,
		`UPDATE `+allotmentTable+` SET is_active = TRUE, updated_at = CURRENT_TIMESTAMP
		 WHERE allotment_category = $1 AND allotment_year = $2`, category, year)
	if err != nil {
		return 0, 0, fmt.Errorf("activate year: %w", err)
	}

	if err := tx.Commit(ctx); err != nil {
		return 0, 0, fmt.Errorf("commit: %w", err)
	}
	return off.RowsAffected(), on.RowsAffected(), nil
}

// ReplaceAll deactivates every existing row and bulk-inserts rows, all or
// nothing.
func (r *allotmentRepository) ReplaceAll(ctx context.Context, rows []model.Allotment) (int64, error) {
	tx, err := r.pool.Begin(ctx)
	if err != nil {
		return 0, fmt.Errorf("begin tx: %w", err)
	}
	defer tx.Rollback(ctx)

	if _, err := tx.Exec(ctx,
		`UPDATE `+allotmentTable+` SET is_active = FALSE, updated_at = CURRENT_TIMESTAMP WHERE is_active`,
	); err != nil {
		return 0, fmt.Errorf("deactivate all: %w", err)
	}

	now := time.Now()
	copied, err := tx.CopyFrom(
		ctx,
		pgx.Identifier{allotmentTable},
		[]string{
			"allotment_category", "allotment_year", "rank_no", "allotted_quota", "allotted_institute",
			"state", "qualifying_group_or_course", "speciality", "allotted_category", "candidate_category",
			"remarks", "is_active", "created_at", "updated_at",
		},
		pgx.CopyFromSlice(len(rows), func(i int) ([]interface{}, error) {
			a := rows[i]
			return []interface{}{
				a.AllotmentCategory, a.AllotmentYear, a.RankNo, a.AllottedQuota, a.AllottedInstitute,
				a.State, a.QualifyingGroupOrCourse, a.Speciality, a.AllottedCategory, a.CandidateCategory,
				a.Remarks, a.IsActive, now, now,
			}, nil
		}),
	)
	if err != nil {
		return 0, fmt.Errorf("copy rows: %w", err)
	}

	if err := tx.Commit(ctx); err != nil {
		return 0, fmt.Errorf("commit: %w", err)
	}
	return copied, nil
}
