package repository

import (
	"context"
	"fmt"
	"strconv"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/stemsi/seatpredictor-backend/internal/model"
)

const trackerTable = "counselling_seat_allotment_tracker"

// TrackerFilter narrows a lead listing. Every set field is a partial,
// case-insensitive match.
type TrackerFilter struct {
	Search            string
	AllotmentCategory string
	State             string
}

func (f TrackerFilter) where() (string, []interface{}) {
	clause := " WHERE 1=1"
	var args []interface{}

	if f.Search != "" {
		args = append(args, "%"+escapeLike(f.Search)+"%")
		n := strconv.Itoa(len(args))
		clause += " AND (name ILIKE $" + n + " OR email ILIKE $" + n + " OR phone_number ILIKE $" + n + ")"
	}
	if f.AllotmentCategory != "" {
		args = append(args, "%"+escapeLike(f.AllotmentCategory)+"%")
		clause += " AND allotment_category ILIKE $" + strconv.Itoa(len(args))
	}
	if f.State != "" {
		args = append(args, "%"+escapeLike(f.State)+"%")
		clause += " AND state ILIKE $" + strconv.Itoa(len(args))
	}
	return clause, args
}

// TrackerColumn names a tracker column that statistics may group by.
type TrackerColumn string

const (
	TrackerColumnAllotmentCategory TrackerColumn = "allotment_category"
	TrackerColumnState             TrackerColumn = "state"
	TrackerColumnCategory          TrackerColumn = "category"
)

func (c TrackerColumn) valid() bool {
	switch c {
	case TrackerColumnAllotmentCategory, TrackerColumnState, TrackerColumnCategory:
		return true
	}
	return false
}

// TrackerRepository is the append-only log of tracker queries.
type TrackerRepository interface {
	Create(ctx context.Context, lead *model.TrackerLead) error
	Count(ctx context.Context, f TrackerFilter) (int, error)
	Page(ctx context.Context, f TrackerFilter, limit int, offsetFor func(total int) int) (int, []model.TrackerLead, error)
	CountBy(ctx context.Context, column TrackerColumn) ([]model.FieldCount, error)
}

type trackerRepository struct {
	pool *pgxpool.Pool
}

// NewTrackerRepository creates a new TrackerRepository.
func NewTrackerRepository(pool *pgxpool.Pool) TrackerRepository {
	return &trackerRepository{pool: pool}
}

// Create inserts a lead. Empty optional strings are stored as NULL.
func (r *trackerRepository) Create(ctx context.Context, lead *model.TrackerLead) error {
	return r.pool.QueryRow(ctx,
		`INSERT INTO `+trackerTable+` (name, phone_number, email, rank_no, state, allotment_category,
			qualifying_group_or_course, specialization, category)
		 VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)
		 RETURNING seqno, created_at, updated_at`,
		lead.Name, nullIfEmpty(lead.PhoneNumber), nullIfEmpty(lead.Email), lead.RankNo,
		nullIfEmpty(lead.State), nullIfEmpty(lead.AllotmentCategory), nullIfEmpty(lead.QualifyingGroupOrCourse),
		nullIfEmpty(lead.Specialization), nullIfEmpty(lead.Category),
	).Scan(&lead.SeqNo, &lead.CreatedAt, &lead.UpdatedAt)
}

// querier is satisfied by both the pool and a transaction.
type querier interface {
	Query(ctx context.Context, sql string, args ...any) (pgx.Rows, error)
	QueryRow(ctx context.Context, sql string, args ...any) pgx.Row
}

// Count returns how many leads match f.
func (r *trackerRepository) Count(ctx context.Context, f TrackerFilter) (int, error) {
	return countLeads(ctx, r.pool, f)
}

// Page counts the leads matching f and reads one page of them from the same
// snapshot, so the total always agrees with the rows. offsetFor receives the
// total and returns the offset of the page to read.
func (r *trackerRepository) Page(ctx context.Context, f TrackerFilter, limit int, offsetFor func(total int) int) (int, []model.TrackerLead, error) {
	tx, err := r.pool.BeginTx(ctx, pgx.TxOptions{IsoLevel: pgx.RepeatableRead, AccessMode: pgx.ReadOnly})
	if err != nil {
		return 0, nil, fmt.Errorf("begin tx: %w", err)
	}
	defer tx.Rollback(ctx)

	total, err := countLeads(ctx, tx, f)
	if err != nil {
		return 0, nil, fmt.Errorf("count: %w", err)
	}

	leads, err := listLeads(ctx, tx, f, limit, offsetFor(total))
	if err != nil {
		return 0, nil, fmt.Errorf("list: %w", err)
	}

	if err := tx.Commit(ctx); err != nil {
		return 0, nil, fmt.Errorf("commit: %w", err)
	}
	return total, leads, nil
}

func countLeads(ctx context.Context, q querier, f TrackerFilter) (int, error) {
	where, args := f.where()
	var total int
	err := q.QueryRow(ctx, `SELECT COUNT(*) FROM `+trackerTable+where, args...).Scan(&total)
	return total, err
}

// listLeads returns one page of leads matching f in sequence order.
func listLeads(ctx context.Context, q querier, f TrackerFilter, limit, offset int) ([]model.TrackerLead, error) {
	where, args := f.where()
	query := `SELECT seqno, name, COALESCE(phone_number, ''), COALESCE(email, ''), rank_no,
		COALESCE(state, ''), COALESCE(allotment_category, ''), COALESCE(qualifying_group_or_course, ''),
		COALESCE(specialization, ''), COALESCE(category, ''), created_at, updated_at
		FROM ` + trackerTable + where +
		` ORDER BY seqno ASC LIMIT $` + strconv.Itoa(len(args)+1) + ` OFFSET $` + strconv.Itoa(len(args)+2)
	args = append(args, limit, offset)

	rows, err := q.Query(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	leads := []model.TrackerLead{}
	for rows.Next() {
		var l model.TrackerLead
		if err := rows.Scan(
			&l.SeqNo, &l.Name, &l.PhoneNumber, &l.Email, &l.RankNo,
			&l.State, &l.AllotmentCategory, &l.QualifyingGroupOrCourse,
			&l.Specialization, &l.Category, &l.CreatedAt, &l.UpdatedAt,
		); err != nil {
			return nil, err
		}
		leads = append(leads, l)
	}
	return leads, rows.Err()
}

// CountBy groups every lead by column, largest groups first.
func (r *trackerRepository) CountBy(ctx context.Context, column TrackerColumn) ([]model.FieldCount, error) {
	if !column.valid() {
		return nil, fmt.Errorf("unsupported group column %q", column)
	}
	col := string(column)
	rows, err := r.pool.Query(ctx,
		`SELECT `+col+`, COUNT(seqno) AS count FROM `+trackerTable+
			` GROUP BY `+col+` ORDER BY count DESC, `+col+` ASC NULLS LAST`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	counts := []model.FieldCount{}
	for rows.Next() {
		var fc model.FieldCount
		if err := rows.Scan(&fc.Value, &fc.Count); err != nil {
			return nil, err
		}
		counts = append(counts, fc)
	}
	return counts, rows.Err()
}

func nullIfEmpty(s string) *string {
	if s == "" {
		return nil
	}
	return &s
}

// escapeLike neutralises LIKE wildcards in user input.
func escapeLike(s string) string {
	out := make([]byte, 0, len(s))
	for i := 0; i < len(s); i++ {
		switch s[i] {
		case '\\', '%', '_':
			out = append(out, '\\')
		}
		out = append(out, s[i])
	}
	return string(out)
}
