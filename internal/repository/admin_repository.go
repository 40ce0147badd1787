package repository

import (
	"context"
	"errors"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/stemsi/seatpredictor-backend/internal/model"
)

var (
	ErrAdminNotFound     = errors.New("admin not found")
	ErrDuplicateUsername = errors.New("admin with this username already exists")
)

// AdminRepository handles admin account data access.
type AdminRepository interface {
	GetByID(ctx context.Context, id int) (*model.Admin, error)
	GetByUsername(ctx context.Context, username string) (*model.Admin, error)
	Create(ctx context.Context, a *model.Admin) error
}

type adminRepository struct {
	pool *pgxpool.Pool
}

// NewAdminRepository creates a new AdminRepository.
func NewAdminRepository(pool *pgxpool.Pool) AdminRepository {
	return &adminRepository{pool: pool}
}

// GetByID retrieves an admin by ID.
func (r *adminRepository) GetByID(ctx context.Context, id int) (*model.Admin, error) {
	return r.scanOne(ctx,
		`SELECT id, username, email, password_hash, is_staff, created_at, updated_at
		 FROM admins WHERE id = $1`, id)
}

// GetByUsername retrieves an admin by their unique username.
func (r *adminRepository) GetByUsername(ctx context.Context, username string) (*model.Admin, error) {
	return r.scanOne(ctx,
		`SELECT id, username, email, password_hash, is_staff, created_at, updated_at
		 FROM admins WHERE username = $1`, username)
}

// Create inserts a new admin.
func (r *adminRepository) Create(ctx context.Context, a *model.Admin) error {
	err := r.pool.QueryRow(ctx,
		`INSERT INTO admins (username, email, password_hash, is_staff)
		 VALUES ($1, $2, $3, $4)
		 RETURNING id, created_at, updated_at`,
		a.Username, a.Email, a.PasswordHash, a.IsStaff,
	).Scan(&a.ID, &a.CreatedAt, &a.UpdatedAt)
	if err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == "23505" {
			return ErrDuplicateUsername
		}
		return err
	}
	return nil
}

func (r *adminRepository) scanOne(ctx context.Context, query string, arg interface{}) (*model.Admin, error) {
	a := &model.Admin{}
	err := r.pool.QueryRow(ctx, query, arg).
		Scan(&a.ID, &a.Username, &a.Email, &a.PasswordHash, &a.IsStaff, &a.CreatedAt, &a.UpdatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrAdminNotFound
		}
		return nil, err
	}
	return a, nil
}
