package service

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/stemsi/seatpredictor-backend/internal/model"
	"github.com/stemsi/seatpredictor-backend/internal/repository"
)

// AdminService handles admin account business logic.
type AdminService struct {
	adminRepo repository.AdminRepository
	auth      *AuthService
}

// NewAdminService creates a new AdminService.
func NewAdminService(adminRepo repository.AdminRepository, auth *AuthService) *AdminService {
	return &AdminService{adminRepo: adminRepo, auth: auth}
}

// Register creates a non-staff account. Staff rights are granted out of band.
func (s *AdminService) Register(ctx context.Context, req model.AdminRegisterRequest) (*model.Admin, error) {
	return s.create(ctx, req.Username, req.Email, req.Password, false)
}

// CreateStaff creates an account that may use the protected admin API.
func (s *AdminService) CreateStaff(ctx context.Context, username, email, password string) (*model.Admin, error) {
	return s.create(ctx, username, email, password, true)
}

func (s *AdminService) create(ctx context.Context, username, email, password string, staff bool) (*model.Admin, error) {
	hash, err := s.auth.HashPassword(password)
	if err != nil {
		return nil, fmt.Errorf("hash password: %w", err)
	}

	admin := &model.Admin{
		Username:     strings.TrimSpace(username),
		Email:        strings.TrimSpace(email),
		PasswordHash: hash,
		IsStaff:      staff,
	}
	if err := s.adminRepo.Create(ctx, admin); err != nil {
		return nil, err
	}
	return admin, nil
}

// Authenticate checks username and password. Unknown users and wrong
// passwords are indistinguishable to the caller.
func (s *AdminService) Authenticate(ctx context.Context, username, password string) (*model.Admin, error) {
	admin, err := s.adminRepo.GetByUsername(ctx, username)
	if err != nil {
		if errors.Is(err, repository.ErrAdminNotFound) {
			return nil, ErrInvalidCredentials
		}
		return nil, err
	}
	if err := s.auth.CheckPassword(admin.PasswordHash, password); err != nil {
		return nil, err
	}
	return admin, nil
}

// Login authenticates and issues a token pair.
func (s *AdminService) Login(ctx context.Context, username, password string) (*model.TokenPair, error) {
	admin, err := s.Authenticate(ctx, username, password)
	if err != nil {
		return nil, err
	}
	return s.auth.IssueTokens(ctx, admin)
}

// GetByID retrieves an admin by ID.
func (s *AdminService) GetByID(ctx context.Context, id int) (*model.Admin, error) {
	return s.adminRepo.GetByID(ctx, id)
}
