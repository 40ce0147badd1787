package service

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
	"github.com/stemsi/seatpredictor-backend/internal/config"
	"github.com/stemsi/seatpredictor-backend/internal/model"
	"golang.org/x/crypto/bcrypt"
)

// Common auth errors.
var (
	ErrInvalidCredentials = errors.New("invalid credentials")
	ErrInvalidToken       = errors.New("invalid token")
	ErrTokenRevoked       = errors.New("refresh token is no longer valid")
)

// TokenType distinguishes access from refresh tokens.
type TokenType string

const (
	TokenTypeAccess  TokenType = "access"
	TokenTypeRefresh TokenType = "refresh"
)

// Claims extends JWT standard claims with app-specific fields.
type Claims struct {
	jwt.RegisteredClaims
	TokenType TokenType `json:"token_type"`
	UserID    int       `json:"user_id"`
	IsStaff   bool      `json:"is_staff"`
}

// RefreshStore is the allowlist of redeemable refresh tokens.
type RefreshStore interface {
	Register(ctx context.Context, jti string, adminID int, ttl time.Duration) error
	Active(ctx context.Context, jti string) (bool, error)
	Revoke(ctx context.Context, jti string) error
}

// AuthService handles password hashing and JWT issuance.
type AuthService struct {
	cfg    *config.Config
	tokens RefreshStore
}

// NewAuthService creates a new AuthService.
func NewAuthService(cfg *config.Config, tokens RefreshStore) *AuthService {
	return &AuthService{cfg: cfg, tokens: tokens}
}

// HashPassword hashes a password with the configured bcrypt cost.
func (s *AuthService) HashPassword(password string) (string, error) {
	hash, err := bcrypt.GenerateFromPassword([]byte(password), s.cfg.BcryptCost)
	return string(hash), err
}

// CheckPassword compares a plaintext password against a bcrypt hash.
func (s *AuthService) CheckPassword(hash, password string) error {
	if err := bcrypt.CompareHashAndPassword([]byte(hash), []byte(password)); err != nil {
		return ErrInvalidCredentials
	}
	return nil
}

// IssueTokens creates an access/refresh pair for admin and allowlists the
// refresh token for its whole lifetime.
func (s *AuthService) IssueTokens(ctx context.Context, admin *model.Admin) (*model.TokenPair, error) {
	access, err := s.sign(TokenTypeAccess, uuid.New().String(), admin.ID, admin.IsStaff, s.cfg.JWTAccessExpiry)
	if err != nil {
		return nil, err
	}

	jti := uuid.New().String()
	refresh, err := s.sign(TokenTypeRefresh, jti, admin.ID, admin.IsStaff, s.cfg.JWTRefreshExpiry)
	if err != nil {
		return nil, err
	}
	if err := s.tokens.Register(ctx, jti, admin.ID, s.cfg.JWTRefreshExpiry); err != nil {
		return nil, err
	}

	return &model.TokenPair{Access: access, Refresh: refresh}, nil
}

// Refresh exchanges a still-allowlisted refresh token for a new access token.
func (s *AuthService) Refresh(ctx context.Context, refreshToken string) (string, error) {
	claims, err := s.ValidateToken(refreshToken)
	if err != nil || claims.TokenType != TokenTypeRefresh {
		return "", ErrInvalidToken
	}

	ok, err := s.tokens.Active(ctx, claims.ID)
	if err != nil {
		return "", err
	}
	if !ok {
		return "", ErrTokenRevoked
	}

	return s.sign(TokenTypeAccess, uuid.New().String(), claims.UserID, claims.IsStaff, s.cfg.JWTAccessExpiry)
}

// Revoke removes a refresh token from the allowlist.
func (s *AuthService) Revoke(ctx context.Context, refreshToken string) error {
	claims, err := s.ValidateToken(refreshToken)
	if err != nil || claims.TokenType != TokenTypeRefresh {
		return ErrInvalidToken
	}
	return s.tokens.Revoke(ctx, claims.ID)
}

// ValidateToken parses and validates a JWT, returning the claims.
func (s *AuthService) ValidateToken(tokenStr string) (*Claims, error) {
	token, err := jwt.ParseWithClaims(tokenStr, &Claims{}, func(t *jwt.Token) (interface{}, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method: %v", t.Header["alg"])
		}
		return []byte(s.cfg.JWTSecret), nil
	})
	if err != nil {
		return nil, fmt.Errorf("parse token: %w", err)
	}

	claims, ok := token.Claims.(*Claims)
	if !ok || !token.Valid {
		return nil, errors.New("invalid token claims")
	}

	return claims, nil
}

// ValidateAccessToken is ValidateToken restricted to access tokens.
func (s *AuthService) ValidateAccessToken(tokenStr string) (*Claims, error) {
	claims, err := s.ValidateToken(tokenStr)
	if err != nil {
		return nil, err
	}
	if claims.TokenType != TokenTypeAccess {
		return nil, ErrInvalidToken
	}
	return claims, nil
}

func (s *AuthService) sign(typ TokenType, jti string, adminID int, isStaff bool, ttl time.Duration) (string, error) {
	now := time.Now()
	claims := Claims{
		RegisteredClaims: jwt.RegisteredClaims{
			ID:        jti,
			Subject:   strconv.Itoa(adminID),
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(ttl)),
		},
		TokenType: typ,
		UserID:    adminID,
		IsStaff:   isStaff,
	}

	signed, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString([]byte(s.cfg.JWTSecret))
	if err != nil {
		return "", fmt.Errorf("sign token: %w", err)
	}
	return signed, nil
}
