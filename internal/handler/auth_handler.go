package handler

import (
	"context"
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/stemsi/seatpredictor-backend/internal/model"
	"github.com/stemsi/seatpredictor-backend/internal/repository"
	"github.com/stemsi/seatpredictor-backend/internal/response"
	"github.com/stemsi/seatpredictor-backend/internal/service"
	"github.com/stemsi/seatpredictor-backend/internal/validator"
)

// AccountService registers and signs in admin accounts.
type AccountService interface {
	Register(ctx context.Context, req model.AdminRegisterRequest) (*model.Admin, error)
	Login(ctx context.Context, username, password string) (*model.TokenPair, error)
}

// TokenService refreshes and revokes refresh tokens.
type TokenService interface {
	Refresh(ctx context.Context, refreshToken string) (string, error)
	Revoke(ctx context.Context, refreshToken string) error
}

// AuthHandler handles admin authentication endpoints.
type AuthHandler struct {
	accounts AccountService
	tokens   TokenService
}

// NewAuthHandler creates a new AuthHandler.
func NewAuthHandler(accounts AccountService, tokens TokenService) *AuthHandler {
	return &AuthHandler{accounts: accounts, tokens: tokens}
}

// Register godoc
// POST /api/admin/register/
// Creates a non-staff admin account.
func (h *AuthHandler) Register(c *gin.Context) {
	var req model.AdminRegisterRequest
	if fields := validator.Bind(c, &req); fields != nil {
		response.FailWithFields(c, http.StatusBadRequest, response.ErrValidation, fields)
		return
	}

	admin, err := h.accounts.Register(c.Request.Context(), req)
	if err != nil {
		if errors.Is(err, repository.ErrDuplicateUsername) {
			response.FailWithFields(c, http.StatusConflict, response.ErrConflict,
				map[string]string{"username": err.Error()})
			return
		}
		response.FailWithDetail(c, http.StatusInternalServerError, response.ErrInternal, err.Error())
		return
	}

	response.Success(c, http.StatusCreated, gin.H{
		"id":       admin.ID,
		"username": admin.Username,
		"email":    admin.Email,
	})
}

// Login godoc
// POST /api/admin/login/
// Validates username + password, returns an access/refresh token pair.
func (h *AuthHandler) Login(c *gin.Context) {
	var req model.AdminLoginRequest
	if fields := validator.Bind(c, &req); fields != nil {
		response.FailWithFields(c, http.StatusBadRequest, response.ErrValidation, fields)
		return
	}

	pair, err := h.accounts.Login(c.Request.Context(), req.Username, req.Password)
	if err != nil {
		if errors.Is(err, service.ErrInvalidCredentials) {
			response.Fail(c, http.StatusUnauthorized, response.ErrInvalidCredentials)
			return
		}
		response.FailWithDetail(c, http.StatusInternalServerError, response.ErrInternal, err.Error())
		return
	}

	response.Success(c, http.StatusOK, pair)
}

// Refresh godoc
// POST /api/admin/refresh/
// Exchanges a refresh token for a new access token.
func (h *AuthHandler) Refresh(c *gin.Context) {
	var req model.TokenRefreshRequest
	if fields := validator.Bind(c, &req); fields != nil {
		response.FailWithFields(c, http.StatusBadRequest, response.ErrValidation, fields)
		return
	}

	access, err := h.tokens.Refresh(c.Request.Context(), req.Refresh)
	if err != nil {
		if errors.Is(err, service.ErrInvalidToken) || errors.Is(err, service.ErrTokenRevoked) {
			response.Fail(c, http.StatusUnauthorized, response.ErrTokenInvalid)
			return
		}
		response.FailWithDetail(c, http.StatusInternalServerError, response.ErrInternal, err.Error())
		return
	}

	response.Success(c, http.StatusOK, gin.H{"access": access})
}

// Logout godoc
// POST /api/admin/logout/
// Revokes a refresh token so it can no longer be exchanged.
func (h *AuthHandler) Logout(c *gin.Context) {
	var req model.TokenRefreshRequest
	if fields := validator.Bind(c, &req); fields != nil {
		response.FailWithFields(c, http.StatusBadRequest, response.ErrValidation, fields)
		return
	}

	if err := h.tokens.Revoke(c.Request.Context(), req.Refresh); err != nil {
		if errors.Is(err, service.ErrInvalidToken) {
			response.Fail(c, http.StatusUnauthorized, response.ErrTokenInvalid)
			return
		}
		response.FailWithDetail(c, http.StatusInternalServerError, response.ErrInternal, err.Error())
		return
	}

	c.Status(http.StatusNoContent)
}
