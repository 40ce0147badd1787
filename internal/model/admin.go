package model

import "time"

// Admin is an account allowed to sign in to the admin API. Only staff
// accounts may use the protected endpoints.
type Admin struct {
	ID           int       `json:"id"`
	Username     string    `json:"username"`
	Email        string    `json:"email"`
	PasswordHash string    `json:"-"`
	IsStaff      bool      `json:"is_staff"`
	CreatedAt    time.Time `json:"created_at"`
	UpdatedAt    time.Time `json:"updated_at"`
}

// AdminRegisterRequest is the payload for creating an admin account.
type AdminRegisterRequest struct {
	Username string `json:"username" binding:"required,min=3,max=150"`
	Email    string `json:"email" binding:"omitempty,email,max=254"`
	Password string `json:"password" binding:"required,min=8,max=128"`
}

// AdminLoginRequest is the payload for admin authentication.
type AdminLoginRequest struct {
	Username string `json:"username" binding:"required,max=150"`
	Password string `json:"password" binding:"required,max=128"`
}

// TokenRefreshRequest exchanges a refresh token for a new access token.
type TokenRefreshRequest struct {
	Refresh string `json:"refresh" binding:"required"`
}

// TokenPair is returned after a successful login.
type TokenPair struct {
	Access  string `json:"access"`
	Refresh string `json:"refresh"`
}

// ResultsEmailRequest asks for query results to be mailed to a user.
type ResultsEmailRequest struct {
	Email   string           `json:"email" binding:"required,email"`
	Results []map[string]any `json:"results" binding:"required"`
}
