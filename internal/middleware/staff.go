package middleware

import (
	"context"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/stemsi/seatpredictor-backend/internal/model"
	"github.com/stemsi/seatpredictor-backend/internal/response"
	"github.com/stemsi/seatpredictor-backend/internal/service"
)

// ContextKeyAdmin holds the *model.Admin authenticated via HTTP Basic.
const ContextKeyAdmin = "admin"

// Authenticator verifies username/password pairs.
type Authenticator interface {
	Authenticate(ctx context.Context, username, password string) (*model.Admin, error)
}

// RequireStaff admits staff accounts presenting either a Bearer access token
// or HTTP Basic credentials. Every failure, including a non-staff account,
// is a 401.
func RequireStaff(authService *service.AuthService, admins Authenticator) gin.HandlerFunc {
	return func(c *gin.Context) {
		header := c.GetHeader("Authorization")

		switch {
		case len(header) > 7 && strings.EqualFold(header[:7], "bearer "):
			claims, err := authService.ValidateAccessToken(strings.TrimSpace(header[7:]))
			if err == nil && claims.IsStaff {
				c.Set(ContextKeyClaims, claims)
				c.Next()
				return
			}

		case len(header) > 6 && strings.EqualFold(header[:6], "basic "):
			if username, password, ok := c.Request.BasicAuth(); ok {
				admin, err := admins.Authenticate(c.Request.Context(), username, password)
				if err == nil && admin.IsStaff {
					c.Set(ContextKeyAdmin, admin)
					c.Next()
					return
				}
			}
		}

		c.Header("WWW-Authenticate", `Basic realm="admin"`)
		response.AbortFail(c, http.StatusUnauthorized, response.ErrAuthRequired)
	}
}
