package middleware

import (
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/clinicdesk/clinic-api/pkg/auth"
	apperrors "github.com/clinicdesk/clinic-api/pkg/errors"
	"github.com/clinicdesk/clinic-api/pkg/httputil"
)

const (
	ContextDoctorID    = "doctor_id"
	ContextDoctorEmail = "doctor_email"
)

type AuthMiddleware struct {
	jwtService auth.JWTService
}

func NewAuthMiddleware(jwtService auth.JWTService) *AuthMiddleware {
	return &AuthMiddleware{jwtService: jwtService}
}

// Authenticate verifies the bearer token and sets doctor info in context
func (m *AuthMiddleware) Authenticate() gin.HandlerFunc {
	return func(c *gin.Context) {
		authHeader := c.GetHeader("Authorization")
		if authHeader == "" {
			abortUnauthorized(c, "missing authorization header")
			return
		}

		parts := strings.Split(authHeader, " ")
		if len(parts) != 2 || parts[0] != "Bearer" {
			abortUnauthorized(c, "invalid authorization format")
			return
		}

		claims, err := m.jwtService.ValidateToken(parts[1])
		if err != nil {
			abortUnauthorized(c, "invalid token")
			return
		}

		c.Set(ContextDoctorID, claims.DoctorID.String())
		c.Set(ContextDoctorEmail, claims.Email)
		c.Next()
	}
}

func abortUnauthorized(c *gin.Context, msg string) {
	httputil.RespondWithError(c, apperrors.Unauthorized("%s", msg))
	c.Abort()
}
