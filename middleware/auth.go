package middleware

import (
	"context"
	"strings"

	"github.com/gin-gonic/gin"

	"hotel-booking-api/apperror"
	"hotel-booking-api/models"
	"hotel-booking-api/utils"
)

const currentUserKey = "currentUser"

type TokenParser interface {
	Parse(raw string) (string, error)
}

type UserResolver interface {
	Authenticate(ctx context.Context, userID string) (*models.User, error)
}

func bearerToken(header string) string {
	scheme, token, ok := strings.Cut(strings.TrimSpace(header), " ")
	if !ok || !strings.EqualFold(scheme, "Bearer") {
		return ""
	}
	return strings.TrimSpace(token)
}

// Authenticate resolves the bearer token to a user and stores it, without the
// password hash, on the context. Missing, invalid or expired tokens and
// deleted users all end in 401.
func Authenticate(tokens TokenParser, users UserResolver) gin.HandlerFunc {
	return func(c *gin.Context) {
		raw := bearerToken(c.GetHeader("Authorization"))
		if raw == "" {
			utils.AbortWithError(c, apperror.Wrap(apperror.ErrUnauthenticated, "Missing bearer token"))
			return
		}
		userID, err := tokens.Parse(raw)
		if err != nil {
			utils.AbortWithError(c, apperror.Wrap(apperror.ErrUnauthenticated, "Invalid or expired token"))
			return
		}
		user, err := users.Authenticate(c.Request.Context(), userID)
		if err != nil {
			utils.AbortWithError(c, err)
			return
		}
		c.Set(currentUserKey, user.Sanitized())
		c.Next()
	}
}

// RequireRole lets the request through only when the authenticated user holds
// one of roles. It must run after Authenticate.
func RequireRole(roles ...models.Role) gin.HandlerFunc {
	return func(c *gin.Context) {
		user, ok := CurrentUser(c)
		if !ok {
			utils.AbortWithError(c, apperror.ErrUnauthenticated)
			return
		}
		if !user.Role.In(roles...) {
			utils.AbortWithError(c, apperror.Wrap(apperror.ErrForbidden, "Role %q is not allowed here", user.Role))
			return
		}
		c.Next()
	}
}

func CurrentUser(c *gin.Context) (models.User, bool) {
	v, ok := c.Get(currentUserKey)
	if !ok {
		return models.User{}, false
	}
	user, ok := v.(models.User)
	return user, ok
}
