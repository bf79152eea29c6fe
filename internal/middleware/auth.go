package middleware

import (
	"strings"

	"jobboard_backend/internal/auth"
	"jobboard_backend/internal/logger"
	"jobboard_backend/internal/models"
	"jobboard_backend/internal/repositories"
	"jobboard_backend/pkg/apperrors"
	"jobboard_backend/pkg/contextkeys"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"
)

// AuthMiddleware verifies the bearer token and stores the caller in the gin
// and request contexts. The local user row is created or refreshed from the
// claims so that team and application lookups can join on it.
func AuthMiddleware(secret string, userRepo repositories.UserRepository) gin.HandlerFunc {
	return func(c *gin.Context) {
		claims, ok := parseBearer(c, secret)
		if !ok {
			apperrors.HandleError(c, apperrors.NewUnauthorizedError("Authorization header missing or invalid"))
			c.Abort()
			return
		}

		setCaller(c, claims)

		if db, ok := c.Get(string(contextkeys.DBContextKey)); ok && userRepo != nil {
			user := &models.User{Email: claims.Email, FullName: claims.Name}
			user.ID = claims.UserID
			if err := userRepo.Ensure(db.(*gorm.DB).WithContext(c.Request.Context()), user); err != nil {
				logger.CtxWithError(c.Request.Context(), "user sync failed", err)
				apperrors.HandleError(c, apperrors.InternalError(err))
				c.Abort()
				return
			}
		}

		c.Next()
	}
}

// OptionalAuth sets the caller when a valid token is present and never rejects.
func OptionalAuth(secret string) gin.HandlerFunc {
	return func(c *gin.Context) {
		if claims, ok := parseBearer(c, secret); ok {
			setCaller(c, claims)
		}
		c.Next()
	}
}

// GetUserID returns the authenticated caller or "".
func GetUserID(c *gin.Context) string {
	return c.GetString(contextkeys.UserIDKey)
}

func parseBearer(c *gin.Context, secret string) (*auth.Claims, bool) {
	header := c.GetHeader("Authorization")
	if header == "" || !strings.HasPrefix(header, "Bearer ") {
		return nil, false
	}
	claims, err := auth.ParseToken(strings.TrimPrefix(header, "Bearer "), secret)
	if err != nil {
		logger.CtxDebug(c.Request.Context(), "token rejected", "error", err.Error())
		return nil, false
	}
	return claims, true
}

func setCaller(c *gin.Context, claims *auth.Claims) {
	c.Set(contextkeys.UserIDKey, claims.UserID)
	c.Set(contextkeys.EmailKey, claims.Email)
	c.Request = c.Request.WithContext(logger.WithUserID(c.Request.Context(), claims.UserID))
}
