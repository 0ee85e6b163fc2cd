package middleware

import (
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/golang-jwt/jwt/v5"
	"github.com/taskhub-dev/taskhub/db"
	"github.com/taskhub-dev/taskhub/internal/apierrors"
	"github.com/taskhub-dev/taskhub/internal/auth"
	"github.com/taskhub-dev/taskhub/internal/models"
	"github.com/taskhub-dev/taskhub/internal/types"
	"github.com/taskhub-dev/taskhub/internal/utils"
)

// AuthMiddleware authenticates the bearer token and stores the user on the
// request context. Handlers read the user once and pass the id explicitly
// to everything below.
func AuthMiddleware() gin.HandlerFunc {
	return func(ctx *gin.Context) {
		authHeader := ctx.GetHeader("Authorization")

		if authHeader == "" {
			utils.AbortWithError(ctx, apierrors.Unauthorized("Authorization token is required"))
			return
		}

		parts := strings.SplitN(authHeader, " ", 2)

		if len(parts) != 2 || parts[0] != "Bearer" {
			utils.AbortWithError(ctx, apierrors.Unauthorized("Authorization header format must be Bearer {token}"))
			return
		}

		tokenString := parts[1]

		token, err := auth.VerifyJWT(tokenString)

		if err != nil || !token.Valid {
			utils.AbortWithError(ctx, apierrors.Unauthorized("Invalid or expired token"))
			return
		}

		claims, ok := token.Claims.(jwt.MapClaims)

		if !ok {
			utils.AbortWithError(ctx, apierrors.Unauthorized("Invalid token claims"))
			return
		}

		userIDFloat, ok := claims["user_id"].(float64)

		if !ok {
			utils.AbortWithError(ctx, apierrors.Unauthorized("Invalid user ID in token claims"))
			return
		}

		userID := uint(userIDFloat)

		var user models.User

		if err := db.DB.Where("id = ?", userID).First(&user).Error; err != nil {
			utils.AbortWithError(ctx, apierrors.Unauthorized("Invalid or expired token"))
			return
		}

		ctx.Set(types.ContextUserKey, utils.AuthenticatedUser{
			ID:    user.ID,
			Name:  user.Name,
			Email: user.Email,
		})
		ctx.Next()
	}
}
