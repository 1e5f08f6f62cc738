package middleware

import (
	"net/http"
	"os"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/golang-jwt/jwt/v5"
	"gorm.io/gorm"

	"github.com/stackit-qa/backend/internal/models"
)

const userKey = "user"

func jwtSecret() []byte {
	return []byte(os.Getenv("JWT_SECRET"))
}

func parseToken(header string) (jwt.MapClaims, error) {
	tokenString := strings.TrimPrefix(header, "Bearer ")

	token, err := jwt.Parse(tokenString, func(token *jwt.Token) (interface{}, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, jwt.ErrSignatureInvalid
		}
		return jwtSecret(), nil
	})
	if err != nil {
		return nil, err
	}

	claims, ok := token.Claims.(jwt.MapClaims)
	if !ok {
		return nil, jwt.ErrTokenInvalidClaims
	}
	return claims, nil
}

func loadUser(db *gorm.DB, claims jwt.MapClaims) (models.User, bool) {
	rawID, ok := claims["user_id"].(float64)
	if !ok {
		return models.User{}, false
	}

	var user models.User
	if err := db.First(&user, int(rawID)).Error; err != nil {
		return models.User{}, false
	}
	return user, true
}

// Authenticate requires a valid Bearer token for an existing, non-blocked
// account and stores the user in the request context.
func Authenticate(db *gorm.DB) gin.HandlerFunc {
	return func(c *gin.Context) {
		header := c.GetHeader("Authorization")
		if !strings.HasPrefix(header, "Bearer ") {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{
				"success": false,
				"message": "Access denied. No token provided.",
			})
			return
		}

		claims, err := parseToken(header)
		if err != nil {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{
				"success": false,
				"message": "Token is invalid or expired.",
			})
			return
		}

		user, ok := loadUser(db, claims)
		if !ok {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{
				"success": false,
				"message": "Token is invalid. User not found.",
			})
			return
		}

		if user.Status == models.StatusBlocked {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{
				"success": false,
				"message": "Account has been blocked. Please contact support.",
			})
			return
		}

		c.Set(userKey, user)
		c.Next()
	}
}

// OptionalAuth resolves the caller when a valid token is present but never
// rejects the request.
func OptionalAuth(db *gorm.DB) gin.HandlerFunc {
	return func(c *gin.Context) {
		header := c.GetHeader("Authorization")
		if strings.HasPrefix(header, "Bearer ") {
			if claims, err := parseToken(header); err == nil {
				if user, ok := loadUser(db, claims); ok && user.Status == models.StatusActive {
					c.Set(userKey, user)
				}
			}
		}
		c.Next()
	}
}

// RequireRole aborts with 403 unless the authenticated user has one of the
// given roles. It must run after Authenticate.
func RequireRole(roles ...string) gin.HandlerFunc {
	return func(c *gin.Context) {
		user, ok := CurrentUser(c)
		if !ok {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{
				"success": false,
				"message": "Authentication required.",
			})
			return
		}

		for _, role := range roles {
			if user.Role == role {
				c.Next()
				return
			}
		}

		c.AbortWithStatusJSON(http.StatusForbidden, gin.H{
			"success": false,
			"message": "Access denied. Insufficient permissions.",
		})
	}
}

// CurrentUser returns the user resolved by Authenticate or OptionalAuth.
func CurrentUser(c *gin.Context) (models.User, bool) {
	raw, exists := c.Get(userKey)
	if !exists {
		return models.User{}, false
	}
	user, ok := raw.(models.User)
	return user, ok
}
