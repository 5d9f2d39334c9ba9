package middleware

import (
	"errors"
	"fmt"
	"net/http"
	"os"
	"strings"
	"sync"

	"go-erp/internal/shared/apperror"
	"go-erp/internal/shared/response"

	"github.com/gin-gonic/gin"
	"github.com/golang-jwt/jwt/v5"
)

var (
	errTokenMissing = apperror.New(apperror.CodeUnauthorized, "Token not found", http.StatusUnauthorized)
	errInvalidToken = apperror.New("INVALID_TOKEN", "Invalid token", http.StatusUnauthorized)
	errTokenExpired = apperror.New("TOKEN_EXPIRED", "Token has expired", http.StatusUnauthorized)
)

var (
	secretMu  sync.RWMutex
	jwtSecret string
)

// SetJWTSecret overrides the JWT_SECRET environment variable.
func SetJWTSecret(secret string) {
	secretMu.Lock()
	defer secretMu.Unlock()
	jwtSecret = secret
}

func signingSecret() []byte {
	secretMu.RLock()
	defer secretMu.RUnlock()
	if jwtSecret != "" {
		return []byte(jwtSecret)
	}
	return []byte(os.Getenv("JWT_SECRET"))
}

func abortWith(c *gin.Context, appErr *apperror.AppError, message string) {
	if message == "" {
		message = appErr.Message
	}
	response.Error(c, appErr.HTTPStatus, appErr.Code, message, nil)
	c.Abort()
}

// AuthMiddleware validates the bearer token (or access_token cookie) and
// places user_id, employee_id, company_id and role into the gin context.
func AuthMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		tokenString, found := strings.CutPrefix(c.GetHeader("Authorization"), "Bearer ")
		if !found {
			tokenString = ""
		}
		if tokenString == "" {
			if cookie, err := c.Cookie("access_token"); err == nil {
				tokenString = cookie
			}
		}
		if tokenString == "" {
			abortWith(c, errTokenMissing, "")
			return
		}

		token, err := jwt.Parse(tokenString, func(token *jwt.Token) (interface{}, error) {
			if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
				return nil, fmt.Errorf("unexpected signing method")
			}
			return signingSecret(), nil
		})
		if err != nil || !token.Valid {
			if errors.Is(err, jwt.ErrTokenExpired) {
				abortWith(c, errTokenExpired, "")
				return
			}
			abortWith(c, errInvalidToken, "")
			return
		}

		claims, ok := token.Claims.(jwt.MapClaims)
		if !ok {
			abortWith(c, errInvalidToken, "Invalid token claims")
			return
		}

		userID, _ := claims["user_id"].(string)
		if userID == "" {
			abortWith(c, errInvalidToken, "User ID not found in token")
			return
		}
		companyID, _ := claims["company_id"].(string)
		if companyID == "" {
			abortWith(c, errInvalidToken, "Company ID not found in token")
			return
		}
		employeeID, _ := claims["employee_id"].(string)
		if employeeID == "" {
			abortWith(c, errInvalidToken, "Employee ID not found in token")
			return
		}
		role, _ := claims["role"].(string)

		c.Set("user_id", userID)
		c.Set("employee_id", employeeID)
		c.Set("company_id", companyID)
		c.Set("role", role)

		c.Next()
	}
}
