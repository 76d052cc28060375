package middleware

import (
	"fmt"
	"strings"

	"github.com/ev-spark-hub/internal/domain"
	"github.com/ev-spark-hub/internal/pkg/errors"
	"github.com/ev-spark-hub/internal/pkg/utils"
	"github.com/gofiber/fiber/v2"
	"github.com/golang-jwt/jwt/v5"
)

const userIDKey = "userID"

// Auth проверяет bearer JWT (HS256) от внешнего auth провайдера и кладёт user id в Locals.
// При required=false запрос без токена выполняется от имени guest, невалидный токен всё равно отклоняется.
func Auth(secret string, required bool) fiber.Handler {
	return func(c *fiber.Ctx) error {
		header := c.Get(fiber.HeaderAuthorization)
		if header == "" {
			if required {
				return utils.SendError(c, errors.ErrUnauthorized)
			}
			c.Locals(userIDKey, domain.GuestUserID)
			return c.Next()
		}

		parts := strings.SplitN(header, " ", 2)
		if len(parts) != 2 || !strings.EqualFold(parts[0], "Bearer") {
			return utils.SendError(c, errors.ErrUnauthorized.WithMessage("Invalid authorization header"))
		}

		userID, err := parseToken(strings.TrimSpace(parts[1]), secret)
		if err != nil {
			return utils.SendError(c, errors.ErrUnauthorized.WithMessage("Invalid token"))
		}

		c.Locals(userIDKey, userID)
		return c.Next()
	}
}

func parseToken(tokenStr, secret string) (string, error) {
	token, err := jwt.Parse(tokenStr, func(token *jwt.Token) (interface{}, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, jwt.ErrTokenInvalidClaims
		}
		return []byte(secret), nil
	}, jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}))
	if err != nil || !token.Valid {
		return "", fmt.Errorf("invalid token: %w", err)
	}

	claims, ok := token.Claims.(jwt.MapClaims)
	if !ok {
		return "", jwt.ErrTokenInvalidClaims
	}
	return extractUserID(claims)
}

// extractUserID берёт sub, затем user_id
func extractUserID(claims jwt.MapClaims) (string, error) {
	if sub, err := claims.GetSubject(); err == nil && sub != "" {
		return sub, nil
	}
	switch v := claims["user_id"].(type) {
	case string:
		if v != "" {
			return v, nil
		}
	case float64:
		return fmt.Sprintf("%.0f", v), nil
	}
	return "", fmt.Errorf("user id not present")
}

// UserID возвращает идентификатор пользователя, установленный Auth
func UserID(c *fiber.Ctx) string {
	if id, ok := c.Locals(userIDKey).(string); ok && id != "" {
		return id
	}
	return domain.GuestUserID
}
