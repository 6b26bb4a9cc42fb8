// Package middleware provides authentication and authorization middleware for the application.
package middleware

import (
	"strings"

	"agora/internal/config"
	"agora/internal/models"

	"github.com/gofiber/fiber/v2"
	"github.com/golang-jwt/jwt/v5"
)

var cfg *config.Config

// InitMiddleware initializes authentication middleware with the given config.
func InitMiddleware(c *config.Config) {
	cfg = c
}

// VerifyToken parses and validates a bearer token issued by the identity
// provider and extracts the caller identity from its claims.
func VerifyToken(tokenString string) (*models.Identity, error) {
	token, err := jwt.Parse(tokenString, func(token *jwt.Token) (interface{}, error) {
		// Validate signing method
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fiber.NewError(fiber.StatusUnauthorized, "Invalid signing method")
		}
		return []byte(cfg.JWTSecret), nil
	})
	if err != nil || !token.Valid {
		return nil, models.NewUnauthorizedError("Invalid or expired token")
	}

	claims, ok := token.Claims.(jwt.MapClaims)
	if !ok {
		return nil, models.NewUnauthorizedError("Invalid token claims")
	}

	if cfg.JWTIssuer != "" {
		if issuer, issuerOk := claims["iss"].(string); !issuerOk || issuer != cfg.JWTIssuer {
			return nil, models.NewUnauthorizedError("Invalid token issuer")
		}
	}
	if cfg.JWTAudience != "" {
		if audience, audienceOk := claims["aud"].(string); !audienceOk || audience != cfg.JWTAudience {
			return nil, models.NewUnauthorizedError("Invalid token audience")
		}
	}

	email, ok := claims["email"].(string)
	if !ok || email == "" {
		return nil, models.NewUnauthorizedError("Invalid token structure - missing email")
	}

	identity := &models.Identity{Email: email}
	if name, nameOk := claims["name"].(string); nameOk {
		identity.Name = name
	}
	if picture, picOk := claims["picture"].(string); picOk {
		identity.Picture = picture
	}

	return identity, nil
}

// AuthRequired is a middleware that enforces authentication for protected routes.
// On success the verified identity is stored in c.Locals("identity") and the
// caller email in c.Locals("callerEmail").
func AuthRequired(c *fiber.Ctx) error {
	authHeader := c.Get("Authorization")
	if authHeader == "" {
		return models.RespondWithError(c, fiber.StatusUnauthorized,
			models.NewUnauthorizedError("Authorization header required"))
	}

	// Extract token from "Bearer <token>"
	parts := strings.Split(authHeader, " ")
	if len(parts) != 2 || parts[0] != "Bearer" {
		return models.RespondWithError(c, fiber.StatusUnauthorized,
			models.NewUnauthorizedError("Invalid authorization header format"))
	}

	identity, err := VerifyToken(parts[1])
	if err != nil {
		return models.RespondWithError(c, fiber.StatusUnauthorized, err)
	}

	c.Locals("identity", identity)
	c.Locals("callerEmail", identity.Email)

	return c.Next()
}
