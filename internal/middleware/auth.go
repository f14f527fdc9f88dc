package middleware

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"strings"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/jackc/pgx/v5/pgxpool"
)

// ClientContext identifies the caller an API key belongs to.
type ClientContext struct {
	ClientID string
	Label    string
}

// AuthMiddleware validates a bearer API key against the api_client
// table and stores the resolved ClientContext in request locals.
func AuthMiddleware(db *pgxpool.Pool) fiber.Handler {
	return func(c *fiber.Ctx) error {
		authHeader := c.Get("Authorization")
		if authHeader == "" {
			return c.Status(401).JSON(fiber.Map{
				"error":   "missing_api_key",
				"message": "API key is required. Use Authorization: Bearer YOUR_API_KEY",
			})
		}

		parts := strings.SplitN(authHeader, " ", 2)
		if len(parts) != 2 || strings.ToLower(parts[0]) != "bearer" {
			return c.Status(401).JSON(fiber.Map{
				"error":   "invalid_auth_format",
				"message": "Authorization header must be in format: Bearer YOUR_API_KEY",
			})
		}

		apiKey := strings.TrimSpace(parts[1])
		if !strings.HasPrefix(apiKey, "mp_") {
			return c.Status(401).JSON(fiber.Map{
				"error":   "invalid_api_key_format",
				"message": "API key must start with mp_",
			})
		}

		hash := sha256.Sum256([]byte(apiKey))
		keyHash := hex.EncodeToString(hash[:])

		ctx := context.Background()
		var clientID, label string
		err := db.QueryRow(ctx, `
			SELECT client_id, label
			FROM api_client
			WHERE key_hash = $1 AND is_active = true
		`, keyHash).Scan(&clientID, &label)
		if err != nil {
			return c.Status(401).JSON(fiber.Map{
				"error":   "invalid_api_key",
				"message": "The provided API key is invalid, expired, or has been revoked",
			})
		}

		go updateLastUsed(db, clientID)

		c.Locals("client", &ClientContext{ClientID: clientID, Label: label})
		return c.Next()
	}
}

func updateLastUsed(db *pgxpool.Pool, clientID string) {
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	_, _ = db.Exec(ctx, `
		UPDATE api_client SET last_used_at = NOW() WHERE client_id = $1
	`, clientID)
}

// OptionalAuth is like AuthMiddleware but does not fail the request when
// no Authorization header is supplied — useful for the station-search
// endpoint, which can run unauthenticated.
func OptionalAuth(db *pgxpool.Pool) fiber.Handler {
	return func(c *fiber.Ctx) error {
		if c.Get("Authorization") == "" {
			return c.Next()
		}
		return AuthMiddleware(db)(c)
	}
}
