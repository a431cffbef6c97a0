package middleware

import (
	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/log"
)

// PlayerIDKey is the fiber local holding the caller's player id.
const PlayerIDKey = "playerID"

// EnsurePlayerID reads the caller's id from the X-Player-ID header or the
// playerId query parameter and rejects requests carrying neither.
func EnsurePlayerID() fiber.Handler {
	return func(c *fiber.Ctx) error {
		if c.Locals(PlayerIDKey) != nil {
			return c.Next()
		}

		playerID := c.Get("X-Player-ID")
		if playerID == "" {
			playerID = c.Query("playerId")
		}
		if playerID == "" {
			log.Debugf("rejecting %s %s: no player id", c.Method(), c.Path())
			return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{
				"error": "Player ID is required. Please ensure client is properly initialized.",
			})
		}

		c.Locals(PlayerIDKey, playerID)
		return c.Next()
	}
}

// PlayerID returns the id stored by EnsurePlayerID.
func PlayerID(c *fiber.Ctx) string {
	id, _ := c.Locals(PlayerIDKey).(string)
	return id
}
