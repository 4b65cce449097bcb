package middleware

import (
	"fmt"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/limiter"
)

// RateLimit caps requests per authenticated user, falling back to the client
// IP before authentication has run. The identifier keeps buckets separate
// when several routes share a limit.
func RateLimit(identifier string, max int, window time.Duration) fiber.Handler {
	if max <= 0 {
		max = 10
	}
	if window <= 0 {
		window = time.Second
	}

	keyFor := func(c *fiber.Ctx) string {
		userID := fmt.Sprintf("%v", c.Locals("user_id"))
		if userID == "" || userID == "0" || userID == "<nil>" {
			userID = c.IP()
		}
		return identifier + ":" + userID
	}

	return limiter.New(limiter.Config{
		Max:          max,
		Expiration:   window,
		KeyGenerator: keyFor,
	})
}
