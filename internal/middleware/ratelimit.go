package middleware

import (
	"context"
	"fmt"
	"strconv"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/redis/go-redis/v9"
)

// RateLimitMiddleware enforces a per-second and per-day request budget
// per client, using Redis INCR+EXPIRE counters.
func RateLimitMiddleware(rdb *redis.Client, perSecond, perDay int) fiber.Handler {
	return func(c *fiber.Ctx) error {
		client, ok := c.Locals("client").(*ClientContext)
		if !ok {
			return c.Next()
		}

		ctx := context.Background()
		now := time.Now()

		keySecond := fmt.Sprintf("rl:client:%s:second:%d", client.ClientID, now.Unix())
		keyDay := fmt.Sprintf("rl:client:%s:day:%s", client.ClientID, now.Format("2006-01-02"))

		if perSecond > 0 {
			countSecond, err := rdb.Incr(ctx, keySecond).Result()
			if err == nil {
				rdb.Expire(ctx, keySecond, 2*time.Second)

				if countSecond > int64(perSecond) {
					c.Set("X-RateLimit-Limit-Second", strconv.Itoa(perSecond))
					c.Set("X-RateLimit-Remaining-Second", "0")
					c.Set("Retry-After", "1")
					return c.Status(429).JSON(fiber.Map{
						"error":   "rate_limit_exceeded",
						"message": "Too many requests per second",
					})
				}
			}
		}

		if perDay > 0 {
			countDay, err := rdb.Incr(ctx, keyDay).Result()
			if err == nil {
				rdb.Expire(ctx, keyDay, 25*time.Hour)

				if countDay > int64(perDay) {
					tomorrow := now.AddDate(0, 0, 1)
					midnight := time.Date(tomorrow.Year(), tomorrow.Month(), tomorrow.Day(), 0, 0, 0, 0, tomorrow.Location())
					retryAfter := int64(midnight.Sub(now).Seconds())

					c.Set("X-RateLimit-Limit-Day", strconv.Itoa(perDay))
					c.Set("X-RateLimit-Remaining-Day", "0")
					c.Set("Retry-After", strconv.FormatInt(retryAfter, 10))
					return c.Status(429).JSON(fiber.Map{
						"error":       "daily_quota_exceeded",
						"message":     "Daily quota exceeded",
						"used":        countDay,
						"retry_after": retryAfter,
					})
				}

				c.Set("X-RateLimit-Remaining-Day", strconv.FormatInt(int64(perDay)-countDay, 10))
			}
		}

		c.Set("X-RateLimit-Limit-Second", strconv.Itoa(perSecond))
		c.Set("X-RateLimit-Limit-Day", strconv.Itoa(perDay))

		return c.Next()
	}
}

// ResetRateLimit clears a client's counter for the given period (admin
// function).
func ResetRateLimit(rdb *redis.Client, clientID string, period string) error {
	ctx := context.Background()
	now := time.Now()

	var key string
	switch period {
	case "second":
		key = fmt.Sprintf("rl:client:%s:second:%d", clientID, now.Unix())
	case "day":
		key = fmt.Sprintf("rl:client:%s:day:%s", clientID, now.Format("2006-01-02"))
	default:
		return fmt.Errorf("invalid period: %s", period)
	}

	return rdb.Del(ctx, key).Err()
}
