package shared

import (
	"strconv"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/shawnadoherty9/travelogie-sub001/dto"
)

// SetRateLimitHeaders writes the X-RateLimit-* headers for a decision, and
// Retry-After when it was denied.
func SetRateLimitHeaders(c *fiber.Ctx, info *dto.RateLimitInfo) {
	if info == nil {
		return
	}

	if info.Limit > 0 {
		c.Set("X-RateLimit-Limit", strconv.Itoa(info.Limit))
	}

	if info.Remaining >= 0 {
		c.Set("X-RateLimit-Remaining", strconv.Itoa(info.Remaining))
	}

	if info.ResetTime != nil {
		c.Set("X-RateLimit-Reset", strconv.FormatInt(info.ResetTime.Unix(), 10))

		if !info.Allowed {
			retryAfter := int(time.Until(*info.ResetTime).Seconds())
			if retryAfter < 1 {
				retryAfter = 1
			}
			c.Set(fiber.HeaderRetryAfter, strconv.Itoa(retryAfter))
		}
	}
}

// RateLimitExceededData is the error payload of a 429 response.
func RateLimitExceededData(endpoint string, info *dto.RateLimitInfo) fiber.Map {
	data := fiber.Map{
		"error":    "Rate limit exceeded",
		"endpoint": endpoint,
	}
	if info != nil && info.ResetTime != nil {
		data["reset_time"] = info.ResetTime.Unix()
	}
	return data
}
