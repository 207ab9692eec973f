package shared

import (
	"net"
	"strings"

	"github.com/gofiber/fiber/v2"
)

// ClientIP returns the best-effort network address of the caller.
func ClientIP(c *fiber.Ctx) string {
	// Check for forwarded IP first (for load balancers/proxies)
	if forwarded := c.Get("X-Forwarded-For"); forwarded != "" {
		ip := strings.TrimSpace(strings.Split(forwarded, ",")[0])
		if ip != "" {
			return ip
		}
	}

	if realIP := strings.TrimSpace(c.Get("X-Real-IP")); realIP != "" {
		return realIP
	}

	if cfIP := strings.TrimSpace(c.Get("CF-Connecting-IP")); cfIP != "" {
		return cfIP
	}

	addr := c.Context().RemoteAddr()
	if addr == nil {
		return ""
	}
	ip, _, err := net.SplitHostPort(addr.String())
	if err != nil {
		return addr.String()
	}
	return ip
}

// ResolveIdentifier picks the rate limit identity of a request: the
// authenticated user, else the client address, else "anonymous".
func ResolveIdentifier(c *fiber.Ctx) string {
	if userID, ok := c.Locals(UserID).(string); ok && userID != "" {
		return userID
	}
	if ip := ClientIP(c); ip != "" {
		return ip
	}
	return AnonymousIdentifier
}
