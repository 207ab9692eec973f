package services

import (
	"os"

	"github.com/alphabatem/common/context"
	"github.com/gofiber/fiber/v2"
	"github.com/shawnadoherty9/travelogie-sub001/shared"
	log "github.com/sirupsen/logrus"
	"golang.org/x/crypto/bcrypt"
)

const AdminKeyHeader = "X-Admin-Key"

// AuthMiddleware resolves the caller identity from a bearer token and guards
// the admin routes.
type AuthMiddleware struct {
	context.DefaultService

	jwtSvc       *JWTService
	adminKeyHash []byte
}

const AUTH_MIDDLEWARE_SVC = "auth"

func (svc AuthMiddleware) Id() string {
	return AUTH_MIDDLEWARE_SVC
}

func (svc *AuthMiddleware) Configure(ctx *context.Context) error {
	svc.jwtSvc = ctx.Service(JWT_SVC).(*JWTService)
	if hash := os.Getenv("ADMIN_API_KEY_HASH"); hash != "" {
		svc.adminKeyHash = []byte(hash)
	}
	return svc.DefaultService.Configure(ctx)
}

func (svc *AuthMiddleware) Start() error {
	return nil
}

// OptionalAuth stores the token subject and role in the request locals when
// a valid bearer token is present. Requests without one, or any request when
// JWT_SECRET is unset, continue anonymously.
func (svc *AuthMiddleware) OptionalAuth() fiber.Handler {
	return func(c *fiber.Ctx) error {
		authHeader := c.Get(fiber.HeaderAuthorization)
		if authHeader == "" {
			return c.Next()
		}

		// Without a secret no token can be verified; callers stay anonymous.
		if !svc.jwtSvc.Enabled() {
			return c.Next()
		}

		token, err := svc.jwtSvc.ExtractTokenFromHeader(authHeader)
		if err != nil {
			return shared.NewUnauthorizedError(err.Error())
		}

		subject, role, err := svc.jwtSvc.VerifyJWTToken(token)
		if err != nil {
			log.WithError(err).Debug("Rejected bearer token")
			return shared.NewUnauthorizedError("Invalid JWT token")
		}

		c.Locals(shared.UserID, subject)
		c.Locals(shared.UserRole, role)
		return c.Next()
	}
}

// RequireAdmin admits callers holding an admin token or the admin API key.
// It must run after OptionalAuth.
func (svc *AuthMiddleware) RequireAdmin() fiber.Handler {
	return func(c *fiber.Ctx) error {
		if role, ok := c.Locals(shared.UserRole).(string); ok && role == shared.RoleAdmin {
			return c.Next()
		}

		if key := c.Get(AdminKeyHeader); key != "" && svc.checkAdminKey(key) {
			return c.Next()
		}

		if _, ok := c.Locals(shared.UserID).(string); ok {
			return shared.NewForbiddenError("Admin access required")
		}
		return shared.NewUnauthorizedError("Unauthorized")
	}
}

func (svc *AuthMiddleware) checkAdminKey(key string) bool {
	if len(svc.adminKeyHash) == 0 {
		return false
	}
	return bcrypt.CompareHashAndPassword(svc.adminKeyHash, []byte(key)) == nil
}
