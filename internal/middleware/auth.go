package middleware

import (
	"strings"

	"github.com/gofiber/fiber/v2"

	"lsx-portal/internal/session"
)

const memberIDKey = "member_id"

// TokenParser resolves a signed token to a member id.
type TokenParser interface {
	Parse(token string) (string, error)
}

// MemberAuth accepts a bearer token or the remember-me cookie. Requests
// without either pass through anonymously. A bad bearer token is rejected;
// a stale cookie is cleared and the request continues anonymously.
func MemberAuth(tokens TokenParser) fiber.Handler {
	return func(c *fiber.Ctx) error {
		auth := c.Get(fiber.HeaderAuthorization)
		if auth != "" && strings.HasPrefix(strings.ToLower(auth), "bearer ") {
			uid, err := tokens.Parse(strings.TrimSpace(auth[7:]))
			if err != nil {
				return fiber.NewError(fiber.StatusUnauthorized, "invalid token")
			}
			c.Locals(memberIDKey, uid)
			return c.Next()
		}

		if raw := session.ReadRememberCookie(c); raw != "" {
			uid, err := tokens.Parse(raw)
			if err != nil {
				session.ClearRememberCookie(c)
				return c.Next()
			}
			c.Locals(memberIDKey, uid)
		}
		return c.Next()
	}
}

// MemberIDFromLocals returns the authenticated member id or "".
func MemberIDFromLocals(c *fiber.Ctx) string {
	uid, _ := c.Locals(memberIDKey).(string)
	return uid
}

// RequireMember rejects anonymous requests.
func RequireMember() fiber.Handler {
	return func(c *fiber.Ctx) error {
		if MemberIDFromLocals(c) == "" {
			return fiber.ErrUnauthorized
		}
		return c.Next()
	}
}

// SetMemberID marks the request as authenticated; used right after login.
func SetMemberID(c *fiber.Ctx, memberID string) {
	c.Locals(memberIDKey, memberID)
}
