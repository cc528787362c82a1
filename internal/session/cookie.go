package session

import (
	"time"

	"github.com/gofiber/fiber/v2"
)

const (
	StateCookieName    = "lsx_state"
	RememberCookieName = "lsx_remember"
)

// cookie builds a session cookie. A negative maxAge deletes it: fasthttp
// omits a non-positive Max-Age, so deletion is sent as a past Expires.
func cookie(name, value string, maxAge int) *fiber.Cookie {
	if maxAge < 0 {
		return &fiber.Cookie{
			Name:     name,
			HTTPOnly: true,
			Secure:   true,
			SameSite: "Lax",
			Expires:  time.Unix(0, 0),
			Path:     "/",
		}
	}
	return &fiber.Cookie{
		Name:     name,
		Value:    value,
		HTTPOnly: true,
		Secure:   true,
		SameSite: "Lax",
		MaxAge:   maxAge,
		Path:     "/",
	}
}

func SetStateCookie(c *fiber.Ctx, s State) {
	c.Cookie(cookie(StateCookieName, Encode(s), 30*24*3600))
}

func ClearStateCookie(c *fiber.Ctx) {
	c.Cookie(cookie(StateCookieName, "", -1))
}

// ReadStateCookie returns Default() when the cookie is missing or garbled.
func ReadStateCookie(c *fiber.Ctx) State {
	raw := c.Cookies(StateCookieName, "")
	if raw == "" {
		return Default()
	}
	s, err := Decode(raw)
	if err != nil {
		return Default()
	}
	return s
}

// SetRememberCookie stores a signed member token so the visitor stays
// logged in across browser restarts.
func SetRememberCookie(c *fiber.Ctx, token string, ttl time.Duration) {
	c.Cookie(cookie(RememberCookieName, token, int(ttl.Seconds())))
}

func ClearRememberCookie(c *fiber.Ctx) {
	c.Cookie(cookie(RememberCookieName, "", -1))
}

func ReadRememberCookie(c *fiber.Ctx) string {
	return c.Cookies(RememberCookieName, "")
}
