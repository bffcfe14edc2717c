package auth

import (
	"github.com/gofiber/fiber/v2"
	"github.com/valyala/fasthttp"

	"github.com/spec-kit/maml-online/internal/domain"
)

// CookieName is the name of the cookie holding the identity token.
const CookieName = "id"

// CookieFactory bakes the identity cookie. Every cookie it issues or clears
// uses the same name and path so that clearing always hits the issued cookie.
type CookieFactory struct {
	Secure bool
}

// NewCookieFactory constructs a factory.
func NewCookieFactory(secure bool) *CookieFactory {
	return &CookieFactory{Secure: secure}
}

// Set writes the identity cookie for token to the response.
func (cf *CookieFactory) Set(c *fiber.Ctx, token domain.Token) {
	c.Cookie(cf.bake(token.String()))
}

// Clear expires the identity cookie on the client.
func (cf *CookieFactory) Clear(c *fiber.Ctx) {
	cookie := cf.bake("")
	cookie.Expires = fasthttp.CookieExpireDelete
	c.Cookie(cookie)
}

func (cf *CookieFactory) bake(value string) *fiber.Cookie {
	return &fiber.Cookie{
		Name:     CookieName,
		Value:    value,
		Path:     "/",
		HTTPOnly: true,
		Secure:   cf.Secure,
		SameSite: fiber.CookieSameSiteLaxMode,
	}
}
