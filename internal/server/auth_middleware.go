package server

import (
	"context"

	"campusgram/internal/middleware"
	"campusgram/internal/session"

	"github.com/gofiber/fiber/v2"
)

const msgLoginRequired = "Please log in to access this page."

// AuthRequired admits requests carrying a valid, unrevoked session cookie.
// Others are redirected to the login form.
func (s *Server) AuthRequired() fiber.Handler {
	return func(c *fiber.Ctx) error {
		token := c.Cookies(session.CookieName)
		if token == "" {
			return s.redirectWithFlash(c, "/login", flashInfo, msgLoginRequired)
		}

		claims, err := s.sessions.Parse(c.UserContext(), token)
		if err != nil {
			s.clearSession(c)
			return s.redirectWithFlash(c, "/login", flashInfo, msgLoginRequired)
		}

		c.Locals("userID", claims.UserID)
		c.Locals("username", claims.Username)
		ctx := context.WithValue(c.UserContext(), middleware.UserIDKey, claims.UserID)
		c.SetUserContext(ctx)

		return c.Next()
	}
}

func (s *Server) setSession(c *fiber.Ctx, userID uint, username string) error {
	token, expires, err := s.sessions.Issue(userID, username)
	if err != nil {
		return err
	}
	c.Cookie(&fiber.Cookie{
		Name:     session.CookieName,
		Value:    token,
		Path:     "/",
		Expires:  expires,
		HTTPOnly: true,
		Secure:   s.config.IsProduction(),
		SameSite: fiber.CookieSameSiteLaxMode,
	})
	return nil
}

func (s *Server) clearSession(c *fiber.Ctx) {
	expireCookie(c, session.CookieName)
}
