package server

import (
	"encoding/base64"
	"encoding/json"
	"time"

	"github.com/gofiber/fiber/v2"
)

const flashCookie = "flash"

// Flash categories.
const (
	flashSuccess = "success"
	flashDanger  = "danger"
	flashInfo    = "info"
)

// Flash is a one-shot message shown by the next rendered view.
type Flash struct {
	Category string `json:"category"`
	Message  string `json:"message"`
}

func (s *Server) setFlash(c *fiber.Ctx, category, message string) {
	raw, err := json.Marshal(Flash{Category: category, Message: message})
	if err != nil {
		return
	}
	c.Cookie(&fiber.Cookie{
		Name:     flashCookie,
		Value:    base64.RawURLEncoding.EncodeToString(raw),
		Path:     "/",
		HTTPOnly: true,
		Secure:   s.config.IsProduction(),
		SameSite: fiber.CookieSameSiteLaxMode,
	})
}

// popFlash returns the pending flash, if any, and clears the cookie.
func popFlash(c *fiber.Ctx) *Flash {
	value := c.Cookies(flashCookie)
	if value == "" {
		return nil
	}
	expireCookie(c, flashCookie)

	raw, err := base64.RawURLEncoding.DecodeString(value)
	if err != nil {
		return nil
	}
	var f Flash
	if err := json.Unmarshal(raw, &f); err != nil || f.Message == "" {
		return nil
	}
	return &f
}

// expireCookie deletes a cookie set on path "/".
func expireCookie(c *fiber.Ctx, name string) {
	c.Cookie(&fiber.Cookie{
		Name:     name,
		Path:     "/",
		Expires:  time.Unix(0, 0),
		HTTPOnly: true,
	})
}

// redirectWithFlash answers a form post with 303 See Other.
func (s *Server) redirectWithFlash(c *fiber.Ctx, location, category, message string) error {
	if message != "" {
		s.setFlash(c, category, message)
	}
	return c.Redirect(location, fiber.StatusSeeOther)
}

// render writes a view document carrying the pending flash.
func render(c *fiber.Ctx, view string, data fiber.Map) error {
	if data == nil {
		data = fiber.Map{}
	}
	data["view"] = view
	data["flash"] = popFlash(c)
	if userID, ok := c.Locals("userID").(uint); ok {
		data["current_user"] = fiber.Map{
			"id":       userID,
			"username": c.Locals("username"),
		}
	}
	return c.JSON(data)
}
