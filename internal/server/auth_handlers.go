package server

import (
	"campusgram/internal/service"
	"campusgram/internal/session"

	"github.com/gofiber/fiber/v2"
)

// Home handles GET /
func (s *Server) Home(c *fiber.Ctx) error {
	return render(c, "home", nil)
}

// RegisterForm handles GET /register
func (s *Server) RegisterForm(c *fiber.Ctx) error {
	return render(c, "register", nil)
}

// Register handles POST /register with form fields username, email and password.
func (s *Server) Register(c *fiber.Ctx) error {
	_, err := s.authService.Register(c.UserContext(), service.RegisterInput{
		Username: c.FormValue("username"),
		Email:    c.FormValue("email"),
		Password: c.FormValue("password"),
	})
	if err != nil {
		return s.failRedirect(c, "/register", err)
	}
	return s.redirectWithFlash(c, "/login", flashSuccess, "Registration successful. Please log in.")
}

// LoginForm handles GET /login
func (s *Server) LoginForm(c *fiber.Ctx) error {
	return render(c, "login", nil)
}

// Login handles POST /login and sets the session cookie.
func (s *Server) Login(c *fiber.Ctx) error {
	user, err := s.authService.Login(c.UserContext(), c.FormValue("username"), c.FormValue("password"))
	if err != nil {
		return s.failRedirect(c, "/login", err)
	}
	if err := s.setSession(c, user.ID, user.Username); err != nil {
		return s.failRedirect(c, "/login", err)
	}
	return c.Redirect("/feed", fiber.StatusSeeOther)
}

// Logout handles GET /logout. The token is revoked before the cookie is dropped.
func (s *Server) Logout(c *fiber.Ctx) error {
	s.authService.Logout(c.UserContext(), c.Cookies(session.CookieName))
	s.clearSession(c)
	return s.redirectWithFlash(c, "/", flashInfo, "Logged out successfully.")
}
