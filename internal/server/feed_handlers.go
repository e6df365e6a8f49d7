package server

import (
	"github.com/gofiber/fiber/v2"
)

// Feed handles GET /feed
func (s *Server) Feed(c *fiber.Ctx) error {
	posts, err := s.feedService.GetFeed(c.UserContext(), currentUserID(c))
	if err != nil {
		return s.failRedirect(c, "/", err)
	}
	return render(c, "feed", fiber.Map{"posts": posts})
}

// Explore handles GET /explore
func (s *Server) Explore(c *fiber.Ctx) error {
	posts, err := s.feedService.GetExploreFeed(c.UserContext())
	if err != nil {
		return s.failRedirect(c, "/feed", err)
	}
	return render(c, "explore", fiber.Map{"posts": posts})
}

// Saved handles GET /saved
func (s *Server) Saved(c *fiber.Ctx) error {
	posts, err := s.feedService.GetSaved(c.UserContext(), currentUserID(c))
	if err != nil {
		return s.failRedirect(c, "/feed", err)
	}
	return render(c, "saved", fiber.Map{"posts": posts})
}

// Profile handles GET /profile/:username
func (s *Server) Profile(c *fiber.Ctx) error {
	profile, err := s.feedService.GetProfile(c.UserContext(), c.Params("username"))
	if err != nil {
		return s.failRedirect(c, "/feed", err)
	}
	return render(c, "profile", fiber.Map{"profile": profile})
}

// SelfProfile handles GET /me
func (s *Server) SelfProfile(c *fiber.Ctx) error {
	profile, err := s.feedService.GetSelfProfile(c.UserContext(), currentUserID(c))
	if err != nil {
		return s.failRedirect(c, "/feed", err)
	}
	return render(c, "self_profile", fiber.Map{"profile": profile})
}

// Notifications handles GET /notifications
func (s *Server) Notifications(c *fiber.Ctx) error {
	notes, err := s.notificationService.ListNotifications(c.UserContext(), currentUserID(c))
	if err != nil {
		return s.failRedirect(c, "/feed", err)
	}
	return render(c, "notifications", fiber.Map{"notifications": notes})
}
