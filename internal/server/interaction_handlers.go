package server

import "github.com/gofiber/fiber/v2"

// Like handles POST /like/:postId
func (s *Server) Like(c *fiber.Ctx) error {
	postID, err := s.parseID(c, "postId")
	if err != nil {
		return nil
	}
	if _, err := s.interactionService.ToggleLike(c.UserContext(), currentUserID(c), postID); err != nil {
		return s.failRedirect(c, "/feed", err)
	}
	return c.Redirect("/feed", fiber.StatusSeeOther)
}

// Save handles POST /save/:postId
func (s *Server) Save(c *fiber.Ctx) error {
	postID, err := s.parseID(c, "postId")
	if err != nil {
		return nil
	}
	if _, err := s.interactionService.ToggleSave(c.UserContext(), currentUserID(c), postID); err != nil {
		return s.failRedirect(c, "/feed", err)
	}
	return c.Redirect("/feed", fiber.StatusSeeOther)
}

// Follow handles POST /follow/:userId
func (s *Server) Follow(c *fiber.Ctx) error {
	targetID, err := s.parseID(c, "userId")
	if err != nil {
		return nil
	}
	if _, err := s.interactionService.ToggleFollow(c.UserContext(), currentUserID(c), targetID); err != nil {
		return s.failRedirect(c, "/feed", err)
	}
	return c.Redirect("/feed", fiber.StatusSeeOther)
}

// Comment handles POST /comment/:postId with form field comment.
func (s *Server) Comment(c *fiber.Ctx) error {
	postID, err := s.parseID(c, "postId")
	if err != nil {
		return nil
	}
	if err := s.interactionService.AddComment(c.UserContext(), currentUserID(c), postID, c.FormValue("comment")); err != nil {
		return s.failRedirect(c, "/feed", err)
	}
	return c.Redirect("/feed", fiber.StatusSeeOther)
}

// Feedback handles POST /feedback/:postId with form field feedback.
// The confirmation is only flashed when something was sent.
func (s *Server) Feedback(c *fiber.Ctx) error {
	postID, err := s.parseID(c, "postId")
	if err != nil {
		return nil
	}
	content := c.FormValue("feedback")
	if err := s.interactionService.AddFeedback(c.UserContext(), currentUserID(c), postID, content); err != nil {
		return s.failRedirect(c, "/feed", err)
	}
	if content == "" {
		return c.Redirect("/feed", fiber.StatusSeeOther)
	}
	return s.redirectWithFlash(c, "/feed", flashSuccess, "Anonymous feedback sent!")
}
