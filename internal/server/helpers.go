package server

import (
	"errors"
	"log/slog"

	"campusgram/internal/middleware"
	"campusgram/internal/models"

	"github.com/gofiber/fiber/v2"
)

const msgSomethingWrong = "Something went wrong. Please try again."

// errResponseWritten signals that a helper already committed the response.
var errResponseWritten = errors.New("response already written")

// parseID reads a positive integer route parameter. On failure it redirects
// to the feed and returns errResponseWritten; callers return nil.
func (s *Server) parseID(c *fiber.Ctx, param string) (uint, error) {
	id, err := c.ParamsInt(param)
	if err != nil || id <= 0 {
		_ = s.redirectWithFlash(c, "/feed", flashDanger, "Invalid "+humanizeParam(param)+".")
		return 0, errResponseWritten
	}
	return uint(id), nil
}

func humanizeParam(param string) string {
	switch param {
	case "postId":
		return "post ID"
	case "userId":
		return "user ID"
	}
	return param
}

// currentUserID is set by AuthRequired.
func currentUserID(c *fiber.Ctx) uint {
	id, _ := c.Locals("userID").(uint)
	return id
}

// failRedirect flashes err and redirects. Internal errors are logged and shown
// with a generic message.
func (s *Server) failRedirect(c *fiber.Ctx, location string, err error) error {
	var appErr *models.AppError
	if errors.As(err, &appErr) && appErr.Code != models.CodeInternal {
		return s.redirectWithFlash(c, location, flashDanger, appErr.Message)
	}
	middleware.Logger.ErrorContext(c.UserContext(), "Request failed",
		slog.String("path", c.Path()),
		slog.String("error", err.Error()),
	)
	return s.redirectWithFlash(c, location, flashDanger, msgSomethingWrong)
}
