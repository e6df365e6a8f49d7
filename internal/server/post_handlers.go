package server

import (
	"errors"
	"io"
	"path/filepath"
	"strings"

	"campusgram/internal/service"
	"campusgram/internal/storage"

	"github.com/gofiber/fiber/v2"
)

// UploadForm handles GET /upload
func (s *Server) UploadForm(c *fiber.Ctx) error {
	return render(c, "upload", fiber.Map{
		"max_size_mb": s.config.UploadMaxSizeMB,
	})
}

// Upload handles POST /upload with a multipart image and caption.
func (s *Server) Upload(c *fiber.Ctx) error {
	image, err := readUpload(c, "image", int64(s.config.UploadMaxSizeMB)<<20)
	if err != nil {
		return s.failRedirect(c, "/upload", err)
	}

	_, err = s.postService.CreatePost(c.UserContext(), service.CreatePostInput{
		OwnerID: currentUserID(c),
		Image:   image,
		Caption: c.FormValue("caption"),
	})
	if err != nil {
		return s.failRedirect(c, "/upload", err)
	}
	return s.redirectWithFlash(c, "/feed", flashSuccess, "Post uploaded!")
}

// readUpload returns nil when the field is absent. At most limit+1 bytes are read
// so the service can reject oversized files.
func readUpload(c *fiber.Ctx, field string, limit int64) (*service.Upload, error) {
	header, err := c.FormFile(field)
	if err != nil {
		return nil, nil
	}
	f, err := header.Open()
	if err != nil {
		return nil, err
	}
	defer f.Close()

	reader := io.Reader(f)
	if limit > 0 {
		reader = io.LimitReader(f, limit+1)
	}
	data, err := io.ReadAll(reader)
	if err != nil {
		return nil, err
	}
	return &service.Upload{Filename: header.Filename, Data: data}, nil
}

// DeletePost handles POST /delete/:postId
func (s *Server) DeletePost(c *fiber.Ctx) error {
	postID, err := s.parseID(c, "postId")
	if err != nil {
		return nil
	}
	if err := s.postService.DeletePost(c.UserContext(), currentUserID(c), postID); err != nil {
		return s.failRedirect(c, "/feed", err)
	}
	return s.redirectWithFlash(c, "/feed", flashSuccess, "Post and all related data deleted successfully.")
}

// ServeUpload handles GET /uploads/:filename
func (s *Server) ServeUpload(c *fiber.Ctx) error {
	name := c.Params("filename")
	rc, err := s.store.Open(c.UserContext(), name)
	if err != nil {
		if errors.Is(err, storage.ErrNotExist) {
			return fiber.ErrNotFound
		}
		return err
	}
	defer rc.Close()

	data, err := io.ReadAll(rc)
	if err != nil {
		return err
	}
	c.Type(strings.ToLower(filepath.Ext(name)))
	c.Set(fiber.HeaderCacheControl, "private, max-age=86400")
	return c.Send(data)
}
