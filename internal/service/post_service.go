package service

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"

	"campusgram/internal/middleware"
	"campusgram/internal/models"
	"campusgram/internal/observability"
	"campusgram/internal/repository"
	"campusgram/internal/storage"
	"campusgram/internal/validation"

	"go.opentelemetry.io/otel/attribute"
)

const msgSelectImage = "Please select an image to upload."

type PostService struct {
	posts          repository.PostRepository
	store          storage.Store
	maxUploadBytes int64
}

// Upload is an image file received from the client.
type Upload struct {
	Filename string
	Data     []byte
}

type CreatePostInput struct {
	OwnerID uint
	Image   *Upload
	Caption string
}

func NewPostService(posts repository.PostRepository, store storage.Store, maxUploadBytes int64) *PostService {
	return &PostService{
		posts:          posts,
		store:          store,
		maxUploadBytes: maxUploadBytes,
	}
}

// CreatePost stores the image, then inserts the post row. A failed insert leaves the
// stored file behind.
func (s *PostService) CreatePost(ctx context.Context, in CreatePostInput) (post *models.Post, err error) {
	ctx, span := observability.StartServiceSpan(ctx, "PostService", "CreatePost",
		attribute.Int64("user.id", int64(in.OwnerID)))
	defer func() { observability.EndSpan(span, err) }()

	if in.Image == nil || in.Image.Filename == "" || len(in.Image.Data) == 0 {
		return nil, models.NewValidationError(msgSelectImage)
	}
	if err := validation.Struct(validation.UploadForm{Caption: in.Caption}); err != nil {
		return nil, models.NewValidationError(err.Error())
	}
	if !validation.AllowedImageExtension(in.Image.Filename) {
		return nil, models.NewValidationError("Only JPG and PNG images are allowed.")
	}
	if s.maxUploadBytes > 0 && int64(len(in.Image.Data)) > s.maxUploadBytes {
		return nil, models.NewValidationError(fmt.Sprintf("Image exceeds the %d MB upload limit.", s.maxUploadBytes>>20))
	}

	contentType := http.DetectContentType(in.Image.Data)
	if contentType != "image/jpeg" && contentType != "image/png" {
		return nil, models.NewValidationError("Uploaded file is not a valid JPG or PNG image.")
	}

	name := storage.UniqueName(in.Image.Filename)
	if err := s.store.Save(ctx, name, in.Image.Data, contentType); err != nil {
		return nil, models.NewInternalError(err)
	}

	post = &models.Post{
		UserID:    in.OwnerID,
		ImagePath: name,
		Caption:   in.Caption,
	}
	if err := s.posts.Create(ctx, post); err != nil {
		middleware.Logger.ErrorContext(ctx, "Post insert failed, image left orphaned",
			slog.String("image", name),
			slog.String("error", err.Error()),
		)
		return nil, err
	}

	observability.UploadBytes.Observe(float64(len(in.Image.Data)))
	return post, nil
}

// DeletePost removes an owned post with its likes, comments and saves, then the image.
func (s *PostService) DeletePost(ctx context.Context, ownerID, postID uint) (err error) {
	ctx, span := observability.StartServiceSpan(ctx, "PostService", "DeletePost",
		attribute.Int64("user.id", int64(ownerID)),
		attribute.Int64("post.id", int64(postID)),
	)
	defer func() { observability.EndSpan(span, err) }()

	post, err := s.posts.DeleteOwned(ctx, postID, ownerID)
	if err != nil {
		return err
	}

	if rmErr := s.store.Remove(ctx, post.ImagePath); rmErr != nil {
		middleware.Logger.WarnContext(ctx, "Image removal failed after post delete",
			slog.String("image", post.ImagePath),
			slog.String("error", rmErr.Error()),
		)
	}
	return nil
}
