package server

import (
	"context"
	"fmt"
	"io"
	"net/url"
	"testing"

	"campusgram/internal/models"
	"campusgram/internal/repository"
	"campusgram/internal/testutil"

	"github.com/gofiber/fiber/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type feedView struct {
	View  string            `json:"view"`
	Flash *Flash            `json:"flash"`
	Posts []models.FeedPost `json:"posts"`
}

func TestUpload(t *testing.T) {
	env := newTestServer(t)
	cl := env.client(t)
	cl.signIn("alice", "secret12")

	png := testutil.TinyPNG(t, 4, 4)

	assertRedirect(t, cl.upload("", nil, "no image"), "/upload", flashDanger, "Please select an image to upload.")
	assertRedirect(t, cl.upload("cat.gif", png, "gif"), "/upload", flashDanger, "Only JPG and PNG images are allowed.")
	assertRedirect(t, cl.upload("cat.png", []byte("not an image at all"), "fake"), "/upload", flashDanger,
		"Uploaded file is not a valid JPG or PNG image.")
	assertRedirect(t, cl.upload("cat.png", png, "   "), "/upload", flashDanger, "Caption is required.")
	big := append(append([]byte{}, png...), make([]byte, 1<<20)...)
	assertRedirect(t, cl.upload("big.png", big, "too big"), "/upload", flashDanger, "Image exceeds the 1 MB upload limit.")

	assertRedirect(t, cl.upload("cat.png", png, "my cat"), "/feed", flashSuccess, "Post uploaded!")

	var feed feedView
	decodeJSON(t, cl.get("/feed"), &feed)
	require.Len(t, feed.Posts, 1)
	post := feed.Posts[0]
	assert.Equal(t, "my cat", post.Caption)
	assert.Equal(t, "alice", post.Username)
	assert.False(t, post.ImageMissing)
	assert.NotNil(t, feed.Flash, "upload confirmation is shown by the feed")

	resp := cl.get("/uploads/" + post.ImagePath)
	require.Equal(t, fiber.StatusOK, resp.StatusCode)
	assert.Equal(t, "image/png", resp.Header.Get(fiber.HeaderContentType))
	body, err := io.ReadAll(resp.Body)
	require.NoError(t, err)
	assert.Equal(t, png, body)

	resp = cl.get("/uploads/missing.png")
	assert.Equal(t, fiber.StatusNotFound, resp.StatusCode)
}

func TestUploadForm(t *testing.T) {
	env := newTestServer(t)
	cl := env.client(t)
	cl.signIn("uploader", "secret12")

	var view struct {
		View      string `json:"view"`
		MaxSizeMB int    `json:"max_size_mb"`
	}
	decodeJSON(t, cl.get("/upload"), &view)
	assert.Equal(t, "upload", view.View)
	assert.Equal(t, 1, view.MaxSizeMB)
}

func TestDeletePost(t *testing.T) {
	env := newTestServer(t)
	owner := env.client(t)
	owner.signIn("owner", "secret12")
	other := env.client(t)
	other.signIn("other", "secret12")

	require.Equal(t, fiber.StatusSeeOther, owner.upload("pic.jpg", testutil.TinyJPEG(t, 2, 2), "mine").StatusCode)
	var feed feedView
	decodeJSON(t, owner.get("/feed"), &feed)
	require.Len(t, feed.Posts, 1)
	post := feed.Posts[0]
	path := fmt.Sprintf("/delete/%d", post.ID)

	other.postForm(fmt.Sprintf("/like/%d", post.ID), nil)

	assertRedirect(t, other.postForm(path, nil), "/feed", flashDanger, repository.MsgPostNotOwned)
	assertRedirect(t, owner.postForm("/delete/abc", nil), "/feed", flashDanger, "Invalid post ID.")

	assertRedirect(t, owner.postForm(path, nil), "/feed", flashSuccess, "Post and all related data deleted successfully.")
	ok, err := env.store.Exists(context.Background(), post.ImagePath)
	require.NoError(t, err)
	assert.False(t, ok)
	assert.Equal(t, fiber.StatusNotFound, owner.get("/uploads/"+post.ImagePath).StatusCode)

	decodeJSON(t, owner.get("/feed"), &feed)
	assert.Empty(t, feed.Posts)

	// The like notification outlives the post.
	var notes struct {
		Notifications []models.NotificationView `json:"notifications"`
	}
	decodeJSON(t, owner.get("/notifications"), &notes)
	require.Len(t, notes.Notifications, 1)
	assert.Equal(t, "", notes.Notifications[0].Caption)

	assertRedirect(t, owner.postForm(path, url.Values{}), "/feed", flashDanger, repository.MsgPostNotOwned)
}
