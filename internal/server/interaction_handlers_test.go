package server

import (
	"fmt"
	"net/url"
	"testing"

	"campusgram/internal/models"
	"campusgram/internal/testutil"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type notificationsView struct {
	Notifications []models.NotificationView `json:"notifications"`
}

// TestFollowLikeUnfollowFlow runs the register, upload, follow, like and unfollow
// sequence through HTTP.
func TestFollowLikeUnfollowFlow(t *testing.T) {
	env := newTestServer(t)
	alice := env.client(t)
	alice.signIn("alice", "secret12")
	require.Equal(t, 303, alice.upload("sun.png", testutil.TinyPNG(t, 2, 2), "sunset").StatusCode)

	var feed feedView
	decodeJSON(t, alice.get("/feed"), &feed)
	require.Len(t, feed.Posts, 1)
	post := feed.Posts[0]

	bob := env.client(t)
	bob.signIn("bob", "secret12")

	assertRedirect(t, bob.postForm(fmt.Sprintf("/follow/%d", post.UserID), nil), "/feed", "", "")
	assertRedirect(t, bob.postForm(fmt.Sprintf("/like/%d", post.ID), nil), "/feed", "", "")

	likesFromBob := func() int {
		var notes notificationsView
		decodeJSON(t, alice.get("/notifications"), &notes)
		n := 0
		for _, note := range notes.Notifications {
			if note.Type == models.NotificationLike && note.SenderName == "bob" {
				assert.Equal(t, "sunset", note.Caption)
				n++
			}
		}
		return n
	}
	assert.Equal(t, 1, likesFromBob())

	decodeJSON(t, bob.get("/feed"), &feed)
	require.Len(t, feed.Posts, 1)
	assert.True(t, feed.Posts[0].UserLiked)
	assert.True(t, feed.Posts[0].IsFollowing)
	assert.Equal(t, int64(1), feed.Posts[0].LikeCount)

	assertRedirect(t, bob.postForm(fmt.Sprintf("/follow/%d", post.UserID), nil), "/feed", "", "")
	assert.Equal(t, 1, likesFromBob())

	decodeJSON(t, bob.get("/feed"), &feed)
	assert.False(t, feed.Posts[0].IsFollowing)
}

func TestCommentSaveAndFeedback(t *testing.T) {
	env := newTestServer(t)
	owner := env.client(t)
	owner.signIn("owner", "secret12")
	require.Equal(t, 303, owner.upload("a.png", testutil.TinyPNG(t, 2, 2), "caption").StatusCode)

	var feed feedView
	decodeJSON(t, owner.get("/feed"), &feed)
	postID := feed.Posts[0].ID

	fan := env.client(t)
	fan.signIn("fan", "secret12")

	assertRedirect(t, fan.postForm(fmt.Sprintf("/comment/%d", postID), url.Values{"comment": {"nice shot"}}), "/feed", "", "")
	assertRedirect(t, fan.postForm(fmt.Sprintf("/comment/%d", postID), url.Values{"comment": {""}}), "/feed", "", "")
	assertRedirect(t, fan.postForm(fmt.Sprintf("/save/%d", postID), nil), "/feed", "", "")
	assertRedirect(t, fan.postForm(fmt.Sprintf("/feedback/%d", postID), url.Values{"feedback": {"crop it"}}),
		"/feed", flashSuccess, "Anonymous feedback sent!")
	assertRedirect(t, fan.postForm(fmt.Sprintf("/feedback/%d", postID), url.Values{"feedback": {""}}), "/feed", "", "")

	assertRedirect(t, fan.postForm("/like/999", nil), "/feed", flashDanger, "Post with ID 999 not found")
	assertRedirect(t, fan.postForm("/like/abc", nil), "/feed", flashDanger, "Invalid post ID.")
	assertRedirect(t, fan.postForm("/follow/0", nil), "/feed", flashDanger, "Invalid user ID.")

	var fanFeed feedView
	decodeJSON(t, fan.get("/feed"), &fanFeed)
	require.Len(t, fanFeed.Posts, 1)
	assert.True(t, fanFeed.Posts[0].IsSaved)
	require.Len(t, fanFeed.Posts[0].Comments, 1)
	assert.Equal(t, "nice shot", fanFeed.Posts[0].Comments[0].Content)
	assert.Empty(t, fanFeed.Posts[0].Feedback, "feedback is private to the owner")

	decodeJSON(t, owner.get("/feed"), &feed)
	require.Len(t, feed.Posts[0].Feedback, 1)
	assert.Equal(t, "crop it", feed.Posts[0].Feedback[0].Content)
	assert.Equal(t, int64(1), feed.Posts[0].CommentCount)

	var saved struct {
		Posts []models.PostSummary `json:"posts"`
	}
	decodeJSON(t, fan.get("/saved"), &saved)
	require.Len(t, saved.Posts, 1)
	assert.Equal(t, postID, saved.Posts[0].ID)

	var notes notificationsView
	decodeJSON(t, owner.get("/notifications"), &notes)
	require.Len(t, notes.Notifications, 1)
	assert.Equal(t, models.NotificationComment, notes.Notifications[0].Type)
}
