package service

import (
	"context"
	"testing"

	"campusgram/internal/models"
	"campusgram/internal/testutil"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFeedService_GetFeed(t *testing.T) {
	app := newAppServices(t)
	ctx := context.Background()

	owner := testutil.CreateUser(t, app.db, "owner")
	viewer := testutil.CreateUser(t, app.db, "viewer")
	ownPost := testutil.CreatePost(t, app.db, owner.ID)
	viewerPost := testutil.CreatePost(t, app.db, viewer.ID)
	require.NoError(t, app.store.Save(ctx, ownPost.ImagePath, []byte("x"), "image/png"))

	require.NoError(t, app.interactions.AddComment(ctx, viewer.ID, ownPost.ID, "first"))
	require.NoError(t, app.interactions.AddComment(ctx, owner.ID, ownPost.ID, "second"))
	require.NoError(t, app.interactions.AddFeedback(ctx, viewer.ID, ownPost.ID, "for owner"))
	require.NoError(t, app.interactions.AddFeedback(ctx, owner.ID, viewerPost.ID, "for viewer"))

	feed, err := app.feed.GetFeed(ctx, owner.ID)
	require.NoError(t, err)
	require.Len(t, feed, 2)

	byID := map[uint]models.FeedPost{}
	for _, p := range feed {
		byID[p.ID] = p
	}

	mine := byID[ownPost.ID]
	require.Len(t, mine.Comments, 2)
	assert.Equal(t, "first", mine.Comments[0].Content)
	assert.Equal(t, "viewer", mine.Comments[0].Username)
	require.Len(t, mine.Feedback, 1)
	assert.Equal(t, "for owner", mine.Feedback[0].Content)
	assert.Equal(t, "viewer", mine.Feedback[0].Username)
	assert.False(t, mine.ImageMissing)

	theirs := byID[viewerPost.ID]
	assert.Empty(t, theirs.Comments)
	assert.NotNil(t, theirs.Comments)
	assert.Nil(t, theirs.Feedback, "feedback on other users' posts is hidden")
	assert.True(t, theirs.ImageMissing)
}

func TestFeedService_ExploreAndSaved(t *testing.T) {
	app := newAppServices(t)
	ctx := context.Background()

	u := testutil.CreateUser(t, app.db, "")
	p1 := testutil.CreatePost(t, app.db, u.ID)
	testutil.CreatePost(t, app.db, u.ID)

	explore, err := app.feed.GetExploreFeed(ctx)
	require.NoError(t, err)
	assert.Len(t, explore, 2)

	_, err = app.interactions.ToggleSave(ctx, u.ID, p1.ID)
	require.NoError(t, err)
	saved, err := app.feed.GetSaved(ctx, u.ID)
	require.NoError(t, err)
	require.Len(t, saved, 1)
	assert.Equal(t, p1.ID, saved[0].ID)
	assert.True(t, saved[0].ImageMissing)
}

func TestFeedService_GetProfile(t *testing.T) {
	app := newAppServices(t)
	ctx := context.Background()

	_, err := app.feed.GetProfile(ctx, "ghost")
	assertAppError(t, err, models.CodeNotFound, "User not found.")

	star := testutil.CreateUser(t, app.db, "star")
	fan := testutil.CreateUser(t, app.db, "fan")
	_, err = app.interactions.ToggleFollow(ctx, fan.ID, star.ID)
	require.NoError(t, err)

	profile, err := app.feed.GetProfile(ctx, "star")
	require.NoError(t, err)
	assert.Equal(t, int64(1), profile.FollowerCount)
	assert.Zero(t, profile.FollowingCount)
	assert.Equal(t, []string{"fan"}, profile.Followers)
	assert.Empty(t, profile.Following)
}

func TestFeedService_GetSelfProfile(t *testing.T) {
	app := newAppServices(t)
	ctx := context.Background()

	me := testutil.CreateUser(t, app.db, "me")
	older := testutil.CreatePost(t, app.db, me.ID)
	newer := testutil.CreatePost(t, app.db, me.ID)

	self, err := app.feed.GetSelfProfile(ctx, me.ID)
	require.NoError(t, err)
	assert.Equal(t, "me", self.Username)
	assert.Equal(t, me.Email, self.Email)
	require.Len(t, self.Posts, 2)
	assert.Equal(t, newer.ID, self.Posts[0].ID)
	assert.Equal(t, older.ID, self.Posts[1].ID)

	_, err = app.feed.GetSelfProfile(ctx, 9999)
	assertAppError(t, err, models.CodeNotFound, "")
}
