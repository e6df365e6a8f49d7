package service

import (
	"context"
	"errors"
	"testing"

	"campusgram/internal/models"
	"campusgram/internal/repository"
	"campusgram/internal/testutil"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

type appServices struct {
	db            *gorm.DB
	store         *memStore
	publisher     *recordingPublisher
	auth          *AuthService
	posts         *PostService
	interactions  *InteractionService
	feed          *FeedService
	notifications *NotificationService
}

func newAppServices(t *testing.T) *appServices {
	t.Helper()
	db := testutil.NewTestDB(t)
	store := newMemStore()
	pub := &recordingPublisher{}

	users := repository.NewUserRepository(db)
	posts := repository.NewPostRepository(db)

	auth := NewAuthService(users, nil, "@umassd.edu")
	auth.hashCost = 4

	return &appServices{
		db:           db,
		store:        store,
		publisher:    pub,
		auth:         auth,
		posts:        NewPostService(posts, store, 0),
		interactions: NewInteractionService(repository.NewInteractionRepository(db), pub),
		feed: NewFeedService(users, posts, repository.NewCommentRepository(db),
			repository.NewFollowRepository(db), store),
		notifications: NewNotificationService(repository.NewNotificationRepository(db)),
	}
}

func TestEndToEnd_FollowLikeUnfollow(t *testing.T) {
	app := newAppServices(t)
	ctx := context.Background()

	a, err := app.auth.Register(ctx, RegisterInput{"alice", "alice@umassd.edu", "password1"})
	require.NoError(t, err)
	post, err := app.posts.CreatePost(ctx, CreatePostInput{
		OwnerID: a.ID,
		Image:   &Upload{Filename: "cat.png", Data: testutil.TinyPNG(t, 3, 3)},
		Caption: "my cat",
	})
	require.NoError(t, err)

	b, err := app.auth.Register(ctx, RegisterInput{"bob", "bob@umassd.edu", "password2"})
	require.NoError(t, err)
	_, err = app.auth.Login(ctx, "bob", "password2")
	require.NoError(t, err)

	following, err := app.interactions.ToggleFollow(ctx, b.ID, a.ID)
	require.NoError(t, err)
	assert.True(t, following)

	liked, err := app.interactions.ToggleLike(ctx, b.ID, post.ID)
	require.NoError(t, err)
	assert.True(t, liked)

	countLikes := func() int {
		notes, err := app.notifications.ListNotifications(ctx, a.ID)
		require.NoError(t, err)
		n := 0
		for _, note := range notes {
			if note.Type == models.NotificationLike {
				assert.Equal(t, b.ID, note.SenderID)
				assert.Equal(t, "bob", note.SenderName)
				assert.Equal(t, "my cat", note.Caption)
				n++
			}
		}
		return n
	}
	assert.Equal(t, 1, countLikes())

	following, err = app.interactions.ToggleFollow(ctx, b.ID, a.ID)
	require.NoError(t, err)
	assert.False(t, following)
	assert.Equal(t, 1, countLikes())

	// follow, like, unfollow each published one event.
	assert.Equal(t, 3, app.publisher.count())
}

func TestInteractionService_OwnerLikeDoesNotNotify(t *testing.T) {
	app := newAppServices(t)
	ctx := context.Background()

	owner := testutil.CreateUser(t, app.db, "owner")
	post := testutil.CreatePost(t, app.db, owner.ID)

	liked, err := app.interactions.ToggleLike(ctx, owner.ID, post.ID)
	require.NoError(t, err)
	assert.True(t, liked)
	assert.Zero(t, app.publisher.count())

	notes, err := app.notifications.ListNotifications(ctx, owner.ID)
	require.NoError(t, err)
	assert.Empty(t, notes)
}

func TestInteractionService_SelfFollowNotifies(t *testing.T) {
	app := newAppServices(t)
	me := testutil.CreateUser(t, app.db, "me")

	_, err := app.interactions.ToggleFollow(context.Background(), me.ID, me.ID)
	require.NoError(t, err)

	notes, err := app.notifications.ListNotifications(context.Background(), me.ID)
	require.NoError(t, err)
	require.Len(t, notes, 1)
	assert.Equal(t, models.NotificationFollow, notes[0].Type)
}

func TestInteractionService_PublishFailureIsIgnored(t *testing.T) {
	app := newAppServices(t)
	app.publisher.err = errors.New("redis down")
	ctx := context.Background()

	owner := testutil.CreateUser(t, app.db, "owner")
	fan := testutil.CreateUser(t, app.db, "fan")
	post := testutil.CreatePost(t, app.db, owner.ID)

	require.NoError(t, app.interactions.AddComment(ctx, fan.ID, post.ID, "great"))
	assert.Equal(t, 1, app.publisher.count())
	assert.Equal(t, int64(1), testutil.CountRows(t, app.db, &models.Comment{}, ""))
}

func TestInteractionService_EmptyContentIsNoop(t *testing.T) {
	app := newAppServices(t)
	ctx := context.Background()

	owner := testutil.CreateUser(t, app.db, "owner")
	post := testutil.CreatePost(t, app.db, owner.ID)

	require.NoError(t, app.interactions.AddComment(ctx, owner.ID, post.ID, ""))
	require.NoError(t, app.interactions.AddFeedback(ctx, owner.ID, post.ID, ""))
	// Empty content is ignored before the post lookup.
	require.NoError(t, app.interactions.AddComment(ctx, owner.ID, 999, ""))

	assert.Zero(t, testutil.CountRows(t, app.db, &models.Comment{}, ""))
	assert.Zero(t, testutil.CountRows(t, app.db, &models.Feedback{}, ""))
}

func TestInteractionService_WhitespaceContentIsStored(t *testing.T) {
	app := newAppServices(t)
	ctx := context.Background()

	owner := testutil.CreateUser(t, app.db, "owner")
	fan := testutil.CreateUser(t, app.db, "fan")
	post := testutil.CreatePost(t, app.db, owner.ID)

	require.NoError(t, app.interactions.AddComment(ctx, fan.ID, post.ID, "   "))
	require.NoError(t, app.interactions.AddFeedback(ctx, fan.ID, post.ID, " "))

	assert.Equal(t, int64(1), testutil.CountRows(t, app.db, &models.Comment{}, "content = ?", "   "))
	assert.Equal(t, int64(1), testutil.CountRows(t, app.db, &models.Feedback{}, "content = ?", " "))
	assert.Equal(t, 1, app.publisher.count())
}

func TestInteractionService_MissingTargets(t *testing.T) {
	app := newAppServices(t)
	ctx := context.Background()
	me := testutil.CreateUser(t, app.db, "")

	_, err := app.interactions.ToggleLike(ctx, me.ID, 404)
	assertAppError(t, err, models.CodeNotFound, "")
	_, err = app.interactions.ToggleSave(ctx, me.ID, 404)
	assertAppError(t, err, models.CodeNotFound, "")
	_, err = app.interactions.ToggleFollow(ctx, me.ID, 404)
	assertAppError(t, err, models.CodeNotFound, "")
	err = app.interactions.AddComment(ctx, me.ID, 404, "hello")
	assertAppError(t, err, models.CodeNotFound, "")
}
