package repository

import (
	"context"
	"testing"

	"campusgram/internal/models"
	"campusgram/internal/testutil"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestToggleLike_Parity(t *testing.T) {
	db := testutil.NewTestDB(t)
	repo := NewInteractionRepository(db)
	ctx := context.Background()

	owner := testutil.CreateUser(t, db, "owner")
	liker := testutil.CreateUser(t, db, "liker")
	post := testutil.CreatePost(t, db, owner.ID)

	for n := 1; n <= 5; n++ {
		liked, _, err := repo.ToggleLike(ctx, liker.ID, post.ID)
		require.NoError(t, err)
		assert.Equal(t, n%2 == 1, liked, "after %d toggles", n)

		rows := testutil.CountRows(t, db, &models.Like{}, "user_id = ? AND post_id = ?", liker.ID, post.ID)
		assert.Equal(t, int64(n%2), rows)
	}

	// Notifications are written only on the three like transitions.
	assert.Equal(t, int64(3), testutil.CountRows(t, db, &models.Notification{}, "type = ?", models.NotificationLike))
}

func TestToggleLike_OwnerGetsNoNotification(t *testing.T) {
	db := testutil.NewTestDB(t)
	repo := NewInteractionRepository(db)

	owner := testutil.CreateUser(t, db, "selfie")
	post := testutil.CreatePost(t, db, owner.ID)

	liked, note, err := repo.ToggleLike(context.Background(), owner.ID, post.ID)
	require.NoError(t, err)
	assert.True(t, liked)
	assert.Nil(t, note)
	assert.Zero(t, testutil.CountRows(t, db, &models.Notification{}, ""))
}

func TestToggleLike_NotifiesOwner(t *testing.T) {
	db := testutil.NewTestDB(t)
	repo := NewInteractionRepository(db)

	owner := testutil.CreateUser(t, db, "owner")
	liker := testutil.CreateUser(t, db, "liker")
	post := testutil.CreatePost(t, db, owner.ID)

	_, note, err := repo.ToggleLike(context.Background(), liker.ID, post.ID)
	require.NoError(t, err)
	require.NotNil(t, note)
	assert.Equal(t, owner.ID, note.RecipientID)
	assert.Equal(t, liker.ID, note.SenderID)
	require.NotNil(t, note.PostID)
	assert.Equal(t, post.ID, *note.PostID)
	assert.Equal(t, models.NotificationLike, note.Type)
}

func TestToggleLike_MissingPost(t *testing.T) {
	db := testutil.NewTestDB(t)
	repo := NewInteractionRepository(db)
	user := testutil.CreateUser(t, db, "")

	_, _, err := repo.ToggleLike(context.Background(), user.ID, 404)
	require.Error(t, err)
	assert.Equal(t, models.CodeNotFound, models.ErrorCode(err))
	assert.Zero(t, testutil.CountRows(t, db, &models.Like{}, ""))
}

func TestToggleSave(t *testing.T) {
	db := testutil.NewTestDB(t)
	repo := NewInteractionRepository(db)
	ctx := context.Background()

	user := testutil.CreateUser(t, db, "")
	post := testutil.CreatePost(t, db, user.ID)

	saved, err := repo.ToggleSave(ctx, user.ID, post.ID)
	require.NoError(t, err)
	assert.True(t, saved)

	saved, err = repo.ToggleSave(ctx, user.ID, post.ID)
	require.NoError(t, err)
	assert.False(t, saved)

	assert.Zero(t, testutil.CountRows(t, db, &models.SavedPost{}, ""))
	assert.Zero(t, testutil.CountRows(t, db, &models.Notification{}, ""))
}

func TestToggleFollow_NotifiesOnBothPaths(t *testing.T) {
	db := testutil.NewTestDB(t)
	repo := NewInteractionRepository(db)
	ctx := context.Background()

	a := testutil.CreateUser(t, db, "a")
	b := testutil.CreateUser(t, db, "b")

	following, note, err := repo.ToggleFollow(ctx, b.ID, a.ID)
	require.NoError(t, err)
	assert.True(t, following)
	require.NotNil(t, note)
	assert.Nil(t, note.PostID)

	following, note, err = repo.ToggleFollow(ctx, b.ID, a.ID)
	require.NoError(t, err)
	assert.False(t, following)
	require.NotNil(t, note)

	assert.Equal(t, int64(2), testutil.CountRows(t, db, &models.Notification{},
		"recipient_id = ? AND type = ?", a.ID, models.NotificationFollow))
	assert.Zero(t, testutil.CountRows(t, db, &models.Follow{}, ""))
}

func TestToggleFollow_SelfFollowAllowed(t *testing.T) {
	db := testutil.NewTestDB(t)
	repo := NewInteractionRepository(db)

	me := testutil.CreateUser(t, db, "narcissus")

	following, note, err := repo.ToggleFollow(context.Background(), me.ID, me.ID)
	require.NoError(t, err)
	assert.True(t, following)
	require.NotNil(t, note)
	assert.Equal(t, me.ID, note.RecipientID)
}

func TestToggleFollow_MissingTarget(t *testing.T) {
	db := testutil.NewTestDB(t)
	repo := NewInteractionRepository(db)
	me := testutil.CreateUser(t, db, "")

	_, _, err := repo.ToggleFollow(context.Background(), me.ID, 9999)
	require.Error(t, err)
	assert.Equal(t, models.CodeNotFound, models.ErrorCode(err))
	assert.Zero(t, testutil.CountRows(t, db, &models.Notification{}, ""))
}

func TestAddComment(t *testing.T) {
	db := testutil.NewTestDB(t)
	repo := NewInteractionRepository(db)
	ctx := context.Background()

	owner := testutil.CreateUser(t, db, "owner")
	other := testutil.CreateUser(t, db, "other")
	post := testutil.CreatePost(t, db, owner.ID)

	note, err := repo.AddComment(ctx, &models.Comment{UserID: other.ID, PostID: post.ID, Content: "nice"})
	require.NoError(t, err)
	require.NotNil(t, note)
	assert.Equal(t, models.NotificationComment, note.Type)

	note, err = repo.AddComment(ctx, &models.Comment{UserID: owner.ID, PostID: post.ID, Content: "thanks"})
	require.NoError(t, err)
	assert.Nil(t, note)

	assert.Equal(t, int64(2), testutil.CountRows(t, db, &models.Comment{}, "post_id = ?", post.ID))
	assert.Equal(t, int64(1), testutil.CountRows(t, db, &models.Notification{}, ""))
}

func TestAddFeedback(t *testing.T) {
	db := testutil.NewTestDB(t)
	repo := NewInteractionRepository(db)

	owner := testutil.CreateUser(t, db, "")
	post := testutil.CreatePost(t, db, owner.ID)

	err := repo.AddFeedback(context.Background(), &models.Feedback{PostID: post.ID, SenderID: owner.ID, Content: "crop it"})
	require.NoError(t, err)
	assert.Equal(t, int64(1), testutil.CountRows(t, db, &models.Feedback{}, ""))
	assert.Zero(t, testutil.CountRows(t, db, &models.Notification{}, ""))
}
