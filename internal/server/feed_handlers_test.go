package server

import (
	"fmt"
	"testing"

	"campusgram/internal/models"
	"campusgram/internal/testutil"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestProfile(t *testing.T) {
	env := newTestServer(t)
	star := env.client(t)
	star.signIn("star", "secret12")
	fan := env.client(t)
	fan.signIn("fan", "secret12")

	var me struct {
		Profile models.SelfProfile `json:"profile"`
	}
	decodeJSON(t, star.get("/me"), &me)
	assert.Equal(t, "star@umassd.edu", me.Profile.Email)

	fan.postForm(fmt.Sprintf("/follow/%d", me.Profile.ID), nil)

	var view struct {
		View    string         `json:"view"`
		Profile models.Profile `json:"profile"`
	}
	decodeJSON(t, fan.get("/profile/star"), &view)
	assert.Equal(t, "profile", view.View)
	assert.Equal(t, int64(1), view.Profile.FollowerCount)
	assert.Equal(t, []string{"fan"}, view.Profile.Followers)

	assertRedirect(t, fan.get("/profile/ghost"), "/feed", flashDanger, "User not found.")
}

func TestExploreAndSelfProfile(t *testing.T) {
	env := newTestServer(t)
	cl := env.client(t)
	cl.signIn("poster", "secret12")
	for i := 0; i < 3; i++ {
		require.Equal(t, 303, cl.upload(fmt.Sprintf("p%d.png", i), testutil.TinyPNG(t, 1, 1), fmt.Sprintf("post %d", i)).StatusCode)
	}

	var explore struct {
		View  string               `json:"view"`
		Posts []models.PostSummary `json:"posts"`
	}
	decodeJSON(t, cl.get("/explore"), &explore)
	assert.Equal(t, "explore", explore.View)
	assert.Len(t, explore.Posts, 3)

	var me struct {
		Profile models.SelfProfile `json:"profile"`
	}
	decodeJSON(t, cl.get("/me"), &me)
	require.Len(t, me.Profile.Posts, 3)
	assert.Equal(t, "post 2", me.Profile.Posts[0].Caption)
	for _, p := range me.Profile.Posts {
		assert.False(t, p.ImageMissing)
	}
}
