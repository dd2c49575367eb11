package service

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/spec-kit/blog-service/internal/events"
	"github.com/spec-kit/blog-service/internal/repository/repotest"
	apperrors "github.com/spec-kit/blog-service/pkg/util/errorutil"
)

func TestUpdateProfile(t *testing.T) {
	h := newHarness(t)
	ctx := context.Background()
	alice, aliceID := h.register(t)
	bob, bobID := h.register(t)

	_, err := h.users.UpdateProfile(ctx, bobID, alice.ID, UserProfileInput{City: "Porto"})
	requireCode(t, err, apperrors.CodeForbidden)

	_, err = h.users.UpdateProfile(ctx, aliceID, alice.ID, UserProfileInput{Email: bob.Email})
	requireCode(t, err, apperrors.CodeConflict)

	updated, err := h.users.UpdateProfile(ctx, aliceID, alice.ID, UserProfileInput{
		City:  " Porto ",
		Bio:   "Writes about distributed systems",
		Email: "Alice.New@Example.com",
	})
	require.NoError(t, err)
	assert.Equal(t, "Porto", updated.City)
	assert.Equal(t, "alice.new@example.com", updated.Email)
	assert.Equal(t, alice.Name, updated.Name)

	_, err = h.auth.Login(ctx, "alice.new@example.com", "secret-pass")
	require.NoError(t, err)
}

func TestGetUser(t *testing.T) {
	h := newHarness(t)
	ctx := context.Background()
	alice, _ := h.register(t)

	got, err := h.users.GetUser(ctx, alice.ID)
	require.NoError(t, err)
	assert.Equal(t, alice.Email, got.Email)

	_, err = h.users.GetUser(ctx, "x")
	requireCode(t, err, apperrors.CodeNotFound)

	list, err := h.users.ListUsers(ctx, 0, 0)
	require.NoError(t, err)
	assert.Len(t, list, 1)
}

func TestDeleteAccountRemovesPostsAndLikes(t *testing.T) {
	h := newHarness(t)
	ctx := context.Background()
	alice, aliceID := h.register(t)
	_, bobID := h.register(t)
	post := h.createPost(t, aliceID)
	kept := h.createPost(t, bobID)
	_, err := h.engagement.ToggleLike(ctx, bobID, post.ID)
	require.NoError(t, err)

	requireCode(t, h.users.DeleteAccount(ctx, bobID, alice.ID), apperrors.CodeForbidden)

	require.NoError(t, h.users.DeleteAccount(ctx, aliceID, alice.ID))
	assert.False(t, h.redis.Exists(repotest.LikeKey(post.ID)))
	assert.Equal(t, 1, h.store.PostCount())

	assert.Contains(t, h.eventTypes(), events.EventPostDeleted)

	_, err = h.posts.GetPost(ctx, kept.ID)
	require.NoError(t, err)
	_, err = h.users.GetUser(ctx, alice.ID)
	requireCode(t, err, apperrors.CodeNotFound)
}

func TestDeleteAccountFailureKeepsPosts(t *testing.T) {
	h := newHarness(t)
	ctx := context.Background()
	alice, aliceID := h.register(t)
	_, bobID := h.register(t)
	post := h.createPost(t, aliceID)
	_, err := h.engagement.ToggleLike(ctx, bobID, post.ID)
	require.NoError(t, err)

	h.users.users = stubUserRepo{
		UserRepository: h.store.Users(),
		deleteFn:       func(context.Context, string) error { return errStoreDown },
	}
	err = h.users.DeleteAccount(ctx, aliceID, alice.ID)
	requireCode(t, err, apperrors.CodePersistenceFailure)

	fetched, err := h.posts.GetPost(ctx, post.ID)
	require.NoError(t, err)
	assert.Equal(t, []string{bobID.SubjectID}, fetched.Likes)
	assert.NotContains(t, h.eventTypes(), events.EventPostDeleted)

	_, err = h.engagement.ToggleLike(ctx, aliceID, post.ID)
	require.NoError(t, err)
}
