package service

import (
	"context"
	"strings"
	"testing"

	"lenspost/internal/common"
	"lenspost/internal/common/security"
	"lenspost/internal/domain/model"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type userFixture struct {
	svc      *UserService
	postSvc  *PostService
	users    *memUserRepo
	posts    *memPostRepo
	comments *memCommentRepo
	likes    *memLikeRepo
	media    *memMediaStore
}

func newUserFixture(t *testing.T) *userFixture {
	t.Helper()
	users := newMemUserRepo()
	posts := newMemPostRepo()
	comments := newMemCommentRepo()
	likes := newMemLikeRepo()
	media := newMemMediaStore()
	postSvc := NewPostService(posts, comments, likes, media)
	f := &userFixture{
		svc:      NewUserService(users, posts, comments, media, postSvc),
		postSvc:  postSvc,
		users:    users,
		posts:    posts,
		comments: comments,
		likes:    likes,
		media:    media,
	}
	for _, user := range []*model.User{
		{ID: "alice", Username: "alice", Email: "a@x.com", Role: model.RoleMember},
		{ID: "bob", Username: "bob", Email: "b@x.com", Role: model.RoleMember},
		{ID: "root", Username: "root", Email: "r@x.com", Role: model.RoleAdmin},
	} {
		require.NoError(t, users.Create(context.Background(), user))
	}
	return f
}

func TestListUsersIsAdminOnly(t *testing.T) {
	f := newUserFixture(t)
	ctx := context.Background()

	_, err := f.svc.List(ctx, aliceActor)
	assert.ErrorIs(t, err, common.ErrForbidden)

	users, err := f.svc.List(ctx, adminActor)
	require.NoError(t, err)
	assert.Len(t, users, 3)
}

func TestUpdateUserSelfOrAdmin(t *testing.T) {
	f := newUserFixture(t)
	ctx := context.Background()

	bio := "hello there"
	_, err := f.svc.Update(ctx, bobActor, "alice", UpdateUserRequest{Bio: &bio})
	assert.ErrorIs(t, err, common.ErrForbidden)

	updated, err := f.svc.Update(ctx, aliceActor, "alice", UpdateUserRequest{Bio: &bio})
	require.NoError(t, err)
	assert.Equal(t, "hello there", updated.Bio)

	name := "alice2"
	updated, err = f.svc.Update(ctx, adminActor, "alice", UpdateUserRequest{Username: &name})
	require.NoError(t, err)
	assert.Equal(t, "alice2", updated.Username)
}

func TestUpdateUserRehashesPassword(t *testing.T) {
	f := newUserFixture(t)
	ctx := context.Background()

	password := "batterystaple"
	_, err := f.svc.Update(ctx, aliceActor, "alice", UpdateUserRequest{Password: &password})
	require.NoError(t, err)

	stored, err := f.users.FindByID(ctx, "alice")
	require.NoError(t, err)
	assert.NotEqual(t, password, stored.HashedPassword)
	assert.True(t, security.CheckPasswordHash(password, stored.HashedPassword))
}

func TestUploadPhotoReplacesOldBinary(t *testing.T) {
	f := newUserFixture(t)
	ctx := context.Background()

	first, err := f.svc.UploadPhoto(ctx, aliceActor, strings.NewReader("one"), "me.png")
	require.NoError(t, err)
	require.True(t, f.media.Has(first.ProfilePhoto))

	second, err := f.svc.UploadPhoto(ctx, aliceActor, strings.NewReader("two"), "me2.png")
	require.NoError(t, err)
	assert.NotEqual(t, first.ProfilePhoto, second.ProfilePhoto)
	assert.True(t, f.media.Has(second.ProfilePhoto))
	assert.False(t, f.media.Has(first.ProfilePhoto), "replaced binary must not leak")
}

func TestDeleteUserAuthorization(t *testing.T) {
	f := newUserFixture(t)
	ctx := context.Background()

	err := f.svc.Delete(ctx, bobActor, "alice")
	assert.ErrorIs(t, err, common.ErrForbidden)
	_, err = f.users.FindByID(ctx, "alice")
	assert.NoError(t, err)

	assert.ErrorIs(t, f.svc.Delete(ctx, adminActor, "ghost"), common.ErrNotFound)
}

func TestDeleteUserCascades(t *testing.T) {
	f := newUserFixture(t)
	ctx := context.Background()

	// Alice owns a post with a comment from bob, commented on bob's
	// post, and has a profile photo.
	alicePost, err := f.postSvc.Create(ctx, aliceActor, CreatePostRequest{
		Title: "Mine", Description: "d", Category: "c",
		Image: strings.NewReader("img"), ImageName: "mine.png",
	})
	require.NoError(t, err)
	bobPost, err := f.postSvc.Create(ctx, bobActor, CreatePostRequest{
		Title: "Bobs", Description: "d", Category: "c",
		Image: strings.NewReader("img"), ImageName: "bobs.png",
	})
	require.NoError(t, err)

	require.NoError(t, f.comments.Create(ctx, &model.Comment{ID: "c1", PostID: alicePost.ID, OwnerID: "bob", Text: "on alice's post"}))
	require.NoError(t, f.comments.Create(ctx, &model.Comment{ID: "c2", PostID: bobPost.ID, OwnerID: "alice", Text: "alice elsewhere"}))

	_, err = f.svc.UploadPhoto(ctx, aliceActor, strings.NewReader("pic"), "me.png")
	require.NoError(t, err)
	aliceUser, err := f.users.FindByID(ctx, "alice")
	require.NoError(t, err)

	require.NoError(t, f.svc.Delete(ctx, aliceActor, "alice"))

	_, err = f.posts.FindByID(ctx, alicePost.ID)
	assert.ErrorIs(t, err, common.ErrNotFound, "owned posts deleted")

	onAlicePost, err := f.comments.FindByPost(ctx, alicePost.ID)
	require.NoError(t, err)
	assert.Empty(t, onAlicePost, "comments on owned posts deleted")

	onBobPost, err := f.comments.FindByPost(ctx, bobPost.ID)
	require.NoError(t, err)
	assert.Empty(t, onBobPost, "alice's comments elsewhere deleted")

	assert.False(t, f.media.Has(alicePost.Image), "post image removed")
	assert.False(t, f.media.Has(aliceUser.ProfilePhoto), "profile photo removed")
	assert.True(t, f.media.Has(bobPost.Image), "other users' media untouched")

	_, err = f.users.FindByID(ctx, "alice")
	assert.ErrorIs(t, err, common.ErrNotFound)
	_, err = f.users.FindByID(ctx, "bob")
	assert.NoError(t, err)
}
