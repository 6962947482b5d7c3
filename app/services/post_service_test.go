package services

import (
	"context"
	"fmt"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"inkwell/app/audit"
	"inkwell/app/models"
	"inkwell/app/repositories"
)

func TestCreatePostTrimsAndDefaults(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	post := &models.Post{Title: "  Hello World  ", Content: " 1234567890 ", Author: " Ann "}
	require.NoError(t, f.posts.CreatePost(ctx, post))

	got, err := f.posts.GetPost(ctx, post.ID)
	require.NoError(t, err)
	assert.Equal(t, "Hello World", got.Title)
	assert.Equal(t, "1234567890", got.Content)
	assert.Equal(t, "Ann", got.Author)
	assert.Equal(t, models.StatusDraft, got.Status)
	assert.Equal(t, got.CreatedAt, got.UpdatedAt)
	assert.False(t, got.CreatedAt.IsZero())
}

func TestCreatePostValidationError(t *testing.T) {
	f := newFixture(t)

	post := &models.Post{Title: "   ", Content: ""}
	err := f.posts.CreatePost(context.Background(), post)

	var verr *models.ValidationError
	require.ErrorAs(t, err, &verr)
	assert.Contains(t, verr.Fields, "title")
	assert.Contains(t, verr.Fields, "content")
	assert.Empty(t, f.audit.Events())
}

func TestCreatePostRejectsUnknownStatus(t *testing.T) {
	f := newFixture(t)

	post := &models.Post{Title: "Hello", Content: "body", Status: "archived"}
	err := f.posts.CreatePost(context.Background(), post)

	var verr *models.ValidationError
	require.ErrorAs(t, err, &verr)
	assert.Contains(t, verr.Fields, "status")
}

func TestListPostsScenario(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	for i := 0; i < 15; i++ {
		f.createPost(t, fmt.Sprintf("post-%02d", i))
	}

	page, err := f.posts.ListPosts(ctx, models.PageParams{Page: 2, Limit: 5})
	require.NoError(t, err)
	assert.Len(t, page.Items, 5)
	assert.Equal(t, 15, page.Pagination.Total)
	assert.Equal(t, 3, page.Pagination.TotalPages)
}

func TestListPostsClampsMalformedParams(t *testing.T) {
	f := newFixture(t)

	page, err := f.posts.ListPosts(context.Background(), models.PageParams{Page: -5, Limit: 100000})
	require.NoError(t, err)
	assert.Equal(t, 1, page.Pagination.Page)
	assert.Equal(t, 100, page.Pagination.Limit)
}

func TestUpdatePostPartial(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	post := f.createPost(t, "Original")
	created := post.CreatedAt

	title := "Renamed"
	status := "published"
	updated, err := f.posts.UpdatePost(ctx, post.ID, &models.PostPatch{Title: &title, Status: &status})
	require.NoError(t, err)

	assert.Equal(t, "Renamed", updated.Title)
	assert.Equal(t, "content of Original", updated.Content)
	assert.Equal(t, models.StatusPublished, updated.Status)
	assert.Equal(t, created, updated.CreatedAt)
	assert.True(t, updated.UpdatedAt.After(created))
}

func TestUpdatePostValidation(t *testing.T) {
	f := newFixture(t)
	post := f.createPost(t, "Valid")

	empty := "   "
	_, err := f.posts.UpdatePost(context.Background(), post.ID, &models.PostPatch{Title: &empty})

	var verr *models.ValidationError
	require.ErrorAs(t, err, &verr)

	// failed update leaves the stored entity untouched
	got, gerr := f.posts.GetPost(context.Background(), post.ID)
	require.NoError(t, gerr)
	assert.Equal(t, "Valid", got.Title)
}

func TestUpdatePostNotFound(t *testing.T) {
	f := newFixture(t)

	title := "x"
	_, err := f.posts.UpdatePost(context.Background(), "b5c7d9e1-0000-4000-8000-000000000009", &models.PostPatch{Title: &title})
	assert.ErrorIs(t, err, repositories.ErrNotFound)
}

func TestDeletePostCascadeScenario(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	post := f.createPost(t, "Parent")
	f.createComment(t, post.ID, "first")
	f.createComment(t, post.ID, "second")

	deleted, err := f.posts.DeletePost(ctx, post.ID)
	require.NoError(t, err)
	assert.Equal(t, 2, deleted)

	_, err = f.posts.GetPost(ctx, post.ID)
	assert.ErrorIs(t, err, repositories.ErrNotFound)

	_, err = f.comments.ListComments(ctx, post.ID, models.PageParams{})
	assert.ErrorIs(t, err, repositories.ErrNotFound)

	// second delete finds nothing
	_, err = f.posts.DeletePost(ctx, post.ID)
	assert.ErrorIs(t, err, repositories.ErrNotFound)
}

func TestDeletePostInvalidatesExistenceCache(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	post := f.createPost(t, "Cached")
	// warm the cache through an integrity check
	f.createComment(t, post.ID, "warms cache")

	_, err := f.posts.DeletePost(ctx, post.ID)
	require.NoError(t, err)

	// the cache must not vouch for the deleted post
	comment := &models.Comment{PostID: post.ID, Author: "Bob", Content: "too late"}
	err = f.comments.CreateComment(ctx, comment)
	assert.ErrorIs(t, err, repositories.ErrNotFound)
}

func TestPostMutationsEmitAuditRecords(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	post := f.createPost(t, "Audited")
	title := "Renamed"
	_, err := f.posts.UpdatePost(ctx, post.ID, &models.PostPatch{Title: &title})
	require.NoError(t, err)
	_, err = f.posts.DeletePost(ctx, post.ID)
	require.NoError(t, err)

	events := f.audit.Events()
	require.Len(t, events, 3)
	assert.Equal(t, audit.OpPostCreate, events[0].Op)
	assert.Equal(t, audit.OpPostUpdate, events[1].Op)
	assert.Equal(t, audit.OpPostDelete, events[2].Op)
	assert.Equal(t, post.ID, events[2].PostID)
}

func TestDeletePostReportsCascadeCountInAudit(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	post := f.createPost(t, "Parent")
	for i := 0; i < 3; i++ {
		f.createComment(t, post.ID, fmt.Sprintf("c%d", i))
	}

	_, err := f.posts.DeletePost(ctx, post.ID)
	require.NoError(t, err)

	events := f.audit.Events()
	last := events[len(events)-1]
	assert.Equal(t, audit.OpPostDelete, last.Op)
	assert.Equal(t, 3, last.Count)
}

func TestPostTimestampsComeFromClock(t *testing.T) {
	f := newFixture(t)

	start := f.clock.Now().UTC()
	post := &models.Post{Title: "Clocked", Content: "body"}
	require.NoError(t, f.posts.CreatePost(context.Background(), post))
	assert.Equal(t, start, post.CreatedAt)

	f.clock.Advance(time.Hour)
	title := "Later"
	updated, err := f.posts.UpdatePost(context.Background(), post.ID, &models.PostPatch{Title: &title})
	require.NoError(t, err)
	assert.Equal(t, start.Add(time.Hour), updated.UpdatedAt)
	assert.Equal(t, start, updated.CreatedAt)
}
