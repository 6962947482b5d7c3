package repositories

import (
	"context"
	"testing"
	"time"

	"github.com/jonboulle/clockwork"
	"github.com/stretchr/testify/require"

	"inkwell/app/models"
	"inkwell/config"
	"inkwell/logging"
	"inkwell/store"
)

func newTestStore(t *testing.T) *store.Manager {
	t.Helper()
	cfg := config.StoreConfig{
		URI:              "badger+mem://",
		ConnectAttempts:  1,
		ConnectBaseDelay: time.Millisecond,
		ConnectMaxDelay:  time.Millisecond,
		ConnectTimeout:   5 * time.Second,
		ReconnectDelay:   time.Second,
		WatchdogPoll:     time.Second,
		NumGoroutines:    1,
	}
	m := store.NewManager(cfg, clockwork.NewRealClock(), logging.Discard())
	require.NoError(t, m.Connect(context.Background()))
	t.Cleanup(func() { _ = m.Disconnect() })
	return m
}

func newTestRepos(t *testing.T) (*BadgerPostRepository, *BadgerCommentRepository) {
	t.Helper()
	m := newTestStore(t)
	return NewBadgerPostRepository(m), NewBadgerCommentRepository(m)
}

// mustCreatePost inserts a post with the given creation time so ordering is
// deterministic in tests.
func mustCreatePost(t *testing.T, repo *BadgerPostRepository, title string, createdAt time.Time) *models.Post {
	t.Helper()
	post := &models.Post{
		Title:     title,
		Content:   "content of " + title,
		Status:    models.StatusDraft,
		CreatedAt: createdAt,
		UpdatedAt: createdAt,
	}
	require.NoError(t, repo.Create(context.Background(), post))
	require.NotEmpty(t, post.ID)
	return post
}

func mustCreateComment(t *testing.T, repo *BadgerCommentRepository, postID, content string, createdAt time.Time) *models.Comment {
	t.Helper()
	comment := &models.Comment{
		PostID:    postID,
		Author:    "Bob",
		Content:   content,
		CreatedAt: createdAt,
		UpdatedAt: createdAt,
	}
	require.NoError(t, repo.Create(context.Background(), comment))
	return comment
}
