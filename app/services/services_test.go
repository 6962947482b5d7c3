package services

import (
	"context"
	"testing"
	"time"

	"github.com/jonboulle/clockwork"
	"github.com/stretchr/testify/require"

	"inkwell/app/audit"
	"inkwell/app/models"
	"inkwell/app/repositories"
	"inkwell/config"
	"inkwell/logging"
	"inkwell/store"
)

type fixture struct {
	posts    *PostService
	comments *CommentService
	audit    *audit.MemoryRecorder
	clock    clockwork.FakeClock
}

func newFixture(t *testing.T) *fixture {
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

	postRepo := repositories.NewBadgerPostRepository(m)
	commentRepo := repositories.NewBadgerCommentRepository(m)

	rec := &audit.MemoryRecorder{}
	clock := clockwork.NewFakeClockAt(time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC))
	exists := NewExistenceCache()
	log := logging.Discard()

	return &fixture{
		posts:    NewPostService(postRepo, rec, clock, exists, log),
		comments: NewCommentService(commentRepo, postRepo, rec, clock, exists, log),
		audit:    rec,
		clock:    clock,
	}
}

func (f *fixture) createPost(t *testing.T, title string) *models.Post {
	t.Helper()
	post := &models.Post{Title: title, Content: "content of " + title, Author: "Ann"}
	require.NoError(t, f.posts.CreatePost(context.Background(), post))
	f.clock.Advance(time.Minute)
	return post
}

func (f *fixture) createComment(t *testing.T, postID, content string) *models.Comment {
	t.Helper()
	comment := &models.Comment{PostID: postID, Author: "Bob", Content: content}
	require.NoError(t, f.comments.CreateComment(context.Background(), comment))
	f.clock.Advance(time.Minute)
	return comment
}
