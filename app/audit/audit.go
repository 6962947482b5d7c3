// Package audit emits one structured record per mutating repository
// operation. The record is a side-effect contract for the observability
// pipeline, not part of any operation's return value.
package audit

import (
	"context"
	"log/slog"
	"sync"
)

// Operation kinds recorded by the services.
const (
	OpPostCreate    = "post.create"
	OpPostUpdate    = "post.update"
	OpPostDelete    = "post.delete"
	OpCommentCreate = "comment.create"
	OpCommentUpdate = "comment.update"
	OpCommentDelete = "comment.delete"
)

// Event is a single audit record.
type Event struct {
	Op        string
	PostID    string
	CommentID string
	// Count carries cascade sizes, e.g. comments removed by a post delete.
	Count int
}

// Recorder accepts audit events.
type Recorder interface {
	Record(ctx context.Context, e Event)
}

// SlogRecorder writes audit events to a structured logger.
type SlogRecorder struct {
	log *slog.Logger
}

// NewSlogRecorder creates a SlogRecorder.
func NewSlogRecorder(log *slog.Logger) *SlogRecorder {
	return &SlogRecorder{log: log}
}

func (r *SlogRecorder) Record(ctx context.Context, e Event) {
	attrs := []any{"op", e.Op}
	if e.PostID != "" {
		attrs = append(attrs, "post_id", e.PostID)
	}
	if e.CommentID != "" {
		attrs = append(attrs, "comment_id", e.CommentID)
	}
	if e.Count > 0 {
		attrs = append(attrs, "count", e.Count)
	}
	r.log.InfoContext(ctx, "audit", attrs...)
}

// MemoryRecorder collects events in memory. Test double.
type MemoryRecorder struct {
	mu     sync.Mutex
	events []Event
}

func (r *MemoryRecorder) Record(_ context.Context, e Event) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.events = append(r.events, e)
}

// Events returns a copy of everything recorded so far.
func (r *MemoryRecorder) Events() []Event {
	r.mu.Lock()
	defer r.mu.Unlock()
	return append([]Event(nil), r.events...)
}
