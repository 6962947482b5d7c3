package audit

import (
	"bytes"
	"context"
	"encoding/json"
	"log/slog"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSlogRecorderFields(t *testing.T) {
	var buf bytes.Buffer
	rec := NewSlogRecorder(slog.New(slog.NewJSONHandler(&buf, nil)))

	rec.Record(context.Background(), Event{
		Op:     OpPostDelete,
		PostID: "p1",
		Count:  3,
	})

	var entry map[string]any
	require.NoError(t, json.Unmarshal(buf.Bytes(), &entry))
	assert.Equal(t, "audit", entry["msg"])
	assert.Equal(t, OpPostDelete, entry["op"])
	assert.Equal(t, "p1", entry["post_id"])
	assert.Equal(t, float64(3), entry["count"])
	assert.NotContains(t, entry, "comment_id")
}

func TestMemoryRecorder(t *testing.T) {
	rec := &MemoryRecorder{}
	rec.Record(context.Background(), Event{Op: OpCommentCreate, CommentID: "c1"})
	rec.Record(context.Background(), Event{Op: OpCommentDelete, CommentID: "c1"})

	events := rec.Events()
	require.Len(t, events, 2)
	assert.Equal(t, OpCommentCreate, events[0].Op)
	assert.Equal(t, OpCommentDelete, events[1].Op)
}
