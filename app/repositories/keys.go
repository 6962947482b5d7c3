package repositories

import (
	"encoding/json"
	"fmt"
	"time"
)

// Key layout. Documents live under their own prefix; index entries order
// them by creation time, newest first, because the timestamp component is
// stored inverted and Badger iterates keys in ascending order.
//
//	post:<id>                                  post document (JSON)
//	idx:post:created:<inv-ts>:<id>             creation-time index
//	comment:<id>                               comment document (JSON)
//	idx:comment:post:<postID>:<inv-ts>:<id>    per-post creation-time index
const (
	postKeyPrefix        = "post:"
	commentKeyPrefix     = "comment:"
	postCreatedIdxPrefix = "idx:post:created:"
	commentPostIdxPrefix = "idx:comment:post:"
)

// invTimestamp encodes t so that later times sort first in key order.
func invTimestamp(t time.Time) string {
	return fmt.Sprintf("%016x", ^uint64(0)-uint64(t.UnixNano()))
}

func postKey(id string) []byte {
	return []byte(postKeyPrefix + id)
}

func postCreatedIdxKey(createdAt time.Time, id string) []byte {
	return []byte(postCreatedIdxPrefix + invTimestamp(createdAt) + ":" + id)
}

func commentKey(id string) []byte {
	return []byte(commentKeyPrefix + id)
}

func commentPostIdxKey(postID string, createdAt time.Time, id string) []byte {
	return []byte(commentPostIdxPrefix + postID + ":" + invTimestamp(createdAt) + ":" + id)
}

// commentPostIdxScanPrefix covers every comment index entry for one post.
func commentPostIdxScanPrefix(postID string) []byte {
	return []byte(commentPostIdxPrefix + postID + ":")
}

func marshalEntity(entity any) ([]byte, error) {
	data, err := json.Marshal(entity)
	if err != nil {
		return nil, fmt.Errorf("marshal entity: %w", err)
	}
	return data, nil
}

func unmarshalEntity(data []byte, entity any) error {
	if err := json.Unmarshal(data, entity); err != nil {
		return fmt.Errorf("unmarshal entity: %w", err)
	}
	return nil
}
