package services

import (
	"time"

	"github.com/patrickmn/go-cache"
)

// The existence cache sits in front of the post-existence integrity check so
// a burst of comments on the same post costs one store read. Entries are
// short-lived and deleting a post evicts its entry immediately, so the cache
// never vouches for a post that was cascade-deleted.
const (
	existsTTL     = 30 * time.Second
	existsCleanup = time.Minute
)

// NewExistenceCache builds the cache shared by the post and comment
// services.
func NewExistenceCache() *cache.Cache {
	return cache.New(existsTTL, existsCleanup)
}

func postExistsKey(id string) string {
	return "post_exists:" + id
}
