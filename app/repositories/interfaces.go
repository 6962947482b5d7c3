package repositories

import (
	"context"
	"errors"

	"github.com/google/uuid"

	"inkwell/app/models"
)

var (
	// ErrNotFound means no entity exists for the given identifier.
	ErrNotFound = errors.New("record not found")
	// ErrInvalidID means the identifier is not well formed.
	ErrInvalidID = errors.New("invalid identifier")
)

// PostRepository is the persistence boundary for the Post aggregate. It owns
// the post documents and their creation-time index; deleting a post takes
// its comments with it in the same transaction.
type PostRepository interface {
	Create(ctx context.Context, post *models.Post) error
	GetByID(ctx context.Context, id string) (*models.Post, error)
	List(ctx context.Context, params models.PageParams) (*models.PagedPosts, error)
	Update(ctx context.Context, post *models.Post) error
	// DeleteCascade removes the post and every comment referencing it,
	// all-or-nothing, and returns the number of comments removed.
	DeleteCascade(ctx context.Context, id string) (int, error)
	Exists(ctx context.Context, id string) (bool, error)
}

// CommentRepository is the persistence boundary for the Comment aggregate.
type CommentRepository interface {
	Create(ctx context.Context, comment *models.Comment) error
	GetByID(ctx context.Context, id string) (*models.Comment, error)
	ListByPost(ctx context.Context, postID string, params models.PageParams) (*models.PagedComments, error)
	Update(ctx context.Context, comment *models.Comment) error
	Delete(ctx context.Context, id string) error
}

// parseID rejects identifiers that are not well-formed UUIDs before any
// store access happens.
func parseID(id string) error {
	if _, err := uuid.Parse(id); err != nil {
		return ErrInvalidID
	}
	return nil
}

// newID mints a store-generated identifier.
func newID() string {
	return uuid.NewString()
}
