package services

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/jonboulle/clockwork"
	"github.com/patrickmn/go-cache"

	"inkwell/app/audit"
	"inkwell/app/models"
	"inkwell/app/repositories"
)

// PostService owns the business rules for the Post aggregate: validation
// before any write, cascade delete, and audit records for every mutation.
type PostService struct {
	posts  repositories.PostRepository
	audit  audit.Recorder
	clock  clockwork.Clock
	exists *cache.Cache
	log    *slog.Logger
}

// NewPostService creates a PostService. The existence cache is shared with
// the comment service so a post delete invalidates integrity checks there
// too.
func NewPostService(posts repositories.PostRepository, rec audit.Recorder, clock clockwork.Clock, exists *cache.Cache, log *slog.Logger) *PostService {
	return &PostService{posts: posts, audit: rec, clock: clock, exists: exists, log: log}
}

// CreatePost validates and stores a new post. Status defaults to draft.
func (s *PostService) CreatePost(ctx context.Context, post *models.Post) error {
	post.Normalize()
	if verr := post.Validate(); verr != nil {
		return verr
	}

	now := s.clock.Now().UTC()
	post.CreatedAt = now
	post.UpdatedAt = now

	if err := s.posts.Create(ctx, post); err != nil {
		return fmt.Errorf("create post: %w", err)
	}
	s.audit.Record(ctx, audit.Event{Op: audit.OpPostCreate, PostID: post.ID})
	return nil
}

// GetPost retrieves a post by ID.
func (s *PostService) GetPost(ctx context.Context, id string) (*models.Post, error) {
	return s.posts.GetByID(ctx, id)
}

// ListPosts returns one page of posts, newest first. Parameters are clamped,
// never rejected.
func (s *PostService) ListPosts(ctx context.Context, params models.PageParams) (*models.PagedPosts, error) {
	return s.posts.List(ctx, params.Normalized())
}

// UpdatePost applies a partial update: only supplied fields are replaced,
// the rest keep their prior values, and the whole entity is re-validated
// before the write.
func (s *PostService) UpdatePost(ctx context.Context, id string, patch *models.PostPatch) (*models.Post, error) {
	post, err := s.posts.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}

	patch.Apply(post)
	post.Normalize()
	if verr := post.Validate(); verr != nil {
		return nil, verr
	}
	post.UpdatedAt = s.clock.Now().UTC()

	if err := s.posts.Update(ctx, post); err != nil {
		return nil, fmt.Errorf("update post: %w", err)
	}
	s.audit.Record(ctx, audit.Event{Op: audit.OpPostUpdate, PostID: post.ID})
	return post, nil
}

// DeletePost removes the post and all its comments atomically, returning the
// number of comments that went with it. The existence cache entry is evicted
// so integrity checks stop vouching for the post immediately.
func (s *PostService) DeletePost(ctx context.Context, id string) (int, error) {
	deleted, err := s.posts.DeleteCascade(ctx, id)
	if err != nil {
		return 0, err
	}
	s.exists.Delete(postExistsKey(id))
	s.audit.Record(ctx, audit.Event{Op: audit.OpPostDelete, PostID: id, Count: deleted})
	return deleted, nil
}
