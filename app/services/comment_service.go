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

// CommentService owns the business rules for the Comment aggregate. Its
// central invariant: a comment is only ever created against a post that
// exists at creation time.
type CommentService struct {
	comments repositories.CommentRepository
	posts    repositories.PostRepository
	audit    audit.Recorder
	clock    clockwork.Clock
	exists   *cache.Cache
	log      *slog.Logger
}

// NewCommentService creates a CommentService. Pass the same existence cache
// as the post service.
func NewCommentService(comments repositories.CommentRepository, posts repositories.PostRepository, rec audit.Recorder, clock clockwork.Clock, exists *cache.Cache, log *slog.Logger) *CommentService {
	return &CommentService{comments: comments, posts: posts, audit: rec, clock: clock, exists: exists, log: log}
}

// CreateComment validates the comment and checks that its post exists before
// inserting. A missing post is an integrity violation: logged as such, and
// surfaced to the caller as a plain not-found.
func (s *CommentService) CreateComment(ctx context.Context, comment *models.Comment) error {
	comment.Normalize()
	if verr := comment.Validate(); verr != nil {
		return verr
	}

	ok, err := s.postExists(ctx, comment.PostID)
	if err != nil {
		return fmt.Errorf("check post: %w", err)
	}
	if !ok {
		s.log.WarnContext(ctx, "integrity violation: comment references missing post",
			"post_id", comment.PostID)
		return fmt.Errorf("post %s: %w", comment.PostID, repositories.ErrNotFound)
	}

	now := s.clock.Now().UTC()
	comment.CreatedAt = now
	comment.UpdatedAt = now

	if err := s.comments.Create(ctx, comment); err != nil {
		return fmt.Errorf("create comment: %w", err)
	}
	s.audit.Record(ctx, audit.Event{Op: audit.OpCommentCreate, PostID: comment.PostID, CommentID: comment.ID})
	return nil
}

// GetComment retrieves a comment by ID.
func (s *CommentService) GetComment(ctx context.Context, id string) (*models.Comment, error) {
	return s.comments.GetByID(ctx, id)
}

// ListComments returns one page of a post's comments, newest first. The post
// must exist; after a cascade delete this reports not-found rather than an
// empty page.
func (s *CommentService) ListComments(ctx context.Context, postID string, params models.PageParams) (*models.PagedComments, error) {
	ok, err := s.postExists(ctx, postID)
	if err != nil {
		return nil, fmt.Errorf("check post: %w", err)
	}
	if !ok {
		return nil, fmt.Errorf("post %s: %w", postID, repositories.ErrNotFound)
	}
	return s.comments.ListByPost(ctx, postID, params.Normalized())
}

// UpdateComment applies a partial update to a comment's content and author.
func (s *CommentService) UpdateComment(ctx context.Context, id string, patch *models.CommentPatch) (*models.Comment, error) {
	comment, err := s.comments.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}

	patch.Apply(comment)
	comment.Normalize()
	if verr := comment.Validate(); verr != nil {
		return nil, verr
	}
	comment.UpdatedAt = s.clock.Now().UTC()

	if err := s.comments.Update(ctx, comment); err != nil {
		return nil, fmt.Errorf("update comment: %w", err)
	}
	s.audit.Record(ctx, audit.Event{Op: audit.OpCommentUpdate, PostID: comment.PostID, CommentID: comment.ID})
	return comment, nil
}

// DeleteComment removes a single comment. The post is never affected.
func (s *CommentService) DeleteComment(ctx context.Context, id string) error {
	comment, err := s.comments.GetByID(ctx, id)
	if err != nil {
		return err
	}
	if err := s.comments.Delete(ctx, id); err != nil {
		return err
	}
	s.audit.Record(ctx, audit.Event{Op: audit.OpCommentDelete, PostID: comment.PostID, CommentID: comment.ID})
	return nil
}

// postExists answers the integrity check, serving repeated checks for the
// same post from the shared cache.
func (s *CommentService) postExists(ctx context.Context, postID string) (bool, error) {
	if _, hit := s.exists.Get(postExistsKey(postID)); hit {
		return true, nil
	}
	ok, err := s.posts.Exists(ctx, postID)
	if err != nil {
		return false, err
	}
	if ok {
		s.exists.SetDefault(postExistsKey(postID), struct{}{})
	}
	return ok, nil
}
