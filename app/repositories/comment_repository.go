package repositories

import (
	"context"
	"errors"
	"sync"

	"github.com/dgraph-io/badger/v4"

	"inkwell/app/models"
	"inkwell/store"
)

// BadgerCommentRepository implements CommentRepository on the shared store
// handle.
type BadgerCommentRepository struct {
	store *store.Manager
}

// NewBadgerCommentRepository creates a BadgerCommentRepository.
func NewBadgerCommentRepository(m *store.Manager) *BadgerCommentRepository {
	return &BadgerCommentRepository{store: m}
}

// Create inserts the comment and its per-post index entry atomically.
// Whether the referenced post exists is checked by the service before this
// call.
func (r *BadgerCommentRepository) Create(ctx context.Context, comment *models.Comment) error {
	comment.ID = newID()
	data, err := marshalEntity(comment)
	if err != nil {
		return err
	}
	return r.store.Update(func(txn *badger.Txn) error {
		if err := txn.Set(commentKey(comment.ID), data); err != nil {
			return err
		}
		idxKey := commentPostIdxKey(comment.PostID, comment.CreatedAt, comment.ID)
		return txn.Set(idxKey, []byte(comment.ID))
	})
}

// GetByID retrieves a comment by ID.
func (r *BadgerCommentRepository) GetByID(ctx context.Context, id string) (*models.Comment, error) {
	if err := parseID(id); err != nil {
		return nil, err
	}
	var comment models.Comment
	err := r.store.View(func(txn *badger.Txn) error {
		item, err := txn.Get(commentKey(id))
		if errors.Is(err, badger.ErrKeyNotFound) {
			return ErrNotFound
		}
		if err != nil {
			return err
		}
		return item.Value(func(val []byte) error {
			return unmarshalEntity(val, &comment)
		})
	})
	if err != nil {
		return nil, err
	}
	return &comment, nil
}

// ListByPost returns one page of the post's comments, newest first, with the
// same concurrent count-and-fetch as the post listing.
func (r *BadgerCommentRepository) ListByPost(ctx context.Context, postID string, params models.PageParams) (*models.PagedComments, error) {
	params = params.Normalized()

	var (
		wg       sync.WaitGroup
		total    int
		items    []*models.Comment
		countErr error
		fetchErr error
	)
	wg.Add(2)
	go func() {
		defer wg.Done()
		total, countErr = r.countByPost(postID)
	}()
	go func() {
		defer wg.Done()
		items, fetchErr = r.fetchPage(postID, params)
	}()
	wg.Wait()

	if countErr != nil {
		return nil, countErr
	}
	if fetchErr != nil {
		return nil, fetchErr
	}
	return &models.PagedComments{
		Items:      items,
		Pagination: models.NewPagination(total, params),
	}, nil
}

func (r *BadgerCommentRepository) countByPost(postID string) (int, error) {
	total := 0
	err := r.store.View(func(txn *badger.Txn) error {
		opts := badger.DefaultIteratorOptions
		opts.PrefetchValues = false
		it := txn.NewIterator(opts)
		defer it.Close()

		prefix := commentPostIdxScanPrefix(postID)
		for it.Seek(prefix); it.ValidForPrefix(prefix); it.Next() {
			total++
		}
		return nil
	})
	return total, err
}

func (r *BadgerCommentRepository) fetchPage(postID string, params models.PageParams) ([]*models.Comment, error) {
	comments := make([]*models.Comment, 0, params.Limit)
	err := r.store.View(func(txn *badger.Txn) error {
		opts := badger.DefaultIteratorOptions
		opts.PrefetchValues = false
		it := txn.NewIterator(opts)
		defer it.Close()

		skipped := 0
		prefix := commentPostIdxScanPrefix(postID)
		for it.Seek(prefix); it.ValidForPrefix(prefix); it.Next() {
			if skipped < params.Offset() {
				skipped++
				continue
			}
			if len(comments) >= params.Limit {
				break
			}

			var id []byte
			if err := it.Item().Value(func(val []byte) error {
				id = append(id, val...)
				return nil
			}); err != nil {
				return err
			}

			item, err := txn.Get(commentKey(string(id)))
			if err != nil {
				return err
			}
			var comment models.Comment
			if err := item.Value(func(val []byte) error {
				return unmarshalEntity(val, &comment)
			}); err != nil {
				return err
			}
			comments = append(comments, &comment)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return comments, nil
}

// Update replaces the stored document. PostID and CreatedAt never change on
// update, so the index entry stays where it is.
func (r *BadgerCommentRepository) Update(ctx context.Context, comment *models.Comment) error {
	if err := parseID(comment.ID); err != nil {
		return err
	}
	data, err := marshalEntity(comment)
	if err != nil {
		return err
	}
	return r.store.Update(func(txn *badger.Txn) error {
		_, err := txn.Get(commentKey(comment.ID))
		if errors.Is(err, badger.ErrKeyNotFound) {
			return ErrNotFound
		}
		if err != nil {
			return err
		}
		return txn.Set(commentKey(comment.ID), data)
	})
}

// Delete removes a single comment and its index entry. The post itself is
// never affected.
func (r *BadgerCommentRepository) Delete(ctx context.Context, id string) error {
	if err := parseID(id); err != nil {
		return err
	}
	return r.store.Update(func(txn *badger.Txn) error {
		item, err := txn.Get(commentKey(id))
		if errors.Is(err, badger.ErrKeyNotFound) {
			return ErrNotFound
		}
		if err != nil {
			return err
		}
		var comment models.Comment
		if err := item.Value(func(val []byte) error {
			return unmarshalEntity(val, &comment)
		}); err != nil {
			return err
		}

		if err := txn.Delete(commentKey(id)); err != nil {
			return err
		}
		return txn.Delete(commentPostIdxKey(comment.PostID, comment.CreatedAt, comment.ID))
	})
}
