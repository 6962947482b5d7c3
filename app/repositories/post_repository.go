package repositories

import (
	"context"
	"errors"
	"sync"

	"github.com/dgraph-io/badger/v4"

	"inkwell/app/models"
	"inkwell/store"
)

// BadgerPostRepository implements PostRepository on the shared store handle.
type BadgerPostRepository struct {
	store *store.Manager
}

// NewBadgerPostRepository creates a BadgerPostRepository.
func NewBadgerPostRepository(m *store.Manager) *BadgerPostRepository {
	return &BadgerPostRepository{store: m}
}

// Create inserts the post and its creation-time index entry atomically. The
// ID is minted here; timestamps are expected to be stamped by the caller.
func (r *BadgerPostRepository) Create(ctx context.Context, post *models.Post) error {
	post.ID = newID()
	data, err := marshalEntity(post)
	if err != nil {
		return err
	}
	return r.store.Update(func(txn *badger.Txn) error {
		if err := txn.Set(postKey(post.ID), data); err != nil {
			return err
		}
		return txn.Set(postCreatedIdxKey(post.CreatedAt, post.ID), []byte(post.ID))
	})
}

// GetByID retrieves a post by ID.
func (r *BadgerPostRepository) GetByID(ctx context.Context, id string) (*models.Post, error) {
	if err := parseID(id); err != nil {
		return nil, err
	}
	var post models.Post
	err := r.store.View(func(txn *badger.Txn) error {
		item, err := txn.Get(postKey(id))
		if errors.Is(err, badger.ErrKeyNotFound) {
			return ErrNotFound
		}
		if err != nil {
			return err
		}
		return item.Value(func(val []byte) error {
			return unmarshalEntity(val, &post)
		})
	})
	if err != nil {
		return nil, err
	}
	return &post, nil
}

// List returns one page of posts, newest first. The count and the page fetch
// run as concurrent read transactions so the window between them stays
// small; the total may still be stale relative to the items, which is an
// accepted race.
func (r *BadgerPostRepository) List(ctx context.Context, params models.PageParams) (*models.PagedPosts, error) {
	params = params.Normalized()

	var (
		wg       sync.WaitGroup
		total    int
		items    []*models.Post
		countErr error
		fetchErr error
	)
	wg.Add(2)
	go func() {
		defer wg.Done()
		total, countErr = r.count()
	}()
	go func() {
		defer wg.Done()
		items, fetchErr = r.fetchPage(params)
	}()
	wg.Wait()

	if countErr != nil {
		return nil, countErr
	}
	if fetchErr != nil {
		return nil, fetchErr
	}
	return &models.PagedPosts{
		Items:      items,
		Pagination: models.NewPagination(total, params),
	}, nil
}

func (r *BadgerPostRepository) count() (int, error) {
	total := 0
	err := r.store.View(func(txn *badger.Txn) error {
		opts := badger.DefaultIteratorOptions
		opts.PrefetchValues = false
		it := txn.NewIterator(opts)
		defer it.Close()

		prefix := []byte(postCreatedIdxPrefix)
		for it.Seek(prefix); it.ValidForPrefix(prefix); it.Next() {
			total++
		}
		return nil
	})
	return total, err
}

func (r *BadgerPostRepository) fetchPage(params models.PageParams) ([]*models.Post, error) {
	posts := make([]*models.Post, 0, params.Limit)
	err := r.store.View(func(txn *badger.Txn) error {
		opts := badger.DefaultIteratorOptions
		opts.PrefetchValues = false
		it := txn.NewIterator(opts)
		defer it.Close()

		skipped := 0
		prefix := []byte(postCreatedIdxPrefix)
		for it.Seek(prefix); it.ValidForPrefix(prefix); it.Next() {
			if skipped < params.Offset() {
				skipped++
				continue
			}
			if len(posts) >= params.Limit {
				break
			}

			var id []byte
			if err := it.Item().Value(func(val []byte) error {
				id = append(id, val...)
				return nil
			}); err != nil {
				return err
			}

			item, err := txn.Get(postKey(string(id)))
			if err != nil {
				return err
			}
			var post models.Post
			if err := item.Value(func(val []byte) error {
				return unmarshalEntity(val, &post)
			}); err != nil {
				return err
			}
			posts = append(posts, &post)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return posts, nil
}

// Update replaces the stored document. CreatedAt never changes, so the index
// entry stays where it is.
func (r *BadgerPostRepository) Update(ctx context.Context, post *models.Post) error {
	if err := parseID(post.ID); err != nil {
		return err
	}
	data, err := marshalEntity(post)
	if err != nil {
		return err
	}
	return r.store.Update(func(txn *badger.Txn) error {
		_, err := txn.Get(postKey(post.ID))
		if errors.Is(err, badger.ErrKeyNotFound) {
			return ErrNotFound
		}
		if err != nil {
			return err
		}
		return txn.Set(postKey(post.ID), data)
	})
}

// DeleteCascade removes the post document, its index entry, and every
// comment referencing the post, inside one transaction. If the post does not
// exist the transaction aborts before touching anything; if the commit fails
// no partial deletion is visible. Returns the number of comments removed.
func (r *BadgerPostRepository) DeleteCascade(ctx context.Context, id string) (int, error) {
	if err := parseID(id); err != nil {
		return 0, err
	}

	deleted := 0
	err := r.store.Update(func(txn *badger.Txn) error {
		deleted = 0

		item, err := txn.Get(postKey(id))
		if errors.Is(err, badger.ErrKeyNotFound) {
			return ErrNotFound
		}
		if err != nil {
			return err
		}
		var post models.Post
		if err := item.Value(func(val []byte) error {
			return unmarshalEntity(val, &post)
		}); err != nil {
			return err
		}

		if err := txn.Delete(postKey(id)); err != nil {
			return err
		}
		if err := txn.Delete(postCreatedIdxKey(post.CreatedAt, id)); err != nil {
			return err
		}

		// Collect the comment keys first; deleting while iterating the
		// same prefix invalidates the iterator.
		var doomed [][]byte
		opts := badger.DefaultIteratorOptions
		it := txn.NewIterator(opts)
		prefix := commentPostIdxScanPrefix(id)
		for it.Seek(prefix); it.ValidForPrefix(prefix); it.Next() {
			idxKey := it.Item().KeyCopy(nil)
			var commentID []byte
			if err := it.Item().Value(func(val []byte) error {
				commentID = append(commentID, val...)
				return nil
			}); err != nil {
				it.Close()
				return err
			}
			doomed = append(doomed, idxKey, commentKey(string(commentID)))
		}
		it.Close()

		for i, key := range doomed {
			if err := txn.Delete(key); err != nil {
				return err
			}
			// every second key is a comment document
			if i%2 == 1 {
				deleted++
			}
		}
		return nil
	})
	if err != nil {
		return 0, err
	}
	return deleted, nil
}

// Exists reports whether a post with the given ID is stored. Malformed IDs
// simply do not exist.
func (r *BadgerPostRepository) Exists(ctx context.Context, id string) (bool, error) {
	if err := parseID(id); err != nil {
		return false, nil
	}
	found := false
	err := r.store.View(func(txn *badger.Txn) error {
		_, err := txn.Get(postKey(id))
		if errors.Is(err, badger.ErrKeyNotFound) {
			return nil
		}
		if err != nil {
			return err
		}
		found = true
		return nil
	})
	return found, err
}
