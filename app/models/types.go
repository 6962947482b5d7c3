package models

import "time"

// PostStatus is the publication state of a post.
type PostStatus string

const (
	StatusDraft     PostStatus = "draft"
	StatusPublished PostStatus = "published"
)

// Post represents a blog post. IDs are opaque UUID strings minted by the
// repository at insert time.
type Post struct {
	ID        string     `json:"id"`
	Title     string     `json:"title" validate:"required,max=200"`
	Content   string     `json:"content" validate:"required"`
	Author    string     `json:"author,omitempty"`
	Status    PostStatus `json:"status" validate:"required,oneof=draft published"`
	CreatedAt time.Time  `json:"createdAt"`
	UpdatedAt time.Time  `json:"updatedAt"`
}

// Comment represents a comment on a blog post. A comment never outlives the
// post it references.
type Comment struct {
	ID        string    `json:"id"`
	PostID    string    `json:"postId" validate:"required"`
	Author    string    `json:"author" validate:"required,max=100"`
	Content   string    `json:"content" validate:"required,max=2000"`
	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`
}
