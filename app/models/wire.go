package models

import "time"

// Wire representations are deliberately separate structs from the stored
// entities, so the HTTP shape can evolve without touching the storage
// encoding.

// PostResponse is the wire shape of a post.
type PostResponse struct {
	ID        string    `json:"id"`
	Title     string    `json:"title"`
	Content   string    `json:"content"`
	Author    string    `json:"author,omitempty"`
	Status    string    `json:"status"`
	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`
}

// CommentResponse is the wire shape of a comment.
type CommentResponse struct {
	ID        string    `json:"id"`
	PostID    string    `json:"postId"`
	Author    string    `json:"author"`
	Content   string    `json:"content"`
	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`
}

// PostListResponse is the wire shape of a paginated post listing.
type PostListResponse struct {
	Items      []PostResponse `json:"items"`
	Pagination Pagination     `json:"pagination"`
}

// CommentListResponse is the wire shape of a paginated comment listing.
type CommentListResponse struct {
	Items      []CommentResponse `json:"items"`
	Pagination Pagination        `json:"pagination"`
}

// ToResponse maps a post to its wire representation.
func (p *Post) ToResponse() PostResponse {
	return PostResponse{
		ID:        p.ID,
		Title:     p.Title,
		Content:   p.Content,
		Author:    p.Author,
		Status:    string(p.Status),
		CreatedAt: p.CreatedAt,
		UpdatedAt: p.UpdatedAt,
	}
}

// ToResponse maps a comment to its wire representation.
func (c *Comment) ToResponse() CommentResponse {
	return CommentResponse{
		ID:        c.ID,
		PostID:    c.PostID,
		Author:    c.Author,
		Content:   c.Content,
		CreatedAt: c.CreatedAt,
		UpdatedAt: c.UpdatedAt,
	}
}

// ToResponse maps a page of posts to its wire representation.
func (p PagedPosts) ToResponse() PostListResponse {
	items := make([]PostResponse, 0, len(p.Items))
	for _, post := range p.Items {
		items = append(items, post.ToResponse())
	}
	return PostListResponse{Items: items, Pagination: p.Pagination}
}

// ToResponse maps a page of comments to its wire representation.
func (p PagedComments) ToResponse() CommentListResponse {
	items := make([]CommentResponse, 0, len(p.Items))
	for _, c := range p.Items {
		items = append(items, c.ToResponse())
	}
	return CommentListResponse{Items: items, Pagination: p.Pagination}
}
