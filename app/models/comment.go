package models

import "strings"

func trim(s string) string { return strings.TrimSpace(s) }

// Normalize trims whitespace from user-supplied fields.
func (c *Comment) Normalize() {
	c.Author = trim(c.Author)
	c.Content = trim(c.Content)
	c.PostID = trim(c.PostID)
}

// Validate checks the comment against its field rules. Call Normalize first.
// Whether PostID resolves to an existing post is a separate integrity check
// owned by the service layer.
func (c *Comment) Validate() *ValidationError {
	if err := validate.Struct(c); err != nil {
		return newValidationError(err)
	}
	return nil
}

// CommentPatch is a partial update for a comment's mutable fields.
type CommentPatch struct {
	Content *string `json:"content"`
	Author  *string `json:"author"`
}

// Apply overwrites the supplied fields on c. PostID and CreatedAt are never
// touched by a patch.
func (patch *CommentPatch) Apply(c *Comment) {
	if patch.Content != nil {
		c.Content = trim(*patch.Content)
	}
	if patch.Author != nil {
		c.Author = trim(*patch.Author)
	}
}

// Empty reports whether the patch supplies no fields at all.
func (patch *CommentPatch) Empty() bool {
	return patch.Content == nil && patch.Author == nil
}
