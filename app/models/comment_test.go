package models

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCommentValidateValid(t *testing.T) {
	c := &Comment{PostID: "b5c7d9e1-0000-4000-8000-000000000001", Author: "Bob", Content: "Nice post"}
	c.Normalize()
	assert.Nil(t, c.Validate())
}

func TestCommentValidateMissingFields(t *testing.T) {
	c := &Comment{}
	err := c.Validate()
	require.NotNil(t, err)
	assert.Contains(t, err.Fields, "postid")
	assert.Contains(t, err.Fields, "author")
	assert.Contains(t, err.Fields, "content")
}

func TestCommentValidateContentTooLong(t *testing.T) {
	c := &Comment{PostID: "id", Author: "Bob", Content: strings.Repeat("x", 2001)}
	err := c.Validate()
	require.NotNil(t, err)
	assert.Contains(t, err.Fields, "content")

	c.Content = strings.Repeat("x", 2000)
	assert.Nil(t, c.Validate())
}

func TestCommentValidateAuthorTooLong(t *testing.T) {
	c := &Comment{PostID: "id", Author: strings.Repeat("a", 101), Content: "hi"}
	err := c.Validate()
	require.NotNil(t, err)
	assert.Contains(t, err.Fields, "author")
}

func TestCommentPatchApply(t *testing.T) {
	c := &Comment{PostID: "id", Author: "Bob", Content: "original"}

	content := "  edited  "
	patch := &CommentPatch{Content: &content}
	patch.Apply(c)

	assert.Equal(t, "edited", c.Content)
	assert.Equal(t, "Bob", c.Author)
	assert.Equal(t, "id", c.PostID)
}
