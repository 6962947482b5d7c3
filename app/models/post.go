package models

// Normalize trims whitespace from user-supplied fields and applies the
// default status. Runs before validation so length rules see trimmed values.
func (p *Post) Normalize() {
	p.Title = trim(p.Title)
	p.Content = trim(p.Content)
	p.Author = trim(p.Author)
	if p.Status == "" {
		p.Status = StatusDraft
	}
}

// Validate checks the post against its field rules. Call Normalize first.
func (p *Post) Validate() *ValidationError {
	if err := validate.Struct(p); err != nil {
		return newValidationError(err)
	}
	return nil
}

// PostPatch is a partial update: nil fields keep their prior values.
type PostPatch struct {
	Title   *string `json:"title"`
	Content *string `json:"content"`
	Author  *string `json:"author"`
	Status  *string `json:"status"`
}

// Apply overwrites the supplied fields on p. The caller re-validates the
// resulting entity.
func (patch *PostPatch) Apply(p *Post) {
	if patch.Title != nil {
		p.Title = trim(*patch.Title)
	}
	if patch.Content != nil {
		p.Content = trim(*patch.Content)
	}
	if patch.Author != nil {
		p.Author = trim(*patch.Author)
	}
	if patch.Status != nil {
		p.Status = PostStatus(*patch.Status)
	}
}

// Empty reports whether the patch supplies no fields at all.
func (patch *PostPatch) Empty() bool {
	return patch.Title == nil && patch.Content == nil && patch.Author == nil && patch.Status == nil
}
