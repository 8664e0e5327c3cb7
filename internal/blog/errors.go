package blog

import "errors"

var (
	// ErrPostNotFound is returned when no post exists with the given ID.
	ErrPostNotFound = errors.New("blog post not found")
	// ErrNotAuthor is returned when a mutation is attempted by someone
	// other than the post's author.
	ErrNotAuthor = errors.New("not the author of this post")
	// ErrValidation is returned when title or content is empty on create.
	ErrValidation = errors.New("validation failed")
)
