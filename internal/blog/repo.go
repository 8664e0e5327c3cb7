package blog

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"gorm.io/gorm"
)

const opTimeout = 3 * time.Second

// Repo provides CRUD over blog_posts. Ownership checks always run against
// a freshly fetched row, inside the same transaction as the write.
type Repo struct {
	db *gorm.DB
}

func NewRepo(gdb *gorm.DB) *Repo {
	return &Repo{db: gdb}
}

// ListAll returns every post, newest first (ordered by id descending).
func (r *Repo) ListAll(ctx context.Context) ([]Post, error) {
	ctx, cancel := context.WithTimeout(ctx, opTimeout)
	defer cancel()

	var posts []Post
	if err := r.db.WithContext(ctx).Order("id DESC").Find(&posts).Error; err != nil {
		return nil, fmt.Errorf("listing posts: %w", err)
	}
	return posts, nil
}

func (r *Repo) Get(ctx context.Context, id int64) (Post, error) {
	ctx, cancel := context.WithTimeout(ctx, opTimeout)
	defer cancel()

	var post Post
	err := r.db.WithContext(ctx).First(&post, id).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return Post{}, ErrPostNotFound
	}
	if err != nil {
		return Post{}, fmt.Errorf("fetching post %d: %w", id, err)
	}
	return post, nil
}

func (r *Repo) Create(ctx context.Context, authorID int64, title, content string) (Post, error) {
	if strings.TrimSpace(title) == "" || strings.TrimSpace(content) == "" {
		return Post{}, fmt.Errorf("%w: title and content are required", ErrValidation)
	}

	ctx, cancel := context.WithTimeout(ctx, opTimeout)
	defer cancel()

	post := Post{Title: title, Content: content, AuthorID: authorID}
	if err := r.db.WithContext(ctx).Create(&post).Error; err != nil {
		return Post{}, fmt.Errorf("inserting post: %w", err)
	}
	return post, nil
}

// Update overwrites title and content after verifying that actorID owns the
// post. Fetch, check, and write happen in one transaction so the ownership
// decision is never made on stale data.
func (r *Repo) Update(ctx context.Context, id, actorID int64, title, content string) (Post, error) {
	ctx, cancel := context.WithTimeout(ctx, opTimeout)
	defer cancel()

	var post Post
	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.First(&post, id).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return ErrPostNotFound
			}
			return fmt.Errorf("fetching post %d: %w", id, err)
		}
		if post.AuthorID != actorID {
			return ErrNotAuthor
		}
		if err := tx.Model(&post).Updates(map[string]any{"title": title, "content": content}).Error; err != nil {
			return fmt.Errorf("updating post %d: %w", id, err)
		}
		return nil
	})
	if err != nil {
		return Post{}, err
	}
	return post, nil
}

// Delete removes the post after the same ownership check as Update.
func (r *Repo) Delete(ctx context.Context, id, actorID int64) error {
	ctx, cancel := context.WithTimeout(ctx, opTimeout)
	defer cancel()

	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var post Post
		if err := tx.First(&post, id).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return ErrPostNotFound
			}
			return fmt.Errorf("fetching post %d: %w", id, err)
		}
		if post.AuthorID != actorID {
			return ErrNotAuthor
		}
		if err := tx.Delete(&post).Error; err != nil {
			return fmt.Errorf("deleting post %d: %w", id, err)
		}
		return nil
	})
}
