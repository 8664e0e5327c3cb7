package blog

import (
	"time"

	"github.com/pressroom/pressroom/internal/auth"
)

type Post struct {
	ID        int64     `gorm:"primaryKey"`
	Title     string    `gorm:"not null"`
	Content   string    `gorm:"not null"`
	AuthorID  int64     `gorm:"not null;index"`
	Author    auth.User `gorm:"foreignKey:AuthorID;constraint:OnDelete:RESTRICT" json:"-"`
	CreatedAt time.Time
	UpdatedAt time.Time
}

func (Post) TableName() string { return "app.blog_posts" }
