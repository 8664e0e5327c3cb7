package blog

import (
	"fmt"

	"gorm.io/gorm"

	"github.com/pressroom/pressroom/internal/db"
)

// Init migrates the blog_posts table. The author foreign key enforces that
// every post references an existing user.
func Init(gdb *gorm.DB) error {
	if err := db.EnsureSchema(gdb, "app"); err != nil {
		return fmt.Errorf("ensuring schema app: %w", err)
	}
	if err := gdb.AutoMigrate(&Post{}); err != nil {
		return fmt.Errorf("migrating blog_posts: %w", err)
	}
	return nil
}
