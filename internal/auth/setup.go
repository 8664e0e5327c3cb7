package auth

import (
	"fmt"

	"gorm.io/gorm"

	"github.com/pressroom/pressroom/internal/db"
)

// Init ensures the app schema exists and migrates the users table. The
// unique index on username backs the duplicate-registration guarantee.
func Init(gdb *gorm.DB) error {
	if err := db.EnsureSchema(gdb, "app"); err != nil {
		return fmt.Errorf("ensuring schema app: %w", err)
	}
	if err := gdb.AutoMigrate(&User{}); err != nil {
		return fmt.Errorf("migrating users: %w", err)
	}
	return nil
}
