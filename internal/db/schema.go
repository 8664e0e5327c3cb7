package db

import "gorm.io/gorm"

// EnsureSchema creates the named Postgres schema if it does not exist.
// Called from each domain package's Init before AutoMigrate.
func EnsureSchema(gdb *gorm.DB, schema string) error {
	return gdb.Exec(`CREATE SCHEMA IF NOT EXISTS "` + schema + `"`).Error
}
