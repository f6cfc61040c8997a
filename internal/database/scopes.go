package database

import (
	"strings"

	"gorm.io/gorm"
)

// WithKeyPrefix restricts a records query to keys starting with prefix
func WithKeyPrefix(prefix string) func(db *gorm.DB) *gorm.DB {
	return func(db *gorm.DB) *gorm.DB {
		if prefix == "" {
			return db
		}
		return db.Where("record_key LIKE ? ESCAPE '!'", escapeLike(prefix)+"%")
	}
}

// escapeLike escapes LIKE wildcards with '!', which needs no quoting in any supported dialect.
func escapeLike(s string) string {
	return strings.NewReplacer(`!`, `!!`, `%`, `!%`, `_`, `!_`).Replace(s)
}
