package models

import "time"

// Record is one key of the key-value store backing all persisted collections.
type Record struct {
	Key       string    `gorm:"column:record_key;primarykey;type:varchar(191)"`
	Value     string    `gorm:"type:text;not null"`
	UpdatedAt time.Time
}
