package repository

import (
	"errors"

	"github.com/yukikurage/taskboard/internal/database"
	"github.com/yukikurage/taskboard/internal/models"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// GormKVStore is a GORM implementation of KVStore backed by the records table
type GormKVStore struct {
	db *gorm.DB
}

// NewGormKVStore creates a new KVStore on top of db
func NewGormKVStore(db *gorm.DB) *GormKVStore {
	return &GormKVStore{db: db}
}

// Get loads a single record
func (s *GormKVStore) Get(key string) (string, bool, error) {
	var rec models.Record
	if err := s.db.Where("record_key = ?", key).First(&rec).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return "", false, nil
		}
		return "", false, err
	}
	return rec.Value, true, nil
}

// Set upserts a record
func (s *GormKVStore) Set(key, value string) error {
	rec := models.Record{Key: key, Value: value}
	return s.db.
		Clauses(clause.OnConflict{
			Columns:   []clause.Column{{Name: "record_key"}},
			DoUpdates: clause.AssignmentColumns([]string{"value", "updated_at"}),
		}).
		Create(&rec).Error
}

// Delete removes records by key
func (s *GormKVStore) Delete(keys ...string) error {
	if len(keys) == 0 {
		return nil
	}
	return s.db.Where("record_key IN ?", keys).Delete(&models.Record{}).Error
}

// Keys lists record keys under a prefix
func (s *GormKVStore) Keys(prefix string) ([]string, error) {
	var keys []string
	err := s.db.Model(&models.Record{}).
		Scopes(database.WithKeyPrefix(prefix)).
		Order("record_key").
		Pluck("record_key", &keys).Error
	return keys, err
}

// Batch runs fn inside a database transaction
func (s *GormKVStore) Batch(fn func(tx KVStore) error) error {
	return s.db.Transaction(func(tx *gorm.DB) error {
		return fn(&GormKVStore{db: tx})
	})
}
