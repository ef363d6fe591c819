package kv

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/your-org/storefront/internal/infrastructure/storage"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// Record is one named value in the storefront_kv table
type Record struct {
	Name      string    `json:"name" gorm:"primaryKey;size:255"`
	Value     string    `json:"value" gorm:"type:text;not null"`
	UpdatedAt time.Time `json:"updated_at"`
}

// TableName returns the table name for Record
func (Record) TableName() string {
	return "storefront_kv"
}

// Store implements storage.Store on a SQL table through GORM. It works with
// any dialect GORM supports; the app wires PostgreSQL and SQLite.
type Store struct {
	db *gorm.DB
}

// NewStore creates a store on db. The table must already be migrated.
func NewStore(db *gorm.DB) *Store {
	return &Store{db: db}
}

// Get retrieves the value stored under key
func (s *Store) Get(ctx context.Context, key string) ([]byte, error) {
	var rec Record
	if err := s.db.WithContext(ctx).Where("name = ?", key).First(&rec).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, storage.ErrNotFound
		}
		return nil, fmt.Errorf("failed to get %s: %w", key, err)
	}
	return []byte(rec.Value), nil
}

// Set inserts or replaces the value stored under key
func (s *Store) Set(ctx context.Context, key string, value []byte) error {
	rec := Record{
		Name:      key,
		Value:     string(value),
		UpdatedAt: time.Now().UTC(),
	}
	err := s.db.WithContext(ctx).Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "name"}},
		DoUpdates: clause.AssignmentColumns([]string{"value", "updated_at"}),
	}).Create(&rec).Error
	if err != nil {
		return fmt.Errorf("failed to set %s: %w", key, err)
	}
	return nil
}
