package docstore

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"gorm.io/datatypes"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// Record - строка таблицы documents (jsonb)
type Record struct {
	Collection string         `gorm:"type:varchar(64);primaryKey"`
	ID         string         `gorm:"type:varchar(128);primaryKey"`
	Data       datatypes.JSON `gorm:"type:jsonb;not null"`
	CreatedAt  time.Time      `gorm:"autoCreateTime"`
	UpdatedAt  time.Time      `gorm:"autoUpdateTime"`
}

func (Record) TableName() string {
	return "documents"
}

// GormStore - Store поверх Postgres через GORM
type GormStore struct {
	db *gorm.DB
}

// NewGormStore создает хранилище; таблица должна быть смигрирована заранее
func NewGormStore(db *gorm.DB) *GormStore {
	return &GormStore{db: db}
}

func (s *GormStore) Get(ctx context.Context, collection, id string) (Document, error) {
	if err := validateKey(collection, id); err != nil {
		return nil, err
	}

	var rec Record
	err := s.db.WithContext(ctx).
		Where("collection = ? AND id = ?", collection, id).
		First(&rec).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("docstore: get %s/%s: %w", collection, id, err)
	}
	return decode(rec.Data)
}

func (s *GormStore) Set(ctx context.Context, collection, id string, doc Document) error {
	if err := validateKey(collection, id); err != nil {
		return err
	}
	raw, err := json.Marshal(doc)
	if err != nil {
		return fmt.Errorf("docstore: encode document: %w", err)
	}

	rec := Record{Collection: collection, ID: id, Data: datatypes.JSON(raw)}
	err = s.db.WithContext(ctx).
		Clauses(clause.OnConflict{
			Columns:   []clause.Column{{Name: "collection"}, {Name: "id"}},
			DoUpdates: clause.AssignmentColumns([]string{"data", "updated_at"}),
		}).
		Create(&rec).Error
	if err != nil {
		return fmt.Errorf("docstore: set %s/%s: %w", collection, id, err)
	}
	return nil
}

// Update - read-merge-write в транзакции с блокировкой строки
func (s *GormStore) Update(ctx context.Context, collection, id string, fields Document) error {
	if err := validateKey(collection, id); err != nil {
		return err
	}

	return s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var rec Record
		err := tx.Clauses(clause.Locking{Strength: "UPDATE"}).
			Where("collection = ? AND id = ?", collection, id).
			First(&rec).Error
		if err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return ErrNotFound
			}
			return fmt.Errorf("docstore: lock %s/%s: %w", collection, id, err)
		}

		current, err := decode(rec.Data)
		if err != nil {
			return err
		}
		raw, err := json.Marshal(merge(current, fields))
		if err != nil {
			return fmt.Errorf("docstore: encode document: %w", err)
		}

		result := tx.Model(&Record{}).
			Where("collection = ? AND id = ?", collection, id).
			Updates(map[string]interface{}{
				"data":       datatypes.JSON(raw),
				"updated_at": time.Now(),
			})
		if result.Error != nil {
			return fmt.Errorf("docstore: update %s/%s: %w", collection, id, result.Error)
		}
		if result.RowsAffected == 0 {
			return ErrNotFound
		}
		return nil
	})
}
