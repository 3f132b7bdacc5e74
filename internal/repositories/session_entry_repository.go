package repositories

import (
	"context"
	"errors"
	"fmt"
	"time"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"rmgen/internal/models"
)

type SessionEntryRepository interface {
	Get(ctx context.Context, sessionID, key string) (*models.SessionEntry, error)
	Upsert(ctx context.Context, sessionID, key, value string) error
	Delete(ctx context.Context, sessionID, key string) error
	DeleteSession(ctx context.Context, sessionID string) error
	// PruneBefore deletes every session whose newest entry was written before
	// cutoff and returns how many rows went. Sessions are removed whole.
	PruneBefore(ctx context.Context, cutoff time.Time) (int64, error)
}

type sessionEntryRepository struct {
	db *gorm.DB
}

func NewSessionEntryRepository(db *gorm.DB) SessionEntryRepository {
	return &sessionEntryRepository{db: db}
}

func (r *sessionEntryRepository) Get(ctx context.Context, sessionID, key string) (*models.SessionEntry, error) {
	var entry models.SessionEntry
	res := r.db.WithContext(ctx).Where("session_id = ? AND item_key = ?", sessionID, key).Take(&entry)
	if res.Error != nil {
		if errors.Is(res.Error, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, res.Error
	}
	return &entry, nil
}

func (r *sessionEntryRepository) Upsert(ctx context.Context, sessionID, key, value string) error {
	if sessionID == "" {
		return fmt.Errorf("session id is required")
	}
	if key == "" {
		return fmt.Errorf("key is required")
	}
	entry := models.SessionEntry{
		SessionID: sessionID,
		Key:       key,
		Value:     value,
	}
	// Upsert on composite unique index
	return r.db.WithContext(ctx).Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "session_id"}, {Name: "item_key"}},
		DoUpdates: clause.AssignmentColumns([]string{"value", "updated_at"}),
	}).Create(&entry).Error
}

func (r *sessionEntryRepository) Delete(ctx context.Context, sessionID, key string) error {
	return r.db.WithContext(ctx).Where("session_id = ? AND item_key = ?", sessionID, key).Delete(&models.SessionEntry{}).Error
}

func (r *sessionEntryRepository) DeleteSession(ctx context.Context, sessionID string) error {
	return r.db.WithContext(ctx).Where("session_id = ?", sessionID).Delete(&models.SessionEntry{}).Error
}

func (r *sessionEntryRepository) PruneBefore(ctx context.Context, cutoff time.Time) (int64, error) {
	db := r.db.WithContext(ctx)
	idle := db.Model(&models.SessionEntry{}).
		Select("session_id").
		Group("session_id").
		Having("MAX(updated_at) < ?", cutoff)
	res := db.Where("session_id IN (?)", idle).Delete(&models.SessionEntry{})
	return res.RowsAffected, res.Error
}
