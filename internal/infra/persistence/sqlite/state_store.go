package sqlite

import (
	"context"

	"dinein/internal/domain/repository"
	"dinein/internal/errors"
	"dinein/internal/infra/persistence/model"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

type stateStore struct {
	db *gorm.DB
}

// NewStateStore creates a StateStore over the client_state table.
func NewStateStore(db *gorm.DB) repository.StateStore {
	return &stateStore{db: db}
}

func (s *stateStore) Get(ctx context.Context, key string) (string, error) {
	var entry model.StateEntryModel
	err := s.db.WithContext(ctx).Where("state_key = ?", key).First(&entry).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return "", repository.ErrStateNotFound
		}

		return "", errors.Wrapf(err, "failed to read state %q", key)
	}

	return entry.Value, nil
}

func (s *stateStore) Set(ctx context.Context, key, value string) error {
	entry := model.StateEntryModel{Key: key, Value: value}
	err := s.db.WithContext(ctx).Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "state_key"}},
		DoUpdates: clause.AssignmentColumns([]string{"value", "updated_at"}),
	}).Create(&entry).Error

	return errors.Wrapf(err, "failed to write state %q", key)
}

func (s *stateStore) Delete(ctx context.Context, keys ...string) error {
	if len(keys) == 0 {
		return nil
	}

	err := s.db.WithContext(ctx).Where("state_key IN ?", keys).Delete(&model.StateEntryModel{}).Error

	return errors.Wrap(err, "failed to delete state")
}
