package sqlstore

import (
	"context"
	"errors"
	"fmt"
	"time"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/ruudy-sib/postpone/internal/domain"
	"github.com/ruudy-sib/postpone/internal/domain/entity"
	"github.com/ruudy-sib/postpone/internal/port/secondary"
)

// DelayedRecordStore implements secondary.DelayedRecordStore on the
// delayed_post table.
type DelayedRecordStore struct {
	db *gorm.DB
}

// NewDelayedRecordStore creates a gorm-backed record store.
func NewDelayedRecordStore(db *gorm.DB) *DelayedRecordStore {
	return &DelayedRecordStore{db: db}
}

var _ secondary.DelayedRecordStore = (*DelayedRecordStore)(nil)

// Insert adds the record unless one exists for (URI, UID).
func (s *DelayedRecordStore) Insert(ctx context.Context, record *entity.DelayedRecord) (bool, error) {
	row := delayedPost{
		URI:     record.URI,
		UID:     record.UID,
		Delayed: record.Delayed.UTC().Format(domain.DelayedTimeLayout),
		WID:     record.JobHandle,
	}

	res := s.db.WithContext(ctx).Clauses(clause.OnConflict{DoNothing: true}).Create(&row)
	if res.Error != nil {
		return false, fmt.Errorf("inserting delayed record: %w", res.Error)
	}
	if res.RowsAffected == 0 {
		return false, nil
	}

	record.ID = row.ID
	return true, nil
}

// Exists reports whether a record exists for (uri, uid).
func (s *DelayedRecordStore) Exists(ctx context.Context, uri string, uid int64) (bool, error) {
	var count int64
	err := s.db.WithContext(ctx).Model(&delayedPost{}).
		Where("uri = ? AND uid = ?", uri, uid).
		Count(&count).Error
	if err != nil {
		return false, fmt.Errorf("checking delayed record: %w", err)
	}
	return count > 0, nil
}

// Delete removes the record for (uri, uid).
func (s *DelayedRecordStore) Delete(ctx context.Context, uri string, uid int64) (bool, error) {
	res := s.db.WithContext(ctx).
		Where("uri = ? AND uid = ?", uri, uid).
		Delete(&delayedPost{})
	if res.Error != nil {
		return false, fmt.Errorf("deleting delayed record: %w", res.Error)
	}
	return res.RowsAffected > 0, nil
}

// Get returns the record with the given ID.
func (s *DelayedRecordStore) Get(ctx context.Context, id uint64) (*entity.DelayedRecord, error) {
	var row delayedPost
	err := s.db.WithContext(ctx).Where("id = ?", id).First(&row).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, fmt.Errorf("%w: id %d", domain.ErrRecordNotFound, id)
	}
	if err != nil {
		return nil, fmt.Errorf("loading delayed record %d: %w", id, err)
	}
	return toRecord(row)
}

// ListByActor returns the actor's records, earliest planned time first.
func (s *DelayedRecordStore) ListByActor(ctx context.Context, uid int64) ([]*entity.DelayedRecord, error) {
	var rows []delayedPost
	err := s.db.WithContext(ctx).
		Where("uid = ?", uid).
		Order("delayed ASC").Order("id ASC").
		Find(&rows).Error
	if err != nil {
		return nil, fmt.Errorf("listing delayed records: %w", err)
	}

	records := make([]*entity.DelayedRecord, 0, len(rows))
	for _, row := range rows {
		record, err := toRecord(row)
		if err != nil {
			return nil, err
		}
		records = append(records, record)
	}
	return records, nil
}

func toRecord(row delayedPost) (*entity.DelayedRecord, error) {
	delayed, err := time.ParseInLocation(domain.DelayedTimeLayout, row.Delayed, time.UTC)
	if err != nil {
		return nil, fmt.Errorf("parsing planned time of record %d: %w", row.ID, err)
	}
	return &entity.DelayedRecord{
		ID:        row.ID,
		URI:       row.URI,
		UID:       row.UID,
		Delayed:   delayed,
		JobHandle: row.WID,
	}, nil
}
