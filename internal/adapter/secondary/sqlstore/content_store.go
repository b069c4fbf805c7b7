package sqlstore

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/ruudy-sib/postpone/internal/domain"
	"github.com/ruudy-sib/postpone/internal/domain/entity"
	"github.com/ruudy-sib/postpone/internal/port/secondary"
)

// ContentStore implements secondary.ContentStore and secondary.TagStore.
type ContentStore struct {
	db *gorm.DB
}

// NewContentStore creates a gorm-backed content store.
func NewContentStore(db *gorm.DB) *ContentStore {
	return &ContentStore{db: db}
}

var (
	_ secondary.ContentStore = (*ContentStore)(nil)
	_ secondary.TagStore     = (*ContentStore)(nil)
	_ secondary.MediaStore   = (*MediaStore)(nil)
)

// Insert stores the item and returns its content ID. An item without a URI
// is given a generated one. Storing an existing (UID, URI) returns the
// existing ID.
func (s *ContentStore) Insert(ctx context.Context, item *entity.Item, notify bool) (int64, error) {
	if !item.HasActor() {
		return 0, domain.ErrMissingActor
	}
	if item.URI == "" {
		item.URI = "urn:uuid:" + uuid.NewString()
	}

	var id int64
	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		uriID, err := resolveURI(tx, item.URI)
		if err != nil {
			return err
		}

		row := contentItem{
			UID:     item.UID,
			URIID:   uriID,
			ExtID:   item.ExtID,
			Title:   item.Title,
			Body:    item.Body,
			Network: item.Network,
			Private: item.Private,
			Notify:  notify,
		}
		res := tx.Clauses(clause.OnConflict{DoNothing: true}).Create(&row)
		if res.Error != nil {
			return fmt.Errorf("inserting item: %w", res.Error)
		}
		if res.RowsAffected > 0 {
			id = row.ID
			return nil
		}

		var existing contentItem
		if err := tx.Where("uid = ? AND uri_id = ?", item.UID, uriID).First(&existing).Error; err != nil {
			return fmt.Errorf("loading existing item: %w", err)
		}
		id = existing.ID
		return nil
	})
	if err != nil {
		return 0, err
	}
	return id, nil
}

func resolveURI(tx *gorm.DB, uri string) (int64, error) {
	row := contentURI{URI: uri}
	if err := tx.Clauses(clause.OnConflict{DoNothing: true}).Create(&row).Error; err != nil {
		return 0, fmt.Errorf("inserting uri: %w", err)
	}
	if row.ID != 0 {
		return row.ID, nil
	}

	if err := tx.Where("uri = ?", uri).First(&row).Error; err != nil {
		return 0, fmt.Errorf("loading uri: %w", err)
	}
	return row.ID, nil
}

// URIID returns the internal URI id of the stored content.
func (s *ContentStore) URIID(ctx context.Context, contentID int64) (int64, error) {
	var row contentItem
	err := s.db.WithContext(ctx).Select("uri_id").Where("id = ?", contentID).First(&row).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return 0, fmt.Errorf("%w: content %d", domain.ErrRecordNotFound, contentID)
	}
	if err != nil {
		return 0, fmt.Errorf("loading content %d: %w", contentID, err)
	}
	return row.URIID, nil
}

// Store associates a tag with the content. Existing associations are kept.
func (s *ContentStore) Store(ctx context.Context, uriID int64, kind secondary.TagKind, name string) error {
	row := postTag{URIID: uriID, Kind: int(kind), Name: name}
	if err := s.db.WithContext(ctx).Clauses(clause.OnConflict{DoNothing: true}).Create(&row).Error; err != nil {
		return fmt.Errorf("storing tag %q: %w", name, err)
	}
	return nil
}

// MediaStore implements secondary.MediaStore on the post_media table.
type MediaStore struct {
	db *gorm.DB
}

// NewMediaStore creates a gorm-backed media store.
func NewMediaStore(db *gorm.DB) *MediaStore {
	return &MediaStore{db: db}
}

// Insert appends an attachment to the content. An attachment whose URL is
// already stored for the content is ignored.
func (s *MediaStore) Insert(ctx context.Context, uriID int64, attachment entity.Attachment) error {
	row := postMedia{
		URIID:       uriID,
		URL:         attachment.URL,
		MimeType:    attachment.MimeType,
		Size:        attachment.Size,
		Description: attachment.Description,
	}
	if err := s.db.WithContext(ctx).Clauses(clause.OnConflict{DoNothing: true}).Create(&row).Error; err != nil {
		return fmt.Errorf("storing attachment %q: %w", attachment.URL, err)
	}
	return nil
}
