package sqlstore

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"gorm.io/gorm"

	"github.com/ruudy-sib/postpone/internal/domain"
	"github.com/ruudy-sib/postpone/internal/domain/entity"
	"github.com/ruudy-sib/postpone/internal/port/secondary"
)

func setupDB(t *testing.T) *gorm.DB {
	t.Helper()
	db, err := Open("sqlite", ":memory:", zap.NewNop())
	require.NoError(t, err)
	t.Cleanup(func() {
		if sqlDB, err := db.DB(); err == nil {
			_ = sqlDB.Close()
		}
	})
	return db
}

func TestOpen_unknownDriver(t *testing.T) {
	_, err := Open("oracle", "", zap.NewNop())
	assert.Error(t, err)
}

func TestDelayedRecordStore_InsertIsIdempotent(t *testing.T) {
	store := NewDelayedRecordStore(setupDB(t))
	ctx := context.Background()
	planned := time.Date(2024, 5, 1, 10, 10, 0, 0, time.UTC)

	first := &entity.DelayedRecord{URI: "https://example.org/1", UID: 42, Delayed: planned, JobHandle: "job-1"}
	inserted, err := store.Insert(ctx, first)
	require.NoError(t, err)
	assert.True(t, inserted)
	assert.NotZero(t, first.ID)

	second := &entity.DelayedRecord{URI: "https://example.org/1", UID: 42, Delayed: planned.Add(time.Hour), JobHandle: "job-2"}
	inserted, err = store.Insert(ctx, second)
	require.NoError(t, err)
	assert.False(t, inserted)
	assert.Zero(t, second.ID)

	// The existing record is authoritative.
	got, err := store.Get(ctx, first.ID)
	require.NoError(t, err)
	assert.Equal(t, "job-1", got.JobHandle)
	assert.Equal(t, planned, got.Delayed)

	// Same URI for another actor is a separate record.
	other := &entity.DelayedRecord{URI: "https://example.org/1", UID: 43, Delayed: planned, JobHandle: "job-3"}
	inserted, err = store.Insert(ctx, other)
	require.NoError(t, err)
	assert.True(t, inserted)
}

func TestDelayedRecordStore_ExistsAndDelete(t *testing.T) {
	store := NewDelayedRecordStore(setupDB(t))
	ctx := context.Background()

	exists, err := store.Exists(ctx, "https://example.org/1", 42)
	require.NoError(t, err)
	assert.False(t, exists)

	_, err = store.Insert(ctx, &entity.DelayedRecord{URI: "https://example.org/1", UID: 42, Delayed: time.Now(), JobHandle: "job-1"})
	require.NoError(t, err)

	exists, err = store.Exists(ctx, "https://example.org/1", 42)
	require.NoError(t, err)
	assert.True(t, exists)

	exists, err = store.Exists(ctx, "https://example.org/1", 43)
	require.NoError(t, err)
	assert.False(t, exists)

	deleted, err := store.Delete(ctx, "https://example.org/1", 42)
	require.NoError(t, err)
	assert.True(t, deleted)

	deleted, err = store.Delete(ctx, "https://example.org/1", 42)
	require.NoError(t, err)
	assert.False(t, deleted)

	exists, err = store.Exists(ctx, "https://example.org/1", 42)
	require.NoError(t, err)
	assert.False(t, exists)
}

func TestDelayedRecordStore_GetMissing(t *testing.T) {
	store := NewDelayedRecordStore(setupDB(t))
	_, err := store.Get(context.Background(), 999)
	assert.ErrorIs(t, err, domain.ErrRecordNotFound)
}

func TestDelayedRecordStore_ListByActor(t *testing.T) {
	store := NewDelayedRecordStore(setupDB(t))
	ctx := context.Background()
	base := time.Date(2024, 5, 1, 10, 0, 0, 0, time.UTC)

	for i, offset := range []time.Duration{20 * time.Minute, 0, 10 * time.Minute} {
		_, err := store.Insert(ctx, &entity.DelayedRecord{
			URI:       "https://example.org/" + string(rune('a'+i)),
			UID:       42,
			Delayed:   base.Add(offset),
			JobHandle: "job",
		})
		require.NoError(t, err)
	}
	_, err := store.Insert(ctx, &entity.DelayedRecord{URI: "https://example.org/z", UID: 7, Delayed: base, JobHandle: "job"})
	require.NoError(t, err)

	records, err := store.ListByActor(ctx, 42)
	require.NoError(t, err)
	require.Len(t, records, 3)
	assert.Equal(t, "https://example.org/b", records[0].URI)
	assert.Equal(t, "https://example.org/c", records[1].URI)
	assert.Equal(t, "https://example.org/a", records[2].URI)

	records, err = store.ListByActor(ctx, 100)
	require.NoError(t, err)
	assert.Empty(t, records)
}

func TestContentStore_Insert(t *testing.T) {
	store := NewContentStore(setupDB(t))
	ctx := context.Background()

	item := &entity.Item{UID: 42, URI: "https://example.org/1", Title: "t", Body: "b"}
	id, err := store.Insert(ctx, item, true)
	require.NoError(t, err)
	assert.NotZero(t, id)

	again, err := store.Insert(ctx, &entity.Item{UID: 42, URI: "https://example.org/1"}, false)
	require.NoError(t, err)
	assert.Equal(t, id, again)

	// Another actor storing the same URI shares the uri id but not the item.
	otherID, err := store.Insert(ctx, &entity.Item{UID: 43, URI: "https://example.org/1"}, false)
	require.NoError(t, err)
	assert.NotEqual(t, id, otherID)

	uriID, err := store.URIID(ctx, id)
	require.NoError(t, err)
	otherURIID, err := store.URIID(ctx, otherID)
	require.NoError(t, err)
	assert.Equal(t, uriID, otherURIID)
}

func TestContentStore_InsertGeneratesURI(t *testing.T) {
	store := NewContentStore(setupDB(t))

	item := &entity.Item{UID: 42, Body: "no uri"}
	id, err := store.Insert(context.Background(), item, false)
	require.NoError(t, err)
	assert.NotZero(t, id)
	assert.Contains(t, item.URI, "urn:uuid:")
}

func TestContentStore_InsertRequiresActor(t *testing.T) {
	store := NewContentStore(setupDB(t))
	_, err := store.Insert(context.Background(), &entity.Item{URI: "x"}, false)
	assert.ErrorIs(t, err, domain.ErrMissingActor)
}

func storedTags(t *testing.T, db *gorm.DB, uriID int64, kind secondary.TagKind) []string {
	t.Helper()
	var names []string
	err := db.Model(&postTag{}).
		Where("uri_id = ? AND kind = ?", uriID, int(kind)).
		Order("id ASC").
		Pluck("name", &names).Error
	require.NoError(t, err)
	return names
}

func storedMedia(t *testing.T, db *gorm.DB, uriID int64) []entity.Attachment {
	t.Helper()
	var rows []postMedia
	require.NoError(t, db.Where("uri_id = ?", uriID).Order("id ASC").Find(&rows).Error)

	attachments := make([]entity.Attachment, 0, len(rows))
	for _, row := range rows {
		attachments = append(attachments, entity.Attachment{
			URL:         row.URL,
			MimeType:    row.MimeType,
			Size:        row.Size,
			Description: row.Description,
		})
	}
	return attachments
}

func TestContentStore_URIIDMissing(t *testing.T) {
	store := NewContentStore(setupDB(t))
	_, err := store.URIID(context.Background(), 12345)
	assert.ErrorIs(t, err, domain.ErrRecordNotFound)
}

func TestContentStore_Tags(t *testing.T) {
	store := NewContentStore(setupDB(t))
	ctx := context.Background()

	require.NoError(t, store.Store(ctx, 5, secondary.TagHashtag, "friendica"))
	require.NoError(t, store.Store(ctx, 5, secondary.TagHashtag, "test"))
	require.NoError(t, store.Store(ctx, 5, secondary.TagHashtag, "friendica"))
	require.NoError(t, store.Store(ctx, 5, secondary.TagMention, "alice"))

	tags := storedTags(t, store.db, 5, secondary.TagHashtag)
	assert.Equal(t, []string{"friendica", "test"}, tags)
}

func TestMediaStore_Insert(t *testing.T) {
	store := NewMediaStore(setupDB(t))
	ctx := context.Background()

	photo := entity.Attachment{URL: "https://example.org/a.png", MimeType: "image/png", Size: 1024, Description: "a"}
	require.NoError(t, store.Insert(ctx, 5, photo))
	require.NoError(t, store.Insert(ctx, 5, photo))
	require.NoError(t, store.Insert(ctx, 5, entity.Attachment{URL: "https://example.org/b.png"}))

	attachments := storedMedia(t, store.db, 5)
	require.Len(t, attachments, 2)
	assert.Equal(t, photo, attachments[0])
	assert.Equal(t, "https://example.org/b.png", attachments[1].URL)
}

func TestHealthCheck(t *testing.T) {
	hc := NewHealthCheck(setupDB(t))
	assert.Equal(t, "database", hc.Name())
	assert.NoError(t, hc.Check(context.Background()))
}
