package secondary

import (
	"context"

	"github.com/ruudy-sib/postpone/internal/domain/entity"
)

// DelayedRecordStore defines the secondary port for the durable
// (uri, actor) -> job handle mapping of pending publications.
type DelayedRecordStore interface {
	// Insert stores the record and sets its ID. It reports false, without an
	// error, when a record for the same (URI, UID) already exists.
	Insert(ctx context.Context, record *entity.DelayedRecord) (bool, error)

	// Exists reports whether a record exists for (uri, uid).
	Exists(ctx context.Context, uri string, uid int64) (bool, error)

	// Delete removes the record for (uri, uid) and reports whether one existed.
	Delete(ctx context.Context, uri string, uid int64) (bool, error)

	// Get returns the record with the given ID.
	Get(ctx context.Context, id uint64) (*entity.DelayedRecord, error)

	// ListByActor returns the actor's records ordered by planned time.
	ListByActor(ctx context.Context, uid int64) ([]*entity.DelayedRecord, error)
}
