package secondary

import (
	"context"

	"github.com/ruudy-sib/postpone/internal/domain/entity"
)

// ContentStore defines the secondary port for the content storage pipeline.
type ContentStore interface {
	// Insert stores the item and returns its content ID. Storing the same
	// (UID, URI) twice returns the existing ID.
	Insert(ctx context.Context, item *entity.Item, notify bool) (int64, error)

	// URIID returns the internal URI id of stored content.
	URIID(ctx context.Context, contentID int64) (int64, error)
}

// TagKind distinguishes tag associations.
type TagKind int

const (
	TagHashtag TagKind = 1
	TagMention TagKind = 2
)

// TagStore defines the secondary port for tag associations.
type TagStore interface {
	Store(ctx context.Context, uriID int64, kind TagKind, name string) error
}

// MediaStore defines the secondary port for attachment storage.
type MediaStore interface {
	Insert(ctx context.Context, uriID int64, attachment entity.Attachment) error
}

// LegacySubmitter defines the secondary port for the synchronous submission
// path used by unprepared items. The item is processed as if the actor had
// posted it interactively.
type LegacySubmitter interface {
	Submit(ctx context.Context, actor entity.ActorContext, item *entity.Item) (int64, error)
}

// PublicationNotifier defines the secondary port for announcing stored content.
type PublicationNotifier interface {
	Notify(ctx context.Context, event entity.PublishedEvent) error

	// Close releases any resources held by the notifier.
	Close() error
}
