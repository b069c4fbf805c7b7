package sqlstore

import "time"

// delayedPost is a pending publication. The delayed column keeps the planned
// time as text in domain.DelayedTimeLayout.
type delayedPost struct {
	ID      uint64 `gorm:"primaryKey;autoIncrement"`
	URI     string `gorm:"type:varchar(255);not null;uniqueIndex:idx_delayed_post_uri_uid"`
	UID     int64  `gorm:"not null;uniqueIndex:idx_delayed_post_uri_uid;index:idx_delayed_post_uid"`
	Delayed string `gorm:"type:varchar(19);not null"`
	WID     string `gorm:"column:wid;type:varchar(64);not null"`
}

func (delayedPost) TableName() string { return "delayed_post" }

// contentURI maps a URI to its internal id.
type contentURI struct {
	ID  int64  `gorm:"primaryKey;autoIncrement"`
	URI string `gorm:"type:varchar(255);not null;uniqueIndex"`
}

func (contentURI) TableName() string { return "item_uri" }

// contentItem is stored content, one row per (uid, uri).
type contentItem struct {
	ID        int64  `gorm:"primaryKey;autoIncrement"`
	UID       int64  `gorm:"not null;uniqueIndex:idx_post_user_uid_uri"`
	URIID     int64  `gorm:"column:uri_id;not null;uniqueIndex:idx_post_user_uid_uri"`
	ExtID     string `gorm:"column:extid;type:varchar(255)"`
	Title     string `gorm:"type:text"`
	Body      string `gorm:"type:text"`
	Network   string `gorm:"type:varchar(4)"`
	Private   bool
	Notify    bool
	CreatedAt time.Time
}

func (contentItem) TableName() string { return "post_user" }

// postTag associates a tag with content.
type postTag struct {
	ID    int64  `gorm:"primaryKey;autoIncrement"`
	URIID int64  `gorm:"column:uri_id;not null;uniqueIndex:idx_post_tag"`
	Kind  int    `gorm:"not null;uniqueIndex:idx_post_tag"`
	Name  string `gorm:"type:varchar(128);not null;uniqueIndex:idx_post_tag"`
}

func (postTag) TableName() string { return "post_tag" }

// postMedia is an attachment of stored content.
type postMedia struct {
	ID          int64  `gorm:"primaryKey;autoIncrement"`
	URIID       int64  `gorm:"column:uri_id;not null;uniqueIndex:idx_post_media"`
	URL         string `gorm:"type:varchar(1024);not null;uniqueIndex:idx_post_media"`
	MimeType    string `gorm:"column:mimetype;type:varchar(64)"`
	Size        int64
	Description string `gorm:"type:text"`
}

func (postMedia) TableName() string { return "post_media" }
