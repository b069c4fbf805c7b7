package entity

import "time"

// PublishedEvent announces that delayed content has been stored and should
// be delivered.
type PublishedEvent struct {
	ContentID   int64     `json:"content_id"`
	URIID       int64     `json:"uri_id"`
	UID         int64     `json:"uid"`
	URI         string    `json:"uri"`
	PublishedAt time.Time `json:"published_at"`
}
