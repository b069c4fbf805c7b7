package entity

// Item is a content draft waiting to be published on behalf of an actor.
type Item struct {
	UID     int64  `json:"uid"`
	URI     string `json:"uri,omitempty"`
	ExtID   string `json:"extid,omitempty"`
	Title   string `json:"title,omitempty"`
	Body    string `json:"body,omitempty"`
	Network string `json:"network,omitempty"`
	Private bool   `json:"private,omitempty"`

	// Attachments is filled right before the item is handed to storage.
	// Drafts stored by older releases may carry it embedded as well.
	Attachments []Attachment `json:"attachments,omitempty"`
}

// Attachment describes a media file linked to an item.
type Attachment struct {
	URL         string `json:"url"`
	MimeType    string `json:"mimetype,omitempty"`
	Size        int64  `json:"size,omitempty"`
	Description string `json:"description,omitempty"`
}

// HasActor reports whether the item is owned by an actor.
func (i *Item) HasActor() bool {
	return i != nil && i.UID > 0
}

// ActorContext is the authenticated identity a legacy submission runs as.
type ActorContext struct {
	UID           int64
	Authenticated bool
}

// NewActorContext returns an authenticated context for the item's owner.
func NewActorContext(item *Item) ActorContext {
	return ActorContext{UID: item.UID, Authenticated: item.HasActor()}
}
