package entity

// Submission is a request to publish an item later.
// Delayed holds an explicit target time; empty means the planner decides.
type Submission struct {
	URI         string
	Item        *Item
	Notify      bool
	Unprepared  bool
	Delayed     string
	Tags        []string
	Attachments []Attachment
}

// Parameters returns the payload stored with the queued job.
func (s *Submission) Parameters() SubmissionParameters {
	var item Item
	if s.Item != nil {
		item = *s.Item
	}
	return SubmissionParameters{
		Item:        item,
		Notify:      s.Notify,
		Tags:        s.Tags,
		Attachments: s.Attachments,
		Unprepared:  s.Unprepared,
		URI:         s.URI,
	}
}

// SubmissionParameters is everything needed to execute a delayed publication.
type SubmissionParameters struct {
	Version     int          `json:"version"`
	Item        Item         `json:"item"`
	Notify      bool         `json:"notify"`
	Tags        []string     `json:"tags,omitempty"`
	Attachments []Attachment `json:"attachments,omitempty"`
	Unprepared  bool         `json:"unprepared,omitempty"`
	URI         string       `json:"uri,omitempty"`
}

// Normalize lifts attachments embedded in the item draft into the separate
// attachment list when none was recorded. Older releases stored them inside
// the draft.
func (p *SubmissionParameters) Normalize() {
	if len(p.Attachments) == 0 && len(p.Item.Attachments) > 0 {
		p.Attachments = p.Item.Attachments
	}
	p.Item.Attachments = nil
}
