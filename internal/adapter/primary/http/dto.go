package http

import (
	"github.com/ruudy-sib/postpone/internal/domain"
	"github.com/ruudy-sib/postpone/internal/domain/entity"
)

// ItemDTO is the wire form of a content draft.
type ItemDTO struct {
	UID         int64           `json:"uid" validate:"gte=0"`
	URI         string          `json:"uri,omitempty" validate:"omitempty,max=255"`
	ExtID       string          `json:"extid,omitempty" validate:"omitempty,max=255"`
	Title       string          `json:"title,omitempty"`
	Body        string          `json:"body,omitempty"`
	Network     string          `json:"network,omitempty" validate:"omitempty,max=4"`
	Private     bool            `json:"private,omitempty"`
	Attachments []AttachmentDTO `json:"attachments,omitempty" validate:"omitempty,dive"`
}

// AttachmentDTO is the wire form of a media attachment.
type AttachmentDTO struct {
	URL         string `json:"url" validate:"required,url"`
	MimeType    string `json:"mimetype,omitempty" validate:"omitempty,max=64"`
	Size        int64  `json:"size,omitempty" validate:"gte=0"`
	Description string `json:"description,omitempty"`
}

// ScheduleRequest asks for an item to be published later. Delayed is an
// optional explicit time ("2006-01-02 15:04:05" UTC or RFC 3339).
type ScheduleRequest struct {
	URI         string          `json:"uri" validate:"omitempty,max=255"`
	Item        *ItemDTO        `json:"item"`
	Notify      bool            `json:"notify"`
	Unprepared  bool            `json:"unprepared"`
	Delayed     string          `json:"delayed,omitempty" validate:"omitempty,max=32"`
	Tags        []string        `json:"tags,omitempty" validate:"omitempty,max=64,dive,required,max=128"`
	Attachments []AttachmentDTO `json:"attachments,omitempty" validate:"omitempty,dive"`
}

// ScheduleResponse is returned when a publication has been scheduled.
type ScheduleResponse struct {
	ID      uint64 `json:"id"`
	Message string `json:"message"`
}

// ParametersResponse exposes the resolved parameters of a pending record.
type ParametersResponse struct {
	ID          uint64          `json:"id"`
	URI         string          `json:"uri"`
	Item        ItemDTO         `json:"item"`
	Notify      bool            `json:"notify"`
	Unprepared  bool            `json:"unprepared"`
	Tags        []string        `json:"tags"`
	Attachments []AttachmentDTO `json:"attachments"`
}

// PendingResponse answers an existence probe.
type PendingResponse struct {
	URI     string `json:"uri"`
	UID     int64  `json:"uid"`
	Pending bool   `json:"pending"`
}

// RecordDTO is the wire form of a pending record.
type RecordDTO struct {
	ID      uint64 `json:"id"`
	URI     string `json:"uri"`
	UID     int64  `json:"uid"`
	Delayed string `json:"delayed"`
}

// ErrorResponse is the standard error payload.
type ErrorResponse struct {
	Error string `json:"error"`
	Code  string `json:"code,omitempty"`
}

// HealthResponse is returned by the health check endpoint.
type HealthResponse struct {
	Status string            `json:"status"`
	Checks map[string]string `json:"checks"`
}

// toEntity converts a ScheduleRequest DTO to a domain submission.
func (r *ScheduleRequest) toEntity() *entity.Submission {
	sub := &entity.Submission{
		URI:         r.URI,
		Notify:      r.Notify,
		Unprepared:  r.Unprepared,
		Delayed:     r.Delayed,
		Tags:        r.Tags,
		Attachments: toAttachments(r.Attachments),
	}
	if r.Item != nil {
		sub.Item = &entity.Item{
			UID:         r.Item.UID,
			URI:         r.Item.URI,
			ExtID:       r.Item.ExtID,
			Title:       r.Item.Title,
			Body:        r.Item.Body,
			Network:     r.Item.Network,
			Private:     r.Item.Private,
			Attachments: toAttachments(r.Item.Attachments),
		}
	}
	return sub
}

func toAttachments(dtos []AttachmentDTO) []entity.Attachment {
	if len(dtos) == 0 {
		return nil
	}
	out := make([]entity.Attachment, len(dtos))
	for i, a := range dtos {
		out[i] = entity.Attachment(a)
	}
	return out
}

func fromAttachments(attachments []entity.Attachment) []AttachmentDTO {
	out := make([]AttachmentDTO, len(attachments))
	for i, a := range attachments {
		out[i] = AttachmentDTO(a)
	}
	return out
}

func fromParameters(id uint64, p *entity.SubmissionParameters) ParametersResponse {
	tags := p.Tags
	if tags == nil {
		tags = []string{}
	}
	return ParametersResponse{
		ID:  id,
		URI: p.URI,
		Item: ItemDTO{
			UID:     p.Item.UID,
			URI:     p.Item.URI,
			ExtID:   p.Item.ExtID,
			Title:   p.Item.Title,
			Body:    p.Item.Body,
			Network: p.Item.Network,
			Private: p.Item.Private,
		},
		Notify:      p.Notify,
		Unprepared:  p.Unprepared,
		Tags:        tags,
		Attachments: fromAttachments(p.Attachments),
	}
}

func fromRecords(records []*entity.DelayedRecord) []RecordDTO {
	out := make([]RecordDTO, len(records))
	for i, r := range records {
		out[i] = RecordDTO{
			ID:      r.ID,
			URI:     r.URI,
			UID:     r.UID,
			Delayed: r.Delayed.UTC().Format(domain.DelayedTimeLayout),
		}
	}
	return out
}
