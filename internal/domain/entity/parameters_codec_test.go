package entity

import (
	"errors"
	"reflect"
	"testing"

	"github.com/ruudy-sib/postpone/internal/domain"
)

func TestEncodeDecodeParameters_currentLayout(t *testing.T) {
	in := SubmissionParameters{
		Item:        Item{UID: 42, URI: "uri:1", Body: "hello"},
		Notify:      true,
		Tags:        []string{"friendica", "test"},
		Attachments: []Attachment{{URL: "https://example.com/a.png", MimeType: "image/png"}},
		URI:         "uri:1",
	}

	data, err := EncodeParameters(in)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	got, err := DecodeParameters(data)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if got.Version != domain.ParametersVersion {
		t.Fatalf("expected version %d, got %d", domain.ParametersVersion, got.Version)
	}
	in.Version = domain.ParametersVersion
	if !reflect.DeepEqual(*got, in) {
		t.Fatalf("decoded parameters mismatch:\n got %+v\nwant %+v", *got, in)
	}
}

func TestDecodeParameters_legacyPositional(t *testing.T) {
	tests := []struct {
		name           string
		payload        string
		wantNotify     bool
		wantUnprepared bool
		wantTags       []string
		wantURI        string
	}{
		{
			name:       "full positional payload",
			payload:    `[{"uid":42,"uri":"uri:1"},true,["a","b"],[],false,"uri:1"]`,
			wantNotify: true,
			wantTags:   []string{"a", "b"},
			wantURI:    "uri:1",
		},
		{
			name:           "numeric flags",
			payload:        `[{"uid":42},1,null,null,1,null]`,
			wantNotify:     true,
			wantUnprepared: true,
		},
		{
			name:           "string flags",
			payload:        `[{"uid":42},"0",[],[],"1","uri:9"]`,
			wantNotify:     false,
			wantTags:       []string{},
			wantURI:        "uri:9",
			wantUnprepared: true,
		},
		{
			name:    "trailing arguments missing",
			payload: `[{"uid":42}]`,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := DecodeParameters([]byte(tt.payload))
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if got.Version != domain.LegacyParametersVersion {
				t.Fatalf("expected legacy version, got %d", got.Version)
			}
			if got.Item.UID != 42 {
				t.Fatalf("expected uid 42, got %d", got.Item.UID)
			}
			if got.Notify != tt.wantNotify {
				t.Fatalf("notify = %v, want %v", got.Notify, tt.wantNotify)
			}
			if got.Unprepared != tt.wantUnprepared {
				t.Fatalf("unprepared = %v, want %v", got.Unprepared, tt.wantUnprepared)
			}
			if len(got.Tags) != len(tt.wantTags) {
				t.Fatalf("tags = %v, want %v", got.Tags, tt.wantTags)
			}
			if got.URI != tt.wantURI {
				t.Fatalf("uri = %q, want %q", got.URI, tt.wantURI)
			}
		})
	}
}

func TestDecodeParameters_invalid(t *testing.T) {
	payloads := []string{
		``,
		`not json`,
		`[]`,
		`["not an item"]`,
		`{"version":99,"item":{"uid":1}}`,
		`[{"uid":1},{"nested":true}]`,
	}

	for _, payload := range payloads {
		t.Run(payload, func(t *testing.T) {
			_, err := DecodeParameters([]byte(payload))
			if !errors.Is(err, domain.ErrInvalidParameters) {
				t.Fatalf("expected ErrInvalidParameters, got %v", err)
			}
		})
	}
}

func TestSubmissionParameters_Normalize(t *testing.T) {
	attachments := []Attachment{
		{URL: "https://example.com/a.png", MimeType: "image/png"},
		{URL: "https://example.com/b.jpg", MimeType: "image/jpeg"},
	}

	legacy, err := DecodeParameters([]byte(`[{"uid":42,"uri":"uri:1","attachments":[` +
		`{"url":"https://example.com/a.png","mimetype":"image/png"},` +
		`{"url":"https://example.com/b.jpg","mimetype":"image/jpeg"}]},true,[],null,false,"uri:1"]`))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	current := &SubmissionParameters{
		Item:        Item{UID: 42, URI: "uri:1"},
		Notify:      true,
		Attachments: attachments,
		URI:         "uri:1",
	}

	legacy.Normalize()
	current.Normalize()

	if !reflect.DeepEqual(legacy.Attachments, attachments) {
		t.Fatalf("legacy attachments = %+v, want %+v", legacy.Attachments, attachments)
	}
	if !reflect.DeepEqual(current.Attachments, attachments) {
		t.Fatalf("current attachments = %+v, want %+v", current.Attachments, attachments)
	}
	if legacy.Item.Attachments != nil {
		t.Fatal("expected embedded attachments to be stripped from the draft")
	}
}

func TestSubmissionParameters_Normalize_keepsExplicitAttachments(t *testing.T) {
	p := &SubmissionParameters{
		Item: Item{
			UID:         1,
			Attachments: []Attachment{{URL: "https://example.com/embedded.png"}},
		},
		Attachments: []Attachment{{URL: "https://example.com/explicit.png"}},
	}

	p.Normalize()

	if len(p.Attachments) != 1 || p.Attachments[0].URL != "https://example.com/explicit.png" {
		t.Fatalf("expected explicit attachments to win, got %+v", p.Attachments)
	}
	if p.Item.Attachments != nil {
		t.Fatal("expected embedded attachments to be stripped from the draft")
	}
}
