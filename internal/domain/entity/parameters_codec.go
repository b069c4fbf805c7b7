package entity

import (
	"bytes"
	"encoding/json"
	"fmt"
	"strconv"
	"strings"

	"github.com/ruudy-sib/postpone/internal/domain"
)

// EncodeParameters serializes parameters in the current versioned layout.
func EncodeParameters(p SubmissionParameters) ([]byte, error) {
	p.Version = domain.ParametersVersion
	data, err := json.Marshal(p)
	if err != nil {
		return nil, fmt.Errorf("encoding submission parameters: %w", err)
	}
	return data, nil
}

// DecodeParameters parses stored job arguments. Both the current named layout
// and the legacy positional layout are accepted. The result is not
// normalized.
func DecodeParameters(data []byte) (*SubmissionParameters, error) {
	trimmed := bytes.TrimSpace(data)
	if len(trimmed) == 0 {
		return nil, fmt.Errorf("%w: empty payload", domain.ErrInvalidParameters)
	}

	if trimmed[0] == '[' {
		return decodeLegacyParameters(trimmed)
	}

	var p SubmissionParameters
	if err := json.Unmarshal(trimmed, &p); err != nil {
		return nil, fmt.Errorf("%w: %v", domain.ErrInvalidParameters, err)
	}
	if p.Version == 0 {
		p.Version = domain.ParametersVersion
	}
	if p.Version > domain.ParametersVersion {
		return nil, fmt.Errorf("%w: unsupported version %d", domain.ErrInvalidParameters, p.Version)
	}
	return &p, nil
}

// decodeLegacyParameters reads the positional layout
// [item, notify, taglist, attachments, unprepared, uri] written before
// parameters were versioned. Trailing elements may be missing.
func decodeLegacyParameters(data []byte) (*SubmissionParameters, error) {
	var args []json.RawMessage
	if err := json.Unmarshal(data, &args); err != nil {
		return nil, fmt.Errorf("%w: %v", domain.ErrInvalidParameters, err)
	}
	if len(args) == 0 {
		return nil, fmt.Errorf("%w: no item in positional arguments", domain.ErrInvalidParameters)
	}

	p := &SubmissionParameters{Version: domain.LegacyParametersVersion}
	if err := json.Unmarshal(args[0], &p.Item); err != nil {
		return nil, fmt.Errorf("%w: item: %v", domain.ErrInvalidParameters, err)
	}

	var err error
	if len(args) > 1 {
		if p.Notify, err = looseBool(args[1]); err != nil {
			return nil, fmt.Errorf("%w: notify: %v", domain.ErrInvalidParameters, err)
		}
	}
	if len(args) > 2 && !isNull(args[2]) {
		if err := json.Unmarshal(args[2], &p.Tags); err != nil {
			return nil, fmt.Errorf("%w: taglist: %v", domain.ErrInvalidParameters, err)
		}
	}
	if len(args) > 3 && !isNull(args[3]) {
		if err := json.Unmarshal(args[3], &p.Attachments); err != nil {
			return nil, fmt.Errorf("%w: attachments: %v", domain.ErrInvalidParameters, err)
		}
	}
	if len(args) > 4 {
		if p.Unprepared, err = looseBool(args[4]); err != nil {
			return nil, fmt.Errorf("%w: unprepared: %v", domain.ErrInvalidParameters, err)
		}
	}
	if len(args) > 5 && !isNull(args[5]) {
		if err := json.Unmarshal(args[5], &p.URI); err != nil {
			return nil, fmt.Errorf("%w: uri: %v", domain.ErrInvalidParameters, err)
		}
	}

	return p, nil
}

// looseBool accepts JSON booleans, numbers and numeric or boolean strings.
func looseBool(raw json.RawMessage) (bool, error) {
	if isNull(raw) {
		return false, nil
	}

	var b bool
	if err := json.Unmarshal(raw, &b); err == nil {
		return b, nil
	}

	var n float64
	if err := json.Unmarshal(raw, &n); err == nil {
		return n != 0, nil
	}

	var s string
	if err := json.Unmarshal(raw, &s); err != nil {
		return false, fmt.Errorf("unexpected value %s", raw)
	}
	s = strings.TrimSpace(s)
	if s == "" {
		return false, nil
	}
	return strconv.ParseBool(s)
}

func isNull(raw json.RawMessage) bool {
	return len(raw) == 0 || string(bytes.TrimSpace(raw)) == "null"
}
