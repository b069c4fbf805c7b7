package valueobject

import (
	"fmt"
	"strings"
	"time"

	"github.com/ruudy-sib/postpone/internal/domain"
)

// DelayedTime is an immutable planned publish time with second precision,
// always expressed in UTC.
type DelayedTime struct {
	value time.Time
}

// NewDelayedTime truncates t to the second and converts it to UTC.
func NewDelayedTime(t time.Time) DelayedTime {
	return DelayedTime{value: t.UTC().Truncate(time.Second)}
}

// ParseDelayedTime accepts the fixed storage layout or RFC 3339.
func ParseDelayedTime(value string) (DelayedTime, error) {
	trimmed := strings.TrimSpace(value)
	if trimmed == "" {
		return DelayedTime{}, fmt.Errorf("delayed time must not be empty")
	}

	if t, err := time.ParseInLocation(domain.DelayedTimeLayout, trimmed, time.UTC); err == nil {
		return NewDelayedTime(t), nil
	}
	t, err := time.Parse(time.RFC3339, trimmed)
	if err != nil {
		return DelayedTime{}, fmt.Errorf("delayed time %q: expected %q or RFC 3339", trimmed, domain.DelayedTimeLayout)
	}
	return NewDelayedTime(t), nil
}

// Time returns the underlying time.
func (d DelayedTime) Time() time.Time {
	return d.value
}

// Unix returns the time as unix seconds.
func (d DelayedTime) Unix() int64 {
	return d.value.Unix()
}

// String formats the time in the fixed storage layout.
func (d DelayedTime) String() string {
	return d.value.Format(domain.DelayedTimeLayout)
}
