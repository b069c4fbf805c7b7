package entity

import "time"

// DelayedRecord tracks a queued publication. At most one record exists per
// (URI, UID) pair.
type DelayedRecord struct {
	ID        uint64
	URI       string
	UID       int64
	Delayed   time.Time
	JobHandle string
}
