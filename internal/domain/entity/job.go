package entity

import (
	"math"
	"time"
)

// Job is a unit of work held by the job queue until its NotBefore time.
// Args is the verbatim payload stored at submission.
type Job struct {
	Handle     string
	Command    string
	Priority   int
	NotBefore  time.Time
	Attempt    int
	MaxRetries int
	BaseDelay  int
	Args       []byte
}

// IncrementAttempt advances the attempt counter by one.
func (j *Job) IncrementAttempt() {
	j.Attempt++
}

// HasRetriesLeft reports whether the job can be retried.
func (j *Job) HasRetriesLeft() bool {
	return j.Attempt <= j.MaxRetries
}

// NextRetryDelay calculates the exponential backoff delay for the current attempt.
// Formula: baseDelay * 2^(attempt-1)
func (j *Job) NextRetryDelay() time.Duration {
	exponent := float64(j.Attempt - 1)
	if exponent < 0 {
		exponent = 0
	}
	multiplier := math.Pow(2, exponent)
	return time.Duration(float64(j.BaseDelay)*multiplier) * time.Second
}
