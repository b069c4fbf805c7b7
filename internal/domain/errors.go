package domain

import "errors"

var (
	// ErrNotScheduled is wrapped by every rejected submission. The reason is
	// wrapped alongside it.
	ErrNotScheduled = errors.New("not scheduled")

	// ErrMissingActor indicates the item has no owning actor.
	ErrMissingActor = errors.New("item has no actor")

	// ErrInvalidSubmission indicates the submission failed validation.
	ErrInvalidSubmission = errors.New("invalid submission")

	// ErrDuplicateSubmission indicates a pending record already exists for
	// the same (uri, actor) pair.
	ErrDuplicateSubmission = errors.New("publication already pending")

	// ErrQueueRejected indicates the job queue refused the submission.
	ErrQueueRejected = errors.New("job queue rejected submission")

	// ErrQueueFull indicates the job queue reached its pending job limit.
	ErrQueueFull = errors.New("job queue full")

	// ErrRecordNotFound indicates the delayed record does not exist.
	ErrRecordNotFound = errors.New("delayed record not found")

	// ErrJobNotFound indicates the job handle is unknown to the queue or
	// belongs to another command.
	ErrJobNotFound = errors.New("job not found")

	// ErrParametersNotFound indicates stored submission parameters could not
	// be resolved for a record.
	ErrParametersNotFound = errors.New("submission parameters not found")

	// ErrInvalidParameters indicates stored job arguments failed to decode.
	ErrInvalidParameters = errors.New("invalid stored parameters")

	// ErrPublishFailed indicates the content could not be stored.
	ErrPublishFailed = errors.New("publish failed")
)
