package primary

import (
	"context"

	"github.com/ruudy-sib/postpone/internal/domain/entity"
)

// PublishService defines the primary port for delayed publication
// exposed to driving adapters (HTTP handlers, worker, embedding API).
type PublishService interface {
	// Schedule plans a delayed publication and returns the new record ID.
	Schedule(ctx context.Context, sub *entity.Submission) (uint64, error)

	// Pending reports whether a publication is pending for (uri, uid).
	Pending(ctx context.Context, uri string, uid int64) (bool, error)

	// PendingByActor lists the pending records of an actor.
	PendingByActor(ctx context.Context, uid int64) ([]*entity.DelayedRecord, error)

	// Parameters resolves a record back to its normalized submission parameters.
	Parameters(ctx context.Context, recordID uint64) (*entity.SubmissionParameters, error)

	// Publish stores the content described by params and returns its ID.
	Publish(ctx context.Context, params *entity.SubmissionParameters) (int64, error)

	// ProcessDueJobs fetches and executes all jobs whose not-before time has passed.
	ProcessDueJobs(ctx context.Context) error
}
