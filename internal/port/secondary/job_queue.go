package secondary

import (
	"context"
	"time"

	"github.com/ruudy-sib/postpone/internal/domain/entity"
)

// JobQueue defines the secondary port for the background job queue.
// Jobs become eligible for execution at or after their NotBefore time.
type JobQueue interface {
	// Submit stores the job and returns its opaque handle.
	Submit(ctx context.Context, job *entity.Job) (string, error)

	// Arguments returns the verbatim arguments stored with the job, provided
	// the job was submitted under command.
	Arguments(ctx context.Context, handle, command string) ([]byte, error)

	// FetchDue claims up to limit jobs whose NotBefore time has passed.
	FetchDue(ctx context.Context, limit int) ([]*entity.Job, error)

	// Retry puts a claimed job back with the given delay from now.
	Retry(ctx context.Context, job *entity.Job, delay time.Duration) error

	// Remove drops a job and its stored arguments. Unknown handles are ignored.
	Remove(ctx context.Context, handle string) error

	// Pending returns the number of jobs waiting to run.
	Pending(ctx context.Context) (int64, error)
}
