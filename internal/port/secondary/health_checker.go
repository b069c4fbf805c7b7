package secondary

import "context"

// HealthChecker reports on a backing dependency such as Redis or the
// database. Checks are expected to honour the context deadline.
type HealthChecker interface {
	Name() string
	Check(ctx context.Context) error
}
