package http

import (
	"context"

	"github.com/ruudy-sib/postpone/internal/domain/entity"
	"github.com/ruudy-sib/postpone/internal/port/secondary"
)

// mockPublishService implements primary.PublishService for testing.
type mockPublishService struct {
	scheduleFunc   func(ctx context.Context, sub *entity.Submission) (uint64, error)
	pendingFunc    func(ctx context.Context, uri string, uid int64) (bool, error)
	byActorFunc    func(ctx context.Context, uid int64) ([]*entity.DelayedRecord, error)
	parametersFunc func(ctx context.Context, id uint64) (*entity.SubmissionParameters, error)

	scheduled     []*entity.Submission
	processCalled int
}

func (m *mockPublishService) Schedule(ctx context.Context, sub *entity.Submission) (uint64, error) {
	m.scheduled = append(m.scheduled, sub)
	if m.scheduleFunc != nil {
		return m.scheduleFunc(ctx, sub)
	}
	return 1, nil
}

func (m *mockPublishService) Pending(ctx context.Context, uri string, uid int64) (bool, error) {
	if m.pendingFunc != nil {
		return m.pendingFunc(ctx, uri, uid)
	}
	return false, nil
}

func (m *mockPublishService) PendingByActor(ctx context.Context, uid int64) ([]*entity.DelayedRecord, error) {
	if m.byActorFunc != nil {
		return m.byActorFunc(ctx, uid)
	}
	return nil, nil
}

func (m *mockPublishService) Parameters(ctx context.Context, id uint64) (*entity.SubmissionParameters, error) {
	if m.parametersFunc != nil {
		return m.parametersFunc(ctx, id)
	}
	return &entity.SubmissionParameters{}, nil
}

func (m *mockPublishService) Publish(_ context.Context, _ *entity.SubmissionParameters) (int64, error) {
	return 0, nil
}

func (m *mockPublishService) ProcessDueJobs(_ context.Context) error {
	m.processCalled++
	return nil
}

// mockHealthCheck is a test double for health checks.
type mockHealthCheck struct {
	name string
	err  error
}

func (m mockHealthCheck) Name() string {
	return m.name
}

func (m mockHealthCheck) Check(_ context.Context) error {
	return m.err
}

// Compile-time interface assertion
var _ secondary.HealthChecker = mockHealthCheck{}

// toHealthCheckers converts a slice of mocks to a slice of the interface.
func toHealthCheckers(mocks []mockHealthCheck) []secondary.HealthChecker {
	if len(mocks) == 0 {
		return nil
	}
	result := make([]secondary.HealthChecker, len(mocks))
	for i, m := range mocks {
		result[i] = m
	}
	return result
}
