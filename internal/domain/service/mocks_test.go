package service

import (
	"context"
	"fmt"
	"sort"
	"sync"
	"time"

	"github.com/ruudy-sib/postpone/internal/domain"
	"github.com/ruudy-sib/postpone/internal/domain/entity"
	"github.com/ruudy-sib/postpone/internal/port/secondary"
)

// mockQueue implements secondary.JobQueue in memory.
type mockQueue struct {
	mu         sync.Mutex
	submitFunc func(ctx context.Context, job *entity.Job) (string, error)
	fetchFunc  func(ctx context.Context, limit int) ([]*entity.Job, error)
	retryFunc  func(ctx context.Context, job *entity.Job, delay time.Duration) error

	jobs      map[string]*entity.Job
	submitted []*entity.Job
	retried   []retryCall
	removed   []string
	seq       int
	sampled   int
}

type retryCall struct {
	Job   *entity.Job
	Delay time.Duration
}

func newMockQueue() *mockQueue {
	return &mockQueue{jobs: make(map[string]*entity.Job)}
}

func (m *mockQueue) Submit(ctx context.Context, job *entity.Job) (string, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	if m.submitFunc != nil {
		if _, err := m.submitFunc(ctx, job); err != nil {
			return "", err
		}
	}
	m.seq++
	job.Handle = fmt.Sprintf("job-%d", m.seq)
	m.jobs[job.Handle] = job
	m.submitted = append(m.submitted, job)
	return job.Handle, nil
}

func (m *mockQueue) Arguments(_ context.Context, handle, command string) ([]byte, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	job, ok := m.jobs[handle]
	if !ok || job.Command != command {
		return nil, domain.ErrJobNotFound
	}
	return job.Args, nil
}

func (m *mockQueue) FetchDue(ctx context.Context, limit int) ([]*entity.Job, error) {
	if m.fetchFunc != nil {
		return m.fetchFunc(ctx, limit)
	}
	return nil, nil
}

func (m *mockQueue) Retry(ctx context.Context, job *entity.Job, delay time.Duration) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.retried = append(m.retried, retryCall{Job: job, Delay: delay})
	if m.retryFunc != nil {
		return m.retryFunc(ctx, job, delay)
	}
	return nil
}

func (m *mockQueue) Remove(_ context.Context, handle string) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	delete(m.jobs, handle)
	m.removed = append(m.removed, handle)
	return nil
}

func (m *mockQueue) Pending(_ context.Context) (int64, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.sampled++
	return int64(len(m.jobs)), nil
}

func (m *mockQueue) pending() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.jobs)
}

type recordKey struct {
	uri string
	uid int64
}

// mockRecords implements secondary.DelayedRecordStore in memory.
type mockRecords struct {
	mu         sync.Mutex
	insertFunc func(ctx context.Context, record *entity.DelayedRecord) (bool, error)
	existsErr  error

	byKey map[recordKey]*entity.DelayedRecord
	seq   uint64
}

func newMockRecords() *mockRecords {
	return &mockRecords{byKey: make(map[recordKey]*entity.DelayedRecord)}
}

func (m *mockRecords) Insert(ctx context.Context, record *entity.DelayedRecord) (bool, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	if m.insertFunc != nil {
		return m.insertFunc(ctx, record)
	}
	key := recordKey{uri: record.URI, uid: record.UID}
	if _, ok := m.byKey[key]; ok {
		return false, nil
	}
	m.seq++
	record.ID = m.seq
	stored := *record
	m.byKey[key] = &stored
	return true, nil
}

func (m *mockRecords) Exists(_ context.Context, uri string, uid int64) (bool, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	if m.existsErr != nil {
		return false, m.existsErr
	}
	_, ok := m.byKey[recordKey{uri: uri, uid: uid}]
	return ok, nil
}

func (m *mockRecords) Delete(_ context.Context, uri string, uid int64) (bool, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	key := recordKey{uri: uri, uid: uid}
	_, ok := m.byKey[key]
	delete(m.byKey, key)
	return ok, nil
}

func (m *mockRecords) Get(_ context.Context, id uint64) (*entity.DelayedRecord, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	for _, r := range m.byKey {
		if r.ID == id {
			stored := *r
			return &stored, nil
		}
	}
	return nil, domain.ErrRecordNotFound
}

func (m *mockRecords) ListByActor(_ context.Context, uid int64) ([]*entity.DelayedRecord, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	var out []*entity.DelayedRecord
	for _, r := range m.byKey {
		if r.UID == uid {
			stored := *r
			out = append(out, &stored)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Delayed.Before(out[j].Delayed) })
	return out, nil
}

func (m *mockRecords) count() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.byKey)
}

// mockConfig implements secondary.ActorConfig in memory.
type mockConfig struct {
	mu        sync.Mutex
	raiseFunc func(uid int64, value int64) error
	values    map[string]int64
	gets      []string
}

func newMockConfig() *mockConfig {
	return &mockConfig{values: make(map[string]int64)}
}

func configKey(uid int64, namespace, key string) string {
	return fmt.Sprintf("%d/%s/%s", uid, namespace, key)
}

func (m *mockConfig) Get(_ context.Context, uid int64, namespace, key string, fallback int64) (int64, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.gets = append(m.gets, key)
	if v, ok := m.values[configKey(uid, namespace, key)]; ok {
		return v, nil
	}
	return fallback, nil
}

func (m *mockConfig) Set(_ context.Context, uid int64, namespace, key string, value int64) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.values[configKey(uid, namespace, key)] = value
	return nil
}

func (m *mockConfig) Raise(_ context.Context, uid int64, namespace, key string, value int64) (int64, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	if m.raiseFunc != nil {
		if err := m.raiseFunc(uid, value); err != nil {
			return 0, err
		}
	}
	k := configKey(uid, namespace, key)
	if cur, ok := m.values[k]; ok && cur >= value {
		return cur, nil
	}
	m.values[k] = value
	return value, nil
}

func (m *mockConfig) watermark(uid int64) (int64, bool) {
	m.mu.Lock()
	defer m.mu.Unlock()
	v, ok := m.values[configKey(uid, domain.ConfigNamespace, domain.KeyLastPublish)]
	return v, ok
}

func (m *mockConfig) consulted(key string) bool {
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, k := range m.gets {
		if k == key {
			return true
		}
	}
	return false
}

// mockContent implements secondary.ContentStore.
type mockContent struct {
	insertFunc func(ctx context.Context, item *entity.Item, notify bool) (int64, error)
	uriIDs     map[int64]int64

	inserted []insertCall
}

type insertCall struct {
	Item   entity.Item
	Notify bool
}

func (m *mockContent) Insert(ctx context.Context, item *entity.Item, notify bool) (int64, error) {
	m.inserted = append(m.inserted, insertCall{Item: *item, Notify: notify})
	if m.insertFunc != nil {
		return m.insertFunc(ctx, item, notify)
	}
	return int64(len(m.inserted)), nil
}

func (m *mockContent) URIID(_ context.Context, contentID int64) (int64, error) {
	if id, ok := m.uriIDs[contentID]; ok {
		return id, nil
	}
	return contentID + 1000, nil
}

// mockTags implements secondary.TagStore.
type mockTags struct {
	stored []tagCall
}

type tagCall struct {
	URIID int64
	Kind  secondary.TagKind
	Name  string
}

func (m *mockTags) Store(_ context.Context, uriID int64, kind secondary.TagKind, name string) error {
	m.stored = append(m.stored, tagCall{URIID: uriID, Kind: kind, Name: name})
	return nil
}

// mockMedia implements secondary.MediaStore.
type mockMedia struct {
	stored []mediaCall
}

type mediaCall struct {
	URIID      int64
	Attachment entity.Attachment
}

func (m *mockMedia) Insert(_ context.Context, uriID int64, attachment entity.Attachment) error {
	m.stored = append(m.stored, mediaCall{URIID: uriID, Attachment: attachment})
	return nil
}

// mockLegacy implements secondary.LegacySubmitter.
type mockLegacy struct {
	submitFunc func(ctx context.Context, actor entity.ActorContext, item *entity.Item) (int64, error)

	calls []legacyCall
}

type legacyCall struct {
	Actor entity.ActorContext
	Item  entity.Item
}

func (m *mockLegacy) Submit(ctx context.Context, actor entity.ActorContext, item *entity.Item) (int64, error) {
	m.calls = append(m.calls, legacyCall{Actor: actor, Item: *item})
	if m.submitFunc != nil {
		return m.submitFunc(ctx, actor, item)
	}
	return 77, nil
}

// mockNotifier implements secondary.PublicationNotifier.
type mockNotifier struct {
	events []entity.PublishedEvent
}

func (m *mockNotifier) Notify(_ context.Context, event entity.PublishedEvent) error {
	m.events = append(m.events, event)
	return nil
}

func (m *mockNotifier) Close() error {
	return nil
}

// fixture bundles a service with its in-memory collaborators.
type fixture struct {
	queue    *mockQueue
	records  *mockRecords
	config   *mockConfig
	content  *mockContent
	tags     *mockTags
	media    *mockMedia
	legacy   *mockLegacy
	notifier *mockNotifier
	now      time.Time
}

func newFixture() *fixture {
	return &fixture{
		queue:    newMockQueue(),
		records:  newMockRecords(),
		config:   newMockConfig(),
		content:  &mockContent{},
		tags:     &mockTags{},
		media:    &mockMedia{},
		legacy:   &mockLegacy{},
		notifier: &mockNotifier{},
		now:      time.Date(2024, 5, 1, 10, 0, 0, 0, time.UTC),
	}
}

func (f *fixture) service(opts Options) *PublishService {
	if opts.Now == nil {
		opts.Now = func() time.Time { return f.now }
	}
	return NewPublishService(Dependencies{
		Queue:    f.queue,
		Records:  f.records,
		Config:   f.config,
		Content:  f.content,
		Tags:     f.tags,
		Media:    f.media,
		Legacy:   f.legacy,
		Notifier: f.notifier,
	}, opts, zapNop())
}

// testSubmission returns a standard submission fixture.
func testSubmission(uri string) *entity.Submission {
	return &entity.Submission{
		URI:    uri,
		Item:   &entity.Item{UID: 42, URI: uri, Body: "hello"},
		Notify: true,
		Tags:   []string{"friendica", "test"},
	}
}

var _ secondary.JobQueue = (*mockQueue)(nil)
var _ secondary.DelayedRecordStore = (*mockRecords)(nil)
var _ secondary.ActorConfig = (*mockConfig)(nil)
