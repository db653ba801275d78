package recognitionService

import (
	"AttendanceGolang/internal/api/recognition"
	"AttendanceGolang/internal/entity"
	"context"
	"sync"
	"testing"
	"time"

	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeLister struct {
	mu      sync.Mutex
	records []entity.FaceRecord
	err     error
	calls   int
}

func (f *fakeLister) ListEnrolledFaces(context.Context) ([]entity.FaceRecord, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.calls++
	if f.err != nil {
		return nil, f.err
	}
	return append([]entity.FaceRecord(nil), f.records...), nil
}

func (f *fakeLister) set(records []entity.FaceRecord, err error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.records = records
	f.err = err
}

func (f *fakeLister) loadCount() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.calls
}

type fakeClock struct {
	mu sync.Mutex
	t  time.Time
}

func (c *fakeClock) now() time.Time {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.t
}

func (c *fakeClock) advance(d time.Duration) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.t = c.t.Add(d)
}

func newTestCache(lister *fakeLister, ttl time.Duration) (*FaceCache, *fakeClock) {
	log := logrus.New()
	log.SetLevel(logrus.PanicLevel)

	clock := &fakeClock{t: time.Date(2026, 9, 1, 8, 0, 0, 0, time.UTC)}
	cache := NewFaceCache(log, lister, ttl)
	cache.now = clock.now
	return cache, clock
}

func TestFaceCacheTTL(t *testing.T) {
	lister := &fakeLister{records: []entity.FaceRecord{record("S1", 0.1)}}
	cache, clock := newTestCache(lister, 60*time.Second)
	ctx := context.Background()

	records, err := cache.Records(ctx)
	require.NoError(t, err)
	assert.Len(t, records, 1)
	assert.Equal(t, 1, lister.loadCount())

	// Half the TTL later the snapshot is still fresh: no reload.
	clock.advance(30 * time.Second)
	_, err = cache.Records(ctx)
	require.NoError(t, err)
	assert.Equal(t, 1, lister.loadCount())

	// Just past the TTL the next read reloads.
	clock.advance(31 * time.Second)
	_, err = cache.Records(ctx)
	require.NoError(t, err)
	assert.Equal(t, 2, lister.loadCount())
}

func TestFaceCacheServesStaleOnRefreshFailure(t *testing.T) {
	lister := &fakeLister{records: []entity.FaceRecord{record("S1", 0.1)}}
	cache, clock := newTestCache(lister, 60*time.Second)
	ctx := context.Background()

	_, err := cache.Records(ctx)
	require.NoError(t, err)

	lister.set(nil, recognition.ErrStoreUnavailable)
	clock.advance(2 * time.Minute)

	records, err := cache.Records(ctx)
	require.NoError(t, err, "a stale snapshot beats failing the capture")
	require.Len(t, records, 1)
	assert.Equal(t, "S1", records[0].StudentNumber)
}

func TestFaceCacheFailsWithoutAnySnapshot(t *testing.T) {
	lister := &fakeLister{err: recognition.ErrStoreUnavailable}
	cache, _ := newTestCache(lister, 60*time.Second)

	_, err := cache.Records(context.Background())
	assert.ErrorIs(t, err, recognition.ErrStoreUnavailable)
}

func TestFaceCacheSnapshotIsImmutable(t *testing.T) {
	lister := &fakeLister{records: []entity.FaceRecord{record("S1", 0.1), record("S2", 0.2)}}
	cache, clock := newTestCache(lister, 60*time.Second)
	ctx := context.Background()

	first, err := cache.Records(ctx)
	require.NoError(t, err)
	require.Len(t, first, 2)

	lister.set([]entity.FaceRecord{record("S9", 0.9)}, nil)
	clock.advance(2 * time.Minute)

	second, err := cache.Records(ctx)
	require.NoError(t, err)
	require.Len(t, second, 1)

	// The old snapshot a reader may still hold is untouched by the swap.
	assert.Equal(t, "S1", first[0].StudentNumber)
	assert.Equal(t, "S2", first[1].StudentNumber)
}

func TestFaceCacheSortsByStudentNumber(t *testing.T) {
	lister := &fakeLister{records: []entity.FaceRecord{
		record("S3", 0.3),
		record("S1", 0.1),
		record("S2", 0.2),
	}}
	cache, _ := newTestCache(lister, 60*time.Second)

	records, err := cache.Records(context.Background())
	require.NoError(t, err)
	require.Len(t, records, 3)
	assert.Equal(t, "S1", records[0].StudentNumber)
	assert.Equal(t, "S2", records[1].StudentNumber)
	assert.Equal(t, "S3", records[2].StudentNumber)
}

func TestFaceCacheInvalidateForcesReload(t *testing.T) {
	lister := &fakeLister{records: []entity.FaceRecord{record("S1", 0.1)}}
	cache, _ := newTestCache(lister, 60*time.Second)
	ctx := context.Background()

	_, err := cache.Records(ctx)
	require.NoError(t, err)
	assert.Equal(t, 1, lister.loadCount())

	cache.Invalidate()

	_, err = cache.Records(ctx)
	require.NoError(t, err)
	assert.Equal(t, 2, lister.loadCount())
}

func TestFaceCacheStatus(t *testing.T) {
	lister := &fakeLister{records: []entity.FaceRecord{record("S1", 0.1), record("S2", 0.2)}}
	cache, clock := newTestCache(lister, 60*time.Second)

	status := cache.Status()
	assert.Equal(t, 0, status.CachedCount)
	assert.True(t, status.LastRefreshedAt.IsZero())

	_, err := cache.Records(context.Background())
	require.NoError(t, err)

	status = cache.Status()
	assert.Equal(t, 2, status.CachedCount)
	assert.Equal(t, clock.now(), status.LastRefreshedAt)
	assert.Equal(t, 60, status.TTLSeconds)
}
