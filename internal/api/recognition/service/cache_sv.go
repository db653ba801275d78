package recognitionService

import (
	"AttendanceGolang/internal/api/recognition"
	"AttendanceGolang/internal/entity"
	"sort"
	"sync"
	"time"

	"github.com/sirupsen/logrus"
	"golang.org/x/net/context"
)

// FaceLister loads the current set of enrolled face records from the
// encoding store.
type FaceLister interface {
	ListEnrolledFaces(ctx context.Context) ([]entity.FaceRecord, error)
}

// FaceCache holds an immutable snapshot of enrolled face records and
// refreshes it when it grows older than the TTL. Readers always get a
// consistent snapshot: a refresh builds a whole new slice and swaps it in,
// it never edits the one readers may still be iterating.
//
// A failed refresh keeps serving the previous snapshot. Matching against
// slightly stale encodings beats refusing to take attendance at all; the
// staleness is visible through Status.
type FaceCache struct {
	log    *logrus.Logger
	lister FaceLister
	ttl    time.Duration
	now    func() time.Time

	mu          sync.RWMutex
	snapshot    []entity.FaceRecord
	refreshedAt time.Time

	refreshMu sync.Mutex
}

func NewFaceCache(log *logrus.Logger, lister FaceLister, ttl time.Duration) *FaceCache {
	return &FaceCache{
		log:    log,
		lister: lister,
		ttl:    ttl,
		now:    time.Now,
	}
}

// Records returns the current snapshot, refreshing it first if the TTL has
// expired. The returned slice is shared and must not be mutated.
func (c *FaceCache) Records(ctx context.Context) ([]entity.FaceRecord, error) {
	c.mu.RLock()
	snapshot, refreshedAt := c.snapshot, c.refreshedAt
	c.mu.RUnlock()

	if snapshot != nil && c.now().Sub(refreshedAt) <= c.ttl {
		return snapshot, nil
	}

	if err := c.Refresh(ctx); err != nil {
		if snapshot != nil {
			c.log.WithFields(logrus.Fields{
				"error":        err.Error(),
				"snapshot_age": c.now().Sub(refreshedAt).String(),
			}).Warn("Face cache refresh failed, serving previous snapshot")
			return snapshot, nil
		}
		return nil, recognition.ErrStoreUnavailable
	}

	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.snapshot, nil
}

// Refresh loads a fresh snapshot from the store and swaps it in.
func (c *FaceCache) Refresh(ctx context.Context) error {
	c.refreshMu.Lock()
	defer c.refreshMu.Unlock()

	// Another caller may have refreshed while this one waited.
	c.mu.RLock()
	fresh := c.snapshot != nil && c.now().Sub(c.refreshedAt) <= c.ttl
	c.mu.RUnlock()
	if fresh {
		return nil
	}

	records, err := c.lister.ListEnrolledFaces(ctx)
	if err != nil {
		return err
	}

	snapshot := make([]entity.FaceRecord, len(records))
	copy(snapshot, records)
	sort.Slice(snapshot, func(i, j int) bool {
		return snapshot[i].StudentNumber < snapshot[j].StudentNumber
	})

	c.mu.Lock()
	c.snapshot = snapshot
	c.refreshedAt = c.now()
	c.mu.Unlock()

	c.log.WithFields(logrus.Fields{
		"cached_count": len(snapshot),
	}).Info("Face cache refreshed")

	return nil
}

// Invalidate expires the snapshot so the next read refreshes. Called after
// an enrollment changes the underlying store.
func (c *FaceCache) Invalidate() {
	c.mu.Lock()
	c.refreshedAt = time.Time{}
	c.mu.Unlock()
}

func (c *FaceCache) Status() entity.FaceCacheStatus {
	c.mu.RLock()
	defer c.mu.RUnlock()

	return entity.FaceCacheStatus{
		CachedCount:     len(c.snapshot),
		LastRefreshedAt: c.refreshedAt,
		TTLSeconds:      int(c.ttl / time.Second),
	}
}
