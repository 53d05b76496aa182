// Package cache persists a TTL-bounded snapshot of the merged article
// stream so a cold start can render instantly while the fan-out runs.
//
// Reads never fail: an expired, missing, or malformed snapshot is
// simply absent. Writes are best-effort and errors are swallowed; the
// snapshot is always overwritten at the end of a refresh cycle.
package cache

import (
	"encoding/json"
	"time"

	"github.com/newsbrief/newsbrief/model"
	"github.com/newsbrief/newsbrief/store"
)

// TTL is the maximum age at which a snapshot is still served.
const TTL = 15 * time.Minute

// Snapshot is a captured article stream. On the wire the timestamp is
// epoch milliseconds and article dates are ISO-8601; any other shape is
// treated as invalid.
type Snapshot struct {
	FetchedAt time.Time
	Articles  []model.Article
}

// Age returns how long ago the snapshot was captured.
func (s *Snapshot) Age() time.Duration {
	return time.Since(s.FetchedAt)
}

type snapshotBlob struct {
	Timestamp int64           `json:"timestamp"`
	Articles  []model.Article `json:"articles"`
}

// Cache stores snapshots through the key-value store.
type Cache struct {
	store *store.Store
	ttl   time.Duration
	now   func() time.Time
}

// New creates a Cache with the default TTL.
func New(s *store.Store) *Cache {
	return &Cache{store: s, ttl: TTL, now: time.Now}
}

// Read returns the stored snapshot if it is present, well-formed, and
// younger than the TTL. The second return is false otherwise; a stale
// or unreadable snapshot is never an error.
func (c *Cache) Read() (*Snapshot, bool) {
	raw, ok := c.store.Snapshot()
	if !ok {
		return nil, false
	}

	var blob snapshotBlob
	if err := json.Unmarshal([]byte(raw), &blob); err != nil {
		return nil, false
	}
	if blob.Timestamp <= 0 || blob.Articles == nil {
		return nil, false
	}

	fetchedAt := time.UnixMilli(blob.Timestamp)
	if c.now().Sub(fetchedAt) >= c.ttl {
		return nil, false
	}

	return &Snapshot{FetchedAt: fetchedAt, Articles: blob.Articles}, true
}

// Write replaces the stored snapshot with the given articles, stamped
// now. Best-effort: a failed write (quota, serialization) is swallowed
// and must never fail the surrounding refresh.
func (c *Cache) Write(articles []model.Article) {
	if articles == nil {
		articles = []model.Article{}
	}

	blob := snapshotBlob{
		Timestamp: c.now().UnixMilli(),
		Articles:  articles,
	}
	data, err := json.Marshal(blob)
	if err != nil {
		return
	}
	_ = c.store.SaveSnapshot(string(data))
}
