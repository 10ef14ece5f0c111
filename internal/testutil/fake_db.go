package testutil

import (
	"context"
	"sync"

	"gorm.io/gorm"

	"github.com/servicehq/servicehub/internal/postgres"
	"github.com/servicehq/servicehub/internal/types"
)

// FakeDBClient implements postgres.IClient against in-memory stores. WithTx
// snapshots every registered store before running fn and restores them when
// fn fails, so rollback semantics hold in service tests. Advisory lock
// acquisitions are counted rather than enforced.
type FakeDBClient struct {
	mu     sync.Mutex
	stores []Snapshotter
	locks  map[string]int
}

func NewFakeDBClient(stores ...Snapshotter) *FakeDBClient {
	return &FakeDBClient{
		stores: stores,
		locks:  make(map[string]int),
	}
}

var _ postgres.IClient = (*FakeDBClient)(nil)

// Querier is unused by the in-memory repositories.
func (c *FakeDBClient) Querier(ctx context.Context) *gorm.DB {
	return nil
}

func (c *FakeDBClient) WithTx(ctx context.Context, fn func(ctx context.Context) error) error {
	c.mu.Lock()
	snapshots := make([]any, len(c.stores))
	for i, s := range c.stores {
		snapshots[i] = s.Snapshot()
	}
	c.mu.Unlock()

	if err := fn(ctx); err != nil {
		c.mu.Lock()
		for i, s := range c.stores {
			s.Restore(snapshots[i])
		}
		c.mu.Unlock()
		return err
	}
	return nil
}

// LockKey records the acquisition and succeeds. Serialization under test
// comes from the status compare-and-set in the stores.
func (c *FakeDBClient) LockKey(ctx context.Context, req types.LockRequest) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.locks[req.Key]++
	return nil
}

func (c *FakeDBClient) TryLockKey(ctx context.Context, key string) (bool, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.locks[key]++
	return true, nil
}

// LockCount reports how often a key was locked; used to assert that the
// money path takes its advisory lock.
func (c *FakeDBClient) LockCount(key string) int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.locks[key]
}
