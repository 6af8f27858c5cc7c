package querycache

import (
	"context"
	"errors"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestGetCachesUntilTTL(t *testing.T) {
	c := New[int](time.Minute)
	now := time.Unix(0, 0)
	c.now = func() time.Time { return now }

	var calls int32
	fetch := func(ctx context.Context) (int, error) {
		atomic.AddInt32(&calls, 1)
		return 42, nil
	}

	v, err := c.Get(context.Background(), KeyStatistics, fetch)
	require.NoError(t, err)
	assert.Equal(t, 42, v)

	v, err = c.Get(context.Background(), KeyStatistics, fetch)
	require.NoError(t, err)
	assert.Equal(t, 42, v)
	assert.Equal(t, int32(1), atomic.LoadInt32(&calls))

	now = now.Add(time.Minute + time.Second)
	_, err = c.Get(context.Background(), KeyStatistics, fetch)
	require.NoError(t, err)
	assert.Equal(t, int32(2), atomic.LoadInt32(&calls))
}

func TestGetDedupesConcurrentFetches(t *testing.T) {
	c := New[string](time.Minute)

	var calls int32
	release := make(chan struct{})
	fetch := func(ctx context.Context) (string, error) {
		atomic.AddInt32(&calls, 1)
		<-release
		return "shared", nil
	}

	var wg sync.WaitGroup
	for i := 0; i < 10; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			v, err := c.Get(context.Background(), KeyAppeals, fetch)
			assert.NoError(t, err)
			assert.Equal(t, "shared", v)
		}()
	}

	time.Sleep(50 * time.Millisecond)
	close(release)
	wg.Wait()

	assert.Equal(t, int32(1), atomic.LoadInt32(&calls))
}

func TestFailedFetchKeepsStaleValue(t *testing.T) {
	c := New[int](time.Minute)
	now := time.Unix(0, 0)
	c.now = func() time.Time { return now }

	_, err := c.Get(context.Background(), KeyStatistics, func(ctx context.Context) (int, error) {
		return 7, nil
	})
	require.NoError(t, err)

	now = now.Add(2 * time.Minute)
	v, err := c.Get(context.Background(), KeyStatistics, func(ctx context.Context) (int, error) {
		return 0, errors.New("db down")
	})
	require.Error(t, err)
	assert.Equal(t, 7, v)
}

func TestInvalidatePrefixDropsMatchingKeys(t *testing.T) {
	c := New[int](time.Minute)
	fetch := func(v int) Fetcher[int] {
		return func(ctx context.Context) (int, error) { return v, nil }
	}

	_, _ = c.Get(context.Background(), KeyAppeals+"?status=new", fetch(1))
	_, _ = c.Get(context.Background(), KeyAppeals+"?status=closed", fetch(2))
	_, _ = c.Get(context.Background(), KeyCategories, fetch(3))
	require.Equal(t, 3, c.Len())

	c.InvalidatePrefix(KeyAppeals)
	assert.Equal(t, 1, c.Len())
}

func TestInvalidateForAppliesMutationTable(t *testing.T) {
	c := New[int](time.Minute)
	fetch := func(v int) Fetcher[int] {
		return func(ctx context.Context) (int, error) { return v, nil }
	}

	_, _ = c.Get(context.Background(), KeyAppeals, fetch(1))
	_, _ = c.Get(context.Background(), KeyStatistics, fetch(2))
	_, _ = c.Get(context.Background(), KeySettings, fetch(3))

	c.InvalidateFor("appeal.create")

	assert.Equal(t, 1, c.Len())
	var calls int32
	v, err := c.Get(context.Background(), KeySettings, func(ctx context.Context) (int, error) {
		atomic.AddInt32(&calls, 1)
		return 0, nil
	})
	require.NoError(t, err)
	assert.Equal(t, 3, v)
	assert.Zero(t, atomic.LoadInt32(&calls))
}

func TestEveryMutationNamesAtLeastOneKey(t *testing.T) {
	for mutation, prefixes := range Mutations {
		assert.NotEmptyf(t, prefixes, "mutation %q invalidates nothing", mutation)
	}
}

func TestPollRefreshesUntilCancelled(t *testing.T) {
	c := New[int](time.Hour)
	ctx, cancel := context.WithCancel(context.Background())

	var calls int32
	go c.Poll(ctx, KeyNotifications, 10*time.Millisecond, func(ctx context.Context) (int, error) {
		return int(atomic.AddInt32(&calls, 1)), nil
	})

	assert.Eventually(t, func() bool {
		return atomic.LoadInt32(&calls) >= 3
	}, time.Second, 5*time.Millisecond)

	cancel()
	time.Sleep(30 * time.Millisecond)
	stopped := atomic.LoadInt32(&calls)
	time.Sleep(50 * time.Millisecond)
	assert.Equal(t, stopped, atomic.LoadInt32(&calls))
}
