package jobs

import (
	"context"
	"encoding/json"
	"errors"
	"testing"
	"time"

	"github.com/hibiken/asynq"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/goleak"

	"github.com/sudo-init-do/bazaar/internal/catalog"
)

func testRegistry() *catalog.Registry {
	vendors := func(ids ...string) []catalog.Vendor {
		out := make([]catalog.Vendor, len(ids))
		for i, id := range ids {
			out[i] = catalog.Vendor{ID: id, Offerings: []catalog.Offering{{ID: id + "-1"}}}
		}
		return out
	}
	return catalog.NewRegistry(
		catalog.NewStore(catalog.Construction, vendors("a", "b", "c", "d", "e", "f")),
		catalog.NewStore(catalog.Insurance, vendors("x", "y", "z")),
	)
}

func version(r *catalog.Registry, v catalog.Vertical) uint64 {
	s, _ := r.Store(v)
	return s.Snapshot().Version
}

func TestShuffleAll(t *testing.T) {
	r := testRegistry()
	require.NoError(t, NewShuffler(r).Shuffle("", 0))
	assert.Equal(t, uint64(1), version(r, catalog.Construction))
	assert.Equal(t, uint64(1), version(r, catalog.Insurance))
}

func TestShuffleOneVerticalWithSeed(t *testing.T) {
	a, b := testRegistry(), testRegistry()
	require.NoError(t, NewShuffler(a).Shuffle(catalog.Construction, 99))
	require.NoError(t, NewShuffler(b).Shuffle(catalog.Construction, 99))

	sa, _ := a.Store(catalog.Construction)
	sb, _ := b.Store(catalog.Construction)
	assert.Equal(t, sa.Snapshot().Vendors, sb.Snapshot().Vendors)
	assert.Zero(t, version(a, catalog.Insurance))

	assert.Error(t, NewShuffler(a).Shuffle(catalog.RealEstate, 1))
}

func TestTickerScheduler(t *testing.T) {
	defer goleak.VerifyNone(t)

	r := testRegistry()
	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() {
		done <- (&TickerScheduler{Shuffler: NewShuffler(r), Interval: 5 * time.Millisecond}).Run(ctx)
	}()

	require.Eventually(t, func() bool {
		return version(r, catalog.Construction) >= 2
	}, time.Second, 5*time.Millisecond)

	cancel()
	select {
	case err := <-done:
		assert.NoError(t, err)
	case <-time.After(time.Second):
		t.Fatal("ticker did not stop")
	}
}

func TestHandleShuffleTask(t *testing.T) {
	r := testRegistry()
	a := &AsynqScheduler{Shuffler: NewShuffler(r)}

	task, err := NewShuffleTask(ShufflePayload{Vertical: catalog.Insurance, Seed: 3})
	require.NoError(t, err)
	require.NoError(t, a.handleShuffle(context.Background(), task))
	assert.Equal(t, uint64(1), version(r, catalog.Insurance))
	assert.Zero(t, version(r, catalog.Construction))

	var p ShufflePayload
	require.NoError(t, json.Unmarshal(task.Payload(), &p))
	assert.Equal(t, int64(3), p.Seed)

	bad := asynq.NewTask(TaskShuffle, []byte("{"))
	err = a.handleShuffle(context.Background(), bad)
	assert.True(t, errors.Is(err, asynq.SkipRetry))

	unknown, _ := NewShuffleTask(ShufflePayload{Vertical: catalog.RealEstate})
	err = a.handleShuffle(context.Background(), unknown)
	assert.True(t, errors.Is(err, asynq.SkipRetry))
}

func TestNewAsynqSchedulerParsesURL(t *testing.T) {
	a, err := NewAsynqScheduler(NewShuffler(testRegistry()), time.Minute, "redis://localhost:6379/2")
	require.NoError(t, err)
	opt, ok := a.Redis.(asynq.RedisClientOpt)
	require.True(t, ok)
	assert.Equal(t, "localhost:6379", opt.Addr)
	assert.Equal(t, 2, opt.DB)

	_, err = NewAsynqScheduler(nil, time.Minute, "http://nope")
	assert.Error(t, err)
}
