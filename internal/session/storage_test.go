package session

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"edalens/domain/core"
	"edalens/domain/dataset"
)

type fakeClock struct {
	mu  sync.Mutex
	now time.Time
}

func (c *fakeClock) Now() time.Time {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.now
}

func (c *fakeClock) Advance(d time.Duration) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.now = c.now.Add(d)
}

func testTable(t *testing.T) *dataset.Table {
	t.Helper()
	table, err := dataset.NewTable("t.csv", []dataset.Column{{
		Name:    "a",
		Kind:    dataset.KindCategorical,
		Raw:     []string{"x", "y"},
		Missing: []bool{false, false},
	}})
	require.NoError(t, err)
	return table
}

func TestTouchCreatesEmptySession(t *testing.T) {
	store := NewStore(time.Minute, nil)
	id := core.NewSessionID()

	sess := store.Touch(id)
	assert.Equal(t, id, sess.ID)
	assert.Equal(t, StateEmpty, sess.State)
	assert.False(t, sess.HasTable())
	assert.Equal(t, 1, store.Len())

	store.Touch(id)
	assert.Equal(t, 1, store.Len())
}

func TestLoadThenFailClearsTable(t *testing.T) {
	store := NewStore(time.Minute, nil)
	id := core.NewSessionID()
	table := testTable(t)

	loaded := store.Load(id, "t.csv", core.NewHash([]byte("x")), table)
	assert.Equal(t, StateLoaded, loaded.State)
	assert.True(t, loaded.HasTable())
	assert.Same(t, table, loaded.Table)
	assert.False(t, loaded.LoadedAt.IsZero())

	failed := store.Fail(id, "bad.csv", "Error loading file: boom")
	assert.Equal(t, StateError, failed.State)
	assert.Nil(t, failed.Table)
	assert.Equal(t, "Error loading file: boom", failed.Err)

	got, ok := store.Get(id)
	require.True(t, ok)
	assert.False(t, got.HasTable())
}

func TestReloadReplacesTable(t *testing.T) {
	store := NewStore(time.Minute, nil)
	id := core.NewSessionID()

	store.Fail(id, "bad.csv", "nope")
	second := testTable(t)
	sess := store.Load(id, "good.csv", "", second)

	assert.Equal(t, "good.csv", sess.FileName)
	assert.Empty(t, sess.Err)
	assert.Same(t, second, sess.Table)
}

func TestResetAndSweep(t *testing.T) {
	clock := &fakeClock{now: time.Date(2024, 1, 2, 3, 4, 5, 0, time.UTC)}
	var sizes []int
	store := NewStore(10*time.Minute, nil,
		WithClock(clock.Now),
		WithResizeHook(func(n int) { sizes = append(sizes, n) }),
	)

	stale := core.NewSessionID()
	fresh := core.NewSessionID()
	gone := core.NewSessionID()
	store.Touch(stale)
	store.Touch(gone)
	store.Reset(gone)

	clock.Advance(8 * time.Minute)
	store.Touch(fresh)
	clock.Advance(5 * time.Minute)

	assert.Equal(t, 1, store.Sweep())
	_, ok := store.Get(stale)
	assert.False(t, ok)
	_, ok = store.Get(fresh)
	assert.True(t, ok)

	assert.Equal(t, []int{1, 2, 1, 2, 1}, sizes)
}

func TestRunStopsOnCancel(t *testing.T) {
	store := NewStore(time.Nanosecond, nil)
	store.Touch(core.NewSessionID())

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan struct{})
	go func() {
		store.Run(ctx, time.Millisecond)
		close(done)
	}()

	require.Eventually(t, func() bool { return store.Len() == 0 }, time.Second, time.Millisecond)
	cancel()
	select {
	case <-done:
	case <-time.After(time.Second):
		t.Fatal("Run did not return after cancel")
	}
}
