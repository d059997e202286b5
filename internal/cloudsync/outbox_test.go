package cloudsync

import (
	"context"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/nutrisync/backend/internal/types"
)

func countingSnapshot(calls *atomic.Int32) SnapshotFunc {
	return func() *types.CloudDocument {
		calls.Add(1)
		name := "Nova"
		return &types.CloudDocument{AssistantName: &name, UpdatedAt: time.Now()}
	}
}

func TestOutboxDebounceCoalesces(t *testing.T) {
	store := NewMemoryDocumentStore()
	var calls atomic.Int32
	ob := NewOutbox(store, "user-1", countingSnapshot(&calls), 30*time.Millisecond)
	defer ob.Close()

	// A burst of changes inside one debounce window.
	for i := 0; i < 10; i++ {
		ob.MarkDirty()
		time.Sleep(time.Millisecond)
	}

	require.True(t, store.WaitForUpserts(1, time.Second))
	// Stable after the flush: no stragglers.
	time.Sleep(100 * time.Millisecond)
	assert.Equal(t, 1, store.UpsertCount())
	assert.Equal(t, int32(1), calls.Load())
	assert.Equal(t, StateIdle, ob.State())
}

func TestOutboxSnapshotTakenAtSendTime(t *testing.T) {
	store := NewMemoryDocumentStore()
	var calls atomic.Int32
	ob := NewOutbox(store, "user-1", countingSnapshot(&calls), 20*time.Millisecond)
	defer ob.Close()

	ob.MarkDirty()
	// Snapshot must not run while the debounce window is open.
	assert.Equal(t, int32(0), calls.Load())
	assert.Equal(t, StatePending, ob.State())

	require.True(t, store.WaitForUpserts(1, time.Second))
	assert.Equal(t, int32(1), calls.Load())
}

func TestOutboxRetriesOnFailure(t *testing.T) {
	store := NewMemoryDocumentStore()
	store.FailUpserts = 2
	var calls atomic.Int32
	ob := NewOutbox(store, "user-1", countingSnapshot(&calls), 10*time.Millisecond)
	defer ob.Close()

	ob.MarkDirty()

	// Two failures, then success on the third attempt via backoff.
	require.True(t, store.WaitForUpserts(1, 5*time.Second))
	assert.Equal(t, 1, store.UpsertCount())
}

func TestOutboxDirtyDuringSendSchedulesFollowUp(t *testing.T) {
	store := NewMemoryDocumentStore()
	slow := func() *types.CloudDocument {
		time.Sleep(50 * time.Millisecond)
		return &types.CloudDocument{}
	}
	ob := NewOutbox(store, "user-1", slow, 10*time.Millisecond)
	defer ob.Close()

	ob.MarkDirty()
	// Wait until the slow snapshot is in flight, then dirty again.
	time.Sleep(30 * time.Millisecond)
	ob.MarkDirty()

	require.True(t, store.WaitForUpserts(2, 2*time.Second))
}

func TestOutboxFlushBypassesDebounce(t *testing.T) {
	store := NewMemoryDocumentStore()
	var calls atomic.Int32
	ob := NewOutbox(store, "user-1", countingSnapshot(&calls), time.Hour)
	defer ob.Close()

	ob.MarkDirty()
	require.NoError(t, ob.Flush(context.Background()))
	assert.Equal(t, 1, store.UpsertCount())
	assert.Equal(t, StateIdle, ob.State())
}

func TestOutboxCloseStopsPushes(t *testing.T) {
	store := NewMemoryDocumentStore()
	var calls atomic.Int32
	ob := NewOutbox(store, "user-1", countingSnapshot(&calls), 20*time.Millisecond)

	ob.MarkDirty()
	ob.Close()
	ob.MarkDirty()

	time.Sleep(100 * time.Millisecond)
	assert.Equal(t, 0, store.UpsertCount())
}

func TestMemoryStoreRoundTrip(t *testing.T) {
	store := NewMemoryDocumentStore()
	ctx := context.Background()

	doc, err := store.Select(ctx, "absent")
	require.NoError(t, err)
	assert.Nil(t, doc)

	name := "Coach"
	require.NoError(t, store.Upsert(ctx, "user-1", &types.CloudDocument{AssistantName: &name}))

	doc, err = store.Select(ctx, "user-1")
	require.NoError(t, err)
	require.NotNil(t, doc)
	require.NotNil(t, doc.AssistantName)
	assert.Equal(t, "Coach", *doc.AssistantName)
	// Keys never written stay absent so a pull cannot clobber them.
	assert.Nil(t, doc.Recipes)
}
