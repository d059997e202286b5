package cloudsync

import (
	"context"
	"log"
	"sync"
	"time"

	"github.com/cenkalti/backoff/v4"

	"github.com/nutrisync/backend/internal/types"
)

// State is the outbox's position in its push cycle.
type State int

const (
	// StateIdle: nothing to push.
	StateIdle State = iota
	// StatePending: a change is waiting out the debounce window.
	StatePending
	// StateSending: one push is in flight.
	StateSending
	// StateRetrying: the last push failed and a backoff timer is armed.
	StateRetrying
)

func (s State) String() string {
	switch s {
	case StatePending:
		return "pending"
	case StateSending:
		return "sending"
	case StateRetrying:
		return "retrying"
	default:
		return "idle"
	}
}

// SnapshotFunc produces the full consolidated state snapshot to push.
// It is called at send time, never earlier, so rapid local mutations
// coalesce into one outgoing document.
type SnapshotFunc func() *types.CloudDocument

// Outbox coalesces local state changes into debounced whole-document
// pushes with a single in-flight-write guard and exponential backoff on
// failure. A push that exhausts its retries is dropped: local persistence
// has already succeeded, so sync failures are non-fatal.
type Outbox struct {
	store       DocumentStore
	userID      string
	snapshot    SnapshotFunc
	debounce    time.Duration
	sendTimeout time.Duration

	mu     sync.Mutex
	state  State
	timer  *time.Timer
	bo     *backoff.ExponentialBackOff
	dirty  bool
	closed bool
}

// NewOutbox creates an outbox pushing to store for the given user.
func NewOutbox(store DocumentStore, userID string, snapshot SnapshotFunc, debounce time.Duration) *Outbox {
	bo := backoff.NewExponentialBackOff()
	bo.InitialInterval = 500 * time.Millisecond
	bo.MaxInterval = 30 * time.Second
	bo.MaxElapsedTime = 2 * time.Minute
	return &Outbox{
		store:       store,
		userID:      userID,
		snapshot:    snapshot,
		debounce:    debounce,
		sendTimeout: 10 * time.Second,
		bo:          bo,
	}
}

// MarkDirty records a local state change. It cancels any pending send and
// restarts the debounce window; a change arriving while a send is in
// flight schedules a follow-up push once the send completes.
func (o *Outbox) MarkDirty() {
	o.mu.Lock()
	defer o.mu.Unlock()
	if o.closed {
		return
	}
	o.bo.Reset()
	if o.state == StateSending {
		o.dirty = true
		return
	}
	if o.timer != nil {
		o.timer.Stop()
	}
	o.state = StatePending
	o.timer = time.AfterFunc(o.debounce, o.send)
}

// State returns the current outbox state.
func (o *Outbox) State() State {
	o.mu.Lock()
	defer o.mu.Unlock()
	return o.state
}

// Flush pushes the current snapshot synchronously, bypassing the debounce
// window. Used at shutdown and in tests.
func (o *Outbox) Flush(ctx context.Context) error {
	o.mu.Lock()
	if o.timer != nil {
		o.timer.Stop()
	}
	o.state = StateSending
	o.mu.Unlock()

	err := o.store.Upsert(ctx, o.userID, o.snapshot())

	o.mu.Lock()
	o.state = StateIdle
	o.dirty = false
	o.mu.Unlock()
	return err
}

// Close stops any pending timers. Subsequent MarkDirty calls are ignored.
func (o *Outbox) Close() {
	o.mu.Lock()
	defer o.mu.Unlock()
	o.closed = true
	if o.timer != nil {
		o.timer.Stop()
	}
	o.state = StateIdle
}

// send runs on the debounce or retry timer.
func (o *Outbox) send() {
	o.mu.Lock()
	if o.closed || (o.state != StatePending && o.state != StateRetrying) {
		o.mu.Unlock()
		return
	}
	o.state = StateSending
	o.dirty = false
	o.mu.Unlock()

	ctx, cancel := context.WithTimeout(context.Background(), o.sendTimeout)
	err := o.store.Upsert(ctx, o.userID, o.snapshot())
	cancel()

	o.mu.Lock()
	defer o.mu.Unlock()
	if o.closed {
		return
	}

	if err != nil {
		next := o.bo.NextBackOff()
		if next == backoff.Stop {
			log.Printf("[Sync] dropping push for user %s after exhausting retries: %v", o.userID, err)
			o.state = StateIdle
			return
		}
		log.Printf("[Sync] push for user %s failed, retrying in %s: %v", o.userID, next, err)
		o.state = StateRetrying
		o.timer = time.AfterFunc(next, o.send)
		return
	}

	o.bo.Reset()
	if o.dirty {
		// State changed mid-send; the pushed snapshot is already stale.
		o.state = StatePending
		o.timer = time.AfterFunc(o.debounce, o.send)
		return
	}
	o.state = StateIdle
}
