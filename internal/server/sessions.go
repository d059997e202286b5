package server

import (
	"context"
	"log"
	"sync"
	"time"

	"github.com/nutrisync/backend/internal/cloudsync"
	"github.com/nutrisync/backend/internal/state"
	"github.com/nutrisync/backend/internal/store"
	"github.com/nutrisync/backend/internal/types"
)

// SessionRegistry hands out one state.Session per user, created lazily on
// first request after login. Creation loads the local snapshots, runs the
// daily rollover, pulls the cloud document once and attaches the sync
// outbox.
type SessionRegistry struct {
	backend  store.Backend
	docs     cloudsync.DocumentStore
	debounce time.Duration
	clock    func() time.Time

	mu       sync.Mutex
	sessions map[string]*sessionEntry
}

type sessionEntry struct {
	session *state.Session
	outbox  *cloudsync.Outbox
}

// NewSessionRegistry wires the snapshot backend and cloud document store.
func NewSessionRegistry(backend store.Backend, docs cloudsync.DocumentStore, debounce time.Duration) *SessionRegistry {
	return &SessionRegistry{
		backend:  backend,
		docs:     docs,
		debounce: debounce,
		clock:    time.Now,
		sessions: make(map[string]*sessionEntry),
	}
}

// WithClock overrides the wall clock for all sessions created afterwards.
func (r *SessionRegistry) WithClock(now func() time.Time) *SessionRegistry {
	r.clock = now
	return r
}

// Get returns the user's session, creating it on first use.
func (r *SessionRegistry) Get(ctx context.Context, userID string) *state.Session {
	r.mu.Lock()
	defer r.mu.Unlock()

	if entry, ok := r.sessions[userID]; ok {
		return entry.session
	}

	st := store.New(r.backend, userID)

	// The outbox snapshots lazily at send time, so it can be created
	// before the session it will snapshot.
	var sess *state.Session
	outbox := cloudsync.NewOutbox(r.docs, userID, func() *types.CloudDocument { return sess.Snapshot() }, r.debounce)
	sess = state.NewSession(userID, st, state.WithClock(r.clock), state.WithPusher(outbox))

	// One-time pull: slices present in the cloud document overwrite the
	// local ones. A pull failure leaves local state authoritative.
	if doc, err := r.docs.Select(ctx, userID); err != nil {
		log.Printf("[Sessions] cloud pull for user %s failed: %v", userID, err)
	} else if doc != nil {
		sess.ApplyCloudDocument(doc)
	}

	r.sessions[userID] = &sessionEntry{session: sess, outbox: outbox}
	return sess
}

// Outbox returns the user's sync outbox, or nil when no session exists.
func (r *SessionRegistry) Outbox(userID string) *cloudsync.Outbox {
	r.mu.Lock()
	defer r.mu.Unlock()
	if entry, ok := r.sessions[userID]; ok {
		return entry.outbox
	}
	return nil
}

// Close flushes every outbox so shutdown does not lose debounced pushes.
func (r *SessionRegistry) Close(ctx context.Context) {
	r.mu.Lock()
	entries := make([]*sessionEntry, 0, len(r.sessions))
	for _, e := range r.sessions {
		entries = append(entries, e)
	}
	r.mu.Unlock()

	for _, e := range entries {
		if err := e.outbox.Flush(ctx); err != nil {
			log.Printf("[Sessions] final flush failed: %v", err)
		}
		e.outbox.Close()
	}
}
