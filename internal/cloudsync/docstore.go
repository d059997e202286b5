// Package cloudsync mirrors per-user state to a remote document store:
// one JSON blob per user, whole-document last-write-wins, no server-side
// merge. Pushes are coalesced through a debounced outbox.
package cloudsync

import (
	"context"
	"encoding/json"
	"fmt"
	"sync"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/nutrisync/backend/internal/types"
)

// DocumentStore is the cloud collaborator: a single JSON document per
// user id with upsert semantics and no schema enforcement.
type DocumentStore interface {
	// Select fetches the user's document. Returns (nil, nil) when the
	// user has no document yet.
	Select(ctx context.Context, userID string) (*types.CloudDocument, error)
	// Upsert overwrites the user's document wholesale.
	Upsert(ctx context.Context, userID string, doc *types.CloudDocument) error
}

const redisDocPrefix = "nutrisync:doc:"

// RedisDocumentStore keeps user documents as JSON strings in Redis.
type RedisDocumentStore struct {
	client *redis.Client
}

// NewRedisDocumentStore wraps an existing Redis client.
func NewRedisDocumentStore(client *redis.Client) *RedisDocumentStore {
	return &RedisDocumentStore{client: client}
}

func (s *RedisDocumentStore) Select(ctx context.Context, userID string) (*types.CloudDocument, error) {
	raw, err := s.client.Get(ctx, redisDocPrefix+userID).Bytes()
	if err == redis.Nil {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to fetch document: %w", err)
	}

	var doc types.CloudDocument
	if err := json.Unmarshal(raw, &doc); err != nil {
		return nil, fmt.Errorf("failed to decode document: %w", err)
	}
	return &doc, nil
}

func (s *RedisDocumentStore) Upsert(ctx context.Context, userID string, doc *types.CloudDocument) error {
	data, err := json.Marshal(doc)
	if err != nil {
		return fmt.Errorf("failed to marshal document: %w", err)
	}
	if err := s.client.Set(ctx, redisDocPrefix+userID, data, 0).Err(); err != nil {
		return fmt.Errorf("failed to upsert document: %w", err)
	}
	return nil
}

// MemoryDocumentStore is an in-process DocumentStore for tests and for
// running without a Redis instance.
type MemoryDocumentStore struct {
	mu   sync.RWMutex
	docs map[string][]byte
	// FailUpserts makes Upsert return an error while > 0, decrementing
	// per call. Tests use it to drive the outbox retry path.
	FailUpserts int
	upserts     int
}

// NewMemoryDocumentStore returns an empty in-memory store.
func NewMemoryDocumentStore() *MemoryDocumentStore {
	return &MemoryDocumentStore{docs: make(map[string][]byte)}
}

func (s *MemoryDocumentStore) Select(_ context.Context, userID string) (*types.CloudDocument, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	raw, ok := s.docs[userID]
	if !ok {
		return nil, nil
	}
	var doc types.CloudDocument
	if err := json.Unmarshal(raw, &doc); err != nil {
		return nil, err
	}
	return &doc, nil
}

func (s *MemoryDocumentStore) Upsert(_ context.Context, userID string, doc *types.CloudDocument) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.FailUpserts > 0 {
		s.FailUpserts--
		return fmt.Errorf("simulated upsert failure")
	}
	data, err := json.Marshal(doc)
	if err != nil {
		return err
	}
	s.docs[userID] = data
	s.upserts++
	return nil
}

// UpsertCount returns how many upserts have succeeded.
func (s *MemoryDocumentStore) UpsertCount() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.upserts
}

// WaitForUpserts polls until at least n upserts have succeeded or the
// timeout elapses. Test helper for the asynchronous outbox.
func (s *MemoryDocumentStore) WaitForUpserts(n int, timeout time.Duration) bool {
	deadline := time.Now().Add(timeout)
	for time.Now().Before(deadline) {
		if s.UpsertCount() >= n {
			return true
		}
		time.Sleep(5 * time.Millisecond)
	}
	return s.UpsertCount() >= n
}
