// Package store implements the local snapshot store: a namespaced
// key/value layer where each state slice is persisted as a versioned JSON
// envelope. Reads fail soft: any parse error, shape mismatch, or missing
// migration step yields the caller's default instead of an error, so a
// corrupt snapshot can never take down the engines that run unattended at
// startup.
package store

import (
	"encoding/json"
	"log"
)

// CurrentVersion is the envelope format version written by Save.
type envelope struct {
	Version int             `json:"version"`
	Date    string          `json:"date,omitempty"`
	Data    json.RawMessage `json:"data"`
}

const CurrentVersion = 2

// Store namespaces a Backend per user.
type Store struct {
	backend Backend
	ns      string
}

// New returns a store whose keys are prefixed with the given namespace
// (the user id).
func New(backend Backend, namespace string) *Store {
	return &Store{backend: backend, ns: namespace}
}

func (s *Store) fullKey(key string) string {
	return s.ns + ":" + key
}

// Load reads the slice stored under key into a value of type T. It never
// fails: absence, malformed JSON, an unknown envelope version, or data
// whose shape does not decode into T all return def.
func Load[T any](s *Store, key string, def T) T {
	v, _ := LoadDated(s, key, def)
	return v
}

// LoadDated is Load plus the envelope's stored date stamp ("" when absent
// or defaulted). The rollover engine compares it against today.
func LoadDated[T any](s *Store, key string, def T) (T, string) {
	raw, ok, err := s.backend.Get(s.fullKey(key))
	if err != nil {
		log.Printf("[Store] read %s failed: %v", key, err)
		return def, ""
	}
	if !ok {
		return def, ""
	}

	var env envelope
	if err := json.Unmarshal([]byte(raw), &env); err != nil {
		log.Printf("[Store] discarding corrupt envelope for %s: %v", key, err)
		return def, ""
	}
	if env.Data == nil {
		return def, ""
	}

	data, err := migrate(key, env.Version, env.Data)
	if err != nil {
		log.Printf("[Store] discarding unmigratable payload for %s (v%d): %v", key, env.Version, err)
		return def, ""
	}

	var v T
	if err := json.Unmarshal(data, &v); err != nil {
		log.Printf("[Store] discarding mismatched payload for %s: %v", key, err)
		return def, ""
	}
	return v, env.Date
}

// Save wraps the value in a current-version envelope and persists it.
func Save[T any](s *Store, key string, value T) error {
	return SaveDated(s, key, value, "")
}

// SaveDated is Save with a date stamp on the envelope. Used for the
// dailyGoals slice, whose stamp drives the daily rollover.
func SaveDated[T any](s *Store, key string, value T, date string) error {
	data, err := json.Marshal(value)
	if err != nil {
		return err
	}
	raw, err := json.Marshal(envelope{Version: CurrentVersion, Date: date, Data: data})
	if err != nil {
		return err
	}
	return s.backend.Set(s.fullKey(key), string(raw))
}

// StoredDate returns the envelope date stamp for a key without decoding
// its payload.
func (s *Store) StoredDate(key string) string {
	raw, ok, err := s.backend.Get(s.fullKey(key))
	if err != nil || !ok {
		return ""
	}
	var env envelope
	if err := json.Unmarshal([]byte(raw), &env); err != nil {
		return ""
	}
	return env.Date
}

// Has reports whether any envelope exists for the key.
func (s *Store) Has(key string) bool {
	_, ok, err := s.backend.Get(s.fullKey(key))
	return err == nil && ok
}

// Delete removes the stored envelope for a key.
func (s *Store) Delete(key string) error {
	return s.backend.Delete(s.fullKey(key))
}
