// Package cache is a content-addressable result cache: one JSON file per
// entry, keyed by the SHA-256 digest of a canonical descriptor serialization.
// Entries are written once per key and never expire; staleness against model
// or corpus changes is an accepted limitation because neither is part of the
// key.
package cache

import (
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"errors"
	"io/fs"
	"os"
	"path/filepath"

	"github.com/rotisserie/eris"
)

// EvictionPolicy observes cache writes. The default policy never evicts,
// matching the unbounded-growth behavior callers currently rely on; bounded
// policies can plug in here without touching orchestration code.
type EvictionPolicy interface {
	OnWrite(dir, key string)
}

type noEviction struct{}

func (noEviction) OnWrite(string, string) {}

// Store is a flat key→blob cache rooted at a single directory. The directory
// is created lazily on first write, never cleaned. Concurrent get/compute/put
// for the same key is an accepted race: results are idempotent, so the
// duplicate upstream work is wasteful but harmless.
type Store struct {
	dir    string
	policy EvictionPolicy
}

// Option configures a Store.
type Option func(*Store)

// WithEvictionPolicy replaces the default no-op eviction policy.
func WithEvictionPolicy(p EvictionPolicy) Option {
	return func(s *Store) {
		s.policy = p
	}
}

// New creates a Store rooted at dir.
func New(dir string, opts ...Option) *Store {
	s := &Store{dir: dir, policy: noEviction{}}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Key derives the storage key for a descriptor: strings are hashed verbatim,
// anything else is hashed over its deterministic JSON serialization. Two
// semantically identical descriptors always map to the same key.
func Key(descriptor any) (string, error) {
	var canonical []byte
	switch d := descriptor.(type) {
	case string:
		canonical = []byte(d)
	default:
		b, err := json.Marshal(descriptor)
		if err != nil {
			return "", eris.Wrap(err, "cache: serialize descriptor")
		}
		canonical = b
	}
	sum := sha256.Sum256(canonical)
	return hex.EncodeToString(sum[:]), nil
}

// Get reads the entry for descriptor into out. Returns false with no error
// when the key has never been written. A nil store never hits.
func (s *Store) Get(descriptor any, out any) (bool, error) {
	if s == nil {
		return false, nil
	}
	key, err := Key(descriptor)
	if err != nil {
		return false, err
	}
	data, err := os.ReadFile(s.path(key))
	if errors.Is(err, fs.ErrNotExist) {
		return false, nil
	}
	if err != nil {
		return false, eris.Wrapf(err, "cache: read entry %s", key)
	}
	if err := json.Unmarshal(data, out); err != nil {
		return false, eris.Wrapf(err, "cache: decode entry %s", key)
	}
	return true, nil
}

// Put writes the entry for descriptor, creating the cache directory if
// needed. An existing entry for the same key is overwritten; last writer
// wins. A nil store discards the write.
func (s *Store) Put(descriptor any, entry any) error {
	if s == nil {
		return nil
	}
	key, err := Key(descriptor)
	if err != nil {
		return err
	}
	if err := os.MkdirAll(s.dir, 0o755); err != nil {
		return eris.Wrap(err, "cache: create directory")
	}
	data, err := json.Marshal(entry)
	if err != nil {
		return eris.Wrapf(err, "cache: encode entry %s", key)
	}
	if err := os.WriteFile(s.path(key), data, 0o644); err != nil {
		return eris.Wrapf(err, "cache: write entry %s", key)
	}
	s.policy.OnWrite(s.dir, key)
	return nil
}

func (s *Store) path(key string) string {
	return filepath.Join(s.dir, key+".json")
}
