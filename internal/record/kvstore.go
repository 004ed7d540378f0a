package record

import (
	"context"
	"encoding/json"
	"fmt"
	"sync"

	"attensync/internal/kv"
)

// DataKey is the durable key holding the JSON-encoded record list.
const DataKey = "attensync:data"

// KVStore keeps the whole list under a single durable key, mirroring the
// original single-blob storage schema. The mutex spans load+flush so
// concurrent request goroutines cannot interleave and lose a write; across
// multiple API instances the key would additionally need WATCH or a
// single-writer guarantee.
type KVStore struct {
	mu    sync.Mutex
	store kv.Store
	seed  []Record
}

// NewKVStore creates a store over the given key-value backend. The seed roster
// is served until the first write lands.
func NewKVStore(store kv.Store) *KVStore {
	return &KVStore{store: store, seed: Seed()}
}

// NewEmptyKVStore creates a store with no seed roster, for tests.
func NewEmptyKVStore(store kv.Store) *KVStore {
	return &KVStore{store: store}
}

func (s *KVStore) load(ctx context.Context) ([]Record, error) {
	raw, ok, err := s.store.Get(ctx, DataKey)
	if err != nil {
		return nil, fmt.Errorf("read %s: %w", DataKey, err)
	}
	if !ok {
		return append([]Record(nil), s.seed...), nil
	}
	var recs []Record
	if err := json.Unmarshal(raw, &recs); err != nil {
		return nil, fmt.Errorf("decode %s: %w", DataKey, err)
	}
	return recs, nil
}

func (s *KVStore) flush(ctx context.Context, recs []Record) error {
	raw, err := json.Marshal(recs)
	if err != nil {
		return fmt.Errorf("encode %s: %w", DataKey, err)
	}
	if err := s.store.Set(ctx, DataKey, raw); err != nil {
		return fmt.Errorf("write %s: %w", DataKey, err)
	}
	return nil
}

// Append prepends rec and flushes the list.
func (s *KVStore) Append(ctx context.Context, rec Record) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	recs, err := s.load(ctx)
	if err != nil {
		return err
	}
	recs = append([]Record{rec}, recs...)
	return s.flush(ctx, recs)
}

// Remove deletes the first record whose id matches and flushes. Unknown ids
// are a no-op without a write.
func (s *KVStore) Remove(ctx context.Context, id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	recs, err := s.load(ctx)
	if err != nil {
		return err
	}
	for i, rec := range recs {
		if rec.ID == id {
			recs = append(recs[:i], recs[i+1:]...)
			return s.flush(ctx, recs)
		}
	}
	return nil
}

// All returns the persisted list, newest first.
func (s *KVStore) All(ctx context.Context) ([]Record, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.load(ctx)
}
